// Package lexer turns meta-syntax source text into the token.Token stream
// metaast.Parse consumes. Tokenization is external to the meta-AST data
// model proper, but a front-end needs one concrete lexer to be runnable
// end to end, so this package fixes the quoting and escape conventions
// left open by the data model: double quotes are always case-sensitive
// strings, backtick quotes are always case-insensitive, single quotes
// case-sensitively match a string whose kind (CHAR vs STRING) depends on
// its decoded length, and identifiers are always written with a leading
// '#' to keep them visually distinct from quoted literals.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/david-andrew/dewy-compiler-compiler/internal/conv"
	"github.com/david-andrew/dewy-compiler-compiler/metaerr"
	"github.com/david-andrew/dewy-compiler-compiler/token"
	"github.com/david-andrew/dewy-compiler-compiler/ustring"
)

var singleCharOps = map[rune]token.Kind{
	'*': token.STAR, '+': token.PLUS, '?': token.QUESTION, '~': token.TILDE,
	'{': token.LBRACE, '}': token.RBRACE, '(': token.LPAREN, ')': token.RPAREN,
	'|': token.PIPE, '>': token.GT, '<': token.LT, '-': token.MINUS,
	'/': token.SLASH, '&': token.AMP,
}

// Lex tokenizes src in full, always ending in a single EOF token. It
// returns an error as soon as it encounters malformed input rather than
// attempting to recover and continue.
func Lex(src string) ([]token.Token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	var toks []token.Token
	for {
		l.skipTrivia()
		startPos, startLine, startCol := l.pos, l.line, l.col
		r, size := l.peekRune()
		if size == 0 {
			toks = append(toks, token.Token{Kind: token.EOF, Span: l.spanFrom(startPos, startLine, startCol)})
			return toks, nil
		}

		var tok token.Token
		var err error
		switch {
		case r == '\\':
			tok, err = l.lexEscape(startPos, startLine, startCol)
		case r == '#':
			tok, err = l.lexIdent(startPos, startLine, startCol)
		case r == '"':
			tok, err = l.lexQuoted('"', startPos, startLine, startCol)
		case r == '`':
			tok, err = l.lexQuoted('`', startPos, startLine, startCol)
		case r == '\'':
			tok, err = l.lexQuoted('\'', startPos, startLine, startCol)
		case r == '[':
			tok, err = l.lexCharset(startPos, startLine, startCol)
		case unicode.IsDigit(r):
			tok = l.lexNumber(startPos, startLine, startCol)
		default:
			if kind, ok := singleCharOps[r]; ok {
				l.advanceRune()
				tok = token.Token{Kind: kind, Text: string(r), Span: l.spanFrom(startPos, startLine, startCol)}
			} else {
				l.advanceRune()
				illegal := token.Token{Kind: token.ILLEGAL, Text: string(r), Span: l.spanFrom(startPos, startLine, startCol)}
				err = metaerr.At(metaerr.ErrUnexpectedToken, illegal)
			}
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

type lexer struct {
	src       string
	pos       int
	line, col int
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, size
}

func (l *lexer) advanceRune() rune {
	r, size := l.peekRune()
	if size == 0 {
		return 0
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) spanFrom(startPos, startLine, startCol int) token.Span {
	return token.Span{Start: startPos, End: l.pos, Line: startLine, Col: startCol}
}

func (l *lexer) skipTrivia() {
	for {
		r, size := l.peekRune()
		if size == 0 {
			return
		}
		if unicode.IsSpace(r) {
			l.advanceRune()
			continue
		}
		if r == '/' {
			next, nextSize := l.peekAt(size)
			if next == '/' && nextSize > 0 {
				l.advanceRune()
				l.advanceRune()
				for {
					r, size := l.peekRune()
					if size == 0 || r == '\n' {
						break
					}
					l.advanceRune()
				}
				continue
			}
			if next == '*' && nextSize > 0 {
				l.advanceRune()
				l.advanceRune()
				for {
					r, size := l.peekRune()
					if size == 0 {
						return
					}
					if r == '*' {
						if rr, rs := l.peekAt(size); rs > 0 && rr == '/' {
							l.advanceRune()
							l.advanceRune()
							break
						}
					}
					l.advanceRune()
				}
				continue
			}
		}
		return
	}
}

// peekAt decodes the rune starting at byte offset l.pos+skip, without
// advancing the lexer.
func (l *lexer) peekAt(skip int) (rune, int) {
	pos := l.pos + skip
	if pos >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[pos:])
}

func (l *lexer) lexNumber(startPos, startLine, startCol int) token.Token {
	var digits []rune
	for {
		r, size := l.peekRune()
		if size == 0 || !unicode.IsDigit(r) {
			break
		}
		digits = append(digits, r)
		l.advanceRune()
	}
	return token.Token{Kind: token.NUMBER, Text: l.src[startPos:l.pos], Runes: digits, Span: l.spanFrom(startPos, startLine, startCol)}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (l *lexer) lexIdent(startPos, startLine, startCol int) (token.Token, error) {
	l.advanceRune() // '#'
	r, size := l.peekRune()
	if size == 0 || !isIdentStart(r) {
		illegal := token.Token{Kind: token.ILLEGAL, Text: "#", Span: l.spanFrom(startPos, startLine, startCol)}
		return token.Token{}, metaerr.At(metaerr.ErrUnexpectedToken, illegal).WithDetail("'#' not followed by an identifier")
	}
	var name []rune
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentCont(r) {
			break
		}
		name = append(name, r)
		l.advanceRune()
	}
	return token.Token{Kind: token.IDENT, Text: l.src[startPos:l.pos], Runes: name, Span: l.spanFrom(startPos, startLine, startCol)}, nil
}

// lexEscape handles the three standalone backslash escapes that denote
// whole tokens rather than characters inside a literal: \e (epsilon),
// \U (the universal charset), and \xHH... (a single code point by its
// hex value).
func (l *lexer) lexEscape(startPos, startLine, startCol int) (token.Token, error) {
	l.advanceRune() // '\'
	r, size := l.peekRune()
	if size == 0 {
		illegal := token.Token{Kind: token.ILLEGAL, Text: "\\", Span: l.spanFrom(startPos, startLine, startCol)}
		return token.Token{}, metaerr.At(metaerr.ErrUnexpectedToken, illegal)
	}
	switch r {
	case 'e':
		l.advanceRune()
		return token.Token{Kind: token.EPS, Text: "\\e", Span: l.spanFrom(startPos, startLine, startCol)}, nil
	case 'U':
		l.advanceRune()
		return token.Token{Kind: token.ANYSET, Text: "\\U", Span: l.spanFrom(startPos, startLine, startCol)}, nil
	case 'x', 'X':
		l.advanceRune()
		return l.lexHex(startPos, startLine, startCol)
	default:
		illegal := token.Token{Kind: token.ILLEGAL, Text: "\\" + string(r), Span: l.spanFrom(startPos, startLine, startCol)}
		return token.Token{}, metaerr.At(metaerr.ErrUnexpectedToken, illegal).WithDetail("bare backslash escapes are only valid inside a quoted literal or as \\e, \\U, \\x")
	}
}

func (l *lexer) lexHex(startPos, startLine, startCol int) (token.Token, error) {
	var digits ustring.String
	for {
		r, size := l.peekRune()
		if size == 0 || !isHexDigit(r) {
			break
		}
		digits = append(digits, r)
		l.advanceRune()
	}
	tok := token.Token{Kind: token.HEX, Text: l.src[startPos:l.pos], Span: l.spanFrom(startPos, startLine, startCol)}
	if len(digits) == 0 {
		return token.Token{}, metaerr.At(metaerr.ErrUnexpectedToken, tok).WithDetail("\\x not followed by any hex digits")
	}
	value, err := ustring.ParseHex(digits)
	if err != nil {
		return token.Token{}, metaerr.At(metaerr.ErrNumericOverflow, tok)
	}
	if value > uint64(ustring.MaxCodepoint) {
		return token.Token{}, metaerr.At(metaerr.ErrInvalidCodepoint, tok)
	}
	tok.Runes = []rune{rune(conv.Uint64ToUint32(value))}
	return tok, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// lexQuoted reads a delimited literal, decoding \X escapes via
// ustring.ResolveEscape and \xHH escapes as single code points, and
// classifies the result by quote character and decoded length:
// '"' is always STRING; '`' is CASELESS_CHAR/CASELESS_STRING by length;
// '\'' is CHAR/STRING by length.
func (l *lexer) lexQuoted(quote rune, startPos, startLine, startCol int) (token.Token, error) {
	l.advanceRune() // opening quote
	var decoded ustring.String
	for {
		r, size := l.peekRune()
		if size == 0 {
			illegal := token.Token{Kind: token.ILLEGAL, Text: l.src[startPos:l.pos], Span: l.spanFrom(startPos, startLine, startCol)}
			return token.Token{}, metaerr.At(metaerr.ErrUnbalancedBracket, illegal).WithDetail("unterminated quoted literal")
		}
		if r == quote {
			l.advanceRune()
			break
		}
		if r == '\\' {
			l.advanceRune()
			esc, escSize := l.peekRune()
			if escSize == 0 {
				illegal := token.Token{Kind: token.ILLEGAL, Text: l.src[startPos:l.pos], Span: l.spanFrom(startPos, startLine, startCol)}
				return token.Token{}, metaerr.At(metaerr.ErrUnbalancedBracket, illegal).WithDetail("unterminated escape sequence")
			}
			if esc == 'x' || esc == 'X' {
				l.advanceRune()
				r, err := l.readHexEscapeValue(startPos, startLine, startCol)
				if err != nil {
					return token.Token{}, err
				}
				decoded = append(decoded, r)
				continue
			}
			l.advanceRune()
			decoded = append(decoded, ustring.ResolveEscape(esc))
			continue
		}
		decoded = append(decoded, r)
		l.advanceRune()
	}

	text := l.src[startPos:l.pos]
	span := l.spanFrom(startPos, startLine, startCol)
	kind := classifyQuoted(quote, len(decoded))
	return token.Token{Kind: kind, Text: text, Runes: decoded, Span: span}, nil
}

func classifyQuoted(quote rune, length int) token.Kind {
	switch quote {
	case '`':
		if length == 1 {
			return token.CASELESS_CHAR
		}
		return token.CASELESS_STRING
	case '\'':
		if length == 1 {
			return token.CHAR
		}
		return token.STRING
	default: // '"'
		return token.STRING
	}
}

// readHexEscapeValue reads the hex digits of a \xHH escape embedded inside
// a quoted literal or charset member, returning the decoded code point.
func (l *lexer) readHexEscapeValue(startPos, startLine, startCol int) (rune, error) {
	var digits ustring.String
	for {
		r, size := l.peekRune()
		if size == 0 || !isHexDigit(r) {
			break
		}
		digits = append(digits, r)
		l.advanceRune()
	}
	tok := token.Token{Kind: token.ILLEGAL, Text: l.src[startPos:l.pos], Span: l.spanFrom(startPos, startLine, startCol)}
	if len(digits) == 0 {
		return 0, metaerr.At(metaerr.ErrUnexpectedToken, tok).WithDetail("\\x not followed by any hex digits")
	}
	value, err := ustring.ParseHex(digits)
	if err != nil {
		return 0, metaerr.At(metaerr.ErrNumericOverflow, tok)
	}
	if value > uint64(ustring.MaxCodepoint) {
		return 0, metaerr.At(metaerr.ErrInvalidCodepoint, tok)
	}
	return rune(conv.Uint64ToUint32(value)), nil
}

// lexCharset reads a [...] literal into a CHARSET token whose Runes field
// holds flattened [lo,hi] pairs, one pair per member: a bare or escaped
// rune becomes a single-point pair, and "a-z" becomes a range pair.
func (l *lexer) lexCharset(startPos, startLine, startCol int) (token.Token, error) {
	l.advanceRune() // '['
	var pairs []rune
	for {
		r, size := l.peekRune()
		if size == 0 {
			illegal := token.Token{Kind: token.ILLEGAL, Text: l.src[startPos:l.pos], Span: l.spanFrom(startPos, startLine, startCol)}
			return token.Token{}, metaerr.At(metaerr.ErrUnbalancedBracket, illegal).WithDetail("unterminated charset literal")
		}
		if r == ']' {
			l.advanceRune()
			break
		}
		lo, err := l.readCharsetMember(startPos, startLine, startCol)
		if err != nil {
			return token.Token{}, err
		}
		hi := lo
		if r, size := l.peekRune(); size > 0 && r == '-' {
			if nr, ns := l.peekAt(size); ns > 0 && nr != ']' {
				l.advanceRune() // '-'
				hi, err = l.readCharsetMember(startPos, startLine, startCol)
				if err != nil {
					return token.Token{}, err
				}
			}
		}
		pairs = append(pairs, lo, hi)
	}
	return token.Token{Kind: token.CHARSET, Text: l.src[startPos:l.pos], Runes: pairs, Span: l.spanFrom(startPos, startLine, startCol)}, nil
}

func (l *lexer) readCharsetMember(startPos, startLine, startCol int) (rune, error) {
	r, size := l.peekRune()
	if size == 0 {
		illegal := token.Token{Kind: token.ILLEGAL, Text: l.src[startPos:l.pos], Span: l.spanFrom(startPos, startLine, startCol)}
		return 0, metaerr.At(metaerr.ErrUnbalancedBracket, illegal).WithDetail("unterminated charset literal")
	}
	if r != '\\' {
		l.advanceRune()
		return r, nil
	}
	l.advanceRune()
	esc, escSize := l.peekRune()
	if escSize == 0 {
		illegal := token.Token{Kind: token.ILLEGAL, Text: l.src[startPos:l.pos], Span: l.spanFrom(startPos, startLine, startCol)}
		return 0, metaerr.At(metaerr.ErrUnbalancedBracket, illegal).WithDetail("unterminated escape sequence")
	}
	if esc == 'x' || esc == 'X' {
		l.advanceRune()
		return l.readHexEscapeValue(startPos, startLine, startCol)
	}
	l.advanceRune()
	return ustring.ResolveEscape(esc), nil
}
