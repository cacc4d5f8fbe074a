package metaast

import (
	"github.com/david-andrew/dewy-compiler-compiler/charset"
	"github.com/david-andrew/dewy-compiler-compiler/metaerr"
	"github.com/david-andrew/dewy-compiler-compiler/symtab"
	"github.com/david-andrew/dewy-compiler-compiler/token"
	"github.com/david-andrew/dewy-compiler-compiler/ustring"
)

// parser drives the precedence-climbing recursive descent over a fixed
// token slice. It is the Go-native alternative the teacher's design notes
// call out as "preferred, cleaner" over the original's array-of-rule-
// closures-plus-skip_fn mechanism: instead of excluding a candidate rule
// per recursive call, each precedence level is its own method and always
// recurses into the next-tighter level for its operands.
//
// A parser value is not safe for concurrent reuse; construct one per
// token stream (see Parse).
type parser struct {
	tokens  []token.Token
	pos     int
	symbols *symtab.Table
	cfg     Config
	depth   int
}

// Parse builds a single meta-AST root from tokens. symbols may be nil if
// the caller doesn't need identifier references interned (tests commonly
// pass nil). The entire token slice must be consumed; trailing tokens
// after a complete expression are reported as ErrUnexpectedToken.
func Parse(tokens []token.Token, symbols *symtab.Table, cfg Config) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, symbols: symbols, cfg: cfg}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != token.EOF {
		return nil, metaerr.At(metaerr.ErrUnexpectedToken, p.peek())
	}
	return root, nil
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// canStartUnit reports whether kind can begin an atom, i.e. whether a cat
// sequence or a binary operand may continue with this token.
func canStartUnit(kind token.Kind) bool {
	switch kind {
	case token.EPS, token.CHAR, token.CASELESS_CHAR, token.STRING, token.CASELESS_STRING,
		token.CHARSET, token.ANYSET, token.HEX, token.IDENT, token.LPAREN, token.LBRACE:
		return true
	default:
		return false
	}
}

// --- precedence levels, loosest to tightest ---

func (p *parser) parseOr() (*Node, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.PIPE {
		opTok := p.advance()
		if !canStartUnit(p.peek().Kind) {
			return nil, metaerr.At(metaerr.ErrTrailingOperator, opTok)
		}
		right, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		left = NewOr(left, right)
	}
	return left, nil
}

func (p *parser) parseCmp() (*Node, error) {
	left, err := p.parseDiff()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.GT || p.peek().Kind == token.LT {
		opTok := p.advance()
		if !canStartUnit(p.peek().Kind) {
			return nil, metaerr.At(metaerr.ErrTrailingOperator, opTok)
		}
		right, err := p.parseDiff()
		if err != nil {
			return nil, err
		}
		if opTok.Kind == token.GT {
			left = NewGreaterThan(left, right)
		} else {
			left = NewLessThan(left, right)
		}
	}
	return left, nil
}

func (p *parser) parseDiff() (*Node, error) {
	left, err := p.parseNofollow()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.MINUS {
		opTok := p.advance()
		if !canStartUnit(p.peek().Kind) {
			return nil, metaerr.At(metaerr.ErrTrailingOperator, opTok)
		}
		right, err := p.parseNofollow()
		if err != nil {
			return nil, err
		}
		left = NewReject(left, right)
	}
	return left, nil
}

func (p *parser) parseNofollow() (*Node, error) {
	left, err := p.parseIntersect()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.SLASH {
		opTok := p.advance()
		if !canStartUnit(p.peek().Kind) {
			return nil, metaerr.At(metaerr.ErrTrailingOperator, opTok)
		}
		right, err := p.parseIntersect()
		if err != nil {
			return nil, err
		}
		left = NewNoFollow(left, right)
	}
	return left, nil
}

func (p *parser) parseIntersect() (*Node, error) {
	left, err := p.parseCat()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.AMP {
		opTok := p.advance()
		if !canStartUnit(p.peek().Kind) {
			return nil, metaerr.At(metaerr.ErrTrailingOperator, opTok)
		}
		right, err := p.parseCat()
		if err != nil {
			return nil, err
		}
		left = NewIntersect(left, right)
	}
	return left, nil
}

// parseCat parses one or more juxtaposed units. A single unit returns
// itself rather than a length-1 cat, per the tie-break rule in
// SPEC_FULL.md §4.1.
func (p *parser) parseCat() (*Node, error) {
	first, err := p.parsePost()
	if err != nil {
		return nil, err
	}
	seq := []*Node{first}
	for canStartUnit(p.peek().Kind) {
		next, err := p.parsePost()
		if err != nil {
			return nil, err
		}
		seq = append(seq, next)
	}
	if len(seq) == 1 {
		return seq[0], nil
	}
	return NewCat(seq), nil
}

// parsePost parses an atom followed by zero or more postfix operators.
func (p *parser) parsePost() (*Node, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case token.STAR:
			p.advance()
			node = NewStar(node)
		case token.PLUS:
			p.advance()
			node = NewPlus(node)
		case token.QUESTION:
			p.advance()
			node = NewOption(node)
		case token.TILDE:
			p.advance()
			node = NewCompliment(node)
		case token.LPAREN:
			if p.peekAt(1).Kind != token.NUMBER || p.peekAt(2).Kind != token.RPAREN {
				return node, nil
			}
			p.advance() // '('
			numTok := p.advance()
			p.advance() // ')'
			count, err := ustring.ParseDecimal(ustring.String(numTok.Runes))
			if err != nil {
				return nil, metaerr.At(metaerr.ErrNumericOverflow, numTok)
			}
			if count > p.cfg.MaxRepeatCount {
				return nil, metaerr.At(metaerr.ErrNumericOverflow, numTok).
					WithDetail("exceeds configured MaxRepeatCount")
			}
			node = NewCount(count, node)
		default:
			return node, nil
		}
	}
}

func (p *parser) parseAtom() (*Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.EPS:
		p.advance()
		return NewEps(), nil

	case token.CHAR:
		p.advance()
		return NewCharset(charset.Single(tok.Runes[0])), nil

	case token.CASELESS_CHAR:
		p.advance()
		return NewCaseless(ustring.String(tok.Runes)), nil

	case token.STRING:
		p.advance()
		return NewString(ustring.String(tok.Runes)), nil

	case token.CASELESS_STRING:
		p.advance()
		return NewCaseless(ustring.String(tok.Runes)), nil

	case token.CHARSET:
		p.advance()
		return p.charsetFromPairs(tok)

	case token.ANYSET:
		p.advance()
		return NewCharset(charset.Universe()), nil

	case token.HEX:
		p.advance()
		r := tok.Runes[0]
		if r > ustring.MaxCodepoint {
			return nil, metaerr.At(metaerr.ErrInvalidCodepoint, tok)
		}
		return NewCharset(charset.Single(r)), nil

	case token.IDENT:
		p.advance()
		name := ustring.String(tok.Runes)
		if p.symbols != nil {
			p.symbols.Register(name)
		}
		return NewIdentifier(name), nil

	case token.LPAREN:
		return p.parseGroup(tok, token.RPAREN, false)

	case token.LBRACE:
		return p.parseGroup(tok, token.RBRACE, true)

	default:
		return nil, metaerr.At(metaerr.ErrUnexpectedToken, tok)
	}
}

func (p *parser) parseGroup(openTok token.Token, closeKind token.Kind, capture bool) (*Node, error) {
	if p.depth >= p.cfg.MaxRecursionDepth {
		return nil, metaerr.At(metaerr.ErrRecursionLimit, openTok)
	}
	p.advance() // opening bracket
	if p.peek().Kind == closeKind {
		return nil, metaerr.At(metaerr.ErrEmptyGroup, openTok)
	}
	p.depth++
	inner, err := p.parseOr()
	p.depth--
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != closeKind {
		return nil, metaerr.At(metaerr.ErrUnbalancedBracket, openTok)
	}
	p.advance() // closing bracket
	if capture {
		return NewCapture(inner), nil
	}
	return inner, nil
}

func (p *parser) charsetFromPairs(tok token.Token) (*Node, error) {
	pairs := tok.Runes
	ranges := make([]charset.Range, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ranges = append(ranges, charset.Range{Lo: pairs[i], Hi: pairs[i+1]})
	}
	set := charset.New(ranges...)
	if set.Len() > p.cfg.MaxCharsetRanges {
		return nil, metaerr.At(metaerr.ErrCharsetTooLarge, tok)
	}
	return NewCharset(set), nil
}
