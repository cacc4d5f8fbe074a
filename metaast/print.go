package metaast

import (
	"fmt"
	"strings"

	"github.com/david-andrew/dewy-compiler-compiler/ustring"
)

// String renders n back to reparseable meta-syntax: the same token
// vocabulary the lexer/parser consume, with parentheses inserted wherever
// printing a child bare would change which operator binds it. This mirrors
// the teacher's nfa print.go style of a small precedence table driving a
// single recursive renderer, rather than one String method per node kind.
func (n *Node) String() string {
	var b strings.Builder
	writeNode(&b, n, 0)
	return b.String()
}

// precLevel orders operators loosest-to-tightest exactly as parse.go's
// precedence chain does, so a child is parenthesized whenever printing it
// bare at this position could be reparsed at a different (incorrect)
// level; some positions get parentheses they do not strictly need.
func precLevel(k Kind) int {
	switch k {
	case KindOr:
		return 1
	case KindGreaterThan, KindLessThan:
		return 2
	case KindReject:
		return 3
	case KindNoFollow:
		return 4
	case KindIntersect:
		return 5
	case KindCat:
		return 6
	case KindStar, KindPlus, KindOption, KindCompliment, KindCount:
		return 7
	default: // atoms, capture
		return 8
	}
}

func writeNode(b *strings.Builder, n *Node, minPrec int) {
	prec := precLevel(n.Kind())
	if prec < minPrec {
		b.WriteByte('(')
		writeBare(b, n)
		b.WriteByte(')')
		return
	}
	writeBare(b, n)
}

func writeBare(b *strings.Builder, n *Node) {
	prec := precLevel(n.Kind())
	switch n.Kind() {
	case KindEps:
		b.WriteString(`\e`)

	case KindString:
		writeQuoted(b, n.Str(), '"')

	case KindCaseless:
		writeQuoted(b, n.Str(), '`')

	case KindIdentifier:
		b.WriteByte('#')
		b.WriteString(n.Str().String())

	case KindCharset:
		b.WriteString(n.Set().String())

	case KindCompliment:
		writeNode(b, n.Inner(), prec+1)
		b.WriteByte('~')

	case KindIntersect:
		writeNode(b, n.Left(), prec)
		b.WriteString(" & ")
		writeNode(b, n.Right(), prec+1)

	case KindStar:
		writeNode(b, n.Inner(), prec+1)
		b.WriteByte('*')

	case KindPlus:
		writeNode(b, n.Inner(), prec+1)
		b.WriteByte('+')

	case KindCount:
		writeNode(b, n.Inner(), prec+1)
		fmt.Fprintf(b, "(%d)", n.Count())

	case KindOption:
		writeNode(b, n.Inner(), prec+1)
		b.WriteByte('?')

	case KindCapture:
		b.WriteByte('{')
		writeNode(b, n.Inner(), 1)
		b.WriteByte('}')

	case KindCat:
		seq := n.Seq()
		for i, c := range seq {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeNode(b, c, prec+1)
		}

	case KindOr:
		writeNode(b, n.Left(), prec)
		b.WriteString(" | ")
		writeNode(b, n.Right(), prec+1)

	case KindGreaterThan:
		writeNode(b, n.Left(), prec)
		b.WriteString(" > ")
		writeNode(b, n.Right(), prec+1)

	case KindLessThan:
		writeNode(b, n.Left(), prec)
		b.WriteString(" < ")
		writeNode(b, n.Right(), prec+1)

	case KindReject:
		writeNode(b, n.Left(), prec)
		b.WriteString(" - ")
		writeNode(b, n.Right(), prec+1)

	case KindNoFollow:
		writeNode(b, n.Left(), prec)
		b.WriteString(" / ")
		writeNode(b, n.Right(), prec+1)

	default:
		fmt.Fprintf(b, "<%s>", n.Kind())
	}
}

// writeQuoted renders s between quote/quote, backslash-escaping the quote
// character, backslash itself, and the ustring.ResolveEscape control-code
// table in reverse.
func writeQuoted(b *strings.Builder, s ustring.String, quote rune) {
	b.WriteRune(quote)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case quote:
			b.WriteByte('\\')
			b.WriteRune(quote)
		case 0x07:
			b.WriteString(`\a`)
		case 0x08:
			b.WriteString(`\b`)
		case 0x09:
			b.WriteString(`\t`)
		case 0x0A:
			b.WriteString(`\n`)
		case 0x0B:
			b.WriteString(`\v`)
		case 0x0C:
			b.WriteString(`\f`)
		case 0x0D:
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
}

// Repr renders the node's literal structure, one node per line, indented
// by nesting depth. Unlike String, Repr is not meant to be reparsed — it
// exists for debugging and for the fold-idempotence tests that need to
// see exactly which kind and payload survived folding.
func (n *Node) Repr() string {
	var b strings.Builder
	writeRepr(&b, n, 0)
	return b.String()
}

func writeRepr(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind() {
	case KindEps:
		fmt.Fprintf(b, "%seps\n", indent)
	case KindString:
		fmt.Fprintf(b, "%sstring(%q)\n", indent, n.Str().String())
	case KindCaseless:
		fmt.Fprintf(b, "%scaseless(%q)\n", indent, n.Str().String())
	case KindIdentifier:
		fmt.Fprintf(b, "%sidentifier(%q)\n", indent, n.Str().String())
	case KindCharset:
		fmt.Fprintf(b, "%scharset%s\n", indent, n.Set().Repr())
	case KindCount:
		fmt.Fprintf(b, "%scount(%d)\n", indent, n.Count())
		writeRepr(b, n.Inner(), depth+1)
	case KindCat:
		fmt.Fprintf(b, "%scat\n", indent)
		for _, c := range n.Seq() {
			writeRepr(b, c, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%s\n", indent, n.Kind())
		for _, c := range n.Children() {
			writeRepr(b, c, depth+1)
		}
	}
}
