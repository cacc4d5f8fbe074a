// Package metaast implements the meta-AST: the in-memory tree built from a
// meta-syntax token stream, the parser that builds it, and the constant
// folder that reduces it to canonical form before downstream CFG lowering.
//
// Node follows the teacher's nfa.State idiom: one concrete struct, a Kind
// tag selecting which fields are meaningful, and accessor methods that
// return the zero value for fields that don't apply to the receiver's
// Kind. A Go sum type (an interface with one implementation per variant)
// was also considered, but the tagged-struct form matches both the
// teacher's established style and the original metaast.h's "one type per
// payload shape" layout (metaast_string_node, metaast_repeat_node, etc.)
// more directly, and keeps the folder's rewrite sites (which build
// replacement nodes through the constructors below) simple.
package metaast

import (
	"fmt"

	"github.com/david-andrew/dewy-compiler-compiler/charset"
	"github.com/david-andrew/dewy-compiler-compiler/ustring"
)

// Kind tags which variant of the meta-AST a Node represents.
type Kind uint8

const (
	KindEps Kind = iota
	KindString
	KindCaseless
	KindIdentifier
	KindCharset
	KindCompliment
	KindIntersect
	KindStar
	KindPlus
	KindCount
	KindOption
	KindCapture
	KindCat
	KindOr
	KindGreaterThan
	KindLessThan
	KindReject
	KindNoFollow
)

var kindNames = [...]string{
	KindEps: "eps", KindString: "string", KindCaseless: "caseless",
	KindIdentifier: "identifier", KindCharset: "charset", KindCompliment: "compliment",
	KindIntersect: "intersect", KindStar: "star", KindPlus: "plus", KindCount: "count",
	KindOption: "option", KindCapture: "capture", KindCat: "cat", KindOr: "or",
	KindGreaterThan: "greaterthan", KindLessThan: "lessthan", KindReject: "reject",
	KindNoFollow: "nofollow",
}

// String implements fmt.Stringer for Kind, used by Repr and diagnostics.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Node is a single meta-AST node. Exactly one group of payload fields is
// meaningful for a given Kind; see the accessor methods below.
type Node struct {
	kind Kind

	str   ustring.String // KindString, KindCaseless, KindIdentifier
	set   charset.Set    // KindCharset
	count uint64         // KindCount

	inner *Node // KindCompliment, KindStar, KindPlus, KindCount, KindOption, KindCapture
	left  *Node // KindIntersect, KindOr, KindGreaterThan, KindLessThan, KindReject, KindNoFollow
	right *Node

	seq []*Node // KindCat
}

// Kind returns the node's tag.
func (n *Node) Kind() Kind { return n.kind }

// Str returns the code-point payload for String/Caseless/Identifier nodes,
// and the zero value otherwise.
func (n *Node) Str() ustring.String {
	switch n.kind {
	case KindString, KindCaseless, KindIdentifier:
		return n.str
	default:
		return nil
	}
}

// Set returns the charset payload for a Charset node, and the empty set
// otherwise. A Compliment node only carries a charset payload once the
// folder has collapsed it into KindCharset; before that it is a unary
// operator over a generic operand, reachable through Inner.
func (n *Node) Set() charset.Set {
	if n.kind == KindCharset {
		return n.set
	}
	return charset.Empty()
}

// Count returns the repeat count for a Count node, and 0 otherwise.
func (n *Node) Count() uint64 {
	if n.kind == KindCount {
		return n.count
	}
	return 0
}

// Inner returns the wrapped child for Compliment/Star/Plus/Count/Option/
// Capture nodes, and nil otherwise.
func (n *Node) Inner() *Node {
	switch n.kind {
	case KindCompliment, KindStar, KindPlus, KindCount, KindOption, KindCapture:
		return n.inner
	default:
		return nil
	}
}

// Left returns the left operand of a binary-op node, and nil otherwise.
func (n *Node) Left() *Node {
	if n.isBinary() {
		return n.left
	}
	return nil
}

// Right returns the right operand of a binary-op node, and nil otherwise.
func (n *Node) Right() *Node {
	if n.isBinary() {
		return n.right
	}
	return nil
}

// Seq returns the ordered children of a Cat node, and nil otherwise.
func (n *Node) Seq() []*Node {
	if n.kind == KindCat {
		return n.seq
	}
	return nil
}

func (n *Node) isBinary() bool {
	switch n.kind {
	case KindIntersect, KindOr, KindGreaterThan, KindLessThan, KindReject, KindNoFollow:
		return true
	default:
		return false
	}
}

// IsSetTyped reports whether the node is one that the folder treats as a
// set expression leaf or operator: KindCharset, or a Compliment/Intersect
// node (which are, per the data model, set-only operators).
func (n *Node) IsSetTyped() bool {
	switch n.kind {
	case KindCharset, KindCompliment, KindIntersect:
		return true
	default:
		return false
	}
}

// Children returns the direct child nodes, in evaluation order, for any
// node kind. Leaf kinds (Eps, String, Caseless, Identifier, Charset)
// return nil. Used by Walk and by Repr.
func (n *Node) Children() []*Node {
	switch n.kind {
	case KindCompliment:
		// Compliment's operand lives in the unary-op slot (Inner); once
		// folded, the whole node is replaced by a KindCharset leaf.
		if n.inner != nil {
			return []*Node{n.inner}
		}
		return nil
	case KindStar, KindPlus, KindCount, KindOption, KindCapture:
		return []*Node{n.inner}
	case KindIntersect, KindOr, KindGreaterThan, KindLessThan, KindReject, KindNoFollow:
		return []*Node{n.left, n.right}
	case KindCat:
		return n.seq
	default:
		return nil
	}
}

// Walk calls visit for n and every descendant, post-order (children before
// parent), matching the teacher's recursive post-order teardown style
// (nfa's destruction and analysis passes both walk bottom-up).
func (n *Node) Walk(visit func(*Node)) {
	for _, c := range n.Children() {
		c.Walk(visit)
	}
	visit(n)
}

// --- constructors ---

// NewEps returns the epsilon node.
func NewEps() *Node { return &Node{kind: KindEps} }

// NewString returns a literal-match node.
func NewString(s ustring.String) *Node { return &Node{kind: KindString, str: s} }

// NewCaseless returns a case-insensitive literal-match node.
func NewCaseless(s ustring.String) *Node { return &Node{kind: KindCaseless, str: s} }

// NewIdentifier returns a rule-reference node.
func NewIdentifier(s ustring.String) *Node { return &Node{kind: KindIdentifier, str: s} }

// NewCharset returns a node matching a single code point drawn from set.
func NewCharset(set charset.Set) *Node { return &Node{kind: KindCharset, set: set} }

// NewCompliment returns the set-complement of inner. inner need not
// already be a charset node; the folder collapses it to one.
func NewCompliment(inner *Node) *Node { return &Node{kind: KindCompliment, inner: inner} }

// NewIntersect returns the set intersection of left and right.
func NewIntersect(left, right *Node) *Node {
	return &Node{kind: KindIntersect, left: left, right: right}
}

// NewStar returns the Kleene closure of inner.
func NewStar(inner *Node) *Node { return &Node{kind: KindStar, inner: inner} }

// NewPlus returns the positive closure of inner.
func NewPlus(inner *Node) *Node { return &Node{kind: KindPlus, inner: inner} }

// NewCount returns k repetitions of inner.
func NewCount(k uint64, inner *Node) *Node { return &Node{kind: KindCount, count: k, inner: inner} }

// NewOption returns the optional-match wrapper around inner.
func NewOption(inner *Node) *Node { return &Node{kind: KindOption, inner: inner} }

// NewCapture returns a named-capture wrapper around inner. Capture is
// never eliminated by folding even when inner is trivial.
func NewCapture(inner *Node) *Node { return &Node{kind: KindCapture, inner: inner} }

// NewCat returns the concatenation of seq, in order. Callers should prefer
// going through the parser or folder, which maintain the "length >= 2"
// invariant; NewCat itself does not enforce it so tests can construct
// intermediate trees.
func NewCat(seq []*Node) *Node { return &Node{kind: KindCat, seq: seq} }

// NewOr returns the alternation of left and right (set union, if both
// operands are set-typed).
func NewOr(left, right *Node) *Node { return &Node{kind: KindOr, left: left, right: right} }

// NewGreaterThan returns the longest-match disambiguation of left over right.
func NewGreaterThan(left, right *Node) *Node {
	return &Node{kind: KindGreaterThan, left: left, right: right}
}

// NewLessThan returns the shortest-match disambiguation of left over right.
func NewLessThan(left, right *Node) *Node {
	return &Node{kind: KindLessThan, left: left, right: right}
}

// NewReject returns left with right subtracted (set difference, if both
// operands are set-typed).
func NewReject(left, right *Node) *Node { return &Node{kind: KindReject, left: left, right: right} }

// NewNoFollow returns a match of left only when not immediately followed
// by right.
func NewNoFollow(left, right *Node) *Node {
	return &Node{kind: KindNoFollow, left: left, right: right}
}

// Equal reports deep structural equality between two meta-AST trees. Used
// by the round-trip and fold-idempotence tests in SPEC_FULL.md §8.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindEps:
		return true
	case KindString, KindCaseless, KindIdentifier:
		return a.str.Equal(b.str)
	case KindCharset, KindCompliment:
		if a.kind == KindCompliment {
			return Equal(a.inner, b.inner)
		}
		return a.set.Equal(b.set)
	case KindIntersect, KindOr, KindGreaterThan, KindLessThan, KindReject, KindNoFollow:
		return Equal(a.left, b.left) && Equal(a.right, b.right)
	case KindStar, KindPlus, KindOption, KindCapture:
		return Equal(a.inner, b.inner)
	case KindCount:
		return a.count == b.count && Equal(a.inner, b.inner)
	case KindCat:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
