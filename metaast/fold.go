package metaast

import (
	"github.com/david-andrew/dewy-compiler-compiler/charset"
	"github.com/david-andrew/dewy-compiler-compiler/metaerr"
	"github.com/david-andrew/dewy-compiler-compiler/token"
)

// Fold reduces root to its canonical constant-folded form.
//
// The driver re-applies foldPass — which walks the entire tree bottom-up
// in a single call, the same "return whether anything changed" convention
// the teacher's nfa/pattern_analysis.go passes use — until a pass reports
// no further change, bounded by cfg.MaxFoldPasses. foldPass folds each
// child once before applying the node's own rule, so most inputs settle
// after the first pass; a rule that builds a new, not yet folded shape
// (such as the Or re-association, whose new right operand may itself be
// re-associable) is finished by a later pass.
func Fold(root *Node, cfg Config) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	node := root
	for i := 0; i < cfg.MaxFoldPasses; i++ {
		next, changed, err := foldPass(node, cfg)
		if err != nil {
			return nil, err
		}
		node = next
		if !changed {
			return node, nil
		}
	}
	return nil, metaerr.New(metaerr.ErrFoldDidNotConverge, token.Span{})
}

func foldPass(n *Node, cfg Config) (*Node, bool, error) {
	switch n.Kind() {
	case KindEps, KindString, KindCaseless, KindIdentifier, KindCharset:
		return n, false, nil

	case KindCompliment:
		return foldCompliment(n, cfg)
	case KindIntersect:
		return foldIntersect(n, cfg)
	case KindOr:
		return foldOr(n, cfg)
	case KindReject:
		return foldReject(n, cfg)
	case KindGreaterThan:
		return foldSimpleBinary(n, cfg, NewGreaterThan)
	case KindLessThan:
		return foldSimpleBinary(n, cfg, NewLessThan)
	case KindNoFollow:
		return foldSimpleBinary(n, cfg, NewNoFollow)

	case KindStar:
		return foldStar(n, cfg)
	case KindPlus:
		return foldPlus(n, cfg)
	case KindOption:
		return foldOption(n, cfg)
	case KindCount:
		return foldCount(n, cfg)
	case KindCapture:
		return foldCapture(n, cfg)
	case KindCat:
		return foldCat(n, cfg)

	default:
		return n, false, nil
	}
}

// evalSet attempts to reduce n to a single charset.Set by recursively
// interpreting Or as union, Reject as difference, Intersect as
// intersection, and Compliment as complement. It does not fold n itself;
// callers pass already-folded children.
func evalSet(n *Node) (charset.Set, bool) {
	switch n.Kind() {
	case KindCharset:
		return n.Set(), true
	case KindOr:
		l, ok := evalSet(n.Left())
		if !ok {
			return charset.Empty(), false
		}
		r, ok := evalSet(n.Right())
		if !ok {
			return charset.Empty(), false
		}
		return l.Union(r), true
	case KindReject:
		l, ok := evalSet(n.Left())
		if !ok {
			return charset.Empty(), false
		}
		r, ok := evalSet(n.Right())
		if !ok {
			return charset.Empty(), false
		}
		return l.Difference(r), true
	case KindIntersect:
		l, ok := evalSet(n.Left())
		if !ok {
			return charset.Empty(), false
		}
		r, ok := evalSet(n.Right())
		if !ok {
			return charset.Empty(), false
		}
		return l.Intersect(r), true
	case KindCompliment:
		inner, ok := evalSet(n.Inner())
		if !ok {
			return charset.Empty(), false
		}
		return inner.Complement(), true
	default:
		return charset.Empty(), false
	}
}

func checkCharsetSize(set charset.Set, cfg Config) error {
	if set.Len() > cfg.MaxCharsetRanges {
		return metaerr.New(metaerr.ErrCharsetTooLarge, token.Span{})
	}
	return nil
}

// foldCompliment collapses compliment(A) once A reduces to a charset.
// Compliment is set-typed only (SPEC_FULL.md §3.3): an operand that never
// reduces to a charset is a grammar error, raised here rather than left
// as a dangling structural node.
func foldCompliment(n *Node, cfg Config) (*Node, bool, error) {
	inner, _, err := foldPass(n.Inner(), cfg)
	if err != nil {
		return nil, false, err
	}
	if set, ok := evalSet(inner); ok {
		result := set.Complement()
		if err := checkCharsetSize(result, cfg); err != nil {
			return nil, false, err
		}
		return NewCharset(result), true, nil
	}
	return nil, false, metaerr.New(metaerr.ErrSetOpOnNonSet, token.Span{})
}

// foldIntersect collapses A & B once both operands reduce to charsets.
// Intersect, like Compliment, is set-typed only.
func foldIntersect(n *Node, cfg Config) (*Node, bool, error) {
	left, _, err := foldPass(n.Left(), cfg)
	if err != nil {
		return nil, false, err
	}
	right, _, err := foldPass(n.Right(), cfg)
	if err != nil {
		return nil, false, err
	}
	if ls, ok := evalSet(left); ok {
		if rs, ok := evalSet(right); ok {
			result := ls.Intersect(rs)
			if err := checkCharsetSize(result, cfg); err != nil {
				return nil, false, err
			}
			return NewCharset(result), true, nil
		}
	}
	return nil, false, metaerr.New(metaerr.ErrSetOpOnNonSet, token.Span{})
}

// foldOr implements alternation folding: charset union when both operands
// are set-typed, epsilon-absorption into Option, and canonical
// right-leaning associativity. Unlike Intersect/Compliment, Or has a
// general (non-set) meaning — plain grammar alternation — so an Or that
// never reduces to a charset is left standing rather than erroring.
func foldOr(n *Node, cfg Config) (*Node, bool, error) {
	left, ch1, err := foldPass(n.Left(), cfg)
	if err != nil {
		return nil, false, err
	}
	right, ch2, err := foldPass(n.Right(), cfg)
	if err != nil {
		return nil, false, err
	}
	changed := ch1 || ch2

	if ls, ok := evalSet(left); ok {
		if rs, ok := evalSet(right); ok {
			result := ls.Union(rs)
			if err := checkCharsetSize(result, cfg); err != nil {
				return nil, false, err
			}
			return NewCharset(result), true, nil
		}
	}

	// Epsilon absorption: or(A, eps) / or(eps, A) -> option(A) only when A
	// is known not to already be nullable. When nullability is unknown
	// (e.g. A is an unresolved identifier) the node is left unchanged —
	// see SPEC_FULL.md §4.2's Open Question resolution.
	if left.Kind() == KindEps {
		if nullable, known := nullability(right); known && !nullable {
			return NewOption(right), true, nil
		}
	}
	if right.Kind() == KindEps {
		if nullable, known := nullability(left); known && !nullable {
			return NewOption(left), true, nil
		}
	}

	// Canonical right-leaning associativity.
	if left.Kind() == KindOr {
		return NewOr(left.Left(), NewOr(left.Right(), right)), true, nil
	}

	if changed {
		return NewOr(left, right), true, nil
	}
	return n, false, nil
}

// foldReject implements A - B: charset difference when both operands are
// set-typed, otherwise left as a structural reject node (general grammar
// subtraction, per SPEC_FULL.md §3.3 — reject is not set-typed only).
func foldReject(n *Node, cfg Config) (*Node, bool, error) {
	left, ch1, err := foldPass(n.Left(), cfg)
	if err != nil {
		return nil, false, err
	}
	right, ch2, err := foldPass(n.Right(), cfg)
	if err != nil {
		return nil, false, err
	}
	if ls, ok := evalSet(left); ok {
		if rs, ok := evalSet(right); ok {
			result := ls.Difference(rs)
			if err := checkCharsetSize(result, cfg); err != nil {
				return nil, false, err
			}
			return NewCharset(result), true, nil
		}
	}
	if ch1 || ch2 {
		return NewReject(left, right), true, nil
	}
	return n, false, nil
}

// foldSimpleBinary folds the children of greaterthan/lessthan/nofollow
// nodes, which carry no set-fold or structural rewrite rules of their own.
func foldSimpleBinary(n *Node, cfg Config, rebuild func(l, r *Node) *Node) (*Node, bool, error) {
	left, ch1, err := foldPass(n.Left(), cfg)
	if err != nil {
		return nil, false, err
	}
	right, ch2, err := foldPass(n.Right(), cfg)
	if err != nil {
		return nil, false, err
	}
	if ch1 || ch2 {
		return rebuild(left, right), true, nil
	}
	return n, false, nil
}

func foldStar(n *Node, cfg Config) (*Node, bool, error) {
	inner, ch, err := foldPass(n.Inner(), cfg)
	if err != nil {
		return nil, false, err
	}
	switch inner.Kind() {
	case KindStar:
		return inner, true, nil // star(star(A)) -> star(A)
	case KindPlus:
		return NewStar(inner.Inner()), true, nil // star(plus(A)) -> star(A)
	}
	if ch {
		return NewStar(inner), true, nil
	}
	return n, false, nil
}

func foldPlus(n *Node, cfg Config) (*Node, bool, error) {
	inner, ch, err := foldPass(n.Inner(), cfg)
	if err != nil {
		return nil, false, err
	}
	switch inner.Kind() {
	case KindPlus:
		return inner, true, nil // plus(plus(A)) -> plus(A)
	case KindStar:
		return inner, true, nil // plus(star(A)) -> star(A)
	}
	if ch {
		return NewPlus(inner), true, nil
	}
	return n, false, nil
}

func foldOption(n *Node, cfg Config) (*Node, bool, error) {
	inner, ch, err := foldPass(n.Inner(), cfg)
	if err != nil {
		return nil, false, err
	}
	if inner.Kind() == KindOption {
		return inner, true, nil // option(option(A)) -> option(A)
	}
	if ch {
		return NewOption(inner), true, nil
	}
	return n, false, nil
}

func foldCount(n *Node, cfg Config) (*Node, bool, error) {
	inner, ch, err := foldPass(n.Inner(), cfg)
	if err != nil {
		return nil, false, err
	}
	switch n.Count() {
	case 0:
		return NewEps(), true, nil
	case 1:
		return inner, true, nil
	}
	if ch {
		return NewCount(n.Count(), inner), true, nil
	}
	return n, false, nil
}

// foldCapture folds the wrapped expression but never eliminates the
// capture wrapper itself, even when the wrapped expression is trivial —
// a capture carries semantic intent the downstream lowering depends on.
func foldCapture(n *Node, cfg Config) (*Node, bool, error) {
	inner, ch, err := foldPass(n.Inner(), cfg)
	if err != nil {
		return nil, false, err
	}
	if ch {
		return NewCapture(inner), true, nil
	}
	return n, false, nil
}

// foldCat folds each child, flattens nested cats one level (children are
// already maximally flat by induction, so one level of splice fully
// flattens the tree), drops epsilon children, merges an all-string
// sequence into a single string, and collapses to eps/the sole survivor
// when the sequence shrinks below length 2.
func foldCat(n *Node, cfg Config) (*Node, bool, error) {
	seq := n.Seq()
	folded := make([]*Node, 0, len(seq))
	changed := false
	for _, child := range seq {
		fc, ch, err := foldPass(child, cfg)
		if err != nil {
			return nil, false, err
		}
		changed = changed || ch
		folded = append(folded, fc)
	}

	flat := make([]*Node, 0, len(folded))
	for _, c := range folded {
		if c.Kind() == KindCat {
			flat = append(flat, c.Seq()...)
			changed = true
			continue
		}
		flat = append(flat, c)
	}

	var nonEps []*Node
	for _, c := range flat {
		if c.Kind() == KindEps {
			changed = true
			continue
		}
		nonEps = append(nonEps, c)
	}

	if len(nonEps) > 0 && allStrings(nonEps) {
		merged := nonEps[0].Str().Clone()
		for _, c := range nonEps[1:] {
			merged = merged.Concat(c.Str())
		}
		return NewString(merged), true, nil
	}

	switch len(nonEps) {
	case 0:
		return NewEps(), true, nil
	case 1:
		return nonEps[0], true, nil
	default:
		if changed {
			return NewCat(nonEps), true, nil
		}
		return n, false, nil
	}
}

func allStrings(nodes []*Node) bool {
	for _, n := range nodes {
		if n.Kind() != KindString {
			return false
		}
	}
	return true
}

// nullability reports whether n can match the empty string, and whether
// that answer is known. Identifiers are unknowable at this stage (the
// referenced rule's body isn't visible to the meta-AST folder), so they
// report known=false; callers treat that as "do not rewrite".
func nullability(n *Node) (isNullable, known bool) {
	switch n.Kind() {
	case KindEps:
		return true, true
	case KindString, KindCaseless:
		return n.Str().Len() == 0, true
	case KindIdentifier:
		return false, false
	case KindCharset:
		return false, true
	case KindStar, KindOption:
		return true, true
	case KindPlus:
		return nullability(n.Inner())
	case KindCount:
		if n.Count() == 0 {
			return true, true
		}
		return nullability(n.Inner())
	case KindCapture:
		return nullability(n.Inner())
	case KindCat:
		for _, c := range n.Seq() {
			nb, kn := nullability(c)
			if !kn {
				return false, false
			}
			if !nb {
				return false, true
			}
		}
		return true, true
	case KindOr:
		ln, lk := nullability(n.Left())
		if lk && ln {
			return true, true
		}
		rn, rk := nullability(n.Right())
		if rk && rn {
			return true, true
		}
		if lk && rk {
			return false, true
		}
		return false, false
	case KindGreaterThan, KindLessThan, KindNoFollow:
		return nullability(n.Left())
	default:
		return false, false
	}
}
