// Package reduction implements the RNGLR reduction record consumed by the
// downstream parse table: a (head non-terminal index, production length)
// pair identifying "reduce this many symbols off the stack under this
// head". Ported from reduction.c's new_reduction/reduction_equals/
// reduction_hash/reduction_str, restated as a small comparable Go value
// type in the style of the teacher's nfa.StateID / nfa.Transition.
package reduction

import (
	"fmt"

	"github.com/david-andrew/dewy-compiler-compiler/symtab"
)

// Reduction identifies an RNGLR reduction: pop Length symbols off the
// parse stack and reduce them under the non-terminal named by HeadIdx.
//
// Reduction is immutable once constructed and is a plain comparable value,
// so Go's built-in == already implements structural equality; Equal is
// kept for parity with the C original's explicit reduction_equals and for
// callers that prefer a named method over a bare operator.
type Reduction struct {
	HeadIdx uint64
	Length  uint64
}

// New constructs a reduction record.
func New(headIdx, length uint64) Reduction {
	return Reduction{HeadIdx: headIdx, Length: length}
}

// Equal reports structural equality between two reductions.
func (r Reduction) Equal(other Reduction) bool {
	return r == other
}

// Hash computes a structural hash over (Length, HeadIdx), field order
// matching reduction_hash's hash_uint_sequence({length, head_idx}) so a
// ported golden-hash test can compare outputs bit for bit. Uses the FNV-1a
// mixing step rather than Go's maphash, since maphash is randomized per
// process and this value must be stable across runs (it is persisted into
// parser table dumps).
func (r Reduction) Hash() uint64 {
	const offset = 14695981039346656037
	const prime = 1099511628211

	h := uint64(offset)
	for _, v := range [2]uint64{r.Length, r.HeadIdx} {
		for i := 0; i < 8; i++ {
			h ^= (v >> (8 * i)) & 0xFF
			h *= prime
		}
	}
	return h
}

// String renders "R(<head name>, <length>)" by looking up the head symbol
// in the given table, matching reduction_str's output exactly.
func (r Reduction) String(table *symtab.Table) string {
	head := table.Get(r.HeadIdx)
	return fmt.Sprintf("R(%s, %d)", head.Name, r.Length)
}

// Width returns the rune width of String(table)'s output, used by
// downstream table dumps to align columns. Ported from reduction_strlen.
func (r Reduction) Width(table *symtab.Table) int {
	return len([]rune(r.String(table)))
}

// Repr renders the reduction's internal representation:
// "reduction{head_idx: N, length: M}", matching reduction_repr.
func (r Reduction) Repr() string {
	return fmt.Sprintf("reduction{head_idx: %d, length: %d}", r.HeadIdx, r.Length)
}
