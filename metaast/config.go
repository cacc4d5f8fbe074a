package metaast

import "fmt"

// Config controls limits enforced by the parser and folder. The
// Default/Validate shape mirrors the teacher's meta.Config /
// meta.DefaultConfig / meta.Config.Validate exactly: a plain struct of
// tunables, a constructor with sane defaults, and a validator that rejects
// out-of-range values before compilation begins.
type Config struct {
	// MaxRecursionDepth caps recursive-descent depth in the parser, to
	// turn a pathologically nested grammar rule into an error instead of
	// a stack overflow.
	// Default: 200
	MaxRecursionDepth int

	// MaxFoldPasses caps the number of fixed-point iterations the folder
	// will run before giving up with ErrFoldDidNotConverge. Each fold
	// rule strictly reduces a bounded measure (SPEC_FULL.md §4.2), so a
	// well-formed tree always converges in far fewer passes than this;
	// the cap only guards against a future fold rule breaking that
	// invariant.
	// Default: 64
	MaxFoldPasses int

	// MaxRepeatCount bounds the k in (A)k, rejecting absurdly large
	// repetition counts before they reach downstream lowering (which
	// may expand them eagerly).
	// Default: 1<<20
	MaxRepeatCount uint64

	// MaxCharsetRanges bounds the number of ranges a single charset
	// literal or folded charset expression may contain.
	// Default: 4096
	MaxCharsetRanges int
}

// DefaultConfig returns a Config with sensible defaults for ordinary
// grammar files.
func DefaultConfig() Config {
	return Config{
		MaxRecursionDepth: 200,
		MaxFoldPasses:     64,
		MaxRepeatCount:    1 << 20,
		MaxCharsetRanges:  4096,
	}
}

// Validate reports an error if any field is out of its valid range.
//
// Valid ranges:
//   - MaxRecursionDepth: 1 to 10,000
//   - MaxFoldPasses: 1 to 10,000
//   - MaxRepeatCount: 1 to 1<<32
//   - MaxCharsetRanges: 1 to 1,000,000
func (c Config) Validate() error {
	switch {
	case c.MaxRecursionDepth < 1 || c.MaxRecursionDepth > 10000:
		return configError("MaxRecursionDepth", c.MaxRecursionDepth, 1, 10000)
	case c.MaxFoldPasses < 1 || c.MaxFoldPasses > 10000:
		return configError("MaxFoldPasses", c.MaxFoldPasses, 1, 10000)
	case c.MaxRepeatCount < 1 || c.MaxRepeatCount > 1<<32:
		return configError("MaxRepeatCount", c.MaxRepeatCount, 1, 1<<32)
	case c.MaxCharsetRanges < 1 || c.MaxCharsetRanges > 1000000:
		return configError("MaxCharsetRanges", c.MaxCharsetRanges, 1, 1000000)
	}
	return nil
}

func configError(field string, got, lo, hi any) error {
	return &invalidConfigError{field: field, got: got, lo: lo, hi: hi}
}

type invalidConfigError struct {
	field       string
	got, lo, hi any
}

func (e *invalidConfigError) Error() string {
	return fmt.Sprintf("metaast: invalid Config.%s = %v (must be between %v and %v)", e.field, e.got, e.lo, e.hi)
}
