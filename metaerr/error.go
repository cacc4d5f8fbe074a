// Package metaerr defines the structured diagnostic taxonomy shared by the
// lexer, parser, and folder.
//
// The shape follows the teacher's nfa.CompileError / nfa.BuildError: a
// small wrapper type carrying a sentinel Kind plus contextual fields, with
// Unwrap support so callers can use errors.Is against the sentinels below
// instead of string-matching messages.
package metaerr

import (
	"errors"
	"fmt"

	"github.com/david-andrew/dewy-compiler-compiler/token"
)

// Sentinel errors identifying each diagnostic kind. Compare with errors.Is,
// not ==, since a returned *Error always wraps one of these.
var (
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrUnbalancedBracket  = errors.New("unbalanced bracket")
	ErrEmptyGroup         = errors.New("empty group")
	ErrTrailingOperator   = errors.New("trailing operator")
	ErrSetOpOnNonSet      = errors.New("set operator applied to non-set operand")
	ErrNumericOverflow    = errors.New("numeric literal overflows uint64")
	ErrInvalidCodepoint   = errors.New("code point exceeds U+10FFFF")
	ErrFoldDidNotConverge = errors.New("constant folding did not reach a fixed point")

	// ErrRecursionLimit and ErrCharsetTooLarge are ambient additions not
	// present in the distilled error taxonomy: defensive limits so a
	// pathological grammar rule fails with a diagnostic instead of a
	// stack overflow or unbounded allocation. See metaast.Config.
	ErrRecursionLimit  = errors.New("grammar rule nests deeper than the configured recursion limit")
	ErrCharsetTooLarge = errors.New("charset exceeds the configured maximum range count")
)

// Error is a diagnostic positioned at a token span.
type Error struct {
	// Kind is one of the sentinel errors above; Is/Unwrap delegate to it.
	Kind error

	// Span is the source location the diagnostic refers to.
	Span token.Span

	// Token, if non-nil, is the offending token, included verbatim for the
	// "%s" rendering in Error().
	Token *token.Token

	// Detail is an optional human-readable elaboration appended to the
	// rendered message (e.g. which operand of & failed to fold to a set).
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Token != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Token)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	return fmt.Sprintf("%s at line %d, col %d", msg, e.Span.Line, e.Span.Col)
}

// Unwrap exposes the sentinel Kind to errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Kind
}

// New constructs an Error for the given sentinel kind and span.
func New(kind error, span token.Span) *Error {
	return &Error{Kind: kind, Span: span}
}

// At constructs an Error positioned at a specific offending token.
func At(kind error, tok token.Token) *Error {
	t := tok
	return &Error{Kind: kind, Span: tok.Span, Token: &t}
}

// WithDetail returns a copy of e with Detail set, for chaining at the call
// site: return metaerr.At(metaerr.ErrSetOpOnNonSet, tok).WithDetail("left operand is a string")
func (e *Error) WithDetail(detail string) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}
