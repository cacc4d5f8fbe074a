package metaerr

import (
	"errors"
	"strings"
	"testing"

	"github.com/david-andrew/dewy-compiler-compiler/token"
)

func TestErrorsIsUnwraps(t *testing.T) {
	err := New(ErrEmptyGroup, token.Span{Line: 1, Col: 2})
	if !errors.Is(err, ErrEmptyGroup) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
	if errors.Is(err, ErrUnbalancedBracket) {
		t.Error("errors.Is should not match an unrelated sentinel")
	}
}

func TestAtCapturesToken(t *testing.T) {
	tok := token.Token{Kind: token.PIPE, Text: "|", Span: token.Span{Line: 3, Col: 4}}
	err := At(ErrTrailingOperator, tok)
	if err.Token == nil || err.Token.Text != "|" {
		t.Error("At() should capture the offending token")
	}
	if err.Span != tok.Span {
		t.Error("At() should copy the token's span")
	}
}

func TestWithDetailAppendsMessage(t *testing.T) {
	base := New(ErrSetOpOnNonSet, token.Span{})
	detailed := base.WithDetail("left operand is a string")
	if base.Detail != "" {
		t.Error("WithDetail should not mutate the receiver")
	}
	if detailed.Detail != "left operand is a string" {
		t.Error("WithDetail should set Detail on the copy")
	}
	if !strings.Contains(detailed.Error(), "left operand is a string") {
		t.Errorf("Error() = %q, want it to mention the detail", detailed.Error())
	}
}
