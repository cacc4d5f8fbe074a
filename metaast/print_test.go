package metaast_test

import (
	"strings"
	"testing"

	"github.com/david-andrew/dewy-compiler-compiler/lexer"
	"github.com/david-andrew/dewy-compiler-compiler/metaast"
)

func parseAndFold(t *testing.T, src string) *metaast.Node {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) error: %v", src, err)
	}
	cfg := metaast.DefaultConfig()
	ast, err := metaast.Parse(toks, nil, cfg)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	folded, err := metaast.Fold(ast, cfg)
	if err != nil {
		t.Fatalf("Fold(%q) error: %v", src, err)
	}
	return folded
}

// TestStringRoundTrips reparses String()'s output and checks the result is
// structurally identical to the original folded tree — the property the
// precedence-aware parenthesization exists to guarantee.
func TestStringRoundTrips(t *testing.T) {
	srcs := []string{
		`'a'`,
		`"abc"`,
		`` + "`caseless`",
		`#rule`,
		`[a-z]`,
		`'a'*`,
		`'a'+`,
		`'a'?`,
		`'a'~`,
		`{'a'}`,
		`'a' 'b' 'c'`,
		`'a' | 'b'`,
		`('a' | 'b') 'c'`,
		`[a-z] & [g-z]`,
		`'a' - 'b'`,
		`'a' / 'b'`,
		`'a' > 'b'`,
		`'a' < 'b'`,
		`('a' | 'b') & ('c' | 'd')`,
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			original := parseAndFold(t, src)
			printed := original.String()

			toks, err := lexer.Lex(printed)
			if err != nil {
				t.Fatalf("Lex(printed %q) error: %v", printed, err)
			}
			cfg := metaast.DefaultConfig()
			reparsed, err := metaast.Parse(toks, nil, cfg)
			if err != nil {
				t.Fatalf("Parse(printed %q) error: %v", printed, err)
			}
			refolded, err := metaast.Fold(reparsed, cfg)
			if err != nil {
				t.Fatalf("Fold(reparsed %q) error: %v", printed, err)
			}
			if !metaast.Equal(original, refolded) {
				t.Errorf("round trip mismatch for %q: printed %q, got %s, want %s",
					src, printed, refolded.Repr(), original.Repr())
			}
		})
	}
}

func TestReprIsMultiLine(t *testing.T) {
	n := parseAndFold(t, `'a' 'b'`)
	repr := n.Repr()
	if repr == "" {
		t.Fatal("Repr() returned empty string")
	}
	if repr[len(repr)-1] != '\n' {
		t.Error("Repr() should end each line including the last with a newline")
	}
}

func TestReprShowsCharsetPayload(t *testing.T) {
	n := parseAndFold(t, `[a-c]`)
	repr := n.Repr()
	if !strings.Contains(repr, "charset") {
		t.Errorf("Repr() = %q, want it to mention charset", repr)
	}
}
