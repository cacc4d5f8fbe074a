package metaast_test

import (
	"errors"
	"testing"

	"github.com/david-andrew/dewy-compiler-compiler/lexer"
	"github.com/david-andrew/dewy-compiler-compiler/metaast"
	"github.com/david-andrew/dewy-compiler-compiler/metaerr"
	"github.com/david-andrew/dewy-compiler-compiler/symtab"
)

func parse(t *testing.T, src string) *metaast.Node {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) error: %v", src, err)
	}
	n, err := metaast.Parse(toks, symtab.New(), metaast.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return n
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		return err
	}
	_, err = metaast.Parse(toks, symtab.New(), metaast.DefaultConfig())
	if err == nil {
		t.Fatalf("Parse(%q) succeeded, want error", src)
	}
	return err
}

func TestParseKindShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind metaast.Kind
	}{
		{"eps", `\e`, metaast.KindEps},
		{"string", `"abc"`, metaast.KindString},
		{"caseless string", "`abc`", metaast.KindCaseless},
		{"caseless char", "`a`", metaast.KindCaseless},
		{"char becomes charset", `'a'`, metaast.KindCharset},
		{"multi-char single-quote is a string", `'abc'`, metaast.KindString},
		{"charset literal", `[a-z]`, metaast.KindCharset},
		{"anyset", `\U`, metaast.KindCharset},
		{"hex literal", `\x41`, metaast.KindCharset},
		{"identifier", `#foo`, metaast.KindIdentifier},
		{"star", `'a'*`, metaast.KindStar},
		{"plus", `'a'+`, metaast.KindPlus},
		{"option", `'a'?`, metaast.KindOption},
		{"compliment", `'a'~`, metaast.KindCompliment},
		{"count", `'a'(3)`, metaast.KindCount},
		{"capture", `{'a'}`, metaast.KindCapture},
		{"cat", `'a' 'b'`, metaast.KindCat},
		{"or", `'a' | 'b'`, metaast.KindOr},
		{"intersect", `'a' & 'b'`, metaast.KindIntersect},
		{"reject", `'a' - 'b'`, metaast.KindReject},
		{"nofollow", `'a' / 'b'`, metaast.KindNoFollow},
		{"greaterthan", `'a' > 'b'`, metaast.KindGreaterThan},
		{"lessthan", `'a' < 'b'`, metaast.KindLessThan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := parse(t, tt.src)
			if n.Kind() != tt.kind {
				t.Errorf("Parse(%q).Kind() = %s, want %s", tt.src, n.Kind(), tt.kind)
			}
		})
	}
}

func TestParseSingleUnitCatTieBreak(t *testing.T) {
	n := parse(t, `'a'`)
	if n.Kind() == metaast.KindCat {
		t.Error("a lone unit should not be wrapped in a length-1 cat")
	}
}

func TestParsePrecedenceOrLoosestThanCat(t *testing.T) {
	// 'a' 'b' | 'c' should parse as or(cat('a','b'), 'c'), not
	// cat('a', or('b','c')).
	n := parse(t, `'a' 'b' | 'c'`)
	if n.Kind() != metaast.KindOr {
		t.Fatalf("root kind = %s, want or", n.Kind())
	}
	if n.Left().Kind() != metaast.KindCat {
		t.Errorf("left operand kind = %s, want cat", n.Left().Kind())
	}
}

func TestParsePrecedenceCatTighterThanIntersect(t *testing.T) {
	// 'a' 'b' & 'c' should parse as intersect(cat('a','b'), 'c'): cat binds
	// tighter than '&', so '&' splits whole juxtaposed runs, not atoms.
	n := parse(t, `'a' 'b' & 'c'`)
	if n.Kind() != metaast.KindIntersect {
		t.Fatalf("root kind = %s, want intersect", n.Kind())
	}
	if n.Left().Kind() != metaast.KindCat {
		t.Errorf("left operand kind = %s, want cat", n.Left().Kind())
	}
}

func TestParsePostfixAppliesTighterThanCat(t *testing.T) {
	n := parse(t, `'a'* 'b'`)
	if n.Kind() != metaast.KindCat {
		t.Fatalf("root kind = %s, want cat", n.Kind())
	}
	if n.Seq()[0].Kind() != metaast.KindStar {
		t.Errorf("first cat element kind = %s, want star", n.Seq()[0].Kind())
	}
}

func TestParseGroupingOverridesPrecedence(t *testing.T) {
	n := parse(t, `('a' | 'b') 'c'`)
	if n.Kind() != metaast.KindCat {
		t.Fatalf("root kind = %s, want cat", n.Kind())
	}
	if n.Seq()[0].Kind() != metaast.KindOr {
		t.Errorf("first cat element kind = %s, want or", n.Seq()[0].Kind())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unbalanced open paren", `('a'`, metaerr.ErrUnbalancedBracket},
		{"unbalanced open brace", `{'a'`, metaerr.ErrUnbalancedBracket},
		{"empty group", `()`, metaerr.ErrEmptyGroup},
		{"empty capture", `{}`, metaerr.ErrEmptyGroup},
		{"trailing or", `'a' |`, metaerr.ErrTrailingOperator},
		{"trailing intersect", `'a' &`, metaerr.ErrTrailingOperator},
		{"trailing token after full expression", `'a' 'b')`, metaerr.ErrUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want wrapping %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestParseCountRejectsOverMax(t *testing.T) {
	toks, err := lexer.Lex(`'a'(5)`)
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	cfg := metaast.DefaultConfig()
	cfg.MaxRepeatCount = 3
	_, err = metaast.Parse(toks, nil, cfg)
	if !errors.Is(err, metaerr.ErrNumericOverflow) {
		t.Errorf("Parse() error = %v, want ErrNumericOverflow", err)
	}
}

func TestParseRecursionLimit(t *testing.T) {
	src := ""
	for i := 0; i < 50; i++ {
		src += "("
	}
	src += "'a'"
	for i := 0; i < 50; i++ {
		src += ")"
	}
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	cfg := metaast.DefaultConfig()
	cfg.MaxRecursionDepth = 10
	_, err = metaast.Parse(toks, nil, cfg)
	if !errors.Is(err, metaerr.ErrRecursionLimit) {
		t.Errorf("Parse() error = %v, want ErrRecursionLimit", err)
	}
}

func TestParseIdentifierRegistersSymbol(t *testing.T) {
	toks, err := lexer.Lex(`#foo`)
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	tab := symtab.New()
	n, err := metaast.Parse(toks, tab, metaast.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if tab.Len() != 1 {
		t.Fatalf("symbol table has %d entries, want 1", tab.Len())
	}
	if tab.Get(0).Name.String() != n.Str().String() {
		t.Error("registered symbol name should match the identifier's payload")
	}
}
