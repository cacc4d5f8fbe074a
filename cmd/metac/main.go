// Command metac compiles a .grammar file's rule declarations through the
// meta-AST front-end: each "name := rhs" line is lexed, parsed into a
// meta-AST, and constant-folded, then printed in reparseable form by
// default or in structural form with --repr.
//
// It exists to make the front-end runnable end to end from the command
// line, in the same spirit as the teacher's own example programs —
// nothing downstream of folding (CFG lowering, RNGLR table construction)
// is in scope here.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/david-andrew/dewy-compiler-compiler/lexer"
	"github.com/david-andrew/dewy-compiler-compiler/metaast"
	"github.com/david-andrew/dewy-compiler-compiler/symtab"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("metac", flag.ContinueOnError)
	showRepr := fs.Bool("repr", false, "print each rule's folded meta-AST as a structural dump instead of reparseable syntax")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: metac [--repr] <file.grammar>")
		return 2
	}

	path := fs.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metac: %v\n", err)
		return 1
	}

	gf, err := parseGrammarFile(path, string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "metac: %v\n", err)
		return 1
	}

	p := newPrinter()
	symbols := symtab.New()
	cfg := metaast.DefaultConfig()
	failed := false

	for _, rule := range gf.Rules {
		tokens, err := lexer.Lex(rule.RHS)
		if err != nil {
			p.reportError(rule.Name, err)
			failed = true
			continue
		}
		ast, err := metaast.Parse(tokens, symbols, cfg)
		if err != nil {
			p.reportError(rule.Name, err)
			failed = true
			continue
		}
		folded, err := metaast.Fold(ast, cfg)
		if err != nil {
			p.reportError(rule.Name, err)
			failed = true
			continue
		}

		fmt.Printf("%s := ", p.ruleName(rule.Name))
		if *showRepr {
			fmt.Println()
			fmt.Print(folded.Repr())
		} else {
			fmt.Println(folded.String())
		}
	}

	if failed {
		return 1
	}
	return 0
}
