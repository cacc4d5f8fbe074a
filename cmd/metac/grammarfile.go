package main

import (
	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"
)

// ruleDecl is one "name := rhs" line of a .grammar file. RHS is captured
// verbatim as the remainder of the line; it is handed to this module's own
// lexer and parser, not to participle — participle here only owns the
// outer statement-list syntax, the same division of labor pgraph's DSL
// package uses between its participle grammar and the graph engine it
// drives.
type ruleDecl struct {
	Name string `parser:"@Ident \":=\""`
	RHS  string `parser:"@RHS"`
}

// grammarFile is an ordered list of rule declarations.
type grammarFile struct {
	Rules []*ruleDecl `parser:"@@*"`
}

var grammarLexer = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Assign", Pattern: `:=`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "RHS", Pattern: `[^\n]+`},
})

var grammarParser = participle.MustBuild[grammarFile](
	participle.Lexer(grammarLexer),
	participle.Elide("Whitespace", "Comment"),
)

// parseGrammarFile parses the statement-list syntax of a .grammar file
// (one "name := rhs" declaration per line) without interpreting the RHS
// meta-expressions themselves.
func parseGrammarFile(name, src string) (*grammarFile, error) {
	return grammarParser.ParseString(name, src)
}
