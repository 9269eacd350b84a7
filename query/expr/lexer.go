package expr

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// FilterLexer defines the token types of filter expressions.
var FilterLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Keywords are matched case-insensitively
	{Name: "Keyword", Pattern: `(?i)\b(LIKE|IN|BETWEEN|AND|TRUE|FALSE)\b`},

	// Literals
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},

	// Column names, optionally qualified by a table
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*(?:\.[\p{L}_][\p{L}\p{N}_]*)?`},

	{Name: "Operator", Pattern: `<>|!=|>=|<=|=|>|<`},
	{Name: "Punct", Pattern: `[(),]`},

	{Name: "Whitespace", Pattern: `\s+`},
})
