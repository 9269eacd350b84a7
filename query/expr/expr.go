// Package expr parses textual filter expressions such as
//
//	age > 30 AND name LIKE "A%" AND id IN (1, 2, 3) AND score BETWEEN 10 AND 20
//
// and applies them to a statement builder.
package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/sqlbuilder/query/builder"
)

// Filter is a conjunction of conditions.
type Filter struct {
	Pos         lexer.Position
	Expressions []*Expression `@@ ( "AND" @@ )*`
}

// Expression is a single condition on one column.
type Expression struct {
	Pos    lexer.Position
	Column string     `@Ident`
	Cond   *Condition `@@`
}

// Condition is the test applied to the column.
type Condition struct {
	Compare *Compare `  @@`
	In      *In      `| @@`
	Like    *Like    `| @@`
	Between *Between `| @@`
}

// Compare is a comparison against a single value.
type Compare struct {
	Operator string `@Operator`
	Value    *Value `@@`
}

// In is a membership test against a list of values.
type In struct {
	Values []*Value `"IN" "(" @@ ( "," @@ )* ")"`
}

// Like is a pattern match.
type Like struct {
	Pattern *Value `"LIKE" @@`
}

// Between is an inclusive range test.
type Between struct {
	Low  *Value `"BETWEEN" @@`
	High *Value `"AND" @@`
}

// Value is a literal.
type Value struct {
	Pos    lexer.Position
	String *string `  @String`
	Number *string `| @Number`
	Bool   *string `| @( "TRUE" | "FALSE" )`
}

// Interface returns the literal as a Go value: string, int64, float64 or bool.
func (v *Value) Interface() interface{} {
	switch {
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		if n, err := strconv.ParseInt(*v.Number, 10, 64); err == nil {
			return n
		}
		f, _ := strconv.ParseFloat(*v.Number, 64)
		return f
	case v.Bool != nil:
		return strings.EqualFold(*v.Bool, "true")
	default:
		return nil
	}
}

var parser = participle.MustBuild[Filter](
	participle.Lexer(FilterLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(2),
)

// Parse parses a filter expression.
func Parse(input string) (*Filter, error) {
	f, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", input, err)
	}
	return f, nil
}

// ParseAll parses every input and concatenates the conditions in order.
func ParseAll(inputs ...string) ([]*Expression, error) {
	var out []*Expression
	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			continue
		}
		f, err := Parse(in)
		if err != nil {
			return nil, err
		}
		out = append(out, f.Expressions...)
	}
	return out, nil
}

// Apply adds every condition to b with the matching WHERE-family call.
// Errors are recorded on the builder like any other chained call.
func Apply(b *builder.Builder, exprs ...*Expression) *builder.Builder {
	for _, e := range exprs {
		c := e.Cond
		switch {
		case c.Compare != nil:
			b.WhereOp(e.Column, c.Compare.Operator, c.Compare.Value.Interface())
		case c.In != nil:
			values := make([]interface{}, 0, len(c.In.Values))
			for _, v := range c.In.Values {
				values = append(values, v.Interface())
			}
			b.WhereIn(e.Column, values...)
		case c.Like != nil:
			b.WhereLike(e.Column, c.Like.Pattern.Interface())
		case c.Between != nil:
			b.WhereBetween(e.Column, c.Between.Low.Interface(), c.Between.High.Interface())
		}
	}
	return b
}
