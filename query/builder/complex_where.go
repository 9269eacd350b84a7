// Package builder provides WHERE-family clause accumulation.
package builder

import (
	"strings"

	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// Where adds an equality predicate, connected with the current mode (AND
// unless OrWhere was the last mode switch).
func (b *Builder) Where(column string, value interface{}) *Builder {
	return b.WhereOp(column, "=", value)
}

// WhereOp adds a predicate with the given comparison operator. A second
// predicate on the same column replaces the first.
func (b *Builder) WhereOp(column, operator string, value interface{}) *Builder {
	if column == "" {
		return b.fail(sqlgen.NewArgumentError("where", "column", "column name is required"))
	}
	connective := sqlgen.And
	if b.isOrStatement {
		connective = sqlgen.Or
	}
	b.isWhere = true
	b.where.Set(sqlgen.Predicate{
		Column:     column,
		Operator:   operator,
		Value:      value,
		Connective: connective,
	})
	return b
}

// OrWhere switches to OR mode and adds an equality predicate per pair.
func (b *Builder) OrWhere(pairs ...sqlgen.Pair) *Builder {
	b.isOrStatement = true
	for _, p := range pairs {
		b.Where(p.Column, p.Value)
	}
	return b
}

// AndWhere switches to AND mode and adds an equality predicate per pair.
func (b *Builder) AndWhere(pairs ...sqlgen.Pair) *Builder {
	b.isOrStatement = false
	for _, p := range pairs {
		b.Where(p.Column, p.Value)
	}
	return b
}

// WhereIn adds an IN condition. At least one value is required.
func (b *Builder) WhereIn(column string, values ...interface{}) *Builder {
	if column == "" {
		return b.fail(sqlgen.NewArgumentError("whereIn", "column", "column name is required"))
	}
	if len(values) == 0 {
		return b.fail(sqlgen.NewArgumentError("whereIn", "values", "at least one value is required for whereIn"))
	}
	b.isWhereIn = true
	b.whereIn.Set(sqlgen.InEntry{Column: column, Values: values})
	return b
}

// WhereLike adds a LIKE condition.
func (b *Builder) WhereLike(column string, pattern interface{}) *Builder {
	if column == "" {
		return b.fail(sqlgen.NewArgumentError("whereLike", "column", "column name is required"))
	}
	b.isWhereLike = true
	b.whereLike.Set(sqlgen.LikeEntry{Column: column, Pattern: pattern})
	return b
}

// OrWhereLike adds a LIKE condition and joins all LIKE conditions with OR.
func (b *Builder) OrWhereLike(column string, pattern interface{}) *Builder {
	if column == "" {
		return b.fail(sqlgen.NewArgumentError("whereLike", "column", "column name is required"))
	}
	b.whereLike.UseOr = true
	return b.WhereLike(column, pattern)
}

// WhereBetween adds a BETWEEN condition.
func (b *Builder) WhereBetween(column string, low, high interface{}) *Builder {
	if column == "" {
		return b.fail(sqlgen.NewArgumentError("whereBetween", "column", "column name is required"))
	}
	b.isWhereBetween = true
	b.whereBetween.Set(sqlgen.BetweenEntry{Column: column, Low: low, High: high})
	return b
}

// whereConditions renders the active WHERE-family clauses in fixed order:
// predicates, IN, LIKE, BETWEEN. Only the first active one opens with WHERE.
// Bind values are appended to b.args.
func (b *Builder) whereConditions() string {
	prepared := b.opts.PreparedStatement
	var parts []string

	add := func(sql string, args []interface{}) {
		parts = append(parts, sql)
		b.args = append(b.args, args...)
	}

	if b.isWhere {
		add(sqlgen.Where(b.where, prepared))
	}
	if b.isWhereIn {
		add(sqlgen.In(b.whereIn, b.isWhere, prepared))
	}
	if b.isWhereLike {
		add(sqlgen.Like(b.whereLike, b.isWhere || b.isWhereIn, prepared))
	}
	if b.isWhereBetween {
		add(sqlgen.Between(b.whereBetween, b.isWhere || b.isWhereIn || b.isWhereLike, prepared))
	}

	return strings.Join(parts, " ")
}
