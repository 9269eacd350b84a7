// Package builder provides a fluent SQL statement builder.
//
// A Builder accumulates the clauses of one statement through chained calls
// and renders it on a terminal call (Build, Insert, InsertOnDuplicate, Update
// or Delete). Builders are not reusable and not safe for concurrent use: create
// one per statement.
//
//	sql, err := builder.New().
//		Select(sqlgen.List("id", "first_name")).
//		From("users").
//		WhereOp("age", ">", 30).
//		OrderBy("id", sqlgen.Desc).
//		Limit(10).
//		Build()
//
// With WithPreparedStatement(true) values are rendered as "?" placeholders;
// Args returns the values to bind, in placeholder order.
package builder

import (
	"strings"

	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// Options are the recognized builder options.
type Options struct {
	// PreparedStatement renders placeholders instead of inlined literals.
	PreparedStatement bool
	// ConvertColumnsToCamelCase aliases SELECT columns to camelCase.
	ConvertColumnsToCamelCase bool
}

// Option configures a Builder.
type Option func(*Options)

// WithPreparedStatement enables or disables placeholder rendering.
func WithPreparedStatement(enabled bool) Option {
	return func(o *Options) {
		o.PreparedStatement = enabled
	}
}

// WithCamelCaseColumns enables or disables camelCase SELECT aliases.
func WithCamelCaseColumns(enabled bool) Option {
	return func(o *Options) {
		o.ConvertColumnsToCamelCase = enabled
	}
}

// Builder builds a single SQL statement
type Builder struct {
	opts Options

	table   string
	columns sqlgen.Columns

	joins    sqlgen.Joins
	joinKind sqlgen.JoinKind

	where        sqlgen.Predicates
	whereIn      sqlgen.InClause
	whereLike    sqlgen.LikeClause
	whereBetween sqlgen.BetweenClause

	isJoin           bool
	isOrStatement    bool
	isWhere          bool
	isWhereIn        bool
	isWhereLike      bool
	isWhereBetween   bool
	groupByColumn    string
	orderByColumn    string
	orderByDirection sqlgen.Direction
	limit            int
	offset           int

	err  error
	args []interface{}
}

// New creates a new statement builder
func New(opts ...Option) *Builder {
	b := &Builder{columns: sqlgen.All()}
	return b.SetOptions(opts...)
}

// SetOptions applies the given options, leaving the others untouched.
func (b *Builder) SetOptions(opts ...Option) *Builder {
	for _, opt := range opts {
		opt(&b.opts)
	}
	return b
}

// Options returns the current options
func (b *Builder) Options() Options {
	return b.opts
}

// Err returns the first argument error recorded by a chained call.
func (b *Builder) Err() error {
	return b.err
}

// Args returns the values to bind to the placeholders of the statement
// rendered by the last terminal call. It is empty in literal mode.
func (b *Builder) Args() []interface{} {
	return append([]interface{}(nil), b.args...)
}

// From sets the target table
func (b *Builder) From(table string) *Builder {
	if _, err := sqlgen.From(table); err != nil {
		return b.fail(err)
	}
	b.table = table
	return b
}

// GroupBy sets the GROUP BY column
func (b *Builder) GroupBy(column string) *Builder {
	if _, err := sqlgen.GroupBy(column); err != nil {
		return b.fail(err)
	}
	b.groupByColumn = column
	return b
}

// OrderBy sets the ORDER BY column and direction. An empty direction is ASC.
func (b *Builder) OrderBy(column string, direction sqlgen.Direction) *Builder {
	if _, err := sqlgen.OrderBy(column, direction); err != nil {
		return b.fail(err)
	}
	b.orderByColumn = column
	b.orderByDirection = direction
	return b
}

// Limit sets the LIMIT. Zero is rejected like a missing value.
func (b *Builder) Limit(n int) *Builder {
	if _, err := sqlgen.Limit(n); err != nil {
		return b.fail(err)
	}
	b.limit = n
	return b
}

// Offset sets the OFFSET. Zero is rejected like a missing value.
func (b *Builder) Offset(n int) *Builder {
	if _, err := sqlgen.Offset(n); err != nil {
		return b.fail(err)
	}
	b.offset = n
	return b
}

// QueryRaw returns query trimmed. It does not read or change builder state.
func (b *Builder) QueryRaw(query string) string {
	return strings.TrimSpace(query)
}

// Build renders the SELECT statement.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.args = nil

	from, err := sqlgen.From(b.table)
	if err != nil {
		return "", err
	}

	parts := []string{sqlgen.Select(b.columns), from}
	if b.isJoin {
		parts = append(parts, sqlgen.Join(b.joins, b.joinKind))
	}
	if where := b.whereConditions(); where != "" {
		parts = append(parts, where)
	}
	if b.groupByColumn != "" {
		groupBy, _ := sqlgen.GroupBy(b.groupByColumn)
		parts = append(parts, groupBy)
	}
	if b.orderByColumn != "" {
		orderBy, _ := sqlgen.OrderBy(b.orderByColumn, b.orderByDirection)
		parts = append(parts, orderBy)
	}
	if b.limit > 0 {
		limit, _ := sqlgen.Limit(b.limit)
		parts = append(parts, limit)
	}
	if b.offset > 0 {
		offset, _ := sqlgen.Offset(b.offset)
		parts = append(parts, offset)
	}

	return strings.TrimSpace(strings.Join(parts, " ")) + ";", nil
}

// fail records the first error; the call that failed leaves state untouched.
func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}
