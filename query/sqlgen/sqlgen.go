// Package sqlgen renders the clauses of a SQL statement.
//
// Every function is pure: it takes a structured description of one clause
// and returns its SQL text. Literal mode inlines values as quoted text and is
// unsafe for untrusted input; prepared mode emits one "?" per bound value and
// returns the values in placeholder order.
package sqlgen

import (
	"fmt"
	"strings"
)

// Query represents a SQL query with arguments
type Query struct {
	SQL  string
	Args []interface{}
}

// Direction is an ORDER BY direction
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type columnsKind int

const (
	allColumns columnsKind = iota
	listColumns
	rawColumns
)

// Columns describes a SELECT projection: all columns, a list of names or a
// pre-joined raw string.
type Columns struct {
	kind  columnsKind
	names []string
	raw   string
}

// All selects every column.
func All() Columns { return Columns{kind: allColumns} }

// List selects the named columns.
func List(names ...string) Columns {
	if len(names) == 0 {
		return All()
	}
	return Columns{kind: listColumns, names: names}
}

// Raw selects a comma-joined column string as is.
func Raw(columns string) Columns {
	if strings.TrimSpace(columns) == "" {
		return All()
	}
	return Columns{kind: rawColumns, raw: columns}
}

// IsAll reports whether the projection is "*".
func (c Columns) IsAll() bool { return c.kind == allColumns }

// Names returns the listed names, nil unless the projection is a List.
func (c Columns) Names() []string {
	if c.kind != listColumns {
		return nil
	}
	return append([]string(nil), c.names...)
}

// RawString returns the raw projection, "" unless the projection is Raw.
func (c Columns) RawString() (string, bool) {
	return c.raw, c.kind == rawColumns
}

// Select renders the SELECT clause.
func Select(cols Columns) string {
	switch cols.kind {
	case listColumns:
		return "SELECT " + strings.Join(cols.names, ", ")
	case rawColumns:
		return "SELECT " + cols.raw
	default:
		return "SELECT *"
	}
}

// From renders the FROM clause.
func From(table string) (string, error) {
	if table == "" {
		return "", NewArgumentError("from", "table", "table name is required")
	}
	return "FROM " + table, nil
}

// GroupBy renders the GROUP BY clause.
func GroupBy(column string) (string, error) {
	if column == "" {
		return "", NewArgumentError("groupBy", "column", "key is required for groupBy")
	}
	return "GROUP BY " + column, nil
}

// OrderBy renders the ORDER BY clause. An empty direction means ASC; the
// direction is matched case-insensitively and must be ASC or DESC.
func OrderBy(column string, dir Direction) (string, error) {
	if column == "" {
		return "", NewArgumentError("orderBy", "column", "key is required for orderBy")
	}
	switch d := Direction(strings.ToUpper(strings.TrimSpace(string(dir)))); d {
	case "":
		dir = Asc
	case Asc, Desc:
		dir = d
	default:
		return "", NewArgumentError("orderBy", "direction", fmt.Sprintf("direction must be ASC or DESC, got %q", string(dir)))
	}
	return fmt.Sprintf("ORDER BY %s %s", column, dir), nil
}

// Limit renders the LIMIT clause. Zero is treated as not provided.
func Limit(n int) (string, error) {
	if n <= 0 {
		return "", NewArgumentError("limit", "n", "number is required for limit")
	}
	return fmt.Sprintf("LIMIT %d", n), nil
}

// Offset renders the OFFSET clause. Zero is treated as not provided.
func Offset(n int) (string, error) {
	if n <= 0 {
		return "", NewArgumentError("offset", "n", "number is required for offset")
	}
	return fmt.Sprintf("OFFSET %d", n), nil
}

// Assign renders "col = value" assignments joined by ", ", as used by UPDATE
// and ON DUPLICATE KEY UPDATE.
func Assign(data Assignments, prepared bool) (string, []interface{}) {
	parts := make([]string, 0, data.Len())
	var args []interface{}
	for _, p := range data.Items() {
		if prepared {
			parts = append(parts, fmt.Sprintf("%s = ?", p.Column))
			args = append(args, p.Value)
		} else {
			parts = append(parts, fmt.Sprintf("%s = %s", p.Column, quote(p.Value)))
		}
	}
	return strings.Join(parts, ", "), args
}

// InsertValues renders the column list and the VALUES list of an INSERT,
// without the surrounding parentheses. Literal values are single-quoted.
func InsertValues(data Assignments, prepared bool) (string, string, []interface{}) {
	cols := make([]string, 0, data.Len())
	vals := make([]string, 0, data.Len())
	var args []interface{}
	for _, p := range data.Items() {
		cols = append(cols, p.Column)
		if prepared {
			vals = append(vals, "?")
			args = append(args, p.Value)
		} else {
			vals = append(vals, "'"+fmt.Sprint(p.Value)+"'")
		}
	}
	return strings.Join(cols, ","), strings.Join(vals, ","), args
}
