// Package builder provides INSERT, UPDATE and DELETE rendering.
package builder

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// Insert renders an INSERT statement for data. Literal values are
// single-quoted.
func (b *Builder) Insert(table string, data sqlgen.Assignments) (string, error) {
	return b.InsertOnDuplicate(table, data, sqlgen.Assignments{})
}

// InsertOnDuplicate renders an INSERT statement followed by
// ON DUPLICATE KEY UPDATE for updates. An empty updates collection renders a
// plain INSERT.
func (b *Builder) InsertOnDuplicate(table string, data, updates sqlgen.Assignments) (string, error) {
	if err := b.checkMutation("insert", table, data); err != nil {
		return "", err
	}
	b.args = nil

	cols, vals, args := sqlgen.InsertValues(data, b.opts.PreparedStatement)
	b.args = append(b.args, args...)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, cols, vals)

	if !updates.IsEmpty() {
		set, args := sqlgen.Assign(updates, b.opts.PreparedStatement)
		b.args = append(b.args, args...)
		query += " ON DUPLICATE KEY UPDATE " + set
	}
	return strings.TrimSpace(query), nil
}

// Update renders an UPDATE statement followed by the WHERE-family clauses.
func (b *Builder) Update(table string, data sqlgen.Assignments) (string, error) {
	if err := b.checkMutation("update", table, data); err != nil {
		return "", err
	}
	b.args = nil

	set, args := sqlgen.Assign(data, b.opts.PreparedStatement)
	b.args = append(b.args, args...)

	query := fmt.Sprintf("UPDATE %s SET %s", table, set)
	if where := b.whereConditions(); where != "" {
		query += " " + where
	}
	return strings.TrimSpace(query), nil
}

// Delete renders a DELETE statement followed by the WHERE-family clauses.
// Without conditions every row of the table is targeted.
func (b *Builder) Delete(table string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if table == "" {
		return "", sqlgen.NewArgumentError("delete", "table", "table name is required")
	}
	b.args = nil

	query := "DELETE FROM " + table
	if where := b.whereConditions(); where != "" {
		query += " " + where
	}
	return strings.TrimSpace(query), nil
}

func (b *Builder) checkMutation(op, table string, data sqlgen.Assignments) error {
	if b.err != nil {
		return b.err
	}
	if table == "" {
		return sqlgen.NewArgumentError(op, "table", "table name is required")
	}
	if data.IsEmpty() {
		return sqlgen.NewArgumentError(op, "data", "at least one column is required")
	}
	return nil
}
