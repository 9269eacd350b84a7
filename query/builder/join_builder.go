// Package builder provides JOIN building functionality
package builder

import (
	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// Join adds an INNER JOIN. The join kind is shared by every join of the
// statement, so the last Join, LeftJoin, RightJoin or FullJoin call decides it.
func (b *Builder) Join(table, on string) *Builder {
	return b.join(table, on, sqlgen.InnerJoin)
}

// LeftJoin adds a LEFT JOIN
func (b *Builder) LeftJoin(table, on string) *Builder {
	return b.join(table, on, sqlgen.LeftJoin)
}

// RightJoin adds a RIGHT JOIN
func (b *Builder) RightJoin(table, on string) *Builder {
	return b.join(table, on, sqlgen.RightJoin)
}

// FullJoin adds a FULL JOIN
func (b *Builder) FullJoin(table, on string) *Builder {
	return b.join(table, on, sqlgen.FullJoin)
}

func (b *Builder) join(table, on string, kind sqlgen.JoinKind) *Builder {
	if table == "" {
		return b.fail(sqlgen.NewArgumentError("join", "table", "table name is required"))
	}
	b.isJoin = true
	b.joinKind = kind
	b.joins.Set(sqlgen.JoinEntry{Table: table, On: on})
	return b
}
