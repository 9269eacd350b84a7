// Package builder provides select builder functionality.
package builder

import (
	"github.com/satishbabariya/sqlbuilder/query/columns"
	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// Select sets the projection, aliasing columns to camelCase when the
// ConvertColumnsToCamelCase option is set.
func (b *Builder) Select(cols sqlgen.Columns) *Builder {
	return b.SelectAliased(cols, b.opts.ConvertColumnsToCamelCase)
}

// SelectAliased sets the projection, overriding the camelCase option for
// this call.
func (b *Builder) SelectAliased(cols sqlgen.Columns, camelCase bool) *Builder {
	if cols.IsAll() || !camelCase {
		b.columns = cols
		return b
	}

	aliases, err := columns.GetAliases(cols, columns.DefaultDelimiter)
	if err != nil {
		return b.fail(err)
	}
	b.columns = sqlgen.Raw(aliases)
	return b
}
