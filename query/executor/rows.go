package executor

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is the display form of an executed statement. Queries fill
// Columns and Rows; other statements fill RowsAffected.
type Result struct {
	Columns      []string
	Rows         []map[string]interface{}
	RowsAffected int64
}

// Strings returns the rows as strings in column order, NULL rendered as "NULL".
func (r *Result) Strings() [][]string {
	out := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		line := make([]string, len(r.Columns))
		for i, col := range r.Columns {
			if v := row[col]; v != nil {
				line[i] = fmt.Sprint(v)
			} else {
				line[i] = "NULL"
			}
		}
		out = append(out, line)
	}
	return out
}

// QueryMaps executes a query and returns every row keyed by column name.
// []byte values are converted to strings.
func (e *Executor) QueryMaps(ctx context.Context, query string, args ...interface{}) (*Result, error) {
	rows, err := e.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaps(rows)
}

func scanMaps(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}
