// Package sqlgen provides JOIN clause rendering.
package sqlgen

import (
	"fmt"
	"strings"
)

// JoinKind is the join type shared by all joins of a statement
type JoinKind string

const (
	InnerJoin JoinKind = "INNER"
	LeftJoin  JoinKind = "LEFT"
	RightJoin JoinKind = "RIGHT"
	FullJoin  JoinKind = "FULL"
)

// Join renders one "<kind> JOIN <table> ON <condition>" fragment per entry,
// separated by spaces. An empty kind renders as INNER.
func Join(joins Joins, kind JoinKind) string {
	if joins.IsEmpty() {
		return ""
	}
	if kind == "" {
		kind = InnerJoin
	}

	parts := make([]string, 0, joins.Len())
	for _, j := range joins.Items() {
		parts = append(parts, fmt.Sprintf("%s JOIN %s ON %s", kind, j.Table, j.On))
	}
	return strings.Join(parts, " ")
}
