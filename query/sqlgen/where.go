// Package sqlgen provides WHERE clause structures.
package sqlgen

import "slices"

// Connective is the boolean operator that links a predicate to its neighbours.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

// Predicate represents a single column comparison
type Predicate struct {
	Column     string
	Operator   string // "=", "!=", ">", "<", ">=", "<=", ...; empty means "="
	Value      interface{}
	Connective Connective
}

// InEntry holds the candidate values of one IN condition
type InEntry struct {
	Column string
	Values []interface{}
}

// LikeEntry holds the pattern of one LIKE condition
type LikeEntry struct {
	Column  string
	Pattern interface{}
}

// BetweenEntry holds the bounds of one BETWEEN condition
type BetweenEntry struct {
	Column string
	Low    interface{}
	High   interface{}
}

// JoinEntry holds a joined table and its ON condition
type JoinEntry struct {
	Table string
	On    string
}

// Pair is a column/value pair of an INSERT or UPDATE payload
type Pair struct {
	Column string
	Value  interface{}
}

// P creates a Pair.
func P(column string, value interface{}) Pair {
	return Pair{Column: column, Value: value}
}

func (p Predicate) key() string    { return p.Column }
func (e InEntry) key() string      { return e.Column }
func (e LikeEntry) key() string    { return e.Column }
func (e BetweenEntry) key() string { return e.Column }
func (e JoinEntry) key() string    { return e.Table }
func (p Pair) key() string         { return p.Column }

type keyed interface {
	key() string
}

// Entries is an insertion-ordered collection keyed by column (or table, for
// joins). Setting an existing key replaces the entry in place, so the last
// write wins and the first insertion decides the position.
type Entries[T keyed] struct {
	items []T
	index map[string]int
}

// Set adds or replaces the entry with the same key.
func (e *Entries[T]) Set(item T) {
	if e.index == nil {
		e.index = make(map[string]int)
	}
	if i, ok := e.index[item.key()]; ok {
		e.items[i] = item
		return
	}
	e.index[item.key()] = len(e.items)
	e.items = append(e.items, item)
}

// Len returns the number of entries.
func (e *Entries[T]) Len() int {
	return len(e.items)
}

// IsEmpty returns true if there are no entries
func (e *Entries[T]) IsEmpty() bool {
	return len(e.items) == 0
}

// Items returns a copy of the entries in insertion order.
func (e *Entries[T]) Items() []T {
	return slices.Clone(e.items)
}

type (
	// Predicates is the ordered predicate collection of a WHERE clause.
	Predicates = Entries[Predicate]
	// InClause maps columns to their IN candidates.
	InClause = Entries[InEntry]
	// BetweenClause maps columns to their BETWEEN bounds.
	BetweenClause = Entries[BetweenEntry]
	// Joins maps joined tables to their ON conditions.
	Joins = Entries[JoinEntry]
	// Assignments is an ordered column/value payload.
	Assignments = Entries[Pair]
)

// LikeClause maps columns to LIKE patterns. UseOr joins the patterns with OR
// instead of AND, independently of the predicate connectives.
type LikeClause struct {
	Entries[LikeEntry]
	UseOr bool
}

// NewAssignments creates an Assignments collection from pairs.
func NewAssignments(pairs ...Pair) Assignments {
	var a Assignments
	for _, p := range pairs {
		a.Set(p)
	}
	return a
}
