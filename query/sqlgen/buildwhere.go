// Package sqlgen provides WHERE clause building logic.
package sqlgen

import (
	"fmt"
	"strings"
)

// Where renders the predicate collection as a WHERE clause in insertion
// order.
//
// Consecutive OR-tagged predicates form a run. A run of two or more terms is
// parenthesized and attached to its neighbours with AND; a single OR term is
// attached unparenthesized with OR. AND-tagged predicates attach with AND.
// In prepared mode the returned args follow placeholder order.
func Where(preds Predicates, prepared bool) (string, []interface{}) {
	if preds.IsEmpty() {
		return "", nil
	}

	items := preds.Items()
	var (
		body strings.Builder
		args []interface{}
	)
	appendTerm := func(joiner, term string) {
		if body.Len() > 0 {
			body.WriteString(joiner)
		}
		body.WriteString(term)
	}

	for i := 0; i < len(items); {
		p := items[i]
		if p.Connective != Or {
			appendTerm(" AND ", comparison(p.Column, p.Operator, p.Value, prepared))
			if prepared {
				args = append(args, p.Value)
			}
			i++
			continue
		}

		var run []string
		for ; i < len(items) && items[i].Connective == Or; i++ {
			run = append(run, comparison(items[i].Column, items[i].Operator, items[i].Value, prepared))
			if prepared {
				args = append(args, items[i].Value)
			}
		}
		if len(run) == 1 {
			appendTerm(" OR ", run[0])
		} else {
			appendTerm(" AND ", "("+strings.Join(run, " OR ")+")")
		}
	}

	return "WHERE " + body.String(), args
}

// WhereLegacy renders predicates with one connective and one comparison
// operator for the whole clause, ignoring the per-predicate fields.
func WhereLegacy(preds Predicates, useOr bool, operator string, prepared bool) (string, []interface{}) {
	if preds.IsEmpty() {
		return "", nil
	}

	var conditions []string
	var args []interface{}
	for _, p := range preds.Items() {
		conditions = append(conditions, comparison(p.Column, operator, p.Value, prepared))
		if prepared {
			args = append(args, p.Value)
		}
	}

	op := " AND "
	if useOr {
		op = " OR "
	}
	return "WHERE " + strings.Join(conditions, op), args
}

// In renders IN conditions joined with AND. continuation selects the AND
// prefix over WHERE.
func In(clause InClause, continuation, prepared bool) (string, []interface{}) {
	if clause.IsEmpty() {
		return "", nil
	}

	var conditions []string
	var args []interface{}
	for _, e := range clause.Items() {
		values := make([]string, len(e.Values))
		for i, v := range e.Values {
			if prepared {
				values[i] = "?"
				args = append(args, v)
			} else {
				values[i] = quote(v)
			}
		}
		conditions = append(conditions, fmt.Sprintf("%s IN (%s)", e.Column, strings.Join(values, ",")))
	}

	return keyword(continuation) + strings.Join(conditions, " AND "), args
}

// Like renders LIKE conditions joined with OR when clause.UseOr, AND otherwise.
func Like(clause LikeClause, continuation, prepared bool) (string, []interface{}) {
	if clause.IsEmpty() {
		return "", nil
	}

	var conditions []string
	var args []interface{}
	for _, e := range clause.Items() {
		if prepared {
			conditions = append(conditions, fmt.Sprintf("%s LIKE ?", e.Column))
			args = append(args, e.Pattern)
		} else {
			conditions = append(conditions, fmt.Sprintf("%s LIKE %s", e.Column, quote(e.Pattern)))
		}
	}

	op := " AND "
	if clause.UseOr {
		op = " OR "
	}
	return keyword(continuation) + strings.Join(conditions, op), args
}

// Between renders BETWEEN conditions joined with AND. Literal bounds are not
// quoted.
func Between(clause BetweenClause, continuation, prepared bool) (string, []interface{}) {
	if clause.IsEmpty() {
		return "", nil
	}

	var conditions []string
	var args []interface{}
	for _, e := range clause.Items() {
		if prepared {
			conditions = append(conditions, fmt.Sprintf("%s BETWEEN ? AND ?", e.Column))
			args = append(args, e.Low, e.High)
		} else {
			conditions = append(conditions, fmt.Sprintf("%s BETWEEN %v AND %v", e.Column, e.Low, e.High))
		}
	}

	return keyword(continuation) + strings.Join(conditions, " AND "), args
}

// comparison renders a single "<column> <op> <value>" condition
func comparison(column, operator string, value interface{}, prepared bool) string {
	if operator == "" {
		operator = "="
	}
	if prepared {
		return fmt.Sprintf("%s %s ?", column, operator)
	}
	return fmt.Sprintf("%s %s %s", column, operator, quote(value))
}

func keyword(continuation bool) string {
	if continuation {
		return "AND "
	}
	return "WHERE "
}

// quote renders a literal value in double quotes
func quote(v interface{}) string {
	return `"` + fmt.Sprint(v) + `"`
}
