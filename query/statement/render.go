package statement

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlbuilder/query/builder"
	"github.com/satishbabariya/sqlbuilder/query/expr"
	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// Render builds the statement. The options of the document are applied
// first, so opts override them.
func (s *Statement) Render(opts ...builder.Option) (*sqlgen.Query, error) {
	return s.RenderWithDefaults(nil, opts...)
}

// RenderWithDefaults builds the statement applying defaults, then the
// options of the document, then overrides.
func (s *Statement) RenderWithDefaults(defaults []builder.Option, overrides ...builder.Option) (*sqlgen.Query, error) {
	if s.Kind == KindRaw {
		b := builder.New()
		return &sqlgen.Query{SQL: b.QueryRaw(s.SQL), Args: s.Args}, nil
	}

	opts := append([]builder.Option(nil), defaults...)
	if s.Prepared != nil {
		opts = append(opts, builder.WithPreparedStatement(*s.Prepared))
	}
	if s.CamelCase != nil {
		opts = append(opts, builder.WithCamelCaseColumns(*s.CamelCase))
	}
	b := builder.New(append(opts, overrides...)...)

	if err := s.applyConditions(b); err != nil {
		return nil, err
	}

	var (
		sql string
		err error
	)
	switch s.Kind {
	case KindSelect:
		sql, err = s.buildSelect(b)
	case KindInsert:
		sql, err = b.Insert(s.Table, s.Values.Assignments())
	case KindUpsert:
		sql, err = b.InsertOnDuplicate(s.Table, s.Values.Assignments(), s.OnDup.Assignments())
	case KindUpdate:
		sql, err = b.Update(s.Table, s.Values.Assignments())
	case KindDelete:
		sql, err = b.Delete(s.Table)
	default:
		return nil, fmt.Errorf("unknown statement kind %q", s.Kind)
	}
	if err != nil {
		return nil, s.wrap(err)
	}
	return &sqlgen.Query{SQL: sql, Args: b.Args()}, nil
}

// applyConditions adds the WHERE-family sections: where, filters,
// or_where, where_in, where_like, or_where_like, where_between.
func (s *Statement) applyConditions(b *builder.Builder) error {
	if len(s.Where) > 0 {
		b.AndWhere(s.Where...)
	}
	exprs, err := expr.ParseAll(s.Filters...)
	if err != nil {
		return s.wrap(err)
	}
	expr.Apply(b, exprs...)
	if len(s.OrWhere) > 0 {
		b.OrWhere(s.OrWhere...)
	}

	for _, p := range s.WhereIn {
		if values, ok := p.Value.([]interface{}); ok {
			b.WhereIn(p.Column, values...)
		} else {
			b.WhereIn(p.Column, p.Value)
		}
	}
	for _, p := range s.Like {
		b.WhereLike(p.Column, p.Value)
	}
	for _, p := range s.OrLike {
		b.OrWhereLike(p.Column, p.Value)
	}
	for _, p := range s.Between {
		bounds, ok := p.Value.([]interface{})
		if !ok || len(bounds) != 2 {
			return s.wrap(fmt.Errorf("where_between %s: expected [low, high]", p.Column))
		}
		b.WhereBetween(p.Column, bounds[0], bounds[1])
	}
	return nil
}

func (s *Statement) buildSelect(b *builder.Builder) (string, error) {
	if s.Columns.set {
		b.Select(s.Columns.Columns)
	}
	b.From(s.Table)

	for _, j := range s.Joins {
		switch strings.ToLower(j.Kind) {
		case "", "inner":
			b.Join(j.Table, j.On)
		case "left":
			b.LeftJoin(j.Table, j.On)
		case "right":
			b.RightJoin(j.Table, j.On)
		case "full":
			b.FullJoin(j.Table, j.On)
		default:
			return "", fmt.Errorf("unknown join kind %q", j.Kind)
		}
	}

	if s.GroupBy != "" {
		b.GroupBy(s.GroupBy)
	}
	if s.OrderBy != "" {
		b.OrderBy(s.OrderBy, sqlgen.Direction(s.Order))
	}
	if s.Limit != 0 {
		b.Limit(s.Limit)
	}
	if s.Offset != 0 {
		b.Offset(s.Offset)
	}
	return b.Build()
}

func (s *Statement) wrap(err error) error {
	if s.Name != "" {
		return fmt.Errorf("statement %q: %w", s.Name, err)
	}
	return fmt.Errorf("%s statement: %w", s.Kind, err)
}
