// Package statement loads statement descriptions from YAML files and renders
// them with the statement builder.
//
// A file holds one or more YAML documents:
//
//	name: active adults
//	kind: select
//	table: users
//	columns: [id, first_name]
//	where:
//	  status: active
//	filters:
//	  - age BETWEEN 18 AND 65
//	order_by: id
//	order: desc
//	limit: 10
//
// Mapping order is kept, so the order of keys decides the order of the
// rendered conditions and of the bind arguments.
package statement

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// Kind is the statement kind of a document.
type Kind string

const (
	KindSelect Kind = "select"
	KindInsert Kind = "insert"
	KindUpsert Kind = "upsert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
	KindRaw    Kind = "raw"
)

// Statement is one statement document.
type Statement struct {
	Name      string        `yaml:"name"`
	Kind      Kind          `yaml:"kind"`
	Table     string        `yaml:"table"`
	Prepared  *bool         `yaml:"prepared"`
	CamelCase *bool         `yaml:"camel_case"`
	Columns   Columns       `yaml:"columns"`
	Joins     []Join        `yaml:"joins"`
	Where     Pairs         `yaml:"where"`
	OrWhere   Pairs         `yaml:"or_where"`
	Filters   []string      `yaml:"filters"`
	WhereIn   Pairs         `yaml:"where_in"`
	Like      Pairs         `yaml:"where_like"`
	OrLike    Pairs         `yaml:"or_where_like"`
	Between   Pairs         `yaml:"where_between"`
	GroupBy   string        `yaml:"group_by"`
	OrderBy   string        `yaml:"order_by"`
	Order     string        `yaml:"order"`
	Limit     int           `yaml:"limit"`
	Offset    int           `yaml:"offset"`
	Values    Pairs         `yaml:"values"`
	OnDup     Pairs         `yaml:"on_duplicate"`
	SQL       string        `yaml:"sql"`
	Args      []interface{} `yaml:"args"`
}

// Join is one joined table.
type Join struct {
	Kind  string `yaml:"kind"`
	Table string `yaml:"table"`
	On    string `yaml:"on"`
}

// Columns is a select projection written either as a list or as a
// comma separated string.
type Columns struct {
	sqlgen.Columns
	set bool
}

// NewColumns wraps a projection built in code.
func NewColumns(cols sqlgen.Columns) Columns {
	return Columns{Columns: cols, set: true}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Columns) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if strings.TrimSpace(value.Value) == "*" {
			c.Columns = sqlgen.All()
		} else {
			c.Columns = sqlgen.Raw(value.Value)
		}
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return fmt.Errorf("line %d: columns: %w", value.Line, err)
		}
		c.Columns = sqlgen.List(names...)
	default:
		return fmt.Errorf("line %d: columns must be a list or a string", value.Line)
	}
	c.set = true
	return nil
}

// Pairs is a YAML mapping decoded in document order.
type Pairs []sqlgen.Pair

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Pairs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", value.Line)
	}
	out := make(Pairs, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var v interface{}
		if err := val.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %s: %w", val.Line, key.Value, err)
		}
		out = append(out, sqlgen.P(key.Value, v))
	}
	*p = out
	return nil
}

// Assignments returns the pairs as an ordered assignment collection.
func (p Pairs) Assignments() sqlgen.Assignments {
	return sqlgen.NewAssignments(p...)
}

// Parse decodes every YAML document in data.
func Parse(data []byte) ([]*Statement, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []*Statement
	for {
		var s Statement
		err := dec.Decode(&s)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse statement: %w", err)
		}
		if s.Kind == "" {
			s.Kind = KindSelect
		}
		out = append(out, &s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no statement found")
	}
	return out, nil
}

// Load reads and decodes a statement file from fs.
func Load(fs afero.Fs, path string) ([]*Statement, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement file: %w", err)
	}
	stmts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stmts, nil
}
