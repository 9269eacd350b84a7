// Package columns derives camelCase output aliases for SELECT projections.
package columns

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// DefaultDelimiter separates the words of a snake_case column name.
const DefaultDelimiter = "_"

// TitleCase upper-cases the first letter of s and lower-cases the rest.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// CamelCase converts a delimited column name to camelCase. Whitespace is
// dropped; a name without the delimiter is only lower-cased.
func CamelCase(field, delimiter string) string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	field = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, field)

	if !strings.Contains(field, delimiter) {
		return strings.ToLower(field)
	}

	parts := strings.Split(field, delimiter)
	for i, part := range parts {
		if i == 0 {
			parts[i] = strings.ToLower(part)
			continue
		}
		parts[i] = TitleCase(part)
	}
	return strings.Join(parts, "")
}

// GetAliases renders "column AS alias" pairs joined by ",". A projection of
// all columns, a raw projection containing "*" and a raw projection without
// "," are returned unchanged. A column without the delimiter is emitted bare.
func GetAliases(fields sqlgen.Columns, delimiter string) (string, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if fields.IsAll() {
		return "*", nil
	}

	names := fields.Names()
	if raw, ok := fields.RawString(); ok {
		if strings.Contains(raw, "*") || !strings.Contains(raw, ",") {
			return raw, nil
		}
		names = strings.Split(raw, ",")
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return "", sqlgen.NewArgumentError("getAliases", "fields",
				"syntax error in select statement, fields should be in comma(,) separated style or in array")
		}
		if !strings.Contains(name, delimiter) {
			keys = append(keys, name)
			continue
		}
		keys = append(keys, name+" AS "+CamelCase(name, delimiter))
	}
	return strings.Join(keys, ","), nil
}
