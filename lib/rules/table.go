package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table maps model paths to rules. The zero Table is empty and usable.
type Table struct {
	rules map[string]Rule
}

// NewTable builds a table from already constructed rules.
func NewTable(rules map[string]Rule) Table {
	t := Table{rules: make(map[string]Rule, len(rules))}
	for path, r := range rules {
		t.rules[path] = r
	}
	return t
}

// Lookup returns the rule bound to path.
func (t Table) Lookup(path string) (Rule, bool) {
	r, ok := t.rules[path]
	return r, ok
}

func (t Table) Len() int { return len(t.rules) }

// Paths returns the bound model paths in sorted order.
func (t Table) Paths() []string {
	paths := make([]string, 0, len(t.rules))
	for p := range t.rules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Parse builds a table from a configuration literal. Values may be:
//   - string: a Template when it contains Placeholder, a Literal otherwise
//   - map[string]string or map[string]any with string values: a Lookup
//   - ClassFunc, func(any) (string, error) or func(any) string: a Function
//   - Rule: used as is
//
// Any other value, or fixed class text containing whitespace, fails with
// ErrUnsupportedRule naming the path.
func Parse(config map[string]any) (Table, error) {
	t := Table{rules: make(map[string]Rule, len(config))}
	for path, v := range config {
		r, err := parseRule(v)
		if err != nil {
			return Table{}, fmt.Errorf("rule %q: %w", path, err)
		}
		t.rules[path] = r
	}
	return t, nil
}

func parseRule(v any) (Rule, error) {
	r, err := buildRule(v)
	if err != nil {
		return Rule{}, err
	}
	return r, checkClasses(r)
}

// checkClasses rejects fixed class text that can never form a single
// class token.
func checkClasses(r Rule) error {
	switch r.kind {
	case Literal, Template:
		if hasSpace(r.class) {
			return fmt.Errorf("%w: class %q contains whitespace", ErrUnsupportedRule, r.class)
		}
	case Lookup:
		for key, entry := range r.table {
			if hasSpace(entry) {
				return fmt.Errorf("%w: lookup entry %q: class %q contains whitespace", ErrUnsupportedRule, key, entry)
			}
		}
	}
	return nil
}

func buildRule(v any) (Rule, error) {
	switch r := v.(type) {
	case Rule:
		if r.kind == 0 {
			return Rule{}, fmt.Errorf("%w: zero rule", ErrUnsupportedRule)
		}
		if r.kind == Function && r.fn == nil {
			return Rule{}, fmt.Errorf("%w: nil function", ErrUnsupportedRule)
		}
		return r, nil
	case string:
		if strings.Contains(r, Placeholder) {
			return NewTemplate(r), nil
		}
		return NewLiteral(r), nil
	case map[string]string:
		return NewLookup(r), nil
	case map[string]any:
		table := make(map[string]string, len(r))
		for k, entry := range r {
			s, ok := entry.(string)
			if !ok {
				return Rule{}, fmt.Errorf("%w: lookup entry %q is %T, not a class name", ErrUnsupportedRule, k, entry)
			}
			table[k] = s
		}
		return NewLookup(table), nil
	case ClassFunc:
		if r == nil {
			return Rule{}, fmt.Errorf("%w: nil function", ErrUnsupportedRule)
		}
		return NewFunction(r), nil
	case func(any) (string, error):
		if r == nil {
			return Rule{}, fmt.Errorf("%w: nil function", ErrUnsupportedRule)
		}
		return NewFunction(r), nil
	case func(any) string:
		if r == nil {
			return Rule{}, fmt.Errorf("%w: nil function", ErrUnsupportedRule)
		}
		return NewFunction(func(value any) (string, error) { return r(value), nil }), nil
	}
	return Rule{}, fmt.Errorf("%w: %T", ErrUnsupportedRule, v)
}

// Format selects the encoding of a rule table file.
type Format int

const (
	// FormatAuto detects JSON by its leading brace and falls back to YAML.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// Load parses a rule table file. Only string and lookup rules can be
// expressed in a file.
func Load(data []byte, format Format) (Table, error) {
	var config map[string]any
	if err := unmarshal(data, &config, format); err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrUnsupportedRule, err)
	}
	return Parse(normalize(config))
}

func unmarshal(data []byte, v any, format Format) error {
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("expected JSON: %w", err)
		}
		return nil
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return json.Unmarshal(data, v)
		}
		return yaml.Unmarshal(data, v)
	}
}

// normalize turns YAML keys and scalars used in lookups into strings, so
// `{1: one}` and `{"1": "one"}` load the same.
func normalize(config map[string]any) map[string]any {
	out := make(map[string]any, len(config))
	for path, v := range config {
		switch m := v.(type) {
		case map[string]any:
			table := make(map[string]any, len(m))
			for k, entry := range m {
				table[k] = scalar(entry)
			}
			out[path] = table
		case map[any]any:
			table := make(map[string]any, len(m))
			for k, entry := range m {
				table[String(k)] = scalar(entry)
			}
			out[path] = table
		default:
			out[path] = v
		}
	}
	return out
}

// scalar stringifies lookup entries; nested collections are kept so Parse
// can reject them.
func scalar(v any) any {
	switch v.(type) {
	case map[string]any, map[any]any, []any, nil:
		return v
	}
	return String(v)
}
