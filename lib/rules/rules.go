// Package rules holds the declarative rule table of the css facet.
//
// A Table maps model paths to Rules. A Rule turns the current value at its
// path into at most one CSS class name:
//
//	'.done':   "is-done"                  // Literal, gated by truthiness
//	'.status': {"ok": "ok", "err": "$-x"} // Lookup, "$" templates use the key
//	'.size':   "size-$"                   // Template of the value
//	'.score':  func(v any) string {...}   // Function
//
// Tables are immutable once built; Resolve is safe for concurrent use.
package rules

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Placeholder is substituted by a value in template class names.
const Placeholder = "$"

var (
	ErrUnsupportedRule    = errors.New("rules: unsupported rule type")
	ErrMissingPlaceholder = errors.New("rules: template has no placeholder")
	ErrRuleFailed         = errors.New("rules: rule function failed")
	ErrInvalidClass       = errors.New("rules: class name contains whitespace")
)

// Kind identifies the variant of a Rule.
type Kind int

const (
	Literal Kind = iota + 1
	Lookup
	Function
	Template
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Lookup:
		return "lookup"
	case Function:
		return "function"
	case Template:
		return "template"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ClassFunc computes a class name from a model value. An empty result
// means no class.
type ClassFunc func(value any) (string, error)

// Rule is a tagged variant; construct it with NewLiteral, NewLookup,
// NewFunction or NewTemplate.
type Rule struct {
	kind  Kind
	class string
	table map[string]string
	fn    ClassFunc
}

func NewLiteral(class string) Rule { return Rule{kind: Literal, class: class} }

func NewTemplate(pattern string) Rule { return Rule{kind: Template, class: pattern} }

func NewFunction(fn ClassFunc) Rule { return Rule{kind: Function, fn: fn} }

// NewLookup copies table so later changes by the caller do not leak in.
func NewLookup(table map[string]string) Rule {
	t := make(map[string]string, len(table))
	for k, v := range table {
		t[k] = v
	}
	return Rule{kind: Lookup, table: t}
}

func (r Rule) Kind() Kind { return r.kind }

// Pattern returns the class (Literal) or pattern (Template) of the rule.
func (r Rule) Pattern() string { return r.class }

// Entry returns the class configured for key in a Lookup rule.
func (r Rule) Entry(key string) (string, bool) {
	v, ok := r.table[key]
	return v, ok
}

// Resolve produces the class for value. ok is false when the rule yields
// no class. err is non-nil only for resolution failures; a failed
// resolution never yields a class.
func Resolve(r Rule, value any) (class string, ok bool, err error) {
	switch r.kind {
	case Literal:
		if !Truthy(value) {
			return "", false, nil
		}
		return present(r.class)

	case Lookup:
		if value == nil {
			return "", false, nil
		}
		key := String(value)
		entry, found := r.table[key]
		if !found {
			return "", false, nil
		}
		if strings.Contains(entry, Placeholder) {
			return present(substitute(entry, key))
		}
		return present(entry)

	case Function:
		if r.fn == nil {
			return "", false, fmt.Errorf("%w: nil function", ErrUnsupportedRule)
		}
		class, err := call(r.fn, value)
		if err != nil {
			return "", false, err
		}
		return present(class)

	case Template:
		if !strings.Contains(r.class, Placeholder) {
			return "", false, fmt.Errorf("%w: %q", ErrMissingPlaceholder, r.class)
		}
		if !Truthy(value) {
			return "", false, nil
		}
		return present(substitute(r.class, String(value)))
	}
	return "", false, fmt.Errorf("%w: %s", ErrUnsupportedRule, r.kind)
}

// call runs fn, turning a panic into ErrRuleFailed.
func call(fn ClassFunc, value any) (class string, err error) {
	defer func() {
		if p := recover(); p != nil {
			class, err = "", fmt.Errorf("%w: panic: %v", ErrRuleFailed, p)
		}
	}()
	class, err = fn(value)
	if err != nil && !errors.Is(err, ErrRuleFailed) {
		err = fmt.Errorf("%w: %w", ErrRuleFailed, err)
	}
	return class, err
}

func substitute(pattern, s string) string {
	return strings.Replace(pattern, Placeholder, s, 1)
}

// present turns a produced name into a result. A name with whitespace
// would split into several tokens in the class attribute.
func present(class string) (string, bool, error) {
	if class == "" {
		return "", false, nil
	}
	if hasSpace(class) {
		return "", false, fmt.Errorf("%w: %q", ErrInvalidClass, class)
	}
	return class, true, nil
}

func hasSpace(s string) bool {
	return strings.ContainsFunc(s, unicode.IsSpace)
}
