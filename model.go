package hxfacet

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// Change is one model change message.
type Change struct {
	Path  string
	Value any
}

// ChangeFunc receives model changes synchronously.
type ChangeFunc func(path string, value any)

// Model is a tree of values addressed by dotted paths (".a.b"). The root
// is the empty path. Setting a path announces the change of the path
// itself and of every path below it whose value appears or disappears.
//
// Subscribers run on the setting goroutine, after the model lock has been
// released, in subscription order.
type Model struct {
	mu   sync.Mutex
	root map[string]any
	next uint64
	subs []subscription
}

type subscription struct {
	id uint64
	fn ChangeFunc
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{root: make(map[string]any)}
}

// Get returns the value at path.
func (m *Model) Get(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(splitPath(path))
}

// Set stores value at path, creating intermediate objects, and notifies
// subscribers. An intermediate value that is missing or not an object is
// replaced by a new object and announced along with its children.
func (m *Model) Set(path string, value any) {
	keys := splitPath(path)
	value = clone(value)

	m.mu.Lock()
	// Announce from the highest ancestor put is about to replace, so
	// paths bound to that ancestor see their new object.
	top := keys[:m.replaced(keys)]
	old, _ := m.get(top)
	m.put(keys, value)
	cur, _ := m.get(top)
	changes := diff(joinPath(top), old, cur, nil)
	subs := append([]subscription(nil), m.subs...)
	m.mu.Unlock()

	for _, c := range changes {
		for _, s := range subs {
			s.fn(c.Path, c.Value)
		}
	}
}

// SetAll replaces the whole model, like Set with the root path.
func (m *Model) SetAll(values map[string]any) {
	m.Set("", values)
}

// LoadJSON replaces the model with a JSON object document.
func (m *Model) LoadJSON(doc string) error {
	if !gjson.Valid(doc) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidModel)
	}
	root, ok := gjson.Parse(doc).Value().(map[string]any)
	if !ok {
		return fmt.Errorf("%w: top level is not an object", ErrInvalidModel)
	}
	m.SetAll(root)
	return nil
}

// Path returns a handle scoped to path.
func (m *Model) Path(path string) *PathRef {
	return &PathRef{model: m, path: path}
}

// Subscribe calls fn for every change. The returned func unsubscribes.
func (m *Model) Subscribe(fn ChangeFunc) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := m.next
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Model) get(keys []string) (any, bool) {
	var cur any = m.root
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// replaced returns the length of the path prefix whose value put(keys)
// overwrites: the first ancestor that is missing or not an object, or the
// full path when every ancestor is an object.
func (m *Model) replaced(keys []string) int {
	obj := m.root
	for i, k := range keys[:max(len(keys)-1, 0)] {
		child, ok := obj[k].(map[string]any)
		if !ok {
			return i + 1
		}
		obj = child
	}
	return len(keys)
}

func (m *Model) put(keys []string, value any) {
	if len(keys) == 0 {
		obj, ok := value.(map[string]any)
		if !ok {
			obj = make(map[string]any)
		}
		m.root = obj
		return
	}
	obj := m.root
	for _, k := range keys[:len(keys)-1] {
		child, ok := obj[k].(map[string]any)
		if !ok {
			child = make(map[string]any)
			obj[k] = child
		}
		obj = child
	}
	obj[keys[len(keys)-1]] = value
}

// PathRef reads and writes one model path.
type PathRef struct {
	model *Model
	path  string
}

func (p *PathRef) Get() (any, bool) { return p.model.Get(p.path) }

func (p *PathRef) Set(value any) { p.model.Set(p.path, value) }

// Path returns the string path of the handle.
func (p *PathRef) Path() string { return p.path }

// ValueAt reads the value at a dotted model path from a JSON document.
func ValueAt(doc, path string) (any, bool) {
	keys := splitPath(path)
	for i, k := range keys {
		keys[i] = escapeGJSON(k)
	}
	r := gjson.Get(doc, strings.Join(keys, "."))
	if !r.Exists() {
		return nil, false
	}
	return r.Value(), true
}

// diff lists the changes caused by replacing old with cur at path, parents
// first, children in key order.
func diff(path string, old, cur any, out []Change) []Change {
	out = append(out, Change{Path: path, Value: cur})
	newObj, _ := cur.(map[string]any)
	oldObj, _ := old.(map[string]any)
	for _, k := range sortedKeys(newObj) {
		out = diff(path+"."+k, oldObj[k], newObj[k], out)
	}
	for _, k := range sortedKeys(oldObj) {
		if _, ok := newObj[k]; !ok {
			out = diff(path+"."+k, oldObj[k], nil, out)
		}
	}
	return out
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func joinPath(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return "." + strings.Join(keys, ".")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// clone copies nested objects and arrays so callers cannot mutate the
// model behind its back.
func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = clone(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = clone(e)
		}
		return out
	}
	return v
}

func escapeGJSON(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
