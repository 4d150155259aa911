package hxfacet

import (
	"errors"
	"reflect"
	"testing"
)

type changeLog struct {
	changes []Change
}

func (l *changeLog) record(path string, value any) {
	l.changes = append(l.changes, Change{Path: path, Value: value})
}

func (l *changeLog) paths() []string {
	out := make([]string, len(l.changes))
	for i, c := range l.changes {
		out[i] = c.Path
	}
	return out
}

func TestModelSetGet(t *testing.T) {
	m := NewModel()
	m.Set(".a.b", 1)

	if v, ok := m.Get(".a.b"); !ok || v != 1 {
		t.Errorf("Get(.a.b) = %v, %v", v, ok)
	}
	if _, ok := m.Get(".a.c"); ok {
		t.Error("Get() found a missing path")
	}
	ref := m.Path(".a.c")
	ref.Set("x")
	if v, _ := ref.Get(); v != "x" {
		t.Errorf("PathRef.Get() = %v", v)
	}
	if ref.Path() != ".a.c" {
		t.Errorf("PathRef.Path() = %q", ref.Path())
	}
}

func TestModelNotifiesChildren(t *testing.T) {
	m := NewModel()
	log := &changeLog{}
	m.Subscribe(log.record)

	m.Set(".obj", map[string]any{"b": 2, "a": 1})
	want := []string{".obj", ".obj.a", ".obj.b"}
	if got := log.paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("changes = %v, want %v", got, want)
	}

	log.changes = nil
	m.Set(".obj", map[string]any{"a": 3})
	want = []string{".obj", ".obj.a", ".obj.b"}
	if got := log.paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("changes = %v, want %v", got, want)
	}
	if log.changes[2].Value != nil {
		t.Errorf("removed key reported %v, want nil", log.changes[2].Value)
	}
}

func TestModelSetBelowScalar(t *testing.T) {
	m := NewModel()
	m.Set(".p", false)
	log := &changeLog{}
	m.Subscribe(log.record)

	m.Set(".p.x", 1)
	want := []string{".p", ".p.x"}
	if got := log.paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("changes = %v, want %v", got, want)
	}
	if v, ok := log.changes[0].Value.(map[string]any); !ok || v["x"] != 1 {
		t.Errorf(".p announced as %#v, want the new object", log.changes[0].Value)
	}

	log.changes = nil
	m.Set(".q.r.s", "deep")
	want = []string{".q", ".q.r", ".q.r.s"}
	if got := log.paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("changes = %v, want %v", got, want)
	}

	log.changes = nil
	m.Set(".q.r.t", 2)
	if got := log.paths(); !reflect.DeepEqual(got, []string{".q.r.t"}) {
		t.Errorf("changes under existing objects = %v, want [.q.r.t]", got)
	}
}

func TestModelSetBelowScalarReachesFacet(t *testing.T) {
	cc := NewRegistry().MustCreate(Config{ClassName: "Scalar", Facets: Facets{CSS: &CSSConfig{
		Classes: map[string]any{".p": "on"},
	}}})
	comp, _ := cc.CreateOnElement(nil, "")
	m := NewModel()
	conn, err := Minder(m, ModelToView, comp.CSS)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	m.Set(".p", false)
	m.Set(".p.x", 1)
	if !comp.El.ClassList().Contains("on") {
		t.Errorf("classes = %q, want on once .p holds an object", comp.El.ClassList())
	}
}

func TestModelClonesValues(t *testing.T) {
	m := NewModel()
	in := map[string]any{"a": 1}
	m.Set(".x", in)
	in["a"] = 2

	if v, _ := m.Get(".x.a"); v != 1 {
		t.Errorf("model changed through caller's map: %v", v)
	}
}

func TestModelUnsubscribe(t *testing.T) {
	m := NewModel()
	log := &changeLog{}
	cancel := m.Subscribe(log.record)
	cancel()
	m.Set(".a", 1)
	if len(log.changes) != 0 {
		t.Errorf("cancelled subscriber got %v", log.changes)
	}
}

func TestModelLoadJSON(t *testing.T) {
	m := NewModel()
	if err := m.LoadJSON(`{"status":"ok","user":{"name":"ann"}}`); err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if v, _ := m.Get(".user.name"); v != "ann" {
		t.Errorf("Get(.user.name) = %v", v)
	}

	for _, doc := range []string{`{"a":`, `[1,2]`} {
		if err := m.LoadJSON(doc); !errors.Is(err, ErrInvalidModel) {
			t.Errorf("LoadJSON(%s) error = %v, want ErrInvalidModel", doc, err)
		}
	}
}

func TestValueAt(t *testing.T) {
	doc := `{"a":{"b":true,"c.d":"x"},"n":3}`
	tests := []struct {
		path  string
		want  any
		found bool
	}{
		{".a.b", true, true},
		{".n", float64(3), true},
		{".a.c.d", nil, false},
		{".missing", nil, false},
	}
	for _, tt := range tests {
		got, ok := ValueAt(doc, tt.path)
		if ok != tt.found || got != tt.want {
			t.Errorf("ValueAt(%s) = %v, %v, want %v, %v", tt.path, got, ok, tt.want, tt.found)
		}
	}
}

func TestMinderDirections(t *testing.T) {
	m := NewModel()
	log := &changeLog{}
	target := notifierFunc(func(path string, value any) error {
		log.record(path, value)
		return nil
	})

	for _, dir := range []string{ViewToModel, TwoWay, "bogus"} {
		if _, err := Minder(m, dir, target); !errors.Is(err, ErrUnsupportedBinding) {
			t.Errorf("Minder(%q) error = %v, want ErrUnsupportedBinding", dir, err)
		}
	}

	conn, err := Minder(m, ModelToView, target)
	if err != nil {
		t.Fatalf("Minder() error = %v", err)
	}
	m.Set(".a", true)
	conn.Close()
	conn.Close()
	m.Set(".a", false)

	if got := log.paths(); !reflect.DeepEqual(got, []string{".a"}) {
		t.Errorf("forwarded %v, want [.a] before Close", got)
	}
}

type notifierFunc func(path string, value any) error

func (f notifierFunc) Notify(path string, value any) error { return f(path, value) }
