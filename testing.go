package hxfacet

import (
	"sort"
	"strings"
	"sync"
)

// TestResult holds what a component looked like after one update, for
// assertions in tests.
//
// Classes is the element's class list as seen by the first listener of
// the update's final event, so it also checks that the element was
// mutated before events fired.
type TestResult struct {
	HTML       string
	Classes    []string
	Changed    []ChangedEvent
	ChangeData int
}

// TestApply streams one model change into the component's css facet, as a
// connected model would, and records the resulting events.
//
//	result, err := hxfacet.TestApply(comp, ".status", "ok")
//	if !result.ClassesEqual("ok") {
//	    t.Fatalf("classes = %v", result.Classes)
//	}
func TestApply(c *Component, path string, value any) (*TestResult, error) {
	return record(c, func() error { return c.Notify(path, value) })
}

// TestSet applies a batch through the component's css facet and records
// the resulting events.
func TestSet(c *Component, values map[string]any) (*TestResult, error) {
	return record(c, func() error {
		if c.CSS == nil {
			return nil
		}
		return c.CSS.Set(values)
	})
}

func record(c *Component, run func() error) (*TestResult, error) {
	result := &TestResult{}
	if c.CSS != nil {
		rec := NewEventRecorder(c.CSS)
		defer rec.Stop()
		stop := c.CSS.OnceSync(EventChangeData, func(string, any) {
			result.Classes = c.El.ClassList().Items()
		})
		defer stop()
		if err := run(); err != nil {
			return nil, err
		}
		result.Changed = rec.Changed()
		result.ChangeData = rec.ChangeDataCount()
	} else if err := run(); err != nil {
		return nil, err
	}
	if result.Classes == nil {
		result.Classes = c.El.ClassList().Items()
	}
	result.HTML = c.El.String()
	return result, nil
}

// HasClass reports whether the recorded class list contains class.
func (r *TestResult) HasClass(class string) bool {
	for _, c := range r.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// ClassesEqual reports whether the recorded class list holds exactly the
// given classes, in any order.
func (r *TestResult) ClassesEqual(classes ...string) bool {
	if len(classes) != len(r.Classes) {
		return false
	}
	got := append([]string(nil), r.Classes...)
	want := append([]string(nil), classes...)
	sort.Strings(got)
	sort.Strings(want)
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// HTMLContains checks if the rendered element contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// EventRecorder collects the events of a CSSFacet.
type EventRecorder struct {
	mu         sync.Mutex
	order      []string
	changed    []ChangedEvent
	changeData []ChangeDataEvent
	cancel     []func()
}

// NewEventRecorder starts recording f's events until Stop is called.
func NewEventRecorder(f *CSSFacet) *EventRecorder {
	r := &EventRecorder{}
	r.cancel = append(r.cancel,
		f.OnSync(EventChanged, func(event string, data any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.order = append(r.order, event)
			if ev, ok := data.(ChangedEvent); ok {
				r.changed = append(r.changed, ev)
			}
		}),
		f.OnSync(EventChangeData, func(event string, data any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.order = append(r.order, event)
			if ev, ok := data.(ChangeDataEvent); ok {
				r.changeData = append(r.changeData, ev)
			}
		}),
	)
	return r
}

// Stop detaches the recorder from the facet.
func (r *EventRecorder) Stop() {
	for _, cancel := range r.cancel {
		cancel()
	}
}

// Events returns the names of recorded events in emission order.
func (r *EventRecorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// Changed returns the recorded EventChanged payloads.
func (r *EventRecorder) Changed() []ChangedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ChangedEvent(nil), r.changed...)
}

// ChangeData returns the recorded EventChangeData payloads.
func (r *EventRecorder) ChangeData() []ChangeDataEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ChangeDataEvent(nil), r.changeData...)
}

// ChangeDataCount returns how many EventChangeData events were recorded.
func (r *EventRecorder) ChangeDataCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changeData)
}
