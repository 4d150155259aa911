package hxfacet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pthm/hxfacet/lib/events"
	"github.com/pthm/hxfacet/lib/rules"
	"github.com/pthm/hxfacet/lib/tracker"
	"github.com/zoobzio/capitan"
)

// Event names emitted by CSSFacet.
const (
	// EventChanged fires once per streamed model update, after the class
	// list reflects it. Its payload is a ChangedEvent.
	EventChanged = "changed"

	// EventChangeData fires once per settled update cycle: after each
	// streamed update and once after a whole Set batch. Its payload is a
	// ChangeDataEvent.
	EventChangeData = "changedata"
)

// Handler receives facet events.
type Handler = events.Handler

// ChangedEvent is the payload of EventChanged.
type ChangedEvent struct {
	ModelPath  string
	ModelValue any
	// Added and Removed are the classes this update put on or took off
	// the element; both empty when the update was a no-op.
	Added   string
	Removed string
}

// ChangeDataEvent is the payload of EventChangeData.
type ChangeDataEvent struct {
	// Classes are the classes applied by the facet, sorted.
	Classes []string
}

// PathValue is one entry of an ordered batch.
type PathValue struct {
	Path  string
	Value any
}

// CSSFacet binds model paths to CSS classes on an element.
//
// Each update resolves the path's rule, records the resulting class in the
// contribution tracker and applies the delta to the element's class list,
// all under one lock. Events are emitted after the lock is released, so
// handlers may call back into the facet.
type CSSFacet struct {
	mu      sync.Mutex
	table   rules.Table
	el      *Element
	tracker *tracker.Tracker
	values  map[string]any
	closed  bool

	events  *events.Emitter
	onError func(error)
	ctx     context.Context
}

type facetOptions struct {
	onError func(error)
	ctx     context.Context
}

// FacetOption configures a CSSFacet.
type FacetOption func(*facetOptions)

// WithErrorHandler sets the channel resolution errors are reported to.
func WithErrorHandler(fn func(error)) FacetOption {
	return func(o *facetOptions) {
		o.onError = fn
	}
}

// WithContext sets the context carried by the facet's signals.
func WithContext(ctx context.Context) FacetOption {
	return func(o *facetOptions) {
		o.ctx = ctx
	}
}

// NewCSSFacet creates a facet applying table to el.
func NewCSSFacet(table rules.Table, el *Element, opts ...FacetOption) *CSSFacet {
	o := &facetOptions{ctx: context.Background()}
	for _, opt := range opts {
		opt(o)
	}
	return &CSSFacet{
		table:   table,
		el:      el,
		tracker: tracker.New(),
		values:  make(map[string]any),
		events:  events.New(),
		onError: o.onError,
		ctx:     o.ctx,
	}
}

// Element returns the element whose class list the facet drives.
func (f *CSSFacet) Element() *Element { return f.el }

// Table returns the facet's rule table.
func (f *CSSFacet) Table() rules.Table { return f.table }

// Notify processes one model change. Paths without a rule are ignored.
//
// On success the element already reflects the change when EventChanged
// and then EventChangeData fire. A resolution error leaves the facet as it
// was, is reported to the error handler and returned; no events fire.
func (f *CSSFacet) Notify(path string, value any) error {
	rule, ok := f.table.Lookup(path)
	if !ok {
		return nil
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFacetClosed
	}
	delta, err := f.apply(path, rule, value)
	classes := f.tracker.Classes()
	f.mu.Unlock()

	if err != nil {
		f.fail(path, err)
		return err
	}

	f.events.Emit(EventChanged, ChangedEvent{
		ModelPath:  path,
		ModelValue: value,
		Added:      delta.Added,
		Removed:    delta.Removed,
	})
	f.events.Emit(EventChangeData, ChangeDataEvent{Classes: classes})
	return nil
}

// Set applies values as one batch in sorted path order and fires a single
// EventChangeData when done. Paths not in values keep their classes.
// Failed paths are skipped, reported and returned joined.
func (f *CSSFacet) Set(values map[string]any) error {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	batch := make([]PathValue, len(paths))
	for i, p := range paths {
		batch[i] = PathValue{Path: p, Value: values[p]}
	}
	return f.SetValues(batch...)
}

// SetValues is Set with a caller-defined order.
func (f *CSSFacet) SetValues(values ...PathValue) error {
	type failure struct {
		path string
		err  error
	}
	var failures []failure

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFacetClosed
	}
	for _, pv := range values {
		rule, ok := f.table.Lookup(pv.Path)
		if !ok {
			continue
		}
		if _, err := f.apply(pv.Path, rule, pv.Value); err != nil {
			failures = append(failures, failure{pv.Path, err})
		}
	}
	classes := f.tracker.Classes()
	f.mu.Unlock()

	errs := make([]error, 0, len(failures))
	for _, fl := range failures {
		f.fail(fl.path, fl.err)
		errs = append(errs, fl.err)
	}

	capitan.Emit(f.ctx, CSSBatchApplied, KeyCount.Field(len(values)))
	f.events.Emit(EventChangeData, ChangeDataEvent{Classes: classes})
	return errors.Join(errs...)
}

// apply runs resolve, track and mutate for one path. f.mu must be held.
// On error nothing is changed.
func (f *CSSFacet) apply(path string, rule rules.Rule, value any) (tracker.Delta, error) {
	class, _, err := rules.Resolve(rule, value)
	if err != nil {
		return tracker.Delta{}, wrapRuleError(path, err)
	}

	// The model may still own value; keep a snapshot.
	f.values[path] = clone(value)
	delta := f.tracker.Set(path, class)

	cl := f.el.ClassList()
	if delta.Removed != "" {
		cl.Remove(delta.Removed)
		capitan.Emit(f.ctx, CSSClassRemoved, KeyPath.Field(path), KeyClass.Field(delta.Removed))
	}
	if delta.Added != "" {
		cl.Add(delta.Added)
		capitan.Emit(f.ctx, CSSClassAdded, KeyPath.Field(path), KeyClass.Field(delta.Added))
	}
	return delta, nil
}

func (f *CSSFacet) fail(path string, err error) {
	capitan.Emit(f.ctx, CSSResolveFailed, KeyPath.Field(path), KeyError.Field(err.Error()))
	if f.onError != nil {
		f.onError(err)
	}
}

// OnSync subscribes h to every occurrence of event. The returned func
// unsubscribes.
func (f *CSSFacet) OnSync(event string, h Handler) func() {
	return f.events.On(event, h)
}

// OnceSync subscribes h to the next occurrence of event only.
func (f *CSSFacet) OnceSync(event string, h Handler) func() {
	return f.events.Once(event, h)
}

// OffSync drops every handler of event.
func (f *CSSFacet) OffSync(event string) {
	f.events.Off(event)
}

// Classes returns the classes currently applied by the facet, sorted.
// Classes present in the markup but not produced by a rule are not
// included.
func (f *CSSFacet) Classes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracker.Classes()
}

// Contributors returns the model paths currently asserting class.
func (f *CSSFacet) Contributors(class string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracker.Contributors(class)
}

// ClassOf returns the class path currently contributes.
func (f *CSSFacet) ClassOf(path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracker.Class(path)
}

// Paths returns the model paths currently contributing a class, sorted.
func (f *CSSFacet) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracker.Paths()
}

// Values returns the last successfully applied value of every rule path
// seen so far.
func (f *CSSFacet) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Close removes the facet's classes from the element, forgets every
// contribution and drops all handlers. Later updates fail with
// ErrFacetClosed.
func (f *CSSFacet) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	classes := f.tracker.Reset()
	f.el.ClassList().Remove(classes...)
	f.values = make(map[string]any)
	f.mu.Unlock()

	for _, c := range classes {
		capitan.Emit(f.ctx, CSSClassRemoved, KeyClass.Field(c))
	}
	f.events.Clear()
	return nil
}

func (f *CSSFacet) String() string {
	return fmt.Sprintf("css(%d rules, classes=%v)", f.table.Len(), f.Classes())
}
