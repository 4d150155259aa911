// Package tracker records which model paths currently assert which CSS
// classes.
//
// Several paths may produce the same class. The class stays applied while
// at least one path contributes it and is reported as removed only when
// the last contributor goes away. A path contributes at most one class.
package tracker

import "sort"

// Delta is the class list change caused by one Set call. Empty fields mean
// no change on that side. Added and Removed may both be set when a path
// moves from one class to another.
type Delta struct {
	Added   string
	Removed string
}

// IsZero reports whether the update changed nothing on the class list.
func (d Delta) IsZero() bool {
	return d.Added == "" && d.Removed == ""
}

// Tracker is not safe for concurrent use; the owning facet serialises
// access.
type Tracker struct {
	byPath       map[string]string
	contributors map[string]map[string]struct{}
}

func New() *Tracker {
	return &Tracker{
		byPath:       make(map[string]string),
		contributors: make(map[string]map[string]struct{}),
	}
}

// Set records class as the contribution of path. An empty class clears the
// path's contribution.
func (t *Tracker) Set(path, class string) Delta {
	prev := t.byPath[path]
	if prev == class {
		return Delta{}
	}

	var d Delta
	if prev != "" {
		set := t.contributors[prev]
		delete(set, path)
		if len(set) == 0 {
			delete(t.contributors, prev)
			d.Removed = prev
		}
		delete(t.byPath, path)
	}

	if class != "" {
		set, ok := t.contributors[class]
		if !ok {
			set = make(map[string]struct{})
			t.contributors[class] = set
			d.Added = class
		}
		set[path] = struct{}{}
		t.byPath[path] = class
	}
	return d
}

// Class returns the class currently contributed by path.
func (t *Tracker) Class(path string) (string, bool) {
	c, ok := t.byPath[path]
	return c, ok
}

// Contributors returns the sorted paths asserting class.
func (t *Tracker) Contributors(class string) []string {
	set := t.contributors[class]
	if len(set) == 0 {
		return nil
	}
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Has reports whether class has at least one contributor.
func (t *Tracker) Has(class string) bool {
	return len(t.contributors[class]) > 0
}

// Classes returns every applied class in sorted order.
func (t *Tracker) Classes() []string {
	classes := make([]string, 0, len(t.contributors))
	for c := range t.contributors {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// Paths returns every contributing path in sorted order.
func (t *Tracker) Paths() []string {
	paths := make([]string, 0, len(t.byPath))
	for p := range t.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of applied classes.
func (t *Tracker) Len() int { return len(t.contributors) }

// Reset drops every contribution and returns the classes that were
// applied, sorted.
func (t *Tracker) Reset() []string {
	classes := t.Classes()
	t.byPath = make(map[string]string)
	t.contributors = make(map[string]map[string]struct{})
	return classes
}
