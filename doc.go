// Package hxfacet provides facet-composed components whose CSS classes are
// bound to a reactive model through a declarative rule table.
//
// A component class is assembled from a Config. Its css facet maps model
// paths to rules; every change at a bound path is resolved to at most one
// class and applied to the component's element, which renders as a templ
// component.
//
// # Rules
//
// The rule table is a literal keyed by model path:
//
//	cfg := hxfacet.Config{
//	    ClassName: "Task",
//	    Facets: hxfacet.Facets{CSS: &hxfacet.CSSConfig{Classes: map[string]any{
//	        ".done":     "is-done",                                // class while truthy
//	        ".priority": map[string]string{"high": "hot", "low": "$-prio"}, // lookup
//	        ".owner":    "owner-$",                                // template of the value
//	        ".score":    func(v any) string { return grade(v) },    // function
//	    }}},
//	}
//
// In a lookup, a "$" in the class name is replaced by the matched key. Rule
// tables can also be loaded from YAML or JSON with rules.Load.
//
// # Shared classes
//
// Several paths may produce the same class. The class stays on the element
// while any path still produces it and is removed only when the last one
// stops. A path produces at most one class at a time.
//
// # Updates and events
//
// Updates arrive either streamed, one (path, value) at a time, from a model
// connected with Minder, or as a batch through CSSFacet.Set. Both are
// synchronous: when the call returns the element reflects the change.
//
//	comp, _ := class.CreateOnElement(nil, `<div ml-bind="Task:main"></div>`)
//	model := hxfacet.NewModel()
//	conn, _ := hxfacet.Minder(model, hxfacet.ModelToView, comp.CSS)
//	defer conn.Close()
//
//	comp.CSS.OnSync(hxfacet.EventChanged, func(_ string, data any) {
//	    ev := data.(hxfacet.ChangedEvent) // element already updated
//	})
//	model.Path(".done").Set(true)
//
// A streamed update fires EventChanged with the path and value, then
// EventChangeData. A batch fires a single EventChangeData once all of its
// entries are applied. OnceSync listeners fire for the next occurrence
// only.
//
// # Errors
//
// Malformed rule tables are rejected when the component class is created.
// A rule that fails for a value (a function returning an error or
// panicking, a template without placeholder) skips that path only: the
// element and the contribution state are left as they were, and the error
// goes to Component.OnError and the CSSResolveFailed signal.
//
// # State tokens
//
// Component.EncodeState seals the last value seen at each rule path into a
// signed or encrypted token; RestoreState re-applies it, so a
// server-rendered component can rebuild its classes on the next request.
package hxfacet
