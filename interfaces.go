package hxfacet

// Notifier is implemented by facets that consume model changes.
//
// A Minder connection calls Notify for every change of a bound model, with
// the changed path and its new value. Implementations must process the
// change synchronously: when Notify returns, the view reflects it.
//
// Example:
//
//	conn, err := hxfacet.Minder(model, hxfacet.ModelToView, component.CSS)
//	defer conn.Close()
//	model.Path(".status").Set("ok") // component.CSS.Notify(".status", "ok")
//
// Errors returned by Notify are informational; facets report them to
// their own error channel as well.
type Notifier interface {
	Notify(path string, value any) error
}

// Facet is implemented by the capability modules a component is composed
// of. Close tears the facet down with its component.
type Facet interface {
	Notifier
	Close() error
}

var _ Facet = (*CSSFacet)(nil)
