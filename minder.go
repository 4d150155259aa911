package hxfacet

import (
	"fmt"
	"sync"
)

// Binding directions understood by Minder. Only model to view is
// supported; view to model synchronisation belongs to other facets.
const (
	ModelToView = "->>"
	ViewToModel = "<<-"
	TwoWay      = "<<->>"
)

// Connection forwards changes of a model to a Notifier until closed.
type Connection struct {
	cancel func()
	once   sync.Once
}

// Minder connects model to target so every model change reaches
// target.Notify as a (path, value) message.
//
//	conn, err := hxfacet.Minder(model, hxfacet.ModelToView, component.CSS)
func Minder(model *Model, direction string, target Notifier) (*Connection, error) {
	if direction != ModelToView {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBinding, direction)
	}
	cancel := model.Subscribe(func(path string, value any) {
		// Facets report their own errors.
		_ = target.Notify(path, value)
	})
	return &Connection{cancel: cancel}, nil
}

// Close stops forwarding. It is safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(c.cancel)
}
