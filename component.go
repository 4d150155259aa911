package hxfacet

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pthm/hxfacet/lib/encoding"
	"github.com/pthm/hxfacet/lib/rules"
	"github.com/zoobzio/capitan"
)

// BindAttr is the markup attribute naming a component: "Class:name".
const BindAttr = "ml-bind"

// Config describes a component class.
//
//	cfg := hxfacet.Config{
//	    ClassName: "Status",
//	    Facets: hxfacet.Facets{
//	        CSS: &hxfacet.CSSConfig{Classes: map[string]any{
//	            ".done":   "is-done",
//	            ".status": map[string]string{"ok": "ok", "error": "$-state"},
//	        }},
//	    },
//	}
type Config struct {
	ClassName string `validate:"required,excludes=:"`
	Facets    Facets
}

// Facets lists the facets a component class is composed of.
type Facets struct {
	CSS *CSSConfig
}

// CSSConfig is the rule table literal of the css facet. Values are parsed
// by rules.Parse.
type CSSConfig struct {
	Classes map[string]any `validate:"required"`
}

// ComponentClass creates components sharing one configuration. The rule
// table is parsed once, when the class is created.
type ComponentClass struct {
	name string
	css  *rules.Table
	opts []FacetOption
	ctx  context.Context
}

// Name returns the class name.
func (cc *ComponentClass) Name() string { return cc.name }

// HasCSS reports whether components of the class carry a css facet.
func (cc *ComponentClass) HasCSS() bool { return cc.css != nil }

// CreateOnElement parses markup into the component's element, appends it
// to container when container is not nil and wires the class's facets.
// Empty markup creates a bare <div>.
//
// A BindAttr of the form "Class:name" names the component; the class part
// must match the component class when present.
func (cc *ComponentClass) CreateOnElement(container *Element, markup string) (*Component, error) {
	el := NewElement("div")
	if strings.TrimSpace(markup) != "" {
		var err error
		if el, err = ParseElement(markup); err != nil {
			return nil, err
		}
	}

	c := &Component{
		ID:    uuid.NewString(),
		Class: cc,
		El:    el,
	}
	if bind, ok := el.Attr(BindAttr); ok {
		class, name, _ := strings.Cut(bind, ":")
		if class != "" && class != cc.name {
			return nil, fmt.Errorf("%w: %s=%q does not bind class %s", ErrInvalidMarkup, BindAttr, bind, cc.name)
		}
		c.Name = name
	}
	if c.Name == "" {
		c.Name = c.ID
	}

	if cc.css != nil {
		opts := append([]FacetOption{WithContext(cc.ctx), WithErrorHandler(c.reportError)}, cc.opts...)
		c.CSS = NewCSSFacet(*cc.css, el, opts...)
	}
	if container != nil {
		container.AppendChild(el)
	}

	capitan.Emit(cc.ctx, ComponentCreated, KeyComponent.Field(cc.name), KeyID.Field(c.ID))
	return c, nil
}

// Component is a widget instance bound to an element.
type Component struct {
	ID    string
	Name  string
	Class *ComponentClass
	El    *Element

	// CSS is nil when the component class has no css facet.
	CSS *CSSFacet

	// OnError receives resolution errors of the component's facets.
	OnError func(*Component, error)

	closeOnce sync.Once
}

func (c *Component) reportError(err error) {
	if c.OnError != nil {
		c.OnError(c, err)
	}
}

// Notify forwards a model change to every facet of the component.
func (c *Component) Notify(path string, value any) error {
	if c.CSS == nil {
		return nil
	}
	return c.CSS.Notify(path, value)
}

// EncodeState seals the last value seen at every rule path into a token
// that RestoreState can re-apply, for example on the next request of a
// server-rendered page.
//
// Values are restored in their msgpack shape (see encoding.Encoder.Encode):
// integers as int, floats as float64, structs as map[string]any. Function
// rules that switch on a value's Go type should accept those forms.
func (c *Component) EncodeState(enc *Encoder, sensitive bool) (string, error) {
	state := encoding.State{}
	if c.CSS != nil {
		state = c.CSS.Values()
	}
	token, err := enc.Encode(state, sensitive)
	return token, wrapEncodingError(err)
}

// RestoreState opens a token from EncodeState and applies it as one batch.
func (c *Component) RestoreState(enc *Encoder, token string, sensitive bool) error {
	state, err := enc.Decode(token, sensitive)
	if err != nil {
		return wrapEncodingError(err)
	}
	if c.CSS == nil {
		return nil
	}
	return c.CSS.Set(state)
}

// Close tears down the component's facets and detaches its element.
func (c *Component) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.CSS != nil {
			err = c.CSS.Close()
		}
		c.El.Remove()
		capitan.Emit(c.Class.ctx, ComponentClosed, KeyComponent.Field(c.Class.name), KeyID.Field(c.ID))
	})
	return err
}

var _ Notifier = (*Component)(nil)
