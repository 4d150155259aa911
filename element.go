package hxfacet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a DOM element backed by an x/net/html node. Its classes live
// in the "class" attribute, so rendering always reflects the class list.
//
// Element is not safe for concurrent use; a component's facets serialise
// their own mutations.
type Element struct {
	node *html.Node
}

// NewElement creates a detached element with the given tag name.
func NewElement(tag string) *Element {
	return &Element{node: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

// ParseElement parses markup and returns its first element. Surrounding
// text and further top-level elements are discarded.
func ParseElement(markup string) (*Element, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMarkup, err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return &Element{node: n}, nil
		}
	}
	return nil, fmt.Errorf("%w: no element in %q", ErrInvalidMarkup, markup)
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.node.Data }

// Attr returns the value of the attribute key.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the attribute key.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes the attribute key if present.
func (e *Element) RemoveAttr(key string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

// AppendChild moves child under e, detaching it from any previous parent.
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element {
	if e.node.Parent == nil || e.node.Parent.Type != html.ElementNode {
		return nil
	}
	return &Element{node: e.node.Parent}
}

// Children returns the element children of e.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Element{node: c})
		}
	}
	return out
}

// ClassList returns a live view of the element's classes.
func (e *Element) ClassList() *ClassList {
	return &ClassList{el: e}
}

// ClassAttrs returns the class attribute for spreading into a templ
// element:
//
//	<div { el.ClassAttrs()... }>
func (e *Element) ClassAttrs() templ.Attributes {
	return templ.Attributes{"class": e.ClassList().String()}
}

// Render writes the element as HTML. Element satisfies templ.Component.
func (e *Element) Render(ctx context.Context, w io.Writer) error {
	return html.Render(w, e.node)
}

// String returns the element's HTML.
func (e *Element) String() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return ""
	}
	return buf.String()
}

var _ templ.Component = (*Element)(nil)

// ClassList mirrors the DOMTokenList of an element's class attribute.
type ClassList struct {
	el *Element
}

func (cl *ClassList) tokens() []string {
	v, _ := cl.el.Attr("class")
	return strings.Fields(v)
}

func (cl *ClassList) store(tokens []string) {
	if len(tokens) == 0 {
		cl.el.RemoveAttr("class")
		return
	}
	cl.el.SetAttr("class", strings.Join(tokens, " "))
}

// Contains reports whether class is in the list.
func (cl *ClassList) Contains(class string) bool {
	for _, c := range cl.tokens() {
		if c == class {
			return true
		}
	}
	return false
}

// Add appends classes that are not present yet. It reports whether the
// list changed.
func (cl *ClassList) Add(classes ...string) bool {
	tokens := cl.tokens()
	changed := false
	for _, class := range classes {
		if class == "" || containsToken(tokens, class) {
			continue
		}
		tokens = append(tokens, class)
		changed = true
	}
	if changed {
		cl.store(tokens)
	}
	return changed
}

// Remove drops classes from the list. It reports whether the list changed.
func (cl *ClassList) Remove(classes ...string) bool {
	tokens := cl.tokens()
	kept := tokens[:0]
	for _, c := range tokens {
		if !containsToken(classes, c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(tokens) {
		return false
	}
	cl.store(kept)
	return true
}

// Toggle adds class when absent and removes it when present. It returns
// whether class is present afterwards.
func (cl *ClassList) Toggle(class string) bool {
	if cl.Contains(class) {
		cl.Remove(class)
		return false
	}
	cl.Add(class)
	return true
}

// Len returns the number of classes.
func (cl *ClassList) Len() int { return len(cl.tokens()) }

// Items returns the classes in document order.
func (cl *ClassList) Items() []string { return cl.tokens() }

// String returns the classes joined by single spaces.
func (cl *ClassList) String() string { return strings.Join(cl.tokens(), " ") }

func containsToken(tokens []string, class string) bool {
	for _, t := range tokens {
		if t == class {
			return true
		}
	}
	return false
}
