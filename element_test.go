package hxfacet

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseElement(t *testing.T) {
	el, err := ParseElement(`  <section class="a  b" ml-bind="X:y"><p>hi</p></section><div></div>`)
	if err != nil {
		t.Fatalf("ParseElement() error = %v", err)
	}
	if el.Tag() != "section" {
		t.Errorf("Tag() = %q, want section", el.Tag())
	}
	if v, ok := el.Attr(BindAttr); !ok || v != "X:y" {
		t.Errorf("Attr(%s) = %q, %v", BindAttr, v, ok)
	}
	if got := el.ClassList().Items(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("classes = %v", got)
	}
	if n := len(el.Children()); n != 1 {
		t.Errorf("Children() = %d, want 1", n)
	}
}

func TestParseElementInvalid(t *testing.T) {
	for _, markup := range []string{"", "just text"} {
		_, err := ParseElement(markup)
		if !errors.Is(err, ErrInvalidMarkup) {
			t.Errorf("ParseElement(%q) error = %v, want ErrInvalidMarkup", markup, err)
		}
	}
}

func TestClassList(t *testing.T) {
	el := NewElement("div")
	cl := el.ClassList()

	if !cl.Add("a", "b", "a") {
		t.Fatal("Add() = false, want true")
	}
	if cl.Add("b") {
		t.Error("Add() of a present class reported a change")
	}
	if got := cl.String(); got != "a b" {
		t.Errorf("String() = %q, want %q", got, "a b")
	}
	if !cl.Contains("b") || cl.Contains("c") {
		t.Errorf("Contains() wrong for %q", cl)
	}
	if !cl.Toggle("c") || cl.Toggle("a") {
		t.Errorf("Toggle() wrong, classes %q", cl)
	}
	if got := cl.Items(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Items() = %v", got)
	}
	if cl.Remove("x") {
		t.Error("Remove() of an absent class reported a change")
	}
	cl.Remove("b", "c")
	if cl.Len() != 0 {
		t.Errorf("Len() = %d after removing everything", cl.Len())
	}
	if _, ok := el.Attr("class"); ok {
		t.Error("empty class attribute left on the element")
	}
}

func TestElementTree(t *testing.T) {
	root := NewElement("div")
	a := NewElement("span")
	b := NewElement("span")
	root.AppendChild(a)
	b.AppendChild(a)
	root.AppendChild(b)

	if got := len(root.Children()); got != 1 {
		t.Errorf("root has %d children, want 1 after moving a", got)
	}
	if a.Parent() == nil || a.Parent().node != b.node {
		t.Error("a not moved under b")
	}
	b.Remove()
	if len(root.Children()) != 0 || b.Parent() != nil {
		t.Error("Remove() did not detach b")
	}
}

func TestElementRender(t *testing.T) {
	el := NewElement("div")
	el.SetAttr("id", "x")
	el.ClassList().Add("on")

	var buf bytes.Buffer
	if err := el.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, `id="x"`) || !strings.Contains(html, `class="on"`) {
		t.Errorf("Render() = %s", html)
	}
	if el.String() != html {
		t.Errorf("String() = %s, want %s", el.String(), html)
	}
	if got := el.ClassAttrs()["class"]; got != "on" {
		t.Errorf("ClassAttrs() class = %v", got)
	}
}
