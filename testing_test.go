package hxfacet

import (
	"reflect"
	"testing"
)

func TestTestApply(t *testing.T) {
	cc := NewRegistry().MustCreate(cssTestConfig())
	comp, err := cc.CreateOnElement(nil, `<div ml-bind="CssComponent:t"></div>`)
	if err != nil {
		t.Fatal(err)
	}

	result, err := TestApply(comp, ".modelPath2", "orange")
	if err != nil {
		t.Fatalf("TestApply() error = %v", err)
	}
	if !result.HasClass("orange-css-class") {
		t.Errorf("HasClass() = false, classes %v", result.Classes)
	}
	if result.HasClass("red-css-class") {
		t.Error("HasClass() true for an absent class")
	}
	if !result.HTMLContains(`class="orange-css-class"`) {
		t.Errorf("HTML = %s", result.HTML)
	}
	if len(result.Changed) != 1 || result.ChangeData != 1 {
		t.Errorf("Changed = %v, ChangeData = %d", result.Changed, result.ChangeData)
	}
	ev := result.Changed[0]
	if ev.ModelPath != ".modelPath2" || ev.ModelValue != "orange" || ev.Added != "orange-css-class" {
		t.Errorf("changed payload = %+v", ev)
	}
}

func TestTestApplyDetachesListeners(t *testing.T) {
	cc := NewRegistry().MustCreate(cssTestConfig())
	comp, _ := cc.CreateOnElement(nil, "")

	if _, err := TestApply(comp, ".missing", true); err != nil {
		t.Fatal(err)
	}
	rec := NewEventRecorder(comp.CSS)
	defer rec.Stop()
	if _, err := TestApply(comp, ".modelPath1", true); err != nil {
		t.Fatal(err)
	}
	if got := rec.ChangeDataCount(); got != 1 {
		t.Errorf("changedata seen %d times, want 1", got)
	}
}

func TestTestSetWithoutCSS(t *testing.T) {
	cc := NewRegistry().MustCreate(Config{ClassName: "Bare"})
	comp, _ := cc.CreateOnElement(nil, `<p class="x"></p>`)

	result, err := TestSet(comp, map[string]any{".a": 1})
	if err != nil {
		t.Fatalf("TestSet() error = %v", err)
	}
	if !result.ClassesEqual("x") {
		t.Errorf("classes = %v", result.Classes)
	}
}

func TestClassesEqual(t *testing.T) {
	r := &TestResult{Classes: []string{"b", "a"}}
	tests := []struct {
		want   []string
		expect bool
	}{
		{[]string{"a", "b"}, true},
		{[]string{"b", "a"}, true},
		{[]string{"a"}, false},
		{[]string{"a", "c"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := r.ClassesEqual(tt.want...); got != tt.expect {
			t.Errorf("ClassesEqual(%v) = %v, want %v", tt.want, got, tt.expect)
		}
	}
	if !reflect.DeepEqual(r.Classes, []string{"b", "a"}) {
		t.Error("ClassesEqual() reordered the result")
	}
}

func TestEventRecorderStop(t *testing.T) {
	cc := NewRegistry().MustCreate(cssTestConfig())
	comp, _ := cc.CreateOnElement(nil, "")
	rec := NewEventRecorder(comp.CSS)

	_ = comp.Notify(".modelPath1", true)
	rec.Stop()
	_ = comp.Notify(".modelPath1", false)

	if got := rec.Events(); !reflect.DeepEqual(got, []string{EventChanged, EventChangeData}) {
		t.Errorf("Events() = %v", got)
	}
	if len(rec.Changed()) != 1 || len(rec.ChangeData()) != 1 {
		t.Errorf("recorded %d changed, %d changedata", len(rec.Changed()), len(rec.ChangeData()))
	}
}
