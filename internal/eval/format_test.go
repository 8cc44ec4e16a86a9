package eval

import (
	"testing"

	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

func newTestEvaluator() *Evaluator {
	return New(intern.NewTable(), span.NewManager())
}

func TestFormatString_Positional(t *testing.T) {
	ev := newTestEvaluator()

	tcs := []struct {
		pattern string
		args    Value
		want    string
	}{
		{"%d", &Array{Elems: []*Thunk{Ready(Number{V: 42})}}, "42"},
		{"%5d", &Array{Elems: []*Thunk{Ready(Number{V: 3})}}, "    3"},
		{"%05d", &Array{Elems: []*Thunk{Ready(Number{V: 3})}}, "00003"},
		{"%-5d|", &Array{Elems: []*Thunk{Ready(Number{V: 3})}}, "3    |"},
		{"%.2f", &Array{Elems: []*Thunk{Ready(Number{V: 1.5})}}, "1.50"},
		{"%x", &Array{Elems: []*Thunk{Ready(Number{V: 255})}}, "ff"},
		{"%#x", &Array{Elems: []*Thunk{Ready(Number{V: 255})}}, "0xff"},
		{"%s-%s", &Array{Elems: []*Thunk{Ready(Str{V: "a"}), Ready(Str{V: "b"})}}, "a-b"},
		{"%%", &Array{}, "%"},
		{"%d", Number{V: 7}, "7"},
	}

	for _, tc := range tcs {
		v, err := ev.FormatString(tc.pattern, tc.args, span.Span{})
		if err != nil {
			t.Fatalf("FormatString(%q): unexpected error: %v", tc.pattern, err)
		}
		s, ok := v.(Str)
		if !ok {
			t.Fatalf("FormatString(%q): expected Str, got %T", tc.pattern, v)
		}
		if s.V != tc.want {
			t.Fatalf("FormatString(%q) = %q, want %q", tc.pattern, s.V, tc.want)
		}
	}
}

func TestFormatString_MappingKey(t *testing.T) {
	ev := newTestEvaluator()
	obj := NewStaticObject(ev.Interner, []string{"name"}, []Value{Str{V: "world"}})

	v, err := ev.FormatString("hello %(name)s", obj, span.Span{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := v.(Str)
	if s.V != "hello world" {
		t.Fatalf("got %q, want %q", s.V, "hello world")
	}
}

func TestFormatString_NotEnoughArgs(t *testing.T) {
	ev := newTestEvaluator()
	_, err := ev.FormatString("%d %d", &Array{Elems: []*Thunk{Ready(Number{V: 1})}}, span.Span{})
	if err == nil {
		t.Fatalf("expected an error for missing format argument")
	}
}
