package manifest

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/go-jsonnet/internal/eval"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

func newEvaluator() *eval.Evaluator {
	return eval.New(intern.NewTable(), span.NewManager())
}

func TestManifestYAMLDoc_Scalars(t *testing.T) {
	ev := newEvaluator()
	opts := YAMLOptions{QuoteKeys: true}

	tcs := map[string]eval.Value{
		"string":    eval.Str{V: "hello"},
		"number":    eval.Number{V: 42},
		"bool_true": eval.Bool{V: true},
		"null":      eval.Null{},
	}
	for name, v := range tcs {
		out, err := ManifestYAMLDoc(ev, v, opts)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		snaps.MatchSnapshot(t, name+": "+out)
	}
}

func TestManifestYAMLDoc_Nested(t *testing.T) {
	ev := newEvaluator()
	obj := eval.NewStaticObject(ev.Interner, []string{"name", "tags"}, []eval.Value{
		eval.Str{V: "widget"},
		&eval.Array{Elems: []*eval.Thunk{
			eval.Ready(eval.Str{V: "a"}),
			eval.Ready(eval.Str{V: "b"}),
		}},
	})

	out, err := ManifestYAMLDoc(ev, obj, YAMLOptions{QuoteKeys: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, out)
}

func TestManifestJSON_MultilineObject(t *testing.T) {
	ev := newEvaluator()
	obj := eval.NewStaticObject(ev.Interner, []string{"a", "b"}, []eval.Value{
		eval.Number{V: 1},
		eval.Number{V: 2},
	})

	out, err := ManifestJSON(ev, obj, MultilineOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n   \"a\": 1,\n   \"b\": 2\n}"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestManifestJSONCompact_EmptyContainers(t *testing.T) {
	ev := newEvaluator()

	out, err := ManifestJSONCompact(ev, &eval.Array{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[ ]" {
		t.Fatalf("expected empty array to render as [ ]; got %q", out)
	}
}
