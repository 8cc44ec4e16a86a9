package eval

import (
	"testing"

	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/ir"
)

// composedHiddenThenPlain builds the two-layer object `{ x:: 1 } + { x: 2 }`
// would produce: layer 0 (new self, plain `x: 2`) composed in front of
// layer 1 (toward super, `x:: 1`).
func composedHiddenThenPlain(interner *intern.Table) (*Object, intern.Name) {
	x := interner.Intern("x")
	outer := &Layer{Fields: map[intern.Name]*field{
		x: {hide: ir.FieldInherit},
	}, FieldOrder: []intern.Name{x}}
	inner := &Layer{Fields: map[intern.Name]*field{
		x: {hide: ir.FieldHidden},
	}, FieldOrder: []intern.Name{x}}
	return &Object{Layers: []*Layer{outer, inner}}, x
}

func TestFieldVisible_InheritDefersToSuperLayer(t *testing.T) {
	interner := intern.NewTable()
	obj, x := composedHiddenThenPlain(interner)
	if obj.fieldVisible(x) {
		t.Fatalf("x should stay hidden: the outer plain `x: 2` inherits the hidden-ness of `x::` toward super")
	}
	if obj.HasField(x, false) {
		t.Fatalf("HasField(includeHidden=false) should also report x as not visible")
	}
	if !obj.HasField(x, true) {
		t.Fatalf("HasField(includeHidden=true) should still find x")
	}
	names := obj.FieldNames(false)
	if len(names) != 0 {
		t.Fatalf("FieldNames(false) = %v, want empty", names)
	}
	names = obj.FieldNames(true)
	if len(names) != 1 || names[0] != x {
		t.Fatalf("FieldNames(true) = %v, want [x]", names)
	}
}

func TestFieldVisible_InheritAtEveryLayerIsVisible(t *testing.T) {
	interner := intern.NewTable()
	x := interner.Intern("x")
	outer := &Layer{Fields: map[intern.Name]*field{x: {hide: ir.FieldInherit}}, FieldOrder: []intern.Name{x}}
	inner := &Layer{Fields: map[intern.Name]*field{x: {hide: ir.FieldInherit}}, FieldOrder: []intern.Name{x}}
	obj := &Object{Layers: []*Layer{outer, inner}}

	if !obj.fieldVisible(x) {
		t.Fatalf("x should be visible when every defining layer is plain `:`")
	}
}

func TestFieldVisible_OuterExplicitOverridesInnerHidden(t *testing.T) {
	interner := intern.NewTable()
	x := interner.Intern("x")
	outer := &Layer{Fields: map[intern.Name]*field{x: {hide: ir.FieldVisible}}, FieldOrder: []intern.Name{x}}
	inner := &Layer{Fields: map[intern.Name]*field{x: {hide: ir.FieldHidden}}, FieldOrder: []intern.Name{x}}
	obj := &Object{Layers: []*Layer{outer, inner}}

	if !obj.fieldVisible(x) {
		t.Fatalf("an explicit `:::` on the outer layer should win over the super layer's `::`")
	}
}
