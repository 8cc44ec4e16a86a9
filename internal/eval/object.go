package eval

import (
	"sync"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/ir"
)

// field is one layer's entry for a statically- or dynamically-named
// field. thunk is built lazily on first access (spec §4.4.4): a nil
// thunk means "not yet resolved into a cell".
type field struct {
	hide      ir.FieldHide
	plusSuper bool
	body      ir.Expr
	thunk     *Thunk
}

// Layer is one object literal's contribution to a composed Object. Layer
// 0 of the final Object is the outermost (self) layer; increasing index
// walks toward super (spec §4.4.4's "layer 0 is self, deeper is super").
type Layer struct {
	Fields     map[intern.Name]*field
	FieldOrder []intern.Name
	Asserts    []ir.Expr
	Locals     []ir.ObjectLocal
	BaseEnv    *Env

	mu        sync.Mutex
	localsEnv *Env // built once, lazily, from BaseEnv+Locals
}

// Object is a fully composed object value: the concatenation of every
// layer contributed by `+`, outermost first.
type Object struct {
	Layers    []*Layer
	assertsMu sync.Mutex
	asserted  bool
}

// envForLayer returns the environment in which layer i's field bodies
// and asserts run: BaseEnv extended with that layer's mutually
// recursive locals, anchored at (obj, i).
func envForLayer(obj *Object, i int, ev *Evaluator) *Env {
	l := obj.Layers[i]
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.localsEnv != nil {
		return l.localsEnv
	}
	base := l.BaseEnv.WithAnchor(obj, i)
	if len(l.Locals) == 0 {
		l.localsEnv = base
		return base
	}
	frame := base.Child()
	for _, bind := range l.Locals {
		bind := bind
		frame.Vars[bind.Name] = Delay(func(ev *Evaluator) (Value, *errors.EvalError) {
			return ev.Eval(bind.Body, frame)
		})
	}
	l.localsEnv = frame
	return frame
}

// findField walks layers [start, len) looking for name, spec §4.4.4.
func findField(obj *Object, start int, name intern.Name) (int, *field, bool) {
	for i := start; i < len(obj.Layers); i++ {
		if f, ok := obj.Layers[i].Fields[name]; ok {
			return i, f, true
		}
	}
	return 0, nil, false
}

// effectiveHide walks every layer where name is defined, outermost to
// innermost, and returns the first explicit (non-inherit) hide flag it
// finds. Plain `:` fields default to ir.FieldInherit, which means "show
// through whatever the next layer toward super that also defines this
// field says" rather than "visible" — `{ x:: 1 } + { x: 2 }` must keep x
// hidden even though the outer `x: 2` is plain `:` (spec §9). A field
// that is inherit at every layer that defines it is visible.
func effectiveHide(o *Object, start int, name intern.Name) ir.FieldHide {
	for i := start; i < len(o.Layers); i++ {
		f, ok := o.Layers[i].Fields[name]
		if !ok {
			continue
		}
		if f.hide != ir.FieldInherit {
			return f.hide
		}
	}
	return ir.FieldInherit
}

// fieldVisible reports whether name should be enumerated by default, per
// effectiveHide's inherit-walking rule.
func (o *Object) fieldVisible(name intern.Name) bool {
	if _, _, ok := findField(o, 0, name); !ok {
		return false
	}
	return effectiveHide(o, 0, name) != ir.FieldHidden
}

// FieldNames returns field names in first-appearance order across
// layers, outermost first (spec §4.4.9 objectFieldsEx ordering).
func (o *Object) FieldNames(includeHidden bool) []intern.Name {
	seen := make(map[intern.Name]bool)
	var out []intern.Name
	for _, l := range o.Layers {
		for _, n := range l.FieldOrder {
			if seen[n] {
				continue
			}
			seen[n] = true
			if !includeHidden && effectiveHide(o, 0, n) == ir.FieldHidden {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

func (o *Object) HasField(name intern.Name, includeHidden bool) bool {
	if _, _, ok := findField(o, 0, name); !ok {
		return false
	}
	return includeHidden || effectiveHide(o, 0, name) != ir.FieldHidden
}

// EnsureAsserted runs every layer's asserts exactly once for the whole
// object, outermost first (spec §4.4.4).
func (o *Object) EnsureAsserted(ev *Evaluator) *errors.EvalError {
	o.assertsMu.Lock()
	if o.asserted {
		o.assertsMu.Unlock()
		return nil
	}
	o.asserted = true
	o.assertsMu.Unlock()
	for i, l := range o.Layers {
		if len(l.Asserts) == 0 {
			continue
		}
		env := envForLayer(o, i, ev)
		for _, a := range l.Asserts {
			if _, err := ev.Eval(a, env); err != nil {
				return err
			}
		}
	}
	return nil
}

// FieldThunk resolves (building on first use) the thunk for name
// starting the search at layer start, honoring `f+:` composition with
// whatever same-named field exists further toward super.
func FieldThunk(ev *Evaluator, obj *Object, start int, name intern.Name) (*Thunk, *errors.EvalError) {
	layerIdx, f, ok := findField(obj, start, name)
	if !ok {
		return nil, &errors.EvalError{Kind: errors.UnknownObjectField, Message: ev.Interner.Text(name)}
	}
	if f.thunk != nil {
		return f.thunk, nil
	}
	env := envForLayer(obj, layerIdx, ev)
	if !f.plusSuper {
		f.thunk = Delay(func(ev *Evaluator) (Value, *errors.EvalError) {
			return ev.Eval(f.body, env)
		})
		return f.thunk, nil
	}
	// f+: rhs — super-field-value + rhs-value if a super field exists,
	// else just rhs-value (spec §4.4.2).
	superIdx, _, hasSuper := findField(obj, layerIdx+1, name)
	f.thunk = Delay(func(ev *Evaluator) (Value, *errors.EvalError) {
		rhs, err := ev.Eval(f.body, env)
		if err != nil {
			return nil, err
		}
		if !hasSuper {
			return rhs, nil
		}
		superThunk, err := FieldThunk(ev, obj, superIdx, name)
		if err != nil {
			return nil, err
		}
		lhs, err := superThunk.Force(ev)
		if err != nil {
			return nil, err
		}
		return ev.Add(lhs, rhs)
	})
	return f.thunk, nil
}

// NewStaticObject builds a single-layer Object whose fields are already
// resolved values rather than lazily-evaluated bodies, in the field
// order given. It is the entry point native code (internal/stdlib's
// parseJson/parseYaml, internal/manifest's decoders) uses to hand a host
// value back across the Go/Jsonnet boundary as an ordinary object.
func NewStaticObject(interner *intern.Table, names []string, values []Value) *Object {
	layer := &Layer{Fields: make(map[intern.Name]*field, len(names))}
	for i, n := range names {
		name := interner.Intern(n)
		if _, dup := layer.Fields[name]; dup {
			continue
		}
		layer.Fields[name] = &field{thunk: Ready(values[i])}
		layer.FieldOrder = append(layer.FieldOrder, name)
	}
	return &Object{Layers: []*Layer{layer}}
}

// Compose implements `a + b`: b's layers become the new self (outermost),
// a's layers recede toward super.
func Compose(a, b *Object) *Object {
	layers := make([]*Layer, 0, len(a.Layers)+len(b.Layers))
	layers = append(layers, b.Layers...)
	layers = append(layers, a.Layers...)
	return &Object{Layers: layers}
}
