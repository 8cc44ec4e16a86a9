package eval

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/ir"
)

// evalObject builds the single-layer Object a plain object literal
// produces. Statically named fields are registered directly; a field
// with a computed name is resolved eagerly against the layer's own
// environment (so it can reference self/super/locals, like any other
// field body) since the field map needs a concrete key before the
// object value exists.
func (ev *Evaluator) evalObject(n *ir.Object, env *Env) (Value, *errors.EvalError) {
	obj := &Object{}
	layer := &Layer{
		BaseEnv: env,
		Locals:  n.Locals,
		Asserts: n.Asserts,
		Fields:  make(map[intern.Name]*field, len(n.Fields)),
	}
	obj.Layers = []*Layer{layer}

	var computed []ir.ObjectField
	for _, f := range n.Fields {
		if f.NameExpr != nil {
			computed = append(computed, f)
			continue
		}
		registerField(layer, f.Name, f)
	}

	if len(computed) > 0 {
		fieldEnv := envForLayer(obj, 0, ev)
		for _, f := range computed {
			nameV, err := ev.Eval(f.NameExpr, fieldEnv)
			if err != nil {
				return nil, err
			}
			nameStr, ok := nameV.(Str)
			if !ok {
				return nil, &errors.EvalError{Kind: errors.FieldNameIsNotString, Span: f.Sp}
			}
			name := ev.Interner.Intern(nameStr.V)
			if _, dup := layer.Fields[name]; dup {
				return nil, &errors.EvalError{Kind: errors.RepeatedFieldNameEval, Span: f.Sp, Message: nameStr.V}
			}
			registerField(layer, name, f)
		}
	}
	return obj, nil
}

func registerField(layer *Layer, name intern.Name, f ir.ObjectField) {
	layer.Fields[name] = &field{hide: f.Hide, plusSuper: f.PlusSuper, body: f.Body}
	layer.FieldOrder = append(layer.FieldOrder, name)
}
