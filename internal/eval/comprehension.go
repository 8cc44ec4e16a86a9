package eval

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/ir"
)

// evalCompSpec evaluates a comprehension's for/if clauses into the final
// list of environment snapshots, one per surviving combination (spec
// §4.4.6). Each subsequent `for` multiplies the accumulator by
// evaluating its array once per existing snapshot, under that
// snapshot's bindings.
func (ev *Evaluator) evalCompSpec(spec ir.CompSpec, env *Env) ([]*Env, *errors.EvalError) {
	snaps := []*Env{env}
	for _, fc := range spec.Fors {
		var next []*Env
		for _, snap := range snaps {
			arrV, err := ev.Eval(fc.Expr, snap)
			if err != nil {
				return nil, err
			}
			arr, ok := arrV.(*Array)
			if !ok {
				return nil, &errors.EvalError{Kind: errors.ForSpecValueIsNotArray, Span: fc.Expr.Span()}
			}
			for _, elem := range arr.Elems {
				elem := elem
				child := snap.Child()
				child.Vars[fc.Var] = elem
				keep := true
				for _, cond := range fc.Ifs {
					cv, err := ev.Eval(cond, child)
					if err != nil {
						return nil, err
					}
					b, ok := cv.(Bool)
					if !ok {
						return nil, &errors.EvalError{Kind: errors.CondIsNotBool, Span: cond.Span()}
					}
					if !b.V {
						keep = false
						break
					}
				}
				if keep {
					next = append(next, child)
				}
			}
		}
		snaps = next
	}
	return snaps, nil
}

// evalObjectComp builds an object whose self-layer has no statically
// written fields: one dynamic field is scheduled per comprehension
// snapshot (spec §4.4.6). The field's name is resolved eagerly (a map
// key has to exist before the object value is returned); its value stays
// a pending thunk closing over the snapshot.
func (ev *Evaluator) evalObjectComp(n *ir.ObjectComp, env *Env) (Value, *errors.EvalError) {
	obj := &Object{}
	baseLayer := &Layer{BaseEnv: env, Locals: n.Locals, Fields: map[intern.Name]*field{}}
	obj.Layers = []*Layer{baseLayer}

	snaps, err := ev.evalCompSpec(n.Spec, envForLayer(obj, 0, ev))
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		nameV, err := ev.Eval(n.NameExpr, snap)
		if err != nil {
			return nil, err
		}
		nameStr, ok := nameV.(Str)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.FieldNameIsNotString, Span: n.NameExpr.Span()}
		}
		name := ev.Interner.Intern(nameStr.V)
		if _, dup := baseLayer.Fields[name]; dup {
			return nil, &errors.EvalError{Kind: errors.RepeatedFieldNameEval, Span: n.Sp, Message: nameStr.V}
		}
		snap := snap
		body := n.Body
		baseLayer.Fields[name] = &field{
			hide: ir.FieldInherit,
			thunk: Delay(func(ev *Evaluator) (Value, *errors.EvalError) {
				return ev.Eval(body, snap)
			}),
		}
		baseLayer.FieldOrder = append(baseLayer.FieldOrder, name)
	}
	return obj, nil
}
