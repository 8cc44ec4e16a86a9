package stdlib

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// NativeFunc is a host function registered through the facade's
// RegisterNativeFunc (spec §6), exposed to Jsonnet as std.native(name).
type NativeFunc func(ev *eval.Evaluator, args []eval.Value) (eval.Value, error)

// Natives holds the VM's registered std.native table; builtinNative
// closes over it so registration can happen after the stdlib table is
// built (the facade constructs both at VM setup).
type Natives struct {
	funcs map[string]NativeFunc
}

func NewNatives() *Natives { return &Natives{funcs: map[string]NativeFunc{}} }

func (n *Natives) Register(name string, f NativeFunc) { n.funcs[name] = f }

func builtinNative(natives *Natives) eval.BuiltinFunc {
	return func(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
		name, err := argStr(ev, args, 0, "native")
		if err != nil {
			return nil, err
		}
		f, ok := natives.funcs[name]
		if !ok {
			return nil, &errors.EvalError{Kind: errors.Other, Message: "native function not registered: " + name}
		}
		return &eval.Function{
			Native: func(ev *eval.Evaluator, callArgs []*eval.Thunk) (eval.Value, error) {
				vals := make([]eval.Value, len(callArgs))
				for i, t := range callArgs {
					v, ferr := t.Force(ev)
					if ferr != nil {
						return nil, ferr
					}
					vals[i] = v
				}
				v, nerr := f(ev, vals)
				if nerr != nil {
					if ee, ok := nerr.(*errors.EvalError); ok {
						return nil, ee
					}
					return nil, &errors.EvalError{Kind: errors.NativeCallFailed, Message: nerr.Error()}
				}
				return v, nil
			},
		}, nil
	}
}
