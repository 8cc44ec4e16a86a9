package eval

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/ir"
)

func (ev *Evaluator) evalCall(n *ir.Call, env *Env) (Value, *errors.EvalError) {
	if b, ok := n.Target.(*ir.Builtin); ok {
		return ev.callBuiltinNode(b, n, env)
	}

	targetV, err := ev.Eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	fn, ok := targetV.(*Function)
	if !ok {
		return nil, &errors.EvalError{Kind: errors.CalleeIsNotFunction, Span: n.Sp}
	}

	args := make([]*Thunk, len(n.Positional))
	for i, a := range n.Positional {
		a := a
		args[i] = Delay(func(ev *Evaluator) (Value, *errors.EvalError) { return ev.Eval(a, env) })
	}

	if fn.Native != nil {
		v, nerr := fn.Native(ev, args)
		if nerr != nil {
			if ee, ok := nerr.(*errors.EvalError); ok {
				ee.Span = n.Sp
				return nil, ee
			}
			return nil, &errors.EvalError{Kind: errors.NativeCallFailed, Span: n.Sp, Message: nerr.Error()}
		}
		return v, nil
	}

	frame, err := ev.bindCall(fn, args, n, env)
	if err != nil {
		return nil, err
	}

	if n.TailStrict {
		for _, p := range fn.Params {
			t, _ := frame.Lookup(p.Name)
			if t != nil {
				if _, err := t.Force(ev); err != nil {
					return nil, err
				}
			}
		}
	}

	leaveDepth, err := ev.enter(n.Sp)
	if err != nil {
		return nil, err
	}
	defer leaveDepth()

	pop := ev.pushFrame(n.Sp, frameLabel(fn))
	defer pop()
	return ev.Eval(fn.Body, frame)
}

// CallNative invokes a function value with positional argument thunks
// from native built-in code (internal/stdlib), reusing the same binding
// and native-dispatch paths evalCall uses for a Jsonnet call site.
func CallNative(ev *Evaluator, fn *Function, args []*Thunk) (Value, *errors.EvalError) {
	if fn.Native != nil {
		v, nerr := fn.Native(ev, args)
		if nerr != nil {
			if ee, ok := nerr.(*errors.EvalError); ok {
				return nil, ee
			}
			return nil, &errors.EvalError{Kind: errors.NativeCallFailed, Message: nerr.Error()}
		}
		return v, nil
	}
	frame, err := ev.bindCall(fn, args, &ir.Call{}, fn.Env)
	if err != nil {
		return nil, err
	}

	leaveDepth, err := ev.enter(fn.Body.Span())
	if err != nil {
		return nil, err
	}
	defer leaveDepth()

	pop := ev.pushFrame(fn.Body.Span(), frameLabel(fn))
	defer pop()
	return ev.Eval(fn.Body, frame)
}

func frameLabel(fn *Function) string {
	if fn.SelfName != "" {
		return fn.SelfName
	}
	return "function"
}

// bindCall implements spec §4.4.10's four-step binding: reject excess
// positional args, bind positionals, resolve named args against
// parameter names, then fill the rest from defaults evaluated in a
// frame that also binds every other parameter (so defaults can refer to
// each other and to earlier parameters).
func (ev *Evaluator) bindCall(fn *Function, posArgs []*Thunk, call *ir.Call, callerEnv *Env) (*Env, *errors.EvalError) {
	params := fn.Params
	if len(posArgs) > len(params) {
		return nil, &errors.EvalError{Kind: errors.TooManyCallArgs, Span: call.Sp}
	}
	bound := make([]*Thunk, len(params))
	for i, a := range posArgs {
		bound[i] = a
	}

	for _, na := range call.Named {
		idx := -1
		for i, p := range params {
			if p.Name == na.Name {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, &errors.EvalError{Kind: errors.UnknownCallParam, Span: call.Sp, Message: ev.Interner.Text(na.Name)}
		}
		if bound[idx] != nil {
			return nil, &errors.EvalError{Kind: errors.RepeatedCallParam, Span: call.Sp, Message: ev.Interner.Text(na.Name)}
		}
		na := na
		bound[idx] = Delay(func(ev *Evaluator) (Value, *errors.EvalError) { return ev.Eval(na.Arg, callerEnv) })
	}

	frame := fn.Env.Child()
	for i, p := range params {
		if bound[i] != nil {
			frame.Vars[p.Name] = bound[i]
			continue
		}
		if p.Default == nil {
			return nil, &errors.EvalError{Kind: errors.CallParamNotBound, Span: call.Sp, Message: ev.Interner.Text(p.Name)}
		}
		p := p
		frame.Vars[p.Name] = Delay(func(ev *Evaluator) (Value, *errors.EvalError) {
			return ev.Eval(p.Default, frame)
		})
	}
	return frame, nil
}

// callBuiltinNode handles a Call whose target is a direct builtin
// reference synthesized by desugaring (e.g. slicing); builtins take only
// positional arguments.
func (ev *Evaluator) callBuiltinNode(b *ir.Builtin, n *ir.Call, env *Env) (Value, *errors.EvalError) {
	fn := ev.Builtins[b.Name]
	if fn == nil {
		return nil, &errors.EvalError{Kind: errors.Other, Span: n.Sp, Message: "unknown builtin " + b.Name}
	}
	args := make([]*Thunk, len(n.Positional))
	for i, a := range n.Positional {
		a := a
		args[i] = Delay(func(ev *Evaluator) (Value, *errors.EvalError) { return ev.Eval(a, env) })
	}
	v, err := fn(ev, args)
	if err != nil {
		err.Span = n.Sp
		return nil, err
	}
	return v, nil
}
