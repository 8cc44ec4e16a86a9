package stdlib

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

func builtinType(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	return eval.Str{V: eval.TypeName(v)}, nil
}

func isKind[T any](ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	_, ok := v.(T)
	return eval.Bool{V: ok}, nil
}

func builtinLength(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case eval.Str:
		return eval.Number{V: float64(len([]rune(t.V)))}, nil
	case *eval.Array:
		return eval.Number{V: float64(len(t.Elems))}, nil
	case *eval.Object:
		return eval.Number{V: float64(len(t.FieldNames(false)))}, nil
	case *eval.Function:
		return eval.Number{V: float64(len(t.Params))}, nil
	}
	return nil, badArgType("length", 0, "string, array, object or function", v)
}

func builtinObjectHasEx(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	o, err := argObj(ev, args, 0, "objectHasEx")
	if err != nil {
		return nil, err
	}
	f, err := argStr(ev, args, 1, "objectHasEx")
	if err != nil {
		return nil, err
	}
	inc, err := argBool(ev, args, 2, "objectHasEx")
	if err != nil {
		return nil, err
	}
	return eval.Bool{V: o.HasField(ev.Interner.Intern(f), inc)}, nil
}

func builtinObjectFieldsEx(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	o, err := argObj(ev, args, 0, "objectFieldsEx")
	if err != nil {
		return nil, err
	}
	inc, err := argBool(ev, args, 1, "objectFieldsEx")
	if err != nil {
		return nil, err
	}
	names := o.FieldNames(inc)
	elems := make([]*eval.Thunk, len(names))
	for i, n := range names {
		elems[i] = eval.Ready(eval.Str{V: ev.Interner.Text(n)})
	}
	sortStrThunks(ev, elems)
	return &eval.Array{Elems: elems}, nil
}

func builtinPrimitiveEquals(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	switch av := a.(type) {
	case eval.Null:
		_, ok := b.(eval.Null)
		return eval.Bool{V: ok}, nil
	case eval.Bool:
		bv, ok := b.(eval.Bool)
		return eval.Bool{V: ok && av.V == bv.V}, nil
	case eval.Number:
		bv, ok := b.(eval.Number)
		return eval.Bool{V: ok && av.V == bv.V}, nil
	case eval.Str:
		bv, ok := b.(eval.Str)
		return eval.Bool{V: ok && av.V == bv.V}, nil
	}
	return nil, &errors.EvalError{Kind: errors.PrimitiveEqualsNonPrimitive, Message: "primitiveEquals requires null, boolean, number or string"}
}

func builtinEquals(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	eq, cerr := ev.Equals(a, b, zeroSpan())
	if cerr != nil {
		return nil, cerr
	}
	return eval.Bool{V: eq}, nil
}

func builtinAssertEqual(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	eq, cerr := ev.Equals(a, b, zeroSpan())
	if cerr != nil {
		return nil, cerr
	}
	if !eq {
		return nil, &errors.EvalError{
			Kind:    errors.AssertEqualFailed,
			Message: "Assertion failed. " + ev.ToDisplayString(a) + " != " + ev.ToDisplayString(b),
		}
	}
	return eval.Bool{V: true}, nil
}

func builtinToString(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	return eval.Str{V: ev.ToDisplayString(v)}, nil
}

func builtinExtVar(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	name, err := argStr(ev, args, 0, "extVar")
	if err != nil {
		return nil, err
	}
	t, ok := ev.ExtVars[name]
	if !ok {
		return nil, &errors.EvalError{Kind: errors.UnknownExtVar, Message: name}
	}
	return t.Force(ev)
}

func builtinThisFile(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	return eval.Str{V: ev.CurrentFile}, nil
}

func builtinTrace(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	msg, err := argStr(ev, args, 0, "trace")
	if err != nil {
		return nil, err
	}
	if ev.Tracer != nil {
		ev.Tracer.Trace(msg, zeroSpan())
	}
	return arg(ev, args, 1)
}
