// Package stdlib registers the native standard-library built-ins that
// can't be written in Jsonnet itself (spec §4.4.9): type introspection,
// numeric and string primitives, array and set operations, encoding,
// and the manifesters' native entry points. The Jsonnet-expressible
// remainder lives in std/std.jsonnet and composes with this table via
// `+` the way the real implementation splits std.jsonnet from its
// native half.
package stdlib

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

func arg(ev *eval.Evaluator, args []*eval.Thunk, i int) (eval.Value, *errors.EvalError) {
	if i >= len(args) {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "missing built-in argument"}
	}
	return args[i].Force(ev)
}

func argStr(ev *eval.Evaluator, args []*eval.Thunk, i int, fn string) (string, *errors.EvalError) {
	v, err := arg(ev, args, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(eval.Str)
	if !ok {
		return "", badArgType(fn, i, "string", v)
	}
	return s.V, nil
}

func argNum(ev *eval.Evaluator, args []*eval.Thunk, i int, fn string) (float64, *errors.EvalError) {
	v, err := arg(ev, args, i)
	if err != nil {
		return 0, err
	}
	n, ok := v.(eval.Number)
	if !ok {
		return 0, badArgType(fn, i, "number", v)
	}
	return n.V, nil
}

func argBool(ev *eval.Evaluator, args []*eval.Thunk, i int, fn string) (bool, *errors.EvalError) {
	v, err := arg(ev, args, i)
	if err != nil {
		return false, err
	}
	b, ok := v.(eval.Bool)
	if !ok {
		return false, badArgType(fn, i, "boolean", v)
	}
	return b.V, nil
}

func argArr(ev *eval.Evaluator, args []*eval.Thunk, i int, fn string) (*eval.Array, *errors.EvalError) {
	v, err := arg(ev, args, i)
	if err != nil {
		return nil, err
	}
	a, ok := v.(*eval.Array)
	if !ok {
		return nil, badArgType(fn, i, "array", v)
	}
	return a, nil
}

func argObj(ev *eval.Evaluator, args []*eval.Thunk, i int, fn string) (*eval.Object, *errors.EvalError) {
	v, err := arg(ev, args, i)
	if err != nil {
		return nil, err
	}
	o, ok := v.(*eval.Object)
	if !ok {
		return nil, badArgType(fn, i, "object", v)
	}
	return o, nil
}

func argFunc(ev *eval.Evaluator, args []*eval.Thunk, i int, fn string) (*eval.Function, *errors.EvalError) {
	v, err := arg(ev, args, i)
	if err != nil {
		return nil, err
	}
	f, ok := v.(*eval.Function)
	if !ok {
		return nil, badArgType(fn, i, "function", v)
	}
	return f, nil
}

func badArgType(fn string, i int, want string, got eval.Value) *errors.EvalError {
	return &errors.EvalError{
		Kind:    errors.InvalidBuiltInFuncArgType,
		Message: fn + ": argument " + itoa(i) + " must be a " + want + ", got " + eval.TypeName(got),
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// callFunc invokes a Jsonnet function value from native code (spec
// §4.4.10's binding rules apply through the same Call path the
// evaluator uses, but native callers only ever pass positional args).
func callFunc(ev *eval.Evaluator, fn *eval.Function, argVals ...*eval.Thunk) (eval.Value, *errors.EvalError) {
	return eval.CallNative(ev, fn, argVals)
}
