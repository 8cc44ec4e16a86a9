package stdlib

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

func builtinMakeArray(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	n, err := argNum(ev, args, 0, "makeArray")
	if err != nil {
		return nil, err
	}
	fn, err := argFunc(ev, args, 1, "makeArray")
	if err != nil {
		return nil, err
	}
	sz := int(n)
	elems := make([]*eval.Thunk, sz)
	for i := 0; i < sz; i++ {
		i := i
		elems[i] = eval.Delay(func(ev *eval.Evaluator) (eval.Value, *errors.EvalError) {
			return callFunc(ev, fn, eval.Ready(eval.Number{V: float64(i)}))
		})
	}
	return &eval.Array{Elems: elems}, nil
}

func builtinFind(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	a, err := argArr(ev, args, 1, "find")
	if err != nil {
		return nil, err
	}
	var out []*eval.Thunk
	for i, t := range a.Elems {
		ev2, err := t.Force(ev)
		if err != nil {
			return nil, err
		}
		eq, eerr := ev.Equals(v, ev2, zeroSpan())
		if eerr != nil {
			return nil, eerr
		}
		if eq {
			out = append(out, eval.Ready(eval.Number{V: float64(i)}))
		}
	}
	return &eval.Array{Elems: out}, nil
}

func builtinFilter(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	fn, err := argFunc(ev, args, 0, "filter")
	if err != nil {
		return nil, err
	}
	a, err := argArr(ev, args, 1, "filter")
	if err != nil {
		return nil, err
	}
	var out []*eval.Thunk
	for _, t := range a.Elems {
		r, err := callFunc(ev, fn, t)
		if err != nil {
			return nil, err
		}
		b, ok := r.(eval.Bool)
		if !ok {
			return nil, badArgType("filter", 0, "predicate returning boolean", r)
		}
		if b.V {
			out = append(out, t)
		}
	}
	return &eval.Array{Elems: out}, nil
}

func builtinMap(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	fn, err := argFunc(ev, args, 0, "map")
	if err != nil {
		return nil, err
	}
	a, err := argArr(ev, args, 1, "map")
	if err != nil {
		return nil, err
	}
	elems := make([]*eval.Thunk, len(a.Elems))
	for i, t := range a.Elems {
		t := t
		elems[i] = eval.Delay(func(ev *eval.Evaluator) (eval.Value, *errors.EvalError) {
			return callFunc(ev, fn, t)
		})
	}
	return &eval.Array{Elems: elems}, nil
}

func builtinFoldl(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	fn, err := argFunc(ev, args, 0, "foldl")
	if err != nil {
		return nil, err
	}
	a, err := argArr(ev, args, 1, "foldl")
	if err != nil {
		return nil, err
	}
	acc, err := arg(ev, args, 2)
	if err != nil {
		return nil, err
	}
	for _, t := range a.Elems {
		acc, err = callFunc(ev, fn, eval.Ready(acc), t)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func builtinFoldr(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	fn, err := argFunc(ev, args, 0, "foldr")
	if err != nil {
		return nil, err
	}
	a, err := argArr(ev, args, 1, "foldr")
	if err != nil {
		return nil, err
	}
	acc, err := arg(ev, args, 2)
	if err != nil {
		return nil, err
	}
	for i := len(a.Elems) - 1; i >= 0; i-- {
		acc, err = callFunc(ev, fn, a.Elems[i], eval.Ready(acc))
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func builtinRange(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	from, err := argNum(ev, args, 0, "range")
	if err != nil {
		return nil, err
	}
	to, err := argNum(ev, args, 1, "range")
	if err != nil {
		return nil, err
	}
	var elems []*eval.Thunk
	for i := int(from); i <= int(to); i++ {
		elems = append(elems, eval.Ready(eval.Number{V: float64(i)}))
	}
	return &eval.Array{Elems: elems}, nil
}

// builtinSlice backs both std.slice and the `e[a:b:c]` desugaring (spec
// §4.3); it dispatches on whether the indexable is a string or array.
func builtinSlice(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	begin, err := optionalIndex(ev, args, 1)
	if err != nil {
		return nil, err
	}
	end, err := optionalIndex(ev, args, 2)
	if err != nil {
		return nil, err
	}
	step, err := optionalIndex(ev, args, 3)
	if err != nil {
		return nil, err
	}
	if step == nil {
		one := 1
		step = &one
	}
	if *step < 1 {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "slice: step must be at least 1"}
	}

	switch t := v.(type) {
	case eval.Str:
		r := []rune(t.V)
		lo, hi := sliceBounds(begin, end, len(r))
		var out []rune
		for i := lo; i < hi; i += *step {
			out = append(out, r[i])
		}
		return eval.Str{V: string(out)}, nil
	case *eval.Array:
		lo, hi := sliceBounds(begin, end, len(t.Elems))
		var out []*eval.Thunk
		for i := lo; i < hi; i += *step {
			out = append(out, t.Elems[i])
		}
		return &eval.Array{Elems: out}, nil
	}
	return nil, badArgType("slice", 0, "string or array", v)
}

func optionalIndex(ev *eval.Evaluator, args []*eval.Thunk, i int) (*int, *errors.EvalError) {
	if i >= len(args) {
		return nil, nil
	}
	v, err := arg(ev, args, i)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(eval.Null); ok {
		return nil, nil
	}
	n, ok := v.(eval.Number)
	if !ok {
		return nil, badArgType("slice", i, "number or null", v)
	}
	r := int(n.V)
	return &r, nil
}

func sliceBounds(begin, end *int, n int) (int, int) {
	lo, hi := 0, n
	if begin != nil {
		lo = clampIdx(*begin, n)
	}
	if end != nil {
		hi = clampIdx(*end, n)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func builtinJoin(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	sepV, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	arr, err := argArr(ev, args, 1, "join")
	if err != nil {
		return nil, err
	}
	switch sep := sepV.(type) {
	case eval.Str:
		var parts []string
		for _, t := range arr.Elems {
			v, err := t.Force(ev)
			if err != nil {
				return nil, err
			}
			if _, ok := v.(eval.Null); ok {
				continue
			}
			s, ok := v.(eval.Str)
			if !ok {
				return nil, badArgType("join", 1, "array of strings", v)
			}
			parts = append(parts, s.V)
		}
		joined := ""
		for i, p := range parts {
			if i > 0 {
				joined += sep.V
			}
			joined += p
		}
		return eval.Str{V: joined}, nil
	case *eval.Array:
		var out []*eval.Thunk
		first := true
		for _, t := range arr.Elems {
			v, err := t.Force(ev)
			if err != nil {
				return nil, err
			}
			if _, ok := v.(eval.Null); ok {
				continue
			}
			sub, ok := v.(*eval.Array)
			if !ok {
				return nil, badArgType("join", 1, "array of arrays", v)
			}
			if !first {
				out = append(out, sep.Elems...)
			}
			out = append(out, sub.Elems...)
			first = false
		}
		return &eval.Array{Elems: out}, nil
	}
	return nil, badArgType("join", 0, "string or array", sepV)
}

func builtinReverse(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argArr(ev, args, 0, "reverse")
	if err != nil {
		return nil, err
	}
	out := make([]*eval.Thunk, len(a.Elems))
	for i, t := range a.Elems {
		out[len(out)-1-i] = t
	}
	return &eval.Array{Elems: out}, nil
}

func builtinAll(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argArr(ev, args, 0, "all")
	if err != nil {
		return nil, err
	}
	for _, t := range a.Elems {
		v, err := t.Force(ev)
		if err != nil {
			return nil, err
		}
		b, ok := v.(eval.Bool)
		if !ok {
			return nil, badArgType("all", 0, "array of booleans", v)
		}
		if !b.V {
			return eval.Bool{V: false}, nil
		}
	}
	return eval.Bool{V: true}, nil
}

func builtinAny(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argArr(ev, args, 0, "any")
	if err != nil {
		return nil, err
	}
	for _, t := range a.Elems {
		v, err := t.Force(ev)
		if err != nil {
			return nil, err
		}
		b, ok := v.(eval.Bool)
		if !ok {
			return nil, badArgType("any", 0, "array of booleans", v)
		}
		if b.V {
			return eval.Bool{V: true}, nil
		}
	}
	return eval.Bool{V: false}, nil
}

// builtinGet supplements the native set with a default-valued field
// lookup (spec-adjacent std.get), thin over the same object field path
// readField/FieldThunk use.
func builtinGet(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	o, err := argObj(ev, args, 0, "get")
	if err != nil {
		return nil, err
	}
	f, err := argStr(ev, args, 1, "get")
	if err != nil {
		return nil, err
	}
	def, err := arg(ev, args, 2)
	if err != nil {
		return nil, err
	}
	inc := true
	if len(args) > 3 {
		inc, err = argBool(ev, args, 3, "get")
		if err != nil {
			return nil, err
		}
	}
	name := ev.Interner.Intern(f)
	if !o.HasField(name, inc) {
		return def, nil
	}
	th, ferr := eval.FieldThunk(ev, o, 0, name)
	if ferr != nil {
		return nil, ferr
	}
	return th.Force(ev)
}
