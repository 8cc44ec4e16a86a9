package stdlib

import (
	"sort"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// keyedElem pairs a thunk with its (possibly key-function-derived)
// comparison value, forced once up front the way the original
// implementation's sort/uniq/set builtins do before running their
// quicksort/merge-sort split (spec §4.4.9's sort is a stable permutation
// under a total order).
type keyedElem struct {
	thunk *eval.Thunk
	key   eval.Value
}

func keyedElems(ev *eval.Evaluator, arr *eval.Array, keyF *eval.Function) ([]keyedElem, *errors.EvalError) {
	out := make([]keyedElem, len(arr.Elems))
	for i, t := range arr.Elems {
		v, err := t.Force(ev)
		if err != nil {
			return nil, err
		}
		k := v
		if keyF != nil {
			k, err = callFunc(ev, keyF, t)
			if err != nil {
				return nil, err
			}
		}
		out[i] = keyedElem{thunk: t, key: k}
	}
	return out, nil
}

func sortKeyed(ev *eval.Evaluator, elems []keyedElem) *errors.EvalError {
	var sortErr *errors.EvalError
	sort.SliceStable(elems, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		ord, err := ev.Compare(elems[i].key, elems[j].key, zeroSpan())
		if err != nil {
			sortErr = err
			return false
		}
		return ord < 0
	})
	return sortErr
}

func optionalKeyFunc(ev *eval.Evaluator, args []*eval.Thunk, i int, fn string) (*eval.Function, *errors.EvalError) {
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
	f, ok := v.(*eval.Function)
	if !ok {
		return nil, badArgType(fn, i, "key function or null", v)
	}
	return f, nil
}

func builtinSort(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argArr(ev, args, 0, "sort")
	if err != nil {
		return nil, err
	}
	keyF, err := optionalKeyFunc(ev, args, 1, "sort")
	if err != nil {
		return nil, err
	}
	elems, err := keyedElems(ev, a, keyF)
	if err != nil {
		return nil, err
	}
	if err := sortKeyed(ev, elems); err != nil {
		return nil, err
	}
	out := make([]*eval.Thunk, len(elems))
	for i, e := range elems {
		out[i] = e.thunk
	}
	return &eval.Array{Elems: out}, nil
}

// sortStrThunks sorts already-forced string-valued thunks in place, used
// by objectFieldsEx which must return field names in sorted order.
func sortStrThunks(ev *eval.Evaluator, elems []*eval.Thunk) {
	sort.SliceStable(elems, func(i, j int) bool {
		vi, _ := elems[i].Force(ev)
		vj, _ := elems[j].Force(ev)
		si, _ := vi.(eval.Str)
		sj, _ := vj.(eval.Str)
		return si.V < sj.V
	})
}

func builtinUniq(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argArr(ev, args, 0, "uniq")
	if err != nil {
		return nil, err
	}
	keyF, err := optionalKeyFunc(ev, args, 1, "uniq")
	if err != nil {
		return nil, err
	}
	elems, err := keyedElems(ev, a, keyF)
	if err != nil {
		return nil, err
	}
	var out []*eval.Thunk
	for i, e := range elems {
		if i > 0 {
			eq, eerr := ev.Equals(elems[i-1].key, e.key, zeroSpan())
			if eerr != nil {
				return nil, eerr
			}
			if eq {
				continue
			}
		}
		out = append(out, e.thunk)
	}
	return &eval.Array{Elems: out}, nil
}

// builtinSet sorts and dedupes, giving the canonical representation the
// other set operations assume their inputs are already in.
func builtinSet(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	keyF, err := optionalKeyFunc(ev, args, 1, "set")
	if err != nil {
		return nil, err
	}
	elems, err := asSortedSet(ev, v, keyF)
	if err != nil {
		return nil, err
	}
	out := make([]*eval.Thunk, len(elems))
	for i, e := range elems {
		out[i] = e.thunk
	}
	return &eval.Array{Elems: out}, nil
}

func asSortedSet(ev *eval.Evaluator, v eval.Value, keyF *eval.Function) ([]keyedElem, *errors.EvalError) {
	arr, ok := v.(*eval.Array)
	if !ok {
		return nil, badArgType("set op", 0, "array", v)
	}
	elems, err := keyedElems(ev, arr, keyF)
	if err != nil {
		return nil, err
	}
	if err := sortKeyed(ev, elems); err != nil {
		return nil, err
	}
	var out []keyedElem
	for i, e := range elems {
		if i > 0 {
			eq, eerr := ev.Equals(elems[i-1].key, e.key, zeroSpan())
			if eerr != nil {
				return nil, eerr
			}
			if eq {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func builtinSetInter(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	av, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	bv, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	keyF, err := optionalKeyFunc(ev, args, 2, "setInter")
	if err != nil {
		return nil, err
	}
	a, err := asSortedSet(ev, av, keyF)
	if err != nil {
		return nil, err
	}
	b, err := asSortedSet(ev, bv, keyF)
	if err != nil {
		return nil, err
	}
	var out []*eval.Thunk
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ord, cerr := ev.Compare(a[i].key, b[j].key, zeroSpan())
		if cerr != nil {
			return nil, cerr
		}
		switch {
		case ord < 0:
			i++
		case ord > 0:
			j++
		default:
			out = append(out, a[i].thunk)
			i++
			j++
		}
	}
	return &eval.Array{Elems: out}, nil
}

func builtinSetUnion(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	av, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	bv, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	keyF, err := optionalKeyFunc(ev, args, 2, "setUnion")
	if err != nil {
		return nil, err
	}
	a, err := asSortedSet(ev, av, keyF)
	if err != nil {
		return nil, err
	}
	b, err := asSortedSet(ev, bv, keyF)
	if err != nil {
		return nil, err
	}
	var out []*eval.Thunk
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ord, cerr := ev.Compare(a[i].key, b[j].key, zeroSpan())
		if cerr != nil {
			return nil, cerr
		}
		switch {
		case ord < 0:
			out = append(out, a[i].thunk)
			i++
		case ord > 0:
			out = append(out, b[j].thunk)
			j++
		default:
			out = append(out, a[i].thunk)
			i++
			j++
		}
	}
	for ; i < len(a); i++ {
		out = append(out, a[i].thunk)
	}
	for ; j < len(b); j++ {
		out = append(out, b[j].thunk)
	}
	return &eval.Array{Elems: out}, nil
}

func builtinSetDiff(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	av, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	bv, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	keyF, err := optionalKeyFunc(ev, args, 2, "setDiff")
	if err != nil {
		return nil, err
	}
	a, err := asSortedSet(ev, av, keyF)
	if err != nil {
		return nil, err
	}
	b, err := asSortedSet(ev, bv, keyF)
	if err != nil {
		return nil, err
	}
	var out []*eval.Thunk
	i, j := 0, 0
	for i < len(a) {
		if j >= len(b) {
			out = append(out, a[i].thunk)
			i++
			continue
		}
		ord, cerr := ev.Compare(a[i].key, b[j].key, zeroSpan())
		if cerr != nil {
			return nil, cerr
		}
		switch {
		case ord < 0:
			out = append(out, a[i].thunk)
			i++
		case ord > 0:
			j++
		default:
			i++
			j++
		}
	}
	return &eval.Array{Elems: out}, nil
}

func builtinSetMember(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	x, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	arrV, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	keyF, err := optionalKeyFunc(ev, args, 2, "setMember")
	if err != nil {
		return nil, err
	}
	set, err := asSortedSet(ev, arrV, keyF)
	if err != nil {
		return nil, err
	}
	key := x
	if keyF != nil {
		key, err = callFunc(ev, keyF, eval.Ready(x))
		if err != nil {
			return nil, err
		}
	}
	lo, hi := 0, len(set)
	for lo < hi {
		mid := (lo + hi) / 2
		ord, cerr := ev.Compare(set[mid].key, key, zeroSpan())
		if cerr != nil {
			return nil, cerr
		}
		if ord < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	found := lo < len(set)
	if found {
		ord, cerr := ev.Compare(set[lo].key, key, zeroSpan())
		if cerr != nil {
			return nil, cerr
		}
		found = ord == 0
	}
	return eval.Bool{V: found}, nil
}
