package stdlib

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// builtinMergePatch implements RFC 7396 JSON merge patch, present in the
// original implementation's native set but dropped from the distilled
// built-in list; supplemented here since std.mergePatch is common enough
// in real Jsonnet configs to be worth carrying.
func builtinMergePatch(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	target, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	patch, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	return mergePatch(ev, target, patch)
}

func mergePatch(ev *eval.Evaluator, target, patch eval.Value) (eval.Value, *errors.EvalError) {
	patchObj, ok := patch.(*eval.Object)
	if !ok {
		return patch, nil
	}
	targetObj, ok := target.(*eval.Object)
	if !ok {
		targetObj = eval.NewStaticObject(ev.Interner, nil, nil)
	}
	if err := targetObj.EnsureAsserted(ev); err != nil {
		return nil, err
	}
	if err := patchObj.EnsureAsserted(ev); err != nil {
		return nil, err
	}

	merged := map[string]eval.Value{}
	var order []string
	for _, n := range targetObj.FieldNames(false) {
		key := ev.Interner.Text(n)
		th, ferr := eval.FieldThunk(ev, targetObj, 0, n)
		if ferr != nil {
			return nil, ferr
		}
		v, ferr := th.Force(ev)
		if ferr != nil {
			return nil, ferr
		}
		merged[key] = v
		order = append(order, key)
	}

	for _, n := range patchObj.FieldNames(false) {
		key := ev.Interner.Text(n)
		th, ferr := eval.FieldThunk(ev, patchObj, 0, n)
		if ferr != nil {
			return nil, ferr
		}
		pv, ferr := th.Force(ev)
		if ferr != nil {
			return nil, ferr
		}
		if _, isNull := pv.(eval.Null); isNull {
			if _, existed := merged[key]; existed {
				delete(merged, key)
				order = removeStr(order, key)
			}
			continue
		}
		existing, existed := merged[key]
		if !existed {
			order = append(order, key)
		}
		var newVal eval.Value
		if pObj, ok := pv.(*eval.Object); ok {
			if existed {
				nv, merr := mergePatch(ev, existing, pObj)
				if merr != nil {
					return nil, merr
				}
				newVal = nv
			} else {
				nv, merr := mergePatch(ev, eval.Null{}, pObj)
				if merr != nil {
					return nil, merr
				}
				newVal = nv
			}
		} else {
			newVal = pv
		}
		merged[key] = newVal
	}

	names := make([]string, len(order))
	values := make([]eval.Value, len(order))
	for i, k := range order {
		names[i] = k
		values[i] = merged[k]
	}
	return eval.NewStaticObject(ev.Interner, names, values), nil
}

func removeStr(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
