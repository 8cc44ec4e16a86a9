package stdlib

import (
	"github.com/tidwall/gjson"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// builtinParseJSON walks a gjson.Result tree instead of hand-rolling a
// second JSON parser alongside the lexer's own string/number scanning.
func builtinParseJSON(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "parseJson")
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(s) {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "parseJson: invalid JSON"}
	}
	return gjsonToValue(ev, gjson.Parse(s)), nil
}

func gjsonToValue(ev *eval.Evaluator, r gjson.Result) eval.Value {
	switch r.Type {
	case gjson.Null:
		return eval.Null{}
	case gjson.True:
		return eval.Bool{V: true}
	case gjson.False:
		return eval.Bool{V: false}
	case gjson.Number:
		return eval.Number{V: r.Num}
	case gjson.String:
		return eval.Str{V: r.Str}
	case gjson.JSON:
		if r.IsArray() {
			arr := r.Array()
			elems := make([]*eval.Thunk, len(arr))
			for i, e := range arr {
				elems[i] = eval.Ready(gjsonToValue(ev, e))
			}
			return &eval.Array{Elems: elems}
		}
		// ForEach preserves source field order, unlike Map(), which
		// matters for objectFieldsEx and manifest round-tripping.
		var names []string
		var values []eval.Value
		r.ForEach(func(key, val gjson.Result) bool {
			names = append(names, key.Str)
			values = append(values, gjsonToValue(ev, val))
			return true
		})
		return eval.NewStaticObject(ev.Interner, names, values)
	}
	return eval.Null{}
}
