package stdlib

import (
	"bytes"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// builtinParseYAML decodes with UseOrderedMap so mappings come back as
// yaml.MapSlice rather than map[string]any, preserving field order the
// way the manifester's YAML writer needs it to for a faithful round trip.
func builtinParseYAML(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "parseYaml")
	if err != nil {
		return nil, err
	}
	var doc interface{}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(s)), yaml.UseOrderedMap())
	if yerr := dec.Decode(&doc); yerr != nil {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "parseYaml: " + yerr.Error()}
	}
	return yamlToValue(ev, doc), nil
}

func yamlToValue(ev *eval.Evaluator, v interface{}) eval.Value {
	switch t := v.(type) {
	case nil:
		return eval.Null{}
	case bool:
		return eval.Bool{V: t}
	case string:
		return eval.Str{V: t}
	case int:
		return eval.Number{V: float64(t)}
	case int64:
		return eval.Number{V: float64(t)}
	case uint64:
		return eval.Number{V: float64(t)}
	case float64:
		return eval.Number{V: t}
	case []interface{}:
		elems := make([]*eval.Thunk, len(t))
		for i, e := range t {
			elems[i] = eval.Ready(yamlToValue(ev, e))
		}
		return &eval.Array{Elems: elems}
	case yaml.MapSlice:
		names := make([]string, len(t))
		values := make([]eval.Value, len(t))
		for i, item := range t {
			names[i], _ = item.Key.(string)
			values[i] = yamlToValue(ev, item.Value)
		}
		return eval.NewStaticObject(ev.Interner, names, values)
	case map[string]interface{}:
		var names []string
		var values []eval.Value
		for k, val := range t {
			names = append(names, k)
			values = append(values, yamlToValue(ev, val))
		}
		return eval.NewStaticObject(ev.Interner, names, values)
	}
	return eval.Null{}
}
