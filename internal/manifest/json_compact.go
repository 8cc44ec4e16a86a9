package manifest

import (
	"strconv"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// ManifestJSONCompact renders v as single-line JSON by assembling the
// document with sjson.SetRaw one field/element at a time, rather than
// hand-formatting commas and braces a second time alongside the
// multiline writer in json.go.
func ManifestJSONCompact(ev *eval.Evaluator, v eval.Value) (string, *errors.EvalError) {
	return buildCompactJSON(ev, v)
}

func buildCompactJSON(ev *eval.Evaluator, v eval.Value) (string, *errors.EvalError) {
	switch t := v.(type) {
	case eval.Null:
		return "null", nil
	case eval.Bool:
		if t.V {
			return "true", nil
		}
		return "false", nil
	case eval.Number:
		return FormatNumber(t.V), nil
	case eval.Str:
		return strconv.Quote(t.V), nil
	case *eval.Array:
		if len(t.Elems) == 0 {
			return "[ ]", nil
		}
		doc := "[]"
		for _, e := range t.Elems {
			val, err := e.Force(ev)
			if err != nil {
				return "", err
			}
			raw, err := buildCompactJSON(ev, val)
			if err != nil {
				return "", err
			}
			next, serr := sjson.SetRaw(doc, "-1", raw)
			if serr != nil {
				return "", &errors.EvalError{Kind: errors.Other, Message: "manifestJson: " + serr.Error()}
			}
			doc = next
		}
		return doc, nil
	case *eval.Object:
		if err := t.EnsureAsserted(ev); err != nil {
			return "", err
		}
		names := t.FieldNames(false)
		if len(names) == 0 {
			return "{ }", nil
		}
		doc := "{}"
		for _, n := range names {
			fv, err := eval.FieldThunk(ev, t, 0, n)
			if err != nil {
				return "", err
			}
			val, err := fv.Force(ev)
			if err != nil {
				return "", err
			}
			raw, err := buildCompactJSON(ev, val)
			if err != nil {
				return "", err
			}
			key := sjsonPathEscape(ev.Interner.Text(n))
			next, serr := sjson.SetRaw(doc, key, raw)
			if serr != nil {
				return "", &errors.EvalError{Kind: errors.Other, Message: "manifestJson: " + serr.Error()}
			}
			doc = next
		}
		return doc, nil
	case *eval.Function:
		return "", &errors.EvalError{Kind: errors.ManifestFunction, Message: "cannot manifest a function value"}
	}
	return "null", nil
}

// sjsonPathEscape escapes the path metacharacters sjson/gjson give
// special meaning (`.` as a path separator, `*`/`?` as wildcards)
// so that arbitrary Jsonnet field names round-trip as literal keys.
func sjsonPathEscape(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
