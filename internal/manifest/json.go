// Package manifest renders evaluated Jsonnet values to the output
// formats the standard library's manifesters expose: JSON, YAML, TOML,
// INI, Python literal, and XML-JSONML. Each writer pushes its state
// (current indent, whether it's the first element) through a recursive
// descent over the value tree rather than building an intermediate
// document object, the same incremental-output shape spec §4.4.8
// describes.
package manifest

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// JSONOptions parameterizes the JSON writer (spec §4.4.8): an indent
// string, newline, and the key/item separators. CompactOptions and
// MultilineOptions are the two concrete presets std.manifestJsonEx's
// defaults and std.toString both need.
type JSONOptions struct {
	Indent      string
	Newline     string
	KeyValSep   string
	ItemSep     string
	EmptyArray  string
	EmptyObject string
}

func CompactOptions() JSONOptions {
	return JSONOptions{Indent: "", Newline: "", KeyValSep: ": ", ItemSep: ", ", EmptyArray: "[ ]", EmptyObject: "{ }"}
}

func MultilineOptions() JSONOptions {
	return JSONOptions{Indent: "   ", Newline: "\n", KeyValSep: ": ", ItemSep: ",", EmptyArray: "[ ]", EmptyObject: "{ }"}
}

func ManifestJSON(ev *eval.Evaluator, v eval.Value, opts JSONOptions) (string, *errors.EvalError) {
	var sb strings.Builder
	if err := writeJSON(ev, &sb, v, opts, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeJSON(ev *eval.Evaluator, sb *strings.Builder, v eval.Value, opts JSONOptions, depth int) *errors.EvalError {
	switch t := v.(type) {
	case eval.Null:
		sb.WriteString("null")
	case eval.Bool:
		if t.V {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case eval.Number:
		sb.WriteString(FormatNumber(t.V))
	case eval.Str:
		sb.WriteString(strconv.Quote(t.V))
	case *eval.Array:
		if len(t.Elems) == 0 {
			sb.WriteString(opts.EmptyArray)
			return nil
		}
		sb.WriteByte('[')
		sb.WriteString(opts.Newline)
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(opts.ItemSep)
				sb.WriteString(opts.Newline)
			}
			writeIndent(sb, opts, depth+1)
			val, err := e.Force(ev)
			if err != nil {
				return err
			}
			if err := writeJSON(ev, sb, val, opts, depth+1); err != nil {
				return err
			}
		}
		sb.WriteString(opts.Newline)
		writeIndent(sb, opts, depth)
		sb.WriteByte(']')
	case *eval.Object:
		names := t.FieldNames(false)
		if err := t.EnsureAsserted(ev); err != nil {
			return err
		}
		if len(names) == 0 {
			sb.WriteString(opts.EmptyObject)
			return nil
		}
		sb.WriteByte('{')
		sb.WriteString(opts.Newline)
		for i, n := range names {
			if i > 0 {
				sb.WriteString(opts.ItemSep)
				sb.WriteString(opts.Newline)
			}
			writeIndent(sb, opts, depth+1)
			sb.WriteString(strconv.Quote(ev.Interner.Text(n)))
			sb.WriteString(opts.KeyValSep)
			fv, err := eval.FieldThunk(ev, t, 0, n)
			if err != nil {
				return err
			}
			val, err := fv.Force(ev)
			if err != nil {
				return err
			}
			if err := writeJSON(ev, sb, val, opts, depth+1); err != nil {
				return err
			}
		}
		sb.WriteString(opts.Newline)
		writeIndent(sb, opts, depth)
		sb.WriteByte('}')
	case *eval.Function:
		return &errors.EvalError{Kind: errors.ManifestFunction, Message: "cannot manifest a function value"}
	}
	return nil
}

func writeIndent(sb *strings.Builder, opts JSONOptions, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString(opts.Indent)
	}
}

func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
