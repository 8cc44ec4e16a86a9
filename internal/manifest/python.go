package manifest

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// ManifestPython reuses JSON's escaping (Python and JSON string escapes
// agree on the characters Jsonnet strings can contain) but renders the
// three literals Python spells differently and always double-quotes.
func ManifestPython(ev *eval.Evaluator, v eval.Value) (string, *errors.EvalError) {
	var sb strings.Builder
	if err := writePython(ev, &sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writePython(ev *eval.Evaluator, sb *strings.Builder, v eval.Value) *errors.EvalError {
	switch t := v.(type) {
	case eval.Null:
		sb.WriteString("None")
	case eval.Bool:
		if t.V {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case eval.Number:
		sb.WriteString(FormatNumber(t.V))
	case eval.Str:
		sb.WriteString(strconv.Quote(t.V))
	case *eval.Array:
		sb.WriteByte('[')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			val, err := e.Force(ev)
			if err != nil {
				return err
			}
			if err := writePython(ev, sb, val); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case *eval.Object:
		if err := t.EnsureAsserted(ev); err != nil {
			return err
		}
		names := t.FieldNames(false)
		sb.WriteByte('{')
		for i, n := range names {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(ev.Interner.Text(n)))
			sb.WriteString(": ")
			fv, err := eval.FieldThunk(ev, t, 0, n)
			if err != nil {
				return err
			}
			val, err := fv.Force(ev)
			if err != nil {
				return err
			}
			if err := writePython(ev, sb, val); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	case *eval.Function:
		return &errors.EvalError{Kind: errors.ManifestFunction, Message: "cannot manifest a function value"}
	}
	return nil
}
