package eval

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/span"
)

// ToDisplayString is the to-string coercion used by `+`'s string overload
// and by error/assert messages (spec §4.4.5): strings pass through
// unquoted, everything else renders as compact JSON. The full
// manifesters in internal/manifest share this shape but additionally
// reject function values with ManifestFunction; this helper never fails
// and writes the placeholder "<function>" for a function value instead,
// so `"a" + function(x) x` yields "a<function>".
func (ev *Evaluator) ToDisplayString(v Value) string {
	if s, ok := v.(Str); ok {
		return s.V
	}
	var sb strings.Builder
	ev.writeJSON(&sb, v)
	return sb.String()
}

func (ev *Evaluator) writeJSON(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case Null:
		sb.WriteString("null")
	case Bool:
		if t.V {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Number:
		sb.WriteString(formatNumber(t.V))
	case Str:
		sb.WriteString(strconv.Quote(t.V))
	case *Array:
		sb.WriteByte('[')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			ev2, err := e.Force(ev)
			if err != nil {
				sb.WriteString("null")
				continue
			}
			ev.writeJSON(sb, ev2)
		}
		sb.WriteByte(']')
	case *Object:
		sb.WriteByte('{')
		names := t.FieldNames(false)
		for i, n := range names {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(ev.Interner.Text(n)))
			sb.WriteString(": ")
			fv, err := ev.readField(t, 0, n, span.Span{})
			if err != nil {
				sb.WriteString("null")
				continue
			}
			ev.writeJSON(sb, fv)
		}
		sb.WriteByte('}')
	case *Function:
		sb.WriteString("<function>")
	}
}

// formatNumber matches Jsonnet's number-to-string rule: integral values
// print without a fractional part, others use the shortest round-trip
// decimal form.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
