package manifest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// YAMLOptions mirrors std.manifestYamlDoc's parameters (spec §4.4.8).
type YAMLOptions struct {
	IndentArrayInObject bool
	QuoteKeys           bool
}

var plainScalarRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_./-]*$`)
var yamlReservedWords = map[string]bool{
	"": true, "~": true, "null": true, "Null": true, "NULL": true,
	"true": true, "True": true, "TRUE": true,
	"false": true, "False": true, "FALSE": true,
	"yes": true, "Yes": true, "YES": true, "no": true, "No": true, "NO": true,
}

// yamlNeedsQuote decides whether s can appear as a plain (unquoted)
// scalar: it must match the conservative "safe identifier" shape and
// must not collide with a reserved word or look like a number.
func yamlNeedsQuote(s string) bool {
	if s == "" || yamlReservedWords[s] {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return !plainScalarRe.MatchString(s)
}

func yamlScalarString(s string) string {
	if !strings.Contains(s, "\n") {
		if yamlNeedsQuote(s) {
			return strconv.Quote(s)
		}
		return s
	}
	// Multi-line strings render as a block literal; every content line
	// is indented two spaces under the `|` header. A trailing newline is
	// implied by `|`, so a string without one needs the `|-` chomp form.
	lines := strings.Split(s, "\n")
	header := "|"
	if lines[len(lines)-1] != "" {
		header = "|-"
	} else {
		lines = lines[:len(lines)-1]
	}
	var sb strings.Builder
	sb.WriteString(header)
	for _, l := range lines {
		sb.WriteByte('\n')
		sb.WriteString("  ")
		sb.WriteString(l)
	}
	return sb.String()
}

func ManifestYAMLDoc(ev *eval.Evaluator, v eval.Value, opts YAMLOptions) (string, *errors.EvalError) {
	var sb strings.Builder
	if err := writeYAML(ev, &sb, v, opts, 0, false); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// ManifestYAMLStream renders one document per array element with `---`
// separators, optionally ending with `...` (spec §4.4.8's
// c_document_end flag).
func ManifestYAMLStream(ev *eval.Evaluator, v eval.Value, opts YAMLOptions, docEnd bool) (string, *errors.EvalError) {
	arr, ok := v.(*eval.Array)
	if !ok {
		return "", &errors.EvalError{Kind: errors.Other, Message: "manifestYamlStream requires an array of documents"}
	}
	var sb strings.Builder
	for _, e := range arr.Elems {
		val, err := e.Force(ev)
		if err != nil {
			return "", err
		}
		doc, err := ManifestYAMLDoc(ev, val, opts)
		if err != nil {
			return "", err
		}
		sb.WriteString("---\n")
		sb.WriteString(doc)
		sb.WriteString("\n")
	}
	if docEnd {
		sb.WriteString("...\n")
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func indentStr(depth int) string { return strings.Repeat("  ", depth) }

// writeYAML renders block-style YAML. inline marks a position that is
// already at the start of a line contributed by a parent sequence/
// mapping entry (so the first line shouldn't repeat an indent prefix).
func writeYAML(ev *eval.Evaluator, sb *strings.Builder, v eval.Value, opts YAMLOptions, depth int, inline bool) *errors.EvalError {
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
		sb.WriteString(yamlScalarString(t.V))
	case *eval.Array:
		if len(t.Elems) == 0 {
			sb.WriteString("[]")
			return nil
		}
		arrDepth := depth
		if !opts.IndentArrayInObject && inline {
			arrDepth = depth - 1
		}
		for i, e := range t.Elems {
			if i > 0 || !inline {
				sb.WriteByte('\n')
				sb.WriteString(indentStr(arrDepth))
			}
			sb.WriteString("- ")
			val, err := e.Force(ev)
			if err != nil {
				return err
			}
			if err := writeYAML(ev, sb, val, opts, arrDepth+1, true); err != nil {
				return err
			}
		}
	case *eval.Object:
		if err := t.EnsureAsserted(ev); err != nil {
			return err
		}
		names := t.FieldNames(false)
		if len(names) == 0 {
			sb.WriteString("{}")
			return nil
		}
		for i, n := range names {
			if i > 0 || !inline {
				sb.WriteByte('\n')
				sb.WriteString(indentStr(depth))
			}
			key := ev.Interner.Text(n)
			if opts.QuoteKeys || yamlNeedsQuote(key) {
				sb.WriteString(strconv.Quote(key))
			} else {
				sb.WriteString(key)
			}
			sb.WriteString(":")
			fv, err := eval.FieldThunk(ev, t, 0, n)
			if err != nil {
				return err
			}
			val, err := fv.Force(ev)
			if err != nil {
				return err
			}
			if isScalarOrEmpty(val) {
				sb.WriteByte(' ')
				if err := writeYAML(ev, sb, val, opts, depth+1, false); err != nil {
					return err
				}
			} else {
				if err := writeYAML(ev, sb, val, opts, depth+1, false); err != nil {
					return err
				}
			}
		}
	case *eval.Function:
		return &errors.EvalError{Kind: errors.ManifestFunction, Message: "cannot manifest a function value"}
	}
	return nil
}

func isScalarOrEmpty(v eval.Value) bool {
	switch t := v.(type) {
	case *eval.Array:
		return len(t.Elems) == 0
	case *eval.Object:
		return len(t.FieldNames(false)) == 0
	default:
		return true
	}
}
