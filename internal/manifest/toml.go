package manifest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

var tomlBareKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func tomlKey(s string) string {
	if tomlBareKeyRe.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}

// ManifestTOML separates each object's scalar fields (emitted inline
// under the current table header) from its "sub-table" fields — nested
// objects and non-empty arrays of objects — which are emitted afterward
// as `[path]` / `[[path]]` sections (spec §4.4.8).
func ManifestTOML(ev *eval.Evaluator, v eval.Value) (string, *errors.EvalError) {
	root, ok := v.(*eval.Object)
	if !ok {
		return "", &errors.EvalError{Kind: errors.Other, Message: "manifestToml requires a top-level object"}
	}
	var sb strings.Builder
	if err := writeTOMLTable(ev, &sb, root, nil); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func writeTOMLTable(ev *eval.Evaluator, sb *strings.Builder, obj *eval.Object, path []string) *errors.EvalError {
	if err := obj.EnsureAsserted(ev); err != nil {
		return err
	}
	names := obj.FieldNames(false)
	var subtables []string
	for _, n := range names {
		key := ev.Interner.Text(n)
		fv, err := eval.FieldThunk(ev, obj, 0, n)
		if err != nil {
			return err
		}
		val, err := fv.Force(ev)
		if err != nil {
			return err
		}
		isSub, serr := isTOMLSubtable(ev, val)
		if serr != nil {
			return serr
		}
		if isSub {
			subtables = append(subtables, key)
			continue
		}
		s, err := tomlScalarOrArray(ev, val)
		if err != nil {
			return err
		}
		sb.WriteString(tomlKey(key))
		sb.WriteString(" = ")
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	for _, key := range subtables {
		n := ev.Interner.Intern(key)
		fv, err := eval.FieldThunk(ev, obj, 0, n)
		if err != nil {
			return err
		}
		val, err := fv.Force(ev)
		if err != nil {
			return err
		}
		childPath := append(append([]string{}, path...), key)
		switch t := val.(type) {
		case *eval.Object:
			sb.WriteByte('\n')
			sb.WriteString("[" + strings.Join(childPath, ".") + "]\n")
			if err := writeTOMLTable(ev, sb, t, childPath); err != nil {
				return err
			}
		case *eval.Array:
			for _, e := range t.Elems {
				elemV, err := e.Force(ev)
				if err != nil {
					return err
				}
				elemObj, ok := elemV.(*eval.Object)
				if !ok {
					continue
				}
				sb.WriteByte('\n')
				sb.WriteString("[[" + strings.Join(childPath, ".") + "]]\n")
				if err := writeTOMLTable(ev, sb, elemObj, childPath); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// isTOMLSubtable reports whether v must be deferred to a `[path]` /
// `[[path]]` section rather than written inline: an object, or a
// non-empty array whose every element is an object.
func isTOMLSubtable(ev *eval.Evaluator, v eval.Value) (bool, *errors.EvalError) {
	switch t := v.(type) {
	case *eval.Object:
		return true, nil
	case *eval.Array:
		if len(t.Elems) == 0 {
			return false, nil
		}
		for _, e := range t.Elems {
			elemV, err := e.Force(ev)
			if err != nil {
				return false, err
			}
			if _, ok := elemV.(*eval.Object); !ok {
				return false, nil
			}
		}
		return true, nil
	}
	return false, nil
}

func tomlScalarOrArray(ev *eval.Evaluator, v eval.Value) (string, *errors.EvalError) {
	switch t := v.(type) {
	case eval.Null:
		return "", &errors.EvalError{Kind: errors.Other, Message: "TOML cannot represent null"}
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
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			val, err := e.Force(ev)
			if err != nil {
				return "", err
			}
			s, err := tomlScalarOrArray(ev, val)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		sb.WriteByte(']')
		return sb.String(), nil
	case *eval.Function:
		return "", &errors.EvalError{Kind: errors.ManifestFunction, Message: "cannot manifest a function value"}
	}
	return "", &errors.EvalError{Kind: errors.Other, Message: "unsupported TOML value"}
}
