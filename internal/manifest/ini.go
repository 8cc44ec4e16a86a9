package manifest

import (
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// ManifestINI renders the two-level shape spec §4.4.8 describes: the
// outer object's fields are section names, each section is itself an
// object whose fields become `key = value` lines, and array-valued
// fields expand to one repeated `key = value` line per element.
func ManifestINI(ev *eval.Evaluator, v eval.Value) (string, *errors.EvalError) {
	root, ok := v.(*eval.Object)
	if !ok {
		return "", &errors.EvalError{Kind: errors.Other, Message: "manifestIni requires a top-level object"}
	}
	if err := root.EnsureAsserted(ev); err != nil {
		return "", err
	}
	var sb strings.Builder
	sectionNames := root.FieldNames(false)
	for i, sn := range sectionNames {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("[" + ev.Interner.Text(sn) + "]\n")
		sft, err := eval.FieldThunk(ev, root, 0, sn)
		if err != nil {
			return "", err
		}
		sv, err := sft.Force(ev)
		if err != nil {
			return "", err
		}
		section, ok := sv.(*eval.Object)
		if !ok {
			return "", &errors.EvalError{Kind: errors.Other, Message: "manifestIni: section " + ev.Interner.Text(sn) + " must be an object"}
		}
		if err := section.EnsureAsserted(ev); err != nil {
			return "", err
		}
		for _, fn := range section.FieldNames(false) {
			ft, err := eval.FieldThunk(ev, section, 0, fn)
			if err != nil {
				return "", err
			}
			fv, err := ft.Force(ev)
			if err != nil {
				return "", err
			}
			key := ev.Interner.Text(fn)
			if arr, ok := fv.(*eval.Array); ok {
				for _, e := range arr.Elems {
					elemV, err := e.Force(ev)
					if err != nil {
						return "", err
					}
					sb.WriteString(key + " = " + ev.ToDisplayString(elemV) + "\n")
				}
				continue
			}
			sb.WriteString(key + " = " + ev.ToDisplayString(fv) + "\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}
