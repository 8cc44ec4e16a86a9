package manifest

import (
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// ManifestXMLJsonml renders a JSONML array — `[tagName, {attr: val,...}?,
// child, child, ...]`, where a child is either a JSONML array or a
// string text node — into an XML element tree. This is the
// original implementation's std.manifestXmlJsonml, supplemented here
// because the distilled spec's manifester list dropped it.
func ManifestXMLJsonml(ev *eval.Evaluator, v eval.Value) (string, *errors.EvalError) {
	var sb strings.Builder
	if err := writeXMLJsonml(ev, &sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeXMLJsonml(ev *eval.Evaluator, sb *strings.Builder, v eval.Value) *errors.EvalError {
	if s, ok := v.(eval.Str); ok {
		sb.WriteString(escapeXMLText(s.V))
		return nil
	}
	arr, ok := v.(*eval.Array)
	if !ok || len(arr.Elems) == 0 {
		return &errors.EvalError{Kind: errors.Other, Message: "manifestXmlJsonml: node must be a string or a non-empty array"}
	}
	tagV, err := arr.Elems[0].Force(ev)
	if err != nil {
		return err
	}
	tag, ok := tagV.(eval.Str)
	if !ok {
		return &errors.EvalError{Kind: errors.Other, Message: "manifestXmlJsonml: tag name must be a string"}
	}

	rest := arr.Elems[1:]
	var attrs *eval.Object
	if len(rest) > 0 {
		first, err := rest[0].Force(ev)
		if err != nil {
			return err
		}
		if obj, ok := first.(*eval.Object); ok {
			attrs = obj
			rest = rest[1:]
		}
	}

	sb.WriteByte('<')
	sb.WriteString(tag.V)
	if attrs != nil {
		if err := attrs.EnsureAsserted(ev); err != nil {
			return err
		}
		for _, n := range attrs.FieldNames(false) {
			ft, err := eval.FieldThunk(ev, attrs, 0, n)
			if err != nil {
				return err
			}
			fv, err := ft.Force(ev)
			if err != nil {
				return err
			}
			sb.WriteByte(' ')
			sb.WriteString(ev.Interner.Text(n))
			sb.WriteString(`="`)
			sb.WriteString(escapeXMLAttr(ev.ToDisplayString(fv)))
			sb.WriteByte('"')
		}
	}
	if len(rest) == 0 {
		sb.WriteString("/>")
		return nil
	}
	sb.WriteByte('>')
	for _, child := range rest {
		cv, err := child.Force(ev)
		if err != nil {
			return err
		}
		if err := writeXMLJsonml(ev, sb, cv); err != nil {
			return err
		}
	}
	sb.WriteString("</")
	sb.WriteString(tag.V)
	sb.WriteByte('>')
	return nil
}

func escapeXMLText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeXMLAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
