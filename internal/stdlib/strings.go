package stdlib

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

func builtinSubstr(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "substr")
	if err != nil {
		return nil, err
	}
	from, err := argNum(ev, args, 1, "substr")
	if err != nil {
		return nil, err
	}
	length, err := argNum(ev, args, 2, "substr")
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	start := clampIdx(int(from), len(r))
	end := clampIdx(int(from)+int(length), len(r))
	if end < start {
		end = start
	}
	return eval.Str{V: string(r[start:end])}, nil
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func builtinFindSubstr(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	pat, err := argStr(ev, args, 0, "findSubstr")
	if err != nil {
		return nil, err
	}
	str, err := argStr(ev, args, 1, "findSubstr")
	if err != nil {
		return nil, err
	}
	if pat == "" {
		return &eval.Array{}, nil
	}
	r := []rune(str)
	p := []rune(pat)
	var out []*eval.Thunk
	for i := 0; i+len(p) <= len(r); i++ {
		if string(r[i:i+len(p)]) == pat {
			out = append(out, eval.Ready(eval.Number{V: float64(i)}))
		}
	}
	return &eval.Array{Elems: out}, nil
}

func builtinStartsWith(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argStr(ev, args, 0, "startsWith")
	if err != nil {
		return nil, err
	}
	b, err := argStr(ev, args, 1, "startsWith")
	if err != nil {
		return nil, err
	}
	return eval.Bool{V: strings.HasPrefix(a, b)}, nil
}

func builtinEndsWith(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argStr(ev, args, 0, "endsWith")
	if err != nil {
		return nil, err
	}
	b, err := argStr(ev, args, 1, "endsWith")
	if err != nil {
		return nil, err
	}
	return eval.Bool{V: strings.HasSuffix(a, b)}, nil
}

func strArray(parts []string) *eval.Array {
	elems := make([]*eval.Thunk, len(parts))
	for i, p := range parts {
		elems[i] = eval.Ready(eval.Str{V: p})
	}
	return &eval.Array{Elems: elems}
}

func builtinSplit(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "split")
	if err != nil {
		return nil, err
	}
	c, err := argStr(ev, args, 1, "split")
	if err != nil {
		return nil, err
	}
	return strArray(strings.Split(s, c)), nil
}

func builtinSplitLimit(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "splitLimit")
	if err != nil {
		return nil, err
	}
	c, err := argStr(ev, args, 1, "splitLimit")
	if err != nil {
		return nil, err
	}
	n, err := argNum(ev, args, 2, "splitLimit")
	if err != nil {
		return nil, err
	}
	lim := int(n)
	if lim < 0 {
		return strArray(strings.Split(s, c)), nil
	}
	return strArray(strings.SplitN(s, c, lim+1)), nil
}

func builtinSplitLimitR(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "splitLimitR")
	if err != nil {
		return nil, err
	}
	c, err := argStr(ev, args, 1, "splitLimitR")
	if err != nil {
		return nil, err
	}
	n, err := argNum(ev, args, 2, "splitLimitR")
	if err != nil {
		return nil, err
	}
	lim := int(n)
	if lim < 0 {
		return strArray(strings.Split(s, c)), nil
	}
	parts := strings.Split(s, c)
	if len(parts) <= lim+1 {
		return strArray(parts), nil
	}
	head := parts[:len(parts)-lim]
	tail := parts[len(parts)-lim:]
	merged := append([]string{strings.Join(head, c)}, tail...)
	return strArray(merged), nil
}

func builtinStrReplace(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "strReplace")
	if err != nil {
		return nil, err
	}
	from, err := argStr(ev, args, 1, "strReplace")
	if err != nil {
		return nil, err
	}
	to, err := argStr(ev, args, 2, "strReplace")
	if err != nil {
		return nil, err
	}
	if from == "" {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "strReplace: 'from' must not be empty"}
	}
	return eval.Str{V: strings.ReplaceAll(s, from, to)}, nil
}

func builtinAsciiUpper(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "asciiUpper")
	if err != nil {
		return nil, err
	}
	return eval.Str{V: strings.ToUpper(s)}, nil
}

func builtinAsciiLower(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "asciiLower")
	if err != nil {
		return nil, err
	}
	return eval.Str{V: strings.ToLower(s)}, nil
}

// builtinEqualsIgnoreCase supplements std's comparison helpers the way
// the original implementation's case-folding utilities do; not part of
// Jsonnet's documented native set, exposed so std.jsonnet can build a
// case-insensitive sort/compare on top of it.
func builtinEqualsIgnoreCase(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argStr(ev, args, 0, "equalsIgnoreCase")
	if err != nil {
		return nil, err
	}
	b, err := argStr(ev, args, 1, "equalsIgnoreCase")
	if err != nil {
		return nil, err
	}
	return eval.Bool{V: strings.EqualFold(a, b)}, nil
}

func builtinStringChars(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "stringChars")
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = string(c)
	}
	return strArray(out), nil
}

func builtinEscapeStringJSON(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "escapeStringJson")
	if err != nil {
		return nil, err
	}
	return eval.Str{V: strconv.Quote(s)}, nil
}

func builtinEscapeStringBash(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "escapeStringBash")
	if err != nil {
		return nil, err
	}
	return eval.Str{V: "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"}, nil
}

func builtinEscapeStringDollars(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "escapeStringDollars")
	if err != nil {
		return nil, err
	}
	return eval.Str{V: strings.ReplaceAll(s, "$", "$$")}, nil
}

func builtinEscapeStringXML(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "escapeStringXml")
	if err != nil {
		return nil, err
	}
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return eval.Str{V: replacer.Replace(s)}, nil
}

func builtinEncodeUTF8(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "encodeUTF8")
	if err != nil {
		return nil, err
	}
	b := []byte(s)
	elems := make([]*eval.Thunk, len(b))
	for i, by := range b {
		elems[i] = eval.Ready(eval.Number{V: float64(by)})
	}
	return &eval.Array{Elems: elems}, nil
}

func builtinDecodeUTF8(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argArr(ev, args, 0, "decodeUTF8")
	if err != nil {
		return nil, err
	}
	b := make([]byte, len(a.Elems))
	for i, t := range a.Elems {
		v, err := t.Force(ev)
		if err != nil {
			return nil, err
		}
		n, ok := v.(eval.Number)
		if !ok {
			return nil, badArgType("decodeUTF8", 0, "array of byte numbers", v)
		}
		b[i] = byte(int64(n.V))
	}
	if !utf8.Valid(b) {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "decodeUTF8: invalid UTF-8 byte sequence"}
	}
	return eval.Str{V: string(b)}, nil
}
