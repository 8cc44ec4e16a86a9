package eval

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

// formatArgs adapts the two argument shapes std.format / `%` accept: a
// positional array, consumed left to right per code, or an object whose
// fields are looked up by mapping-key codes (`%(name)s`). `*` width/
// precision is only legal with the array form.
type formatArgs struct {
	positional []*Thunk
	byName     *Object
	next       int
}

// FormatString exposes the `%` operator's formatter to std.format.
func (ev *Evaluator) FormatString(pattern string, argsV Value, sp span.Span) (Value, *errors.EvalError) {
	return ev.formatString(pattern, argsV, sp)
}

func (ev *Evaluator) formatString(pattern string, argsV Value, sp span.Span) (Value, *errors.EvalError) {
	fa := &formatArgs{}
	switch a := argsV.(type) {
	case *Array:
		fa.positional = a.Elems
	case *Object:
		fa.byName = a
	default:
		fa.positional = []*Thunk{Ready(argsV)}
	}

	var out strings.Builder
	runes := []rune(pattern)
	i := 0
	for i < len(runes) {
		c := runes[i]
		if c != '%' {
			out.WriteRune(c)
			i++
			continue
		}
		i++
		if i >= len(runes) {
			return nil, &errors.EvalError{Kind: errors.Other, Span: sp, Message: "truncated format code"}
		}
		if runes[i] == '%' {
			out.WriteByte('%')
			i++
			continue
		}

		var mappingKey string
		hasKey := false
		if runes[i] == '(' {
			j := i + 1
			for j < len(runes) && runes[j] != ')' {
				j++
			}
			if j >= len(runes) {
				return nil, &errors.EvalError{Kind: errors.Other, Span: sp, Message: "unterminated mapping key"}
			}
			mappingKey = string(runes[i+1 : j])
			hasKey = true
			i = j + 1
		}

		flags := map[rune]bool{}
		for i < len(runes) && strings.ContainsRune("#0- +", runes[i]) {
			flags[runes[i]] = true
			i++
		}

		width, i2, err := ev.readFormatNum(runes, i, fa, sp)
		if err != nil {
			return nil, err
		}
		i = i2

		precision := -1
		if i < len(runes) && runes[i] == '.' {
			i++
			precision, i, err = ev.readFormatNum(runes, i, fa, sp)
			if err != nil {
				return nil, err
			}
		}

		for i < len(runes) && strings.ContainsRune("hlL", runes[i]) {
			i++
		}
		if i >= len(runes) {
			return nil, &errors.EvalError{Kind: errors.Other, Span: sp, Message: "missing conversion character"}
		}
		conv := runes[i]
		i++

		var argV Value
		if conv != '%' {
			if hasKey {
				if fa.byName == nil {
					return nil, &errors.EvalError{Kind: errors.Other, Span: sp, Message: "format string uses mapping key but args is not an object"}
				}
				th, ferr := FieldThunk(ev, fa.byName, 0, ev.Interner.Intern(mappingKey))
				if ferr != nil {
					return nil, ferr
				}
				argV, err = th.Force(ev)
				if err != nil {
					return nil, err
				}
			} else {
				argV, err = fa.take(ev, sp)
				if err != nil {
					return nil, err
				}
			}
		}

		piece, err := ev.formatOne(conv, argV, flags, width, precision, sp)
		if err != nil {
			return nil, err
		}
		out.WriteString(piece)
	}
	return Str{out.String()}, nil
}

func (fa *formatArgs) take(ev *Evaluator, sp span.Span) (Value, *errors.EvalError) {
	if fa.byName != nil {
		return nil, &errors.EvalError{Kind: errors.Other, Span: sp, Message: "not enough values in format args object"}
	}
	if fa.next >= len(fa.positional) {
		return nil, &errors.EvalError{Kind: errors.Other, Span: sp, Message: "not enough values to format"}
	}
	t := fa.positional[fa.next]
	fa.next++
	return t.Force(ev)
}

// readFormatNum reads an inline width/precision digit run, or consumes the
// next positional argument when the field is `*`.
func (ev *Evaluator) readFormatNum(runes []rune, i int, fa *formatArgs, sp span.Span) (int, int, *errors.EvalError) {
	if i < len(runes) && runes[i] == '*' {
		v, err := fa.take(ev, sp)
		if err != nil {
			return 0, 0, err
		}
		n, ok := v.(Number)
		if !ok {
			return 0, 0, &errors.EvalError{Kind: errors.Other, Span: sp, Message: "* field requires a number"}
		}
		return int(n.V), i + 1, nil
	}
	start := i
	for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
		i++
	}
	if i == start {
		return -1, i, nil
	}
	n, _ := strconv.Atoi(string(runes[start:i]))
	return n, i, nil
}

func pad(s string, width int, leftAlign, zeroPad bool) string {
	if len(s) >= width {
		return s
	}
	fill := " "
	if zeroPad && !leftAlign {
		fill = "0"
	}
	padding := strings.Repeat(fill, width-len(s))
	if leftAlign {
		return s + strings.Repeat(" ", width-len(s))
	}
	if fill == "0" && len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		return s[:1] + padding + s[1:]
	}
	return padding + s
}

func (ev *Evaluator) formatOne(conv rune, v Value, flags map[rune]bool, width, precision int, sp span.Span) (string, *errors.EvalError) {
	leftAlign := flags['-']
	zeroPad := flags['0']
	plus := flags['+']
	space := flags[' ']
	alt := flags['#']

	sign := func(neg bool) string {
		if neg {
			return "-"
		}
		if plus {
			return "+"
		}
		if space {
			return " "
		}
		return ""
	}

	switch conv {
	case 'd', 'i', 'u':
		n, ok := v.(Number)
		if !ok {
			return "", &errors.EvalError{Kind: errors.Other, Span: sp, Message: "%" + string(conv) + " requires a number"}
		}
		iv := int64(n.V)
		neg := iv < 0
		digits := strconv.FormatInt(iv, 10)
		if neg {
			digits = digits[1:]
		}
		if precision >= 0 {
			for len(digits) < precision {
				digits = "0" + digits
			}
		}
		s := sign(neg) + digits
		return pad(s, width, leftAlign, zeroPad && precision < 0), nil
	case 'o':
		n, ok := v.(Number)
		if !ok {
			return "", &errors.EvalError{Kind: errors.Other, Span: sp, Message: "%o requires a number"}
		}
		s := strconv.FormatInt(int64(n.V), 8)
		if alt && !strings.HasPrefix(s, "0") {
			s = "0" + s
		}
		return pad(s, width, leftAlign, zeroPad), nil
	case 'x', 'X':
		n, ok := v.(Number)
		if !ok {
			return "", &errors.EvalError{Kind: errors.Other, Span: sp, Message: "%" + string(conv) + " requires a number"}
		}
		s := strconv.FormatInt(int64(n.V), 16)
		if conv == 'X' {
			s = strings.ToUpper(s)
		}
		if alt {
			if conv == 'X' {
				s = "0X" + s
			} else {
				s = "0x" + s
			}
		}
		return pad(s, width, leftAlign, zeroPad), nil
	case 'e', 'E':
		n, ok := v.(Number)
		if !ok {
			return "", &errors.EvalError{Kind: errors.Other, Span: sp, Message: "%" + string(conv) + " requires a number"}
		}
		prec := precision
		if prec < 0 {
			prec = 6
		}
		s := fixExponentDigits(strconv.FormatFloat(n.V, byte(conv), prec, 64))
		if n.V >= 0 {
			s = sign(false) + s
		}
		return pad(s, width, leftAlign, zeroPad), nil
	case 'f', 'F':
		n, ok := v.(Number)
		if !ok {
			return "", &errors.EvalError{Kind: errors.Other, Span: sp, Message: "%" + string(conv) + " requires a number"}
		}
		prec := precision
		if prec < 0 {
			prec = 6
		}
		s := strconv.FormatFloat(n.V, 'f', prec, 64)
		if n.V >= 0 {
			s = sign(false) + s
		}
		return pad(s, width, leftAlign, zeroPad), nil
	case 'g', 'G':
		n, ok := v.(Number)
		if !ok {
			return "", &errors.EvalError{Kind: errors.Other, Span: sp, Message: "%" + string(conv) + " requires a number"}
		}
		prec := precision
		if prec < 0 {
			prec = 6
		}
		verb := byte('g')
		if conv == 'G' {
			verb = 'G'
		}
		s := strconv.FormatFloat(n.V, verb, prec, 64)
		return pad(s, width, leftAlign, zeroPad), nil
	case 'c':
		var s string
		switch t := v.(type) {
		case Number:
			s = string(rune(int64(t.V)))
		case Str:
			s = t.V
		default:
			return "", &errors.EvalError{Kind: errors.Other, Span: sp, Message: "%c requires a number or string"}
		}
		return pad(s, width, leftAlign, false), nil
	case 's':
		return pad(ev.ToDisplayString(v), width, leftAlign, false), nil
	}
	return "", &errors.EvalError{Kind: errors.Other, Span: sp, Message: "unknown format conversion %" + string(conv)}
}

func fixExponentDigits(s string) string {
	idx := strings.IndexAny(s, "eE")
	if idx < 0 {
		return s
	}
	mantissa, exp := s[:idx+1], s[idx+1:]
	sign := "+"
	if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
		sign = string(exp[0])
		exp = exp[1:]
	}
	for len(exp) < 2 {
		exp = "0" + exp
	}
	return mantissa + sign + exp
}

