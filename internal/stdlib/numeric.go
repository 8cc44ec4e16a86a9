package stdlib

import (
	"math"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// checkFiniteResult rejects a NaN or infinite math result, e.g.
// std.sqrt(-1) or std.log(-1), matching the finiteness invariant
// internal/eval's arithmetic operators enforce.
func checkFiniteResult(v float64) (eval.Value, *errors.EvalError) {
	if math.IsNaN(v) {
		return nil, &errors.EvalError{Kind: errors.NumberNan}
	}
	if math.IsInf(v, 0) {
		return nil, &errors.EvalError{Kind: errors.NumberOverflow}
	}
	return eval.Number{V: v}, nil
}

func unaryMath(name string, f func(float64) float64) eval.BuiltinFunc {
	return func(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
		n, err := argNum(ev, args, 0, name)
		if err != nil {
			return nil, err
		}
		return checkFiniteResult(f(n))
	}
}

func builtinPow(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argNum(ev, args, 0, "pow")
	if err != nil {
		return nil, err
	}
	b, err := argNum(ev, args, 1, "pow")
	if err != nil {
		return nil, err
	}
	return checkFiniteResult(math.Pow(a, b))
}

func builtinModulo(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argNum(ev, args, 0, "modulo")
	if err != nil {
		return nil, err
	}
	b, err := argNum(ev, args, 1, "modulo")
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, &errors.EvalError{Kind: errors.DivByZero, Message: "modulo by zero"}
	}
	return checkFiniteResult(a - math.Trunc(a/b)*b)
}

func builtinExponent(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	n, err := argNum(ev, args, 0, "exponent")
	if err != nil {
		return nil, err
	}
	_, exp := math.Frexp(n)
	return eval.Number{V: float64(exp)}, nil
}

func builtinMantissa(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	n, err := argNum(ev, args, 0, "mantissa")
	if err != nil {
		return nil, err
	}
	frac, _ := math.Frexp(n)
	return eval.Number{V: frac}, nil
}

func builtinCodepoint(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "codepoint")
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	if len(r) != 1 {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "codepoint requires a single-character string"}
	}
	return eval.Number{V: float64(r[0])}, nil
}

func builtinChar(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	n, err := argNum(ev, args, 0, "char")
	if err != nil {
		return nil, err
	}
	return eval.Str{V: string(rune(int64(n)))}, nil
}

func parseRadix(ev *eval.Evaluator, args []*eval.Thunk, fn string, base int) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, fn)
	if err != nil {
		return nil, err
	}
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var v int64
	for _, c := range s {
		d, ok := digitValue(c)
		if !ok || d >= base {
			return nil, &errors.EvalError{Kind: errors.Other, Message: fn + ": invalid digit in " + s}
		}
		v = v*int64(base) + int64(d)
	}
	if neg {
		v = -v
	}
	return eval.Number{V: float64(v)}, nil
}

func digitValue(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

func builtinParseInt(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	return parseRadix(ev, args, "parseInt", 10)
}

func builtinParseOctal(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	return parseRadix(ev, args, "parseOctal", 8)
}

func builtinParseHex(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	return parseRadix(ev, args, "parseHex", 16)
}
