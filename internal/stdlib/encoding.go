package stdlib

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

func builtinBase64(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	var b []byte
	switch t := v.(type) {
	case eval.Str:
		b = []byte(t.V)
	case *eval.Array:
		b = make([]byte, len(t.Elems))
		for i, th := range t.Elems {
			ev2, ferr := th.Force(ev)
			if ferr != nil {
				return nil, ferr
			}
			n, ok := ev2.(eval.Number)
			if !ok {
				return nil, badArgType("base64", 0, "array of byte numbers", ev2)
			}
			b[i] = byte(int64(n.V))
		}
	default:
		return nil, badArgType("base64", 0, "string or array", v)
	}
	return eval.Str{V: base64.StdEncoding.EncodeToString(b)}, nil
}

func builtinBase64DecodeBytes(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "base64DecodeBytes")
	if err != nil {
		return nil, err
	}
	b, derr := base64.StdEncoding.DecodeString(s)
	if derr != nil {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "base64DecodeBytes: " + derr.Error()}
	}
	elems := make([]*eval.Thunk, len(b))
	for i, by := range b {
		elems[i] = eval.Ready(eval.Number{V: float64(by)})
	}
	return &eval.Array{Elems: elems}, nil
}

func builtinBase64Decode(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "base64Decode")
	if err != nil {
		return nil, err
	}
	b, derr := base64.StdEncoding.DecodeString(s)
	if derr != nil {
		return nil, &errors.EvalError{Kind: errors.Other, Message: "base64Decode: " + derr.Error()}
	}
	return eval.Str{V: string(b)}, nil
}

func builtinMD5(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	s, err := argStr(ev, args, 0, "md5")
	if err != nil {
		return nil, err
	}
	sum := md5.Sum([]byte(s))
	return eval.Str{V: hex.EncodeToString(sum[:])}, nil
}
