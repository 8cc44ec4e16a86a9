package eval

import (
	"math"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/ir"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

func (ev *Evaluator) evalBinary(n *ir.Binary, env *Env) (Value, *errors.EvalError) {
	// && and || short-circuit, so the right side is evaluated lazily.
	if n.Op == ir.BopAnd || n.Op == ir.BopOr {
		l, err := ev.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		lb, ok := l.(Bool)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: n.Sp}
		}
		if n.Op == ir.BopAnd && !lb.V {
			return Bool{false}, nil
		}
		if n.Op == ir.BopOr && lb.V {
			return Bool{true}, nil
		}
		r, err := ev.Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := r.(Bool)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: n.Sp}
		}
		return rb, nil
	}

	l, err := ev.Eval(n.Left, env)
	if err != nil {
		return nil, err
	}

	if n.Op == ir.BopIn {
		rv, err := ev.Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		str, ok := l.(Str)
		obj, okObj := rv.(*Object)
		if !ok || !okObj {
			return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: n.Sp}
		}
		return Bool{obj.HasField(ev.Interner.Intern(str.V), true)}, nil
	}

	r, err := ev.Eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ir.BopAdd:
		v, e := ev.Add(l, r)
		if e != nil {
			e.Span = n.Sp
		}
		return v, e
	case ir.BopMod:
		if lv, ok := l.(Str); ok {
			return ev.formatString(lv.V, r, n.Sp)
		}
		return ev.arith(n.Op, l, r, n.Sp)
	case ir.BopSub, ir.BopMul, ir.BopDiv:
		return ev.arith(n.Op, l, r, n.Sp)
	case ir.BopShl, ir.BopShr, ir.BopBitAnd, ir.BopBitXor, ir.BopBitOr:
		return ev.bitwise(n.Op, l, r, n.Sp)
	case ir.BopEq:
		eq, e := ev.Equals(l, r, n.Sp)
		if e != nil {
			return nil, e
		}
		return Bool{eq}, nil
	case ir.BopNe:
		eq, e := ev.Equals(l, r, n.Sp)
		if e != nil {
			return nil, e
		}
		return Bool{!eq}, nil
	case ir.BopLt, ir.BopLe, ir.BopGt, ir.BopGe:
		return ev.compareOp(n.Op, l, r, n.Sp)
	}
	return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: n.Sp}
}

func (ev *Evaluator) evalUnary(n *ir.Unary, env *Env) (Value, *errors.EvalError) {
	v, err := ev.Eval(n.Expr, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ir.UopNot:
		b, ok := v.(Bool)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.InvalidUnaryOpType, Span: n.Sp}
		}
		return Bool{!b.V}, nil
	case ir.UopPlus:
		num, ok := v.(Number)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.InvalidUnaryOpType, Span: n.Sp}
		}
		return num, nil
	case ir.UopMinus:
		num, ok := v.(Number)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.InvalidUnaryOpType, Span: n.Sp}
		}
		return Number{-num.V}, nil
	case ir.UopBitNot:
		num, ok := v.(Number)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.InvalidUnaryOpType, Span: n.Sp}
		}
		return Number{float64(^int64(num.V))}, nil
	}
	return nil, &errors.EvalError{Kind: errors.InvalidUnaryOpType, Span: n.Sp}
}

// Add implements the overloaded `+` of spec §4.4.5: numeric addition,
// string/array concatenation, object composition, and string coercion
// when exactly one side is a string.
func (ev *Evaluator) Add(l, r Value) (Value, *errors.EvalError) {
	switch lv := l.(type) {
	case Number:
		if rv, ok := r.(Number); ok {
			return checkFinite(lv.V+rv.V, span.Span{})
		}
	case Str:
		return Str{lv.V + ev.ToDisplayString(r)}, nil
	case *Array:
		if rv, ok := r.(*Array); ok {
			elems := make([]*Thunk, 0, len(lv.Elems)+len(rv.Elems))
			elems = append(elems, lv.Elems...)
			elems = append(elems, rv.Elems...)
			return &Array{Elems: elems}, nil
		}
	case *Object:
		if rv, ok := r.(*Object); ok {
			return Compose(lv, rv), nil
		}
	}
	if _, ok := r.(Str); ok {
		return Str{ev.ToDisplayString(l) + r.(Str).V}, nil
	}
	return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes}
}

func (ev *Evaluator) arith(op ir.BinaryOp, l, r Value, sp span.Span) (Value, *errors.EvalError) {
	ln, ok1 := l.(Number)
	rn, ok2 := r.(Number)
	if !ok1 || !ok2 {
		return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: sp}
	}
	switch op {
	case ir.BopSub:
		return checkFinite(ln.V-rn.V, sp)
	case ir.BopMul:
		return checkFinite(ln.V*rn.V, sp)
	case ir.BopDiv:
		if rn.V == 0 {
			return nil, &errors.EvalError{Kind: errors.DivByZero, Span: sp}
		}
		return checkFinite(ln.V/rn.V, sp)
	case ir.BopMod:
		if rn.V == 0 {
			return nil, &errors.EvalError{Kind: errors.DivByZero, Span: sp}
		}
		return checkFinite(ln.V-math.Trunc(ln.V/rn.V)*rn.V, sp)
	}
	return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: sp}
}

// checkFinite enforces the invariant that a Number is never NaN or
// infinite (spec §3): any arithmetic result that would violate it fails
// with NumberNan or NumberOverflow instead of silently carrying the
// non-finite float forward to manifestation.
func checkFinite(v float64, sp span.Span) (Value, *errors.EvalError) {
	if math.IsNaN(v) {
		return nil, &errors.EvalError{Kind: errors.NumberNan, Span: sp}
	}
	if math.IsInf(v, 0) {
		return nil, &errors.EvalError{Kind: errors.NumberOverflow, Span: sp}
	}
	return Number{v}, nil
}

func (ev *Evaluator) bitwise(op ir.BinaryOp, l, r Value, sp span.Span) (Value, *errors.EvalError) {
	ln, ok1 := l.(Number)
	rn, ok2 := r.(Number)
	if !ok1 || !ok2 {
		return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: sp}
	}
	li, ri := int64(ln.V), int64(rn.V)
	switch op {
	case ir.BopShl:
		if ri < 0 {
			return nil, &errors.EvalError{Kind: errors.ShiftByNegative, Span: sp}
		}
		return Number{float64(li << (uint64(ri) % 64))}, nil
	case ir.BopShr:
		if ri < 0 {
			return nil, &errors.EvalError{Kind: errors.ShiftByNegative, Span: sp}
		}
		return Number{float64(li >> (uint64(ri) % 64))}, nil
	case ir.BopBitAnd:
		return Number{float64(li & ri)}, nil
	case ir.BopBitXor:
		return Number{float64(li ^ ri)}, nil
	case ir.BopBitOr:
		return Number{float64(li | ri)}, nil
	}
	return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: sp}
}
