package eval

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/ir"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

// ordering mirrors Go's three-way comparison convention.
type ordering int

const (
	lt ordering = -1
	eq ordering = 0
	gt ordering = 1
)

// Compare implements the total order on Number/String/Array required by
// `< <= > >=` (spec §4.4.5): null, bool, object and function comparisons
// fail with a specific error variant, and heterogeneous comparisons fail
// too except where explicitly allowed (there are none for ordering).
func (ev *Evaluator) Compare(l, r Value, sp span.Span) (ordering, *errors.EvalError) {
	switch lv := l.(type) {
	case Number:
		rv, ok := r.(Number)
		if !ok {
			return eq, &errors.EvalError{Kind: errors.CompareDifferentTypesInequality, Span: sp}
		}
		switch {
		case lv.V < rv.V:
			return lt, nil
		case lv.V > rv.V:
			return gt, nil
		default:
			return eq, nil
		}
	case Str:
		rv, ok := r.(Str)
		if !ok {
			return eq, &errors.EvalError{Kind: errors.CompareDifferentTypesInequality, Span: sp}
		}
		switch {
		case lv.V < rv.V:
			return lt, nil
		case lv.V > rv.V:
			return gt, nil
		default:
			return eq, nil
		}
	case *Array:
		rv, ok := r.(*Array)
		if !ok {
			return eq, &errors.EvalError{Kind: errors.CompareDifferentTypesInequality, Span: sp}
		}
		n := len(lv.Elems)
		if len(rv.Elems) < n {
			n = len(rv.Elems)
		}
		for i := 0; i < n; i++ {
			lev, err := lv.Elems[i].Force(ev)
			if err != nil {
				return eq, err
			}
			rev, err := rv.Elems[i].Force(ev)
			if err != nil {
				return eq, err
			}
			c, err := ev.Compare(lev, rev, sp)
			if err != nil {
				return eq, err
			}
			if c != eq {
				return c, nil
			}
		}
		switch {
		case len(lv.Elems) < len(rv.Elems):
			return lt, nil
		case len(lv.Elems) > len(rv.Elems):
			return gt, nil
		default:
			return eq, nil
		}
	case Null:
		return eq, &errors.EvalError{Kind: errors.CompareNullInequality, Span: sp}
	case Bool:
		return eq, &errors.EvalError{Kind: errors.CompareBooleanInequality, Span: sp}
	case *Object:
		return eq, &errors.EvalError{Kind: errors.CompareObjectInequality, Span: sp}
	case *Function:
		return eq, &errors.EvalError{Kind: errors.CompareFunctions, Span: sp}
	}
	return eq, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: sp}
}

func (ev *Evaluator) compareOp(op ir.BinaryOp, l, r Value, sp span.Span) (Value, *errors.EvalError) {
	c, err := ev.Compare(l, r, sp)
	if err != nil {
		return nil, err
	}
	switch op {
	case ir.BopLt:
		return Bool{c == lt}, nil
	case ir.BopLe:
		return Bool{c != gt}, nil
	case ir.BopGt:
		return Bool{c == gt}, nil
	case ir.BopGe:
		return Bool{c != lt}, nil
	}
	return nil, &errors.EvalError{Kind: errors.InvalidBinaryOpTypes, Span: sp}
}

// Equals is structural equality (spec §4.4.5): mismatched types are
// false (not an error), arrays/objects compare deep, functions error.
func (ev *Evaluator) Equals(l, r Value, sp span.Span) (bool, *errors.EvalError) {
	switch lv := l.(type) {
	case Null:
		_, ok := r.(Null)
		return ok, nil
	case Bool:
		rv, ok := r.(Bool)
		return ok && lv.V == rv.V, nil
	case Number:
		rv, ok := r.(Number)
		return ok && lv.V == rv.V, nil
	case Str:
		rv, ok := r.(Str)
		return ok && lv.V == rv.V, nil
	case *Array:
		rv, ok := r.(*Array)
		if !ok || len(lv.Elems) != len(rv.Elems) {
			return false, nil
		}
		for i := range lv.Elems {
			a, err := lv.Elems[i].Force(ev)
			if err != nil {
				return false, err
			}
			b, err := rv.Elems[i].Force(ev)
			if err != nil {
				return false, err
			}
			same, err := ev.Equals(a, b, sp)
			if err != nil {
				return false, err
			}
			if !same {
				return false, nil
			}
		}
		return true, nil
	case *Object:
		rv, ok := r.(*Object)
		if !ok {
			return false, nil
		}
		names := lv.FieldNames(false)
		rNames := rv.FieldNames(false)
		if len(names) != len(rNames) {
			return false, nil
		}
		for _, n := range names {
			if !rv.HasField(n, false) {
				return false, nil
			}
			a, err := ev.readField(lv, 0, n, sp)
			if err != nil {
				return false, err
			}
			b, err := ev.readField(rv, 0, n, sp)
			if err != nil {
				return false, err
			}
			same, err := ev.Equals(a, b, sp)
			if err != nil {
				return false, err
			}
			if !same {
				return false, nil
			}
		}
		return true, nil
	case *Function:
		return false, &errors.EvalError{Kind: errors.CompareFunctions, Span: sp}
	}
	return false, nil
}
