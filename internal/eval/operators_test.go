package eval

import (
	"testing"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/ir"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

func TestAdd_OverflowRaisesNumberOverflow(t *testing.T) {
	ev := newTestEvaluator()
	_, err := ev.Add(Number{V: 1e308}, Number{V: 1e308})
	if err == nil || err.Kind != errors.NumberOverflow {
		t.Fatalf("got %v, want NumberOverflow", err)
	}
}

func TestAdd_FiniteResultIsUnaffected(t *testing.T) {
	ev := newTestEvaluator()
	v, err := ev.Add(Number{V: 1}, Number{V: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := v.(Number)
	if !ok || n.V != 3 {
		t.Fatalf("got %v, want Number{3}", v)
	}
}

func TestArith_MultiplyOverflowRaisesNumberOverflow(t *testing.T) {
	ev := newTestEvaluator()
	_, err := ev.arith(ir.BopMul, Number{V: 1e308}, Number{V: 10}, span.Span{})
	if err == nil || err.Kind != errors.NumberOverflow {
		t.Fatalf("got %v, want NumberOverflow", err)
	}
}

func TestArith_DivByZero(t *testing.T) {
	ev := newTestEvaluator()
	_, err := ev.arith(ir.BopDiv, Number{V: 1}, Number{V: 0}, span.Span{})
	if err == nil || err.Kind != errors.DivByZero {
		t.Fatalf("got %v, want DivByZero", err)
	}
}

func TestArith_SubMulDivFiniteResultsUnaffected(t *testing.T) {
	ev := newTestEvaluator()
	tcs := []struct {
		op   ir.BinaryOp
		l, r float64
		want float64
	}{
		{ir.BopSub, 5, 3, 2},
		{ir.BopMul, 5, 3, 15},
		{ir.BopDiv, 6, 3, 2},
		{ir.BopMod, 7, 3, 1},
	}
	for _, tc := range tcs {
		v, err := ev.arith(tc.op, Number{V: tc.l}, Number{V: tc.r}, span.Span{})
		if err != nil {
			t.Fatalf("arith(%v, %v, %v): unexpected error: %v", tc.op, tc.l, tc.r, err)
		}
		n := v.(Number)
		if n.V != tc.want {
			t.Fatalf("arith(%v, %v, %v) = %v, want %v", tc.op, tc.l, tc.r, n.V, tc.want)
		}
	}
}

func TestCheckFinite_RejectsNaN(t *testing.T) {
	_, err := checkFinite(nanFromDivision(), span.Span{})
	if err == nil || err.Kind != errors.NumberNan {
		t.Fatalf("got %v, want NumberNan", err)
	}
}

// nanFromDivision produces NaN via a runtime float division, since Go
// rejects a constant 0.0/0.0 expression at compile time.
func nanFromDivision() float64 {
	zero := Number{V: 0}.V
	return zero / zero
}
