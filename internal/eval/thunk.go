package eval

import "github.com/cwbudde/go-jsonnet/internal/errors"

type thunkState int

const (
	pending thunkState = iota
	inProgress
	done
)

// Thunk is a write-once lazy cell (spec §4.4.2). compute is cleared once
// the thunk settles so its closure (and whatever environment it holds)
// can be collected.
type Thunk struct {
	state   thunkState
	value   Value
	err     *errors.EvalError
	compute func(ev *Evaluator) (Value, *errors.EvalError)
}

// Ready builds an already-settled thunk, useful for constants and values
// produced outside lazy evaluation (built-in results, import caches).
func Ready(v Value) *Thunk {
	return &Thunk{state: done, value: v}
}

// Delay builds a pending thunk from a compute closure.
func Delay(f func(ev *Evaluator) (Value, *errors.EvalError)) *Thunk {
	return &Thunk{state: pending, compute: f}
}

// Force resolves the thunk to a value, detecting self-referential cycles
// as InfiniteRecursion (spec §4.4.2).
func (t *Thunk) Force(ev *Evaluator) (Value, *errors.EvalError) {
	switch t.state {
	case done:
		return t.value, t.err
	case inProgress:
		return nil, &errors.EvalError{Kind: errors.InfiniteRecursion, Trace: ev.snapshotTrace()}
	}
	t.state = inProgress
	v, err := t.compute(ev)
	t.state = done
	t.value, t.err = v, err
	t.compute = nil
	return v, err
}
