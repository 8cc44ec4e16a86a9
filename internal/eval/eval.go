package eval

import (
	"runtime/debug"
	"sync"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/ir"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

// BuiltinFunc is a native standard-library built-in (spec §4.4.9),
// registered into an Evaluator by internal/stdlib.
type BuiltinFunc func(ev *Evaluator, args []*Thunk) (Value, *errors.EvalError)

// Importer resolves an import path relative to the importing file, per
// spec §6's callback interface.
type Importer interface {
	Import(fromPath, path string) (contents string, resolvedPath string, err error)
}

// CodeImport is one source file lexed, parsed and desugared to IR, paired
// with the root Env a code import evaluates its body against (carrying
// that file's own `std` binding, per spec §6's per-source std variant).
type CodeImport struct {
	Expr ir.Expr
	Env  *Env
}

// CodeImporter resolves `import` (as opposed to importstr/importbin) by
// handing back already-analyzed IR; the facade owns the lex/parse/
// analyze pipeline so internal/eval never needs to depend on it.
type CodeImporter interface {
	ImportCode(fromPath, path string) (ci *CodeImport, resolvedPath string, err error)
}

// Tracer receives std.trace output (spec §6).
type Tracer interface {
	Trace(message string, loc span.Span)
}

// Evaluator carries everything needed to force thunks and evaluate IR:
// the built-in table, external variables, import/trace callbacks, and a
// call-depth guard against genuinely unbounded (non-terminating)
// recursion. Unlike a fixed-size native thread stack, a Go goroutine's
// stack is a heap-backed segment that grows on demand up to MaxGoStack
// (raised once per process in New via debug.SetMaxStack), so Jsonnet
// recursion depth here is bounded by available memory rather than by a
// fixed host call-stack size; depth only counts actual Jsonnet function
// calls (evalCall/CallNative), not ordinary expression nesting, so deep
// non-recursive structures never touch the counter.
type Evaluator struct {
	Interner *intern.Table
	SpanMgr  *span.Manager
	Builtins map[string]BuiltinFunc
	ExtVars  map[string]*Thunk
	Importer     Importer
	CodeImporter CodeImporter
	Tracer       Tracer
	MaxStack     int
	// CurrentFile is the import path of the file whose code is running,
	// used by std.thisFile; evalImport saves and restores it around a
	// code import's one-time evaluation.
	CurrentFile string

	depth       int
	trace       []errors.TraceFrame
	importCache map[string]*Thunk
}

// MaxGoStack raises the ceiling on a single goroutine's heap-backed
// stack well past Go's 1GB default, giving call-depth room to spare
// under MaxStack's own generous budget (see raiseGoStackLimit).
const MaxGoStack = 8 << 30 // 8GiB

// DefaultMaxStack is a backstop against non-terminating recursion, not a
// realistic ceiling: at a few hundred bytes of Go stack per Jsonnet call
// frame this stays comfortably inside MaxGoStack, so ordinary deep
// recursion (spec §8.10's few-thousand-deep self-call, and well beyond)
// completes long before this fires. Callers that construct an Evaluator
// directly, or that expose their own max-stack option (pkg/jsonnet's
// VM), should default to this rather than a small fixed number.
const DefaultMaxStack = 500000

var raiseGoStackLimit = sync.OnceFunc(func() { debug.SetMaxStack(MaxGoStack) })

func New(interner *intern.Table, mgr *span.Manager) *Evaluator {
	raiseGoStackLimit()
	return &Evaluator{
		Interner:    interner,
		SpanMgr:     mgr,
		Builtins:    make(map[string]BuiltinFunc),
		ExtVars:     make(map[string]*Thunk),
		MaxStack:    DefaultMaxStack,
		importCache: make(map[string]*Thunk),
	}
}

func (ev *Evaluator) pushFrame(sp span.Span, detail string) func() {
	ev.trace = append(ev.trace, errors.TraceFrame{Span: sp, Detail: detail})
	return func() { ev.trace = ev.trace[:len(ev.trace)-1] }
}

func (ev *Evaluator) snapshotTrace() []errors.TraceFrame {
	out := make([]errors.TraceFrame, len(ev.trace))
	copy(out, ev.trace)
	return out
}

// enter is called once per Jsonnet function call (evalCall/CallNative),
// not per expression node, so plain nested expressions (arrays,
// objects, operator chains) never consume the call-depth budget; only
// genuine call recursion does.
func (ev *Evaluator) enter(sp span.Span) (func(), *errors.EvalError) {
	ev.depth++
	if ev.depth > ev.MaxStack {
		ev.depth--
		return func() {}, &errors.EvalError{Kind: errors.StackOverflow, Span: sp, Trace: ev.snapshotTrace()}
	}
	return func() { ev.depth-- }, nil
}

// Eval walks one IR expression to a Value under env.
func (ev *Evaluator) Eval(expr ir.Expr, env *Env) (Value, *errors.EvalError) {
	switch n := expr.(type) {
	case *ir.Null:
		return Null{}, nil
	case *ir.Bool:
		return Bool{n.Value}, nil
	case *ir.Number:
		return Number{n.Value}, nil
	case *ir.Str:
		return Str{n.Value}, nil

	case *ir.Array:
		elems := make([]*Thunk, len(n.Elements))
		for i, e := range n.Elements {
			e := e
			elems[i] = Delay(func(ev *Evaluator) (Value, *errors.EvalError) { return ev.Eval(e, env) })
		}
		return &Array{Elems: elems}, nil

	case *ir.ArrayComp:
		snaps, err := ev.evalCompSpec(n.Spec, env)
		if err != nil {
			return nil, err
		}
		elems := make([]*Thunk, len(snaps))
		for i, snap := range snaps {
			snap := snap
			elems[i] = Delay(func(ev *Evaluator) (Value, *errors.EvalError) { return ev.Eval(n.Body, snap) })
		}
		return &Array{Elems: elems}, nil

	case *ir.Object:
		return ev.evalObject(n, env)

	case *ir.ObjectComp:
		return ev.evalObjectComp(n, env)

	case *ir.Field:
		target, err := ev.Eval(n.Target, env)
		if err != nil {
			return nil, err
		}
		obj, ok := target.(*Object)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.FieldOfNonObject, Span: n.Sp}
		}
		return ev.readField(obj, 0, n.Name, n.Sp)

	case *ir.Index:
		target, err := ev.Eval(n.Target, env)
		if err != nil {
			return nil, err
		}
		idxV, err := ev.Eval(n.Index, env)
		if err != nil {
			return nil, err
		}
		return ev.index(target, idxV, n.Sp)

	case *ir.SuperField:
		if env.Self == nil {
			return nil, &errors.EvalError{Kind: errors.SuperWithoutSuperObject, Span: n.Sp}
		}
		return ev.readField(env.Self, env.Layer+1, n.Name, n.Sp)

	case *ir.SuperIndex:
		if env.Self == nil {
			return nil, &errors.EvalError{Kind: errors.SuperWithoutSuperObject, Span: n.Sp}
		}
		idxV, err := ev.Eval(n.Index, env)
		if err != nil {
			return nil, err
		}
		str, ok := idxV.(Str)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.ObjectIndexIsNotString, Span: n.Sp}
		}
		return ev.readField(env.Self, env.Layer+1, ev.Interner.Intern(str.V), n.Sp)

	case *ir.InSuper:
		if env.Self == nil {
			return nil, &errors.EvalError{Kind: errors.SuperWithoutSuperObject, Span: n.Sp}
		}
		idxV, err := ev.Eval(n.Index, env)
		if err != nil {
			return nil, err
		}
		str, ok := idxV.(Str)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.ObjectIndexIsNotString, Span: n.Sp}
		}
		_, _, ok = findField(env.Self, env.Layer+1, ev.Interner.Intern(str.V))
		return Bool{ok}, nil

	case *ir.Local:
		frame := env.Child()
		for _, b := range n.Binds {
			b := b
			frame.Vars[b.Name] = Delay(func(ev *Evaluator) (Value, *errors.EvalError) {
				return ev.Eval(b.Body, frame)
			})
		}
		return ev.Eval(n.Body, frame)

	case *ir.If:
		cond, err := ev.Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(Bool)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.CondIsNotBool, Span: n.Sp}
		}
		if b.V {
			return ev.Eval(n.True, env)
		}
		return ev.Eval(n.False, env)

	case *ir.Assert:
		cond, err := ev.Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(Bool)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.CondIsNotBool, Span: n.Sp}
		}
		if !b.V {
			msg := "assertion failed"
			if n.Message != nil {
				mv, err := ev.Eval(n.Message, env)
				if err != nil {
					return nil, err
				}
				msg = ev.ToDisplayString(mv)
			}
			return nil, &errors.EvalError{Kind: errors.AssertFailed, Span: n.Sp, Message: msg, Trace: ev.snapshotTrace()}
		}
		return ev.Eval(n.Rest, env)

	case *ir.Error:
		v, err := ev.Eval(n.Expr, env)
		if err != nil {
			return nil, err
		}
		return nil, &errors.EvalError{Kind: errors.ExplicitError, Span: n.Sp, Message: ev.ToDisplayString(v), Trace: ev.snapshotTrace()}

	case *ir.Call:
		return ev.evalCall(n, env)

	case *ir.Builtin:
		fn := ev.Builtins[n.Name]
		if fn == nil {
			return nil, &errors.EvalError{Kind: errors.Other, Span: n.Sp, Message: "unknown builtin " + n.Name}
		}
		return &Function{Native: func(ev *Evaluator, args []*Thunk) (Value, error) {
			v, err := fn(ev, args)
			if err != nil {
				return nil, err
			}
			return v, nil
		}}, nil

	case *ir.Identity:
		return &Function{Params: []ir.Param{{}}, Body: nil, Env: env, Native: func(ev *Evaluator, args []*Thunk) (Value, error) {
			v, err := args[0].Force(ev)
			if err != nil {
				return nil, err
			}
			return v, nil
		}}, nil

	case *ir.Function:
		return &Function{Params: n.Params, Body: n.Body, Env: env, SelfName: n.SelfName}, nil

	case *ir.Var:
		t, ok := env.Lookup(n.Name)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.Other, Span: n.Sp, Message: "unbound variable"}
		}
		return t.Force(ev)

	case *ir.Self:
		if env.Self == nil {
			return nil, &errors.EvalError{Kind: errors.FieldOfNonObject, Span: n.Sp, Message: "self outside object"}
		}
		return env.Self, nil

	case *ir.TopObject:
		root := env
		for root.Parent != nil && root.Parent.Self != nil {
			root = root.Parent
		}
		if root.Self == nil {
			return nil, &errors.EvalError{Kind: errors.FieldOfNonObject, Span: n.Sp, Message: "$ outside object"}
		}
		return root.Self, nil

	case *ir.Import:
		return ev.evalImport(n)

	case *ir.Binary:
		return ev.evalBinary(n, env)

	case *ir.Unary:
		return ev.evalUnary(n, env)
	}

	return nil, &errors.EvalError{Kind: errors.Other, Span: expr.Span(), Message: "unhandled IR node"}
}

func (ev *Evaluator) readField(obj *Object, start int, name intern.Name, sp span.Span) (Value, *errors.EvalError) {
	if err := obj.EnsureAsserted(ev); err != nil {
		return nil, err
	}
	t, err := FieldThunk(ev, obj, start, name)
	if err != nil {
		err.Span = sp
		return nil, err
	}
	return t.Force(ev)
}

func (ev *Evaluator) index(target, idx Value, sp span.Span) (Value, *errors.EvalError) {
	switch t := target.(type) {
	case Str:
		n, ok := idx.(Number)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.StringIndexIsNotNumber, Span: sp}
		}
		runes := []rune(t.V)
		i := int(n.V)
		if i < 0 || i >= len(runes) {
			return nil, &errors.EvalError{Kind: errors.NumericIndexOutOfRange, Span: sp}
		}
		return Str{string(runes[i])}, nil
	case *Array:
		n, ok := idx.(Number)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.ArrayIndexIsNotNumber, Span: sp}
		}
		i := int(n.V)
		if i < 0 || i >= len(t.Elems) {
			return nil, &errors.EvalError{Kind: errors.NumericIndexOutOfRange, Span: sp}
		}
		return t.Elems[i].Force(ev)
	case *Object:
		s, ok := idx.(Str)
		if !ok {
			return nil, &errors.EvalError{Kind: errors.ObjectIndexIsNotString, Span: sp}
		}
		return ev.readField(t, 0, ev.Interner.Intern(s.V), sp)
	}
	return nil, &errors.EvalError{Kind: errors.InvalidIndexedType, Span: sp}
}

func (ev *Evaluator) evalImport(n *ir.Import) (Value, *errors.EvalError) {
	if n.Kind == ir.ImportCode {
		return ev.evalCodeImport(n)
	}
	if ev.Importer == nil {
		return nil, &errors.EvalError{Kind: errors.ImportFailed, Span: n.Sp, Message: "no importer configured"}
	}
	contents, _, err := ev.Importer.Import(ev.CurrentFile, n.Path)
	if err != nil {
		return nil, &errors.EvalError{Kind: errors.ImportFailed, Span: n.Sp, Message: err.Error()}
	}
	switch n.Kind {
	case ir.ImportString:
		return Str{contents}, nil
	case ir.ImportBinary:
		elems := make([]*Thunk, len(contents))
		for i := 0; i < len(contents); i++ {
			elems[i] = Ready(Number{float64(contents[i])})
		}
		return &Array{Elems: elems}, nil
	}
	return nil, &errors.EvalError{Kind: errors.ImportFailed, Span: n.Sp, Message: "unreachable import kind"}
}

// evalCodeImport caches the evaluated value by resolved path, the way
// the real implementation caches `import` (but never `importstr`/
// `importbin`) across multiple call sites and across repeated
// evaluation of the same lazily-forced field.
func (ev *Evaluator) evalCodeImport(n *ir.Import) (Value, *errors.EvalError) {
	if ev.CodeImporter == nil {
		return nil, &errors.EvalError{Kind: errors.ImportFailed, Span: n.Sp, Message: "no code importer configured; use the pkg/jsonnet facade"}
	}
	ci, resolved, err := ev.CodeImporter.ImportCode(ev.CurrentFile, n.Path)
	if err != nil {
		return nil, &errors.EvalError{Kind: errors.ImportFailed, Span: n.Sp, Message: err.Error()}
	}
	if th, ok := ev.importCache[resolved]; ok {
		return th.Force(ev)
	}
	th := Delay(func(ev *Evaluator) (Value, *errors.EvalError) {
		prevFile := ev.CurrentFile
		ev.CurrentFile = resolved
		defer func() { ev.CurrentFile = prevFile }()
		return ev.Eval(ci.Expr, ci.Env)
	})
	ev.importCache[resolved] = th
	return th.Force(ev)
}
