// Package jsonnet is the embedding-facing facade: a VM that owns one
// interner, one span manager and one evaluator, wired together the way
// cmd/jsonnet's CLI and any Go caller both need. Everything under
// internal/ stays unexported; this package is the only supported way to
// run a program from outside the module.
package jsonnet

import (
	"fmt"

	"github.com/cwbudde/go-jsonnet/internal/analyzer"
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/ir"
	"github.com/cwbudde/go-jsonnet/internal/lexer"
	"github.com/cwbudde/go-jsonnet/internal/parser"
	"github.com/cwbudde/go-jsonnet/internal/span"
	"github.com/cwbudde/go-jsonnet/internal/stdlib"
	"github.com/cwbudde/go-jsonnet/std"
)

// Importer resolves an import path relative to the importing file.
// import/importstr/importbin all go through the same callback; the
// evaluator decides what to do with the returned contents.
type Importer = eval.Importer

// Tracer receives std.trace output.
type Tracer = eval.Tracer

// NativeFunc is a host function exposed to Jsonnet as std.native(name).
type NativeFunc = stdlib.NativeFunc

// VM evaluates Jsonnet programs. The zero value is not usable; build one
// with New.
type VM struct {
	interner *intern.Table
	spanMgr  *span.Manager
	ev       *eval.Evaluator
	natives  *stdlib.Natives
	importer Importer
	tracer   Tracer

	maxStack    int
	searchPaths []string
	extStr      map[string]string
	extCode     map[string]string

	stdValue *eval.Object
}

// Option configures a VM at construction time, mirroring the lexer's own
// functional-option shape.
type Option func(*VM)

func WithMaxStack(n int) Option { return func(vm *VM) { vm.maxStack = n } }

func WithImporter(imp Importer) Option { return func(vm *VM) { vm.importer = imp } }

func WithSearchPaths(paths []string) Option {
	return func(vm *VM) { vm.searchPaths = append(vm.searchPaths, paths...) }
}

func WithTracer(t Tracer) Option { return func(vm *VM) { vm.tracer = t } }

// WithExtVar binds an external variable (`std.extVar(name)`) to a plain
// string value.
func WithExtVar(name, value string) Option {
	return func(vm *VM) { vm.extStr[name] = value }
}

// WithExtVarCode binds an external variable to the value of a Jsonnet
// expression, evaluated lazily the first time std.extVar(name) is read.
func WithExtVarCode(name, code string) Option {
	return func(vm *VM) { vm.extCode[name] = code }
}

// WithNativeFunction registers f under std.native(name). Native functions
// only bind positionally; named-argument calls through std.native are not
// supported, matching the call convention std.native itself uses.
func WithNativeFunction(name string, f NativeFunc) Option {
	return func(vm *VM) { vm.natives.Register(name, f) }
}

// New builds a VM, loading the embedded Jsonnet-expressible standard
// library and composing it with the native built-in table.
func New(opts ...Option) (*VM, error) {
	vm := &VM{
		interner: intern.NewTable(),
		spanMgr:  span.NewManager(),
		natives:  stdlib.NewNatives(),
		maxStack: eval.DefaultMaxStack,
		extStr:   map[string]string{},
		extCode:  map[string]string{},
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.importer == nil {
		vm.importer = NewFileImporter(vm.searchPaths)
	}

	ev := eval.New(vm.interner, vm.spanMgr)
	ev.MaxStack = vm.maxStack
	ev.Importer = vm.importer
	ev.Tracer = vm.tracer
	stdlib.Register(ev, vm.natives)
	vm.ev = ev
	ev.CodeImporter = &codeImporter{vm: vm}

	if err := vm.buildStd(); err != nil {
		return nil, err
	}
	if err := vm.bindExtVars(); err != nil {
		return nil, err
	}
	return vm, nil
}

// buildStd evaluates std/std.jsonnet once against the native "extra"
// object (spec §6's split between native built-ins and the Jsonnet
// wrappers layered on top of them via `+`).
func (vm *VM) buildStd() error {
	native := stdlib.NativeObject(vm.ev)
	expr, err := vm.compile("<std.jsonnet>", std.Source)
	if err != nil {
		return err
	}
	v, everr := vm.ev.Eval(expr, &eval.Env{Vars: map[intern.Name]*Thunk{}})
	if everr != nil {
		return everr
	}
	pure, ok := v.(*eval.Object)
	if !ok {
		return fmt.Errorf("std.jsonnet must evaluate to an object, got %s", eval.TypeName(v))
	}
	vm.stdValue = eval.Compose(native, pure)
	return nil
}

func (vm *VM) bindExtVars() error {
	for name, value := range vm.extStr {
		vm.ev.ExtVars[name] = eval.Ready(eval.Str{V: value})
	}
	for name, code := range vm.extCode {
		expr, err := vm.compile("<extvar:"+name+">", code)
		if err != nil {
			return err
		}
		env := vm.rootEnv()
		vm.ev.ExtVars[name] = eval.Delay(func(ev *eval.Evaluator) (eval.Value, *errors.EvalError) {
			return ev.Eval(expr, env)
		})
	}
	return nil
}

// rootEnv is the top-level environment every program (and every code
// import) evaluates its body against: no locals yet, std bound to this
// VM's composed standard library.
func (vm *VM) rootEnv() *eval.Env {
	return &eval.Env{Vars: map[intern.Name]*Thunk{
		vm.interner.Intern("std"): eval.Ready(vm.stdValue),
	}}
}

// compile runs one source file through lex, parse and analyze, sharing
// this VM's interner and span manager so names and positions line up
// across files reached through import.
func (vm *VM) compile(filename, src string) (ir.Expr, error) {
	ctx := vm.spanMgr.NewContext(filename, src)
	toks, lerr := lexer.Lex(ctx, vm.spanMgr)
	if lerr != nil {
		return nil, &errors.LoadError{Lex: lerr}
	}
	root, perr := parser.Parse(toks, vm.interner, vm.spanMgr, ctx)
	if perr != nil {
		return nil, &errors.LoadError{Parse: perr}
	}
	expr, aerr := analyzer.Analyze(root, vm.interner)
	if aerr != nil {
		return nil, &errors.LoadError{Analyze: aerr}
	}
	return expr, nil
}

// SpanManager exposes the VM's span manager so callers can render
// positions from errors returned by its methods (e.g. *errors.EvalError
// .Format).
func (vm *VM) SpanManager() *span.Manager { return vm.spanMgr }

// The runtime value types are re-exported by alias so callers never need
// to (and never could, across a module boundary) import internal/eval
// themselves.
type (
	Thunk    = eval.Thunk
	Value    = eval.Value
	Object   = eval.Object
	Array    = eval.Array
	Function = eval.Function
	Str      = eval.Str
	Bool     = eval.Bool
	Number   = eval.Number
	Null     = eval.Null
)

// ObjectFieldNames returns an object's visible (or all, if includeHidden)
// field names as plain strings, resolved through this VM's interner.
func (vm *VM) ObjectFieldNames(obj *Object, includeHidden bool) []string {
	names := obj.FieldNames(includeHidden)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = vm.interner.Text(n)
	}
	return out
}

// ObjectField reads and forces one field of a manifested object, running
// the object's asserts first. Used by callers (the CLI's -m multi-file
// mode) that need to manifest an object's fields independently rather
// than the object as a whole.
func (vm *VM) ObjectField(obj *Object, name string) (Value, error) {
	if err := obj.EnsureAsserted(vm.ev); err != nil {
		return nil, err
	}
	t, err := eval.FieldThunk(vm.ev, obj, 0, vm.interner.Intern(name))
	if err != nil {
		return nil, err
	}
	v, everr := t.Force(vm.ev)
	if everr != nil {
		return nil, everr
	}
	return v, nil
}
