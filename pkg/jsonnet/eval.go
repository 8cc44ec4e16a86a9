package jsonnet

import (
	"fmt"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// EvaluateSnippet compiles and evaluates src as if it were the contents
// of filename (used for std.thisFile and for resolving relative
// imports). filename need not exist on disk; pass something like
// "<stdin>" or "<eval>" for inline expressions.
func (vm *VM) EvaluateSnippet(filename, src string) (Value, error) {
	expr, err := vm.compile(filename, src)
	if err != nil {
		return nil, err
	}
	prev := vm.ev.CurrentFile
	vm.ev.CurrentFile = filename
	defer func() { vm.ev.CurrentFile = prev }()
	v, everr := vm.ev.Eval(expr, vm.rootEnv())
	if everr != nil {
		return nil, everr
	}
	return v, nil
}

// EvaluateFile reads path through the VM's configured Importer (so -J
// search paths apply to the entry file too) and evaluates it.
func (vm *VM) EvaluateFile(path string) (Value, error) {
	contents, resolved, err := vm.importer.Import("", path)
	if err != nil {
		return nil, err
	}
	return vm.EvaluateSnippet(resolved, contents)
}

// EvaluateCall applies top-level arguments (spec §6's TLA support) to a
// function value, binding by parameter name; every parameter without a
// matching entry in args must have a default. Used when a program's
// top-level value is itself a function, the --tla-str/--tla-code case.
func (vm *VM) EvaluateCall(fn *Function, args map[string]Value) (Value, error) {
	if fn.Native != nil {
		return nil, fmt.Errorf("cannot bind top-level arguments to a native function value")
	}
	frame := fn.Env.Child()
	for _, p := range fn.Params {
		name := vm.ev.Interner.Text(p.Name)
		if v, ok := args[name]; ok {
			frame.Vars[p.Name] = eval.Ready(v)
			continue
		}
		if p.Default == nil {
			return nil, fmt.Errorf("missing top-level argument %q", name)
		}
		p := p
		frame.Vars[p.Name] = eval.Delay(func(ev *eval.Evaluator) (Value, *errors.EvalError) {
			return ev.Eval(p.Default, frame)
		})
	}
	v, everr := vm.ev.Eval(fn.Body, frame)
	if everr != nil {
		return nil, everr
	}
	return v, nil
}

// RegisterNativeFunc registers f under std.native(name) after VM
// construction. Prefer WithNativeFunction at New time; this exists for
// callers that only learn their native functions after setup (e.g. a
// plugin system).
func (vm *VM) RegisterNativeFunc(name string, f NativeFunc) {
	vm.natives.Register(name, f)
}
