package eval

import "github.com/cwbudde/go-jsonnet/internal/intern"

// Env is one frame of lexical scope plus the self/super anchor active at
// that point (spec §4.4.3). Frames are immutable once published; mutual
// recursion among local bindings is achieved by pre-populating Vars with
// pending thunk cells before any of their compute closures run.
type Env struct {
	Vars   map[intern.Name]*Thunk
	Parent *Env
	// Self/Layer anchor the object `self`/`super` resolve against. Layer
	// is meaningless when Self is nil.
	Self  *Object
	Layer int
}

// Lookup walks the frame chain for a bound name.
func (e *Env) Lookup(name intern.Name) (*Thunk, bool) {
	for f := e; f != nil; f = f.Parent {
		if t, ok := f.Vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Child starts a new frame on top of e with its own variable map,
// inheriting the self/super anchor unless overridden by the caller.
func (e *Env) Child() *Env {
	child := &Env{Vars: make(map[intern.Name]*Thunk)}
	child.Parent = e
	if e != nil {
		child.Self, child.Layer = e.Self, e.Layer
	}
	return child
}

// WithAnchor returns a child frame anchored at (obj, layer), used when
// entering a field/assert/local body of an object layer.
func (e *Env) WithAnchor(obj *Object, layer int) *Env {
	child := e.Child()
	child.Self, child.Layer = obj, layer
	return child
}
