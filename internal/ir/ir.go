// Package ir defines the desugared intermediate representation the
// evaluator walks (spec §3 "IR expression"). IR nodes are produced once
// by the analyzer, are immutable, and are shared by reference from many
// thunks — never copied, never mutated after construction.
package ir

import (
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

// Expr is any IR node. The interface exposes only the span; variants
// are told apart by their Go type (a type switch), not by a Kind field.
type Expr interface {
	Span() span.Span
}

type Base struct{ Sp span.Span }

func (b Base) Span() span.Span { return b.Sp }

// Literals.

type Null struct{ Base }
type Bool struct {
	Base
	Value bool
}
type Number struct {
	Base
	Value float64
}
type Str struct {
	Base
	Value string
}

// Composite constructors.

type Array struct {
	Base
	Elements []Expr
}

type ForClause struct {
	Var  intern.Name
	Expr Expr
	Ifs  []Expr
}

type CompSpec struct {
	Fors []ForClause
}

type ArrayComp struct {
	Base
	Body Expr
	Spec CompSpec
}

type FieldHide int

const (
	FieldInherit FieldHide = iota
	FieldHidden
	FieldVisible
)

// ObjectField is one field of a desugared object, with either a
// statically-known name or a computed one (see Name and NameExpr).
type ObjectField struct {
	Hide FieldHide
	// Name is the field's key when known at desugar time. NameExpr holds
	// a computed key instead (`["a"+"b"]: e` outside a comprehension);
	// exactly one of the two is set.
	Name      intern.Name
	NameExpr  Expr
	Body      Expr
	PlusSuper bool
	Sp        span.Span
}

// ObjectLocal is a local binding shared by every field/assert of one
// object layer.
type ObjectLocal struct {
	Name intern.Name
	Body Expr
}

// Object is a desugared object literal: one layer's locals, asserts and
// static fields. This is the single self-layer contributed by one
// literal; composition with `+` happens at evaluation time (spec §3).
type Object struct {
	Base
	Locals  []ObjectLocal
	Asserts []Expr
	Fields  []ObjectField
}

// ObjectComp is a desugared object comprehension: one dynamic field whose
// name and value are evaluated once per comprehension snapshot.
type ObjectComp struct {
	Base
	Locals   []ObjectLocal
	NameExpr Expr
	Body     Expr
	Spec     CompSpec
}

// Access.

type Field struct {
	Base
	Target Expr
	Name   intern.Name
}

type Index struct {
	Base
	Target Expr
	Index  Expr
}

type SuperField struct {
	Base
	Name intern.Name
}

type SuperIndex struct {
	Base
	Index Expr
}

type InSuper struct {
	Base
	Index Expr
}

// Binding and control. Local bindings are write-once mutually recursive
// cells: every Body may reference every Name bound in the same Local.

type LocalBind struct {
	Name intern.Name
	Body Expr
}

type Local struct {
	Base
	Binds []LocalBind
	Body  Expr
}

type If struct {
	Base
	Cond, True, False Expr
}

type Assert struct {
	Base
	Cond, Message Expr
	Rest          Expr
}

type Error struct {
	Base
	Expr Expr
}

// Application.

type NamedArg struct {
	Name intern.Name
	Arg  Expr
}

type Call struct {
	Base
	Target     Expr
	Positional []Expr
	Named      []NamedArg
	TailStrict bool
}

// Builtin is a direct reference to a native built-in function, used by
// desugarings such as slicing (spec §4.3) that synthesize a call to
// std.slice without going through a variable lookup.
type Builtin struct {
	Base
	Name string
}

// Identity is the constant identity function, `function(x) x`.
type Identity struct{ Base }

type Param struct {
	Name    intern.Name
	Default Expr // nil if required
}

type Function struct {
	Base
	Params   []Param
	Body     Expr
	SelfName string // non-empty for named locals, used in traces
}

// Variable and context keywords.

type Var struct {
	Base
	Name intern.Name
}

type Self struct{ Base }
type TopObject struct{ Base }

// Import.

type ImportKind int

const (
	ImportCode ImportKind = iota
	ImportString
	ImportBinary
)

type Import struct {
	Base
	Kind ImportKind
	Path string
}

// Operators.

type BinaryOp int

const (
	BopMul BinaryOp = iota
	BopDiv
	BopMod
	BopAdd
	BopSub
	BopShl
	BopShr
	BopLt
	BopLe
	BopGt
	BopGe
	BopIn
	BopEq
	BopNe
	BopBitAnd
	BopBitXor
	BopBitOr
	BopAnd
	BopOr
)

type Binary struct {
	Base
	Left, Right Expr
	Op          BinaryOp
}

type UnaryOp int

const (
	UopNot UnaryOp = iota
	UopBitNot
	UopPlus
	UopMinus
)

type Unary struct {
	Base
	Op   UnaryOp
	Expr Expr
}
