// Package ast defines the parser's output tree: the surface syntax before
// desugaring. Node shapes follow the field layout used by reference
// Jsonnet ASTs (see other_examples' mqliang-go-jsonnet ast.go), adapted to
// this module's span/intern handles instead of pointer-based locations.
package ast

import (
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

// Node is any parsed expression.
type Node interface {
	Span() span.Span
}

type Base struct{ Sp span.Span }

func (b Base) Span() span.Span { return b.Sp }

// Literals.

type LiteralNull struct{ Base }
type LiteralBool struct {
	Base
	Value bool
}
type LiteralNumber struct {
	Base
	Digits    string
	ExpAdjust int
}

type StringKind int

const (
	StringDouble StringKind = iota
	StringSingle
	VerbatimDouble
	VerbatimSingle
	TextBlock
)

type LiteralString struct {
	Base
	Value string
	Kind  StringKind
}

// Composite constructors.

type Array struct {
	Base
	Elements []Node
}

type ForSpec struct {
	Var   intern.Name
	VarSp span.Span
	Expr  Node
}

type IfSpec struct {
	Cond Node
}

// CompSpec is the ordered list of `for` clauses in a comprehension, each
// carrying the `if` clauses that follow it (spec §4.4.6).
type CompSpec struct {
	Fors []ForClause
}

// ForClause pairs one `for` with the `if`s that follow it before the next
// `for`, matching how the grammar actually nests them.
type ForClause struct {
	Var  intern.Name
	Expr Node
	Ifs  []Node
}

type ArrayComp struct {
	Base
	Body Node
	Spec CompSpec
}

// Object literal surface forms.

type ObjectFieldKind int

const (
	ObjectLocal ObjectFieldKind = iota
	ObjectAssert
	ObjectFieldID
	ObjectFieldExpr
	ObjectFieldStr
)

type ObjectFieldHide int

const (
	ObjectFieldInherit ObjectFieldHide = iota
	ObjectFieldHidden
	ObjectFieldVisible
)

type ObjectField struct {
	Kind        ObjectFieldKind
	Hide        ObjectFieldHide
	PlusSuper   bool
	MethodSugar bool
	Params      *Parameters
	Id          intern.Name
	NameExpr    Node // for ObjectFieldExpr/ObjectFieldStr
	Body        Node
	AssertMsg   Node // for ObjectAssert
	Sp          span.Span
}

type Object struct {
	Base
	Fields []ObjectField
}

type ObjectComp struct {
	Base
	Locals []ObjectField // ObjectLocal entries surrounding the comprehension field
	Field  ObjectField   // the single ObjectFieldExpr dynamic field
	Spec   CompSpec
}

// Access.

type Index struct {
	Base
	Target Node
	Index  Node // nil when Id is set
	Id     *intern.Name
}

type Slice struct {
	Base
	Target               Node
	BeginIdx, EndIdx, Step Node
}

type SuperIndex struct {
	Base
	Index Node
	Id    *intern.Name
}

type InSuper struct {
	Base
	Index Node
}

// Binding and control.

type LocalBind struct {
	Name intern.Name
	NameSp span.Span
	Body Node
}

type Local struct {
	Base
	Binds []LocalBind
	Body  Node
}

type If struct {
	Base
	Cond, True, False Node
}

type Assert struct {
	Base
	Cond, Message, Rest Node
}

type ErrorExpr struct {
	Base
	Expr Node
}

// Application.

type NamedArg struct {
	Name intern.Name
	Arg  Node
}

type Apply struct {
	Base
	Target     Node
	Positional []Node
	Named      []NamedArg
	TailStrict bool
}

// ApplyBrace represents `e { ... }`, desugared to `e + { ... }`.
type ApplyBrace struct {
	Base
	Left, Right Node
}

type NamedParameter struct {
	Name    intern.Name
	Default Node // nil if required
}

type Parameters struct {
	Params []NamedParameter
}

type Function struct {
	Base
	Params Parameters
	Body   Node
}

// Variable reference, self, $, import.

type Var struct {
	Base
	Name intern.Name
}

type Self struct{ Base }
type TopObject struct{ Base } // $

type ImportKind int

const (
	ImportCode ImportKind = iota
	ImportString
	ImportBinary
)

type Import struct {
	Base
	Kind ImportKind
	File Node // must reduce to a plain string literal; analyzer enforces this
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
	Left, Right Node
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
	Expr Node
}

// Every node type above embeds Base, which already implements Span() via
// field promotion — no per-type overrides needed.
