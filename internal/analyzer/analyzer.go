// Package analyzer converts a parsed ast.Node tree into desugared ir.Expr,
// resolving variable scope and enforcing the static checks of spec §4.3.
// Its single-pass, scope-chain-of-maps shape follows the teacher's
// internal/semantic resolver.
package analyzer

import (
	"strconv"

	"github.com/cwbudde/go-jsonnet/internal/ast"
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/ir"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

// scope is a chain of name sets. objDepth counts enclosing object
// literals so self/super/$ legality is a simple depth check rather than
// a separate flag threaded through every recursive call.
type scope struct {
	names    map[intern.Name]struct{}
	parent   *scope
	objDepth int
}

func child(p *scope) *scope {
	return &scope{names: make(map[intern.Name]struct{}), parent: p, objDepth: p.objDepth}
}

func childObj(p *scope) *scope {
	c := child(p)
	c.objDepth = p.objDepth + 1
	return c
}

func (s *scope) has(n intern.Name) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.names[n]; ok {
			return true
		}
	}
	return false
}

func (s *scope) define(n intern.Name) { s.names[n] = struct{}{} }

// Analyze desugars a parsed root expression into IR. interner is used to
// recover the source spelling of identifiers for error messages.
func Analyze(root ast.Node, interner *intern.Table) (ir.Expr, *errors.AnalyzeError) {
	top := &scope{names: make(map[intern.Name]struct{})}
	// std is implicitly bound in every program (spec §6); the facade
	// supplies its value as the root Env binding of the same name.
	top.define(interner.Intern("std"))
	return desugar(top, root, interner, true)
}

func numberValue(digits string, expAdjust int) float64 {
	if digits == "" {
		digits = "0"
	}
	v, _ := strconv.ParseFloat(digits+"e"+strconv.Itoa(expAdjust), 64)
	return v
}

func desugar(s *scope, n ast.Node, in *intern.Table, tail bool) (ir.Expr, *errors.AnalyzeError) {
	switch node := n.(type) {

	case *ast.LiteralNull:
		return &ir.Null{Base: ir.Base{Sp: node.Sp}}, nil

	case *ast.LiteralBool:
		return &ir.Bool{Base: ir.Base{Sp: node.Sp}, Value: node.Value}, nil

	case *ast.LiteralNumber:
		return &ir.Number{Base: ir.Base{Sp: node.Sp}, Value: numberValue(node.Digits, node.ExpAdjust)}, nil

	case *ast.LiteralString:
		return &ir.Str{Base: ir.Base{Sp: node.Sp}, Value: node.Value}, nil

	case *ast.Array:
		elems := make([]ir.Expr, len(node.Elements))
		for i, e := range node.Elements {
			de, err := desugar(s, e, in, false)
			if err != nil {
				return nil, err
			}
			elems[i] = de
		}
		return &ir.Array{Base: ir.Base{Sp: node.Sp}, Elements: elems}, nil

	case *ast.ArrayComp:
		spec, inner, err := desugarCompSpec(s, node.Spec, in)
		if err != nil {
			return nil, err
		}
		body, err := desugar(inner, node.Body, in, false)
		if err != nil {
			return nil, err
		}
		return &ir.ArrayComp{Base: ir.Base{Sp: node.Sp}, Body: body, Spec: spec}, nil

	case *ast.Object:
		return desugarObject(s, node, in)

	case *ast.ObjectComp:
		return desugarObjectComp(s, node, in)

	case *ast.Index:
		target, err := desugar(s, node.Target, in, false)
		if err != nil {
			return nil, err
		}
		if node.Id != nil {
			return &ir.Field{Base: ir.Base{Sp: node.Sp}, Target: target, Name: *node.Id}, nil
		}
		idx, err := desugar(s, node.Index, in, false)
		if err != nil {
			return nil, err
		}
		return &ir.Index{Base: ir.Base{Sp: node.Sp}, Target: target, Index: idx}, nil

	case *ast.Slice:
		target, err := desugar(s, node.Target, in, false)
		if err != nil {
			return nil, err
		}
		begin, err := desugarOrNull(s, node.BeginIdx, in)
		if err != nil {
			return nil, err
		}
		end, err := desugarOrNull(s, node.EndIdx, in)
		if err != nil {
			return nil, err
		}
		step, err := desugarOrNull(s, node.Step, in)
		if err != nil {
			return nil, err
		}
		return &ir.Call{
			Base:       ir.Base{Sp: node.Sp},
			Target:     &ir.Builtin{Base: ir.Base{Sp: node.Sp}, Name: "slice"},
			Positional: []ir.Expr{target, begin, end, step},
		}, nil

	case *ast.SuperIndex:
		if s.objDepth == 0 {
			return nil, &errors.AnalyzeError{Kind: errors.SuperOutsideObject, Span: node.Sp}
		}
		if node.Id != nil {
			return &ir.SuperField{Base: ir.Base{Sp: node.Sp}, Name: *node.Id}, nil
		}
		idx, err := desugar(s, node.Index, in, false)
		if err != nil {
			return nil, err
		}
		return &ir.SuperIndex{Base: ir.Base{Sp: node.Sp}, Index: idx}, nil

	case *ast.InSuper:
		if s.objDepth == 0 {
			return nil, &errors.AnalyzeError{Kind: errors.SuperOutsideObject, Span: node.Sp}
		}
		idx, err := desugar(s, node.Index, in, false)
		if err != nil {
			return nil, err
		}
		return &ir.InSuper{Base: ir.Base{Sp: node.Sp}, Index: idx}, nil

	case *ast.Local:
		inner := child(s)
		seen := make(map[intern.Name]struct{}, len(node.Binds))
		for _, b := range node.Binds {
			if _, dup := seen[b.Name]; dup {
				return nil, &errors.AnalyzeError{Kind: errors.RepeatedLocalName, Span: b.NameSp, Name: in.Text(b.Name)}
			}
			seen[b.Name] = struct{}{}
			inner.define(b.Name)
		}
		binds := make([]ir.LocalBind, len(node.Binds))
		for i, b := range node.Binds {
			body, err := desugar(inner, b.Body, in, false)
			if err != nil {
				return nil, err
			}
			binds[i] = ir.LocalBind{Name: b.Name, Body: body}
		}
		rest, err := desugar(inner, node.Body, in, tail)
		if err != nil {
			return nil, err
		}
		return &ir.Local{Base: ir.Base{Sp: node.Sp}, Binds: binds, Body: rest}, nil

	case *ast.If:
		cond, err := desugar(s, node.Cond, in, false)
		if err != nil {
			return nil, err
		}
		trueE, err := desugar(s, node.True, in, tail)
		if err != nil {
			return nil, err
		}
		var falseE ir.Expr
		if node.False != nil {
			falseE, err = desugar(s, node.False, in, tail)
			if err != nil {
				return nil, err
			}
		} else {
			falseE = &ir.Null{Base: ir.Base{Sp: node.Sp}}
		}
		return &ir.If{Base: ir.Base{Sp: node.Sp}, Cond: cond, True: trueE, False: falseE}, nil

	case *ast.Assert:
		cond, err := desugar(s, node.Cond, in, false)
		if err != nil {
			return nil, err
		}
		var msg ir.Expr
		if node.Message != nil {
			msg, err = desugar(s, node.Message, in, false)
			if err != nil {
				return nil, err
			}
		}
		rest, err := desugar(s, node.Rest, in, tail)
		if err != nil {
			return nil, err
		}
		return &ir.Assert{Base: ir.Base{Sp: node.Sp}, Cond: cond, Message: msg, Rest: rest}, nil

	case *ast.ErrorExpr:
		e, err := desugar(s, node.Expr, in, false)
		if err != nil {
			return nil, err
		}
		return &ir.Error{Base: ir.Base{Sp: node.Sp}, Expr: e}, nil

	case *ast.Apply:
		target, err := desugar(s, node.Target, in, false)
		if err != nil {
			return nil, err
		}
		pos := make([]ir.Expr, len(node.Positional))
		for i, a := range node.Positional {
			de, err := desugar(s, a, in, false)
			if err != nil {
				return nil, err
			}
			pos[i] = de
		}
		named := make([]ir.NamedArg, len(node.Named))
		for i, a := range node.Named {
			arg, err := desugar(s, a.Arg, in, false)
			if err != nil {
				return nil, err
			}
			named[i] = ir.NamedArg{Name: a.Name, Arg: arg}
		}
		return &ir.Call{
			Base: ir.Base{Sp: node.Sp}, Target: target,
			Positional: pos, Named: named,
			TailStrict: node.TailStrict && tail,
		}, nil

	case *ast.ApplyBrace:
		left, err := desugar(s, node.Left, in, false)
		if err != nil {
			return nil, err
		}
		right, err := desugar(s, node.Right, in, false)
		if err != nil {
			return nil, err
		}
		return &ir.Binary{Base: ir.Base{Sp: node.Sp}, Left: left, Op: ir.BopAdd, Right: right}, nil

	case *ast.Function:
		return desugarFunction(s, node.Sp, node.Params, node.Body, "", in)

	case *ast.Var:
		if !s.has(node.Name) {
			return nil, &errors.AnalyzeError{Kind: errors.UnknownVariable, Span: node.Sp, Name: in.Text(node.Name)}
		}
		return &ir.Var{Base: ir.Base{Sp: node.Sp}, Name: node.Name}, nil

	case *ast.Self:
		if s.objDepth == 0 {
			return nil, &errors.AnalyzeError{Kind: errors.SelfOutsideObject, Span: node.Sp}
		}
		return &ir.Self{Base: ir.Base{Sp: node.Sp}}, nil

	case *ast.TopObject:
		if s.objDepth == 0 {
			return nil, &errors.AnalyzeError{Kind: errors.DollarOutsideObject, Span: node.Sp}
		}
		return &ir.TopObject{Base: ir.Base{Sp: node.Sp}}, nil

	case *ast.Import:
		lit, ok := node.File.(*ast.LiteralString)
		if !ok {
			return nil, &errors.AnalyzeError{Kind: errors.ComputedImportPath, Span: node.Sp}
		}
		if lit.Kind == ast.TextBlock {
			return nil, &errors.AnalyzeError{Kind: errors.TextBlockAsImportPath, Span: node.Sp}
		}
		return &ir.Import{Base: ir.Base{Sp: node.Sp}, Kind: ir.ImportKind(node.Kind), Path: lit.Value}, nil

	case *ast.Binary:
		left, err := desugar(s, node.Left, in, false)
		if err != nil {
			return nil, err
		}
		right, err := desugar(s, node.Right, in, false)
		if err != nil {
			return nil, err
		}
		return &ir.Binary{Base: ir.Base{Sp: node.Sp}, Left: left, Op: ir.BinaryOp(node.Op), Right: right}, nil

	case *ast.Unary:
		e, err := desugar(s, node.Expr, in, false)
		if err != nil {
			return nil, err
		}
		return &ir.Unary{Base: ir.Base{Sp: node.Sp}, Op: ir.UnaryOp(node.Op), Expr: e}, nil
	}

	// Unreachable: every ast.Node variant is a case above. Kept only so
	// the compiler sees a return on every path.
	return nil, &errors.AnalyzeError{Span: n.Span()}
}

func desugarOrNull(s *scope, n ast.Node, in *intern.Table) (ir.Expr, *errors.AnalyzeError) {
	if n == nil {
		return &ir.Null{}, nil
	}
	return desugar(s, n, in, false)
}

func desugarFunction(s *scope, sp span.Span, params ast.Parameters, body ast.Node, selfName string, in *intern.Table) (ir.Expr, *errors.AnalyzeError) {
	inner := child(s)
	seen := make(map[intern.Name]struct{}, len(params.Params))
	for _, p := range params.Params {
		if _, dup := seen[p.Name]; dup {
			return nil, &errors.AnalyzeError{Kind: errors.RepeatedParamName, Span: sp, Name: in.Text(p.Name)}
		}
		seen[p.Name] = struct{}{}
		inner.define(p.Name)
	}
	irParams := make([]ir.Param, len(params.Params))
	for i, p := range params.Params {
		var def ir.Expr
		if p.Default != nil {
			var err *errors.AnalyzeError
			def, err = desugar(inner, p.Default, in, false)
			if err != nil {
				return nil, err
			}
		}
		irParams[i] = ir.Param{Name: p.Name, Default: def}
	}
	bodyIR, err := desugar(inner, body, in, true)
	if err != nil {
		return nil, err
	}
	return &ir.Function{Base: ir.Base{Sp: sp}, Params: irParams, Body: bodyIR, SelfName: selfName}, nil
}

// desugarCompSpec threads a growing scope through each `for`/`if` clause:
// the `in` expression of a for-clause is resolved in the scope *before*
// its own variable is bound, but that variable is visible to every
// subsequent if/for clause and to the comprehension body.
func desugarCompSpec(s *scope, spec ast.CompSpec, in *intern.Table) (ir.CompSpec, *scope, *errors.AnalyzeError) {
	cur := s
	var out ir.CompSpec
	for _, fc := range spec.Fors {
		inExpr, err := desugar(cur, fc.Expr, in, false)
		if err != nil {
			return ir.CompSpec{}, nil, err
		}
		next := child(cur)
		next.define(fc.Var)
		var ifs []ir.Expr
		for _, ifc := range fc.Ifs {
			cond, err := desugar(next, ifc, in, false)
			if err != nil {
				return ir.CompSpec{}, nil, err
			}
			ifs = append(ifs, cond)
		}
		out.Fors = append(out.Fors, ir.ForClause{Var: fc.Var, Expr: inExpr, Ifs: ifs})
		cur = next
	}
	return out, cur, nil
}

// desugarObject handles a plain (non-comprehension) object literal:
// locals become mutually recursive bindings visible to every field and
// assert of this layer (spec §4.3), asserts become standalone ir.Assert
// checks, and fields keep static names where possible or carry a
// computed NameExpr otherwise.
func desugarObject(s *scope, node *ast.Object, in *intern.Table) (ir.Expr, *errors.AnalyzeError) {
	inner := childObj(s)

	var locals []ast.ObjectField
	var asserts []ast.ObjectField
	var fields []ast.ObjectField
	for _, f := range node.Fields {
		switch f.Kind {
		case ast.ObjectLocal:
			locals = append(locals, f)
		case ast.ObjectAssert:
			asserts = append(asserts, f)
		default:
			fields = append(fields, f)
		}
	}

	seenLocal := make(map[intern.Name]struct{}, len(locals))
	for _, l := range locals {
		if _, dup := seenLocal[l.Id]; dup {
			return nil, &errors.AnalyzeError{Kind: errors.RepeatedLocalName, Span: l.Sp, Name: in.Text(l.Id)}
		}
		seenLocal[l.Id] = struct{}{}
		inner.define(l.Id)
	}

	irLocals := make([]ir.ObjectLocal, len(locals))
	for i, l := range locals {
		body, err := desugarFieldBody(inner, l, in)
		if err != nil {
			return nil, err
		}
		irLocals[i] = ir.ObjectLocal{Name: l.Id, Body: body}
	}

	irAsserts := make([]ir.Expr, len(asserts))
	for i, a := range asserts {
		cond, err := desugar(inner, a.Body, in, false)
		if err != nil {
			return nil, err
		}
		var msg ir.Expr
		if a.AssertMsg != nil {
			msg, err = desugar(inner, a.AssertMsg, in, false)
			if err != nil {
				return nil, err
			}
		}
		irAsserts[i] = &ir.Assert{Base: ir.Base{Sp: a.Sp}, Cond: cond, Message: msg, Rest: &ir.Null{}}
	}

	seenName := make(map[intern.Name]struct{}, len(fields))
	irFields := make([]ir.ObjectField, len(fields))
	for i, f := range fields {
		body, err := desugarFieldBody(inner, f, in)
		if err != nil {
			return nil, err
		}
		out := ir.ObjectField{Hide: ir.FieldHide(f.Hide), Body: body, PlusSuper: f.PlusSuper, Sp: f.Sp}
		switch f.Kind {
		case ast.ObjectFieldID:
			if _, dup := seenName[f.Id]; dup {
				return nil, &errors.AnalyzeError{Kind: errors.RepeatedFieldName, Span: f.Sp, Name: in.Text(f.Id)}
			}
			seenName[f.Id] = struct{}{}
			out.Name = f.Id
		case ast.ObjectFieldStr:
			lit := f.NameExpr.(*ast.LiteralString)
			name := in.Intern(lit.Value)
			if _, dup := seenName[name]; dup {
				return nil, &errors.AnalyzeError{Kind: errors.RepeatedFieldName, Span: f.Sp, Name: lit.Value}
			}
			seenName[name] = struct{}{}
			out.Name = name
		case ast.ObjectFieldExpr:
			nameExpr, err := desugar(inner, f.NameExpr, in, false)
			if err != nil {
				return nil, err
			}
			out.NameExpr = nameExpr
		}
		irFields[i] = out
	}

	return &ir.Object{Base: ir.Base{Sp: node.Sp}, Locals: irLocals, Asserts: irAsserts, Fields: irFields}, nil
}

// desugarFieldBody wraps a field/local's Body, synthesizing an
// ir.Function for `name(params): body` method sugar.
func desugarFieldBody(s *scope, f ast.ObjectField, in *intern.Table) (ir.Expr, *errors.AnalyzeError) {
	if f.Params != nil {
		return desugarFunction(s, f.Sp, *f.Params, f.Body, "", in)
	}
	return desugar(s, f.Body, in, false)
}

func desugarObjectComp(s *scope, node *ast.ObjectComp, in *intern.Table) (ir.Expr, *errors.AnalyzeError) {
	inner := childObj(s)

	seenLocal := make(map[intern.Name]struct{}, len(node.Locals))
	for _, l := range node.Locals {
		if _, dup := seenLocal[l.Id]; dup {
			return nil, &errors.AnalyzeError{Kind: errors.RepeatedLocalName, Span: l.Sp, Name: in.Text(l.Id)}
		}
		seenLocal[l.Id] = struct{}{}
		inner.define(l.Id)
	}
	irLocals := make([]ir.ObjectLocal, len(node.Locals))
	for i, l := range node.Locals {
		body, err := desugarFieldBody(inner, l, in)
		if err != nil {
			return nil, err
		}
		irLocals[i] = ir.ObjectLocal{Name: l.Id, Body: body}
	}

	spec, compScope, err := desugarCompSpec(inner, node.Spec, in)
	if err != nil {
		return nil, err
	}

	nameExpr, err := desugar(compScope, node.Field.NameExpr, in, false)
	if err != nil {
		return nil, err
	}
	body, err := desugar(compScope, node.Field.Body, in, false)
	if err != nil {
		return nil, err
	}

	return &ir.ObjectComp{
		Base:     ir.Base{Sp: node.Sp},
		Locals:   irLocals,
		NameExpr: nameExpr,
		Body:     body,
		Spec:     spec,
	}, nil
}
