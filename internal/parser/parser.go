// Package parser is a hand-written recursive-descent parser implementing
// the precedence table of spec §4.2. Its buffered-token, helper-method
// driving style (cur/peekAt/expect/atOp) follows the teacher's internal/
// parser package.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-jsonnet/internal/ast"
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/span"
	"github.com/cwbudde/go-jsonnet/internal/token"
)

// Parser consumes a pre-lexed token slice and builds an ast.Node tree.
type Parser struct {
	toks     []token.Token
	pos      int
	interner *intern.Table
	mgr      *span.Manager
	ctx      *span.Context
}

// Parse parses the full token stream (which must end in an EOF token)
// into a single root expression.
func Parse(toks []token.Token, interner *intern.Table, mgr *span.Manager, ctx *span.Context) (ast.Node, *errors.ParseError) {
	p := &Parser{toks: toks, interner: interner, mgr: mgr, ctx: ctx}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != token.EOF {
		return nil, p.unexpected([]string{"end of file"})
	}
	return expr, nil
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) describe(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	case token.OP:
		return fmt.Sprintf("operator %q", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Type.String())
	}
}

func (p *Parser) unexpected(expected []string) *errors.ParseError {
	return &errors.ParseError{Span: p.cur().Span, Expected: expected, Actual: p.describe(p.cur())}
}

func (p *Parser) expect(tt token.Type, what string) (token.Token, *errors.ParseError) {
	if p.cur().Type != tt {
		return token.Token{}, p.unexpected([]string{what})
	}
	return p.advance(), nil
}

func (p *Parser) expectOp(op string) *errors.ParseError {
	if p.cur().Type != token.OP || p.cur().Literal != op {
		return p.unexpected([]string{op})
	}
	p.advance()
	return nil
}

func (p *Parser) atOp(op string) bool {
	return p.cur().Type == token.OP && p.cur().Literal == op
}

func (p *Parser) name(lit string) intern.Name { return p.interner.Intern(lit) }

func (p *Parser) spanFrom(start span.Span) span.Span {
	_, s, _ := p.mgr.Resolve(start)
	var e int
	if p.pos > 0 {
		_, _, e = p.mgr.Resolve(p.toks[p.pos-1].Span)
	}
	return p.mgr.Make(p.ctx, s, e)
}

// ---------------------------------------------------------------------
// Precedence table, tightest to loosest (spec §4.2). All levels are
// left-associative.

var precedence = map[string]int{
	"*": 9, "/": 9, "%": 9,
	"+": 8, "-": 8,
	"<<": 7, ">>": 7,
	"<": 6, "<=": 6, ">": 6, ">=": 6, "in": 6,
	"==": 5, "!=": 5,
	"&": 4,
	"^": 3,
	"|": 2,
	"&&": 1,
	"||": 0,
}

var binOps = map[string]ast.BinaryOp{
	"*": ast.BopMul, "/": ast.BopDiv, "%": ast.BopMod,
	"+": ast.BopAdd, "-": ast.BopSub,
	"<<": ast.BopShl, ">>": ast.BopShr,
	"<": ast.BopLt, "<=": ast.BopLe, ">": ast.BopGt, ">=": ast.BopGe,
	"==": ast.BopEq, "!=": ast.BopNe,
	"&": ast.BopBitAnd, "^": ast.BopBitXor, "|": ast.BopBitOr,
	"&&": ast.BopAnd, "||": ast.BopOr,
}

// opLiteral returns the binary operator spelling at the current token, or
// ("", false): either an OP token (general case) or the IN keyword (which
// the lexer emits as its own token type rather than a generic operator).
func (p *Parser) opLiteral() (string, bool) {
	t := p.cur()
	if t.Type == token.OP {
		return t.Literal, true
	}
	if t.Type == token.IN {
		return "in", true
	}
	return "", false
}

// parseExpr parses a full expression, including the prefix forms (local,
// if, function, import*, assert, error) that are not part of the
// operator-precedence grammar.
func (p *Parser) parseExpr() (ast.Node, *errors.ParseError) {
	switch p.cur().Type {
	case token.LOCAL:
		return p.parseLocal()
	case token.IF:
		return p.parseIf()
	case token.FUNCTION:
		return p.parseFunctionLiteral()
	case token.IMPORT, token.IMPORTSTR, token.IMPORTBIN:
		return p.parseImport()
	case token.ASSERT:
		return p.parseAssert()
	case token.ERROR:
		return p.parseErrorExpr()
	default:
		return p.parseBinary(0)
	}
}

func (p *Parser) parseBinary(minPrec int) (ast.Node, *errors.ParseError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		opLit, ok := p.opLiteral()
		if !ok {
			break
		}
		prec, known := precedence[opLit]
		if !known || prec < minPrec {
			break
		}

		start := left.Span()

		if opLit == "in" && p.peekAt(1).Type == token.SUPER &&
			p.peekAt(2).Type != token.DOT && p.peekAt(2).Type != token.LBRACKET {
			p.advance() // in
			p.advance() // super
			left = &ast.InSuper{Base: baseAt(p, start), Index: left}
			continue
		}

		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Base: baseAt(p, start), Left: left, Op: binOps[opLit], Right: right}
	}
	return left, nil
}

func baseAt(p *Parser, start span.Span) ast.Base {
	return ast.Base{Sp: p.spanFrom(start)}
}

func (p *Parser) parseUnary() (ast.Node, *errors.ParseError) {
	if p.cur().Type == token.OP {
		var op ast.UnaryOp
		switch p.cur().Literal {
		case "!":
			op = ast.UopNot
		case "~":
			op = ast.UopBitNot
		case "+":
			op = ast.UopPlus
		case "-":
			op = ast.UopMinus
		default:
			goto postfix
		}
		start := p.cur().Span
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Base: baseAt(p, start), Op: op, Expr: operand}, nil
	}
postfix:
	return p.parsePostfixChain()
}

func (p *Parser) parsePostfixChain() (ast.Node, *errors.ParseError) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		node, err = p.parseOnePostfix(node)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, err
		}
		if !p.hasPostfix() {
			return node, nil
		}
	}
}

func (p *Parser) hasPostfix() bool {
	switch p.cur().Type {
	case token.DOT, token.LBRACKET, token.LPAREN, token.LBRACE:
		return true
	}
	return false
}

func (p *Parser) parseOnePostfix(target ast.Node) (ast.Node, *errors.ParseError) {
	start := target.Span()
	switch p.cur().Type {
	case token.DOT:
		p.advance()
		idTok, err := p.expect(token.IDENT, "field name")
		if err != nil {
			return nil, err
		}
		id := p.name(idTok.Literal)
		return &ast.Index{Base: baseAt(p, start), Target: target, Id: &id}, nil

	case token.LBRACKET:
		p.advance()
		return p.parseIndexOrSlice(target, start)

	case token.LPAREN:
		return p.parseCall(target, start)

	case token.LBRACE:
		obj, err := p.parseObjectLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.ApplyBrace{Base: baseAt(p, start), Left: target, Right: obj}, nil
	}
	return target, nil
}

func (p *Parser) parseIndexOrSlice(target ast.Node, start span.Span) (ast.Node, *errors.ParseError) {
	var begin, end, step ast.Node
	var err *errors.ParseError
	isSlice := false

	if p.cur().Type != token.COLON && p.cur().Type != token.RBRACKET {
		begin, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.cur().Type == token.COLON {
		isSlice = true
		p.advance()
		if p.cur().Type != token.COLON && p.cur().Type != token.RBRACKET {
			end, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if p.cur().Type == token.COLON {
			p.advance()
			if p.cur().Type != token.RBRACKET {
				step, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if _, err := p.expect(token.RBRACKET, "]"); err != nil {
		return nil, err
	}
	if isSlice {
		return &ast.Slice{Base: baseAt(p, start), Target: target, BeginIdx: begin, EndIdx: end, Step: step}, nil
	}
	return &ast.Index{Base: baseAt(p, start), Target: target, Index: begin}, nil
}

func (p *Parser) parseCall(target ast.Node, start span.Span) (ast.Node, *errors.ParseError) {
	p.advance() // (
	var positional []ast.Node
	var named []ast.NamedArg
	seenNamed := false
	for p.cur().Type != token.RPAREN {
		if p.cur().Type == token.IDENT && p.peekAt(1).Type == token.OP && p.peekAt(1).Literal == "=" {
			nameTok := p.advance()
			p.advance() // =
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			named = append(named, ast.NamedArg{Name: p.name(nameTok.Literal), Arg: val})
			seenNamed = true
		} else {
			if seenNamed {
				return nil, p.unexpected([]string{"named argument"})
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			positional = append(positional, val)
		}
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	tailStrict := false
	if p.cur().Type == token.TAILSTRICT {
		tailStrict = true
		p.advance()
	}
	return &ast.Apply{Base: baseAt(p, start), Target: target, Positional: positional, Named: named, TailStrict: tailStrict}, nil
}

func (p *Parser) parsePrimary() (ast.Node, *errors.ParseError) {
	t := p.cur()
	start := t.Span
	switch t.Type {
	case token.NULL:
		p.advance()
		return &ast.LiteralNull{Base: baseAt(p, start)}, nil
	case token.TRUE:
		p.advance()
		return &ast.LiteralBool{Base: baseAt(p, start), Value: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.LiteralBool{Base: baseAt(p, start), Value: false}, nil
	case token.NUMBER:
		p.advance()
		return &ast.LiteralNumber{Base: baseAt(p, start), Digits: t.NumDigits, ExpAdjust: t.NumExpAdjust}, nil
	case token.STRING:
		p.advance()
		return &ast.LiteralString{Base: baseAt(p, start), Value: t.Literal, Kind: ast.StringKind(t.StringKind)}, nil
	case token.SELF:
		p.advance()
		return &ast.Self{Base: baseAt(p, start)}, nil
	case token.DOLLAR:
		p.advance()
		return &ast.TopObject{Base: baseAt(p, start)}, nil
	case token.SUPER:
		p.advance()
		return p.parseSuperSuffix(start)
	case token.IDENT:
		p.advance()
		return &ast.Var{Base: baseAt(p, start), Name: p.name(t.Literal)}, nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.LOCAL, token.IF, token.FUNCTION, token.IMPORT, token.IMPORTSTR, token.IMPORTBIN, token.ASSERT, token.ERROR:
		return p.parseExpr()
	}
	return nil, p.unexpected([]string{"expression"})
}

func (p *Parser) parseSuperSuffix(start span.Span) (ast.Node, *errors.ParseError) {
	switch p.cur().Type {
	case token.DOT:
		p.advance()
		idTok, err := p.expect(token.IDENT, "field name")
		if err != nil {
			return nil, err
		}
		id := p.name(idTok.Literal)
		return &ast.SuperIndex{Base: baseAt(p, start), Id: &id}, nil
	case token.LBRACKET:
		p.advance()
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET, "]"); err != nil {
			return nil, err
		}
		return &ast.SuperIndex{Base: baseAt(p, start), Index: idx}, nil
	}
	return nil, p.unexpected([]string{".", "["})
}

func (p *Parser) parseArrayLiteral() (ast.Node, *errors.ParseError) {
	start := p.cur().Span
	p.advance() // [
	if p.cur().Type == token.RBRACKET {
		p.advance()
		return &ast.Array{Base: baseAt(p, start)}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == token.FOR {
		spec, err := p.parseCompSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET, "]"); err != nil {
			return nil, err
		}
		return &ast.ArrayComp{Base: baseAt(p, start), Body: first, Spec: spec}, nil
	}
	elems := []ast.Node{first}
	for p.cur().Type == token.COMMA {
		p.advance()
		if p.cur().Type == token.RBRACKET {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(token.RBRACKET, "]"); err != nil {
		return nil, err
	}
	return &ast.Array{Base: baseAt(p, start), Elements: elems}, nil
}

// parseCompSpec parses the `for x in e [if c]* (for y in e [if c]*)*`
// clauses of an array or object comprehension (spec §4.4.6).
func (p *Parser) parseCompSpec() (ast.CompSpec, *errors.ParseError) {
	var spec ast.CompSpec
	for p.cur().Type == token.FOR {
		p.advance()
		varTok, err := p.expect(token.IDENT, "loop variable")
		if err != nil {
			return spec, err
		}
		if _, err := p.expect(token.IN, "in"); err != nil {
			return spec, err
		}
		inExpr, err := p.parseExpr()
		if err != nil {
			return spec, err
		}
		clause := ast.ForClause{Var: p.name(varTok.Literal), Expr: inExpr}
		for p.cur().Type == token.IF {
			p.advance()
			cond, err := p.parseExpr()
			if err != nil {
				return spec, err
			}
			clause.Ifs = append(clause.Ifs, cond)
		}
		spec.Fors = append(spec.Fors, clause)
	}
	return spec, nil
}

func (p *Parser) parseLocal() (ast.Node, *errors.ParseError) {
	start := p.cur().Span
	p.advance() // local
	var binds []ast.LocalBind
	for {
		nameTok, err := p.expect(token.IDENT, "identifier")
		if err != nil {
			return nil, err
		}
		var body ast.Node
		if p.cur().Type == token.LPAREN {
			params, err := p.parseParameters()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp("="); err != nil {
				return nil, err
			}
			fnBody, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			body = &ast.Function{Base: baseAt(p, nameTok.Span), Params: params, Body: fnBody}
		} else {
			if err := p.expectOp("="); err != nil {
				return nil, err
			}
			body, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		binds = append(binds, ast.LocalBind{Name: p.name(nameTok.Literal), NameSp: nameTok.Span, Body: body})
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	rest, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Local{Base: baseAt(p, start), Binds: binds, Body: rest}, nil
}

func (p *Parser) parseIf() (ast.Node, *errors.ParseError) {
	start := p.cur().Span
	p.advance() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN, "then"); err != nil {
		return nil, err
	}
	trueBranch, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var falseBranch ast.Node
	if p.cur().Type == token.ELSE {
		p.advance()
		falseBranch, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Base: baseAt(p, start), Cond: cond, True: trueBranch, False: falseBranch}, nil
}

func (p *Parser) parseParameters() (ast.Parameters, *errors.ParseError) {
	var params ast.Parameters
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return params, err
	}
	for p.cur().Type != token.RPAREN {
		nameTok, err := p.expect(token.IDENT, "parameter name")
		if err != nil {
			return params, err
		}
		np := ast.NamedParameter{Name: p.name(nameTok.Literal)}
		if p.atOp("=") {
			p.advance()
			def, err := p.parseExpr()
			if err != nil {
				return params, err
			}
			np.Default = def
		}
		params.Params = append(params.Params, np)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return params, err
	}
	return params, nil
}

func (p *Parser) parseFunctionLiteral() (ast.Node, *errors.ParseError) {
	start := p.cur().Span
	p.advance() // function
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Base: baseAt(p, start), Params: params, Body: body}, nil
}

func (p *Parser) parseImport() (ast.Node, *errors.ParseError) {
	start := p.cur().Span
	kindTok := p.advance()
	var kind ast.ImportKind
	switch kindTok.Type {
	case token.IMPORT:
		kind = ast.ImportCode
	case token.IMPORTSTR:
		kind = ast.ImportString
	case token.IMPORTBIN:
		kind = ast.ImportBinary
	}
	fileExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Import{Base: baseAt(p, start), Kind: kind, File: fileExpr}, nil
}

func (p *Parser) parseAssert() (ast.Node, *errors.ParseError) {
	start := p.cur().Span
	p.advance() // assert
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var msg ast.Node
	if p.cur().Type == token.COLON {
		p.advance()
		msg, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	rest, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assert{Base: baseAt(p, start), Cond: cond, Message: msg, Rest: rest}, nil
}

// fieldSep recognizes the fixed-punctuation family of field separators and
// reports the hide mode and whether it carries a `+` (spec §4.4.5).
func (p *Parser) fieldSep() (hide ast.ObjectFieldHide, plus bool, ok bool) {
	switch p.cur().Type {
	case token.COLON:
		return ast.ObjectFieldInherit, false, true
	case token.DOUBLECOLON:
		return ast.ObjectFieldHidden, false, true
	case token.COLON3:
		return ast.ObjectFieldVisible, false, true
	case token.PLUSCOLON:
		return ast.ObjectFieldInherit, true, true
	case token.PLUSCOLON2:
		return ast.ObjectFieldHidden, true, true
	case token.PLUSCOLON3:
		return ast.ObjectFieldVisible, true, true
	}
	return 0, false, false
}

// parseObjectLiteral parses `{ ... }`, either a plain object (locals,
// asserts, fields) or an object comprehension (spec §4.4.5/§4.4.6). The
// opening LBRACE is the current token on entry.
func (p *Parser) parseObjectLiteral() (ast.Node, *errors.ParseError) {
	start := p.cur().Span
	p.advance() // {

	var leadingLocals []ast.ObjectField
	for p.cur().Type == token.LOCAL {
		local, err := p.parseObjectLocal()
		if err != nil {
			return nil, err
		}
		leadingLocals = append(leadingLocals, local)
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}

	if p.cur().Type == token.LBRACKET {
		if comp, ok, err := p.tryParseObjectComp(start, leadingLocals); ok || err != nil {
			return comp, err
		}
	}

	var fields []ast.ObjectField
	fields = append(fields, leadingLocals...)
	for p.cur().Type != token.RBRACE {
		field, err := p.parseObjectMember()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE, "}"); err != nil {
		return nil, err
	}
	return &ast.Object{Base: baseAt(p, start), Fields: fields}, nil
}

// tryParseObjectComp attempts the comprehension form `[e]: e for ... }`
// after any leading locals. ok is false (with no tokens consumed beyond
// the lookahead) when this is actually a plain computed-name field.
func (p *Parser) tryParseObjectComp(start span.Span, locals []ast.ObjectField) (ast.Node, bool, *errors.ParseError) {
	save := p.pos
	fieldStart := p.cur().Span
	p.advance() // [
	nameExpr, err := p.parseExpr()
	if err != nil {
		p.pos = save
		return nil, false, nil
	}
	if _, err := p.expect(token.RBRACKET, "]"); err != nil {
		p.pos = save
		return nil, false, nil
	}
	if p.cur().Type != token.COLON {
		p.pos = save
		return nil, false, nil
	}
	p.advance()
	body, err := p.parseExpr()
	if err != nil {
		return nil, true, err
	}
	if p.cur().Type != token.FOR {
		p.pos = save
		return nil, false, nil
	}
	spec, err := p.parseCompSpec()
	if err != nil {
		return nil, true, err
	}
	if _, err := p.expect(token.RBRACE, "}"); err != nil {
		return nil, true, err
	}
	field := ast.ObjectField{
		Kind:     ast.ObjectFieldExpr,
		Hide:     ast.ObjectFieldInherit,
		NameExpr: nameExpr,
		Body:     body,
		Sp:       p.spanFrom(fieldStart),
	}
	return &ast.ObjectComp{Base: baseAt(p, start), Locals: locals, Field: field, Spec: spec}, true, nil
}

func (p *Parser) parseObjectLocal() (ast.ObjectField, *errors.ParseError) {
	start := p.cur().Span
	p.advance() // local
	nameTok, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return ast.ObjectField{}, err
	}
	var params *ast.Parameters
	if p.cur().Type == token.LPAREN {
		ps, err := p.parseParameters()
		if err != nil {
			return ast.ObjectField{}, err
		}
		params = &ps
	}
	if err := p.expectOp("="); err != nil {
		return ast.ObjectField{}, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return ast.ObjectField{}, err
	}
	return ast.ObjectField{
		Kind:        ast.ObjectLocal,
		Id:          p.name(nameTok.Literal),
		Params:      params,
		MethodSugar: params != nil,
		Body:        body,
		Sp:          p.spanFrom(start),
	}, nil
}

func (p *Parser) parseObjectMember() (ast.ObjectField, *errors.ParseError) {
	start := p.cur().Span
	switch p.cur().Type {
	case token.LOCAL:
		return p.parseObjectLocal()
	case token.ASSERT:
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return ast.ObjectField{}, err
		}
		var msg ast.Node
		if p.cur().Type == token.COLON {
			p.advance()
			msg, err = p.parseExpr()
			if err != nil {
				return ast.ObjectField{}, err
			}
		}
		return ast.ObjectField{Kind: ast.ObjectAssert, Body: cond, AssertMsg: msg, Sp: p.spanFrom(start)}, nil
	}
	return p.parseFieldMember(start)
}

func (p *Parser) parseFieldMember(start span.Span) (ast.ObjectField, *errors.ParseError) {
	var kind ast.ObjectFieldKind
	var id intern.Name
	var nameExpr ast.Node

	switch p.cur().Type {
	case token.IDENT:
		kind = ast.ObjectFieldID
		id = p.name(p.advance().Literal)
	case token.STRING:
		kind = ast.ObjectFieldStr
		nameExpr = &ast.LiteralString{Base: baseAt(p, start), Value: p.cur().Literal, Kind: ast.StringKind(p.cur().StringKind)}
		p.advance()
	case token.LBRACKET:
		kind = ast.ObjectFieldExpr
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return ast.ObjectField{}, err
		}
		if _, err := p.expect(token.RBRACKET, "]"); err != nil {
			return ast.ObjectField{}, err
		}
		nameExpr = e
	default:
		return ast.ObjectField{}, p.unexpected([]string{"field name"})
	}

	var params *ast.Parameters
	methodSugar := false
	if p.cur().Type == token.LPAREN {
		ps, err := p.parseParameters()
		if err != nil {
			return ast.ObjectField{}, err
		}
		params = &ps
		methodSugar = true
	}

	hide, plus, ok := p.fieldSep()
	if !ok {
		return ast.ObjectField{}, p.unexpected([]string{":", "::", ":::", "+:", "+::", "+:::"})
	}
	p.advance()

	body, err := p.parseExpr()
	if err != nil {
		return ast.ObjectField{}, err
	}

	return ast.ObjectField{
		Kind:        kind,
		Hide:        hide,
		PlusSuper:   plus,
		MethodSugar: methodSugar,
		Params:      params,
		Id:          id,
		NameExpr:    nameExpr,
		Body:        body,
		Sp:          p.spanFrom(start),
	}, nil
}

func (p *Parser) parseErrorExpr() (ast.Node, *errors.ParseError) {
	start := p.cur().Span
	p.advance() // error
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ErrorExpr{Base: baseAt(p, start), Expr: e}, nil
}
