package parser

import (
	"testing"

	"github.com/cwbudde/go-jsonnet/internal/ast"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/lexer"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

func parseSrc(t *testing.T, src string) ast.Node {
	t.Helper()
	in := intern.NewTable()
	mgr := span.NewManager()
	ctx := mgr.NewContext("<test>", src)
	toks, lerr := lexer.Lex(ctx, mgr)
	if lerr != nil {
		t.Fatalf("lex(%q): unexpected error: %v", src, lerr)
	}
	node, perr := Parse(toks, in, mgr, ctx)
	if perr != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", src, perr)
	}
	return node
}

func binOp(n ast.Node) ast.BinaryOp {
	return n.(*ast.Binary).Op
}

func TestParse_PrecedenceTable(t *testing.T) {
	// "1 + 2 * 3" must bind as 1 + (2 * 3): * binds tighter than +.
	n := parseSrc(t, "1 + 2 * 3")
	b := n.(*ast.Binary)
	if b.Op != ast.BopAdd {
		t.Fatalf("top operator = %v, want BopAdd", b.Op)
	}
	if binOp(b.Right) != ast.BopMul {
		t.Fatalf("right operand operator = %v, want BopMul", binOp(b.Right))
	}

	// "1 || 0 && 1" must bind as 1 || (0 && 1): && binds tighter than ||.
	n = parseSrc(t, "1 || 0 && 1")
	b = n.(*ast.Binary)
	if b.Op != ast.BopOr {
		t.Fatalf("top operator = %v, want BopOr", b.Op)
	}
	if binOp(b.Right) != ast.BopAnd {
		t.Fatalf("right operand operator = %v, want BopAnd", binOp(b.Right))
	}

	// "a - b - c" is left-associative: (a - b) - c.
	n = parseSrc(t, "1 - 2 - 3")
	b = n.(*ast.Binary)
	if b.Op != ast.BopSub {
		t.Fatalf("top operator = %v, want BopSub", b.Op)
	}
	if binOp(b.Left) != ast.BopSub {
		t.Fatalf("left operand operator = %v, want BopSub", binOp(b.Left))
	}

	// Comparisons bind tighter than bitwise or (spec §4.2's table), so
	// "1 | 2 < 3" groups as 1 | (2 < 3).
	n = parseSrc(t, "1 | 2 < 3")
	b = n.(*ast.Binary)
	if b.Op != ast.BopBitOr {
		t.Fatalf("top operator = %v, want BopBitOr", b.Op)
	}
	if binOp(b.Right) != ast.BopLt {
		t.Fatalf("right operand operator = %v, want BopLt", binOp(b.Right))
	}
}

func TestParse_UnaryBindsTighterThanBinary(t *testing.T) {
	n := parseSrc(t, "-1 + 2")
	b := n.(*ast.Binary)
	if b.Op != ast.BopAdd {
		t.Fatalf("top operator = %v, want BopAdd", b.Op)
	}
	if _, ok := b.Left.(*ast.Unary); !ok {
		t.Fatalf("left operand = %T, want *ast.Unary", b.Left)
	}
}

func TestParse_LocalFunctionSugar(t *testing.T) {
	n := parseSrc(t, "local f(x) = x + 1; f(2)")
	local := n.(*ast.Local)
	if len(local.Binds) != 1 {
		t.Fatalf("expected one bind, got %d", len(local.Binds))
	}
	if _, ok := local.Binds[0].Body.(*ast.Function); !ok {
		t.Fatalf("bind body = %T, want *ast.Function", local.Binds[0].Body)
	}
}

func TestParse_ObjectFieldSeparators(t *testing.T) {
	n := parseSrc(t, "{ a: 1, b:: 2, c::: 3, d+: 4 }")
	obj := n.(*ast.Object)
	if len(obj.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(obj.Fields))
	}
	want := []ast.ObjectFieldHide{
		ast.ObjectFieldInherit,
		ast.ObjectFieldHidden,
		ast.ObjectFieldVisible,
		ast.ObjectFieldInherit,
	}
	for i, f := range obj.Fields {
		if f.Hide != want[i] {
			t.Fatalf("field %d hide = %v, want %v", i, f.Hide, want[i])
		}
	}
	if !obj.Fields[3].PlusSuper {
		t.Fatalf("field 3 (+:) should have PlusSuper set")
	}
}

func TestParse_SliceVsIndex(t *testing.T) {
	n := parseSrc(t, "a[1:2]")
	if _, ok := n.(*ast.Slice); !ok {
		t.Fatalf("a[1:2] parsed as %T, want *ast.Slice", n)
	}
	n = parseSrc(t, "a[1]")
	if _, ok := n.(*ast.Index); !ok {
		t.Fatalf("a[1] parsed as %T, want *ast.Index", n)
	}
}

func TestParse_UnexpectedTokenError(t *testing.T) {
	in := intern.NewTable()
	mgr := span.NewManager()
	ctx := mgr.NewContext("<test>", "local x = 1 +; x")
	toks, lerr := lexer.Lex(ctx, mgr)
	if lerr != nil {
		t.Fatalf("unexpected lex error: %v", lerr)
	}
	_, perr := Parse(toks, in, mgr, ctx)
	if perr == nil {
		t.Fatalf("expected a parse error")
	}
}
