package analyzer

import (
	"testing"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/intern"
	"github.com/cwbudde/go-jsonnet/internal/lexer"
	"github.com/cwbudde/go-jsonnet/internal/parser"
	"github.com/cwbudde/go-jsonnet/internal/span"
)

func analyzeSrc(t *testing.T, src string) *errors.AnalyzeError {
	t.Helper()
	in := intern.NewTable()
	mgr := span.NewManager()
	ctx := mgr.NewContext("<test>", src)
	toks, lerr := lexer.Lex(ctx, mgr)
	if lerr != nil {
		t.Fatalf("lex(%q): unexpected error: %v", src, lerr)
	}
	root, perr := parser.Parse(toks, in, mgr, ctx)
	if perr != nil {
		t.Fatalf("parse(%q): unexpected error: %v", src, perr)
	}
	_, aerr := Analyze(root, in)
	return aerr
}

func TestAnalyze_SelfOutsideObject(t *testing.T) {
	err := analyzeSrc(t, "self")
	if err == nil || err.Kind != errors.SelfOutsideObject {
		t.Fatalf("got %v, want SelfOutsideObject", err)
	}
}

func TestAnalyze_SuperOutsideObject(t *testing.T) {
	err := analyzeSrc(t, "super.x")
	if err == nil || err.Kind != errors.SuperOutsideObject {
		t.Fatalf("got %v, want SuperOutsideObject", err)
	}
}

func TestAnalyze_DollarOutsideObject(t *testing.T) {
	err := analyzeSrc(t, "$.x")
	if err == nil || err.Kind != errors.DollarOutsideObject {
		t.Fatalf("got %v, want DollarOutsideObject", err)
	}
}

func TestAnalyze_SelfSuperDollarInsideObjectAreFine(t *testing.T) {
	tcs := []string{
		"{ a: self.b, b: 1 }",
		"{ a: 1 } + { a: super.a + 1 }",
		"{ a: 1, b: $.a }",
	}
	for _, src := range tcs {
		if err := analyzeSrc(t, src); err != nil {
			t.Fatalf("analyzeSrc(%q): unexpected error: %v", src, err)
		}
	}
}

func TestAnalyze_RepeatedLocalName(t *testing.T) {
	err := analyzeSrc(t, "local x = 1, x = 2; x")
	if err == nil || err.Kind != errors.RepeatedLocalName {
		t.Fatalf("got %v, want RepeatedLocalName", err)
	}
}

func TestAnalyze_RepeatedFieldName(t *testing.T) {
	err := analyzeSrc(t, "{ a: 1, a: 2 }")
	if err == nil || err.Kind != errors.RepeatedFieldName {
		t.Fatalf("got %v, want RepeatedFieldName", err)
	}
}

func TestAnalyze_RepeatedParamName(t *testing.T) {
	err := analyzeSrc(t, "function(x, x) x")
	if err == nil || err.Kind != errors.RepeatedParamName {
		t.Fatalf("got %v, want RepeatedParamName", err)
	}
}

func TestAnalyze_UnknownVariable(t *testing.T) {
	err := analyzeSrc(t, "undefinedVar")
	if err == nil || err.Kind != errors.UnknownVariable {
		t.Fatalf("got %v, want UnknownVariable", err)
	}
}

func TestAnalyze_ComputedImportPath(t *testing.T) {
	err := analyzeSrc(t, `local p = "a.jsonnet"; import p`)
	if err == nil || err.Kind != errors.ComputedImportPath {
		t.Fatalf("got %v, want ComputedImportPath", err)
	}
}

func TestAnalyze_ImportLiteralPathIsFine(t *testing.T) {
	if err := analyzeSrc(t, `import "a.jsonnet"`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyze_TextBlockAsImportPath(t *testing.T) {
	err := analyzeSrc(t, "import |||\n  a.jsonnet\n|||")
	if err == nil || err.Kind != errors.TextBlockAsImportPath {
		t.Fatalf("got %v, want TextBlockAsImportPath", err)
	}
}

func TestAnalyze_StdIsImplicitlyBound(t *testing.T) {
	if err := analyzeSrc(t, "std"); err != nil {
		t.Fatalf("unexpected error referencing std: %v", err)
	}
}
