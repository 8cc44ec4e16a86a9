package lexer

import (
	"testing"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/span"
	"github.com/cwbudde/go-jsonnet/internal/token"
)

func lexAll(src string) ([]token.Token, *errors.LexError) {
	mgr := span.NewManager()
	ctx := mgr.NewContext("<test>", src)
	return Lex(ctx, mgr)
}

func TestLex_UTF8StringLiteral(t *testing.T) {
	tcs := []string{
		`"héllo wörld"`,
		`"日本語"`,
		`"emoji 🎉 here"`,
	}
	for _, src := range tcs {
		toks, err := lexAll(src)
		if err != nil {
			t.Fatalf("lexAll(%q): unexpected error: %v", src, err)
		}
		if len(toks) != 2 || toks[0].Type != token.STRING {
			t.Fatalf("lexAll(%q): expected one STRING token, got %v", src, toks)
		}
		want := src[1 : len(src)-1]
		if toks[0].Literal != want {
			t.Fatalf("lexAll(%q): literal = %q, want %q", src, toks[0].Literal, want)
		}
	}
}

func TestLex_UTF8Comment(t *testing.T) {
	toks, err := lexAll("# héllo 日本語\n1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Type != token.NUMBER {
		t.Fatalf("expected [NUMBER EOF], got %v", toks)
	}
}

func TestLex_InvalidUTF8Byte(t *testing.T) {
	_, err := lexAll("\xff")
	if err == nil {
		t.Fatalf("expected an error for an invalid UTF-8 byte")
	}
	if err.Kind != errors.InvalidUTF8 {
		t.Fatalf("got kind %v, want InvalidUTF8", err.Kind)
	}
}

func TestLex_NumericLiterals(t *testing.T) {
	tcs := []struct {
		src       string
		digits    string
		expAdjust int
	}{
		{"0", "0", 0},
		{"123", "123", 0},
		{"3.14", "314", -2},
		{"1e10", "1", 10},
		{"1.5e-3", "15", -4},
		{"2E+2", "2", 2},
	}
	for _, tc := range tcs {
		toks, err := lexAll(tc.src)
		if err != nil {
			t.Fatalf("lexAll(%q): unexpected error: %v", tc.src, err)
		}
		if len(toks) != 2 || toks[0].Type != token.NUMBER {
			t.Fatalf("lexAll(%q): expected a single NUMBER token, got %v", tc.src, toks)
		}
		tok := toks[0]
		if tok.NumDigits != tc.digits || tok.NumExpAdjust != tc.expAdjust {
			t.Fatalf("lexAll(%q) = (%q, %d), want (%q, %d)", tc.src, tok.NumDigits, tok.NumExpAdjust, tc.digits, tc.expAdjust)
		}
	}
}

func TestLex_NumericLiteralErrors(t *testing.T) {
	tcs := []struct {
		src  string
		kind errors.LexErrorKind
	}{
		{"01", errors.LeadingZero},
		{"1.", errors.MissingFractionDigits},
		{"1e", errors.MissingExponentDigits},
		{"1e9999999999", errors.ExponentOverflow},
	}
	for _, tc := range tcs {
		_, err := lexAll(tc.src)
		if err == nil {
			t.Fatalf("lexAll(%q): expected an error", tc.src)
		}
		if err.Kind != tc.kind {
			t.Fatalf("lexAll(%q): got kind %v, want %v", tc.src, err.Kind, tc.kind)
		}
	}
}

func TestLex_Operators(t *testing.T) {
	tcs := []struct {
		src  string
		want token.Type
	}{
		{":", token.COLON},
		{"::", token.DOUBLECOLON},
		{":::", token.COLON3},
		{"+:", token.PLUSCOLON},
		{"+::", token.PLUSCOLON2},
		{"+:::", token.PLUSCOLON3},
		{"$", token.DOLLAR},
	}
	for _, tc := range tcs {
		toks, err := lexAll(tc.src)
		if err != nil {
			t.Fatalf("lexAll(%q): unexpected error: %v", tc.src, err)
		}
		if len(toks) != 2 || toks[0].Type != tc.want {
			t.Fatalf("lexAll(%q) = %v, want [%v EOF]", tc.src, toks, tc.want)
		}
	}
}

func TestLex_OperatorRunSplitsIntoGenericOp(t *testing.T) {
	toks, err := lexAll("a<=b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 4 {
		t.Fatalf("expected [IDENT OP IDENT EOF], got %v", toks)
	}
	if toks[1].Type != token.OP || toks[1].Literal != "<=" {
		t.Fatalf("expected OP(<=), got %v", toks[1])
	}
}

func TestLex_StringEscapes(t *testing.T) {
	toks, err := lexAll(`"a\nb\tc\"d"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\tc\"d"
	if toks[0].Literal != want {
		t.Fatalf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestLex_UnterminatedString(t *testing.T) {
	_, err := lexAll(`"abc`)
	if err == nil || err.Kind != errors.UnterminatedString {
		t.Fatalf("expected UnterminatedString, got %v", err)
	}
}

func TestLex_TextBlockStripsCommonIndent(t *testing.T) {
	src := "|||\n  one\n  two\n|||"
	toks, err := lexAll(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "one\ntwo\n"
	if toks[0].Literal != want {
		t.Fatalf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestLex_VerbatimStringDoublesQuote(t *testing.T) {
	toks, err := lexAll(`@"a""b"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Literal != `a"b` {
		t.Fatalf("got %q, want %q", toks[0].Literal, `a"b`)
	}
}
