// Package token defines the lexical token types produced by the Jsonnet
// lexer and consumed by the parser.
package token

import "github.com/cwbudde/go-jsonnet/internal/span"

// Type identifies the lexical category of a Token. Constants are grouped
// the way the teacher groups its own token kinds: special, literals,
// keywords, then operators and punctuation.
type Type int

const (
	// Special tokens.
	ILLEGAL Type = iota
	EOF

	// Literals and identifiers.
	IDENT
	NUMBER
	STRING

	literalEnd

	// Keywords.
	ASSERT
	ELSE
	ERROR
	FALSE
	FOR
	FUNCTION
	IF
	IMPORT
	IMPORTSTR
	IMPORTBIN
	IN
	LOCAL
	NULL
	TAILSTRICT
	THEN
	SELF
	SUPER
	TRUE

	keywordEnd

	// Punctuation.
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	LPAREN   // (
	RPAREN   // )
	SEMICOLON
	COMMA
	DOT
	DOLLAR
	COLON       // :
	DOUBLECOLON // ::
	COLON3      // :::
	PLUSCOLON   // +:
	PLUSCOLON2  // +::
	PLUSCOLON3  // +:::

	// Generic operator token: the lexer accumulates a run of operator
	// bytes and leaves classification of "what operator is this" to the
	// parser for every position except the handful above that are
	// meaningful as fixed punctuation.
	OP
)

var names = map[Type]string{
	ILLEGAL:     "ILLEGAL",
	EOF:         "EOF",
	IDENT:       "IDENT",
	NUMBER:      "NUMBER",
	STRING:      "STRING",
	ASSERT:      "assert",
	ELSE:        "else",
	ERROR:       "error",
	FALSE:       "false",
	FOR:         "for",
	FUNCTION:    "function",
	IF:          "if",
	IMPORT:      "import",
	IMPORTSTR:   "importstr",
	IMPORTBIN:   "importbin",
	IN:          "in",
	LOCAL:       "local",
	NULL:        "null",
	TAILSTRICT:  "tailstrict",
	THEN:        "then",
	SELF:        "self",
	SUPER:       "super",
	TRUE:        "true",
	LBRACE:      "{",
	RBRACE:      "}",
	LBRACKET:    "[",
	RBRACKET:    "]",
	LPAREN:      "(",
	RPAREN:      ")",
	SEMICOLON:   ";",
	COMMA:       ",",
	DOT:         ".",
	DOLLAR:      "$",
	COLON:       ":",
	DOUBLECOLON: "::",
	COLON3:      ":::",
	PLUSCOLON:   "+:",
	PLUSCOLON2:  "+::",
	PLUSCOLON3:  "+:::",
	OP:          "OP",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Keywords maps the literal spelling of every reserved word to its Type.
var Keywords = func() map[string]Type {
	m := make(map[string]Type, keywordEnd-ASSERT)
	for tt := ASSERT; tt < keywordEnd; tt++ {
		m[names[tt]] = tt
	}
	return m
}()

// StringKind distinguishes the surface form a string literal was written
// in, which matters only for diagnostics: by the time the lexer emits a
// Token the escape processing has already happened.
type StringKind int

const (
	StringDouble StringKind = iota
	StringSingle
	VerbatimDouble
	VerbatimSingle
	TextBlock
)

// Token is one lexical unit with its resolved span.
type Token struct {
	Type Type
	// Literal is the decoded value for STRING (post-escape-processing)
	// and the raw spelling for IDENT, keywords, OP and the +: family;
	// other punctuation tokens leave it empty.
	Literal string
	// NumDigits/NumExpAdjust hold a NUMBER token's value as the lexer
	// sees it: a digit string plus an integer exponent adjustment, per
	// spec §4.1. The parser/analyzer converts this to float64.
	NumDigits    string
	NumExpAdjust int
	StringKind   StringKind
	Span         span.Span
}

func (t Token) String() string {
	if t.Type == IDENT || t.Type == STRING {
		return t.Type.String() + "(" + t.Literal + ")"
	}
	return t.Type.String()
}
