// Package errors defines the load-time and evaluation-time error
// taxonomies (spec §7) and renders them with source context the way the
// teacher's internal/errors package renders CompilerError.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-jsonnet/internal/span"
)

// LexErrorKind enumerates every way the lexer can fail (spec §4.1).
type LexErrorKind int

const (
	InvalidCharacter LexErrorKind = iota
	InvalidUTF8
	UnterminatedBlockComment
	LeadingZero
	MissingFractionDigits
	MissingExponentDigits
	ExponentOverflow
	InvalidStringEscape
	IncompleteUnicodeEscape
	InvalidSurrogatePair
	UnterminatedString
	TextBlockMissingNewline
	TextBlockMissingIndent
	TextBlockBadTermination
)

var lexKindText = map[LexErrorKind]string{
	InvalidCharacter:         "invalid character",
	InvalidUTF8:              "invalid UTF-8 sequence",
	UnterminatedBlockComment: "unterminated block comment",
	LeadingZero:              "numeric literal cannot have leading zero",
	MissingFractionDigits:    "expected digits after decimal point",
	MissingExponentDigits:    "expected digits after exponent",
	ExponentOverflow:         "exponent too large",
	InvalidStringEscape:      "invalid string escape sequence",
	IncompleteUnicodeEscape:  "incomplete unicode escape sequence",
	InvalidSurrogatePair:     "invalid UTF-16 surrogate pair",
	UnterminatedString:       "unterminated string literal",
	TextBlockMissingNewline:  "text block requires a line break after |||",
	TextBlockMissingIndent:   "text block requires leading whitespace on its first line",
	TextBlockBadTermination:  "text block terminated incorrectly",
}

// LexError is the first lexical error encountered; lexing stops there.
type LexError struct {
	Kind LexErrorKind
	Span span.Span
	Msg  string // extra detail, may be empty
}

func (e *LexError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", lexKindText[e.Kind], e.Msg)
	}
	return lexKindText[e.Kind]
}

// ParseError reports an unexpected token.
type ParseError struct {
	Span     span.Span
	Expected []string
	Actual   string
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("unexpected %s", e.Actual)
	}
	return fmt.Sprintf("expected %s but got %s", strings.Join(e.Expected, " or "), e.Actual)
}

// AnalyzeErrorKind enumerates desugar/scope-check failures (spec §4.3).
type AnalyzeErrorKind int

const (
	UnknownVariable AnalyzeErrorKind = iota
	SelfOutsideObject
	SuperOutsideObject
	DollarOutsideObject
	RepeatedLocalName
	RepeatedFieldName
	RepeatedParamName
	PositionalArgAfterNamed
	TextBlockAsImportPath
	ComputedImportPath
)

var analyzeKindText = map[AnalyzeErrorKind]string{
	UnknownVariable:         "unknown variable",
	SelfOutsideObject:       "'self' used outside an object",
	SuperOutsideObject:      "'super' used outside an object",
	DollarOutsideObject:     "'$' used outside an object",
	RepeatedLocalName:       "duplicate local name",
	RepeatedFieldName:       "duplicate field name",
	RepeatedParamName:       "duplicate parameter name",
	PositionalArgAfterNamed: "positional argument after named argument",
	TextBlockAsImportPath:   "import path cannot be a text block",
	ComputedImportPath:      "import path must be a string literal",
}

// AnalyzeError is an error raised while desugaring the AST into IR.
type AnalyzeError struct {
	Kind AnalyzeErrorKind
	Span span.Span
	Name string // identifier involved, when applicable
}

func (e *AnalyzeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", analyzeKindText[e.Kind], e.Name)
	}
	return analyzeKindText[e.Kind]
}

// LoadError wraps whichever stage of the lex/parse/analyze pipeline
// failed, per spec §6's Load-source contract.
type LoadError struct {
	Lex     *LexError
	Parse   *ParseError
	Analyze *AnalyzeError
}

func (e *LoadError) Error() string {
	switch {
	case e.Lex != nil:
		return "lex error: " + e.Lex.Error()
	case e.Parse != nil:
		return "parse error: " + e.Parse.Error()
	case e.Analyze != nil:
		return "analyze error: " + e.Analyze.Error()
	}
	return "load error"
}

// EvalErrorKind enumerates every evaluation-time failure from spec §7.
type EvalErrorKind int

const (
	StackOverflow EvalErrorKind = iota
	InfiniteRecursion

	InvalidIndexedType
	StringIndexIsNotNumber
	ArrayIndexIsNotNumber
	ObjectIndexIsNotString
	FieldOfNonObject
	CondIsNotBool
	CalleeIsNotFunction
	ForSpecValueIsNotArray
	InvalidUnaryOpType
	InvalidBinaryOpTypes

	DivByZero
	NumberNan
	NumberOverflow
	ShiftByNegative
	NumericIndexIsNotValid
	NumericIndexOutOfRange

	UnknownObjectField
	RepeatedFieldNameEval
	FieldNameIsNotString
	SuperWithoutSuperObject

	TooManyCallArgs
	UnknownCallParam
	RepeatedCallParam
	CallParamNotBound

	CompareNullInequality
	CompareBooleanInequality
	CompareObjectInequality
	CompareFunctions
	CompareDifferentTypesInequality

	InvalidBuiltInFuncArgType

	AssertFailed
	AssertEqualFailed
	ExplicitError
	ImportFailed
	UnknownExtVar
	NativeCallFailed

	ManifestFunction
	PrimitiveEqualsNonPrimitive

	Other
)

var evalKindText = map[EvalErrorKind]string{
	StackOverflow:                    "stack overflow",
	InfiniteRecursion:                "infinite recursion detected",
	InvalidIndexedType:               "cannot index this type",
	StringIndexIsNotNumber:           "string index must be a number",
	ArrayIndexIsNotNumber:            "array index must be a number",
	ObjectIndexIsNotString:           "object index must be a string",
	FieldOfNonObject:                 "field access on a non-object",
	CondIsNotBool:                    "condition must be a boolean",
	CalleeIsNotFunction:              "called value is not a function",
	ForSpecValueIsNotArray:           "for clause did not evaluate to an array",
	InvalidUnaryOpType:               "invalid type for unary operator",
	InvalidBinaryOpTypes:             "invalid types for binary operator",
	DivByZero:                        "division by zero",
	NumberNan:                        "not a number (NaN) result",
	NumberOverflow:                   "number overflow",
	ShiftByNegative:                  "shift by a negative amount",
	NumericIndexIsNotValid:           "numeric index is not valid",
	NumericIndexOutOfRange:           "numeric index out of range",
	UnknownObjectField:               "object has no field named this",
	RepeatedFieldNameEval:            "duplicate field name",
	FieldNameIsNotString:             "field name must be a string",
	SuperWithoutSuperObject:          "'super' used without a super object",
	TooManyCallArgs:                  "too many positional arguments",
	UnknownCallParam:                 "unknown named parameter",
	RepeatedCallParam:                "parameter bound more than once",
	CallParamNotBound:                "parameter not bound and has no default",
	CompareNullInequality:            "cannot order null values",
	CompareBooleanInequality:         "cannot order boolean values",
	CompareObjectInequality:          "cannot order object values",
	CompareFunctions:                 "cannot compare function values",
	CompareDifferentTypesInequality:  "cannot order values of different types",
	InvalidBuiltInFuncArgType:        "invalid argument type for built-in function",
	AssertFailed:                     "assertion failed",
	AssertEqualFailed:                "assertion failed: values are not equal",
	ExplicitError:                    "explicit error",
	ImportFailed:                     "import failed",
	UnknownExtVar:                    "unknown external variable",
	NativeCallFailed:                 "native function call failed",
	ManifestFunction:                 "cannot manifest a function value",
	PrimitiveEqualsNonPrimitive:      "cannot compare primitive and non-primitive values",
	Other:                            "error",
}

// TraceFrame is one frame of a stack trace collected by the evaluator
// (spec §4.4.11).
type TraceFrame struct {
	Span   span.Span
	Detail string
}

// EvalError carries a kind, optional message, and the trace collected by
// walking the evaluator's state stack at failure time.
type EvalError struct {
	Kind    EvalErrorKind
	Span    span.Span
	Message string // for Other, and extra detail on any kind
	Trace   []TraceFrame
}

func (e *EvalError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return evalKindText[e.Kind]
}

// Format renders the error plus its trace, one frame per line, innermost
// first. Each frame prints as "line:col<TAB>detail" (just the detail when
// the frame has no span); no source line or caret is printed, and color
// does not change the output.
func (e *EvalError) Format(mgr *span.Manager, color bool) string {
	var sb strings.Builder
	sb.WriteString("RUNTIME ERROR: ")
	sb.WriteString(e.Error())
	sb.WriteByte('\n')
	for i := len(e.Trace) - 1; i >= 0; i-- {
		f := e.Trace[i]
		sb.WriteString("\t")
		if mgr != nil && !f.Span.IsZero() {
			pos := mgr.Start(f.Span)
			fmt.Fprintf(&sb, "%d:%d\t", pos.Line, pos.Column)
		}
		sb.WriteString(f.Detail)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// TruncateTrace truncates the middle of long traces before formatting, per
// spec §4.4.11's "configurable limit".
func TruncateTrace(frames []TraceFrame, limit int) []TraceFrame {
	if limit <= 0 || len(frames) <= limit {
		return frames
	}
	head := limit / 2
	tail := limit - head
	out := make([]TraceFrame, 0, limit+1)
	out = append(out, frames[:head]...)
	out = append(out, TraceFrame{Detail: fmt.Sprintf("... %d frames omitted ...", len(frames)-limit)})
	out = append(out, frames[len(frames)-tail:]...)
	return out
}
