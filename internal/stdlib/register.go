package stdlib

import (
	"math"

	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// Register populates ev.Builtins with every native function this
// package defines, plus std.native's dispatcher over natives. The
// facade calls this once per VM before loading std/std.jsonnet, which
// composes the Jsonnet-expressible remainder of the library on top of
// this table via `+`.
func Register(ev *eval.Evaluator, natives *Natives) {
	b := ev.Builtins

	b["type"] = builtinType
	b["length"] = builtinLength
	b["objectHasEx"] = builtinObjectHasEx
	b["objectFieldsEx"] = builtinObjectFieldsEx
	b["primitiveEquals"] = builtinPrimitiveEquals
	b["equals"] = builtinEquals
	b["assertEqual"] = builtinAssertEqual
	b["toString"] = builtinToString
	b["extVar"] = builtinExtVar
	b["thisFile"] = builtinThisFile
	b["trace"] = builtinTrace

	b["isArray"] = isKind[*eval.Array]
	b["isBoolean"] = isKind[eval.Bool]
	b["isFunction"] = isKind[*eval.Function]
	b["isNumber"] = isKind[eval.Number]
	b["isObject"] = isKind[*eval.Object]
	b["isString"] = isKind[eval.Str]

	b["floor"] = unaryMath("floor", math.Floor)
	b["ceil"] = unaryMath("ceil", math.Ceil)
	b["sqrt"] = unaryMath("sqrt", math.Sqrt)
	b["sin"] = unaryMath("sin", math.Sin)
	b["cos"] = unaryMath("cos", math.Cos)
	b["tan"] = unaryMath("tan", math.Tan)
	b["asin"] = unaryMath("asin", math.Asin)
	b["acos"] = unaryMath("acos", math.Acos)
	b["atan"] = unaryMath("atan", math.Atan)
	b["exp"] = unaryMath("exp", math.Exp)
	b["log"] = unaryMath("log", math.Log)
	b["pow"] = builtinPow
	b["modulo"] = builtinModulo
	b["exponent"] = builtinExponent
	b["mantissa"] = builtinMantissa
	b["codepoint"] = builtinCodepoint
	b["char"] = builtinChar
	b["parseInt"] = builtinParseInt
	b["parseOctal"] = builtinParseOctal
	b["parseHex"] = builtinParseHex
	b["parseJson"] = builtinParseJSON
	b["parseYaml"] = builtinParseYAML

	b["format"] = builtinFormat
	b["substr"] = builtinSubstr
	b["findSubstr"] = builtinFindSubstr
	b["startsWith"] = builtinStartsWith
	b["endsWith"] = builtinEndsWith
	b["split"] = builtinSplit
	b["splitLimit"] = builtinSplitLimit
	b["splitLimitR"] = builtinSplitLimitR
	b["strReplace"] = builtinStrReplace
	b["asciiUpper"] = builtinAsciiUpper
	b["asciiLower"] = builtinAsciiLower
	b["equalsIgnoreCase"] = builtinEqualsIgnoreCase
	b["stringChars"] = builtinStringChars
	b["escapeStringJson"] = builtinEscapeStringJSON
	b["escapeStringBash"] = builtinEscapeStringBash
	b["escapeStringDollars"] = builtinEscapeStringDollars
	b["escapeStringXml"] = builtinEscapeStringXML
	b["encodeUTF8"] = builtinEncodeUTF8
	b["decodeUTF8"] = builtinDecodeUTF8

	b["makeArray"] = builtinMakeArray
	b["find"] = builtinFind
	b["filter"] = builtinFilter
	b["map"] = builtinMap
	b["foldl"] = builtinFoldl
	b["foldr"] = builtinFoldr
	b["range"] = builtinRange
	b["slice"] = builtinSlice
	b["join"] = builtinJoin
	b["reverse"] = builtinReverse
	b["all"] = builtinAll
	b["any"] = builtinAny
	b["get"] = builtinGet
	b["mergePatch"] = builtinMergePatch

	b["sort"] = builtinSort
	b["uniq"] = builtinUniq
	b["set"] = builtinSet
	b["setInter"] = builtinSetInter
	b["setUnion"] = builtinSetUnion
	b["setDiff"] = builtinSetDiff
	b["setMember"] = builtinSetMember
	b["__compare"] = builtinCompare
	b["__compare_array"] = builtinCompareArray

	b["base64"] = builtinBase64
	b["base64DecodeBytes"] = builtinBase64DecodeBytes
	b["base64Decode"] = builtinBase64Decode
	b["md5"] = builtinMD5

	b["manifestJsonEx"] = builtinManifestJSONEx
	b["manifestPython"] = builtinManifestPython
	b["manifestYamlDoc"] = builtinManifestYAMLDoc
	b["manifestYamlStream"] = builtinManifestYAMLStream
	b["manifestToml"] = builtinManifestTOML
	b["manifestIni"] = builtinManifestINI
	b["manifestXmlJsonml"] = builtinManifestXMLJsonml

	if natives == nil {
		natives = NewNatives()
	}
	b["native"] = builtinNative(natives)
}

// NativeObject builds the "extra" object std/std.jsonnet composes with
// via `+`: one field per entry of ev.Builtins, each a function value
// whose call forwards straight to the native implementation. Register
// must run first. Field bodies inside std.jsonnet reach these through
// self, exactly as user object literals reach fields contributed by a
// super layer.
func NativeObject(ev *eval.Evaluator) *eval.Object {
	names := make([]string, 0, len(ev.Builtins))
	values := make([]eval.Value, 0, len(ev.Builtins))
	for name, fn := range ev.Builtins {
		fn := fn
		names = append(names, name)
		values = append(values, &eval.Function{Native: func(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, error) {
			v, err := fn(ev, args)
			if err != nil {
				return nil, err
			}
			return v, nil
		}})
	}
	return eval.NewStaticObject(ev.Interner, names, values)
}

// builtinFormat is the `%` operator's formatter exposed as std.format.
func builtinFormat(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	pattern, err := argStr(ev, args, 0, "format")
	if err != nil {
		return nil, err
	}
	v, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	return ev.FormatString(pattern, v, zeroSpan())
}

// builtinCompare and builtinCompareArray expose the evaluator's total
// order (spec §4.4.2's std.sort/std.mergePatch rely on it transitively)
// directly as std.__compare/std.__compare_array, returning the ordering
// as a number; std.jsonnet adds no wrapper around them.
func builtinCompare(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := arg(ev, args, 1)
	if err != nil {
		return nil, err
	}
	ord, cerr := ev.Compare(a, b, zeroSpan())
	if cerr != nil {
		return nil, cerr
	}
	return eval.Number{V: float64(ord)}, nil
}

func builtinCompareArray(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	a, err := argArr(ev, args, 0, "__compare_array")
	if err != nil {
		return nil, err
	}
	bb, err := argArr(ev, args, 1, "__compare_array")
	if err != nil {
		return nil, err
	}
	n := len(a.Elems)
	if len(bb.Elems) < n {
		n = len(bb.Elems)
	}
	for i := 0; i < n; i++ {
		av, ferr := a.Elems[i].Force(ev)
		if ferr != nil {
			return nil, ferr
		}
		bv, ferr := bb.Elems[i].Force(ev)
		if ferr != nil {
			return nil, ferr
		}
		ord, cerr := ev.Compare(av, bv, zeroSpan())
		if cerr != nil {
			return nil, cerr
		}
		if ord != 0 {
			return eval.Number{V: float64(ord)}, nil
		}
	}
	switch {
	case len(a.Elems) < len(bb.Elems):
		return eval.Number{V: -1}, nil
	case len(a.Elems) > len(bb.Elems):
		return eval.Number{V: 1}, nil
	}
	return eval.Number{V: 0}, nil
}
