package jsonnet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-jsonnet/pkg/jsonnet"
)

func eval(t *testing.T, src string) string {
	t.Helper()
	vm, err := jsonnet.New()
	require.NoError(t, err)
	v, err := vm.EvaluateSnippet("<test>", src)
	require.NoError(t, err)
	out, err := vm.ManifestJSON(v)
	require.NoError(t, err)
	return out
}

func TestEvaluateSnippet_Arithmetic(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		expected string
	}{
		"addition":         {"1 + 2", "3"},
		"string concat":    {"'foo' + 'bar'", `"foobar"`},
		"object compose":   {"{ a: 1 } + { b: 2 }", "{\n   \"a\": 1,\n   \"b\": 2\n}"},
		"array comp":       {"[x * 2 for x in [1, 2, 3]]", "[\n   2,\n   4,\n   6\n]"},
		"local binding":    {"local x = 5; x + 1", "6"},
		"conditional true": {"if 1 < 2 then 'yes' else 'no'", `"yes"`},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, eval(t, tc.input))
		})
	}
}

func TestEvaluateSnippet_ObjectOverride(t *testing.T) {
	t.Parallel()

	const src = `
local Base = { greeting: 'hello', name: 'world' };
Base { name: 'jsonnet' }
`
	out := eval(t, src)
	assert.JSONEq(t, `{"greeting": "hello", "name": "jsonnet"}`, out)
}

func TestEvaluateSnippet_StdFormat(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"a=1, b=2"`, eval(t, `std.format('a=%d, b=%d', [1, 2])`))
}

func TestEvaluateSnippet_StdStringHelpers(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		expected string
	}{
		"trim":        {`std.trim('  hi  ')`, `"hi"`},
		"lstripChars": {`std.lstripChars('xxhi', 'x')`, `"hi"`},
		"member true": {`std.member([1, 2, 3], 2)`, "true"},
		"repeat str":  {`std.repeat('ab', 3)`, `"ababab"`},
		"isEven":      {`std.isEven(4)`, "true"},
		"isOdd":       {`std.isOdd(4)`, "false"},
		"clamp":       {`std.clamp(10, 0, 5)`, "5"},
		"sum":         {`std.sum([1, 2, 3])`, "6"},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, eval(t, tc.input))
		})
	}
}

func TestEvaluateSnippet_ErrorReporting(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New()
	require.NoError(t, err)

	_, everr := vm.EvaluateSnippet("<test>", "local x = 1 +; x")
	require.Error(t, everr)
}

func TestExtVar(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New(jsonnet.WithExtVar("env", "prod"))
	require.NoError(t, err)

	v, everr := vm.EvaluateSnippet("<test>", "std.extVar('env')")
	require.NoError(t, everr)

	out, merr := vm.ManifestJSON(v)
	require.NoError(t, merr)
	assert.Equal(t, `"prod"`, out)
}

func TestExtVarCode(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New(jsonnet.WithExtVarCode("replicas", "2 + 1"))
	require.NoError(t, err)

	v, everr := vm.EvaluateSnippet("<test>", "std.extVar('replicas')")
	require.NoError(t, everr)

	out, merr := vm.ManifestJSON(v)
	require.NoError(t, merr)
	assert.Equal(t, "3", out)
}

func TestEvaluateCall_TopLevelArguments(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New()
	require.NoError(t, err)

	v, everr := vm.EvaluateSnippet("<test>", "function(name='world') 'hello ' + name")
	require.NoError(t, everr)

	fn, ok := v.(*jsonnet.Function)
	require.True(t, ok)

	result, cerr := vm.EvaluateCall(fn, map[string]jsonnet.Value{
		"name": jsonnet.Str{V: "jsonnet"},
	})
	require.NoError(t, cerr)

	out, merr := vm.ManifestJSON(result)
	require.NoError(t, merr)
	assert.Equal(t, `"hello jsonnet"`, out)
}

func TestEvaluateCall_MissingRequiredArgument(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New()
	require.NoError(t, err)

	v, everr := vm.EvaluateSnippet("<test>", "function(name) 'hello ' + name")
	require.NoError(t, everr)

	fn, ok := v.(*jsonnet.Function)
	require.True(t, ok)

	_, cerr := vm.EvaluateCall(fn, map[string]jsonnet.Value{})
	assert.Error(t, cerr)
}

func TestManifestYAML(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New()
	require.NoError(t, err)

	v, everr := vm.EvaluateSnippet("<test>", "{ a: 1, b: [1, 2] }")
	require.NoError(t, everr)

	out, merr := vm.ManifestYAML(v)
	require.NoError(t, merr)
	assert.Contains(t, out, `"a": 1`)
}

func TestManifestString_RequiresStringResult(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New()
	require.NoError(t, err)

	v, everr := vm.EvaluateSnippet("<test>", "{ a: 1 }")
	require.NoError(t, everr)

	_, merr := vm.ManifestString(v)
	assert.Error(t, merr)
}

func TestEvaluateSnippet_InfiniteRecursion(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New()
	require.NoError(t, err)

	_, everr := vm.EvaluateSnippet("<test>", "local x = x; x")
	assert.Error(t, everr)
}

func TestEvaluateSnippet_DivByZero(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"division by zero"`, evalErrorMessage(t, "1 / 0"))
}

func TestEvaluateSnippet_MultiplyOverflow(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"number overflow"`, evalErrorMessage(t, "1e308 * 10"))
}

func TestEvaluateSnippet_SqrtOfNegativeIsNumberNan(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"not a number (NaN) result"`, evalErrorMessage(t, "std.sqrt(-1)"))
}

// evalErrorMessage evaluates src, which must fail, and returns its error
// message quoted the way assert.Equal compares it against a JSON string
// literal for readability in the table above.
func evalErrorMessage(t *testing.T, src string) string {
	t.Helper()
	vm, err := jsonnet.New()
	require.NoError(t, err)
	_, everr := vm.EvaluateSnippet("<test>", src)
	require.Error(t, everr)
	return `"` + everr.Error() + `"`
}

func TestEvaluateSnippet_DeepRecursionCompletesWithoutStackOverflow(t *testing.T) {
	t.Parallel()
	const src = `
local f(x) = if x == 0 then 0 else f(x - 1);
f(100000)
`
	assert.Equal(t, "0", eval(t, src))
}

func TestEvaluateSnippet_SortIsAPermutation(t *testing.T) {
	t.Parallel()
	const src = `
local input = [5, 3, 8, 1, 9, 2, 7, 4, 6, 0];
local sorted = std.sort(input);
std.assertEqual(std.length(sorted), std.length(input)) &&
std.assertEqual(std.set(sorted), std.set(input)) &&
std.assertEqual(sorted, std.sort(sorted))
`
	assert.Equal(t, "true", eval(t, src))
}

func TestEvaluateSnippet_ObjectComposeAssociativity(t *testing.T) {
	t.Parallel()
	const src = `
local a = { x: 1, y: 1 };
local b = { y: 2, z: 2 };
local c = { z: 3, w: 3 };
(a + b) + c == a + (b + c)
`
	assert.Equal(t, "true", eval(t, src))
}

func TestEvaluateSnippet_HiddenFieldStaysHiddenAcrossPlainOverride(t *testing.T) {
	t.Parallel()
	const src = `{ x:: 1 } + { x: 2 }`
	assert.JSONEq(t, "{}", eval(t, src))
}

func TestObjectFieldNamesAndField(t *testing.T) {
	t.Parallel()

	vm, err := jsonnet.New()
	require.NoError(t, err)

	v, everr := vm.EvaluateSnippet("<test>", "{ a: 1, b: 2, c:: 3 }")
	require.NoError(t, everr)

	obj, ok := v.(*jsonnet.Object)
	require.True(t, ok)

	names := vm.ObjectFieldNames(obj, false)
	assert.ElementsMatch(t, []string{"a", "b"}, names)

	field, ferr := vm.ObjectField(obj, "a")
	require.NoError(t, ferr)
	n, ok := field.(jsonnet.Number)
	require.True(t, ok)
	assert.Equal(t, float64(1), n.V)
}
