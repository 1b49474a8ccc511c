package semantic

import (
	"testing"

	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/semantic/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, src string) *File {
	t.Helper()
	file, err := ConvertSource("test.flux", src, types.NewFresher(0))
	require.NoError(t, err)
	return file
}

func initOf(t *testing.T, file *File, idx int) Expression {
	t.Helper()
	require.Greater(t, len(file.Body), idx)
	va, ok := file.Body[idx].(*VariableAssignment)
	require.True(t, ok, "statement %d is %T", idx, file.Body[idx])
	return va.Init
}

func TestConvertHeader(t *testing.T) {
	file := convert(t, `package foo
import "a/b"
import c "d"
x = 1`)
	assert.Equal(t, "foo", file.Package)
	require.Len(t, file.Imports, 2)
	assert.Equal(t, "b", file.Imports[0].As)
	assert.Equal(t, "a/b", file.Imports[0].Path)
	assert.Equal(t, "c", file.Imports[1].As)
	assert.Equal(t, "d", file.Imports[1].Path)
	assert.Equal(t, 3, file.Imports[1].Location().Start.Line)
}

func TestConvertPipe(t *testing.T) {
	file := convert(t, `x = a |> f(b: 1)`)
	call, ok := initOf(t, file, 0).(*CallExpression)
	require.True(t, ok)
	assert.Equal(t, "f", call.Callee.(*IdentifierExpression).Name)
	assert.Equal(t, "a", call.Pipe.(*IdentifierExpression).Name)
	require.Len(t, call.Arguments, 1)
	assert.Equal(t, "b", call.Arguments[0].Key)
}

func TestConvertShorthandProperty(t *testing.T) {
	file := convert(t, `x = {a, b: 2}`)
	obj, ok := initOf(t, file, 0).(*ObjectExpression)
	require.True(t, ok)
	require.Len(t, obj.Properties, 2)
	id, ok := obj.Properties[0].Value.(*IdentifierExpression)
	require.True(t, ok)
	assert.Equal(t, "a", id.Name)
	assert.IsType(t, &IntegerLiteral{}, obj.Properties[1].Value)
}

func TestConvertExpressionBody(t *testing.T) {
	file := convert(t, `f = (a, b=2, <-t) => a`)
	fn, ok := initOf(t, file, 0).(*FunctionExpression)
	require.True(t, ok)
	require.Len(t, fn.Params, 3)
	assert.Nil(t, fn.Params[0].Default)
	assert.NotNil(t, fn.Params[1].Default)
	assert.True(t, fn.Params[2].IsPipe)

	require.Len(t, fn.Body.Body, 1)
	ret, ok := fn.Body.Body[0].(*ReturnStatement)
	require.True(t, ok)
	assert.Equal(t, "a", ret.Argument.(*IdentifierExpression).Name)
}

func TestConvertDropsTestcases(t *testing.T) {
	file := convert(t, `x = 1
testcase t {
    y = 2
}`)
	assert.Len(t, file.Body, 1)
}

func TestConvertErrors(t *testing.T) {
	tests := map[string]struct {
		src    string
		target any
	}{
		"missing return":     {`f = () => { x = 1 }`, &fluxerr.Syntax{}},
		"early return":       {"f = () => {\nreturn 1\nx = 2\n}", &fluxerr.Syntax{}},
		"two pipes":          {`f = (<-a, <-b) => a`, &fluxerr.Syntax{}},
		"duplicate param":    {`f = (a, a) => a`, &fluxerr.Syntax{}},
		"unknown basic type": {`builtin x : foo`, &fluxerr.UnknownType{}},
		"unknown kind":       {`builtin x : A where A: Funny`, &fluxerr.UnknownType{}},
		"syntax":             {`x = )`, &fluxerr.Parse{}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ConvertSource("test.flux", tt.src, types.NewFresher(0))
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
		})
	}
}

func TestConvertPolyType(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`builtin x : int`, "int"},
		{`builtin x : [string]`, "[string]"},
		{`builtin x : {a: int, b: A}`, "{a: int, b: A}"},
		{`builtin x : {R with a: int}`, "{A with a: int}"},
		{`builtin x : (<-: A, ?n: int) => A where A: Addable`, "(<-: A, ?n: int) => A where A: Addable"},
		{
			`builtin filter : (<-tables: [A], fn: (r: A) => bool) => [A] where A: Record`,
			"(<-tables: [A], fn: (r: A) => bool) => [A] where A: Record",
		},
		{`builtin x : (a: B, b: A) => B where A: Comparable + Equatable`, "(a: A, b: B) => A where B: Comparable + Equatable"},
		{`builtin x : (a: A) => A where A: Equatable + Addable + Equatable, A: Addable`, "(a: A) => A where A: Addable + Equatable"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			file := convert(t, tt.src)
			stmt, ok := file.Body[0].(*BuiltinStatement)
			require.True(t, ok)
			assert.Equal(t, tt.want, stmt.Type.String())
		})
	}
}

func TestConvertPolyTypeUsesFresher(t *testing.T) {
	f := types.NewFresher(10)
	file, err := ConvertSource("test.flux", `builtin x : (a: A, b: B) => A
builtin y : (v: A) => A`, f)
	require.NoError(t, err)

	x := file.Body[0].(*BuiltinStatement).Type
	y := file.Body[1].(*BuiltinStatement).Type
	assert.Equal(t, []types.Tvar{10, 11}, x.Vars)
	assert.Equal(t, []types.Tvar{12}, y.Vars)
	assert.Equal(t, types.Tvar(13), f.Snapshot())
}
