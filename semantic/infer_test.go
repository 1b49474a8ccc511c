package semantic

import (
	"errors"
	"testing"

	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/semantic/infer"
	"github.com/gusakk/fluxsem/semantic/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inferSource(t *testing.T, src string, prelude types.PolyTypeMap, importer Importer) (*infer.Environment, error) {
	t.Helper()
	f := types.NewFresher(0)
	file, err := ConvertSource("test.flux", src, f)
	require.NoError(t, err)
	if importer == nil {
		importer = types.NewPolyTypeMap()
	}
	scope, _, err := InferFile(file, infer.NewEnvironment(prelude), f, importer)
	return scope, err
}

func inferTypes(t *testing.T, src string) map[string]string {
	t.Helper()
	scope, err := inferSource(t, src, types.NewPolyTypeMap(), nil)
	require.NoError(t, err)
	out := map[string]string{}
	for name, poly := range scope.Values.All() {
		out[name] = poly.String()
	}
	return out
}

func TestInferBindings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want map[string]string
	}{
		{
			name: "literals",
			src:  `a = 1 b = 1.5 c = "s" d = true e = 1h30m`,
			want: map[string]string{"a": "int", "b": "float", "c": "string", "d": "bool", "e": "duration"},
		},
		{
			name: "identity",
			src:  `f = (x) => x`,
			want: map[string]string{"f": "(x: A) => A"},
		},
		{
			name: "addable",
			src:  `add = (a, b) => a + b`,
			want: map[string]string{"add": "(a: A, b: A) => A where A: Addable"},
		},
		{
			name: "comparable",
			src:  `lt = (a, b) => a < b`,
			want: map[string]string{"lt": "(a: A, b: A) => bool where A: Comparable"},
		},
		{
			name: "record literal and shorthand",
			src: `a = 1
r = {a, b: "x"}`,
			want: map[string]string{"a": "int", "r": "{a: int, b: string}"},
		},
		{
			name: "member access opens the row",
			src:  `get = (r) => r.a`,
			want: map[string]string{"get": "(r: {A with a: B}) => B"},
		},
		{
			name: "member with string index",
			src:  `get = (r) => r["a"]`,
			want: map[string]string{"get": "(r: {A with a: B}) => B"},
		},
		{
			name: "record extension",
			src:  `set = (r) => ({r with x: 1})`,
			want: map[string]string{"set": "(r: A) => {A with x: int} where A: Record"},
		},
		{
			name: "defaults make a parameter optional",
			src: `f = (a, b=1) => a + b
x = f(a: 2)`,
			want: map[string]string{"f": "(a: int, ?b: int) => int", "x": "int"},
		},
		{
			name: "pipe parameter",
			src: `apply = (<-tables, fn) => fn(r: tables)
x = [1] |> apply(fn: (r) => r)`,
			want: map[string]string{
				"apply": "(<-tables: A, fn: (r: A) => B) => B",
				"x":     "[int]",
			},
		},
		{
			name: "named pipe passed as an argument",
			src: `id = (<-tables) => tables
x = id(tables: "s")`,
			want: map[string]string{"id": "(<-tables: A) => A", "x": "string"},
		},
		{
			name: "conditional",
			src:  `f = (a) => if a then 1 else 2`,
			want: map[string]string{"f": "(a: bool) => int"},
		},
		{
			name: "index",
			src:  `first = (arr) => arr[0]`,
			want: map[string]string{"first": "(arr: [A]) => A"},
		},
		{
			name: "regexp match",
			src:  `m = (s, re) => s =~ re`,
			want: map[string]string{"m": "(re: regexp, s: string) => bool"},
		},
		{
			name: "exists",
			src:  `e = (r) => exists r.a`,
			want: map[string]string{"e": "(r: {A with a: B}) => bool where B: Nullable"},
		},
		{
			name: "logical and unary",
			src:  `f = (a, b, n) => not a or b and -n > 0`,
			want: map[string]string{"f": "(a: bool, b: bool, n: int) => bool"},
		},
		{
			name: "let polymorphism in blocks",
			src: `f = (x) => {
    id = (y) => y
    a = id(y: 1)
    b = id(y: "s")
    return x
}`,
			want: map[string]string{"f": "(x: A) => A"},
		},
		{
			name: "builtin polytypes are instantiated at each use",
			src: `builtin identity : (v: A) => A
x = identity(v: "s")
y = identity(v: 1)`,
			want: map[string]string{"identity": "(v: A) => A", "x": "string", "y": "int"},
		},
		{
			name: "option",
			src:  `option now = () => 1`,
			want: map[string]string{"now": "() => int"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferTypes(t, tt.src))
		})
	}
}

func TestInferErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target any
	}{
		{"undefined", `x = y`, &fluxerr.UndefinedIdentifier{}},
		{"no forward visibility", "x = y\ny = 1", &fluxerr.UndefinedIdentifier{}},
		{"mismatch", `x = 1 + "a"`, &fluxerr.TypeMismatch{}},
		{"kind", `x = "a" - "b"`, &fluxerr.CannotConstrain{}},
		{"missing label", `x = {a: 1}.b`, &fluxerr.MissingLabel{}},
		{"array elements", `x = [1, "a"]`, &fluxerr.TypeMismatch{}},
		{"extra argument", "f = (a) => a\nx = f(b: 1)", &fluxerr.ExtraArgument{}},
		{"missing argument", "f = (a) => a\nx = f()", &fluxerr.MissingArgument{}},
		{"unexpected pipe", "f = (x) => x\ny = 1 |> f(x: 1)", &fluxerr.ExtraArgument{}},
		{"missing pipe", "builtin h : (<-: A) => A\nz = h()", &fluxerr.MissingPipeArgument{}},
		{"occurs", `f = (x) => x(x: x)`, &fluxerr.OccursCheck{}},
		{"condition must be bool", `x = if 1 then 1 else 2`, &fluxerr.TypeMismatch{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inferSource(t, tt.src, types.NewPolyTypeMap(), nil)
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.target), "got %T: %v", err, err)
		})
	}
}

func TestInferErrorLocation(t *testing.T) {
	_, err := inferSource(t, "a = 1\nb = a + \"s\"", types.NewPolyTypeMap(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.flux:2:5")
}

func TestInferFileScopeHoldsOnlyOwnBindings(t *testing.T) {
	prelude := types.PolyTypeMapOf(map[string]types.PolyType{
		"one": types.Mono(types.Int),
	})
	importer := types.PolyTypeMapOf(map[string]types.PolyType{
		"my/pkg": types.Mono(types.NewRecord(types.Property{Label: "two", Type: types.Int})),
	})
	scope, err := inferSource(t, "import \"my/pkg\"\nx = one + pkg.two", prelude, importer)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, scope.Values.Keys())

	x, ok := scope.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "int", x.String())
	_, ok = scope.Lookup("one")
	assert.True(t, ok, "prelude is visible through the parent scopes")
}

func TestInferImports(t *testing.T) {
	poly := types.PolyType{
		Vars: []types.Tvar{100},
		Expr: types.NewRecord(
			types.Property{Label: "id", Type: &types.Function{
				Req:  map[string]types.MonoType{"v": types.Tvar(100)},
				Retn: types.Tvar(100),
			}},
			types.Property{Label: "limit", Type: types.Int},
		),
	}
	importer := types.PolyTypeMapOf(map[string]types.PolyType{"my/pkg": poly})

	t.Run("polymorphic members", func(t *testing.T) {
		scope, err := inferSource(t, `import "my/pkg"
a = pkg.id(v: 1)
b = pkg.id(v: "s")`, types.NewPolyTypeMap(), importer)
		require.NoError(t, err)
		a, _ := scope.Lookup("a")
		b, _ := scope.Lookup("b")
		assert.Equal(t, "int", a.String())
		assert.Equal(t, "string", b.String())
	})

	t.Run("alias", func(t *testing.T) {
		scope, err := inferSource(t, `import p "my/pkg"
a = p.limit`, types.NewPolyTypeMap(), importer)
		require.NoError(t, err)
		a, _ := scope.Lookup("a")
		assert.Equal(t, "int", a.String())
	})

	t.Run("missing package", func(t *testing.T) {
		_, err := inferSource(t, `import "nope"`, types.NewPolyTypeMap(), importer)
		var notFound fluxerr.PackageNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "nope", notFound.Package)
	})

	t.Run("option of another package", func(t *testing.T) {
		scope, err := inferSource(t, "import \"my/pkg\"\noption pkg.limit = 10", types.NewPolyTypeMap(), importer)
		require.NoError(t, err)
		assert.Equal(t, 0, scope.Values.Len())

		_, err = inferSource(t, "import \"my/pkg\"\noption pkg.limit = \"x\"", types.NewPolyTypeMap(), importer)
		assert.ErrorAs(t, err, &fluxerr.TypeMismatch{})
	})
}

func TestInferOptionOverride(t *testing.T) {
	prelude := types.PolyTypeMapOf(map[string]types.PolyType{
		"now": types.Mono(&types.Function{Retn: types.Time}),
	})
	_, err := inferSource(t, `option now = () => "x"`, prelude, nil)
	assert.ErrorAs(t, err, &fluxerr.TypeMismatch{})

	_, err = inferSource(t, `option now = () => now()`, prelude, nil)
	assert.NoError(t, err)
}
