package parser_test

import (
	"errors"
	"testing"

	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParse(t *testing.T, input string) *ast.File {
	f, err := parser.ParseString("test.flux", input)
	require.NoError(t, err)
	return f
}

func TestNoPanics(t *testing.T) {
	files := map[string]string{
		"empty program":          ``,
		"only package":           `package main`,
		"dangling assignment":    "package main\nx =",
		"dangling operator":      "x = 1 +",
		"unterminated string":    `x = "abc`,
		"unclosed function":      `f = (a, b => a`,
		"unclosed block":         `f = () => { return 1`,
		"builtin without type":   `builtin x:`,
		"bad duration":           `d = 1hx`,
		"pipe into non-call":     `x = a |> b`,
		"return at top level":    `return 1`,
		"stray closing brackets": `) ] }`,
	}

	for name, file := range files {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _ = parser.ParseString("test.flux", file)
			})
		})
	}
}

func TestPackageClause(t *testing.T) {
	f := testParse(t, `
// Package strings provides functions
// to operate on strings.
package strings
`)
	assert.Equal(t, "strings", f.PackageName())
	require.NotNil(t, f.Package)
	assert.Equal(t, " Package strings provides functions\n to operate on strings.\n", ast.CommentText(f.Package.Comments))
}

func TestNoPackageClause(t *testing.T) {
	f := testParse(t, `x = 1`)
	assert.Equal(t, "", f.PackageName())
	assert.Len(t, f.Body, 1)
}

func TestImports(t *testing.T) {
	f := testParse(t, `
package main

import "strings"
import r "regexp"
import "influxdata/influxdb/v1"
`)
	require.Len(t, f.Imports, 3)
	assert.Equal(t, []string{"strings", "regexp", "influxdata/influxdb/v1"}, f.ImportPaths())
	assert.Equal(t, "strings", f.Imports[0].Name())
	assert.Equal(t, "r", f.Imports[1].Name())
	assert.Equal(t, "v1", f.Imports[2].Name())
}

func TestVariableAssignment(t *testing.T) {
	f := testParse(t, `
// x is one
x = 1
`)
	require.Len(t, f.Body, 1)
	assign, ok := f.Body[0].(*ast.VariableAssignment)
	require.True(t, ok)
	assert.Equal(t, "x", assign.ID.Name)
	assert.Equal(t, &ast.IntegerLiteral{Range: assign.Init.(*ast.IntegerLiteral).Range, Value: 1}, assign.Init)
	assert.Equal(t, " x is one\n", ast.CommentText(assign.Comments))
}

func TestCommentsAttachToNextStatementOnly(t *testing.T) {
	f := testParse(t, `
// first
a = 1
b = 2
`)
	require.Len(t, f.Body, 2)
	assert.Len(t, f.Body[0].(*ast.VariableAssignment).Comments, 1)
	assert.Empty(t, f.Body[1].(*ast.VariableAssignment).Comments)
}

func TestBuiltin(t *testing.T) {
	f := testParse(t, `
// sum adds things.
builtin sum : (<-tables: [A], ?column: string, n: int) => {B with _value: A} where A: Addable + Comparable, B: Record
`)
	require.Len(t, f.Body, 1)
	stmt, ok := f.Body[0].(*ast.BuiltinStatement)
	require.True(t, ok)
	assert.Equal(t, "sum", stmt.ID.Name)
	assert.Equal(t, " sum adds things.\n", ast.CommentText(stmt.Comments))

	fn, ok := stmt.Type.Ty.(*ast.FunctionType)
	require.True(t, ok)
	require.Len(t, fn.Parameters, 3)
	assert.Equal(t, ast.PipeParameter, fn.Parameters[0].Kind)
	assert.Equal(t, "tables", fn.Parameters[0].Name.Name)
	assert.IsType(t, &ast.ArrayType{}, fn.Parameters[0].Ty)
	assert.Equal(t, ast.OptionalParameter, fn.Parameters[1].Kind)
	assert.Equal(t, "column", fn.Parameters[1].Name.Name)
	assert.Equal(t, ast.RequiredParameter, fn.Parameters[2].Kind)

	rec, ok := fn.Return.(*ast.RecordType)
	require.True(t, ok)
	require.NotNil(t, rec.Tvar)
	assert.Equal(t, "B", rec.Tvar.Name)
	require.Len(t, rec.Properties, 1)
	assert.Equal(t, "_value", rec.Properties[0].Name.Name)
	assert.IsType(t, &ast.TvarType{}, rec.Properties[0].Ty)

	require.Len(t, stmt.Type.Constraints, 2)
	assert.Equal(t, "A", stmt.Type.Constraints[0].Tvar.Name)
	require.Len(t, stmt.Type.Constraints[0].Kinds, 2)
	assert.Equal(t, "Comparable", stmt.Type.Constraints[0].Kinds[1].Name)
	assert.Equal(t, "Record", stmt.Type.Constraints[1].Kinds[0].Name)
}

func TestAnonymousPipeParameter(t *testing.T) {
	f := testParse(t, `builtin f: (<-: A) => A`)
	fn := f.Body[0].(*ast.BuiltinStatement).Type.Ty.(*ast.FunctionType)
	require.Len(t, fn.Parameters, 1)
	assert.Equal(t, ast.PipeParameter, fn.Parameters[0].Kind)
	assert.Nil(t, fn.Parameters[0].Name)
}

func TestOptionStatements(t *testing.T) {
	f := testParse(t, `
option now = () => 1
option http.timeout = 10s
`)
	require.Len(t, f.Body, 2)
	opt, ok := f.Body[0].(*ast.OptionStatement)
	require.True(t, ok)
	assert.IsType(t, &ast.VariableAssignment{}, opt.Assignment)

	opt, ok = f.Body[1].(*ast.OptionStatement)
	require.True(t, ok)
	member, ok := opt.Assignment.(*ast.MemberAssignment)
	require.True(t, ok)
	assert.Equal(t, "timeout", member.Member.Property)
	assert.Equal(t, []ast.Duration{{Magnitude: 10, Unit: "s"}}, member.Init.(*ast.DurationLiteral).Values)
}

func TestExpressions(t *testing.T) {
	tests := map[string]string{
		"1 + 2 * 3":                       "1 + 2 * 3",
		"(1 + 2) * 3":                     "(1 + 2) * 3",
		"a - b - c":                       "a - b - c",
		"a - (b - c)":                     "a - (b - c)",
		"not a == b and c or d":           "not a == b and c or d",
		"-x.y":                            "-x.y",
		"r[\"a\"]":                        "r.a",
		"arr[0]":                          "arr[0]",
		"f(a: 1, b)":                      "f(a: 1, b)",
		"tables |> filter(fn: (r) => r._value > 0)": "tables |> filter(fn: (r) => r._value > 0)",
		"(x, y=1, <-t) => x":              "(x, y=1, <-t) => x",
		"{r with a: 1, b: \"s\"}":         "{r with a: 1, b: \"s\"}",
		"[1, 2, 3,]":                      "[1, 2, 3]",
		"if a then 1 else 2":              "if a then 1 else 2",
		"1h30m":                           "1h30m",
		"1.5":                             "1.5",
		"exists r.a":                      "exists r.a",
		"s =~ re":                         "s =~ re",
		"true":                            "true",
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			f := testParse(t, "x = "+input)
			require.Len(t, f.Body, 1)
			assign := f.Body[0].(*ast.VariableAssignment)
			assert.Equal(t, expected, ast.ExprString(assign.Init))
		})
	}
}

func TestFunctionBlock(t *testing.T) {
	f := testParse(t, `
f = (x) => {
	y = x + 1
	return y
}
`)
	fn, ok := f.Body[0].(*ast.VariableAssignment).Init.(*ast.FunctionExpression)
	require.True(t, ok)
	block, ok := fn.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Body, 2)
	assert.IsType(t, &ast.VariableAssignment{}, block.Body[0])
	assert.IsType(t, &ast.ReturnStatement{}, block.Body[1])
}

func TestTestCase(t *testing.T) {
	f := testParse(t, `
testcase addition {
	x = 1 + 1
}
`)
	require.Len(t, f.Body, 1)
	tc, ok := f.Body[0].(*ast.TestCaseStatement)
	require.True(t, ok)
	assert.Equal(t, "addition", tc.ID.Name)
}

func TestPositions(t *testing.T) {
	f := testParse(t, "package a\n\nxs = [1, 2]\n")
	assign := f.Body[0].(*ast.VariableAssignment)
	loc := f.Locate(assign)
	assert.Equal(t, "test.flux", loc.File)
	assert.Equal(t, 3, loc.Start.Line)
	assert.Equal(t, 1, loc.Start.Column)
	assert.Equal(t, 3, loc.End.Line)
	assert.Equal(t, 12, loc.End.Column)
	assert.Equal(t, "test.flux:3:1-3:12", loc.String())
}

func TestSyntaxErrors(t *testing.T) {
	_, err := parser.ParseString("bad.flux", "package a\nx = )\ny = 2\nz = (\n")
	require.Error(t, err)

	var parseErr fluxerr.Parse
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "bad.flux", parseErr.File)
	require.Len(t, parseErr.Errors, 2)
	assert.Contains(t, parseErr.Errors[0].Error(), "bad.flux:2:5")
	assert.Contains(t, parseErr.Errors[1].Error(), "bad.flux:4:")
}

func TestRecoveryKeepsLaterStatements(t *testing.T) {
	f, err := parser.ParseString("bad.flux", "x = )\ny = 2\n")
	require.Error(t, err)
	require.Len(t, f.Body, 1)
	assert.Equal(t, "y", f.Body[0].(*ast.VariableAssignment).ID.Name)
}
