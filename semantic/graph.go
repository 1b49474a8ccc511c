// Package semantic lowers parsed files into a semantic graph and infers the
// types of the values a file declares.
//
// Lowering removes the syntactic sugar of the language: pipe expressions
// become calls with a pipe argument, shorthand properties `{a}` become
// `{a: a}`, expression-bodied functions get a block ending in a return, and
// builtin type expressions become polytypes.
package semantic

import (
	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/semantic/types"
)

type Node interface {
	Location() ast.SourceLocation
}

type Statement interface {
	Node
	stmt()
}

type Expression interface {
	Node
	expr()
}

// Loc is embedded by every node.
type Loc struct {
	ast.SourceLocation
}

func (l Loc) Location() ast.SourceLocation { return l.SourceLocation }

// File is a lowered source file. Package is the name of its package clause,
// if it has one.
type File struct {
	Loc
	Name    string
	Package string
	Imports []*ImportDeclaration
	Body    []Statement
}

type ImportDeclaration struct {
	Loc
	// As is the name the package is bound to in the file
	As   string
	Path string
}

type VariableAssignment struct {
	Loc
	ID   string
	Init Expression
}

// MemberAssignment sets an option of another package: `option pkg.name = e`.
type MemberAssignment struct {
	Loc
	Object   string
	Property string
	Init     Expression
}

type OptionStatement struct {
	Loc
	// Assignment is a *VariableAssignment or a *MemberAssignment
	Assignment Statement
}

type BuiltinStatement struct {
	Loc
	ID   string
	Type types.PolyType
}

type ExpressionStatement struct {
	Loc
	Expression Expression
}

type ReturnStatement struct {
	Loc
	Argument Expression
}

// Block is a function body. Its last statement is always a *ReturnStatement.
type Block struct {
	Loc
	Body []Statement
}

func (*VariableAssignment) stmt()  {}
func (*MemberAssignment) stmt()    {}
func (*OptionStatement) stmt()     {}
func (*BuiltinStatement) stmt()    {}
func (*ExpressionStatement) stmt() {}
func (*ReturnStatement) stmt()     {}

type IdentifierExpression struct {
	Loc
	Name string
}

type IntegerLiteral struct {
	Loc
	Value int64
}

type FloatLiteral struct {
	Loc
	Value float64
}

type StringLiteral struct {
	Loc
	Value string
}

type BooleanLiteral struct {
	Loc
	Value bool
}

type DurationLiteral struct {
	Loc
	Values []ast.Duration
}

type ArrayExpression struct {
	Loc
	Elements []Expression
}

type Property struct {
	Loc
	Key   string
	Value Expression
}

type ObjectExpression struct {
	Loc
	With       *IdentifierExpression
	Properties []*Property
}

type FunctionParameter struct {
	Loc
	Key     string
	Default Expression
	IsPipe  bool
}

type FunctionExpression struct {
	Loc
	Params []*FunctionParameter
	Body   *Block
}

// CallExpression calls Callee with named Arguments. Pipe is the value
// piped into the call with `|>`, or nil.
type CallExpression struct {
	Loc
	Callee    Expression
	Arguments []*Property
	Pipe      Expression
}

type MemberExpression struct {
	Loc
	Object   Expression
	Property string
}

type IndexExpression struct {
	Loc
	Array Expression
	Index Expression
}

type BinaryExpression struct {
	Loc
	Operator ast.Operator
	Left     Expression
	Right    Expression
}

type UnaryExpression struct {
	Loc
	Operator ast.Operator
	Argument Expression
}

type LogicalExpression struct {
	Loc
	Operator ast.Operator
	Left     Expression
	Right    Expression
}

type ConditionalExpression struct {
	Loc
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (*IdentifierExpression) expr()  {}
func (*IntegerLiteral) expr()        {}
func (*FloatLiteral) expr()          {}
func (*StringLiteral) expr()         {}
func (*BooleanLiteral) expr()        {}
func (*DurationLiteral) expr()       {}
func (*ArrayExpression) expr()       {}
func (*ObjectExpression) expr()      {}
func (*FunctionExpression) expr()    {}
func (*CallExpression) expr()        {}
func (*MemberExpression) expr()      {}
func (*IndexExpression) expr()       {}
func (*BinaryExpression) expr()      {}
func (*UnaryExpression) expr()       {}
func (*LogicalExpression) expr()     {}
func (*ConditionalExpression) expr() {}
