package ast

// All expression types implement the Expr interface

var (
	_ Expr = (*Identifier)(nil)
	_ Expr = (*IntegerLiteral)(nil)
	_ Expr = (*FloatLiteral)(nil)
	_ Expr = (*StringLiteral)(nil)
	_ Expr = (*BooleanLiteral)(nil)
	_ Expr = (*DurationLiteral)(nil)
	_ Expr = (*ArrayExpression)(nil)
	_ Expr = (*ObjectExpression)(nil)
	_ Expr = (*FunctionExpression)(nil)
	_ Expr = (*CallExpression)(nil)
	_ Expr = (*PipeExpression)(nil)
	_ Expr = (*MemberExpression)(nil)
	_ Expr = (*IndexExpression)(nil)
	_ Expr = (*BinaryExpression)(nil)
	_ Expr = (*UnaryExpression)(nil)
	_ Expr = (*LogicalExpression)(nil)
	_ Expr = (*ConditionalExpression)(nil)
)

// Identifier represents a variable or function name.
type Identifier struct {
	Range
	Name string
}

func (e *Identifier) exprNode() {}

// IntegerLiteral represents a literal integer: `12`.
type IntegerLiteral struct {
	Range
	Value int64
}

func (e *IntegerLiteral) exprNode() {}

// FloatLiteral represents a literal float: `1.5`.
type FloatLiteral struct {
	Range
	Value float64
}

func (e *FloatLiteral) exprNode() {}

// StringLiteral represents a literal string with escapes already resolved.
type StringLiteral struct {
	Range
	Value string
}

func (e *StringLiteral) exprNode() {}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Range
	Value bool
}

func (e *BooleanLiteral) exprNode() {}

// Duration is a single magnitude-unit pair of a DurationLiteral.
type Duration struct {
	Magnitude int64
	Unit      string
}

// DurationLiteral represents a duration such as `1h30m`.
type DurationLiteral struct {
	Range
	Values []Duration
}

func (e *DurationLiteral) exprNode() {}

// ArrayExpression is a list literal: `[a, b, c]`.
type ArrayExpression struct {
	Range
	Elements []Expr
}

func (e *ArrayExpression) exprNode() {}

// Property is a `key: value` pair of a record literal or a call.
// Value is nil for the shorthand `{a}` form, which means `{a: a}`.
type Property struct {
	Range
	Key   *Identifier
	Value Expr
}

// ObjectExpression is a record literal: `{a: 1}` or `{r with a: 1}`.
type ObjectExpression struct {
	Range
	With       *Identifier
	Properties []*Property
}

func (e *ObjectExpression) exprNode() {}

// Parameter of a FunctionExpression. Default is nil for required parameters.
type Parameter struct {
	Range
	Key     *Identifier
	Default Expr
	Pipe    bool
}

// FunctionExpression is `(a, b=1, <-tables) => body`.
// Body is either an Expr or a *Block.
type FunctionExpression struct {
	Range
	Params []*Parameter
	Body   Node
}

func (e *FunctionExpression) exprNode() {}

// CallExpression applies a function to named arguments: `f(a: 1)`.
type CallExpression struct {
	Range
	Callee    Expr
	Arguments []*Property
}

func (e *CallExpression) exprNode() {}

// PipeExpression passes Argument as the pipe argument of Call: `a |> f()`.
type PipeExpression struct {
	Range
	Argument Expr
	Call     *CallExpression
}

func (e *PipeExpression) exprNode() {}

// MemberExpression selects a record field: `r.a` or `r["a"]`.
type MemberExpression struct {
	Range
	Object   Expr
	Property string
}

func (e *MemberExpression) exprNode() {}

// IndexExpression selects an array element: `a[0]`.
type IndexExpression struct {
	Range
	Array Expr
	Index Expr
}

func (e *IndexExpression) exprNode() {}

// BinaryExpression represents a binary operation (a + b, a == b, etc.).
type BinaryExpression struct {
	Range
	Operator Operator
	Left     Expr
	Right    Expr
}

func (e *BinaryExpression) exprNode() {}

// UnaryExpression represents a unary operation (not a, -b, exists r.x).
type UnaryExpression struct {
	Range
	Operator Operator
	Argument Expr
}

func (e *UnaryExpression) exprNode() {}

// LogicalExpression is `a and b` or `a or b`.
type LogicalExpression struct {
	Range
	Operator Operator
	Left     Expr
	Right    Expr
}

func (e *LogicalExpression) exprNode() {}

// ConditionalExpression is `if test then consequent else alternate`.
type ConditionalExpression struct {
	Range
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (e *ConditionalExpression) exprNode() {}

// Operator of binary, unary and logical expressions.
type Operator int

const (
	InvalidOperator Operator = iota
	AdditionOperator
	SubtractionOperator
	MultiplicationOperator
	DivisionOperator
	ModuloOperator
	PowerOperator
	EqualOperator
	NotEqualOperator
	LessThanOperator
	LessThanEqualOperator
	GreaterThanOperator
	GreaterThanEqualOperator
	RegexpMatchOperator
	NotRegexpMatchOperator
	AndOperator
	OrOperator
	NotOperator
	ExistsOperator
)

var operatorNames = [...]string{
	InvalidOperator:          "INVALID",
	AdditionOperator:         "+",
	SubtractionOperator:      "-",
	MultiplicationOperator:   "*",
	DivisionOperator:         "/",
	ModuloOperator:           "%",
	PowerOperator:            "^",
	EqualOperator:            "==",
	NotEqualOperator:         "!=",
	LessThanOperator:         "<",
	LessThanEqualOperator:    "<=",
	GreaterThanOperator:      ">",
	GreaterThanEqualOperator: ">=",
	RegexpMatchOperator:      "=~",
	NotRegexpMatchOperator:   "!~",
	AndOperator:              "and",
	OrOperator:               "or",
	NotOperator:              "not",
	ExistsOperator:           "exists",
}

func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorNames) {
		return operatorNames[InvalidOperator]
	}
	return operatorNames[o]
}
