package ast

import (
	"strconv"
	"strings"
)

// ExprString renders expr back to source syntax. It is used for logging and
// error messages, so it does not need to round-trip through the parser exactly.
func ExprString(expr Expr) string {
	ctx := newShowContext()
	ctx.showExprWalker(expr, 0)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
	indent    int
	indentStr string
}

func newShowContext() *showContext {
	return &showContext{
		Builder:   &strings.Builder{},
		indentStr: "  ",
		indent:    0,
	}
}

func (ctx *showContext) currentIndent() string {
	return strings.Repeat(ctx.indentStr, ctx.indent)
}

var operatorPrecedence = map[Operator]int{
	OrOperator:               1,
	AndOperator:              2,
	NotOperator:              3,
	EqualOperator:            4,
	NotEqualOperator:         4,
	LessThanOperator:         4,
	LessThanEqualOperator:    4,
	GreaterThanOperator:      4,
	GreaterThanEqualOperator: 4,
	RegexpMatchOperator:      4,
	NotRegexpMatchOperator:   4,
	AdditionOperator:         5,
	SubtractionOperator:      5,
	MultiplicationOperator:   6,
	DivisionOperator:         6,
	ModuloOperator:           6,
	PowerOperator:            7,
	ExistsOperator:           3,
}

// Precedence of an operator when used in a binary or logical expression,
// higher binds tighter.
func (o Operator) Precedence() int {
	return operatorPrecedence[o]
}

const (
	unaryPrecedence   = 8
	postfixPrecedence = 10
)

func (ctx *showContext) showExprWalker(expr Expr, outerPrecedence int) {
	if expr == nil {
		ctx.WriteString("nil")
		return
	}
	switch expr := expr.(type) {
	case *Identifier:
		ctx.WriteString(expr.Name)
	case *IntegerLiteral:
		ctx.WriteString(strconv.FormatInt(expr.Value, 10))
	case *FloatLiteral:
		s := strconv.FormatFloat(expr.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		ctx.WriteString(s)
	case *StringLiteral:
		ctx.WriteString(strconv.Quote(expr.Value))
	case *BooleanLiteral:
		ctx.WriteString(strconv.FormatBool(expr.Value))
	case *DurationLiteral:
		for _, d := range expr.Values {
			ctx.WriteString(strconv.FormatInt(d.Magnitude, 10))
			ctx.WriteString(d.Unit)
		}
	case *ArrayExpression:
		ctx.WriteString("[")
		for i, el := range expr.Elements {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.showExprWalker(el, 0)
		}
		ctx.WriteString("]")
	case *ObjectExpression:
		ctx.WriteString("{")
		if expr.With != nil {
			ctx.WriteString(expr.With.Name)
			ctx.WriteString(" with ")
		}
		ctx.showProperties(expr.Properties)
		ctx.WriteString("}")
	case *FunctionExpression:
		if outerPrecedence > 0 {
			ctx.WriteString("(")
			defer ctx.WriteString(")")
		}
		ctx.WriteString("(")
		for i, param := range expr.Params {
			if i > 0 {
				ctx.WriteString(", ")
			}
			if param.Pipe {
				ctx.WriteString("<-")
			}
			ctx.WriteString(param.Key.Name)
			if param.Default != nil {
				ctx.WriteString("=")
				ctx.showExprWalker(param.Default, 0)
			}
		}
		ctx.WriteString(") => ")
		switch body := expr.Body.(type) {
		case *Block:
			ctx.showBlock(body)
		case Expr:
			ctx.showExprWalker(body, 0)
		}
	case *CallExpression:
		ctx.showExprWalker(expr.Callee, postfixPrecedence)
		ctx.WriteString("(")
		ctx.showProperties(expr.Arguments)
		ctx.WriteString(")")
	case *PipeExpression:
		ctx.showExprWalker(expr.Argument, postfixPrecedence)
		ctx.WriteString(" |> ")
		ctx.showExprWalker(expr.Call, postfixPrecedence)
	case *MemberExpression:
		ctx.showExprWalker(expr.Object, postfixPrecedence)
		ctx.WriteString(".")
		ctx.WriteString(expr.Property)
	case *IndexExpression:
		ctx.showExprWalker(expr.Array, postfixPrecedence)
		ctx.WriteString("[")
		ctx.showExprWalker(expr.Index, 0)
		ctx.WriteString("]")
	case *BinaryExpression:
		ctx.showInfix(expr.Operator, expr.Left, expr.Right, outerPrecedence)
	case *LogicalExpression:
		ctx.showInfix(expr.Operator, expr.Left, expr.Right, outerPrecedence)
	case *UnaryExpression:
		p := unaryPrecedence
		if expr.Operator == NotOperator || expr.Operator == ExistsOperator {
			p = expr.Operator.Precedence()
		}
		if outerPrecedence > p {
			ctx.WriteString("(")
			defer ctx.WriteString(")")
		}
		ctx.WriteString(expr.Operator.String())
		if p != unaryPrecedence {
			ctx.WriteString(" ")
		}
		ctx.showExprWalker(expr.Argument, p+1)
	case *ConditionalExpression:
		if outerPrecedence > 0 {
			ctx.WriteString("(")
			defer ctx.WriteString(")")
		}
		ctx.WriteString("if ")
		ctx.showExprWalker(expr.Test, 0)
		ctx.WriteString(" then ")
		ctx.showExprWalker(expr.Consequent, 0)
		ctx.WriteString(" else ")
		ctx.showExprWalker(expr.Alternate, 0)
	}
}

func (ctx *showContext) showInfix(op Operator, left, right Expr, outerPrecedence int) {
	p := op.Precedence()
	if outerPrecedence > p {
		ctx.WriteString("(")
		defer ctx.WriteString(")")
	}
	ctx.showExprWalker(left, p)
	ctx.WriteString(" ")
	ctx.WriteString(op.String())
	ctx.WriteString(" ")
	// operators are left associative
	ctx.showExprWalker(right, p+1)
}

func (ctx *showContext) showProperties(props []*Property) {
	for i, prop := range props {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.WriteString(prop.Key.Name)
		if prop.Value != nil {
			ctx.WriteString(": ")
			ctx.showExprWalker(prop.Value, 0)
		}
	}
}

func (ctx *showContext) showBlock(block *Block) {
	ctx.WriteString("{\n")
	ctx.indent++
	for _, stmt := range block.Body {
		ctx.WriteString(ctx.currentIndent())
		switch stmt := stmt.(type) {
		case *VariableAssignment:
			ctx.WriteString(stmt.ID.Name)
			ctx.WriteString(" = ")
			ctx.showExprWalker(stmt.Init, 0)
		case *ReturnStatement:
			ctx.WriteString("return ")
			ctx.showExprWalker(stmt.Argument, 0)
		case *ExpressionStatement:
			ctx.showExprWalker(stmt.Expression, 0)
		}
		ctx.WriteString("\n")
	}
	ctx.indent--
	ctx.WriteString(ctx.currentIndent())
	ctx.WriteString("}")
}
