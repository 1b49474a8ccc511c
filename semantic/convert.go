package semantic

import (
	"fmt"

	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/internal/log"
	"github.com/gusakk/fluxsem/parser"
	"github.com/gusakk/fluxsem/semantic/types"
)

// logger renders ast.Expr attributes as source.
var logger = ast.ExprLogger(log.Section("semantic"))

type converter struct {
	file *ast.File
	f    *types.Fresher
}

func (c *converter) loc(n ast.Positioner) Loc {
	return Loc{c.file.Locate(n)}
}

func (c *converter) syntaxError(n ast.Positioner, format string, args ...any) error {
	return fluxerr.Syntax{Loc: c.file.Locate(n), Message: fmt.Sprintf(format, args...)}
}

// ConvertFile lowers a parsed file. Type variables of builtin declarations
// are allocated from f.
func ConvertFile(file *ast.File, f *types.Fresher) (*File, error) {
	c := &converter{file: file, f: f}
	out := &File{
		Loc:     c.loc(file),
		Name:    file.Name,
		Package: file.PackageName(),
	}
	for _, imp := range file.Imports {
		out.Imports = append(out.Imports, &ImportDeclaration{
			Loc:  c.loc(imp),
			As:   imp.Name(),
			Path: imp.Path.Value,
		})
	}
	for _, stmt := range file.Body {
		if tc, ok := stmt.(*ast.TestCaseStatement); ok {
			logger.Debug("skipping testcase", "file", file.Name, "testcase", tc.ID.Name)
			continue
		}
		converted, err := c.statement(stmt)
		if err != nil {
			return nil, err
		}
		out.Body = append(out.Body, converted)
	}
	return out, nil
}

// ConvertSource parses and lowers a standalone snippet.
func ConvertSource(name, src string, f *types.Fresher) (*File, error) {
	file, err := parser.ParseString(name, src)
	if err != nil {
		return nil, err
	}
	return ConvertFile(file, f)
}

func (c *converter) statement(stmt ast.Stmt) (Statement, error) {
	switch stmt := stmt.(type) {
	case *ast.VariableAssignment:
		return c.variableAssignment(stmt)
	case *ast.OptionStatement:
		var assignment Statement
		switch a := stmt.Assignment.(type) {
		case *ast.VariableAssignment:
			va, err := c.variableAssignment(a)
			if err != nil {
				return nil, err
			}
			assignment = va
		case *ast.MemberAssignment:
			object, ok := a.Member.Object.(*ast.Identifier)
			if !ok {
				return nil, c.syntaxError(a, "option may only set a member of an imported package")
			}
			init, err := c.expr(a.Init)
			if err != nil {
				return nil, err
			}
			assignment = &MemberAssignment{
				Loc:      c.loc(a),
				Object:   object.Name,
				Property: a.Member.Property,
				Init:     init,
			}
		}
		return &OptionStatement{Loc: c.loc(stmt), Assignment: assignment}, nil
	case *ast.BuiltinStatement:
		poly, err := ConvertPolyType(c.file, stmt.Type, c.f)
		if err != nil {
			return nil, err
		}
		return &BuiltinStatement{Loc: c.loc(stmt), ID: stmt.ID.Name, Type: poly}, nil
	case *ast.ExpressionStatement:
		e, err := c.expr(stmt.Expression)
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Loc: c.loc(stmt), Expression: e}, nil
	case *ast.ReturnStatement:
		return nil, c.syntaxError(stmt, "return is only allowed at the end of a function block")
	}
	return nil, c.syntaxError(stmt, "unsupported statement %T", stmt)
}

func (c *converter) variableAssignment(stmt *ast.VariableAssignment) (*VariableAssignment, error) {
	logger.Debug("lowering", "name", stmt.ID.Name, "init", stmt.Init, "loc", c.file.Locate(stmt))
	init, err := c.expr(stmt.Init)
	if err != nil {
		return nil, err
	}
	return &VariableAssignment{Loc: c.loc(stmt), ID: stmt.ID.Name, Init: init}, nil
}

func (c *converter) block(block *ast.Block) (*Block, error) {
	out := &Block{Loc: c.loc(block)}
	for i, stmt := range block.Body {
		last := i == len(block.Body)-1
		switch stmt := stmt.(type) {
		case *ast.ReturnStatement:
			if !last {
				return nil, c.syntaxError(stmt, "return must be the last statement of a block")
			}
			arg, err := c.expr(stmt.Argument)
			if err != nil {
				return nil, err
			}
			out.Body = append(out.Body, &ReturnStatement{Loc: c.loc(stmt), Argument: arg})
		case *ast.VariableAssignment:
			va, err := c.variableAssignment(stmt)
			if err != nil {
				return nil, err
			}
			out.Body = append(out.Body, va)
		case *ast.ExpressionStatement:
			e, err := c.expr(stmt.Expression)
			if err != nil {
				return nil, err
			}
			out.Body = append(out.Body, &ExpressionStatement{Loc: c.loc(stmt), Expression: e})
		default:
			return nil, c.syntaxError(stmt, "statement not allowed in a function block")
		}
	}
	if len(out.Body) == 0 {
		return nil, c.syntaxError(block, "missing return statement in function block")
	}
	if _, ok := out.Body[len(out.Body)-1].(*ReturnStatement); !ok {
		return nil, c.syntaxError(block, "missing return statement in function block")
	}
	return out, nil
}

func (c *converter) exprs(in []ast.Expr) ([]Expression, error) {
	out := make([]Expression, 0, len(in))
	for _, e := range in {
		converted, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func (c *converter) properties(in []*ast.Property) ([]*Property, error) {
	out := make([]*Property, 0, len(in))
	for _, prop := range in {
		p := &Property{Loc: c.loc(prop), Key: prop.Key.Name}
		if prop.Value == nil {
			p.Value = &IdentifierExpression{Loc: c.loc(prop.Key), Name: prop.Key.Name}
		} else {
			v, err := c.expr(prop.Value)
			if err != nil {
				return nil, err
			}
			p.Value = v
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *converter) expr(e ast.Expr) (Expression, error) {
	loc := c.loc(e)
	switch e := e.(type) {
	case *ast.Identifier:
		return &IdentifierExpression{Loc: loc, Name: e.Name}, nil
	case *ast.IntegerLiteral:
		return &IntegerLiteral{Loc: loc, Value: e.Value}, nil
	case *ast.FloatLiteral:
		return &FloatLiteral{Loc: loc, Value: e.Value}, nil
	case *ast.StringLiteral:
		return &StringLiteral{Loc: loc, Value: e.Value}, nil
	case *ast.BooleanLiteral:
		return &BooleanLiteral{Loc: loc, Value: e.Value}, nil
	case *ast.DurationLiteral:
		return &DurationLiteral{Loc: loc, Values: e.Values}, nil
	case *ast.ArrayExpression:
		elems, err := c.exprs(e.Elements)
		if err != nil {
			return nil, err
		}
		return &ArrayExpression{Loc: loc, Elements: elems}, nil
	case *ast.ObjectExpression:
		props, err := c.properties(e.Properties)
		if err != nil {
			return nil, err
		}
		obj := &ObjectExpression{Loc: loc, Properties: props}
		if e.With != nil {
			obj.With = &IdentifierExpression{Loc: c.loc(e.With), Name: e.With.Name}
		}
		return obj, nil
	case *ast.FunctionExpression:
		return c.function(e)
	case *ast.CallExpression:
		return c.call(e, nil)
	case *ast.PipeExpression:
		pipe, err := c.expr(e.Argument)
		if err != nil {
			return nil, err
		}
		call, err := c.call(e.Call, pipe)
		if err != nil {
			return nil, err
		}
		call.Loc = loc
		return call, nil
	case *ast.MemberExpression:
		obj, err := c.expr(e.Object)
		if err != nil {
			return nil, err
		}
		return &MemberExpression{Loc: loc, Object: obj, Property: e.Property}, nil
	case *ast.IndexExpression:
		arr, err := c.expr(e.Array)
		if err != nil {
			return nil, err
		}
		idx, err := c.expr(e.Index)
		if err != nil {
			return nil, err
		}
		return &IndexExpression{Loc: loc, Array: arr, Index: idx}, nil
	case *ast.BinaryExpression:
		left, right, err := c.pair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{Loc: loc, Operator: e.Operator, Left: left, Right: right}, nil
	case *ast.LogicalExpression:
		left, right, err := c.pair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		return &LogicalExpression{Loc: loc, Operator: e.Operator, Left: left, Right: right}, nil
	case *ast.UnaryExpression:
		arg, err := c.expr(e.Argument)
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Loc: loc, Operator: e.Operator, Argument: arg}, nil
	case *ast.ConditionalExpression:
		test, err := c.expr(e.Test)
		if err != nil {
			return nil, err
		}
		cons, alt, err := c.pair(e.Consequent, e.Alternate)
		if err != nil {
			return nil, err
		}
		return &ConditionalExpression{Loc: loc, Test: test, Consequent: cons, Alternate: alt}, nil
	}
	return nil, c.syntaxError(e, "unsupported expression %T", e)
}

func (c *converter) pair(l, r ast.Expr) (Expression, Expression, error) {
	left, err := c.expr(l)
	if err != nil {
		return nil, nil, err
	}
	right, err := c.expr(r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (c *converter) call(e *ast.CallExpression, pipe Expression) (*CallExpression, error) {
	callee, err := c.expr(e.Callee)
	if err != nil {
		return nil, err
	}
	args, err := c.properties(e.Arguments)
	if err != nil {
		return nil, err
	}
	return &CallExpression{Loc: c.loc(e), Callee: callee, Arguments: args, Pipe: pipe}, nil
}

func (c *converter) function(e *ast.FunctionExpression) (*FunctionExpression, error) {
	fn := &FunctionExpression{Loc: c.loc(e)}
	seen := map[string]bool{}
	hasPipe := false
	for _, param := range e.Params {
		if seen[param.Key.Name] {
			return nil, c.syntaxError(param, "duplicate parameter %s", param.Key.Name)
		}
		seen[param.Key.Name] = true
		if param.Pipe {
			if hasPipe {
				return nil, c.syntaxError(param, "a function may have at most one pipe parameter")
			}
			hasPipe = true
		}
		p := &FunctionParameter{Loc: c.loc(param), Key: param.Key.Name, IsPipe: param.Pipe}
		if param.Default != nil {
			def, err := c.expr(param.Default)
			if err != nil {
				return nil, err
			}
			p.Default = def
		}
		fn.Params = append(fn.Params, p)
	}

	switch body := e.Body.(type) {
	case *ast.Block:
		block, err := c.block(body)
		if err != nil {
			return nil, err
		}
		fn.Body = block
	case ast.Expr:
		ret, err := c.expr(body)
		if err != nil {
			return nil, err
		}
		fn.Body = &Block{
			Loc:  c.loc(body),
			Body: []Statement{&ReturnStatement{Loc: c.loc(body), Argument: ret}},
		}
	}
	return fn, nil
}
