package semantic

import (
	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/semantic/infer"
	"github.com/gusakk/fluxsem/semantic/types"
)

// Importer resolves an import path to the record type of the package.
// types.PolyTypeMap is an Importer.
type Importer interface {
	Import(path string) (types.PolyType, bool)
}

type inferrer struct {
	u *types.Unifier
	f *types.Fresher
}

// InferFile infers the type of every binding file declares. It returns the
// scope holding the file's own bindings, whose parent scopes hold its
// imports and env, together with the substitution that solved them.
func InferFile(file *File, env *infer.Environment, f *types.Fresher, importer Importer) (*infer.Environment, types.Substitution, error) {
	in := &inferrer{u: types.NewUnifier(types.TvarKinds{}, f), f: f}

	importScope := env.EnterScope()
	for _, imp := range file.Imports {
		poly, ok := importer.Import(imp.Path)
		if !ok {
			return nil, nil, fluxerr.PackageNotFound{Package: imp.Path}
		}
		importScope.Add(imp.As, poly)
	}

	scope := importScope.EnterScope()
	for _, stmt := range file.Body {
		if err := in.statement(stmt, scope); err != nil {
			return nil, nil, err
		}
	}
	scope.Apply(in.u.Sub)
	logger.Debug("inferred file", "file", file.Name, "bindings", scope.Values.Len(), "next_tvar", f.Snapshot())
	return scope, in.u.Sub, nil
}

func (in *inferrer) statement(stmt Statement, env *infer.Environment) error {
	switch stmt := stmt.(type) {
	case *VariableAssignment:
		t, err := in.expr(stmt.Init, env)
		if err != nil {
			return err
		}
		in.bind(env, stmt.ID, t)
	case *OptionStatement:
		return in.option(stmt, env)
	case *BuiltinStatement:
		env.Add(stmt.ID, stmt.Type)
	case *ExpressionStatement:
		_, err := in.expr(stmt.Expression, env)
		return err
	default:
		return fluxerr.Syntax{Loc: stmt.Location(), Message: "unexpected statement"}
	}
	return nil
}

// bind generalizes t against env and binds it to name.
func (in *inferrer) bind(env *infer.Environment, name string, t types.MonoType) {
	env.Apply(in.u.Sub)
	env.Add(name, infer.Generalize(env, in.u.Kinds, in.u.Sub.Apply(t)))
}

func (in *inferrer) option(stmt *OptionStatement, env *infer.Environment) error {
	switch a := stmt.Assignment.(type) {
	case *VariableAssignment:
		t, err := in.expr(a.Init, env)
		if err != nil {
			return err
		}
		if prev, ok := env.Lookup(a.ID); ok {
			prevT, err := in.instantiate(prev, a.Location())
			if err != nil {
				return err
			}
			if err := in.u.Unify(prevT, t, a.Location()); err != nil {
				return err
			}
		}
		in.bind(env, a.ID, t)
	case *MemberAssignment:
		t, err := in.expr(a.Init, env)
		if err != nil {
			return err
		}
		pkg, ok := env.Lookup(a.Object)
		if !ok {
			return fluxerr.UndefinedIdentifier{Loc: a.Location(), Name: a.Object}
		}
		pkgT, err := in.instantiate(pkg, a.Location())
		if err != nil {
			return err
		}
		return in.u.Unify(types.ExtendRecord(a.Property, t, in.f.Fresh()), pkgT, a.Location())
	}
	return nil
}

func (in *inferrer) instantiate(poly types.PolyType, loc ast.SourceLocation) (types.MonoType, error) {
	t, cons := infer.Instantiate(poly, in.f, loc)
	if err := infer.SolveWith(in.u, cons); err != nil {
		return nil, err
	}
	return t, nil
}

func (in *inferrer) expr(e Expression, env *infer.Environment) (types.MonoType, error) {
	loc := e.Location()
	switch e := e.(type) {
	case *IdentifierExpression:
		poly, ok := env.Lookup(e.Name)
		if !ok {
			return nil, fluxerr.UndefinedIdentifier{Loc: loc, Name: e.Name}
		}
		return in.instantiate(poly, loc)
	case *IntegerLiteral:
		return types.Int, nil
	case *FloatLiteral:
		return types.Float, nil
	case *StringLiteral:
		return types.String, nil
	case *BooleanLiteral:
		return types.Bool, nil
	case *DurationLiteral:
		return types.Duration, nil
	case *ArrayExpression:
		var elem types.MonoType = in.f.Fresh()
		for _, el := range e.Elements {
			t, err := in.expr(el, env)
			if err != nil {
				return nil, err
			}
			if err := in.u.Unify(elem, t, el.Location()); err != nil {
				return nil, err
			}
		}
		return &types.Array{Elem: elem}, nil
	case *ObjectExpression:
		return in.object(e, env)
	case *FunctionExpression:
		return in.function(e, env)
	case *CallExpression:
		return in.call(e, env)
	case *MemberExpression:
		obj, err := in.expr(e.Object, env)
		if err != nil {
			return nil, err
		}
		t := in.f.Fresh()
		if err := in.u.Unify(types.ExtendRecord(e.Property, t, in.f.Fresh()), obj, loc); err != nil {
			return nil, err
		}
		return t, nil
	case *IndexExpression:
		arr, err := in.expr(e.Array, env)
		if err != nil {
			return nil, err
		}
		idx, err := in.expr(e.Index, env)
		if err != nil {
			return nil, err
		}
		t := in.f.Fresh()
		if err := in.u.Unify(&types.Array{Elem: t}, arr, loc); err != nil {
			return nil, err
		}
		if err := in.u.Unify(types.Int, idx, e.Index.Location()); err != nil {
			return nil, err
		}
		return t, nil
	case *BinaryExpression:
		return in.binary(e, env)
	case *LogicalExpression:
		for _, operand := range []Expression{e.Left, e.Right} {
			t, err := in.expr(operand, env)
			if err != nil {
				return nil, err
			}
			if err := in.u.Unify(types.Bool, t, operand.Location()); err != nil {
				return nil, err
			}
		}
		return types.Bool, nil
	case *UnaryExpression:
		return in.unary(e, env)
	case *ConditionalExpression:
		test, err := in.expr(e.Test, env)
		if err != nil {
			return nil, err
		}
		if err := in.u.Unify(types.Bool, test, e.Test.Location()); err != nil {
			return nil, err
		}
		cons, err := in.expr(e.Consequent, env)
		if err != nil {
			return nil, err
		}
		alt, err := in.expr(e.Alternate, env)
		if err != nil {
			return nil, err
		}
		if err := in.u.Unify(cons, alt, e.Alternate.Location()); err != nil {
			return nil, err
		}
		return cons, nil
	}
	return nil, fluxerr.Syntax{Loc: loc, Message: "unexpected expression"}
}

func (in *inferrer) object(e *ObjectExpression, env *infer.Environment) (types.MonoType, error) {
	var rec types.MonoType = types.EmptyRecord{}
	if e.With != nil {
		with, err := in.expr(e.With, env)
		if err != nil {
			return nil, err
		}
		if err := in.u.Constrain(with, types.Record, e.With.Location()); err != nil {
			return nil, err
		}
		rec = with
	}
	fields := make([]types.Property, 0, len(e.Properties))
	for _, prop := range e.Properties {
		t, err := in.expr(prop.Value, env)
		if err != nil {
			return nil, err
		}
		fields = append(fields, types.Property{Label: prop.Key, Type: t})
	}
	for i := len(fields) - 1; i >= 0; i-- {
		rec = types.ExtendRecord(fields[i].Label, fields[i].Type, rec)
	}
	return rec, nil
}

func (in *inferrer) function(e *FunctionExpression, env *infer.Environment) (types.MonoType, error) {
	fn := &types.Function{}
	scope := env.EnterScope()
	for _, param := range e.Params {
		tv := in.f.Fresh()
		if param.Default != nil {
			def, err := in.expr(param.Default, env)
			if err != nil {
				return nil, err
			}
			if err := in.u.Unify(tv, def, param.Default.Location()); err != nil {
				return nil, err
			}
		}
		switch {
		case param.IsPipe:
			fn.Pipe = &types.Property{Label: param.Key, Type: tv}
		case param.Default != nil:
			if fn.Opt == nil {
				fn.Opt = map[string]types.MonoType{}
			}
			fn.Opt[param.Key] = tv
		default:
			if fn.Req == nil {
				fn.Req = map[string]types.MonoType{}
			}
			fn.Req[param.Key] = tv
		}
		scope.Add(param.Key, types.Mono(tv))
	}

	for _, stmt := range e.Body.Body {
		switch stmt := stmt.(type) {
		case *VariableAssignment:
			t, err := in.expr(stmt.Init, scope)
			if err != nil {
				return nil, err
			}
			in.bind(scope, stmt.ID, t)
		case *ExpressionStatement:
			if _, err := in.expr(stmt.Expression, scope); err != nil {
				return nil, err
			}
		case *ReturnStatement:
			t, err := in.expr(stmt.Argument, scope)
			if err != nil {
				return nil, err
			}
			fn.Retn = t
		}
	}
	if fn.Retn == nil {
		return nil, fluxerr.Syntax{Loc: e.Body.Location(), Message: "missing return statement in function block"}
	}
	return fn, nil
}

func (in *inferrer) call(e *CallExpression, env *infer.Environment) (types.MonoType, error) {
	callee, err := in.expr(e.Callee, env)
	if err != nil {
		return nil, err
	}
	retn := in.f.Fresh()
	site := &types.Function{Retn: retn}
	if len(e.Arguments) > 0 {
		site.Req = make(map[string]types.MonoType, len(e.Arguments))
	}
	for _, arg := range e.Arguments {
		if _, dup := site.Req[arg.Key]; dup {
			return nil, fluxerr.ExtraArgument{Loc: arg.Location(), Name: arg.Key}
		}
		t, err := in.expr(arg.Value, env)
		if err != nil {
			return nil, err
		}
		site.Req[arg.Key] = t
	}
	if e.Pipe != nil {
		t, err := in.expr(e.Pipe, env)
		if err != nil {
			return nil, err
		}
		site.Pipe = &types.Property{Label: types.PipeLabel, Type: t}
	}
	if err := in.u.Unify(callee, site, e.Location()); err != nil {
		return nil, err
	}
	return retn, nil
}

var operatorKinds = map[ast.Operator]types.Kind{
	ast.AdditionOperator:         types.Addable,
	ast.SubtractionOperator:      types.Subtractable,
	ast.MultiplicationOperator:   types.Divisible,
	ast.DivisionOperator:         types.Divisible,
	ast.ModuloOperator:           types.Numeric,
	ast.PowerOperator:            types.Numeric,
	ast.EqualOperator:            types.Equatable,
	ast.NotEqualOperator:         types.Equatable,
	ast.LessThanOperator:         types.Comparable,
	ast.LessThanEqualOperator:    types.Comparable,
	ast.GreaterThanOperator:      types.Comparable,
	ast.GreaterThanEqualOperator: types.Comparable,
}

func (in *inferrer) binary(e *BinaryExpression, env *infer.Environment) (types.MonoType, error) {
	left, err := in.expr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := in.expr(e.Right, env)
	if err != nil {
		return nil, err
	}
	loc := e.Location()

	switch e.Operator {
	case ast.RegexpMatchOperator, ast.NotRegexpMatchOperator:
		if err := in.u.Unify(types.String, left, e.Left.Location()); err != nil {
			return nil, err
		}
		if err := in.u.Unify(types.Regexp, right, e.Right.Location()); err != nil {
			return nil, err
		}
		return types.Bool, nil
	}

	kind, ok := operatorKinds[e.Operator]
	if !ok {
		return nil, fluxerr.Syntax{Loc: loc, Message: "unsupported binary operator " + e.Operator.String()}
	}
	if err := in.u.Unify(left, right, loc); err != nil {
		return nil, err
	}
	if err := in.u.Constrain(left, kind, loc); err != nil {
		return nil, err
	}
	switch kind {
	case types.Equatable, types.Comparable:
		return types.Bool, nil
	}
	return left, nil
}

func (in *inferrer) unary(e *UnaryExpression, env *infer.Environment) (types.MonoType, error) {
	arg, err := in.expr(e.Argument, env)
	if err != nil {
		return nil, err
	}
	loc := e.Location()
	switch e.Operator {
	case ast.NotOperator:
		if err := in.u.Unify(types.Bool, arg, loc); err != nil {
			return nil, err
		}
		return types.Bool, nil
	case ast.ExistsOperator:
		if err := in.u.Constrain(arg, types.Nullable, loc); err != nil {
			return nil, err
		}
		return types.Bool, nil
	case ast.SubtractionOperator, ast.AdditionOperator:
		if err := in.u.Constrain(arg, types.Negatable, loc); err != nil {
			return nil, err
		}
		return arg, nil
	}
	return nil, fluxerr.Syntax{Loc: loc, Message: "unsupported unary operator " + e.Operator.String()}
}
