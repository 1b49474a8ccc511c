package semantic

import (
	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/semantic/types"
)

type typeConverter struct {
	file  *ast.File
	f     *types.Fresher
	tvars map[string]types.Tvar
}

// ConvertPolyType turns a declared type into a polytype quantified over
// every type variable it names. Each distinct variable name gets a fresh
// Tvar from f.
func ConvertPolyType(file *ast.File, expr *ast.TypeExpression, f *types.Fresher) (types.PolyType, error) {
	c := &typeConverter{file: file, f: f, tvars: map[string]types.Tvar{}}
	mono, err := c.mono(expr.Ty)
	if err != nil {
		return types.PolyType{}, err
	}
	// a variable may be constrained by several clauses
	kinds := types.TvarKinds{}
	for _, con := range expr.Constraints {
		tv, ok := c.tvars[con.Tvar.Name]
		if !ok {
			return types.PolyType{}, fluxerr.UnknownType{Loc: file.Locate(con.Tvar), Name: con.Tvar.Name}
		}
		for _, kindID := range con.Kinds {
			k, ok := types.LookupKind(kindID.Name)
			if !ok {
				return types.PolyType{}, fluxerr.UnknownType{Loc: file.Locate(kindID), Name: kindID.Name}
			}
			kinds[tv] = append(kinds[tv], k)
		}
	}
	for tv, ks := range kinds {
		kinds[tv] = types.NormalKinds(ks)
	}
	vars := types.FreeVars(mono)
	return types.PolyType{Vars: vars, Cons: kinds.Restrict(vars), Expr: mono}, nil
}

func (c *typeConverter) mono(t ast.MonoTypeExpr) (types.MonoType, error) {
	switch t := t.(type) {
	case *ast.NamedType:
		b, ok := types.LookupBasic(t.Name.Name)
		if !ok {
			return nil, fluxerr.UnknownType{Loc: c.file.Locate(t), Name: t.Name.Name}
		}
		return b, nil
	case *ast.TvarType:
		return c.tvar(t.Name.Name), nil
	case *ast.ArrayType:
		elem, err := c.mono(t.Element)
		if err != nil {
			return nil, err
		}
		return &types.Array{Elem: elem}, nil
	case *ast.RecordType:
		var tail types.MonoType = types.EmptyRecord{}
		if t.Tvar != nil {
			tail = c.tvar(t.Tvar.Name)
		}
		fields := make([]types.Property, 0, len(t.Properties))
		for _, prop := range t.Properties {
			ty, err := c.mono(prop.Ty)
			if err != nil {
				return nil, err
			}
			fields = append(fields, types.Property{Label: prop.Name.Name, Type: ty})
		}
		rec := tail
		for i := len(fields) - 1; i >= 0; i-- {
			rec = &types.RecordExtension{Head: fields[i], Tail: rec}
		}
		return rec, nil
	case *ast.FunctionType:
		return c.function(t)
	}
	return nil, fluxerr.Syntax{Loc: c.file.Locate(t), Message: "unsupported type expression"}
}

func (c *typeConverter) tvar(name string) types.Tvar {
	tv, ok := c.tvars[name]
	if !ok {
		tv = c.f.Fresh()
		c.tvars[name] = tv
	}
	return tv
}

func (c *typeConverter) function(t *ast.FunctionType) (types.MonoType, error) {
	fn := &types.Function{}
	seen := map[string]bool{}
	for _, param := range t.Parameters {
		ty, err := c.mono(param.Ty)
		if err != nil {
			return nil, err
		}
		name := types.PipeLabel
		if param.Name != nil {
			name = param.Name.Name
		}
		if seen[name] {
			return nil, fluxerr.Syntax{Loc: c.file.Locate(param), Message: "duplicate parameter " + name}
		}
		seen[name] = true
		switch param.Kind {
		case ast.PipeParameter:
			if fn.Pipe != nil {
				return nil, fluxerr.Syntax{Loc: c.file.Locate(param), Message: "a function may have at most one pipe parameter"}
			}
			fn.Pipe = &types.Property{Label: name, Type: ty}
		case ast.OptionalParameter:
			if fn.Opt == nil {
				fn.Opt = map[string]types.MonoType{}
			}
			fn.Opt[name] = ty
		default:
			if fn.Req == nil {
				fn.Req = map[string]types.MonoType{}
			}
			fn.Req[name] = ty
		}
	}
	retn, err := c.mono(t.Return)
	if err != nil {
		return nil, err
	}
	fn.Retn = retn
	return fn, nil
}
