package bootstrap

import (
	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/semantic/infer"
	"github.com/gusakk/fluxsem/semantic/types"
)

// BuildRecord instantiates every polytype of values and folds them, in
// sorted name order, into a single record type. The kind obligations of
// the instantiated polytypes are returned alongside.
func BuildRecord(values types.PolyTypeMap, f *types.Fresher) (types.MonoType, infer.Constraints) {
	var rec types.MonoType = types.EmptyRecord{}
	cons := infer.Constraints{}
	for name, poly := range values.All() {
		t, c := infer.Instantiate(poly, f, ast.SourceLocation{})
		rec = types.ExtendRecord(name, t, rec)
		cons = cons.Add(c)
	}
	return rec, cons
}

// BuildPolyType turns the bindings of a package into the record type other
// packages import it as, generalized over all of its variables.
func BuildPolyType(values types.PolyTypeMap, f *types.Fresher) (types.PolyType, error) {
	rec, cons := BuildRecord(values, f)
	kinds := types.TvarKinds{}
	sub, err := infer.Solve(cons, kinds, f)
	if err != nil {
		return types.PolyType{}, err
	}
	env := infer.NewEnvironment(types.NewPolyTypeMap()).EnterScope()
	return infer.Generalize(env, kinds, sub.Apply(rec)), nil
}
