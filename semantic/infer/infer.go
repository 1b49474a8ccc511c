// Package infer holds the generic parts of Hindley-Milner inference:
// constraints, instantiation, solving, generalization and the scoped
// environment inference runs in.
package infer

import (
	"log/slog"

	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/internal/log"
	"github.com/gusakk/fluxsem/semantic/types"
	"github.com/hashicorp/go-set/v3"
)

var logger = log.Section("semantic.infer")

// Constraint is either an Equal or a Kind obligation.
type Constraint interface {
	Location() ast.SourceLocation
	constraint()
}

// Equal requires Act to be the same type as Exp.
type Equal struct {
	Exp types.MonoType
	Act types.MonoType
	Loc ast.SourceLocation
}

func (c Equal) Location() ast.SourceLocation { return c.Loc }
func (Equal) constraint()                    {}

// Kind requires Act to belong to the kind Exp.
type Kind struct {
	Exp types.Kind
	Act types.MonoType
	Loc ast.SourceLocation
}

func (c Kind) Location() ast.SourceLocation { return c.Loc }
func (Kind) constraint()                    {}

// Constraints is an ordered collection of obligations. The zero value is
// empty.
type Constraints struct {
	list []Constraint
}

func NewConstraints(cs ...Constraint) Constraints {
	return Constraints{list: cs}
}

// Add concatenates two collections, keeping the order of c before other.
func (c Constraints) Add(other Constraints) Constraints {
	if len(other.list) == 0 {
		return c
	}
	if len(c.list) == 0 {
		return other
	}
	out := make([]Constraint, 0, len(c.list)+len(other.list))
	out = append(out, c.list...)
	return Constraints{list: append(out, other.list...)}
}

func (c Constraints) Len() int             { return len(c.list) }
func (c Constraints) List() []Constraint   { return c.list }
func (c Constraints) LogValue() slog.Value { return slog.IntValue(len(c.list)) }

// Instantiate replaces each quantified variable of poly with a fresh one and
// returns the kind constraints of the quantified variables as obligations on
// their replacements.
func Instantiate(poly types.PolyType, f *types.Fresher, loc ast.SourceLocation) (types.MonoType, Constraints) {
	if len(poly.Vars) == 0 {
		return poly.Expr, Constraints{}
	}
	sub := make(types.Substitution, len(poly.Vars))
	var cons []Constraint
	for _, tv := range poly.Vars {
		fresh := f.Fresh()
		sub[tv] = fresh
		for _, k := range poly.Cons[tv] {
			cons = append(cons, Kind{Exp: k, Act: fresh, Loc: loc})
		}
	}
	return sub.Apply(poly.Expr), Constraints{list: cons}
}

// Solve unifies every constraint in order, failing on the first one that
// cannot be satisfied. Kinds of variables left unbound are recorded in kinds.
func Solve(cons Constraints, kinds types.TvarKinds, f *types.Fresher) (types.Substitution, error) {
	u := types.NewUnifier(kinds, f)
	if err := SolveWith(u, cons); err != nil {
		return nil, err
	}
	return u.Sub, nil
}

// SolveWith solves cons on top of the state u already holds.
func SolveWith(u *types.Unifier, cons Constraints) error {
	for _, c := range cons.list {
		var err error
		switch c := c.(type) {
		case Equal:
			err = u.Unify(c.Exp, c.Act, c.Loc)
		case Kind:
			err = u.Constrain(c.Act, c.Exp, c.Loc)
		}
		if err != nil {
			logger.Debug("unsatisfiable constraint", "constraint", c, "err", err)
			return err
		}
	}
	return nil
}

// Generalize quantifies t over its variables that are not free in env. The
// kinds of those variables become the constraints of the polytype.
func Generalize(env *Environment, kinds types.TvarKinds, t types.MonoType) types.PolyType {
	envVars := set.New[types.Tvar](0)
	if env != nil {
		envVars = env.FreeVars()
	}
	var vars []types.Tvar
	for _, tv := range types.FreeVars(t) {
		if !envVars.Contains(tv) {
			vars = append(vars, tv)
		}
	}
	return types.PolyType{Vars: vars, Cons: kinds.Restrict(vars), Expr: t}
}
