package infer

import (
	"github.com/gusakk/fluxsem/semantic/types"
	"github.com/hashicorp/go-set/v3"
)

// Environment is a lexical scope. The outermost scope is read-only and holds
// the prelude; every scope entered from it is read-write.
type Environment struct {
	Parent    *Environment
	Values    types.PolyTypeMap
	Readwrite bool
}

// NewEnvironment returns a read-only root scope holding values.
func NewEnvironment(values types.PolyTypeMap) *Environment {
	return &Environment{Values: values}
}

// EnterScope returns an empty read-write scope nested in e.
func (e *Environment) EnterScope() *Environment {
	return &Environment{Parent: e, Readwrite: true}
}

// Lookup searches e and then its parents.
func (e *Environment) Lookup(name string) (types.PolyType, bool) {
	for env := e; env != nil; env = env.Parent {
		if t, ok := env.Values.Lookup(name); ok {
			return t, true
		}
	}
	return types.PolyType{}, false
}

// Add binds name in e, shadowing any binding of a parent.
func (e *Environment) Add(name string, t types.PolyType) {
	e.Values = e.Values.Insert(name, t)
}

// Apply applies sub to the bindings of every read-write scope.
func (e *Environment) Apply(sub types.Substitution) {
	for env := e; env != nil; env = env.Parent {
		if !env.Readwrite {
			continue
		}
		applied := types.NewPolyTypeMap()
		for name, t := range env.Values.All() {
			applied = applied.Insert(name, sub.ApplyPoly(t))
		}
		env.Values = applied
	}
}

// FreeVars returns the variables free in any read-write scope. The read-only
// prelude scope only holds closed types and is skipped.
func (e *Environment) FreeVars() *set.Set[types.Tvar] {
	free := set.New[types.Tvar](0)
	for env := e; env != nil; env = env.Parent {
		if !env.Readwrite {
			continue
		}
		for _, t := range env.Values.All() {
			quantified := set.From(t.Vars)
			for _, tv := range types.FreeVars(t.Expr) {
				if !quantified.Contains(tv) {
					free.Insert(tv)
				}
			}
		}
	}
	return free
}
