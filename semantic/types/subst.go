package types

import (
	"maps"
)

// Fresher hands out type variables. A single Fresher must be shared by every
// operation of a run so that no two variables collide.
type Fresher struct {
	next Tvar
}

// NewFresher returns a Fresher whose first variable is start.
func NewFresher(start Tvar) *Fresher {
	return &Fresher{next: start}
}

// Fresh returns a type variable that was never returned before.
func (f *Fresher) Fresh() Tvar {
	tv := f.next
	f.next++
	return tv
}

// Snapshot returns the next variable Fresh would return, without advancing.
func (f *Fresher) Snapshot() Tvar {
	return f.next
}

// Substitution maps type variables to the types they were solved to. The
// types bound may themselves contain bound variables, Apply follows them.
type Substitution map[Tvar]MonoType

// Lookup returns the type tv is bound to, following chains of variables.
func (s Substitution) Lookup(tv Tvar) (MonoType, bool) {
	t, ok := s[tv]
	if !ok {
		return nil, false
	}
	return s.Apply(t), true
}

// resolve follows variable bindings at the top of t only.
func (s Substitution) resolve(t MonoType) MonoType {
	for {
		tv, ok := t.(Tvar)
		if !ok {
			return t
		}
		bound, ok := s[tv]
		if !ok {
			return t
		}
		t = bound
	}
}

// Apply replaces every bound variable of t.
func (s Substitution) Apply(t MonoType) MonoType {
	if len(s) == 0 {
		return t
	}
	switch t := t.(type) {
	case Tvar:
		if bound, ok := s[t]; ok {
			return s.Apply(bound)
		}
		return t
	case *Array:
		return &Array{Elem: s.Apply(t.Elem)}
	case *Function:
		fn := &Function{Retn: s.Apply(t.Retn)}
		if t.Req != nil {
			fn.Req = make(map[string]MonoType, len(t.Req))
			for k, v := range t.Req {
				fn.Req[k] = s.Apply(v)
			}
		}
		if t.Opt != nil {
			fn.Opt = make(map[string]MonoType, len(t.Opt))
			for k, v := range t.Opt {
				fn.Opt[k] = s.Apply(v)
			}
		}
		if t.Pipe != nil {
			fn.Pipe = &Property{Label: t.Pipe.Label, Type: s.Apply(t.Pipe.Type)}
		}
		return fn
	case *RecordExtension:
		return &RecordExtension{
			Head: Property{Label: t.Head.Label, Type: s.Apply(t.Head.Type)},
			Tail: s.Apply(t.Tail),
		}
	default:
		return t
	}
}

// ApplyPoly applies s to the free variables of p. Quantified variables are
// left untouched.
func (s Substitution) ApplyPoly(p PolyType) PolyType {
	if len(s) == 0 || p.Expr == nil {
		return p
	}
	inner := s
	if len(p.Vars) > 0 {
		inner = maps.Clone(s)
		for _, tv := range p.Vars {
			delete(inner, tv)
		}
	}
	return PolyType{Vars: p.Vars, Cons: p.Cons, Expr: inner.Apply(p.Expr)}
}

// Compose returns the substitution applying other first and then s.
func (s Substitution) Compose(other Substitution) Substitution {
	out := make(Substitution, len(s)+len(other))
	for tv, t := range other {
		out[tv] = s.Apply(t)
	}
	for tv, t := range s {
		if _, ok := out[tv]; !ok {
			out[tv] = t
		}
	}
	return out
}
