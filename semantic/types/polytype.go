package types

import (
	"slices"
	"strconv"
	"strings"
)

// PolyType is a monotype universally quantified over Vars. Cons holds the
// kinds of the quantified variables.
//
// Every variable of Vars occurs in Expr.
type PolyType struct {
	Vars []Tvar
	Cons TvarKinds
	Expr MonoType
}

// Mono wraps a monotype as a polytype that quantifies nothing.
func Mono(t MonoType) PolyType {
	return PolyType{Expr: t}
}

// Normal returns p with record fields sorted by label and Vars listed in
// order of first appearance. Fields sharing a label keep their relative
// order, so shadowing is preserved.
func (p PolyType) Normal() PolyType {
	expr := normalMono(p.Expr)
	quantified := make(map[Tvar]bool, len(p.Vars))
	for _, tv := range p.Vars {
		quantified[tv] = true
	}
	vars := make([]Tvar, 0, len(p.Vars))
	for _, tv := range FreeVars(expr) {
		if quantified[tv] {
			vars = append(vars, tv)
		}
	}
	return PolyType{Vars: vars, Cons: p.Cons.Restrict(vars), Expr: expr}
}

func normalMono(t MonoType) MonoType {
	switch t := t.(type) {
	case *Array:
		return &Array{Elem: normalMono(t.Elem)}
	case *Function:
		fn := &Function{Retn: normalMono(t.Retn)}
		if t.Req != nil {
			fn.Req = make(map[string]MonoType, len(t.Req))
			for k, v := range t.Req {
				fn.Req[k] = normalMono(v)
			}
		}
		if t.Opt != nil {
			fn.Opt = make(map[string]MonoType, len(t.Opt))
			for k, v := range t.Opt {
				fn.Opt[k] = normalMono(v)
			}
		}
		if t.Pipe != nil {
			fn.Pipe = &Property{Label: t.Pipe.Label, Type: normalMono(t.Pipe.Type)}
		}
		return fn
	case *RecordExtension:
		fields, tail := Fields(t)
		sorted := make([]Property, len(fields))
		for i, f := range fields {
			sorted[i] = Property{Label: f.Label, Type: normalMono(f.Type)}
		}
		slices.SortStableFunc(sorted, func(a, b Property) int {
			return strings.Compare(a.Label, b.Label)
		})
		rec := tail
		for i := len(sorted) - 1; i >= 0; i-- {
			rec = &RecordExtension{Head: sorted[i], Tail: rec}
		}
		return rec
	default:
		return t
	}
}

// varName returns A, B, ..., Z, A1, B1, ...
func varName(i int) string {
	name := string(rune('A' + i%26))
	if i >= 26 {
		name += strconv.Itoa(i / 26)
	}
	return name
}

// String renders the normal form of p, naming quantified variables A, B, ...
// in order of first appearance:
//
//	(<-tables: [A], fn: (r: A) => bool) => [A] where A: Record
func (p PolyType) String() string {
	n := p.Normal()
	names := make(map[Tvar]string, len(n.Vars))
	for i, tv := range n.Vars {
		names[tv] = varName(i)
	}
	sb := &strings.Builder{}
	writeType(sb, n.Expr, names)

	var constraints []string
	for _, tv := range n.Vars {
		kinds := n.Cons[tv]
		if len(kinds) == 0 {
			continue
		}
		kindStrs := make([]string, len(kinds))
		for i, k := range kinds {
			kindStrs[i] = k.String()
		}
		constraints = append(constraints, names[tv]+": "+strings.Join(kindStrs, " + "))
	}
	if len(constraints) > 0 {
		sb.WriteString(" where ")
		sb.WriteString(strings.Join(constraints, ", "))
	}
	return sb.String()
}
