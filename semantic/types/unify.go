package types

import (
	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
)

// Unifier solves equality and kind obligations into a substitution.
// Sub and Kinds are updated in place.
type Unifier struct {
	Sub     Substitution
	Kinds   TvarKinds
	Fresher *Fresher
}

func NewUnifier(kinds TvarKinds, f *Fresher) *Unifier {
	if kinds == nil {
		kinds = TvarKinds{}
	}
	return &Unifier{Sub: Substitution{}, Kinds: kinds, Fresher: f}
}

// Unify makes exp and act equal. Errors are reported from the point of view
// of exp being the expected type: a field of exp that act lacks is a
// missing label.
func (u *Unifier) Unify(exp, act MonoType, loc ast.SourceLocation) error {
	exp = u.Sub.resolve(exp)
	act = u.Sub.resolve(act)

	if tv, ok := exp.(Tvar); ok {
		return u.bind(tv, act, loc)
	}
	if tv, ok := act.(Tvar); ok {
		return u.bind(tv, exp, loc)
	}

	switch exp := exp.(type) {
	case Basic:
		if b, ok := act.(Basic); ok && b == exp {
			return nil
		}
	case *Array:
		if arr, ok := act.(*Array); ok {
			return u.Unify(exp.Elem, arr.Elem, loc)
		}
	case *Function:
		if fn, ok := act.(*Function); ok {
			return u.unifyFunctions(exp, fn, loc)
		}
	case EmptyRecord:
		switch act := act.(type) {
		case EmptyRecord:
			return nil
		case *RecordExtension:
			return fluxerr.ExtraLabel{Loc: loc, Label: act.Head.Label}
		}
	case *RecordExtension:
		switch act := act.(type) {
		case EmptyRecord:
			return fluxerr.MissingLabel{Loc: loc, Label: exp.Head.Label}
		case *RecordExtension:
			return u.unifyRows(exp, act, loc)
		}
	}
	return u.mismatch(exp, act, loc)
}

func (u *Unifier) mismatch(exp, act MonoType, loc ast.SourceLocation) error {
	return fluxerr.TypeMismatch{
		Loc:      loc,
		Expected: u.Sub.Apply(exp).String(),
		Actual:   u.Sub.Apply(act).String(),
	}
}

func (u *Unifier) bind(tv Tvar, t MonoType, loc ast.SourceLocation) error {
	if other, ok := t.(Tvar); ok && other == tv {
		return nil
	}
	applied := u.Sub.Apply(t)
	if Occurs(tv, applied) {
		return fluxerr.OccursCheck{Loc: loc, Tvar: tv.String(), Type: applied.String()}
	}
	u.Sub[tv] = t

	kinds := u.Kinds[tv]
	delete(u.Kinds, tv)
	for _, k := range kinds {
		if err := u.Constrain(t, k, loc); err != nil {
			return err
		}
	}
	return nil
}

// rowTail returns the unbound variable an open row ends in, if any.
func (u *Unifier) rowTail(t MonoType) (Tvar, bool) {
	for {
		t = u.Sub.resolve(t)
		switch r := t.(type) {
		case *RecordExtension:
			t = r.Tail
		case Tvar:
			return r, true
		default:
			return 0, false
		}
	}
}

// rowHasLabel reports whether label is one of the known fields of row.
func (u *Unifier) rowHasLabel(row MonoType, label string) bool {
	for {
		ext, ok := u.Sub.resolve(row).(*RecordExtension)
		if !ok {
			return false
		}
		if ext.Head.Label == label {
			return true
		}
		row = ext.Tail
	}
}

// rewriteRow splits the outermost field named label out of row, returning
// its type and the rest of the row. An open row is extended with the field
// when it does not have it yet.
func (u *Unifier) rewriteRow(row MonoType, label string, loc ast.SourceLocation) (MonoType, MonoType, error) {
	switch r := u.Sub.resolve(row).(type) {
	case *RecordExtension:
		if r.Head.Label == label {
			return r.Head.Type, r.Tail, nil
		}
		t, rest, err := u.rewriteRow(r.Tail, label, loc)
		if err != nil {
			return nil, nil, err
		}
		return t, &RecordExtension{Head: r.Head, Tail: rest}, nil
	case Tvar:
		t := u.Fresher.Fresh()
		rest := u.Fresher.Fresh()
		if err := u.bind(r, ExtendRecord(label, t, rest), loc); err != nil {
			return nil, nil, err
		}
		return t, rest, nil
	case EmptyRecord:
		return nil, nil, fluxerr.MissingLabel{Loc: loc, Label: label}
	default:
		return nil, nil, u.mismatch(EmptyRecord{}, r, loc)
	}
}

// unifyRows unifies {a: t | l} with a record r. The field a is split out of
// r, r = {a: u | r'}, then t unifies with u and l with r'.
//
// When r only has a through its open tail and l ends in that same tail, no
// finite record satisfies both rows.
func (u *Unifier) unifyRows(exp, act *RecordExtension, loc ast.SourceLocation) error {
	label := exp.Head.Label
	if !u.rowHasLabel(act, label) {
		expTail, expOpen := u.rowTail(exp.Tail)
		actTail, actOpen := u.rowTail(act)
		if expOpen && actOpen && expTail == actTail {
			return u.mismatch(exp, act, loc)
		}
	}
	fieldT, rest, err := u.rewriteRow(act, label, loc)
	if err != nil {
		return err
	}
	if err := u.Unify(exp.Head.Type, fieldT, loc); err != nil {
		return err
	}
	return u.Unify(exp.Tail, rest, loc)
}

// unifyFunctions unifies the declared type of a function, exp, with the
// type a call site or another declaration expects of it, act.
//
// Every required parameter of either side must be supplied by the other,
// as a required or optional parameter. Optional parameters present on both
// sides unify. Pipe parameters unify by name, where the anonymous pipe
// parameter matches any name. A named pipe parameter may also be supplied
// as a regular argument.
func (u *Unifier) unifyFunctions(exp, act *Function, loc ast.SourceLocation) error {
	expReq := cloneParams(exp.Req)
	actReq := cloneParams(act.Req)

	switch {
	case exp.Pipe != nil && act.Pipe != nil:
		ep, ap := exp.Pipe, act.Pipe
		if ep.Label != PipeLabel && ap.Label != PipeLabel && ep.Label != ap.Label {
			return u.mismatch(exp, act, loc)
		}
		if err := u.Unify(ep.Type, ap.Type, loc); err != nil {
			return err
		}
	case exp.Pipe != nil:
		if exp.Pipe.Label == PipeLabel {
			return fluxerr.MissingPipeArgument{Loc: loc}
		}
		expReq[exp.Pipe.Label] = exp.Pipe.Type
	case act.Pipe != nil:
		if act.Pipe.Label == PipeLabel {
			return fluxerr.ExtraArgument{Loc: loc, Name: PipeLabel}
		}
		actReq[act.Pipe.Label] = act.Pipe.Type
	}

	for _, name := range sortedKeys(actReq) {
		if _, ok := expReq[name]; ok {
			continue
		}
		if _, ok := exp.Opt[name]; !ok {
			return fluxerr.ExtraArgument{Loc: loc, Name: name}
		}
	}

	for _, name := range sortedKeys(expReq) {
		expT := expReq[name]
		actT, ok := actReq[name]
		if !ok {
			actT, ok = act.Opt[name]
		}
		if !ok {
			return fluxerr.MissingArgument{Loc: loc, Name: name}
		}
		if err := u.Unify(expT, actT, loc); err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(exp.Opt) {
		expT := exp.Opt[name]
		actT, ok := actReq[name]
		if !ok {
			actT, ok = act.Opt[name]
		}
		if !ok {
			continue
		}
		if err := u.Unify(expT, actT, loc); err != nil {
			return err
		}
	}

	return u.Unify(exp.Retn, act.Retn, loc)
}

func cloneParams(m map[string]MonoType) map[string]MonoType {
	out := make(map[string]MonoType, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Constrain requires t to belong to kind k. Unbound variables record the
// kind, to be checked once they are bound.
func (u *Unifier) Constrain(t MonoType, k Kind, loc ast.SourceLocation) error {
	t = u.Sub.resolve(t)
	cannot := func() error {
		return fluxerr.CannotConstrain{Loc: loc, Type: u.Sub.Apply(t).String(), Kind: k.String()}
	}

	switch t := t.(type) {
	case Tvar:
		u.Kinds.Add(t, k)
		return nil
	case Basic:
		if !t.HasKind(k) {
			return cannot()
		}
		return nil
	case *Array:
		if k != Equatable {
			return cannot()
		}
		return u.Constrain(t.Elem, k, loc)
	case EmptyRecord:
		if k != Record && k != Equatable {
			return cannot()
		}
		return nil
	case *RecordExtension:
		switch k {
		case Record:
			return nil
		case Equatable:
			fields, _ := Fields(t)
			for _, f := range fields {
				if err := u.Constrain(f.Type, k, loc); err != nil {
					return err
				}
			}
			return nil
		}
		return cannot()
	default:
		return cannot()
	}
}
