package types

import (
	"slices"
	"sort"

	"github.com/xtgo/set"
)

// Kind is a capability a type may have, such as supporting addition.
type Kind int

const (
	Addable Kind = iota
	Subtractable
	Divisible
	Numeric
	Comparable
	Equatable
	Nullable
	Record
	Negatable
	Timeable
	Stringable
)

var kindNames = [...]string{
	Addable:      "Addable",
	Subtractable: "Subtractable",
	Divisible:    "Divisible",
	Numeric:      "Numeric",
	Comparable:   "Comparable",
	Equatable:    "Equatable",
	Nullable:     "Nullable",
	Record:       "Record",
	Negatable:    "Negatable",
	Timeable:     "Timeable",
	Stringable:   "Stringable",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UnknownKind"
	}
	return kindNames[k]
}

// LookupKind returns the kind with the given name, e.g. "Addable".
func LookupKind(name string) (Kind, bool) {
	idx := slices.Index(kindNames[:], name)
	if idx < 0 {
		return 0, false
	}
	return Kind(idx), true
}

// basicKinds lists the kinds of each basic type.
var basicKinds = map[Basic][]Kind{
	Bool:     {Equatable, Nullable, Stringable},
	Int:      {Addable, Subtractable, Divisible, Numeric, Comparable, Equatable, Nullable, Negatable, Stringable},
	Uint:     {Addable, Subtractable, Divisible, Numeric, Comparable, Equatable, Nullable, Negatable, Stringable},
	Float:    {Addable, Subtractable, Divisible, Numeric, Comparable, Equatable, Nullable, Negatable, Stringable},
	String:   {Addable, Comparable, Equatable, Nullable, Stringable},
	Duration: {Addable, Subtractable, Divisible, Comparable, Equatable, Nullable, Negatable, Timeable, Stringable},
	Time:     {Comparable, Equatable, Nullable, Timeable, Stringable},
	Regexp:   {Stringable},
	Bytes:    {Equatable},
}

// HasKind reports whether b belongs to k.
func (b Basic) HasKind(k Kind) bool {
	return slices.Contains(basicKinds[b], k)
}

// Kinds implements sort.Interface in declaration order of the kinds.
type Kinds []Kind

func (k Kinds) Len() int           { return len(k) }
func (k Kinds) Less(i, j int) bool { return k[i] < k[j] }
func (k Kinds) Swap(i, j int)      { k[i], k[j] = k[j], k[i] }

// NormalKinds sorts kinds in place and drops repeated entries, so that
// `A: Addable + Addable` means `A: Addable`.
func NormalKinds(kinds []Kind) []Kind {
	sort.Sort(Kinds(kinds))
	return kinds[:set.Uniq(Kinds(kinds))]
}

// TvarKinds records the kinds each type variable is constrained to.
// Kinds are kept sorted and free of duplicates.
type TvarKinds map[Tvar][]Kind

// Add constrains tv to k.
func (tk TvarKinds) Add(tv Tvar, k Kind) {
	kinds := tk[tv]
	idx, found := slices.BinarySearch(kinds, k)
	if found {
		return
	}
	tk[tv] = slices.Insert(kinds, idx, k)
}

// Restrict returns the constraints of the given variables only.
func (tk TvarKinds) Restrict(vars []Tvar) TvarKinds {
	out := TvarKinds{}
	for _, tv := range vars {
		if kinds, ok := tk[tv]; ok && len(kinds) > 0 {
			out[tv] = slices.Clone(kinds)
		}
	}
	return out
}

func (tk TvarKinds) Clone() TvarKinds {
	out := make(TvarKinds, len(tk))
	for tv, kinds := range tk {
		out[tv] = slices.Clone(kinds)
	}
	return out
}
