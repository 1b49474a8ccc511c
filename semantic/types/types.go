// Package types contains the monotypes, polytypes and substitutions of the
// type system, together with the unification of row-polymorphic records.
package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// MonoType is a type without quantifiers: a type variable, a basic type,
// an array, a function or a record.
type MonoType interface {
	fmt.Stringer
	monoType()
}

var (
	_ MonoType = Tvar(0)
	_ MonoType = Basic("")
	_ MonoType = (*Array)(nil)
	_ MonoType = (*Function)(nil)
	_ MonoType = EmptyRecord{}
	_ MonoType = (*RecordExtension)(nil)
)

// Tvar is a type variable. Values are handed out by a Fresher.
type Tvar uint64

func (Tvar) monoType() {}

func (tv Tvar) String() string {
	return fmt.Sprintf("t%d", uint64(tv))
}

type Basic string

const (
	Bool     Basic = "bool"
	Int      Basic = "int"
	Uint     Basic = "uint"
	Float    Basic = "float"
	String   Basic = "string"
	Duration Basic = "duration"
	Time     Basic = "time"
	Regexp   Basic = "regexp"
	Bytes    Basic = "bytes"
)

var basics = map[string]Basic{
	string(Bool):     Bool,
	string(Int):      Int,
	string(Uint):     Uint,
	string(Float):    Float,
	string(String):   String,
	string(Duration): Duration,
	string(Time):     Time,
	string(Regexp):   Regexp,
	string(Bytes):    Bytes,
}

// LookupBasic returns the basic type with the given name.
func LookupBasic(name string) (Basic, bool) {
	b, ok := basics[name]
	return b, ok
}

func (Basic) monoType()        {}
func (b Basic) String() string { return string(b) }

type Array struct {
	Elem MonoType
}

func (*Array) monoType()        {}
func (a *Array) String() string { return typeString(a, nil) }

// Property is a labelled type, used for record fields and pipe parameters.
type Property struct {
	Label string
	Type  MonoType
}

// PipeLabel is the label of an anonymous pipe parameter, `<-: T`. It unifies
// with a pipe parameter of any name.
const PipeLabel = "<-"

// Function parameters are named. Req must all be supplied by a caller, Opt
// may be omitted. Pipe is the parameter that `|>` supplies, if any.
type Function struct {
	Req  map[string]MonoType
	Opt  map[string]MonoType
	Pipe *Property
	Retn MonoType
}

func (*Function) monoType()        {}
func (f *Function) String() string { return typeString(f, nil) }

// EmptyRecord is the closed record `{}`, and terminates every closed row.
type EmptyRecord struct{}

func (EmptyRecord) monoType()      {}
func (EmptyRecord) String() string { return "{}" }

// RecordExtension is the record `{Head | Tail}`. Tail is a record or a type
// variable standing for the rest of an open row.
type RecordExtension struct {
	Head Property
	Tail MonoType
}

func (*RecordExtension) monoType()        {}
func (r *RecordExtension) String() string { return typeString(r, nil) }

// NewRecord builds a closed record with fields in the given order, so that
// the first field is the outermost head.
func NewRecord(fields ...Property) MonoType {
	var rec MonoType = EmptyRecord{}
	for i := len(fields) - 1; i >= 0; i-- {
		rec = &RecordExtension{Head: fields[i], Tail: rec}
	}
	return rec
}

// ExtendRecord wraps tail with one more field.
func ExtendRecord(label string, t MonoType, tail MonoType) MonoType {
	return &RecordExtension{Head: Property{Label: label, Type: t}, Tail: tail}
}

// Field returns the type of the outermost field named label.
func Field(record MonoType, label string) (MonoType, bool) {
	for {
		ext, ok := record.(*RecordExtension)
		if !ok {
			return nil, false
		}
		if ext.Head.Label == label {
			return ext.Head.Type, true
		}
		record = ext.Tail
	}
}

// Fields lists the fields of a record from the outermost head inwards,
// along with the tail the row ends in.
func Fields(record MonoType) ([]Property, MonoType) {
	var fields []Property
	for {
		ext, ok := record.(*RecordExtension)
		if !ok {
			return fields, record
		}
		fields = append(fields, ext.Head)
		record = ext.Tail
	}
}

// FreeVars lists the type variables occurring in t in order of first
// appearance when printed.
func FreeVars(t MonoType) []Tvar {
	seen := set.New[Tvar](0)
	var ordered []Tvar
	walkVars(t, func(tv Tvar) {
		if seen.Insert(tv) {
			ordered = append(ordered, tv)
		}
	})
	return ordered
}

// walkVars visits every type variable occurrence in printing order.
func walkVars(t MonoType, visit func(Tvar)) {
	switch t := t.(type) {
	case Tvar:
		visit(t)
	case *Array:
		walkVars(t.Elem, visit)
	case *Function:
		if t.Pipe != nil {
			walkVars(t.Pipe.Type, visit)
		}
		for _, k := range sortedKeys(t.Req) {
			walkVars(t.Req[k], visit)
		}
		for _, k := range sortedKeys(t.Opt) {
			walkVars(t.Opt[k], visit)
		}
		walkVars(t.Retn, visit)
	case *RecordExtension:
		fields, tail := Fields(t)
		walkVars(tail, visit)
		for _, f := range fields {
			walkVars(f.Type, visit)
		}
	}
}

// Occurs reports whether tv occurs in t.
func Occurs(tv Tvar, t MonoType) bool {
	found := false
	walkVars(t, func(v Tvar) { found = found || v == tv })
	return found
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// typeString renders t. Variables found in names are printed by name,
// other variables as tN.
func typeString(t MonoType, names map[Tvar]string) string {
	sb := &strings.Builder{}
	writeType(sb, t, names)
	return sb.String()
}

func writeType(sb *strings.Builder, t MonoType, names map[Tvar]string) {
	switch t := t.(type) {
	case Tvar:
		if name, ok := names[t]; ok {
			sb.WriteString(name)
		} else {
			sb.WriteString(t.String())
		}
	case Basic:
		sb.WriteString(string(t))
	case *Array:
		sb.WriteString("[")
		writeType(sb, t.Elem, names)
		sb.WriteString("]")
	case *Function:
		sb.WriteString("(")
		first := true
		sep := func() {
			if !first {
				sb.WriteString(", ")
			}
			first = false
		}
		if t.Pipe != nil {
			sep()
			sb.WriteString("<-")
			if t.Pipe.Label != PipeLabel {
				sb.WriteString(t.Pipe.Label)
			}
			sb.WriteString(": ")
			writeType(sb, t.Pipe.Type, names)
		}
		for _, k := range sortedKeys(t.Req) {
			sep()
			sb.WriteString(k)
			sb.WriteString(": ")
			writeType(sb, t.Req[k], names)
		}
		for _, k := range sortedKeys(t.Opt) {
			sep()
			sb.WriteString("?")
			sb.WriteString(k)
			sb.WriteString(": ")
			writeType(sb, t.Opt[k], names)
		}
		sb.WriteString(") => ")
		writeType(sb, t.Retn, names)
	case EmptyRecord:
		sb.WriteString("{}")
	case *RecordExtension:
		fields, tail := Fields(t)
		sb.WriteString("{")
		if _, closed := tail.(EmptyRecord); !closed {
			writeType(sb, tail, names)
			sb.WriteString(" with ")
		}
		for i, f := range fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Label)
			sb.WriteString(": ")
			writeType(sb, f.Type, names)
		}
		sb.WriteString("}")
	case nil:
		sb.WriteString("<nil>")
	}
}
