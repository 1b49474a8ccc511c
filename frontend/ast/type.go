package ast

// TypeExpression is the declared type of a builtin:
//
//	(v: A, ?n: int) => A where A: Addable
type TypeExpression struct {
	Range
	Ty          MonoTypeExpr
	Constraints []*TypeConstraint
}

// TypeConstraint restricts a type variable to a set of kinds: `A: Addable + Comparable`.
type TypeConstraint struct {
	Range
	Tvar  *Identifier
	Kinds []*Identifier
}

// MonoTypeExpr is a type expression without constraints.
type MonoTypeExpr interface {
	Node
	monoTypeNode()
}

var (
	_ MonoTypeExpr = (*NamedType)(nil)
	_ MonoTypeExpr = (*TvarType)(nil)
	_ MonoTypeExpr = (*ArrayType)(nil)
	_ MonoTypeExpr = (*RecordType)(nil)
	_ MonoTypeExpr = (*FunctionType)(nil)
)

// NamedType is one of the basic types: `int`, `string`, ...
type NamedType struct {
	Range
	Name *Identifier
}

func (t *NamedType) monoTypeNode() {}

// TvarType is a type variable, written as an identifier starting with an upper case letter.
type TvarType struct {
	Range
	Name *Identifier
}

func (t *TvarType) monoTypeNode() {}

// ArrayType is `[T]`.
type ArrayType struct {
	Range
	Element MonoTypeExpr
}

func (t *ArrayType) monoTypeNode() {}

// PropertyType is a single field of a RecordType.
type PropertyType struct {
	Range
	Name *Identifier
	Ty   MonoTypeExpr
}

// RecordType is `{a: int}`, or `{R with a: int}` when the row is open.
type RecordType struct {
	Range
	Tvar       *Identifier
	Properties []*PropertyType
}

func (t *RecordType) monoTypeNode() {}

// ParameterKind distinguishes the parameters of a FunctionType.
type ParameterKind int

const (
	RequiredParameter ParameterKind = iota
	OptionalParameter
	PipeParameter
)

// ParameterType is a single parameter of a FunctionType.
// Name is nil for the anonymous pipe parameter `<-: T`.
type ParameterType struct {
	Range
	Kind ParameterKind
	Name *Identifier
	Ty   MonoTypeExpr
}

// FunctionType is `(a: A, ?b: int, <-tables: T) => R`.
type FunctionType struct {
	Range
	Parameters []*ParameterType
	Return     MonoTypeExpr
}

func (t *FunctionType) monoTypeNode() {}
