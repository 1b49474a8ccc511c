package fluxerr

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gusakk/fluxsem/frontend/ast"
)

type ErrCode int

const (
	None ErrCode = iota
	SelfDependencyCode
	PackageNotFoundCode
	TypeErrorCode
	TypeMismatchCode
	MissingLabelCode
	ExtraLabelCode
	CannotConstrainCode
	OccursCheckCode
	UndefinedIdentifierCode
	MissingArgumentCode
	ExtraArgumentCode
	MissingPipeArgumentCode
	SyntaxCode
	ParseCode
	IOCode
	UnknownTypeCode
)

// Error is implemented by every error this module returns.
type Error interface {
	error
	Code() ErrCode
}

func FormatWithCode(e Error) string {
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// located prefixes msg with loc when loc resolves to a file.
func located(loc ast.SourceLocation, msg string) string {
	if loc.File == "" && !loc.Start.IsValid() {
		return msg
	}
	return loc.String() + ": " + msg
}

// Errors accumulates several errors, e.g. every syntax error of a file.
type Errors struct {
	errs []Error
}

func (r *Errors) With(err ...Error) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Errors() []Error {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	return len(r.errs) > 0
}

// LogValue lists every error with its code, as e0, e1, ...
func (r *Errors) LogValue() slog.Value {
	if r == nil {
		return slog.GroupValue()
	}
	var vals []slog.Attr
	for i, v := range r.errs {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}

// SelfDependency is returned when a package imports itself, directly or
// through other packages.
type SelfDependency struct {
	Package string
}

func (e SelfDependency) Error() string {
	return fmt.Sprintf("package %q depends on itself", e.Package)
}
func (e SelfDependency) Code() ErrCode { return SelfDependencyCode }

// PackageNotFound is returned when an import path or prelude name has no
// corresponding file in the corpus.
type PackageNotFound struct {
	Package string
}

func (e PackageNotFound) Error() string {
	return fmt.Sprintf("package %q not found", e.Package)
}
func (e PackageNotFound) Code() ErrCode { return PackageNotFoundCode }

// TypeError attaches the package being inferred to an inference error.
type TypeError struct {
	Package string
	Err     error
}

func (e TypeError) Error() string {
	return fmt.Sprintf("type error in package %q: %v", e.Package, e.Err)
}
func (e TypeError) Code() ErrCode { return TypeErrorCode }
func (e TypeError) Unwrap() error { return e.Err }

type TypeMismatch struct {
	Loc      ast.SourceLocation
	Expected string
	Actual   string
}

func (e TypeMismatch) Error() string {
	return located(e.Loc, fmt.Sprintf("expected %s but found %s", e.Expected, e.Actual))
}
func (e TypeMismatch) Code() ErrCode { return TypeMismatchCode }

// MissingLabel is returned when a record lacks a field another record
// type requires.
type MissingLabel struct {
	Loc   ast.SourceLocation
	Label string
}

func (e MissingLabel) Error() string {
	return located(e.Loc, fmt.Sprintf("record is missing label %s", e.Label))
}
func (e MissingLabel) Code() ErrCode { return MissingLabelCode }

type ExtraLabel struct {
	Loc   ast.SourceLocation
	Label string
}

func (e ExtraLabel) Error() string {
	return located(e.Loc, fmt.Sprintf("found unexpected label %s", e.Label))
}
func (e ExtraLabel) Code() ErrCode { return ExtraLabelCode }

// CannotConstrain is returned when a type does not belong to a kind, e.g.
// `bool` is not Addable.
type CannotConstrain struct {
	Loc  ast.SourceLocation
	Type string
	Kind string
}

func (e CannotConstrain) Error() string {
	return located(e.Loc, fmt.Sprintf("%s is not %s", e.Type, e.Kind))
}
func (e CannotConstrain) Code() ErrCode { return CannotConstrainCode }

type OccursCheck struct {
	Loc  ast.SourceLocation
	Tvar string
	Type string
}

func (e OccursCheck) Error() string {
	return located(e.Loc, fmt.Sprintf("type variable %s occurs in %s", e.Tvar, e.Type))
}
func (e OccursCheck) Code() ErrCode { return OccursCheckCode }

type UndefinedIdentifier struct {
	Loc  ast.SourceLocation
	Name string
}

func (e UndefinedIdentifier) Error() string {
	return located(e.Loc, fmt.Sprintf("undefined identifier %s", e.Name))
}
func (e UndefinedIdentifier) Code() ErrCode { return UndefinedIdentifierCode }

// MissingArgument is returned when a required parameter of a function is
// not supplied by a call.
type MissingArgument struct {
	Loc  ast.SourceLocation
	Name string
}

func (e MissingArgument) Error() string {
	return located(e.Loc, fmt.Sprintf("missing required argument %s", e.Name))
}
func (e MissingArgument) Code() ErrCode { return MissingArgumentCode }

type ExtraArgument struct {
	Loc  ast.SourceLocation
	Name string
}

func (e ExtraArgument) Error() string {
	return located(e.Loc, fmt.Sprintf("found unexpected argument %s", e.Name))
}
func (e ExtraArgument) Code() ErrCode { return ExtraArgumentCode }

type MissingPipeArgument struct {
	Loc ast.SourceLocation
}

func (e MissingPipeArgument) Error() string {
	return located(e.Loc, "missing pipe argument")
}
func (e MissingPipeArgument) Code() ErrCode { return MissingPipeArgumentCode }

// UnknownType is returned when a type expression names a type that does
// not exist, or uses a kind that does not exist.
type UnknownType struct {
	Loc  ast.SourceLocation
	Name string
}

func (e UnknownType) Error() string {
	return located(e.Loc, fmt.Sprintf("unknown type %s", e.Name))
}
func (e UnknownType) Code() ErrCode { return UnknownTypeCode }

// Syntax is a single error found while parsing a file.
type Syntax struct {
	Loc     ast.SourceLocation
	Message string
}

func (e Syntax) Error() string {
	return located(e.Loc, e.Message)
}
func (e Syntax) Code() ErrCode { return SyntaxCode }

// Parse groups every syntax error of a file.
type Parse struct {
	File   string
	Errors []Error
}

func (e Parse) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("failed to parse %s: %s", e.File, strings.Join(msgs, "; "))
}
func (e Parse) Code() ErrCode { return ParseCode }

// IO wraps a file system failure met while reading the corpus.
type IO struct {
	Path string
	Err  error
}

func (e IO) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}
func (e IO) Code() ErrCode { return IOCode }
func (e IO) Unwrap() error { return e.Err }
