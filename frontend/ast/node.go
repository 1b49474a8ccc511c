package ast

import (
	"go/token"
	"strings"
)

// Node is the base interface for all AST nodes.
type Node interface {
	Positioner
}

// Expr is the interface for all expression nodes in the AST.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Stmt is the interface for all statement nodes in the AST.
type Stmt interface {
	Node
	stmtNode() // Marker method to distinguish statements
}

// File represents a source file in the AST.
//
// Name is the path of the file relative to the root of the corpus it was
// read from, e.g. "strings/strings.flux".
type File struct {
	Range
	Name    string
	Package *PackageClause
	Imports []*ImportDeclaration
	Body    []Stmt
	// Tokens resolves the positions of this file's nodes
	Tokens *token.File
}

// PackageName returns the name declared in the package clause, or "" when
// the file has none.
func (f *File) PackageName() string {
	if f.Package == nil || f.Package.Name == nil {
		return ""
	}
	return f.Package.Name.Name
}

// ImportPaths returns the paths of the file's import declarations in source order.
func (f *File) ImportPaths() []string {
	paths := make([]string, 0, len(f.Imports))
	for _, imp := range f.Imports {
		paths = append(paths, imp.Path.Value)
	}
	return paths
}

// PackageClause is the `package name` header of a file.
type PackageClause struct {
	Range
	Name     *Identifier
	Comments []Comment
}

// ImportDeclaration represents an import statement in the AST.
type ImportDeclaration struct {
	Range
	As       *Identifier // nil means no alias
	Path     *StringLiteral
	Comments []Comment
}

// Name is the identifier the import is bound to within the importing file.
func (i *ImportDeclaration) Name() string {
	if i.As != nil {
		return i.As.Name
	}
	path := i.Path.Value
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// Comment is a single line comment, including its leading `//`.
type Comment struct {
	Range
	Text string
}

// CommentText joins the comments with their `//` prefix removed.
func CommentText(comments []Comment) string {
	sb := strings.Builder{}
	for _, c := range comments {
		sb.WriteString(strings.TrimPrefix(c.Text, "//"))
		sb.WriteString("\n")
	}
	return sb.String()
}
