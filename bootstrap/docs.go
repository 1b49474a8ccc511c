package bootstrap

import (
	"bytes"

	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/internal/log"
	"github.com/gusakk/fluxsem/semantic/types"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
)

var docsLogger = log.Section("docs")

// DocPackage documents a package of the standard library.
type DocPackage struct {
	Path   string     `json:"path" yaml:"path"`
	Name   string     `json:"name" yaml:"name"`
	Doc    string     `json:"doc" yaml:"doc"`
	Values []DocValue `json:"values" yaml:"values"`
}

// DocValue documents a single value of a package: an option, a builtin or a
// top level variable.
type DocValue struct {
	PkgPath string `json:"pkgpath" yaml:"pkgpath"`
	Name    string `json:"name" yaml:"name"`
	Doc     string `json:"doc" yaml:"doc"`
	Type    string `json:"type" yaml:"type"`
}

// StdlibDocs documents every package of files using the types inferred in
// stdlib. Comments are rendered from Markdown to HTML.
func StdlibDocs(stdlib types.PolyTypeMap, files AstFileMap) ([]DocPackage, error) {
	docs := make([]DocPackage, 0, len(files))
	for _, path := range files.Paths() {
		pkg, err := packageDocs(path, stdlib, files[path])
		if err != nil {
			return nil, errors.Wrapf(err, "document package %s", path)
		}
		docs = append(docs, pkg)
	}
	return docs, nil
}

func packageDocs(path string, stdlib types.PolyTypeMap, file *ast.File) (DocPackage, error) {
	pkg := DocPackage{Path: path, Name: file.PackageName()}
	if file.Package != nil {
		doc, err := renderComments(file.Package.Comments)
		if err != nil {
			return pkg, err
		}
		pkg.Doc = doc
	}

	record, ok := stdlib.Lookup(path)
	if !ok {
		docsLogger.Warn("package has no inferred type", "package", path)
		return pkg, nil
	}

	for _, stmt := range file.Body {
		var (
			name     string
			comments []ast.Comment
		)
		switch stmt := stmt.(type) {
		case *ast.VariableAssignment:
			name, comments = stmt.ID.Name, stmt.Comments
		case *ast.BuiltinStatement:
			name, comments = stmt.ID.Name, stmt.Comments
		case *ast.OptionStatement:
			va, ok := stmt.Assignment.(*ast.VariableAssignment)
			if !ok {
				continue
			}
			name, comments = va.ID.Name, stmt.Comments
		default:
			continue
		}

		typ, ok := memberType(record, name)
		if !ok {
			continue
		}
		doc, err := renderComments(comments)
		if err != nil {
			return pkg, err
		}
		pkg.Values = append(pkg.Values, DocValue{
			PkgPath: path,
			Name:    name,
			Doc:     doc,
			Type:    typ.String(),
		})
	}
	return pkg, nil
}

// memberType returns the type of the field name of a package record,
// quantified over the variables of the package type that it mentions.
func memberType(record types.PolyType, name string) (types.PolyType, bool) {
	t, ok := types.Field(record.Expr, name)
	if !ok {
		return types.PolyType{}, false
	}
	quantified := map[types.Tvar]bool{}
	for _, tv := range record.Vars {
		quantified[tv] = true
	}
	var vars []types.Tvar
	for _, tv := range types.FreeVars(t) {
		if quantified[tv] {
			vars = append(vars, tv)
		}
	}
	return types.PolyType{Vars: vars, Cons: record.Cons.Restrict(vars), Expr: t}.Normal(), true
}

func renderComments(comments []ast.Comment) (string, error) {
	if len(comments) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(ast.CommentText(comments)), &buf); err != nil {
		return "", errors.Wrap(err, "render comment")
	}
	return buf.String(), nil
}
