package bootstrap

import (
	"go/token"
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/internal/log"
	"github.com/gusakk/fluxsem/parser"
	"github.com/pkg/errors"
)

var corpusLogger = log.Section("corpus")

// AstFileMap maps a package path, such as "strings" or
// "influxdata/influxdb", to the parsed file of that package.
type AstFileMap map[string]*ast.File

// Paths returns the package paths in sorted order.
func (m AstFileMap) Paths() []string {
	return slices.Sorted(maps.Keys(m))
}

// PackagePath is the directory of a corpus file: "strings/strings.flux"
// belongs to package "strings". Files at the root of the corpus have no
// package path.
func PackagePath(name string) (string, bool) {
	dir := path.Dir(name)
	if dir == "." {
		return "", false
	}
	return dir, true
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".flux") && !strings.HasSuffix(name, "_test.flux")
}

// ParseCorpus parses every source file of fsys, skipping test files.
// Each directory is one package. When a directory holds several files the
// last one in walk order is kept.
func ParseCorpus(fsys fs.FS) (AstFileMap, error) {
	files := AstFileMap{}
	fset := token.NewFileSet()
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return fluxerr.IO{Path: name, Err: err}
		}
		if d.IsDir() || !isSourceFile(name) {
			return nil
		}
		pkg, ok := PackagePath(name)
		if !ok {
			corpusLogger.Warn("file outside of any package directory, skipping", "file", name)
			return nil
		}
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fluxerr.IO{Path: name, Err: err}
		}
		file, err := parser.ParseFile(fset, name, src)
		if err != nil {
			return err
		}
		if prev, ok := files[pkg]; ok {
			corpusLogger.Warn("several files in package, keeping the last one",
				"package", pkg, "dropped", prev.Name, "kept", name)
		}
		files[pkg] = file
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse corpus")
	}
	corpusLogger.Debug("parsed corpus", "packages", len(files))
	return files, nil
}

// RebuildTriggers lists every directory and source file of fsys, joined to
// root, in walk order. A change to any of them can change the result of a bootstrap.
func RebuildTriggers(fsys fs.FS, root string) ([]string, error) {
	var triggers []string
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return fluxerr.IO{Path: name, Err: err}
		}
		if d.IsDir() || strings.HasSuffix(name, ".flux") {
			triggers = append(triggers, filepath.Join(root, filepath.FromSlash(name)))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	return triggers, nil
}
