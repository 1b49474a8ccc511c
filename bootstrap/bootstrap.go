// Package bootstrap infers the types of a standard library made of many
// packages that import each other.
//
// Packages are inferred in dependency order, sharing a single Fresher so
// that type variables never collide across packages. The result is a
// prelude, the values every program sees without importing anything, and
// the stdlib, the record type of each package keyed by its import path.
package bootstrap

import (
	"io/fs"
	"os"
	"slices"

	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/internal/log"
	"github.com/gusakk/fluxsem/semantic"
	"github.com/gusakk/fluxsem/semantic/infer"
	"github.com/gusakk/fluxsem/semantic/types"
)

var logger = log.Section("bootstrap")

// DefaultPrelude returns the packages whose values make up the prelude,
// in the order they are inferred.
func DefaultPrelude() []string {
	return []string{"universe", "influxdata/influxdb"}
}

type Options struct {
	// Prelude overrides DefaultPrelude when not empty.
	Prelude []string
	// Root is joined to the rebuild triggers. It is informational only,
	// the corpus is always read from the fs.FS.
	Root string
	// FresherStart is the first type variable handed out.
	FresherStart types.Tvar
}

func (o Options) prelude() []string {
	if len(o.Prelude) > 0 {
		return slices.Clone(o.Prelude)
	}
	return DefaultPrelude()
}

// Result of a bootstrap run.
type Result struct {
	Prelude types.PolyTypeMap
	Stdlib  types.PolyTypeMap
	// Fresher continues after the last variable used by the run, so that
	// programs checked against the result do not collide with it.
	Fresher         *types.Fresher
	RebuildTriggers []string
	Files           AstFileMap
}

// Bootstrap infers the standard library found under the directory root.
func Bootstrap(root string) (*Result, error) {
	return BootstrapFS(os.DirFS(root), Options{Root: root})
}

// BootstrapFS infers the standard library held by fsys.
func BootstrapFS(fsys fs.FS, opts Options) (*Result, error) {
	files, err := ParseCorpus(fsys)
	if err != nil {
		return nil, err
	}
	triggers, err := RebuildTriggers(fsys, opts.Root)
	if err != nil {
		return nil, err
	}
	res, err := BootstrapFiles(files, opts)
	if err != nil {
		return nil, err
	}
	res.RebuildTriggers = triggers
	return res, nil
}

// BootstrapFiles infers already parsed packages.
func BootstrapFiles(files AstFileMap, opts Options) (*Result, error) {
	in := &pkgInferrer{f: types.NewFresher(opts.FresherStart), files: files}

	prelude, imports, err := in.inferPrelude(opts.prelude())
	if err != nil {
		return nil, err
	}
	stdlib, err := in.inferStdlib(prelude, imports)
	if err != nil {
		return nil, err
	}
	logger.Info("bootstrap complete",
		"packages", stdlib.Len(), "prelude", prelude.Len(), "next_tvar", in.f.Snapshot())
	return &Result{
		Prelude: prelude,
		Stdlib:  stdlib,
		Fresher: in.f,
		Files:   files,
	}, nil
}

// InferPkg infers the package name and, first, every package it depends on
// that imports does not hold yet. Dependencies are inferred against
// prelude and added to the returned import map. The bindings of name
// itself are returned as a flat map.
func InferPkg(name string, f *types.Fresher, files AstFileMap, prelude, imports types.PolyTypeMap) (types.PolyTypeMap, types.PolyTypeMap, error) {
	in := &pkgInferrer{f: f, files: files}
	return in.inferPkg(name, prelude, imports)
}

type pkgInferrer struct {
	f     *types.Fresher
	files AstFileMap
	// onInfer is called before a package is inferred.
	onInfer func(pkg string)
}

func (in *pkgInferrer) inferPrelude(names []string) (types.PolyTypeMap, types.PolyTypeMap, error) {
	prelude := types.NewPolyTypeMap()
	imports := types.NewPolyTypeMap()
	for _, name := range names {
		values, next, err := in.inferPkg(name, types.NewPolyTypeMap(), imports)
		if err != nil {
			return prelude, imports, err
		}
		prelude = prelude.Merge(values)
		imports = next
	}
	return prelude, imports, nil
}

func (in *pkgInferrer) inferStdlib(prelude, imports types.PolyTypeMap) (types.PolyTypeMap, error) {
	for _, path := range in.files.Paths() {
		if _, ok := imports.Import(path); ok {
			continue
		}
		values, next, err := in.inferPkg(path, prelude, imports)
		if err != nil {
			return imports, err
		}
		poly, err := BuildPolyType(values, in.f)
		if err != nil {
			return imports, fluxerr.TypeError{Package: path, Err: err}
		}
		imports = next.Insert(path, poly)
	}
	return imports, nil
}

func (in *pkgInferrer) inferPkg(name string, prelude, imports types.PolyTypeMap) (types.PolyTypeMap, types.PolyTypeMap, error) {
	r := NewResolver(in.files)
	if err := r.Resolve(name); err != nil {
		return types.PolyTypeMap{}, imports, err
	}

	for _, pkg := range r.Deps() {
		if _, ok := imports.Import(pkg); ok {
			continue
		}
		values, err := in.inferFile(pkg, prelude, imports)
		if err != nil {
			return types.PolyTypeMap{}, imports, err
		}
		poly, err := BuildPolyType(values, in.f)
		if err != nil {
			return types.PolyTypeMap{}, imports, fluxerr.TypeError{Package: pkg, Err: err}
		}
		imports = imports.Insert(pkg, poly)
	}

	values, err := in.inferFile(name, prelude, imports)
	if err != nil {
		return types.PolyTypeMap{}, imports, err
	}
	return values, imports, nil
}

func (in *pkgInferrer) inferFile(pkg string, prelude, imports types.PolyTypeMap) (types.PolyTypeMap, error) {
	file, ok := in.files[pkg]
	if !ok {
		return types.PolyTypeMap{}, fluxerr.PackageNotFound{Package: pkg}
	}
	if in.onInfer != nil {
		in.onInfer(pkg)
	}
	logger.Debug("inferring package", "package", pkg, "file", file.Name)

	sf, err := semantic.ConvertFile(file, in.f)
	if err != nil {
		return types.PolyTypeMap{}, fluxerr.TypeError{Package: pkg, Err: err}
	}
	scope, _, err := semantic.InferFile(sf, infer.NewEnvironment(prelude), in.f, imports)
	if err != nil {
		return types.PolyTypeMap{}, fluxerr.TypeError{Package: pkg, Err: err}
	}
	return scope.Values, nil
}

// Analyze infers a program against the result, with the prelude in scope
// and the stdlib importable. It advances r.Fresher, so a Result must not
// be analyzed from several goroutines at once.
func (r *Result) Analyze(name, src string) (types.PolyTypeMap, error) {
	sf, err := semantic.ConvertSource(name, src, r.Fresher)
	if err != nil {
		return types.PolyTypeMap{}, err
	}
	scope, _, err := semantic.InferFile(sf, infer.NewEnvironment(r.Prelude), r.Fresher, r.Stdlib)
	if err != nil {
		return types.PolyTypeMap{}, err
	}
	return scope.Values, nil
}
