package bootstrap

import (
	"slices"

	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/internal/log"
	"github.com/hashicorp/go-set/v3"
)

var resolverLogger = log.Section("resolver")

// Resolver computes the order in which packages must be inferred so that
// every package comes after the packages it imports.
//
// A Resolver accumulates state across calls to Resolve, so resolving
// several roots with the same Resolver yields a single order in which no
// package appears twice.
type Resolver struct {
	files AstFileMap
	deps  []string
	seen  *set.Set[string]
	done  *set.Set[string]
}

func NewResolver(files AstFileMap) *Resolver {
	return &Resolver{
		files: files,
		seen:  set.New[string](0),
		done:  set.New[string](0),
	}
}

// Resolve adds the transitive imports of name to the order, imports first.
// name itself is not added.
//
// Reaching a package that is being resolved but not yet done means the
// imports form a cycle, and a fluxerr.SelfDependency naming that package
// is returned.
func (r *Resolver) Resolve(name string) error {
	if r.seen.Contains(name) && !r.done.Contains(name) {
		return fluxerr.SelfDependency{Package: name}
	}
	r.seen.Insert(name)
	file, ok := r.files[name]
	if !ok {
		return fluxerr.PackageNotFound{Package: name}
	}
	for _, imp := range file.ImportPaths() {
		if err := r.Resolve(imp); err != nil {
			return err
		}
		if !slices.Contains(r.deps, imp) {
			resolverLogger.Debug("dependency resolved", "package", name, "import", imp)
			r.deps = append(r.deps, imp)
		}
	}
	r.done.Insert(name)
	return nil
}

// Deps returns the packages resolved so far, in inference order.
func (r *Resolver) Deps() []string {
	return slices.Clone(r.deps)
}

// Dependencies resolves each root in turn with a single Resolver.
func Dependencies(files AstFileMap, roots ...string) ([]string, error) {
	r := NewResolver(files)
	for _, root := range roots {
		if err := r.Resolve(root); err != nil {
			return nil, err
		}
	}
	return r.Deps(), nil
}
