// Package registry implements the object materializer: resolving a textual
// library path and symbol name to a callable, and constructing values from
// named arguments.
//
// Go has no runtime import, so libraries are registered explicitly. Each
// Registry is scope-owned rather than process-global; independent
// evaluations can use independent registries without coordination.
package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/tronglh241/liberyacs/errs"
)

// Library is a named collection of importable symbols: constants and
// callables addressable by symbol name.
type Library map[string]any

// Registry maps library paths to libraries.
type Registry struct {
	mu   sync.RWMutex
	libs map[string]Library
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		libs: make(map[string]Library),
	}
}

// Register binds a library under the given path, replacing any previous
// registration.
func (r *Registry) Register(path string, lib Library) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.libs[path] = lib
}

// Lookup returns the library registered under path.
func (r *Registry) Lookup(path string) (Library, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lib, ok := r.libs[path]
	if !ok {
		return nil, errs.ErrSymbolResolution.
			With(slog.String("library", path))
	}

	return lib, nil
}

// Symbol returns a single symbol from the library registered under path.
func (r *Registry) Symbol(path, name string) (any, error) {
	lib, err := r.Lookup(path)
	if err != nil {
		return nil, err
	}

	sym, ok := lib[name]
	if !ok {
		return nil, errs.ErrSymbolResolution.
			With(
				slog.String("library", path),
				slog.String("symbol", name),
			)
	}

	return sym, nil
}

// Libraries returns the registered library paths in sorted order.
func (r *Registry) Libraries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.libs))
	for path := range r.libs {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return paths
}
