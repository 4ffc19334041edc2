package eval

import (
	"log/slog"
	"maps"
	"reflect"

	"github.com/tronglh241/liberyacs/errs"
)

// ErrRebound is returned when a name would be rebound to a different value
// within the same scope during a single evaluation pass.
var ErrRebound = errs.New("name already bound in scope")

// Namespace is one layer of the chained lexical environment threaded
// through evaluation. Lookup walks inner to outer; the root layer sits on
// top of a fixed base of always-available primitives.
type Namespace struct {
	parent   *Namespace
	base     map[string]any
	bindings map[string]any
}

// NewNamespace creates a root namespace over the given base primitives.
// The base map is not copied; callers pass a fresh clone per evaluation.
func NewNamespace(base map[string]any) *Namespace {
	return &Namespace{
		base:     base,
		bindings: make(map[string]any),
	}
}

// Child opens a new innermost scope whose outer chain is the receiver.
// The parent's bindings are frozen from the child's point of view: the
// child never mutates them.
func (ns *Namespace) Child() *Namespace {
	return &Namespace{
		parent:   ns,
		bindings: make(map[string]any),
	}
}

// Bind adds a binding to this scope. Bindings are append-only during an
// evaluation pass: rebinding a name to a different value fails.
func (ns *Namespace) Bind(name string, value any) error {
	if existing, ok := ns.bindings[name]; ok {
		if !reflect.DeepEqual(existing, value) {
			return ErrRebound.With(slog.String("name", name))
		}

		return nil
	}

	ns.bindings[name] = value

	return nil
}

// Resolve looks up a name from the innermost scope outward. The base
// primitives are consulted last.
func (ns *Namespace) Resolve(name string) (any, bool) {
	for scope := ns; scope != nil; scope = scope.parent {
		if value, ok := scope.bindings[name]; ok {
			return value, true
		}

		if scope.parent == nil && scope.base != nil {
			if value, ok := scope.base[name]; ok {
				return value, true
			}
		}
	}

	return nil, false
}

// Flatten renders the full chain as a single map for the expression
// service, with inner bindings shadowing outer ones.
func (ns *Namespace) Flatten() map[string]any {
	if ns.parent == nil {
		out := make(map[string]any, len(ns.base)+len(ns.bindings))

		maps.Copy(out, ns.base)
		maps.Copy(out, ns.bindings)

		return out
	}

	out := ns.parent.Flatten()
	maps.Copy(out, ns.bindings)

	return out
}
