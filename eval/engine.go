package eval

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tronglh241/liberyacs/errs"
	"github.com/tronglh241/liberyacs/interp"
	"github.com/tronglh241/liberyacs/log"
	"github.com/tronglh241/liberyacs/node"
	"github.com/tronglh241/liberyacs/registry"
)

// Mode selects between pass-through and full evaluation.
type Mode int

const (
	// ModeRaw returns the input unchanged. It can never fail.
	ModeRaw Mode = iota

	// ModeEvaluated resolves every value in the document.
	ModeEvaluated
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeEvaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// Engine evaluates configuration trees. An Engine is safe for concurrent
// use: each Evaluate call owns its namespace chain and output tree.
type Engine struct {
	conv   Convention
	interp interp.Interpreter
	reg    *registry.Registry
	logger log.Logger
}

// New creates an Engine. Defaults: the Plain convention, the expr-lang
// interpreter, and the standard registry.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		conv:   Plain,
		interp: interp.NewExpr(),
		reg:    registry.Std(),
		logger: log.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if err := e.conv.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// Registry returns the engine's symbol registry, so callers can register
// additional libraries.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Evaluate runs the engine over cfg. In ModeRaw the input is returned
// unchanged. In ModeEvaluated a new tree of identical shape is produced
// with every value resolved, or the first failure is returned tagged with
// the dotted key path at which it occurred.
//
// The root mapping is always a scope, never an object specification: the
// result of Evaluate is a tree, so a top-level mapping carrying the
// identity keys has its values evaluated as ordinary entries rather than
// being materialized. Object specifications are recognized at every level
// below the root.
func (e *Engine) Evaluate(
	ctx context.Context,
	cfg *node.Node,
	mode Mode,
) (*node.Node, error) {
	if cfg == nil || mode == ModeRaw {
		return cfg, nil
	}

	ns := NewNamespace(interp.Builtins())

	return e.evalScope(ctx, cfg, ns, nil)
}

// keyPath tracks the dotted position within the document for errors and
// logging.
type keyPath []string

func (p keyPath) push(key string) keyPath {
	return append(p[:len(p):len(p)], key)
}

func (p keyPath) String() string {
	return strings.Join(p, ".")
}

// evalScope applies the per-scope procedure: extra-library declarations
// first, then every remaining key in document order, binding each resolved
// value before the next key is evaluated.
func (e *Engine) evalScope(
	ctx context.Context,
	n *node.Node,
	ns *Namespace,
	path keyPath,
) (*node.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if raw, ok := n.Get(e.conv.Extralibs); ok {
		if err := e.bindExtralibs(ctx, raw, ns, path); err != nil {
			return nil, err
		}
	}

	out := node.New()

	for key, value := range n.All() {
		if key == e.conv.Extralibs {
			// Declarations produce bindings, not output values.
			continue
		}

		keyAt := path.push(key)

		resolved, err := e.resolveValue(ctx, value, ns, keyAt)
		if err != nil {
			return nil, err
		}

		if err := ns.Bind(key, resolved); err != nil {
			return nil, tagPath(err, keyAt)
		}

		if err := out.Set(key, resolved); err != nil {
			return nil, tagPath(err, keyAt)
		}

		e.logger.TraceContext(ctx, "bound entry",
			slog.String("path", keyAt.String()),
		)
	}

	return out, nil
}

// bindExtralibs resolves an extra-libraries declaration into namespace
// bindings. Entries are strict: a plain string imports a whole library;
// a mapping must carry exactly the module and name keys and imports a
// single symbol.
func (e *Engine) bindExtralibs(
	ctx context.Context,
	raw any,
	ns *Namespace,
	path keyPath,
) error {
	declPath := path.push(e.conv.Extralibs)

	decl, ok := raw.(*node.Node)
	if !ok {
		return errs.ErrMalformedSpec.
			With(slog.String(
				"reason", "declaration must be a mapping",
			)).
			AtPath(declPath.String())
	}

	for alias, target := range decl.All() {
		aliasPath := declPath.push(alias)

		bound, err := e.resolveLibrary(target, aliasPath)
		if err != nil {
			return err
		}

		if err := ns.Bind(alias, bound); err != nil {
			return tagPath(err, aliasPath)
		}

		e.logger.DebugContext(ctx, "library bound",
			slog.String("alias", alias),
			slog.String("path", aliasPath.String()),
		)
	}

	return nil
}

func (e *Engine) resolveLibrary(target any, path keyPath) (any, error) {
	switch t := target.(type) {
	case string:
		lib, err := e.reg.Lookup(t)
		if err != nil {
			return nil, tagPath(err, path)
		}

		return map[string]any(lib), nil

	case *node.Node:
		module, name, err := e.symbolSpec(t, path)
		if err != nil {
			return nil, err
		}

		sym, err := e.reg.Symbol(module, name)
		if err != nil {
			return nil, tagPath(err, path)
		}

		return sym, nil

	default:
		return nil, errs.ErrMalformedSpec.
			With(slog.String(
				"reason", "entry must be a library path or a symbol spec",
			)).
			AtPath(path.String())
	}
}

// symbolSpec validates the strict single-symbol import shape: both identity
// keys present with string values and nothing else.
func (e *Engine) symbolSpec(
	n *node.Node,
	path keyPath,
) (module, name string, err error) {
	for key := range n.All() {
		if key != e.conv.Module && key != e.conv.Name {
			return "", "", errs.ErrMalformedSpec.
				With(
					slog.String("reason", "unexpected key"),
					slog.String("key", key),
				).
				AtPath(path.String())
		}
	}

	module, okModule := n.Str(e.conv.Module)
	name, okName := n.Str(e.conv.Name)

	if !okModule || !okName {
		return "", "", errs.ErrMalformedSpec.
			With(slog.String(
				"reason",
				e.conv.Module+" and "+e.conv.Name+
					" must both be present as strings",
			)).
			AtPath(path.String())
	}

	return module, name, nil
}

// resolveValue applies the value procedure to a single value.
func (e *Engine) resolveValue(
	ctx context.Context,
	value any,
	ns *Namespace,
	path keyPath,
) (any, error) {
	switch v := value.(type) {
	case string:
		out, err := e.interp.Interpret(ctx, v, ns.Flatten())
		if err != nil {
			return nil, tagPath(err, path)
		}

		// One-pass rule: a string result is final, never reinterpreted.
		if s, ok := out.(string); ok {
			return s, nil
		}

		return e.resolveValue(ctx, out, ns, path)

	case *node.Sequence:
		items, err := e.resolveItems(ctx, v.Items, ns, path)
		if err != nil {
			return nil, err
		}

		return &node.Sequence{Items: items, Kind: v.Kind}, nil

	case []any:
		// Bare slices come from the expression service; they carry
		// list semantics.
		items, err := e.resolveItems(ctx, v, ns, path)
		if err != nil {
			return nil, err
		}

		return node.NewList(items...), nil

	case map[string]any:
		// Mapping results from the expression service descend like
		// document mappings. Host maps carry no key order, so keys
		// are sorted.
		n := node.New()

		for _, key := range slices.Sorted(maps.Keys(v)) {
			if err := n.Set(key, v[key]); err != nil {
				return nil, tagPath(err, path)
			}
		}

		return e.resolveValue(ctx, n, ns, path)

	case *node.Node:
		if e.isObjectSpec(v) {
			return e.materialize(ctx, v, ns, path)
		}

		return e.evalScope(ctx, v, ns.Child(), path)

	default:
		// Numbers, booleans, null, and host objects pass through.
		return value, nil
	}
}

func (e *Engine) resolveItems(
	ctx context.Context,
	items []any,
	ns *Namespace,
	path keyPath,
) ([]any, error) {
	out := make([]any, len(items))

	for i, item := range items {
		resolved, err := e.resolveValue(
			ctx, item, ns, path.push(strconv.Itoa(i)),
		)
		if err != nil {
			return nil, err
		}

		out[i] = resolved
	}

	return out, nil
}

// isObjectSpec reports whether a node requests object construction: both
// identity keys present with string values. A node with only one of the
// two is an ordinary mapping.
func (e *Engine) isObjectSpec(n *node.Node) bool {
	_, okModule := n.Str(e.conv.Module)
	_, okName := n.Str(e.conv.Name)

	return okModule && okName
}

// materialize constructs a host object from an object specification.
// Keys other than the reserved three are discarded silently.
func (e *Engine) materialize(
	ctx context.Context,
	spec *node.Node,
	ns *Namespace,
	path keyPath,
) (any, error) {
	module, _ := spec.Str(e.conv.Module)
	name, _ := spec.Str(e.conv.Name)

	kwargs := map[string]any{}

	if raw, ok := spec.Get(e.conv.Kwargs); ok {
		kwargsPath := path.push(e.conv.Kwargs)

		kwNode, ok := raw.(*node.Node)
		if !ok {
			return nil, errs.ErrMalformedSpec.
				With(slog.String(
					"reason", e.conv.Kwargs+" must be a mapping",
				)).
				AtPath(kwargsPath.String())
		}

		resolved, err := e.evalScope(ctx, kwNode, ns.Child(), kwargsPath)
		if err != nil {
			return nil, err
		}

		for key, value := range resolved.All() {
			kwargs[key] = value
		}
	}

	sym, err := e.reg.Symbol(module, name)
	if err != nil {
		return nil, tagPath(err, path)
	}

	obj, err := registry.Construct(sym, kwargs)
	if err != nil {
		return nil, tagPath(err, path)
	}

	e.logger.DebugContext(ctx, "object constructed",
		slog.String("module", module),
		slog.String("name", name),
		slog.String("path", path.String()),
	)

	return obj, nil
}

// tagPath attaches the dotted key path to an error, wrapping foreign
// errors into the typed form first.
func tagPath(err error, path keyPath) error {
	var ee *errs.Error
	if !errors.As(err, &ee) {
		ee = errs.ErrParseText.Wrap(err)
	}

	return ee.AtPath(path.String())
}
