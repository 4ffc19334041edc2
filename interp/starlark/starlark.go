// Package starlark provides a Starlark-backed implementation of the
// expression service. Documents evaluated with it use Starlark expression
// syntax instead of expr-lang.
//
// Host objects and functions that have no Starlark representation are
// omitted from the environment; expressions referencing them fail with an
// unresolved-name error.
package starlark

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"go.starlark.net/starlark"

	"github.com/tronglh241/liberyacs/errs"
	"github.com/tronglh241/liberyacs/node"
)

// Interp evaluates expressions with the Starlark interpreter. The zero
// value is ready to use.
type Interp struct{}

// New creates a Starlark-backed interpreter.
func New() *Interp {
	return &Interp{}
}

// Interpret evaluates text as a single Starlark expression against env.
func (s *Interp) Interpret(
	ctx context.Context,
	text string,
	env map[string]any,
) (any, error) {
	thread := &starlark.Thread{Name: "liberyacs"}

	if done := ctx.Done(); done != nil {
		stop := context.AfterFunc(ctx, func() {
			thread.Cancel(context.Cause(ctx).Error())
		})
		defer stop()
	}

	dict := make(starlark.StringDict, len(env))

	for name, value := range env {
		sv, ok := toStarlark(value)
		if !ok {
			continue
		}

		dict[name] = sv
	}

	out, err := starlark.Eval(thread, "<expr>", text, dict)
	if err != nil {
		kind := errs.ErrParseText
		if isUndefined(err) {
			kind = errs.ErrUnresolvedName
		}

		return nil, kind.Wrap(err).
			With(slog.String("source", text))
	}

	return fromStarlark(out), nil
}

// isUndefined reports whether a Starlark error was caused by an undefined
// identifier.
func isUndefined(err error) bool {
	return strings.Contains(err.Error(), "undefined:")
}

// toStarlark converts a namespace value to a Starlark value. The second
// result is false for values with no Starlark representation.
func toStarlark(v any) (starlark.Value, bool) {
	switch v := v.(type) {
	case nil:
		return starlark.None, true

	case bool:
		return starlark.Bool(v), true

	case int:
		return starlark.MakeInt(v), true

	case int64:
		return starlark.MakeInt64(v), true

	case float64:
		return starlark.Float(v), true

	case string:
		return starlark.String(v), true

	case []any:
		return sliceToStarlark(v, node.KindList)

	case *node.Sequence:
		return sliceToStarlark(v.Items, v.Kind)

	case *node.Node:
		return mapToStarlark(v.AsMap())

	case map[string]any:
		return mapToStarlark(v)

	default:
		return nil, false
	}
}

func sliceToStarlark(
	items []any,
	kind node.SequenceKind,
) (starlark.Value, bool) {
	elems := make([]starlark.Value, 0, len(items))

	for _, item := range items {
		sv, ok := toStarlark(item)
		if !ok {
			return nil, false
		}

		elems = append(elems, sv)
	}

	if kind == node.KindTuple {
		return starlark.Tuple(elems), true
	}

	return starlark.NewList(elems), true
}

func mapToStarlark(m map[string]any) (starlark.Value, bool) {
	dict := starlark.NewDict(len(m))

	for key, value := range m {
		sv, ok := toStarlark(value)
		if !ok {
			return nil, false
		}

		if err := dict.SetKey(starlark.String(key), sv); err != nil {
			return nil, false
		}
	}

	return dict, true
}

// fromStarlark converts an evaluation result back to a Go value. Tuples
// keep their tuple tag; unconvertible values pass through opaquely.
func fromStarlark(v starlark.Value) any {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil

	case starlark.Bool:
		return bool(v)

	case starlark.Int:
		if i, ok := v.Int64(); ok {
			if i >= math.MinInt && i <= math.MaxInt {
				return int(i)
			}

			return i
		}

		return v.String()

	case starlark.Float:
		return float64(v)

	case starlark.String:
		return string(v)

	case starlark.Tuple:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = fromStarlark(item)
		}

		return node.NewTuple(items...)

	case *starlark.List:
		items := make([]any, v.Len())
		for i := range v.Len() {
			items[i] = fromStarlark(v.Index(i))
		}

		return items

	case *starlark.Dict:
		out := make(map[string]any, v.Len())

		for _, kv := range v.Items() {
			key, ok := kv[0].(starlark.String)
			if !ok {
				continue
			}

			out[string(key)] = fromStarlark(kv[1])
		}

		return out

	default:
		return v
	}
}
