package liberyacs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/tronglh241/liberyacs/errs"
	"github.com/tronglh241/liberyacs/eval"
	"github.com/tronglh241/liberyacs/node"
)

// Load reads a YAML configuration file, decodes it order-preserving, and
// evaluates it unless evaluation is disabled via options.
func Load(path string, opts ...Option) (*node.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.ErrLoad.Wrap(err).
			With(slog.String("file", path))
	}

	return LoadBytes(data, opts...)
}

// LoadBytes decodes a YAML document from memory and evaluates it unless
// evaluation is disabled via options.
func LoadBytes(data []byte, opts ...Option) (*node.Node, error) {
	root, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return Eval(context.Background(), root, opts...)
}

// Decode parses a YAML document into an unevaluated node tree. Key order
// is preserved; it defines reference visibility during evaluation.
func Decode(data []byte) (*node.Node, error) {
	var raw any

	err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap())
	if err != nil {
		return nil, errs.ErrLoad.Wrap(err)
	}

	if raw == nil {
		return node.New(), nil
	}

	decoded, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}

	root, ok := decoded.(*node.Node)
	if !ok {
		return nil, errs.ErrLoad.
			With(slog.String(
				"reason", "top-level document must be a mapping",
			))
	}

	return root, nil
}

// Eval evaluates an already-parsed node tree according to the options.
func Eval(
	ctx context.Context,
	cfg *node.Node,
	opts ...Option,
) (*node.Node, error) {
	o := makeOptions(opts...)

	engine, err := eval.New(o.engineOpts()...)
	if err != nil {
		return nil, err
	}

	return engine.Evaluate(ctx, cfg, o.mode)
}

// decodeValue converts goccy ordered-map output into node types and
// normalizes integer scalars to int.
func decodeValue(v any) (any, error) {
	switch v := v.(type) {
	case yaml.MapSlice:
		n := node.New()

		for _, item := range v {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}

			value, err := decodeValue(item.Value)
			if err != nil {
				return nil, err
			}

			if err := n.Set(key, value); err != nil {
				return nil, errs.ErrLoad.Wrap(err)
			}
		}

		return n, nil

	case []any:
		items := make([]any, len(v))

		for i, item := range v {
			value, err := decodeValue(item)
			if err != nil {
				return nil, err
			}

			items[i] = value
		}

		return node.NewList(items...), nil

	case uint64:
		if v > math.MaxInt {
			return nil, errs.ErrLoad.
				With(slog.Uint64("value", v))
		}

		return int(v), nil

	case int64:
		return int(v), nil

	default:
		return v, nil
	}
}
