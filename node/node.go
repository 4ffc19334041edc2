// Package node provides the ordered, hierarchical key-value container used
// to represent configuration documents before and after evaluation.
//
// Key order is preserved and is semantically significant: it defines the
// order in which entries become visible to expressions in later siblings.
package node

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/tronglh241/liberyacs/errs"
)

// ErrFrozen is returned when mutating a frozen node.
var ErrFrozen = errs.New("cannot mutate a frozen node")

// Node is an ordered mapping from string keys to values. Values are scalars,
// *Sequence, nested *Node, or opaque host objects produced by evaluation.
type Node struct {
	keys   []string
	values map[string]any
	frozen bool
}

// New creates an empty Node.
func New() *Node {
	return &Node{
		values: make(map[string]any),
	}
}

// Set binds key to value, appending the key if it is new.
// Fails if the node is frozen.
func (n *Node) Set(key string, value any) error {
	if n.frozen {
		return ErrFrozen.With(slog.String("key", key))
	}

	if _, exists := n.values[key]; !exists {
		n.keys = append(n.keys, key)
	}

	n.values[key] = value

	return nil
}

// Get returns the value bound to key.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.values[key]

	return v, ok
}

// Has reports whether key is present.
func (n *Node) Has(key string) bool {
	_, ok := n.values[key]

	return ok
}

// Delete removes key and its value. Fails if the node is frozen.
func (n *Node) Delete(key string) error {
	if n.frozen {
		return ErrFrozen.With(slog.String("key", key))
	}

	if _, exists := n.values[key]; !exists {
		return nil
	}

	delete(n.values, key)

	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)

			break
		}
	}

	return nil
}

// Len returns the number of keys.
func (n *Node) Len() int {
	return len(n.keys)
}

// Keys returns the keys in insertion order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)

	return keys
}

// All returns an iterator over key-value pairs in insertion order.
func (n *Node) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range n.keys {
			if !yield(key, n.values[key]) {
				return
			}
		}
	}
}

// WithValue returns a shallow copy of the node with one key's value replaced
// (or appended). The copy is not frozen.
func (n *Node) WithValue(key string, value any) *Node {
	out := &Node{
		keys:   make([]string, len(n.keys)),
		values: make(map[string]any, len(n.values)+1),
	}

	copy(out.keys, n.keys)

	for k, v := range n.values {
		out.values[k] = v
	}

	if _, exists := out.values[key]; !exists {
		out.keys = append(out.keys, key)
	}

	out.values[key] = value

	return out
}

// Clone returns a deep copy of the node. Nested nodes and sequences are
// copied; scalar values and host objects are shared. The copy is not frozen.
func (n *Node) Clone() *Node {
	out := &Node{
		keys:   make([]string, len(n.keys)),
		values: make(map[string]any, len(n.values)),
	}

	copy(out.keys, n.keys)

	for k, v := range n.values {
		out.values[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case *Node:
		return v.Clone()

	case *Sequence:
		return v.Clone()

	default:
		return v
	}
}

// Merge recursively merges other into the node. Keys present in both with
// node values on both sides merge recursively; any other collision replaces
// the receiver's value. Keys unique to other are appended in order.
func (n *Node) Merge(other *Node) error {
	if n.frozen {
		return ErrFrozen
	}

	if other == nil {
		return nil
	}

	for key, value := range other.All() {
		existing, ok := n.values[key]
		if ok {
			dst, dstNode := existing.(*Node)
			src, srcNode := value.(*Node)

			if dstNode && srcNode {
				if err := dst.Merge(src); err != nil {
					return err
				}

				continue
			}
		}

		if err := n.Set(key, cloneValue(value)); err != nil {
			return err
		}
	}

	return nil
}

// Freeze makes the node and every nested node immutable.
func (n *Node) Freeze() {
	n.frozen = true

	for _, v := range n.values {
		if child, ok := v.(*Node); ok {
			child.Freeze()
		}
	}
}

// IsFrozen reports whether the node has been frozen.
func (n *Node) IsFrozen() bool {
	return n.frozen
}

// Lookup resolves a dotted path such as "model.backbone.depth" by
// descending through nested nodes.
func (n *Node) Lookup(path string) (any, bool) {
	current := n

	segments := strings.Split(path, ".")
	for i, seg := range segments {
		value, ok := current.Get(seg)
		if !ok {
			return nil, false
		}

		if i == len(segments)-1 {
			return value, true
		}

		current, ok = value.(*Node)
		if !ok {
			return nil, false
		}
	}

	return nil, false
}

// AsMap returns a plain-map snapshot of the node. Nested nodes become
// nested maps and sequences become slices; insertion order is lost.
func (n *Node) AsMap() map[string]any {
	out := make(map[string]any, len(n.values))

	for key, value := range n.All() {
		switch v := value.(type) {
		case *Node:
			out[key] = v.AsMap()

		case *Sequence:
			out[key] = v.flatten()

		default:
			out[key] = value
		}
	}

	return out
}
