package node

// Typed accessors for callers consuming an evaluated tree. Each returns the
// zero value and false when the key is absent or has a different type.

// Str returns the string bound to key.
func (n *Node) Str(key string) (string, bool) {
	v, ok := n.values[key]
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// Int returns the integer bound to key. Whole-valued floats convert.
func (n *Node) Int(key string) (int, bool) {
	v, ok := n.values[key]
	if !ok {
		return 0, false
	}

	switch v := v.(type) {
	case int:
		return v, true

	case int64:
		return int(v), true

	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}

	return 0, false
}

// Float returns the float bound to key. Integers convert.
func (n *Node) Float(key string) (float64, bool) {
	v, ok := n.values[key]
	if !ok {
		return 0, false
	}

	switch v := v.(type) {
	case float64:
		return v, true

	case int:
		return float64(v), true

	case int64:
		return float64(v), true
	}

	return 0, false
}

// Bool returns the boolean bound to key.
func (n *Node) Bool(key string) (bool, bool) {
	v, ok := n.values[key]
	if !ok {
		return false, false
	}

	b, ok := v.(bool)

	return b, ok
}

// Node returns the nested node bound to key.
func (n *Node) Node(key string) (*Node, bool) {
	v, ok := n.values[key]
	if !ok {
		return nil, false
	}

	child, ok := v.(*Node)

	return child, ok
}

// Seq returns the sequence bound to key.
func (n *Node) Seq(key string) (*Sequence, bool) {
	v, ok := n.values[key]
	if !ok {
		return nil, false
	}

	seq, ok := v.(*Sequence)

	return seq, ok
}
