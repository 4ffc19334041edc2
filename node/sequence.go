package node

// SequenceKind distinguishes list-like from tuple-like sequences.
// The tag comes from the source syntax and must survive evaluation.
type SequenceKind int

const (
	// KindList marks a sequence with mutable list semantics.
	KindList SequenceKind = iota

	// KindTuple marks a sequence with fixed tuple semantics.
	KindTuple
)

// String returns a string representation of the sequence kind.
func (k SequenceKind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Sequence is an ordered collection of values tagged as list-like or
// tuple-like.
type Sequence struct {
	Items []any
	Kind  SequenceKind
}

// NewList creates a list-tagged sequence.
func NewList(items ...any) *Sequence {
	return &Sequence{Items: items, Kind: KindList}
}

// NewTuple creates a tuple-tagged sequence.
func NewTuple(items ...any) *Sequence {
	return &Sequence{Items: items, Kind: KindTuple}
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	return len(s.Items)
}

// Clone returns a deep copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	items := make([]any, len(s.Items))
	for i, item := range s.Items {
		items[i] = cloneValue(item)
	}

	return &Sequence{Items: items, Kind: s.Kind}
}

// flatten returns the items as a plain slice with nested nodes and
// sequences flattened recursively.
func (s *Sequence) flatten() []any {
	out := make([]any, len(s.Items))

	for i, item := range s.Items {
		switch v := item.(type) {
		case *Node:
			out[i] = v.AsMap()

		case *Sequence:
			out[i] = v.flatten()

		default:
			out[i] = item
		}
	}

	return out
}
