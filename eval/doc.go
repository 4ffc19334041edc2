// Package eval implements the evaluation engine: the depth-first,
// order-sensitive walk that turns a parsed configuration tree into a tree
// of live values.
//
// Evaluation is scope by scope, in document order. Within a scope, each
// entry's resolved value is bound into the namespace before the next entry
// is evaluated, so later entries may reference earlier ones. Forward
// references fail deterministically; there is no dependency reordering.
//
// Strings are interpreted as expressions exactly once. A non-string result
// of that single interpretation is resolved recursively. Mappings carrying
// both reserved identity keys are recognized as object specifications and
// materialized through the registry instead of remaining mappings.
package eval
