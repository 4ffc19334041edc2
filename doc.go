// Package liberyacs loads declarative, hierarchical configuration documents
// and evaluates them into trees of live values: primitives, nested
// mappings, sequences, and constructed host objects, with forward-safe
// cross-references between entries.
//
// A document is ordinary YAML. With evaluation enabled, every string value
// is interpreted exactly once as an expression against the names bound so
// far, mappings carrying the reserved identity keys are materialized into
// constructed objects, and a reserved extra-libraries key imports
// registered symbols into the evaluation namespace:
//
//	extralibs:
//	  m: math
//	base_value: 10
//	level_one: base_value * 2
//	diagonal: m.hypot(3, 4)
//	started:
//	  module: time
//	  name: date
//	  kwargs:
//	    year: 2024
//	    month: 12
//	    day: 24
//
// Load the document with:
//
//	cfg, err := liberyacs.Load("config.yml")
//
// Evaluation is ordered: entries may reference any sibling or ancestor
// entry declared before them, in document order. Referencing a later
// sibling is an error, never a deferred dependency.
//
// With evaluation disabled (liberyacs.WithEvaluation(false)), the parsed
// tree is returned unchanged, which is useful for standard-config
// compatibility without dynamic behavior.
package liberyacs
