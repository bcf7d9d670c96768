// Package compiler turns client filters into condition trees.
//
// PIPELINE:
//
//	Compile (dispatch on variant)
//	  ├─ And/Or  → fold sub-filters, last element as seed, right-associated
//	  ├─ Not     → Not(fold as And)
//	  ├─ Scalar  → CompileScalar → one leaf via the field's builders
//	  │              └─ ToNativeValue / ToDisplayString
//	  ├─ Relation → RelationCompiler (sub-select, external)
//	  └─ Bool    → NoCondition / NegativeCondition
//
// Compilation is pure: no I/O, no shared mutable state, safe for concurrent
// use. It is total for well-formed input.
//
// FAULTS:
//
// Input that violates a precondition (missing operator, unset value,
// unknown variant) is not a user error. It means the filter's producer and
// this package disagree on the schema, so the compiler panics with a
// *Fault instead of returning an error. Validate untrusted input with
// filter.Parser before compiling.
package compiler
