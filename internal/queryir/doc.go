// Package queryir provides the condition tree that filter compilation
// produces and SQL rendering consumes.
//
// ARCHITECTURE:
//
//	[filter.Filter] → compiler → [queryir.ConditionTree] → querysql → SQL
//
// The tree is backend-neutral: it names columns and native values but
// contains no SQL text. Wildcard placement for pattern predicates is the
// one piece of rendering decided here, by the Column leaf builders, so that
// every backend sees the same LIKE pattern.
//
// SEALED INTERFACES:
//
// ConditionTree, Leaf and Value are sealed using the marker method pattern.
// Only types in this package implement them, which keeps type switches in
// backends exhaustive:
//
//	switch node := tree.(type) {
//	case NoCondition, NegativeCondition:
//	case Single:
//	case And, Or:
//	case Not:
//	}
//
// Trees are immutable values and never share nodes, so they can be handed
// between goroutines freely.
package queryir
