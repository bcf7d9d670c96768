// Package filter defines the client-facing filter expression and decodes it
// from YAML or JSON documents.
//
// Filters are consumed exactly once by the compiler package. Scalar filters
// carry their field as a queryir.FieldRef already resolved against the data
// model, so compilation never has to look names up.
//
// The parser is the validation boundary: everything it returns is well
// formed (operators set, operands typed, nesting bounded by MaxDepth).
// Hand-built filters that skip the parser must uphold the same rules.
package filter
