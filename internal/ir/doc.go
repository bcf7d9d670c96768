// Package ir provides the typed operand values and the data model that
// filters are expressed against.
//
// This package contains type definitions and small helpers only. Other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - ScalarValue and IDValue are sealed interfaces; type switches over them
//     are exhaustive and an unknown or nil variant is a programming error
//   - Integers are always int64 and floats always float64
//   - Identifier references wrap exactly one IDString or IDInt
//   - Model lookups never guess: unknown names return an error or false
package ir
