// Package querysql renders condition trees as parameterized SQLite SQL and
// resolves relation filters into sub-selects.
//
// Rendering is deterministic: the same tree always yields the same SQL text
// and parameter list, in left-to-right order. Literal values never appear in
// the SQL text.
package querysql
