// Package schema loads data models written in CUE.
//
// A schema file declares models under the top-level `models` struct:
//
//	models: User: {
//		table: "users"
//		fields: {
//			id:   type: "int"
//			name: type: "string"
//			role: {type: "enum", values: ["admin", "member"]}
//		}
//		relations: posts: {model: "Post", kind: "many", from: "id", to: "authorId"}
//	}
//
// Every model is unified with the embedded #Model definition, so shape and
// type errors are reported by CUE with source positions. Cross references
// (relation targets, join fields, primary keys) are checked afterwards.
// Field order follows declaration order.
package schema
