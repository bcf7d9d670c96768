// Package store runs compiled filters against SQLite.
//
// Migrate creates one table per model of an ir.Schema. Values are stored so
// that rendered query parameters compare correctly against them:
//   - datetime: TEXT in querysql.TimeLayout (UTC, fixed width)
//   - uuid, enum, string: TEXT
//   - json: TEXT, re-encoded with sorted object keys
//   - bool: INTEGER 0/1
//   - id: no affinity, so integer and string ids keep their type
//
// Migrated models are recorded in the prisma_models catalog. Migrating a
// model whose definition changed is an error; the store never alters or
// drops existing tables.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - Single connection: SQLite allows one writer
package store
