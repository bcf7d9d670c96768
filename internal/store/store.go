package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/querysql"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - prisma_models catalog
const currentSchemaVersion = 1

// ErrModelChanged is returned by Migrate when a model's definition differs
// from the one its table was created with.
var ErrModelChanged = errors.New("model definition changed since migration")

// Store holds model tables in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Migrate creates a table per model, plus an index on the To column of
// every to-many relation. Models already migrated with the same definition
// are skipped; a changed definition fails with ErrModelChanged.
// Runs in a single transaction.
func (s *Store) Migrate(ctx context.Context, schema *ir.Schema) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migrate: %w", err)
	}
	defer tx.Rollback()

	for _, name := range schema.ModelNames() {
		m := schema.Models[name]

		def, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode model %s: %w", name, err)
		}

		var existing string
		err = tx.QueryRowContext(ctx, "SELECT definition FROM prisma_models WHERE name = ?", name).Scan(&existing)
		switch {
		case err == nil:
			if existing != string(def) {
				return fmt.Errorf("migrate %s: %w", name, ErrModelChanged)
			}
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("read catalog for %s: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, createTableSQL(m)); err != nil {
			return fmt.Errorf("create table for %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO prisma_models (name, table_name, definition) VALUES (?, ?, ?)",
			name, m.Table, string(def),
		); err != nil {
			return fmt.Errorf("record model %s: %w", name, err)
		}
	}

	// Indexes after all tables exist, since they point at related tables.
	for _, name := range schema.ModelNames() {
		for _, r := range schema.Models[name].Relations {
			if r.Kind != ir.ToMany {
				continue
			}
			related, err := schema.Model(r.Model)
			if err != nil {
				return fmt.Errorf("index %s.%s: %w", name, r.Name, err)
			}
			col := related.Column(r.To)
			idx := fmt.Sprintf("idx_%s_%s", related.Table, col)
			stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				querysql.QuoteIdentifier(idx), querysql.QuoteIdentifier(related.Table), querysql.QuoteIdentifier(col))
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("index %s.%s: %w", name, r.Name, err)
			}
		}
	}

	return tx.Commit()
}

// columnTypes maps field types to SQLite column types.
var columnTypes = map[ir.FieldType]string{
	ir.FieldString:   "TEXT",
	ir.FieldInt:      "INTEGER",
	ir.FieldFloat:    "REAL",
	ir.FieldBool:     "INTEGER",
	ir.FieldDateTime: "TEXT",
	ir.FieldEnum:     "TEXT",
	ir.FieldJSON:     "TEXT",
	ir.FieldUUID:     "TEXT",
	ir.FieldID:       "ANY",
}

func createTableSQL(m *ir.Model) string {
	defs := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		col := m.Column(f.Name)
		def := querysql.QuoteIdentifier(col)
		def += " " + columnTypes[f.Type]
		if col == m.PrimaryKeyColumn() {
			def += " PRIMARY KEY"
		}
		if f.Type == ir.FieldEnum && len(f.EnumValues) > 0 {
			quoted := make([]string, len(f.EnumValues))
			for i, v := range f.EnumValues {
				quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
			}
			def += fmt.Sprintf(" CHECK (%s IN (%s))", querysql.QuoteIdentifier(col), strings.Join(quoted, ", "))
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) STRICT", querysql.QuoteIdentifier(m.Table), strings.Join(defs, ", "))
}

// Insert adds one row to model's table. Keys of row are field names;
// missing fields are stored as NULL.
func (s *Store) Insert(ctx context.Context, m *ir.Model, row map[string]any) error {
	for key := range row {
		if _, ok := m.Field(key); !ok {
			return fmt.Errorf("insert into %s: unknown field %q", m.Name, key)
		}
	}

	cols := make([]string, 0, len(row))
	marks := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	for _, f := range m.Fields {
		v, ok := row[f.Name]
		if !ok {
			continue
		}
		arg, err := encodeValue(f, v)
		if err != nil {
			return fmt.Errorf("insert into %s: field %s: %w", m.Name, f.Name, err)
		}
		cols = append(cols, querysql.QuoteIdentifier(m.Column(f.Name)))
		marks = append(marks, "?")
		args = append(args, arg)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		querysql.QuoteIdentifier(m.Table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if len(cols) == 0 {
		stmt = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", querysql.QuoteIdentifier(m.Table))
	}

	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", m.Name, err)
	}
	return nil
}

// encodeValue converts a row value into the stored representation.
func encodeValue(f ir.Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch f.Type {
	case ir.FieldDateTime:
		if s, ok := v.(string); ok {
			t, err := parseTime(s)
			if err != nil {
				return nil, fmt.Errorf("invalid datetime %q: %w", s, err)
			}
			v = t
		}
		return querysql.NormalizeParam(v), nil
	case ir.FieldUUID:
		if s, ok := v.(string); ok {
			u, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("invalid uuid %q: %w", s, err)
			}
			v = u
		}
		return querysql.NormalizeParam(v), nil
	case ir.FieldJSON:
	default:
		return querysql.NormalizeParam(v), nil
	}

	// JSON text is re-encoded so stored values match parsed operands.
	var doc any
	switch val := v.(type) {
	case string:
		if err := json.Unmarshal([]byte(val), &doc); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	case json.RawMessage:
		if err := json.Unmarshal(val, &doc); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	default:
		doc = val
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// Query executes a query and returns each row as a map keyed by column
// name. TEXT values come back as strings.
func (s *Store) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// QueryModel runs a query over model's table and returns rows keyed by
// field name, with bool columns as bool and json columns as
// json.RawMessage. Columns that are not fields of m keep their name.
func (s *Store) QueryModel(ctx context.Context, m *ir.Model, query string, args ...any) ([]map[string]any, error) {
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	byColumn := make(map[string]ir.Field, len(m.Fields))
	for _, f := range m.Fields {
		byColumn[m.Column(f.Name)] = f
	}

	for i, row := range rows {
		decoded := make(map[string]any, len(row))
		for col, v := range row {
			f, ok := byColumn[col]
			if !ok {
				decoded[col] = v
				continue
			}
			decoded[f.Name] = decodeValue(f, v)
		}
		rows[i] = decoded
	}
	return rows, nil
}

func decodeValue(f ir.Field, v any) any {
	switch f.Type {
	case ir.FieldBool:
		if n, ok := v.(int64); ok {
			return n != 0
		}
	case ir.FieldJSON:
		if s, ok := v.(string); ok && json.Valid([]byte(s)) {
			return json.RawMessage(s)
		}
	}
	return v
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
