package schema

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/raymondSeger/prisma/internal/ir"
)

//go:embed model.cue
var definitions string

// Error codes carried by LoadError.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeNoFiles         = "E003" // No CUE files found
	ErrCodeLoadFailed      = "E004" // CUE load failed
	ErrCodeNotFound        = "E005" // Path not found
	ErrCodeBuildFailed     = "E006" // CUE build failed
	ErrCodeNoModels        = "E200" // No models declared
	ErrCodeInvalidModel    = "E201" // Model does not match #Model
	ErrCodeInvalidField    = "E202" // Field type or enum values
	ErrCodeInvalidRelation = "E203" // Relation target or join fields
)

// LoadError represents an error that occurred while loading a schema.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads every .cue file in dir as one CUE instance and extracts its
// models.
func Load(dir string) (*ir.Schema, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	if inst := instances[0]; inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(instances[0])
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeBuildFailed, err)
	}
	return extract(ctx, value)
}

// Compile builds a schema from CUE source text.
func Compile(src string) (*ir.Schema, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(src, cue.Filename("schema.cue"))
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeBuildFailed, err)
	}
	return extract(ctx, value)
}

type rawField struct {
	Type   string   `json:"type"`
	Column string   `json:"column"`
	Values []string `json:"values"`
}

type rawRelation struct {
	Model string `json:"model"`
	Kind  string `json:"kind"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// extract validates each entry of `models` against #Model and converts it.
func extract(ctx *cue.Context, value cue.Value) (*ir.Schema, error) {
	defs := ctx.CompileString(definitions, cue.Filename("model.cue"))
	if err := defs.Err(); err != nil {
		return nil, cueError(ErrCodeGeneric, err)
	}
	modelDef := defs.LookupPath(cue.ParsePath("#Model"))

	modelsVal := value.LookupPath(cue.ParsePath("models"))
	if !modelsVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoModels, Message: "no models declared", Pos: value.Pos()}
	}

	iter, err := modelsVal.Fields()
	if err != nil {
		return nil, cueError(ErrCodeInvalidModel, err)
	}

	schema := &ir.Schema{Models: map[string]*ir.Model{}}
	positions := map[string]token.Pos{}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		v := modelDef.Unify(iter.Value())
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, cueError(ErrCodeInvalidModel, err)
		}

		m, err := extractModel(name, v)
		if err != nil {
			return nil, err
		}
		schema.Models[name] = m
		positions[name] = iter.Value().Pos()
	}
	if len(schema.Models) == 0 {
		return nil, &LoadError{Code: ErrCodeNoModels, Message: "no models declared", Pos: modelsVal.Pos()}
	}

	if err := checkReferences(schema, positions); err != nil {
		return nil, err
	}
	return schema, nil
}

func extractModel(name string, v cue.Value) (*ir.Model, error) {
	m := &ir.Model{Name: name}

	var err error
	if m.Table, err = v.LookupPath(cue.ParsePath("table")).String(); err != nil {
		return nil, cueError(ErrCodeInvalidModel, err)
	}
	if m.PrimaryKey, err = v.LookupPath(cue.ParsePath("primary_key")).String(); err != nil {
		return nil, cueError(ErrCodeInvalidModel, err)
	}

	fields, err := v.LookupPath(cue.ParsePath("fields")).Fields()
	if err != nil {
		return nil, cueError(ErrCodeInvalidModel, err)
	}
	for fields.Next() {
		var raw rawField
		if err := fields.Value().Decode(&raw); err != nil {
			return nil, cueError(ErrCodeInvalidField, err)
		}
		f := ir.Field{
			Name:       fields.Selector().Unquoted(),
			Column:     raw.Column,
			Type:       ir.FieldType(raw.Type),
			EnumValues: raw.Values,
		}
		if f.Type == ir.FieldEnum && len(f.EnumValues) == 0 {
			return nil, &LoadError{
				Code:    ErrCodeInvalidField,
				Message: fmt.Sprintf("%s.%s: enum field needs values", name, f.Name),
				Pos:     fields.Value().Pos(),
			}
		}
		if f.Type != ir.FieldEnum && len(f.EnumValues) > 0 {
			return nil, &LoadError{
				Code:    ErrCodeInvalidField,
				Message: fmt.Sprintf("%s.%s: values only apply to enum fields", name, f.Name),
				Pos:     fields.Value().Pos(),
			}
		}
		m.Fields = append(m.Fields, f)
	}

	relsVal := v.LookupPath(cue.ParsePath("relations"))
	if !relsVal.Exists() {
		return m, nil
	}
	rels, err := relsVal.Fields()
	if err != nil {
		return nil, cueError(ErrCodeInvalidRelation, err)
	}
	for rels.Next() {
		var raw rawRelation
		if err := rels.Value().Decode(&raw); err != nil {
			return nil, cueError(ErrCodeInvalidRelation, err)
		}
		relName := rels.Selector().Unquoted()
		if _, clash := m.Field(relName); clash {
			return nil, &LoadError{
				Code:    ErrCodeInvalidRelation,
				Message: fmt.Sprintf("%s.%s: relation name collides with a field", name, relName),
				Pos:     rels.Value().Pos(),
			}
		}
		m.Relations = append(m.Relations, ir.Relation{
			Name:  relName,
			Model: raw.Model,
			Kind:  ir.RelationKind(raw.Kind),
			From:  raw.From,
			To:    raw.To,
		})
	}
	return m, nil
}

// checkReferences verifies primary keys and relation endpoints. Models are
// visited in name order so the reported error is deterministic.
func checkReferences(s *ir.Schema, positions map[string]token.Pos) error {
	for _, name := range s.ModelNames() {
		m := s.Models[name]
		pos := positions[name]

		if _, ok := m.Field(m.PrimaryKey); !ok {
			return &LoadError{
				Code:    ErrCodeInvalidModel,
				Message: fmt.Sprintf("%s: primary key %q is not a field", name, m.PrimaryKey),
				Pos:     pos,
			}
		}

		for _, r := range m.Relations {
			related, ok := s.Models[r.Model]
			if !ok {
				return &LoadError{
					Code:    ErrCodeInvalidRelation,
					Message: fmt.Sprintf("%s.%s: unknown model %q", name, r.Name, r.Model),
					Pos:     pos,
				}
			}
			if _, ok := m.Field(r.From); !ok {
				return &LoadError{
					Code:    ErrCodeInvalidRelation,
					Message: fmt.Sprintf("%s.%s: from field %q not on %s", name, r.Name, r.From, name),
					Pos:     pos,
				}
			}
			if _, ok := related.Field(r.To); !ok {
				return &LoadError{
					Code:    ErrCodeInvalidRelation,
					Message: fmt.Sprintf("%s.%s: to field %q not on %s", name, r.Name, r.To, r.Model),
					Pos:     pos,
				}
			}
		}
	}

	tables := map[string]string{}
	for _, name := range s.ModelNames() {
		m := s.Models[name]
		if other, dup := tables[m.Table]; dup {
			return &LoadError{
				Code:    ErrCodeInvalidModel,
				Message: fmt.Sprintf("models %s and %s share table %q", other, name, m.Table),
				Pos:     positions[name],
			}
		}
		tables[m.Table] = name
	}
	return nil
}

// cueError converts a CUE error to a LoadError carrying the first error's
// position.
func cueError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// Summary describes a loaded schema, one entry per model in name order.
type Summary struct {
	Model     string   `json:"model"`
	Table     string   `json:"table"`
	Fields    []string `json:"fields"`
	Relations []string `json:"relations"`
}

// Summarize lists each model's table, fields and relations.
func Summarize(s *ir.Schema) []Summary {
	out := make([]Summary, 0, len(s.Models))
	for _, name := range s.ModelNames() {
		m := s.Models[name]
		sum := Summary{Model: name, Table: m.Table, Fields: []string{}, Relations: []string{}}
		for _, f := range m.Fields {
			sum.Fields = append(sum.Fields, fmt.Sprintf("%s:%s", f.Name, f.Type))
		}
		for _, r := range m.Relations {
			sum.Relations = append(sum.Relations, fmt.Sprintf("%s->%s(%s)", r.Name, r.Model, r.Kind))
		}
		slices.Sort(sum.Relations)
		out = append(out, sum)
	}
	return out
}
