// Package schemas validates configuration documents, such as the skill vocabulary
// table, against JSON Schemas embedded in the binary.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SkillVocabulary names the embedded schema for skill vocabulary files.
const SkillVocabulary = "skill_vocabulary.schema.json"

//go:embed *.schema.json
var schemaFiles embed.FS

// compiled caches schemas by name; a schema compiles once per process.
var compiled sync.Map

// FieldError is one violation at a dotted document path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("document does not match %s: %s", ve.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError reports a schema that is missing or does not compile.
type SchemaLoadError struct {
	Schema string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func load(name string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}

	content, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}

	actual, _ := compiled.LoadOrStore(name, s)
	return actual.(*gojsonschema.Schema), nil
}

// Validate checks a decoded document (maps, slices and scalars, as produced by
// encoding/json or a YAML decoder) against the embedded schema name.
func Validate(name string, document any) error {
	s, err := load(name)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate against %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
