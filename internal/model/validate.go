package model

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// SchemaError lists every schema violation found in a document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "schema validation failed: " + strings.Join(e.Violations, "; ")
}

func compiled() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
	})
	return schema, schemaErr
}

// ValidateMap validates a generic map against the embedded resume schema.
func ValidateMap(m map[string]interface{}) error {
	return validate(gojsonschema.NewGoLoader(m))
}

// ValidateRecord validates a typed record against the embedded resume schema.
func ValidateRecord(r *ResumeRecord) error {
	if r == nil {
		return &SchemaError{Violations: []string{"(root): record is nil"}}
	}
	return validate(gojsonschema.NewGoLoader(r))
}

func validate(doc gojsonschema.JSONLoader) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("load resume schema: %w", err)
	}
	res, err := s.Validate(doc)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return &SchemaError{Violations: msgs}
}
