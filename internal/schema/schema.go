// Package schema publishes the JSON Schema of a survey record and validates
// record documents against it.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/stoewer/go-strcase"
)

// ID identifies the record schema.
const ID = "https://weighin.dev/schemas/v1/input_record.json"

// NewReflector returns a reflector that names definitions in snake case and
// inlines the record type.
func NewReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		Namer: func(t reflect.Type) string {
			return strcase.SnakeCase(t.Name())
		},
		ExpandedStruct: true,
	}
}

// Reflect returns the schema of scorer.InputRecord.
func Reflect() *jsonschema.Schema {
	s := NewReflector().Reflect(&scorer.InputRecord{})
	s.ID = jsonschema.ID(ID)
	s.Title = "Input record"
	s.Description = "Answers to the sixteen survey questions used to estimate an obesity category."
	return s
}

// Generate returns the indented JSON encoding of the record schema.
func Generate() ([]byte, error) {
	data, err := json.MarshalIndent(Reflect(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

func mustGenerate() *bytes.Reader {
	data, err := Generate()
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(data)
}
