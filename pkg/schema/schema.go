// Package schema provides access to the weighin input record schema.
// This package enables third-party applications to validate record documents
// before submitting them, or to build their own forms from the field
// definitions.
//
// The schema information is useful for:
//   - Validating YAML or JSON record files in CI
//   - Generating client side forms with the right options and ranges
//   - Documenting the accepted record format
//
// Example usage:
//
//	raw, err := schema.GetSchema()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := schema.ValidateFile("record.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range result.Errors {
//		fmt.Printf("%s: %s\n", e.Path, e.Message)
//	}
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lacquerai/weighin/internal/schema"
)

// ID is the $id of the input record schema.
const ID = schema.ID

// ValidationError is a single schema violation. Path is a JSON pointer into
// the validated document.
type ValidationError = schema.ValidationError

// ValidationResult holds the outcome of validating one document.
type ValidationResult = schema.ValidationResult

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

func sharedValidator() (*schema.Validator, error) {
	validatorOnce.Do(func() {
		validator, validatorErr = schema.NewValidator()
	})
	return validator, validatorErr
}

// GetSchema returns the input record JSON schema as indented JSON.
func GetSchema() (json.RawMessage, error) {
	data, err := schema.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}
	return json.RawMessage(data), nil
}

// ValidateFile validates a YAML or JSON record file against the schema.
// Syntax errors are reported as a violation at path "/".
func ValidateFile(filename string) (*ValidationResult, error) {
	v, err := sharedValidator()
	if err != nil {
		return nil, err
	}
	return v.ValidateFile(filename)
}

// ValidateBytes validates a YAML or JSON record document against the schema.
func ValidateBytes(data []byte) (*ValidationResult, error) {
	v, err := sharedValidator()
	if err != nil {
		return nil, err
	}
	return v.ValidateBytes(data)
}
