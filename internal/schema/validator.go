package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Validator checks record documents against the generated schema.
type Validator struct {
	schema *jsonschema.Schema
}

// ValidationError is one schema violation.
type ValidationError struct {
	Message string `json:"message" yaml:"message"`
	Path    string `json:"path" yaml:"path"`
}

// ValidationResult holds every violation found in a document.
type ValidationResult struct {
	Valid  bool              `json:"valid" yaml:"valid"`
	Errors []ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewValidator compiles the record schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(ID, mustGenerate()); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	s, err := compiler.Compile(ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// ValidateFile validates a YAML or JSON record file.
func (v *Validator) ValidateFile(filename string) (*ValidationResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return v.ValidateBytes(data)
}

// ValidateBytes validates a YAML or JSON document. Parse failures are
// reported as a violation at the root rather than as an error.
func (v *Validator) ValidateBytes(data []byte) (*ValidationResult, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{
				Message: fmt.Sprintf("YAML parsing error: %v", err),
				Path:    "/",
			}},
		}, nil
	}

	// Round trip through JSON so numbers and maps have the types the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalise document: %w", err)
	}
	var instance interface{}
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("failed to normalise document: %w", err)
	}

	return v.Validate(instance), nil
}

// Validate checks an already decoded JSON value.
func (v *Validator) Validate(instance interface{}) *ValidationResult {
	err := v.schema.Validate(instance)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ValidationResult{Errors: []ValidationError{{Message: err.Error(), Path: "/"}}}
	}

	result := &ValidationResult{Errors: leafErrors(verr)}
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})
	return result
}

// leafErrors flattens the cause tree, keeping only the most specific
// violations.
func leafErrors(err *jsonschema.ValidationError) []ValidationError {
	if len(err.Causes) == 0 {
		path := err.InstanceLocation
		if path == "" {
			path = "/"
		}
		return []ValidationError{{Message: err.Message, Path: path}}
	}

	var out []ValidationError
	for _, cause := range err.Causes {
		out = append(out, leafErrors(cause)...)
	}
	return out
}
