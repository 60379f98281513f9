package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names, one per file under schemas/.
const (
	RecommendationRequest  = "recommendation-request"
	RecommendationResponse = "recommendation-response"
)

//go:embed schemas/*.json
var embedded embed.FS

// SchemaValidator holds compiled JSON schemas keyed by name
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the schemas shipped with the binary
func NewSchemaValidator() (*SchemaValidator, error) {
	sv := &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
	}
	if err := sv.LoadSchemaFromFS(embedded, "schemas"); err != nil {
		return nil, err
	}
	return sv, nil
}

// LoadSchemaFromFS compiles every *.json file in dir, naming each schema
// after its file.
func (sv *SchemaValidator) LoadSchemaFromFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read schema dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}

		schemaBytes, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", entry.Name(), err)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
		if err != nil {
			return fmt.Errorf("failed to compile schema %s: %w", entry.Name(), err)
		}

		sv.schemas[strings.TrimSuffix(entry.Name(), ".json")] = schema
	}

	return nil
}

// ValidateJSONString validates a JSON document against a named schema
func (sv *SchemaValidator) ValidateJSONString(schemaName, jsonString string) *ValidationResult {
	return sv.validate(schemaName, gojsonschema.NewStringLoader(jsonString))
}

// ValidateStruct validates a Go value against a named schema
func (sv *SchemaValidator) ValidateStruct(schemaName string, data interface{}) *ValidationResult {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{
				Field:   "data",
				Message: fmt.Sprintf("Failed to marshal data to JSON: %v", err),
				Code:    "JSON_MARSHAL_ERROR",
			}},
		}
	}
	return sv.validate(schemaName, gojsonschema.NewBytesLoader(jsonBytes))
}

func (sv *SchemaValidator) SchemaExists(name string) bool {
	_, exists := sv.schemas[name]
	return exists
}

// GetAvailableSchemas returns the loaded schema names in order
func (sv *SchemaValidator) GetAvailableSchemas() []string {
	names := make([]string, 0, len(sv.schemas))
	for name := range sv.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (sv *SchemaValidator) validate(schemaName string, document gojsonschema.JSONLoader) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Errors: []ValidationError{{
				Field:   "schema",
				Message: fmt.Sprintf("Schema '%s' not found", schemaName),
				Code:    "SCHEMA_NOT_FOUND",
			}},
		}
	}

	result, err := schema.Validate(document)
	if err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{
				Field:   "body",
				Message: fmt.Sprintf("Invalid JSON document: %v", err),
				Code:    "INVALID_JSON",
			}},
		}
	}

	validationResult := &ValidationResult{
		Valid:  result.Valid(),
		Errors: make([]ValidationError, 0, len(result.Errors())),
	}
	for _, re := range result.Errors() {
		// Required and additional-property errors are reported against the
		// parent object; point them at the property instead.
		field := re.Field()
		if prop, ok := re.Details()["property"].(string); ok && field == gojsonschema.STRING_CONTEXT_ROOT {
			field = prop
		}
		validationResult.Errors = append(validationResult.Errors, ValidationError{
			Field:   field,
			Message: re.Description(),
			Code:    "VALIDATION_ERROR",
			Value:   re.Value(),
			Context: re.Context().String(),
		})
	}

	return validationResult
}

// ValidationResult represents the result of a validation operation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Value   interface{} `json:"value,omitempty"`
	Context string      `json:"context,omitempty"`
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

// ToAPIError converts the result to the API error envelope, or nil if valid
func (vr *ValidationResult) ToAPIError() map[string]interface{} {
	if vr.Valid {
		return nil
	}

	fieldErrors := make(map[string][]string)
	for _, err := range vr.Errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}

	details := map[string]interface{}{
		"validationErrors": vr.Errors,
	}
	if len(fieldErrors) > 0 {
		details["fieldErrors"] = fieldErrors
	}

	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": details,
		},
	}
}
