// Package schemas validates documents against the JSON Schemas under schemas/.
package schemas

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema files, relative to the repository root.
const (
	RecommendRequestSchema = "schemas/recommend_request.schema.json"
	RecommendationsSchema  = "schemas/recommendations.schema.json"
	CatalogSchema          = "schemas/catalog.schema.json"
)

// ResolveSchemaPath finds a schema relative to the working directory or up to
// two parent directories, so commands and tests can run from subdirectories.
// Returns an empty string if none exists.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}

	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}

	return ""
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaLoader, schemaAbsPath, err := fileLoader(schemaPath)
	if err != nil {
		return err
	}
	docLoader, _, err := fileLoader(jsonPath)
	if err != nil {
		return err
	}
	return validate(schemaAbsPath, schemaLoader, docLoader)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent))
}

// ValidateDocument validates an in-memory value, as it would marshal to
// JSON, against a JSON Schema file.
func ValidateDocument(schemaPath string, doc any) error {
	schemaLoader, schemaAbsPath, err := fileLoader(schemaPath)
	if err != nil {
		return err
	}
	return validate(schemaAbsPath, schemaLoader, gojsonschema.NewGoLoader(doc))
}

func fileLoader(path string) (gojsonschema.JSONLoader, string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	if _, err := os.Stat(absPath); errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("file not found: %s", absPath)
	}
	return gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(absPath)), absPath, nil
}

func validate(schemaName string, schemaLoader, docLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
