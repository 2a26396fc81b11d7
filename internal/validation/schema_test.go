package validation

import (
	"errors"
	"testing"
)

func TestSchemaFromFieldsRequiresMarkedFields(t *testing.T) {
	schema := SchemaFromFields([]Field{
		{Name: "title", Type: "string", Required: true},
		{Name: "stats", Type: "array", Items: "object"},
		{Name: " "},
	})
	if schema == nil {
		t.Fatalf("expected schema")
	}
	props := schema["properties"].(map[string]any)
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	required := schema["required"].([]string)
	if len(required) != 1 || required[0] != "title" {
		t.Fatalf("unexpected required list %v", required)
	}
}

func TestValidatePayloadReportsIssues(t *testing.T) {
	schema := SchemaFromFields([]Field{{Name: "title", Type: "string", Required: true}})

	err := ValidatePayload(schema, map[string]any{"title": 42})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) == 0 {
		t.Fatalf("expected issues")
	}
	if issues[0].Location != "/title" {
		t.Fatalf("expected /title location, got %q", issues[0].Location)
	}
}

func TestValidatePayloadAcceptsExtraKeys(t *testing.T) {
	schema := SchemaFromFields([]Field{{Name: "title", Type: "string"}})
	if err := ValidatePayload(schema, map[string]any{"title": "Hi", "accent": "blue"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePartialPayloadSkipsRequired(t *testing.T) {
	schema := SchemaFromFields([]Field{{Name: "title", Type: "string", Required: true}})
	if err := ValidatePartialPayload(schema, map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePayload(schema, map[string]any{}); err == nil {
		t.Fatalf("expected missing required field error")
	}
}

func TestValidatePayloadNilSchema(t *testing.T) {
	if err := ValidatePayload(nil, map[string]any{"x": 1}); err != nil {
		t.Fatalf("nil schema should accept payload: %v", err)
	}
}
