package openapi

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/model"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func TestDialogFromOperationMapsProperties(t *testing.T) {
	op := Operation{
		ID:      "editGallery",
		Method:  "POST",
		Path:    "/galleries",
		Summary: "Edit gallery",
		RequestBody: Schema{
			Type:     "object",
			Required: []string{"title"},
			Properties: map[string]Schema{
				"title": {
					Type:      "string",
					MaxLength: intPtr(60),
					Extensions: map[string]any{
						ExtensionNamespace: map[string]any{"order": float64(1)},
					},
				},
				"images": {
					Type:     "array",
					MinItems: 1,
					Items:    &Schema{Type: "integer", Minimum: floatPtr(1)},
					Extensions: map[string]any{
						ExtensionNamespace + "-order": float64(2),
						ExtensionNamespace + "-help":  "Image ids",
					},
				},
				"public": {Type: "boolean", Default: true},
			},
		},
	}

	got, err := DialogFromOperation(op)
	if err != nil {
		t.Fatalf("DialogFromOperation: %v", err)
	}

	want := model.DialogModel{
		Type:  "editGallery",
		Title: "Edit gallery",
		Metadata: map[string]string{
			"operation": "editGallery",
			"method":    "POST",
			"path":      "/galleries",
		},
		Fields: []model.Definition{
			{
				Name:      "title",
				Kind:      model.FieldKindString,
				Label:     "Title",
				MinOccurs: 1,
				MaxOccurs: 1,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleRequired},
					{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "60"}},
				},
			},
			{
				Name:           "images",
				Kind:           model.FieldKindInteger,
				Label:          "Images",
				Help:           "Image ids",
				MinOccurs:      1,
				MaxOccurs:      DefaultMaxOccurs,
				CollectionBase: true,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "1"}},
				},
			},
			{
				Name:      "public",
				Kind:      model.FieldKindBoolean,
				Label:     "Public",
				MaxOccurs: 1,
				Default:   "true",
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dialog model mismatch (-want +got):\n%s", diff)
	}
}

func TestDialogFromOperationSkipsNestedObjects(t *testing.T) {
	op := Operation{
		ID: "nested",
		RequestBody: Schema{
			Type: "object",
			Properties: map[string]Schema{
				"name":    {Type: "string"},
				"address": {Type: "object", Properties: map[string]Schema{"city": {Type: "string"}}},
				"tags":    {Type: "array", Items: &Schema{Type: "object"}},
			},
		},
	}

	got, err := DialogFromOperation(op, WithDefaultMaxOccurs(4))
	if err != nil {
		t.Fatalf("DialogFromOperation: %v", err)
	}
	if len(got.Fields) != 1 || got.Fields[0].Name != "name" {
		t.Fatalf("expected only the scalar field, got %+v", got.Fields)
	}
}

func TestDialogFromOperationEnumBecomesSelect(t *testing.T) {
	op := Operation{
		ID: "status",
		RequestBody: Schema{
			Properties: map[string]Schema{
				"state": {Type: "string", Enum: []any{"draft", "live"}},
			},
		},
	}
	got, err := DialogFromOperation(op, WithLabeler(func(name string) string { return "[" + name + "]" }))
	if err != nil {
		t.Fatalf("DialogFromOperation: %v", err)
	}
	field := got.Fields[0]
	if field.Kind != model.FieldKindSelect || field.Label != "[state]" {
		t.Fatalf("unexpected field %+v", field)
	}
	wantOptions := []model.Option{{Value: "draft", Label: "draft"}, {Value: "live", Label: "live"}}
	if diff := cmp.Diff(wantOptions, field.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestDialogFromOperationErrors(t *testing.T) {
	cases := map[string]Operation{
		"no properties": {ID: "empty", RequestBody: Schema{Type: "object"}},
		"scalar body":   {ID: "scalar", RequestBody: Schema{Type: "string", Properties: map[string]Schema{"a": {Type: "string"}}}},
		"unknown page": {
			ID: "pages",
			Extensions: map[string]any{
				ExtensionNamespace: map[string]any{"pages": []any{"one"}},
			},
			RequestBody: Schema{Properties: map[string]Schema{
				"a": {Type: "string", Extensions: map[string]any{ExtensionNamespace + "-page": "two"}},
			}},
		},
	}
	for name, op := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DialogFromOperation(op); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("https://example.com/openapi.yaml")
	if err != nil {
		t.Fatalf("ParseSource url: %v", err)
	}
	if src.Kind != SourceKindURL {
		t.Fatalf("kind = %q, want url", src.Kind)
	}
	src, err = ParseSource(" specs/./api.yaml ")
	if err != nil {
		t.Fatalf("ParseSource file: %v", err)
	}
	if src.Kind != SourceKindFile || src.Location != "specs/api.yaml" {
		t.Fatalf("unexpected file source %+v", src)
	}
	if _, err := ParseSource(""); err == nil {
		t.Fatalf("expected error for empty location")
	}
}
