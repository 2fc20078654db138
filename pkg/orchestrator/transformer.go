package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// Transformer mutates a DialogModel before decorators run. Implementations
// can relabel fields, move them between pages or adjust occurrence bounds.
type Transformer interface {
	Transform(ctx context.Context, m *model.DialogModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, m *model.DialogModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, m *model.DialogModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, m)
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, m *model.DialogModel) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports dialog-level fields, page titles and per-field
// patches:
//
//	{
//	  "title": "Edit article",
//	  "pages": {"page2": "Tags"},
//	  "metadata": {"owner": "editorial"},
//	  "fields": {
//	    "keyword": {"label": "Tag", "maxOccurs": 5, "page": "page2"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Pages       map[string]string         `json:"pages"`
	Metadata    map[string]string         `json:"metadata"`
	Fields      map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label     string            `json:"label"`
	Help      string            `json:"help"`
	Page      *string           `json:"page"`
	Widget    string            `json:"widget"`
	Default   *string           `json:"default"`
	MinOccurs *int              `json:"minOccurs"`
	MaxOccurs *int              `json:"maxOccurs"`
	Metadata  map[string]string `json:"metadata"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied dialog model.
// Patching a field or page the model does not declare is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, m *model.DialogModel) error {
	if m == nil {
		return errors.New("json preset transformer: dialog model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		m.Title = t.document.Title
	}
	if t.document.Description != "" {
		m.Description = t.document.Description
	}
	if len(t.document.Metadata) > 0 {
		m.Metadata = mergeStringMap(m.Metadata, t.document.Metadata)
	}

	for id, title := range t.document.Pages {
		page := findPage(m.Pages, id)
		if page == nil {
			return fmt.Errorf("json preset transformer: page %q not found", id)
		}
		page.Title = title
	}

	for name, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := findField(m.Fields, name)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *model.Definition, patch jsonFieldPatch) {
	if field == nil {
		return
	}
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Help != "" {
		field.Help = patch.Help
	}
	if patch.Page != nil {
		field.Page = strings.TrimSpace(*patch.Page)
	}
	if patch.Widget != "" {
		field.Widget = patch.Widget
	}
	if patch.Default != nil {
		field.Default = *patch.Default
	}
	if patch.MinOccurs != nil {
		field.MinOccurs = *patch.MinOccurs
	}
	if patch.MaxOccurs != nil {
		field.MaxOccurs = *patch.MaxOccurs
	}
	if len(patch.Metadata) > 0 {
		field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)
	}
}

func findField(fields []model.Definition, name string) *model.Definition {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

func findPage(pages []model.Page, id string) *model.Page {
	for idx := range pages {
		if pages[idx].ID == id {
			return &pages[idx]
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
