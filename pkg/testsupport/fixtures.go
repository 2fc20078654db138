package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"testing"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/model"
	pkgopenapi "github.com/goliatone/go-formdialog/pkg/openapi"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// ArticleDialog returns the two page dialog used across package tests: a
// required title on "page1", up to three keywords on "page2", and an optional
// note shown on every page.
func ArticleDialog() model.DialogModel {
	return model.DialogModel{
		Type:  "article",
		Title: "Article",
		Pages: []model.Page{
			{ID: "page1", Title: "Content"},
			{ID: "page2", Title: "Keywords"},
		},
		Fields: []model.Definition{
			{
				Name:        "title",
				Kind:        model.FieldKindString,
				Label:       "Title",
				Help:        "Shown in listings.",
				Page:        "page1",
				MinOccurs:   1,
				MaxOccurs:   1,
				Validations: []model.ValidationRule{{Kind: model.ValidationRuleRequired}},
			},
			{
				Name:           "keyword",
				Kind:           model.FieldKindString,
				Label:          "Keyword",
				Page:           "page2",
				MinOccurs:      0,
				MaxOccurs:      3,
				CollectionBase: true,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "20"}},
				},
			},
			{
				Name:      "note",
				Kind:      model.FieldKindText,
				MinOccurs: 0,
				MaxOccurs: 1,
			},
		},
	}
}

// NewArticleDialog builds ArticleDialog with the default widget registry.
func NewArticleDialog(t *testing.T, opts ...dialog.Option) *dialog.Dialog {
	t.Helper()

	d, err := dialog.FromModel(ArticleDialog(), dialog.WidgetBinder(nil), opts...)
	if err != nil {
		t.Fatalf("build article dialog: %v", err)
	}
	return d
}

// Write is one SetValue call seen by a RecordingAccessor.
type Write struct {
	Index int
	Value string
}

// RecordingAccessor wraps an accessor and records every write in order. Fail
// makes SetValue return the error for the given index.
type RecordingAccessor struct {
	widgets.Accessor

	mu     sync.Mutex
	writes []Write
	Fail   map[int]error
}

// NewRecordingAccessor records writes made through widgets.FieldAccessor(name).
func NewRecordingAccessor(name string) *RecordingAccessor {
	return &RecordingAccessor{Accessor: widgets.FieldAccessor(name)}
}

// SetValue implements widgets.Accessor.
func (r *RecordingAccessor) SetValue(target any, index int, value string) error {
	r.mu.Lock()
	r.writes = append(r.writes, Write{Index: index, Value: value})
	failure := r.Fail[index]
	r.mu.Unlock()
	if failure != nil {
		return failure
	}
	return r.Accessor.SetValue(target, index, value)
}

// PrepareCommit forwards to the wrapped accessor when it supports it.
func (r *RecordingAccessor) PrepareCommit(target any) error {
	if preparer, ok := r.Accessor.(widgets.Preparer); ok {
		return preparer.PrepareCommit(target)
	}
	return nil
}

// Writes returns a copy of the recorded writes.
func (r *RecordingAccessor) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

// LoadDocument reads an OpenAPI fixture from disk.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// MustReadFS reads name from files.
func MustReadFS(t *testing.T, files fs.FS, name string) []byte {
	t.Helper()
	data, err := fs.ReadFile(files, name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}
