package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// Catalog holds the dialog models loaded from definition documents, keyed by
// dialog type.
type Catalog struct {
	dialogs map[string]model.DialogModel
	sources map[string]string
}

// Dialog returns the model registered for dialogType.
func (c *Catalog) Dialog(dialogType string) (model.DialogModel, bool) {
	if c == nil {
		return model.DialogModel{}, false
	}
	m, ok := c.dialogs[dialogType]
	return m, ok
}

// Source returns the file a dialog type was loaded from.
func (c *Catalog) Source(dialogType string) string {
	if c == nil {
		return ""
	}
	return c.sources[dialogType]
}

// Types returns the loaded dialog types in sorted order.
func (c *Catalog) Types() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.dialogs))
	for name := range c.dialogs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether no dialogs were loaded.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.dialogs) == 0
}

// documentFile accepts either a single dialog (top-level type/fields) or a
// map of dialogs keyed by type.
type documentFile struct {
	model.DialogModel `yaml:",inline"`
	Dialogs           map[string]model.DialogModel `json:"dialogs" yaml:"dialogs"`
}

// LoadFS walks fsys and parses every JSON or YAML definition document. When
// fsys is nil the returned catalog is empty.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := newCatalog()
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		return catalog.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// LoadFile parses a single definition document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses a single definition document.
func Parse(data []byte, source string) (*Catalog, error) {
	catalog := newCatalog()
	if err := catalog.add(data, source); err != nil {
		return nil, err
	}
	return catalog, nil
}

func newCatalog() *Catalog {
	return &Catalog{
		dialogs: make(map[string]model.DialogModel),
		sources: make(map[string]string),
	}
}

func (c *Catalog) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}

	models := make([]model.DialogModel, 0, len(doc.Dialogs)+1)
	if strings.TrimSpace(doc.Type) != "" || len(doc.Fields) > 0 {
		models = append(models, doc.DialogModel)
	}
	keys := make([]string, 0, len(doc.Dialogs))
	for key := range doc.Dialogs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		m := doc.Dialogs[key]
		if strings.TrimSpace(m.Type) == "" {
			m.Type = key
		}
		models = append(models, m)
	}
	if len(models) == 0 {
		return fmt.Errorf("definition: file %s defines no dialogs", source)
	}

	for _, m := range models {
		m = normalise(m)
		if err := model.ValidateDialog(m); err != nil {
			return fmt.Errorf("definition: file %s: %w", source, err)
		}
		if previous, exists := c.sources[m.Type]; exists {
			return fmt.Errorf("definition: duplicate dialog %q (files %s and %s)", m.Type, previous, source)
		}
		c.dialogs[m.Type] = m
		c.sources[m.Type] = source
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("definition: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML", source)
}

// normalise trims identifiers and defaults an omitted maxOccurs to
// max(1, minOccurs).
func normalise(m model.DialogModel) model.DialogModel {
	m.Type = strings.TrimSpace(m.Type)
	pages := make([]model.Page, 0, len(m.Pages))
	for _, page := range m.Pages {
		page.ID = strings.TrimSpace(page.ID)
		pages = append(pages, page)
	}
	m.Pages = pages

	fields := make([]model.Definition, 0, len(m.Fields))
	for _, def := range m.Fields {
		def.Name = strings.TrimSpace(def.Name)
		def.Page = strings.TrimSpace(def.Page)
		if def.MaxOccurs == 0 {
			def.MaxOccurs = max(1, def.MinOccurs)
		}
		fields = append(fields, def)
	}
	m.Fields = fields
	return m
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
