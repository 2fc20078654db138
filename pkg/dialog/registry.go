package dialog

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// Field is the capability registered alongside each definition. It renders
// occurrences, commits them into the dialog object and reads existing values
// back. *widgets.Binding implements it.
type Field interface {
	Render(def model.Definition, occ widgets.Occurrence) widgets.Fragment
	Commit(def model.Definition, occ widgets.Occurrence, target any) error
	Value(target any, index int) (string, bool)
}

// preparer is implemented by fields that reset their slot in the dialog
// object before a commit.
type preparer interface {
	Prepare(target any) error
}

type entry struct {
	def   model.Definition
	field Field
}

// Registry is the ordered list of field definitions of one dialog type. It is
// populated during setup and treated as read-only once frozen.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int
	frozen  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Define appends a definition and its field capability.
func (r *Registry) Define(def model.Definition, field Field) error {
	if err := model.ValidateDefinition(def); err != nil {
		return err
	}
	if field == nil {
		return cloneError(ErrMissingCapability, fmt.Sprintf("field %q has no capability", def.Name), nil,
			map[string]any{"field": def.Name})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return cloneError(ErrRegistryFrozen, fmt.Sprintf("cannot define %q after setup", def.Name), nil,
			map[string]any{"field": def.Name})
	}
	if _, exists := r.index[def.Name]; exists {
		return cloneError(ErrDuplicateField, fmt.Sprintf("field %q already defined", def.Name), nil,
			map[string]any{"field": def.Name})
	}
	r.index[def.Name] = len(r.entries)
	r.entries = append(r.entries, entry{def: def, field: field})
	return nil
}

// MustDefine is Define for static setup code; it panics on error.
func (r *Registry) MustDefine(def model.Definition, field Field) *Registry {
	if err := r.Define(def, field); err != nil {
		panic(err)
	}
	return r
}

// Freeze marks the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (model.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[name]
	if !ok {
		return model.Definition{}, false
	}
	return r.entries[idx].def, true
}

// Definitions returns the definitions in declaration order.
func (r *Registry) Definitions() []model.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Definition, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.def)
	}
	return out
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Pages returns the page identifiers referenced by definitions in first-seen
// order. Dialogs that declare pages explicitly ignore this.
func (r *Registry) Pages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var pages []string
	seen := make(map[string]struct{})
	for _, e := range r.entries {
		if e.def.Page == "" {
			continue
		}
		if _, ok := seen[e.def.Page]; ok {
			continue
		}
		seen[e.def.Page] = struct{}{}
		pages = append(pages, e.def.Page)
	}
	return pages
}

func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entry(nil), r.entries...)
}

func (r *Registry) entry(name string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[name]
	if !ok {
		return entry{}, false
	}
	return r.entries[idx], true
}

// Binder produces the field capability for a definition.
type Binder func(def model.Definition) (Field, error)

// WidgetBinder binds definitions through a widget registry, storing values in
// a widgets.Values dialog object.
func WidgetBinder(reg *widgets.Registry) Binder {
	if reg == nil {
		reg = widgets.NewRegistry()
	}
	return func(def model.Definition) (Field, error) {
		binding, err := reg.Bind(def, widgets.FieldAccessor(def.Name))
		if err != nil {
			return nil, err
		}
		return binding, nil
	}
}

// RegistryFromModel validates m and defines each of its fields using bind.
// The returned registry is frozen.
func RegistryFromModel(m model.DialogModel, bind Binder) (*Registry, error) {
	if err := model.ValidateDialog(m); err != nil {
		return nil, err
	}
	if bind == nil {
		bind = WidgetBinder(nil)
	}
	reg := NewRegistry()
	for _, def := range m.Fields {
		field, err := bind(def)
		if err != nil {
			return nil, err
		}
		if err := reg.Define(def, field); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}
