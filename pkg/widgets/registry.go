package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetNumber   = "number"
	WidgetCheckbox = "checkbox"
	WidgetSelect   = "select"
)

const ErrCodeUnknownWidget = "FORMDIALOG_UNKNOWN_WIDGET"

// ErrUnknownWidget is returned when a definition names a widget that was never
// registered.
var ErrUnknownWidget = goerrors.New("unknown widget", goerrors.CategoryValidation).
	WithTextCode(ErrCodeUnknownWidget)

// Matcher decides whether a widget should handle the supplied definition.
type Matcher func(def model.Definition) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for definitions based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. Definitions nothing matches fall back to the text widget.
type Registry struct {
	mu      sync.RWMutex
	rules   []rule
	widgets map[string]Widget
}

// NewRegistry constructs a registry with the built-in widgets and matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{widgets: make(map[string]Widget)}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. The latest registration wins during
// resolution when names are duplicated.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Provide registers a widget implementation under its name, replacing any
// previous implementation.
func (r *Registry) Provide(widget Widget) {
	if r == nil || widget == nil {
		return
	}
	name := strings.TrimSpace(widget.Name())
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.widgets == nil {
		r.widgets = make(map[string]Widget)
	}
	r.widgets[name] = widget
}

// Widget returns the implementation registered under name.
func (r *Registry) Widget(name string) (Widget, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	widget, ok := r.widgets[strings.TrimSpace(name)]
	return widget, ok
}

// Resolve returns the widget name for a definition. Explicit widget names on
// the definition or in its metadata are honoured before matcher evaluation.
func (r *Registry) Resolve(def model.Definition) (string, bool) {
	if explicit := explicitWidget(def); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(def) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator, recording the resolved widget name on
// every definition that does not name one already.
func (r *Registry) Decorate(m *model.DialogModel) error {
	if r == nil || m == nil {
		return nil
	}
	for i := range m.Fields {
		if m.Fields[i].Widget != "" {
			continue
		}
		if name, ok := r.Resolve(m.Fields[i]); ok {
			m.Fields[i].Widget = name
		}
	}
	return nil
}

// Bind resolves the widget for def and pairs it with accessor.
func (r *Registry) Bind(def model.Definition, accessor Accessor) (*Binding, error) {
	name, ok := r.Resolve(def)
	if !ok {
		name = WidgetText
	}
	widget, ok := r.Widget(name)
	if !ok {
		err := ErrUnknownWidget.Clone()
		err.Message = fmt.Sprintf("field %q uses unknown widget %q", def.Name, name)
		return nil, err.WithMetadata(map[string]any{"field": def.Name, "widget": name})
	}
	return NewBinding(widget, accessor), nil
}

// Names returns the registered widget names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.widgets))
	for name := range r.widgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func explicitWidget(def model.Definition) string {
	if widget := strings.TrimSpace(def.Widget); widget != "" {
		return widget
	}
	if def.Metadata != nil {
		if widget := strings.TrimSpace(def.Metadata["widget"]); widget != "" {
			return widget
		}
	}
	return ""
}

func (r *Registry) registerBuiltins() {
	for _, widget := range builtinWidgets() {
		r.Provide(widget)
	}

	r.Register(WidgetCheckbox, 90, func(def model.Definition) bool {
		return def.Kind == model.FieldKindBoolean
	})

	r.Register(WidgetSelect, 80, func(def model.Definition) bool {
		return def.Kind == model.FieldKindSelect || len(def.Options) > 0
	})

	r.Register(WidgetNumber, 70, func(def model.Definition) bool {
		return def.Kind == model.FieldKindInteger
	})

	r.Register(WidgetTextarea, 60, func(def model.Definition) bool {
		return def.Kind == model.FieldKindText
	})

	r.Register(WidgetText, 0, func(model.Definition) bool {
		return true
	})
}
