package model

// FieldKind is the simplified enum for dialog-friendly field kinds.
type FieldKind string

const (
	FieldKindString  FieldKind = "string"
	FieldKindText    FieldKind = "text"
	FieldKindInteger FieldKind = "integer"
	FieldKindBoolean FieldKind = "boolean"
	FieldKindSelect  FieldKind = "select"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single validation constraint applied to every
// occurrence of a field. Numeric bounds and length limits encode their
// threshold in Params["value"] while pattern rules keep the expression in
// Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Option is a selectable value for select fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Definition declares one logical dialog field: its occurrence bounds, the
// page it lives on, and the hints widgets use to render and validate it.
// Definitions are immutable once a dialog registry is frozen.
type Definition struct {
	Name           string            `json:"name" yaml:"name"`
	Kind           FieldKind         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label          string            `json:"label,omitempty" yaml:"label,omitempty"`
	Help           string            `json:"help,omitempty" yaml:"help,omitempty"`
	Page           string            `json:"page,omitempty" yaml:"page,omitempty"`
	MinOccurs      int               `json:"minOccurs" yaml:"minOccurs"`
	MaxOccurs      int               `json:"maxOccurs" yaml:"maxOccurs"`
	CollectionBase bool              `json:"collectionBase,omitempty" yaml:"collectionBase,omitempty"`
	Default        string            `json:"default,omitempty" yaml:"default,omitempty"`
	Options        []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	Widget         string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	Validations    []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Optional reports whether the field may have zero occurrences.
func (d Definition) Optional() bool {
	return d.MinOccurs == 0
}

// Repeatable reports whether more than one occurrence is allowed.
func (d Definition) Repeatable() bool {
	return d.MaxOccurs > 1
}

// OnPage reports whether the definition belongs to page. Definitions without a
// page belong to every page.
func (d Definition) OnPage(page string) bool {
	return page == "" || d.Page == "" || d.Page == page
}

// Page is a single step of a multi-page dialog.
type Page struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// DialogModel is the declarative description of a dialog type.
type DialogModel struct {
	Type        string            `json:"type" yaml:"type"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Pages       []Page            `json:"pages,omitempty" yaml:"pages,omitempty"`
	Fields      []Definition      `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// PageIDs returns the declared page identifiers in order.
func (m DialogModel) PageIDs() []string {
	if len(m.Pages) == 0 {
		return nil
	}
	out := make([]string, 0, len(m.Pages))
	for _, page := range m.Pages {
		out = append(out, page.ID)
	}
	return out
}
