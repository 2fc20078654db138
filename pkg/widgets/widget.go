package widgets

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// Occurrence is the per-instance view a widget renders or commits.
type Occurrence struct {
	ID       string
	Index    int
	Value    string
	Disabled bool
}

// Fragment is the presentational description of one occurrence. Renderers
// turn it into markup or terminal prompts.
type Fragment struct {
	Widget     string            `json:"widget"`
	Input      string            `json:"input"`
	Name       string            `json:"name"`
	Value      string            `json:"value"`
	Checked    bool              `json:"checked,omitempty"`
	Disabled   bool              `json:"disabled,omitempty"`
	Options    []model.Option    `json:"options,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Widget renders and validates occurrences of a field. Implementations must be
// safe to share across dialogs.
type Widget interface {
	Name() string
	Render(def model.Definition, occ Occurrence) Fragment
	Rules(def model.Definition) []validation.Rule
}

// basicWidget backs the built-in widgets with a fixed input type.
type basicWidget struct {
	name  string
	input string
	extra func(def model.Definition) []validation.Rule
}

func (w basicWidget) Name() string { return w.name }

func (w basicWidget) Render(def model.Definition, occ Occurrence) Fragment {
	frag := Fragment{
		Widget:     w.name,
		Input:      w.input,
		Name:       occ.ID,
		Value:      occ.Value,
		Disabled:   occ.Disabled,
		Attributes: fragmentAttributes(def),
	}
	switch w.input {
	case "checkbox":
		frag.Checked = isTruthy(occ.Value)
	case "select":
		frag.Options = append([]model.Option(nil), def.Options...)
	}
	return frag
}

func (w basicWidget) Rules(def model.Definition) []validation.Rule {
	rules := DefinitionRules(def)
	if w.extra != nil {
		rules = append(rules, w.extra(def)...)
	}
	return rules
}

func fragmentAttributes(def model.Definition) map[string]string {
	attrs := make(map[string]string)
	for _, rule := range def.Validations {
		value := strings.TrimSpace(rule.Params["value"])
		switch rule.Kind {
		case model.ValidationRuleRequired:
			attrs["required"] = "required"
		case model.ValidationRuleMinLength:
			attrs["minlength"] = value
		case model.ValidationRuleMaxLength:
			attrs["maxlength"] = value
		case model.ValidationRuleMin:
			attrs["min"] = value
		case model.ValidationRuleMax:
			attrs["max"] = value
		case model.ValidationRulePattern:
			attrs["pattern"] = rule.Params["pattern"]
		}
	}
	if placeholder := strings.TrimSpace(def.Metadata["placeholder"]); placeholder != "" {
		attrs["placeholder"] = placeholder
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func isTruthy(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(value), "on")
	}
	return parsed
}

func builtinWidgets() []Widget {
	return []Widget{
		basicWidget{name: WidgetText, input: "text"},
		basicWidget{name: WidgetTextarea, input: "textarea"},
		basicWidget{name: WidgetNumber, input: "number", extra: integerRules},
		basicWidget{name: WidgetCheckbox, input: "checkbox", extra: booleanRules},
		basicWidget{name: WidgetSelect, input: "select", extra: optionRules},
	}
}
