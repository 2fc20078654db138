package openapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// ExtensionNamespace is the vendor extension read from operations and
// properties. On an operation it may carry "type", "title" and "pages"; on a
// property "page", "label", "help", "widget", "order" and "maxOccurs".
const ExtensionNamespace = "x-formdialog"

// DefaultMaxOccurs caps array properties that declare no maxItems.
const DefaultMaxOccurs = 10

// DialogOptions tunes DialogFromOperation.
type DialogOptions struct {
	DefaultMaxOccurs int
	Labeler          func(string) string
}

// DialogOption mutates DialogOptions.
type DialogOption func(*DialogOptions)

// WithDefaultMaxOccurs overrides the cap applied to unbounded arrays.
func WithDefaultMaxOccurs(n int) DialogOption {
	return func(opts *DialogOptions) {
		if n > 0 {
			opts.DefaultMaxOccurs = n
		}
	}
}

// WithLabeler overrides how labels are derived from property names.
func WithLabeler(labeler func(string) string) DialogOption {
	return func(opts *DialogOptions) {
		if labeler != nil {
			opts.Labeler = labeler
		}
	}
}

// DialogFromOperation converts the request body of op into a dialog model.
// Scalar properties become single-occurrence fields, required ones with
// MinOccurs 1. Arrays of scalars become collection-base fields bounded by
// minItems and maxItems. Nested objects are skipped.
func DialogFromOperation(op Operation, options ...DialogOption) (model.DialogModel, error) {
	cfg := DialogOptions{DefaultMaxOccurs: DefaultMaxOccurs, Labeler: model.DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return model.DialogModel{}, fmt.Errorf("openapi: operation %q request body is %q, want object", op.ID, body.Type)
	}
	if len(body.Properties) == 0 {
		return model.DialogModel{}, fmt.Errorf("openapi: operation %q has no request body properties", op.ID)
	}

	opExt := namespace(op.Extensions)
	out := model.DialogModel{
		Type:        firstNonEmpty(stringValue(opExt["type"]), op.ID),
		Title:       firstNonEmpty(stringValue(opExt["title"]), op.Summary, body.Title),
		Description: firstNonEmpty(op.Description, body.Description),
		Pages:       pagesFrom(opExt["pages"]),
		Metadata: map[string]string{
			"operation": op.ID,
			"method":    op.Method,
			"path":      op.Path,
		},
	}

	type ordered struct {
		order int
		def   model.Definition
	}
	fields := make([]ordered, 0, len(body.Properties))
	for name, property := range body.Properties {
		def, ok := definitionFrom(name, property, body.IsRequired(name), cfg)
		if !ok {
			continue
		}
		order, hasOrder := intValue(propertyExtension(property, "order"))
		if !hasOrder {
			order = int(^uint(0) >> 1)
		}
		fields = append(fields, ordered{order: order, def: def})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].order != fields[j].order {
			return fields[i].order < fields[j].order
		}
		return fields[i].def.Name < fields[j].def.Name
	})
	for _, field := range fields {
		out.Fields = append(out.Fields, field.def)
	}

	if err := model.ValidateDialog(out); err != nil {
		return model.DialogModel{}, err
	}
	return out, nil
}

func definitionFrom(name string, property Schema, required bool, cfg DialogOptions) (model.Definition, bool) {
	def := model.Definition{
		Name:      name,
		Label:     firstNonEmpty(stringValue(propertyExtension(property, "label")), property.Title, cfg.Labeler(name)),
		Help:      firstNonEmpty(stringValue(propertyExtension(property, "help")), property.Description),
		Page:      stringValue(propertyExtension(property, "page")),
		Widget:    stringValue(propertyExtension(property, "widget")),
		MaxOccurs: 1,
	}
	if required {
		def.MinOccurs = 1
	}

	element := property
	if property.Type == "array" {
		if property.Items == nil || !isScalar(property.Items.Type) {
			return model.Definition{}, false
		}
		element = *property.Items
		def.CollectionBase = true
		def.MinOccurs = property.MinItems
		if required && def.MinOccurs == 0 {
			def.MinOccurs = 1
		}
		def.MaxOccurs = cfg.DefaultMaxOccurs
		if property.MaxItems != nil && *property.MaxItems > 0 {
			def.MaxOccurs = *property.MaxItems
		}
		if limit, ok := intValue(propertyExtension(property, "maxOccurs")); ok && limit > 0 {
			def.MaxOccurs = limit
		}
		if def.MinOccurs > def.MaxOccurs {
			def.MaxOccurs = def.MinOccurs
		}
	} else if !isScalar(property.Type) {
		return model.Definition{}, false
	}

	def.Kind = kindFor(element)
	if element.Default != nil {
		def.Default = scalarString(element.Default)
	}
	for _, value := range element.Enum {
		label := scalarString(value)
		def.Options = append(def.Options, model.Option{Value: label, Label: label})
	}
	def.Validations = rulesFor(element, required)
	return def, true
}

func kindFor(schema Schema) model.FieldKind {
	switch {
	case len(schema.Enum) > 0:
		return model.FieldKindSelect
	case schema.Type == "boolean":
		return model.FieldKindBoolean
	case schema.Type == "integer":
		return model.FieldKindInteger
	case schema.Format == "textarea" || (schema.MaxLength != nil && *schema.MaxLength > 255):
		return model.FieldKindText
	default:
		return model.FieldKindString
	}
}

func rulesFor(schema Schema, required bool) []model.ValidationRule {
	var rules []model.ValidationRule
	if required {
		rules = append(rules, model.ValidationRule{Kind: model.ValidationRuleRequired})
	}
	value := func(kind, v string) {
		rules = append(rules, model.ValidationRule{Kind: kind, Params: map[string]string{"value": v}})
	}
	if schema.Minimum != nil {
		value(model.ValidationRuleMin, formatNumber(*schema.Minimum))
	}
	if schema.Maximum != nil {
		value(model.ValidationRuleMax, formatNumber(*schema.Maximum))
	}
	if schema.MinLength != nil {
		value(model.ValidationRuleMinLength, strconv.Itoa(*schema.MinLength))
	}
	if schema.MaxLength != nil {
		value(model.ValidationRuleMaxLength, strconv.Itoa(*schema.MaxLength))
	}
	if schema.Pattern != "" {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
	return rules
}

func isScalar(kind string) bool {
	switch kind {
	case "string", "integer", "number", "boolean":
		return true
	}
	return false
}

func namespace(ext map[string]any) map[string]any {
	if mapped, ok := ext[ExtensionNamespace].(map[string]any); ok {
		return mapped
	}
	return nil
}

// propertyExtension reads key from the x-formdialog map, falling back to the
// flat x-formdialog-<key> form.
func propertyExtension(schema Schema, key string) any {
	if value, ok := namespace(schema.Extensions)[key]; ok {
		return value
	}
	return schema.Extensions[ExtensionNamespace+"-"+key]
}

func pagesFrom(raw any) []model.Page {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	pages := make([]model.Page, 0, len(items))
	for _, item := range items {
		switch typed := item.(type) {
		case string:
			pages = append(pages, model.Page{ID: typed})
		case map[string]any:
			id := stringValue(typed["id"])
			if id == "" {
				continue
			}
			pages = append(pages, model.Page{ID: id, Title: stringValue(typed["title"])})
		}
	}
	return pages
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func intValue(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		return n, err == nil
	}
	return 0, false
}

func scalarString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return formatNumber(typed)
	case bool:
		return strconv.FormatBool(typed)
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
