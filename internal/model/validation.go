package model

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeDefinitionInvalid = "FORMDIALOG_DEFINITION_INVALID"
)

// ErrDefinitionInvalid is the base error returned for malformed definitions.
var ErrDefinitionInvalid = goerrors.New("field definition invalid", goerrors.CategoryValidation).
	WithTextCode(ErrCodeDefinitionInvalid)

func definitionError(name, message string) error {
	err := ErrDefinitionInvalid.Clone()
	err.Message = fmt.Sprintf("field definition %q: %s", name, message)
	return err.WithMetadata(map[string]any{"field": name})
}

// ValidateDefinition checks the occurrence bounds and name of a definition.
func ValidateDefinition(def Definition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return definitionError(def.Name, "name is required")
	}
	if strings.ContainsAny(name, ". \t\n") {
		return definitionError(def.Name, "name must not contain dots or whitespace")
	}
	if def.MinOccurs < 0 {
		return definitionError(name, "minOccurs must not be negative")
	}
	if def.MaxOccurs < 1 {
		return definitionError(name, "maxOccurs must be at least 1")
	}
	if def.MinOccurs > def.MaxOccurs {
		return definitionError(name, fmt.Sprintf("minOccurs %d exceeds maxOccurs %d", def.MinOccurs, def.MaxOccurs))
	}
	if def.Kind == FieldKindSelect && len(def.Options) == 0 {
		return definitionError(name, "select fields require options")
	}
	return nil
}

// ValidateDialog checks every definition and the page references of a dialog
// model.
func ValidateDialog(m DialogModel) error {
	if strings.TrimSpace(m.Type) == "" {
		return definitionError("", "dialog type is required")
	}
	pages := make(map[string]struct{}, len(m.Pages))
	for _, page := range m.Pages {
		id := strings.TrimSpace(page.ID)
		if id == "" {
			return definitionError("", "page id is required")
		}
		if _, exists := pages[id]; exists {
			return definitionError("", fmt.Sprintf("duplicate page %q", id))
		}
		pages[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(m.Fields))
	for _, def := range m.Fields {
		if err := ValidateDefinition(def); err != nil {
			return err
		}
		if _, exists := seen[def.Name]; exists {
			return definitionError(def.Name, "duplicate field name")
		}
		seen[def.Name] = struct{}{}
		if def.Page != "" && len(pages) > 0 {
			if _, ok := pages[def.Page]; !ok {
				return definitionError(def.Name, fmt.Sprintf("unknown page %q", def.Page))
			}
		}
	}
	return nil
}
