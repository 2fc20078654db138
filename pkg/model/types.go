package model

import internalmodel "github.com/goliatone/go-formdialog/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindString  = internalmodel.FieldKindString
	FieldKindText    = internalmodel.FieldKindText
	FieldKindInteger = internalmodel.FieldKindInteger
	FieldKindBoolean = internalmodel.FieldKindBoolean
	FieldKindSelect  = internalmodel.FieldKindSelect
)

const (
	ValidationRuleRequired  = internalmodel.ValidationRuleRequired
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
)

type ValidationRule = internalmodel.ValidationRule
type Option = internalmodel.Option
type Definition = internalmodel.Definition
type Page = internalmodel.Page
type DialogModel = internalmodel.DialogModel

// ErrDefinitionInvalid is returned (cloned) for malformed definitions.
var ErrDefinitionInvalid = internalmodel.ErrDefinitionInvalid

// DefaultLabeler converts a field name into a human-friendly label.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}

// IndexedLabel appends an occurrence suffix when count is greater than one.
func IndexedLabel(label string, index, count int) string {
	return internalmodel.IndexedLabel(label, index, count)
}

// ValidateDefinition checks a single definition's name and bounds.
func ValidateDefinition(def Definition) error {
	return internalmodel.ValidateDefinition(def)
}

// ValidateDialog checks a dialog model for duplicate names, invalid bounds and
// unknown page references.
func ValidateDialog(m DialogModel) error {
	return internalmodel.ValidateDialog(m)
}
