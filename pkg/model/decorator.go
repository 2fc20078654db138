package model

import "strings"

// Decorator enriches a dialog model after it has been loaded from a definition
// document or derived from an OpenAPI operation.
type Decorator interface {
	Decorate(*DialogModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*DialogModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(m *DialogModel) error {
	return fn(m)
}

// LabelDecorator fills missing field labels using labeler, falling back to
// DefaultLabeler when labeler is nil.
func LabelDecorator(labeler func(string) string) Decorator {
	if labeler == nil {
		labeler = DefaultLabeler
	}
	return DecoratorFunc(func(m *DialogModel) error {
		if m == nil {
			return nil
		}
		for i := range m.Fields {
			if strings.TrimSpace(m.Fields[i].Label) == "" {
				m.Fields[i].Label = labeler(m.Fields[i].Name)
			}
		}
		return nil
	})
}

// Decorate applies decorators in order, stopping at the first error.
func Decorate(m *DialogModel, decorators ...Decorator) error {
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(m); err != nil {
			return err
		}
	}
	return nil
}
