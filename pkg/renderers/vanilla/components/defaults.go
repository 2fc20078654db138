package components

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-formdialog/pkg/dialog"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry with a component for every built-in
// widget.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameText, Descriptor{Renderer: TemplateRenderer(templatePrefix + "input.tmpl")})
	registry.MustRegister(NameNumber, Descriptor{Renderer: TemplateRenderer(templatePrefix + "input.tmpl")})
	registry.MustRegister(NameTextarea, Descriptor{Renderer: TemplateRenderer(templatePrefix + "textarea.tmpl")})
	registry.MustRegister(NameCheckbox, Descriptor{Renderer: TemplateRenderer(templatePrefix + "checkbox.tmpl")})
	registry.MustRegister(NameSelect, Descriptor{Renderer: TemplateRenderer(templatePrefix + "select.tmpl")})
	return registry
}

// TemplateRenderer renders a row through the named template. Templates see
// "row", "fragment" and "control_id".
func TemplateRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, row dialog.Row, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		rendered, err := data.Template.RenderTemplate(templateName, map[string]any{
			"row":        row,
			"fragment":   row.Fragment,
			"control_id": data.ControlID,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
