package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/render/template"
	"github.com/goliatone/go-formdialog/pkg/renderers/vanilla/components"
)

// rowRenderer renders dialog rows into markup and tracks the components it
// used so assets are emitted once.
type rowRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	classes   map[ChromeClass]string
	action    string
	opts      render.RenderOptions

	used []string
	seen map[string]struct{}
}

func newRowRenderer(templates template.TemplateRenderer, registry *components.Registry, classes map[ChromeClass]string, opts render.RenderOptions) *rowRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &rowRenderer{
		templates: templates,
		registry:  registry,
		classes:   classes,
		action:    opts.Action,
		opts:      opts,
		seen:      make(map[string]struct{}),
	}
}

func (r *rowRenderer) renderAll(rows []dialog.Row, fieldErrors map[string][]string) (string, error) {
	var builder strings.Builder
	for _, row := range rows {
		if len(row.Errors) == 0 {
			row.Errors = fieldErrors[row.ID]
		}
		markup, err := r.render(row)
		if err != nil {
			return "", err
		}
		builder.WriteString(markup)
		builder.WriteByte('\n')
	}
	return builder.String(), nil
}

func (r *rowRenderer) render(row dialog.Row) (string, error) {
	name := row.Fragment.Widget
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		name = components.NameText
		descriptor, ok = r.registry.Descriptor(name)
		if !ok {
			return "", fmt.Errorf("component %q not registered for %s", row.Fragment.Widget, row.ID)
		}
	}

	var control bytes.Buffer
	data := components.ComponentData{Template: r.templates, ControlID: controlID(row.ID)}
	if err := descriptor.Renderer(&control, row, data); err != nil {
		return "", fmt.Errorf("render component %q for %s: %w", name, row.ID, err)
	}

	if _, exists := r.seen[name]; !exists {
		r.seen[name] = struct{}{}
		r.used = append(r.used, name)
	}
	return r.chrome(row, strings.TrimSpace(control.String())), nil
}

// chrome wraps control with the label, help, errors and element controls.
func (r *rowRenderer) chrome(row dialog.Row, control string) string {
	var b strings.Builder
	b.Grow(len(control) + 512)

	b.WriteString(`<div class="`)
	b.WriteString(html.EscapeString(r.classes[ClassRow]))
	b.WriteString(`" data-field="`)
	b.WriteString(html.EscapeString(row.Field))
	b.WriteString(`" data-index="`)
	b.WriteString(strconv.Itoa(row.Index))
	b.WriteByte('"')
	if row.Disabled {
		b.WriteString(` data-disabled`)
	}
	if len(row.Errors) > 0 {
		b.WriteString(` data-invalid`)
	}
	b.WriteString(">\n")

	b.WriteString(`<label for="`)
	b.WriteString(html.EscapeString(controlID(row.ID)))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(row.Label))
	b.WriteString("</label>\n")
	b.WriteString(control)
	b.WriteByte('\n')

	if controls := r.elementControls(row); controls != "" {
		b.WriteString(controls)
	}
	if help := sanitizeHelp(row.Help); help != "" {
		b.WriteString(`<p class="`)
		b.WriteString(html.EscapeString(r.classes[ClassHelp]))
		b.WriteString(`">`)
		b.WriteString(help)
		b.WriteString("</p>\n")
	}
	if len(row.Errors) > 0 {
		b.WriteString(`<ul class="formdialog-field-errors">`)
		for _, message := range row.Errors {
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(message))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</div>")
	return b.String()
}

func (r *rowRenderer) elementControls(row dialog.Row) string {
	if !row.CanAdd && !row.CanRemove {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<span class="formdialog-element-controls">`)
	if row.CanAdd {
		r.elementButton(&b, row, dialog.ActionAddElement, r.opts.Text(render.KeyAddElement, "Add"), "+")
	}
	if row.CanRemove && !row.Disabled {
		r.elementButton(&b, row, dialog.ActionRemoveElement, r.opts.Text(render.KeyRemove, "Remove"), "-")
	}
	b.WriteString("</span>\n")
	return b.String()
}

func (r *rowRenderer) elementButton(b *strings.Builder, row dialog.Row, action dialog.Action, title, glyph string) {
	b.WriteString(`<button type="submit" name="action" value="`)
	b.WriteString(action.String())
	b.WriteString(`" formaction="`)
	b.WriteString(html.EscapeString(render.ElementAction(r.action, row.Field, row.Index)))
	b.WriteString(`" title="`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`">`)
	b.WriteString(glyph)
	b.WriteString("</button>")
}

func (r *rowRenderer) assets() ([]string, []components.Script) {
	return r.registry.Assets(r.used)
}
