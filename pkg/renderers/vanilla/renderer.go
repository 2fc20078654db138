package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/render"
	rendertemplate "github.com/goliatone/go-formdialog/pkg/render/template"
	gotemplate "github.com/goliatone/go-formdialog/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formdialog/pkg/renderers/vanilla/components"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	classes          map[ChromeClass]string
	stylesheetHref   string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithChromeClasses overrides chrome CSS classes.
func WithChromeClasses(classes map[ChromeClass]string) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithStylesheet links the stylesheet at href instead of inlining the default
// one. Pair it with AssetsFS served under the same prefix.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheetHref = href
		cfg.inlineStyles = false
	}
}

// WithoutStyles omits the default stylesheet entirely.
func WithoutStyles() Option {
	return func(cfg *config) {
		cfg.stylesheetHref = ""
		cfg.inlineStyles = false
	}
}

// Renderer renders dialog responses as HTML forms.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	components     *components.Registry
	classes        map[ChromeClass]string
	stylesheetHref string
	inlineStyles   string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}
	registry := cfg.components
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	r := &Renderer{
		templates:      templates,
		components:     registry,
		classes:        classNames(cfg.classes),
		stylesheetHref: cfg.stylesheetHref,
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render renders resp as a form posting back to options.Action. The response
// itself is not modified; localisation applies to a copy.
func (r *Renderer) Render(_ context.Context, resp *dialog.Response, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if resp == nil {
		return nil, fmt.Errorf("vanilla renderer: response is nil")
	}

	view := copyResponse(resp)
	render.LocalizeResponse(view, options)
	mapping := render.MapResponseErrors(resp)

	rows := newRowRenderer(r.templates, r.components, r.classes, options)
	rowsHTML, err := rows.renderAll(view.Rows, mapping.Fields)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	stylesheets, scripts := rows.assets()
	if r.stylesheetHref != "" {
		stylesheets = append([]string{r.stylesheetHref}, stylesheets...)
	}

	hidden := render.MergeHiddenFields(render.ControlFields(resp), resp.Hidden...)
	hidden = render.MergeHiddenFields(hidden, options.Hidden...)

	result, err := r.templates.RenderTemplate("templates/dialog.tmpl", map[string]any{
		"dialog":        view,
		"action":        options.Action,
		"classes":       classContext(r.classes),
		"steps":         steps(view),
		"rows":          rowsHTML,
		"hidden":        hidden,
		"stylesheets":   stylesheets,
		"scripts":       scripts,
		"inline_styles": r.inlineStyles,
		"errors": map[string]any{
			"show":   resp.HasErrors() || mapping.HasErrors(),
			"header": options.Text(render.KeyErrorHeader, "Please correct the errors below."),
			"form":   mapping.Form,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type step struct {
	Title   string `json:"title"`
	Current bool   `json:"current"`
}

func steps(resp *dialog.Response) []step {
	if len(resp.Pages) <= 1 {
		return nil
	}
	out := make([]step, 0, len(resp.Pages))
	for _, page := range resp.Pages {
		title := page.Title
		if title == "" {
			title = model.DefaultLabeler(page.ID)
		}
		out = append(out, step{Title: title, Current: page.ID == resp.Page})
	}
	return out
}

func copyResponse(resp *dialog.Response) *dialog.Response {
	view := *resp
	view.Rows = append([]dialog.Row(nil), resp.Rows...)
	view.Buttons = append([]dialog.Button(nil), resp.Buttons...)
	view.Pages = append([]model.Page(nil), resp.Pages...)
	return &view
}
