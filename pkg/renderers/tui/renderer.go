package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/interfaces"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/render"
)

// Name is the registry name of the TUI renderer.
const Name = "tui"

// Renderer prints dialog responses as plain text and drives dialogs
// interactively through a PromptDriver.
type Renderer struct {
	driver    PromptDriver
	theme     Theme
	options   render.RenderOptions
	maxRounds int
	logger    interfaces.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer. Without WithPromptDriver the survey driver
// writing to stdout is used.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		theme:     DefaultTheme,
		maxRounds: 100,
		logger:    logging.NoOp(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return Name
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render implements render.Renderer with a plain text summary of resp: the
// titles, the error header, one line per row and the available buttons. resp
// is not modified.
func (r *Renderer) Render(_ context.Context, resp *dialog.Response, options render.RenderOptions) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("tui renderer: response is nil")
	}

	view := copyResponse(resp)
	render.LocalizeResponse(view, options)
	mapping := render.MapResponseErrors(resp)

	var b strings.Builder
	if view.Title != "" {
		fmt.Fprintln(&b, view.Title)
	}
	if heading := pageHeading(view); heading != "" {
		fmt.Fprintf(&b, "== %s ==\n", heading)
	}
	if resp.HasErrors() || mapping.HasErrors() {
		r.errorLine(&b, options.Text(render.KeyErrorHeader, "Please correct the errors below."))
		for _, msg := range mapping.Form {
			r.errorLine(&b, msg)
		}
	}
	for _, row := range view.Rows {
		r.writeRow(&b, row, render.MergeFormErrors(row.Errors, mapping.Fields[row.ID]...))
	}
	if len(view.Buttons) > 0 {
		labels := make([]string, 0, len(view.Buttons))
		for _, button := range view.Buttons {
			labels = append(labels, "["+button.Label+"]")
		}
		fmt.Fprintln(&b, strings.Join(labels, " "))
	}
	return []byte(b.String()), nil
}

func (r *Renderer) writeRow(b *strings.Builder, row dialog.Row, errs []string) {
	value := displayValue(row)
	if row.Disabled {
		value = "(empty)"
	}
	fmt.Fprintf(b, "%s%s: %s\n", r.theme.PromptPrefix, row.Label, value)
	if help := strings.TrimSpace(row.Help); help != "" {
		fmt.Fprintf(b, "  %s%s\n", r.theme.InfoPrefix, help)
	}
	for _, msg := range errs {
		b.WriteString("  ")
		r.errorLine(b, msg)
	}
}

func (r *Renderer) errorLine(b *strings.Builder, msg string) {
	fmt.Fprintf(b, "%s%s\n", r.theme.ErrorPrefix, msg)
}

func pageHeading(resp *dialog.Response) string {
	if len(resp.Pages) < 2 {
		return resp.PageTitle
	}
	position := 0
	for i, page := range resp.Pages {
		if page.ID == resp.Page {
			position = i + 1
			break
		}
	}
	title := resp.PageTitle
	if title == "" {
		title = resp.Page
	}
	return fmt.Sprintf("%s (%d/%d)", title, position, len(resp.Pages))
}

// displayValue shows select values by their option label.
func displayValue(row dialog.Row) string {
	for _, option := range row.Fragment.Options {
		if option.Value == row.Value && option.Label != "" {
			return option.Label
		}
	}
	return row.Value
}

func copyResponse(resp *dialog.Response) *dialog.Response {
	view := *resp
	view.Rows = append([]dialog.Row(nil), resp.Rows...)
	view.Buttons = append([]dialog.Button(nil), resp.Buttons...)
	view.Pages = append([]model.Page(nil), resp.Pages...)
	return &view
}
