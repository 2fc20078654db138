// Package jsonview renders dialog responses as JSON documents for script
// driven clients. The payload carries everything the HTML renderer shows:
// rows, buttons, hidden carry-over fields and flattened errors.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "json"

// Option customises the renderer.
type Option func(*Renderer)

// WithIndent pretty prints the payload with indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer encodes a response as application/json.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return Name
}

// ContentType returns the MIME type of generated documents.
func (r *Renderer) ContentType() string {
	return "application/json; charset=utf-8"
}

// Payload is the encoded document.
type Payload struct {
	Dialog    string               `json:"dialog"`
	Title     string               `json:"title,omitempty"`
	Outcome   dialog.Outcome       `json:"outcome"`
	Closed    bool                 `json:"closed"`
	Page      string               `json:"page,omitempty"`
	PageTitle string               `json:"pageTitle,omitempty"`
	Pages     []model.Page         `json:"pages,omitempty"`
	Action    string               `json:"action,omitempty"`
	Rows      []dialog.Row         `json:"rows"`
	Buttons   []dialog.Button      `json:"buttons"`
	Hidden    []render.HiddenField `json:"hidden,omitempty"`
	Includes  []string             `json:"includes,omitempty"`
	Errors    *ErrorPayload        `json:"errors,omitempty"`
}

// ErrorPayload groups occurrence errors by field id and lists form level
// messages.
type ErrorPayload struct {
	Header string              `json:"header"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// Render encodes resp. Captions are localised on a copy. Hidden fields are the
// page control field, the carry-over values and then options.Hidden.
func (r *Renderer) Render(_ context.Context, resp *dialog.Response, options render.RenderOptions) ([]byte, error) {
	payload, err := BuildPayload(resp, options)
	if err != nil {
		return nil, err
	}
	var out []byte
	if r.indent != "" {
		out, err = json.MarshalIndent(payload, "", r.indent)
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: marshal payload: %w", err)
	}
	return out, nil
}

// BuildPayload assembles the document Render encodes.
func BuildPayload(resp *dialog.Response, options render.RenderOptions) (Payload, error) {
	if resp == nil {
		return Payload{}, fmt.Errorf("json renderer: response is nil")
	}

	view := *resp
	view.Rows = append([]dialog.Row(nil), resp.Rows...)
	view.Buttons = append([]dialog.Button(nil), resp.Buttons...)
	view.Pages = append([]model.Page(nil), resp.Pages...)
	render.LocalizeResponse(&view, options)

	hidden := render.MergeHiddenFields(render.ControlFields(resp), resp.Hidden...)
	hidden = render.MergeHiddenFields(hidden, options.Hidden...)

	payload := Payload{
		Dialog:    view.DialogType,
		Title:     view.Title,
		Outcome:   view.Outcome,
		Closed:    resp.Closed(),
		Page:      view.Page,
		PageTitle: view.PageTitle,
		Pages:     view.Pages,
		Action:    options.Action,
		Rows:      view.Rows,
		Buttons:   view.Buttons,
		Hidden:    hidden,
		Includes:  view.Includes,
	}
	if payload.Rows == nil {
		payload.Rows = []dialog.Row{}
	}
	if payload.Buttons == nil {
		payload.Buttons = []dialog.Button{}
	}

	mapping := render.MapResponseErrors(resp)
	if resp.HasErrors() || mapping.HasErrors() {
		payload.Errors = &ErrorPayload{
			Header: options.Text(render.KeyErrorHeader, "Please correct the errors below."),
			Fields: mapping.Fields,
			Form:   mapping.Form,
		}
	}
	return payload, nil
}
