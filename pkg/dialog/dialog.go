package dialog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/pkg/interfaces"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/session"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// SaveHandler persists the committed dialog object. An error is reported as
// an other error and keeps the dialog open.
type SaveHandler func(ctx context.Context, object any) error

// ObjectFactory creates the dialog object on the first request of a session.
type ObjectFactory func(ctx context.Context) (any, error)

// Option customises a Dialog.
type Option func(*Dialog)

// WithPages declares the page sequence. Without it the pages are derived from
// the definitions in first-seen order.
func WithPages(pages ...model.Page) Option {
	return func(d *Dialog) {
		d.pages = append([]model.Page(nil), pages...)
	}
}

// WithTitle sets the dialog title shown by renderers.
func WithTitle(title string) Option {
	return func(d *Dialog) {
		d.title = title
	}
}

// WithDialogType sets the identifier used to key the dialog object.
func WithDialogType(dialogType string) Option {
	return func(d *Dialog) {
		if dialogType != "" {
			d.dialogType = dialogType
		}
	}
}

// WithObjectStore overrides the dialog object store.
func WithObjectStore(store session.Store) Option {
	return func(d *Dialog) {
		if store != nil {
			d.objects = store
		}
	}
}

// WithObjectFactory overrides how new dialog objects are created.
func WithObjectFactory(factory ObjectFactory) Option {
	return func(d *Dialog) {
		if factory != nil {
			d.factory = factory
		}
	}
}

// WithSaveHandler registers the business save hook.
func WithSaveHandler(handler SaveHandler) Option {
	return func(d *Dialog) {
		d.save = handler
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(d *Dialog) {
		d.logger = logger
	}
}

// Dialog drives one dialog type across requests. A Dialog is safe for
// concurrent use: each Handle call works on its own instance store.
type Dialog struct {
	reg        *Registry
	pages      []model.Page
	title      string
	dialogType string
	objects    session.Store
	factory    ObjectFactory
	save       SaveHandler
	logger     interfaces.Logger
}

// New builds a dialog over reg and freezes it.
func New(reg *Registry, opts ...Option) *Dialog {
	if reg == nil {
		reg = NewRegistry()
	}
	d := &Dialog{
		reg:        reg,
		dialogType: "dialog",
		objects:    session.NewMemoryStore(),
		factory: func(context.Context) (any, error) {
			return widgets.Values{}, nil
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if len(d.pages) == 0 {
		for _, id := range reg.Pages() {
			d.pages = append(d.pages, model.Page{ID: id})
		}
	}
	d.logger = logging.WithFields(logging.Ensure(d.logger), map[string]any{"dialog": d.dialogType})
	reg.Freeze()
	return d
}

// FromModel builds the registry of m with bind and returns a dialog using the
// model's type, title and pages.
func FromModel(m model.DialogModel, bind Binder, opts ...Option) (*Dialog, error) {
	reg, err := RegistryFromModel(m, bind)
	if err != nil {
		return nil, err
	}
	base := []Option{WithDialogType(m.Type), WithTitle(m.Title)}
	if len(m.Pages) > 0 {
		base = append(base, WithPages(m.Pages...))
	}
	return New(reg, append(base, opts...)...), nil
}

// Type returns the dialog type.
func (d *Dialog) Type() string { return d.dialogType }

// Title returns the dialog title.
func (d *Dialog) Title() string { return d.title }

// Registry returns the frozen definition registry.
func (d *Dialog) Registry() *Registry { return d.reg }

// Pages returns the page sequence.
func (d *Dialog) Pages() []model.Page {
	return append([]model.Page(nil), d.pages...)
}

// PageIDs returns the page identifiers in order.
func (d *Dialog) PageIDs() []string {
	ids := make([]string, 0, len(d.pages))
	for _, page := range d.pages {
		ids = append(ids, page.ID)
	}
	return ids
}

// Response is everything a renderer needs after one request.
type Response struct {
	DialogType       string        `json:"dialogType"`
	Title            string        `json:"title,omitempty"`
	Outcome          Outcome       `json:"outcome"`
	Steps            []Outcome     `json:"steps,omitempty"`
	Page             string        `json:"page,omitempty"`
	PageTitle        string        `json:"pageTitle,omitempty"`
	Pages            []model.Page  `json:"pages,omitempty"`
	Rows             []Row         `json:"rows"`
	Buttons          []Button      `json:"buttons"`
	Hidden           []HiddenField `json:"hidden,omitempty"`
	Includes         []string      `json:"includes,omitempty"`
	ValidationErrors []error       `json:"-"`
	OtherErrors      []error       `json:"-"`
	Object           any           `json:"-"`
}

// AddOtherError records an error that is not tied to a field occurrence.
func (r *Response) AddOtherError(err error) {
	if err != nil {
		r.OtherErrors = append(r.OtherErrors, err)
	}
}

// HasErrors reports whether the error header should be shown.
func (r *Response) HasErrors() bool {
	return len(r.ValidationErrors) > 0 || len(r.OtherErrors) > 0
}

// OtherMessages flattens the other errors for display.
func (r *Response) OtherMessages() []string {
	var out []string
	for _, err := range r.OtherErrors {
		out = append(out, ErrorMessages(err)...)
	}
	return out
}

// Closed reports whether the dialog finished with save or cancel.
func (r *Response) Closed() bool {
	return r.Outcome == OutcomeSave || r.Outcome == OutcomeCancel
}

// ObjectCloner is implemented by dialog objects that can be copied. Commits
// run against the copy, which replaces the object only when the commit
// produced no errors. widgets.Values is copied without it.
type ObjectCloner interface {
	CloneObject() any
}

func cloneObject(object any) any {
	switch typed := object.(type) {
	case widgets.Values:
		if typed != nil {
			return typed.Clone()
		}
	case ObjectCloner:
		return typed.CloneObject()
	}
	return object
}

// Handle processes one request of sessionID. The dialog object is loaded from
// the object store (or created), the instance store is rebuilt from params,
// and the action is dispatched. Saving or cancelling clears the stored object;
// every other outcome writes it back. A commit that fails validation leaves
// a cloneable object as it was before the request.
func (d *Dialog) Handle(ctx context.Context, sessionID string, params url.Values) (*Response, error) {
	logger := d.logger.WithContext(ctx)

	object, err := d.loadObject(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	work := cloneObject(object)
	store := NewStore(d.reg)
	req, res, err := Dispatch(d.PageIDs(), params, store, work)
	if err != nil {
		logger.Warn("dialog request rejected", "action", req.Action.String(), "page", req.Page, "error", err)
		return nil, err
	}
	if len(res.Errors) == 0 {
		object = work
	}
	logger.Debug("dialog action dispatched",
		"action", req.Action.String(),
		"page", req.Page,
		"next_page", res.Page,
		"outcome", string(res.Outcome),
		"errors", len(res.Errors),
	)

	resp := &Response{
		DialogType: d.dialogType,
		Title:      d.title,
		Outcome:    res.Outcome,
		Steps:      res.Steps,
		Page:       res.Page,
		Pages:      d.Pages(),
		Object:     object,
	}
	for _, err := range res.Errors {
		var verr *ValidationError
		if errors.As(err, &verr) {
			resp.ValidationErrors = append(resp.ValidationErrors, err)
			continue
		}
		resp.AddOtherError(err)
	}

	switch res.Outcome {
	case OutcomeSave:
		if d.save != nil {
			if err := d.save(ctx, object); err != nil {
				resp.AddOtherError(cloneError(ErrSaveFailed, "", err, map[string]any{"dialog": d.dialogType}))
				resp.Outcome = OutcomeDefault
				resp.Steps = append(resp.Steps, OutcomeDefault)
				logger.Warn("dialog save failed", "error", err)
				break
			}
		}
		logger.Info("dialog saved", "session", sessionID)
		if err := d.clearObject(ctx, sessionID); err != nil {
			resp.AddOtherError(err)
		}
	case OutcomeCancel:
		logger.Debug("dialog cancelled", "session", sessionID)
		if err := d.clearObject(ctx, sessionID); err != nil {
			resp.AddOtherError(err)
		}
	}

	if resp.Outcome == OutcomeDefault {
		if err := d.objects.Save(ctx, sessionID, d.dialogType, object); err != nil {
			resp.AddOtherError(cloneError(ErrObjectStore, "", err, nil))
		}
	}

	d.fill(resp, store)
	return resp, nil
}

func (d *Dialog) fill(resp *Response, store *Store) {
	for _, page := range d.pages {
		if page.ID == resp.Page {
			resp.PageTitle = page.Title
		}
	}
	resp.Rows = store.Rows(resp.Page)
	resp.Includes = store.Includes(resp.Page)
	resp.Buttons = Buttons(d.PageIDs(), resp.Page)
	if len(d.pages) > 0 {
		resp.Hidden = store.HiddenFields(resp.Page)
	}
}

func (d *Dialog) loadObject(ctx context.Context, sessionID string) (any, error) {
	object, ok, err := d.objects.Load(ctx, sessionID, d.dialogType)
	if err != nil {
		return nil, cloneError(ErrObjectStore, fmt.Sprintf("load dialog object for %q", d.dialogType), err, nil)
	}
	if ok && object != nil {
		return object, nil
	}
	object, err = d.factory(ctx)
	if err != nil {
		return nil, cloneError(ErrObjectStore, fmt.Sprintf("create dialog object for %q", d.dialogType), err, nil)
	}
	return object, nil
}

func (d *Dialog) clearObject(ctx context.Context, sessionID string) error {
	if err := d.objects.Clear(ctx, sessionID, d.dialogType); err != nil {
		return cloneError(ErrObjectStore, fmt.Sprintf("clear dialog object for %q", d.dialogType), err, nil)
	}
	return nil
}

// Object returns the stored dialog object of sessionID, if any.
func (d *Dialog) Object(ctx context.Context, sessionID string) (any, bool, error) {
	return d.objects.Load(ctx, sessionID, d.dialogType)
}
