// Package formdialog exposes the multi-page dialog engine from the module
// root: orchestrator construction, OpenAPI loader and parser factories, the
// default renderer registry and the embedded vanilla assets.
package formdialog

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	internalLoader "github.com/goliatone/go-formdialog/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formdialog/internal/openapi/parser"
	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/httpdialog"
	pkgopenapi "github.com/goliatone/go-formdialog/pkg/openapi"
	"github.com/goliatone/go-formdialog/pkg/orchestrator"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/renderers/jsonview"
	"github.com/goliatone/go-formdialog/pkg/renderers/vanilla"
)

// Dialog is the per-type dialog runtime.
type Dialog = dialog.Dialog

// Response is the view model produced by Dialog.Handle.
type Response = dialog.Response

// Request selects where a dialog model comes from.
type Request = orchestrator.Request

// RenderOptions describes per-request overrides passed to renderers.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// New resolves the dialog model described by req and returns its runtime.
func New(ctx context.Context, req Request, options ...orchestrator.Option) (*Dialog, error) {
	return orchestrator.New(options...).Dialog(ctx, req)
}

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// DefaultRenderers returns a registry holding the vanilla HTML renderer (the
// default) and the JSON view renderer.
func DefaultRenderers(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("formdialog: vanilla renderer: %w", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(jsonview.New())
	if err := registry.SetDefault(html.Name()); err != nil {
		return nil, err
	}
	return registry, nil
}

// NewHandler serves d over HTTP with the default renderers.
func NewHandler(d *Dialog, fns ...httpdialog.OptionFn) (http.Handler, error) {
	registry, err := DefaultRenderers()
	if err != nil {
		return nil, err
	}
	return httpdialog.Handler(d, registry, fns...)
}

// RegisterRoutes mounts d and the embedded stylesheet on mux under basePath
// and returns the dialog route.
func RegisterRoutes(mux httpdialog.Mux, basePath string, d *Dialog, fns ...httpdialog.OptionFn) (string, error) {
	registry, err := DefaultRenderers()
	if err != nil {
		return "", err
	}
	options := append([]httpdialog.OptionFn{httpdialog.WithAssets(AssetsFS())}, fns...)
	return httpdialog.RegisterRoutes(mux, basePath, d, registry, options...)
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet shipped with the vanilla renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formdialog.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
