package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	internalLoader "github.com/goliatone/go-formdialog/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formdialog/internal/openapi/parser"
	"github.com/goliatone/go-formdialog/pkg/definition"
	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/model"
	pkgopenapi "github.com/goliatone/go-formdialog/pkg/openapi"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/renderers/vanilla"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when Render is called
// without a name.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithWidgets selects the widget registry fields are bound with.
func WithWidgets(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
	}
}

// WithTransformer registers a Transformer that mutates dialog models after
// they are resolved but before decorators run.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators applied to every resolved model.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithOpenAPIOptions configures how operations are converted into dialogs.
func WithOpenAPIOptions(options ...pkgopenapi.DialogOption) Option {
	return func(o *Orchestrator) {
		o.openapiOptions = append(o.openapiOptions, options...)
	}
}

// WithDialogOptions adds options passed to every dialog built.
func WithDialogOptions(options ...dialog.Option) Option {
	return func(o *Orchestrator) {
		o.dialogOptions = append(o.dialogOptions, options...)
	}
}

// Orchestrator resolves dialog models and builds dialogs from them. It
// applies defaults (built-in loader and parser, vanilla renderer, default
// widgets) while remaining open to dependency injection.
type Orchestrator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	registry        *render.Registry
	widgets         *widgets.Registry
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	openapiOptions  []pkgopenapi.DialogOption
	dialogOptions   []dialog.Option
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes where a dialog model comes from. Exactly one of Model,
// DefinitionFile or an OpenAPI document (Document or Source) is used, in that
// order of precedence.
type Request struct {
	// Model is used as-is when set.
	Model *model.DialogModel

	// DefinitionFile is a YAML or JSON definition document. DialogType picks
	// one dialog when the document declares several.
	DefinitionFile string
	DialogType     string

	// Source identifies where the OpenAPI document lives. Optional when
	// Document is supplied.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader.
	Document *pkgopenapi.Document

	// OperationID selects the OpenAPI operation whose request body becomes
	// the dialog.
	OperationID string
}

// Model resolves, transforms, decorates and validates the dialog model of
// req.
func (o *Orchestrator) Model(ctx context.Context, req Request) (model.DialogModel, error) {
	if ctx == nil {
		return model.DialogModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.DialogModel{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.DialogModel{}, err
	}

	m, err := o.resolveModel(ctx, req)
	if err != nil {
		return model.DialogModel{}, err
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &m); err != nil {
			return model.DialogModel{}, fmt.Errorf("orchestrator: transform dialog: %w", err)
		}
	}
	if err := model.Decorate(&m, o.decorators...); err != nil {
		return model.DialogModel{}, fmt.Errorf("orchestrator: decorate dialog: %w", err)
	}
	if err := model.ValidateDialog(m); err != nil {
		return model.DialogModel{}, err
	}
	return m, nil
}

// Dialog resolves the model of req and builds a dialog bound to the
// configured widgets. opts are applied after the orchestrator defaults.
func (o *Orchestrator) Dialog(ctx context.Context, req Request, opts ...dialog.Option) (*dialog.Dialog, error) {
	m, err := o.Model(ctx, req)
	if err != nil {
		return nil, err
	}
	options := append(append([]dialog.Option(nil), o.dialogOptions...), opts...)
	d, err := dialog.FromModel(m, dialog.WidgetBinder(o.widgets), options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build dialog: %w", err)
	}
	return d, nil
}

// Render renders resp with the named renderer, or the default renderer when
// name is empty.
func (o *Orchestrator) Render(ctx context.Context, resp *dialog.Response, name string, options render.RenderOptions) ([]byte, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(name)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, resp, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Registry returns the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) resolveModel(ctx context.Context, req Request) (model.DialogModel, error) {
	switch {
	case req.Model != nil:
		return *req.Model, nil
	case strings.TrimSpace(req.DefinitionFile) != "":
		return o.modelFromDefinition(req)
	case req.Document != nil || strings.TrimSpace(req.Source.Location) != "":
		return o.modelFromOperation(ctx, req)
	}
	return model.DialogModel{}, errors.New("orchestrator: model, definition file or openapi source is required")
}

func (o *Orchestrator) modelFromDefinition(req Request) (model.DialogModel, error) {
	catalog, err := definition.LoadFile(req.DefinitionFile)
	if err != nil {
		return model.DialogModel{}, fmt.Errorf("orchestrator: load definition: %w", err)
	}
	dialogType := strings.TrimSpace(req.DialogType)
	if dialogType == "" {
		types := catalog.Types()
		if len(types) != 1 {
			return model.DialogModel{}, fmt.Errorf("orchestrator: %s declares %d dialogs, a dialog type is required", req.DefinitionFile, len(types))
		}
		dialogType = types[0]
	}
	m, ok := catalog.Dialog(dialogType)
	if !ok {
		return model.DialogModel{}, fmt.Errorf("orchestrator: dialog %q not found in %s", dialogType, req.DefinitionFile)
	}
	return m, nil
}

func (o *Orchestrator) modelFromOperation(ctx context.Context, req Request) (model.DialogModel, error) {
	if req.OperationID == "" {
		return model.DialogModel{}, errors.New("orchestrator: operation id is required")
	}

	var doc pkgopenapi.Document
	if req.Document != nil {
		doc = *req.Document
	} else {
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return model.DialogModel{}, fmt.Errorf("orchestrator: load document: %w", err)
		}
		doc = loaded
	}

	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return model.DialogModel{}, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	op, ok := operations[req.OperationID]
	if !ok {
		return model.DialogModel{}, fmt.Errorf("orchestrator: operation %q not found", req.OperationID)
	}
	m, err := pkgopenapi.DialogFromOperation(op, o.openapiOptions...)
	if err != nil {
		return model.DialogModel{}, fmt.Errorf("orchestrator: build dialog model: %w", err)
	}
	return m, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Default()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.widgets == nil {
		o.widgets = widgets.NewRegistry()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
