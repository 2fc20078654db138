package httpdialog

import (
	"net/http"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/render"
)

// Component bundles a dialog, its renderers and the handler configuration.
type Component struct {
	dialog    *dialog.Dialog
	renderers *render.Registry
	opts      Options
}

// New constructs a component with default options plus any overrides.
func New(d *dialog.Dialog, renderers *render.Registry, fns ...OptionFn) *Component {
	return &Component{dialog: d, renderers: renderers, opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the net/http handler of the dialog.
func (c *Component) Handler() (http.Handler, error) {
	return HandlerWithOptions(c.dialog, c.renderers, c.opts)
}

// RegisterRoutes registers the component routes under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.dialog, c.renderers, c.opts)
}
