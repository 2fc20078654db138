package httpdialog

import (
	"io/fs"
	"net/http"

	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/interfaces"
	"github.com/goliatone/go-formdialog/pkg/render"
)

// DefaultCookieName names the session cookie.
const DefaultCookieName = "formdialog_session"

// GuardFunc authorises a request before it reaches the dialog.
type GuardFunc func(r *http.Request) error

// CloseRedirectFunc returns the location to redirect to once a dialog is
// saved or cancelled. An empty location renders the closing response.
type CloseRedirectFunc func(r *http.Request, resp *dialog.Response) string

type Options struct {
	RoutePath     string
	AssetsPath    string
	CookieName    string
	CookiePath    string
	SecureCookie  bool
	FormatParam   string
	LocaleParam   string
	Guard         GuardFunc
	CloseRedirect CloseRedirectFunc
	RenderOptions render.RenderOptions
	Assets        fs.FS
	Logger        interfaces.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:   "/dialog",
		AssetsPath:  "/assets/",
		CookieName:  DefaultCookieName,
		CookiePath:  "/",
		FormatParam: "format",
		LocaleParam: "lang",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/dialog"
	}
	if opts.AssetsPath == "" {
		opts.AssetsPath = "/assets/"
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.CookiePath == "" {
		opts.CookiePath = "/"
	}
	if opts.FormatParam == "" {
		opts.FormatParam = "format"
	}
	opts.RenderOptions.Hidden = append([]render.HiddenField(nil), opts.RenderOptions.Hidden...)
	opts.Logger = logging.Ensure(opts.Logger)
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithAssets serves files under AssetsPath below the route.
func WithAssets(files fs.FS) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Assets = files
	}
}

func WithAssetsPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AssetsPath = path
	}
}

func WithCookie(name, path string, secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
		o.CookiePath = path
		o.SecureCookie = secure
	}
}

func WithFormatParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormatParam = name
	}
}

// WithLocaleParam names the query parameter copied into RenderOptions.Locale.
// An empty name disables it.
func WithLocaleParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LocaleParam = name
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithCloseRedirect(fn CloseRedirectFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CloseRedirect = fn
	}
}

// WithRenderOptions sets the base render options. Action defaults to the
// request path when left blank.
func WithRenderOptions(options render.RenderOptions) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RenderOptions = options
	}
}

func WithLogger(logger interfaces.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
