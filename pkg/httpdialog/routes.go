package httpdialog

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/render"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the full mount path for the dialog route under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers the dialog handler, and the asset file server
// when assets are configured, under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, d *dialog.Dialog, renderers *render.Registry, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, d, renderers, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers the routes using a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, d *dialog.Dialog, renderers *render.Registry, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("httpdialog: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	handler, err := HandlerWithOptions(d, renderers, opts)
	if err != nil {
		return "", err
	}
	pattern := mountPath(basePath, opts.RoutePath)
	mux.Handle(pattern, handler)

	if opts.Assets != nil {
		assets := AssetsPattern(pattern, opts.AssetsPath)
		mux.Handle(assets, http.StripPrefix(strings.TrimSuffix(assets, "/"), http.FileServer(http.FS(opts.Assets))))
	}
	return pattern, nil
}

// AssetsPattern joins the dialog route and the assets path into a subtree
// pattern ending in "/".
func AssetsPattern(route, assetsPath string) string {
	pattern := mountPath(route, assetsPath)
	if !strings.HasSuffix(pattern, "/") {
		pattern += "/"
	}
	return pattern
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
