package httpdialog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/session"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds a net/http handler serving d with default options plus any
// overrides.
func Handler(d *dialog.Dialog, renderers *render.Registry, fns ...OptionFn) (http.Handler, error) {
	return HandlerWithOptions(d, renderers, NewOptions(fns...))
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. Callers are expected to pass an Options value produced by NewOptions
// so defaults apply.
func HandlerWithOptions(d *dialog.Dialog, renderers *render.Registry, opts Options) (http.Handler, error) {
	if d == nil {
		return nil, fmt.Errorf("httpdialog: missing dialog")
	}
	if renderers == nil {
		return nil, fmt.Errorf("httpdialog: missing renderer registry")
	}
	if _, err := renderers.Default(); err != nil {
		return nil, fmt.Errorf("httpdialog: %w", err)
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
		default:
			w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodPost}, ", "))
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeError(w, err, http.StatusForbidden)
				return
			}
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		renderer, err := renderers.Resolve(strings.TrimSpace(r.URL.Query().Get(opts.FormatParam)))
		if err != nil {
			http.Error(w, http.StatusText(http.StatusNotAcceptable), http.StatusNotAcceptable)
			return
		}

		ctx := r.Context()
		logger := opts.Logger.WithContext(ctx)
		sessionID := sessionFromRequest(w, r, opts)

		resp, err := d.Handle(ctx, sessionID, r.Form)
		if err != nil {
			logger.Warn("dialog request failed", "dialog", d.Type(), "error", err)
			writeError(w, err, http.StatusInternalServerError)
			return
		}

		if resp.Closed() && opts.CloseRedirect != nil {
			if location := opts.CloseRedirect(r, resp); location != "" {
				http.Redirect(w, r, location, http.StatusSeeOther)
				return
			}
		}

		renderOpts := opts.RenderOptions
		if renderOpts.Action == "" {
			renderOpts.Action = r.URL.Path
		}
		if opts.LocaleParam != "" {
			if locale := strings.TrimSpace(r.URL.Query().Get(opts.LocaleParam)); locale != "" {
				renderOpts.Locale = locale
			}
		}

		body, err := renderer.Render(ctx, resp, renderOpts)
		if err != nil {
			logger.Error("dialog render failed", "dialog", d.Type(), "renderer", renderer.Name(), "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", renderer.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	}), nil
}

// sessionFromRequest returns the session id carried by the cookie, issuing a
// new one when the cookie is missing or malformed.
func sessionFromRequest(w http.ResponseWriter, r *http.Request, opts Options) string {
	if cookie, err := r.Cookie(opts.CookieName); err == nil && session.ValidID(cookie.Value) {
		return cookie.Value
	}
	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     opts.CookieName,
		Value:    id,
		Path:     opts.CookiePath,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeError(w http.ResponseWriter, err error, fallback int) {
	if w == nil {
		return
	}
	code := StatusFor(err, fallback)
	http.Error(w, http.StatusText(code), code)
}

// StatusFor maps err to an HTTP status. HTTPError values report their own
// status; go-errors categories map to the matching client or server status.
func StatusFor(err error, fallback int) int {
	if err == nil {
		return fallback
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	switch {
	case goerrors.IsCategory(err, goerrors.CategoryBadInput), goerrors.IsCategory(err, goerrors.CategoryValidation):
		return http.StatusBadRequest
	case goerrors.IsCategory(err, goerrors.CategoryConflict):
		return http.StatusConflict
	case goerrors.IsCategory(err, goerrors.CategoryExternal):
		return http.StatusBadGateway
	}
	return fallback
}
