package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	formdialog "github.com/goliatone/go-formdialog"
	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/httpdialog"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/session"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd serves the configured dialog over HTTP.
type ServeCmd struct {
	DialogFlags `embed:""`

	Addr string `help:"Listen address, overrides http.addr."`
}

// Run starts the server and blocks until ctx is cancelled.
func (c *ServeCmd) Run(ctx context.Context, env *environment) error {
	cfg, err := c.apply(env.cfg)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.HTTP.Addr = c.Addr
	}

	store, closeStore, err := objectStore(cfg.Session)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			env.logger.Warn("close session store failed", "error", err)
		}
	}()
	if sqlite, ok := store.(*session.SQLiteStore); ok && cfg.Session.TTL > 0 {
		go purgeLoop(ctx, sqlite, cfg.Session.TTL, logging.ModuleLogger(env.provider, logging.SessionModule))
	}

	saved := func(_ context.Context, object any) error {
		env.logger.Info("dialog saved", "object", object)
		return nil
	}
	d, err := env.buildDialog(ctx, cfg, c.DialogType, store, dialog.WithSaveHandler(saved))
	if err != nil {
		return err
	}

	renderers, err := formdialog.DefaultRenderers()
	if err != nil {
		return err
	}
	if err := renderers.SetDefault(cfg.HTTP.Renderer); err != nil {
		return err
	}

	mux := http.NewServeMux()
	route, err := httpdialog.RegisterRoutes(mux, "", d, renderers,
		httpdialog.WithRoutePath(cfg.HTTP.Path),
		httpdialog.WithCookie(cfg.HTTP.CookieName, "/", cfg.HTTP.SecureCookie),
		httpdialog.WithAssets(formdialog.AssetsFS()),
		httpdialog.WithRenderOptions(render.RenderOptions{Locale: cfg.Dialog.Locale}),
		httpdialog.WithLogger(logging.ModuleLogger(env.provider, logging.HTTPModule)),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		env.logger.Info("serving dialog", "addr", cfg.HTTP.Addr, "route", route, "dialog", d.Type())
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	env.logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
