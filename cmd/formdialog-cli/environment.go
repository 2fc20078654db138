package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	formdialog "github.com/goliatone/go-formdialog"
	"github.com/goliatone/go-formdialog/internal/config"
	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/internal/logging/gologger"
	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/interfaces"
	pkgopenapi "github.com/goliatone/go-formdialog/pkg/openapi"
	"github.com/goliatone/go-formdialog/pkg/orchestrator"
	"github.com/goliatone/go-formdialog/pkg/session"
)

const remoteTimeout = 30 * time.Second

// environment carries what every command needs: the validated configuration
// and the logger provider built from it.
type environment struct {
	cfg      config.Config
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
}

func newEnvironment(path, level string) (*environment, error) {
	cfg := config.Default()
	if strings.TrimSpace(path) != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if strings.TrimSpace(level) != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := newLoggerProvider(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &environment{
		cfg:      cfg,
		provider: provider,
		logger:   logging.ModuleLogger(provider, "formdialog.cli"),
	}, nil
}

// newLoggerProvider maps the console provider onto go-logger's console
// format so every provider logs through go-logger.
func newLoggerProvider(cfg config.LoggingConfig) (interfaces.LoggerProvider, error) {
	format := cfg.Format
	if strings.ToLower(strings.TrimSpace(cfg.Provider)) != "gologger" {
		format = "console"
	}
	return gologger.NewProvider(gologger.Config{
		Level:     cfg.Level,
		Format:    format,
		AddSource: cfg.AddSource,
		Focus:     cfg.Focus,
		Writer:    os.Stderr,
	})
}

// DialogFlags override the dialog source of the configuration file.
type DialogFlags struct {
	Definition string `help:"Dialog definition document (YAML or JSON)." type:"existingfile"`
	DialogType string `help:"Dialog type to use when the document declares several." name:"dialog-type"`
	OpenAPI    string `help:"OpenAPI document path or URL." name:"openapi"`
	Operation  string `help:"OpenAPI operation whose request body becomes the dialog."`
}

func (f DialogFlags) apply(cfg config.Config) (config.Config, error) {
	if f.Definition != "" {
		cfg.Dialog.DefinitionFile = f.Definition
		cfg.Dialog.OpenAPI.Source = ""
	}
	if f.OpenAPI != "" {
		cfg.Dialog.OpenAPI.Source = f.OpenAPI
		cfg.Dialog.DefinitionFile = ""
	}
	if f.Operation != "" {
		cfg.Dialog.OpenAPI.Operation = f.Operation
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.RequireDialog(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// request translates the dialog section of cfg into an orchestrator request.
func request(cfg config.Config, dialogType string) (orchestrator.Request, error) {
	if cfg.Dialog.DefinitionFile != "" {
		return orchestrator.Request{DefinitionFile: cfg.Dialog.DefinitionFile, DialogType: dialogType}, nil
	}
	source, err := pkgopenapi.ParseSource(cfg.Dialog.OpenAPI.Source)
	if err != nil {
		return orchestrator.Request{}, err
	}
	return orchestrator.Request{Source: source, OperationID: cfg.Dialog.OpenAPI.Operation}, nil
}

func newOrchestrator(cfg config.Config) *orchestrator.Orchestrator {
	return orchestrator.New(
		orchestrator.WithLoader(formdialog.NewLoader(pkgopenapi.WithHTTPFallback(remoteTimeout))),
		orchestrator.WithOpenAPIOptions(pkgopenapi.WithDefaultMaxOccurs(cfg.Dialog.OpenAPI.DefaultMaxOccurs)),
	)
}

// buildDialog resolves the configured dialog and wires the object store and
// logger into it.
func (env *environment) buildDialog(ctx context.Context, cfg config.Config, dialogType string, store session.Store, opts ...dialog.Option) (*dialog.Dialog, error) {
	req, err := request(cfg, dialogType)
	if err != nil {
		return nil, err
	}
	base := []dialog.Option{
		dialog.WithObjectStore(store),
		dialog.WithLogger(logging.ModuleLogger(env.provider, logging.DialogModule)),
	}
	return newOrchestrator(cfg).Dialog(ctx, req, append(base, opts...)...)
}

// objectStore opens the configured dialog object store. The returned closer
// releases the database handle of the sqlite driver.
func objectStore(cfg config.SessionConfig) (session.Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case config.SessionDriverSQLite:
		db, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open session database: %w", err)
		}
		return session.NewSQLiteStore(db, cfg.Table), db.Close, nil
	default:
		return session.NewMemoryStore(), func() error { return nil }, nil
	}
}

// purgeLoop removes dialog objects older than ttl until ctx is done.
func purgeLoop(ctx context.Context, store *session.SQLiteStore, ttl time.Duration, logger interfaces.Logger) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := store.Purge(ctx, now.Add(-ttl))
			if err != nil {
				logger.Warn("purge dialog objects failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Debug("purged dialog objects", "count", removed)
			}
		}
	}
}
