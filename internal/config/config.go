package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrSessionDriverUnknown = errors.New("formdialog config: session driver is invalid")
var ErrSessionDSNRequired = errors.New("formdialog config: session dsn is required for the sqlite driver")
var ErrSessionTableInvalid = errors.New("formdialog config: session table name is invalid")
var ErrSessionTTLInvalid = errors.New("formdialog config: session ttl must be zero or positive")
var ErrHTTPAddrRequired = errors.New("formdialog config: http address is required")
var ErrHTTPPathInvalid = errors.New("formdialog config: http path must start with /")
var ErrRendererUnknown = errors.New("formdialog config: renderer is invalid")
var ErrDialogSourceRequired = errors.New("formdialog config: a definition file or an openapi source is required")
var ErrDialogSourceConflict = errors.New("formdialog config: definition file and openapi source are mutually exclusive")
var ErrOpenAPIOperationRequired = errors.New("formdialog config: openapi operation is required when an openapi source is set")
var ErrLoggingProviderUnknown = errors.New("formdialog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("formdialog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("formdialog config: logging format is invalid")

// Session drivers.
const (
	SessionDriverMemory = "memory"
	SessionDriverSQLite = "sqlite"
)

// Config aggregates the runtime settings of the CLI and the HTTP server.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Session SessionConfig `yaml:"session"`
	HTTP    HTTPConfig    `yaml:"http"`
	Dialog  DialogConfig  `yaml:"dialog"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// SessionConfig selects the dialog object store.
type SessionConfig struct {
	Driver string        `yaml:"driver"`
	DSN    string        `yaml:"dsn"`
	Table  string        `yaml:"table"`
	TTL    time.Duration `yaml:"ttl"`
}

// HTTPConfig configures the dialog server.
type HTTPConfig struct {
	Addr         string `yaml:"addr"`
	Path         string `yaml:"path"`
	CookieName   string `yaml:"cookie_name"`
	SecureCookie bool   `yaml:"secure_cookie"`
	Renderer     string `yaml:"renderer"`
}

// DialogConfig points at the dialog definition.
type DialogConfig struct {
	DefinitionFile string        `yaml:"definition_file"`
	OpenAPI        OpenAPIConfig `yaml:"openapi"`
	Locale         string        `yaml:"locale"`
}

// OpenAPIConfig derives the dialog from an operation request body.
type OpenAPIConfig struct {
	Source           string `yaml:"source"`
	Operation        string `yaml:"operation"`
	DefaultMaxOccurs int    `yaml:"default_max_occurs"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Session: SessionConfig{
			Driver: SessionDriverMemory,
			Table:  "formdialog_objects",
		},
		HTTP: HTTPConfig{
			Addr:       ":8080",
			Path:       "/dialog",
			CookieName: "formdialog_session",
			Renderer:   "vanilla",
		},
		Dialog: DialogConfig{
			OpenAPI: OpenAPIConfig{DefaultMaxOccurs: 10},
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("formdialog config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("formdialog config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Empty input yields Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs consistency checks that do not depend on the command
// being run.
func (cfg Config) Validate() error {
	switch normalize(cfg.Session.Driver) {
	case SessionDriverMemory:
	case SessionDriverSQLite:
		if strings.TrimSpace(cfg.Session.DSN) == "" {
			return ErrSessionDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrSessionDriverUnknown, cfg.Session.Driver)
	}
	if !isIdentifier(cfg.Session.Table) {
		return fmt.Errorf("%w: %q", ErrSessionTableInvalid, cfg.Session.Table)
	}
	if cfg.Session.TTL < 0 {
		return ErrSessionTTLInvalid
	}

	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if !strings.HasPrefix(strings.TrimSpace(cfg.HTTP.Path), "/") {
		return fmt.Errorf("%w: %q", ErrHTTPPathInvalid, cfg.HTTP.Path)
	}
	switch normalize(cfg.HTTP.Renderer) {
	case "vanilla", "json":
	default:
		return fmt.Errorf("%w: %s", ErrRendererUnknown, cfg.HTTP.Renderer)
	}

	if strings.TrimSpace(cfg.Dialog.DefinitionFile) != "" && strings.TrimSpace(cfg.Dialog.OpenAPI.Source) != "" {
		return ErrDialogSourceConflict
	}
	if strings.TrimSpace(cfg.Dialog.OpenAPI.Source) != "" && strings.TrimSpace(cfg.Dialog.OpenAPI.Operation) == "" {
		return ErrOpenAPIOperationRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// RequireDialog reports whether a dialog source is configured.
func (cfg Config) RequireDialog() error {
	if strings.TrimSpace(cfg.Dialog.DefinitionFile) == "" && strings.TrimSpace(cfg.Dialog.OpenAPI.Source) == "" {
		return ErrDialogSourceRequired
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "", "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

// isIdentifier accepts SQL table names made of letters, digits and
// underscores that do not start with a digit.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
