package tui

import (
	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/pkg/interfaces"
	"github.com/goliatone/go-formdialog/pkg/render"
)

// Theme captures optional prefixes applied to printed lines. Keep minimal to
// avoid coupling the renderer to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// DefaultTheme is used when WithTheme is not given.
var DefaultTheme = Theme{ErrorPrefix: "! "}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by Run.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithRenderOptions sets the locale and translator used while running a
// dialog.
func WithRenderOptions(options render.RenderOptions) Option {
	return func(r *Renderer) {
		r.options = options
	}
}

// WithMaxRounds bounds the number of requests Run issues. Zero disables the
// limit.
func WithMaxRounds(rounds int) Option {
	return func(r *Renderer) {
		if rounds >= 0 {
			r.maxRounds = rounds
		}
	}
}

// WithLogger sets the logger used for round diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		r.logger = logging.Ensure(logger)
	}
}
