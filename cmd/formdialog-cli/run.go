package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/renderers/tui"
	"github.com/goliatone/go-formdialog/pkg/session"
)

// RunCmd walks the configured dialog with terminal prompts and prints the
// saved object as JSON.
type RunCmd struct {
	DialogFlags `embed:""`

	MaxRounds int `help:"Give up after this many rounds." default:"100" name:"max-rounds"`
}

// Run drives the dialog until it is saved or cancelled.
func (c *RunCmd) Run(ctx context.Context, env *environment) error {
	return c.run(ctx, env, tui.NewSurveyDriver(os.Stdout), os.Stdout)
}

func (c *RunCmd) run(ctx context.Context, env *environment, driver tui.PromptDriver, out io.Writer) error {
	cfg, err := c.apply(env.cfg)
	if err != nil {
		return err
	}

	d, err := env.buildDialog(ctx, cfg, c.DialogType, session.NewMemoryStore())
	if err != nil {
		return err
	}

	runner, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithMaxRounds(c.MaxRounds),
		tui.WithRenderOptions(render.RenderOptions{Locale: cfg.Dialog.Locale}),
		tui.WithLogger(logging.ModuleLogger(env.provider, logging.TUIModule)),
	)
	if err != nil {
		return err
	}

	resp, err := runner.Run(ctx, d, session.NewID())
	if err != nil {
		return err
	}
	if resp.Outcome == dialog.OutcomeCancel {
		fmt.Fprintln(out, "cancelled")
		return nil
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp.Object)
}
