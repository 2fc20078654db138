package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// CLI is the kong model of the formdialog command.
type CLI struct {
	Config   string `help:"YAML configuration file." short:"c" type:"existingfile" env:"FORMDIALOG_CONFIG"`
	LogLevel string `help:"Override the configured log level." name:"log-level"`

	Serve ServeCmd `cmd:"" help:"Serve the dialog over HTTP."`
	Run   RunCmd   `cmd:"" help:"Walk the dialog in the terminal."`
	Lint  LintCmd  `cmd:"" help:"Validate dialog definition documents or OpenAPI sources."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("formdialog"),
		kong.Description("Multi-page widget dialogs from definition documents or OpenAPI operations."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	env, err := newEnvironment(cli.Config, cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "formdialog: %v\n", err)
		os.Exit(1)
	}
	kctx.Bind(env)

	if err := kctx.Run(); err != nil {
		env.logger.Error("command failed", "command", kctx.Command(), "error", err)
		fmt.Fprintf(os.Stderr, "formdialog: %v\n", err)
		os.Exit(1)
	}
}
