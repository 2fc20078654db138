package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	formdialog "github.com/goliatone/go-formdialog"
	"github.com/goliatone/go-formdialog/pkg/definition"
	pkgopenapi "github.com/goliatone/go-formdialog/pkg/openapi"
)

var errLintFailed = errors.New("lint found problems")

// LintCmd checks definition documents and OpenAPI sources. OpenAPI documents
// are recognised by their top-level "openapi" key.
type LintCmd struct {
	Paths []string `arg:"" help:"Files to lint." type:"existingfile"`
}

// Run lints every path and fails when any problem is found.
func (c *LintCmd) Run(ctx context.Context, env *environment) error {
	return c.run(ctx, env, os.Stdout)
}

func (c *LintCmd) run(ctx context.Context, env *environment, out io.Writer) error {
	failed := false
	for _, path := range c.Paths {
		problems, err := lintFile(ctx, env, path)
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		if len(problems) == 0 {
			fmt.Fprintf(out, "%s: ok\n", path)
			continue
		}
		failed = true
		for _, problem := range problems {
			fmt.Fprintf(out, "%s: %s\n", path, problem)
		}
	}
	if failed {
		return errLintFailed
	}
	return nil
}

func lintFile(ctx context.Context, env *environment, path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe map[string]any
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return []string{fmt.Sprintf("invalid JSON or YAML: %v", err)}, nil
	}
	if _, ok := probe["openapi"]; !ok {
		if _, err := definition.Parse(raw, path); err != nil {
			return []string{err.Error()}, nil
		}
		return nil, nil
	}

	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), raw)
	if err != nil {
		return nil, err
	}
	operations, err := formdialog.NewParser().Operations(ctx, doc)
	if err != nil {
		return []string{err.Error()}, nil
	}

	violations := pkgopenapi.Lint(operations, pkgopenapi.WithDefaultMaxOccurs(env.cfg.Dialog.OpenAPI.DefaultMaxOccurs))
	problems := make([]string, 0, len(violations))
	for _, v := range violations {
		problems = append(problems, v.String())
	}
	return problems, nil
}
