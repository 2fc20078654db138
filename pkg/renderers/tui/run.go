package tui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/session"
)

// KeyNextStep is the translation key of the action prompt.
const KeyNextStep = "dialog.tui.next"

// choice is one entry of the action prompt.
type choice struct {
	label   string
	action  dialog.Action
	element string
	index   int
}

// Run drives d for sessionID until the dialog is saved or cancelled and
// returns the closing response. Every round prints the page summary, prompts
// the enabled rows and asks for the next action, then submits the answers
// the way a browser submits the HTML form. A blank sessionID gets a fresh id.
func (r *Renderer) Run(ctx context.Context, d *dialog.Dialog, sessionID string) (*dialog.Response, error) {
	if d == nil {
		return nil, fmt.Errorf("tui: dialog is nil")
	}
	if strings.TrimSpace(sessionID) == "" {
		sessionID = session.NewID()
	}
	logger := r.logger.WithContext(ctx)

	params := url.Values{}
	for round := 1; ; round++ {
		if r.maxRounds > 0 && round > r.maxRounds {
			return nil, ErrTooManyRounds
		}
		resp, err := d.Handle(ctx, sessionID, params)
		if err != nil {
			return nil, err
		}
		logger.Debug("tui round", "round", round, "page", resp.Page, "outcome", string(resp.Outcome))
		if resp.Closed() {
			return resp, nil
		}

		summary, err := r.Render(ctx, resp, r.options)
		if err != nil {
			return nil, err
		}
		if err := r.driver.Info(ctx, strings.TrimRight(string(summary), "\n")); err != nil {
			return nil, err
		}
		if params, err = r.collect(ctx, resp); err != nil {
			return nil, err
		}
	}
}

// collect prompts the rows of resp and the next action, returning the
// parameters of the next request.
func (r *Renderer) collect(ctx context.Context, resp *dialog.Response) (url.Values, error) {
	view := copyResponse(resp)
	render.LocalizeResponse(view, r.options)

	params := dialog.HiddenValues(resp.Hidden)
	params.Set(dialog.ParamPage, resp.Page)
	for _, row := range view.Rows {
		if row.Disabled {
			continue
		}
		value, err := r.promptRow(ctx, row)
		if err != nil {
			return nil, err
		}
		params.Set(row.ID, value)
	}

	choices := r.choices(view)
	labels := make([]string, 0, len(choices))
	for _, c := range choices {
		labels = append(labels, c.label)
	}
	picked, err := r.driver.Select(ctx, SelectConfig{
		Message: r.theme.PromptPrefix + r.options.Text(KeyNextStep, "Next step"),
		Options: labels,
	})
	if err != nil {
		return nil, err
	}
	if picked < 0 || picked >= len(choices) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChoice, picked)
	}

	next := choices[picked]
	params.Set(dialog.ParamAction, next.action.String())
	if next.element != "" {
		params.Set(dialog.ParamElementName, next.element)
		params.Set(dialog.ParamElementIndex, strconv.Itoa(next.index))
	}
	return params, nil
}

// choices lists the buttons followed by the add and remove controls of every
// row, mirroring what the HTML form offers.
func (r *Renderer) choices(view *dialog.Response) []choice {
	var out []choice
	for _, button := range view.Buttons {
		out = append(out, choice{label: button.Label, action: dialog.ParseAction(button.Action)})
	}
	add := r.options.Text(render.KeyAddElement, "Add")
	remove := r.options.Text(render.KeyRemove, "Remove")
	for _, row := range view.Rows {
		if row.CanAdd {
			out = append(out, choice{
				label:   fmt.Sprintf("%s: %s", add, row.Label),
				action:  dialog.ActionAddElement,
				element: row.Field,
				index:   row.Index,
			})
		}
		if row.CanRemove && !row.Disabled {
			out = append(out, choice{
				label:   fmt.Sprintf("%s: %s", remove, row.Label),
				action:  dialog.ActionRemoveElement,
				element: row.Field,
				index:   row.Index,
			})
		}
	}
	return out
}

func (r *Renderer) promptRow(ctx context.Context, row dialog.Row) (string, error) {
	message := r.theme.PromptPrefix + row.Label
	frag := row.Fragment

	switch frag.Input {
	case "checkbox":
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: frag.Checked, Help: row.Help})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(checked), nil
	case "textarea":
		return r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: row.Value, Help: row.Help})
	case "select":
		if len(frag.Options) > 0 {
			return r.promptSelect(ctx, message, row)
		}
	case "number":
		return r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   row.Value,
			Help:      row.Help,
			Validator: integerOrBlank,
		})
	}
	return r.driver.Input(ctx, InputConfig{Message: message, Default: row.Value, Help: row.Help})
}

func (r *Renderer) promptSelect(ctx context.Context, message string, row dialog.Row) (string, error) {
	options := row.Fragment.Options
	labels := make([]string, 0, len(options))
	current := -1
	for i, option := range options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		labels = append(labels, label)
		if option.Value == row.Value {
			current = i
		}
	}
	picked, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: current,
		Help:         row.Help,
	})
	if err != nil {
		return "", err
	}
	if picked < 0 || picked >= len(options) {
		return "", fmt.Errorf("%w: %d", ErrInvalidChoice, picked)
	}
	return options[picked].Value, nil
}

func integerOrBlank(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if _, err := strconv.Atoi(value); err != nil {
		return fmt.Errorf("%q is not a whole number", value)
	}
	return nil
}
