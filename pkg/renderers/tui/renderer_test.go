package tui_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/renderers/tui"
	"github.com/goliatone/go-formdialog/pkg/testsupport"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// scriptedDriver answers prompts from a fixed script and records what it was
// asked.
type scriptedDriver struct {
	answers []any
	pos     int
	prompts []string
	options [][]string
	infos   []string
}

func (s *scriptedDriver) next(kind, message string) (any, error) {
	s.prompts = append(s.prompts, kind+":"+message)
	if s.pos >= len(s.answers) {
		return nil, fmt.Errorf("no answer scripted for %s %q", kind, message)
	}
	answer := s.answers[s.pos]
	s.pos++
	return answer, nil
}

func (s *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	answer, err := s.next("input", cfg.Message)
	if err != nil {
		return "", err
	}
	value, ok := answer.(string)
	if !ok {
		return "", fmt.Errorf("input %q: scripted %T", cfg.Message, answer)
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (s *scriptedDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	answer, err := s.next("confirm", cfg.Message)
	if err != nil {
		return false, err
	}
	value, ok := answer.(bool)
	if !ok {
		return false, fmt.Errorf("confirm %q: scripted %T", cfg.Message, answer)
	}
	return value, nil
}

func (s *scriptedDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	s.options = append(s.options, cfg.Options)
	answer, err := s.next("select", cfg.Message)
	if err != nil {
		return -1, err
	}
	switch v := answer.(type) {
	case int:
		return v, nil
	case string:
		for i, option := range cfg.Options {
			if option == v {
				return i, nil
			}
		}
		return -1, fmt.Errorf("select %q: option %q not offered in %v", cfg.Message, v, cfg.Options)
	}
	return -1, fmt.Errorf("select %q: scripted %T", cfg.Message, answer)
}

func (s *scriptedDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	answer, err := s.next("textarea", cfg.Message)
	if err != nil {
		return "", err
	}
	value, _ := answer.(string)
	return value, nil
}

func (s *scriptedDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func newRenderer(t *testing.T, driver tui.PromptDriver, opts ...tui.Option) *tui.Renderer {
	t.Helper()
	r, err := tui.New(append([]tui.Option{tui.WithPromptDriver(driver)}, opts...)...)
	if err != nil {
		t.Fatalf("tui.New: %v", err)
	}
	return r
}

func TestRenderSummary(t *testing.T) {
	d := testsupport.NewArticleDialog(t)
	resp, err := d.Handle(context.Background(), "s1", url.Values{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	out, err := newRenderer(t, &scriptedDriver{}).Render(context.Background(), resp, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "Article\n" +
		"== Content (1/2) ==\n" +
		"Title: \n" +
		"  Shown in listings.\n" +
		"Note: (empty)\n" +
		"[Continue] [Cancel]\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSummaryLocalizesCopy(t *testing.T) {
	d := testsupport.NewArticleDialog(t)
	resp, err := d.Handle(context.Background(), "s1", url.Values{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	translations := map[string]string{
		"dialog.article.title":      "Artikel",
		"dialog.article.field.note": "Notiz",
		"dialog.button.cancel":      "Abbrechen",
	}
	opts := render.RenderOptions{
		Locale: "de",
		Translator: render.TranslatorFunc(func(_ string, key string, _ ...any) (string, error) {
			if msg, ok := translations[key]; ok {
				return msg, nil
			}
			return "", errors.New("missing")
		}),
	}

	out, err := newRenderer(t, &scriptedDriver{}).Render(context.Background(), resp, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)
	for _, fragment := range []string{"Artikel\n", "Notiz: (empty)", "[Abbrechen]"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in\n%s", fragment, text)
		}
	}
	if resp.Title != "Article" {
		t.Fatalf("response title mutated: %q", resp.Title)
	}
}

func TestRenderNilResponse(t *testing.T) {
	if _, err := newRenderer(t, &scriptedDriver{}).Render(context.Background(), nil, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for nil response")
	}
}

func TestRunSavesAcrossPages(t *testing.T) {
	var saved widgets.Values
	d := testsupport.NewArticleDialog(t, dialog.WithSaveHandler(func(_ context.Context, object any) error {
		saved, _ = object.(widgets.Values)
		return nil
	}))

	driver := &scriptedDriver{answers: []any{
		// page1
		"Hello", "Continue",
		// page2: keyword and note start as placeholders
		"Add: Keyword",
		// keyword.0 is now editable
		"go", "OK",
	}}

	resp, err := newRenderer(t, driver).Run(context.Background(), d, "s1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Outcome != dialog.OutcomeSave {
		t.Fatalf("expected save outcome, got %q", resp.Outcome)
	}
	if driver.pos != len(driver.answers) {
		t.Fatalf("expected every answer consumed, used %d of %d", driver.pos, len(driver.answers))
	}

	if got, _ := saved.Get("title", 0); got != "Hello" {
		t.Fatalf("expected title Hello, got %q", got)
	}
	if got, _ := saved.Get("keyword", 0); got != "go" {
		t.Fatalf("expected keyword go, got %q", got)
	}

	wantOptions := []string{"OK", "Back", "Cancel", "Add: Keyword", "Add: Note"}
	if diff := cmp.Diff(wantOptions, driver.options[1]); diff != "" {
		t.Fatalf("page2 choices mismatch (-want +got):\n%s", diff)
	}
	wantLast := []string{"OK", "Back", "Cancel", "Add: Keyword", "Remove: Keyword", "Add: Note"}
	if diff := cmp.Diff(wantLast, driver.options[2]); diff != "" {
		t.Fatalf("keyword choices mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infos) != 3 || !strings.Contains(driver.infos[1], "== Keywords (2/2) ==") {
		t.Fatalf("unexpected summaries: %q", driver.infos)
	}
}

func TestRunShowsValidationErrorsThenCancels(t *testing.T) {
	d := testsupport.NewArticleDialog(t)
	driver := &scriptedDriver{answers: []any{
		"", "Continue",
		"Hello", "Cancel",
	}}

	resp, err := newRenderer(t, driver).Run(context.Background(), d, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Outcome != dialog.OutcomeCancel {
		t.Fatalf("expected cancel outcome, got %q", resp.Outcome)
	}
	if len(driver.infos) != 2 {
		t.Fatalf("expected two summaries, got %d", len(driver.infos))
	}
	second := driver.infos[1]
	if !strings.Contains(second, "! Please correct the errors below.") {
		t.Fatalf("expected error header in\n%s", second)
	}
	if !strings.Contains(second, "== Content (1/2) ==") {
		t.Fatalf("expected to stay on the first page\n%s", second)
	}
	if !strings.Contains(second, "Title: \n  Shown in listings.\n  ! ") {
		t.Fatalf("expected an error under the title row\n%s", second)
	}
}

func TestRunStopsAfterMaxRounds(t *testing.T) {
	d := testsupport.NewArticleDialog(t)
	driver := &scriptedDriver{answers: []any{"Hello", "Add: Note", "Hello", "memo", "Continue"}}

	_, err := newRenderer(t, driver, tui.WithMaxRounds(2)).Run(context.Background(), d, "s1")
	if !errors.Is(err, tui.ErrTooManyRounds) {
		t.Fatalf("expected ErrTooManyRounds, got %v", err)
	}
}

func TestRunPropagatesDriverErrors(t *testing.T) {
	d := testsupport.NewArticleDialog(t)
	_, err := newRenderer(t, &scriptedDriver{}).Run(context.Background(), d, "s1")
	if err == nil || !strings.Contains(err.Error(), "no answer scripted") {
		t.Fatalf("expected script exhaustion error, got %v", err)
	}
}

func TestRunRejectsInvalidChoice(t *testing.T) {
	d := testsupport.NewArticleDialog(t)
	driver := &scriptedDriver{answers: []any{"Hello", 42}}
	_, err := newRenderer(t, driver).Run(context.Background(), d, "s1")
	if !errors.Is(err, tui.ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
}
