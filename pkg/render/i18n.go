package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/model"
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the text shown when key cannot be
// translated. fallback is the untranslated text, possibly empty.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Keys looked up by LocalizeResponse and the bundled renderers.
const (
	KeyErrorHeader = "dialog.errors.header"
	KeyAddElement  = "dialog.element.add"
	KeyRemove      = "dialog.element.remove"
)

func missingTranslationDefault(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

// Text translates key, falling back to fallback.
func (opts RenderOptions) Text(key, fallback string) string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if opts.Translator == nil {
		return onMissing(opts.Locale, key, fallback, ErrMissingTranslator)
	}
	msg, err := opts.Translator.Translate(opts.Locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(opts.Locale, key, fallback, err)
	}
	return msg
}

// LocalizeResponse rewrites the captions of resp in place. It looks up
// "dialog.<type>.title", "dialog.<type>.page.<id>", "dialog.<type>.field.<name>"
// and "dialog.button.<id>". Row labels keep their occurrence suffix. A nil
// Translator leaves resp untouched.
func LocalizeResponse(resp *dialog.Response, opts RenderOptions) {
	if resp == nil || opts.Translator == nil {
		return
	}
	prefix := "dialog." + resp.DialogType + "."

	resp.Title = opts.Text(prefix+"title", resp.Title)
	for i := range resp.Pages {
		page := &resp.Pages[i]
		page.Title = opts.Text(prefix+"page."+page.ID, page.Title)
		if page.ID == resp.Page {
			resp.PageTitle = page.Title
		}
	}

	labels := make(map[string]string)
	for i := range resp.Rows {
		row := &resp.Rows[i]
		base, ok := labels[row.Field]
		if !ok {
			base = opts.Text(prefix+"field."+row.Field, baseLabel(*row))
			labels[row.Field] = base
		}
		row.Label = model.IndexedLabel(base, row.Index, row.Count)
	}

	for i := range resp.Buttons {
		button := &resp.Buttons[i]
		button.Label = opts.Text("dialog.button."+button.ID, button.Label)
	}
}

// baseLabel strips the " [n]" suffix added for repeated occurrences.
func baseLabel(row dialog.Row) string {
	if row.Count <= 1 {
		return row.Label
	}
	if i := strings.LastIndex(row.Label, " ["); i > 0 {
		return row.Label[:i]
	}
	return row.Label
}
