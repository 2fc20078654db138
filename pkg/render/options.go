package render

// RenderOptions describe per-request data renderers use to customise their
// output without touching the dialog state.
type RenderOptions struct {
	// Action is the URL the dialog form posts back to. Empty posts to the
	// current URL.
	Action string
	// Hidden carries extra hidden inputs (CSRF tokens and similar) emitted
	// after the dialog's own carry-over fields.
	Hidden []HiddenField
	// Locale and Translator localise labels, page titles and button captions.
	// Missing translations fall back to the untranslated text unless
	// OnMissing says otherwise.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
