package vanilla

// ChromeClass is a typed identifier for the semantic CSS classes of the
// dialog chrome.
type ChromeClass string

const (
	ClassForm    ChromeClass = "form"
	ClassHeader  ChromeClass = "header"
	ClassSteps   ChromeClass = "steps"
	ClassErrors  ChromeClass = "errors"
	ClassFields  ChromeClass = "fields"
	ClassRow     ChromeClass = "row"
	ClassHelp    ChromeClass = "help"
	ClassActions ChromeClass = "actions"
)

var defaultClasses = map[ChromeClass]string{
	ClassForm:    "formdialog-form",
	ClassHeader:  "formdialog-header",
	ClassSteps:   "formdialog-steps",
	ClassErrors:  "formdialog-errors",
	ClassFields:  "formdialog-fields",
	ClassRow:     "formdialog-row",
	ClassHelp:    "formdialog-help",
	ClassActions: "formdialog-actions",
}

// classNames merges overrides over the defaults. Blank overrides are ignored.
func classNames(overrides map[ChromeClass]string) map[ChromeClass]string {
	out := make(map[ChromeClass]string, len(defaultClasses))
	for key, value := range defaultClasses {
		out[key] = value
	}
	for key, value := range overrides {
		if cleaned := sanitizeClassList(value); cleaned != "" {
			out[key] = cleaned
		}
	}
	return out
}

func classContext(classes map[ChromeClass]string) map[string]any {
	out := make(map[string]any, len(classes))
	for key, value := range classes {
		out[string(key)] = value
	}
	return out
}
