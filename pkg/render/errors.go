package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/dialog"
)

// ErrorMapping splits the errors of a dialog response into occurrence-level
// messages keyed by occurrence id ("keyword.1") and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// HasErrors reports whether any message was mapped.
func (m ErrorMapping) HasErrors() bool {
	return len(m.Fields) > 0 || len(m.Form) > 0
}

// MapResponseErrors flattens resp's validation and other errors. Validation
// errors that are not a *dialog.ValidationError land in Form so messages are
// never lost.
func MapResponseErrors(resp *dialog.Response) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if resp == nil {
		mapping.Fields = nil
		return mapping
	}

	for _, err := range resp.ValidationErrors {
		var verr *dialog.ValidationError
		if errors.As(err, &verr) {
			id := dialog.FieldID(verr.Field, verr.Index)
			mapping.Fields[id] = normalizeMessages(append(mapping.Fields[id], verr.Messages()...))
			continue
		}
		mapping.Form = append(mapping.Form, dialog.ErrorMessages(err)...)
	}
	mapping.Form = MergeFormErrors(mapping.Form, resp.OtherMessages()...)

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	return mapping
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
