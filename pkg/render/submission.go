package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/dialog"
)

// HiddenField is re-exported so callers can build extra hidden inputs without
// importing the dialog package.
type HiddenField = dialog.HiddenField

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend ("_csrf", "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// MergeHiddenFields appends extras to base. Empty names are dropped and a
// later field replaces an earlier one with the same name in place, so the
// first-seen order is kept.
func MergeHiddenFields(base []HiddenField, extras ...HiddenField) []HiddenField {
	if len(base) == 0 && len(extras) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(base)+len(extras))
	index := make(map[string]int, len(base)+len(extras))
	add := func(field HiddenField) {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return
		}
		field.Name = name
		if i, ok := index[name]; ok {
			out[i] = field
			return
		}
		index[name] = len(out)
		out = append(out, field)
	}
	for _, field := range base {
		add(field)
	}
	for _, field := range extras {
		add(field)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ControlFields returns the inputs every dialog form posts. Only the page is
// carried in the body; add and remove controls pass the element through their
// form action (see ElementAction) so it cannot be shadowed by a body value.
func ControlFields(resp *dialog.Response) []HiddenField {
	if resp == nil || resp.Page == "" {
		return nil
	}
	return []HiddenField{{Name: dialog.ParamPage, Value: resp.Page}}
}

// ElementAction returns action with the element name and index of an
// add/remove control appended to its query string.
func ElementAction(action, field string, index int) string {
	query := url.Values{}
	query.Set(dialog.ParamElementName, field)
	query.Set(dialog.ParamElementIndex, strconv.Itoa(index))
	sep := "?"
	if strings.Contains(action, "?") {
		sep = "&"
	}
	return action + sep + query.Encode()
}
