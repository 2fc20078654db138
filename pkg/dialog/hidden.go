package dialog

import "net/url"

// HiddenField is a hidden form input carrying a value between pages.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EncodeHidden escapes a value for transport in a hidden field.
func EncodeHidden(value string) string {
	return url.QueryEscape(value)
}

// DecodeHidden reverses EncodeHidden. Malformed escapes are returned as-is.
func DecodeHidden(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}

// HiddenFields serializes every valid, non-empty instance as a hidden field,
// skipping instances that are visible on excludePage: those owned by it and
// those without a page, which show on every page. An empty excludePage skips
// nothing. Fields follow declaration then index order.
func (s *Store) HiddenFields(excludePage string) []HiddenField {
	var out []HiddenField
	for _, e := range s.reg.snapshot() {
		if excludePage != "" && e.def.OnPage(excludePage) {
			continue
		}
		for _, inst := range s.fields[e.def.Name] {
			if !inst.Valid() || inst.Value == "" {
				continue
			}
			out = append(out, HiddenField{
				Name:  HiddenPrefix + inst.ID(),
				Value: EncodeHidden(inst.Value),
			})
		}
	}
	return out
}

// HiddenValues returns the hidden fields as request parameters, as a browser
// would submit them.
func HiddenValues(fields []HiddenField) url.Values {
	values := make(url.Values, len(fields))
	for _, field := range fields {
		values.Add(field.Name, field.Value)
	}
	return values
}
