package openapi

import (
	"fmt"
	"sort"
	"strings"
)

var (
	operationExtensionKeys = []string{"pages", "title", "type"}
	propertyExtensionKeys  = []string{"help", "label", "maxOccurs", "order", "page", "widget"}
)

// Violation is a single lint finding.
type Violation struct {
	Operation string
	Location  string
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s", v.Operation, v.Location, v.Message)
}

// Lint checks the x-formdialog extensions of every operation and that each
// operation carrying them converts into a valid dialog. Findings are sorted
// by operation then location.
func Lint(operations map[string]Operation, options ...DialogOption) []Violation {
	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result []Violation
	for _, id := range ids {
		op := operations[id]
		found := lintExtensions(id, []string{"operation"}, op.Extensions, operationExtensionKeys)
		found = append(found, lintSchema(id, []string{"requestBody"}, op.RequestBody)...)

		if hasExtensions(op) || len(found) > 0 {
			if _, err := DialogFromOperation(op, options...); err != nil {
				found = append(found, Violation{Operation: id, Location: "requestBody", Message: err.Error()})
			}
		}
		result = append(result, found...)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Operation != result[j].Operation {
			return result[i].Operation < result[j].Operation
		}
		return result[i].Location < result[j].Location
	})
	return result
}

func hasExtensions(op Operation) bool {
	if namespace(op.Extensions) != nil {
		return true
	}
	for _, property := range op.RequestBody.Properties {
		if namespace(property.Extensions) != nil {
			return true
		}
		for key := range property.Extensions {
			if strings.HasPrefix(key, ExtensionNamespace+"-") {
				return true
			}
		}
	}
	return false
}

func lintSchema(operation string, path []string, schema Schema) []Violation {
	keys := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Violation
	for _, key := range keys {
		next := appendPath(path, "properties."+key)
		result = append(result, lintExtensions(operation, next, schema.Properties[key].Extensions, propertyExtensionKeys)...)
	}
	return result
}

func lintExtensions(operation string, path []string, extensions map[string]any, allowed []string) []Violation {
	if len(extensions) == 0 {
		return nil
	}

	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Violation
	for _, key := range keys {
		value := extensions[key]
		switch {
		case key == ExtensionNamespace:
			nested, ok := value.(map[string]any)
			if !ok {
				result = append(result, Violation{
					Operation: operation,
					Location:  formatLocation(path),
					Message:   fmt.Sprintf("%s must be an object, found %T", ExtensionNamespace, value),
				})
				continue
			}
			nestedKeys := make([]string, 0, len(nested))
			for nestedKey := range nested {
				nestedKeys = append(nestedKeys, nestedKey)
			}
			sort.Strings(nestedKeys)
			for _, nestedKey := range nestedKeys {
				result = append(result, validateHint(operation, appendPath(path, nestedKey), nestedKey, nested[nestedKey], allowed)...)
			}
		case strings.HasPrefix(key, ExtensionNamespace+"-"):
			trimmed := strings.TrimPrefix(key, ExtensionNamespace+"-")
			result = append(result, validateHint(operation, appendPath(path, trimmed), trimmed, value, allowed)...)
		}
	}
	return result
}

func validateHint(operation string, path []string, key string, value any, allowed []string) []Violation {
	fail := func(format string, args ...any) []Violation {
		return []Violation{{Operation: operation, Location: formatLocation(path), Message: fmt.Sprintf(format, args...)}}
	}

	if key == "" {
		return fail("extension key is empty")
	}
	if !contains(allowed, key) {
		return fail("unsupported extension key %q (supported: %s)", key, strings.Join(allowed, ", "))
	}

	switch key {
	case "pages":
		items, ok := value.([]any)
		if !ok {
			return fail("pages must be a list, found %T", value)
		}
		if len(pagesFrom(items)) != len(items) {
			return fail("every page must be a string or an object with an id")
		}
	case "order", "maxOccurs":
		n, ok := intValue(value)
		if !ok {
			return fail("value for %q must be an integer (got %T)", key, value)
		}
		if key == "maxOccurs" && n < 1 {
			return fail("maxOccurs must be at least 1")
		}
	default:
		if _, ok := value.(string); !ok {
			return fail("value for %q must be a string (got %T)", key, value)
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
