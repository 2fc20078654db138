// Package orchestrator wires the definition sources (definition documents or
// OpenAPI operations), the widget registry, dialog construction and rendering
// behind a single entry point.
package orchestrator
