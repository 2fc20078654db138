// Package model defines the declarative dialog model: field definitions with
// occurrence bounds, the page each field belongs to, and the hints widgets use
// to render and validate occurrences. Definitions live in internal/model and
// are re-exported here so loaders, renderers and host applications share one
// set of types. Validation rules use canonical identifiers (required, min, max,
// minLength, maxLength, pattern) with string parameters so definition files
// stay deterministic when serialized.
package model
