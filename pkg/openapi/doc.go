// Package openapi turns OpenAPI request bodies into dialog models. Loaders
// fetch documents from files, fs.FS trees or HTTP; the parser (backed by
// kin-openapi) extracts operations; DialogFromOperation maps request body
// properties onto field definitions, with array properties becoming
// repeatable collection fields.
package openapi
