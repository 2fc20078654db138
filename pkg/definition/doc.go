// Package definition loads dialog models from JSON or YAML documents. A
// document either describes one dialog at the top level (type, title, pages,
// fields) or several under a "dialogs" map keyed by dialog type.
package definition
