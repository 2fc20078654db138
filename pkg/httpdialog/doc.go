// Package httpdialog serves a dialog over net/http.
//
// Each GET or POST request is parsed into form parameters, tied to a session
// through a cookie, dispatched through the dialog state machine and rendered
// with a renderer from a render.Registry. The renderer is picked with the
// format query parameter and defaults to the registry default. Closed dialogs
// are rendered too unless a close redirect is configured.
package httpdialog
