package dialog

import (
	"net/url"
	"strconv"
	"strings"
)

// Request parameter names.
const (
	ParamAction       = "action"
	ParamPage         = "page"
	ParamElementIndex = "elementindex"
	ParamElementName  = "elementname"

	// HiddenPrefix marks URL-encoded values carried over from other pages.
	HiddenPrefix = "hidden."

	// UndefinedElement is the element name used when a request omits it.
	UndefinedElement = "undefined"
)

// Action is the decoded action token of a request.
type Action int

const (
	ActionNone Action = iota
	ActionSave
	ActionOK
	ActionCancel
	ActionAddElement
	ActionRemoveElement
	ActionBack
	ActionContinue
)

var actionTokens = map[string]Action{
	"save":          ActionSave,
	"ok":            ActionOK,
	"cancel":        ActionCancel,
	"addelement":    ActionAddElement,
	"removeelement": ActionRemoveElement,
	"back":          ActionBack,
	"continue":      ActionContinue,
}

// ParseAction decodes an action token. Tokens are matched exactly and are
// case-sensitive; anything else is ActionNone.
func ParseAction(token string) Action {
	if action, ok := actionTokens[token]; ok {
		return action
	}
	return ActionNone
}

// String returns the wire token of the action.
func (a Action) String() string {
	for token, action := range actionTokens {
		if action == a {
			return token
		}
	}
	return ""
}

// Outcome is the result of dispatching an action.
type Outcome string

const (
	OutcomeDefault       Outcome = "default"
	OutcomeSave          Outcome = "save"
	OutcomeCancel        Outcome = "cancel"
	OutcomeElementAdd    Outcome = "element_add"
	OutcomeElementRemove Outcome = "element_remove"
)

// Request is the navigation state decoded from request parameters.
type Request struct {
	Action       Action
	Page         string
	ElementName  string
	ElementIndex int
}

// ParseRequest extracts the action, page and element parameters. A malformed
// element index becomes 0 and a missing element name becomes "undefined".
func ParseRequest(params url.Values) Request {
	req := Request{
		Action:      ParseAction(params.Get(ParamAction)),
		Page:        strings.TrimSpace(params.Get(ParamPage)),
		ElementName: params.Get(ParamElementName),
	}
	if req.ElementName == "" {
		req.ElementName = UndefinedElement
	}
	if index, err := strconv.Atoi(strings.TrimSpace(params.Get(ParamElementIndex))); err == nil {
		req.ElementIndex = index
	}
	return req
}

// HasAction reports whether the request carries a recognised action token.
func (r Request) HasAction() bool {
	return r.Action != ActionNone
}
