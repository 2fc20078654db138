package dialog

import (
	"fmt"
	"net/url"
)

// State is the page navigation state of a dialog request.
type State struct {
	Pages []string
	Page  string
}

// NormalizePage returns page when it is one of pages, otherwise the first
// page. Dialogs without pages always normalize to "".
func NormalizePage(pages []string, page string) string {
	if len(pages) == 0 {
		return ""
	}
	for _, candidate := range pages {
		if candidate == page {
			return page
		}
	}
	return pages[0]
}

// Result is the outcome of one transition. Steps records intermediate
// outcomes, such as ELEMENT_ADD before DEFAULT.
type Result struct {
	Outcome Outcome
	Page    string
	Steps   []Outcome
	Errors  []error
}

// Transition applies the request action to state. Add and remove actions
// mutate store; save, back and continue commit store into target. A page move
// only happens when the committed page produced no errors.
//
// The only returned errors are caller misuse: an element index outside the
// sequence, or a BACK/CONTINUE past the first or last page.
func Transition(state State, req Request, store *Store, target any) (Result, error) {
	page := NormalizePage(state.Pages, state.Page)
	res := Result{Outcome: OutcomeDefault, Page: page}

	switch req.Action {
	case ActionSave:
		res.Errors = store.Commit("", target)
		if len(res.Errors) == 0 {
			res.Outcome = OutcomeSave
		}
	case ActionOK, ActionCancel:
		res.Outcome = OutcomeCancel
	case ActionAddElement:
		res.Steps = append(res.Steps, OutcomeElementAdd)
		if err := store.Add(req.ElementName, req.ElementIndex); err != nil {
			return res, err
		}
	case ActionRemoveElement:
		res.Steps = append(res.Steps, OutcomeElementRemove)
		if err := store.Remove(req.ElementName, req.ElementIndex); err != nil {
			return res, err
		}
	case ActionBack, ActionContinue:
		res.Errors = store.Commit(page, target)
		if len(res.Errors) > 0 {
			break
		}
		step := 1
		if req.Action == ActionBack {
			step = -1
		}
		next, err := movePage(state.Pages, page, step)
		if err != nil {
			return res, err
		}
		res.Page = next
	}

	res.Steps = append(res.Steps, res.Outcome)
	return res, nil
}

func movePage(pages []string, page string, step int) (string, error) {
	current := -1
	for i, candidate := range pages {
		if candidate == page {
			current = i
			break
		}
	}
	next := current + step
	if current < 0 || next < 0 || next >= len(pages) {
		return page, cloneError(ErrPageOutOfRange,
			fmt.Sprintf("cannot move from page %q by %d", page, step), nil,
			map[string]any{"page": page, "step": step, "pages": len(pages)})
	}
	return pages[next], nil
}

// Dispatch rebuilds store from params and applies the request action. It is
// the request-free core of Dialog.Handle.
func Dispatch(pages []string, params url.Values, store *Store, target any) (Request, Result, error) {
	req := ParseRequest(params)
	store.Rebuild(params, req, target)
	res, err := Transition(State{Pages: pages, Page: req.Page}, req, store, target)
	return req, res, err
}
