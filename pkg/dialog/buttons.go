package dialog

// Button is a dialog button bound to an action token.
type Button struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Label  string `json:"label"`
}

var (
	buttonOK       = Button{ID: "ok", Action: ActionSave.String(), Label: "OK"}
	buttonBack     = Button{ID: "back", Action: ActionBack.String(), Label: "Back"}
	buttonContinue = Button{ID: "continue", Action: ActionContinue.String(), Label: "Continue"}
	buttonCancel   = Button{ID: "cancel", Action: ActionCancel.String(), Label: "Cancel"}
)

// Buttons returns the buttons for current: OK and Cancel on single page
// dialogs, Continue on the first page, Back and Continue in between, and OK
// with Back on the last page. Cancel is always last.
func Buttons(pages []string, current string) []Button {
	if len(pages) <= 1 {
		return []Button{buttonOK, buttonCancel}
	}
	index := 0
	for i, page := range pages {
		if page == current {
			index = i
			break
		}
	}
	switch {
	case index == len(pages)-1:
		return []Button{buttonOK, buttonBack, buttonCancel}
	case index > 0:
		return []Button{buttonBack, buttonContinue, buttonCancel}
	default:
		return []Button{buttonContinue, buttonCancel}
	}
}
