package dialog

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

func TestParseAction(t *testing.T) {
	cases := map[string]Action{
		"save":          ActionSave,
		"ok":            ActionOK,
		"cancel":        ActionCancel,
		"addelement":    ActionAddElement,
		"removeelement": ActionRemoveElement,
		"back":          ActionBack,
		"continue":      ActionContinue,
		"":              ActionNone,
		"Save":          ActionNone,
		"CONTINUE":      ActionNone,
		" save":         ActionNone,
	}
	for token, want := range cases {
		if got := ParseAction(token); got != want {
			t.Errorf("ParseAction(%q) = %v, want %v", token, got, want)
		}
	}
	if ActionRemoveElement.String() != "removeelement" {
		t.Fatalf("unexpected token %q", ActionRemoveElement.String())
	}
}

func TestParseRequestDefaults(t *testing.T) {
	req := ParseRequest(params("action", "addelement", "elementindex", "x1"))
	want := Request{Action: ActionAddElement, ElementName: UndefinedElement, ElementIndex: 0}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}

	req = ParseRequest(params("page", "page2", "elementname", "keyword", "elementindex", "2"))
	want = Request{Page: "page2", ElementName: "keyword", ElementIndex: 2}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizePage(t *testing.T) {
	pages := []string{"page1", "page2"}
	if got := NormalizePage(pages, ""); got != "page1" {
		t.Fatalf("blank page should normalize to first, got %q", got)
	}
	if got := NormalizePage(pages, "bogus"); got != "page1" {
		t.Fatalf("unknown page should normalize to first, got %q", got)
	}
	if got := NormalizePage(pages, "page2"); got != "page2" {
		t.Fatalf("valid page should be kept, got %q", got)
	}
	if got := NormalizePage(nil, "page2"); got != "" {
		t.Fatalf("dialogs without pages normalize to blank, got %q", got)
	}
}

var twoPages = []string{"page1", "page2"}

func dispatch(t *testing.T, reg *Registry, pages []string, values url.Values, target any) (*Store, Result, error) {
	t.Helper()
	store := NewStore(reg)
	_, res, err := Dispatch(pages, values, store, target)
	return store, res, err
}

func TestTransitionContinueBlockedByErrors(t *testing.T) {
	reg := articleRegistry(t)
	_, res, err := dispatch(t, reg, twoPages, params("action", "continue", "page", "page1", "title.0", ""), widgets.Values{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Page != "page1" || res.Outcome != OutcomeDefault {
		t.Fatalf("expected to stay on page1 with DEFAULT, got %q %q", res.Page, res.Outcome)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected one validation error, got %d", len(res.Errors))
	}
}

func TestTransitionContinueAndBackMove(t *testing.T) {
	reg := articleRegistry(t)
	object := widgets.Values{}
	_, res, err := dispatch(t, reg, twoPages, params("action", "continue", "page", "page1", "title.0", "Hello"), object)
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if res.Page != "page2" || len(res.Errors) != 0 {
		t.Fatalf("expected page2 without errors, got %q %v", res.Page, res.Errors)
	}
	if got, _ := object.Get("title", 0); got != "Hello" {
		t.Fatalf("continue must commit the current page, got %q", got)
	}

	_, res, err = dispatch(t, reg, twoPages, params("action", "back", "page", "page2", "keyword.0", "go"), object)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if res.Page != "page1" || res.Outcome != OutcomeDefault {
		t.Fatalf("expected page1 DEFAULT, got %q %q", res.Page, res.Outcome)
	}
}

func TestTransitionPageBoundaries(t *testing.T) {
	reg := articleRegistry(t)
	_, _, err := dispatch(t, reg, twoPages, params("action", "back", "page", "page1", "title.0", "x"), widgets.Values{})
	if !HasCode(err, ErrCodePageOutOfRange) {
		t.Fatalf("expected %s on back from first page, got %v", ErrCodePageOutOfRange, err)
	}
	_, _, err = dispatch(t, reg, twoPages, params("action", "continue", "page", "page2"), widgets.Values{})
	if !HasCode(err, ErrCodePageOutOfRange) {
		t.Fatalf("expected %s on continue from last page, got %v", ErrCodePageOutOfRange, err)
	}
}

func TestTransitionSave(t *testing.T) {
	reg := articleRegistry(t)

	_, res, err := dispatch(t, reg, twoPages, params("action", "save", "page", "page2", "hidden.title.0", "Hello"), widgets.Values{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Outcome != OutcomeSave || len(res.Errors) != 0 {
		t.Fatalf("expected SAVE without errors, got %q %v", res.Outcome, res.Errors)
	}

	_, res, err = dispatch(t, reg, twoPages, params("action", "save", "page", "page2"), widgets.Values{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Outcome != OutcomeDefault || len(res.Errors) != 1 {
		t.Fatalf("expected DEFAULT with one error, got %q %v", res.Outcome, res.Errors)
	}
	if res.Page != "page2" {
		t.Fatalf("failed save must redisplay the current page, got %q", res.Page)
	}
}

func TestTransitionCancelAndOK(t *testing.T) {
	reg := articleRegistry(t)
	for _, token := range []string{"cancel", "ok"} {
		_, res, err := dispatch(t, reg, twoPages, params("action", token), widgets.Values{})
		if err != nil {
			t.Fatalf("%s: %v", token, err)
		}
		if res.Outcome != OutcomeCancel {
			t.Fatalf("%s: expected CANCEL, got %q", token, res.Outcome)
		}
	}
}

func TestTransitionAddRemoveElement(t *testing.T) {
	reg := articleRegistry(t)
	store, res, err := dispatch(t, reg, twoPages, params(
		"action", "addelement", "page", "page2",
		"elementname", "keyword", "elementindex", "0",
		"keyword.0", "go",
	), widgets.Values{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if diff := cmp.Diff([]Outcome{OutcomeElementAdd, OutcomeDefault}, res.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"go", ""}, instValues(store.Instances("keyword"))); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	store, res, err = dispatch(t, reg, twoPages, params(
		"action", "removeelement", "page", "page2",
		"elementname", "keyword", "elementindex", "bogus",
		"keyword.0", "go", "keyword.1", "rust",
	), widgets.Values{})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if res.Outcome != OutcomeDefault {
		t.Fatalf("expected DEFAULT, got %q", res.Outcome)
	}
	if diff := cmp.Diff([]string{"rust"}, instValues(store.Instances("keyword"))); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	_, _, err = dispatch(t, reg, twoPages, params(
		"action", "removeelement", "page", "page2",
		"elementname", "keyword", "elementindex", "4",
	), widgets.Values{})
	if !HasCode(err, ErrCodeIndexOutOfRange) {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

func TestTransitionUnknownElementNameIsIgnored(t *testing.T) {
	reg := articleRegistry(t)
	store, res, err := dispatch(t, reg, twoPages, params("action", "addelement", "page", "page2"), widgets.Values{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if res.Outcome != OutcomeDefault {
		t.Fatalf("expected DEFAULT, got %q", res.Outcome)
	}
	for _, def := range reg.Definitions() {
		if store.Count(def.Name) != def.MinOccurs {
			t.Fatalf("field %s changed: %d instances", def.Name, store.Count(def.Name))
		}
	}
}

func TestTransitionDefaultWithoutAction(t *testing.T) {
	reg := articleRegistry(t)
	_, res, err := dispatch(t, reg, twoPages, params("action", "Save", "page", "nowhere"), widgets.Values{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Outcome != OutcomeDefault || res.Page != "page1" {
		t.Fatalf("expected DEFAULT on page1, got %q %q", res.Outcome, res.Page)
	}
}

func TestNavigationOnlyMovesWithoutErrors(t *testing.T) {
	reg := NewRegistry()
	failing := &stubField{fail: map[string]error{"bad": errRejected}}
	reg.MustDefine(model.Definition{Name: "a", Page: "p1", MaxOccurs: 2}, failing)
	reg.MustDefine(model.Definition{Name: "b", Page: "p2", MaxOccurs: 1}, failing)
	reg.MustDefine(model.Definition{Name: "c", Page: "p3", MaxOccurs: 1}, failing)
	pages := []string{"p1", "p2", "p3"}

	cases := []struct {
		page, action, value, want string
	}{
		{"p1", "continue", "ok", "p2"},
		{"p1", "continue", "bad", "p1"},
		{"p2", "continue", "ok", "p3"},
		{"p2", "back", "ok", "p1"},
		{"p2", "back", "bad", "p2"},
		{"p3", "back", "bad", "p3"},
	}
	for _, tc := range cases {
		field := map[string]string{"p1": "a.0", "p2": "b.0", "p3": "c.0"}[tc.page]
		_, res, err := dispatch(t, reg, pages, params("action", tc.action, "page", tc.page, field, tc.value), nil)
		if err != nil {
			t.Fatalf("%s from %s: %v", tc.action, tc.page, err)
		}
		if res.Page != tc.want {
			t.Fatalf("%s from %s with %q: expected %s, got %s", tc.action, tc.page, tc.value, tc.want, res.Page)
		}
	}
}
