package dialog

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/session"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

func newArticleDialog(t *testing.T, opts ...Option) (*Dialog, *session.MemoryStore) {
	t.Helper()
	objects := session.NewMemoryStore()
	base := []Option{
		WithDialogType("article"),
		WithTitle("Article"),
		WithPages(model.Page{ID: "page1", Title: "Content"}, model.Page{ID: "page2", Title: "Keywords"}),
		WithObjectStore(objects),
	}
	return New(articleRegistry(t), append(base, opts...)...), objects
}

func TestDialogFirstDisplay(t *testing.T) {
	d, objects := newArticleDialog(t)
	resp, err := d.Handle(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Outcome != OutcomeDefault || resp.Page != "page1" || resp.PageTitle != "Content" {
		t.Fatalf("unexpected response %q %q %q", resp.Outcome, resp.Page, resp.PageTitle)
	}
	if diff := cmp.Diff([]string{"continue", "cancel"}, buttonIDs(resp.Buttons)); diff != "" {
		t.Fatalf("buttons mismatch (-want +got):\n%s", diff)
	}
	var fields []string
	for _, row := range resp.Rows {
		fields = append(fields, row.ID)
	}
	if diff := cmp.Diff([]string{"title.0", "note.0"}, fields); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if resp.HasErrors() {
		t.Fatalf("first display must not show errors")
	}
	if objects.Len() != 1 {
		t.Fatalf("expected dialog object to be stored")
	}
}

func TestDialogMultiPageSave(t *testing.T) {
	var saved widgets.Values
	d, objects := newArticleDialog(t, WithSaveHandler(func(_ context.Context, object any) error {
		saved = object.(widgets.Values).Clone()
		return nil
	}))
	ctx := context.Background()

	resp, err := d.Handle(ctx, "s1", params("action", "continue", "page", "page1", "title.0", "Hello"))
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if resp.Page != "page2" {
		t.Fatalf("expected page2, got %q", resp.Page)
	}
	if diff := cmp.Diff([]HiddenField{{Name: "hidden.title.0", Value: "Hello"}}, resp.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}

	resp, err = d.Handle(ctx, "s1", params("action", "save", "page", "page2", "hidden.title.0", "Hello", "keyword.0", "go"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Outcome != OutcomeSave || !resp.Closed() {
		t.Fatalf("expected SAVE, got %q", resp.Outcome)
	}
	want := widgets.Values{"title": {"Hello"}, "keyword": {"go"}}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Fatalf("saved object mismatch (-want +got):\n%s", diff)
	}
	if objects.Len() != 0 {
		t.Fatalf("saving must clear the dialog object")
	}
}

func TestDialogSaveHandlerFailureKeepsDialogOpen(t *testing.T) {
	d, objects := newArticleDialog(t, WithSaveHandler(func(context.Context, any) error {
		return errors.New("repository unavailable")
	}))
	resp, err := d.Handle(context.Background(), "s1", params("action", "save", "page", "page1", "title.0", "Hello"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Outcome != OutcomeDefault || len(resp.OtherErrors) != 1 {
		t.Fatalf("expected DEFAULT with one other error, got %q %v", resp.Outcome, resp.OtherErrors)
	}
	if !HasCode(resp.OtherErrors[0], ErrCodeSaveFailed) {
		t.Fatalf("expected %s, got %v", ErrCodeSaveFailed, resp.OtherErrors[0])
	}
	if diff := cmp.Diff([]string{"save failed", "repository unavailable"}, resp.OtherMessages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if objects.Len() != 1 {
		t.Fatalf("dialog object must be kept after a failed save")
	}
}

func TestDialogValidationErrorsRedisplay(t *testing.T) {
	d, _ := newArticleDialog(t)
	resp, err := d.Handle(context.Background(), "s1", params("action", "continue", "page", "page1", "title.0", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Page != "page1" || len(resp.ValidationErrors) != 1 || !resp.HasErrors() {
		t.Fatalf("expected redisplay of page1 with one error, got %q %v", resp.Page, resp.ValidationErrors)
	}
	if len(resp.Rows[0].Errors) == 0 {
		t.Fatalf("expected error messages on the title row")
	}
}

func TestDialogCancelClearsObject(t *testing.T) {
	d, objects := newArticleDialog(t)
	ctx := context.Background()
	if _, err := d.Handle(ctx, "s1", nil); err != nil {
		t.Fatalf("display: %v", err)
	}
	if _, err := d.Handle(ctx, "s2", nil); err != nil {
		t.Fatalf("display: %v", err)
	}
	resp, err := d.Handle(ctx, "s1", params("action", "cancel"))
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if resp.Outcome != OutcomeCancel {
		t.Fatalf("expected CANCEL, got %q", resp.Outcome)
	}
	if _, ok, _ := d.Object(ctx, "s1"); ok {
		t.Fatalf("cancel must clear the dialog object")
	}
	if objects.Len() != 1 {
		t.Fatalf("other sessions must keep their objects")
	}
}

func TestDialogCollectionBaseRestoredFromObject(t *testing.T) {
	d, _ := newArticleDialog(t)
	ctx := context.Background()

	if _, err := d.Handle(ctx, "s1", params("action", "continue", "page", "page1", "title.0", "Hello")); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if _, err := d.Handle(ctx, "s1", params("action", "back", "page", "page2", "hidden.title.0", "Hello", "keyword.0", "go", "keyword.1", "sql")); err != nil {
		t.Fatalf("back: %v", err)
	}
	resp, err := d.Handle(ctx, "s1", params("action", "continue", "page", "page1", "title.0", "Hello"))
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	var values []string
	for _, row := range resp.Rows {
		if row.Field == "keyword" {
			values = append(values, row.Value)
		}
	}
	if diff := cmp.Diff([]string{"go", "sql"}, values); diff != "" {
		t.Fatalf("keyword rows mismatch (-want +got):\n%s", diff)
	}
}

// browserPost submits the way an HTML form does: every hidden field of the
// previous response plus the visible inputs, with unchecked boxes omitted.
func browserPost(resp *Response, action string, visible ...string) url.Values {
	values := HiddenValues(resp.Hidden)
	values.Set(ParamAction, action)
	values.Set(ParamPage, resp.Page)
	for i := 0; i+1 < len(visible); i += 2 {
		values.Set(visible[i], visible[i+1])
	}
	return values
}

func newFlagDialog(t *testing.T, flag model.Definition, opts ...Option) *Dialog {
	t.Helper()
	reg := NewRegistry()
	defs := []model.Definition{
		{Name: "title", Page: "page1", MinOccurs: 1, MaxOccurs: 1},
		flag,
		{Name: "keyword", Page: "page2", MaxOccurs: 1},
	}
	for _, def := range defs {
		reg.MustDefine(def, valuesBinding(t, def))
	}
	base := []Option{
		WithDialogType("flags"),
		WithPages(model.Page{ID: "page1"}, model.Page{ID: "page2"}),
		WithObjectStore(session.NewMemoryStore()),
	}
	return New(reg, append(base, opts...)...)
}

func TestDialogPagelessCheckboxCanBeClearedOnLaterPage(t *testing.T) {
	var saved widgets.Values
	d := newFlagDialog(t,
		model.Definition{Name: "flag", Kind: model.FieldKindBoolean, MaxOccurs: 1},
		WithSaveHandler(func(_ context.Context, object any) error {
			saved = object.(widgets.Values).Clone()
			return nil
		}),
	)
	ctx := context.Background()

	resp, err := d.Handle(ctx, "s1", nil)
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	resp, err = d.Handle(ctx, "s1", browserPost(resp, "continue", "title.0", "t", "flag.0", "true"))
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if resp.Page != "page2" {
		t.Fatalf("expected page2, got %q", resp.Page)
	}
	if diff := cmp.Diff([]HiddenField{{Name: "hidden.title.0", Value: "t"}}, resp.Hidden); diff != "" {
		t.Fatalf("fields shown on every page must not be hidden (-want +got):\n%s", diff)
	}

	resp, err = d.Handle(ctx, "s1", browserPost(resp, "save"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Outcome != OutcomeSave {
		t.Fatalf("expected SAVE, got %q", resp.Outcome)
	}
	if diff := cmp.Diff(widgets.Values{"title": {"t"}}, saved); diff != "" {
		t.Fatalf("saved object mismatch (-want +got):\n%s", diff)
	}
}

func TestDialogRequiredCheckboxCanBeClearedAfterBack(t *testing.T) {
	var saved widgets.Values
	d := newFlagDialog(t,
		model.Definition{Name: "flag", Page: "page1", Kind: model.FieldKindBoolean, MinOccurs: 1, MaxOccurs: 1},
		WithSaveHandler(func(_ context.Context, object any) error {
			saved = object.(widgets.Values).Clone()
			return nil
		}),
	)
	ctx := context.Background()

	resp, err := d.Handle(ctx, "s1", nil)
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	resp, err = d.Handle(ctx, "s1", browserPost(resp, "continue", "title.0", "t", "flag.0", "true"))
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	resp, err = d.Handle(ctx, "s1", browserPost(resp, "back", "keyword.0", "k"))
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if resp.Page != "page1" {
		t.Fatalf("expected page1, got %q", resp.Page)
	}
	for _, row := range resp.Rows {
		if row.Field == "flag" && row.Value != "true" {
			t.Fatalf("expected flag to be redisplayed checked, got %q", row.Value)
		}
	}

	resp, err = d.Handle(ctx, "s1", browserPost(resp, "continue", "title.0", "t"))
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if resp.Page != "page2" {
		t.Fatalf("expected page2, got %q", resp.Page)
	}
	if diff := cmp.Diff([]HiddenField{{Name: "hidden.title.0", Value: "t"}}, resp.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}

	resp, err = d.Handle(ctx, "s1", browserPost(resp, "save", "keyword.0", "k"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Outcome != OutcomeSave {
		t.Fatalf("expected SAVE, got %q", resp.Outcome)
	}
	if got, _ := saved.Get("flag", 0); got != "" {
		t.Fatalf("expected flag to be cleared, got %q", got)
	}
	if got, _ := saved.Get("keyword", 0); got != "k" {
		t.Fatalf("expected keyword k, got %q", got)
	}
}

func TestDialogFailedCommitKeepsStoredObject(t *testing.T) {
	d, _ := newArticleDialog(t)
	ctx := context.Background()

	if _, err := d.Handle(ctx, "s1", params("action", "continue", "page", "page1", "title.0", "Hello")); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if _, err := d.Handle(ctx, "s1", params("action", "back", "page", "page2", "hidden.title.0", "Hello")); err != nil {
		t.Fatalf("back: %v", err)
	}
	resp, err := d.Handle(ctx, "s1", params("action", "continue", "page", "page1", "title.0", ""))
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if len(resp.ValidationErrors) != 1 {
		t.Fatalf("expected one validation error, got %v", resp.ValidationErrors)
	}

	object, ok, err := d.Object(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("expected stored object: %v", err)
	}
	if diff := cmp.Diff(widgets.Values{"title": {"Hello"}}, object); diff != "" {
		t.Fatalf("stored object mismatch (-want +got):\n%s", diff)
	}
}

func TestDialogResetFailureIsReportedAsOtherError(t *testing.T) {
	reg := NewRegistry()
	reg.MustDefine(model.Definition{Name: "tags", MaxOccurs: 2}, &resettingField{resetErr: errRejected})
	d := New(reg, WithObjectStore(session.NewMemoryStore()))

	resp, err := d.Handle(context.Background(), "s1", params("action", "save", "tags.0", "a"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Outcome != OutcomeDefault {
		t.Fatalf("a failed reset must keep the dialog open, got %q", resp.Outcome)
	}
	if len(resp.ValidationErrors) != 0 || len(resp.OtherErrors) != 1 {
		t.Fatalf("expected one other error, got %v / %v", resp.ValidationErrors, resp.OtherErrors)
	}
	if !HasCode(resp.OtherErrors[0], ErrCodeCommitFailed) {
		t.Fatalf("expected %s, got %v", ErrCodeCommitFailed, resp.OtherErrors[0])
	}
}

func TestDialogRejectsMisuse(t *testing.T) {
	d, _ := newArticleDialog(t)
	_, err := d.Handle(context.Background(), "s1", params("action", "back", "page", "page1", "title.0", "x"))
	if !HasCode(err, ErrCodePageOutOfRange) {
		t.Fatalf("expected %s, got %v", ErrCodePageOutOfRange, err)
	}
}

func TestFromModel(t *testing.T) {
	m := model.DialogModel{
		Type:   "contact",
		Title:  "Contact",
		Fields: []model.Definition{{Name: "email", MinOccurs: 1, MaxOccurs: 1}},
	}
	d, err := FromModel(m, nil)
	if err != nil {
		t.Fatalf("from model: %v", err)
	}
	if d.Type() != "contact" || d.Title() != "Contact" || len(d.Pages()) != 0 {
		t.Fatalf("unexpected dialog %q %q %v", d.Type(), d.Title(), d.Pages())
	}
	resp, err := d.Handle(context.Background(), "s1", params("action", "save", "email.0", "a@b.c"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Outcome != OutcomeSave || len(resp.Hidden) != 0 {
		t.Fatalf("expected SAVE without hidden fields, got %q %v", resp.Outcome, resp.Hidden)
	}
}
