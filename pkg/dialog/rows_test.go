package dialog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/model"
)

func TestRowsPlaceholderForEmptyOptionalField(t *testing.T) {
	reg := NewRegistry()
	reg.MustDefine(model.Definition{Name: "keyword", Help: "Search terms", MaxOccurs: 3}, &stubField{})
	store := NewStore(reg)
	store.Rebuild(nil, Request{}, nil)

	rows := store.Rows("")
	if len(rows) != 1 {
		t.Fatalf("expected one placeholder row, got %d", len(rows))
	}
	row := rows[0]
	if !row.Disabled || row.Index != 0 || row.ID != "keyword.0" {
		t.Fatalf("unexpected placeholder %+v", row)
	}
	if !row.CanAdd || row.CanRemove {
		t.Fatalf("placeholder must offer add only, got add=%v remove=%v", row.CanAdd, row.CanRemove)
	}
	if !row.Fragment.Disabled {
		t.Fatalf("placeholder fragment must be disabled")
	}
}

func TestRowsLabelsHelpAndAffordances(t *testing.T) {
	reg := NewRegistry()
	reg.MustDefine(model.Definition{Name: "keyword", Help: "Search terms", MinOccurs: 1, MaxOccurs: 3}, &stubField{})
	reg.MustDefine(model.Definition{Name: "title", Label: "Headline", Page: "other", MinOccurs: 1, MaxOccurs: 1}, &stubField{})
	store := NewStore(reg)
	store.Rebuild(params("keyword.0", "a", "keyword.1", "b"), Request{}, nil)

	type view struct {
		Label     string
		Help      string
		CanAdd    bool
		CanRemove bool
	}
	var got []view
	for _, row := range store.Rows("main") {
		got = append(got, view{row.Label, row.Help, row.CanAdd, row.CanRemove})
	}
	want := []view{
		{"Keyword [1]", "Search terms", true, true},
		{"Keyword [2]", "", true, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	_ = store.Add("keyword", 1)
	rows := store.Rows("main")
	if rows[2].CanAdd {
		t.Fatalf("add must be hidden at maxOccurs")
	}

	var single []Row
	for _, row := range store.Rows("other") {
		if row.Field == "title" {
			single = append(single, row)
		}
	}
	if len(single) != 1 || single[0].Label != "Headline" || single[0].CanRemove || single[0].CanAdd {
		t.Fatalf("unexpected single row %+v", single)
	}
}

func TestRowsCarryErrorChain(t *testing.T) {
	reg := NewRegistry()
	cause := errors.New("too short")
	reg.MustDefine(model.Definition{Name: "title", MinOccurs: 1, MaxOccurs: 1},
		&stubField{fail: map[string]error{"x": errors.Join(errors.New("title invalid"), cause)}})
	store := NewStore(reg)
	store.Rebuild(params("title.0", "x"), Request{}, nil)
	store.Commit("", nil)

	rows := store.Rows("")
	if len(rows[0].Errors) == 0 {
		t.Fatalf("expected row errors")
	}
}

func TestIncludesAreUnique(t *testing.T) {
	reg := NewRegistry()
	reg.MustDefine(model.Definition{Name: "a", MinOccurs: 2, MaxOccurs: 2}, &stubField{})
	reg.MustDefine(model.Definition{Name: "b", MinOccurs: 1, MaxOccurs: 1}, &stubField{})
	store := NewStore(reg)
	store.Rebuild(nil, Request{}, nil)

	if diff := cmp.Diff([]string{"stub"}, store.Includes("")); diff != "" {
		t.Fatalf("includes mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorMessagesWalksChain(t *testing.T) {
	inner := errors.New("must be at least 3 characters")
	err := &ValidationError{Field: "title", Err: wrap("Title is invalid", inner)}
	if diff := cmp.Diff([]string{"Title is invalid", "must be at least 3 characters"}, err.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

type wrapped struct {
	msg   string
	cause error
}

func (w wrapped) Error() string { return w.msg }
func (w wrapped) Unwrap() error { return w.cause }

func wrap(msg string, cause error) error { return wrapped{msg: msg, cause: cause} }
