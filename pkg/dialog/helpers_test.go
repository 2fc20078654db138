package dialog

import (
	"errors"
	"net/url"
	"testing"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// stubField is a Field with scripted commit behaviour.
type stubField struct {
	stored    map[int]string
	fail      map[string]error
	panicOn   string
	committed []string
}

func (s *stubField) Render(def model.Definition, occ widgets.Occurrence) widgets.Fragment {
	return widgets.Fragment{Widget: "stub", Name: occ.ID, Value: occ.Value, Disabled: occ.Disabled}
}

func (s *stubField) Commit(def model.Definition, occ widgets.Occurrence, target any) error {
	if s.panicOn != "" && occ.Value == s.panicOn {
		panic("boom")
	}
	if err, ok := s.fail[occ.Value]; ok {
		return err
	}
	s.committed = append(s.committed, occ.ID+"="+occ.Value)
	return nil
}

func (s *stubField) Value(_ any, index int) (string, bool) {
	value, ok := s.stored[index]
	return value, ok
}

var errRejected = errors.New("rejected")

func valuesBinding(t *testing.T, def model.Definition) Field {
	t.Helper()
	binding, err := widgets.NewRegistry().Bind(def, widgets.FieldAccessor(def.Name))
	if err != nil {
		t.Fatalf("bind %s: %v", def.Name, err)
	}
	return binding
}

// articleRegistry declares a two page dialog: title on page1, keywords on
// page2 and a page-less note.
func articleRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	defs := []model.Definition{
		{
			Name: "title", Page: "page1", MinOccurs: 1, MaxOccurs: 1,
			Validations: []model.ValidationRule{{Kind: model.ValidationRuleRequired}},
		},
		{Name: "keyword", Page: "page2", MinOccurs: 0, MaxOccurs: 3, CollectionBase: true},
		{Name: "note", MinOccurs: 0, MaxOccurs: 1},
	}
	for _, def := range defs {
		if err := reg.Define(def, valuesBinding(t, def)); err != nil {
			t.Fatalf("define %s: %v", def.Name, err)
		}
	}
	return reg
}

func params(pairs ...string) url.Values {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		values.Add(pairs[i], pairs[i+1])
	}
	return values
}

func indices(seq []*Instance) []int {
	out := make([]int, 0, len(seq))
	for _, inst := range seq {
		out = append(out, inst.Index())
	}
	return out
}

func instValues(seq []*Instance) []string {
	out := make([]string, 0, len(seq))
	for _, inst := range seq {
		out = append(out, inst.Value)
	}
	return out
}

// resettingField is a stubField whose reset step fails or panics.
type resettingField struct {
	stubField
	resetErr    error
	resetPanics bool
}

func (f *resettingField) Prepare(any) error {
	if f.resetPanics {
		panic("reset")
	}
	return f.resetErr
}
