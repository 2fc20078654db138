package widgets

import (
	"github.com/goliatone/go-formdialog/pkg/model"
)

// Binding pairs a widget with the accessor of one field. It is the
// capability a dialog registry stores per definition: it renders occurrences
// and commits them into the dialog object.
type Binding struct {
	widget   Widget
	accessor Accessor
}

// NewBinding pairs widget and accessor. A nil widget falls back to the text
// widget.
func NewBinding(widget Widget, accessor Accessor) *Binding {
	if widget == nil {
		widget = basicWidget{name: WidgetText, input: "text"}
	}
	return &Binding{widget: widget, accessor: accessor}
}

// Widget returns the bound widget.
func (b *Binding) Widget() Widget {
	return b.widget
}

// Render returns the presentational fragment of an occurrence.
func (b *Binding) Render(def model.Definition, occ Occurrence) Fragment {
	return b.widget.Render(def, occ)
}

// Value reads the occurrence at index from the dialog object.
func (b *Binding) Value(target any, index int) (string, bool) {
	if b.accessor == nil || target == nil {
		return "", false
	}
	return b.accessor.Value(target, index)
}

// Prepare resets the field on target when the accessor supports it.
func (b *Binding) Prepare(target any) error {
	if preparer, ok := b.accessor.(Preparer); ok && target != nil {
		return preparer.PrepareCommit(target)
	}
	return nil
}

// Commit validates the occurrence value and transfers it into target.
func (b *Binding) Commit(def model.Definition, occ Occurrence, target any) error {
	if err := Validate(def, occ.Value, b.widget.Rules(def)); err != nil {
		return err
	}
	if b.accessor == nil {
		return nil
	}
	return b.accessor.SetValue(target, occ.Index, occ.Value)
}
