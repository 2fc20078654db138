package dialog

import (
	"strconv"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// FieldID synthesizes the request parameter id of an occurrence.
func FieldID(name string, index int) string {
	return name + "." + strconv.Itoa(index)
}

// Instance is one live occurrence of a field definition.
type Instance struct {
	def   model.Definition
	id    string
	index int

	// Value is the raw string value; Present records whether it came from the
	// request or the dialog object rather than being a fresh slot.
	Value   string
	Present bool
	Err     error
}

func newInstance(def model.Definition, index int) *Instance {
	return &Instance{def: def, id: FieldID(def.Name, index), index: index}
}

// Definition returns the owning definition.
func (i *Instance) Definition() model.Definition { return i.def }

// Name returns the owning field name.
func (i *Instance) Name() string { return i.def.Name }

// Page returns the owning definition's page.
func (i *Instance) Page() string { return i.def.Page }

// Index returns the position within the field's sequence.
func (i *Instance) Index() int { return i.index }

// ID returns the id recorded when the instance was last indexed.
func (i *Instance) ID() string { return i.id }

// Valid reports whether the instance is still attached at its recorded
// position. Removed instances are detached and never valid again.
func (i *Instance) Valid() bool {
	return i != nil && i.id != "" && i.id == FieldID(i.def.Name, i.index)
}

func (i *Instance) setIndex(index int) {
	i.index = index
	i.id = FieldID(i.def.Name, index)
}

func (i *Instance) detach() {
	i.id = ""
}
