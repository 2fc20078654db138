package model

// Builder assembles a DialogModel by appending pages and field definitions in
// declaration order.
type Builder struct {
	model DialogModel
}

// NewBuilder starts a model for dialogType.
func NewBuilder(dialogType string) *Builder {
	return &Builder{model: DialogModel{Type: dialogType}}
}

// Title sets the dialog title.
func (b *Builder) Title(title string) *Builder {
	b.model.Title = title
	return b
}

// Page declares a page. Pages are presented in the order they are declared.
func (b *Builder) Page(id, title string) *Builder {
	b.model.Pages = append(b.model.Pages, Page{ID: id, Title: title})
	return b
}

// Field appends a definition.
func (b *Builder) Field(def Definition) *Builder {
	b.model.Fields = append(b.model.Fields, def)
	return b
}

// Build validates the accumulated model and returns a copy of it.
func (b *Builder) Build() (DialogModel, error) {
	out := b.model
	out.Pages = append([]Page(nil), b.model.Pages...)
	out.Fields = append([]Definition(nil), b.model.Fields...)
	if err := ValidateDialog(out); err != nil {
		return DialogModel{}, err
	}
	return out, nil
}
