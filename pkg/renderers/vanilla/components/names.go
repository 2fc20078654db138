package components

import "github.com/goliatone/go-formdialog/pkg/widgets"

// Component names match the widget names of the default widget registry.
const (
	NameText     = widgets.WidgetText
	NameTextarea = widgets.WidgetTextarea
	NameNumber   = widgets.WidgetNumber
	NameCheckbox = widgets.WidgetCheckbox
	NameSelect   = widgets.WidgetSelect
)
