package dialog

import (
	"strings"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// Row is the view model of one rendered occurrence.
type Row struct {
	ID        string           `json:"id"`
	Field     string           `json:"field"`
	Index     int              `json:"index"`
	Count     int              `json:"count"`
	Label     string           `json:"label"`
	Help      string           `json:"help,omitempty"`
	Value     string           `json:"value"`
	Disabled  bool             `json:"disabled,omitempty"`
	CanAdd    bool             `json:"canAdd,omitempty"`
	CanRemove bool             `json:"canRemove,omitempty"`
	Errors    []string         `json:"errors,omitempty"`
	Fragment  widgets.Fragment `json:"fragment"`
}

// Rows builds the rows of every definition on page. An empty page yields rows
// for every definition. Optional fields without instances render a single
// disabled placeholder at index 0 so the add control stays reachable.
func (s *Store) Rows(page string) []Row {
	var rows []Row
	for _, e := range s.reg.snapshot() {
		if !e.def.OnPage(page) {
			continue
		}
		rows = append(rows, s.fieldRows(e)...)
	}
	return rows
}

func (s *Store) fieldRows(e entry) []Row {
	def := e.def
	seq := s.fields[def.Name]
	count := len(seq)
	label := labelOf(def)

	if count == 0 && def.MinOccurs == 0 {
		occ := widgets.Occurrence{ID: FieldID(def.Name, 0), Index: 0, Disabled: true}
		return []Row{{
			ID:       occ.ID,
			Field:    def.Name,
			Count:    0,
			Label:    label,
			Help:     def.Help,
			Disabled: true,
			CanAdd:   def.MaxOccurs > 0,
			Fragment: e.field.Render(def, occ),
		}}
	}

	rows := make([]Row, 0, count)
	for _, inst := range seq {
		occ := widgets.Occurrence{ID: inst.ID(), Index: inst.Index(), Value: inst.Value}
		row := Row{
			ID:        inst.ID(),
			Field:     def.Name,
			Index:     inst.Index(),
			Count:     count,
			Label:     model.IndexedLabel(label, inst.Index(), count),
			Value:     inst.Value,
			CanAdd:    count < def.MaxOccurs,
			CanRemove: count > def.MinOccurs,
			Fragment:  e.field.Render(def, occ),
		}
		if inst.Index() == 0 {
			row.Help = def.Help
		}
		if inst.Err != nil {
			row.Errors = ErrorMessages(inst.Err)
		}
		rows = append(rows, row)
	}
	return rows
}

func labelOf(def model.Definition) string {
	if label := strings.TrimSpace(def.Label); label != "" {
		return label
	}
	return model.DefaultLabeler(def.Name)
}

// Includes returns the distinct widget names used on page in first-use order.
// Renderers emit per-widget assets once using it.
func (s *Store) Includes(page string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, row := range s.Rows(page) {
		name := row.Fragment.Widget
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
