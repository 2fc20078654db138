package dialog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// Store holds the live instances of every field for one request. It is
// rebuilt from request parameters on each request and is not safe for
// concurrent use.
type Store struct {
	reg    *Registry
	fields map[string][]*Instance
}

// NewStore returns an empty store over reg.
func NewStore(reg *Registry) *Store {
	return &Store{reg: reg, fields: make(map[string][]*Instance)}
}

// Rebuild replaces every instance sequence by replaying the definitions
// against params. Slot j of a field is materialized when the sequence is still
// below minOccurs, when params carry a value for the slot id, or when the
// field is a collection base outside its own page and target already holds a
// value at j. Values carried under HiddenPrefix are unescaped first; visible
// values win over hidden ones.
//
// Target only seeds values on the first display of a page, when req has no
// action, and for collection bases outside their page. Once an action is
// posted, a slot the request does not carry starts empty: browsers omit
// unchecked checkboxes, so the stored value would otherwise come back.
func (s *Store) Rebuild(params url.Values, req Request, target any) {
	submitted := decodeParams(params)
	s.fields = make(map[string][]*Instance)

	for _, e := range s.reg.snapshot() {
		def := e.def
		onPage := false
		if def.CollectionBase && req.HasAction() {
			onPage = req.Page == "" || def.Page == "" || def.Page == req.Page
		}
		offPageBase := def.CollectionBase && !onPage
		seedFromTarget := !req.HasAction() || offPageBase

		seq := make([]*Instance, 0, def.MinOccurs)
		for j := 0; j < def.MaxOccurs; j++ {
			raw, hasRaw := submitted[FieldID(def.Name, j)]
			var (
				stored    string
				hasStored bool
			)
			if seedFromTarget {
				stored, hasStored = e.field.Value(target, j)
			}

			if len(seq) >= def.MinOccurs && !hasRaw && !(offPageBase && hasStored) {
				continue
			}

			inst := newInstance(def, len(seq))
			switch {
			case hasRaw:
				inst.Value, inst.Present = raw, true
			case hasStored:
				inst.Value, inst.Present = stored, true
			case !req.HasAction():
				inst.Value = def.Default
			}
			seq = append(seq, inst)
		}
		s.fields[def.Name] = seq
	}
}

func decodeParams(params url.Values) map[string]string {
	out := make(map[string]string, len(params))
	for key, values := range params {
		if len(values) == 0 || !strings.HasPrefix(key, HiddenPrefix) {
			continue
		}
		id := strings.TrimPrefix(key, HiddenPrefix)
		out[id] = DecodeHidden(values[0])
	}
	for key, values := range params {
		if len(values) == 0 || strings.HasPrefix(key, HiddenPrefix) {
			continue
		}
		out[key] = values[0]
	}
	return out
}

// Add inserts a zero-valued instance after afterIndex, or at afterIndex when
// the sequence is empty, then renumbers the sequence. Unknown names are
// ignored.
func (s *Store) Add(name string, afterIndex int) error {
	e, ok := s.reg.entry(name)
	if !ok {
		return nil
	}
	seq := s.fields[name]
	at := afterIndex
	if len(seq) > 0 {
		at = afterIndex + 1
	}
	if at < 0 || at > len(seq) {
		return indexError(name, afterIndex, len(seq))
	}

	inst := newInstance(e.def, at)
	seq = append(seq, nil)
	copy(seq[at+1:], seq[at:])
	seq[at] = inst
	s.fields[name] = renumber(seq)
	return nil
}

// Remove deletes the instance at atIndex and renumbers the sequence. Unknown
// names are ignored; an index outside the sequence returns ErrIndexOutOfRange.
func (s *Store) Remove(name string, atIndex int) error {
	if _, ok := s.reg.entry(name); !ok {
		return nil
	}
	seq := s.fields[name]
	if atIndex < 0 || atIndex >= len(seq) {
		return indexError(name, atIndex, len(seq))
	}
	removed := seq[atIndex]
	seq = append(seq[:atIndex:atIndex], seq[atIndex+1:]...)
	removed.detach()
	s.fields[name] = renumber(seq)
	return nil
}

func indexError(name string, index, count int) error {
	return cloneError(ErrIndexOutOfRange,
		fmt.Sprintf("index %d out of range for %q with %d elements", index, name, count), nil,
		map[string]any{"field": name, "index": index, "count": count})
}

func renumber(seq []*Instance) []*Instance {
	for i, inst := range seq {
		inst.setIndex(i)
	}
	return seq
}

// Commit transfers every instance of the definitions on page into target.
// An empty page commits every definition. Failures are recorded on the
// instance and returned as *ValidationError in declaration then index order.
// A field whose accessor cannot be reset is reported once with an
// ErrCommitFailed error that is not a *ValidationError, and its occurrences
// are skipped. Commit itself never fails or panics.
func (s *Store) Commit(page string, target any) []error {
	var errs []error
	for _, e := range s.reg.snapshot() {
		if !e.def.OnPage(page) {
			continue
		}
		if p, ok := e.field.(preparer); ok {
			if err := safePrepare(p, target); err != nil {
				errs = append(errs, cloneError(ErrCommitFailed,
					fmt.Sprintf("reset of %q failed", e.def.Name), err,
					map[string]any{"field": e.def.Name}))
				continue
			}
		}
		for _, inst := range s.fields[e.def.Name] {
			inst.Err = nil
			occ := widgets.Occurrence{ID: inst.ID(), Index: inst.Index(), Value: inst.Value}
			if err := safeCommit(e.field, inst, occ, target); err != nil {
				verr := &ValidationError{Field: e.def.Name, Index: inst.Index(), Err: err}
				inst.Err = verr
				errs = append(errs, verr)
			}
		}
	}
	return errs
}

func safeCommit(field Field, inst *Instance, occ widgets.Occurrence, target any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cloneError(ErrCommitFailed, fmt.Sprintf("commit of %s failed: %v", occ.ID, r), nil,
				map[string]any{"field": inst.Name(), "index": occ.Index})
		}
	}()
	return field.Commit(inst.Definition(), occ, target)
}

func safePrepare(p preparer, target any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cloneError(ErrCommitFailed, fmt.Sprintf("prepare failed: %v", r), nil, nil)
		}
	}()
	return p.Prepare(target)
}

// Instances returns a copy of the live sequence of name.
func (s *Store) Instances(name string) []*Instance {
	return append([]*Instance(nil), s.fields[name]...)
}

// Count returns the number of live instances of name.
func (s *Store) Count(name string) int {
	return len(s.fields[name])
}

// Value returns the value at index when the instance there is still valid.
func (s *Store) Value(name string, index int) (string, bool) {
	seq := s.fields[name]
	if index < 0 || index >= len(seq) {
		return "", false
	}
	inst := seq[index]
	if !inst.Valid() || inst.ID() != FieldID(name, index) {
		return "", false
	}
	return inst.Value, true
}

// Set overwrites the value of the instance at index.
func (s *Store) Set(name string, index int, value string) bool {
	seq := s.fields[name]
	if index < 0 || index >= len(seq) {
		return false
	}
	seq[index].Value = value
	seq[index].Present = true
	return true
}

// Errors returns the errors recorded on instances, in declaration then index
// order.
func (s *Store) Errors() []error {
	var errs []error
	for _, e := range s.reg.snapshot() {
		for _, inst := range s.fields[e.def.Name] {
			if inst.Err != nil {
				errs = append(errs, inst.Err)
			}
		}
	}
	return errs
}
