package widgets

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const ErrCodeUnsupportedTarget = "FORMDIALOG_UNSUPPORTED_TARGET"

// ErrUnsupportedTarget is returned when an accessor is asked to read or write
// a dialog object it does not understand.
var ErrUnsupportedTarget = goerrors.New("unsupported dialog object", goerrors.CategoryBadInput).
	WithTextCode(ErrCodeUnsupportedTarget)

// Accessor reads and writes a single field's occurrences on the externally
// owned dialog object.
type Accessor interface {
	Value(target any, index int) (string, bool)
	SetValue(target any, index int, value string) error
}

// Preparer is implemented by accessors that need to reset the field on the
// dialog object before its occurrences are committed. Without it, removed
// occurrences would survive in the object.
type Preparer interface {
	PrepareCommit(target any) error
}

// AccessorFuncs adapts plain functions into an Accessor. Prepare is optional.
type AccessorFuncs struct {
	Get     func(target any, index int) (string, bool)
	Set     func(target any, index int, value string) error
	Prepare func(target any) error
}

// Value implements Accessor.
func (a AccessorFuncs) Value(target any, index int) (string, bool) {
	if a.Get == nil {
		return "", false
	}
	return a.Get(target, index)
}

// SetValue implements Accessor.
func (a AccessorFuncs) SetValue(target any, index int, value string) error {
	if a.Set == nil {
		return nil
	}
	return a.Set(target, index, value)
}

// PrepareCommit implements Preparer.
func (a AccessorFuncs) PrepareCommit(target any) error {
	if a.Prepare == nil {
		return nil
	}
	return a.Prepare(target)
}

// Values is a generic dialog object holding the ordered occurrence values of
// every field. Host applications with typed objects supply their own
// accessors instead.
type Values map[string][]string

// Get returns the value stored at index for name.
func (v Values) Get(name string, index int) (string, bool) {
	items, ok := v[name]
	if !ok || index < 0 || index >= len(items) {
		return "", false
	}
	return items[index], true
}

// Set stores value at index, growing the slice as required.
func (v Values) Set(name string, index int, value string) {
	items := v[name]
	for len(items) <= index {
		items = append(items, "")
	}
	items[index] = value
	v[name] = items
}

// Clone returns a deep copy of the values.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for name, items := range v {
		out[name] = append([]string(nil), items...)
	}
	return out
}

// FieldAccessor returns an Accessor that stores occurrences of name in a
// Values dialog object.
func FieldAccessor(name string) Accessor {
	return valuesAccessor{name: name}
}

type valuesAccessor struct {
	name string
}

func (a valuesAccessor) Value(target any, index int) (string, bool) {
	values, err := asValues(target)
	if err != nil {
		return "", false
	}
	value, ok := values.Get(a.name, index)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (a valuesAccessor) SetValue(target any, index int, value string) error {
	values, err := asValues(target)
	if err != nil {
		return err
	}
	values.Set(a.name, index, value)
	return nil
}

func (a valuesAccessor) PrepareCommit(target any) error {
	values, err := asValues(target)
	if err != nil {
		return err
	}
	delete(values, a.name)
	return nil
}

func asValues(target any) (Values, error) {
	switch typed := target.(type) {
	case Values:
		if typed != nil {
			return typed, nil
		}
	case *Values:
		if typed != nil {
			if *typed == nil {
				*typed = Values{}
			}
			return *typed, nil
		}
	case map[string][]string:
		if typed != nil {
			return Values(typed), nil
		}
	}
	err := ErrUnsupportedTarget.Clone()
	err.Message = fmt.Sprintf("dialog object of type %T is not supported", target)
	return nil, err
}
