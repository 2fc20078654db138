package dialog

import (
	stderrors "errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeRegistryFrozen    = "FORMDIALOG_REGISTRY_FROZEN"
	ErrCodeIndexOutOfRange   = "FORMDIALOG_INDEX_OUT_OF_RANGE"
	ErrCodePageOutOfRange    = "FORMDIALOG_PAGE_OUT_OF_RANGE"
	ErrCodeCommitFailed      = "FORMDIALOG_COMMIT_FAILED"
	ErrCodeSaveFailed        = "FORMDIALOG_SAVE_FAILED"
	ErrCodeObjectStore       = "FORMDIALOG_OBJECT_STORE"
	ErrCodeDuplicateField    = "FORMDIALOG_DUPLICATE_FIELD"
	ErrCodeMissingCapability = "FORMDIALOG_MISSING_CAPABILITY"
)

var (
	ErrRegistryFrozen = goerrors.New("registry is frozen", goerrors.CategoryConflict).
				WithTextCode(ErrCodeRegistryFrozen)
	ErrIndexOutOfRange = goerrors.New("element index out of range", goerrors.CategoryBadInput).
				WithTextCode(ErrCodeIndexOutOfRange)
	ErrPageOutOfRange = goerrors.New("page out of range", goerrors.CategoryBadInput).
				WithTextCode(ErrCodePageOutOfRange)
	ErrCommitFailed = goerrors.New("commit failed", goerrors.CategoryValidation).
			WithTextCode(ErrCodeCommitFailed)
	ErrSaveFailed = goerrors.New("save failed", goerrors.CategoryValidation).
			WithTextCode(ErrCodeSaveFailed)
	ErrObjectStore = goerrors.New("dialog object store failure", goerrors.CategoryExternal).
			WithTextCode(ErrCodeObjectStore)
	ErrDuplicateField = goerrors.New("duplicate field definition", goerrors.CategoryValidation).
				WithTextCode(ErrCodeDuplicateField)
	ErrMissingCapability = goerrors.New("field capability missing", goerrors.CategoryValidation).
				WithTextCode(ErrCodeMissingCapability)
)

func cloneError(base *goerrors.Error, message string, source error, metadata map[string]any) *goerrors.Error {
	err := base.Clone()
	if text := strings.TrimSpace(message); text != "" {
		err.Message = text
	}
	if source != nil {
		err.Source = source
	}
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

// HasCode reports whether err carries the go-errors text code.
func HasCode(err error, code string) bool {
	var ge *goerrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode == code
	}
	return false
}

// ValidationError records a failed commit of one field occurrence. Err keeps
// the cause chain produced by the widget or accessor.
type ValidationError struct {
	Field string
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: invalid value", FieldID(e.Field, e.Index))
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Messages walks the cause chain and returns each distinct message, outermost
// first.
func (e *ValidationError) Messages() []string {
	if e == nil {
		return nil
	}
	return ErrorMessages(e.Err)
}

// ErrorMessages flattens err and its causes into display messages.
func ErrorMessages(err error) []string {
	var (
		out  []string
		last string
	)
	for current := err; current != nil; current = stderrors.Unwrap(current) {
		msg := strings.TrimSpace(messageOf(current))
		if msg == "" || msg == last {
			continue
		}
		out = append(out, msg)
		last = msg
	}
	return out
}

func messageOf(err error) string {
	var ge *goerrors.Error
	if stderrors.As(err, &ge) && ge == err {
		return ge.Message
	}
	return err.Error()
}
