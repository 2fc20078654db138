package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Store keeps at most one dialog object per (session, dialog type) pair. Two
// requests for the same pair race with last-write-wins semantics.
type Store interface {
	Load(ctx context.Context, sessionID, dialogType string) (any, bool, error)
	Save(ctx context.Context, sessionID, dialogType string, object any) error
	Clear(ctx context.Context, sessionID, dialogType string) error
}

// Key identifies a dialog object.
type Key struct {
	SessionID  string
	DialogType string
}

func newKey(sessionID, dialogType string) Key {
	return Key{
		SessionID:  strings.TrimSpace(sessionID),
		DialogType: strings.TrimSpace(dialogType),
	}
}

func (k Key) valid() bool {
	return k.SessionID != "" && k.DialogType != ""
}

// NewID returns a random session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a session identifier issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
