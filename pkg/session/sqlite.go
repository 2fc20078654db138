package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// Decoder turns a persisted JSON document back into a dialog object.
type Decoder func(data []byte) (any, error)

// ValuesDecoder decodes widgets.Values objects.
func ValuesDecoder(data []byte) (any, error) {
	values := widgets.Values{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// SQLiteStore persists dialog objects as JSON documents in a SQLite table.
type SQLiteStore struct {
	db      *sql.DB
	table   string
	decode  Decoder
	now     func() time.Time
	mu      sync.Mutex
	ensured bool
}

// SQLiteOption customises a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithDecoder overrides how stored documents are decoded.
func WithDecoder(decoder Decoder) SQLiteOption {
	return func(s *SQLiteStore) {
		if decoder != nil {
			s.decode = decoder
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSQLiteStore builds a store on db using table, defaulting to
// "dialog_objects".
func NewSQLiteStore(db *sql.DB, table string, opts ...SQLiteOption) *SQLiteStore {
	if table == "" {
		table = "dialog_objects"
	}
	store := &SQLiteStore{
		db:     db,
		table:  table,
		decode: ValuesDecoder,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// Load reads the object for the pair.
func (s *SQLiteStore) Load(ctx context.Context, sessionID, dialogType string) (any, bool, error) {
	if err := s.ready(ctx); err != nil {
		return nil, false, err
	}
	key := newKey(sessionID, dialogType)
	if !key.valid() {
		return nil, false, nil
	}

	q := fmt.Sprintf(`SELECT payload FROM %s WHERE session_id = ? AND dialog_type = ?`, s.table)
	var payload string
	err := s.db.QueryRowContext(ctx, q, key.SessionID, key.DialogType).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	object, err := s.decode([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("session: decode dialog object %s/%s: %w", key.SessionID, key.DialogType, err)
	}
	return object, true, nil
}

// Save upserts the object for the pair.
func (s *SQLiteStore) Save(ctx context.Context, sessionID, dialogType string, object any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	key := newKey(sessionID, dialogType)
	if !key.valid() {
		return nil
	}
	payload, err := json.Marshal(object)
	if err != nil {
		return fmt.Errorf("session: encode dialog object %s/%s: %w", key.SessionID, key.DialogType, err)
	}

	q := fmt.Sprintf(`INSERT INTO %s (session_id, dialog_type, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, dialog_type) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`, s.table)
	_, err = s.db.ExecContext(ctx, q,
		key.SessionID,
		key.DialogType,
		string(payload),
		s.now().UnixNano(),
	)
	return err
}

// Clear deletes the object for the pair.
func (s *SQLiteStore) Clear(ctx context.Context, sessionID, dialogType string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	key := newKey(sessionID, dialogType)
	q := fmt.Sprintf(`DELETE FROM %s WHERE session_id = ? AND dialog_type = ?`, s.table)
	_, err := s.db.ExecContext(ctx, q, key.SessionID, key.DialogType)
	return err
}

// Purge deletes objects last written before cutoff and returns how many were
// removed.
func (s *SQLiteStore) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE updated_at < ?`, s.table)
	result, err := s.db.ExecContext(ctx, q, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) ready(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("session: sqlite store not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		session_id TEXT NOT NULL,
		dialog_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (session_id, dialog_type)
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	s.ensured = true
	return nil
}
