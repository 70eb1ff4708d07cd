package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Recognised logical keys. Callers should use these constants rather than
// raw strings so the full key set stays discoverable in one place.
const (
	// KeyAuthState holds the persisted authentication snapshot.
	KeyAuthState = "auth_state"

	// KeyCustomPresets holds the full custom-preset collection.
	KeyCustomPresets = "custom_presets"

	// KeyFontSize holds the UI font-size preference.
	KeyFontSize = "font_size"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Store is a forgiving key-value store over SQLite.
//
// It deliberately never propagates persistence failures to callers: a
// missing, corrupt, or unwritable store degrades to "no data" so the state
// machines above it always start from a well-defined default. Failures are
// logged and swallowed.
//
// Values are stored as JSON documents in the kv_store table.
type Store struct {
	db     *sql.DB
	logger Logger
}

// New creates a Store backed by the given database connection.
func New(db *sql.DB) *Store {
	return &Store{
		db:     db,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Get loads the value stored under key into dest (a pointer), returning
// true on success. Absent keys, deserialisation failures, and query
// failures all return false; the latter two are logged.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv_store WHERE key = ?", key,
	).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to read stored value", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Warn("stored value is corrupt, treating as absent", "key", key, "error", err)
		return false
	}

	return true
}

// Set serialises value and stores it under key, replacing any previous
// value. Failures are logged, never returned.
func (s *Store) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to serialise value for storage", "key", key, "error", err)
		return
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Warn("failed to store value", "key", key, "error", err)
		return
	}

	s.logger.Debug("value stored", "key", key)
}

// Remove deletes any stored value for key. Idempotent; failures are logged.
func (s *Store) Remove(ctx context.Context, key string) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		s.logger.Warn("failed to remove stored value", "key", key, "error", err)
	}
}

// Clear removes all recognised keys. Used by factory-reset style flows.
func (s *Store) Clear(ctx context.Context) {
	for _, key := range []string{KeyAuthState, KeyCustomPresets, KeyFontSize} {
		s.Remove(ctx, key)
	}
}
