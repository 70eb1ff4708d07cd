package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action identifies what kind of operation was recorded.
type Action string

// Recorded actions.
const (
	ActionBedPosition  Action = "bed.position"
	ActionBedLock      Action = "bed.lock"
	ActionBedBattery   Action = "bed.battery"
	ActionPresetApply  Action = "preset.apply"
	ActionPresetCreate Action = "preset.create"
	ActionPresetDelete Action = "preset.delete"
	ActionAuthLogin    Action = "auth.login"
	ActionAuthLogout   Action = "auth.logout"
	ActionFactoryReset Action = "system.factory_reset"
)

// Entry is a single audit record. Details carries action-specific
// context (target position, preset id, and the like) as JSON.
type Entry struct {
	ID        string         `json:"id"`
	Action    Action         `json:"action"`
	BedID     string         `json:"bed_id"`
	UserID    string         `json:"user_id,omitempty"`
	UserEmail string         `json:"user_email,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Filter narrows a List query. Zero values match everything.
type Filter struct {
	Action Action
	BedID  string
	UserID string
	Limit  int
	Offset int
}

// ListResult is a page of entries plus the unpaged total.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// Repository persists and queries audit entries.
type Repository interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) (ListResult, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// SQLiteRepository implements Repository against the audit_log table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository backed by the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts an entry. The ID and CreatedAt fields are assigned
// here when the caller leaves them empty.
func (r *SQLiteRepository) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = "aud-" + uuid.NewString()[:8]
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var details any
	if len(entry.Details) > 0 {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("encoding audit details: %w", err)
		}
		details = string(encoded)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, bed_id, user_id, user_email, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Action),
		entry.BedID,
		nullableString(entry.UserID),
		nullableString(entry.UserEmail),
		details,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// List returns entries matching the filter, newest first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (ListResult, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var conditions []string
	var args []any
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.BedID != "" {
		conditions = append(conditions, "bed_id = ?")
		args = append(args, filter.BedID)
	}
	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log"+where, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("counting audit entries: %w", err)
	}

	query := `
		SELECT id, action, bed_id, user_id, user_email, details, created_at
		FROM audit_log` + where + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return ListResult{}, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			entry     Entry
			userID    sql.NullString
			userEmail sql.NullString
			details   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.BedID, &userID, &userEmail, &details, &createdAt); err != nil {
			return ListResult{}, fmt.Errorf("scanning audit entry: %w", err)
		}
		entry.UserID = userID.String
		entry.UserEmail = userEmail.String
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return ListResult{}, fmt.Errorf("decoding audit details for %s: %w", entry.ID, err)
			}
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return ListResult{}, fmt.Errorf("parsing audit timestamp for %s: %w", entry.ID, err)
		}
		entry.CreatedAt = ts
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("iterating audit entries: %w", err)
	}

	return ListResult{Entries: entries, Total: total}, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
