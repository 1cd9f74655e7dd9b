package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/toolbox/toolbox-go/internal/model"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var ErrInvalidEvent = errors.New("activity event requires tool, action and outcome")

// ActivityRepository stores tool usage events.
type ActivityRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db, now: time.Now}
}

// Record inserts an event, assigning its ID and timestamp when unset.
func (r *ActivityRepository) Record(ctx context.Context, event *model.ActivityEvent) error {
	if event.Tool == "" || event.Action == "" || event.Outcome == "" {
		return ErrInvalidEvent
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now().UTC()
	}

	query := `INSERT INTO tool_events (id, tool, action, outcome, bytes, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Tool,
		event.Action,
		event.Outcome,
		event.Bytes,
		event.Detail,
		event.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit events, newest first. A non-positive limit
// means DefaultListLimit; limits above MaxListLimit are capped.
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `SELECT id, tool, action, outcome, bytes, detail, created_at
		FROM tool_events ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.ActivityEvent, 0, limit)
	for rows.Next() {
		var e model.ActivityEvent
		if err := rows.Scan(&e.ID, &e.Tool, &e.Action, &e.Outcome, &e.Bytes, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountByTool returns how many events each tool has recorded since the given time.
func (r *ActivityRepository) CountByTool(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `SELECT tool, COUNT(*) FROM tool_events WHERE created_at >= ? GROUP BY tool`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tool string
		var n int
		if err := rows.Scan(&tool, &n); err != nil {
			return nil, err
		}
		counts[tool] = n
	}

	return counts, rows.Err()
}
