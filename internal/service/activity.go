package service

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/toolbox/toolbox-go/internal/model"
)

// ActivityRecorder persists tool usage events.
type ActivityRecorder interface {
	Record(ctx context.Context, event *model.ActivityEvent) error
}

// ActivityStore is an ActivityRecorder that can also be queried.
type ActivityStore interface {
	ActivityRecorder
	ListRecent(ctx context.Context, limit int) ([]model.ActivityEvent, error)
	CountByTool(ctx context.Context, since time.Time) (map[string]int, error)
}

// recordTimeout bounds how long a tool request waits on the activity store.
const recordTimeout = 2 * time.Second

// activityLog records events on a best-effort basis. A nil recorder disables it.
type activityLog struct {
	rec ActivityRecorder
}

// newActivityLog treats a typed nil pointer (e.g. a nil *repository.ActivityRepository)
// the same as a nil interface.
func newActivityLog(rec ActivityRecorder) activityLog {
	if rec == nil {
		return activityLog{}
	}
	if v := reflect.ValueOf(rec); v.Kind() == reflect.Pointer && v.IsNil() {
		return activityLog{}
	}
	return activityLog{rec: rec}
}

// record writes the event detached from the caller's cancellation, so a client
// that hangs up still leaves an audit entry, but never waits past recordTimeout.
func (a activityLog) record(ctx context.Context, event model.ActivityEvent) {
	if a.rec == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := a.rec.Record(ctx, &event); err != nil {
		slog.Warn("failed to record activity", "tool", event.Tool, "action", event.Action, "error", err)
	}
}

// ActivityService exposes the activity log to administrators.
type ActivityService struct {
	store ActivityStore
	now   func() time.Time
}

// NewActivityService creates a new ActivityService.
func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{store: store, now: time.Now}
}

// ListRecent returns the most recent events, newest first.
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]model.ActivityResponse, error) {
	events, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]model.ActivityResponse, len(events))
	for i, e := range events {
		result[i] = model.ActivityResponse{
			ID:        e.ID,
			Tool:      e.Tool,
			Action:    e.Action,
			Outcome:   e.Outcome,
			Bytes:     e.Bytes,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		}
	}
	return result, nil
}

// Summary counts events per tool over the trailing window.
func (s *ActivityService) Summary(ctx context.Context, window time.Duration) (map[string]int, error) {
	return s.store.CountByTool(ctx, s.now().UTC().Add(-window))
}
