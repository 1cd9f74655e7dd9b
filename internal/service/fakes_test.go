package service

import (
	"context"
	"sync"
	"time"

	"github.com/toolbox/toolbox-go/internal/model"
)

type fakeActivity struct {
	mu     sync.Mutex
	events []model.ActivityEvent
	err    error

	listed []model.ActivityEvent
	counts map[string]int
	since  time.Time
	limit  int
}

func (f *fakeActivity) Record(ctx context.Context, event *model.ActivityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return f.err
}

func (f *fakeActivity) ListRecent(ctx context.Context, limit int) ([]model.ActivityEvent, error) {
	f.limit = limit
	return f.listed, f.err
}

func (f *fakeActivity) CountByTool(ctx context.Context, since time.Time) (map[string]int, error) {
	f.since = since
	return f.counts, f.err
}

func (f *fakeActivity) last() model.ActivityEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}

type fakeMetrics struct {
	passwords  map[string]int
	insecure   int
	strength   map[string]int
	qr         int
	conversion []string
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{passwords: map[string]int{}, strength: map[string]int{}}
}

func (m *fakeMetrics) PasswordGenerated(label string, secure bool) {
	m.passwords[label]++
	if !secure {
		m.insecure++
	}
}

func (m *fakeMetrics) StrengthEvaluated(label string) { m.strength[label]++ }
func (m *fakeMetrics) QRGenerated(size int)           { m.qr++ }
func (m *fakeMetrics) HTTPStatus(code int)            {}

func (m *fakeMetrics) Converted(kind, direction, outcome string, bytes int) {
	m.conversion = append(m.conversion, kind+"."+direction+"."+outcome)
}
