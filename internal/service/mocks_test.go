package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/escalation"
	"github.com/Strob0t/followup/internal/domain/task"
	"github.com/Strob0t/followup/internal/port/messagequeue"
	"github.com/Strob0t/followup/internal/port/notifier"
)

// mockNotifier implements notifier.Notifier for testing.
type mockNotifier struct {
	name      string
	addressed bool
	sent      []notifier.Notification
	sendErr   error
	// failFor makes Send fail only for these recipients.
	failFor map[string]bool
	// onSend runs before a successful send is recorded.
	onSend func(notifier.Notification)
}

func (m *mockNotifier) Name() string { return m.name }
func (m *mockNotifier) Capabilities() notifier.Capabilities {
	return notifier.Capabilities{Addressed: m.addressed}
}
func (m *mockNotifier) Send(_ context.Context, n notifier.Notification) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	if m.failFor[n.Recipient] {
		return errors.New("mailbox unavailable")
	}
	if m.onSend != nil {
		m.onSend(n)
	}
	m.sent = append(m.sent, n)
	return nil
}

// mockQueue implements messagequeue.Queue for testing.
type mockQueue struct {
	mu        sync.Mutex
	published []struct {
		subject string
		data    []byte
	}
	handlers   map[string]messagequeue.Handler
	publishErr error
}

func (q *mockQueue) Publish(_ context.Context, subject string, data []byte) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, struct {
		subject string
		data    []byte
	}{subject, data})
	return nil
}

func (q *mockQueue) Subscribe(_ context.Context, subject string, h messagequeue.Handler) (func(), error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.handlers == nil {
		q.handlers = make(map[string]messagequeue.Handler)
	}
	q.handlers[subject] = h
	return func() {
		q.mu.Lock()
		delete(q.handlers, subject)
		q.mu.Unlock()
	}, nil
}

func (q *mockQueue) Drain() error      { return nil }
func (q *mockQueue) Close() error      { return nil }
func (q *mockQueue) IsConnected() bool { return true }

func (q *mockQueue) subjects() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.published))
	for _, p := range q.published {
		out = append(out, p.subject)
	}
	return out
}

// mockStore is an in-memory TaskStore, EscalationLog and Directory.
type mockStore struct {
	mu          sync.Mutex
	tasks       map[string]task.Task
	escalations []escalation.Entry
	contacts    map[string]string

	loadErr   error
	saveErr   error
	recordErr error
	lookups   int
}

func newMockStore(tasks ...task.Task) *mockStore {
	s := &mockStore{tasks: make(map[string]task.Task), contacts: make(map[string]string)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *mockStore) LoadAll(_ context.Context) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *mockStore) Find(_ context.Context, id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *mockStore) Save(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *mockStore) SaveAll(_ context.Context, tasks []task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return nil
}

func (s *mockStore) MarkReminded(_ context.Context, id string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	t, ok := s.tasks[id]
	if !ok || !t.IsOpen() {
		return domain.ErrConflict
	}
	t.LastReminderDate = &date
	s.tasks[id] = t
	return nil
}

func (s *mockStore) CompleteAll(_ context.Context, tasks []task.Task) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	applied := []string{}
	for _, done := range tasks {
		t, ok := s.tasks[done.ID]
		if !ok || !t.IsOpen() {
			continue
		}
		t.Status = done.Status
		t.CompletedDate = done.CompletedDate
		t.DaysTaken = done.DaysTaken
		t.PerformanceRating = done.PerformanceRating
		s.tasks[done.ID] = t
		applied = append(applied, done.ID)
	}
	return applied, nil
}

func (s *mockStore) HasEscalation(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.escalations {
		if e.Key == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *mockStore) RecordEscalation(_ context.Context, e *escalation.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	for _, x := range s.escalations {
		if x.Key == e.Key {
			return domain.ErrConflict
		}
	}
	s.escalations = append(s.escalations, *e)
	return nil
}

func (s *mockStore) ListEscalations(_ context.Context, taskID string) ([]escalation.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []escalation.Entry
	for i := len(s.escalations) - 1; i >= 0; i-- {
		if s.escalations[i].TaskID == taskID {
			out = append(out, s.escalations[i])
		}
	}
	return out, nil
}

func (s *mockStore) LookupEmail(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if addr, ok := s.contacts[strings.ToLower(name)]; ok {
		return addr, nil
	}
	return "", domain.ErrNotFound
}

// mockBroadcaster records broadcast events.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *mockBroadcaster) BroadcastEvent(_ context.Context, eventType string, _ any) {
	b.mu.Lock()
	b.events = append(b.events, eventType)
	b.mu.Unlock()
}

// memCache is an in-memory cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func datePtr(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func mustDate(s string) time.Time { return *datePtr(s) }
