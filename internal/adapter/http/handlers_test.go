package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	cfhttp "github.com/Strob0t/followup/internal/adapter/http"
	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/escalation"
	"github.com/Strob0t/followup/internal/domain/task"
	"github.com/Strob0t/followup/internal/port/clock"
	"github.com/Strob0t/followup/internal/port/notifier"
	"github.com/Strob0t/followup/internal/service"
)

// mockStore is an in-memory TaskStore, EscalationLog and Directory.
type mockStore struct {
	mu          sync.Mutex
	tasks       map[string]task.Task
	escalations []escalation.Entry
	failLoads   bool
}

func (s *mockStore) LoadAll(_ context.Context) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLoads {
		return nil, fmt.Errorf("load: %w", domain.ErrInfrastructure)
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
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

func (s *mockStore) Save(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = *t
	return nil
}

func (s *mockStore) SaveAll(_ context.Context, tasks []task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return nil
}

func (s *mockStore) MarkReminded(_ context.Context, id string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
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
	applied := []string{}
	for _, done := range tasks {
		if t, ok := s.tasks[done.ID]; ok && t.IsOpen() {
			s.tasks[done.ID] = done
			applied = append(applied, done.ID)
		}
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
	s.escalations = append(s.escalations, *e)
	return nil
}

func (s *mockStore) ListEscalations(_ context.Context, taskID string) ([]escalation.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []escalation.Entry
	for _, e := range s.escalations {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []notifier.Notification
}

func (m *mockNotifier) Name() string { return "mock" }
func (m *mockNotifier) Capabilities() notifier.Capabilities {
	return notifier.Capabilities{Addressed: true}
}
func (m *mockNotifier) Send(_ context.Context, n notifier.Notification) error {
	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()
	return nil
}

type staticResolver struct{}

func (staticResolver) Resolve(_ context.Context, owner string) (string, error) {
	return strings.ToLower(owner) + "@example.com", nil
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestRouter(tasks ...task.Task) (chi.Router, *mockStore, *mockNotifier) {
	store := &mockStore{tasks: make(map[string]task.Task)}
	for _, t := range tasks {
		store.tasks[t.ID] = t
	}
	mail := &mockNotifier{}
	coord := service.NewCoordinator(store, store, mail, staticResolver{}, clock.Fixed(testNow), service.CoordinatorConfig{
		Policy:     task.DefaultPolicy(),
		Rules:      task.DefaultRules(),
		Supervisor: "boss@example.com",
	})

	r := chi.NewRouter()
	cfhttp.MountRoutes(r, &cfhttp.Handlers{Lifecycle: coord})
	return r, store, mail
}

func overdueTask(id string, deadline time.Time) task.Task {
	return task.Task{
		ID:        id,
		Owner:     "Anita",
		Text:      "Work item " + id,
		Status:    task.StatusOpen,
		Priority:  task.PriorityHigh,
		CreatedOn: deadline.AddDate(0, 0, -3),
		Deadline:  &deadline,
	}
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVersionEndpoint(t *testing.T) {
	r, _, _ := newTestRouter()
	w := do(r, "GET", "/api/v1/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	_ = json.NewDecoder(w.Body).Decode(&body)
	if body["version"] == "" {
		t.Errorf("missing version: %v", body)
	}
}

func TestListTasksEmpty(t *testing.T) {
	r, _, _ := newTestRouter()
	w := do(r, "GET", "/api/v1/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestCreateAndGetTask(t *testing.T) {
	r, _, _ := newTestRouter()

	w := do(r, "POST", "/api/v1/tasks", map[string]any{
		"task_id": "T1",
		"owner":   "Anita",
		"text":    "File the GST return",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created task.Task
	_ = json.NewDecoder(w.Body).Decode(&created)
	if created.Priority != task.PriorityUrgent || created.Status != task.StatusOpen {
		t.Errorf("created = %+v", created)
	}

	w = do(r, "GET", "/api/v1/tasks/T1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = do(r, "POST", "/api/v1/tasks", map[string]any{"task_id": "T1", "owner": "Anita", "text": "again"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", w.Code)
	}
}

func TestCreateTaskErrors(t *testing.T) {
	tests := []struct {
		name string
		body any
		want int
	}{
		{"invalid json", "{", http.StatusBadRequest},
		{"missing text", map[string]any{"owner": "Anita"}, http.StatusBadRequest},
		{"past deadline", map[string]any{"owner": "Anita", "text": "x", "deadline": "2026-03-01T00:00:00Z"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRouter()
			w := do(r, "POST", "/api/v1/tasks", tt.body)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateTaskValidationMessage(t *testing.T) {
	r, _, _ := newTestRouter()
	w := do(r, "POST", "/api/v1/tasks", map[string]any{"owner": "Anita"})
	var body map[string]string
	_ = json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != "text is required" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestGetTaskNotFound(t *testing.T) {
	r, _, _ := newTestRouter()
	for _, path := range []string{"/api/v1/tasks/nope", "/api/v1/tasks/nope/reminder", "/api/v1/tasks/nope/escalations"} {
		w := do(r, "GET", path, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
	}
}

func TestTaskReminderAndOverdue(t *testing.T) {
	r, _, _ := newTestRouter(overdueTask("T1", testNow.AddDate(0, 0, -2)))

	w := do(r, "GET", "/api/v1/tasks/T1/reminder", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var info service.ReminderInfo
	_ = json.NewDecoder(w.Body).Decode(&info)
	if !info.Determined || !info.DueToday {
		t.Errorf("reminder = %+v", info)
	}

	w = do(r, "GET", "/api/v1/tasks/overdue", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var overdue []service.OverdueTask
	_ = json.NewDecoder(w.Body).Decode(&overdue)
	if len(overdue) != 1 || overdue[0].DaysOverdue != 2 {
		t.Errorf("overdue = %+v", overdue)
	}
}

func TestClassify(t *testing.T) {
	r, store, _ := newTestRouter()
	w := do(r, "POST", "/api/v1/classify", map[string]any{"owner": "Anita", "text": "Prepare the board presentation", "deadline_days": 4})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res service.ClassifyResult
	_ = json.NewDecoder(w.Body).Decode(&res)
	if res.Priority != task.PriorityHigh {
		t.Errorf("priority = %s", res.Priority)
	}
	if len(store.tasks) != 0 {
		t.Error("classify must not create a task")
	}
}

func TestRunPasses(t *testing.T) {
	r, store, mail := newTestRouter(overdueTask("T1", testNow.AddDate(0, 0, -2)))

	w := do(r, "POST", "/api/v1/passes/reminders", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var sum service.PassSummary
	_ = json.NewDecoder(w.Body).Decode(&sum)
	if sum.Sent != 1 || sum.Pass != service.PassReminders {
		t.Errorf("reminder summary = %+v", sum)
	}

	w = do(r, "POST", "/api/v1/passes/escalations", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	_ = json.NewDecoder(w.Body).Decode(&sum)
	if sum.Sent != 1 || len(store.escalations) != 1 {
		t.Errorf("escalation summary = %+v", sum)
	}
	if len(mail.sent) != 2 {
		t.Errorf("mails = %d, want 2", len(mail.sent))
	}

	w = do(r, "GET", "/api/v1/tasks/T1/escalations", nil)
	var entries []escalation.Entry
	_ = json.NewDecoder(w.Body).Decode(&entries)
	if len(entries) != 1 || entries[0].Recipient != "boss@example.com" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRunPassStoreDown(t *testing.T) {
	r, store, _ := newTestRouter()
	store.failLoads = true
	w := do(r, "POST", "/api/v1/passes/reminders", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestApplyReply(t *testing.T) {
	r, store, mail := newTestRouter(overdueTask("T1", testNow.AddDate(0, 0, 2)))

	w := do(r, "POST", "/api/v1/replies", map[string]any{
		"from":      "anita@example.com",
		"from_name": "Anita",
		"body":      "T1: done, filed this morning",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res service.ReplyResult
	_ = json.NewDecoder(w.Body).Decode(&res)
	if len(res.Summary.Completed) != 1 || !res.Acknowledged {
		t.Errorf("result = %+v", res)
	}
	if store.tasks["T1"].Status != task.StatusCompleted {
		t.Error("task not completed")
	}
	if len(mail.sent) != 1 {
		t.Errorf("acks = %d", len(mail.sent))
	}

	w = do(r, "POST", "/api/v1/replies", map[string]any{"from": "a@example.com"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing body: expected 400, got %d", w.Code)
	}
}

func TestExtractUpdates(t *testing.T) {
	r, store, _ := newTestRouter(overdueTask("T1", testNow))
	w := do(r, "POST", "/api/v1/replies/extract", map[string]any{"text": "Task ID: T1\nStatus: done"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Updates []struct {
			TaskID    string `json:"task_id"`
			RawStatus string `json:"raw_status"`
		} `json:"updates"`
		ReplyType string `json:"reply_type"`
	}
	_ = json.NewDecoder(w.Body).Decode(&body)
	if len(body.Updates) != 1 || body.Updates[0].TaskID != "T1" || body.Updates[0].RawStatus != "DONE" {
		t.Errorf("updates = %+v", body.Updates)
	}
	if body.ReplyType != "TASK_CONFIRM" {
		t.Errorf("reply type = %s", body.ReplyType)
	}
	if store.tasks["T1"].Status != task.StatusOpen {
		t.Error("extract must not apply updates")
	}
}

func TestIngestMinutes(t *testing.T) {
	r, store, _ := newTestRouter()
	w := do(r, "POST", "/api/v1/moms", map[string]any{
		"subject":     "MOM | Vendor sync",
		"from":        "lead@example.com",
		"received_at": testNow,
		"body":        "Please share the vendor list by Friday. *Ravi",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := store.tasks["MOM-20260310-001-T01"]; !ok {
		t.Errorf("tasks = %v", store.tasks)
	}
}
