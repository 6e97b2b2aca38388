package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cfotel "github.com/Strob0t/followup/internal/adapter/otel"
	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/escalation"
	"github.com/Strob0t/followup/internal/domain/mom"
	"github.com/Strob0t/followup/internal/domain/reply"
	"github.com/Strob0t/followup/internal/domain/task"
	"github.com/Strob0t/followup/internal/logger"
	"github.com/Strob0t/followup/internal/port/broadcast"
	"github.com/Strob0t/followup/internal/port/clock"
	"github.com/Strob0t/followup/internal/port/database"
	"github.com/Strob0t/followup/internal/port/messagequeue"
	"github.com/Strob0t/followup/internal/port/notifier"
)

// Notification sources.
const (
	SourceReminder   = "task.reminder"
	SourceEscalation = "task.escalation"
	SourceAck        = "reply.ack"
)

// Pass names.
const (
	PassReminders   = "reminders"
	PassEscalations = "escalations"
)

// Resolver maps a task owner to a mail address.
type Resolver interface {
	Resolve(ctx context.Context, owner string) (string, error)
}

// Mirror receives best-effort copies of notifications (chat channels).
type Mirror interface {
	Notify(ctx context.Context, n notifier.Notification)
}

// CoordinatorConfig holds the lifecycle tables and escalation target.
type CoordinatorConfig struct {
	Policy     task.Policy
	Rules      task.Rules
	Supervisor string
}

// TaskError reports why one task failed within a pass.
type TaskError struct {
	TaskID string `json:"task_id"`
	Error  string `json:"error"`
}

// PassSummary is the outcome of a reminder or escalation pass. It is returned
// even when some tasks failed.
type PassSummary struct {
	RunID     string      `json:"run_id"`
	Pass      string      `json:"pass"`
	Date      time.Time   `json:"date"`
	Evaluated int         `json:"evaluated"`
	Sent      int         `json:"sent"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Warnings  []string    `json:"warnings,omitempty"`
	Errors    []TaskError `json:"errors,omitempty"`
}

func (s *PassSummary) fail(taskID string, err error) {
	s.Failed++
	s.Errors = append(s.Errors, TaskError{TaskID: taskID, Error: err.Error()})
}

// IntakeResult lists what an intake created and what it left alone.
type IntakeResult struct {
	MeetingID string      `json:"meeting_id,omitempty"`
	Created   []task.Task `json:"created"`
	Skipped   []string    `json:"skipped,omitempty"`
}

// Reply is an already-fetched reply mail.
type Reply struct {
	From     string `json:"from"`
	FromName string `json:"from_name,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Body     string `json:"body"`
}

// ReplyResult describes how a reply was handled.
type ReplyResult struct {
	Type         reply.Type    `json:"reply_type"`
	Summary      reply.Summary `json:"summary"`
	Acknowledged bool          `json:"acknowledged"`
	AckError     string        `json:"ack_error,omitempty"`
}

// ClassifyResult previews the priority and deadline a task would receive.
type ClassifyResult struct {
	Priority task.Priority `json:"priority"`
	Deadline time.Time     `json:"deadline"`
}

// ReminderInfo reports the reminder state of one task.
type ReminderInfo struct {
	TaskID     string     `json:"task_id"`
	Determined bool       `json:"determined"`
	Next       *time.Time `json:"next_reminder,omitempty"`
	DueToday   bool       `json:"due_today"`
}

// OverdueTask is an open task past its deadline.
type OverdueTask struct {
	task.Task
	DaysOverdue int `json:"days_overdue"`
}

// Coordinator drives the task lifecycle: creation, reminder and escalation
// passes, and reply application.
type Coordinator struct {
	tasks    database.TaskStore
	log      database.EscalationLog
	notify   notifier.Notifier
	resolver Resolver
	clock    clock.Clock
	cfg      CoordinatorConfig

	queue   messagequeue.Queue
	hub     broadcast.Broadcaster
	metrics *cfotel.Metrics
	mirror  Mirror
	newID   func() string

	passMu   sync.Mutex
	createMu sync.Mutex
	intakeMu sync.Mutex
}

// NewCoordinator creates a Coordinator with its required collaborators.
func NewCoordinator(
	tasks database.TaskStore,
	log database.EscalationLog,
	notify notifier.Notifier,
	resolver Resolver,
	clk clock.Clock,
	cfg CoordinatorConfig,
) *Coordinator {
	return &Coordinator{
		tasks:    tasks,
		log:      log,
		notify:   notify,
		resolver: resolver,
		clock:    clk,
		cfg:      cfg,
		newID:    uuid.NewString,
	}
}

// SetQueue sets the publisher for tasks.* events.
func (c *Coordinator) SetQueue(q messagequeue.Queue) { c.queue = q }

// SetBroadcaster sets the live event broadcaster.
func (c *Coordinator) SetBroadcaster(b broadcast.Broadcaster) { c.hub = b }

// SetMetrics sets the OpenTelemetry instruments.
func (c *Coordinator) SetMetrics(m *cfotel.Metrics) { c.metrics = m }

// SetMirror sets where escalations are mirrored.
func (c *Coordinator) SetMirror(m Mirror) { c.mirror = m }

// SetIDGenerator replaces the id source used for tasks, runs and log entries.
func (c *Coordinator) SetIDGenerator(fn func() string) { c.newID = fn }

func (c *Coordinator) today() (now, today time.Time) {
	now = c.clock.Now()
	return now, task.Day(now)
}

// Classify previews the priority and deadline of a request created now.
func (c *Coordinator) Classify(req *task.CreateRequest) ClassifyResult {
	now, today := c.today()
	pr, deadline := c.schedule(req, now, today)
	return ClassifyResult{Priority: pr, Deadline: deadline}
}

// schedule classifies req and picks its deadline. An explicit deadline date
// also feeds the classifier as days from today.
func (c *Coordinator) schedule(req *task.CreateRequest, now, today time.Time) (task.Priority, time.Time) {
	in := task.Input{Text: req.Text, Owner: req.Owner, Subject: req.Subject, DeadlineDays: req.DeadlineDays}
	if in.DeadlineDays == nil && req.Deadline != nil {
		days := task.DaysBetween(today, *req.Deadline)
		in.DeadlineDays = &days
	}
	pr := c.cfg.Rules.Classify(in)
	if req.Deadline != nil {
		return pr, task.Day(*req.Deadline)
	}
	return pr, c.cfg.Policy.Deadline(now, pr, req.DeadlineDays)
}

// Create classifies, schedules and persists a new task.
func (c *Coordinator) Create(ctx context.Context, req *task.CreateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	now, today := c.today()
	if req.Deadline != nil && task.Day(*req.Deadline).Before(today) {
		return nil, fmt.Errorf("%w: deadline must not precede the creation date", domain.ErrValidation)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = c.newID()
	}

	c.createMu.Lock()
	defer c.createMu.Unlock()

	if _, err := c.tasks.Find(ctx, id); err == nil {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}

	pr, deadline := c.schedule(req, now, today)

	t := &task.Task{
		ID:        id,
		SourceID:  strings.TrimSpace(req.SourceID),
		Owner:     strings.TrimSpace(req.Owner),
		Text:      strings.TrimSpace(req.Text),
		Status:    task.StatusOpen,
		Priority:  pr,
		CreatedBy: strings.TrimSpace(req.CreatedBy),
		CreatedOn: now,
		Deadline:  &deadline,
	}
	if err := c.tasks.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save task %s: %w", id, err)
	}

	slog.Info("task created", "task_id", t.ID, "owner", t.Owner, "priority", t.Priority, "deadline", deadline.Format(time.DateOnly))
	c.metrics.TaskCreated(ctx, string(pr))
	c.emit(ctx, messagequeue.SubjectTaskCreated, broadcast.EventTaskCreated, eventPayload(t, now))
	return t, nil
}

// Intake creates every drafted task of m that does not exist yet.
func (c *Coordinator) Intake(ctx context.Context, m *mom.Meeting) (IntakeResult, error) {
	res := IntakeResult{MeetingID: m.ID, Created: []task.Task{}}
	for _, req := range m.CreateRequests() {
		t, err := c.Create(ctx, &req)
		switch {
		case err == nil:
			res.Created = append(res.Created, *t)
		case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrValidation):
			slog.Info("intake skipped task", "task_id", req.ID, "reason", err)
			res.Skipped = append(res.Skipped, req.ID)
		default:
			return res, fmt.Errorf("intake %s: %w", m.ID, err)
		}
	}
	return res, nil
}

// IngestMinutes parses a minutes mail and creates its tasks. Meetings are
// numbered per day after the ones already on file; concurrent calls are
// serialized so two meetings never draw the same number.
func (c *Coordinator) IngestMinutes(ctx context.Context, msg mom.Message) (IntakeResult, error) {
	c.intakeMu.Lock()
	defer c.intakeMu.Unlock()

	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = c.clock.Now()
	}
	all, err := c.tasks.LoadAll(ctx)
	if err != nil {
		return IntakeResult{}, fmt.Errorf("load tasks: %w", err)
	}
	prefix := strings.TrimSuffix(mom.MeetingID(msg.ReceivedAt, 1), "001")
	seen := make(map[string]bool)
	for i := range all {
		if strings.HasPrefix(all[i].SourceID, prefix) {
			seen[all[i].SourceID] = true
		}
	}

	m := mom.Parse(msg, len(seen)+1)
	if len(m.Drafts) == 0 {
		return IntakeResult{MeetingID: m.ID, Created: []task.Task{}}, nil
	}
	return c.Intake(ctx, &m)
}

// List returns all tasks ordered by id.
func (c *Coordinator) List(ctx context.Context) ([]task.Task, error) {
	all, err := c.tasks.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// Get returns one task.
func (c *Coordinator) Get(ctx context.Context, id string) (*task.Task, error) {
	return c.tasks.Find(ctx, id)
}

// NextReminder reports when the task is next reminded.
func (c *Coordinator) NextReminder(ctx context.Context, id string) (ReminderInfo, error) {
	t, err := c.tasks.Find(ctx, id)
	if err != nil {
		return ReminderInfo{}, err
	}
	_, today := c.today()
	info := ReminderInfo{TaskID: t.ID}
	if !t.IsOpen() {
		return info, nil
	}
	if next, ok := c.cfg.Policy.NextReminderForTask(t); ok {
		info.Determined = true
		info.Next = &next
		info.DueToday = c.cfg.Policy.ShouldRemindTask(t, today)
	}
	return info, nil
}

// Escalations lists the escalations of a task, newest first.
func (c *Coordinator) Escalations(ctx context.Context, taskID string) ([]escalation.Entry, error) {
	if _, err := c.tasks.Find(ctx, taskID); err != nil {
		return nil, err
	}
	return c.log.ListEscalations(ctx, taskID)
}

// Overdue lists open tasks past their deadline, most overdue first.
func (c *Coordinator) Overdue(ctx context.Context) ([]OverdueTask, error) {
	all, err := c.tasks.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	_, today := c.today()
	overdue := task.FindOverdue(all, today)
	out := make([]OverdueTask, 0, len(overdue))
	for i := range overdue {
		out = append(out, OverdueTask{Task: overdue[i], DaysOverdue: task.DaysOverdue(&overdue[i], today)})
	}
	return out, nil
}

// beginPass serializes passes and sets up the run id, span and timer.
func (c *Coordinator) beginPass(ctx context.Context, pass string) (context.Context, *PassSummary, func(error)) {
	c.passMu.Lock()
	runID := c.newID()
	ctx = logger.WithRunID(ctx, runID)
	ctx, span := cfotel.StartPassSpan(ctx, pass, runID)
	start := time.Now()
	_, today := c.today()
	sum := &PassSummary{RunID: runID, Pass: pass, Date: today}

	slog.InfoContext(ctx, "pass started", "pass", pass, "date", today.Format(time.DateOnly))
	return ctx, sum, func(err error) {
		defer c.passMu.Unlock()
		c.metrics.Pass(ctx, pass, time.Since(start))
		cfotel.EndSpan(span, err)
		slog.InfoContext(ctx, "pass finished",
			"pass", pass,
			"evaluated", sum.Evaluated,
			"sent", sum.Sent,
			"skipped", sum.Skipped,
			"failed", sum.Failed,
			"warnings", len(sum.Warnings),
		)
		if c.hub != nil {
			c.hub.BroadcastEvent(ctx, broadcast.EventPassFinished, sum)
		}
	}
}

// RunReminders sends one reminder per owner covering every due task, then
// records the reminder date on each task that was included.
func (c *Coordinator) RunReminders(ctx context.Context) (PassSummary, error) {
	ctx, sum, done := c.beginPass(ctx, PassReminders)
	var passErr error
	defer func() { done(passErr) }()

	all, err := c.tasks.LoadAll(ctx)
	if err != nil {
		passErr = fmt.Errorf("load tasks: %w", err)
		return *sum, passErr
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	now, today := c.today()

	var owners []string
	due := make(map[string][]task.Task)
	for i := range all {
		t := &all[i]
		if !t.IsOpen() {
			continue
		}
		sum.Evaluated++
		if t.Deadline == nil {
			sum.Skipped++
			sum.Warnings = append(sum.Warnings, fmt.Sprintf("task %s has no deadline; next reminder undetermined", t.ID))
			continue
		}
		if !c.cfg.Policy.ShouldRemindTask(t, today) {
			sum.Skipped++
			continue
		}
		if _, ok := due[t.Owner]; !ok {
			owners = append(owners, t.Owner)
		}
		due[t.Owner] = append(due[t.Owner], *t)
	}

	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			passErr = err
			return *sum, err
		}
		c.remindOwner(ctx, sum, owner, due[owner], now, today)
	}
	return *sum, nil
}

func (c *Coordinator) remindOwner(ctx context.Context, sum *PassSummary, owner string, tasks []task.Task, now, today time.Time) {
	failAll := func(err error) {
		for i := range tasks {
			sum.fail(tasks[i].ID, err)
			c.metrics.Reminder(ctx, string(tasks[i].Priority), false)
		}
	}

	recipient, err := c.resolver.Resolve(ctx, owner)
	if err != nil {
		slog.WarnContext(ctx, "no address for owner", "owner", owner, "error", err)
		failAll(err)
		return
	}

	n := notifier.Notification{
		Recipient: recipient,
		Title:     task.ReminderSubject,
		Message:   task.ReminderBody(owner, tasks),
		Level:     "warning",
		Source:    SourceReminder,
	}
	if err := c.notify.Send(ctx, n); err != nil {
		slog.WarnContext(ctx, "reminder not sent", "owner", owner, "recipient", recipient, "error", err)
		failAll(fmt.Errorf("send reminder: %w", err))
		return
	}

	for i := range tasks {
		t := &tasks[i]
		sum.Sent++
		c.metrics.Reminder(ctx, string(t.Priority), true)
		err := c.tasks.MarkReminded(ctx, t.ID, today)
		switch {
		case errors.Is(err, domain.ErrConflict):
			// Closed while the mail was in flight; the completion stands.
			slog.InfoContext(ctx, "task closed during reminder pass", "task_id", t.ID)
			continue
		case err != nil:
			// The mail went out; the next pass will remind again.
			sum.Errors = append(sum.Errors, TaskError{TaskID: t.ID, Error: fmt.Sprintf("record reminder: %v", err)})
			slog.ErrorContext(ctx, "reminder sent but not recorded", "task_id", t.ID, "error", err)
			continue
		}
		t.LastReminderDate = &today
		p := eventPayload(t, now)
		p.Recipient = recipient
		c.emit(ctx, messagequeue.SubjectTaskReminded, broadcast.EventTaskReminded, p)
	}
	slog.InfoContext(ctx, "reminder sent", "owner", owner, "recipient", recipient, "tasks", len(tasks))
}

// RunEscalations reports every overdue task to the supervisor, at most once
// per task and calendar day. A log entry is written only after the send
// succeeded.
func (c *Coordinator) RunEscalations(ctx context.Context) (PassSummary, error) {
	ctx, sum, done := c.beginPass(ctx, PassEscalations)
	var passErr error
	defer func() { done(passErr) }()

	if strings.TrimSpace(c.cfg.Supervisor) == "" {
		passErr = fmt.Errorf("%w: no escalation recipient configured", domain.ErrValidation)
		return *sum, passErr
	}

	all, err := c.tasks.LoadAll(ctx)
	if err != nil {
		passErr = fmt.Errorf("load tasks: %w", err)
		return *sum, passErr
	}
	now, today := c.today()
	overdue := task.FindOverdue(all, today)
	sum.Evaluated = len(overdue)

	for i := range overdue {
		if err := ctx.Err(); err != nil {
			passErr = err
			return *sum, err
		}
		c.escalate(ctx, sum, &overdue[i], now, today)
	}
	return *sum, nil
}

func (c *Coordinator) escalate(ctx context.Context, sum *PassSummary, t *task.Task, now, today time.Time) {
	ctx, span := cfotel.StartTaskSpan(ctx, "escalate", t.ID)
	var err error
	defer func() { cfotel.EndSpan(span, err) }()

	key := escalation.Key(t.ID, today)
	var seen bool
	if seen, err = c.log.HasEscalation(ctx, key); err != nil {
		sum.fail(t.ID, fmt.Errorf("check escalation log: %w", err))
		return
	}
	if seen {
		sum.Skipped++
		return
	}

	days := task.DaysOverdue(t, today)
	n := notifier.Notification{
		Recipient: c.cfg.Supervisor,
		Title:     escalation.Subject(t, days),
		Message:   escalation.Body(t, days),
		Level:     "error",
		Source:    SourceEscalation,
	}
	if err = c.notify.Send(ctx, n); err != nil {
		slog.WarnContext(ctx, "escalation not sent", "task_id", t.ID, "error", err)
		c.metrics.Escalation(ctx, string(t.Priority), false)
		sum.fail(t.ID, fmt.Errorf("send escalation: %w", err))
		return
	}
	c.metrics.Escalation(ctx, string(t.Priority), true)

	entry := escalation.NewEntry(c.newID(), t, c.cfg.Supervisor, now)
	switch rerr := c.log.RecordEscalation(ctx, &entry); {
	case rerr == nil:
		sum.Sent++
	case errors.Is(rerr, domain.ErrConflict):
		// Another pass recorded the same day first.
		sum.Sent++
	default:
		sum.Sent++
		sum.Errors = append(sum.Errors, TaskError{TaskID: t.ID, Error: fmt.Sprintf("record escalation: %v", rerr)})
		slog.ErrorContext(ctx, "escalation sent but not recorded", "task_id", t.ID, "error", rerr)
	}

	if c.mirror != nil {
		mirrored := n
		mirrored.Recipient = ""
		c.mirror.Notify(ctx, mirrored)
	}

	p := eventPayload(t, now)
	p.DaysOverdue = days
	p.Recipient = c.cfg.Supervisor
	c.emit(ctx, messagequeue.SubjectTaskEscalated, broadcast.EventTaskEscalated, p)
	slog.InfoContext(ctx, "task escalated", "task_id", t.ID, "days_overdue", days)
}

// ApplyReply extracts status updates from a reply, completes the tasks it
// reports done and acknowledges the sender.
func (c *Coordinator) ApplyReply(ctx context.Context, r Reply) (ReplyResult, error) {
	ctx, span := cfotel.StartReplySpan(ctx, r.From)
	var spanErr error
	defer func() { cfotel.EndSpan(span, spanErr) }()

	if strings.TrimSpace(r.Body) == "" {
		spanErr = fmt.Errorf("%w: reply body is empty", domain.ErrValidation)
		return ReplyResult{}, spanErr
	}

	updates := reply.ExtractUpdates(r.Body)
	res := ReplyResult{
		Type:    reply.DecideType(r.Body, len(updates) > 0, false),
		Summary: reply.Summary{Completed: []reply.Outcome{}, Pending: []reply.Outcome{}, Unmatched: []reply.Outcome{}},
	}

	if len(updates) > 0 {
		all, err := c.tasks.LoadAll(ctx)
		if err != nil {
			spanErr = fmt.Errorf("load tasks: %w", err)
			return res, spanErr
		}
		now := c.clock.Now()
		plan := reply.PlanUpdates(all, updates, now)
		if len(plan.Changes) > 0 {
			applied, err := c.tasks.CompleteAll(ctx, plan.Changes)
			if err != nil {
				spanErr = fmt.Errorf("save completions: %w", err)
				return res, spanErr
			}
			plan = plan.Settle(applied)
		}
		mergeSummary(&res.Summary, plan.Summary)

		for i := range plan.Changes {
			t := &plan.Changes[i]
			c.metrics.TaskCompleted(ctx, string(t.PerformanceRating))
			c.emit(ctx, messagequeue.SubjectTaskCompleted, broadcast.EventTaskCompleted, eventPayload(t, now))
			slog.InfoContext(ctx, "task completed", "task_id", t.ID, "rating", t.PerformanceRating)
		}
	}

	body := ""
	switch res.Type {
	case reply.TypeTaskConfirm:
		body = reply.Acknowledgment(res.Summary, r.FromName)
	case reply.TypeAckOnly:
		body = genericAck(r.FromName)
	}
	if body == "" || strings.TrimSpace(r.From) == "" {
		return res, nil
	}

	ack := notifier.Notification{
		Recipient: r.From,
		Title:     ackSubject(r.Subject),
		Message:   body,
		Level:     "success",
		Source:    SourceAck,
	}
	if err := c.notify.Send(ctx, ack); err != nil {
		// The updates are already persisted; only the courtesy mail is lost.
		slog.WarnContext(ctx, "acknowledgment not sent", "to", r.From, "error", err)
		res.AckError = err.Error()
		return res, nil
	}
	res.Acknowledged = true
	return res, nil
}

func mergeSummary(dst *reply.Summary, src reply.Summary) {
	dst.Completed = append(dst.Completed, src.Completed...)
	dst.Pending = append(dst.Pending, src.Pending...)
	dst.Unmatched = append(dst.Unmatched, src.Unmatched...)
}

func ackSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "Task update received"
	}
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

func genericAck(name string) string {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	return fmt.Sprintf("Dear %s,\n\nThank you for your message. We have received it and will get back to you shortly.\n\nBest regards,\nTask Follow-up\n", name)
}

func eventPayload(t *task.Task, at time.Time) messagequeue.TaskEventPayload {
	return messagequeue.TaskEventPayload{
		TaskID:     t.ID,
		Owner:      t.Owner,
		Text:       t.Text,
		Priority:   string(t.Priority),
		Status:     string(t.Status),
		Deadline:   t.Deadline,
		Rating:     string(t.PerformanceRating),
		OccurredAt: at.UTC(),
	}
}

// emit publishes a lifecycle event and pushes it to live clients. Publish
// failures are logged; the state change is already persisted.
func (c *Coordinator) emit(ctx context.Context, subject, event string, p messagequeue.TaskEventPayload) {
	if c.hub != nil {
		c.hub.BroadcastEvent(ctx, event, p)
	}
	if c.queue == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		slog.ErrorContext(ctx, "marshal task event", "subject", subject, "error", err)
		return
	}
	if err := c.queue.Publish(ctx, subject, data); err != nil {
		slog.ErrorContext(ctx, "failed to publish task event", "subject", subject, "task_id", p.TaskID, "error", err)
	}
}
