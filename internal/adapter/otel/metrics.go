package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "followup"

// Metrics holds the lifecycle instruments. All methods are safe on a nil
// receiver so callers may run without telemetry.
type Metrics struct {
	TasksCreated      metric.Int64Counter
	TasksCompleted    metric.Int64Counter
	RemindersSent     metric.Int64Counter
	RemindersFailed   metric.Int64Counter
	EscalationsSent   metric.Int64Counter
	EscalationsFailed metric.Int64Counter
	PassDuration      metric.Float64Histogram
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.TasksCreated, "followup.tasks.created", "Number of tasks created"},
		{&m.TasksCompleted, "followup.tasks.completed", "Number of tasks completed from replies"},
		{&m.RemindersSent, "followup.reminders.sent", "Reminders delivered"},
		{&m.RemindersFailed, "followup.reminders.failed", "Reminders that could not be delivered"},
		{&m.EscalationsSent, "followup.escalations.sent", "Escalations delivered"},
		{&m.EscalationsFailed, "followup.escalations.failed", "Escalations that could not be delivered"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, err
		}
	}

	m.PassDuration, err = meter.Float64Histogram("followup.pass.duration_seconds",
		metric.WithDescription("Batch pass duration in seconds"))
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) TaskCreated(ctx context.Context, priority string) {
	if m == nil {
		return
	}
	m.TasksCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("priority", priority)))
}

func (m *Metrics) TaskCompleted(ctx context.Context, rating string) {
	if m == nil {
		return
	}
	m.TasksCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("rating", rating)))
}

// Reminder counts one reminder attempt.
func (m *Metrics) Reminder(ctx context.Context, priority string, ok bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("priority", priority))
	if ok {
		m.RemindersSent.Add(ctx, 1, attrs)
		return
	}
	m.RemindersFailed.Add(ctx, 1, attrs)
}

// Escalation counts one escalation attempt.
func (m *Metrics) Escalation(ctx context.Context, priority string, ok bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("priority", priority))
	if ok {
		m.EscalationsSent.Add(ctx, 1, attrs)
		return
	}
	m.EscalationsFailed.Add(ctx, 1, attrs)
}

// Pass records how long a batch pass took.
func (m *Metrics) Pass(ctx context.Context, pass string, d time.Duration) {
	if m == nil {
		return
	}
	m.PassDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("pass", pass)))
}
