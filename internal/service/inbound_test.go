package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/mom"
	"github.com/Strob0t/followup/internal/port/messagequeue"
)

type mockInbound struct {
	replies []Reply
	minutes []mom.Message
	err     error
}

func (m *mockInbound) ApplyReply(_ context.Context, r Reply) (ReplyResult, error) {
	m.replies = append(m.replies, r)
	return ReplyResult{}, m.err
}

func (m *mockInbound) IngestMinutes(_ context.Context, msg mom.Message) (IntakeResult, error) {
	m.minutes = append(m.minutes, msg)
	return IntakeResult{}, m.err
}

func deliver(t *testing.T, q *mockQueue, subject string, payload any) error {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	h, ok := q.handlers[subject]
	if !ok {
		t.Fatalf("no handler for %s", subject)
	}
	return h(context.Background(), subject, data)
}

func TestInboundConsumerReply(t *testing.T) {
	q := &mockQueue{}
	h := &mockInbound{}
	c := NewInboundConsumer(q, h)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	err := deliver(t, q, messagequeue.SubjectInboundReply, messagequeue.InboundReplyPayload{
		MessageID:  "m1",
		From:       "anita@example.com",
		SenderName: "Anita",
		Subject:    "Re: reminder",
		Body:       "T1: done",
		ReceivedAt: testNow,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(h.replies) != 1 {
		t.Fatalf("replies = %d", len(h.replies))
	}
	want := Reply{From: "anita@example.com", FromName: "Anita", Subject: "Re: reminder", Body: "T1: done"}
	if h.replies[0] != want {
		t.Errorf("reply = %+v, want %+v", h.replies[0], want)
	}
}

func TestInboundConsumerMinutesCleansHTML(t *testing.T) {
	q := &mockQueue{}
	h := &mockInbound{}
	c := NewInboundConsumer(q, h)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	received := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	err := deliver(t, q, messagequeue.SubjectInboundMOM, messagequeue.InboundMOMPayload{
		MessageID:  "m2",
		From:       "lead@example.com",
		Subject:    "MOM | sync",
		Body:       "<p>Please share the list</p>",
		HTML:       true,
		ReceivedAt: received,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(h.minutes) != 1 {
		t.Fatalf("minutes = %d", len(h.minutes))
	}
	got := h.minutes[0]
	if got.Body != mom.CleanHTML("<p>Please share the list</p>") || !got.ReceivedAt.Equal(received) {
		t.Errorf("message = %+v", got)
	}
}

func TestInboundConsumerErrors(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		wantRedeliv bool
	}{
		{"validation is dropped", fmt.Errorf("%w: empty", domain.ErrValidation), false},
		{"infrastructure is redelivered", fmt.Errorf("load: %w", domain.ErrInfrastructure), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &mockQueue{}
			c := NewInboundConsumer(q, &mockInbound{err: tt.handlerErr})
			if err := c.Start(context.Background()); err != nil {
				t.Fatalf("Start: %v", err)
			}
			err := deliver(t, q, messagequeue.SubjectInboundReply, messagequeue.InboundReplyPayload{From: "a@example.com", Body: "x"})
			if got := err != nil; got != tt.wantRedeliv {
				t.Errorf("redeliver = %v, want %v (err %v)", got, tt.wantRedeliv, err)
			}
			if tt.wantRedeliv && !errors.Is(err, domain.ErrInfrastructure) {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestInboundConsumerStop(t *testing.T) {
	q := &mockQueue{}
	c := NewInboundConsumer(q, &mockInbound{})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(q.handlers) != 2 {
		t.Fatalf("handlers = %d, want 2", len(q.handlers))
	}
	c.Stop()
	if len(q.handlers) != 0 {
		t.Errorf("handlers after Stop = %d", len(q.handlers))
	}
}
