package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/mom"
	"github.com/Strob0t/followup/internal/port/messagequeue"
)

// InboundHandler is the part of the Coordinator that consumes fetched mail.
type InboundHandler interface {
	ApplyReply(ctx context.Context, r Reply) (ReplyResult, error)
	IngestMinutes(ctx context.Context, msg mom.Message) (IntakeResult, error)
}

// InboundConsumer subscribes to already-fetched reply and minutes mail.
type InboundConsumer struct {
	queue   messagequeue.Queue
	handler InboundHandler
	cancels []func()
}

// NewInboundConsumer creates an InboundConsumer.
func NewInboundConsumer(queue messagequeue.Queue, handler InboundHandler) *InboundConsumer {
	return &InboundConsumer{queue: queue, handler: handler}
}

// Start subscribes to the inbound subjects.
func (c *InboundConsumer) Start(ctx context.Context) error {
	subs := []struct {
		subject string
		handler messagequeue.Handler
	}{
		{messagequeue.SubjectInboundReply, c.handleReply},
		{messagequeue.SubjectInboundMOM, c.handleMinutes},
	}
	for _, s := range subs {
		cancel, err := c.queue.Subscribe(ctx, s.subject, s.handler)
		if err != nil {
			c.Stop()
			return fmt.Errorf("subscribe %s: %w", s.subject, err)
		}
		c.cancels = append(c.cancels, cancel)
	}
	slog.Info("inbound consumers started", "subjects", len(subs))
	return nil
}

// Stop cancels all subscriptions.
func (c *InboundConsumer) Stop() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

func (c *InboundConsumer) handleReply(ctx context.Context, _ string, data []byte) error {
	var p messagequeue.InboundReplyPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	res, err := c.handler.ApplyReply(ctx, Reply{
		From:     p.From,
		FromName: p.SenderName,
		Subject:  p.Subject,
		Body:     p.Body,
	})
	if err != nil {
		return redeliverable(err)
	}
	slog.InfoContext(ctx, "reply processed",
		"message_id", p.MessageID,
		"reply_type", res.Type,
		"completed", len(res.Summary.Completed),
		"pending", len(res.Summary.Pending),
		"unmatched", len(res.Summary.Unmatched),
	)
	return nil
}

func (c *InboundConsumer) handleMinutes(ctx context.Context, _ string, data []byte) error {
	var p messagequeue.InboundMOMPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("unmarshal minutes: %w", err)
	}
	body := p.Body
	if p.HTML {
		body = mom.CleanHTML(body)
	}
	res, err := c.handler.IngestMinutes(ctx, mom.Message{
		Subject:    p.Subject,
		From:       p.From,
		ReceivedAt: p.ReceivedAt,
		Body:       body,
	})
	if err != nil {
		return redeliverable(err)
	}
	slog.InfoContext(ctx, "minutes processed",
		"message_id", p.MessageID,
		"meeting_id", res.MeetingID,
		"created", len(res.Created),
		"skipped", len(res.Skipped),
	)
	return nil
}

// redeliverable drops messages that can never succeed and hands the rest back
// to the broker for redelivery.
func redeliverable(err error) error {
	if errors.Is(err, domain.ErrValidation) {
		slog.Warn("inbound message rejected", "error", err)
		return nil
	}
	return err
}
