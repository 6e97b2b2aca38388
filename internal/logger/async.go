package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Closer flushes and stops a handler.
type Closer interface {
	Close()
}

type nopCloser struct{}

func (nopCloser) Close() {}

// AsyncHandler hands records to a pool of workers through a bounded buffer.
// When the buffer is full the record is dropped and counted; logging never
// blocks a pass.
type AsyncHandler struct {
	inner slog.Handler
	*pipe
}

type pipe struct {
	ch      chan asyncRecord
	wg      sync.WaitGroup
	dropped atomic.Int64
	once    sync.Once
}

type asyncRecord struct {
	h   slog.Handler
	rec slog.Record
}

// NewAsyncHandler starts workers draining a buffer of bufSize records.
func NewAsyncHandler(inner slog.Handler, bufSize, workers int) *AsyncHandler {
	p := &pipe{ch: make(chan asyncRecord, bufSize)}
	for range workers {
		p.wg.Add(1)
		go p.drain()
	}
	return &AsyncHandler{inner: inner, pipe: p}
}

func (p *pipe) drain() {
	defer p.wg.Done()
	for r := range p.ch {
		_ = r.h.Handle(context.Background(), r.rec)
	}
}

// Enabled delegates to the inner handler.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle enqueues a clone of rec, or drops it if the buffer is full.
func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	select {
	case h.ch <- asyncRecord{h: h.inner, rec: rec.Clone()}:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// WithAttrs shares the buffer and workers with h.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithAttrs(attrs), pipe: h.pipe}
}

// WithGroup shares the buffer and workers with h.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithGroup(name), pipe: h.pipe}
}

// DroppedCount returns the number of records dropped so far.
func (h *AsyncHandler) DroppedCount() int64 {
	return h.dropped.Load()
}

// Close stops accepting records and waits for the buffer to drain. It is
// safe to call more than once.
func (h *AsyncHandler) Close() {
	h.once.Do(func() {
		close(h.ch)
		h.wg.Wait()
	})
}
