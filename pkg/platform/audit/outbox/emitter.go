// Package outbox provides the fail-closed audit emitter used by services.
//
// Emit writes synchronously to the outbox using the caller's transaction. If
// the write fails the error is returned and the calling operation must fail,
// so a committed mutation always has its audit row.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/requestcontext"
)

// Emitter stamps events with request metadata and appends them to the outbox.
type Emitter struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Emitter.
type Option func(*Emitter)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

func New(store audit.Store, opts ...Option) *Emitter {
	e := &Emitter{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit fills ID, category, timestamp and request metadata, then appends.
func (e *Emitter) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Subject == "" {
		event.Subject = requestcontext.Subject(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}

	if err := e.store.Append(ctx, event); err != nil {
		if e.metrics != nil {
			e.metrics.IncPersistFailures()
		}
		if e.logger != nil {
			e.logger.ErrorContext(ctx, "audit outbox append failed",
				"action", event.Action,
				"entity_id", event.EntityID,
				"request_id", event.RequestID,
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	if e.metrics != nil {
		e.metrics.ObservePersistDuration(start)
		e.metrics.IncEventsEmitted(event.Category)
	}
	return nil
}
