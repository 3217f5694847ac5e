// Package relay moves committed outbox entries to the configured broker.
package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/platform/audit/outbox"
	"droneregistry/pkg/platform/circuit"
)

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Relay polls the outbox and publishes pending entries in order. While the
// broker circuit is open it sends single-event probe batches.
type Relay struct {
	store     audit.Store
	publisher audit.Publisher
	breaker   *circuit.Breaker
	logger    *slog.Logger
	metrics   *outbox.Metrics
	interval  time.Duration
	batchSize int
}

// Option configures a Relay.
type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithMetrics(m *outbox.Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Relay) {
		r.breaker = b
	}
}

func New(store audit.Store, publisher audit.Publisher, opts ...Option) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		logger:    slog.Default(),
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.breaker == nil {
		r.breaker = circuit.New("audit-broker", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(2))
	}
	return r
}

// Run relays until ctx is cancelled. Publish failures are logged and retried
// on the next tick; they never stop the loop.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.WarnContext(ctx, "audit relay batch failed", "error", err, "breaker", r.breaker.State())
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many entries were delivered.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	limit := r.batchSize
	if r.breaker.IsOpen() {
		limit = 1
	}
	entries, err := r.store.Pending(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	events := make([]audit.Event, len(entries))
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		events[i] = e.Event
		ids[i] = e.Event.ID
	}

	if err := r.publisher.Publish(ctx, events); err != nil {
		if r.metrics != nil {
			r.metrics.IncPublishFailures()
		}
		if _, change := r.breaker.RecordFailure(); change.Opened {
			r.logger.ErrorContext(ctx, "audit broker circuit opened", "breaker", r.breaker.Name())
		}
		return 0, err
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "audit broker circuit closed", "breaker", r.breaker.Name())
	}

	if err := r.store.MarkPublished(ctx, ids, time.Now()); err != nil {
		return 0, err
	}
	if r.metrics != nil {
		r.metrics.AddPublished(len(ids))
	}
	return len(ids), nil
}
