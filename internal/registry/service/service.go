// Package service coordinates registry writes and reads. Every composite
// create runs in one store transaction: request checks, foreign key and
// uniqueness checks, inserts and the audit outbox row commit together or not
// at all.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"droneregistry/internal/registry/metrics"
	dErrors "droneregistry/pkg/domain-errors"
	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/platform/sentinel"
	"droneregistry/pkg/requestcontext"
)

const tracerName = "droneregistry/internal/registry/service"

// AuditPublisher appends audit events using the transaction in ctx.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the registry's application layer.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "registry."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}

// storeErr translates store sentinels. Domain errors pass through unchanged.
func storeErr(err error, entity string) error {
	var de *dErrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Wrap(err, dErrors.CodeConflict, entity+" already exists")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "registry store timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to persist %s", entity))
	}
}

// invariantToValidation reports aggregate invariant failures as a 400.
func invariantToValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	return err
}

func doesNotExist(id string) string {
	return fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", id)
}

func alreadyExists(entity, field string) string {
	return fmt.Sprintf("%s with this %s already exists.", entity, field)
}

// record logs the audit line and appends the outbox row. It must run inside
// the caller's transaction; an append failure fails the operation.
func (s *Service) record(ctx context.Context, event audit.AuditEvent, entityType string, entityID uuid.UUID, detail map[string]string) error {
	if s.logger != nil {
		args := []any{
			"event", string(event),
			"log_type", "audit",
			"entity_type", entityType,
			"entity_id", entityID.String(),
		}
		if requestID := requestcontext.RequestID(ctx); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		for k, v := range detail {
			args = append(args, k, v)
		}
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return nil
	}
	return s.auditPublisher.Emit(ctx, audit.Event{
		Action:     string(event),
		EntityType: entityType,
		EntityID:   entityID.String(),
		Detail:     detail,
	})
}

func (s *Service) incrementCreated(entity string) {
	if s.metrics != nil {
		s.metrics.IncrementCreated(entity)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
