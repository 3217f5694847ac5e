// Package logsink is the audit publisher used when no broker is configured.
// Events are written to the structured log.
package logsink

import (
	"context"
	"log/slog"

	audit "droneregistry/pkg/platform/audit"
)

type Publisher struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, events []audit.Event) error {
	for _, e := range events {
		p.logger.InfoContext(ctx, e.Action,
			"log_type", "audit",
			"category", e.Category,
			"entity_type", e.EntityType,
			"entity_id", e.EntityID,
			"subject", e.Subject,
			"request_id", e.RequestID,
		)
	}
	return nil
}

func (p *Publisher) Close() error { return nil }
