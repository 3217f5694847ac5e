// Package bunstore keeps the audit outbox in the registry database so events
// commit or roll back with the mutation that produced them.
package bunstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/platform/tx"
)

type outboxRow struct {
	bun.BaseModel `bun:"table:audit_outbox,alias:ob"`

	ID          uuid.UUID  `bun:"id,pk,type:varchar(36)"`
	Category    string     `bun:"category,type:varchar(32),notnull"`
	Action      string     `bun:"action,type:varchar(64),notnull"`
	EntityType  string     `bun:"entity_type,type:varchar(64),notnull"`
	EntityID    string     `bun:"entity_id,type:varchar(64),notnull"`
	Subject     string     `bun:"subject,type:varchar(254),notnull"`
	RequestID   string     `bun:"request_id,type:varchar(64),notnull"`
	ClientIP    string     `bun:"client_ip,type:varchar(64),notnull"`
	UserAgent   string     `bun:"user_agent,type:varchar(512),notnull"`
	Detail      string     `bun:"detail,type:text,notnull"`
	OccurredAt  time.Time  `bun:"occurred_at,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	PublishedAt *time.Time `bun:"published_at"`
}

type Store struct {
	db *bun.DB
}

func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// CreateSchema creates the outbox table when missing.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*outboxRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create audit outbox: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	detail := []byte("{}")
	if len(event.Detail) > 0 {
		var err error
		if detail, err = json.Marshal(event.Detail); err != nil {
			return fmt.Errorf("encode audit detail: %w", err)
		}
	}
	row := &outboxRow{
		ID:         event.ID,
		Category:   string(event.Category),
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Subject:    event.Subject,
		RequestID:  event.RequestID,
		ClientIP:   event.ClientIP,
		UserAgent:  event.UserAgent,
		Detail:     string(detail),
		OccurredAt: event.Timestamp,
		CreatedAt:  event.Timestamp,
	}
	if _, err := tx.DB(ctx, s.db).NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error) {
	var rows []outboxRow
	q := s.db.NewSelect().Model(&rows).
		Where("published_at IS NULL").
		OrderExpr("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("load pending audit events: %w", err)
	}
	out := make([]audit.OutboxEntry, 0, len(rows))
	for _, r := range rows {
		var detail map[string]string
		if err := json.Unmarshal([]byte(r.Detail), &detail); err != nil {
			return nil, fmt.Errorf("decode audit detail %s: %w", r.ID, err)
		}
		if len(detail) == 0 {
			detail = nil
		}
		out = append(out, audit.OutboxEntry{
			Event: audit.Event{
				ID:         r.ID,
				Category:   audit.EventCategory(r.Category),
				Action:     r.Action,
				Timestamp:  r.OccurredAt,
				EntityType: r.EntityType,
				EntityID:   r.EntityID,
				Subject:    r.Subject,
				RequestID:  r.RequestID,
				ClientIP:   r.ClientIP,
				UserAgent:  r.UserAgent,
				Detail:     detail,
			},
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.NewUpdate().Model((*outboxRow)(nil)).
		Set("published_at = ?", at).
		Where("id IN (?)", bun.In(ids)).
		Where("published_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mark audit events published: %w", err)
	}
	return nil
}
