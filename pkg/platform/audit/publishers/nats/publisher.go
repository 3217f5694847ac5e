// Package nats publishes audit events to NATS subjects of the form
// <prefix>.<category>.<action>.
package nats

import (
	"context"
	"encoding/json"
	"fmt"

	natsgo "github.com/nats-io/nats.go"

	audit "droneregistry/pkg/platform/audit"
)

type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// Publisher implements audit.Publisher over core NATS.
type Publisher struct {
	conn   conn
	prefix string
}

// New connects to url. prefix defaults to "registry.audit".
func New(url, prefix string) (*Publisher, error) {
	nc, err := natsgo.Connect(url, natsgo.Name("drone-registry-audit"), natsgo.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return newPublisher(nc, prefix), nil
}

func newPublisher(c conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = "registry.audit"
	}
	return &Publisher{conn: c, prefix: prefix}
}

// Subject returns the subject an event is published on.
func (p *Publisher) Subject(e audit.Event) string {
	return p.prefix + "." + string(e.Category) + "." + e.Action
}

// Publish sends every event and flushes so delivery errors surface here.
func (p *Publisher) Publish(ctx context.Context, events []audit.Event) error {
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal audit event %s: %w", e.ID, err)
		}
		if err := p.conn.Publish(p.Subject(e), data); err != nil {
			return fmt.Errorf("publish audit event %s: %w", e.ID, err)
		}
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush nats: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Drain()
}
