// Package audit defines registry audit events and the transactional outbox
// they travel through. Services append events inside the same transaction as
// the mutation they describe; the relay publishes committed events to a broker.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers registry facts with regulatory significance:
	// registrations and RID lifecycle changes.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers authentication outcomes and identifier changes.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity such as heartbeats.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from service logic to capture a committed mutation.
// Keep it transport-agnostic so stores and brokers can fan out.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Category   EventCategory     `json:"category"`
	Action     string            `json:"action"`
	Timestamp  time.Time         `json:"timestamp"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Subject    string            `json:"subject,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	ClientIP   string            `json:"client_ip,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	Detail     map[string]string `json:"detail,omitempty"`
}

type AuditEvent string

const (
	EventOperatorCreated            AuditEvent = "operator_created"
	EventOperatorDeleted            AuditEvent = "operator_deleted"
	EventOperatorLoginSucceeded     AuditEvent = "operator_login_succeeded"
	EventOperatorLoginFailed        AuditEvent = "operator_login_failed"
	EventManufacturerCreated        AuditEvent = "manufacturer_created"
	EventDefaultManufacturerCreated AuditEvent = "default_manufacturer_created"
	EventAircraftCreated            AuditEvent = "aircraft_created"
	EventPilotCreated               AuditEvent = "pilot_created"
	EventContactCreated             AuditEvent = "contact_created"
	EventActivityCreated            AuditEvent = "activity_created"
	EventAuthorizationCreated       AuditEvent = "authorization_created"
	EventTestCreated                AuditEvent = "test_created"
	EventRIDModuleRegistered        AuditEvent = "rid_module_registered"
	EventRIDModuleUpdated           AuditEvent = "rid_module_updated"
	EventRIDModuleDeactivated       AuditEvent = "rid_module_deactivated"
	EventRIDModuleDecommissioned    AuditEvent = "rid_module_decommissioned"
	EventRIDModuleRIDIDChanged      AuditEvent = "rid_module_rid_id_changed"
	EventRIDModuleHeartbeat         AuditEvent = "rid_module_heartbeat"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventOperatorCreated:            CategoryCompliance,
	EventOperatorDeleted:            CategoryCompliance,
	EventManufacturerCreated:        CategoryCompliance,
	EventDefaultManufacturerCreated: CategoryCompliance,
	EventAircraftCreated:            CategoryCompliance,
	EventPilotCreated:               CategoryCompliance,
	EventContactCreated:             CategoryCompliance,
	EventRIDModuleRegistered:        CategoryCompliance,
	EventRIDModuleUpdated:           CategoryCompliance,
	EventRIDModuleDeactivated:       CategoryCompliance,
	EventRIDModuleDecommissioned:    CategoryCompliance,

	EventOperatorLoginSucceeded: CategorySecurity,
	EventOperatorLoginFailed:    CategorySecurity,
	EventRIDModuleRIDIDChanged:  CategorySecurity,

	EventActivityCreated:      CategoryOperations,
	EventAuthorizationCreated: CategoryOperations,
	EventTestCreated:          CategoryOperations,
	EventRIDModuleHeartbeat:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// OutboxEntry is an appended event awaiting publication.
type OutboxEntry struct {
	Event       Event
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// Store is the transactional outbox.
type Store interface {
	// Append writes event using the transaction carried by ctx, if any.
	Append(ctx context.Context, event Event) error
	// Pending returns up to limit unpublished entries, oldest first.
	Pending(ctx context.Context, limit int) ([]OutboxEntry, error)
	// MarkPublished flags the given events as delivered.
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

//go:generate mockgen -source=models.go -destination=mocks/mocks.go -package=mocks Publisher

// Publisher delivers events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, events []Event) error
	Close() error
}
