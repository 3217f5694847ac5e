package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "droneregistry/pkg/domain-errors"
)

// RIDStatus is the lifecycle state of a RID module.
type RIDStatus string

const (
	RIDStatusPending        RIDStatus = "pending"
	RIDStatusActive         RIDStatus = "active"
	RIDStatusInactive       RIDStatus = "inactive"
	RIDStatusDecommissioned RIDStatus = "decommissioned"
	RIDStatusLost           RIDStatus = "lost"
)

func (s RIDStatus) IsValid() bool {
	switch s {
	case RIDStatusPending, RIDStatusActive, RIDStatusInactive, RIDStatusDecommissioned, RIDStatusLost:
		return true
	}
	return false
}

// IsDeactivated reports whether entering s marks the module as out of service.
func (s RIDStatus) IsDeactivated() bool {
	switch s {
	case RIDStatusInactive, RIDStatusDecommissioned, RIDStatusLost:
		return true
	}
	return false
}

// Effect is a side effect produced by entering a lifecycle state.
type Effect string

const (
	EffectStampDeactivatedAt Effect = "stamp_deactivated_at"
)

// LifecycleState is the part of a RID module the state machine reads and writes.
type LifecycleState struct {
	Status        RIDStatus
	DeactivatedAt *time.Time
}

// Transition computes the state reached by requesting status from current.
// Every valid status is reachable from every other; re-activation is a plain
// transition back to active. Entering a deactivated state with DeactivatedAt
// unset stamps it with now. DeactivatedAt is never cleared or overwritten.
func Transition(current LifecycleState, requested RIDStatus, now time.Time) (LifecycleState, []Effect, error) {
	if !requested.IsValid() {
		return current, nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown RID module status "+string(requested))
	}
	next := LifecycleState{Status: requested, DeactivatedAt: current.DeactivatedAt}
	var effects []Effect
	if requested.IsDeactivated() && next.DeactivatedAt == nil {
		stamped := now
		next.DeactivatedAt = &stamped
		effects = append(effects, EffectStampDeactivatedAt)
	}
	return next, effects, nil
}

// RIDModule is a remote-identification transponder fitted to an aircraft.
//
// Invariants:
//   - ModuleESN is non-empty, trimmed and upper-case
//   - RIDID is a non-nil UUID; ModuleESN and RIDID are globally unique
//   - Status and ActivationStatus hold known values
//   - DeactivatedAt goes from unset to set at most once
//   - Deletion is Decommission; the record is never removed
type RIDModule struct {
	ID               uuid.UUID
	OperatorID       uuid.UUID
	AircraftID       uuid.UUID
	ModuleESN        string
	RIDID            uuid.UUID
	ModuleType       ModuleType
	Status           RIDStatus
	ActivationStatus ActivationStatus
	FirmwareVersion  string
	ActivatedAt      *time.Time
	LastSeenAt       *time.Time
	DeactivatedAt    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewRIDModule builds a module and runs the creation entry actions:
// ActivatedAt defaults to now when unset, regardless of ActivationStatus, and
// a module created directly in a deactivated state gets DeactivatedAt stamped.
func NewRIDModule(m RIDModule, now time.Time) (*RIDModule, error) {
	if m.ModuleESN == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "module_esn cannot be empty")
	}
	if m.RIDID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "rid_id cannot be nil")
	}
	if m.OperatorID == uuid.Nil || m.AircraftID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "RID module requires an operator and an aircraft")
	}
	if m.ModuleType == "" {
		m.ModuleType = ModuleTypeNetwork
	}
	if m.Status == "" {
		m.Status = RIDStatusPending
	}
	if m.ActivationStatus == "" {
		m.ActivationStatus = ActivationPending
	}
	if !m.ModuleType.IsValid() || !m.ActivationStatus.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown RID module type or activation status")
	}
	if m.ActivatedAt == nil {
		stamped := now
		m.ActivatedAt = &stamped
	}
	state, _, err := Transition(LifecycleState{}, m.Status, now)
	if err != nil {
		return nil, err
	}
	m.Status = state.Status
	m.DeactivatedAt = state.DeactivatedAt
	m.CreatedAt = now
	m.UpdatedAt = now
	return &m, nil
}

func (m *RIDModule) lifecycle() LifecycleState {
	return LifecycleState{Status: m.Status, DeactivatedAt: m.DeactivatedAt}
}

// ApplyStatus moves the module to requested and returns the entry effects.
func (m *RIDModule) ApplyStatus(requested RIDStatus, now time.Time) ([]Effect, error) {
	next, effects, err := Transition(m.lifecycle(), requested, now)
	if err != nil {
		return nil, err
	}
	m.Status = next.Status
	m.DeactivatedAt = next.DeactivatedAt
	m.UpdatedAt = now
	return effects, nil
}

// Decommission forces the decommissioned state. Calling it again leaves an
// already-set DeactivatedAt untouched.
func (m *RIDModule) Decommission(now time.Time) []Effect {
	effects, _ := m.ApplyStatus(RIDStatusDecommissioned, now)
	return effects
}

// CanHeartbeat rejects heartbeats from decommissioned modules.
func (m *RIDModule) CanHeartbeat() error {
	if m.Status == RIDStatusDecommissioned {
		return dErrors.New(dErrors.CodeInvariantViolation, "RID module is decommissioned")
	}
	return nil
}

// ApplyHeartbeat records that the module was seen at now.
func (m *RIDModule) ApplyHeartbeat(now time.Time) {
	seen := now
	m.LastSeenAt = &seen
	m.UpdatedAt = now
}

// ChangeRIDID replaces the RID identifier. Uniqueness is the store's concern.
func (m *RIDModule) ChangeRIDID(ridID uuid.UUID, now time.Time) error {
	if ridID == uuid.Nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "rid_id cannot be nil")
	}
	m.RIDID = ridID
	m.UpdatedAt = now
	return nil
}
