package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	dErrors "droneregistry/pkg/domain-errors"
)

type RIDModuleSuite struct {
	suite.Suite
	now time.Time
}

func TestRIDModuleSuite(t *testing.T) {
	suite.Run(t, new(RIDModuleSuite))
}

func (s *RIDModuleSuite) SetupTest() {
	s.now = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func (s *RIDModuleSuite) newModule(status RIDStatus) *RIDModule {
	m, err := NewRIDModule(RIDModule{
		ID:         uuid.New(),
		OperatorID: uuid.New(),
		AircraftID: uuid.New(),
		ModuleESN:  "RID-0001",
		RIDID:      uuid.New(),
		Status:     status,
	}, s.now)
	s.Require().NoError(err)
	return m
}

func (s *RIDModuleSuite) TestTransition() {
	s.Run("entering a deactivated state stamps deactivated_at once", func() {
		for _, status := range []RIDStatus{RIDStatusInactive, RIDStatusDecommissioned, RIDStatusLost} {
			next, effects, err := Transition(LifecycleState{Status: RIDStatusActive}, status, s.now)
			s.Require().NoError(err)
			s.Equal(status, next.Status)
			s.Require().NotNil(next.DeactivatedAt)
			s.Equal(s.now, *next.DeactivatedAt)
			s.Equal([]Effect{EffectStampDeactivatedAt}, effects)
		}
	})

	s.Run("an already-set deactivated_at is never overwritten", func() {
		earlier := s.now.Add(-time.Hour)
		next, effects, err := Transition(LifecycleState{Status: RIDStatusInactive, DeactivatedAt: &earlier}, RIDStatusLost, s.now)
		s.Require().NoError(err)
		s.Equal(earlier, *next.DeactivatedAt)
		s.Empty(effects)
	})

	s.Run("re-activation keeps deactivated_at", func() {
		earlier := s.now.Add(-time.Hour)
		next, effects, err := Transition(LifecycleState{Status: RIDStatusLost, DeactivatedAt: &earlier}, RIDStatusActive, s.now)
		s.Require().NoError(err)
		s.Equal(RIDStatusActive, next.Status)
		s.Equal(earlier, *next.DeactivatedAt)
		s.Empty(effects)
	})

	s.Run("pending to active has no effects", func() {
		next, effects, err := Transition(LifecycleState{Status: RIDStatusPending}, RIDStatusActive, s.now)
		s.Require().NoError(err)
		s.Nil(next.DeactivatedAt)
		s.Empty(effects)
	})

	s.Run("unknown status is an invariant violation", func() {
		current := LifecycleState{Status: RIDStatusActive}
		next, _, err := Transition(current, "exploded", s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal(current, next)
	})
}

func (s *RIDModuleSuite) TestNewRIDModule() {
	s.Run("defaults and activated_at quirk", func() {
		m, err := NewRIDModule(RIDModule{
			OperatorID:       uuid.New(),
			AircraftID:       uuid.New(),
			ModuleESN:        "RID-0002",
			RIDID:            uuid.New(),
			ActivationStatus: ActivationDeactivated,
		}, s.now)
		s.Require().NoError(err)
		s.Equal(RIDStatusPending, m.Status)
		s.Equal(ModuleTypeNetwork, m.ModuleType)
		s.Require().NotNil(m.ActivatedAt)
		s.Equal(s.now, *m.ActivatedAt)
		s.Nil(m.DeactivatedAt)
	})

	s.Run("supplied activated_at is kept", func() {
		supplied := s.now.Add(-24 * time.Hour)
		m, err := NewRIDModule(RIDModule{
			OperatorID: uuid.New(), AircraftID: uuid.New(), ModuleESN: "X", RIDID: uuid.New(), ActivatedAt: &supplied,
		}, s.now)
		s.Require().NoError(err)
		s.Equal(supplied, *m.ActivatedAt)
	})

	s.Run("created lost is stamped deactivated", func() {
		m := s.newModule(RIDStatusLost)
		s.Require().NotNil(m.DeactivatedAt)
	})

	s.Run("invariants", func() {
		_, err := NewRIDModule(RIDModule{OperatorID: uuid.New(), AircraftID: uuid.New(), RIDID: uuid.New()}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		_, err = NewRIDModule(RIDModule{OperatorID: uuid.New(), AircraftID: uuid.New(), ModuleESN: "X"}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		_, err = NewRIDModule(RIDModule{ModuleESN: "X", RIDID: uuid.New()}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *RIDModuleSuite) TestDecommissionIsIdempotent() {
	m := s.newModule(RIDStatusActive)

	effects := m.Decommission(s.now)
	s.Equal([]Effect{EffectStampDeactivatedAt}, effects)
	first := *m.DeactivatedAt

	later := s.now.Add(time.Hour)
	effects = m.Decommission(later)
	s.Empty(effects)
	s.Equal(RIDStatusDecommissioned, m.Status)
	s.Equal(first, *m.DeactivatedAt)
	s.Equal(later, m.UpdatedAt)
}

func (s *RIDModuleSuite) TestHeartbeat() {
	m := s.newModule(RIDStatusActive)
	s.Require().NoError(m.CanHeartbeat())
	m.ApplyHeartbeat(s.now)
	s.Equal(s.now, *m.LastSeenAt)

	m.Decommission(s.now)
	s.True(dErrors.HasCode(m.CanHeartbeat(), dErrors.CodeInvariantViolation))
}

func (s *RIDModuleSuite) TestChangeRIDID() {
	m := s.newModule(RIDStatusActive)
	next := uuid.New()
	s.Require().NoError(m.ChangeRIDID(next, s.now))
	s.Equal(next, m.RIDID)
	s.Error(m.ChangeRIDID(uuid.Nil, s.now))
}
