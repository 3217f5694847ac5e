package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
)

// Privileged views are assembled from back-references on every call.

type OperatorPrivileged struct {
	Operator       *models.Operator
	Activities     []*models.Activity
	Authorizations []*models.Authorization
}

type PilotPrivileged struct {
	Pilot *models.Pilot
	Tests []*models.Test
}

type ContactPrivileged struct {
	Contact        *models.Contact
	Operator       *models.Operator
	Activities     []*models.Activity
	Authorizations []*models.Authorization
}

func (s *Service) observePrivileged(entity string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObservePrivilegedView(entity, start)
	}
}

func (s *Service) operatorGrants(ctx context.Context, op *models.Operator) ([]*models.Activity, []*models.Authorization, error) {
	activities, err := s.store.FindActivities(ctx, op.ActivityIDs)
	if err != nil {
		return nil, nil, storeErr(err, "activity")
	}
	authorizations, err := s.store.FindAuthorizations(ctx, op.AuthorizationIDs)
	if err != nil {
		return nil, nil, storeErr(err, "authorization")
	}
	return activities, authorizations, nil
}

func (s *Service) GetOperatorPrivileged(ctx context.Context, id uuid.UUID) (view *OperatorPrivileged, err error) {
	defer s.observePrivileged("operator", time.Now())
	ctx, span := s.startSpan(ctx, "GetOperatorPrivileged")
	defer func() { endSpan(span, err) }()

	op, err := s.store.FindOperator(ctx, id)
	if err != nil {
		return nil, storeErr(err, "operator")
	}
	activities, authorizations, err := s.operatorGrants(ctx, op)
	if err != nil {
		return nil, err
	}
	return &OperatorPrivileged{Operator: op, Activities: activities, Authorizations: authorizations}, nil
}

func (s *Service) GetPilotPrivileged(ctx context.Context, id uuid.UUID) (view *PilotPrivileged, err error) {
	defer s.observePrivileged("pilot", time.Now())
	ctx, span := s.startSpan(ctx, "GetPilotPrivileged")
	defer func() { endSpan(span, err) }()

	p, err := s.store.FindPilot(ctx, id)
	if err != nil {
		return nil, storeErr(err, "pilot")
	}
	tests, err := s.store.FindTests(ctx, p.TestIDs)
	if err != nil {
		return nil, storeErr(err, "test")
	}
	return &PilotPrivileged{Pilot: p, Tests: tests}, nil
}

func (s *Service) GetContactPrivileged(ctx context.Context, id uuid.UUID) (view *ContactPrivileged, err error) {
	defer s.observePrivileged("contact", time.Now())
	ctx, span := s.startSpan(ctx, "GetContactPrivileged")
	defer func() { endSpan(span, err) }()

	c, err := s.store.FindContact(ctx, id)
	if err != nil {
		return nil, storeErr(err, "contact")
	}
	op, err := s.store.FindOperator(ctx, c.OperatorID)
	if err != nil {
		return nil, storeErr(err, "operator")
	}
	activities, authorizations, err := s.operatorGrants(ctx, op)
	if err != nil {
		return nil, err
	}
	return &ContactPrivileged{Contact: c, Operator: op, Activities: activities, Authorizations: authorizations}, nil
}
