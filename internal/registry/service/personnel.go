package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/requestcontext"
)

// CreatePilot persists Person, Address and Pilot, then links tests.
func (s *Service) CreatePilot(ctx context.Context, req *models.CreatePilotRequest) (p *models.Pilot, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreatePilot")
	defer func() { endSpan(span, err) }()
	defer s.observeCreate("pilot", start)

	req.Normalize()
	fe := req.Check()
	now := requestcontext.Now(ctx)

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.checkOperatorRef(ctx, fe, "operator", req.Operator); err != nil {
			return err
		}
		if err := s.checkTestRefs(ctx, fe, "tests", req.Tests); err != nil {
			return err
		}
		if err := fe.Err(); err != nil {
			return err
		}
		p = req.Build(now)
		if err := s.store.CreatePilot(ctx, p); err != nil {
			return storeErr(err, "pilot")
		}
		return s.record(ctx, audit.EventPilotCreated, "pilot", p.ID, map[string]string{
			"operator_id": p.OperatorID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("pilot")
	return p, nil
}

func (s *Service) GetPilot(ctx context.Context, id uuid.UUID) (*models.Pilot, error) {
	p, err := s.store.FindPilot(ctx, id)
	if err != nil {
		return nil, storeErr(err, "pilot")
	}
	return p, nil
}

func (s *Service) ListPilots(ctx context.Context, filter models.ListFilter) ([]*models.Pilot, error) {
	out, err := s.store.ListPilots(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "pilot")
	}
	return out, nil
}

// CreateContact persists Person, Address and Contact.
func (s *Service) CreateContact(ctx context.Context, req *models.CreateContactRequest) (c *models.Contact, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateContact")
	defer func() { endSpan(span, err) }()
	defer s.observeCreate("contact", start)

	req.Normalize()
	fe := req.Check()
	now := requestcontext.Now(ctx)

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.checkOperatorRef(ctx, fe, "operator", req.Operator); err != nil {
			return err
		}
		if err := fe.Err(); err != nil {
			return err
		}
		c = req.Build(now)
		if err := s.store.CreateContact(ctx, c); err != nil {
			return storeErr(err, "contact")
		}
		return s.record(ctx, audit.EventContactCreated, "contact", c.ID, map[string]string{
			"operator_id": c.OperatorID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("contact")
	return c, nil
}

func (s *Service) GetContact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := s.store.FindContact(ctx, id)
	if err != nil {
		return nil, storeErr(err, "contact")
	}
	return c, nil
}

func (s *Service) ListContacts(ctx context.Context, filter models.ListFilter) ([]*models.Contact, error) {
	out, err := s.store.ListContacts(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "contact")
	}
	return out, nil
}
