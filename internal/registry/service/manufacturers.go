package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/requestcontext"
)

// CreateManufacturer persists Address then Manufacturer in one transaction.
func (s *Service) CreateManufacturer(ctx context.Context, req *models.CreateManufacturerRequest) (m *models.Manufacturer, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateManufacturer")
	defer func() { endSpan(span, err) }()
	defer s.observeCreate("manufacturer", start)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m = req.Build(requestcontext.Now(ctx))
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateManufacturer(ctx, m); err != nil {
			return storeErr(err, "manufacturer")
		}
		return s.record(ctx, audit.EventManufacturerCreated, "manufacturer", m.ID, map[string]string{
			"full_name": m.FullName,
		})
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("manufacturer")
	return m, nil
}

func (s *Service) GetManufacturer(ctx context.Context, id uuid.UUID) (*models.Manufacturer, error) {
	m, err := s.store.FindManufacturer(ctx, id)
	if err != nil {
		return nil, storeErr(err, "manufacturer")
	}
	return m, nil
}

func (s *Service) ListManufacturers(ctx context.Context) ([]*models.Manufacturer, error) {
	out, err := s.store.ListManufacturers(ctx)
	if err != nil {
		return nil, storeErr(err, "manufacturer")
	}
	return out, nil
}

// resolveDefaultManufacturer returns the oldest manufacturer, creating the
// synthetic default when there is none. It must run inside a transaction so
// the created row commits or rolls back with the aircraft that needed it.
func (s *Service) resolveDefaultManufacturer(ctx context.Context, now time.Time) (*models.Manufacturer, error) {
	m, err := s.store.FirstManufacturer(ctx)
	if err == nil {
		return m, nil
	}
	if !isNotFound(err) {
		return nil, storeErr(err, "manufacturer")
	}

	m, created, err := s.store.EnsureManufacturer(ctx, models.NewDefaultManufacturer(now))
	if err != nil {
		return nil, storeErr(err, "manufacturer")
	}
	if !created {
		return m, nil
	}
	if s.metrics != nil {
		s.metrics.IncrementDefaultManufacturer()
	}
	if err := s.record(ctx, audit.EventDefaultManufacturerCreated, "manufacturer", m.ID, nil); err != nil {
		return nil, err
	}
	return m, nil
}

// SeedManufacturer creates the manufacturer req describes unless the
// registry already holds one. It reports whether a row was created.
func (s *Service) SeedManufacturer(ctx context.Context, req *models.CreateManufacturerRequest) (m *models.Manufacturer, created bool, err error) {
	ctx, span := s.startSpan(ctx, "SeedManufacturer")
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.store.FirstManufacturer(ctx)
		if err == nil {
			m = existing
			return nil
		}
		if !isNotFound(err) {
			return storeErr(err, "manufacturer")
		}
		m = req.Build(requestcontext.Now(ctx))
		if err := s.store.CreateManufacturer(ctx, m); err != nil {
			return storeErr(err, "manufacturer")
		}
		created = true
		return s.record(ctx, audit.EventManufacturerCreated, "manufacturer", m.ID, map[string]string{
			"full_name": m.FullName,
			"source":    "seed",
		})
	})
	if err != nil {
		return nil, false, err
	}
	return m, created, nil
}
