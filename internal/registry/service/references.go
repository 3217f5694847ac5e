package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	dErrors "droneregistry/pkg/domain-errors"
	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/requestcontext"
)

// Foreign keys that parse but name no row are field errors, not 404s.

func (s *Service) checkOperatorRef(ctx context.Context, fe dErrors.FieldErrors, field, raw string) (*models.Operator, error) {
	if raw == "" || len(fe[field]) > 0 {
		return nil, nil
	}
	op, err := s.store.FindOperator(ctx, models.ParseID(raw))
	if err != nil {
		if isNotFound(err) {
			fe.Add(field, doesNotExist(raw))
			return nil, nil
		}
		return nil, storeErr(err, "operator")
	}
	return op, nil
}

func (s *Service) checkAircraftRef(ctx context.Context, fe dErrors.FieldErrors, field, raw string) (*models.Aircraft, error) {
	if raw == "" || len(fe[field]) > 0 {
		return nil, nil
	}
	a, err := s.store.FindAircraft(ctx, models.ParseID(raw))
	if err != nil {
		if isNotFound(err) {
			fe.Add(field, doesNotExist(raw))
			return nil, nil
		}
		return nil, storeErr(err, "aircraft")
	}
	return a, nil
}

func addMissing[T any](fe dErrors.FieldErrors, field string, ids []uuid.UUID, found []T, idOf func(T) uuid.UUID) {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, f := range found {
		have[idOf(f)] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			fe.Add(field, doesNotExist(id.String()))
		}
	}
}

func (s *Service) checkActivityRefs(ctx context.Context, fe dErrors.FieldErrors, field string, raw []string) error {
	if len(raw) == 0 || len(fe[field]) > 0 {
		return nil
	}
	ids := models.ParseIDs(raw)
	found, err := s.store.FindActivities(ctx, ids)
	if err != nil {
		return storeErr(err, "activity")
	}
	addMissing(fe, field, ids, found, func(a *models.Activity) uuid.UUID { return a.ID })
	return nil
}

func (s *Service) checkAuthorizationRefs(ctx context.Context, fe dErrors.FieldErrors, field string, raw []string) error {
	if len(raw) == 0 || len(fe[field]) > 0 {
		return nil
	}
	ids := models.ParseIDs(raw)
	found, err := s.store.FindAuthorizations(ctx, ids)
	if err != nil {
		return storeErr(err, "authorization")
	}
	addMissing(fe, field, ids, found, func(a *models.Authorization) uuid.UUID { return a.ID })
	return nil
}

func (s *Service) checkTestRefs(ctx context.Context, fe dErrors.FieldErrors, field string, raw []string) error {
	if len(raw) == 0 || len(fe[field]) > 0 {
		return nil
	}
	ids := models.ParseIDs(raw)
	found, err := s.store.FindTests(ctx, ids)
	if err != nil {
		return storeErr(err, "test")
	}
	addMissing(fe, field, ids, found, func(t *models.Test) uuid.UUID { return t.ID })
	return nil
}

// -----------------------------------------------------------------------------
// Activities, authorizations, tests
// -----------------------------------------------------------------------------

func (s *Service) CreateActivity(ctx context.Context, req *models.CreateActivityRequest) (a *models.Activity, err error) {
	ctx, span := s.startSpan(ctx, "CreateActivity")
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a = req.Build(requestcontext.Now(ctx))
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateActivity(ctx, a); err != nil {
			return storeErr(err, "activity")
		}
		return s.record(ctx, audit.EventActivityCreated, "activity", a.ID, map[string]string{"name": a.Name})
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("activity")
	return a, nil
}

func (s *Service) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	out, err := s.store.ListActivities(ctx)
	if err != nil {
		return nil, storeErr(err, "activity")
	}
	return out, nil
}

func (s *Service) CreateAuthorization(ctx context.Context, req *models.CreateAuthorizationRequest) (a *models.Authorization, err error) {
	ctx, span := s.startSpan(ctx, "CreateAuthorization")
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a = req.Build(requestcontext.Now(ctx))
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateAuthorization(ctx, a); err != nil {
			return storeErr(err, "authorization")
		}
		return s.record(ctx, audit.EventAuthorizationCreated, "authorization", a.ID, map[string]string{"title": a.Title})
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("authorization")
	return a, nil
}

func (s *Service) ListAuthorizations(ctx context.Context) ([]*models.Authorization, error) {
	out, err := s.store.ListAuthorizations(ctx)
	if err != nil {
		return nil, storeErr(err, "authorization")
	}
	return out, nil
}

func (s *Service) CreateTest(ctx context.Context, req *models.CreateTestRequest) (t *models.Test, err error) {
	ctx, span := s.startSpan(ctx, "CreateTest")
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	t = req.Build(requestcontext.Now(ctx))
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateTest(ctx, t); err != nil {
			return storeErr(err, "test")
		}
		return s.record(ctx, audit.EventTestCreated, "test", t.ID, map[string]string{"name": t.Name})
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("test")
	return t, nil
}

func (s *Service) ListTests(ctx context.Context) ([]*models.Test, error) {
	out, err := s.store.ListTests(ctx)
	if err != nil {
		return nil, storeErr(err, "test")
	}
	return out, nil
}

func (s *Service) observeCreate(entity string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCreate(entity, start)
	}
}
