package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	"droneregistry/internal/registry/normalize"
	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/requestcontext"
)

// CreateAircraft resolves the manufacturer, falling back to the default one,
// and persists the optional type certificate with the aircraft.
func (s *Service) CreateAircraft(ctx context.Context, req *models.CreateAircraftRequest) (a *models.Aircraft, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateAircraft")
	defer func() { endSpan(span, err) }()
	defer s.observeCreate("aircraft", start)

	req.Normalize()
	fe := req.Check()
	now := requestcontext.Now(ctx)

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.checkOperatorRef(ctx, fe, "operator", req.Operator); err != nil {
			return err
		}
		var manufacturerID uuid.UUID
		if req.Manufacturer != "" && len(fe["manufacturer"]) == 0 {
			m, err := s.store.FindManufacturer(ctx, models.ParseID(req.Manufacturer))
			switch {
			case err == nil:
				manufacturerID = m.ID
			case isNotFound(err):
				fe.Add("manufacturer", doesNotExist(req.Manufacturer))
			default:
				return storeErr(err, "manufacturer")
			}
		}
		if req.ESN != "" && len(fe["esn"]) == 0 {
			if _, err := s.store.FindAircraftByESN(ctx, req.ESN); err == nil {
				fe.Add("esn", alreadyExists("aircraft", "esn"))
			} else if !isNotFound(err) {
				return storeErr(err, "aircraft")
			}
		}
		if err := fe.Err(); err != nil {
			return err
		}

		if manufacturerID == uuid.Nil {
			m, err := s.resolveDefaultManufacturer(ctx, now)
			if err != nil {
				return err
			}
			manufacturerID = m.ID
		}
		built, err := req.Build(manufacturerID, now)
		if err != nil {
			return invariantToValidation(err)
		}
		if err := s.store.CreateAircraft(ctx, built); err != nil {
			return storeErr(err, "aircraft")
		}
		a = built
		return s.record(ctx, audit.EventAircraftCreated, "aircraft", a.ID, map[string]string{
			"esn":             a.ESN,
			"operator_id":     a.OperatorID.String(),
			"manufacturer_id": a.ManufacturerID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("aircraft")
	return a, nil
}

func (s *Service) GetAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error) {
	a, err := s.store.FindAircraft(ctx, id)
	if err != nil {
		return nil, storeErr(err, "aircraft")
	}
	return a, nil
}

func (s *Service) GetAircraftByESN(ctx context.Context, esn string) (*models.Aircraft, error) {
	a, err := s.store.FindAircraftByESN(ctx, normalize.ESN(esn))
	if err != nil {
		return nil, storeErr(err, "aircraft")
	}
	return a, nil
}

func (s *Service) ListAircraft(ctx context.Context, filter models.ListFilter) ([]*models.Aircraft, error) {
	out, err := s.store.ListAircraft(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "aircraft")
	}
	return out, nil
}
