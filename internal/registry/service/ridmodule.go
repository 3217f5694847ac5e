package service

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	"droneregistry/internal/registry/normalize"
	dErrors "droneregistry/pkg/domain-errors"
	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/requestcontext"
)

// CreateRIDModule registers a module for an existing operator and aircraft.
// A missing rid_id is generated; module_esn and rid_id must be unused.
func (s *Service) CreateRIDModule(ctx context.Context, req *models.CreateRIDModuleRequest) (m *models.RIDModule, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateRIDModule")
	defer func() { endSpan(span, err) }()
	defer s.observeCreate("rid_module", start)

	req.Normalize()
	fe := req.Check()
	now := requestcontext.Now(ctx)

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.checkOperatorRef(ctx, fe, "operator", req.Operator); err != nil {
			return err
		}
		if _, err := s.checkAircraftRef(ctx, fe, "aircraft", req.Aircraft); err != nil {
			return err
		}
		if req.ModuleESN != "" && len(fe["module_esn"]) == 0 {
			if _, err := s.store.FindRIDModuleByESN(ctx, req.ModuleESN); err == nil {
				fe.Add("module_esn", alreadyExists("rid module", "module esn"))
			} else if !isNotFound(err) {
				return storeErr(err, "rid module")
			}
		}
		if req.RIDID != "" && len(fe["rid_id"]) == 0 {
			if _, err := s.store.FindRIDModuleByRIDID(ctx, models.ParseID(req.RIDID)); err == nil {
				fe.Add("rid_id", alreadyExists("rid module", "rid id"))
			} else if !isNotFound(err) {
				return storeErr(err, "rid module")
			}
		}
		if err := fe.Err(); err != nil {
			return err
		}

		built, err := req.Build(now)
		if err != nil {
			return invariantToValidation(err)
		}
		if err := s.store.CreateRIDModule(ctx, built); err != nil {
			return storeErr(err, "rid module")
		}
		m = built
		return s.record(ctx, audit.EventRIDModuleRegistered, "rid_module", m.ID, ridDetail(m))
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("rid_module")
	return m, nil
}

func ridDetail(m *models.RIDModule) map[string]string {
	return map[string]string{
		"module_esn":  m.ModuleESN,
		"rid_id":      m.RIDID.String(),
		"status":      string(m.Status),
		"operator_id": m.OperatorID.String(),
		"aircraft_id": m.AircraftID.String(),
	}
}

func (s *Service) GetRIDModule(ctx context.Context, id uuid.UUID) (*models.RIDModule, error) {
	m, err := s.store.FindRIDModule(ctx, id)
	if err != nil {
		return nil, storeErr(err, "rid module")
	}
	return m, nil
}

// GetRIDModuleByESN looks a module up by its hardware serial.
func (s *Service) GetRIDModuleByESN(ctx context.Context, esn string) (*models.RIDModule, error) {
	esn = normalize.ESN(esn)
	if esn == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "module_esn is required")
	}
	m, err := s.store.FindRIDModuleByESN(ctx, esn)
	if err != nil {
		return nil, storeErr(err, "rid module")
	}
	return m, nil
}

func (s *Service) GetRIDModuleByRIDID(ctx context.Context, ridID uuid.UUID) (*models.RIDModule, error) {
	m, err := s.store.FindRIDModuleByRIDID(ctx, ridID)
	if err != nil {
		return nil, storeErr(err, "rid module")
	}
	return m, nil
}

func (s *Service) ListRIDModules(ctx context.Context, filter models.ListFilter) ([]*models.RIDModule, error) {
	out, err := s.store.ListRIDModules(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "rid module")
	}
	return out, nil
}

// UpdateRIDModule applies a partial update. A status change goes through the
// lifecycle transition, which stamps deactivated_at on first deactivation.
func (s *Service) UpdateRIDModule(ctx context.Context, id uuid.UUID, req *models.UpdateRIDModuleRequest) (m *models.RIDModule, err error) {
	ctx, span := s.startSpan(ctx, "UpdateRIDModule")
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		var (
			effects   []models.Effect
			statusErr error
		)
		updated, err := s.store.ExecuteRIDModule(ctx, id,
			func(current *models.RIDModule) error {
				if req.ModuleESN == nil || *req.ModuleESN == current.ModuleESN {
					return nil
				}
				other, err := s.store.FindRIDModuleByESN(ctx, *req.ModuleESN)
				if err == nil && other.ID != current.ID {
					fe := dErrors.FieldErrors{}
					fe.Add("module_esn", alreadyExists("rid module", "module esn"))
					return fe.Err()
				}
				if err != nil && !isNotFound(err) {
					return storeErr(err, "rid module")
				}
				return nil
			},
			func(current *models.RIDModule) {
				if req.ModuleESN != nil {
					current.ModuleESN = *req.ModuleESN
				}
				if req.ModuleType != nil {
					current.ModuleType = models.ModuleType(*req.ModuleType)
				}
				if req.ActivationStatus != nil {
					current.ActivationStatus = models.ActivationStatus(*req.ActivationStatus)
				}
				if req.FirmwareVersion != nil {
					current.FirmwareVersion = *req.FirmwareVersion
				}
				if req.LastSeenAt != nil {
					seen := *req.LastSeenAt
					current.LastSeenAt = &seen
				}
				if req.Status != nil {
					effects, statusErr = current.ApplyStatus(models.RIDStatus(*req.Status), now)
				}
				current.UpdatedAt = now
			},
		)
		if err != nil {
			return storeErr(err, "rid module")
		}
		if statusErr != nil {
			return invariantToValidation(statusErr)
		}
		m = updated
		if err := s.record(ctx, audit.EventRIDModuleUpdated, "rid_module", m.ID, ridDetail(m)); err != nil {
			return err
		}
		if slices.Contains(effects, models.EffectStampDeactivatedAt) {
			return s.record(ctx, audit.EventRIDModuleDeactivated, "rid_module", m.ID, ridDetail(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if req.Status != nil && s.metrics != nil {
		s.metrics.IncrementTransition(string(m.Status))
	}
	return m, nil
}

// ChangeRIDID replaces a module's rid_id after checking no other module uses it.
func (s *Service) ChangeRIDID(ctx context.Context, id uuid.UUID, req *models.ChangeRIDIDRequest) (m *models.RIDModule, err error) {
	ctx, span := s.startSpan(ctx, "ChangeRIDID")
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ridID := models.ParseID(req.RIDID)
	now := requestcontext.Now(ctx)

	var (
		previous  uuid.UUID
		changeErr error
	)
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		updated, err := s.store.ExecuteRIDModule(ctx, id,
			func(current *models.RIDModule) error {
				other, err := s.store.FindRIDModuleByRIDID(ctx, ridID)
				if err == nil && other.ID != current.ID {
					return dErrors.New(dErrors.CodeConflict, "rid_id is already assigned to another module")
				}
				if err != nil && !isNotFound(err) {
					return storeErr(err, "rid module")
				}
				candidate := *current
				if err := candidate.ChangeRIDID(ridID, now); err != nil {
					return invariantToValidation(err)
				}
				previous = current.RIDID
				return nil
			},
			func(current *models.RIDModule) {
				changeErr = current.ChangeRIDID(ridID, now)
			},
		)
		if err != nil {
			return storeErr(err, "rid module")
		}
		if changeErr != nil {
			return invariantToValidation(changeErr)
		}
		m = updated
		detail := ridDetail(m)
		detail["previous_rid_id"] = previous.String()
		return s.record(ctx, audit.EventRIDModuleRIDIDChanged, "rid_module", m.ID, detail)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DecommissionRIDModule is the delete operation. The record is kept and the
// call is idempotent.
func (s *Service) DecommissionRIDModule(ctx context.Context, id uuid.UUID) (m *models.RIDModule, err error) {
	ctx, span := s.startSpan(ctx, "DecommissionRIDModule")
	defer func() { endSpan(span, err) }()

	now := requestcontext.Now(ctx)
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		updated, err := s.store.ExecuteRIDModule(ctx, id,
			func(*models.RIDModule) error { return nil },
			func(current *models.RIDModule) { current.Decommission(now) },
		)
		if err != nil {
			return storeErr(err, "rid module")
		}
		m = updated
		return s.record(ctx, audit.EventRIDModuleDecommissioned, "rid_module", m.ID, ridDetail(m))
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementTransition(string(models.RIDStatusDecommissioned))
	}
	return m, nil
}

// Heartbeat records that a module was seen. Decommissioned modules are
// rejected with a conflict.
func (s *Service) Heartbeat(ctx context.Context, id uuid.UUID) (m *models.RIDModule, err error) {
	ctx, span := s.startSpan(ctx, "Heartbeat")
	defer func() { endSpan(span, err) }()

	now := requestcontext.Now(ctx)
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		updated, err := s.store.ExecuteRIDModule(ctx, id,
			func(current *models.RIDModule) error {
				if err := current.CanHeartbeat(); err != nil {
					return dErrors.Wrap(err, dErrors.CodeConflict, "RID module is decommissioned")
				}
				return nil
			},
			func(current *models.RIDModule) { current.ApplyHeartbeat(now) },
		)
		if err != nil {
			return storeErr(err, "rid module")
		}
		m = updated
		return s.record(ctx, audit.EventRIDModuleHeartbeat, "rid_module", m.ID, map[string]string{
			"module_esn": m.ModuleESN,
		})
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementHeartbeat()
	}
	return m, nil
}
