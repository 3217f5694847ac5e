package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	"droneregistry/internal/registry/secrets"
	dErrors "droneregistry/pkg/domain-errors"
	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/requestcontext"
)

const msgInvalidCredentials = "Invalid credentials."

// CreateOperator persists Address then Operator, plus activity and
// authorization links, in one transaction.
func (s *Service) CreateOperator(ctx context.Context, req *models.CreateOperatorRequest) (op *models.Operator, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateOperator")
	defer func() { endSpan(span, err) }()
	defer s.observeCreate("operator", start)

	req.Normalize()
	fe := req.Check()

	// bcrypt is slow; hash before taking the store lock.
	passwordHash := ""
	if req.Password != "" && len(fe["password"]) == 0 {
		if passwordHash, err = secrets.Hash(req.Password); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
				fe.Add("password", err.Error())
			} else {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
			}
		}
	}

	now := requestcontext.Now(ctx)
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkActivityRefs(ctx, fe, "authorized_activities", req.AuthorizedActivities); err != nil {
			return err
		}
		if err := s.checkAuthorizationRefs(ctx, fe, "operational_authorizations", req.OperationalAuthorizations); err != nil {
			return err
		}
		if req.Email != "" && len(fe["email"]) == 0 {
			if _, err := s.store.FindOperatorByEmail(ctx, req.Email); err == nil {
				fe.Add("email", alreadyExists("operator", "email"))
			} else if !isNotFound(err) {
				return storeErr(err, "operator")
			}
		}
		if err := fe.Err(); err != nil {
			return err
		}

		op = req.Build(now)
		op.PasswordHash = passwordHash
		if err := s.store.CreateOperator(ctx, op); err != nil {
			return storeErr(err, "operator")
		}
		return s.record(ctx, audit.EventOperatorCreated, "operator", op.ID, map[string]string{
			"company_name": op.CompanyName,
		})
	})
	if err != nil {
		return nil, err
	}
	s.incrementCreated("operator")
	return op, nil
}

func (s *Service) GetOperator(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	op, err := s.store.FindOperator(ctx, id)
	if err != nil {
		return nil, storeErr(err, "operator")
	}
	return op, nil
}

func (s *Service) ListOperators(ctx context.Context) ([]*models.Operator, error) {
	out, err := s.store.ListOperators(ctx)
	if err != nil {
		return nil, storeErr(err, "operator")
	}
	return out, nil
}

// DeleteOperator removes an operator and the address it owns. Operators that
// still have aircraft, pilots, contacts or RID modules are refused.
func (s *Service) DeleteOperator(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteOperator")
	defer func() { endSpan(span, err) }()

	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		op, err := s.store.FindOperator(ctx, id)
		if err != nil {
			return storeErr(err, "operator")
		}
		if err := s.checkNoDependents(ctx, id); err != nil {
			return err
		}
		if err := s.store.DeleteOperator(ctx, id); err != nil {
			return storeErr(err, "operator")
		}
		return s.record(ctx, audit.EventOperatorDeleted, "operator", id, map[string]string{
			"company_name": op.CompanyName,
		})
	})
}

func (s *Service) checkNoDependents(ctx context.Context, id uuid.UUID) error {
	filter := models.ListFilter{OperatorID: id}
	aircraft, err := s.store.ListAircraft(ctx, filter)
	if err != nil {
		return storeErr(err, "aircraft")
	}
	pilots, err := s.store.ListPilots(ctx, filter)
	if err != nil {
		return storeErr(err, "pilot")
	}
	contacts, err := s.store.ListContacts(ctx, filter)
	if err != nil {
		return storeErr(err, "contact")
	}
	modules, err := s.store.ListRIDModules(ctx, filter)
	if err != nil {
		return storeErr(err, "rid module")
	}
	if len(aircraft)+len(pilots)+len(contacts)+len(modules) > 0 {
		return dErrors.New(dErrors.CodeConflict, "operator has dependent records")
	}
	return nil
}

// OperatorAircraft lists the aircraft of an existing operator.
func (s *Service) OperatorAircraft(ctx context.Context, id uuid.UUID) ([]*models.Aircraft, error) {
	if _, err := s.store.FindOperator(ctx, id); err != nil {
		return nil, storeErr(err, "operator")
	}
	out, err := s.store.ListAircraft(ctx, models.ListFilter{OperatorID: id})
	if err != nil {
		return nil, storeErr(err, "aircraft")
	}
	return out, nil
}

// Login checks an operator's email and password. Unknown emails and wrong
// passwords fail identically.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (op *models.Operator, err error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	op, err = s.store.FindOperatorByEmail(ctx, req.Email)
	if err != nil && !isNotFound(err) {
		return nil, storeErr(err, "operator")
	}
	if op != nil {
		err = secrets.Verify(req.Password, op.PasswordHash)
		if err != nil && !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
		}
	}

	if op == nil || err != nil {
		s.countLogin("failed")
		entityID := uuid.Nil
		if op != nil {
			entityID = op.ID
		}
		if recErr := s.recordOutsideTx(ctx, audit.EventOperatorLoginFailed, entityID, req.Email); recErr != nil {
			return nil, recErr
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, msgInvalidCredentials)
	}

	s.countLogin("succeeded")
	if err := s.recordOutsideTx(ctx, audit.EventOperatorLoginSucceeded, op.ID, req.Email); err != nil {
		return nil, err
	}
	return op, nil
}

func (s *Service) recordOutsideTx(ctx context.Context, event audit.AuditEvent, operatorID uuid.UUID, email string) error {
	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		return s.record(ctx, event, "operator", operatorID, map[string]string{"email": email})
	})
}

func (s *Service) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLogin(outcome)
	}
}
