package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"droneregistry/internal/registry/models"
	"droneregistry/internal/registry/service"
	regmemory "droneregistry/internal/registry/store/memory"
	dErrors "droneregistry/pkg/domain-errors"
	auditmemory "droneregistry/pkg/platform/audit/store/memory"
	"droneregistry/pkg/platform/audit/outbox"
	"droneregistry/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	store  *regmemory.Store
	outbox *auditmemory.InMemoryStore
	svc    *service.Service
	ctx    context.Context
	now    time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = regmemory.New()
	s.outbox = auditmemory.NewInMemoryStore()
	s.svc = service.New(s.store, service.WithAuditPublisher(outbox.New(s.outbox)))
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func address() *models.AddressInput {
	return &models.AddressInput{AddressLine1: "1 Main St", City: "Dubai", Country: "uae"}
}

func person() *models.PersonInput {
	return &models.PersonInput{FirstName: "Ana", LastName: "Pilot", Email: "ana@example.com", PhoneNumber: "+971 50-000-0000"}
}

func (s *ServiceSuite) createOperator(email string) *models.Operator {
	op, err := s.svc.CreateOperator(s.ctx, &models.CreateOperatorRequest{
		CompanyName: "Skyways", Email: email, Address: address(), Password: "hunter2hunter2",
	})
	s.Require().NoError(err)
	return op
}

func (s *ServiceSuite) createAircraft(operatorID uuid.UUID, esn string) *models.Aircraft {
	a, err := s.svc.CreateAircraft(s.ctx, &models.CreateAircraftRequest{
		Operator: operatorID.String(), ESN: esn, Model: "Mavic",
	})
	s.Require().NoError(err)
	return a
}

func fieldsOf(err error) map[string][]string {
	return dErrors.FieldsOf(err)
}

func (s *ServiceSuite) TestCreateOperator() {
	s.Run("defaults blank address lines and normalizes country", func() {
		op := s.createOperator("ops@skyways.example")
		s.Equal("-", op.Address.AddressLine2)
		s.Equal("-", op.Address.AddressLine3)
		s.Equal("0", op.Address.Postcode)
		s.Equal("AE", op.Address.Country)
		s.NotEmpty(op.PasswordHash)
		s.Contains(s.outbox.Actions(), "operator_created")
	})

	s.Run("duplicate email is a field error", func() {
		_, err := s.svc.CreateOperator(s.ctx, &models.CreateOperatorRequest{
			CompanyName: "Other", Email: "ops@SKYWAYS.example", Address: address(),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(fieldsOf(err), "email")
	})

	s.Run("unknown activity is a field error and nothing persists", func() {
		before, err := s.svc.ListOperators(s.ctx)
		s.Require().NoError(err)

		missing := uuid.NewString()
		_, err = s.svc.CreateOperator(s.ctx, &models.CreateOperatorRequest{
			CompanyName: "Ghost", Email: "ghost@example.com", Address: address(),
			AuthorizedActivities: []string{missing},
		})
		s.Require().Error(err)
		s.Equal([]string{`Invalid pk "` + missing + `" - object does not exist.`}, fieldsOf(err)["authorized_activities"])

		after, err := s.svc.ListOperators(s.ctx)
		s.Require().NoError(err)
		s.Len(after, len(before))
	})

	s.Run("collects every failing field", func() {
		_, err := s.svc.CreateOperator(s.ctx, &models.CreateOperatorRequest{PhoneNumber: "12"})
		s.Require().Error(err)
		fields := fieldsOf(err)
		s.Contains(fields, "company_name")
		s.Contains(fields, "email")
		s.Contains(fields, "address")
		s.Contains(fields, "phone_number")
	})
}

func (s *ServiceSuite) TestLogin() {
	s.createOperator("login@skyways.example")

	s.Run("valid credentials", func() {
		op, err := s.svc.Login(s.ctx, &models.LoginRequest{Email: "login@skyways.example", Password: "hunter2hunter2"})
		s.Require().NoError(err)
		s.Equal("Skyways", op.CompanyName)
	})

	s.Run("wrong password", func() {
		_, err := s.svc.Login(s.ctx, &models.LoginRequest{Email: "login@skyways.example", Password: "nope"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Contains(s.outbox.Actions(), "operator_login_failed")
	})

	s.Run("unknown email", func() {
		_, err := s.svc.Login(s.ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("missing fields", func() {
		_, err := s.svc.Login(s.ctx, &models.LoginRequest{Email: "login@skyways.example"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestCreateAircraft() {
	op := s.createOperator("fleet@skyways.example")

	s.Run("without manufacturer gets the default one", func() {
		a := s.createAircraft(op.ID, "esn-001")
		s.Equal("ESN-001", a.ESN)
		s.Equal(models.DefaultICAODesignator, a.ICAOAircraftTypeDesignator)

		m, err := s.svc.GetManufacturer(s.ctx, a.ManufacturerID)
		s.Require().NoError(err)
		s.Equal("Default Manufacturer", m.FullName)
		s.Equal("DEF", m.Acronym)
		s.Contains(s.outbox.Actions(), "default_manufacturer_created")
	})

	s.Run("reuses the first manufacturer", func() {
		a := s.createAircraft(op.ID, "esn-002")
		all, err := s.svc.ListManufacturers(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 1)
		s.Equal(all[0].ID, a.ManufacturerID)
	})

	s.Run("registration mark longer than 10", func() {
		_, err := s.svc.CreateAircraft(s.ctx, &models.CreateAircraftRequest{
			Operator: op.ID.String(), ESN: "esn-003", Model: "Mavic", RegistrationMark: "ABCDEFGHIJK",
		})
		s.Require().Error(err)
		s.Equal([]string{"Ensure this field has no more than 10 characters (received 11)."}, fieldsOf(err)["registration_mark"])
	})

	s.Run("duplicate esn", func() {
		_, err := s.svc.CreateAircraft(s.ctx, &models.CreateAircraftRequest{Operator: op.ID.String(), ESN: "ESN-001", Model: "Mavic"})
		s.Require().Error(err)
		s.Contains(fieldsOf(err), "esn")
	})

	s.Run("unknown operator and manufacturer", func() {
		_, err := s.svc.CreateAircraft(s.ctx, &models.CreateAircraftRequest{
			Operator: uuid.NewString(), Manufacturer: uuid.NewString(), ESN: "esn-004", Model: "Mavic",
		})
		s.Require().Error(err)
		s.Contains(fieldsOf(err), "operator")
		s.Contains(fieldsOf(err), "manufacturer")
	})

	s.Run("lookup by esn is case insensitive", func() {
		a, err := s.svc.GetAircraftByESN(s.ctx, " esn-002 ")
		s.Require().NoError(err)
		s.Equal("ESN-002", a.ESN)
	})

	s.Run("operator aircraft of unknown operator", func() {
		_, err := s.svc.OperatorAircraft(s.ctx, uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestConcurrentAircraftCreateOneDefaultManufacturer() {
	op := s.createOperator("race@skyways.example")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.svc.CreateAircraft(s.ctx, &models.CreateAircraftRequest{
				Operator: op.ID.String(), ESN: "race-" + strings.Repeat("x", i+1), Model: "Mavic",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	all, err := s.svc.ListManufacturers(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)

	aircraft, err := s.svc.ListAircraft(s.ctx, models.ListFilter{OperatorID: op.ID})
	s.Require().NoError(err)
	s.Len(aircraft, 20)
	for _, a := range aircraft {
		s.Equal(all[0].ID, a.ManufacturerID)
	}
}

func (s *ServiceSuite) TestPrivilegedViews() {
	act, err := s.svc.CreateActivity(s.ctx, &models.CreateActivityRequest{Name: "Aerial survey"})
	s.Require().NoError(err)
	auth, err := s.svc.CreateAuthorization(s.ctx, &models.CreateAuthorizationRequest{Title: "BVLOS"})
	s.Require().NoError(err)
	tst, err := s.svc.CreateTest(s.ctx, &models.CreateTestRequest{Name: "Theory", TakenAt: "2025-10-01"})
	s.Require().NoError(err)

	op, err := s.svc.CreateOperator(s.ctx, &models.CreateOperatorRequest{
		CompanyName: "Survey Co", Email: "survey@example.com", Address: address(),
		AuthorizedActivities:      []string{act.ID.String()},
		OperationalAuthorizations: []string{auth.ID.String()},
	})
	s.Require().NoError(err)

	s.Run("operator", func() {
		view, err := s.svc.GetOperatorPrivileged(s.ctx, op.ID)
		s.Require().NoError(err)
		s.Require().Len(view.Activities, 1)
		s.Equal("Aerial survey", view.Activities[0].Name)
		s.Require().Len(view.Authorizations, 1)
		s.Equal("BVLOS", view.Authorizations[0].Title)
	})

	s.Run("pilot", func() {
		p, err := s.svc.CreatePilot(s.ctx, &models.CreatePilotRequest{
			Operator: op.ID.String(), Person: person(), Address: address(), Tests: []string{tst.ID.String()},
		})
		s.Require().NoError(err)
		s.True(p.IsActive)
		s.Equal("+971500000000", p.Person.PhoneNumber)

		view, err := s.svc.GetPilotPrivileged(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Require().Len(view.Tests, 1)
		s.Equal("Theory", view.Tests[0].Name)
	})

	s.Run("contact", func() {
		c, err := s.svc.CreateContact(s.ctx, &models.CreateContactRequest{
			Operator: op.ID.String(), RoleType: 1, Person: person(), Address: address(),
		})
		s.Require().NoError(err)

		view, err := s.svc.GetContactPrivileged(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal("Survey Co", view.Operator.CompanyName)
		s.Len(view.Activities, 1)
		s.Len(view.Authorizations, 1)
	})

	s.Run("unknown pilot", func() {
		_, err := s.svc.GetPilotPrivileged(s.ctx, uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) newModule(esn string) *models.RIDModule {
	op := s.createOperator(uuid.NewString() + "@skyways.example")
	a := s.createAircraft(op.ID, uuid.NewString())
	m, err := s.svc.CreateRIDModule(s.ctx, &models.CreateRIDModuleRequest{
		Operator: op.ID.String(), Aircraft: a.ID.String(), ModuleESN: esn,
	})
	s.Require().NoError(err)
	return m
}

func (s *ServiceSuite) TestRIDModuleCreate() {
	s.Run("generates rid_id and round trips", func() {
		m := s.newModule(" rid-a ")
		s.Equal("RID-A", m.ModuleESN)
		s.NotEqual(uuid.Nil, m.RIDID)
		s.Equal(models.RIDStatusPending, m.Status)
		s.Require().NotNil(m.ActivatedAt)
		s.True(m.ActivatedAt.Equal(s.now))

		found, err := s.svc.GetRIDModuleByRIDID(s.ctx, m.RIDID)
		s.Require().NoError(err)
		s.Equal(m.ID, found.ID)

		byESN, err := s.svc.GetRIDModuleByESN(s.ctx, "rid-a")
		s.Require().NoError(err)
		s.Equal(m.ID, byESN.ID)
	})

	s.Run("rejects blank esn", func() {
		_, err := s.svc.CreateRIDModule(s.ctx, &models.CreateRIDModuleRequest{
			Operator: uuid.NewString(), Aircraft: uuid.NewString(), ModuleESN: "   ",
		})
		s.Require().Error(err)
		s.Contains(fieldsOf(err), "module_esn")
	})

	s.Run("duplicate esn and rid_id", func() {
		existing := s.newModule("RID-B")
		_, err := s.svc.CreateRIDModule(s.ctx, &models.CreateRIDModuleRequest{
			Operator: existing.OperatorID.String(), Aircraft: existing.AircraftID.String(),
			ModuleESN: "rid-b", RIDID: existing.RIDID.String(),
		})
		s.Require().Error(err)
		s.Contains(fieldsOf(err), "module_esn")
		s.Contains(fieldsOf(err), "rid_id")
	})

	s.Run("malformed rid_id", func() {
		_, err := s.svc.CreateRIDModule(s.ctx, &models.CreateRIDModuleRequest{
			Operator: uuid.NewString(), Aircraft: uuid.NewString(), ModuleESN: "X", RIDID: "not-a-uuid",
		})
		s.Require().Error(err)
		s.Contains(fieldsOf(err), "rid_id")
	})
}

func (s *ServiceSuite) TestRIDModuleLifecycle() {
	m := s.newModule("RID-L")
	later := s.now.Add(time.Hour)
	ctx := requestcontext.WithTime(s.ctx, later)

	s.Run("status lost stamps deactivated_at", func() {
		status := "LOST"
		out, err := s.svc.UpdateRIDModule(ctx, m.ID, &models.UpdateRIDModuleRequest{Status: &status})
		s.Require().NoError(err)
		s.Equal(models.RIDStatusLost, out.Status)
		s.Require().NotNil(out.DeactivatedAt)
		s.False(out.DeactivatedAt.Before(later))
		s.Contains(s.outbox.Actions(), "rid_module_deactivated")
	})

	s.Run("re-activation keeps deactivated_at", func() {
		status := "active"
		out, err := s.svc.UpdateRIDModule(ctx, m.ID, &models.UpdateRIDModuleRequest{Status: &status})
		s.Require().NoError(err)
		s.Equal(models.RIDStatusActive, out.Status)
		s.Require().NotNil(out.DeactivatedAt)
		s.True(out.DeactivatedAt.Equal(later))
	})

	s.Run("patch cannot change rid_id", func() {
		_, err := s.svc.UpdateRIDModule(ctx, m.ID, &models.UpdateRIDModuleRequest{RIDID: []byte(`"` + uuid.NewString() + `"`)})
		s.Require().Error(err)
		s.Contains(fieldsOf(err), "rid_id")
	})

	s.Run("heartbeat records last_seen_at", func() {
		out, err := s.svc.Heartbeat(ctx, m.ID)
		s.Require().NoError(err)
		s.Require().NotNil(out.LastSeenAt)
		s.True(out.LastSeenAt.Equal(later))
	})

	s.Run("decommission is idempotent", func() {
		first, err := s.svc.DecommissionRIDModule(ctx, m.ID)
		s.Require().NoError(err)
		s.Equal(models.RIDStatusDecommissioned, first.Status)

		second, err := s.svc.DecommissionRIDModule(requestcontext.WithTime(s.ctx, later.Add(time.Hour)), m.ID)
		s.Require().NoError(err)
		s.Equal(models.RIDStatusDecommissioned, second.Status)
		s.True(second.DeactivatedAt.Equal(*first.DeactivatedAt))

		found, err := s.svc.GetRIDModuleByRIDID(s.ctx, m.RIDID)
		s.Require().NoError(err)
		s.Equal(models.RIDStatusDecommissioned, found.Status)
	})

	s.Run("heartbeat after decommission conflicts", func() {
		_, err := s.svc.Heartbeat(ctx, m.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown module", func() {
		_, err := s.svc.DecommissionRIDModule(ctx, uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestChangeRIDID() {
	a := s.newModule("RID-C1")
	b := s.newModule("RID-C2")

	s.Run("rejects an id used by another module", func() {
		_, err := s.svc.ChangeRIDID(s.ctx, a.ID, &models.ChangeRIDIDRequest{RIDID: b.RIDID.String()})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("assigns a fresh id", func() {
		fresh := uuid.New()
		out, err := s.svc.ChangeRIDID(s.ctx, a.ID, &models.ChangeRIDIDRequest{RIDID: fresh.String()})
		s.Require().NoError(err)
		s.Equal(fresh, out.RIDID)

		_, err = s.svc.GetRIDModuleByRIDID(s.ctx, a.RIDID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("requires a uuid", func() {
		_, err := s.svc.ChangeRIDID(s.ctx, a.ID, &models.ChangeRIDIDRequest{RIDID: "nope"})
		s.Contains(fieldsOf(err), "rid_id")
	})

	s.Run("nil uuid leaves the module untouched", func() {
		before, err := s.svc.GetRIDModule(s.ctx, a.ID)
		s.Require().NoError(err)
		changes := countAction(s.outbox.Actions(), "rid_module_rid_id_changed")

		_, err = s.svc.ChangeRIDID(s.ctx, a.ID, &models.ChangeRIDIDRequest{RIDID: uuid.Nil.String()})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(fieldsOf(err), "rid_id")

		after, err := s.svc.GetRIDModule(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(before.RIDID, after.RIDID)
		s.Equal(changes, countAction(s.outbox.Actions(), "rid_module_rid_id_changed"))
	})
}

func countAction(actions []string, action string) int {
	n := 0
	for _, a := range actions {
		if a == action {
			n++
		}
	}
	return n
}

func (s *ServiceSuite) TestUpdateRIDModuleRejectsEmptiedEnums() {
	m := s.newModule("RID-E")
	blank := ""

	_, err := s.svc.UpdateRIDModule(s.ctx, m.ID, &models.UpdateRIDModuleRequest{
		ModuleType: &blank, ActivationStatus: &blank,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(fieldsOf(err), "module_type")
	s.Contains(fieldsOf(err), "activation_status")

	stored, err := s.svc.GetRIDModule(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(m.ModuleType, stored.ModuleType)
	s.Equal(m.ActivationStatus, stored.ActivationStatus)
	s.NotContains(s.outbox.Actions(), "rid_module_updated")
}

func (s *ServiceSuite) TestDeleteOperator() {
	s.Run("removes the operator and emits an event", func() {
		op := s.createOperator("gone@skyways.example")
		s.Require().NoError(s.svc.DeleteOperator(s.ctx, op.ID))

		_, err := s.svc.GetOperator(s.ctx, op.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(s.outbox.Actions(), "operator_deleted")

		_, err = s.svc.Login(s.ctx, &models.LoginRequest{Email: "gone@skyways.example", Password: "hunter2hunter2"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("email is free again afterwards", func() {
		op := s.createOperator("again@skyways.example")
		s.Require().NoError(s.svc.DeleteOperator(s.ctx, op.ID))
		s.createOperator("again@skyways.example")
	})

	s.Run("refuses while aircraft remain", func() {
		op := s.createOperator("busy@skyways.example")
		s.createAircraft(op.ID, "ESN-BUSY")

		err := s.svc.DeleteOperator(s.ctx, op.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		found, err := s.svc.GetOperator(s.ctx, op.ID)
		s.Require().NoError(err)
		s.Equal("1 Main St", found.Address.AddressLine1)
	})

	s.Run("refuses while a rid module remains", func() {
		m := s.newModule("RID-DEL")
		err := s.svc.DeleteOperator(s.ctx, m.OperatorID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown operator", func() {
		err := s.svc.DeleteOperator(s.ctx, uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestListRIDModulesFilters() {
	a := s.newModule("RID-F1")
	s.newModule("RID-F2")

	byOperator, err := s.svc.ListRIDModules(s.ctx, models.ListFilter{OperatorID: a.OperatorID})
	s.Require().NoError(err)
	s.Len(byOperator, 1)

	byAircraft, err := s.svc.ListRIDModules(s.ctx, models.ListFilter{AircraftID: a.AircraftID})
	s.Require().NoError(err)
	s.Len(byAircraft, 1)

	all, err := s.svc.ListRIDModules(s.ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ServiceSuite) TestSeedManufacturerIsIdempotent() {
	req := func() *models.CreateManufacturerRequest {
		return &models.CreateManufacturerRequest{
			FullName: "DJI Technology Co., Ltd.", CommonName: "DJI", Acronym: "DJI",
			Role: "Drone Manufacturer", Country: "CN",
			Address: &models.AddressInput{AddressLine1: "1 Drone Avenue", City: "San Francisco", Country: "US"},
		}
	}
	m, created, err := s.svc.SeedManufacturer(s.ctx, req())
	s.Require().NoError(err)
	s.True(created)

	again, created, err := s.svc.SeedManufacturer(s.ctx, req())
	s.Require().NoError(err)
	s.False(created)
	s.Equal(m.ID, again.ID)
}
