package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"droneregistry/internal/auth/revocation"
	"droneregistry/internal/auth/token"
	"droneregistry/internal/ratelimit/authlockout"
	"droneregistry/internal/registry/handler"
	"droneregistry/internal/registry/service"
	regmemory "droneregistry/internal/registry/store/memory"
	auditmemory "droneregistry/pkg/platform/audit/store/memory"
	"droneregistry/pkg/platform/audit/outbox"
	authmw "droneregistry/pkg/platform/middleware/auth"
	"droneregistry/pkg/platform/middleware/metadata"
	"droneregistry/pkg/platform/middleware/requesttime"
	"droneregistry/pkg/testutil"
)

// RouterSuite drives the real router, gates, service and in-memory store.
type RouterSuite struct {
	suite.Suite
	router     http.Handler
	outbox     *auditmemory.InMemoryStore
	now        time.Time
	writer     string
	privileged string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.outbox = auditmemory.NewInMemoryStore()
	svc := service.New(regmemory.New(),
		service.WithAuditPublisher(outbox.New(s.outbox)),
		service.WithLogger(logger),
	)
	tokens := token.New("test-signing-key", "test-issuer", "test-audience")
	gate := authmw.NewGate(tokens, logger, authmw.WithRevocations(revocation.NewInMemory()))

	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := chi.NewRouter()
	r.Use(metadata.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.MiddlewareWithClock(func() time.Time { return s.now }))
	limiter, err := authlockout.New(authlockout.NewInMemoryStore(),
		authlockout.WithLimits(3, 10*time.Minute, 15*time.Minute),
		authlockout.WithLogger(logger),
	)
	s.Require().NoError(err)
	r.Route("/api/v1", handler.New(svc, gate, logger, handler.WithLoginLimiter(limiter)).Register)
	s.router = r

	s.writer, _, err = tokens.Generate("ops-console", []string{"write:registry"}, time.Hour)
	s.Require().NoError(err)
	s.privileged, _, err = tokens.Generate("auditor", []string{"write:registry", token.ScopePrivileged}, time.Hour)
	s.Require().NoError(err)
}

func (s *RouterSuite) do(method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = testutil.NewJSONRequest(s.T(), method, "/api/v1"+path, body)
	} else {
		req = testutil.NewRequest(s.T(), method, "/api/v1"+path)
	}
	if bearer != "" {
		req = testutil.Bearer(req, bearer)
	}
	return testutil.DoRequest(s.router, req)
}

func decode[T any](s *RouterSuite, rr *httptest.ResponseRecorder) T {
	var v T
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func addressBody() map[string]any {
	return map[string]any{"address_line_1": "1 Sheikh Zayed Rd", "city": "Dubai", "country": "uae", "postcode": ""}
}

func (s *RouterSuite) createOperator(email string, extra map[string]any) string {
	body := map[string]any{
		"company_name": "Skyways",
		"email":        email,
		"website":      "skyways.example",
		"address":      addressBody(),
		"password":     "correct-horse-battery",
	}
	for k, v := range extra {
		body[k] = v
	}
	rr := s.do(http.MethodPost, "/operators", body, s.writer)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	return decode[map[string]any](s, rr)["id"].(string)
}

func (s *RouterSuite) createAircraft(operatorID, esn string) string {
	rr := s.do(http.MethodPost, "/aircraft", map[string]any{"operator": operatorID, "esn": esn, "model": "Matrice 300"}, s.writer)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	return decode[map[string]any](s, rr)["id"].(string)
}

func (s *RouterSuite) TestAuthGates() {
	opID := s.createOperator("gates@skyways.example", nil)

	s.Run("writes require a bearer token", func() {
		rr := s.do(http.MethodPost, "/operators", map[string]any{}, "")
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.JSONEq(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`, rr.Body.String())
	})

	s.Run("public reads need no token", func() {
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/operators", nil, "").Code)
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/operators/"+opID, nil, "").Code)
	})

	s.Run("privileged views require the scope", func() {
		s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/operators/"+opID+"/privileged", nil, "").Code)
		s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/operators/"+opID+"/privileged", nil, s.writer).Code)
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/operators/"+opID+"/privileged", nil, s.privileged).Code)
	})

	s.Run("rid modules are never public", func() {
		s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/rid-modules", nil, "").Code)
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/rid-modules", nil, s.writer).Code)
	})
}

func (s *RouterSuite) TestCreateOperatorValidation() {
	rr := s.do(http.MethodPost, "/operators", map[string]any{
		"website":  "skyways.example",
		"password": "correct-horse-battery",
	}, s.writer)

	s.Require().Equal(http.StatusBadRequest, rr.Code)
	body := decode[map[string]any](s, rr)
	s.Equal("error", body["status"])
	s.Equal("Validation failed", body["message"])
	errs := body["errors"].(map[string]any)
	s.Contains(errs, "company_name")
	s.Contains(errs, "email")
	s.Contains(errs, "address")
	received := body["received_data"].(map[string]any)
	s.Equal("skyways.example", received["website"])
	s.NotEqual("correct-horse-battery", received["password"])
}

func (s *RouterSuite) TestOperatorViews() {
	rr := s.do(http.MethodPost, "/activities", map[string]any{"name": "Aerial photography", "activity_type": 1}, s.writer)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	activityID := decode[map[string]any](s, rr)["id"].(string)

	rr = s.do(http.MethodPost, "/authorizations", map[string]any{"title": "BVLOS corridor", "operation_max_height": 120}, s.writer)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	authorizationID := decode[map[string]any](s, rr)["id"].(string)

	opID := s.createOperator("views@skyways.example", map[string]any{
		"operator_type":              "luc",
		"authorized_activities":      []string{activityID},
		"operational_authorizations": []string{authorizationID},
	})

	s.Run("public view hides privileged fields", func() {
		body := decode[map[string]any](s, s.do(http.MethodGet, "/operators/"+opID, nil, ""))
		s.Equal("Skyways", body["company_name"])
		s.Equal("https://skyways.example", body["website"])
		s.NotContains(body, "operator_type")
		s.NotContains(body, "address")
		s.NotContains(body, "password")
		s.NotContains(body, "password_hash")
	})

	s.Run("privileged view projects address and grants", func() {
		body := decode[map[string]any](s, s.do(http.MethodGet, "/operators/"+opID+"/privileged", nil, s.privileged))
		s.InDelta(1, body["operator_type"], 0)
		address := body["address"].(map[string]any)
		s.Equal("AE", address["country"])
		s.Equal("0", address["postcode"])
		s.Equal("-", address["address_line_2"])
		s.Equal([]any{"Aerial photography"}, body["authorized_activities"])
		s.Equal([]any{"BVLOS corridor"}, body["operational_authorizations"])
	})

	s.Run("unknown operator is 404", func() {
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/operators/"+uuid.NewString(), nil, "").Code)
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/operators/not-a-uuid", nil, "").Code)
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/operators/"+uuid.NewString()+"/aircraft", nil, "").Code)
	})

	s.Run("unknown activity is a field error", func() {
		missing := uuid.NewString()
		rr := s.do(http.MethodPost, "/operators", map[string]any{
			"company_name":          "Ghost",
			"email":                 "ghost@skyways.example",
			"address":               addressBody(),
			"authorized_activities": []string{missing},
		}, s.writer)
		s.Require().Equal(http.StatusBadRequest, rr.Code)
		s.Contains(rr.Body.String(), `Invalid pk \"`+missing+`\" - object does not exist.`)
	})
}

func (s *RouterSuite) TestDeleteOperator() {
	s.Run("requires a bearer token", func() {
		opID := s.createOperator("guarded@skyways.example", nil)
		s.Equal(http.StatusUnauthorized, s.do(http.MethodDelete, "/operators/"+opID, nil, "").Code)
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/operators/"+opID, nil, "").Code)
	})

	s.Run("removes the operator with its address", func() {
		opID := s.createOperator("leaving@skyways.example", nil)

		rr := s.do(http.MethodDelete, "/operators/"+opID, nil, s.writer)
		s.Equal(http.StatusNoContent, rr.Code)
		s.Empty(rr.Body.String())

		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/operators/"+opID, nil, "").Code)
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/operators/"+opID+"/privileged", nil, s.privileged).Code)
		s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/operators/"+opID, nil, s.writer).Code)
		s.Contains(s.outbox.Actions(), "operator_deleted")
	})

	s.Run("refuses while aircraft remain", func() {
		opID := s.createOperator("fleet@skyways.example", nil)
		s.createAircraft(opID, "ESN-FLEET")

		rr := s.do(http.MethodDelete, "/operators/"+opID, nil, s.writer)
		s.Equal(http.StatusConflict, rr.Code, rr.Body.String())
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/operators/"+opID, nil, "").Code)
	})
}

func (s *RouterSuite) TestLogin() {
	s.createOperator("login@skyways.example", nil)

	s.Run("missing fields is 400", func() {
		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/operators/login", map[string]any{"email": "login@skyways.example"}, "").Code)
	})

	s.Run("wrong password is 401", func() {
		rr := s.do(http.MethodPost, "/operators/login", map[string]any{"email": "login@skyways.example", "password": "nope"}, "")
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.Contains(rr.Body.String(), "Invalid credentials.")
	})

	s.Run("correct password returns the public view", func() {
		rr := s.do(http.MethodPost, "/operators/login", map[string]any{"email": "login@skyways.example", "password": "correct-horse-battery"}, "")
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
		body := decode[map[string]any](s, rr)
		s.Equal("login@skyways.example", body["email"])
		s.NotContains(body, "password_hash")
	})
}

func (s *RouterSuite) TestLoginLockout() {
	s.createOperator("locked@skyways.example", nil)
	wrong := map[string]any{"email": "locked@skyways.example", "password": "nope"}
	for i := 0; i < 3; i++ {
		s.Require().Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/operators/login", wrong, "").Code)
	}

	rr := s.do(http.MethodPost, "/operators/login", map[string]any{"email": "LOCKED@skyways.example", "password": "correct-horse-battery"}, "")
	s.Require().Equal(http.StatusTooManyRequests, rr.Code, rr.Body.String())
	s.Equal("900", rr.Header().Get("Retry-After"))
	s.Equal("rate_limit_exceeded", decode[map[string]any](s, rr)["error"])

	s.now = s.now.Add(16 * time.Minute)
	rr = s.do(http.MethodPost, "/operators/login", map[string]any{"email": "locked@skyways.example", "password": "correct-horse-battery"}, "")
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())
}

func (s *RouterSuite) TestAircraft() {
	opID := s.createOperator("fleet@skyways.example", nil)

	s.Run("eleven character registration mark is rejected", func() {
		rr := s.do(http.MethodPost, "/aircraft", map[string]any{
			"operator": opID, "esn": "ESN-LONG", "model": "M300", "registration_mark": "ABCDEFGHIJK",
		}, s.writer)
		errs := testutil.FieldErrors(s.T(), rr)
		s.Equal([]string{"Ensure this field has no more than 10 characters (received 11)."}, errs["registration_mark"])
	})

	s.Run("missing manufacturer resolves to the default", func() {
		first := s.createAircraft(opID, "esn-0001")
		second := s.createAircraft(opID, "esn-0002")

		a := decode[map[string]any](s, s.do(http.MethodGet, "/aircraft/"+first, nil, ""))
		b := decode[map[string]any](s, s.do(http.MethodGet, "/aircraft/"+second, nil, ""))
		s.NotEmpty(a["manufacturer"])
		s.Equal(a["manufacturer"], b["manufacturer"])
		s.Equal("0000", a["icao_aircraft_type_designator"])

		list := decode[[]map[string]any](s, s.do(http.MethodGet, "/manufacturers", nil, ""))
		s.Require().Len(list, 1)
		s.Equal("Default Manufacturer", list[0]["full_name"])
	})

	s.Run("lookup by esn returns the reduced view", func() {
		rr := s.do(http.MethodGet, "/aircraft/esn/esn-0001", nil, "")
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
		body := decode[map[string]any](s, rr)
		s.Equal("ESN-0001", body["esn"])
		s.NotContains(body, "registration_mark")
	})

	s.Run("list filters by operator", func() {
		other := s.createOperator("other@skyways.example", nil)
		s.createAircraft(other, "esn-0003")

		list := decode[[]map[string]any](s, s.do(http.MethodGet, "/aircraft?operator="+other, nil, ""))
		s.Len(list, 1)
		s.Len(decode[[]map[string]any](s, s.do(http.MethodGet, "/operators/"+opID+"/aircraft", nil, "")), 2)
		s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/aircraft?operator=bogus", nil, "").Code)
	})
}

func (s *RouterSuite) TestPersonnelViews() {
	opID := s.createOperator("crew@skyways.example", nil)

	rr := s.do(http.MethodPost, "/tests", map[string]any{"name": "A2 CofC", "test_type": 1, "taken_at": "2025-06-01"}, s.writer)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	testID := decode[map[string]any](s, rr)["id"].(string)

	person := map[string]any{"first_name": "Ana", "last_name": "Pilot", "email": "ana@skyways.example", "phone_number": "+971 50-123-4567"}
	rr = s.do(http.MethodPost, "/pilots", map[string]any{
		"operator": opID, "person": person, "address": addressBody(), "tests": []string{testID},
	}, s.writer)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	pilotID := decode[map[string]any](s, rr)["id"].(string)

	rr = s.do(http.MethodPost, "/contacts", map[string]any{
		"operator": opID, "person": person, "address": addressBody(), "role_type": 1,
	}, s.writer)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	contactID := decode[map[string]any](s, rr)["id"].(string)

	s.Run("public pilot nests the operator summary", func() {
		body := decode[map[string]any](s, s.do(http.MethodGet, "/pilots/"+pilotID, nil, ""))
		s.Equal("Skyways", body["operator"].(map[string]any)["company_name"])
		s.Equal(true, body["is_active"])
		s.Equal("+971501234567", body["person"].(map[string]any)["phone_number"])
	})

	s.Run("privileged pilot names its tests", func() {
		body := decode[map[string]any](s, s.do(http.MethodGet, "/pilots/"+pilotID+"/privileged", nil, s.privileged))
		s.Equal("Ana", body["first_name"])
		s.Equal([]any{"A2 CofC"}, body["tests"])
	})

	s.Run("privileged contact exposes the operator", func() {
		body := decode[map[string]any](s, s.do(http.MethodGet, "/contacts/"+contactID+"/privileged", nil, s.privileged))
		s.Equal("Skyways", body["company_name"])
		s.Equal(opID, body["operator"])
		s.Equal("Dubai", body["city"])
		s.Equal("0", body["postcode"])
	})

	s.Run("lists filter by operator", func() {
		s.Len(decode[[]map[string]any](s, s.do(http.MethodGet, "/pilots?operator="+opID, nil, "")), 1)
		s.Len(decode[[]map[string]any](s, s.do(http.MethodGet, "/contacts?operator="+uuid.NewString(), nil, "")), 0)
	})
}

func (s *RouterSuite) TestRIDModuleLifecycle() {
	opID := s.createOperator("rid@skyways.example", nil)
	aircraftID := s.createAircraft(opID, "rid-airframe-1")

	rr := s.do(http.MethodPost, "/rid-modules", map[string]any{
		"operator": opID, "aircraft": aircraftID, "module_esn": "  rid-esn-01 ",
	}, s.writer)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[map[string]any](s, rr)
	moduleID := created["id"].(string)
	ridID := created["rid_id"].(string)
	s.Equal("RID-ESN-01", created["module_esn"])
	s.Equal("pending", created["status"])
	_, err := uuid.Parse(ridID)
	s.Require().NoError(err)

	s.Run("lookups by rid_id and esn", func() {
		s.Equal(moduleID, decode[map[string]any](s, s.do(http.MethodGet, "/rid-modules/rid/"+ridID, nil, s.writer))["id"])
		s.Equal(moduleID, decode[map[string]any](s, s.do(http.MethodGet, "/rid-modules/esn/rid-esn-01", nil, s.writer))["id"])
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/rid-modules/rid/"+uuid.NewString(), nil, s.writer).Code)
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/rid-modules/not-a-uuid", nil, s.writer).Code)
	})

	s.Run("patch cannot change rid_id", func() {
		rr := s.do(http.MethodPatch, "/rid-modules/"+moduleID, map[string]any{"rid_id": uuid.NewString()}, s.writer)
		s.Require().Equal(http.StatusBadRequest, rr.Code)
		s.Contains(decode[map[string]any](s, rr)["errors"], "rid_id")
	})

	s.Run("patch to lost stamps deactivated_at", func() {
		rr := s.do(http.MethodPatch, "/rid-modules/"+moduleID, map[string]any{"status": "lost"}, s.writer)
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
		body := decode[map[string]any](s, rr)
		s.Equal("lost", body["status"])
		stamped, err := time.Parse(time.RFC3339Nano, body["deactivated_at"].(string))
		s.Require().NoError(err)
		s.False(stamped.Before(s.now))
	})

	s.Run("rid_id changes through the dedicated path", func() {
		newRID := uuid.NewString()
		rr := s.do(http.MethodPut, "/rid-modules/"+moduleID+"/rid-id", map[string]any{"rid_id": newRID}, s.writer)
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
		s.Equal(newRID, decode[map[string]any](s, rr)["rid_id"])
		ridID = newRID
	})

	s.Run("heartbeat sets last_seen_at", func() {
		rr := s.do(http.MethodPost, "/rid-modules/"+moduleID+"/heartbeat", nil, s.writer)
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
		s.NotNil(decode[map[string]any](s, rr)["last_seen_at"])
	})

	s.Run("delete decommissions idempotently", func() {
		s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/rid-modules/"+moduleID, nil, s.writer).Code)
		s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/rid-modules/"+moduleID, nil, s.writer).Code)

		body := decode[map[string]any](s, s.do(http.MethodGet, "/rid-modules/rid/"+ridID, nil, s.writer))
		s.Equal("decommissioned", body["status"])
		s.NotNil(body["deactivated_at"])
	})

	s.Run("heartbeat after decommission conflicts", func() {
		s.Equal(http.StatusConflict, s.do(http.MethodPost, "/rid-modules/"+moduleID+"/heartbeat", nil, s.writer).Code)
	})

	s.Run("list filters by aircraft", func() {
		s.Len(decode[[]map[string]any](s, s.do(http.MethodGet, "/rid-modules?aircraft="+aircraftID, nil, s.writer)), 1)
		s.Len(decode[[]map[string]any](s, s.do(http.MethodGet, "/rid-modules?operator="+opID+"&aircraft="+uuid.NewString(), nil, s.writer)), 0)
	})

	s.Run("lifecycle changes reach the outbox", func() {
		actions := strings.Join(s.outbox.Actions(), ",")
		s.Contains(actions, "rid_module_registered")
		s.Contains(actions, "rid_module_rid_id_changed")
		s.Contains(actions, "rid_module_decommissioned")
	})
}
