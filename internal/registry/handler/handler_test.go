package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"droneregistry/internal/registry/handler/mocks"
	"droneregistry/internal/registry/models"
	"droneregistry/internal/registry/service"
	dErrors "droneregistry/pkg/domain-errors"
	"droneregistry/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// openGate lets every request through; gate behaviour is tested with the middleware.
type openGate struct{}

func (openGate) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (openGate) RequireScope(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, openGate{}, logger).Register(s.router)
}

func (s *HandlerSuite) TestInternalErrorsHideDetail() {
	s.service.EXPECT().ListOperators(gomock.Any()).
		Return(nil, dErrors.Wrap(errors.New("pq: connection reset"), dErrors.CodeInternal, "failed to list operator"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/operators"))

	s.Equal(http.StatusInternalServerError, rr.Code)
	s.JSONEq(`{"error":"internal_error"}`, rr.Body.String())
}

func (s *HandlerSuite) TestTimeoutIsGatewayTimeout() {
	s.service.EXPECT().ListRIDModules(gomock.Any(), models.ListFilter{}).
		Return(nil, dErrors.New(dErrors.CodeTimeout, "registry store timed out"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/rid-modules"))
	s.Equal(http.StatusGatewayTimeout, rr.Code)
}

func (s *HandlerSuite) TestValidationEchoesReceivedData() {
	fe := dErrors.FieldErrors{}
	fe.Add("module_esn", "Module ESN cannot be empty.")
	s.service.EXPECT().CreateRIDModule(gomock.Any(), gomock.Any()).Return(nil, fe.Err())

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/rid-modules",
		map[string]any{"module_esn": "   "}))

	s.Require().Equal(http.StatusBadRequest, rr.Code)
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	s.Equal(map[string]any{"module_esn": "   "}, body["received_data"])
	s.Equal(map[string]any{"module_esn": []any{"Module ESN cannot be empty."}}, body["errors"])
}

func (s *HandlerSuite) TestMalformedJSONIsBadRequest() {
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/aircraft", `{"esn":`))
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Contains(rr.Body.String(), "Invalid JSON body")
}

func (s *HandlerSuite) TestListFilterIsPassedThrough() {
	operatorID, aircraftID := uuid.New(), uuid.New()
	s.service.EXPECT().
		ListRIDModules(gomock.Any(), models.ListFilter{OperatorID: operatorID, AircraftID: aircraftID}).
		Return([]*models.RIDModule{}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
		"/rid-modules?operator="+operatorID.String()+"&aircraft="+aircraftID.String()))
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`[]`, rr.Body.String())
}

func (s *HandlerSuite) TestDecommissionReturnsNoContent() {
	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.service.EXPECT().DecommissionRIDModule(gomock.Any(), id).
		Return(&models.RIDModule{ID: id, Status: models.RIDStatusDecommissioned, DeactivatedAt: &now}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/rid-modules/"+id.String()))
	s.Equal(http.StatusNoContent, rr.Code)
	s.Empty(rr.Body.String())
}

func (s *HandlerSuite) TestDeleteOperator() {
	s.Run("returns no content", func() {
		id := uuid.New()
		s.service.EXPECT().DeleteOperator(gomock.Any(), id).Return(nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/operators/"+id.String()))
		s.Equal(http.StatusNoContent, rr.Code)
		s.Empty(rr.Body.String())
	})

	s.Run("dependent records map to conflict", func() {
		id := uuid.New()
		s.service.EXPECT().DeleteOperator(gomock.Any(), id).
			Return(dErrors.New(dErrors.CodeConflict, "operator has dependent records"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/operators/"+id.String()))
		s.Equal(http.StatusConflict, rr.Code)
	})

	s.Run("malformed id is not found without calling the service", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/operators/not-a-uuid"))
		s.Equal(http.StatusNotFound, rr.Code)
	})
}

func (s *HandlerSuite) TestPrivilegedContactProjection() {
	id := uuid.New()
	op := &models.Operator{
		ID:           uuid.New(),
		CompanyName:  "Skyways",
		OperatorType: models.OperatorTypeAuth,
		Address:      &models.Address{AddressLine1: "1 Main St", City: "Dubai", Postcode: "0", Country: "AE"},
	}
	s.service.EXPECT().GetContactPrivileged(gomock.Any(), id).Return(&service.ContactPrivileged{
		Contact:        &models.Contact{ID: id, OperatorID: op.ID},
		Operator:       op,
		Activities:     []*models.Activity{{Name: "Survey"}},
		Authorizations: []*models.Authorization{{Title: "VLOS"}, {Title: "Night"}},
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/contacts/"+id.String()+"/privileged"))

	s.Require().Equal(http.StatusOK, rr.Code)
	var body ContactPrivilegedResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	s.Equal(op.ID.String(), body.Operator)
	s.Equal(3, body.OperatorType)
	s.Equal("Dubai", body.City)
	s.Equal([]string{"Survey"}, body.AuthorizedActivities)
	s.Equal([]string{"VLOS", "Night"}, body.OperationalAuthorizations)
}

func (s *HandlerSuite) TestNotFoundPassesThrough() {
	id := uuid.New()
	s.service.EXPECT().GetManufacturer(gomock.Any(), id).Return(nil, dErrors.New(dErrors.CodeNotFound, "manufacturer not found"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/manufacturers/"+id.String()))
	s.Equal(http.StatusNotFound, rr.Code)
	s.JSONEq(`{"error":"not_found","error_description":"manufacturer not found"}`, rr.Body.String())
}
