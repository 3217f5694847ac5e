// Package handler exposes the registry over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"droneregistry/internal/auth/token"
	"droneregistry/internal/ratelimit/authlockout"
	"droneregistry/internal/registry/models"
	"droneregistry/internal/registry/service"
	dErrors "droneregistry/pkg/domain-errors"
	"droneregistry/pkg/platform/httputil"
	"droneregistry/pkg/requestcontext"
)

// Service defines the registry operations the handlers call.
type Service interface {
	CreateOperator(ctx context.Context, req *models.CreateOperatorRequest) (*models.Operator, error)
	GetOperator(ctx context.Context, id uuid.UUID) (*models.Operator, error)
	ListOperators(ctx context.Context) ([]*models.Operator, error)
	OperatorAircraft(ctx context.Context, id uuid.UUID) ([]*models.Aircraft, error)
	DeleteOperator(ctx context.Context, id uuid.UUID) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.Operator, error)
	GetOperatorPrivileged(ctx context.Context, id uuid.UUID) (*service.OperatorPrivileged, error)

	CreateActivity(ctx context.Context, req *models.CreateActivityRequest) (*models.Activity, error)
	ListActivities(ctx context.Context) ([]*models.Activity, error)
	CreateAuthorization(ctx context.Context, req *models.CreateAuthorizationRequest) (*models.Authorization, error)
	ListAuthorizations(ctx context.Context) ([]*models.Authorization, error)
	CreateTest(ctx context.Context, req *models.CreateTestRequest) (*models.Test, error)
	ListTests(ctx context.Context) ([]*models.Test, error)

	CreateManufacturer(ctx context.Context, req *models.CreateManufacturerRequest) (*models.Manufacturer, error)
	GetManufacturer(ctx context.Context, id uuid.UUID) (*models.Manufacturer, error)
	ListManufacturers(ctx context.Context) ([]*models.Manufacturer, error)

	CreateAircraft(ctx context.Context, req *models.CreateAircraftRequest) (*models.Aircraft, error)
	GetAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error)
	GetAircraftByESN(ctx context.Context, esn string) (*models.Aircraft, error)
	ListAircraft(ctx context.Context, filter models.ListFilter) ([]*models.Aircraft, error)

	CreatePilot(ctx context.Context, req *models.CreatePilotRequest) (*models.Pilot, error)
	GetPilot(ctx context.Context, id uuid.UUID) (*models.Pilot, error)
	ListPilots(ctx context.Context, filter models.ListFilter) ([]*models.Pilot, error)
	GetPilotPrivileged(ctx context.Context, id uuid.UUID) (*service.PilotPrivileged, error)

	CreateContact(ctx context.Context, req *models.CreateContactRequest) (*models.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	ListContacts(ctx context.Context, filter models.ListFilter) ([]*models.Contact, error)
	GetContactPrivileged(ctx context.Context, id uuid.UUID) (*service.ContactPrivileged, error)

	CreateRIDModule(ctx context.Context, req *models.CreateRIDModuleRequest) (*models.RIDModule, error)
	GetRIDModule(ctx context.Context, id uuid.UUID) (*models.RIDModule, error)
	GetRIDModuleByESN(ctx context.Context, esn string) (*models.RIDModule, error)
	GetRIDModuleByRIDID(ctx context.Context, ridID uuid.UUID) (*models.RIDModule, error)
	ListRIDModules(ctx context.Context, filter models.ListFilter) ([]*models.RIDModule, error)
	UpdateRIDModule(ctx context.Context, id uuid.UUID, req *models.UpdateRIDModuleRequest) (*models.RIDModule, error)
	ChangeRIDID(ctx context.Context, id uuid.UUID, req *models.ChangeRIDIDRequest) (*models.RIDModule, error)
	DecommissionRIDModule(ctx context.Context, id uuid.UUID) (*models.RIDModule, error)
	Heartbeat(ctx context.Context, id uuid.UUID) (*models.RIDModule, error)
}

// Gate provides the authentication and scope middleware.
type Gate interface {
	RequireAuth() func(http.Handler) http.Handler
	RequireScope(scope string) func(http.Handler) http.Handler
}

// LoginLimiter throttles repeated failed operator logins.
type LoginLimiter interface {
	Check(ctx context.Context, identifier, ip string) (*authlockout.Result, error)
	RecordFailure(ctx context.Context, identifier, ip string) (*authlockout.Record, error)
	Clear(ctx context.Context, identifier, ip string) error
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	gate    Gate
	logger  *slog.Logger
	limiter LoginLimiter
}

type Option func(*Handler)

// WithLoginLimiter enables lockout of repeated failed logins.
func WithLoginLimiter(l LoginLimiter) Option {
	return func(h *Handler) {
		h.limiter = l
	}
}

// New constructs a registry handler with its dependencies.
func New(service Service, gate Gate, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		service: service,
		gate:    gate,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts registry endpoints on the router. Paths are relative to
// the API base path.
func (h *Handler) Register(r chi.Router) {
	authed := h.gate.RequireAuth()
	privileged := h.gate.RequireScope(token.ScopePrivileged)

	// public reads
	r.Get("/operators", h.HandleListOperators)
	r.Get("/operators/{id}", h.HandleGetOperator)
	r.Get("/operators/{id}/aircraft", h.HandleOperatorAircraft)
	r.Post("/operators/login", h.HandleLogin)
	r.Get("/manufacturers", h.HandleListManufacturers)
	r.Get("/manufacturers/{id}", h.HandleGetManufacturer)
	r.Get("/aircraft", h.HandleListAircraft)
	r.Get("/aircraft/{id}", h.HandleGetAircraft)
	r.Get("/aircraft/esn/{esn}", h.HandleGetAircraftByESN)
	r.Get("/pilots", h.HandleListPilots)
	r.Get("/pilots/{id}", h.HandleGetPilot)
	r.Get("/contacts", h.HandleListContacts)
	r.Get("/contacts/{id}", h.HandleGetContact)
	r.Get("/activities", h.HandleListActivities)
	r.Get("/authorizations", h.HandleListAuthorizations)
	r.Get("/tests", h.HandleListTests)

	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Post("/operators", h.HandleCreateOperator)
		r.Delete("/operators/{id}", h.HandleDeleteOperator)
		r.Post("/manufacturers", h.HandleCreateManufacturer)
		r.Post("/aircraft", h.HandleCreateAircraft)
		r.Post("/pilots", h.HandleCreatePilot)
		r.Post("/contacts", h.HandleCreateContact)
		r.Post("/activities", h.HandleCreateActivity)
		r.Post("/authorizations", h.HandleCreateAuthorization)
		r.Post("/tests", h.HandleCreateTest)

		r.Get("/rid-modules", h.HandleListRIDModules)
		r.Post("/rid-modules", h.HandleCreateRIDModule)
		r.Get("/rid-modules/esn/{esn}", h.HandleGetRIDModuleByESN)
		r.Get("/rid-modules/rid/{rid_id}", h.HandleGetRIDModuleByRIDID)
		r.Get("/rid-modules/{id}", h.HandleGetRIDModule)
		r.Patch("/rid-modules/{id}", h.HandleUpdateRIDModule)
		r.Delete("/rid-modules/{id}", h.HandleDecommissionRIDModule)
		r.Put("/rid-modules/{id}/rid-id", h.HandleChangeRIDID)
		r.Post("/rid-modules/{id}/heartbeat", h.HandleHeartbeat)

		r.Group(func(r chi.Router) {
			r.Use(privileged)
			r.Get("/operators/{id}/privileged", h.HandleGetOperatorPrivileged)
			r.Get("/pilots/{id}/privileged", h.HandleGetPilotPrivileged)
			r.Get("/contacts/{id}/privileged", h.HandleGetContactPrivileged)
		})
	})
}

// fail logs and writes err. Client errors log at warn, the rest at error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, received map[string]any) {
	ctx := r.Context()
	level := slog.LevelError
	if status := httputil.StatusFor(dErrors.CodeOf(err)); status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"path", r.URL.Path,
		"error", err,
	)
	httputil.WriteErrorWithData(w, err, received)
}

// pathID parses a UUID path parameter. Malformed IDs cannot match a record
// and are reported as not found.
func pathID(r *http.Request, param, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeNotFound, entity+" not found")
	}
	return id, nil
}

// listFilter reads the operator and aircraft query parameters.
func listFilter(r *http.Request) (models.ListFilter, error) {
	var filter models.ListFilter
	fe := dErrors.FieldErrors{}
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("operator")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fe.Add("operator", models.MsgInvalidUUID)
		}
		filter.OperatorID = id
	}
	if raw := strings.TrimSpace(q.Get("aircraft")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fe.Add("aircraft", models.MsgInvalidUUID)
		}
		filter.AircraftID = id
	}
	return filter, fe.Err()
}

// redact drops secrets from an echoed request body.
func redact(received map[string]any) map[string]any {
	if _, ok := received["password"]; ok {
		received["password"] = "********"
	}
	return received
}
