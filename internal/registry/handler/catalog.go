package handler

import (
	"net/http"

	"droneregistry/internal/registry/models"
	"droneregistry/pkg/platform/httputil"
)

// HandleCreateManufacturer handles POST /manufacturers.
func (h *Handler) HandleCreateManufacturer(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreateManufacturerRequest](w, r)
	if !ok {
		return
	}
	m, err := h.service.CreateManufacturer(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create manufacturer failed", err, received)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toManufacturer(m))
}

// HandleListManufacturers handles GET /manufacturers.
func (h *Handler) HandleListManufacturers(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListManufacturers(r.Context())
	if err != nil {
		h.fail(w, r, "list manufacturers failed", err, nil)
		return
	}
	out := make([]ManufacturerResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toManufacturer(m))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleGetManufacturer handles GET /manufacturers/{id}.
func (h *Handler) HandleGetManufacturer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "manufacturer")
	if err != nil {
		h.fail(w, r, "get manufacturer failed", err, nil)
		return
	}
	m, err := h.service.GetManufacturer(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get manufacturer failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toManufacturer(m))
}

func (h *Handler) HandleCreateActivity(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreateActivityRequest](w, r)
	if !ok {
		return
	}
	a, err := h.service.CreateActivity(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create activity failed", err, received)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) HandleListActivities(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListActivities(r.Context())
	if err != nil {
		h.fail(w, r, "list activities failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nonNil(list))
}

func (h *Handler) HandleCreateAuthorization(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreateAuthorizationRequest](w, r)
	if !ok {
		return
	}
	a, err := h.service.CreateAuthorization(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create authorization failed", err, received)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) HandleListAuthorizations(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAuthorizations(r.Context())
	if err != nil {
		h.fail(w, r, "list authorizations failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nonNil(list))
}

func (h *Handler) HandleCreateTest(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreateTestRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.CreateTest(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create test failed", err, received)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) HandleListTests(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListTests(r.Context())
	if err != nil {
		h.fail(w, r, "list tests failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nonNil(list))
}

// nonNil renders an empty list as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
