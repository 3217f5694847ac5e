package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"droneregistry/internal/registry/models"
	"droneregistry/pkg/platform/httputil"
	"droneregistry/pkg/requestcontext"
)

// HandleCreateAircraft handles POST /aircraft.
func (h *Handler) HandleCreateAircraft(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreateAircraftRequest](w, r)
	if !ok {
		return
	}
	a, err := h.service.CreateAircraft(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create aircraft failed", err, received)
		return
	}
	h.logger.InfoContext(r.Context(), "aircraft created",
		"request_id", requestcontext.RequestID(r.Context()),
		"aircraft_id", a.ID,
		"manufacturer_id", a.ManufacturerID,
	)
	httputil.WriteJSON(w, http.StatusCreated, toAircraft(a))
}

// HandleListAircraft handles GET /aircraft?operator=.
func (h *Handler) HandleListAircraft(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		h.fail(w, r, "list aircraft failed", err, nil)
		return
	}
	list, err := h.service.ListAircraft(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list aircraft failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAircraftList(list))
}

// HandleGetAircraft handles GET /aircraft/{id}.
func (h *Handler) HandleGetAircraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "aircraft")
	if err != nil {
		h.fail(w, r, "get aircraft failed", err, nil)
		return
	}
	a, err := h.service.GetAircraft(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get aircraft failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAircraft(a))
}

// HandleGetAircraftByESN handles GET /aircraft/esn/{esn}.
func (h *Handler) HandleGetAircraftByESN(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetAircraftByESN(r.Context(), chi.URLParam(r, "esn"))
	if err != nil {
		h.fail(w, r, "get aircraft by esn failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAircraftESN(a))
}
