package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"droneregistry/internal/registry/models"
	"droneregistry/pkg/platform/httputil"
	"droneregistry/pkg/requestcontext"
)

// HandleCreateRIDModule handles POST /rid-modules.
func (h *Handler) HandleCreateRIDModule(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreateRIDModuleRequest](w, r)
	if !ok {
		return
	}
	m, err := h.service.CreateRIDModule(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create rid module failed", err, received)
		return
	}
	h.logger.InfoContext(r.Context(), "rid module registered",
		"request_id", requestcontext.RequestID(r.Context()),
		"rid_module_id", m.ID,
		"rid_id", m.RIDID,
	)
	httputil.WriteJSON(w, http.StatusCreated, toRIDModule(m))
}

// HandleListRIDModules handles GET /rid-modules?operator=&aircraft=.
func (h *Handler) HandleListRIDModules(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		h.fail(w, r, "list rid modules failed", err, nil)
		return
	}
	list, err := h.service.ListRIDModules(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list rid modules failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRIDModules(list))
}

// HandleGetRIDModule handles GET /rid-modules/{id}.
func (h *Handler) HandleGetRIDModule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "rid module")
	if err != nil {
		h.fail(w, r, "get rid module failed", err, nil)
		return
	}
	m, err := h.service.GetRIDModule(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get rid module failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRIDModule(m))
}

// HandleGetRIDModuleByESN handles GET /rid-modules/esn/{esn}.
func (h *Handler) HandleGetRIDModuleByESN(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetRIDModuleByESN(r.Context(), chi.URLParam(r, "esn"))
	if err != nil {
		h.fail(w, r, "get rid module by esn failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRIDModule(m))
}

// HandleGetRIDModuleByRIDID handles GET /rid-modules/rid/{rid_id}.
func (h *Handler) HandleGetRIDModuleByRIDID(w http.ResponseWriter, r *http.Request) {
	ridID, err := pathID(r, "rid_id", "rid module")
	if err != nil {
		h.fail(w, r, "get rid module by rid_id failed", err, nil)
		return
	}
	m, err := h.service.GetRIDModuleByRIDID(r.Context(), ridID)
	if err != nil {
		h.fail(w, r, "get rid module by rid_id failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRIDModule(m))
}

// HandleUpdateRIDModule handles PATCH /rid-modules/{id}.
func (h *Handler) HandleUpdateRIDModule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "rid module")
	if err != nil {
		h.fail(w, r, "update rid module failed", err, nil)
		return
	}
	req, received, ok := httputil.Decode[models.UpdateRIDModuleRequest](w, r)
	if !ok {
		return
	}
	m, err := h.service.UpdateRIDModule(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "update rid module failed", err, received)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRIDModule(m))
}

// HandleChangeRIDID handles PUT /rid-modules/{id}/rid-id.
func (h *Handler) HandleChangeRIDID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "rid module")
	if err != nil {
		h.fail(w, r, "change rid_id failed", err, nil)
		return
	}
	req, received, ok := httputil.Decode[models.ChangeRIDIDRequest](w, r)
	if !ok {
		return
	}
	m, err := h.service.ChangeRIDID(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "change rid_id failed", err, received)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRIDModule(m))
}

// HandleDecommissionRIDModule handles DELETE /rid-modules/{id}. The module is
// decommissioned, never removed.
func (h *Handler) HandleDecommissionRIDModule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "rid module")
	if err != nil {
		h.fail(w, r, "decommission rid module failed", err, nil)
		return
	}
	if _, err := h.service.DecommissionRIDModule(r.Context(), id); err != nil {
		h.fail(w, r, "decommission rid module failed", err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHeartbeat handles POST /rid-modules/{id}/heartbeat.
func (h *Handler) HandleHeartbeat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "rid module")
	if err != nil {
		h.fail(w, r, "rid module heartbeat failed", err, nil)
		return
	}
	m, err := h.service.Heartbeat(r.Context(), id)
	if err != nil {
		h.fail(w, r, "rid module heartbeat failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRIDModule(m))
}
