package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	"droneregistry/pkg/platform/httputil"
)

// operators loads each distinct operator once for a list response.
func (h *Handler) operators(ctx context.Context, ids ...uuid.UUID) (operatorSet, error) {
	set := make(operatorSet, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; ok {
			continue
		}
		op, err := h.service.GetOperator(ctx, id)
		if err != nil {
			return nil, err
		}
		set[id] = op
	}
	return set, nil
}

// HandleCreatePilot handles POST /pilots.
func (h *Handler) HandleCreatePilot(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreatePilotRequest](w, r)
	if !ok {
		return
	}
	p, err := h.service.CreatePilot(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create pilot failed", err, received)
		return
	}
	ops, err := h.operators(r.Context(), p.OperatorID)
	if err != nil {
		h.fail(w, r, "create pilot failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPilot(p, ops[p.OperatorID]))
}

// HandleListPilots handles GET /pilots?operator=.
func (h *Handler) HandleListPilots(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		h.fail(w, r, "list pilots failed", err, nil)
		return
	}
	list, err := h.service.ListPilots(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list pilots failed", err, nil)
		return
	}
	ids := make([]uuid.UUID, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.OperatorID)
	}
	ops, err := h.operators(r.Context(), ids...)
	if err != nil {
		h.fail(w, r, "list pilots failed", err, nil)
		return
	}
	out := make([]PilotResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPilot(p, ops[p.OperatorID]))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleGetPilot handles GET /pilots/{id}.
func (h *Handler) HandleGetPilot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "pilot")
	if err != nil {
		h.fail(w, r, "get pilot failed", err, nil)
		return
	}
	p, err := h.service.GetPilot(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get pilot failed", err, nil)
		return
	}
	ops, err := h.operators(r.Context(), p.OperatorID)
	if err != nil {
		h.fail(w, r, "get pilot failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPilot(p, ops[p.OperatorID]))
}

// HandleGetPilotPrivileged handles GET /pilots/{id}/privileged.
func (h *Handler) HandleGetPilotPrivileged(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "pilot")
	if err != nil {
		h.fail(w, r, "get privileged pilot failed", err, nil)
		return
	}
	view, err := h.service.GetPilotPrivileged(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get privileged pilot failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPilotPrivileged(view))
}

// HandleCreateContact handles POST /contacts.
func (h *Handler) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreateContactRequest](w, r)
	if !ok {
		return
	}
	c, err := h.service.CreateContact(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create contact failed", err, received)
		return
	}
	ops, err := h.operators(r.Context(), c.OperatorID)
	if err != nil {
		h.fail(w, r, "create contact failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toContact(c, ops[c.OperatorID]))
}

// HandleListContacts handles GET /contacts?operator=.
func (h *Handler) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		h.fail(w, r, "list contacts failed", err, nil)
		return
	}
	list, err := h.service.ListContacts(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list contacts failed", err, nil)
		return
	}
	ids := make([]uuid.UUID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.OperatorID)
	}
	ops, err := h.operators(r.Context(), ids...)
	if err != nil {
		h.fail(w, r, "list contacts failed", err, nil)
		return
	}
	out := make([]ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toContact(c, ops[c.OperatorID]))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleGetContact handles GET /contacts/{id}.
func (h *Handler) HandleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "contact")
	if err != nil {
		h.fail(w, r, "get contact failed", err, nil)
		return
	}
	c, err := h.service.GetContact(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get contact failed", err, nil)
		return
	}
	ops, err := h.operators(r.Context(), c.OperatorID)
	if err != nil {
		h.fail(w, r, "get contact failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toContact(c, ops[c.OperatorID]))
}

// HandleGetContactPrivileged handles GET /contacts/{id}/privileged.
func (h *Handler) HandleGetContactPrivileged(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "contact")
	if err != nil {
		h.fail(w, r, "get privileged contact failed", err, nil)
		return
	}
	view, err := h.service.GetContactPrivileged(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get privileged contact failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toContactPrivileged(view))
}
