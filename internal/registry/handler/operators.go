package handler

import (
	"math"
	"net/http"
	"strconv"

	"droneregistry/internal/ratelimit/authlockout"
	"droneregistry/internal/registry/models"
	dErrors "droneregistry/pkg/domain-errors"
	"droneregistry/pkg/platform/httputil"
	"droneregistry/pkg/requestcontext"
)

// HandleCreateOperator handles POST /operators.
func (h *Handler) HandleCreateOperator(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.CreateOperatorRequest](w, r)
	if !ok {
		return
	}
	op, err := h.service.CreateOperator(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create operator failed", err, redact(received))
		return
	}
	h.logger.InfoContext(r.Context(), "operator created",
		"request_id", requestcontext.RequestID(r.Context()),
		"operator_id", op.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, toOperator(op))
}

// HandleListOperators handles GET /operators.
func (h *Handler) HandleListOperators(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListOperators(r.Context())
	if err != nil {
		h.fail(w, r, "list operators failed", err, nil)
		return
	}
	out := make([]OperatorResponse, 0, len(list))
	for _, op := range list {
		out = append(out, toOperator(op))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleGetOperator handles GET /operators/{id}.
func (h *Handler) HandleGetOperator(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "operator")
	if err != nil {
		h.fail(w, r, "get operator failed", err, nil)
		return
	}
	op, err := h.service.GetOperator(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get operator failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOperator(op))
}

// HandleDeleteOperator handles DELETE /operators/{id}.
func (h *Handler) HandleDeleteOperator(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "operator")
	if err != nil {
		h.fail(w, r, "delete operator failed", err, nil)
		return
	}
	if err := h.service.DeleteOperator(r.Context(), id); err != nil {
		h.fail(w, r, "delete operator failed", err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetOperatorPrivileged handles GET /operators/{id}/privileged.
func (h *Handler) HandleGetOperatorPrivileged(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "operator")
	if err != nil {
		h.fail(w, r, "get privileged operator failed", err, nil)
		return
	}
	view, err := h.service.GetOperatorPrivileged(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get privileged operator failed", err, nil)
		return
	}
	h.logger.InfoContext(r.Context(), "privileged operator view served",
		"request_id", requestcontext.RequestID(r.Context()),
		"subject", requestcontext.Subject(r.Context()),
		"operator_id", id,
	)
	httputil.WriteJSON(w, http.StatusOK, toOperatorPrivileged(view))
}

// HandleOperatorAircraft handles GET /operators/{id}/aircraft.
func (h *Handler) HandleOperatorAircraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "operator")
	if err != nil {
		h.fail(w, r, "list operator aircraft failed", err, nil)
		return
	}
	list, err := h.service.OperatorAircraft(r.Context(), id)
	if err != nil {
		h.fail(w, r, "list operator aircraft failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAircraftList(list))
}

// HandleLogin handles POST /operators/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, received, ok := httputil.Decode[models.LoginRequest](w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	ip := requestcontext.ClientIP(ctx)
	if h.limiter != nil {
		res, err := h.limiter.Check(ctx, req.Email, ip)
		if err != nil {
			h.fail(w, r, "operator login failed", err, nil)
			return
		}
		if !res.Allowed {
			h.logger.WarnContext(ctx, "operator login refused while locked", "ip", authlockout.AnonymizeIP(ip))
			writeLockedOut(w, res)
			return
		}
	}

	op, err := h.service.Login(ctx, req)
	if err != nil {
		if h.limiter != nil && dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			if _, lerr := h.limiter.RecordFailure(ctx, req.Email, ip); lerr != nil {
				h.logger.ErrorContext(ctx, "failed to record login failure", "error", lerr)
			}
		}
		h.fail(w, r, "operator login failed", err, redact(received))
		return
	}
	if h.limiter != nil {
		if err := h.limiter.Clear(ctx, req.Email, ip); err != nil {
			h.logger.WarnContext(ctx, "failed to clear login failures", "error", err)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, toOperator(op))
}

type lockedOutResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

func writeLockedOut(w http.ResponseWriter, res *authlockout.Result) {
	seconds := int(math.Ceil(res.RetryAfter.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	httputil.WriteJSON(w, http.StatusTooManyRequests, lockedOutResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many authentication attempts. Please try again later.",
		RetryAfter: seconds,
	})
}
