// Package httputil maps domain errors onto HTTP responses and holds the JSON
// helpers shared by handlers.
package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "droneregistry/pkg/domain-errors"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ValidationResponse is the body of a 400 caused by field validation.
type ValidationResponse struct {
	Status       string              `json:"status"`
	Message      string              `json:"message"`
	Errors       map[string][]string `json:"errors"`
	ReceivedData any                 `json:"received_data,omitempty"`
}

// StatusFor returns the HTTP status for a domain code.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err using its domain code. Internal errors never leak
// their description.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorWithData(w, err, nil)
}

// WriteErrorWithData is WriteError that echoes the received payload back on
// validation failures.
func WriteErrorWithData(w http.ResponseWriter, err error, received any) {
	code := dErrors.CodeOf(err)
	status := StatusFor(code)

	if fields := dErrors.FieldsOf(err); len(fields) > 0 && status == http.StatusBadRequest {
		WriteJSON(w, status, ValidationResponse{
			Status:       "error",
			Message:      "Validation failed",
			Errors:       fields,
			ReceivedData: received,
		})
		return
	}

	resp := ErrorResponse{Error: string(code)}
	if status != http.StatusInternalServerError {
		resp.ErrorDescription = describe(err)
	}
	WriteJSON(w, status, resp)
}

func describe(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// Decode reads a JSON object body into a new T. It also returns the body as
// a generic map so validation failures can echo it back. On failure it
// writes a 400 and returns ok=false.
func Decode[T any](w http.ResponseWriter, r *http.Request) (req *T, received map[string]any, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "Request body is too large or unreadable"))
		return nil, nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	req = new(T)
	if err := json.Unmarshal(body, req); err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "Invalid JSON body"))
		return nil, nil, false
	}
	if err := json.Unmarshal(body, &received); err != nil {
		received = nil
	}
	return req, received, true
}
