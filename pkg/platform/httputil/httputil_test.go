package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "droneregistry/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		_, ok := body["error_description"]
		assert.False(t, ok, "internal errors must not describe themselves")
	})

	t.Run("foreign errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, fmt.Errorf("driver: connection reset"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("not found includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, fmt.Errorf("load: %w", dErrors.New(dErrors.CodeNotFound, "operator not found")))

		require.Equal(t, http.StatusNotFound, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "not_found", body["error"])
		assert.Equal(t, "operator not found", body["error_description"])
	})

	t.Run("validation error carries fields and received data", func(t *testing.T) {
		fe := dErrors.FieldErrors{}
		fe.Add("registration_mark", "Ensure this field has no more than 10 characters (received 11).")
		w := httptest.NewRecorder()
		WriteErrorWithData(w, fe.Err(), map[string]any{"registration_mark": "ABCDEFGHIJK"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body ValidationResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "Validation failed", body.Message)
		assert.Len(t, body.Errors["registration_mark"], 1)
		assert.NotNil(t, body.ReceivedData)
	})
}

type decodeTarget struct {
	Name string `json:"name"`
}

func TestDecode(t *testing.T) {
	t.Run("valid body is decoded and echoed", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Skyways","extra":1}`))
		req, received, ok := Decode[decodeTarget](w, r)
		require.True(t, ok)
		assert.Equal(t, "Skyways", req.Name)
		assert.Equal(t, "Skyways", received["name"])
		assert.InDelta(t, 1.0, received["extra"], 0)
	})

	t.Run("empty body decodes to zero value", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		req, _, ok := Decode[decodeTarget](w, r)
		require.True(t, ok)
		assert.Empty(t, req.Name)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		_, _, ok := Decode[decodeTarget](w, r)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "bad_request")
	})
}
