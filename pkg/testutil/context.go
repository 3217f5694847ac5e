package testutil

import (
	"net/http"
	"time"

	"droneregistry/pkg/requestcontext"
)

// WithSubject marks the request as authenticated, as RequireAuth would.
func WithSubject(req *http.Request, subject string, scopes ...string) *http.Request {
	ctx := requestcontext.WithSubject(req.Context(), subject)
	ctx = requestcontext.WithScopes(ctx, scopes)
	return req.WithContext(ctx)
}

// WithTime pins the request time, as the requesttime middleware would.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID sets the request ID, as the metadata middleware would.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// Bearer sets the Authorization header.
func Bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
