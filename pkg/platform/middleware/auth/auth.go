// Package auth provides the bearer token and scope gates.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"droneregistry/internal/auth/token"
	"droneregistry/pkg/requestcontext"
)

// TokenValidator verifies a raw bearer token.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// RevocationChecker reports whether a token ID has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// BypassSubject is the subject assigned to callers when verification is bypassed.
const BypassSubject = "bypass"

// Gate holds the collaborators shared by RequireAuth and RequireScope.
type Gate struct {
	validator   TokenValidator
	revocations RevocationChecker
	logger      *slog.Logger
	bypass      bool
}

// Option configures a Gate.
type Option func(*Gate)

// WithRevocations enables the revocation check. Nil disables it.
func WithRevocations(r RevocationChecker) Option {
	return func(g *Gate) {
		g.revocations = r
	}
}

// WithBypass treats every request as authenticated with every scope.
func WithBypass(enabled bool) Option {
	return func(g *Gate) {
		g.bypass = enabled
	}
}

func NewGate(validator TokenValidator, logger *slog.Logger, opts ...Option) *Gate {
	g := &Gate{validator: validator, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

type bypassKey struct{}

func isBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}

// RequireAuth rejects requests without a valid, unrevoked bearer token with
// 401 and stores the token subject, scopes and jti in the request context.
func (g *Gate) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			if g.bypass {
				ctx = requestcontext.WithSubject(ctx, BypassSubject)
				ctx = context.WithValue(ctx, bypassKey{}, true)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				g.logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := g.validator.Validate(raw)
			if err != nil {
				g.logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			if g.revocations != nil {
				if claims.ID == "" {
					g.logger.WarnContext(ctx, "unauthorized access - missing token jti",
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
					return
				}
				revoked, err := g.revocations.IsRevoked(ctx, claims.ID)
				if err != nil {
					g.logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to validate token")
					return
				}
				if revoked {
					g.logger.WarnContext(ctx, "unauthorized access - token revoked",
						"jti", claims.ID,
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Token has been revoked")
					return
				}
			}

			ctx = requestcontext.WithSubject(ctx, claims.Subject)
			ctx = requestcontext.WithScopes(ctx, claims.Scopes())
			ctx = requestcontext.WithTokenID(ctx, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope rejects callers whose token lacks scope with 403. It must be
// mounted behind RequireAuth.
func (g *Gate) RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if isBypassed(ctx) || requestcontext.HasScope(ctx, scope) {
				next.ServeHTTP(w, r)
				return
			}
			g.logger.WarnContext(ctx, "forbidden - missing scope",
				"scope", scope,
				"subject", requestcontext.Subject(ctx),
				"request_id", requestcontext.RequestID(ctx),
			)
			writeJSONError(w, http.StatusForbidden, "forbidden", "You don't have access to this resource")
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
