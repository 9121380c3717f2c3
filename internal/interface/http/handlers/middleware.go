package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION MIDDLEWARE
// Bearer token verification. The verified identity is injected into the
// request context; downstream handlers read it with IdentityFromContext and
// never parse tokens themselves.
// ══════════════════════════════════════════════════════════════════════════════

// TokenVerifier checks access tokens. Implemented by auth.TokenService.
type TokenVerifier interface {
	VerifyAccessToken(token string) (studentID string, role string, err error)
}

// Identity is the authenticated caller.
type Identity struct {
	StudentID string
	Role      string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == string(student.RoleAdmin)
}

type identityContextKey struct{}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}

// AuthMiddleware verifies bearer tokens on protected routes.
type AuthMiddleware struct {
	verifier TokenVerifier
	onReject func(w http.ResponseWriter, status int, code, message string)
}

// NewAuthMiddleware creates an auth middleware. The reject callback writes
// the error response so the middleware stays agnostic of the envelope format.
func NewAuthMiddleware(verifier TokenVerifier, onReject func(w http.ResponseWriter, status int, code, message string)) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, onReject: onReject}
}

// RequireAuth rejects requests without a valid access token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests without a valid admin access token.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		if !identity.IsAdmin() {
			m.onReject(w, http.StatusForbidden, "forbidden", "Admin access required")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		m.onReject(w, http.StatusUnauthorized, "unauthorized", "Authorization header required")
		return Identity{}, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		m.onReject(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format")
		return Identity{}, false
	}

	studentID, role, err := m.verifier.VerifyAccessToken(parts[1])
	if err != nil {
		m.onReject(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
		return Identity{}, false
	}

	return Identity{StudentID: studentID, Role: role}, true
}

// ══════════════════════════════════════════════════════════════════════════════
// GENERIC MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// MiddlewareFunc is a function that wraps an http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// Chain composes middlewares; the first argument is the outermost.
func Chain(middlewares ...MiddlewareFunc) MiddlewareFunc {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// TimeoutMiddleware bounds request handling time.
func TimeoutMiddleware(timeout time.Duration) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestSizeLimitMiddleware caps the request body size.
func RequestSizeLimitMiddleware(maxBytes int64) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets standard security headers.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
