package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/google/uuid"
)

// AdminChecker reports whether a user holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ErrorWriter renders an authentication or authorization failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates requests with a bearer token and stores the
// Principal on the request context. Failures are rendered by onError, or as
// a JSON 401 when onError is nil.
func Middleware(verifier *Verifier, onError ErrorWriter) func(http.Handler) http.Handler {
	if onError == nil {
		onError = writeError
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := verifier.Verify(bearerToken(r))
			if err != nil {
				onError(w, r, err)
				return
			}
			ctx := WithPrincipal(r.Context(), principal)
			ctx = activity.WithActor(ctx, principal.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers without the admin role with 403. It must run
// after Middleware.
func RequireAdmin(checker AdminChecker, onError ErrorWriter) func(http.Handler) http.Handler {
	if onError == nil {
		onError = writeError
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				onError(w, r, unauthorized(ErrMissingToken))
				return
			}
			isAdmin, err := checker.IsAdmin(r.Context(), principal.UserID)
			if err != nil {
				onError(w, r, err)
				return
			}
			if !isAdmin {
				onError(w, r, forbidden(ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func writeError(w http.ResponseWriter, _ *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	switch {
	case errors.Is(err, ErrForbidden) || goerrors.IsCategory(err, goerrors.CategoryAuthz):
		status, code = http.StatusForbidden, "ADMIN_REQUIRED"
	case goerrors.IsCategory(err, goerrors.CategoryAuth):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": err.Error()})
}
