package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go-user-api/internal/model"
)

type roleLookup interface {
	RoleOf(ctx context.Context, id string) (model.Role, error)
}

// RoleGate checks the caller's stored role against a required one. The
// lookup is live on every request, never cached, so a demotion takes
// effect on the next call.
type RoleGate struct {
	users roleLookup
}

func NewRoleGate(users roleLookup) *RoleGate {
	return &RoleGate{users: users}
}

func (g *RoleGate) Require(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Missing access token"})
				return
			}

			current, err := g.users.RoleOf(r.Context(), userID)
			switch {
			case errors.Is(err, model.ErrUserNotFound):
				// The identity no longer resolves to an account.
				writeError(w, http.StatusForbidden, model.ErrorResponse{
					Error: fmt.Sprintf("%s role required", role),
				})
				return
			case err != nil:
				// A store outage is not an authorization verdict.
				writeError(w, http.StatusInternalServerError, model.ErrorResponse{Error: "Unexpected server error"})
				return
			case current != role:
				writeError(w, http.StatusForbidden, model.ErrorResponse{
					Error: fmt.Sprintf("%s role required", role),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
