package middleware

import (
	"context"
	"net/http"
	"time"

	"go-user-api/internal/model"
)

type banChecker interface {
	ActiveForUser(ctx context.Context, userID string, now time.Time) ([]model.Ban, error)
}

// BanGate rejects identified users with an active ban window. It runs on
// every gated request, which is what revokes a still-valid access token
// for a banned user without any per-token blocklist.
type BanGate struct {
	bans banChecker
}

func NewBanGate(bans banChecker) *BanGate {
	return &BanGate{bans: bans}
}

func (g *BanGate) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Missing access token"})
			return
		}

		active, err := g.bans.ActiveForUser(r.Context(), userID, time.Now().UTC())
		if err != nil {
			writeError(w, http.StatusInternalServerError, model.ErrorResponse{Error: "Unexpected server error"})
			return
		}

		if len(active) > 0 {
			infos := make([]model.BanInfo, 0, len(active))
			for _, b := range active {
				infos = append(infos, b.Info())
			}
			writeError(w, http.StatusForbidden, model.ErrorResponse{Error: "User currently banned", Bans: infos})
			return
		}

		next.ServeHTTP(w, r)
	})
}
