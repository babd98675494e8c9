package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-user-api/internal/middleware"
	"go-user-api/internal/model"
	"go-user-api/pkg/apierror"
)

// writeJSON writes a success envelope. When the authorization gate
// renewed the caller's credentials on this request, the fresh access
// token is spliced into the envelope so the client can pick it up even
// though the endpoint itself is not about authentication.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload map[string]any) {
	if tok, ok := middleware.RenewedAccessToken(r.Context()); ok {
		if _, taken := payload["accessToken"]; !taken {
			payload["accessToken"] = tok
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := model.ErrorResponse{Error: "Unexpected server error"}

	var apiErr *apierror.APIError
	var banned *model.BannedError

	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		resp.Error = apiErr.Message
		resp.Details = apiErr.Details
	case errors.As(err, &banned):
		status = http.StatusForbidden
		resp.Error = "User currently banned"
		resp.Bans = banned.Bans
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		resp.Error = "User not found"
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusBadRequest
		resp.Error = "User creation failed, email already used"
	case errors.Is(err, model.ErrUsernameTaken):
		status = http.StatusBadRequest
		resp.Error = "User creation failed, username already used"
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenInvalid):
		status = http.StatusUnauthorized
		resp.Error = "Invalid tokens"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		resp.Error = "Invalid input"
	default:
		// Unclassified errors stay generic for the client but are logged.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// decodeBody decodes and validates a JSON request body. A false return
// means the rejection has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, payload interface{ Validate() error }) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeError(w, apierror.New(apierror.KindBadRequest, "Invalid JSON body", http.StatusBadRequest))
		return false
	}

	if err := payload.Validate(); err != nil {
		writeError(w, apierror.WithDetails(apierror.KindBadRequest, "Invalid request body", err, http.StatusBadRequest))
		return false
	}

	return true
}
