package middleware

import (
	"encoding/json"
	"net/http"

	"go-user-api/internal/model"
)

func writeError(w http.ResponseWriter, status int, resp model.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
