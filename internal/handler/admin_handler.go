package handler

import (
	"fmt"
	"net/http"

	"go-user-api/internal/middleware"
	"go-user-api/internal/model"
	"go-user-api/internal/service"
)

type AdminHandler struct {
	service *service.AdminService
}

func NewAdminHandler(service *service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Ban(w http.ResponseWriter, r *http.Request) {
	var payload model.BanRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	adminID, _ := middleware.UserID(r.Context())
	record, err := h.service.Ban(r.Context(), payload, adminID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("User `%s` was successfully banned", record.User.Username),
		"ban":     record,
	})
}

func (h *AdminHandler) Unban(w http.ResponseWriter, r *http.Request) {
	var payload model.UnbanRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	adminID, _ := middleware.UserID(r.Context())
	closed, err := h.service.Unban(r.Context(), payload.Username, adminID)
	if err != nil {
		writeError(w, err)
		return
	}

	message := fmt.Sprintf("User `%s` was successfully unbanned", payload.Username)
	if !closed {
		message = fmt.Sprintf("User `%s` isn't currently banned", payload.Username)
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"message": message,
	})
}
