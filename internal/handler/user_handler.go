package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-user-api/internal/middleware"
	"go-user-api/internal/model"
	"go-user-api/internal/service"
	"go-user-api/pkg/apierror"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateUserRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	actorID, _ := middleware.UserID(r.Context())
	user, err := h.service.Create(r.Context(), payload, actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("User `%s` created successfully", user.Username),
		"user":    user.Public(),
	})
}

// List answers both the collection route and the single-user route: a
// path id is just another filter, so the caller's visibility rules apply
// the same way on both.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := service.ListQuery{
		Filter: model.UserFilter{
			ID:        chi.URLParam(r, "id"),
			Username:  query.Get("username"),
			Email:     query.Get("email"),
			Firstname: query.Get("firstname"),
			Lastname:  query.Get("lastname"),
		},
		Page:    intQuery(query.Get("page")),
		PerPage: intQuery(query.Get("perPage")),
	}

	callerID, _ := middleware.UserID(r.Context())
	page, err := h.service.List(r.Context(), q, callerID)
	if err != nil {
		writeError(w, err)
		return
	}

	message := fmt.Sprintf("%d users found", page.Total)
	if page.Total == 0 {
		message = "No user found"
	} else if page.Total == 1 {
		message = "1 user found"
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"message":  message,
		"paginate": page,
	})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateUserRequest
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.Empty() {
		writeError(w, apierror.New(apierror.KindBadRequest, "Nothing to update", http.StatusBadRequest))
		return
	}

	actorID, _ := middleware.UserID(r.Context())
	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), payload, actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("User `%s` updated successfully", user.Username),
		"user":    user.Public(),
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserID(r.Context())
	user, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("User `%s` deleted successfully", user.Username),
		"user":    user.Public(),
	})
}

func intQuery(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
