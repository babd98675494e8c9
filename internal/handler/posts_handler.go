package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"go-user-api/internal/middleware"
	"go-user-api/internal/model"
)

// PostsHandler proxies read-only calls to an upstream posts API. The
// upstream speaks JSON; bodies are passed through untouched unless a
// silent token renewal happened on the request, in which case the body
// is wrapped so the new access token reaches the client.
type PostsHandler struct {
	baseURL string
	client  *http.Client
}

func NewPostsHandler(baseURL string) *PostsHandler {
	return &PostsHandler{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "/posts")
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "/posts/"+url.PathEscape(chi.URLParam(r, "id")))
}

func (h *PostsHandler) Comments(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "/posts/"+url.PathEscape(chi.URLParam(r, "id"))+"/comments")
}

func (h *PostsHandler) proxy(w http.ResponseWriter, r *http.Request, path string) {
	target := h.baseURL + path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeError(w, fmt.Errorf("build upstream request: %w", err))
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: "Posts service unavailable"})
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")

	if renewed, ok := middleware.RenewedAccessToken(r.Context()); ok && resp.StatusCode < 300 {
		body, rerr := io.ReadAll(resp.Body)
		if rerr == nil {
			var payload any
			if json.Unmarshal(body, &payload) == nil {
				w.WriteHeader(resp.StatusCode)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"accessToken": renewed,
					"data":        payload,
				})
				return
			}
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write(body)
		return
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
