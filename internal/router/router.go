package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-user-api/internal/config"
	"go-user-api/internal/handler"
	"go-user-api/internal/middleware"
	"go-user-api/internal/model"
)

func New(
	cfg *config.Config,
	auth *middleware.Auth,
	banGate *middleware.BanGate,
	roleGate *middleware.RoleGate,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	adminHandler *handler.AdminHandler,
	postsHandler *handler.PostsHandler,
	healthHandler *handler.HealthHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", healthHandler.Check)

	r.Route("/auth", func(authRoutes chi.Router) {
		authRoutes.With(auth.Guest).Post("/register", authHandler.Register)
		authRoutes.With(auth.Guest).Post("/login", authHandler.Login)
		authRoutes.With(auth.Logged).Post("/logout", authHandler.Logout)
		authRoutes.With(auth.Logged).Post("/refresh", authHandler.Refresh)
		authRoutes.Post("/password-reset", authHandler.PasswordReset)
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(auth.Require, banGate.Check, roleGate.Require(model.RoleAdmin))
		admin.Post("/ban", adminHandler.Ban)
		admin.Post("/unban", adminHandler.Unban)
	})

	r.Route("/api/v1/users", func(users chi.Router) {
		users.Use(auth.Require, banGate.Check)
		users.Get("/", userHandler.List)
		users.Get("/{id}", userHandler.List)
		users.With(roleGate.Require(model.RoleAdmin)).Post("/", userHandler.Create)
		users.With(roleGate.Require(model.RoleAdmin)).Put("/{id}", userHandler.Update)
		users.With(roleGate.Require(model.RoleAdmin)).Delete("/{id}", userHandler.Delete)
	})

	r.Route("/api/v2/posts", func(posts chi.Router) {
		posts.Use(auth.Require, banGate.Check)
		posts.Get("/", postsHandler.List)
		posts.Get("/{id}", postsHandler.Get)
		posts.Get("/{id}/comments", postsHandler.Comments)
	})

	return r
}
