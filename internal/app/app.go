package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-user-api/internal/config"
	"go-user-api/internal/database"
	"go-user-api/internal/event"
	"go-user-api/internal/handler"
	"go-user-api/internal/middleware"
	"go-user-api/internal/repository"
	"go-user-api/internal/router"
	"go-user-api/internal/service"
	"go-user-api/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	banRepo := repository.NewBanRepository(pool)
	slog.Info("database ready")

	bus := event.NewBus()

	accessSigner := token.NewSigner(cfg.JWTAccessSecret, cfg.JWTAccessTTL)
	refreshSigner := token.NewSigner(cfg.JWTRefreshSecret, cfg.JWTRefreshTTL)

	authService := service.NewAuthService(userRepo, sessionRepo, banRepo, accessSigner, refreshSigner, cfg.BcryptCost, bus)
	userService := service.NewUserService(userRepo, cfg.BcryptCost, bus)
	adminService := service.NewAdminService(userRepo, banRepo, bus)

	auth := middleware.NewAuth(authService, authService)
	banGate := middleware.NewBanGate(banRepo)
	roleGate := middleware.NewRoleGate(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(adminService)
	postsHandler := handler.NewPostsHandler(cfg.PostsAPIURL)
	healthHandler := handler.NewHealthHandler(db)

	appRouter := router.New(cfg, auth, banGate, roleGate, authHandler, userHandler, adminHandler, postsHandler, healthHandler)

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())

	audit := event.NewAuditLogger(bus)
	go audit.Run(backgroundCtx)
	go sweepSessions(backgroundCtx, sessionRepo, cfg.SessionSweep)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			backgroundCancel,
			db.Close,
		},
	}, nil
}

// sweepSessions periodically deletes expired refresh sessions. Rotation
// and lookup never depend on the sweep; it only keeps the table small.
func sweepSessions(ctx context.Context, sessions *repository.SessionRepository, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.CleanExpired(ctx)
			if err != nil {
				slog.Warn("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired sessions removed", "count", removed)
			}
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
