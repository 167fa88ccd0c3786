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

	"github.com/redis/go-redis/v9"

	"org-service/internal/config"
	"org-service/internal/database"
	"org-service/internal/handler"
	"org-service/internal/middleware"
	"org-service/internal/repository"
	"org-service/internal/revocation"
	"org-service/internal/router"
	"org-service/internal/service"
	"org-service/internal/token"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("revocation store ready")

	userRepo := repository.NewUserRepository(db.Pool)
	orgRepo := repository.NewOrganizationRepository(db.Pool)
	revocationStore := revocation.NewStore(redisClient)

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		db.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	issuer := token.NewIssuer(codec, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	authService := service.NewAuthService(userRepo, revocationStore, codec, issuer)
	orgService := service.NewOrgService(orgRepo, userRepo)

	authMiddleware := middleware.NewAuthMiddleware(codec)
	authHandler := handler.NewAuthHandler(authService)
	orgHandler := handler.NewOrgHandler(orgService)

	appRouter := router.New(cfg, db, authMiddleware, authHandler, orgHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			func() { db.Close() },
			func() { _ = redisClient.Close() },
		},
	}, nil
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
