package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"taskly_backend/internal/cache"
	"taskly_backend/internal/config"
	"taskly_backend/internal/database"
	"taskly_backend/internal/handler"
	"taskly_backend/internal/redis"
	"taskly_backend/internal/repository"
	"taskly_backend/internal/service"
	"taskly_backend/internal/worker"
)

// Run loads configuration, wires every layer together, starts the due-task
// sweeper and the HTTP server, and blocks until shutdown.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Redis task-list cache (optional)
	var taskCache cache.TaskCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		taskCache = cache.NewTaskCache(redisClient.Client)
		log.Println("Connected to Redis, task-list cache enabled")
	} else {
		log.Println("REDIS_URL not set, task-list cache disabled")
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)

	// 5. Services
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	taskService := service.NewTaskService(taskRepo, historyRepo, taskCache)
	historyService := service.NewHistoryService(historyRepo)
	notificationService := service.NewNotificationService(deviceTokenRepo)

	// 6. Due-task sweeper
	loc, err := time.LoadLocation(cfg.SweepTimezone)
	if err != nil {
		return fmt.Errorf("invalid sweep timezone %q: %w", cfg.SweepTimezone, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := worker.NewSweeper(taskRepo, service.NewExpoPushClient(), worker.SweeperConfig{
		Interval:  cfg.SweepInterval,
		Lookahead: cfg.SweepLookahead,
		Location:  loc,
	})
	sweeper.Start(ctx)
	defer sweeper.Stop()

	// 7. HTTP server
	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService),
		TaskHandler:         handler.NewTaskHandler(taskService),
		HistoryHandler:      handler.NewHistoryHandler(historyService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		JWTSecret:           cfg.JWTSecret,
	})

	srv := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
