package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/storefront/internal/app/feedback"
	"github.com/light-bringer/storefront/internal/pkg/storage"
	"github.com/light-bringer/storefront/internal/services"
)

func main() {
	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(config, logger); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}

func run(config Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting storefront",
		zap.String("backend", config.Services.BackendURL),
		zap.String("storage", config.Services.Storage.Driver),
		zap.String("http_port", config.HTTPPort))

	// 1. Wire dependencies
	serviceOpts, err := services.NewServiceOptions(ctx, config.Services, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 2. Initial catalog load; partial data is served while it runs
	go func() {
		if err := serviceOpts.Catalog.Load(ctx); err != nil {
			logger.Warn("initial catalog load incomplete", zap.Error(err))
			if _, ferr := serviceOpts.Feedback.Push(ctx, feedback.KindError, "Failed to load the menu. Please try again."); ferr != nil {
				logger.Warn("feedback push failed", zap.Error(ferr))
			}
		}
	}()

	// 3. HTTP server
	httpServer := &http.Server{
		Addr:              ":" + config.HTTPPort,
		Handler:           serviceOpts.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 4. Graceful shutdown
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

// Config holds application configuration.
type Config struct {
	HTTPPort string
	LogLevel string
	Services services.Config
}

// loadConfig loads configuration from environment variables with defaults.
func loadConfig() (Config, error) {
	fetchTimeout, err := durationEnv("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	debounce, err := durationEnv("SEARCH_DEBOUNCE", 300*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	pageSize, err := intEnv("PAGE_SIZE", 12)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),
		LogLevel: os.Getenv("LOG_LEVEL"),
		Services: services.Config{
			BackendURL:     getEnvOrDefault("BACKEND_URL", "http://localhost:8000/api"),
			FetchTimeout:   fetchTimeout,
			PageSize:       pageSize,
			SearchDebounce: debounce,
			Language:       getEnvOrDefault("LANGUAGE", "en"),
			Storage: storage.Config{
				Driver:          getEnvOrDefault("STORAGE_DRIVER", storage.DriverSQLite),
				SQLitePath:      getEnvOrDefault("SQLITE_PATH", "storefront.db"),
				RedisAddr:       os.Getenv("REDIS_ADDR"),
				RedisKeyPrefix:  getEnvOrDefault("REDIS_PREFIX", "storefront:"),
				SpannerDatabase: os.Getenv("SPANNER_DATABASE"),
			},
		},
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: expected a positive integer, got %q", key, raw)
	}
	return n, nil
}
