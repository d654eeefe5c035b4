package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/cache"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/service"
	"shareit/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewCache, redisClient := initCache(cfg, &logger)
	if redisClient != nil {
		defer cache.Close(redisClient)
	}

	eventBus := events.NewEventBus()
	subscribeEvents(eventBus, &logger)

	clock := service.SystemClock{}
	bookingService := service.NewBookingService(db, eventBus, clock, &logger)
	itemService := service.NewItemService(db, viewCache, eventBus, clock, &logger)
	userService := service.NewUserService(db, &logger)
	requestService := service.NewRequestService(db, clock, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	reportWriter := export.NewReportWriter(db, cfg.Exports.Path, &logger)
	exportWorker := worker.NewExportWorker(reportWriter, worker.RetryPolicy{}, &logger)
	go exportWorker.Start(ctx)
	if cfg.Exports.Schedule != "" {
		go exportWorker.RunSchedule(ctx, cfg.Exports.Schedule)
	}

	startMetrics(ctx, cfg, &logger)

	httpServer := api.NewHTTPServer(
		cfg.API, userService, itemService, bookingService, requestService,
		exportWorker, viewCache, &logger,
	)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initCache wires the item-view cache: redis with an in-memory fallback when
// configured, plain in-memory otherwise.
func initCache(cfg *config.Config, logger *zerolog.Logger) (domain.ViewCache, *redis.Client) {
	ttl := time.Duration(cfg.Cache.ItemViewTTL) * time.Second
	if ttl <= 0 {
		ttl = time.Duration(models.ItemViewCacheTTL) * time.Second
	}
	memory := cache.NewMemoryViewCache(ttl)

	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return memory, nil
	}

	redisClient := cache.NewRedisClient(cfg.Redis)
	if err := cache.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory cache")
		_ = cache.Close(redisClient)
		return memory, nil
	}
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")

	redisCache := cache.NewRedisViewCache(redisClient, ttl)
	return cache.NewFailoverViewCache(redisCache, memory, logger), redisClient
}

func subscribeEvents(bus *events.EventBus, logger *zerolog.Logger) {
	logEvent := func(event *events.Event) error {
		logger.Info().
			Str("event_type", event.Type).
			RawJSON("payload", event.Payload).
			Msg("domain event")
		return nil
	}

	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventCommentCreated,
	} {
		bus.Subscribe(eventType, logEvent)
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
