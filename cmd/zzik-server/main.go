package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"zzik-backend/internal/api/checkin"
	"zzik-backend/internal/api/experiences"
	"zzik-backend/internal/api/membership"
	"zzik-backend/internal/api/notifications"
	"zzik-backend/internal/api/reviews"
	"zzik-backend/internal/api/wallet"
	"zzik-backend/internal/common/auth"
	"zzik-backend/internal/common/aws"
	"zzik-backend/internal/common/config"
	"zzik-backend/internal/common/database"
	apierrors "zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
	"zzik-backend/internal/common/metrics"
	"zzik-backend/internal/common/observability"
	"zzik-backend/internal/common/trace"
	"zzik-backend/pkg/pricing"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting ZZIK API server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name, os.Getenv("JAEGER_ENDPOINT"))
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Service Clients ---
	verifier := auth.NewProviderClient(
		cfg.Auth.Provider.BaseURL,
		cfg.Auth.Provider.APIKey,
		config.GetDuration(cfg.Auth.Provider.Timeout),
	)

	var sesClient *aws.SESClient
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SES.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		zapLog.Info("SES client initialized")
	}

	var snsClient *aws.SNSClient
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SNS.DefaultSMSSenderID)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		zapLog.Info("SNS client initialized")
	}

	// --- Notification pipeline ---
	notifCfg := notifications.LoadConfig()
	notifCfg.EmailEnabled = cfg.Notifications.Email.Enabled && sesClient != nil
	notifCfg.SMSEnabled = cfg.Notifications.SMS.Enabled && snsClient != nil
	notifCfg.DebounceWindow = config.GetDuration(cfg.Notifications.DebounceWindow)

	dispatcher := notifications.NewDispatcher(sesClient, snsClient, notifCfg.DebounceWindow, log)
	defer dispatcher.Stop()

	notifService := notifications.NewService(notifCfg, pg, dispatcher, log)
	notifService.BindDispatcher()

	// --- Feature services ---
	membershipCfg := membership.LoadConfig()
	if cfg.Pricing.DefaultRegion != "" {
		membershipCfg.DefaultRegion = pricing.Region(cfg.Pricing.DefaultRegion)
	}
	if cfg.Pricing.CacheTTL > 0 {
		membershipCfg.CacheTTL = time.Duration(cfg.Pricing.CacheTTL) * time.Second
	}
	membershipService := membership.NewService(membershipCfg, redisClient, log)

	checkinCfg := checkin.LoadConfig()
	checkinCfg.TopN = int64(cfg.Leaderboard.TopN)
	checkinCfg.CheckInPoints = int64(cfg.Leaderboard.CheckInPoints)
	checkinCfg.DailyStreakPoints = int64(cfg.Leaderboard.DailyStreakPoints)
	checkinService := checkin.NewService(checkinCfg, pg, redisClient, log)

	experienceService := experiences.NewService(experiences.LoadConfig(), pg, esClient, notifService, log)
	walletService := wallet.NewService(pg, log)
	reviewService := reviews.NewService(reviews.LoadConfig(), pg, log)

	// --- HTTP API ---
	errorHandler := apierrors.NewErrorHandler(log)
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: errorHandler.Handle,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(trace.Middleware())
	app.Use(requestMetrics(obs))

	requireAuth := auth.Middleware(verifier)
	optionalAuth := auth.OptionalMiddleware(verifier)

	api := app.Group("/api")
	membership.NewHandler(membershipService, log).RegisterRoutes(api)
	checkin.NewHandler(checkinService, log).RegisterRoutes(api, requireAuth, optionalAuth)
	experiences.NewHandler(experienceService, log).RegisterRoutes(api, requireAuth)
	wallet.NewHandler(walletService, log).RegisterRoutes(api, requireAuth)
	reviews.NewHandler(reviewService, log).RegisterRoutes(api, requireAuth)
	notifications.NewHandler(notifService, log).RegisterRoutes(api, requireAuth)

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := app.Listen(cfg.Server.Address); err != nil {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "not ready"
				code = http.StatusServiceUnavailable
			}
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		zapLog.Error("API server shutdown error", zap.Error(err))
	}

	zapLog.Info("ZZIK API server stopped gracefully")
}

// requestMetrics records per-request counters and latency for both the
// Prometheus registry and the OTel meter.
func requestMetrics(obs *observability.Observability) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		route := ctx.Route().Path
		status := strconv.Itoa(ctx.Response().StatusCode())
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(ctx.Method(), route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(ctx.Method(), route).Observe(elapsed.Seconds())
		obs.RecordRequest(ctx.Context(), route, status)
		obs.RecordRequestDuration(ctx.Context(), elapsed, route)

		return err
	}
}
