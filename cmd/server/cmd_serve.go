package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/infralens/api/docs"
	"github.com/infralens/api/internal/advisor"
	"github.com/infralens/api/internal/breaker"
	"github.com/infralens/api/internal/config"
	"github.com/infralens/api/internal/database"
	"github.com/infralens/api/internal/eventbus"
	"github.com/infralens/api/internal/grpchealth"
	"github.com/infralens/api/internal/handlers"
	"github.com/infralens/api/internal/middleware"
	"github.com/infralens/api/internal/recommend"
	"github.com/infralens/api/internal/telemetry"
	"github.com/infralens/api/internal/validation"
)

const (
	serviceName         = "infralens-api"
	shutdownTimeout     = 30 * time.Second
	healthWatchInterval = 15 * time.Second
)

var serveMigrate bool

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health endpoint",
		Long: `Run the recommendation API.

Postgres, Redis, NATS and Temporal are used when reachable. When they are not,
the API keeps serving recommendations from the built-in catalog.`,
		Args: cobra.NoArgs,
		RunE: serveCommandE,
	}

	cmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply database migrations before serving")

	return cmd
}

func serveCommandE(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("InfraLens API starting...", zap.String("version", version))

	shutdownTelemetry, err := telemetry.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		// Collector may be down; tracing is optional.
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	if serveMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
		}
	}

	b, closeBackends := connectBackends(cfg, backendSet{postgres: true, redis: true, nats: true, temporal: true}, logger)
	defer closeBackends()

	validation.RegisterJSONTagNames()

	parts, err := buildCatalog(cfg, b, catalogOptions{live: true}, logger)
	if err != nil {
		return err
	}
	recorder := buildRecorder(b, logger)
	defer recorder.Close()

	svc := advisor.NewService(parts.service, recommend.NewEngine(nil), buildReranker(cfg, logger), recorder, logger)
	auth := middleware.NewAuthenticator(cfg.JWTSecret, logger)

	var configs handlers.ConfigStore
	if b.db != nil {
		configs = database.NewSavedConfigs(b.db.Pool())
	}

	health := newHealthHandler(b, parts.breaker)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.FrontendOrigin))
	router.Use(middleware.Metrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.Routes{
		Health:          health,
		Recommendations: handlers.NewRecommendationHandler(svc, logger),
		Models:          handlers.NewModelsHandler(parts.service, logger),
		Analytics:       handlers.NewAnalyticsHandler(recorder, logger),
		Configs:         handlers.NewConfigHandler(configs, logger),
		Auth:            auth,
		DefaultLimiter:  middleware.DefaultRateLimiter,
		StrictLimiter:   middleware.StrictRateLimiter,
	}.Register(router)

	grpcServer := grpchealth.New(auth, criticalProbe(b), logger)
	grpcLis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	go grpcServer.Watch(ctx, healthWatchInterval)
	go func() {
		logger.Info("starting grpc health server", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(grpcLis); err != nil {
			logger.Error("grpc server stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		grpcServer.Shutdown()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	grpcServer.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited gracefully")
	return nil
}

func newHealthHandler(b *backends, cb *breaker.CircuitBreaker) *handlers.HealthHandler {
	h := handlers.NewHealthHandler()
	if b.db != nil {
		h.AddCheck("database", b.db.Ping, true)
	} else {
		h.NotConfigured("database")
	}
	if b.redis != nil {
		h.AddCheck("redis", b.redis.Ping, false)
	} else {
		h.NotConfigured("redis")
	}
	if b.events != nil {
		h.AddCheck("nats", eventbus.Ping, false)
	} else {
		h.NotConfigured("nats")
	}
	if b.temporal != nil {
		h.AddCheck("temporal", temporalHealth(b.temporal), false)
	} else {
		h.NotConfigured("temporal")
	}
	if cb != nil {
		h.AddCheck("hub", hubBreakerCheck(cb), false)
	}
	return h
}

func hubBreakerCheck(cb *breaker.CircuitBreaker) handlers.HealthCheck {
	return func(context.Context) error {
		if state := cb.State(); state == breaker.Open {
			return fmt.Errorf("circuit %s", state)
		}
		return nil
	}
}

// criticalProbe drives the gRPC serving status from the critical
// dependencies only.
func criticalProbe(b *backends) grpchealth.Probe {
	if b.db == nil {
		return nil
	}
	return b.db.Ping
}
