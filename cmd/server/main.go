package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/amazonstore/backend/internal/application/catalog"
	reportapp "github.com/amazonstore/backend/internal/application/report"
	"github.com/amazonstore/backend/internal/infrastructure/cache"
	"github.com/amazonstore/backend/internal/infrastructure/config"
	"github.com/amazonstore/backend/internal/infrastructure/logger"
	"github.com/amazonstore/backend/internal/infrastructure/persistence"
	"github.com/amazonstore/backend/internal/infrastructure/telemetry"
	"github.com/amazonstore/backend/internal/interfaces/http/handler"
	"github.com/amazonstore/backend/internal/interfaces/http/middleware"
	"github.com/amazonstore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = tel.Bridge(log)

	log.Info("Starting store API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbTracing := telemetry.NewDBTracingConfig(cfg.Telemetry, cfg.Database.Driver)
	dbTracing.TracerProvider = tel.TracerProvider()
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	dashboardCache, closeCache, err := cache.NewDashboardCacheFactory(cfg.Redis, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize dashboard cache", zap.Error(err))
	}
	defer func() { _ = closeCache() }()

	listingRepo := persistence.NewGormListingRepository(db.DB)
	dashboardService := reportapp.NewDashboardService(
		persistence.NewGormDashboardRepository(db.DB),
		reportapp.WithCache(dashboardCache),
		reportapp.WithLogger(log),
	)
	productService := catalogapp.NewProductService(
		persistence.NewGormProductRepository(db.DB),
		listingRepo,
		dashboardCache,
		log,
	)

	handlers := router.Handlers{
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Listing:   handler.NewListingHandler(catalogapp.NewListingService(listingRepo)),
		Product:   handler.NewProductHandler(productService),
		Health:    handler.NewHealthHandler(cfg.App.Name, version, map[string]handler.Pinger{"database": db}),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics, err := middleware.Metrics(tel.Meter("amazonstore/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        tel.Enabled(),
			TracerProvider: tel.TracerProvider(),
		}),
		middleware.SpanEnricher(),
		httpMetrics,
		logger.GinMiddleware(log),
	)

	router.NewRouter(engine).Register(router.StoreGroups(handlers)...).Setup()
	router.RegisterHealth(engine, handlers.Health)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}
