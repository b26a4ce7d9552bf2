package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	importapp "github.com/amazonstore/backend/internal/application/import"
	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/amazonstore/backend/internal/infrastructure/cache"
	"github.com/amazonstore/backend/internal/infrastructure/config"
	"github.com/amazonstore/backend/internal/infrastructure/logger"
	"github.com/amazonstore/backend/internal/infrastructure/persistence"
	"github.com/amazonstore/backend/internal/infrastructure/storage"
	"github.com/amazonstore/backend/internal/infrastructure/telemetry"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: importer <csv-file>")
		os.Exit(1)
	}
	os.Exit(run(os.Args[1], os.Stdout))
}

func run(location string, out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Error("Failed to initialize telemetry", zap.Error(err))
		return 1
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Warn("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = tel.Bridge(log)

	mode, err := store.ParseLineItemMode(cfg.Importer.LineItemMode)
	if err != nil {
		log.Error("Invalid importer configuration", zap.Error(err))
		return 1
	}

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))))
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	dbTracing := telemetry.NewDBTracingConfig(cfg.Telemetry, cfg.Database.Driver)
	dbTracing.TracerProvider = tel.TracerProvider()
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Error("Failed to register database tracing", zap.Error(err))
		return 1
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			log.Error("Failed to migrate database", zap.Error(err))
			return 1
		}
	}

	opener, err := newOpener(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize object storage", zap.Error(err))
		return 1
	}

	opts := []importapp.Option{
		importapp.WithLineItemMode(mode),
		importapp.WithProgressInterval(cfg.Importer.ProgressInterval),
		importapp.WithProgressWriter(out),
	}

	metrics, err := telemetry.NewImportMetrics(tel.Meter("amazonstore/importer"))
	if err != nil {
		log.Error("Failed to create import metrics", zap.Error(err))
		return 1
	}
	opts = append(opts, importapp.WithMetrics(metrics))

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, dashboard cache will not be invalidated", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			opts = append(opts, importapp.WithCacheInvalidator(
				cache.NewRedisDashboardCache(client, cache.DefaultDashboardKey, cfg.Redis.DashboardTTL)))
		}
	}

	svc := importapp.NewOrderImportService(persistence.NewGormImportTransactor(db.DB), opener, log, opts...)
	result, err := svc.Import(ctx, location)
	if err != nil {
		if errors.Is(err, importapp.ErrSourceNotFound) {
			fmt.Fprintf(out, "File not found: %s\n", location)
			return 1
		}
		fmt.Fprintf(out, "Import failed: %v\n", err)
		return 1
	}

	if err := renderSummary(out, result); err != nil {
		log.Warn("Failed to render summary", zap.Error(err))
	}
	return 0
}

// newOpener routes s3:// locations to object storage when a bucket or endpoint is configured
func newOpener(ctx context.Context, cfg *config.Config, log *zap.Logger) (*storage.SourceResolver, error) {
	if cfg.Storage.Bucket == "" && cfg.Storage.Endpoint == "" {
		return storage.NewSourceResolver(storage.NewLocalFileSource(), nil), nil
	}
	s3, err := storage.NewS3Source(ctx, &cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return storage.NewSourceResolver(storage.NewLocalFileSource(), s3), nil
}

func renderSummary(w io.Writer, r *importapp.ImportResult) error {
	created := importapp.CountLines(r.Created)
	totals := importapp.CountLines(r.Totals)

	table := tablewriter.NewWriter(w)
	table.Header("Entity", "Created", "Total")
	for i, line := range totals {
		if err := table.Append([]string{
			line.Label,
			strconv.FormatInt(created[i].Count, 10),
			strconv.FormatInt(line.Count, 10),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Run %s (%s) finished in %s\n", r.RunID, r.Mode, r.Duration)
	return err
}
