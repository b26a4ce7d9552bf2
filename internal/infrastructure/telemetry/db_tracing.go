package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/amazonstore/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls the gorm tracing plugin
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
	TracerProvider  trace.TracerProvider
}

// NewDBTracingConfig derives the tracing settings for a database driver
func NewDBTracingConfig(cfg config.TelemetryConfig, driver string) DBTracingConfig {
	system := map[string]string{
		config.DriverPostgres: "postgresql",
		config.DriverMySQL:    "mysql",
		config.DriverSQLite:   "sqlite",
	}[driver]
	return DBTracingConfig{
		Enabled:         cfg.Enabled && cfg.DBTraceEnabled,
		LogFullSQL:      cfg.DBLogFullSQL,
		SlowQueryThresh: cfg.DBSlowQueryThresh,
		DBSystem:        system,
	}
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm on db plus callbacks that flag slow queries
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register("store_timing:before_create", before),
		cb.Query().Before("gorm:query").Register("store_timing:before_query", before),
		cb.Update().Before("gorm:update").Register("store_timing:before_update", before),
		cb.Delete().Before("gorm:delete").Register("store_timing:before_delete", before),
		cb.Row().Before("gorm:row").Register("store_timing:before_row", before),
		cb.Raw().Before("gorm:raw").Register("store_timing:before_raw", before),
		cb.Create().After("gorm:create").Register("store_timing:after_create", after),
		cb.Query().After("gorm:query").Register("store_timing:after_query", after),
		cb.Update().After("gorm:update").Register("store_timing:after_update", after),
		cb.Delete().After("gorm:delete").Register("store_timing:after_delete", after),
		cb.Row().After("gorm:row").Register("store_timing:after_row", after),
		cb.Raw().After("gorm:raw").Register("store_timing:after_raw", after),
	)
	if err != nil {
		return err
	}
	// registered after the timing callbacks so statement spans are still open when annotated
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

// annotateSpan adds table, row count, error and slow query details to the statement span
func annotateSpan(tx *gorm.DB, slow time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); slow > 0 && elapsed > slow {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("threshold_ms", slow.Milliseconds()),
		))
	}
}
