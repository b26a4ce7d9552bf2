package telemetry

import (
	"context"

	importapp "github.com/amazonstore/backend/internal/application/import"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ImportMetrics records one observation per import run
type ImportMetrics struct {
	runs     *Counter
	rows     *Counter
	created  *Counter
	duration *Histogram
}

// NewImportMetrics registers the import instruments on meter
func NewImportMetrics(meter metric.Meter) (*ImportMetrics, error) {
	runs, err := NewCounter(meter, "store_import_runs_total", "Import runs by outcome", "{run}")
	if err != nil {
		return nil, err
	}
	rows, err := NewCounter(meter, "store_import_rows_total", "Rows read by import runs", "{row}")
	if err != nil {
		return nil, err
	}
	created, err := NewCounter(meter, "store_import_entities_created_total", "Rows inserted by committed import runs", "{row}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, "store_import_duration_seconds", "Duration of import runs", "s", ImportDurationBuckets)
	if err != nil {
		return nil, err
	}
	return &ImportMetrics{runs: runs, rows: rows, created: created, duration: duration}, nil
}

// RecordImport implements importapp.MetricsRecorder
func (m *ImportMetrics) RecordImport(ctx context.Context, obs importapp.RunObservation) {
	status := "success"
	if obs.Err != nil {
		status = "failed"
	}
	attrs := []attribute.KeyValue{
		AttrImportStatus.String(status),
		AttrLineItemMode.String(string(obs.Mode)),
	}

	m.runs.Add(ctx, 1, attrs...)
	m.rows.Add(ctx, int64(obs.Rows), attrs...)
	m.duration.RecordDuration(ctx, obs.Duration, attrs...)
	if obs.Err != nil {
		return
	}
	for _, line := range importapp.CountLines(obs.Created) {
		if line.Count > 0 {
			m.created.Add(ctx, line.Count, AttrEntity.String(line.Label))
		}
	}
}

var _ importapp.MetricsRecorder = (*ImportMetrics)(nil)
