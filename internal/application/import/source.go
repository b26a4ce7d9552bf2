package importapp

import (
	"context"
	"errors"
	"io"
)

// ErrSourceNotFound is returned when the import source does not exist.
// No transaction is opened in that case.
var ErrSourceNotFound = errors.New("import source not found")

// SourceOpener opens an import source by location.
// Implementations report a missing source with an error matching fs.ErrNotExist.
type SourceOpener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// MetricsRecorder receives one observation per finished import run
type MetricsRecorder interface {
	RecordImport(ctx context.Context, obs RunObservation)
}

// CacheInvalidator drops cached read models after a committed import
type CacheInvalidator interface {
	InvalidateDashboard(ctx context.Context) error
}
