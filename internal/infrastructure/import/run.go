package csvimport

import (
	"time"

	"github.com/google/uuid"
)

// RunState represents the lifecycle state of an import run
type RunState string

const (
	StateCreated   RunState = "created"
	StateImporting RunState = "importing"
	StateCompleted RunState = "completed"
	StateFailed    RunState = "failed"
)

// Run describes a single invocation of the importer over one source
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Source      string     `json:"source"`
	State       RunState   `json:"state"`
	TotalRows   int        `json:"total_rows"`
	Processed   int        `json:"processed"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewRun creates a run for the given source
func NewRun(source string) *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.New(),
		Source:    source,
		State:     StateCreated,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Start marks the run as importing totalRows data rows
func (r *Run) Start(totalRows int) {
	r.TotalRows = totalRows
	r.setState(StateImporting)
}

// Advance records that one more row was processed
func (r *Run) Advance() {
	r.Processed++
	r.UpdatedAt = time.Now()
}

// Complete marks the run as successfully committed
func (r *Run) Complete() {
	r.setState(StateCompleted)
}

// Fail marks the run as failed with the given error
func (r *Run) Fail(err error) {
	if err != nil {
		r.Error = err.Error()
	}
	r.setState(StateFailed)
}

// Duration returns the elapsed time of the run
func (r *Run) Duration() time.Duration {
	if r.CompletedAt != nil {
		return r.CompletedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}

// IsTerminal reports whether the run has finished
func (r *Run) IsTerminal() bool {
	return r.State == StateCompleted || r.State == StateFailed
}

func (r *Run) setState(state RunState) {
	now := time.Now()
	r.State = state
	r.UpdatedAt = now
	if state == StateCompleted || state == StateFailed {
		r.CompletedAt = &now
	}
}
