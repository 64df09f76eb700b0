// Package history records completed generation runs.
//
// Each run produces a Record with the input file, its content hash, and the
// computed part dimensions. Records let users answer "what did I generate
// last week, and from which input?" without keeping the artifacts around.
//
// # Usage
//
// Create a store and record a run:
//
//	store, err := history.NewFileStore("")  // Uses ~/.config/boxr/runs/
//	if err != nil {
//	    return err
//	}
//	rec := history.New(result.RunID, input, result.InputHash)
//	rec.PartWidth = result.Layout.PartWidth
//	rec.PartDepth = result.Layout.PartDepth
//	store.Set(ctx, rec)
//
// List past runs, newest first:
//
//	records, err := store.List(ctx)
package history

import (
	"context"
	"time"
)

// Record stores the outcome of one generation run.
type Record struct {
	ID          string    `json:"id"`
	Input       string    `json:"input"`
	InputHash   string    `json:"input_hash"`
	ToolCount   int       `json:"tool_count"`
	ActiveCount int       `json:"active_count"`
	PartWidth   float64   `json:"part_width"`
	PartDepth   float64   `json:"part_depth"`
	Formats     []string  `json:"formats"`
	CreatedAt   time.Time `json:"created_at"`
}

// Age returns how long ago the run completed.
func (r *Record) Age() time.Duration {
	return time.Since(r.CreatedAt)
}

// Store is the interface for run record storage backends.
type Store interface {
	// Get retrieves a record by run ID.
	// Returns nil, nil if the record doesn't exist.
	Get(ctx context.Context, runID string) (*Record, error)

	// Set stores a record.
	Set(ctx context.Context, rec *Record) error

	// List returns all records, newest first.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record.
	Delete(ctx context.Context, runID string) error

	// Prune removes records older than the retention window.
	// Returns the number of records removed.
	Prune(ctx context.Context, retention time.Duration) (int, error)
}

// DefaultRetention is how long run records are kept by default.
const DefaultRetention = 90 * 24 * time.Hour

// New creates a record for a completed run.
func New(runID, input, inputHash string) *Record {
	return &Record{
		ID:        runID,
		Input:     input,
		InputHash: inputHash,
		CreatedAt: time.Now(),
	}
}
