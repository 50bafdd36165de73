package history

import (
	"context"

	"grabbot/internal/job"
)

// Recorder bridges the pipeline's outcome port onto the SQLite ledger.
type Recorder struct {
	store *Store
}

// NewRecorder wraps store for use as the pipeline's outcome recorder.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// RecordOutcome persists one finished job.
func (r *Recorder) RecordOutcome(ctx context.Context, outcome job.Outcome) error {
	return r.store.Record(ctx, Record{
		ID:          outcome.JobID,
		URL:         outcome.URL,
		Mode:        string(outcome.Mode),
		RequesterID: outcome.RequesterID,
		Outcome:     Outcome(outcome.Result),
		SizeBytes:   outcome.SizeBytes,
		Detail:      outcome.Detail,
	})
}
