package job

import (
	"context"

	"grabbot/internal/fetch"
	"grabbot/internal/progress"
)

// StatusSink manages the single status message shown to the requester
// while their job runs.
type StatusSink interface {
	// Edit replaces the status message text.
	Edit(ctx context.Context, text string) error
	// Delete removes the status message entirely.
	Delete(ctx context.Context) error
}

// Deliverer streams the finished artifact back to the chat.
type Deliverer interface {
	SendAudio(ctx context.Context, chatID int64, path, caption, title string) error
	SendVideo(ctx context.Context, chatID int64, path, caption string) error
}

// Fetcher downloads one URL, reporting progress as it runs.
type Fetcher interface {
	Fetch(ctx context.Context, url string, mode fetch.Mode, onProgress func(progress.Snapshot)) (fetch.Artifact, error)
}

// Transcoder conditionally compresses oversized video artifacts.
type Transcoder interface {
	CompressIfNeeded(ctx context.Context, artifact fetch.Artifact) (fetch.Artifact, error)
	Threshold() int64
}

// Recorder persists finished job outcomes. Recording is best-effort; the
// orchestrator never fails a job over it.
type Recorder interface {
	RecordOutcome(ctx context.Context, rec Outcome) error
}

// Outcome describes how a job ended, for the history ledger.
type Outcome struct {
	JobID       string
	URL         string
	Mode        fetch.Mode
	RequesterID int64
	Result      string
	SizeBytes   int64
	Detail      string
}

// Outcome result values.
const (
	ResultDelivered = "delivered"
	ResultDeclined  = "declined"
	ResultFailed    = "failed"
)
