package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"grabbot/internal/fetch"
	"grabbot/internal/fileutil"
	"grabbot/internal/logging"
	"grabbot/internal/progress"
	"grabbot/internal/selection"
	"grabbot/internal/textutil"
)

// maxErrorChars caps error text relayed to the requester.
const maxErrorChars = 300

// Request is one "user picked a mode" event handed in by the chat adapter.
type Request struct {
	SelectionID string
	Mode        fetch.Mode
	RequesterID int64
	ChatID      int64
	Status      StatusSink
}

// Orchestrator ties the pipeline stages together. One Orchestrator serves
// all jobs; per-job state lives on the stack of Run.
type Orchestrator struct {
	selections *selection.Store
	fetcher    Fetcher
	transcoder Transcoder
	deliverer  Deliverer
	throttle   *progress.Throttle
	recorder   Recorder
	logger     *slog.Logger

	rejectBytes int64
}

// New constructs an orchestrator. recorder may be nil when no history
// ledger is configured.
func New(
	selections *selection.Store,
	fetcher Fetcher,
	transcoder Transcoder,
	deliverer Deliverer,
	throttle *progress.Throttle,
	recorder Recorder,
	rejectBytes int64,
	logger *slog.Logger,
) (*Orchestrator, error) {
	if selections == nil || fetcher == nil || transcoder == nil || deliverer == nil || throttle == nil {
		return nil, errors.New("orchestrator requires selections, fetcher, transcoder, deliverer, and throttle")
	}
	if rejectBytes <= 0 {
		return nil, errors.New("reject threshold must be positive")
	}
	return &Orchestrator{
		selections:  selections,
		fetcher:     fetcher,
		transcoder:  transcoder,
		deliverer:   deliverer,
		throttle:    throttle,
		recorder:    recorder,
		logger:      logging.NewComponentLogger(logger, "job"),
		rejectBytes: rejectBytes,
	}, nil
}

// Run executes one job to completion. It never returns an error to the
// adapter: every failure mode ends as a user-visible status message, and
// the process must survive all of them.
func (o *Orchestrator) Run(ctx context.Context, req Request) {
	jobID := uuid.NewString()
	logger := o.logger.With(logging.String("job_id", jobID))

	// Validating: consume the pending selection.
	sel, err := o.selections.Pop(req.SelectionID, req.RequesterID)
	switch {
	case errors.Is(err, selection.ErrExpired):
		o.editStatus(ctx, req.Status, logger, "This link has expired. Send the URL again.")
		return
	case errors.Is(err, selection.ErrNotOwner):
		o.editStatus(ctx, req.Status, logger, "That link belongs to someone else 😉")
		return
	case err != nil:
		o.editStatus(ctx, req.Status, logger, "Something went wrong. Send the URL again.")
		return
	}

	logger = logger.With(
		logging.String("url", sel.URL),
		logging.String("mode", string(req.Mode)),
		logging.Int64("requester_id", req.RequesterID),
	)
	logger.Info("job started")
	o.editStatus(ctx, req.Status, logger, "Preparing download… ⏳")

	defer o.throttle.Forget(jobID)

	// Fetching: progress flows through the throttle into a dedicated
	// updater goroutine; the callback may arrive on any goroutine the
	// fetch tool pump runs on.
	updater := newStatusUpdater(ctx, req.Status, logger)
	onProgress := func(snap progress.Snapshot) {
		if snap.Finished || o.throttle.ShouldForward(jobID, time.Now()) {
			updater.enqueue(snap.StatusText())
		}
	}

	artifact, err := o.fetcher.Fetch(ctx, sel.URL, req.Mode, onProgress)
	updater.stop()
	if err != nil {
		logger.Error("fetch failed", logging.Error(err))
		if errors.Is(err, fetch.ErrOutputMissing) {
			o.editStatus(ctx, req.Status, logger, "Error: file not downloaded.")
		} else {
			o.failStatus(ctx, req.Status, logger, err)
		}
		o.record(ctx, logger, Outcome{
			JobID: jobID, URL: sel.URL, Mode: req.Mode, RequesterID: req.RequesterID,
			Result: ResultFailed, Detail: textutil.Truncate(err.Error(), maxErrorChars),
		})
		return
	}
	logger.Info("fetch completed",
		logging.String("path", artifact.Path),
		logging.Int64("size_bytes", artifact.SizeBytes),
	)

	// The fetch client verifies its own output, but the file could vanish
	// between that check and here; treat absence as a download failure.
	if !fileutil.Exists(artifact.Path) {
		logger.Error("artifact missing after fetch", logging.String("path", artifact.Path))
		o.editStatus(ctx, req.Status, logger, "Error: file not downloaded.")
		o.record(ctx, logger, Outcome{
			JobID: jobID, URL: sel.URL, Mode: req.Mode, RequesterID: req.RequesterID,
			Result: ResultFailed, Detail: "file not downloaded",
		})
		return
	}

	// Compressing: video only, above the trigger size.
	if artifact.IsVideo() && artifact.SizeBytes > o.transcoder.Threshold() {
		o.editStatus(ctx, req.Status, logger, fmt.Sprintf(
			"Video is large (%s), compressing… ⏳", humanize.IBytes(uint64(artifact.SizeBytes))))
		compressed, err := o.transcoder.CompressIfNeeded(ctx, artifact)
		if err != nil {
			logger.Error("compression failed", logging.Error(err))
			o.failStatus(ctx, req.Status, logger, err)
			o.cleanup(logger, artifact.Path)
			o.record(ctx, logger, Outcome{
				JobID: jobID, URL: sel.URL, Mode: req.Mode, RequesterID: req.RequesterID,
				Result: ResultFailed, SizeBytes: artifact.SizeBytes,
				Detail: textutil.Truncate(err.Error(), maxErrorChars),
			})
			return
		}
		logger.Info("compression completed",
			logging.Int64("size_bytes", compressed.SizeBytes),
			logging.String("path", compressed.Path),
		)
		artifact = compressed
	}

	// Size gate: declined, not an error.
	if artifact.SizeBytes > o.rejectBytes {
		logger.Info("artifact rejected as too large", logging.Int64("size_bytes", artifact.SizeBytes))
		o.editStatus(ctx, req.Status, logger, fmt.Sprintf(
			"File is too large even after compression (>%s).", humanize.IBytes(uint64(o.rejectBytes))))
		o.cleanup(logger, artifact.Path)
		o.record(ctx, logger, Outcome{
			JobID: jobID, URL: sel.URL, Mode: req.Mode, RequesterID: req.RequesterID,
			Result: ResultDeclined, SizeBytes: artifact.SizeBytes, Detail: "size limit exceeded",
		})
		return
	}

	// Delivering.
	o.editStatus(ctx, req.Status, logger, "Sending… 🚀")
	caption := buildCaption(artifact)
	if req.Mode == fetch.ModeAudio {
		err = o.deliverer.SendAudio(ctx, req.ChatID, artifact.Path, caption, artifact.Title)
	} else {
		err = o.deliverer.SendVideo(ctx, req.ChatID, artifact.Path, caption)
	}
	if err != nil {
		logger.Error("delivery failed", logging.Error(err))
		o.failStatus(ctx, req.Status, logger, err)
		o.cleanup(logger, artifact.Path)
		o.record(ctx, logger, Outcome{
			JobID: jobID, URL: sel.URL, Mode: req.Mode, RequesterID: req.RequesterID,
			Result: ResultFailed, SizeBytes: artifact.SizeBytes,
			Detail: textutil.Truncate(err.Error(), maxErrorChars),
		})
		return
	}

	// Done: remove the local file and clear the status message.
	o.cleanup(logger, artifact.Path)
	if err := req.Status.Delete(ctx); err != nil {
		logger.Debug("status delete failed", logging.Error(err))
	}
	o.record(ctx, logger, Outcome{
		JobID: jobID, URL: sel.URL, Mode: req.Mode, RequesterID: req.RequesterID,
		Result: ResultDelivered, SizeBytes: artifact.SizeBytes,
	})
	logger.Info("job delivered", logging.Int64("size_bytes", artifact.SizeBytes))
}

// buildCaption assembles the delivery caption from title and uploader.
func buildCaption(artifact fetch.Artifact) string {
	caption := artifact.Title
	if artifact.Uploader != "" {
		caption += "\nFrom: " + artifact.Uploader
	}
	return caption
}

// editStatus performs a direct status edit, swallowing failures: the
// status message is advisory and must never take the job down.
func (o *Orchestrator) editStatus(ctx context.Context, sink StatusSink, logger *slog.Logger, text string) {
	if err := sink.Edit(ctx, text); err != nil {
		logger.Debug("status edit failed", logging.Error(err))
	}
}

// failStatus relays a terminal error to the requester, truncated so chat
// platforms accept the edit.
func (o *Orchestrator) failStatus(ctx context.Context, sink StatusSink, logger *slog.Logger, cause error) {
	text := fmt.Sprintf("Error:\n%s\nTry another link.", textutil.Truncate(cause.Error(), maxErrorChars))
	o.editStatus(ctx, sink, logger, text)
}

// cleanup removes a job artifact, best-effort.
func (o *Orchestrator) cleanup(logger *slog.Logger, path string) {
	if err := fileutil.RemoveIfExists(path); err != nil {
		logger.Warn("artifact cleanup failed", logging.String("path", path), logging.Error(err))
	}
}

// record writes the job outcome to the history ledger, best-effort.
func (o *Orchestrator) record(ctx context.Context, logger *slog.Logger, outcome Outcome) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordOutcome(ctx, outcome); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}
