package job

import (
	"context"
	"log/slog"
	"sync"

	"grabbot/internal/logging"
)

// statusUpdater drains throttled progress texts onto the status message
// from a dedicated goroutine. Edits are fire-and-forget with respect to
// the job: a failed edit (for example against an already-deleted message)
// is logged at debug level and swallowed, never surfaced as a job failure.
type statusUpdater struct {
	sink   StatusSink
	logger *slog.Logger

	ch   chan string
	wg   sync.WaitGroup
	once sync.Once
}

// statusQueueDepth bounds how many pending edits can stack up before new
// ones are dropped. Progress text is disposable; blocking the progress
// callback would stall the download tool's output pump.
const statusQueueDepth = 8

func newStatusUpdater(ctx context.Context, sink StatusSink, logger *slog.Logger) *statusUpdater {
	u := &statusUpdater{
		sink:   sink,
		logger: logger,
		ch:     make(chan string, statusQueueDepth),
	}
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		for text := range u.ch {
			if err := u.sink.Edit(ctx, text); err != nil {
				u.logger.Debug("progress edit failed", logging.Error(err))
			}
		}
	}()
	return u
}

// enqueue submits a status text without blocking. Texts beyond the queue
// depth are dropped; the next throttled update supersedes them anyway.
func (u *statusUpdater) enqueue(text string) {
	select {
	case u.ch <- text:
	default:
		u.logger.Debug("progress edit dropped, queue full")
	}
}

// stop closes the queue and waits until every accepted edit was attempted.
// Callers must stop the updater before issuing direct status edits, or a
// late progress edit could overwrite a stage transition message.
func (u *statusUpdater) stop() {
	u.once.Do(func() { close(u.ch) })
	u.wg.Wait()
}
