package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"grabbot/internal/config"
	"grabbot/internal/fetch"
	"grabbot/internal/history"
	"grabbot/internal/job"
	"grabbot/internal/logging"
	"grabbot/internal/progress"
	"grabbot/internal/selection"
	"grabbot/internal/telegram"
	"grabbot/internal/transcode"
)

// Daemon wires the pipeline together and runs the Telegram update loop.
// Exactly one daemon may run per lock directory: Telegram allows a single
// long-poll consumer per token, so a second instance would steal updates.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	bot     *telegram.Bot
	ledger  *history.Store
	logPath string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New assembles a daemon around an already-authenticated chat API client.
func New(cfg *config.Config, api telegram.API, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || api == nil || logger == nil {
		return nil, errors.New("daemon requires config, api, and logger")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	ledger, err := history.Open(cfg.Paths.LogDir)
	if err != nil {
		return nil, fmt.Errorf("open history ledger: %w", err)
	}

	fetcher, err := fetch.New(cfg.Fetch.Binary, cfg.Paths.DownloadDir, cfg.Fetch.TimeoutSeconds)
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}
	transcoder, err := transcode.New(cfg.Transcode.Binary, cfg.Transcode.TimeoutSeconds, cfg.CompressThresholdBytes())
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}

	selections := selection.NewStore()
	orch, err := job.New(
		selections, fetcher, transcoder, telegram.NewDeliverer(api),
		progress.NewThrottle(progress.DefaultInterval),
		history.NewRecorder(ledger), cfg.RejectThresholdBytes(), logger,
	)
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}

	bot, err := telegram.New(api, selections, orch, cfg.Telegram.PollTimeout, logger)
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "grabbot.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		bot:      bot,
		ledger:   ledger,
		logPath:  filepath.Join(cfg.Paths.LogDir, "grabbot.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the update loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another grabbot instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		if err := d.bot.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("update loop exited", logging.Error(err))
		}
	}()

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the update loop, waits for in-flight jobs, and releases
// the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.ledger != nil {
		return d.ledger.Close()
	}
	return nil
}

// Running reports whether the update loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// History exposes the outcome ledger for status output.
func (d *Daemon) History() *history.Store {
	return d.ledger
}
