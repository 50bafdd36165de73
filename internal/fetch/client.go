package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grabbot/internal/progress"
)

// ErrOutputMissing indicates the tool reported success but left no file on
// disk. The orchestrator treats this the same as a download failure.
var ErrOutputMissing = errors.New("output file missing after download")

// Tagged stdout lines produced by the --print and --progress-template
// directives below. The prefixes keep our lines distinguishable from
// anything the extractor itself prints.
const (
	lineProgress = "GRABBOT_PROGRESS"
	lineFile     = "GRABBOT_FILE"
	lineTitle    = "GRABBOT_TITLE"
	lineUploader = "GRABBOT_UPLOADER"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary      string
	downloadDir string
	timeout     time.Duration
	exec        Executor
}

// New constructs a fetch client writing into downloadDir.
func New(binary, downloadDir string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("fetch binary required")
	}
	if strings.TrimSpace(downloadDir) == "" {
		return nil, errors.New("download directory required")
	}
	client := &Client{
		binary:      binary,
		downloadDir: downloadDir,
		timeout:     time.Duration(timeoutSeconds) * time.Second,
		exec:        commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Fetch downloads url in the requested mode, forwarding progress snapshots
// to onProgress as the transfer runs. Exactly one finished snapshot is
// emitted before Fetch returns successfully. The returned artifact's file
// is verified to exist; a clean tool exit without an output file is an
// error.
func (c *Client) Fetch(ctx context.Context, url string, mode Mode, onProgress func(progress.Snapshot)) (Artifact, error) {
	if strings.TrimSpace(url) == "" {
		return Artifact{}, errors.New("url required")
	}
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create download directory: %w", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var meta struct {
		path     string
		title    string
		uploader string
	}
	onLine := func(line string) {
		tag, rest, found := strings.Cut(strings.TrimSpace(line), " ")
		if !found && tag != lineUploader && tag != lineTitle {
			return
		}
		switch tag {
		case lineProgress:
			if onProgress != nil {
				if snap, ok := parseProgressLine(rest); ok {
					onProgress(snap)
				}
			}
		case lineFile:
			meta.path = strings.TrimSpace(rest)
		case lineTitle:
			meta.title = strings.TrimSpace(rest)
		case lineUploader:
			meta.uploader = strings.TrimSpace(rest)
		}
	}

	if err := c.exec.Run(runCtx, c.binary, c.buildArgs(url, mode), onLine); err != nil {
		return Artifact{}, fmt.Errorf("fetch %s: %w", mode, err)
	}

	if onProgress != nil {
		onProgress(progress.Snapshot{Finished: true})
	}

	path := c.resolveOutputPath(meta.path, mode)
	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %s", ErrOutputMissing, path)
	}

	title := meta.title
	if title == "" {
		title = "Media"
	}
	return Artifact{
		Path:      path,
		SizeBytes: info.Size(),
		Title:     title,
		Uploader:  meta.uploader,
		Mode:      mode,
	}, nil
}

func (c *Client) buildArgs(url string, mode Mode) []string {
	args := []string{
		"--no-playlist",
		"--no-colors",
		"--newline",
		"--quiet",
		"--progress",
		"--no-simulate",
		"--output", filepath.Join(c.downloadDir, "%(id)s.%(ext)s"),
		"--progress-template", "download:" + lineProgress + " %(progress._percent_str)s|%(progress._speed_str)s|%(progress._eta_str)s",
		"--print", "after_move:" + lineFile + " %(filepath)s",
		"--print", "after_move:" + lineTitle + " %(title)s",
		"--print", "after_move:" + lineUploader + " %(uploader|)s",
	}

	switch mode {
	case ModeAudio:
		args = append(args,
			"--format", "bestaudio/best",
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", "192K",
		)
	default:
		args = append(args,
			"--format", "best[height<=720][ext=mp4]/bestvideo[height<=720]+bestaudio/best",
			"--merge-output-format", "mp4",
			"--remux-video", "mp4",
		)
	}

	return append(args, url)
}

// resolveOutputPath normalizes the reported path for the mode. Audio
// extraction replaces the container after the download finishes, so the
// reported extension may lag behind the actual .mp3 on disk.
func (c *Client) resolveOutputPath(reported string, mode Mode) string {
	if mode == ModeAudio && reported != "" && !strings.EqualFold(filepath.Ext(reported), ".mp3") {
		return strings.TrimSuffix(reported, filepath.Ext(reported)) + ".mp3"
	}
	return reported
}

// parseProgressLine splits "percent|speed|eta" into a snapshot. Missing
// fields are tolerated; Snapshot.Normalize fills placeholders later.
func parseProgressLine(payload string) (progress.Snapshot, bool) {
	parts := strings.Split(payload, "|")
	if len(parts) < 3 {
		return progress.Snapshot{}, false
	}
	return progress.Snapshot{
		Percent: strings.TrimSpace(parts[0]),
		Speed:   strings.TrimSpace(parts[1]),
		ETA:     strings.TrimSpace(parts[2]),
	}, true
}
