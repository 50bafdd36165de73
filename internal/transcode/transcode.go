// Package transcode compresses oversized video artifacts with ffmpeg.
//
// Audio artifacts and videos under the size threshold pass through
// untouched. Compression targets chat-platform playback: H.264 at a
// speed-favoring quality level, AAC audio, 1280x720 letterboxed frame,
// and faststart layout so playback can begin while streaming.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"grabbot/internal/fetch"
	"grabbot/internal/fileutil"
)

// compressedSuffix marks re-encoded output files next to their originals.
const compressedSuffix = "_compressed"

// scaleFilter fits the frame within 1280x720 preserving aspect ratio, then
// pads to exactly 1280x720 with the image centered.
const scaleFilter = "scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2"

// Runner abstracts ffmpeg execution for testability.
type Runner interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Option configures the client.
type Option func(*Client)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(c *Client) {
		if r != nil {
			c.run = r
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary    string
	timeout   time.Duration
	threshold int64
	run       Runner
}

// New constructs a transcode client. Video artifacts larger than
// thresholdBytes are re-encoded by CompressIfNeeded.
func New(binary string, timeoutSeconds int, thresholdBytes int64, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("transcode binary required")
	}
	if thresholdBytes <= 0 {
		return nil, errors.New("compression threshold must be positive")
	}
	client := &Client{
		binary:    binary,
		timeout:   time.Duration(timeoutSeconds) * time.Second,
		threshold: thresholdBytes,
		run:       commandRunner{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Threshold returns the compression trigger in bytes.
func (c *Client) Threshold() int64 {
	return c.threshold
}

// CompressIfNeeded re-encodes a video artifact that exceeds the threshold.
// On success the original file is deleted and the returned artifact points
// at the compressed replacement. On failure the original artifact is
// returned untouched alongside the error so the caller decides what to
// surface.
func (c *Client) CompressIfNeeded(ctx context.Context, artifact fetch.Artifact) (fetch.Artifact, error) {
	if !artifact.IsVideo() || artifact.SizeBytes <= c.threshold {
		return artifact, nil
	}

	ext := filepath.Ext(artifact.Path)
	outPath := strings.TrimSuffix(artifact.Path, ext) + compressedSuffix + ".mp4"

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"-i", artifact.Path,
		"-c:v", "libx264",
		"-crf", "28",
		"-preset", "fast",
		"-c:a", "aac",
		"-b:a", "128k",
		"-vf", scaleFilter,
		"-movflags", "+faststart",
		"-loglevel", "error",
		"-y",
		outPath,
	}
	if err := c.run.Run(runCtx, c.binary, args); err != nil {
		_ = fileutil.RemoveIfExists(outPath)
		return artifact, fmt.Errorf("compress video: %w", err)
	}

	size, err := fileutil.FileSize(outPath)
	if err != nil {
		_ = fileutil.RemoveIfExists(outPath)
		return artifact, fmt.Errorf("compressed output missing: %w", err)
	}

	// Best-effort: the compressed file is good even if the original lingers.
	_ = fileutil.RemoveIfExists(artifact.Path)

	compressed := artifact
	compressed.Path = outPath
	compressed.SizeBytes = size
	return compressed, nil
}
