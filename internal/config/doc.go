// Package config loads and validates the grabbot configuration file.
//
// Configuration is TOML with the following sections:
//   - paths: download and log directories
//   - telegram: bot token and long-poll settings
//   - fetch: yt-dlp binary and timeout
//   - transcode: ffmpeg binary, timeout, and size thresholds
//   - logging: output format and level
//
// Load applies defaults, expands ~ in paths, pulls the bot token from the
// BOT_TOKEN environment variable when the file omits it, and validates the
// result.
package config
