package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTelegram()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = defaultDownloadDir
	}
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTelegram() {
	c.Telegram.Token = strings.TrimSpace(c.Telegram.Token)
	if c.Telegram.Token == "" {
		if value, ok := os.LookupEnv("BOT_TOKEN"); ok {
			c.Telegram.Token = strings.TrimSpace(value)
		}
	}
	if c.Telegram.PollTimeout <= 0 {
		c.Telegram.PollTimeout = defaultPollTimeout
	}
}

func (c *Config) normalizeTools() {
	c.Fetch.Binary = strings.TrimSpace(c.Fetch.Binary)
	if c.Fetch.Binary == "" {
		c.Fetch.Binary = defaultFetchBinary
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeout
	}
	c.Transcode.Binary = strings.TrimSpace(c.Transcode.Binary)
	if c.Transcode.Binary == "" {
		c.Transcode.Binary = defaultTranscodeBinary
	}
	if c.Transcode.TimeoutSeconds <= 0 {
		c.Transcode.TimeoutSeconds = defaultTranscodeTimeout
	}
	if c.Transcode.CompressThresholdMiB <= 0 {
		c.Transcode.CompressThresholdMiB = defaultCompressThresholdMiB
	}
	if c.Transcode.RejectThresholdMiB <= 0 {
		c.Transcode.RejectThresholdMiB = defaultRejectThresholdMiB
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
