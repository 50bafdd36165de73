package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTelegram() error {
	if c.Telegram.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/grabbot/config.toml"
		}
		return fmt.Errorf("telegram.token is required. Set BOT_TOKEN env var or edit %s (create with 'grabbot config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateTranscode() error {
	if c.Transcode.CompressThresholdMiB >= c.Transcode.RejectThresholdMiB {
		return errors.New("transcode.compress_threshold_mib must be below transcode.reject_threshold_mib")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
