package config

const (
	defaultDownloadDir          = "~/.local/share/grabbot/downloads"
	defaultLogDir               = "~/.local/share/grabbot/logs"
	defaultPollTimeout          = 30
	defaultFetchBinary          = "yt-dlp"
	defaultFetchTimeout         = 1800
	defaultTranscodeBinary      = "ffmpeg"
	defaultTranscodeTimeout     = 1800
	defaultCompressThresholdMiB = 45
	defaultRejectThresholdMiB   = 50
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
		},
		Telegram: Telegram{
			PollTimeout: defaultPollTimeout,
		},
		Fetch: Fetch{
			Binary:         defaultFetchBinary,
			TimeoutSeconds: defaultFetchTimeout,
		},
		Transcode: Transcode{
			Binary:               defaultTranscodeBinary,
			TimeoutSeconds:       defaultTranscodeTimeout,
			CompressThresholdMiB: defaultCompressThresholdMiB,
			RejectThresholdMiB:   defaultRejectThresholdMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
