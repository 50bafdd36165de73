package preflight

import (
	"context"

	"grabbot/internal/config"
	"grabbot/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Download directory", cfg.Paths.DownloadDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		results = append(results, Result{
			Name:   status.Name,
			Passed: status.Available,
			Detail: binaryDetail(status),
		})
	}

	if cfg.Telegram.Token != "" {
		results = append(results, CheckTelegram(ctx, cfg.Telegram.Token))
	} else {
		results = append(results, Result{Name: "Telegram", Detail: "token missing"})
	}

	return results
}

// Ready reports whether every result passed.
func Ready(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

func binaryDetail(status deps.Status) string {
	if status.Available {
		return status.Command
	}
	return status.Detail
}
