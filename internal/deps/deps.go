// Package deps reports availability of the external tools grabbot drives.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"grabbot/internal/config"
)

// Requirement defines an external dependency grabbot relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Requirements returns the tool list for the given config.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Fetch.Binary,
			Description: "Required for media download and audio extraction",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Transcode.Binary,
			Description: "Required for video compression and stream merging",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if resolved, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		} else {
			status.Command = resolved
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}
