package progress

import (
	"fmt"
	"strings"

	"grabbot/internal/textutil"
)

// Snapshot is one progress event from the download tool. Field values are
// the tool's preformatted strings; any of them may be absent.
type Snapshot struct {
	Percent  string
	Speed    string
	ETA      string
	Finished bool
}

// Normalize strips terminal escape sequences from every field and fills
// missing values with placeholders.
func (s Snapshot) Normalize() Snapshot {
	out := Snapshot{
		Percent:  strings.TrimSpace(textutil.StripANSI(s.Percent)),
		Speed:    strings.TrimSpace(textutil.StripANSI(s.Speed)),
		ETA:      strings.TrimSpace(textutil.StripANSI(s.ETA)),
		Finished: s.Finished,
	}
	if out.Percent == "" {
		out.Percent = "0%"
	}
	if out.Speed == "" {
		out.Speed = "N/A"
	}
	if out.ETA == "" {
		out.ETA = "N/A"
	}
	return out
}

// StatusText renders the snapshot as the status message body shown to the
// requester.
func (s Snapshot) StatusText() string {
	if s.Finished {
		return "Download finished, processing…"
	}
	n := s.Normalize()
	return fmt.Sprintf("Downloading: %s\nSpeed: %s\nETA: %s", n.Percent, n.Speed, n.ETA)
}
