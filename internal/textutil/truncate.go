package textutil

import "strings"

// Truncate limits text to max runes, appending an ellipsis when it had to
// cut. Used for error messages relayed to chat, where platforms reject
// oversized edits.
func Truncate(text string, max int) string {
	text = strings.TrimSpace(text)
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
