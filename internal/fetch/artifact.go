package fetch

// Mode selects the extraction target for a download.
type Mode string

const (
	ModeVideo Mode = "video"
	ModeAudio Mode = "audio"
)

// ParseMode converts a callback token into a Mode.
func ParseMode(value string) (Mode, bool) {
	switch Mode(value) {
	case ModeVideo:
		return ModeVideo, true
	case ModeAudio:
		return ModeAudio, true
	default:
		return "", false
	}
}

// Artifact is a downloaded media file with the metadata needed for
// delivery. The compressed replacement produced by the transcoder reuses
// this type with a new path and size.
type Artifact struct {
	Path      string
	SizeBytes int64
	Title     string
	Uploader  string
	Mode      Mode
}

// IsVideo reports whether the artifact is subject to the video size policy.
func (a Artifact) IsVideo() bool {
	return a.Mode == ModeVideo
}
