package intake

import "strings"

const (
	DefaultMaxImages     = 6
	DefaultMaxImageBytes = 5 * 1024 * 1024
	DefaultMaxAudioBytes = 10 * 1024 * 1024

	audioExtension = ".mp3"
)

// AllowedAudioTypes lists the MP3-compatible mime types accepted for a voice sample.
var AllowedAudioTypes = []string{"audio/mpeg", "audio/mp3", "audio/mp4", "audio/x-mpeg"}

// Limits bounds what one submission may carry.
type Limits struct {
	MaxImages     int
	MaxImageBytes int64
	MaxAudioBytes int64
}

func DefaultLimits() Limits {
	return Limits{
		MaxImages:     DefaultMaxImages,
		MaxImageBytes: DefaultMaxImageBytes,
		MaxAudioBytes: DefaultMaxAudioBytes,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxImages <= 0 {
		l.MaxImages = DefaultMaxImages
	}
	if l.MaxImageBytes <= 0 {
		l.MaxImageBytes = DefaultMaxImageBytes
	}
	if l.MaxAudioBytes <= 0 {
		l.MaxAudioBytes = DefaultMaxAudioBytes
	}
	return l
}

func isAllowedAudio(mimeType string) bool {
	for _, candidate := range AllowedAudioTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}
