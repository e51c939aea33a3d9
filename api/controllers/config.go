package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/castcall-backend/api/responses"
	"github.com/angelmondragon/castcall-backend/internal/intake"
)

type publicConfig struct {
	MaxImages         int       `json:"maxImages"`
	AllowedAudioTypes []string  `json:"allowedAudioTypes"`
	MaxAudioSize      int64     `json:"maxAudioSize"`
	MaxImageSize      int64     `json:"maxImageSize"`
	ServerTime        time.Time `json:"serverTime"`
}

// PublicConfig exposes the upload limits so the website can validate before sending.
func PublicConfig(limits intake.Limits, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, publicConfig{
			MaxImages:         limits.MaxImages,
			AllowedAudioTypes: intake.AllowedAudioTypes,
			MaxAudioSize:      limits.MaxAudioBytes,
			MaxImageSize:      limits.MaxImageBytes,
			ServerTime:        now().UTC(),
		})
	}
}
