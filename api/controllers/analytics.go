package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/castcall-backend/api/middleware"
	"github.com/angelmondragon/castcall-backend/api/responses"
	"github.com/angelmondragon/castcall-backend/api/validators"
	"github.com/angelmondragon/castcall-backend/internal/analytics"
	"github.com/angelmondragon/castcall-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

const eventTrackedMessage = "Event tracked"

type analyticsService interface {
	Track(ctx context.Context, input analytics.TrackInput) (*models.AnalyticsEvent, error)
	QuickStats(ctx context.Context) (*analytics.Stats, error)
}

type trackEventRequest struct {
	Category  string `json:"category"`
	Action    string `json:"action"`
	Label     string `json:"label"`
	Page      string `json:"page"`
	UserAgent string `json:"userAgent"`
}

// AnalyticsTrack records one client event. The session, timestamp and IP are assigned server-side.
func AnalyticsTrack(svc analyticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		var body trackEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userAgent := strings.TrimSpace(body.UserAgent)
		if userAgent == "" {
			userAgent = r.UserAgent()
		}

		if _, err := svc.Track(r.Context(), analytics.TrackInput{
			Category:  body.Category,
			Action:    body.Action,
			Label:     body.Label,
			Page:      body.Page,
			UserAgent: userAgent,
			IP:        middleware.ClientIP(r),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, eventTrackedMessage)
	}
}

func AnalyticsStats(svc analyticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		stats, err := svc.QuickStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
