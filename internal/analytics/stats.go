package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/castcall-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
)

const DefaultStatsWindow = 100

const (
	CategoryNavigation = "Navigation"
	CategoryDonation   = "Donation"
	CategoryForm       = "Form"

	ActionPageView          = "Page View"
	ActionButtonClick       = "Button Click"
	ActionSubmissionSuccess = "Submission Success"
)

// Stats are rollup counters over the recent window.
type Stats struct {
	TotalEvents     int       `json:"totalEvents"`
	UniqueSessions  int       `json:"uniqueSessions"`
	PageViews       int       `json:"pageViews"`
	DonationClicks  int       `json:"donationClicks"`
	FormSubmissions int       `json:"formSubmissions"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

type eventReader interface {
	Recent(ctx context.Context, n int) ([]models.AnalyticsEvent, error)
}

// StatsAggregator computes Stats over the last window events of a store.
type StatsAggregator struct {
	store  eventReader
	window int
	now    func() time.Time
}

func NewStatsAggregator(store eventReader, window int, now func() time.Time) (*StatsAggregator, error) {
	if store == nil {
		return nil, errors.New("event store required")
	}
	if window <= 0 {
		window = DefaultStatsWindow
	}
	if now == nil {
		now = time.Now
	}
	return &StatsAggregator{store: store, window: window, now: now}, nil
}

// QuickStats reads the recent window and rolls it up. A failed read is returned as is,
// never replaced by a cached or partial result.
func (a *StatsAggregator) QuickStats(ctx context.Context) (*Stats, error) {
	events, err := a.store.Recent(ctx, a.window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read analytics events")
	}
	stats := Summarize(events)
	stats.LastUpdated = a.now().UTC()
	return &stats, nil
}

// Summarize rolls up events without stamping LastUpdated.
func Summarize(events []models.AnalyticsEvent) Stats {
	if len(events) == 0 {
		return Stats{}
	}
	sessions := make(map[string]struct{}, len(events))
	for _, ev := range events {
		if ev.SessionID != "" {
			sessions[ev.SessionID] = struct{}{}
		}
	}
	return Stats{
		TotalEvents:     len(events),
		UniqueSessions:  len(sessions),
		PageViews:       CountEvents(events, CategoryNavigation, ActionPageView, ""),
		DonationClicks:  CountEvents(events, CategoryDonation, ActionButtonClick, ""),
		FormSubmissions: CountEvents(events, CategoryForm, ActionSubmissionSuccess, ""),
	}
}

// CountEvents counts exact category and action matches. label filters only when non-empty.
func CountEvents(events []models.AnalyticsEvent, category, action, label string) int {
	count := 0
	for _, ev := range events {
		if ev.Category != category || ev.Action != action {
			continue
		}
		if label != "" && ev.Label != label {
			continue
		}
		count++
	}
	return count
}
