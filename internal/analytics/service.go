package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/castcall-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
	"github.com/angelmondragon/castcall-backend/pkg/metrics"
)

const (
	maxNameLen  = 100
	maxLabelLen = 200
	maxPageLen  = 500
	maxAgentLen = 500
)

// Service ingests analytics events and reports rollups over the recent window.
type Service interface {
	Track(ctx context.Context, input TrackInput) (*models.AnalyticsEvent, error)
	QuickStats(ctx context.Context) (*Stats, error)
}

// TrackInput is what a client may say about an event. Timestamp and session are assigned here.
type TrackInput struct {
	Category  string
	Action    string
	Label     string
	Page      string
	UserAgent string
	IP        string
}

type service struct {
	store      EventStore
	sessions   *SessionIdentifier
	aggregator *StatsAggregator
	logg       *logger.Logger
	metrics    *metrics.AnalyticsMetrics
	now        func() time.Time
}

// Params wires a Service. Store, Sessions and Logger are required.
type Params struct {
	Store    EventStore
	Sessions *SessionIdentifier
	Window   int
	Logger   *logger.Logger
	Metrics  *metrics.AnalyticsMetrics
	Now      func() time.Time
}

func NewService(p Params) (Service, error) {
	if p.Store == nil {
		return nil, errors.New("event store required")
	}
	if p.Sessions == nil {
		return nil, errors.New("session identifier required")
	}
	if p.Logger == nil {
		return nil, errors.New("logger required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	aggregator, err := NewStatsAggregator(p.Store, p.Window, now)
	if err != nil {
		return nil, err
	}
	return &service{
		store:      p.Store,
		sessions:   p.Sessions,
		aggregator: aggregator,
		logg:       p.Logger,
		metrics:    p.Metrics,
		now:        now,
	}, nil
}

func (s *service) Track(ctx context.Context, input TrackInput) (*models.AnalyticsEvent, error) {
	category := truncate(input.Category, maxNameLen)
	if category == "" {
		return nil, pkgerrors.Validation("category", "category is required")
	}
	action := truncate(input.Action, maxNameLen)
	if action == "" {
		return nil, pkgerrors.Validation("action", "action is required")
	}
	userAgent := truncate(input.UserAgent, maxAgentLen)

	sessionID, err := s.sessions.SessionFor(ctx, userAgent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve session")
	}

	event := &models.AnalyticsEvent{
		Timestamp: s.now().UTC(),
		Category:  category,
		Action:    action,
		Label:     truncate(input.Label, maxLabelLen),
		UserAgent: userAgent,
		Page:      truncate(input.Page, maxPageLen),
		SessionID: sessionID,
		IP:        strings.TrimSpace(input.IP),
	}
	if err := s.store.Append(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store analytics event")
	}

	s.metrics.EventTracked(category)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"category":   category,
		"action":     action,
		"session_id": sessionID,
	}), "analytics.event.tracked")
	return event, nil
}

func (s *service) QuickStats(ctx context.Context) (*Stats, error) {
	return s.aggregator.QuickStats(ctx)
}

func truncate(value string, maxLen int) string {
	clean := strings.TrimSpace(value)
	if runes := []rune(clean); len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return clean
}
