package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/castcall-backend/internal/analytics"
	"github.com/angelmondragon/castcall-backend/internal/intake"
	"github.com/angelmondragon/castcall-backend/pkg/config"
	"github.com/angelmondragon/castcall-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
	"github.com/angelmondragon/castcall-backend/pkg/types"
)

type stubSponsor struct {
	got intake.SponsorInquiry
	err error
}

func (s *stubSponsor) SubmitSponsor(ctx context.Context, inq intake.SponsorInquiry) (*intake.Result, error) {
	s.got = inq
	if s.err != nil {
		return nil, s.err
	}
	return &intake.Result{Success: true, Message: "Thanks!", FileLinks: []string{}}, nil
}

type stubAnalytics struct {
	input    analytics.TrackInput
	trackErr error
	stats    *analytics.Stats
	statsErr error
}

func (s *stubAnalytics) Track(ctx context.Context, input analytics.TrackInput) (*models.AnalyticsEvent, error) {
	s.input = input
	if s.trackErr != nil {
		return nil, s.trackErr
	}
	return &models.AnalyticsEvent{Category: input.Category, Action: input.Action}, nil
}

func (s *stubAnalytics) QuickStats(ctx context.Context) (*analytics.Stats, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return s.stats, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestSponsorSubmit(t *testing.T) {
	svc := &stubSponsor{}
	req := httptest.NewRequest(http.MethodPost, "/api/sponsor",
		strings.NewReader(`{"company":"Acme","contactName":"Wile","contactEmail":"wile@acme.test","message":"hi"}`))
	rec := httptest.NewRecorder()

	SponsorSubmit(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.got.Company != "Acme" || svc.got.ContactEmail != "wile@acme.test" {
		t.Fatalf("unexpected inquiry %+v", svc.got)
	}
	var body types.MessageEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Message != "Thanks!" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestSponsorSubmitValidationFailure(t *testing.T) {
	svc := &stubSponsor{err: pkgerrors.Validation("contactEmail", "contactEmail is required")}
	req := httptest.NewRequest(http.MethodPost, "/api/sponsor", strings.NewReader(`{"company":"Acme"}`))
	rec := httptest.NewRecorder()

	SponsorSubmit(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyticsTrackFillsServerFields(t *testing.T) {
	svc := &stubAnalytics{}
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/event",
		strings.NewReader(`{"category":"Navigation","action":"Page View","page":"/about"}`))
	req.Header.Set("User-Agent", "HeaderAgent/1.0")
	req.RemoteAddr = "203.0.113.9:4000"
	rec := httptest.NewRecorder()

	AnalyticsTrack(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.input.UserAgent != "HeaderAgent/1.0" {
		t.Fatalf("expected header user agent, got %q", svc.input.UserAgent)
	}
	if svc.input.IP != "203.0.113.9" {
		t.Fatalf("unexpected ip %q", svc.input.IP)
	}
	if svc.input.Page != "/about" {
		t.Fatalf("unexpected page %q", svc.input.Page)
	}
}

func TestAnalyticsTrackPrefersBodyUserAgent(t *testing.T) {
	svc := &stubAnalytics{}
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/event",
		strings.NewReader(`{"category":"Form","action":"Submission Success","userAgent":"BodyAgent"}`))
	req.Header.Set("User-Agent", "HeaderAgent/1.0")
	rec := httptest.NewRecorder()

	AnalyticsTrack(svc, nil).ServeHTTP(rec, req)

	if svc.input.UserAgent != "BodyAgent" {
		t.Fatalf("expected body user agent, got %q", svc.input.UserAgent)
	}
}

func TestAnalyticsTrackError(t *testing.T) {
	svc := &stubAnalytics{trackErr: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("disk full"), "append event")}
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/event", strings.NewReader(`{"category":"a","action":"b"}`))
	rec := httptest.NewRecorder()

	AnalyticsTrack(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAnalyticsStats(t *testing.T) {
	updated := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	svc := &stubAnalytics{stats: &analytics.Stats{TotalEvents: 4, UniqueSessions: 2, PageViews: 3, LastUpdated: updated}}
	rec := httptest.NewRecorder()

	AnalyticsStats(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"totalEvents", "uniqueSessions", "pageViews", "donationClicks", "formSubmissions", "lastUpdated"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing key %q in %v", key, body)
		}
	}
	if body["totalEvents"].(float64) != 4 {
		t.Fatalf("unexpected totalEvents %v", body["totalEvents"])
	}
}

func TestAnalyticsStatsReadFailure(t *testing.T) {
	svc := &stubAnalytics{statsErr: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "read recent events")}
	rec := httptest.NewRecorder()

	AnalyticsStats(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/stats", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestPublicConfig(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	rec := httptest.NewRecorder()

	PublicConfig(intake.DefaultLimits(), now).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	var body struct {
		MaxImages         int       `json:"maxImages"`
		AllowedAudioTypes []string  `json:"allowedAudioTypes"`
		MaxAudioSize      int64     `json:"maxAudioSize"`
		MaxImageSize      int64     `json:"maxImageSize"`
		ServerTime        time.Time `json:"serverTime"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.MaxImages != 6 || body.MaxImageSize != 5<<20 || body.MaxAudioSize != 10<<20 {
		t.Fatalf("unexpected limits %+v", body)
	}
	if len(body.AllowedAudioTypes) == 0 || body.AllowedAudioTypes[0] != "audio/mpeg" {
		t.Fatalf("unexpected audio types %v", body.AllowedAudioTypes)
	}
	if !body.ServerTime.Equal(now()) {
		t.Fatalf("unexpected server time %v", body.ServerTime)
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	t.Run("all up", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(cfg, nil,
			Dependency{Name: "db", Pinger: stubPinger{}},
			Dependency{Name: "redis", Pinger: nil},
		).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("X-Castcall-Env"); got != "dev" {
			t.Fatalf("unexpected env header %q", got)
		}
	})

	t.Run("dependency down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(cfg, nil,
			Dependency{Name: "db", Pinger: stubPinger{err: errors.New("refused")}},
			Dependency{Name: "storage", Pinger: stubPinger{err: errors.New("403")}},
		).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(&config.Config{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
