package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/castcall-backend/api/controllers"
	"github.com/angelmondragon/castcall-backend/internal/analytics"
	"github.com/angelmondragon/castcall-backend/internal/intake"
	"github.com/angelmondragon/castcall-backend/pkg/config"
	"github.com/angelmondragon/castcall-backend/pkg/db/models"
	"github.com/angelmondragon/castcall-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubIntake struct{}

func (stubIntake) SubmitCasting(ctx context.Context, sub intake.Submission) (*intake.Result, error) {
	return &intake.Result{Success: true, Message: "ok", FileLinks: []string{}}, nil
}

func (stubIntake) SubmitSponsor(ctx context.Context, inq intake.SponsorInquiry) (*intake.Result, error) {
	return &intake.Result{Success: true, Message: "thanks", FileLinks: []string{}}, nil
}

func (stubIntake) Limits() intake.Limits {
	return intake.DefaultLimits()
}

type stubAnalytics struct{}

func (stubAnalytics) Track(ctx context.Context, input analytics.TrackInput) (*models.AnalyticsEvent, error) {
	return &models.AnalyticsEvent{Category: input.Category}, nil
}

func (stubAnalytics) QuickStats(ctx context.Context) (*analytics.Stats, error) {
	return &analytics.Stats{}, nil
}

type memoryRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *memoryRateStore) CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: "dev"},
		Intake:    config.IntakeConfig{MaxRequestMB: 1},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"https://castcall.example"}},
		RateLimit: config.RateLimitConfig{Window: time.Minute, IPLimit: 1},
	}
}

func newTestRouter(t *testing.T, store RateStore) http.Handler {
	t.Helper()
	registry := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(registry)
	intakeMetrics.Submission(intake.KindCasting, metrics.OutcomeAccepted)
	return NewRouter(testConfig(), nil, stubIntake{}, stubAnalytics{}, store, registry,
		controllers.Dependency{Name: "db", Pinger: stubPinger{}})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{method: http.MethodGet, path: "/health/live", want: http.StatusOK},
		{method: http.MethodGet, path: "/health/ready", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/config", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/analytics/stats", want: http.StatusOK},
		{method: http.MethodPost, path: "/api/analytics/event", body: `{"category":"Navigation","action":"Page View"}`, want: http.StatusOK},
		{method: http.MethodPost, path: "/api/sponsor", body: `{"contactEmail":"a@b.co"}`, want: http.StatusOK},
		{method: http.MethodPost, path: "/api/casting", body: `{"email":"a@b.co"}`, want: http.StatusOK},
		{method: http.MethodGet, path: "/api/casting", want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/nope", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "castcall_submissions_total") {
		t.Fatalf("expected submission counter in exposition:\n%s", rec.Body.String())
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/casting", nil)
	req.Header.Set("Origin", "https://castcall.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://castcall.example" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestRouterRateLimitsSubmissions(t *testing.T) {
	router := newTestRouter(t, &memoryRateStore{})

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/sponsor", strings.NewReader(`{"contactEmail":"a@b.co"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "198.51.100.7")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}
}

func TestRouterRejectsOversizedBody(t *testing.T) {
	router := newTestRouter(t, nil)
	body := `{"email":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/casting", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}
