package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "castcall"

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"

	StageSave    = "save"
	StageSidecar = "sidecar"

	RecipientAdmin     = "admin"
	RecipientApplicant = "applicant"
)

// IntakeMetrics records submission outcomes and the soft failures inside them.
// A nil *IntakeMetrics is valid and records nothing.
type IntakeMetrics struct {
	submissions   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	attachments   *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewIntakeMetrics registers the intake collectors on the provided registerer.
func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	if reg == nil {
		return &IntakeMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Casting and sponsor submissions by outcome.",
	}, []string{"kind", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "submission_duration_seconds",
		Help:      "Time spent handling an accepted submission.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
	attachments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attachment_failures_total",
		Help:      "Attachment writes that failed and were skipped.",
	}, []string{"stage"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Notification sends that failed and were dropped.",
	}, []string{"recipient"})
	reg.MustRegister(submissions, duration, attachments, notifications)
	return &IntakeMetrics{
		submissions:   submissions,
		duration:      duration,
		attachments:   attachments,
		notifications: notifications,
	}
}

func (m *IntakeMetrics) Submission(kind, outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

func (m *IntakeMetrics) ObserveDuration(kind string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(kind)).Observe(d.Seconds())
}

func (m *IntakeMetrics) AttachmentFailure(stage string) {
	if m == nil || m.attachments == nil {
		return
	}
	m.attachments.WithLabelValues(normalizeLabel(stage)).Inc()
}

func (m *IntakeMetrics) NotificationFailure(recipient string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(recipient)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
