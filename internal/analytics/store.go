package analytics

import (
	"context"

	"github.com/angelmondragon/castcall-backend/pkg/db/models"
)

// EventStore is an append-only event log. Recent returns at most n events, oldest first,
// taken from the end of the log.
type EventStore interface {
	Append(ctx context.Context, event *models.AnalyticsEvent) error
	Recent(ctx context.Context, n int) ([]models.AnalyticsEvent, error)
}
