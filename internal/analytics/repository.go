package analytics

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/castcall-backend/internal/repo"
	"github.com/angelmondragon/castcall-backend/pkg/db/models"
)

// Repository stores events in the analytics_events table.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func (r *Repository) Append(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.base.DB(ctx).Create(event).Error
}

func (r *Repository) Recent(ctx context.Context, n int) ([]models.AnalyticsEvent, error) {
	events := []models.AnalyticsEvent{}
	if err := r.base.Tail(ctx, &events, "id", n); err != nil {
		return nil, err
	}
	return events, nil
}
