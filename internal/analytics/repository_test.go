package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/castcall-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.AnalyticsEvent{}))
	return conn
}

func TestRepositoryAppendAndRecent(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		event := &models.AnalyticsEvent{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Category:  CategoryNavigation,
			Action:    ActionPageView,
			Label:     fmt.Sprintf("page-%d", i),
			SessionID: "session_a",
		}
		require.NoError(t, repo.Append(ctx, event))
		assert.NotZero(t, event.ID)
	}

	recent, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "page-2", recent[0].Label)
	assert.Equal(t, "page-4", recent[2].Label)
	assert.Less(t, recent[0].ID, recent[1].ID)

	all, err := repo.Recent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRepositoryRecentEmpty(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	recent, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}
