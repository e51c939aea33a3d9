package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/castcall-backend/pkg/config"
	"github.com/angelmondragon/castcall-backend/pkg/db"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

func TestAnalyticsMigrationShape(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_analytics_events.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS analytics_events",
		"id BIGSERIAL PRIMARY KEY",
		"timestamp TIMESTAMPTZ NOT NULL",
		"session_id TEXT NOT NULL",
		"ON analytics_events (id DESC)",
		"DROP TABLE IF EXISTS analytics_events",
	} {
		require.Contains(t, content, want)
	}
}

func TestShippedMigrationsValidate(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
	require.NoError(t, CheckModelsCovered("migrations"))
}

func TestCheckModelsCoveredReportsMissingTables(t *testing.T) {
	dir := t.TempDir()
	err := CheckModelsCovered(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "analytics_events")
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	t.Run("bad name", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
		require.Error(t, ValidateDir(dir))
	})

	t.Run("missing down", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_init.sql"), []byte("-- +goose Up\n"), 0o644))
		require.Error(t, ValidateDir(dir))
	})

	t.Run("unregistered table", func(t *testing.T) {
		dir := t.TempDir()
		body := "-- +goose Up\nCREATE TABLE IF NOT EXISTS orders (id BIGSERIAL);\n-- +goose Down\nDROP TABLE orders;\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_orders.sql"), []byte(body), 0o644))
		require.ErrorContains(t, ValidateDir(dir), "orders")
	})

	t.Run("index naming", func(t *testing.T) {
		dir := t.TempDir()
		body := "-- +goose Up\nCREATE INDEX ix_ts ON analytics_events (timestamp);\n-- +goose Down\nDROP INDEX ix_ts;\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_ts.sql"), []byte(body), 0o644))
		require.ErrorContains(t, ValidateDir(dir), "idx_analytics_events_")
	})

	t.Run("duplicate version", func(t *testing.T) {
		dir := t.TempDir()
		body := []byte("-- +goose Up\n-- +goose Down\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_a.sql"), body, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_b.sql"), body, 0o644))
		require.Error(t, ValidateDir(dir))
	})
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Sponsor Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_sponsor_notes.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestCreateSQLMigrationScaffoldsTables(t *testing.T) {
	createNow = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { createNow = time.Now })
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "create sponsor notes")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20240601120000_create_sponsor_notes.sql"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS sponsor_notes")
	require.Contains(t, string(data), "idx_sponsor_notes_created_at")

	// the table has no model yet
	require.ErrorContains(t, ValidateDir(dir), "sponsor_notes")

	_, err = CreateSQLMigration(dir, "create sponsor notes")
	require.ErrorContains(t, err, "already exists")
}

func TestMaybeRunDevAutoMigratesSQLite(t *testing.T) {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate-test"})

	cfg := &config.Config{
		App: config.AppConfig{Env: "prod"},
		DB:  config.DBConfig{Driver: config.DBDriverSQLite, DSN: "file:" + t.Name() + "?mode=memory&cache=shared"},
	}
	client, err := db.New(ctx, cfg.DB, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, MaybeRunDev(ctx, cfg, logg, client))
	require.True(t, client.DB().Migrator().HasTable("analytics_events"))
}
