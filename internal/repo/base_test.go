package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type row struct {
	ID   int64 `gorm:"primaryKey;autoIncrement"`
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&row{}))
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	require.Equal(t, ctx, withCtx.Statement.Context)

	require.Same(t, db, base.DB(nil))
}

func TestBaseTailReturnsLastRowsAscending(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, db.Create(&row{Name: name}).Error)
	}

	var rows []row
	require.NoError(t, base.Tail(ctx, &rows, "id", 2))
	require.Len(t, rows, 2)
	require.Equal(t, "c", rows[0].Name)
	require.Equal(t, "d", rows[1].Name)

	rows = nil
	require.NoError(t, base.Tail(ctx, &rows, "id", 10))
	require.Len(t, rows, 4)

	rows = nil
	require.NoError(t, base.Tail(ctx, &rows, "id", 0))
	require.Empty(t, rows)
}
