package client

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/uploads"
	"github.com/dmitrijs2005/timecapsule/internal/media"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer repos.Close()

	for _, table := range []string{"goose_db_version", "metadata", "uploads", "drafts"} {
		assert.True(t, tableExists(t, repos.DB, table), "table %s", table)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "uploads"))
}

func TestInitDatabase_RepositoriesShareHandle(t *testing.T) {
	ctx := context.Background()
	repos, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer repos.Close()

	require.NoError(t, repos.Metadata.Set(ctx, "k", []byte("v")))
	require.NoError(t, repos.Uploads.Add(ctx, uploads.Record{
		AttachmentID: "a", MediaID: "m", Category: media.Video,
		ObjectKey: "k", ContentType: "video/mp4", Size: 1, CreatedAt: time.Now(),
	}))

	var n int
	require.NoError(t, repos.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRunMigrations_PropagatesGooseError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom }

	_, err := OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	require.ErrorIs(t, err, boom)
}
