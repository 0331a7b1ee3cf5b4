package metadata

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyAccessToken, []byte{0x01, 0x02}))

	v, err := r.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValueAndTimestamp(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return first }
	require.NoError(t, r.Set(ctx, "k", []byte("old")))

	second := first.Add(time.Hour)
	r.now = func() time.Time { return second }
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)

	at, ok, err := r.UpdatedAt(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at.Equal(second), "got %v", at)
}

func TestUpdatedAt_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, ok, err := r.UpdatedAt(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestList_ReturnsAllPairs(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, []byte{0xAA}, m["a"])
	assert.Equal(t, []byte{0xBB, 0xCC}, m["b"])
}

func TestDelete_RemovesKey_AndIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", []byte{0x01}))
	require.NoError(t, r.Delete(ctx, "x"))

	v, err := r.Get(ctx, "x")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Delete(ctx, "x"))
}

func TestClear_RemovesAllKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestGet_ClosedDBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	v, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	require.Nil(t, v)
	require.Contains(t, err.Error(), "failed to get metadata[k]")
}

func newRepoWithMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestSet_DBErrorWrapped(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO metadata`)).
		WithArgs("k", []byte("v"), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err := r.Set(context.Background(), "k", []byte("v"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to set metadata[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAndClear_DBErrorWrapped(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM metadata WHERE key = ?`)).
		WithArgs("k").
		WillReturnError(errors.New("locked"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM metadata`)).
		WillReturnError(errors.New("locked"))

	require.ErrorContains(t, r.Delete(context.Background(), "k"), "failed to delete metadata[k]")
	require.ErrorContains(t, r.Clear(context.Background()), "failed to clear metadata")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ScanAndIterationErrors(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM metadata`)).
		WillReturnError(errors.New("gone"))

	_, err := r.List(context.Background())
	require.ErrorContains(t, err, "failed to list metadata")

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("a", []byte{1}).
		RowError(0, errors.New("broken row"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM metadata`)).WillReturnRows(rows)

	_, err = r.List(context.Background())
	require.ErrorContains(t, err, "failed to iterate metadata rows")
	require.NoError(t, mock.ExpectationsWereMet())
}
