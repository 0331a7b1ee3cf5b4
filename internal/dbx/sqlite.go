package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/timecapsule/internal/filex"

	_ "modernc.org/sqlite"
)

const sqliteDriver = "sqlite"

// busyTimeoutMillis is how long SQLite waits on a locked database before
// returning SQLITE_BUSY.
const busyTimeoutMillis = 5000

// OpenSQLite opens the SQLite database at dsn with a single connection.
// For plain file paths the parent directory is created first.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	if isFilePath(dsn) {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMillis)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	return db, nil
}

func isFilePath(dsn string) bool {
	return dsn != "" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}
