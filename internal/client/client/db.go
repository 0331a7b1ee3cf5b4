package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/timecapsule/internal/client/migrations"
	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/uploads"
	"github.com/dmitrijs2005/timecapsule/internal/dbx"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the local stores over one SQLite handle.
type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Uploads  uploads.Repository
	Drafts   drafts.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations. It is safe to call on an
// already migrated database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// OpenDatabase opens the SQLite file at dsn and migrates it.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := dbx.OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := OpenDatabase(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Uploads:  uploads.NewSQLiteRepository(db),
		Drafts:   drafts.NewSQLiteRepository(db),
	}, nil
}
