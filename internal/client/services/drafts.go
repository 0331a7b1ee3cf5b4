package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/timecapsule/internal/dbx"
	"github.com/google/uuid"
)

// DraftService saves frozen forms so the wizard can be resumed later.
type DraftService interface {
	// Save stores snap under id, or under a new ID when id is empty, and
	// marks it as the last draft. It returns the ID used.
	Save(ctx context.Context, id string, snap capsule.Snapshot) (string, error)
	// Restore loads the draft with the given ID, or the last saved draft
	// when id is empty.
	Restore(ctx context.Context, id string) (*drafts.Draft, error)
	List(ctx context.Context) ([]drafts.Draft, error)
	Delete(ctx context.Context, id string) error
}

type draftService struct {
	db  *sql.DB
	now func() time.Time
}

func NewDraftService(db *sql.DB) DraftService {
	return &draftService{db: db, now: time.Now}
}

func (s *draftService) Save(ctx context.Context, id string, snap capsule.Snapshot) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	d := drafts.Draft{ID: id, Name: snap.Form().Name, Snapshot: snap, UpdatedAt: s.now()}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := drafts.NewSQLiteRepository(tx).Save(ctx, d); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Set(ctx, metadata.KeyLastDraft, []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("save draft: %w", err)
	}
	return id, nil
}

func (s *draftService) Restore(ctx context.Context, id string) (*drafts.Draft, error) {
	repo := drafts.NewSQLiteRepository(s.db)
	if id != "" {
		return repo.Get(ctx, id)
	}

	last, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyLastDraft)
	if err != nil {
		return nil, err
	}
	if last != nil {
		d, err := repo.Get(ctx, string(last))
		if !errors.Is(err, drafts.ErrNotFound) {
			return d, err
		}
	}
	return repo.Latest(ctx)
}

func (s *draftService) List(ctx context.Context) ([]drafts.Draft, error) {
	return drafts.NewSQLiteRepository(s.db).List(ctx)
}

func (s *draftService) Delete(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := drafts.NewSQLiteRepository(tx).Delete(ctx, id); err != nil {
			return err
		}
		meta := metadata.NewSQLiteRepository(tx)
		last, err := meta.Get(ctx, metadata.KeyLastDraft)
		if err != nil {
			return err
		}
		if string(last) == id {
			return meta.Delete(ctx, metadata.KeyLastDraft)
		}
		return nil
	})
}
