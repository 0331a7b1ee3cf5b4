// Package drafts persists frozen capsule forms so an interrupted wizard can
// be resumed.
package drafts

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
)

var ErrNotFound = errors.New("draft not found")

type Draft struct {
	ID        string
	Name      string
	Snapshot  capsule.Snapshot
	UpdatedAt time.Time
}

type Repository interface {
	// Save inserts or replaces the draft with the given ID.
	Save(ctx context.Context, d Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	// Latest returns the most recently updated draft.
	Latest(ctx context.Context) (*Draft, error)
	List(ctx context.Context) ([]Draft, error)
	Delete(ctx context.Context, id string) error
}
