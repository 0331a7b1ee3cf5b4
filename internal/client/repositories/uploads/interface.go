// Package uploads keeps a local ledger of completed media uploads.
package uploads

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/media"
)

var ErrNotFound = errors.New("upload not found")

// Record is one completed upload.
type Record struct {
	AttachmentID string
	MediaID      string
	Category     media.Category
	ObjectKey    string
	ContentType  string
	Size         int64
	CreatedAt    time.Time
}

type Repository interface {
	// Add stores a record. Media IDs are unique; re-adding one is an error.
	Add(ctx context.Context, r Record) error
	// LatestForAttachment returns the newest record for an attachment.
	LatestForAttachment(ctx context.Context, attachmentID string) (*Record, error)
	// List returns every record, newest first.
	List(ctx context.Context) ([]Record, error)
	DeleteByMediaID(ctx context.Context, mediaID string) error
}
