package capsule

import (
	"path/filepath"

	"github.com/dmitrijs2005/timecapsule/internal/media"
	"github.com/google/uuid"
)

// Attachment is a local file picked for the capsule.
type Attachment struct {
	ID            string         `json:"id"`
	Category      media.Category `json:"category"`
	Name          string         `json:"name"`
	Path          string         `json:"path"`
	ThumbnailPath string         `json:"thumbnail_path,omitempty"`
	Upload        *UploadResult  `json:"upload,omitempty"`
}

// NewAttachment builds an attachment with a fresh time-ordered ID. An empty
// name defaults to the base name of path.
func NewAttachment(category media.Category, path, name string) Attachment {
	if name == "" {
		name = filepath.Base(path)
	}
	return Attachment{
		ID:       newAttachmentID(),
		Category: category,
		Name:     name,
		Path:     path,
	}
}

func newAttachmentID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Uploaded reports whether the attachment already has a durable media ID.
func (a Attachment) Uploaded() bool {
	return a.Upload != nil && a.Upload.MediaID != ""
}

func (a Attachment) clone() Attachment {
	if a.Upload != nil {
		u := *a.Upload
		a.Upload = &u
	}
	return a
}

// UploadResult is the durable reference returned by the upload pipeline.
type UploadResult struct {
	AttachmentID string `json:"attachment_id"`
	MediaID      string `json:"media_id"`
	ObjectKey    string `json:"object_key"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
}
