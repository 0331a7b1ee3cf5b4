package upload

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/netx"
)

// UploadError reports which stage failed and, for network stages, the HTTP
// status (0 when no response was received).
type UploadError struct {
	AttachmentID string
	Stage        Stage
	Status       int
	Err          error
}

func (e *UploadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upload %s: %s failed with status %d: %v", e.AttachmentID, e.Stage, e.Status, e.Err)
	}
	return fmt.Sprintf("upload %s: %s failed: %v", e.AttachmentID, e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func newUploadError(attachmentID string, stage Stage, err error) *UploadError {
	return &UploadError{AttachmentID: attachmentID, Stage: stage, Status: statusOf(err), Err: err}
}

func statusOf(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var se *netx.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
