package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/uploads"
	"github.com/dmitrijs2005/timecapsule/internal/client/upload"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/wizard"
)

// ErrNothingUploaded is returned by CreateDirect when the form has no
// uploaded media.
var ErrNothingUploaded = errors.New("no uploaded media")

// Uploader runs attachments through the upload pipeline.
type Uploader interface {
	UploadAll(ctx context.Context, atts []capsule.Attachment) ([]upload.Outcome, error)
}

// DirectOptions are the optional fields of a directly created capsule.
type DirectOptions struct {
	ViewLimit *int
	ProductID *string
}

type CapsuleService interface {
	// UploadPending uploads every attachment of the wizard's form that has
	// no media ID yet and stores the results back on the form. Results for
	// attachments replaced meanwhile are dropped.
	UploadPending(ctx context.Context, w *wizard.Wizard) ([]upload.Outcome, error)
	// CreateDirect creates a capsule from the form's uploaded media without
	// the payment flow.
	CreateDirect(ctx context.Context, form capsule.FormData, opts DirectOptions) (*client.CapsuleResponse, error)
	MediaURL(ctx context.Context, mediaID string) (string, error)
	History(ctx context.Context) ([]uploads.Record, error)
}

type capsuleService struct {
	api      client.Client
	uploader Uploader
	ledger   uploads.Repository
	log      logging.Logger
	now      func() time.Time
}

func NewCapsuleService(api client.Client, uploader Uploader, ledger uploads.Repository, log logging.Logger) CapsuleService {
	if log == nil {
		log = logging.Nop()
	}
	return &capsuleService{api: api, uploader: uploader, ledger: ledger, log: log, now: time.Now}
}

func (s *capsuleService) UploadPending(ctx context.Context, w *wizard.Wizard) ([]upload.Outcome, error) {
	if w.Step() != wizard.StepInfo {
		return nil, wizard.ErrWrongStep
	}

	var pending []capsule.Attachment
	for _, a := range w.Form().Attachments {
		if !a.Uploaded() {
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	outcomes, err := s.uploader.UploadAll(ctx, pending)
	for _, o := range outcomes {
		if o.Result == nil {
			continue
		}
		ok, aerr := w.AttachMedia(*o.Result)
		if aerr != nil {
			return outcomes, aerr
		}
		if !ok {
			s.log.Debug(ctx, "discarding stale upload", "attachment", o.AttachmentID, "media_id", o.Result.MediaID)
		}
	}
	return outcomes, err
}

func (s *capsuleService) CreateDirect(ctx context.Context, form capsule.FormData, opts DirectOptions) (*client.CapsuleResponse, error) {
	openAt, err := capsule.ResolveOpenAt(form.DateOption, form.CustomDate, s.now())
	if err != nil {
		return nil, err
	}

	req := client.CapsuleRequest{
		Title:     form.Name,
		Content:   form.Content,
		OpenAt:    &openAt,
		ViewLimit: opts.ViewLimit,
		ProductID: opts.ProductID,
	}
	for _, a := range form.Attachments {
		if !a.Uploaded() {
			continue
		}
		url, err := s.api.MediaURL(ctx, a.Upload.MediaID)
		if err != nil {
			return nil, fmt.Errorf("media url for %s: %w", a.Name, err)
		}
		req.MediaURLs = append(req.MediaURLs, url)
		req.MediaTypes = append(req.MediaTypes, a.Category.String())
	}
	if len(req.MediaURLs) == 0 {
		return nil, ErrNothingUploaded
	}

	resp, err := s.api.CreateCapsule(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "capsule created", "id", resp.ID)
	return resp, nil
}

func (s *capsuleService) MediaURL(ctx context.Context, mediaID string) (string, error) {
	return s.api.MediaURL(ctx, mediaID)
}

func (s *capsuleService) History(ctx context.Context) ([]uploads.Record, error) {
	recs, err := s.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return recs, nil
}
