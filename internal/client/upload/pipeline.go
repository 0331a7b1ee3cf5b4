// Package upload moves a local attachment to object storage: preprocess,
// validate, presign, raw PUT, complete. Each attachment runs its own
// pipeline; UploadAll runs several of them concurrently.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/uploads"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/media"
	"github.com/dmitrijs2005/timecapsule/internal/netx"
	"golang.org/x/sync/errgroup"
)

// DefaultParallel bounds UploadAll when no limit is configured.
const DefaultParallel = 3

// Storage performs the raw PUT to a presigned URL.
type Storage interface {
	Put(ctx context.Context, r netx.PutRequest) (int, error)
}

type Pipeline struct {
	api      client.MediaAPI
	storage  Storage
	ledger   uploads.Repository
	log      logging.Logger
	observer Observer
	prep     media.PreprocessOptions
	parallel int
	now      func() time.Time
}

type Option func(*Pipeline)

func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithLedger records every completed upload in r.
func WithLedger(r uploads.Repository) Option {
	return func(p *Pipeline) { p.ledger = r }
}

func WithPreprocess(o media.PreprocessOptions) Option {
	return func(p *Pipeline) { p.prep = o }
}

// WithParallel bounds concurrent pipelines in UploadAll. Values below one
// fall back to DefaultParallel.
func WithParallel(n int) Option {
	return func(p *Pipeline) { p.parallel = n }
}

func New(api client.MediaAPI, storage Storage, opts ...Option) *Pipeline {
	p := &Pipeline{
		api:      api,
		storage:  storage,
		log:      logging.Nop(),
		parallel: DefaultParallel,
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	if p.parallel < 1 {
		p.parallel = DefaultParallel
	}
	if p.log == nil {
		p.log = logging.Nop()
	}
	return p
}

func (p *Pipeline) emit(e Event) {
	if p.observer != nil {
		p.observer(e)
	}
}

// Upload runs the stages strictly in order. Validation failures never reach
// the network. Any preprocessing scratch file is removed before returning.
func (p *Pipeline) Upload(ctx context.Context, a capsule.Attachment) (*capsule.UploadResult, error) {
	log := p.log.With("attachment", a.ID, "category", a.Category)
	p.emit(Event{AttachmentID: a.ID, State: StatePending})

	res, attempts, err := p.run(ctx, a)
	if err != nil {
		var ue *UploadError
		if errors.As(err, &ue) && ue.Stage == StageValidate {
			log.Debug(ctx, "attachment rejected", "error", err)
		} else {
			log.Warn(ctx, "upload failed", "error", err)
		}
		p.emit(Event{AttachmentID: a.ID, State: StateFailed, Attempts: attempts, Err: err})
		return nil, err
	}

	log.Info(ctx, "upload completed", "media_id", res.MediaID, "size", res.Size, "attempts", attempts)
	p.emit(Event{AttachmentID: a.ID, State: StateCompleted, Attempts: attempts})
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, a capsule.Attachment) (*capsule.UploadResult, int, error) {
	fail := func(stage Stage, err error) (*capsule.UploadResult, int, error) {
		return nil, 0, newUploadError(a.ID, stage, err)
	}

	if a.Name == "" {
		a.Name = filepath.Base(a.Path)
	}
	if err := media.CheckExtension(a.Category, a.Name); err != nil {
		return fail(StageValidate, err)
	}

	prepared, err := media.Preprocess(a.Path, a.Category, a.Name, p.prep)
	if err != nil {
		return fail(StagePreprocess, err)
	}
	defer prepared.Cleanup()
	p.emit(Event{AttachmentID: a.ID, State: StatePreprocessed})

	if err := media.ValidateFile(prepared.Path, a.Category, prepared.Name); err != nil {
		return fail(StageValidate, err)
	}

	f, err := os.Open(prepared.Path)
	if err != nil {
		return fail(StagePreprocess, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fail(StagePreprocess, err)
	}
	size := info.Size()

	if err := ctx.Err(); err != nil {
		return fail(StagePresign, err)
	}
	target, err := p.api.Presign(ctx, client.PresignRequest{
		Type:        a.Category,
		Filename:    prepared.Name,
		ContentType: prepared.ContentType,
		Size:        size,
	})
	if err != nil {
		return fail(StagePresign, err)
	}
	p.emit(Event{AttachmentID: a.ID, State: StatePresigned})

	attempts, err := p.storage.Put(ctx, netx.PutRequest{
		URL:         target.UploadURL,
		Body:        f,
		Size:        size,
		ContentType: prepared.ContentType,
	})
	if err != nil {
		return nil, attempts, newUploadError(a.ID, StageUpload, err)
	}
	p.emit(Event{AttachmentID: a.ID, State: StateUploaded, Attempts: attempts})

	done, err := p.api.CompleteUpload(ctx, client.CompleteRequest{
		ObjectKey:   target.ObjectKey,
		ContentType: prepared.ContentType,
		Size:        size,
	})
	if err != nil {
		return nil, attempts, newUploadError(a.ID, StageComplete, err)
	}

	res := &capsule.UploadResult{
		AttachmentID: a.ID,
		MediaID:      done.MediaID,
		ObjectKey:    target.ObjectKey,
		ContentType:  prepared.ContentType,
		Size:         size,
	}
	p.record(ctx, a, res)
	return res, attempts, nil
}

func (p *Pipeline) record(ctx context.Context, a capsule.Attachment, res *capsule.UploadResult) {
	if p.ledger == nil {
		return
	}
	err := p.ledger.Add(ctx, uploads.Record{
		AttachmentID: a.ID,
		MediaID:      res.MediaID,
		Category:     a.Category,
		ObjectKey:    res.ObjectKey,
		ContentType:  res.ContentType,
		Size:         res.Size,
		CreatedAt:    p.now(),
	})
	if err != nil {
		p.log.Warn(ctx, "cannot record upload", "attachment", a.ID, "error", err)
	}
}

// Outcome is the result of one pipeline in UploadAll.
type Outcome struct {
	AttachmentID string
	Result       *capsule.UploadResult
	Err          error
}

// UploadAll runs one independent pipeline per attachment, at most
// WithParallel at a time. A failure does not stop the others. Outcomes are
// returned in input order and carry their attachment ID; the error joins
// every failure.
func (p *Pipeline) UploadAll(ctx context.Context, atts []capsule.Attachment) ([]Outcome, error) {
	out := make([]Outcome, len(atts))

	var g errgroup.Group
	g.SetLimit(p.parallel)
	for i, a := range atts {
		out[i].AttachmentID = a.ID
		g.Go(func() error {
			res, err := p.Upload(ctx, a)
			out[i].Result = res
			out[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range out {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("%d of %d uploads failed: %w", len(errs), len(atts), errors.Join(errs...))
	}
	return out, nil
}

// ByAttachment indexes outcomes by attachment ID.
func ByAttachment(outcomes []Outcome) map[string]Outcome {
	m := make(map[string]Outcome, len(outcomes))
	for _, o := range outcomes {
		m[o.AttachmentID] = o
	}
	return m
}
