package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/storage"
	"github.com/dmitrijs2005/timecapsule/internal/media"
)

// Presign reserves an object key for u and returns a PUT URL for it.
func (s *Service) Presign(ctx context.Context, u User, req client.PresignRequest) (*client.PresignResponse, error) {
	if err := media.CheckExtension(req.Type, req.Filename); err != nil {
		return nil, invalid(err.Error())
	}
	if req.Size <= 0 {
		return nil, invalid("file is empty")
	}
	if err := media.CheckSize(req.Type, req.Size); err != nil {
		return nil, invalid(err.Error())
	}

	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = media.InferMimeType(req.Filename)
	}

	now := s.now()
	key := storage.NewObjectKey(u.ID, now)

	url, err := s.objects.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	s.store.pending[key] = pendingUpload{
		OwnerID:     u.ID,
		Category:    req.Type,
		ContentType: contentType,
		Size:        req.Size,
		ExpiresAt:   now.Add(s.presignTTL),
	}
	s.store.mu.Unlock()

	s.log.Debug(ctx, "presigned upload", "user", u.ID, "key", key, "type", req.Type)

	return &client.PresignResponse{UploadURL: url, ObjectKey: key}, nil
}

// CompleteUpload confirms that the object behind a presigned key exists and
// turns it into a media record.
func (s *Service) CompleteUpload(ctx context.Context, u User, req client.CompleteRequest) (*client.CompleteResponse, error) {
	s.store.mu.Lock()
	p, ok := s.store.pending[req.ObjectKey]
	s.store.mu.Unlock()
	if !ok || p.OwnerID != u.ID {
		return nil, ErrNotFound
	}
	if s.now().After(p.ExpiresAt) {
		return nil, invalid("upload slot has expired")
	}

	info, err := s.objects.Head(ctx, req.ObjectKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, invalid("file has not been uploaded")
	}
	if err != nil {
		return nil, err
	}
	if req.Size > 0 && info.Size != req.Size {
		return nil, invalid(fmt.Sprintf("uploaded size %d does not match %d", info.Size, req.Size))
	}
	if err := media.CheckSize(p.Category, info.Size); err != nil {
		return nil, invalid(err.Error())
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = p.ContentType
	}

	m := &Media{
		ID:          newID(),
		OwnerID:     u.ID,
		ObjectKey:   req.ObjectKey,
		Category:    p.Category,
		ContentType: contentType,
		Size:        info.Size,
		CreatedAt:   s.now(),
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.pending[req.ObjectKey]; !ok {
		return nil, ErrNotFound
	}
	delete(s.store.pending, req.ObjectKey)
	s.store.media[m.ID] = m

	s.log.Info(ctx, "media completed", "user", u.ID, "media_id", m.ID, "size", m.Size)

	return &client.CompleteResponse{MediaID: m.ID}, nil
}

// MediaURL returns a presigned GET URL for media owned by u.
func (s *Service) MediaURL(ctx context.Context, u User, mediaID string) (string, error) {
	s.store.mu.Lock()
	m, ok := s.store.media[mediaID]
	s.store.mu.Unlock()
	if !ok || m.OwnerID != u.ID {
		return "", ErrNotFound
	}
	return s.objects.PresignGet(ctx, m.ObjectKey)
}
