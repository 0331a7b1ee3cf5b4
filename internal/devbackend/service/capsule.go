package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/media"
)

// CreateCapsule stores a capsule built directly from media URLs, bypassing
// the order and payment steps. Without open_at it opens in a week.
func (s *Service) CreateCapsule(ctx context.Context, u User, req client.CapsuleRequest) (*client.CapsuleResponse, error) {
	now := s.now()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if len(req.MediaURLs) == 0 {
		return nil, invalid("at least one media file is required")
	}
	if len(req.MediaTypes) != len(req.MediaURLs) {
		return nil, invalid("media_types must match media_urls")
	}
	for _, t := range req.MediaTypes {
		if _, err := media.ParseCategory(t); err != nil {
			return nil, invalid(fmt.Sprintf("unknown media type %q", t))
		}
	}
	if req.ViewLimit != nil && *req.ViewLimit <= 0 {
		return nil, invalid("view_limit must be positive")
	}
	if req.ProductID != nil {
		if _, ok := Products[*req.ProductID]; !ok {
			return nil, ErrNotFound
		}
	}

	openAt := now.AddDate(0, 0, 7)
	if req.OpenAt != nil {
		if !req.OpenAt.After(now) {
			return nil, invalid("open date must be in the future")
		}
		openAt = *req.OpenAt
	}

	c := &Capsule{
		ID:         newID(),
		OwnerID:    u.ID,
		Title:      title,
		Content:    req.Content,
		MediaURLs:  req.MediaURLs,
		MediaTypes: req.MediaTypes,
		OpenAt:     openAt,
		ViewLimit:  req.ViewLimit,
		ProductID:  req.ProductID,
		CreatedAt:  now,
	}

	s.store.mu.Lock()
	s.store.capsules[c.ID] = c
	s.store.mu.Unlock()

	s.log.Info(ctx, "capsule created", "user", u.ID, "capsule_id", c.ID, "media", len(c.MediaURLs))

	return &client.CapsuleResponse{ID: c.ID, OpenAt: c.OpenAt}, nil
}
