// Package service holds the dev backend's business rules: presigned media
// uploads, order pricing, the Kakao-style payment handshake, waiting rooms
// and direct capsules. Records live in memory and vanish on restart.
package service

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/config"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/storage"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
	"github.com/google/uuid"
)

// ObjectStore is the part of the object storage the service needs.
type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
	Head(ctx context.Context, key string) (storage.ObjectInfo, error)
}

// User is the caller identity taken from the access token.
type User struct {
	ID       string
	Nickname string
}

// Products accepted by direct capsule creation.
var Products = map[string]struct{}{
	"capsule-basic": {},
	"capsule-plus":  {},
}

type Service struct {
	objects    ObjectStore
	store      *memoryStore
	table      pricing.Table
	limits     capsule.Limits
	publicURL  string
	presignTTL time.Duration
	log        logging.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(objects ObjectStore, c *config.Config, opts ...Option) *Service {
	s := &Service{
		objects:    objects,
		store:      newMemoryStore(),
		table:      c.Pricing,
		limits:     capsule.DefaultLimits(),
		publicURL:  c.PublicURL,
		presignTTL: c.PresignTTL,
		log:        logging.Nop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func newID() string {
	return uuid.NewString()
}
