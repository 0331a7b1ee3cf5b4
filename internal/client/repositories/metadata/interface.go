// Package metadata stores small key/value records of the client, such as the
// sealed access token and its KDF salt.
package metadata

import (
	"context"
	"time"
)

// Well-known keys.
const (
	KeyAccessToken = "access_token"
	KeyTokenSalt   = "token_salt"
	KeyLastDraft   = "last_draft"
)

// Repository is a flat key/value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	// UpdatedAt reports when key was last written; ok is false when absent.
	UpdatedAt(ctx context.Context, key string) (t time.Time, ok bool, err error)
}
