package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var timeNow = time.Now

// CheckExpiry inspects the exp claim of a JWT without verifying its
// signature; only the backend can do that. Opaque tokens are accepted as is.
func CheckExpiry(token string, now time.Time) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return common.ErrNoToken
	}
	if strings.Count(token, ".") != 2 {
		return nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return common.ErrInvalidToken
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return common.ErrTokenExpired
	}
	return nil
}

// Static serves one fixed token.
type Static struct {
	token string
	now   func() time.Time
}

func NewStatic(token string) *Static {
	return &Static{token: strings.TrimSpace(token), now: timeNow}
}

func (s *Static) Token(_ context.Context) (string, error) {
	if err := CheckExpiry(s.token, s.now()); err != nil {
		return "", err
	}
	return s.token, nil
}

// PassphraseFunc obtains the passphrase that unlocks the stored token,
// typically by prompting the user.
type PassphraseFunc func(ctx context.Context) ([]byte, error)

// Stored unlocks the sealed token on first use and caches it in memory.
// It is safe for concurrent use by parallel uploads.
type Stored struct {
	store      *SealedStore
	passphrase PassphraseFunc
	now        func() time.Time

	mu     sync.Mutex
	cached string
}

func NewStored(store *SealedStore, passphrase PassphraseFunc) *Stored {
	return &Stored{store: store, passphrase: passphrase, now: timeNow}
}

func (s *Stored) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == "" {
		pass, err := s.passphrase(ctx)
		if err != nil {
			return "", err
		}
		defer common.WipeByteArray(pass)

		token, err := s.store.Load(ctx, pass)
		if err != nil {
			return "", err
		}
		s.cached = token
	}

	if err := CheckExpiry(s.cached, s.now()); err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			s.cached = ""
		}
		return "", err
	}
	return s.cached, nil
}

// Forget drops the cached token so the next call unlocks again.
func (s *Stored) Forget() {
	s.mu.Lock()
	s.cached = ""
	s.mu.Unlock()
}
