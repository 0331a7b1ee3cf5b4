package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/timecapsule/internal/client/auth"
)

// AuthService manages the access token kept in the local database.
//
// Contract:
//   - Login: check the token is not expired and store it sealed with passphrase.
//   - Logout: wipe the stored token and any cached copy.
//   - SignedIn: report whether a sealed token is present.
type AuthService interface {
	Login(ctx context.Context, token string, passphrase []byte) error
	Logout(ctx context.Context) error
	SignedIn(ctx context.Context) (bool, error)
}

// forgetter is implemented by token providers that cache the token.
type forgetter interface {
	Forget()
}

type authService struct {
	store *auth.SealedStore
	cache forgetter
}

// NewAuthService binds the service to a sealed store. cache may be nil; when
// set it is told to drop its copy on login and logout.
func NewAuthService(store *auth.SealedStore, cache forgetter) AuthService {
	return &authService{store: store, cache: cache}
}

func (a *authService) Login(ctx context.Context, token string, passphrase []byte) error {
	token = strings.TrimSpace(token)
	if err := a.store.Save(ctx, token, passphrase); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	a.forget()
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.forget()
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (a *authService) SignedIn(ctx context.Context) (bool, error) {
	return a.store.Has(ctx)
}

func (a *authService) forget() {
	if a.cache != nil {
		a.cache.Forget()
	}
}
