package cli

import (
	"context"

	"github.com/dmitrijs2005/timecapsule/internal/common"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
)

// Login reads an access token and a passphrase, both without echo, and
// stores the token sealed with the passphrase. Expired tokens are refused.
func (a *App) Login(ctx context.Context, _ []string) error {
	token, err := getSecret(a.out, "Paste access token")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(token)

	pass, err := getSecret(a.out, "Choose a passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	if err := a.authService.Login(ctx, string(token), pass); err != nil {
		return err
	}
	a.log.Info(ctx, "token saved")
	printlnFn("Signed in.")
	return nil
}

// Logout removes the stored token.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out.")
	return nil
}
