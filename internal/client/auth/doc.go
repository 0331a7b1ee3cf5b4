// Package auth supplies the bearer token used by the backend client.
//
// The token is never ambient state: callers construct a provider and pass it
// to client.NewHTTPClient. Static serves a fixed token (the development
// bypass token or one typed in by the user); Stored unlocks a token sealed in
// the local database with a passphrase. Both refuse JWTs whose exp claim has
// passed.
package auth
