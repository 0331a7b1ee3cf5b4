// Package client talks to the time-capsule backend over HTTP/JSON.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface and its
//     narrower MediaAPI and PaymentAPI views) covering media presign and
//     completion, media URL lookup, capsule creation, orders, Kakao Pay
//     ready/approve and the room endpoints.
//  2. A concrete HTTP implementation (see HTTPClient) that injects a bearer
//     token obtained from a TokenProvider and maps HTTP status codes to
//     sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which matches one of
// ErrUnauthorized, ErrNotFound, ErrNoSlots, ErrValidation or ErrUnavailable
// through errors.Is. UserMessage turns any of them into the fixed text shown
// to the user.
//
// All operations accept context.Context and honor cancellation and timeouts.
package client
