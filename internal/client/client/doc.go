// Package client contains the client-side building blocks of notekeeper
// that talk to the outside world.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the remote sharing service (see the
//     Client interface): GetChallenge, ShareNote and GetNote.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that tags every
//     request with an X-Request-ID, carries the captcha in a request header
//     and maps failures to sentinel errors.
//  3. Local persistence bootstrap (OpenDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *APIError carrying the service message; an APIError matches
// common.ErrorNotFound for 404 and common.ErrAlreadyExists for 409 via
// errors.Is.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client
