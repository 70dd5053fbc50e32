// Package client contains the client-side building blocks for talking to the
// news publication's REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) with one
//     method per upstream endpoint: one-time-code login, token verification,
//     categories, comments, e-paper editions and a health probe.
//  2. A concrete HTTP implementation (see RESTClient) with a fixed base URL
//     and request timeout. It attaches the bearer token from a TokenSource,
//     tags each request with an X-Request-ID and maps HTTP failures to
//     sentinel errors. Requests are never retried.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized. Non-2xx responses and envelopes
// with success=false are returned as *APIError carrying the upstream
// description.
//
// # Concurrency & Contexts
//
// RESTClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation on top of the fixed timeout.
package client
