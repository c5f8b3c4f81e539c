// Package client contains the transport side of the usuarios client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     five usuarios endpoints: Login, Register, GetUserByID, UpdateUser and
//     DeleteUser.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that performs one
//     round trip per call against a fixed base URL and unwraps the
//     {"error": ..., "body": ...} response envelope.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// A non-2xx response becomes an *APIError carrying the server's error
// string. APIError matches the sentinels ErrUnauthorized, ErrNotFound and
// ErrConflict via errors.Is. Transport failures wrap ErrUnavailable.
//
// All operations accept context.Context and honor cancellation; HTTPClient
// additionally applies a per-request timeout.
package client
