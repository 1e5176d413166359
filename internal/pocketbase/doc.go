// Package pocketbase talks to the collection endpoints of a PocketBase
// backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): health probe,
//     admin authentication, and collection list/get/create/update.
//  2. A concrete REST implementation (see HTTPClient) that waits for the
//     backend to come up, authenticates against the known admin endpoints,
//     keeps the token for every later call and maps HTTP failures to
//     sentinel errors.
//
// # Error Handling
//
// Non-2xx responses are returned as *HTTPError, which unwraps to
// ErrUnauthorized, ErrNotFound or ErrRequestFailed. Network failures wrap
// ErrUnavailable. Match them with errors.Is / errors.As.
//
// # Concurrency
//
// HTTPClient issues one request at a time from one goroutine; it stores the
// token after Authenticate and is not meant to be shared between goroutines
// during authentication.
package pocketbase
