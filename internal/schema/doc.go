// Package schema prepares desired collection definitions for the backend.
//
// Normalize injects the system timestamp fields every writable collection
// needs; Resolve rewrites relation targets from collection names to backend
// identifiers. Both return new values and never mutate their input, so the
// reconciler can rebuild a fresh payload from the desired document on every
// pass.
package schema
