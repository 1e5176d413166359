// Package common defines shared constants and sentinel errors used across
// pbmigrate layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors for single-item operations.
	ErrCollectionNotFound = errors.New("collection not found")
	ErrFieldNotFound      = errors.New("field not found")

	// Schema document errors.
	ErrSchemaNotFound = errors.New("schema document not found")

	// Input validation errors, raised before any remote call.
	ErrInvalidInput = errors.New("invalid input")

	// Credential errors.
	ErrMissingCredentials = errors.New("missing credentials")

	// The backend answered with something we cannot use (e.g. a created
	// collection without an id).
	ErrInvalidResponse = errors.New("invalid response")
)
