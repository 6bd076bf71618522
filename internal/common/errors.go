// Package common defines shared sentinel errors used across the server
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Validation of caller input.
	ErrValidation = errors.New("validation error")

	// Auth errors. ErrInvalidCredentials deliberately covers both an unknown
	// username and a wrong password so the two are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// ErrStorage marks a fatal error on the persistence layer. It is never
	// retried; the API layer logs the detail and answers with a generic message.
	ErrStorage = errors.New("storage failure")
)
