// Package repository defines error values shared by the repositories.
// Handlers and services use errors.Is against these sentinels to map
// failures onto client-visible responses.
package repository

import "errors"

// ErrNotFound is returned when an operation targets a row that does
// not exist. Handlers should translate this into an HTTP 404 response.
// Plain lookups (GetByID) return a nil entity instead of this error;
// it is reserved for mutations and joined loads where the caller
// named a specific id.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert or update collides
// with the unique email constraint. Handlers should translate this
// into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
