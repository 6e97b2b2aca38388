// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates the entity already exists or was modified concurrently.
var ErrConflict = errors.New("conflict: resource already exists")

// ErrValidation indicates caller-supplied input was rejected.
var ErrValidation = errors.New("validation failed")

// ErrInfrastructure marks a failure of an external collaborator (store,
// transport). Callers treat it as "no mutation occurred".
var ErrInfrastructure = errors.New("infrastructure failure")
