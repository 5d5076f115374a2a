// Package repository holds the sentinel errors shared by all store
// implementations. Repository interfaces live with the domain
// packages that consume them; testify mocks live in the mocks
// subpackage.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint fails
	ErrDuplicate = errors.New("duplicate entity")
)
