package registry

import "errors"

var (
	// ErrNotFound indicates the registry doesn't exist or the
	// requester has no access to it.
	ErrNotFound = errors.New("registry not found")
	// ErrNotOwner indicates an owner-only operation was attempted by a
	// non-owner.
	ErrNotOwner = errors.New("only the owner may modify a registry")
	// ErrUnauthenticated indicates the operation requires a logged-in
	// identity.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrInvalidInput indicates invalid registry input.
	ErrInvalidInput = errors.New("invalid registry input")
	// ErrRecordNotFound indicates no record matches the given ID.
	ErrRecordNotFound = errors.New("record not found")
)
