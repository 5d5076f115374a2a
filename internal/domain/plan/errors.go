package plan

import "errors"

var (
	// ErrNotFound indicates the plan doesn't exist.
	ErrNotFound = errors.New("plan not found")
	// ErrDenied indicates the requester may not view the plan.
	ErrDenied = errors.New("access denied")
	// ErrNotOwner indicates an owner-only operation was attempted by a
	// non-owner.
	ErrNotOwner = errors.New("only the owner may perform this operation")
	// ErrUnauthenticated indicates the operation requires a logged-in
	// identity.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrInvalidInput indicates invalid plan input.
	ErrInvalidInput = errors.New("invalid plan input")
	// ErrInvalidEmail indicates a malformed collaborator email.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrAlreadyCollaborator indicates the email is already on the
	// collaborator list.
	ErrAlreadyCollaborator = errors.New("already a collaborator")
	// ErrSelfShare indicates an attempt to add the owner as a
	// collaborator.
	ErrSelfShare = errors.New("cannot add the owner as a collaborator")
	// ErrNotCollaborator indicates the email is not on the
	// collaborator list.
	ErrNotCollaborator = errors.New("not a collaborator")
)
