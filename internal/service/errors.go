package service

import "errors"

var (
	// ErrUnauthorized means the caller cannot be resolved to an owning user
	// or project.
	ErrUnauthorized = errors.New("caller cannot be resolved to an owning user")

	// ErrStaleOwnership means a status report arrived for a task no longer
	// owned by the reporting worker. Rejected so a slow worker cannot clobber
	// a task that was reassigned.
	ErrStaleOwnership = errors.New("task is not owned by the reporting worker")

	// ErrInvalidTransition means a transition was requested out of a terminal
	// state. Always an explicit error, never a silent no-op.
	ErrInvalidTransition = errors.New("task is in a terminal state")

	// ErrTaskNotFound means the referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUnknownTaskType means the submitted task references no active
	// catalog entry.
	ErrUnknownTaskType = errors.New("unknown or inactive task type")

	// ErrInvalidEntry means a ledger append request failed validation.
	ErrInvalidEntry = errors.New("invalid ledger entry")

	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)
