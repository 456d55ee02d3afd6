package event

import "errors"

// Module errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrForbidden     = errors.New("forbidden")

	// RSVP preconditions
	ErrNotInvited              = errors.New("not invited to this event")
	ErrNotInvitedToCollaborate = errors.New("not invited to collaborate on this event")

	// Validation
	ErrInvalidStatus = errors.New("invalid status value")
	ErrInvalidRole   = errors.New("invalid role filter")
	ErrInvalidOrder  = errors.New("invalid sort order")
	ErrInvalidDate   = errors.New("invalid date value")
)
