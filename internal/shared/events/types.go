package events

import "github.com/google/uuid"

// Event type constants.
const (
	AttendeeInvitedType       = "AttendeeInvited"
	CollaboratorInvitedType   = "CollaboratorInvited"
	AttendeeRespondedType     = "AttendeeResponded"
	CollaboratorRespondedType = "CollaboratorResponded"
	EventDeletedType          = "EventDeleted"
)

// AttendeeInvitedEvent is emitted when attendee invitations are added to an event.
type AttendeeInvitedEvent struct {
	BaseEvent

	// InviterID is the user who sent the invitations.
	InviterID uuid.UUID `json:"inviter_id"`

	// Invited is the number of invitation records added in this batch.
	// Deduplicated emails do not count.
	Invited int `json:"invited"`
}

// NewAttendeeInvitedEvent creates a new AttendeeInvitedEvent.
func NewAttendeeInvitedEvent(eventID, inviterID uuid.UUID, invited int) *AttendeeInvitedEvent {
	return &AttendeeInvitedEvent{
		BaseEvent: NewBaseEvent(AttendeeInvitedType, eventID),
		InviterID: inviterID,
		Invited:   invited,
	}
}

// CollaboratorInvitedEvent is emitted when collaborator invitations are added.
type CollaboratorInvitedEvent struct {
	BaseEvent

	InviterID uuid.UUID `json:"inviter_id"`
	Invited   int       `json:"invited"`
}

// NewCollaboratorInvitedEvent creates a new CollaboratorInvitedEvent.
func NewCollaboratorInvitedEvent(eventID, inviterID uuid.UUID, invited int) *CollaboratorInvitedEvent {
	return &CollaboratorInvitedEvent{
		BaseEvent: NewBaseEvent(CollaboratorInvitedType, eventID),
		InviterID: inviterID,
		Invited:   invited,
	}
}

// AttendeeRespondedEvent is emitted when an invitee records an RSVP.
type AttendeeRespondedEvent struct {
	BaseEvent

	// ResponderID is the user who responded.
	ResponderID uuid.UUID `json:"responder_id"`

	// Status is the recorded response (Going, Maybe, Not Going).
	Status string `json:"status"`
}

// NewAttendeeRespondedEvent creates a new AttendeeRespondedEvent.
func NewAttendeeRespondedEvent(eventID, responderID uuid.UUID, status string) *AttendeeRespondedEvent {
	return &AttendeeRespondedEvent{
		BaseEvent:   NewBaseEvent(AttendeeRespondedType, eventID),
		ResponderID: responderID,
		Status:      status,
	}
}

// CollaboratorRespondedEvent is emitted when a collaborator invitee responds.
type CollaboratorRespondedEvent struct {
	BaseEvent

	ResponderID uuid.UUID `json:"responder_id"`

	// Status is the recorded response (Yes, No).
	Status string `json:"status"`
}

// NewCollaboratorRespondedEvent creates a new CollaboratorRespondedEvent.
func NewCollaboratorRespondedEvent(eventID, responderID uuid.UUID, status string) *CollaboratorRespondedEvent {
	return &CollaboratorRespondedEvent{
		BaseEvent:   NewBaseEvent(CollaboratorRespondedType, eventID),
		ResponderID: responderID,
		Status:      status,
	}
}

// EventDeletedEvent is emitted when an organizer deletes an event.
type EventDeletedEvent struct {
	BaseEvent

	OrganizerID uuid.UUID `json:"organizer_id"`
}

// NewEventDeletedEvent creates a new EventDeletedEvent.
func NewEventDeletedEvent(eventID, organizerID uuid.UUID) *EventDeletedEvent {
	return &EventDeletedEvent{
		BaseEvent:   NewBaseEvent(EventDeletedType, eventID),
		OrganizerID: organizerID,
	}
}
