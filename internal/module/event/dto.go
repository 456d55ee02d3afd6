package event

import (
	"time"

	"github.com/google/uuid"
)

// CreateEventRequest is the request body for event creation.
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"max=200"`
}

// InviteRequest carries a batch of candidate emails.
type InviteRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,required,email"`
}

// RespondRequest carries an RSVP or collaboration answer.
type RespondRequest struct {
	Status string `json:"status" binding:"required"`
}

// UserSummary is the resolved display form of a user reference.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// RoleRecordResponse is a role record with its user reference resolved.
type RoleRecordResponse struct {
	User        *UserSummary `json:"user,omitempty"`
	Email       string       `json:"email,omitempty"`
	Role        Role         `json:"role"`
	Status      *string      `json:"status"`
	InvitedAt   time.Time    `json:"invitedAt"`
	RespondedAt *time.Time   `json:"respondedAt,omitempty"`
}

// EventResponse is the API representation of an event with every user
// reference resolved to display name and email.
type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location,omitempty"`

	Organizer            *UserSummary         `json:"organizer"`
	Invitees             []RoleRecordResponse `json:"invitees"`
	Attendees            []RoleRecordResponse `json:"attendees"`
	CollaboratorInvitees []RoleRecordResponse `json:"collaborator_invitees"`
	Collaborators        []RoleRecordResponse `json:"collaborators"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListEventsResponse is the paginated listing payload.
type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Limit  int              `json:"limit"`
}

// RosterResponse is the payload for the attendee/collaborator listings.
type RosterResponse struct {
	Records []RoleRecordResponse `json:"records"`
}

// MessageResponse is a generic confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
