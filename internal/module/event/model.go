package event

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gatherly/server/internal/module/auth"
)

// Role identifies which membership slot a role record occupies.
type Role string

const (
	RoleOrganizer           Role = "organizer"
	RoleAttendee            Role = "attendee"
	RoleInvitee             Role = "invitee"
	RoleCollaborator        Role = "collaborator"
	RoleCollaboratorInvitee Role = "collaborator-invitee"
)

// IsValid checks if the role is a known membership role.
func (r Role) IsValid() bool {
	switch r {
	case RoleOrganizer, RoleAttendee, RoleInvitee, RoleCollaborator, RoleCollaboratorInvitee:
		return true
	default:
		return false
	}
}

// AttendeeStatus is an RSVP answer to an attendance invitation.
type AttendeeStatus string

const (
	StatusGoing    AttendeeStatus = "Going"
	StatusMaybe    AttendeeStatus = "Maybe"
	StatusNotGoing AttendeeStatus = "Not Going"
)

// IsValid checks if the status is a valid attendee response.
func (s AttendeeStatus) IsValid() bool {
	switch s {
	case StatusGoing, StatusMaybe, StatusNotGoing:
		return true
	default:
		return false
	}
}

// CollaboratorStatus is an answer to a collaboration invitation.
type CollaboratorStatus string

const (
	StatusYes CollaboratorStatus = "Yes"
	StatusNo  CollaboratorStatus = "No"
)

// IsValid checks if the status is a valid collaborator response.
func (s CollaboratorStatus) IsValid() bool {
	switch s {
	case StatusYes, StatusNo:
		return true
	default:
		return false
	}
}

// RoleRecord is one membership slot inside an event's role lists. Exactly
// one of User/Email must identify the subject; User wins when the email
// resolves to a registered account.
type RoleRecord struct {
	User        *uuid.UUID `json:"user,omitempty"`
	Email       string     `json:"email,omitempty"`
	Role        Role       `json:"role"`
	Status      *string    `json:"status"`
	InvitedAt   time.Time  `json:"invitedAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// SetStatus records a response on the record.
func (r *RoleRecord) SetStatus(status string) {
	now := time.Now()
	r.Status = &status
	r.RespondedAt = &now
}

// newInviteeRecord builds a pending attendance invitation for the given
// email, attaching the registered account when one exists.
func newInviteeRecord(account *auth.User, email string) RoleRecord {
	rec := RoleRecord{
		Role:      RoleInvitee,
		Email:     strings.ToLower(email),
		InvitedAt: time.Now(),
	}
	if account != nil {
		id := account.ID
		rec.User = &id
		rec.Email = strings.ToLower(account.Email)
	}
	return rec
}

// newCollaboratorInviteeRecord builds a pending collaboration invitation.
func newCollaboratorInviteeRecord(account *auth.User, email string) RoleRecord {
	rec := newInviteeRecord(account, email)
	rec.Role = RoleCollaboratorInvitee
	return rec
}

// newAttendeeRecord builds a confirmed attendance record for a responder.
func newAttendeeRecord(identity Identity, status string) RoleRecord {
	id := identity.ID
	rec := RoleRecord{
		User:      &id,
		Email:     strings.ToLower(identity.Email),
		Role:      RoleAttendee,
		InvitedAt: time.Now(),
	}
	rec.SetStatus(status)
	return rec
}

// newCollaboratorRecord builds an accepted collaboration record.
func newCollaboratorRecord(identity Identity, status string) RoleRecord {
	rec := newAttendeeRecord(identity, status)
	rec.Role = RoleCollaborator
	return rec
}

// Event represents a shared calendar event. The four role lists live
// inside the row as JSONB, so a delete cascades to every role record.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	Location    string    `json:"location"`
	OrganizerID uuid.UUID `json:"organizer_id" gorm:"type:uuid;not null;index"`

	Invitees             Roster `json:"invitees" gorm:"type:jsonb;serializer:json;not null;default:'[]'"`
	Attendees            Roster `json:"attendees" gorm:"type:jsonb;serializer:json;not null;default:'[]'"`
	CollaboratorInvitees Roster `json:"collaborator_invitees" gorm:"column:collaborator_invitees;type:jsonb;serializer:json;not null;default:'[]'"`
	Collaborators        Roster `json:"collaborators" gorm:"type:jsonb;serializer:json;not null;default:'[]'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Event) TableName() string {
	return "events"
}
