package event

import "github.com/google/uuid"

// Identity is the authenticated caller as seen by the membership logic.
type Identity struct {
	ID    uuid.UUID
	Email string
}

func (e *Event) isOrganizer(identity Identity) bool {
	return e.OrganizerID == identity.ID
}

// CanView reports whether the identity may read the event: the organizer
// or anyone present in any of the four role lists.
func (e *Event) CanView(identity Identity) bool {
	if e.isOrganizer(identity) {
		return true
	}
	return e.Invitees.Contains(identity) ||
		e.Attendees.Contains(identity) ||
		e.CollaboratorInvitees.Contains(identity) ||
		e.Collaborators.Contains(identity)
}

// CanManageInvites reports whether the identity may invite attendees:
// the organizer or any current collaborator.
func (e *Event) CanManageInvites(identity Identity) bool {
	return e.isOrganizer(identity) || e.Collaborators.Contains(identity)
}

// CanManageCollaboratorInvites reports whether the identity may invite
// collaborators. Organizer only; collaborators cannot promote new ones.
func (e *Event) CanManageCollaboratorInvites(identity Identity) bool {
	return e.isOrganizer(identity)
}

// CanDelete reports whether the identity may delete the event.
func (e *Event) CanDelete(identity Identity) bool {
	return e.isOrganizer(identity)
}

// CanViewAttendeeList reports whether the identity may read the attendee
// list: the organizer or any current collaborator.
func (e *Event) CanViewAttendeeList(identity Identity) bool {
	return e.isOrganizer(identity) || e.Collaborators.Contains(identity)
}

// CanViewCollaboratorList reports whether the identity may read the
// collaborator list. Organizer only.
func (e *Event) CanViewCollaboratorList(identity Identity) bool {
	return e.isOrganizer(identity)
}
