package event

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gatherly/server/internal/module/auth"
	"github.com/gatherly/server/internal/shared/events"
)

// Service implements the membership state machine: event lifecycle,
// invitations, RSVP reconciliation and role-scoped listings.
type Service struct {
	repo   Repository
	users  UserDirectory
	bus    *events.Bus
	logger *zap.Logger
}

// NewService creates a new event service.
func NewService(repo Repository, users UserDirectory, bus *events.Bus, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		bus:    bus,
		logger: logger,
	}
}

// Create creates a new event with the caller as organizer and empty role
// lists.
func (s *Service) Create(ctx context.Context, organizer Identity, req *CreateEventRequest) (*EventResponse, error) {
	event := &Event{
		ID:                   uuid.New(),
		Title:                req.Title,
		Description:          req.Description,
		Date:                 req.Date,
		Location:             req.Location,
		OrganizerID:          organizer.ID,
		Invitees:             Roster{},
		Attendees:            Roster{},
		CollaboratorInvitees: Roster{},
		Collaborators:        Roster{},
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("event created",
		zap.String("event_id", event.ID.String()),
		zap.String("organizer_id", organizer.ID.String()))

	return s.toResponse(ctx, event)
}

// Get fetches a single event. Missing events report NotFound before any
// authorization check; existing events the caller is not part of report
// Forbidden.
func (s *Service) Get(ctx context.Context, id uuid.UUID, requester Identity) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.CanView(requester) {
		return nil, ErrForbidden
	}
	return s.toResponse(ctx, event)
}

// List returns the page of events visible to the requester under the
// query's role filter, with every user reference resolved.
func (s *Service) List(ctx context.Context, requester Identity, query *ListEventsQuery) (*ListEventsResponse, error) {
	if err := query.Normalize(); err != nil {
		return nil, err
	}

	page, total, err := s.repo.List(ctx, requester, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	directory, err := s.resolveUsers(ctx, page...)
	if err != nil {
		return nil, err
	}

	responses := make([]*EventResponse, 0, len(page))
	for _, event := range page {
		responses = append(responses, buildResponse(event, directory))
	}

	return &ListEventsResponse{
		Events: responses,
		Total:  total,
		Page:   query.Page,
		Limit:  query.Limit,
	}, nil
}

// Delete removes an event entirely. Organizer only; the role lists live
// inside the row, so nothing is orphaned.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, requester Identity) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !event.CanDelete(requester) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, event); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.logger.Info("event deleted",
		zap.String("event_id", event.ID.String()),
		zap.String("organizer_id", requester.ID.String()))
	s.publish(events.NewEventDeletedEvent(event.ID, event.OrganizerID))

	return nil
}

// InviteAttendees appends attendance invitations for each candidate
// email. Already-invited emails, the organizer and current collaborators
// are skipped; each email is independent and the whole updated event is
// persisted with one save.
func (s *Service) InviteAttendees(ctx context.Context, id uuid.UUID, inviter Identity, emails []string) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.CanManageInvites(inviter) {
		return nil, ErrForbidden
	}

	added := 0
	for _, raw := range emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" {
			continue
		}

		account, err := s.lookupAccount(ctx, email)
		if err != nil {
			return nil, err
		}

		if event.Invitees.FindByEmail(email, account) >= 0 {
			continue
		}
		if account != nil {
			who := Identity{ID: account.ID, Email: account.Email}
			if account.ID == event.OrganizerID || event.Collaborators.Contains(who) {
				continue
			}
		}

		event.Invitees = append(event.Invitees, newInviteeRecord(account, email))
		added++
	}

	if err := s.repo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	if added > 0 {
		s.publish(events.NewAttendeeInvitedEvent(event.ID, inviter.ID, added))
	}
	s.logger.Debug("attendee invitations processed",
		zap.String("event_id", event.ID.String()),
		zap.Int("added", added),
		zap.Int("candidates", len(emails)))

	return s.toResponse(ctx, event)
}

// InviteCollaborators appends collaboration invitations. Organizer only.
// Candidates are deduplicated against current collaborators; pending
// collaborator invitations are not checked, matching the attendee-side
// asymmetry documented in DESIGN.md.
func (s *Service) InviteCollaborators(ctx context.Context, id uuid.UUID, inviter Identity, emails []string) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.CanManageCollaboratorInvites(inviter) {
		return nil, ErrForbidden
	}

	added := 0
	for _, raw := range emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" {
			continue
		}

		account, err := s.lookupAccount(ctx, email)
		if err != nil {
			return nil, err
		}

		if event.Collaborators.FindByEmail(email, account) >= 0 {
			continue
		}

		event.CollaboratorInvitees = append(event.CollaboratorInvitees, newCollaboratorInviteeRecord(account, email))
		added++
	}

	if err := s.repo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	if added > 0 {
		s.publish(events.NewCollaboratorInvitedEvent(event.ID, inviter.ID, added))
	}

	return s.toResponse(ctx, event)
}

// RespondAttendee reconciles an RSVP into the role lists. The invitee
// record is the durable response history; the attendee record is the
// current attendance projection, added, updated or removed per status.
func (s *Service) RespondAttendee(ctx context.Context, id uuid.UUID, responder Identity, status string) error {
	if !AttendeeStatus(status).IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	inviteeIdx := event.Invitees.Find(responder)
	if inviteeIdx < 0 {
		return ErrNotInvited
	}

	attendeeIdx := event.Attendees.Find(responder)
	switch {
	case attendeeIdx < 0 && AttendeeStatus(status) != StatusNotGoing:
		event.Attendees = append(event.Attendees, newAttendeeRecord(responder, status))
	case attendeeIdx >= 0 && AttendeeStatus(status) == StatusNotGoing:
		event.Attendees = event.Attendees.Remove(attendeeIdx)
	case attendeeIdx >= 0:
		event.Attendees[attendeeIdx].SetStatus(status)
	}

	// The invitee record always reflects the latest response.
	event.Invitees[inviteeIdx].SetStatus(status)

	if err := s.repo.Save(ctx, event); err != nil {
		return fmt.Errorf("save event: %w", err)
	}

	s.publish(events.NewAttendeeRespondedEvent(event.ID, responder.ID, status))
	return nil
}

// RespondCollaborator reconciles a collaboration answer. Yes moves the
// responder into the collaborator list, No removes them from it; the
// pending invitation record is removed unconditionally when present and
// the removal is a no-op when it is not.
func (s *Service) RespondCollaborator(ctx context.Context, id uuid.UUID, responder Identity, status string) error {
	if !CollaboratorStatus(status).IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	inviteeIdx := event.CollaboratorInvitees.Find(responder)
	collaboratorIdx := event.Collaborators.Find(responder)
	if inviteeIdx < 0 && collaboratorIdx < 0 {
		return ErrNotInvitedToCollaborate
	}

	switch {
	case collaboratorIdx < 0 && CollaboratorStatus(status) == StatusYes:
		event.Collaborators = append(event.Collaborators, newCollaboratorRecord(responder, status))
	case collaboratorIdx >= 0 && CollaboratorStatus(status) == StatusNo:
		event.Collaborators = event.Collaborators.Remove(collaboratorIdx)
	case collaboratorIdx >= 0:
		event.Collaborators[collaboratorIdx].SetStatus(status)
	}

	if inviteeIdx >= 0 {
		event.CollaboratorInvitees = event.CollaboratorInvitees.Remove(inviteeIdx)
	}

	if err := s.repo.Save(ctx, event); err != nil {
		return fmt.Errorf("save event: %w", err)
	}

	s.publish(events.NewCollaboratorRespondedEvent(event.ID, responder.ID, status))
	return nil
}

// ListAttendees returns the attendee records of an event. Organizer or
// collaborator only; Forbidden is reported after existence is confirmed.
func (s *Service) ListAttendees(ctx context.Context, id uuid.UUID, requester Identity) (*RosterResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.CanViewAttendeeList(requester) {
		return nil, ErrForbidden
	}

	directory, err := s.resolveUsers(ctx, event)
	if err != nil {
		return nil, err
	}
	return &RosterResponse{Records: resolveRoster(event.Attendees, directory)}, nil
}

// ListCollaborators returns the collaborator records of an event.
// Organizer only.
func (s *Service) ListCollaborators(ctx context.Context, id uuid.UUID, requester Identity) (*RosterResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.CanViewCollaboratorList(requester) {
		return nil, ErrForbidden
	}

	directory, err := s.resolveUsers(ctx, event)
	if err != nil {
		return nil, err
	}
	return &RosterResponse{Records: resolveRoster(event.Collaborators, directory)}, nil
}

// --- Helpers ---

func (s *Service) lookupAccount(ctx context.Context, email string) (*auth.User, error) {
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve account: %w", err)
	}
	return account, nil
}

func (s *Service) publish(event events.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

// resolveUsers batches one directory lookup for every user id referenced
// by the given events.
func (s *Service) resolveUsers(ctx context.Context, evs ...*Event) (map[uuid.UUID]*auth.User, error) {
	seen := make(map[uuid.UUID]struct{})
	collect := func(roster Roster) {
		for _, rec := range roster {
			if rec.User != nil {
				seen[*rec.User] = struct{}{}
			}
		}
	}
	for _, ev := range evs {
		seen[ev.OrganizerID] = struct{}{}
		collect(ev.Invitees)
		collect(ev.Attendees)
		collect(ev.CollaboratorInvitees)
		collect(ev.Collaborators)
	}

	ids := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	directory := make(map[uuid.UUID]*auth.User, len(users))
	for _, user := range users {
		directory[user.ID] = user
	}
	return directory, nil
}

func (s *Service) toResponse(ctx context.Context, event *Event) (*EventResponse, error) {
	directory, err := s.resolveUsers(ctx, event)
	if err != nil {
		return nil, err
	}
	return buildResponse(event, directory), nil
}

func buildResponse(event *Event, directory map[uuid.UUID]*auth.User) *EventResponse {
	resp := &EventResponse{
		ID:                   event.ID,
		Title:                event.Title,
		Description:          event.Description,
		Date:                 event.Date,
		Location:             event.Location,
		Organizer:            summarize(event.OrganizerID, directory),
		Invitees:             resolveRoster(event.Invitees, directory),
		Attendees:            resolveRoster(event.Attendees, directory),
		CollaboratorInvitees: resolveRoster(event.CollaboratorInvitees, directory),
		Collaborators:        resolveRoster(event.Collaborators, directory),
		CreatedAt:            event.CreatedAt,
		UpdatedAt:            event.UpdatedAt,
	}
	return resp
}

func resolveRoster(roster Roster, directory map[uuid.UUID]*auth.User) []RoleRecordResponse {
	records := make([]RoleRecordResponse, 0, len(roster))
	for _, rec := range roster {
		out := RoleRecordResponse{
			Email:       rec.Email,
			Role:        rec.Role,
			Status:      rec.Status,
			InvitedAt:   rec.InvitedAt,
			RespondedAt: rec.RespondedAt,
		}
		if rec.User != nil {
			out.User = summarize(*rec.User, directory)
		}
		records = append(records, out)
	}
	return records
}

func summarize(id uuid.UUID, directory map[uuid.UUID]*auth.User) *UserSummary {
	user, ok := directory[id]
	if !ok {
		return &UserSummary{ID: id}
	}
	return &UserSummary{ID: user.ID, Email: user.Email, Name: user.Name}
}
