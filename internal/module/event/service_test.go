package event

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gatherly/server/internal/module/auth"
)

// --- Fakes ---

type fakeEventRepo struct {
	events map[uuid.UUID]*Event
	order  []uuid.UUID
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*Event)}
}

func (f *fakeEventRepo) Create(_ context.Context, event *Event) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	f.events[event.ID] = event
	f.order = append(f.order, event.ID)
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) List(_ context.Context, requester Identity, query *ListEventsQuery) ([]*Event, int64, error) {
	var matched []*Event
	for _, id := range f.order {
		event := f.events[id]
		if !matchesRole(event, requester, query.Role) {
			continue
		}
		if query.Q != "" &&
			!strings.Contains(strings.ToLower(event.Title), strings.ToLower(query.Q)) &&
			!strings.Contains(strings.ToLower(event.Description), strings.ToLower(query.Q)) {
			continue
		}
		if query.StartTime != nil && event.Date.Before(*query.StartTime) {
			continue
		}
		if query.EndTime != nil && event.Date.After(*query.EndTime) {
			continue
		}
		matched = append(matched, event)
	}

	total := int64(len(matched))
	start := query.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesRole(event *Event, requester Identity, role string) bool {
	switch role {
	case FilterOrganizer:
		return event.OrganizerID == requester.ID
	case FilterInvitee:
		return event.Invitees.Contains(requester)
	case FilterAttendee:
		return event.Attendees.Contains(requester)
	case FilterCollaborator:
		return event.Collaborators.Contains(requester)
	case FilterCollaboratorInvitee:
		return event.CollaboratorInvitees.Contains(requester)
	default:
		return event.CanView(requester)
	}
}

func (f *fakeEventRepo) Save(_ context.Context, event *Event) error {
	event.UpdatedAt = time.Now()
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, event *Event) error {
	delete(f.events, event.ID)
	return nil
}

type fakeDirectory struct {
	byID map[uuid.UUID]*auth.User
}

func newFakeDirectory(users ...*auth.User) *fakeDirectory {
	d := &fakeDirectory{byID: make(map[uuid.UUID]*auth.User)}
	for _, u := range users {
		d.byID[u.ID] = u
	}
	return d
}

func (d *fakeDirectory) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range d.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (d *fakeDirectory) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	u, ok := d.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (d *fakeDirectory) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*auth.User, error) {
	var out []*auth.User
	for _, id := range ids {
		if u, ok := d.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- Fixtures ---

type fixture struct {
	svc  *Service
	repo *fakeEventRepo
	dir  *fakeDirectory

	organizer Identity
	userB     Identity
	userC     Identity
	userD     Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	a := &auth.User{ID: uuid.New(), Email: "a@x.com", Name: "A"}
	b := &auth.User{ID: uuid.New(), Email: "b@x.com", Name: "B"}
	c := &auth.User{ID: uuid.New(), Email: "c@x.com", Name: "C"}
	d := &auth.User{ID: uuid.New(), Email: "d@x.com", Name: "D"}

	repo := newFakeEventRepo()
	dir := newFakeDirectory(a, b, c, d)

	return &fixture{
		svc:       NewService(repo, dir, nil, zap.NewNop()),
		repo:      repo,
		dir:       dir,
		organizer: Identity{ID: a.ID, Email: a.Email},
		userB:     Identity{ID: b.ID, Email: b.Email},
		userC:     Identity{ID: c.ID, Email: c.Email},
		userD:     Identity{ID: d.ID, Email: d.Email},
	}
}

func (f *fixture) createEvent(t *testing.T, title string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.organizer, &CreateEventRequest{
		Title: title,
		Date:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) event(t *testing.T, id uuid.UUID) *Event {
	t.Helper()
	event, ok := f.repo.events[id]
	require.True(t, ok)
	return event
}

// --- Tests ---

func TestService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id := f.createEvent(t, "Launch party")

	t.Run("created with empty role lists", func(t *testing.T) {
		event := f.event(t, id)
		assert.Empty(t, event.Invitees)
		assert.Empty(t, event.Attendees)
		assert.Empty(t, event.CollaboratorInvitees)
		assert.Empty(t, event.Collaborators)
	})

	t.Run("organizer can fetch with resolved identity", func(t *testing.T) {
		resp, err := f.svc.Get(ctx, id, f.organizer)
		require.NoError(t, err)
		require.NotNil(t, resp.Organizer)
		assert.Equal(t, "A", resp.Organizer.Name)
		assert.Equal(t, "a@x.com", resp.Organizer.Email)
	})

	t.Run("non-member gets forbidden", func(t *testing.T) {
		_, err := f.svc.Get(ctx, id, f.userB)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown id reports not found before authorization", func(t *testing.T) {
		_, err := f.svc.Get(ctx, uuid.New(), f.userB)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.createEvent(t, "Board meeting")

	t.Run("non-organizer forbidden", func(t *testing.T) {
		err := f.svc.Delete(ctx, id, f.userB)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("organizer deletes", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, id, f.organizer))
		_, err := f.svc.Get(ctx, id, f.organizer)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestService_InviteAttendees(t *testing.T) {
	ctx := context.Background()

	t.Run("invites registered and unregistered emails", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Picnic")

		_, err := f.svc.InviteAttendees(ctx, id, f.organizer, []string{"b@x.com", "ghost@x.com"})
		require.NoError(t, err)

		event := f.event(t, id)
		require.Len(t, event.Invitees, 2)

		// Registered account resolved to a user reference.
		require.NotNil(t, event.Invitees[0].User)
		assert.Equal(t, f.userB.ID, *event.Invitees[0].User)
		// Unregistered email kept as email-only record.
		assert.Nil(t, event.Invitees[1].User)
		assert.Equal(t, "ghost@x.com", event.Invitees[1].Email)
		// Fresh invitations carry no response.
		assert.Nil(t, event.Invitees[0].Status)
		assert.Nil(t, event.Invitees[1].Status)
	})

	t.Run("re-inviting is idempotent", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Picnic")

		_, err := f.svc.InviteAttendees(ctx, id, f.organizer, []string{"b@x.com"})
		require.NoError(t, err)
		_, err = f.svc.InviteAttendees(ctx, id, f.organizer, []string{"B@X.COM"})
		require.NoError(t, err)

		assert.Len(t, f.event(t, id).Invitees, 1)
	})

	t.Run("skips the organizer's own email", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Picnic")

		_, err := f.svc.InviteAttendees(ctx, id, f.organizer, []string{"a@x.com"})
		require.NoError(t, err)
		assert.Empty(t, f.event(t, id).Invitees)
	})

	t.Run("skips current collaborators", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Picnic")
		event := f.event(t, id)
		event.Collaborators = Roster{newCollaboratorRecord(f.userD, string(StatusYes))}

		_, err := f.svc.InviteAttendees(ctx, id, f.organizer, []string{"d@x.com"})
		require.NoError(t, err)
		assert.Empty(t, f.event(t, id).Invitees)
	})

	t.Run("non-manager forbidden", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Picnic")

		_, err := f.svc.InviteAttendees(ctx, id, f.userB, []string{"c@x.com"})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestService_InviteCollaborators(t *testing.T) {
	ctx := context.Background()

	t.Run("organizer invites collaborator", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Offsite")

		_, err := f.svc.InviteCollaborators(ctx, id, f.organizer, []string{"d@x.com"})
		require.NoError(t, err)

		event := f.event(t, id)
		require.Len(t, event.CollaboratorInvitees, 1)
		assert.Equal(t, RoleCollaboratorInvitee, event.CollaboratorInvitees[0].Role)
	})

	t.Run("collaborators cannot invite collaborators", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Offsite")
		f.event(t, id).Collaborators = Roster{newCollaboratorRecord(f.userD, string(StatusYes))}

		_, err := f.svc.InviteCollaborators(ctx, id, f.userD, []string{"c@x.com"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("dedup only against current collaborators", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Offsite")
		f.event(t, id).Collaborators = Roster{newCollaboratorRecord(f.userD, string(StatusYes))}

		// Already a collaborator: skipped.
		_, err := f.svc.InviteCollaborators(ctx, id, f.organizer, []string{"d@x.com"})
		require.NoError(t, err)
		assert.Empty(t, f.event(t, id).CollaboratorInvitees)

		// Pending invitation does not block a second one.
		_, err = f.svc.InviteCollaborators(ctx, id, f.organizer, []string{"c@x.com"})
		require.NoError(t, err)
		_, err = f.svc.InviteCollaborators(ctx, id, f.organizer, []string{"c@x.com"})
		require.NoError(t, err)
		assert.Len(t, f.event(t, id).CollaboratorInvitees, 2)
	})
}

func TestService_RespondAttendee(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, uuid.UUID) {
		f := newFixture(t)
		id := f.createEvent(t, "Dinner")
		_, err := f.svc.InviteAttendees(ctx, id, f.organizer, []string{"b@x.com"})
		require.NoError(t, err)
		return f, id
	}

	t.Run("rejects invalid status before any lookup", func(t *testing.T) {
		f, id := setup(t)
		err := f.svc.RespondAttendee(ctx, id, f.userB, "Perhaps")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("uninvited responder forbidden", func(t *testing.T) {
		f, id := setup(t)
		err := f.svc.RespondAttendee(ctx, id, f.userC, string(StatusGoing))
		assert.ErrorIs(t, err, ErrNotInvited)
	})

	t.Run("Going appends an attendee record and updates the invitee history", func(t *testing.T) {
		f, id := setup(t)
		require.NoError(t, f.svc.RespondAttendee(ctx, id, f.userB, string(StatusGoing)))

		event := f.event(t, id)
		require.Len(t, event.Attendees, 1)
		assert.Equal(t, f.userB.ID, *event.Attendees[0].User)
		require.NotNil(t, event.Invitees[0].Status)
		assert.Equal(t, string(StatusGoing), *event.Invitees[0].Status)
		assert.NotNil(t, event.Invitees[0].RespondedAt)
	})

	t.Run("Not Going without prior attendance leaves attendees untouched", func(t *testing.T) {
		f, id := setup(t)
		require.NoError(t, f.svc.RespondAttendee(ctx, id, f.userB, string(StatusNotGoing)))

		event := f.event(t, id)
		assert.Empty(t, event.Attendees)
		require.NotNil(t, event.Invitees[0].Status)
		assert.Equal(t, string(StatusNotGoing), *event.Invitees[0].Status)
	})

	t.Run("Going then Not Going removes the attendee record", func(t *testing.T) {
		f, id := setup(t)
		require.NoError(t, f.svc.RespondAttendee(ctx, id, f.userB, string(StatusGoing)))
		require.NoError(t, f.svc.RespondAttendee(ctx, id, f.userB, string(StatusNotGoing)))

		event := f.event(t, id)
		assert.Empty(t, event.Attendees)
		assert.Equal(t, string(StatusNotGoing), *event.Invitees[0].Status)
		// Invitee record survives as response history.
		assert.Len(t, event.Invitees, 1)
	})

	t.Run("Maybe updates an existing attendee record in place", func(t *testing.T) {
		f, id := setup(t)
		require.NoError(t, f.svc.RespondAttendee(ctx, id, f.userB, string(StatusGoing)))
		require.NoError(t, f.svc.RespondAttendee(ctx, id, f.userB, string(StatusMaybe)))

		event := f.event(t, id)
		require.Len(t, event.Attendees, 1)
		assert.Equal(t, string(StatusMaybe), *event.Attendees[0].Status)
	})

	t.Run("email-only invitee can respond before registering", func(t *testing.T) {
		f := newFixture(t)
		id := f.createEvent(t, "Dinner")
		_, err := f.svc.InviteAttendees(ctx, id, f.organizer, []string{"ghost@x.com"})
		require.NoError(t, err)

		ghost := Identity{ID: uuid.New(), Email: "GHOST@x.com"}
		require.NoError(t, f.svc.RespondAttendee(ctx, id, ghost, string(StatusGoing)))

		event := f.event(t, id)
		require.Len(t, event.Attendees, 1)
		assert.Equal(t, string(StatusGoing), *event.Invitees[0].Status)
	})
}

func TestService_RespondCollaborator(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, uuid.UUID) {
		f := newFixture(t)
		id := f.createEvent(t, "Workshop")
		_, err := f.svc.InviteCollaborators(ctx, id, f.organizer, []string{"d@x.com"})
		require.NoError(t, err)
		return f, id
	}

	t.Run("rejects invalid status", func(t *testing.T) {
		f, id := setup(t)
		err := f.svc.RespondCollaborator(ctx, id, f.userD, "Going")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("uninvited responder forbidden", func(t *testing.T) {
		f, id := setup(t)
		err := f.svc.RespondCollaborator(ctx, id, f.userC, string(StatusYes))
		assert.ErrorIs(t, err, ErrNotInvitedToCollaborate)
	})

	t.Run("Yes moves the invitee into collaborators", func(t *testing.T) {
		f, id := setup(t)
		require.NoError(t, f.svc.RespondCollaborator(ctx, id, f.userD, string(StatusYes)))

		event := f.event(t, id)
		assert.Empty(t, event.CollaboratorInvitees)
		require.Len(t, event.Collaborators, 1)
		assert.Equal(t, f.userD.ID, *event.Collaborators[0].User)
	})

	t.Run("No removes the invitation without creating a collaborator", func(t *testing.T) {
		f, id := setup(t)
		require.NoError(t, f.svc.RespondCollaborator(ctx, id, f.userD, string(StatusNo)))

		event := f.event(t, id)
		assert.Empty(t, event.CollaboratorInvitees)
		assert.Empty(t, event.Collaborators)
	})

	t.Run("Yes then No removes entirely, not back to invitees", func(t *testing.T) {
		f, id := setup(t)
		require.NoError(t, f.svc.RespondCollaborator(ctx, id, f.userD, string(StatusYes)))
		require.NoError(t, f.svc.RespondCollaborator(ctx, id, f.userD, string(StatusNo)))

		event := f.event(t, id)
		assert.Empty(t, event.Collaborators)
		assert.Empty(t, event.CollaboratorInvitees)
	})

	t.Run("re-confirming via the collaborator path is a no-op removal", func(t *testing.T) {
		f, id := setup(t)
		require.NoError(t, f.svc.RespondCollaborator(ctx, id, f.userD, string(StatusYes)))
		// No pending invitation remains; a second Yes must not fail or
		// disturb other records.
		require.NoError(t, f.svc.RespondCollaborator(ctx, id, f.userD, string(StatusYes)))

		event := f.event(t, id)
		require.Len(t, event.Collaborators, 1)
		assert.Empty(t, event.CollaboratorInvitees)
	})
}

func TestService_ListEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Requester B holds a different role in each fixture event.
	organized := f.createEvent(t, "B organizes")
	f.event(t, organized).OrganizerID = f.userB.ID

	invited := f.createEvent(t, "B invited")
	f.event(t, invited).Invitees = Roster{newInviteeRecord(&auth.User{ID: f.userB.ID, Email: f.userB.Email}, f.userB.Email)}

	attending := f.createEvent(t, "B attending")
	f.event(t, attending).Attendees = Roster{newAttendeeRecord(f.userB, string(StatusGoing))}

	collaborating := f.createEvent(t, "B collaborating")
	f.event(t, collaborating).Collaborators = Roster{newCollaboratorRecord(f.userB, string(StatusYes))}

	pending := f.createEvent(t, "B pending collaborator")
	f.event(t, pending).CollaboratorInvitees = Roster{newCollaboratorInviteeRecord(&auth.User{ID: f.userB.ID, Email: f.userB.Email}, f.userB.Email)}

	// An event B has nothing to do with.
	f.createEvent(t, "Unrelated")

	titles := func(resp *ListEventsResponse) []string {
		var out []string
		for _, ev := range resp.Events {
			out = append(out, ev.Title)
		}
		return out
	}

	t.Run("organizer filter returns only organized events", func(t *testing.T) {
		resp, err := f.svc.List(ctx, f.userB, &ListEventsQuery{Role: FilterOrganizer})
		require.NoError(t, err)
		assert.Equal(t, []string{"B organizes"}, titles(resp))
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("all filter returns every membership", func(t *testing.T) {
		resp, err := f.svc.List(ctx, f.userB, &ListEventsQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"B organizes", "B invited", "B attending", "B collaborating", "B pending collaborator",
		}, titles(resp))
	})

	t.Run("specific role filters narrow to one list", func(t *testing.T) {
		resp, err := f.svc.List(ctx, f.userB, &ListEventsQuery{Role: FilterCollaborator})
		require.NoError(t, err)
		assert.Equal(t, []string{"B collaborating"}, titles(resp))
	})

	t.Run("text search matches titles", func(t *testing.T) {
		resp, err := f.svc.List(ctx, f.userB, &ListEventsQuery{Q: "pending"})
		require.NoError(t, err)
		assert.Equal(t, []string{"B pending collaborator"}, titles(resp))
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := f.svc.List(ctx, f.userB, &ListEventsQuery{Role: "owner"})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestService_RosterListings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.createEvent(t, "Review")
	event := f.event(t, id)
	event.Attendees = Roster{newAttendeeRecord(f.userB, string(StatusGoing))}
	event.Collaborators = Roster{newCollaboratorRecord(f.userD, string(StatusYes))}

	t.Run("collaborator may list attendees", func(t *testing.T) {
		resp, err := f.svc.ListAttendees(ctx, id, f.userD)
		require.NoError(t, err)
		require.Len(t, resp.Records, 1)
		require.NotNil(t, resp.Records[0].User)
		assert.Equal(t, "B", resp.Records[0].User.Name)
	})

	t.Run("attendee may not list attendees", func(t *testing.T) {
		_, err := f.svc.ListAttendees(ctx, id, f.userB)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("only organizer may list collaborators", func(t *testing.T) {
		resp, err := f.svc.ListCollaborators(ctx, id, f.organizer)
		require.NoError(t, err)
		assert.Len(t, resp.Records, 1)

		_, err = f.svc.ListCollaborators(ctx, id, f.userD)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing event reports not found", func(t *testing.T) {
		_, err := f.svc.ListAttendees(ctx, uuid.New(), f.organizer)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestService_AttendeeScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// A creates an event and invites B and C.
	id := f.createEvent(t, "Quarterly review")
	_, err := f.svc.InviteAttendees(ctx, id, f.organizer, []string{"b@x.com", "c@x.com"})
	require.NoError(t, err)

	event := f.event(t, id)
	require.Len(t, event.Invitees, 2)
	assert.Nil(t, event.Invitees[0].Status)
	assert.Nil(t, event.Invitees[1].Status)

	// B responds Going.
	require.NoError(t, f.svc.RespondAttendee(ctx, id, f.userB, string(StatusGoing)))
	event = f.event(t, id)
	require.Len(t, event.Attendees, 1)
	assert.Equal(t, f.userB.ID, *event.Attendees[0].User)
	assert.Equal(t, string(StatusGoing), *event.Invitees[0].Status)

	// C responds Not Going.
	require.NoError(t, f.svc.RespondAttendee(ctx, id, f.userC, string(StatusNotGoing)))
	event = f.event(t, id)
	require.Len(t, event.Attendees, 1)
	assert.Equal(t, f.userB.ID, *event.Attendees[0].User)
	assert.Equal(t, string(StatusNotGoing), *event.Invitees[1].Status)
}

func TestService_CollaboratorScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// A invites D to collaborate; D accepts.
	id := f.createEvent(t, "Hack week")
	_, err := f.svc.InviteCollaborators(ctx, id, f.organizer, []string{"d@x.com"})
	require.NoError(t, err)
	require.NoError(t, f.svc.RespondCollaborator(ctx, id, f.userD, string(StatusYes)))

	event := f.event(t, id)
	assert.Empty(t, event.CollaboratorInvitees)
	require.Len(t, event.Collaborators, 1)

	// D, now a collaborator, may invite attendees.
	_, err = f.svc.InviteAttendees(ctx, id, f.userD, []string{"e@x.com"})
	require.NoError(t, err)
	assert.Len(t, f.event(t, id).Invitees, 1)

	// But D may not invite collaborators.
	_, err = f.svc.InviteCollaborators(ctx, id, f.userD, []string{"f@x.com"})
	assert.ErrorIs(t, err, ErrForbidden)
}
