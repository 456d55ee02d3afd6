package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gatherly/server/internal/module/auth"
)

// Repository defines the interface for event storage.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	// List returns the page of events visible to the requester under the
	// query's role filter, plus a total count ignoring pagination.
	List(ctx context.Context, requester Identity, query *ListEventsQuery) ([]*Event, int64, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, event *Event) error
}

// UserDirectory resolves emails and ids to registered accounts.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*auth.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*auth.User, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new event repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, requester Identity, query *ListEventsQuery) ([]*Event, int64, error) {
	base := r.db.WithContext(ctx).Model(&Event{})
	base = applyFilter(base, requester, query)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []*Event
	err := base.Session(&gorm.Session{}).
		Order(query.SortClause()).
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *repository) Save(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) Delete(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Delete(event).Error
}

// applyFilter translates the normalized query into one conjunction of
// role membership, text search and date bounds.
func applyFilter(db *gorm.DB, requester Identity, query *ListEventsQuery) *gorm.DB {
	member := membershipPayload(requester.ID)

	switch query.Role {
	case FilterOrganizer:
		db = db.Where("organizer_id = ?", requester.ID)
	case FilterAll, "":
		db = db.Where(
			"(organizer_id = ? OR invitees @> ?::jsonb OR attendees @> ?::jsonb OR collaborator_invitees @> ?::jsonb OR collaborators @> ?::jsonb)",
			requester.ID, member, member, member, member,
		)
	default:
		db = db.Where(fmt.Sprintf("%s @> ?::jsonb", roleColumns[query.Role]), member)
	}

	if query.Q != "" {
		pattern := "%" + query.Q + "%"
		db = db.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	if query.StartTime != nil {
		db = db.Where("date >= ?", *query.StartTime)
	}
	if query.EndTime != nil {
		db = db.Where("date <= ?", *query.EndTime)
	}

	return db
}

// membershipPayload builds the JSONB containment document matching any
// role record carrying the given user id.
func membershipPayload(id uuid.UUID) string {
	return fmt.Sprintf(`[{"user":%q}]`, id.String())
}
