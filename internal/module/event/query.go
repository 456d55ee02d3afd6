package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/server/internal/utils/pagination"
)

// RoleFilter values accepted on the listing endpoint.
const (
	FilterAll                 = "all"
	FilterOrganizer           = "organizer"
	FilterAttendee            = "attendee"
	FilterInvitee             = "invitee"
	FilterCollaborator        = "collaborator"
	FilterCollaboratorInvitee = "collaborator-invitee"
)

// sortColumns whitelists the sortable fields and maps them to columns.
var sortColumns = map[string]string{
	"date":       "date",
	"title":      "title",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// roleColumns maps a role filter to the roster column it narrows to.
var roleColumns = map[string]string{
	FilterAttendee:            "attendees",
	FilterInvitee:             "invitees",
	FilterCollaborator:        "collaborators",
	FilterCollaboratorInvitee: "collaborator_invitees",
}

// ListEventsQuery carries the listing parameters: a role filter, optional
// free-text search, optional date bounds, sorting and pagination.
type ListEventsQuery struct {
	pagination.Pagination

	Q         string `form:"q"`
	Role      string `form:"role"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	SortBy    string `form:"sortBy"`
	Order     string `form:"order"`

	// Parsed by Normalize.
	StartTime *time.Time `form:"-"`
	EndTime   *time.Time `form:"-"`
}

// Normalize applies defaults, validates enums, clamps pagination and
// parses the date bounds. Must be called before the query reaches the
// repository.
func (q *ListEventsQuery) Normalize() error {
	if q.Role == "" {
		q.Role = FilterAll
	}
	if q.Role != FilterAll && q.Role != FilterOrganizer {
		if _, ok := roleColumns[q.Role]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidRole, q.Role)
		}
	}

	if q.SortBy == "" {
		q.SortBy = "date"
	}
	if _, ok := sortColumns[q.SortBy]; !ok {
		q.SortBy = "date"
	}

	switch strings.ToLower(q.Order) {
	case "":
		q.Order = "asc"
	case "asc", "desc":
		q.Order = strings.ToLower(q.Order)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrder, q.Order)
	}

	q.Pagination.Normalize()

	if q.StartDate != "" {
		t, err := parseDate(q.StartDate)
		if err != nil {
			return fmt.Errorf("%w: startDate %q", ErrInvalidDate, q.StartDate)
		}
		q.StartTime = &t
	}
	if q.EndDate != "" {
		t, err := parseDate(q.EndDate)
		if err != nil {
			return fmt.Errorf("%w: endDate %q", ErrInvalidDate, q.EndDate)
		}
		q.EndTime = &t
	}

	return nil
}

// SortClause returns the ORDER BY clause for the normalized query.
func (q *ListEventsQuery) SortClause() string {
	return sortColumns[q.SortBy] + " " + q.Order
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
