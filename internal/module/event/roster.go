package event

import (
	"strings"

	"github.com/gatherly/server/internal/module/auth"
)

// Roster is an ordered list of role records for one membership slot.
// Lookup helpers are pure; absence is -1, never an error.
type Roster []RoleRecord

// Find returns the index of the record matching the identity. Records
// carrying a user id match on the id; records without one match on a
// case-insensitive comparison against the identity's email.
func (r Roster) Find(identity Identity) int {
	for i, rec := range r {
		if rec.User != nil {
			if *rec.User == identity.ID {
				return i
			}
			continue
		}
		if rec.Email != "" && strings.EqualFold(rec.Email, identity.Email) {
			return i
		}
	}
	return -1
}

// Contains reports whether the identity appears in the roster.
func (r Roster) Contains(identity Identity) bool {
	return r.Find(identity) >= 0
}

// FindByEmail returns the index of the record matching a candidate email,
// either directly or through the account the email resolves to. Used for
// invitation dedup, where the responder identity is not yet known.
func (r Roster) FindByEmail(email string, account *auth.User) int {
	for i, rec := range r {
		if rec.Email != "" && strings.EqualFold(rec.Email, email) {
			return i
		}
		if rec.User != nil && account != nil && *rec.User == account.ID {
			return i
		}
	}
	return -1
}

// Remove splices out the record at index i, preserving order. Out of
// range indices are a no-op.
func (r Roster) Remove(i int) Roster {
	if i < 0 || i >= len(r) {
		return r
	}
	return append(r[:i], r[i+1:]...)
}
