// Package access holds the flat membership list used as the access-control
// model across files and folders. Membership is binary: a user either is in
// the list or is not. Permission-level distinctions live on FileShare only.
package access

import "github.com/google/uuid"

// List is a denormalized set of user ids stored as a JSON array on the
// owning resource row.
type List []uuid.UUID

func (l List) Contains(userID uuid.UUID) bool {
	for _, id := range l {
		if id == userID {
			return true
		}
	}
	return false
}

// Add returns a list containing userID, without duplicates.
func (l List) Add(userID uuid.UUID) List {
	if l.Contains(userID) {
		return l
	}
	return append(l, userID)
}

// Remove returns a list without userID. Removing an absent id is a no-op.
func (l List) Remove(userID uuid.UUID) List {
	out := make(List, 0, len(l))
	for _, id := range l {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// Clone returns an independent copy so callers can mutate safely.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}
