package redirect

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no redirect matches a lookup.
var ErrNotFound = errors.New("redirect not found")

// ErrDuplicateSource is returned when a create or update would collide with
// an existing record's normalized source.
var ErrDuplicateSource = errors.New("redirect source already exists")

// CreateData holds the fields for a new redirect. StatusCode zero means the
// default (301).
type CreateData struct {
	Source      string
	Destination string
	StatusCode  int
}

// UpdateData holds a partial update; nil fields are left untouched.
type UpdateData struct {
	Source      *string
	Destination *string
	StatusCode  *int
}

// Repository defines the storage contract for redirect records. Both the
// file-backed and database-backed stores implement it.
type Repository interface {
	// All returns every record, newest first by creation time. Backend read
	// failures degrade to an empty slice rather than an error.
	All(ctx context.Context) ([]Record, error)

	// Find returns the record matching the given path: an exact match on the
	// normalized source wins over any wildcard match, regardless of record
	// order. Returns ErrNotFound when nothing matches.
	Find(ctx context.Context, source string) (*Record, error)

	// Store persists a new record with a fresh id and timestamps. The source
	// is normalized before persistence.
	Store(ctx context.Context, data CreateData) (*Record, error)

	// Update merges the provided fields over an existing record and bumps
	// updated_at. Returns ErrNotFound when the id does not exist.
	Update(ctx context.Context, id string, data UpdateData) (*Record, error)

	// Delete removes a record, reporting whether it existed. Missing ids are
	// not an error.
	Delete(ctx context.Context, id string) (bool, error)

	// Exists reports whether any record other than excludeID has the given
	// normalized source. Pass an empty excludeID to check all records.
	Exists(ctx context.Context, source, excludeID string) (bool, error)
}
