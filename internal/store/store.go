// Package store defines persistence contracts for users and events.
// Backends live in the memory, postgres and mongo subpackages.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"ATRAX_BACK-END/internal/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrCapacityExceeded = errors.New("event is at capacity")
)

// UserStore persists user records. Implementations never hash passwords;
// callers pass an already hashed value.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	// FindUserByEmail loads the password hash only when withPassword is set.
	FindUserByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindUsersByIDs returns the users that exist, in no particular order.
	FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

// EventStore persists events and their attendee sets.
type EventStore interface {
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
	// UpdateEvent replaces the editable fields and returns the stored event.
	UpdateEvent(ctx context.Context, id uuid.UUID, fields models.EventFields) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	// AddAttendee adds userID to the attendee set only while the set is
	// smaller than the capacity. The check and the write are atomic.
	// Adding an existing member succeeds without change.
	AddAttendee(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error)
	// RemoveAttendee removes userID from the set and reports whether it was present.
	RemoveAttendee(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, bool, error)
}

// Store bundles both stores over one backend.
type Store interface {
	UserStore
	EventStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
