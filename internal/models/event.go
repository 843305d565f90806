package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents an event with a creator and a set of attendees
type Event struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Date         time.Time   `json:"date" db:"date"`
	Location     string      `json:"location" db:"location"`
	MaxAttendees int         `json:"maxAttendees" db:"max_attendees"`
	CreatorID    uuid.UUID   `json:"creator" db:"creator_id"`
	Attendees    []uuid.UUID `json:"attendees"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

// EventFields are the creator-editable fields. Updates replace all of them.
type EventFields struct {
	Title        string
	Description  string
	Date         time.Time
	Location     string
	MaxAttendees int
}

// Apply overwrites the editable fields of e
func (e *Event) Apply(f EventFields) {
	e.Title = f.Title
	e.Description = f.Description
	e.Date = f.Date
	e.Location = f.Location
	e.MaxAttendees = f.MaxAttendees
}

// HasAttendee reports whether userID is in the attendee set
func (e *Event) HasAttendee(userID uuid.UUID) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// EventFilter narrows and pages an event listing. Zero bounds are open;
// a non-positive Limit means no limit.
type EventFilter struct {
	From  *time.Time
	To    *time.Time
	Skip  int
	Limit int
}

// Matches reports whether date falls inside the inclusive bounds of f
func (f EventFilter) Matches(date time.Time) bool {
	if f.From != nil && date.Before(*f.From) {
		return false
	}
	if f.To != nil && date.After(*f.To) {
		return false
	}
	return true
}

// PopulatedEvent is an event with its creator and attendees resolved to user summaries
type PopulatedEvent struct {
	Event
	Creator       *UserSummary
	AttendeeUsers []UserSummary
}
