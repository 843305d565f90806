// Package memory is an in-process Store used by tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/store"
)

// Store keeps users and events in maps guarded by a single mutex
type Store struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
	events  map[uuid.UUID]models.Event
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates an empty Store
func New() *Store {
	return &Store{
		users:   make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
		events:  make(map[uuid.UUID]models.Event),
		now:     time.Now,
	}
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return store.ErrDuplicateEmail
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := s.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	s.users[u.ID] = *u
	s.byEmail[key] = u.ID
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string, withPassword bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.users[id]
	if !withPassword {
		u.PasswordHash = ""
	}
	return &u, nil
}

func (s *Store) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

func (s *Store) FindUsersByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			u.PasswordHash = ""
			out = append(out, u)
		}
	}
	return out, nil
}

// copyEvent detaches the attendee slice from the stored value
func copyEvent(e models.Event) *models.Event {
	e.Attendees = append([]uuid.UUID(nil), e.Attendees...)
	return &e
}

func (s *Store) ListEvents(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Event, 0)
	for _, e := range s.events {
		if filter.Matches(e.Date) {
			matched = append(matched, *copyEvent(e))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date.Equal(matched[j].Date) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].Date.Before(matched[j].Date)
	})

	if filter.Skip > 0 {
		if filter.Skip >= len(matched) {
			return []models.Event{}, nil
		}
		matched = matched[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *Store) GetEvent(_ context.Context, id uuid.UUID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyEvent(e), nil
}

func (s *Store) CreateEvent(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := s.now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.Attendees == nil {
		e.Attendees = []uuid.UUID{}
	}
	s.events[e.ID] = *copyEvent(*e)
	return nil
}

func (s *Store) UpdateEvent(_ context.Context, id uuid.UUID, fields models.EventFields) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	e.Apply(fields)
	e.UpdatedAt = s.now().UTC()
	s.events[id] = e
	return copyEvent(e), nil
}

func (s *Store) DeleteEvent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *Store) AddAttendee(_ context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if e.HasAttendee(userID) {
		return copyEvent(e), nil
	}
	if len(e.Attendees) >= e.MaxAttendees {
		return nil, store.ErrCapacityExceeded
	}
	e.Attendees = append(append([]uuid.UUID(nil), e.Attendees...), userID)
	e.UpdatedAt = s.now().UTC()
	s.events[eventID] = e
	return copyEvent(e), nil
}

func (s *Store) RemoveAttendee(_ context.Context, eventID, userID uuid.UUID) (*models.Event, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, false, store.ErrNotFound
	}
	kept := make([]uuid.UUID, 0, len(e.Attendees))
	removed := false
	for _, id := range e.Attendees {
		if id == userID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if removed {
		e.Attendees = kept
		e.UpdatedAt = s.now().UTC()
		s.events[eventID] = e
	}
	return copyEvent(e), removed, nil
}
