// Package storetest holds behaviour checks shared by every store.Store backend.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/store"
)

// Run exercises s. Records use fresh ids and emails so a shared database can be reused.
func Run(t *testing.T, s store.Store) {
	t.Helper()

	t.Run("duplicate email", func(t *testing.T) { testDuplicateEmail(t, s) })
	t.Run("password projection", func(t *testing.T) { testPasswordProjection(t, s) })
	t.Run("event lifecycle", func(t *testing.T) { testEventLifecycle(t, s) })
	t.Run("capacity", func(t *testing.T) { testCapacity(t, s) })
	t.Run("concurrent registration", func(t *testing.T) { testConcurrentRegistration(t, s) })
	t.Run("date range", func(t *testing.T) { testDateRange(t, s) })
}

func newUser(t *testing.T, s store.Store) *models.User {
	t.Helper()
	u := &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "Test User",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func newEvent(t *testing.T, s store.Store, creator uuid.UUID, date time.Time, capacity int) *models.Event {
	t.Helper()
	e := &models.Event{
		Title:        "Event " + uuid.NewString()[:8],
		Date:         date,
		MaxAttendees: capacity,
		CreatorID:    creator,
	}
	require.NoError(t, s.CreateEvent(context.Background(), e))
	return e
}

func testDuplicateEmail(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s)

	err := s.CreateUser(ctx, &models.User{Email: u.Email, PasswordHash: "x", FullName: "Other"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	got, err := s.FindUserByEmail(ctx, u.Email, false)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Test User", got.FullName)
}

func testPasswordProjection(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s)

	got, err := s.FindUserByEmail(ctx, u.Email, false)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)

	got, err = s.FindUserByEmail(ctx, u.Email, true)
	require.NoError(t, err)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)

	byID, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.PasswordHash)

	many, err := s.FindUsersByIDs(ctx, []uuid.UUID{u.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, many, 1)
	assert.Empty(t, many[0].PasswordHash)
}

func testEventLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	creator := newUser(t, s)
	e := newEvent(t, s, creator.ID, time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC), 10)

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Title, got.Title)
	assert.Equal(t, creator.ID, got.CreatorID)
	assert.Empty(t, got.Attendees)

	newDate := time.Date(2030, 6, 1, 18, 0, 0, 0, time.UTC)
	updated, err := s.UpdateEvent(ctx, e.ID, models.EventFields{Title: "Renamed", Date: newDate, MaxAttendees: 3})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Empty(t, updated.Location)
	assert.True(t, newDate.Equal(updated.Date))
	assert.Equal(t, creator.ID, updated.CreatorID)

	require.NoError(t, s.DeleteEvent(ctx, e.ID))
	_, err = s.GetEvent(ctx, e.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteEvent(ctx, e.ID), store.ErrNotFound)
}

func testCapacity(t *testing.T, s store.Store) {
	ctx := context.Background()
	creator := newUser(t, s)
	a, b := newUser(t, s), newUser(t, s)
	e := newEvent(t, s, creator.ID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	got, err := s.AddAttendee(ctx, e.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, got.Attendees)

	got, err = s.AddAttendee(ctx, e.ID, a.ID)
	require.NoError(t, err, "re-registering a member is idempotent")
	assert.Len(t, got.Attendees, 1)

	_, err = s.AddAttendee(ctx, e.ID, b.ID)
	assert.ErrorIs(t, err, store.ErrCapacityExceeded)

	got, removed, err := s.RemoveAttendee(ctx, e.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, got.Attendees)

	got, err = s.AddAttendee(ctx, e.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, got.Attendees)

	_, removed, err = s.RemoveAttendee(ctx, e.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.AddAttendee(ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, _, err = s.RemoveAttendee(ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testConcurrentRegistration(t *testing.T, s store.Store) {
	ctx := context.Background()
	creator := newUser(t, s)
	const capacity, contenders = 3, 12
	e := newEvent(t, s, creator.ID, time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC), capacity)

	users := make([]*models.User, contenders)
	for i := range users {
		users[i] = newUser(t, s)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, full int
	for _, u := range users {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := s.AddAttendee(ctx, e.ID, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, store.ErrCapacityExceeded):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(u.ID)
	}
	wg.Wait()

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, got.Attendees, capacity)
	assert.Equal(t, capacity, ok)
	assert.Equal(t, contenders-capacity, full)
}

func testDateRange(t *testing.T, s store.Store) {
	ctx := context.Background()
	creator := newUser(t, s)
	// a year no other subtest uses keeps the range query isolated
	inside := []time.Time{
		time.Date(2091, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2091, 12, 31, 23, 0, 0, 0, time.UTC),
	}
	outside := []time.Time{
		time.Date(2090, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2092, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range append(append([]time.Time{}, inside...), outside...) {
		e := newEvent(t, s, creator.ID, d, 5)
		t.Cleanup(func() { _ = s.DeleteEvent(context.Background(), e.ID) })
	}

	from := time.Date(2091, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2091, 12, 31, 23, 59, 59, 999999999, time.UTC)
	got, err := s.ListEvents(ctx, models.EventFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, inside[0].Equal(got[0].Date))
	assert.True(t, inside[1].Equal(got[1].Date))

	page, err := s.ListEvents(ctx, models.EventFilter{From: &from, To: &to, Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, inside[1].Equal(page[0].Date))
}
