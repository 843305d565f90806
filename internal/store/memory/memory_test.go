package memory

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
	"ATRAX_BACK-END/internal/store/storetest"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "a@example.com", PasswordHash: "h", FullName: "A"}))
	err := s.CreateUser(ctx, &models.User{Email: "A@Example.com ", PasswordHash: "h2", FullName: "A2"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	u, err := s.FindUserByEmail(ctx, "a@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "A", u.FullName)
	assert.Equal(t, "h", u.PasswordHash)
}

func TestFindUserByEmail_OmitsPasswordByDefault(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "a@example.com", PasswordHash: "h", FullName: "A"}))

	u, err := s.FindUserByEmail(ctx, "a@example.com", false)
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)

	_, err = s.FindUserByEmail(ctx, "missing@example.com", false)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListEvents_FilterAndPaging(t *testing.T) {
	ctx := context.Background()
	s := New()
	creator := uuid.New()
	for _, d := range []time.Time{day(2023, 12, 31), day(2024, 1, 1), day(2024, 6, 1), day(2024, 12, 31), day(2025, 1, 1)} {
		require.NoError(t, s.CreateEvent(ctx, &models.Event{Title: d.Format("2006-01-02"), Date: d, CreatorID: creator}))
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	got, err := s.ListEvents(ctx, models.EventFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-01", got[0].Title)
	assert.Equal(t, "2024-12-31", got[2].Title)

	got, err = s.ListEvents(ctx, models.EventFilter{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", got[0].Title)

	got, err = s.ListEvents(ctx, models.EventFilter{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAddAttendee_CapacityAndIdempotence(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := &models.Event{Title: "t", MaxAttendees: 1, CreatorID: uuid.New()}
	require.NoError(t, s.CreateEvent(ctx, e))

	a, b := uuid.New(), uuid.New()
	got, err := s.AddAttendee(ctx, e.ID, a)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, got.Attendees)

	got, err = s.AddAttendee(ctx, e.ID, a)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, got.Attendees)

	_, err = s.AddAttendee(ctx, e.ID, b)
	assert.ErrorIs(t, err, store.ErrCapacityExceeded)

	_, err = s.AddAttendee(ctx, uuid.New(), b)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddAttendee_ConcurrentNeverExceedsCapacity(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := &models.Event{Title: "t", MaxAttendees: 5, CreatorID: uuid.New()}
	require.NoError(t, s.CreateEvent(ctx, e))

	var wg sync.WaitGroup
	var mu sync.Mutex
	full := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddAttendee(ctx, e.ID, uuid.New())
			if errors.Is(err, store.ErrCapacityExceeded) {
				mu.Lock()
				full++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, got.Attendees, 5)
	assert.Equal(t, 45, full)
}

func TestRemoveAttendee(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := &models.Event{Title: "t", MaxAttendees: 3, CreatorID: uuid.New()}
	require.NoError(t, s.CreateEvent(ctx, e))
	a := uuid.New()
	_, err := s.AddAttendee(ctx, e.ID, a)
	require.NoError(t, err)

	got, removed, err := s.RemoveAttendee(ctx, e.ID, a)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, got.Attendees)

	_, removed, err = s.RemoveAttendee(ctx, e.ID, a)
	require.NoError(t, err)
	assert.False(t, removed)

	_, _, err = s.RemoveAttendee(ctx, uuid.New(), a)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := &models.Event{Title: "old", Location: "here", MaxAttendees: 3, CreatorID: uuid.New()}
	require.NoError(t, s.CreateEvent(ctx, e))

	got, err := s.UpdateEvent(ctx, e.ID, models.EventFields{Title: "new", MaxAttendees: 4})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Empty(t, got.Location)
	assert.Equal(t, e.CreatorID, got.CreatorID)

	require.NoError(t, s.DeleteEvent(ctx, e.ID))
	assert.ErrorIs(t, s.DeleteEvent(ctx, e.ID), store.ErrNotFound)
	_, err = s.UpdateEvent(ctx, e.ID, models.EventFields{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, New())
}
