package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/notify"
)

func TestCreateValidatesAndPopulatesCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	_, err := f.events.Create(ctx, owner.ID, models.EventFields{Date: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = f.events.Create(ctx, owner.ID, models.EventFields{Title: "x", MaxAttendees: 1})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	ev, err := f.events.Create(ctx, owner.ID, fields("Meetup", 3))
	require.NoError(t, err)
	require.NotNil(t, ev.Creator)
	assert.Equal(t, owner.ID, ev.Creator.ID)
	assert.Equal(t, "owner@example.com", ev.Creator.Email)
	assert.Empty(t, ev.AttendeeUsers)
}

func TestGetMissingEventReturnsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.events.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNonCreatorCannotUpdateOrDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, other := f.user(t, "owner"), f.user(t, "other")

	ev, err := f.events.Create(ctx, owner.ID, fields("Original", 5))
	require.NoError(t, err)

	_, err = f.events.Update(ctx, ev.ID, other.ID, fields("Hijacked", 50))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = f.events.Delete(ctx, ev.ID, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	got, err := f.events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, 5, got.MaxAttendees)
}

func TestUpdateReplacesFieldsAndNotifiesAttendees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, a, b := f.user(t, "owner"), f.user(t, "a"), f.user(t, "b")

	ev, err := f.events.Create(ctx, owner.ID, fields("Talk", 5))
	require.NoError(t, err)
	_, err = f.events.Register(ctx, ev.ID, a.ID)
	require.NoError(t, err)
	_, err = f.events.Register(ctx, ev.ID, b.ID)
	require.NoError(t, err)
	f.notifier.take()

	replacement := models.EventFields{Title: "Talk v2", Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), MaxAttendees: 10}
	got, err := f.events.Update(ctx, ev.ID, owner.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, "Talk v2", got.Title)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Location)
	assert.Len(t, got.AttendeeUsers, 2)

	msgs := f.notifier.take()
	require.Len(t, msgs, 2)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, []string{msgs[0].To, msgs[1].To})
	assert.Equal(t, []string{notify.SubjectUpdated, notify.SubjectUpdated}, subjects(msgs))
}

func TestUpdateWithoutAttendeesSendsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	ev, err := f.events.Create(ctx, owner.ID, fields("Solo", 2))
	require.NoError(t, err)
	_, err = f.events.Update(ctx, ev.ID, owner.ID, fields("Solo 2", 2))
	require.NoError(t, err)
	assert.Empty(t, f.notifier.take())

	_, err = f.events.Update(ctx, uuid.New(), owner.ID, fields("x", 1))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteNotifiesPriorAttendees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, a := f.user(t, "owner"), f.user(t, "a")

	ev, err := f.events.Create(ctx, owner.ID, fields("Party", 5))
	require.NoError(t, err)
	_, err = f.events.Register(ctx, ev.ID, a.ID)
	require.NoError(t, err)
	f.notifier.take()

	require.NoError(t, f.events.Delete(ctx, ev.ID, owner.ID))

	_, err = f.events.Get(ctx, ev.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	msgs := f.notifier.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.SubjectCancelled, msgs[0].Subject)
	assert.Equal(t, "a@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].Text, "Party")

	assert.ErrorIs(t, f.events.Delete(ctx, ev.ID, owner.ID), apperrors.ErrNotFound)
}

func TestRegisterNotifiesRegistrantAndCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, a := f.user(t, "owner"), f.user(t, "a")

	ev, err := f.events.Create(ctx, owner.ID, fields("Workshop", 2))
	require.NoError(t, err)

	attendees, err := f.events.Register(ctx, ev.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, a.Summary(), attendees[0])

	msgs := f.notifier.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a@example.com", msgs[0].To)
	assert.Equal(t, "owner@example.com", msgs[1].To)
	assert.Equal(t, []string{notify.SubjectRegistration, notify.SubjectRegistration}, subjects(msgs))
	assert.Contains(t, msgs[1].Text, "a registered for Workshop event")

	_, err = f.events.Register(ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCapacityScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, a, b := f.user(t, "owner"), f.user(t, "a"), f.user(t, "b")

	ev, err := f.events.Create(ctx, owner.ID, fields("Tiny", 1))
	require.NoError(t, err)

	attendees, err := f.events.Register(ctx, ev.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, attendees, 1)

	_, err = f.events.Register(ctx, ev.ID, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	attendees, err = f.events.Unregister(ctx, ev.ID, a.ID)
	require.NoError(t, err)
	assert.Empty(t, attendees)

	attendees, err = f.events.Register(ctx, ev.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, b.ID, attendees[0].ID)

	got, err := f.events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, got.Attendees, 1)
}

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, a, b := f.user(t, "owner"), f.user(t, "a"), f.user(t, "b")

	ev, err := f.events.Create(ctx, owner.ID, fields("Round", 5))
	require.NoError(t, err)
	_, err = f.events.Register(ctx, ev.ID, a.ID)
	require.NoError(t, err)

	before, err := f.events.Get(ctx, ev.ID)
	require.NoError(t, err)

	_, err = f.events.Register(ctx, ev.ID, b.ID)
	require.NoError(t, err)
	_, err = f.events.Unregister(ctx, ev.ID, b.ID)
	require.NoError(t, err)

	after, err := f.events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Attendees, after.Attendees)
}

func TestUnregisterNonMemberSendsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, a := f.user(t, "owner"), f.user(t, "a")

	ev, err := f.events.Create(ctx, owner.ID, fields("Quiet", 5))
	require.NoError(t, err)
	f.notifier.take()

	attendees, err := f.events.Unregister(ctx, ev.ID, a.ID)
	require.NoError(t, err)
	assert.Empty(t, attendees)
	assert.Empty(t, f.notifier.take())

	_, err = f.events.Register(ctx, ev.ID, a.ID)
	require.NoError(t, err)
	f.notifier.take()
	_, err = f.events.Unregister(ctx, ev.ID, a.ID)
	require.NoError(t, err)

	msgs := f.notifier.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.SubjectUnregistration, msgs[0].Subject)

	_, err = f.events.Unregister(ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListFiltersByInclusiveRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	dates := []time.Time{
		time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		fl := fields("E", 1)
		fl.Date = d
		fl.Title = d.Format(time.RFC3339)
		_, err := f.events.Create(ctx, owner.ID, fl)
		require.NoError(t, err, i)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC)
	got, err := f.events.List(ctx, models.EventFilter{From: &from, To: &to, Skip: -3})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, dates[1].Equal(got[0].Date))
	assert.True(t, dates[2].Equal(got[1].Date))
	for _, e := range got {
		require.NotNil(t, e.Creator)
		assert.Equal(t, owner.ID, e.Creator.ID)
	}
}
