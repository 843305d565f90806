package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/notify"
	"ATRAX_BACK-END/internal/store"
)

const eventNotFound = "Event not found"

// EventService applies ownership and capacity rules to events
type EventService struct {
	events   store.EventStore
	users    store.UserStore
	notifier notify.Notifier
	log      logrus.FieldLogger
}

func NewEventService(events store.EventStore, users store.UserStore, notifier notify.Notifier, logger logrus.FieldLogger) *EventService {
	return &EventService{events: events, users: users, notifier: notifier, log: logger}
}

// ValidateFields checks the fields required on create and update.
func ValidateFields(f models.EventFields) error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return apperrors.Validation("Title is required")
	case f.Date.IsZero():
		return apperrors.Validation("Date is required")
	case f.MaxAttendees < 1:
		return apperrors.Validation("maxAttendees must be at least 1")
	}
	return nil
}

// List returns events in the filter window, creators populated.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.PopulatedEvent, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	events, err := s.events.ListEvents(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	creatorIDs := make([]uuid.UUID, 0, len(events))
	seen := make(map[uuid.UUID]struct{}, len(events))
	for _, e := range events {
		if _, ok := seen[e.CreatorID]; !ok {
			seen[e.CreatorID] = struct{}{}
			creatorIDs = append(creatorIDs, e.CreatorID)
		}
	}
	users, err := s.summaries(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedEvent, 0, len(events))
	for _, e := range events {
		p := models.PopulatedEvent{Event: e}
		if u, ok := users[e.CreatorID]; ok {
			p.Creator = &u
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns one event with its creator and attendees populated.
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*models.PopulatedEvent, error) {
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return nil, storeError(err, eventNotFound)
	}
	return s.populate(ctx, event)
}

// Create stores a new event owned by creatorID.
func (s *EventService) Create(ctx context.Context, creatorID uuid.UUID, fields models.EventFields) (*models.PopulatedEvent, error) {
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}
	event := &models.Event{CreatorID: creatorID}
	event.Apply(fields)
	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"event_id": event.ID, "creator_id": creatorID}).Info("event created")
	return s.populate(ctx, event)
}

// Update replaces the editable fields. Only the creator may update; every
// attendee is told about the change.
func (s *EventService) Update(ctx context.Context, id, requesterID uuid.UUID, fields models.EventFields) (*models.PopulatedEvent, error) {
	if _, err := s.owned(ctx, id, requesterID, "You are not allowed to update this event"); err != nil {
		return nil, err
	}
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}

	event, err := s.events.UpdateEvent(ctx, id, fields)
	if err != nil {
		return nil, storeError(err, eventNotFound)
	}

	populated, err := s.populate(ctx, event)
	if err != nil {
		return nil, err
	}
	s.notifier.Enqueue(notify.EventUpdated(emails(populated.AttendeeUsers), event.Title)...)
	s.log.WithField("event_id", id).Info("event updated")
	return populated, nil
}

// Delete removes an event owned by requesterID, then tells its former attendees.
func (s *EventService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	event, err := s.owned(ctx, id, requesterID, "You are not allowed to delete this event")
	if err != nil {
		return err
	}
	attendees, err := s.attendees(ctx, event)
	if err != nil {
		return err
	}

	if err := s.events.DeleteEvent(ctx, id); err != nil {
		return storeError(err, eventNotFound)
	}

	s.notifier.Enqueue(notify.EventCancelled(emails(attendees), event.Title)...)
	s.log.WithField("event_id", id).Info("event deleted")
	return nil
}

// Register adds userID to the attendee set while capacity remains and
// returns the resulting attendees. The registrant and the creator are notified.
func (s *EventService) Register(ctx context.Context, id, userID uuid.UUID) ([]models.UserSummary, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}

	event, err := s.events.AddAttendee(ctx, id, userID)
	if err != nil {
		return nil, storeError(err, eventNotFound)
	}

	attendees, err := s.attendees(ctx, event)
	if err != nil {
		return nil, err
	}

	msgs := []notify.Message{notify.RegistrationConfirmed(user.Email, user.FullName, event.Title)}
	if creator, err := s.users.FindUserByID(ctx, event.CreatorID); err == nil {
		msgs = append(msgs, notify.RegistrationReceived(creator.Email, creator.FullName, user.FullName, event.Title))
	} else {
		s.log.WithError(err).WithField("event_id", id).Warn("creator lookup failed; skipping creator notification")
	}
	s.notifier.Enqueue(msgs...)

	s.log.WithFields(logrus.Fields{"event_id": id, "user_id": userID}).Info("attendee registered")
	return attendees, nil
}

// Unregister removes userID from the attendee set. Removing a non-member is
// a no-op and sends nothing.
func (s *EventService) Unregister(ctx context.Context, id, userID uuid.UUID) ([]models.UserSummary, error) {
	event, removed, err := s.events.RemoveAttendee(ctx, id, userID)
	if err != nil {
		return nil, storeError(err, eventNotFound)
	}

	attendees, err := s.attendees(ctx, event)
	if err != nil {
		return nil, err
	}

	if removed {
		if user, err := s.users.FindUserByID(ctx, userID); err == nil {
			s.notifier.Enqueue(notify.Unregistered(user.Email, user.FullName, event.Title))
		} else {
			s.log.WithError(err).WithField("user_id", userID).Warn("user lookup failed; skipping unregistration notice")
		}
		s.log.WithFields(logrus.Fields{"event_id": id, "user_id": userID}).Info("attendee unregistered")
	}
	return attendees, nil
}

// owned loads the event and checks that requesterID created it.
func (s *EventService) owned(ctx context.Context, id, requesterID uuid.UUID, forbidden string) (*models.Event, error) {
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return nil, storeError(err, eventNotFound)
	}
	if event.CreatorID != requesterID {
		return nil, apperrors.Forbidden(forbidden)
	}
	return event, nil
}

func (s *EventService) populate(ctx context.Context, event *models.Event) (*models.PopulatedEvent, error) {
	ids := append([]uuid.UUID{event.CreatorID}, event.Attendees...)
	users, err := s.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	p := &models.PopulatedEvent{Event: *event, AttendeeUsers: ordered(event.Attendees, users)}
	if u, ok := users[event.CreatorID]; ok {
		p.Creator = &u
	}
	return p, nil
}

func (s *EventService) attendees(ctx context.Context, event *models.Event) ([]models.UserSummary, error) {
	users, err := s.summaries(ctx, event.Attendees)
	if err != nil {
		return nil, err
	}
	return ordered(event.Attendees, users), nil
}

func (s *EventService) summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error) {
	out := make(map[uuid.UUID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

// ordered keeps the attendee order of ids and drops users that no longer exist.
func ordered(ids []uuid.UUID, users map[uuid.UUID]models.UserSummary) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func emails(users []models.UserSummary) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			out = append(out, u.Email)
		}
	}
	return out
}
