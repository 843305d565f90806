package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/store"
)

type eventDoc struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Date         time.Time `bson:"date"`
	Location     string    `bson:"location"`
	MaxAttendees int       `bson:"maxAttendees"`
	Creator      string    `bson:"creator"`
	Attendees    []string  `bson:"attendees"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d eventDoc) model() (*models.Event, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse event id %q: %w", d.ID, err)
	}
	creator, err := uuid.Parse(d.Creator)
	if err != nil {
		return nil, fmt.Errorf("parse creator id %q: %w", d.Creator, err)
	}
	attendees := make([]uuid.UUID, 0, len(d.Attendees))
	for _, raw := range d.Attendees {
		a, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse attendee id %q: %w", raw, err)
		}
		attendees = append(attendees, a)
	}
	return &models.Event{
		ID:           id,
		Title:        d.Title,
		Description:  d.Description,
		Date:         d.Date.UTC(),
		Location:     d.Location,
		MaxAttendees: d.MaxAttendees,
		CreatorID:    creator,
		Attendees:    attendees,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

func dateFilter(f models.EventFilter) bson.M {
	filter := bson.M{}
	if f.From != nil || f.To != nil {
		date := bson.M{}
		if f.From != nil {
			date["$gte"] = *f.From
		}
		if f.To != nil {
			date["$lte"] = *f.To
		}
		filter["date"] = date
	}
	return filter
}

func (s *Store) ListEvents(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	if f.Skip > 0 {
		opts.SetSkip(int64(f.Skip))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := s.events.Find(ctx, dateFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]models.Event, 0, len(docs))
	for _, d := range docs {
		e, err := d.model()
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, nil
}

func (s *Store) decodeEvent(res *mongo.SingleResult) (*models.Event, error) {
	var doc eventDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return doc.model()
}

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.decodeEvent(s.events.FindOne(ctx, bson.M{"_id": id.String()}))
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	e.Attendees = []uuid.UUID{}

	_, err := s.events.InsertOne(ctx, eventDoc{
		ID:           e.ID.String(),
		Title:        e.Title,
		Description:  e.Description,
		Date:         e.Date,
		Location:     e.Location,
		MaxAttendees: e.MaxAttendees,
		Creator:      e.CreatorID.String(),
		Attendees:    []string{}, // $size needs an array, not null
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

func (s *Store) UpdateEvent(ctx context.Context, id uuid.UUID, f models.EventFields) (*models.Event, error) {
	update := bson.M{"$set": bson.M{
		"title":        f.Title,
		"description":  f.Description,
		"date":         f.Date,
		"location":     f.Location,
		"maxAttendees": f.MaxAttendees,
		"updatedAt":    time.Now().UTC(),
	}}
	return s.decodeEvent(s.events.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, update, returnAfter))
}

func (s *Store) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	res, err := s.events.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddAttendee matches the event only when the user is already a member or
// the attendee array is below capacity, so the check and $addToSet are one
// atomic document update.
func (s *Store) AddAttendee(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	uid := userID.String()
	filter := bson.M{
		"_id": eventID.String(),
		"$or": bson.A{
			bson.M{"attendees": uid},
			bson.M{"$expr": bson.M{"$lt": bson.A{bson.M{"$size": "$attendees"}, "$maxAttendees"}}},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{"attendees": uid},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	e, err := s.decodeEvent(s.events.FindOneAndUpdate(ctx, filter, update, returnAfter))
	if !errors.Is(err, store.ErrNotFound) {
		return e, err
	}

	// no match: either the event is missing or it is full
	n, err := s.events.CountDocuments(ctx, bson.M{"_id": eventID.String()})
	if err != nil {
		return nil, fmt.Errorf("count event: %w", err)
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}
	return nil, store.ErrCapacityExceeded
}

func (s *Store) RemoveAttendee(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, bool, error) {
	uid := userID.String()
	filter := bson.M{"_id": eventID.String(), "attendees": uid}
	update := bson.M{
		"$pull": bson.M{"attendees": uid},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	e, err := s.decodeEvent(s.events.FindOneAndUpdate(ctx, filter, update, returnAfter))
	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	// not a member, or no such event
	e, err = s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	return e, false, nil
}
