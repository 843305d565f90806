// Package mongo implements store.Store on MongoDB. Attendee sets are arrays
// on the event document, updated with $addToSet and $pull.
package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"ATRAX_BACK-END/internal/config"
	"ATRAX_BACK-END/internal/store"
)

const (
	usersCollection  = "users"
	eventsCollection = "events"
)

// Store is the MongoDB store
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	events *mongo.Collection
	log    logrus.FieldLogger
}

var _ store.Store = (*Store)(nil)

// New connects to MongoDB, pings the primary and ensures indexes
func New(ctx context.Context, cfg config.MongoConfig, logger logrus.FieldLogger) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetAppName("atrax-backend"))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client: client,
		users:  db.Collection(usersCollection),
		events: db.Collection(eventsCollection),
		log:    logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	logger.WithField("database", cfg.Database).Info("connected to MongoDB")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "emailKey", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	}); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	if _, err := s.events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetName("events_date")},
		{Keys: bson.D{{Key: "creator", Value: 1}}, Options: options.Index().SetName("events_creator")},
	}); err != nil {
		return fmt.Errorf("create events indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
