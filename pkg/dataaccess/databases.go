package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoDatabase = "warden"

const (
	collectionGuilds        = "guilds"
	collectionCategories    = "categories"
	collectionTickets       = "tickets"
	collectionCounters      = "ticket_counters"
	collectionPanelBindings = "panel_bindings"
)

// MongoStore is the MongoDB implementation of Store.
type MongoStore struct {
	*guildDal
	*categoryDal
	*ticketDal

	// client is the database.
	client *mongo.Client
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates a store on the given client and ensures the indexes the store relies on.
func NewMongoStore(ctx context.Context, l *slog.Logger, client *mongo.Client, clk clock.Clock) (*MongoStore, error) {
	if client == nil {
		return nil, fmt.Errorf("mongo client is nil")
	}
	if clk == nil {
		clk = clock.Real()
	}

	db := client.Database(mongoDatabase)
	s := &MongoStore{
		guildDal: &guildDal{
			l:     l.With(slog.String(logging.KeyDal, guildDalName)),
			db:    db,
			clock: clk,
		},
		categoryDal: &categoryDal{
			l:     l.With(slog.String(logging.KeyDal, categoryDalName)),
			db:    db,
			clock: clk,
		},
		ticketDal: &ticketDal{
			l:     l.With(slog.String(logging.KeyDal, ticketDalName)),
			db:    db,
			clock: clk,
		},
		client: client,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("error ensuring indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	db := s.client.Database(mongoDatabase)

	indexes := map[string][]mongo.IndexModel{
		collectionGuilds: {
			{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		collectionCategories: {
			// Category names are unique per guild. Concurrent creates race on this index.
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		collectionTickets: {
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "channel_id", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "owner_id", Value: 1}, {Key: "category", Value: 1}},
			},
		},
		collectionPanelBindings: {
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Ping checks the connection to MongoDB.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
