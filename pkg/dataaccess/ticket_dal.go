package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ticketDalName = "ticket_dal"

// ticketDocument is a ticket as stored in MongoDB. The action log is embedded so every
// guarded state change and its log entry are written by a single update.
type ticketDocument struct {
	entities.Ticket `bson:",inline"`

	Actions []*entities.ActionLogEntry `bson:"actions"`
}

type counterDocument struct {
	GuildID string `bson:"_id"`
	Seq     int    `bson:"seq"`
}

type ticketDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database

	// clock is the source of ticket timestamps.
	clock clock.Clock
}

// withoutActions leaves the embedded action log out of ticket reads.
var withoutActions = bson.M{"actions": 0, "_id": 0}

func (d *ticketDal) CreateTicket(ctx context.Context, guildID, ownerID, categoryName string) (*entities.Ticket, error) {
	defer monitoring.ObserveMongo(ticketDalName, "create_ticket", mongoDatabase, collectionTickets)()

	n, err := d.db.Collection(collectionCategories).CountDocuments(ctx, bson.M{"guild_id": guildID, "name": categoryName})
	if err != nil {
		return nil, fmt.Errorf("error checking category: %w", err)
	} else if n == 0 {
		return nil, ErrCategoryMissing
	}

	id, err := d.nextTicketID(ctx, guildID)
	if err != nil {
		return nil, err
	}

	now := d.clock.Now()
	doc := &ticketDocument{
		Ticket: entities.Ticket{
			ID:             id,
			GuildID:        guildID,
			OwnerID:        ownerID,
			Category:       categoryName,
			Status:         entities.StatusOpen,
			CreatedAt:      now,
			LastActivityAt: now,
		},
		Actions: []*entities.ActionLogEntry{{
			GuildID:    guildID,
			TicketID:   id,
			Action:     entities.ActionOpen,
			ExecutorID: ownerID,
			Timestamp:  now,
		}},
	}

	if _, err := d.db.Collection(collectionTickets).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("error inserting ticket: %w", err)
	}

	// The category may have been removed between the check and the insert.
	n, err = d.db.Collection(collectionCategories).CountDocuments(ctx, bson.M{"guild_id": guildID, "name": categoryName})
	if err != nil {
		return nil, fmt.Errorf("error checking category: %w", err)
	} else if n == 0 {
		if _, err := d.db.Collection(collectionTickets).DeleteOne(ctx, bson.M{"guild_id": guildID, "id": id}); err != nil {
			return nil, fmt.Errorf("error removing ticket of missing category: %w", err)
		}
		return nil, ErrCategoryMissing
	}

	t := doc.Ticket
	return &t, nil
}

// nextTicketID allocates the next ticket number of a guild.
func (d *ticketDal) nextTicketID(ctx context.Context, guildID string) (int, error) {
	defer monitoring.ObserveMongo(ticketDalName, "next_ticket_id", mongoDatabase, collectionCounters)()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	counter := new(counterDocument)
	err := d.db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": guildID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(counter)
	if err != nil {
		return 0, fmt.Errorf("error incrementing ticket counter: %w", err)
	}
	return counter.Seq, nil
}

func (d *ticketDal) AttachChannel(ctx context.Context, guildID string, ticketID int, channelID string) error {
	defer monitoring.ObserveMongo(ticketDalName, "attach_channel", mongoDatabase, collectionTickets)()

	res, err := d.db.Collection(collectionTickets).UpdateOne(ctx,
		bson.M{"guild_id": guildID, "id": ticketID, "channel_id": ""},
		bson.M{"$set": bson.M{"channel_id": channelID}},
	)
	if err != nil {
		return fmt.Errorf("error attaching channel: %w", err)
	} else if res.MatchedCount > 0 {
		return nil
	}

	n, err := d.db.Collection(collectionTickets).CountDocuments(ctx, bson.M{"guild_id": guildID, "id": ticketID})
	if err != nil {
		return fmt.Errorf("error checking ticket: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return ErrChannelAlreadyBound
}

func (d *ticketDal) AbandonTicket(ctx context.Context, guildID string, ticketID int, executorID string) (bool, error) {
	defer monitoring.ObserveMongo(ticketDalName, "abandon_ticket", mongoDatabase, collectionTickets)()

	now := d.clock.Now()
	entry := &entities.ActionLogEntry{
		GuildID:    guildID,
		TicketID:   ticketID,
		Action:     entities.ActionClose,
		ExecutorID: executorID,
		Timestamp:  now,
	}

	res, err := d.db.Collection(collectionTickets).UpdateOne(ctx,
		bson.M{
			"guild_id":   guildID,
			"id":         ticketID,
			"channel_id": "",
			"status":     bson.M{"$ne": entities.StatusClosed},
		},
		bson.M{
			"$set": bson.M{
				"status":           entities.StatusClosed,
				"closed_at":        now,
				"last_activity_at": now,
			},
			"$push": bson.M{"actions": entry},
		},
	)
	if err != nil {
		return false, fmt.Errorf("error abandoning ticket: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (d *ticketDal) SetWelcomeMessage(ctx context.Context, channelID, messageID string) error {
	defer monitoring.ObserveMongo(ticketDalName, "set_welcome_message", mongoDatabase, collectionTickets)()

	if channelID == "" {
		return ErrNotFound
	}

	res, err := d.db.Collection(collectionTickets).UpdateOne(ctx,
		bson.M{"channel_id": channelID},
		bson.M{"$set": bson.M{"welcome_message_id": messageID}},
	)
	if err != nil {
		return fmt.Errorf("error setting welcome message: %w", err)
	} else if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *ticketDal) AssignTicket(ctx context.Context, a *Assignment) (bool, error) {
	defer monitoring.ObserveMongo(ticketDalName, "assign_ticket", mongoDatabase, collectionTickets)()

	ticket, err := d.GetByChannel(ctx, a.ChannelID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	now := d.clock.Now()
	entry := a.Entry(ticket)
	entry.Timestamp = now

	// The filter is the guard: the ticket must still be open and held by the expected claimer.
	res, err := d.db.Collection(collectionTickets).UpdateOne(ctx,
		bson.M{
			"guild_id":   ticket.GuildID,
			"id":         ticket.ID,
			"status":     bson.M{"$ne": entities.StatusClosed},
			"claimed_by": a.ExpectedClaimer,
		},
		bson.M{
			"$set": bson.M{
				"claimed_by":       a.ClaimerID,
				"status":           entities.StatusClaimed,
				"last_activity_at": now,
			},
			"$push": bson.M{"actions": entry},
		},
	)
	if err != nil {
		return false, fmt.Errorf("error assigning ticket: %w", err)
	}

	if res.MatchedCount == 0 {
		d.l.Debug("Ticket assignment lost",
			slog.String(logging.KeyChannel, a.ChannelID),
			slog.String(logging.KeyUser, a.ExecutorID),
		)
		return false, nil
	}
	return true, nil
}

func (d *ticketDal) CloseTicket(ctx context.Context, channelID, executorID string) (bool, error) {
	defer monitoring.ObserveMongo(ticketDalName, "close_ticket", mongoDatabase, collectionTickets)()

	ticket, err := d.GetByChannel(ctx, channelID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	now := d.clock.Now()
	entry := &entities.ActionLogEntry{
		GuildID:    ticket.GuildID,
		TicketID:   ticket.ID,
		Action:     entities.ActionClose,
		ExecutorID: executorID,
		Timestamp:  now,
	}

	res, err := d.db.Collection(collectionTickets).UpdateOne(ctx,
		bson.M{
			"guild_id": ticket.GuildID,
			"id":       ticket.ID,
			"status":   bson.M{"$ne": entities.StatusClosed},
		},
		bson.M{
			"$set": bson.M{
				"status":           entities.StatusClosed,
				"closed_at":        now,
				"last_activity_at": now,
			},
			"$push": bson.M{"actions": entry},
		},
	)
	if err != nil {
		return false, fmt.Errorf("error closing ticket: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (d *ticketDal) GetByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	defer monitoring.ObserveMongo(ticketDalName, "get_by_channel", mongoDatabase, collectionTickets)()

	if channelID == "" {
		return nil, ErrNotFound
	}

	opts := options.FindOne().SetProjection(withoutActions)
	ticket := new(entities.Ticket)
	err := d.db.Collection(collectionTickets).FindOne(ctx, bson.M{"channel_id": channelID}, opts).Decode(ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return ticket, nil
}

func (d *ticketDal) GetOpenTicket(ctx context.Context, guildID, ownerID, categoryName string) (*entities.Ticket, error) {
	defer monitoring.ObserveMongo(ticketDalName, "get_open_ticket", mongoDatabase, collectionTickets)()

	opts := options.FindOne().
		SetProjection(withoutActions).
		SetSort(bson.D{{Key: "id", Value: -1}})

	ticket := new(entities.Ticket)
	err := d.db.Collection(collectionTickets).FindOne(ctx, bson.M{
		"guild_id":   guildID,
		"owner_id":   ownerID,
		"category":   categoryName,
		"status":     bson.M{"$ne": entities.StatusClosed},
		"channel_id": bson.M{"$ne": ""},
	}, opts).Decode(ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting open ticket: %w", err)
	}
	return ticket, nil
}

func (d *ticketDal) ListTickets(ctx context.Context, guildID string) ([]*entities.Ticket, error) {
	defer monitoring.ObserveMongo(ticketDalName, "list_tickets", mongoDatabase, collectionTickets)()

	opts := options.Find().
		SetProjection(withoutActions).
		SetSort(bson.D{{Key: "id", Value: 1}})

	cur, err := d.db.Collection(collectionTickets).Find(ctx, bson.M{"guild_id": guildID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}

	tickets := make([]*entities.Ticket, 0)
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("error decoding tickets: %w", err)
	}
	return tickets, nil
}

func (d *ticketDal) ListActions(ctx context.Context, guildID string) ([]*entities.ActionLogEntry, error) {
	defer monitoring.ObserveMongo(ticketDalName, "list_actions", mongoDatabase, collectionTickets)()

	return d.aggregateActions(ctx, bson.M{"guild_id": guildID})
}

func (d *ticketDal) TicketActions(ctx context.Context, guildID string, ticketID int) ([]*entities.ActionLogEntry, error) {
	defer monitoring.ObserveMongo(ticketDalName, "ticket_actions", mongoDatabase, collectionTickets)()

	return d.aggregateActions(ctx, bson.M{"guild_id": guildID, "id": ticketID})
}

func (d *ticketDal) aggregateActions(ctx context.Context, match bson.M) ([]*entities.ActionLogEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$unwind", Value: "$actions"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$actions"}}},
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: 1}, {Key: "ticket_id", Value: 1}}}},
	}

	cur, err := d.db.Collection(collectionTickets).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating actions: %w", err)
	}

	actions := make([]*entities.ActionLogEntry, 0)
	if err := cur.All(ctx, &actions); err != nil {
		return nil, fmt.Errorf("error decoding actions: %w", err)
	}
	return actions, nil
}
