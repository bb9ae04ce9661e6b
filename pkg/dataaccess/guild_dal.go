package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const guildDalName = "guild_dal"

type guildDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database

	// clock is the source of time for bindings.
	clock clock.Clock
}

// GetGuildSettings gets a guild by ID.
func (g *guildDal) GetGuildSettings(ctx context.Context, guildID string) (*entities.Guild, error) {
	defer monitoring.ObserveMongo(guildDalName, "get_guild_settings", mongoDatabase, collectionGuilds)()

	guild := new(entities.Guild)
	err := g.db.Collection(collectionGuilds).FindOne(ctx, bson.M{"id": guildID}).Decode(guild)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &entities.Guild{ID: guildID}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return guild, nil
}

func (g *guildDal) UpdateGuildSettings(ctx context.Context, guildID string, upd *entities.TicketingUpdate) error {
	defer monitoring.ObserveMongo(guildDalName, "update_guild_settings", mongoDatabase, collectionGuilds)()

	set := bson.M{"id": guildID}
	if upd != nil {
		if upd.LogsChannelID != nil {
			set["ticketing.logs_channel_id"] = *upd.LogsChannelID
		}
		if upd.PanelChannelID != nil {
			set["ticketing.panel_channel_id"] = *upd.PanelChannelID
		}
		if upd.PanelMessageID != nil {
			set["ticketing.panel_message_id"] = *upd.PanelMessageID
		}
	}

	opts := options.Update().SetUpsert(true)
	if _, err := g.db.Collection(collectionGuilds).UpdateOne(ctx, bson.M{"id": guildID}, bson.M{"$set": set}, opts); err != nil {
		return fmt.Errorf("error updating guild: %w", err)
	}
	return nil
}

func (g *guildDal) SetPanelBinding(ctx context.Context, binding *entities.PanelBinding) error {
	defer monitoring.ObserveMongo(guildDalName, "set_panel_binding", mongoDatabase, collectionPanelBindings)()

	binding.UpdatedAt = g.clock.Now()

	opts := options.Update().SetUpsert(true)
	_, err := g.db.Collection(collectionPanelBindings).UpdateOne(ctx,
		bson.M{"guild_id": binding.GuildID},
		bson.M{"$set": binding},
		opts,
	)
	if err != nil {
		return fmt.Errorf("error saving panel binding: %w", err)
	}
	return nil
}

func (g *guildDal) GetPanelBinding(ctx context.Context, guildID string) (*entities.PanelBinding, error) {
	defer monitoring.ObserveMongo(guildDalName, "get_panel_binding", mongoDatabase, collectionPanelBindings)()

	binding := new(entities.PanelBinding)
	err := g.db.Collection(collectionPanelBindings).FindOne(ctx, bson.M{"guild_id": guildID}).Decode(binding)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting panel binding: %w", err)
	}
	return binding, nil
}
