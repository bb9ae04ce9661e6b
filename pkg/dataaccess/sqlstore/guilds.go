package sqlstore

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetGuildSettings(ctx context.Context, guildID string) (*entities.Guild, error) {
	defer monitoring.ObserveSql(dalName, "get_guild_settings", tableGuilds)()

	row := new(guildRow)
	err := s.db.WithContext(ctx).Where("guild_id = ?", guildID).First(row).Error
	if isNotFound(err) {
		return &entities.Guild{ID: guildID}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return row.toEntity(), nil
}

func (s *Store) UpdateGuildSettings(ctx context.Context, guildID string, upd *entities.TicketingUpdate) error {
	defer monitoring.ObserveSql(dalName, "update_guild_settings", tableGuilds)()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &guildRow{GuildID: guildID}
		err := tx.Where("guild_id = ?", guildID).First(row).Error
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("error getting guild: %w", err)
		}

		guild := row.toEntity()
		upd.Apply(&guild.Ticketing)
		row.LogsChannelID = guild.Ticketing.LogsChannelID
		row.PanelChannelID = guild.Ticketing.PanelChannelID
		row.PanelMessageID = guild.Ticketing.PanelMessageID

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
			return fmt.Errorf("error updating guild: %w", err)
		}
		return nil
	})
}

func (s *Store) SetPanelBinding(ctx context.Context, binding *entities.PanelBinding) error {
	defer monitoring.ObserveSql(dalName, "set_panel_binding", tableBindings)()

	binding.UpdatedAt = s.clock.Now()
	row := &panelBindingRow{
		GuildID:   binding.GuildID,
		ChannelID: binding.ChannelID,
		MessageID: binding.MessageID,
		UpdatedAt: binding.UpdatedAt,
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
		return fmt.Errorf("error saving panel binding: %w", err)
	}
	return nil
}

func (s *Store) GetPanelBinding(ctx context.Context, guildID string) (*entities.PanelBinding, error) {
	defer monitoring.ObserveSql(dalName, "get_panel_binding", tableBindings)()

	row := new(panelBindingRow)
	err := s.db.WithContext(ctx).Where("guild_id = ?", guildID).First(row).Error
	if isNotFound(err) {
		return nil, dataaccess.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting panel binding: %w", err)
	}
	return row.toEntity(), nil
}
