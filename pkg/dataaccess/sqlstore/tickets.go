package sqlstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateTicket(ctx context.Context, guildID, ownerID, categoryName string) (*entities.Ticket, error) {
	defer monitoring.ObserveSql(dalName, "create_ticket", tableTickets)()

	var ticket *entities.Ticket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&categoryRow{}).
			Where("guild_id = ? AND name = ?", guildID, categoryName).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("error checking category: %w", err)
		} else if n == 0 {
			return dataaccess.ErrCategoryMissing
		}

		id, err := nextTicketID(tx, guildID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		row := &ticketRow{
			GuildID:        guildID,
			TicketID:       id,
			OwnerID:        ownerID,
			Category:       categoryName,
			Status:         string(entities.StatusOpen),
			CreatedAt:      now,
			LastActivityAt: now,
		}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("error inserting ticket: %w", err)
		}

		entry := newActionRow(&entities.ActionLogEntry{
			GuildID:    guildID,
			TicketID:   id,
			Action:     entities.ActionOpen,
			ExecutorID: ownerID,
			Timestamp:  now,
		})
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("error inserting action: %w", err)
		}

		ticket = row.toEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// nextTicketID allocates the next ticket number of a guild inside tx.
func nextTicketID(tx *gorm.DB, guildID string) (int, error) {
	defer monitoring.ObserveSql(dalName, "next_ticket_id", tableCounters)()

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.Assignments(map[string]any{"seq": gorm.Expr("seq + 1")}),
	}).Create(&ticketCounterRow{GuildID: guildID, Seq: 1}).Error
	if err != nil {
		return 0, fmt.Errorf("error incrementing ticket counter: %w", err)
	}

	counter := new(ticketCounterRow)
	if err := tx.Where("guild_id = ?", guildID).First(counter).Error; err != nil {
		return 0, fmt.Errorf("error reading ticket counter: %w", err)
	}
	return counter.Seq, nil
}

func (s *Store) AttachChannel(ctx context.Context, guildID string, ticketID int, channelID string) error {
	defer monitoring.ObserveSql(dalName, "attach_channel", tableTickets)()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ticketRow{}).
			Where("guild_id = ? AND ticket_id = ? AND channel_id = ''", guildID, ticketID).
			Update("channel_id", channelID)
		if res.Error != nil {
			return fmt.Errorf("error attaching channel: %w", res.Error)
		} else if res.RowsAffected > 0 {
			return nil
		}

		var n int64
		if err := tx.Model(&ticketRow{}).Where("guild_id = ? AND ticket_id = ?", guildID, ticketID).Count(&n).Error; err != nil {
			return fmt.Errorf("error checking ticket: %w", err)
		} else if n == 0 {
			return dataaccess.ErrNotFound
		}
		return dataaccess.ErrChannelAlreadyBound
	})
}

func (s *Store) AbandonTicket(ctx context.Context, guildID string, ticketID int, executorID string) (bool, error) {
	defer monitoring.ObserveSql(dalName, "abandon_ticket", tableTickets)()

	abandoned := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now()
		res := tx.Model(&ticketRow{}).
			Where("guild_id = ? AND ticket_id = ? AND channel_id = '' AND status <> ?",
				guildID, ticketID, string(entities.StatusClosed)).
			Updates(map[string]any{
				"status":           string(entities.StatusClosed),
				"closed_at":        now,
				"last_activity_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("error abandoning ticket: %w", res.Error)
		} else if res.RowsAffected == 0 {
			return nil
		}

		entry := newActionRow(&entities.ActionLogEntry{
			GuildID:    guildID,
			TicketID:   ticketID,
			Action:     entities.ActionClose,
			ExecutorID: executorID,
			Timestamp:  now,
		})
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("error inserting action: %w", err)
		}

		abandoned = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return abandoned, nil
}

func (s *Store) SetWelcomeMessage(ctx context.Context, channelID, messageID string) error {
	defer monitoring.ObserveSql(dalName, "set_welcome_message", tableTickets)()

	if channelID == "" {
		return dataaccess.ErrNotFound
	}

	res := s.db.WithContext(ctx).Model(&ticketRow{}).
		Where("channel_id = ?", channelID).
		Update("welcome_message_id", messageID)
	if res.Error != nil {
		return fmt.Errorf("error setting welcome message: %w", res.Error)
	} else if res.RowsAffected == 0 {
		return dataaccess.ErrNotFound
	}
	return nil
}

func (s *Store) AssignTicket(ctx context.Context, a *dataaccess.Assignment) (bool, error) {
	defer monitoring.ObserveSql(dalName, "assign_ticket", tableTickets)()

	assigned := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := ticketByChannel(tx, a.ChannelID)
		if err != nil || row == nil {
			return err
		}

		now := s.clock.Now()
		res := tx.Model(&ticketRow{}).
			Where("guild_id = ? AND ticket_id = ? AND status <> ? AND claimed_by = ?",
				row.GuildID, row.TicketID, string(entities.StatusClosed), a.ExpectedClaimer).
			Updates(map[string]any{
				"claimed_by":       a.ClaimerID,
				"status":           string(entities.StatusClaimed),
				"last_activity_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("error assigning ticket: %w", res.Error)
		} else if res.RowsAffected == 0 {
			s.l.Debug("Ticket assignment lost",
				slog.String(logging.KeyChannel, a.ChannelID),
				slog.String(logging.KeyUser, a.ExecutorID),
			)
			return nil
		}

		entry := a.Entry(row.toEntity())
		entry.Timestamp = now
		if err := tx.Create(newActionRow(entry)).Error; err != nil {
			return fmt.Errorf("error inserting action: %w", err)
		}

		assigned = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return assigned, nil
}

func (s *Store) CloseTicket(ctx context.Context, channelID, executorID string) (bool, error) {
	defer monitoring.ObserveSql(dalName, "close_ticket", tableTickets)()

	closed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := ticketByChannel(tx, channelID)
		if err != nil || row == nil {
			return err
		}

		now := s.clock.Now()
		res := tx.Model(&ticketRow{}).
			Where("guild_id = ? AND ticket_id = ? AND status <> ?",
				row.GuildID, row.TicketID, string(entities.StatusClosed)).
			Updates(map[string]any{
				"status":           string(entities.StatusClosed),
				"closed_at":        now,
				"last_activity_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("error closing ticket: %w", res.Error)
		} else if res.RowsAffected == 0 {
			return nil
		}

		entry := newActionRow(&entities.ActionLogEntry{
			GuildID:    row.GuildID,
			TicketID:   row.TicketID,
			Action:     entities.ActionClose,
			ExecutorID: executorID,
			Timestamp:  now,
		})
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("error inserting action: %w", err)
		}

		closed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return closed, nil
}

// ticketByChannel returns nil without an error when no ticket is bound to the channel.
func ticketByChannel(db *gorm.DB, channelID string) (*ticketRow, error) {
	if channelID == "" {
		return nil, nil
	}

	row := new(ticketRow)
	err := db.Where("channel_id = ?", channelID).First(row).Error
	if isNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return row, nil
}

func (s *Store) GetByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	defer monitoring.ObserveSql(dalName, "get_by_channel", tableTickets)()

	row, err := ticketByChannel(s.db.WithContext(ctx), channelID)
	if err != nil {
		return nil, err
	} else if row == nil {
		return nil, dataaccess.ErrNotFound
	}
	return row.toEntity(), nil
}

func (s *Store) GetOpenTicket(ctx context.Context, guildID, ownerID, categoryName string) (*entities.Ticket, error) {
	defer monitoring.ObserveSql(dalName, "get_open_ticket", tableTickets)()

	row := new(ticketRow)
	err := s.db.WithContext(ctx).
		Where("guild_id = ? AND owner_id = ? AND category = ? AND status <> ? AND channel_id <> ''",
			guildID, ownerID, categoryName, string(entities.StatusClosed)).
		Order("ticket_id DESC").
		First(row).Error
	if isNotFound(err) {
		return nil, dataaccess.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting open ticket: %w", err)
	}
	return row.toEntity(), nil
}

func (s *Store) ListTickets(ctx context.Context, guildID string) ([]*entities.Ticket, error) {
	defer monitoring.ObserveSql(dalName, "list_tickets", tableTickets)()

	rows := make([]*ticketRow, 0)
	if err := s.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("ticket_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}

	tickets := make([]*entities.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, row.toEntity())
	}
	return tickets, nil
}

func (s *Store) ListActions(ctx context.Context, guildID string) ([]*entities.ActionLogEntry, error) {
	defer monitoring.ObserveSql(dalName, "list_actions", tableActions)()

	return s.actions(s.db.WithContext(ctx).Where("guild_id = ?", guildID))
}

func (s *Store) TicketActions(ctx context.Context, guildID string, ticketID int) ([]*entities.ActionLogEntry, error) {
	defer monitoring.ObserveSql(dalName, "ticket_actions", tableActions)()

	return s.actions(s.db.WithContext(ctx).Where("guild_id = ? AND ticket_id = ?", guildID, ticketID))
}

func (s *Store) actions(q *gorm.DB) ([]*entities.ActionLogEntry, error) {
	rows := make([]*ticketActionRow, 0)
	if err := q.Order("timestamp ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error listing actions: %w", err)
	}

	actions := make([]*entities.ActionLogEntry, 0, len(rows))
	for _, row := range rows {
		actions = append(actions, row.toEntity())
	}
	return actions, nil
}
