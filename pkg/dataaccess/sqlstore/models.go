package sqlstore

import (
	"time"

	"github.com/Jacobbrewer1/warden/pkg/entities"
)

type categoryRow struct {
	ID                string           `gorm:"column:id;primaryKey"`
	GuildID           string           `gorm:"column:guild_id;not null;uniqueIndex:idx_categories_guild_name,priority:1"`
	Name              string           `gorm:"column:name;not null;uniqueIndex:idx_categories_guild_name,priority:2"`
	Description       string           `gorm:"column:description;type:text;not null"`
	Emoji             string           `gorm:"column:emoji;type:text;not null"`
	RoleIDs           entities.RoleSet `gorm:"column:role_ids;type:text;not null"`
	TargetContainerID string           `gorm:"column:target_container_id;type:text;not null"`
	CreatedAt         time.Time        `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (categoryRow) TableName() string {
	return "categories"
}

func (r *categoryRow) toEntity() *entities.Category {
	return &entities.Category{
		ID:                r.ID,
		GuildID:           r.GuildID,
		Name:              r.Name,
		Description:       r.Description,
		Emoji:             r.Emoji,
		RoleIDs:           entities.NewRoleSet(r.RoleIDs...),
		TargetContainerID: r.TargetContainerID,
		CreatedAt:         r.CreatedAt.UTC(),
	}
}

type ticketRow struct {
	GuildID          string     `gorm:"column:guild_id;primaryKey"`
	TicketID         int        `gorm:"column:ticket_id;primaryKey;autoIncrement:false"`
	OwnerID          string     `gorm:"column:owner_id;not null;index:idx_tickets_owner_category,priority:1"`
	Category         string     `gorm:"column:category;not null;index:idx_tickets_owner_category,priority:2"`
	ChannelID        string     `gorm:"column:channel_id;not null;index"`
	WelcomeMessageID string     `gorm:"column:welcome_message_id;not null"`
	Status           string     `gorm:"column:status;not null"`
	ClaimedBy        string     `gorm:"column:claimed_by;not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	LastActivityAt   time.Time  `gorm:"column:last_activity_at;not null"`
	ClosedAt         *time.Time `gorm:"column:closed_at"`
}

func (ticketRow) TableName() string {
	return "tickets"
}

func (r *ticketRow) toEntity() *entities.Ticket {
	t := &entities.Ticket{
		ID:               r.TicketID,
		GuildID:          r.GuildID,
		OwnerID:          r.OwnerID,
		Category:         r.Category,
		ChannelID:        r.ChannelID,
		WelcomeMessageID: r.WelcomeMessageID,
		Status:           entities.TicketStatus(r.Status),
		ClaimedBy:        r.ClaimedBy,
		CreatedAt:        r.CreatedAt.UTC(),
		LastActivityAt:   r.LastActivityAt.UTC(),
	}
	if r.ClosedAt != nil {
		closed := r.ClosedAt.UTC()
		t.ClosedAt = &closed
	}
	return t
}

type ticketActionRow struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	GuildID    string    `gorm:"column:guild_id;not null;index:idx_ticket_actions_ticket,priority:1"`
	TicketID   int       `gorm:"column:ticket_id;not null;index:idx_ticket_actions_ticket,priority:2"`
	Type       string    `gorm:"column:type;not null"`
	ExecutorID string    `gorm:"column:executor_id;not null"`
	TargetID   *string   `gorm:"column:target_id"`
	Timestamp  time.Time `gorm:"column:timestamp;not null"`
}

func (ticketActionRow) TableName() string {
	return "ticket_actions"
}

func newActionRow(e *entities.ActionLogEntry) *ticketActionRow {
	row := &ticketActionRow{
		GuildID:    e.GuildID,
		TicketID:   e.TicketID,
		Type:       string(e.Action),
		ExecutorID: e.ExecutorID,
		Timestamp:  e.Timestamp,
	}
	if e.TargetID != "" {
		target := e.TargetID
		row.TargetID = &target
	}
	return row
}

func (r *ticketActionRow) toEntity() *entities.ActionLogEntry {
	e := &entities.ActionLogEntry{
		GuildID:    r.GuildID,
		TicketID:   r.TicketID,
		Action:     entities.Action(r.Type),
		ExecutorID: r.ExecutorID,
		Timestamp:  r.Timestamp.UTC(),
	}
	if r.TargetID != nil {
		e.TargetID = *r.TargetID
	}
	return e
}

type ticketCounterRow struct {
	GuildID string `gorm:"column:guild_id;primaryKey"`
	Seq     int    `gorm:"column:seq;not null"`
}

func (ticketCounterRow) TableName() string {
	return "ticket_counters"
}

type guildRow struct {
	GuildID        string `gorm:"column:guild_id;primaryKey"`
	LogsChannelID  string `gorm:"column:logs_channel_id;not null"`
	PanelChannelID string `gorm:"column:panel_channel_id;not null"`
	PanelMessageID string `gorm:"column:panel_message_id;not null"`
}

func (guildRow) TableName() string {
	return "guilds"
}

func (r *guildRow) toEntity() *entities.Guild {
	return &entities.Guild{
		ID: r.GuildID,
		Ticketing: entities.TicketingConfig{
			LogsChannelID:  r.LogsChannelID,
			PanelChannelID: r.PanelChannelID,
			PanelMessageID: r.PanelMessageID,
		},
	}
}

type panelBindingRow struct {
	GuildID   string    `gorm:"column:guild_id;primaryKey"`
	ChannelID string    `gorm:"column:channel_id;not null"`
	MessageID string    `gorm:"column:message_id;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (panelBindingRow) TableName() string {
	return "panel_bindings"
}

func (r *panelBindingRow) toEntity() *entities.PanelBinding {
	return &entities.PanelBinding{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func models() []any {
	return []any{
		&categoryRow{},
		&ticketRow{},
		&ticketActionRow{},
		&ticketCounterRow{},
		&guildRow{},
		&panelBindingRow{},
	}
}
