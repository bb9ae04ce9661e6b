package entities

import "time"

// Guild is a configuration for a guild.
type Guild struct {
	// ID is the ID of the guild.
	ID string `json:"id" bson:"id"`

	// Ticketing is the ticketing configuration.
	Ticketing TicketingConfig `json:"ticketing" bson:"ticketing"`
}

// TicketingConfig is the ticketing configuration of a guild.
type TicketingConfig struct {
	// LogsChannelID is the ID of the channel ticket transcripts are sent to.
	LogsChannelID string `json:"logs_channel_id" bson:"logs_channel_id"`

	// PanelChannelID is the ID of the channel the ticket panel was sent to.
	PanelChannelID string `json:"panel_channel_id" bson:"panel_channel_id"`

	// PanelMessageID is the ID of the ticket panel message.
	PanelMessageID string `json:"panel_message_id" bson:"panel_message_id"`
}

// TicketingUpdate is a partial ticketing configuration update. Nil fields are left unchanged.
type TicketingUpdate struct {
	LogsChannelID  *string
	PanelChannelID *string
	PanelMessageID *string
}

// Apply applies the update to c.
func (u *TicketingUpdate) Apply(c *TicketingConfig) {
	if u == nil {
		return
	}
	if u.LogsChannelID != nil {
		c.LogsChannelID = *u.LogsChannelID
	}
	if u.PanelChannelID != nil {
		c.PanelChannelID = *u.PanelChannelID
	}
	if u.PanelMessageID != nil {
		c.PanelMessageID = *u.PanelMessageID
	}
}

// PanelBinding is the location of the last ticket panel sent in a guild.
type PanelBinding struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the channel the panel was sent to.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// MessageID is the ID of the panel message.
	MessageID string `json:"message_id" bson:"message_id"`

	// UpdatedAt is the time the binding was last written.
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
