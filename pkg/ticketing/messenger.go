package ticketing

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/panel"
)

// Messenger is the Discord surface the controller uses.
type Messenger interface {
	panel.Publisher

	// Respond responds to an interaction.
	Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error

	// CreateChannel creates a channel in a guild.
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// DeleteChannel deletes a channel.
	DeleteChannel(channelID string) error

	// SendMessage sends a message to a channel.
	SendMessage(channelID string, m *discordgo.MessageSend) (*discordgo.Message, error)

	// EditMessage edits a message.
	EditMessage(m *discordgo.MessageEdit) error

	// SendDirect sends a direct message to a user.
	SendDirect(userID string, m *discordgo.MessageSend) error

	// History returns up to limit of the most recent messages of a channel, newest first.
	History(channelID string, limit int) ([]*discordgo.Message, error)

	// Members returns the members of a guild.
	Members(guildID string) ([]*discordgo.Member, error)
}
