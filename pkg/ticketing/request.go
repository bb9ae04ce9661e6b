package ticketing

import (
	"errors"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/permissions"
)

// ErrNotInGuild is returned for interactions outside a guild.
var ErrNotInGuild = errors.New("interaction is not in a guild")

// Request is an interaction decoded once at the boundary.
type Request struct {
	Interaction *discordgo.Interaction
	GuildID     string
	ChannelID   string
	Actor       permissions.Actor

	// Action is the component action. It is KindUnknown for commands.
	Action interactions.Action

	// Values are the selected values of a select menu.
	Values []string
}

// NewRequest decodes an interaction.
func NewRequest(i *discordgo.InteractionCreate) (*Request, error) {
	if i == nil || i.Interaction == nil {
		return nil, errors.New("interaction is nil")
	}
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return nil, ErrNotInGuild
	}

	r := &Request{
		Interaction: i.Interaction,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		Actor: permissions.Actor{
			ID:            i.Member.User.ID,
			RoleIDs:       i.Member.Roles,
			Administrator: i.Member.Permissions&discordgo.PermissionAdministrator != 0,
		},
	}

	if i.Type == discordgo.InteractionMessageComponent {
		data := i.MessageComponentData()
		r.Action, _ = interactions.Decode(data.CustomID)
		r.Values = data.Values
	}
	return r, nil
}
