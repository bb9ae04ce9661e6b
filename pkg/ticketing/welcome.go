package ticketing

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/messages"
)

const (
	// claimEmoji is the emoji of the claim button. (Ticket)
	claimEmoji = "\U0001F3AB"

	// transferEmoji is the emoji of the transfer button. (Arrows)
	transferEmoji = "\U0001F501"

	// closeEmoji is the emoji of the close button. (Padlock)
	closeEmoji = "\U0001F510"
)

const (
	colorOpen    = 0x57F287
	colorClaimed = 0xFEE75C
	colorClosed  = 0xED4245
)

// ticketControls are the buttons of the welcome message. Claiming is disabled once the ticket is
// claimed and everything is disabled once it is closed.
func ticketControls(t *entities.Ticket) []discordgo.MessageComponent {
	closed := t.IsClosed()
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Claim",
					Style:    discordgo.SuccessButton,
					Disabled: closed || t.IsClaimed(),
					Emoji:    discordgo.ComponentEmoji{Name: claimEmoji},
					CustomID: interactions.Plain(interactions.KindClaim).MustEncode(),
				},
				discordgo.Button{
					Label:    "Transfer",
					Style:    discordgo.SecondaryButton,
					Disabled: closed,
					Emoji:    discordgo.ComponentEmoji{Name: transferEmoji},
					CustomID: interactions.Plain(interactions.KindTransfer).MustEncode(),
				},
				discordgo.Button{
					Label:    "Close",
					Style:    discordgo.DangerButton,
					Disabled: closed,
					Emoji:    discordgo.ComponentEmoji{Name: closeEmoji},
					CustomID: interactions.Plain(interactions.KindClose).MustEncode(),
				},
			},
		},
	}
}

func welcomeEmbed(t *entities.Ticket) *discordgo.MessageEmbed {
	claimer := messages.Unclaimed
	if t.IsClaimed() {
		claimer = mention(t.ClaimedBy)
	}

	color := colorOpen
	switch t.Status {
	case entities.StatusClaimed:
		color = colorClaimed
	case entities.StatusClosed:
		color = colorClosed
	}

	return &discordgo.MessageEmbed{
		Title:       t.Name(),
		Description: messages.WelcomeDescription,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Category", Value: t.Category, Inline: true},
			{Name: "Owner", Value: mention(t.OwnerID), Inline: true},
			{Name: "Claimed by", Value: claimer, Inline: true},
		},
	}
}

func welcomeContent(t *entities.Ticket, category *entities.Category) string {
	staff := "The staff"
	if category != nil && len(category.RoleIDs) > 0 {
		roles := make([]string, 0, len(category.RoleIDs))
		for _, id := range category.RoleIDs {
			roles = append(roles, fmt.Sprintf("<@&%s>", id))
		}
		staff = strings.Join(roles, " ")
	}
	return fmt.Sprintf(messages.WelcomeContent, mention(t.OwnerID), staff)
}

// welcomeMessage is the first message of a ticket channel.
func welcomeMessage(t *entities.Ticket, category *entities.Category) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:    welcomeContent(t, category),
		Embed:      welcomeEmbed(t),
		Components: ticketControls(t),
	}
}

// welcomeEdit updates the welcome message to the current state of the ticket.
func welcomeEdit(t *entities.Ticket) *discordgo.MessageEdit {
	return &discordgo.MessageEdit{
		Channel:    t.ChannelID,
		ID:         t.WelcomeMessageID,
		Embed:      welcomeEmbed(t),
		Components: ticketControls(t),
	}
}

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
