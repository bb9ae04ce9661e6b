package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
)

// CreateTicket opens a ticket for the actor in a category: the ticket is stored, its channel is
// created for the owner and the staff roles, and the welcome message is sent.
func (c *Controller) CreateTicket(ctx context.Context, req *Request, categoryName string) error {
	l := c.l.With(
		slog.String(logging.KeyGuild, req.GuildID),
		slog.String(logging.KeyUser, req.Actor.ID),
		slog.String(logging.KeyCategory, categoryName),
	)

	category, err := c.store.GetCategoryByName(ctx, req.GuildID, categoryName)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return c.replyPrivate(req, messages.ErrCategoryMissing)
	} else if err != nil {
		return fmt.Errorf("error getting category: %w", err)
	}

	existing, err := c.store.GetOpenTicket(ctx, req.GuildID, req.Actor.ID, category.Name)
	switch {
	case err == nil && existing.ChannelID != "":
		return c.replyPrivate(req, fmt.Sprintf(messages.ErrOpenTicketExists, existing.ChannelID))
	case err != nil && !errors.Is(err, dataaccess.ErrNotFound):
		return fmt.Errorf("error getting open ticket: %w", err)
	}

	if !c.cooldown.allow(req.Actor.ID, c.clock.Now()) {
		return c.replyPrivate(req, messages.ErrCooldown)
	}

	ticket, err := c.store.CreateTicket(ctx, req.GuildID, req.Actor.ID, category.Name)
	if errors.Is(err, dataaccess.ErrCategoryMissing) {
		// The category was removed after it was read.
		return c.replyPrivate(req, messages.ErrCategoryMissing)
	} else if err != nil {
		return fmt.Errorf("error creating ticket: %w", err)
	}
	l = l.With(slog.Int(logging.KeyTicket, ticket.ID))

	channel, err := c.messenger.CreateChannel(req.GuildID, ticketChannel(ticket, category))
	if err != nil {
		l.Error("Error creating ticket channel", slog.String(logging.KeyError, err.Error()))
		c.abandon(ctx, l, req, ticket)
		return c.replyPrivate(req, messages.ErrTicketProvisioning)
	}

	if err := c.store.AttachChannel(ctx, req.GuildID, ticket.ID, channel.ID); err != nil {
		l.Error("Error attaching channel to ticket, deleting channel",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()),
		)
		if err := c.messenger.DeleteChannel(channel.ID); err != nil {
			l.Error("Error deleting unattached ticket channel",
				slog.String(logging.KeyChannel, channel.ID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
		c.abandon(ctx, l, req, ticket)
		return c.replyPrivate(req, messages.ErrTicketProvisioning)
	}
	ticket.ChannelID = channel.ID

	msg, err := c.messenger.SendMessage(channel.ID, welcomeMessage(ticket, category))
	if err != nil {
		l.Warn("Error sending welcome message", slog.String(logging.KeyError, err.Error()))
	} else if err := c.store.SetWelcomeMessage(ctx, channel.ID, msg.ID); err != nil {
		l.Warn("Error saving welcome message", slog.String(logging.KeyError, err.Error()))
	}

	TicketTransitions.WithLabelValues("create").Inc()
	l.Info("Ticket created", slog.String(logging.KeyChannel, channel.ID))

	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       messages.TicketCreatedTitle,
					Description: fmt.Sprintf(messages.TicketCreated, req.Actor.ID),
					Color:       colorOpen,
					Fields: []*discordgo.MessageEmbedField{
						{
							Name:   "Ticket Name",
							Value:  ticket.Name(),
							Inline: true,
						},
						{
							Name:   "Ticket Channel",
							Value:  fmt.Sprintf("<#%s>", channel.ID),
							Inline: true,
						},
					},
				},
			},
		},
	})
}

// abandon closes a ticket whose channel could not be provisioned.
func (c *Controller) abandon(ctx context.Context, l *slog.Logger, req *Request, ticket *entities.Ticket) {
	ok, err := c.store.AbandonTicket(ctx, req.GuildID, ticket.ID, req.Actor.ID)
	if err != nil {
		l.Error("Ticket stored without a channel", slog.String(logging.KeyError, err.Error()))
		return
	} else if !ok {
		l.Warn("Ticket not abandoned, it is closed or bound to a channel")
		return
	}
	TicketTransitions.WithLabelValues("abandon").Inc()
}

// ticketChannel is the channel of a ticket, visible to the owner and the staff roles only.
func ticketChannel(t *entities.Ticket, category *entities.Category) discordgo.GuildChannelCreateData {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:    t.GuildID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: 0,
			Deny:  discordgo.PermissionViewChannel,
		},
		// The creator of the ticket can see the ticket.
		{
			ID:    t.OwnerID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		},
	}
	for _, role := range category.RoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    role,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		})
	}

	return discordgo.GuildChannelCreateData{
		Name:                 t.Name(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket of <@%s>", t.Category, t.OwnerID),
		PermissionOverwrites: overwrites,
		ParentID:             category.TargetContainerID,
	}
}
