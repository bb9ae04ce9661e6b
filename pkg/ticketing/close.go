package ticketing

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/permissions"
	"github.com/Jacobbrewer1/warden/pkg/transcript"
)

// RequestClose asks the actor to confirm closing the ticket of the channel.
func (c *Controller) RequestClose(ctx context.Context, req *Request) error {
	ticket, ok, err := c.ticketInChannel(ctx, req, false)
	if !ok {
		return err
	}

	category, err := c.categoryOf(ctx, ticket)
	if err != nil {
		return err
	}

	if res := c.evaluate(req, permissions.ActionClose, ticket, category); !res.Allowed() {
		return c.replyPrivate(req, messages.ErrNoClosePermission)
	}

	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: messages.ClosePrompt,
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Close",
							Style:    discordgo.DangerButton,
							Emoji:    discordgo.ComponentEmoji{Name: closeEmoji},
							CustomID: interactions.Plain(interactions.KindCloseConfirm).MustEncode(),
						},
						discordgo.Button{
							Label:    "Cancel",
							Style:    discordgo.SecondaryButton,
							CustomID: interactions.Plain(interactions.KindCloseCancel).MustEncode(),
						},
					},
				},
			},
		},
	})
}

// confirmClose closes the ticket, delivers its transcript and schedules the channel deletion.
// Only the close itself can fail the interaction.
func (c *Controller) confirmClose(ctx context.Context, req *Request) error {
	ticket, ok, err := c.ticketInChannel(ctx, req, true)
	if !ok {
		return err
	}

	category, err := c.categoryOf(ctx, ticket)
	if err != nil {
		return err
	}

	// The ticket may have been claimed since the confirmation was shown.
	if res := c.evaluate(req, permissions.ActionClose, ticket, category); !res.Allowed() {
		return c.updatePrivate(req, messages.ErrNoClosePermission)
	}

	closed, err := c.store.CloseTicket(ctx, req.ChannelID, req.Actor.ID)
	if err != nil {
		return fmt.Errorf("error closing ticket: %w", err)
	} else if !closed {
		LostRaces.WithLabelValues("close").Inc()
		return c.updatePrivate(req, messages.ErrTicketClosed)
	}

	TicketTransitions.WithLabelValues("close").Inc()
	l := c.l.With(
		slog.String(logging.KeyGuild, req.GuildID),
		slog.Int(logging.KeyTicket, ticket.ID),
		slog.String(logging.KeyChannel, req.ChannelID),
	)
	l.Info("Ticket closed", slog.String(logging.KeyUser, req.Actor.ID))

	if err := c.updatePrivate(req, messages.CloseDone); err != nil {
		l.Warn("Error responding to close confirmation", slog.String(logging.KeyError, err.Error()))
	}

	if _, err := c.messenger.SendMessage(req.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf(messages.TicketClosing, req.Actor.ID, c.cfg.CloseGrace),
	}); err != nil {
		l.Warn("Error announcing close", slog.String(logging.KeyError, err.Error()))
	}
	c.refreshWelcome(ctx, req.ChannelID)

	c.deliverTranscript(ctx, l, req.ChannelID, req.Actor.ID)
	c.scheduleDeletion(l, req.ChannelID)
	return nil
}

// scheduleDeletion deletes the ticket channel after the grace period.
func (c *Controller) scheduleDeletion(l *slog.Logger, channelID string) {
	ok := c.scheduler.Schedule(channelID, c.cfg.CloseGrace, func() {
		if err := c.messenger.DeleteChannel(channelID); err != nil {
			l.Warn("Error deleting ticket channel", slog.String(logging.KeyError, err.Error()))
			return
		}
		l.Debug("Ticket channel deleted")
	})
	if !ok {
		l.Warn("Shutting down, ticket channel not deleted")
	}
}

// deliverTranscript renders the ticket history and sends it to the logs channel and the owner.
// Failures are logged only.
func (c *Controller) deliverTranscript(ctx context.Context, l *slog.Logger, channelID, closerID string) {
	ticket, err := c.store.GetByChannel(ctx, channelID)
	if err != nil {
		l.Warn("Error getting closed ticket", slog.String(logging.KeyError, err.Error()))
		return
	}

	tr, err := c.buildTranscript(ctx, ticket)
	if err != nil {
		l.Warn("Error building transcript", slog.String(logging.KeyError, err.Error()))
		return
	}

	html, err := transcript.Render(tr)
	if err != nil {
		l.Warn("Error rendering transcript", slog.String(logging.KeyError, err.Error()))
		return
	}

	file := func() []*discordgo.File {
		return []*discordgo.File{{
			Name:        tr.FileName(),
			ContentType: "text/html",
			Reader:      bytes.NewReader(html),
		}}
	}

	guild, err := c.store.GetGuildSettings(ctx, ticket.GuildID)
	if err != nil {
		l.Warn("Error getting guild settings", slog.String(logging.KeyError, err.Error()))
	} else if logs := guild.Ticketing.LogsChannelID; logs != "" {
		if _, err := c.messenger.SendMessage(logs, &discordgo.MessageSend{
			Content: fmt.Sprintf(messages.TranscriptLog, ticket.Name(), ticket.OwnerID, closerID),
			Files:   file(),
		}); err != nil {
			l.Warn("Error sending transcript to logs channel", slog.String(logging.KeyError, err.Error()))
		}
	}

	if err := c.messenger.SendDirect(ticket.OwnerID, &discordgo.MessageSend{
		Content: fmt.Sprintf(messages.TranscriptDirect, ticket.Name()),
		Files:   file(),
	}); err != nil {
		l.Debug("Error sending transcript to owner", slog.String(logging.KeyError, err.Error()))
	}
}

func (c *Controller) buildTranscript(ctx context.Context, ticket *entities.Ticket) (*transcript.Transcript, error) {
	history, err := c.messenger.History(ticket.ChannelID, c.cfg.TranscriptLimit)
	if err != nil {
		return nil, fmt.Errorf("error getting channel history: %w", err)
	}

	actions, err := c.store.TicketActions(ctx, ticket.GuildID, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting ticket actions: %w", err)
	}

	tr := &transcript.Transcript{
		Ticket:      ticket,
		Messages:    make([]transcript.Message, 0, len(history)),
		Actions:     actions,
		GeneratedAt: c.clock.Now(),
	}

	// History is newest first.
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m == nil || m.Author == nil {
			continue
		}

		msg := transcript.Message{
			AuthorID:   m.Author.ID,
			AuthorName: m.Author.Username,
			Content:    m.Content,
			Timestamp:  m.Timestamp,
		}
		for _, a := range m.Attachments {
			msg.Attachments = append(msg.Attachments, a.URL)
		}
		tr.Messages = append(tr.Messages, msg)
	}
	return tr, nil
}
