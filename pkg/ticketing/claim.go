package ticketing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/permissions"
)

// maxTransferTargets is the number of options a select menu can hold.
const maxTransferTargets = 25

type transferSession struct {
	guildID   string
	channelID string
	actorID   string
	targets   map[string]bool
}

// Claim assigns the ticket of the channel to the actor. Administrators may take over a ticket
// claimed by someone else.
func (c *Controller) Claim(ctx context.Context, req *Request) error {
	ticket, ok, err := c.ticketInChannel(ctx, req, false)
	if !ok {
		return err
	}

	if ticket.ClaimedBy == req.Actor.ID {
		return c.replyPrivate(req, messages.ErrAlreadyClaimedBySelf)
	}

	category, err := c.categoryOf(ctx, ticket)
	if err != nil {
		return err
	}

	if res := c.evaluate(req, permissions.ActionClaim, ticket, category); !res.Allowed() {
		return c.replyPrivate(req, messages.ErrNoClaimPermission)
	}
	if ticket.IsClaimed() && !req.Actor.Administrator {
		return c.replyPrivate(req, fmt.Sprintf(messages.ErrAlreadyClaimed, ticket.ClaimedBy))
	}

	assigned, err := c.store.AssignTicket(ctx, &dataaccess.Assignment{
		ChannelID:       req.ChannelID,
		ExecutorID:      req.Actor.ID,
		ClaimerID:       req.Actor.ID,
		Action:          entities.ActionClaim,
		ExpectedClaimer: ticket.ClaimedBy,
	})
	if err != nil {
		return fmt.Errorf("error assigning ticket: %w", err)
	} else if !assigned {
		LostRaces.WithLabelValues("claim").Inc()
		return c.replyPrivate(req, messages.ErrClaimRace)
	}

	TicketTransitions.WithLabelValues("claim").Inc()
	c.l.Info("Ticket claimed",
		slog.String(logging.KeyGuild, req.GuildID),
		slog.Int(logging.KeyTicket, ticket.ID),
		slog.String(logging.KeyUser, req.Actor.ID),
	)

	c.refreshWelcome(ctx, req.ChannelID)
	return c.replyPublic(req, fmt.Sprintf(messages.TicketClaimed, req.Actor.ID))
}

// RequestTransfer shows the actor a private selection of staff members who can take over the
// ticket. The selection expires after the selection timeout.
func (c *Controller) RequestTransfer(ctx context.Context, req *Request) error {
	ticket, ok, err := c.ticketInChannel(ctx, req, false)
	if !ok {
		return err
	}

	category, err := c.categoryOf(ctx, ticket)
	if err != nil {
		return err
	}

	if res := c.evaluate(req, permissions.ActionTransfer, ticket, category); !res.Allowed() {
		return c.replyPrivate(req, messages.ErrNoTransferPermission)
	}

	targets, err := c.transferTargets(req, ticket, category)
	if err != nil {
		return err
	} else if len(targets) == 0 {
		return c.replyPrivate(req, messages.ErrNoEligibleStaff)
	}

	session := &transferSession{
		guildID:   req.GuildID,
		channelID: req.ChannelID,
		actorID:   req.Actor.ID,
		targets:   make(map[string]bool, len(targets)),
	}
	options := make([]discordgo.SelectMenuOption, 0, len(targets))
	for _, m := range targets {
		session.targets[m.User.ID] = true
		options = append(options, discordgo.SelectMenuOption{
			Label: displayName(m),
			Value: m.User.ID,
		})
	}

	id := c.transfers.put(session)
	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: messages.TransferPrompt,
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							CustomID:    interactions.WithSession(interactions.KindTransferPick, id).MustEncode(),
							Placeholder: "Staff member",
							MaxValues:   1,
							Options:     options,
						},
					},
				},
			},
		},
	})
}

// transferTargets lists the members holding a staff role of the category, except the actor,
// the current claimer and bots.
func (c *Controller) transferTargets(req *Request, ticket *entities.Ticket, category *entities.Category) ([]*discordgo.Member, error) {
	if category == nil {
		return nil, nil
	}

	members, err := c.messenger.Members(req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild members: %w", err)
	}

	targets := make([]*discordgo.Member, 0)
	for _, m := range members {
		if m == nil || m.User == nil || m.User.Bot {
			continue
		}
		if m.User.ID == req.Actor.ID || m.User.ID == ticket.ClaimedBy {
			continue
		}
		if !category.RoleIDs.Intersects(m.Roles) {
			continue
		}
		targets = append(targets, m)
	}

	sort.Slice(targets, func(i, j int) bool {
		return displayName(targets[i]) < displayName(targets[j])
	})
	if len(targets) > maxTransferTargets {
		targets = targets[:maxTransferTargets]
	}
	return targets, nil
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.Username
}

// confirmTransfer assigns the ticket to the selected staff member.
func (c *Controller) confirmTransfer(ctx context.Context, req *Request) error {
	session, ok := c.transfers.peek(req.Action.Session)
	if !ok {
		return c.updatePrivate(req, messages.ErrSelectionExpired)
	}
	if session.actorID != req.Actor.ID || session.channelID != req.ChannelID {
		return c.replyPrivate(req, messages.ErrNoTransferPermission)
	}
	c.transfers.take(req.Action.Session)

	if len(req.Values) != 1 || !session.targets[req.Values[0]] {
		return c.updatePrivate(req, messages.ErrInvalidTransferTarget)
	}
	target := req.Values[0]

	ticket, ok, err := c.ticketInChannel(ctx, req, true)
	if !ok {
		return err
	}

	category, err := c.categoryOf(ctx, ticket)
	if err != nil {
		return err
	}

	// The ticket may have changed while the selection was open.
	if res := c.evaluate(req, permissions.ActionTransfer, ticket, category); !res.Allowed() {
		return c.updatePrivate(req, messages.ErrNoTransferPermission)
	}

	assigned, err := c.store.AssignTicket(ctx, &dataaccess.Assignment{
		ChannelID:       req.ChannelID,
		ExecutorID:      req.Actor.ID,
		ClaimerID:       target,
		Action:          entities.ActionTransfer,
		ExpectedClaimer: ticket.ClaimedBy,
	})
	if err != nil {
		return fmt.Errorf("error transferring ticket: %w", err)
	} else if !assigned {
		LostRaces.WithLabelValues("transfer").Inc()
		return c.updatePrivate(req, messages.ErrClaimRace)
	}

	TicketTransitions.WithLabelValues("transfer").Inc()
	c.l.Info("Ticket transferred",
		slog.String(logging.KeyGuild, req.GuildID),
		slog.Int(logging.KeyTicket, ticket.ID),
		slog.String(logging.KeyUser, req.Actor.ID),
		slog.String("target", target),
	)

	if err := c.updatePrivate(req, fmt.Sprintf(messages.TransferDone, target)); err != nil {
		return err
	}

	if _, err := c.messenger.SendMessage(req.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf(messages.TicketTransferred, target, req.Actor.ID),
	}); err != nil {
		c.l.Warn("Error announcing transfer",
			slog.String(logging.KeyChannel, req.ChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	c.refreshWelcome(ctx, req.ChannelID)
	return nil
}
