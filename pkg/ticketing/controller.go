package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/panel"
	"github.com/Jacobbrewer1/warden/pkg/permissions"
	"github.com/Jacobbrewer1/warden/pkg/stats"
)

// Controller runs the ticket lifecycle for every guild.
type Controller struct {
	l         *slog.Logger
	cfg       Config
	clock     clock.Clock
	store     dataaccess.Store
	messenger Messenger

	refresher  *panel.Refresher
	aggregator *stats.Aggregator
	scheduler  *Scheduler
	cooldown   *cooldown
	transfers  *pending[*transferSession]
	panels     *pending[*panelSession]
}

// NewController creates a new controller.
func NewController(l *slog.Logger, store dataaccess.Store, messenger Messenger, cfg Config, clk clock.Clock) *Controller {
	if clk == nil {
		clk = clock.Real()
	}

	return &Controller{
		l:          l,
		cfg:        cfg,
		clock:      clk,
		store:      store,
		messenger:  messenger,
		refresher:  panel.NewRefresher(l, store, messenger),
		aggregator: stats.NewAggregator(store, clk),
		scheduler:  NewScheduler(clk),
		cooldown:   newCooldown(cfg.CreateCooldown),
		transfers:  newPending[*transferSession](clk, cfg.SelectionTimeout),
		panels:     newPending[*panelSession](clk, cfg.SelectionTimeout),
	}
}

// Aggregator returns the metrics aggregator of the controller.
func (c *Controller) Aggregator() *stats.Aggregator {
	return c.aggregator
}

// HandleInteraction handles a message component interaction. Custom IDs that are not ticket
// actions are ignored.
func (c *Controller) HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	req, err := NewRequest(i)
	if err != nil {
		c.l.Debug("Ignoring interaction", slog.String(logging.KeyError, err.Error()))
		return
	} else if req.Action.Kind == interactions.KindUnknown {
		return
	}

	c.Run(ctx, req, c.dispatch)
}

// Run runs a handler and turns a returned error into a logged generic reply.
func (c *Controller) Run(ctx context.Context, req *Request, handler func(context.Context, *Request) error) {
	if err := handler(ctx, req); err != nil {
		c.l.Error("Error handling ticket interaction",
			slog.String(logging.KeyGuild, req.GuildID),
			slog.String(logging.KeyChannel, req.ChannelID),
			slog.String(logging.KeyUser, req.Actor.ID),
			slog.String("action", string(req.Action.Kind)),
			slog.String(logging.KeyError, err.Error()),
		)

		if err := c.replyPrivate(req, messages.ErrUserErrorProcessing); err != nil {
			c.l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func (c *Controller) dispatch(ctx context.Context, req *Request) error {
	switch req.Action.Kind {
	case interactions.KindOpen:
		return c.CreateTicket(ctx, req, req.Action.Category)
	case interactions.KindClaim:
		return c.Claim(ctx, req)
	case interactions.KindTransfer:
		return c.RequestTransfer(ctx, req)
	case interactions.KindTransferPick:
		return c.confirmTransfer(ctx, req)
	case interactions.KindClose:
		return c.RequestClose(ctx, req)
	case interactions.KindCloseConfirm:
		return c.confirmClose(ctx, req)
	case interactions.KindCloseCancel:
		return c.updatePrivate(req, messages.CloseCancelled)
	case interactions.KindPanelConfirm:
		return c.confirmPanel(ctx, req)
	case interactions.KindPanelCancel:
		return c.cancelPanel(req)
	}
	return nil
}

// Shutdown stops pending channel deletions and waits for running ones.
func (c *Controller) Shutdown(ctx context.Context) error {
	for _, channelID := range c.scheduler.Stop() {
		c.l.Warn("Skipping scheduled channel deletion", slog.String(logging.KeyChannel, channelID))
	}
	c.transfers.stop()
	c.panels.stop()

	done := make(chan struct{})
	go func() {
		c.scheduler.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("error waiting for channel deletions: %w", ctx.Err())
	}
}

// ticketInChannel loads the ticket of the request channel. The bool is false when a denial has
// already been sent.
func (c *Controller) ticketInChannel(ctx context.Context, req *Request, update bool) (*entities.Ticket, bool, error) {
	reply := c.replyPrivate
	if update {
		reply = c.updatePrivate
	}

	ticket, err := c.store.GetByChannel(ctx, req.ChannelID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, false, reply(req, messages.ErrNotTicketChannel)
	} else if err != nil {
		return nil, false, fmt.Errorf("error getting ticket: %w", err)
	}

	if ticket.IsClosed() {
		return nil, false, reply(req, messages.ErrTicketClosed)
	}
	return ticket, true, nil
}

// categoryOf returns the category of a ticket, or nil if it has been removed.
func (c *Controller) categoryOf(ctx context.Context, ticket *entities.Ticket) (*entities.Category, error) {
	category, err := c.store.GetCategoryByName(ctx, ticket.GuildID, ticket.Category)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return category, nil
}

// evaluate checks an action and records denials.
func (c *Controller) evaluate(req *Request, action permissions.Action, ticket *entities.Ticket, category *entities.Category) permissions.Result {
	res := permissions.Evaluate(req.Actor, action, permissions.SubjectFor(ticket, category))
	if !res.Allowed() {
		PermissionDenials.WithLabelValues(action.String(), res.Reason.String()).Inc()
		c.l.Info("Ticket action denied",
			slog.String(logging.KeyGuild, req.GuildID),
			slog.Int(logging.KeyTicket, ticket.ID),
			slog.String(logging.KeyUser, req.Actor.ID),
			slog.String("action", action.String()),
			slog.String("reason", res.Reason.String()),
		)
	}
	return res
}

// refreshWelcome edits the welcome message of a ticket to its current state. Best effort.
func (c *Controller) refreshWelcome(ctx context.Context, channelID string) {
	ticket, err := c.store.GetByChannel(ctx, channelID)
	if err != nil {
		c.l.Warn("Error getting ticket for welcome message",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	} else if ticket.WelcomeMessageID == "" {
		return
	}

	if err := c.messenger.EditMessage(welcomeEdit(ticket)); err != nil {
		c.l.Warn("Error editing welcome message",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}

func (c *Controller) replyPrivate(req *Request, content string) error {
	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (c *Controller) replyPublic(req *Request, content string) error {
	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

// updatePrivate replaces the message the component belongs to, dropping its components.
func (c *Controller) updatePrivate(req *Request, content string) error {
	if req.Interaction.Type != discordgo.InteractionMessageComponent {
		return c.replyPrivate(req, content)
	}

	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
			Embeds:     []*discordgo.MessageEmbed{},
		},
	})
}

func (c *Controller) respond(req *Request, resp *discordgo.InteractionResponse) error {
	if err := c.messenger.Respond(req.Interaction, resp); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}
