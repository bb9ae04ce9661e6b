package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/panel"
)

type panelSession struct {
	guildID   string
	channelID string
	actorID   string
}

// requireAdmin replies with a denial when the actor is not an administrator.
func (c *Controller) requireAdmin(req *Request) (bool, error) {
	if req.Actor.Administrator {
		return true, nil
	}
	return false, c.replyPrivate(req, messages.ErrNotAdministrator)
}

// categoryError replies to a category validation error. It returns false for errors that are
// not the actor's fault.
func (c *Controller) categoryError(req *Request, name string, err error) (bool, error) {
	var reply string
	switch {
	case errors.Is(err, dataaccess.ErrDuplicateName):
		reply = fmt.Sprintf(messages.ErrDuplicateCategory, name)
	case errors.Is(err, dataaccess.ErrRoleLimit):
		reply = messages.ErrRoleLimit
	case errors.Is(err, entities.ErrCategoryNameRequired),
		errors.Is(err, entities.ErrCategoryNameTooLong),
		errors.Is(err, entities.ErrCategoryDescriptionTooLong),
		errors.Is(err, entities.ErrCategoryRolesRequired),
		errors.Is(err, entities.ErrCategoryTooManyRoles):
		reply = fmt.Sprintf(messages.ErrInvalidCategory, err.Error())
	default:
		return false, nil
	}
	return true, c.replyPrivate(req, reply)
}

// CreateCategory creates a category and refreshes the panel.
func (c *Controller) CreateCategory(ctx context.Context, req *Request, category *entities.Category) error {
	if ok, err := c.requireAdmin(req); !ok {
		return err
	}

	category.GuildID = req.GuildID
	if err := c.store.CreateCategory(ctx, category); err != nil {
		if handled, rerr := c.categoryError(req, category.Name, err); handled {
			return rerr
		}
		return fmt.Errorf("error creating category: %w", err)
	}

	c.l.Info("Category created",
		slog.String(logging.KeyGuild, req.GuildID),
		slog.String(logging.KeyCategory, category.Name),
	)
	return c.categoryChanged(ctx, req, fmt.Sprintf(messages.CategoryCreated, category.Name))
}

// RemoveCategory removes a category and refreshes the panel. Tickets of the category are kept.
func (c *Controller) RemoveCategory(ctx context.Context, req *Request, name string) error {
	if ok, err := c.requireAdmin(req); !ok {
		return err
	}

	removed, err := c.store.RemoveCategory(ctx, req.GuildID, name)
	if err != nil {
		return fmt.Errorf("error removing category: %w", err)
	} else if !removed {
		return c.replyPrivate(req, fmt.Sprintf(messages.ErrCategoryNotFound, name))
	}

	c.l.Info("Category removed",
		slog.String(logging.KeyGuild, req.GuildID),
		slog.String(logging.KeyCategory, name),
	)
	return c.categoryChanged(ctx, req, fmt.Sprintf(messages.CategoryRemoved, name))
}

// UpdateCategory applies a partial update to a category and refreshes the panel.
func (c *Controller) UpdateCategory(ctx context.Context, req *Request, name string, upd *entities.CategoryUpdate) error {
	if ok, err := c.requireAdmin(req); !ok {
		return err
	}

	updated, err := c.store.UpdateCategory(ctx, req.GuildID, name, upd)
	if err != nil {
		newName := name
		if upd != nil && upd.Name != nil {
			newName = *upd.Name
		}
		if handled, rerr := c.categoryError(req, newName, err); handled {
			return rerr
		}
		return fmt.Errorf("error updating category: %w", err)
	} else if !updated {
		return c.replyPrivate(req, fmt.Sprintf(messages.ErrCategoryNotFound, name))
	}

	if upd != nil && upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
	}
	return c.categoryChanged(ctx, req, fmt.Sprintf(messages.CategoryUpdated, name))
}

// AddRoleToCategory adds a staff role to a category.
func (c *Controller) AddRoleToCategory(ctx context.Context, req *Request, name, roleID string) error {
	if ok, err := c.requireAdmin(req); !ok {
		return err
	}

	added, err := c.store.AddRoleToCategory(ctx, req.GuildID, name, roleID)
	if err != nil {
		if handled, rerr := c.categoryError(req, name, err); handled {
			return rerr
		}
		return fmt.Errorf("error adding role to category: %w", err)
	} else if !added {
		return c.replyPrivate(req, fmt.Sprintf(messages.ErrCategoryNotFound, name))
	}

	return c.replyPrivate(req, fmt.Sprintf(messages.CategoryRoleAdded, roleID, name))
}

// categoryChanged replies to the actor and then refreshes the published panel.
func (c *Controller) categoryChanged(ctx context.Context, req *Request, reply string) error {
	if err := c.replyPrivate(req, reply); err != nil {
		return err
	}
	c.refresher.Refresh(ctx, req.GuildID)
	return nil
}

// ListCategories replies with the categories of the guild.
func (c *Controller) ListCategories(ctx context.Context, req *Request) error {
	if ok, err := c.requireAdmin(req); !ok {
		return err
	}

	categories, err := c.store.ListCategories(ctx, req.GuildID)
	if err != nil {
		return fmt.Errorf("error listing categories: %w", err)
	} else if len(categories) == 0 {
		return c.replyPrivate(req, messages.ErrNoCategories)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Ticket Categories",
		Color: panel.Color,
	}
	for _, cat := range categories {
		roles := make([]string, 0, len(cat.RoleIDs))
		for _, id := range cat.RoleIDs {
			roles = append(roles, fmt.Sprintf("<@&%s>", id))
		}

		value := fmt.Sprintf("Roles: %s", strings.Join(roles, " "))
		if cat.TargetContainerID != "" {
			value += fmt.Sprintf("\nChannels: <#%s>", cat.TargetContainerID)
		}
		if cat.Description != "" {
			value = cat.Description + "\n" + value
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  strings.TrimSpace(cat.Emoji + " " + cat.Name),
			Value: value,
		})
	}

	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// SendPanel shows the actor a preview of the panel and asks to confirm publishing it to a
// channel.
func (c *Controller) SendPanel(ctx context.Context, req *Request, channelID string) error {
	if ok, err := c.requireAdmin(req); !ok {
		return err
	}

	categories, err := c.store.ListCategories(ctx, req.GuildID)
	if err != nil {
		return fmt.Errorf("error listing categories: %w", err)
	} else if len(categories) == 0 {
		return c.replyPrivate(req, messages.ErrNoCategories)
	}

	id := c.panels.put(&panelSession{
		guildID:   req.GuildID,
		channelID: channelID,
		actorID:   req.Actor.ID,
	})

	preview := panel.BuildPayload(categories)
	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf(messages.PanelPrompt, channelID),
			Flags:   discordgo.MessageFlagsEphemeral,
			Embeds:  []*discordgo.MessageEmbed{preview.Embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Publish",
							Style:    discordgo.SuccessButton,
							CustomID: interactions.WithSession(interactions.KindPanelConfirm, id).MustEncode(),
						},
						discordgo.Button{
							Label:    "Cancel",
							Style:    discordgo.SecondaryButton,
							CustomID: interactions.WithSession(interactions.KindPanelCancel, id).MustEncode(),
						},
					},
				},
			},
		},
	})
}

// confirmPanel publishes the panel and binds it to the guild, replacing the previous binding.
func (c *Controller) confirmPanel(ctx context.Context, req *Request) error {
	session, ok := c.panels.take(req.Action.Session)
	if !ok {
		return c.updatePrivate(req, messages.ErrSelectionExpired)
	}
	if !req.Actor.Administrator || session.guildID != req.GuildID {
		return c.updatePrivate(req, messages.ErrNotAdministrator)
	}

	categories, err := c.store.ListCategories(ctx, session.guildID)
	if err != nil {
		return fmt.Errorf("error listing categories: %w", err)
	} else if len(categories) == 0 {
		return c.updatePrivate(req, messages.ErrNoCategories)
	}

	p := panel.BuildPayload(categories)
	messageID, err := c.messenger.SendPanel(session.channelID, p)
	if err != nil {
		return fmt.Errorf("error sending panel: %w", err)
	}

	if err := c.store.SetPanelBinding(ctx, &entities.PanelBinding{
		GuildID:   session.guildID,
		ChannelID: session.channelID,
		MessageID: messageID,
	}); err != nil {
		return fmt.Errorf("error saving panel binding: %w", err)
	}

	if err := c.store.UpdateGuildSettings(ctx, session.guildID, &entities.TicketingUpdate{
		PanelChannelID: &session.channelID,
		PanelMessageID: &messageID,
	}); err != nil {
		c.l.Warn("Error saving panel in guild settings",
			slog.String(logging.KeyGuild, session.guildID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	c.l.Info("Panel sent",
		slog.String(logging.KeyGuild, session.guildID),
		slog.String(logging.KeyChannel, session.channelID),
		slog.Int("omitted", len(p.Omitted)),
	)
	return c.updatePrivate(req, fmt.Sprintf(messages.PanelSent, session.channelID))
}

func (c *Controller) cancelPanel(req *Request) error {
	c.panels.take(req.Action.Session)
	return c.updatePrivate(req, messages.PanelCancelled)
}

// SetLogsChannel sets the channel transcripts are sent to.
func (c *Controller) SetLogsChannel(ctx context.Context, req *Request, channelID string) error {
	if ok, err := c.requireAdmin(req); !ok {
		return err
	}

	if err := c.store.UpdateGuildSettings(ctx, req.GuildID, &entities.TicketingUpdate{
		LogsChannelID: &channelID,
	}); err != nil {
		return fmt.Errorf("error updating guild settings: %w", err)
	}
	return c.replyPrivate(req, fmt.Sprintf(messages.LogsChannelSet, channelID))
}

// Metrics replies with the ticket metrics of the guild.
func (c *Controller) Metrics(ctx context.Context, req *Request) error {
	if ok, err := c.requireAdmin(req); !ok {
		return err
	}

	report, err := c.aggregator.ComputeMetrics(ctx, req.GuildID)
	if err != nil {
		return fmt.Errorf("error computing metrics: %w", err)
	}

	byCategory := make([]string, 0, len(report.CountsByCategory))
	for name, n := range report.CountsByCategory {
		byCategory = append(byCategory, fmt.Sprintf("%s: %d", name, n))
	}
	sort.Strings(byCategory)

	staff := make([]string, 0, len(report.TopStaff))
	for i, s := range report.TopStaff {
		staff = append(staff, fmt.Sprintf("%d. <@%s> (%d)", i+1, s.StaffID, s.Claims))
	}

	embed := &discordgo.MessageEmbed{
		Title: "Ticket Metrics",
		Color: panel.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Average resolution", Value: fmt.Sprintf("%.1f minutes", report.AvgResolutionMinutes)},
			{Name: "Tickets by category", Value: orNone(byCategory)},
			{Name: "Top staff", Value: orNone(staff)},
		},
	}

	return c.respond(req, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func orNone(lines []string) string {
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, "\n")
}
