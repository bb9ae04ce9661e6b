package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/panel"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
)

const (
	// ticketCmdName is the command for acting on the ticket of the current channel.
	ticketCmdName = "ticket"

	// claimCmdName is the sub command for claiming a ticket.
	claimCmdName = "claim"

	// closeCmdName is the sub command for closing a ticket.
	closeCmdName = "close"

	// transferCmdName is the sub command for transferring a ticket.
	transferCmdName = "transfer"
)

const (
	// maxMessagesPerPage is the most messages Discord returns per request.
	maxMessagesPerPage = 100

	// maxMembersPerPage is the most members Discord returns per request.
	maxMembersPerPage = 1000
)

// ticketCmd is the command for acting on the ticket of the current channel.
var ticketCmd = &discordgo.ApplicationCommand{
	Name:        ticketCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "Manage the ticket of this channel.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        claimCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Claim this ticket.",
		},
		{
			Name:        closeCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Close this ticket.",
		},
		{
			Name:        transferCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Hand this ticket to another staff member.",
		},
	},
}

func ticketCmdController(_ IApp, subCmd string) (slashProcessor, error) {
	switch subCmd {
	case claimCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, _ commandOptions) error {
			return a.Tickets().Claim(ctx, req)
		}, nil
	case closeCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, _ commandOptions) error {
			return a.Tickets().RequestClose(ctx, req)
		}, nil
	case transferCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, _ commandOptions) error {
			return a.Tickets().RequestTransfer(ctx, req)
		}, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// discordMessenger sends the ticket controller's messages through a Discord session.
type discordMessenger struct {
	s *discordgo.Session
}

var _ ticketing.Messenger = (*discordMessenger)(nil)

func newDiscordMessenger(s *discordgo.Session) *discordMessenger {
	return &discordMessenger{s: s}
}

func (m *discordMessenger) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return m.s.InteractionRespond(i, resp)
}

func (m *discordMessenger) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return m.s.GuildChannelCreateComplex(guildID, data)
}

func (m *discordMessenger) DeleteChannel(channelID string) error {
	_, err := m.s.ChannelDelete(channelID)
	return err
}

func (m *discordMessenger) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return m.s.ChannelMessageSendComplex(channelID, msg)
}

func (m *discordMessenger) EditMessage(msg *discordgo.MessageEdit) error {
	_, err := m.s.ChannelMessageEditComplex(msg)
	return err
}

func (m *discordMessenger) SendDirect(userID string, msg *discordgo.MessageSend) error {
	channel, err := m.s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("error creating direct message channel: %w", err)
	}

	if _, err := m.s.ChannelMessageSendComplex(channel.ID, msg); err != nil {
		return fmt.Errorf("error sending direct message: %w", err)
	}
	return nil
}

func (m *discordMessenger) History(channelID string, limit int) ([]*discordgo.Message, error) {
	history := make([]*discordgo.Message, 0, limit)
	before := ""
	for len(history) < limit {
		n := min(limit-len(history), maxMessagesPerPage)
		page, err := m.s.ChannelMessages(channelID, n, before, "", "")
		if err != nil {
			return nil, fmt.Errorf("error getting channel messages: %w", err)
		}

		history = append(history, page...)
		if len(page) < n {
			break
		}
		before = page[len(page)-1].ID
	}
	return history, nil
}

func (m *discordMessenger) Members(guildID string) ([]*discordgo.Member, error) {
	members := make([]*discordgo.Member, 0)
	after := ""
	for {
		page, err := m.s.GuildMembers(guildID, after, maxMembersPerPage)
		if err != nil {
			return nil, fmt.Errorf("error getting guild members: %w", err)
		}

		members = append(members, page...)
		if len(page) < maxMembersPerPage {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (m *discordMessenger) SendPanel(channelID string, p *panel.Payload) (string, error) {
	msg, err := m.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embed:      p.Embed,
		Components: p.Components,
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (m *discordMessenger) EditPanel(channelID, messageID string, p *panel.Payload) error {
	_, err := m.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embed:      p.Embed,
		Components: p.Components,
	})
	return err
}
