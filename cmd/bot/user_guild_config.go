package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
)

const (
	// ticketsCmdName is the command for all ticket configuration commands.
	ticketsCmdName = "tickets"

	categoryCreateCmdName  = "category-create"
	categoryRemoveCmdName  = "category-remove"
	categoryEditCmdName    = "category-edit"
	categoryAddRoleCmdName = "category-addrole"
	categoryListCmdName    = "category-list"
	panelCmdName           = "panel"
	logsCmdName            = "logs"
	metricsCmdName         = "metrics"
)

const (
	nameOptName        = "name"
	newNameOptName     = "new-name"
	descriptionOptName = "description"
	emojiOptName       = "emoji"
	containerOptName   = "container"
	roleOptName        = "role"
	role2OptName       = "role2"
	role3OptName       = "role3"
	rolesOptName       = "roles"
	channelOptName     = "channel"
)

// adminPermission hides the configuration commands from members without the administrator
// permission. The controller checks the permission again.
var adminPermission int64 = discordgo.PermissionAdministrator

func categoryNameOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        nameOptName,
		Type:        discordgo.ApplicationCommandOptionString,
		Description: "The name of the category.",
		Required:    true,
	}
}

func categoryDetailOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Name:        descriptionOptName,
			Type:        discordgo.ApplicationCommandOptionString,
			Description: "The description shown on the ticket panel.",
		},
		{
			Name:        emojiOptName,
			Type:        discordgo.ApplicationCommandOptionString,
			Description: "The emoji of the panel button.",
		},
		{
			Name:         containerOptName,
			Type:         discordgo.ApplicationCommandOptionChannel,
			Description:  "The channel category ticket channels are created in.",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
		},
	}
}

func roleOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        name,
		Type:        discordgo.ApplicationCommandOptionRole,
		Description: description,
		Required:    required,
	}
}

func textChannelOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:         channelOptName,
		Type:         discordgo.ApplicationCommandOptionChannel,
		Description:  description,
		Required:     true,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

// ticketsCmd is the command for all ticket configuration commands.
var ticketsCmd = &discordgo.ApplicationCommand{
	Name:                     ticketsCmdName,
	Type:                     discordgo.ChatApplicationCommand,
	Description:              "This is the command for all ticket configuration commands.",
	DefaultMemberPermissions: &adminPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        categoryCreateCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Create a ticket category.",
			Options: append([]*discordgo.ApplicationCommandOption{
				categoryNameOption(),
				roleOption(roleOptName, "The staff role handling the tickets.", true),
				roleOption(role2OptName, "A second staff role.", false),
				roleOption(role3OptName, "A third staff role.", false),
			}, categoryDetailOptions()...),
		},
		{
			Name:        categoryRemoveCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Remove a ticket category. Open tickets are kept.",
			Options:     []*discordgo.ApplicationCommandOption{categoryNameOption()},
		},
		{
			Name:        categoryEditCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Edit a ticket category.",
			Options: append([]*discordgo.ApplicationCommandOption{
				categoryNameOption(),
				{
					Name:        newNameOptName,
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The new name of the category.",
				},
				{
					Name:        rolesOptName,
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "Replace the staff roles with a list of role IDs, for example 1,2.",
				},
			}, categoryDetailOptions()...),
		},
		{
			Name:        categoryAddRoleCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Add a staff role to a ticket category.",
			Options: []*discordgo.ApplicationCommandOption{
				categoryNameOption(),
				roleOption(roleOptName, "The staff role to add.", true),
			},
		},
		{
			Name:        categoryListCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "List the ticket categories.",
		},
		{
			Name:        panelCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Send the ticket panel to a channel.",
			Options:     []*discordgo.ApplicationCommandOption{textChannelOption("The channel to send the panel to.")},
		},
		{
			Name:        logsCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Set the channel ticket transcripts are sent to.",
			Options:     []*discordgo.ApplicationCommandOption{textChannelOption("The channel for ticket transcripts.")},
		},
		{
			Name:        metricsCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Show the ticket metrics of this server.",
		},
	},
}

// slashCommands are the commands registered in every guild.
var slashCommands = []*discordgo.ApplicationCommand{ticketCmd, ticketsCmd}

func ticketsCmdController(_ IApp, subCmd string) (slashProcessor, error) {
	switch subCmd {
	case categoryCreateCmdName:
		return createCategoryCmdProcessor, nil
	case categoryRemoveCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, opts commandOptions) error {
			return a.Tickets().RemoveCategory(ctx, req, opts.text(nameOptName))
		}, nil
	case categoryEditCmdName:
		return editCategoryCmdProcessor, nil
	case categoryAddRoleCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, opts commandOptions) error {
			return a.Tickets().AddRoleToCategory(ctx, req, opts.text(nameOptName), opts.id(roleOptName))
		}, nil
	case categoryListCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, _ commandOptions) error {
			return a.Tickets().ListCategories(ctx, req)
		}, nil
	case panelCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, opts commandOptions) error {
			return a.Tickets().SendPanel(ctx, req, opts.id(channelOptName))
		}, nil
	case logsCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, opts commandOptions) error {
			return a.Tickets().SetLogsChannel(ctx, req, opts.id(channelOptName))
		}, nil
	case metricsCmdName:
		return func(ctx context.Context, a IApp, req *ticketing.Request, _ commandOptions) error {
			return a.Tickets().Metrics(ctx, req)
		}, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// createCategoryCmdProcessor creates a category from the command options.
func createCategoryCmdProcessor(ctx context.Context, a IApp, req *ticketing.Request, opts commandOptions) error {
	category := &entities.Category{
		Name:              opts.text(nameOptName),
		Description:       opts.text(descriptionOptName),
		Emoji:             opts.text(emojiOptName),
		RoleIDs:           entities.NewRoleSet(opts.id(roleOptName), opts.id(role2OptName), opts.id(role3OptName)),
		TargetContainerID: opts.id(containerOptName),
	}
	return a.Tickets().CreateCategory(ctx, req, category)
}

// editCategoryCmdProcessor applies the given options to a category.
func editCategoryCmdProcessor(ctx context.Context, a IApp, req *ticketing.Request, opts commandOptions) error {
	upd := &entities.CategoryUpdate{
		Name:              opts.optional(newNameOptName),
		Description:       opts.optional(descriptionOptName),
		Emoji:             opts.optional(emojiOptName),
		TargetContainerID: opts.optionalID(containerOptName),
	}
	if roles := opts.optional(rolesOptName); roles != nil {
		upd.RoleIDs = entities.ParseRoleSet(*roles)
	}
	return a.Tickets().UpdateCategory(ctx, req, opts.text(nameOptName), upd)
}
