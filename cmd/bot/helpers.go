package main

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/messages"
)

func respondSlashError(a IApp, i *discordgo.InteractionCreate) error {
	return respondSlashEphemeral(a, i, messages.ErrUserErrorProcessing)
}

func respondSlashEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// commandOptions are the options of a sub command by name.
type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

// subCommand returns the sub command of a slash command and its options.
func subCommand(i *discordgo.InteractionCreate) (string, commandOptions) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", commandOptions{}
	}

	sub := data.Options[0]
	opts := make(commandOptions, len(sub.Options))
	for _, o := range sub.Options {
		opts[o.Name] = o
	}
	return sub.Name, opts
}

// text returns a string option, or "" if it was not given.
func (o commandOptions) text(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// optional returns a string option, or nil if it was not given.
func (o commandOptions) optional(name string) *string {
	if opt, ok := o[name]; ok {
		v := opt.StringValue()
		return &v
	}
	return nil
}

// id returns the ID of a channel or role option, or "" if it was not given.
func (o commandOptions) id(name string) string {
	if opt, ok := o[name]; ok {
		if id, ok := opt.Value.(string); ok {
			return id
		}
	}
	return ""
}

// optionalID returns the ID of a channel or role option, or nil if it was not given.
func (o commandOptions) optionalID(name string) *string {
	if _, ok := o[name]; !ok {
		return nil
	}
	id := o.id(name)
	return &id
}
