package main

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestCommandControllers(t *testing.T) {
	controllers := map[string]slashCommandController{
		ticketCmdName:  ticketCmdController,
		ticketsCmdName: ticketsCmdController,
	}

	for _, cmd := range slashCommands {
		controller, ok := controllers[cmd.Name]
		require.True(t, ok, cmd.Name)

		for _, sub := range cmd.Options {
			require.Equal(t, discordgo.ApplicationCommandOptionSubCommand, sub.Type)

			processor, err := controller(nil, sub.Name)
			require.NoError(t, err, "%s %s", cmd.Name, sub.Name)
			require.NotNil(t, processor)
		}

		_, err := controller(nil, "unknown")
		require.Error(t, err)
	}
}

func TestSubCommand(t *testing.T) {
	i := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: ticketsCmdName,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: categoryEditCmdName,
						Type: discordgo.ApplicationCommandOptionSubCommand,
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							{Name: nameOptName, Type: discordgo.ApplicationCommandOptionString, Value: "Soporte"},
							{Name: containerOptName, Type: discordgo.ApplicationCommandOptionChannel, Value: "123"},
						},
					},
				},
			},
		},
	}

	sub, opts := subCommand(i)
	require.Equal(t, categoryEditCmdName, sub)
	require.Equal(t, "Soporte", opts.text(nameOptName))
	require.Equal(t, "", opts.text(descriptionOptName))
	require.Nil(t, opts.optional(newNameOptName))
	require.Equal(t, "123", opts.id(containerOptName))
	require.Equal(t, "123", *opts.optionalID(containerOptName))
	require.Nil(t, opts.optionalID(roleOptName))
}
