package main

import (
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/logging"
)

func guildJoinedHandler(a *App) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		// Guild create is also sent when a guild becomes available again.
		registered, err := a.registerSlashCommands(g.ID)
		if err != nil {
			a.Log().Error("Error registering slash commands",
				slog.String(logging.KeyGuild, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
			return
		} else if !registered {
			return
		}

		a.Log().Info(fmt.Sprintf("Joined guild %s", g.Name), slog.String(logging.KeyGuild, g.ID))

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()
	}
}

func guildLeaveHandler(a *App) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		// Unavailable guilds are only in an outage.
		if g.Unavailable || !a.forgetGuild(g.ID) {
			return
		}

		a.Log().Info("Left guild", slog.String(logging.KeyGuild, g.ID))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()
	}
}
