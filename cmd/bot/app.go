package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/cmd/bot/config"
	"github.com/Jacobbrewer1/warden/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/request"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// PathTicketMetrics is the path for the ticket report of a guild.
	PathTicketMetrics = "/guilds/{guildID}/tickets/metrics"
)

// shutdownTimeout bounds the graceful shutdown.
const shutdownTimeout = 15 * time.Second

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Tickets returns the ticket controller.
	Tickets() *ticketing.Controller
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// store is the ticketing store.
	store dataaccess.Store

	// tickets is the ticket controller.
	tickets *ticketing.Controller

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// commands are the slash commands registered per guild.
	commands   map[string][]*discordgo.ApplicationCommand
	commandsMu sync.Mutex
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger:   l,
		r:        r,
		commands: make(map[string][]*discordgo.ApplicationCommand),
	}
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := config.OpenStore(ctx, a.Logger, clock.Real())
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	a.store = store

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.tickets = ticketing.NewController(
		a.Logger.With(slog.String("component", "ticketing")),
		store,
		newDiscordMessenger(a.s),
		config.Ticketing(),
		clock.Real(),
	)

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Process shutdown signal.
	<-ctx.Done()
	a.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.ShutdownHook(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down application: %w", err)
	}
	return nil
}

// ShutdownHook stops the bot. Pending ticket channel deletions are skipped, deletions that have
// started are waited for before the Discord connection is closed.
func (a *App) ShutdownHook(ctx context.Context) error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	errs := make([]error, 0)
	if err := a.tickets.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		errs = append(errs, fmt.Errorf("error unregistering slash commands: %w", err))
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	if err := a.store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error closing store: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Create event notifier. This is used to count events. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), authOptionNone, a)).Methods(http.MethodGet)

	// PathTicketMetrics is the ticket report of a guild.
	a.r.HandleFunc(PathTicketMetrics, middlewareHttp(ticketMetricsHandler(a), authOptionNone, a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + config.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]slashCommandController{
			ticketCmdName:  ticketCmdController,
			ticketsCmdName: ticketsCmdController,
		},
	))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

// registerSlashCommands registers the slash commands in a guild. It returns false if they were
// already registered.
func (a *App) registerSlashCommands(guildID string) (bool, error) {
	a.commandsMu.Lock()
	defer a.commandsMu.Unlock()

	if _, ok := a.commands[guildID]; ok {
		return false, nil
	}

	created, err := a.s.ApplicationCommandBulkOverwrite(config.ApplicationId, guildID, slashCommands)
	if err != nil {
		return false, fmt.Errorf("error creating commands for guild %s: %w", guildID, err)
	}
	a.commands[guildID] = created
	return true, nil
}

func (a *App) forgetGuild(guildID string) bool {
	a.commandsMu.Lock()
	defer a.commandsMu.Unlock()

	_, ok := a.commands[guildID]
	delete(a.commands, guildID)
	return ok
}

func (a *App) unregisterSlashCommands() error {
	a.commandsMu.Lock()
	defer a.commandsMu.Unlock()

	errs := make([]error, 0)
	for guildID, cmds := range a.commands {
		for _, cmd := range cmds {
			if err := a.s.ApplicationCommandDelete(config.ApplicationId, guildID, cmd.ID); err != nil {
				errs = append(errs, fmt.Errorf("error deleting command %s for guild %s: %w", cmd.Name, guildID, err))
			}
		}
		delete(a.commands, guildID)
	}
	return errors.Join(errs...)
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Tickets() *ticketing.Controller {
	return a.tickets
}
