package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/request"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
	"github.com/gorilla/mux"
)

// slashCommandController is the handler for slash commands.
type slashCommandController func(a IApp, cmd string) (slashProcessor, error)

// slashProcessor is the processor for slash commands.
type slashProcessor func(ctx context.Context, a IApp, req *ticketing.Request, opts commandOptions) error

// authOption is an option for the auth middleware. It indicates the type of authentication required.
type authOption int

const (
	// authOptionNone indicates that no authentication is required.
	authOptionNone authOption = iota
)

// interactionTimeout bounds the handling of a single interaction.
const interactionTimeout = 30 * time.Second

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, _ authOption, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes slash commands to their controllers and message components to the
// ticket controller.
func interactionHandler(a IApp, controllers map[string]slashCommandController) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	slash := slashCommandHandler(a, controllers)

	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
		defer cancel()

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			monitoring.TotalInteractions.WithLabelValues("command", i.ApplicationCommandData().Name).Inc()
			slash(ctx, i)
		case discordgo.InteractionMessageComponent:
			monitoring.TotalInteractions.WithLabelValues("component", "").Inc()
			a.Tickets().HandleInteraction(ctx, i)
		}
	}
}

// slashCommandHandler is the handler for slash commands.
func slashCommandHandler(a IApp, controllers map[string]slashCommandController) func(ctx context.Context, i *discordgo.InteractionCreate) {
	return func(ctx context.Context, i *discordgo.InteractionCreate) {
		name := i.ApplicationCommandData().Name
		a.Log().Debug("Handling interaction " + name)

		controller, ok := controllers[name]
		if !ok {
			a.Log().Error(fmt.Sprintf("No controller found for command %s", name),
				slog.String("command", name))

			if err := respondSlashError(a, i); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		sub, opts := subCommand(i)
		processor, err := controller(a, sub)
		if err != nil {
			a.Log().Error(fmt.Sprintf("Error getting processor for command %s", name),
				slog.String(logging.KeyError, err.Error()))

			if err := respondSlashError(a, i); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		req, err := ticketing.NewRequest(i)
		if err != nil {
			if err := respondSlashEphemeral(a, i, messages.ErrGuildOnly); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		a.Tickets().Run(ctx, req, func(ctx context.Context, req *ticketing.Request) error {
			return processor(ctx, a, req, opts)
		})
	}
}
