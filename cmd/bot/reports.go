package main

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/request"
	"github.com/Jacobbrewer1/warden/pkg/stats"
	"github.com/gorilla/mux"
)

// reportSource computes the ticket report of a guild.
type reportSource interface {
	Log() *slog.Logger
	Reports() *stats.Aggregator
}

func (a *App) Reports() *stats.Aggregator {
	return a.tickets.Aggregator()
}

// ticketMetricsHandler serves the ticket report of the guild in the path.
func ticketMetricsHandler(a reportSource) Controller {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := mux.Vars(r)["guildID"]
		if _, err := strconv.ParseUint(guildID, 10, 64); err != nil {
			request.Encode(a.Log(), w, http.StatusBadRequest, request.NewMessageError("guild id must be a snowflake", err))
			return
		}

		report, err := a.Reports().ComputeMetrics(r.Context(), guildID)
		if err != nil {
			a.Log().Error("Error computing ticket metrics",
				slog.String(logging.KeyGuild, guildID),
				slog.String(logging.KeyError, err.Error()),
			)
			request.Encode(a.Log(), w, http.StatusInternalServerError, request.NewMessage(request.ErrInternalServer.Error()))
			return
		}

		request.Encode(a.Log(), w, http.StatusOK, report)
	}
}
