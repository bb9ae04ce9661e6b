package ticketing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketTransitions is the number of ticket lifecycle transitions.
	TicketTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_transitions_total",
			Help: "Total number of ticket lifecycle transitions",
		},
		[]string{"transition"},
	)

	// PermissionDenials is the number of denied ticket actions.
	PermissionDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_permission_denials_total",
			Help: "Total number of denied ticket actions",
		},
		[]string{"action", "reason"},
	)

	// LostRaces is the number of guarded writes that lost to a concurrent interaction.
	LostRaces = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_lost_races_total",
			Help: "Total number of ticket updates that lost to a concurrent update",
		},
		[]string{"transition"},
	)

	// ScheduledDeletions is the number of ticket channels waiting to be deleted.
	ScheduledDeletions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketing_scheduled_deletions",
			Help: "Number of ticket channels waiting to be deleted",
		},
	)
)
