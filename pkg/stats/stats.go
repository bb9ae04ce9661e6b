// Package stats aggregates ticket metrics for a guild.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/custom"
	"github.com/Jacobbrewer1/warden/pkg/entities"
)

// MaxTopStaff is the number of staff members ranked in a report.
const MaxTopStaff = 5

// StaffCount is the number of tickets a staff member claimed.
type StaffCount struct {
	StaffID string `json:"staff_id"`
	Claims  int    `json:"claims"`
}

// Report is the ticket metrics of a guild.
type Report struct {
	GuildID string `json:"guild_id"`

	// AvgResolutionMinutes is the mean time between creating and closing a ticket, over all
	// closed tickets. Zero when no ticket was closed.
	AvgResolutionMinutes float64 `json:"avg_resolution_minutes"`

	// CountsByCategory is the number of tickets opened per category. Tickets abandoned before
	// they got a channel are not counted anywhere in the report.
	CountsByCategory map[string]int `json:"counts_by_category"`

	// CountsByStatus is the number of tickets per status.
	CountsByStatus map[entities.TicketStatus]int `json:"counts_by_status"`

	// TopStaff ranks staff by claims, most first. Equal counts are ordered by staff ID.
	TopStaff []StaffCount `json:"top_staff"`

	GeneratedAt custom.Datetime `json:"generated_at"`
}

// Compute builds the report of the given tickets and their action log.
func Compute(tickets []*entities.Ticket, actions []*entities.ActionLogEntry, now time.Time) *Report {
	r := &Report{
		CountsByCategory: make(map[string]int),
		CountsByStatus:   make(map[entities.TicketStatus]int),
		TopStaff:         make([]StaffCount, 0),
		GeneratedAt:      custom.NewDatetime(now),
	}

	closedAt := make(map[int]time.Time)
	claims := make(map[string]int)
	for _, a := range actions {
		switch a.Action {
		case entities.ActionClose:
			if _, ok := closedAt[a.TicketID]; !ok {
				closedAt[a.TicketID] = a.Timestamp
			}
		case entities.ActionClaim:
			claims[a.ExecutorID]++
		}
	}

	var (
		total  time.Duration
		closed int
	)
	for _, t := range tickets {
		if r.GuildID == "" {
			r.GuildID = t.GuildID
		}
		if t.IsAbandoned() {
			continue
		}
		r.CountsByCategory[t.Category]++
		r.CountsByStatus[t.Status]++

		if !t.IsClosed() {
			continue
		}

		end, ok := closedAt[t.ID]
		if !ok && t.ClosedAt != nil {
			end, ok = *t.ClosedAt, true
		}
		if !ok {
			continue
		}
		total += end.Sub(t.CreatedAt)
		closed++
	}

	if closed > 0 {
		r.AvgResolutionMinutes = total.Minutes() / float64(closed)
	}

	for id, n := range claims {
		r.TopStaff = append(r.TopStaff, StaffCount{StaffID: id, Claims: n})
	}
	sort.Slice(r.TopStaff, func(i, j int) bool {
		if r.TopStaff[i].Claims != r.TopStaff[j].Claims {
			return r.TopStaff[i].Claims > r.TopStaff[j].Claims
		}
		return r.TopStaff[i].StaffID < r.TopStaff[j].StaffID
	})
	if len(r.TopStaff) > MaxTopStaff {
		r.TopStaff = r.TopStaff[:MaxTopStaff]
	}

	return r
}

// Store is the data the aggregator reads.
type Store interface {
	ListTickets(ctx context.Context, guildID string) ([]*entities.Ticket, error)
	ListActions(ctx context.Context, guildID string) ([]*entities.ActionLogEntry, error)
}

// Aggregator computes guild reports from the ticket store.
type Aggregator struct {
	store Store
	clock clock.Clock
}

// NewAggregator creates a new aggregator.
func NewAggregator(store Store, clk clock.Clock) *Aggregator {
	if clk == nil {
		clk = clock.Real()
	}
	return &Aggregator{
		store: store,
		clock: clk,
	}
}

// ComputeMetrics computes the report of a guild.
func (a *Aggregator) ComputeMetrics(ctx context.Context, guildID string) (*Report, error) {
	tickets, err := a.store.ListTickets(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}

	actions, err := a.store.ListActions(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing actions: %w", err)
	}

	r := Compute(tickets, actions, a.clock.Now())
	r.GuildID = guildID
	return r, nil
}
