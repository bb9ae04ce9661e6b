package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/sqlstore"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func closedTicket(id int, category string, d time.Duration) (*entities.Ticket, *entities.ActionLogEntry) {
	end := start.Add(d)
	t := &entities.Ticket{ID: id, GuildID: "g", ChannelID: fmt.Sprintf("c%d", id), Category: category, Status: entities.StatusClosed, CreatedAt: start, ClosedAt: &end}
	return t, &entities.ActionLogEntry{TicketID: id, Action: entities.ActionClose, Timestamp: end}
}

func claim(ticketID int, staff string) *entities.ActionLogEntry {
	return &entities.ActionLogEntry{TicketID: ticketID, Action: entities.ActionClaim, ExecutorID: staff, Timestamp: start}
}

func TestCompute_NoClosedTickets(t *testing.T) {
	r := Compute([]*entities.Ticket{
		{ID: 1, Category: "Billing", Status: entities.StatusOpen, CreatedAt: start},
	}, nil, start)

	require.Zero(t, r.AvgResolutionMinutes)
	require.Equal(t, map[string]int{"Billing": 1}, r.CountsByCategory)
	require.Empty(t, r.TopStaff)
}

func TestCompute_Empty(t *testing.T) {
	r := Compute(nil, nil, start)
	require.Zero(t, r.AvgResolutionMinutes)
	require.Empty(t, r.CountsByCategory)
	require.True(t, start.Equal(r.GeneratedAt.Time()))
}

func TestCompute_Resolution(t *testing.T) {
	t1, c1 := closedTicket(1, "Billing", 37*time.Minute)
	r := Compute([]*entities.Ticket{t1}, []*entities.ActionLogEntry{c1}, start)
	require.Equal(t, 37.0, r.AvgResolutionMinutes)

	t2, c2 := closedTicket(2, "Sales", 13*time.Minute)
	open := &entities.Ticket{ID: 3, Category: "Sales", Status: entities.StatusClaimed, CreatedAt: start}
	r = Compute([]*entities.Ticket{t1, t2, open}, []*entities.ActionLogEntry{c1, c2}, start)
	require.Equal(t, 25.0, r.AvgResolutionMinutes)
	require.Equal(t, map[string]int{"Billing": 1, "Sales": 2}, r.CountsByCategory)
	require.Equal(t, 2, r.CountsByStatus[entities.StatusClosed])
	require.Equal(t, 1, r.CountsByStatus[entities.StatusClaimed])
}

func TestCompute_ClosedAtFallback(t *testing.T) {
	t1, _ := closedTicket(1, "Billing", 10*time.Minute)
	r := Compute([]*entities.Ticket{t1}, nil, start)
	require.Equal(t, 10.0, r.AvgResolutionMinutes)
}

func TestCompute_SkipsAbandoned(t *testing.T) {
	t1, c1 := closedTicket(1, "Billing", 20*time.Minute)
	abandoned := &entities.Ticket{ID: 2, GuildID: "g", Category: "Billing", Status: entities.StatusClosed, CreatedAt: start, ClosedAt: &start}

	r := Compute([]*entities.Ticket{t1, abandoned}, []*entities.ActionLogEntry{
		c1,
		{TicketID: 2, Action: entities.ActionClose, Timestamp: start},
	}, start)
	require.Equal(t, 20.0, r.AvgResolutionMinutes)
	require.Equal(t, map[string]int{"Billing": 1}, r.CountsByCategory)
	require.Equal(t, map[entities.TicketStatus]int{entities.StatusClosed: 1}, r.CountsByStatus)
}

func TestCompute_TopStaff(t *testing.T) {
	actions := []*entities.ActionLogEntry{
		claim(1, "e"), claim(2, "e"), claim(3, "e"),
		claim(4, "b"), claim(5, "b"),
		claim(6, "a"), claim(7, "a"),
		claim(8, "d"),
		claim(9, "c"),
		claim(10, "f"),
		{TicketID: 10, Action: entities.ActionTransfer, ExecutorID: "f", TargetID: "z"},
	}

	r := Compute(nil, actions, start)
	require.Equal(t, []StaffCount{
		{StaffID: "e", Claims: 3},
		{StaffID: "a", Claims: 2},
		{StaffID: "b", Claims: 2},
		{StaffID: "c", Claims: 1},
		{StaffID: "d", Claims: 1},
	}, r.TopStaff)
}

func TestAggregator_ComputeMetrics(t *testing.T) {
	clk := clock.Fake(start)
	s, err := sqlstore.Open(":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)), sqlstore.WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	ctx := context.Background()
	require.NoError(t, s.CreateCategory(ctx, &entities.Category{GuildID: "g", Name: "Billing", RoleIDs: entities.RoleSet{"R"}}))

	ticket, err := s.CreateTicket(ctx, "g", "U", "Billing")
	require.NoError(t, err)
	require.NoError(t, s.AttachChannel(ctx, "g", ticket.ID, "c1"))

	ok, err := s.AssignTicket(ctx, &dataaccess.Assignment{ChannelID: "c1", ExecutorID: "S", ClaimerID: "S", Action: entities.ActionClaim})
	require.NoError(t, err)
	require.True(t, ok)

	clk.Advance(37 * time.Minute)
	ok, err = s.CloseTicket(ctx, "c1", "S")
	require.NoError(t, err)
	require.True(t, ok)

	r, err := NewAggregator(s, clk).ComputeMetrics(ctx, "g")
	require.NoError(t, err)
	require.Equal(t, "g", r.GuildID)
	require.InDelta(t, 37.0, r.AvgResolutionMinutes, 0.001)
	require.Equal(t, map[string]int{"Billing": 1}, r.CountsByCategory)
	require.Equal(t, []StaffCount{{StaffID: "S", Claims: 1}}, r.TopStaff)
}
