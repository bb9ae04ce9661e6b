package ticketing

import (
	"fmt"
	"testing"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/stretchr/testify/require"
)

func TestController_CreateTicket_OpenTicketExists(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	channel := h.open(t, "owner", testCategory)

	h.clock.Advance(DefaultConfig().CreateCooldown)
	h.click("owner", nil, false, "", interactions.Open(testCategory))
	require.Equal(t, fmt.Sprintf(messages.ErrOpenTicketExists, channel), responseContent(h.messenger.lastResponse(t)))
	require.Len(t, h.messenger.channels, 1)

	// Once closed a new ticket can be opened.
	h.click("owner", nil, false, channel, interactions.Plain(interactions.KindCloseConfirm))
	next := h.open(t, "owner", testCategory)
	require.NotEqual(t, channel, next)
	require.Equal(t, 2, h.ticket(t, next).ID)
}

func TestController_CreateTicket_Cooldown(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	h.createCategory(t, "Ventas", testRole)
	h.open(t, "owner", testCategory)

	h.click("owner", nil, false, "", interactions.Open("Ventas"))
	require.Equal(t, messages.ErrCooldown, responseContent(h.messenger.lastResponse(t)))
	require.Len(t, h.messenger.channels, 1)

	// Other users are not affected.
	h.open(t, "other", "Ventas")

	h.clock.Advance(DefaultConfig().CreateCooldown)
	h.open(t, "owner", "Ventas")
}

func TestController_CreateTicket_ProvisioningFailure(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)

	h.messenger.createErr = errFake
	h.click("owner", nil, false, "", interactions.Open(testCategory))
	require.Equal(t, messages.ErrTicketProvisioning, responseContent(h.messenger.lastResponse(t)))

	tickets, err := h.store.ListTickets(h.ctx, testGuild)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, entities.StatusClosed, tickets[0].Status)
	require.True(t, tickets[0].IsAbandoned())
	require.Equal(t, []entities.Action{entities.ActionOpen, entities.ActionClose}, h.actions(t, 1))

	report, err := h.controller.Aggregator().ComputeMetrics(h.ctx, testGuild)
	require.NoError(t, err)
	require.Zero(t, report.CountsByStatus[entities.StatusOpen])
	require.Empty(t, report.CountsByCategory)

	// The abandoned ticket does not block the owner.
	h.messenger.createErr = nil
	h.clock.Advance(DefaultConfig().CreateCooldown)
	channel := h.open(t, "owner", testCategory)
	require.Equal(t, 2, h.ticket(t, channel).ID)
}

func TestController_CreateTicket_UnknownCategory(t *testing.T) {
	h := newHarness(t)

	h.click("owner", nil, false, "", interactions.Open("Nope"))
	require.Equal(t, messages.ErrCategoryMissing, responseContent(h.messenger.lastResponse(t)))
	require.Empty(t, h.messenger.channels)
}
