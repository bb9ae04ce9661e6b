package ticketing

import (
	"fmt"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/stretchr/testify/require"
)

func TestController_Lifecycle(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)

	channel := h.open(t, "owner", testCategory)

	resp := h.messenger.lastResponse(t)
	require.True(t, isPrivate(resp))
	require.Len(t, resp.Data.Embeds, 1)
	require.Equal(t, messages.TicketCreatedTitle, resp.Data.Embeds[0].Title)

	data := h.messenger.channels[0]
	require.Equal(t, "soporte-0001", data.Name)
	require.Equal(t, testContainer, data.ParentID)
	require.Len(t, data.PermissionOverwrites, 3)
	require.Equal(t, testGuild, data.PermissionOverwrites[0].ID)
	require.Equal(t, int64(discordgo.PermissionViewChannel), int64(data.PermissionOverwrites[0].Deny))
	require.Equal(t, "owner", data.PermissionOverwrites[1].ID)
	require.Equal(t, testRole, data.PermissionOverwrites[2].ID)

	ticket := h.ticket(t, channel)
	require.Equal(t, entities.StatusOpen, ticket.Status)
	require.NotEmpty(t, ticket.WelcomeMessageID)
	require.Len(t, h.messenger.sent[channel], 1)

	// Staff claims the ticket.
	h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindClaim))
	resp = h.messenger.lastResponse(t)
	require.False(t, isPrivate(resp))
	require.Equal(t, fmt.Sprintf(messages.TicketClaimed, "staff"), responseContent(resp))

	ticket = h.ticket(t, channel)
	require.Equal(t, entities.StatusClaimed, ticket.Status)
	require.Equal(t, "staff", ticket.ClaimedBy)
	require.NotEmpty(t, h.messenger.edits)
	require.Equal(t, ticket.WelcomeMessageID, h.messenger.edits[len(h.messenger.edits)-1].ID)

	// Other staff can neither claim nor close it.
	h.click("staff2", []string{testRole}, false, channel, interactions.Plain(interactions.KindClaim))
	resp = h.messenger.lastResponse(t)
	require.True(t, isPrivate(resp))
	require.Equal(t, fmt.Sprintf(messages.ErrAlreadyClaimed, "staff"), responseContent(resp))

	h.click("staff2", []string{testRole}, false, channel, interactions.Plain(interactions.KindClose))
	require.Equal(t, messages.ErrNoClosePermission, responseContent(h.messenger.lastResponse(t)))

	// The claimer closes it.
	h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindClose))
	resp = h.messenger.lastResponse(t)
	require.True(t, isPrivate(resp))
	require.Equal(t, []string{
		interactions.Plain(interactions.KindCloseConfirm).MustEncode(),
		interactions.Plain(interactions.KindCloseCancel).MustEncode(),
	}, customIDs(resp))

	h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindCloseConfirm))
	resp = h.messenger.lastResponse(t)
	require.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	require.Equal(t, messages.CloseDone, responseContent(resp))

	ticket = h.ticket(t, channel)
	require.Equal(t, entities.StatusClosed, ticket.Status)
	require.NotNil(t, ticket.ClosedAt)
	require.Equal(t, []entities.Action{entities.ActionOpen, entities.ActionClaim, entities.ActionClose}, h.actions(t, ticket.ID))

	sent := h.messenger.sent[channel]
	require.Equal(t, fmt.Sprintf(messages.TicketClosing, "staff", DefaultConfig().CloseGrace), sent[len(sent)-1].Content)

	dms := h.messenger.direct["owner"]
	require.Len(t, dms, 1)
	require.Len(t, dms[0].Files, 1)
	require.Equal(t, "transcript-soporte-0001.html", dms[0].Files[0].Name)

	// The channel is deleted once the grace period has passed.
	require.Empty(t, h.messenger.deleted)
	require.Equal(t, []string{channel}, h.controller.scheduler.Pending())
	h.clock.Advance(DefaultConfig().CloseGrace)
	require.Equal(t, []string{channel}, h.messenger.deleted)

	// Closed tickets can not be acted on.
	h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindClaim))
	require.Equal(t, messages.ErrTicketClosed, responseContent(h.messenger.lastResponse(t)))
}

func TestController_HandleInteraction_Ignored(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	before := h.messenger.responseCount()

	for _, id := range []string{"", "other/button", "tk/unknown", "tk/claim/extra", "tk/open"} {
		h.controller.HandleInteraction(h.ctx, componentInteraction("user", nil, false, "channel", id))
	}

	// Commands are not handled as components.
	h.controller.HandleInteraction(h.ctx, &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: testGuild,
			Member:  member("user", nil, false),
		},
	})

	// Direct messages are ignored.
	h.controller.HandleInteraction(h.ctx, &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			User: &discordgo.User{ID: "user"},
			Data: discordgo.MessageComponentInteractionData{CustomID: "tk/claim"},
		},
	})

	require.Equal(t, before, h.messenger.responseCount())
	require.Empty(t, h.messenger.channels)
}

func TestController_NotTicketChannel(t *testing.T) {
	h := newHarness(t)

	h.click("staff", []string{testRole}, false, "general", interactions.Plain(interactions.KindClaim))
	require.Equal(t, messages.ErrNotTicketChannel, responseContent(h.messenger.lastResponse(t)))
}

func TestController_Claim(t *testing.T) {
	t.Run("without staff role", func(t *testing.T) {
		h := newHarness(t)
		h.createCategory(t, testCategory, testRole)
		channel := h.open(t, "owner", testCategory)

		h.click("owner", nil, false, channel, interactions.Plain(interactions.KindClaim))
		require.Equal(t, messages.ErrNoClaimPermission, responseContent(h.messenger.lastResponse(t)))
		require.Equal(t, entities.StatusOpen, h.ticket(t, channel).Status)
	})

	t.Run("claim twice", func(t *testing.T) {
		h := newHarness(t)
		h.createCategory(t, testCategory, testRole)
		channel := h.open(t, "owner", testCategory)

		h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindClaim))
		h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindClaim))
		require.Equal(t, messages.ErrAlreadyClaimedBySelf, responseContent(h.messenger.lastResponse(t)))
		require.Len(t, h.actions(t, h.ticket(t, channel).ID), 2)
	})

	t.Run("administrator takes over", func(t *testing.T) {
		h := newHarness(t)
		h.createCategory(t, testCategory, testRole)
		channel := h.open(t, "owner", testCategory)

		h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindClaim))
		h.click("admin", nil, true, channel, interactions.Plain(interactions.KindClaim))
		require.Equal(t, fmt.Sprintf(messages.TicketClaimed, "admin"), responseContent(h.messenger.lastResponse(t)))

		ticket := h.ticket(t, channel)
		require.Equal(t, "admin", ticket.ClaimedBy)
		require.Equal(t, []entities.Action{entities.ActionOpen, entities.ActionClaim, entities.ActionClaim}, h.actions(t, ticket.ID))
	})
}

func TestController_CancelClose(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	channel := h.open(t, "owner", testCategory)

	// The owner may close an unclaimed ticket.
	h.click("owner", nil, false, channel, interactions.Plain(interactions.KindClose))
	require.Equal(t, messages.ClosePrompt, responseContent(h.messenger.lastResponse(t)))

	h.click("owner", nil, false, channel, interactions.Plain(interactions.KindCloseCancel))
	resp := h.messenger.lastResponse(t)
	require.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	require.Equal(t, messages.CloseCancelled, responseContent(resp))

	require.Equal(t, entities.StatusOpen, h.ticket(t, channel).Status)
	require.Empty(t, h.controller.scheduler.Pending())
	require.Equal(t, []entities.Action{entities.ActionOpen}, h.actions(t, h.ticket(t, channel).ID))
}

func TestController_CloseTwice(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	channel := h.open(t, "owner", testCategory)

	h.click("owner", nil, false, channel, interactions.Plain(interactions.KindCloseConfirm))
	require.Equal(t, messages.CloseDone, responseContent(h.messenger.lastResponse(t)))

	h.click("owner", nil, false, channel, interactions.Plain(interactions.KindCloseConfirm))
	require.Equal(t, messages.ErrTicketClosed, responseContent(h.messenger.lastResponse(t)))

	ticket := h.ticket(t, channel)
	require.Equal(t, []entities.Action{entities.ActionOpen, entities.ActionClose}, h.actions(t, ticket.ID))
}

func TestController_TranscriptToLogsChannel(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	require.NoError(t, h.controller.SetLogsChannel(h.ctx, commandRequest(admin(), ""), "logs"))
	require.Equal(t, fmt.Sprintf(messages.LogsChannelSet, "logs"), responseContent(h.messenger.lastResponse(t)))

	channel := h.open(t, "owner", testCategory)
	h.click("owner", nil, false, channel, interactions.Plain(interactions.KindCloseConfirm))

	logs := h.messenger.sent["logs"]
	require.Len(t, logs, 1)
	require.Equal(t, fmt.Sprintf(messages.TranscriptLog, "soporte-0001", "owner", "owner"), logs[0].Content)
	require.Len(t, logs[0].Files, 1)
}

func TestController_Shutdown(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	channel := h.open(t, "owner", testCategory)

	h.click("owner", nil, false, channel, interactions.Plain(interactions.KindCloseConfirm))
	require.Len(t, h.controller.scheduler.Pending(), 1)

	require.NoError(t, h.controller.Shutdown(h.ctx))
	h.clock.Advance(DefaultConfig().CloseGrace)

	require.Empty(t, h.messenger.deleted)
	require.Empty(t, h.controller.scheduler.Pending())
}

func TestController_RemovedCategory(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	channel := h.open(t, "owner", testCategory)

	require.NoError(t, h.controller.RemoveCategory(h.ctx, commandRequest(admin(), ""), testCategory))
	require.Equal(t, fmt.Sprintf(messages.CategoryRemoved, testCategory), responseContent(h.messenger.lastResponse(t)))

	// Without the category there are no staff roles left.
	h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindClaim))
	require.Equal(t, messages.ErrNoClaimPermission, responseContent(h.messenger.lastResponse(t)))

	h.click("admin", nil, true, channel, interactions.Plain(interactions.KindClaim))
	require.Equal(t, "admin", h.ticket(t, channel).ClaimedBy)

	// New tickets can not be opened in it.
	h.click("other", nil, false, "", interactions.Open(testCategory))
	require.Equal(t, messages.ErrCategoryMissing, responseContent(h.messenger.lastResponse(t)))
}
