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

func TestController_AdminOnly(t *testing.T) {
	h := newHarness(t)
	req := commandRequest(staff("staff"), "")

	tests := []struct {
		name string
		run  func() error
	}{
		{"create", func() error {
			return h.controller.CreateCategory(h.ctx, req, &entities.Category{Name: "x", RoleIDs: entities.NewRoleSet(testRole)})
		}},
		{"remove", func() error { return h.controller.RemoveCategory(h.ctx, req, "x") }},
		{"update", func() error { return h.controller.UpdateCategory(h.ctx, req, "x", &entities.CategoryUpdate{}) }},
		{"add role", func() error { return h.controller.AddRoleToCategory(h.ctx, req, "x", "r") }},
		{"list", func() error { return h.controller.ListCategories(h.ctx, req) }},
		{"panel", func() error { return h.controller.SendPanel(h.ctx, req, "panel") }},
		{"logs", func() error { return h.controller.SetLogsChannel(h.ctx, req, "logs") }},
		{"metrics", func() error { return h.controller.Metrics(h.ctx, req) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.run())
			require.Equal(t, messages.ErrNotAdministrator, responseContent(h.messenger.lastResponse(t)))
		})
	}

	categories, err := h.store.ListCategories(h.ctx, testGuild)
	require.NoError(t, err)
	require.Empty(t, categories)
}

func TestController_CategoryCommands(t *testing.T) {
	h := newHarness(t)
	req := commandRequest(admin(), "")

	h.createCategory(t, testCategory, testRole)
	require.Equal(t, fmt.Sprintf(messages.CategoryCreated, testCategory), responseContent(h.messenger.lastResponse(t)))

	// Duplicate names are rejected.
	require.NoError(t, h.controller.CreateCategory(h.ctx, req, &entities.Category{
		Name:    testCategory,
		RoleIDs: entities.NewRoleSet(testRole),
	}))
	require.Equal(t, fmt.Sprintf(messages.ErrDuplicateCategory, testCategory), responseContent(h.messenger.lastResponse(t)))

	// Categories need a staff role.
	require.NoError(t, h.controller.CreateCategory(h.ctx, req, &entities.Category{Name: "Ventas"}))
	require.Equal(t,
		fmt.Sprintf(messages.ErrInvalidCategory, entities.ErrCategoryRolesRequired.Error()),
		responseContent(h.messenger.lastResponse(t)),
	)

	// At most three roles.
	require.NoError(t, h.controller.AddRoleToCategory(h.ctx, req, testCategory, "r2"))
	require.Equal(t, fmt.Sprintf(messages.CategoryRoleAdded, "r2", testCategory), responseContent(h.messenger.lastResponse(t)))
	require.NoError(t, h.controller.AddRoleToCategory(h.ctx, req, testCategory, "r3"))
	require.NoError(t, h.controller.AddRoleToCategory(h.ctx, req, testCategory, "r4"))
	require.Equal(t, messages.ErrRoleLimit, responseContent(h.messenger.lastResponse(t)))

	category, err := h.store.GetCategoryByName(h.ctx, testGuild, testCategory)
	require.NoError(t, err)
	require.Equal(t, entities.RoleSet{testRole, "r2", "r3"}, category.RoleIDs)

	// Rename.
	name := "Support"
	require.NoError(t, h.controller.UpdateCategory(h.ctx, req, testCategory, &entities.CategoryUpdate{Name: &name}))
	require.Equal(t, fmt.Sprintf(messages.CategoryUpdated, name), responseContent(h.messenger.lastResponse(t)))

	require.NoError(t, h.controller.UpdateCategory(h.ctx, req, testCategory, &entities.CategoryUpdate{Name: &name}))
	require.Equal(t, fmt.Sprintf(messages.ErrCategoryNotFound, testCategory), responseContent(h.messenger.lastResponse(t)))

	require.NoError(t, h.controller.ListCategories(h.ctx, req))
	resp := h.messenger.lastResponse(t)
	require.Len(t, resp.Data.Embeds, 1)
	require.Len(t, resp.Data.Embeds[0].Fields, 1)
	require.Contains(t, resp.Data.Embeds[0].Fields[0].Name, name)

	require.NoError(t, h.controller.RemoveCategory(h.ctx, req, testCategory))
	require.Equal(t, fmt.Sprintf(messages.ErrCategoryNotFound, testCategory), responseContent(h.messenger.lastResponse(t)))

	require.NoError(t, h.controller.RemoveCategory(h.ctx, req, name))
	require.NoError(t, h.controller.ListCategories(h.ctx, req))
	require.Equal(t, messages.ErrNoCategories, responseContent(h.messenger.lastResponse(t)))
}

func TestController_SendPanel(t *testing.T) {
	h := newHarness(t)
	req := commandRequest(admin(), "")

	require.NoError(t, h.controller.SendPanel(h.ctx, req, "panel-channel"))
	require.Equal(t, messages.ErrNoCategories, responseContent(h.messenger.lastResponse(t)))

	h.createCategory(t, testCategory, testRole)

	// Nothing is published until the prompt is confirmed.
	require.NoError(t, h.controller.SendPanel(h.ctx, req, "panel-channel"))
	resp := h.messenger.lastResponse(t)
	require.True(t, isPrivate(resp))
	require.Equal(t, fmt.Sprintf(messages.PanelPrompt, "panel-channel"), responseContent(resp))
	require.Len(t, resp.Data.Embeds, 1)
	require.Empty(t, h.messenger.panels)

	confirm := sessionOf(t, resp)
	require.Equal(t, interactions.KindPanelConfirm, confirm.Kind)

	// Only administrators can confirm.
	h.click("staff", []string{testRole}, false, "", confirm)
	require.Equal(t, messages.ErrNotAdministrator, responseContent(h.messenger.lastResponse(t)))
	require.Empty(t, h.messenger.panels)

	require.NoError(t, h.controller.SendPanel(h.ctx, req, "panel-channel"))
	confirm = sessionOf(t, h.messenger.lastResponse(t))
	h.click("admin", nil, true, "", confirm)
	resp = h.messenger.lastResponse(t)
	require.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	require.Equal(t, fmt.Sprintf(messages.PanelSent, "panel-channel"), responseContent(resp))
	require.Len(t, h.messenger.panels, 1)
	require.Len(t, h.messenger.panels[0].Components, 1)

	binding, err := h.store.GetPanelBinding(h.ctx, testGuild)
	require.NoError(t, err)
	require.Equal(t, "panel-channel", binding.ChannelID)
	require.NotEmpty(t, binding.MessageID)

	guild, err := h.store.GetGuildSettings(h.ctx, testGuild)
	require.NoError(t, err)
	require.Equal(t, binding.MessageID, guild.Ticketing.PanelMessageID)

	// Category changes refresh the bound panel.
	h.createCategory(t, "Ventas", testRole)
	require.Len(t, h.messenger.panels, 2)
	require.Len(t, h.messenger.panels[1].Embed.Fields, 2)
}

func TestController_SendPanel_Cancel(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)

	require.NoError(t, h.controller.SendPanel(h.ctx, commandRequest(admin(), ""), "panel-channel"))
	ids := customIDs(h.messenger.lastResponse(t))
	require.Len(t, ids, 2)

	cancel, ok := interactions.Decode(ids[1])
	require.True(t, ok)
	require.Equal(t, interactions.KindPanelCancel, cancel.Kind)

	h.click("admin", nil, true, "", cancel)
	require.Equal(t, messages.PanelCancelled, responseContent(h.messenger.lastResponse(t)))
	require.Zero(t, h.controller.panels.len())
	require.Empty(t, h.messenger.panels)

	_, err := h.store.GetPanelBinding(h.ctx, testGuild)
	require.Error(t, err)
}

func TestController_Metrics(t *testing.T) {
	h := newHarness(t)
	h.createCategory(t, testCategory, testRole)
	channel := h.open(t, "owner", testCategory)

	h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindClaim))
	h.clock.Advance(DefaultConfig().CloseGrace)
	h.click("staff", []string{testRole}, false, channel, interactions.Plain(interactions.KindCloseConfirm))

	require.NoError(t, h.controller.Metrics(h.ctx, commandRequest(admin(), "")))
	resp := h.messenger.lastResponse(t)
	require.Len(t, resp.Data.Embeds, 1)

	fields := resp.Data.Embeds[0].Fields
	require.Len(t, fields, 3)
	require.Equal(t, fmt.Sprintf("%s: 1", testCategory), fields[1].Value)
	require.Equal(t, "1. <@staff> (1)", fields[2].Value)

	report, err := h.controller.Aggregator().ComputeMetrics(h.ctx, testGuild)
	require.NoError(t, err)
	require.Equal(t, 1, report.CountsByCategory[testCategory])
}
