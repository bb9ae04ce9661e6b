package ticketing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/sqlstore"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/panel"
	"github.com/stretchr/testify/require"
)

const (
	testGuild     = "guild"
	testRole      = "role-staff"
	testContainer = "container"
	testCategory  = "Soporte"
)

var errFake = errors.New("fake failure")

// fakeMessenger records everything the controller sends to Discord.
type fakeMessenger struct {
	mu sync.Mutex

	responses []*discordgo.InteractionResponse
	channels  []discordgo.GuildChannelCreateData
	created   []string
	deleted   []string
	sent      map[string][]*discordgo.MessageSend
	edits     []*discordgo.MessageEdit
	direct    map[string][]*discordgo.MessageSend
	panels    []*panel.Payload
	members   []*discordgo.Member
	nextID    int

	createErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		sent:   make(map[string][]*discordgo.MessageSend),
		direct: make(map[string][]*discordgo.MessageSend),
	}
}

func (f *fakeMessenger) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeMessenger) Respond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeMessenger) CreateChannel(_ string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.channels = append(f.channels, data)
	id := f.id("channel")
	f.created = append(f.created, id)
	return &discordgo.Channel{ID: id, Name: data.Name}, nil
}

func (f *fakeMessenger) DeleteChannel(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakeMessenger) SendMessage(channelID string, m *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[channelID] = append(f.sent[channelID], m)
	return &discordgo.Message{ID: f.id("message"), ChannelID: channelID}, nil
}

func (f *fakeMessenger) EditMessage(m *discordgo.MessageEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, m)
	return nil
}

func (f *fakeMessenger) SendDirect(userID string, m *discordgo.MessageSend) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct[userID] = append(f.direct[userID], m)
	return nil
}

func (f *fakeMessenger) History(string, int) ([]*discordgo.Message, error) {
	return []*discordgo.Message{
		{Author: &discordgo.User{ID: "user", Username: "user"}, Content: "**second**"},
		{Author: &discordgo.User{ID: "user", Username: "user"}, Content: "first"},
	}, nil
}

func (f *fakeMessenger) Members(string) ([]*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members, nil
}

func (f *fakeMessenger) SendPanel(_ string, p *panel.Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panels = append(f.panels, p)
	return f.id("panel"), nil
}

func (f *fakeMessenger) EditPanel(_, _ string, p *panel.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panels = append(f.panels, p)
	return nil
}

func (f *fakeMessenger) lastResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.responses, "no interaction response")
	return f.responses[len(f.responses)-1]
}

func (f *fakeMessenger) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeMessenger) responseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.responses)
}

type harness struct {
	ctx        context.Context
	clock      *clock.FakeClock
	store      *sqlstore.Store
	messenger  *fakeMessenger
	controller *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.Fake(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	store, err := sqlstore.Open(":memory:", l, sqlstore.WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close(context.Background()))
	})

	m := newFakeMessenger()
	return &harness{
		ctx:        context.Background(),
		clock:      clk,
		store:      store,
		messenger:  m,
		controller: NewController(l, store, m, DefaultConfig(), clk),
	}
}

// createCategory creates the test category as an administrator.
func (h *harness) createCategory(t *testing.T, name string, roles ...string) {
	t.Helper()

	err := h.controller.CreateCategory(h.ctx, commandRequest(admin(), ""), &entities.Category{
		Name:              name,
		Description:       name + " tickets",
		Emoji:             "\U0001F3AB",
		RoleIDs:           entities.NewRoleSet(roles...),
		TargetContainerID: testContainer,
	})
	require.NoError(t, err)
}

// open opens a ticket through the panel button and returns its channel.
func (h *harness) open(t *testing.T, owner string, category string) string {
	t.Helper()

	before := h.messenger.createdCount()
	h.click(owner, nil, false, "", interactions.Open(category))

	h.messenger.mu.Lock()
	defer h.messenger.mu.Unlock()
	require.Len(t, h.messenger.created, before+1, "no ticket channel created")
	return h.messenger.created[before]
}

// click sends a component interaction.
func (h *harness) click(userID string, roles []string, administrator bool, channelID string, a interactions.Action, values ...string) {
	h.controller.HandleInteraction(h.ctx, componentInteraction(userID, roles, administrator, channelID, a.MustEncode(), values...))
}

func (h *harness) ticket(t *testing.T, channelID string) *entities.Ticket {
	t.Helper()

	ticket, err := h.store.GetByChannel(h.ctx, channelID)
	require.NoError(t, err)
	return ticket
}

func (h *harness) actions(t *testing.T, ticketID int) []entities.Action {
	t.Helper()

	entries, err := h.store.TicketActions(h.ctx, testGuild, ticketID)
	require.NoError(t, err)

	out := make([]entities.Action, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

func member(userID string, roles []string, administrator bool) *discordgo.Member {
	m := &discordgo.Member{
		User:  &discordgo.User{ID: userID, Username: userID},
		Roles: roles,
	}
	if administrator {
		m.Permissions = discordgo.PermissionAdministrator
	}
	return m
}

func componentInteraction(userID string, roles []string, administrator bool, channelID, customID string, values ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction",
			Type:      discordgo.InteractionMessageComponent,
			GuildID:   testGuild,
			ChannelID: channelID,
			Member:    member(userID, roles, administrator),
			Data: discordgo.MessageComponentInteractionData{
				CustomID: customID,
				Values:   values,
			},
		},
	}
}

type actor struct {
	id            string
	roles         []string
	administrator bool
}

func admin() actor { return actor{id: "admin", administrator: true} }

func staff(id string) actor { return actor{id: id, roles: []string{testRole}} }

// commandRequest builds the request of a slash command.
func commandRequest(a actor, channelID string) *Request {
	req, err := NewRequest(&discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "command",
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuild,
			ChannelID: channelID,
			Member:    member(a.id, a.roles, a.administrator),
		},
	})
	if err != nil {
		panic(err)
	}
	return req
}

func responseContent(resp *discordgo.InteractionResponse) string {
	if resp == nil || resp.Data == nil {
		return ""
	}
	return resp.Data.Content
}

func isPrivate(resp *discordgo.InteractionResponse) bool {
	return resp.Data != nil && resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}

// customIDs returns the custom IDs of the buttons and menus of a response.
func customIDs(resp *discordgo.InteractionResponse) []string {
	ids := make([]string, 0)
	if resp.Data == nil {
		return ids
	}
	for _, row := range resp.Data.Components {
		r, ok := row.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range r.Components {
			switch v := c.(type) {
			case discordgo.Button:
				ids = append(ids, v.CustomID)
			case discordgo.SelectMenu:
				ids = append(ids, v.CustomID)
			}
		}
	}
	return ids
}

// sessionOf decodes the action of the first component of a response.
func sessionOf(t *testing.T, resp *discordgo.InteractionResponse) interactions.Action {
	t.Helper()

	ids := customIDs(resp)
	require.NotEmpty(t, ids)
	a, ok := interactions.Decode(ids[0])
	require.True(t, ok)
	return a
}
