package panel

import (
	"fmt"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/stretchr/testify/require"
)

func categories(n int) []*entities.Category {
	out := make([]*entities.Category, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &entities.Category{
			Name:        fmt.Sprintf("Category %d", i+1),
			Description: "desc",
			Emoji:       "🎫",
			RoleIDs:     entities.RoleSet{"R"},
		})
	}
	return out
}

func rowSizes(p *Payload) []int {
	sizes := make([]int, 0, len(p.Components))
	for _, c := range p.Components {
		sizes = append(sizes, len(c.(discordgo.ActionsRow).Components))
	}
	return sizes
}

func TestBuildPayload_Rows(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		rows    []int
		omitted int
	}{
		{name: "empty", count: 0, rows: []int{}, omitted: 0},
		{name: "partial row", count: 4, rows: []int{3, 1}, omitted: 0},
		{name: "full rows", count: 6, rows: []int{3, 3}, omitted: 0},
		{name: "row limit", count: 17, rows: []int{3, 3, 3, 3, 3}, omitted: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPayload(categories(tt.count))
			require.Equal(t, tt.rows, rowSizes(p))
			require.Len(t, p.Omitted, tt.omitted)
			require.Len(t, p.Embed.Fields, tt.count-tt.omitted)
		})
	}
}

func TestBuildPayload_Buttons(t *testing.T) {
	p := BuildPayload([]*entities.Category{
		{Name: "Billing", Emoji: "💳"},
		{Name: "Partners", Emoji: "<:partner:1234>"},
	})

	row := p.Components[0].(discordgo.ActionsRow)
	first := row.Components[0].(discordgo.Button)
	require.Equal(t, "Billing", first.Label)
	require.Equal(t, "💳", first.Emoji.Name)

	action, ok := interactions.Decode(first.CustomID)
	require.True(t, ok)
	require.Equal(t, interactions.Open("Billing"), action)

	second := row.Components[1].(discordgo.Button)
	require.Equal(t, discordgo.ComponentEmoji{Name: "partner", ID: "1234"}, second.Emoji)
}

func TestBuildPayload_Deterministic(t *testing.T) {
	in := categories(8)
	require.Equal(t, BuildPayload(in), BuildPayload(in))
}

func TestParseEmoji(t *testing.T) {
	require.Equal(t, discordgo.ComponentEmoji{Name: "🎫"}, ParseEmoji("🎫"))
	require.Equal(t, discordgo.ComponentEmoji{Name: "wave", ID: "42", Animated: true}, ParseEmoji("<a:wave:42>"))
	require.Equal(t, discordgo.ComponentEmoji{}, ParseEmoji(""))
}
