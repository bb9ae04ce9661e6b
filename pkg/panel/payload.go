// Package panel renders the ticket panel and keeps the published panel in sync with the
// categories of a guild.
package panel

import (
	"regexp"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/interactions"
	"github.com/Jacobbrewer1/warden/pkg/messages"
)

const (
	// ButtonsPerRow is the number of category buttons in an action row.
	ButtonsPerRow = 3

	// MaxRows is the number of action rows Discord allows on a message.
	MaxRows = 5

	// MaxButtons is the number of categories a panel can offer.
	MaxButtons = ButtonsPerRow * MaxRows

	// Color is the embed color of the panel.
	Color = 0x5865F2
)

// Payload is a rendered ticket panel.
type Payload struct {
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent

	// Omitted are the names of categories that could not be offered on the panel.
	Omitted []string
}

// BuildPayload renders the panel for the categories in the given order. The same categories
// always render the same payload.
func BuildPayload(categories []*entities.Category) *Payload {
	p := &Payload{
		Embed: &discordgo.MessageEmbed{
			Title:       messages.PanelTitle,
			Description: messages.PanelDescription,
			Color:       Color,
		},
		Components: make([]discordgo.MessageComponent, 0),
		Omitted:    make([]string, 0),
	}

	buttons := make([]discordgo.MessageComponent, 0, MaxButtons)
	for _, c := range categories {
		if len(buttons) == MaxButtons {
			p.Omitted = append(p.Omitted, c.Name)
			continue
		}

		id, err := interactions.Open(c.Name).Encode()
		if err != nil {
			p.Omitted = append(p.Omitted, c.Name)
			continue
		}

		buttons = append(buttons, discordgo.Button{
			Label:    c.Name,
			Style:    discordgo.PrimaryButton,
			Emoji:    ParseEmoji(c.Emoji),
			CustomID: id,
		})

		desc := c.Description
		if desc == "" {
			desc = "\u200b"
		}
		p.Embed.Fields = append(p.Embed.Fields, &discordgo.MessageEmbedField{
			Name:  fieldName(c),
			Value: desc,
		})
	}

	for start := 0; start < len(buttons); start += ButtonsPerRow {
		end := start + ButtonsPerRow
		if end > len(buttons) {
			end = len(buttons)
		}
		p.Components = append(p.Components, discordgo.ActionsRow{
			Components: buttons[start:end],
		})
	}

	return p
}

func fieldName(c *entities.Category) string {
	if c.Emoji == "" {
		return c.Name
	}
	return c.Emoji + " " + c.Name
}

var customEmoji = regexp.MustCompile(`^<(a?):([A-Za-z0-9_]+):(\d+)>$`)

// ParseEmoji converts a unicode emoji or a custom emoji mention ("<:name:id>") to a component
// emoji.
func ParseEmoji(raw string) discordgo.ComponentEmoji {
	if m := customEmoji.FindStringSubmatch(raw); m != nil {
		return discordgo.ComponentEmoji{
			Name:     m[2],
			ID:       m[3],
			Animated: m[1] == "a",
		}
	}
	return discordgo.ComponentEmoji{Name: raw}
}
