package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	// StatusOpen is a ticket nobody has claimed yet.
	StatusOpen TicketStatus = "open"

	// StatusClaimed is a ticket assigned to a staff member.
	StatusClaimed TicketStatus = "claimed"

	// StatusClosed is a closed ticket. Closed tickets are never changed again.
	StatusClosed TicketStatus = "closed"
)

// Ticket is a ticket.
type Ticket struct {
	// ID is the number of the ticket. Numbers are allocated per guild, starting at 1.
	ID int `json:"id" bson:"id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// OwnerID is the ID of the user that created the ticket.
	OwnerID string `json:"owner_id" bson:"owner_id"`

	// Category is the name of the category the ticket was opened in.
	Category string `json:"category" bson:"category"`

	// ChannelID is the ID of the channel that the ticket is in. Empty until the channel exists.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// WelcomeMessageID is the ID of the message holding the ticket controls.
	WelcomeMessageID string `json:"welcome_message_id" bson:"welcome_message_id"`

	// Status is the current state of the ticket.
	Status TicketStatus `json:"status" bson:"status"`

	// ClaimedBy is the ID of the staff member that the ticket is assigned to.
	ClaimedBy string `json:"claimed_by" bson:"claimed_by"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// LastActivityAt is the time of the last change to the ticket.
	LastActivityAt time.Time `json:"last_activity_at" bson:"last_activity_at"`

	// ClosedAt is the time that the ticket was closed.
	ClosedAt *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Name is the channel name of the ticket, for example "billing-0012".
func (t *Ticket) Name() string {
	return fmt.Sprintf("%s-%04d", slug(t.Category), t.ID)
}

// IsClosed reports whether the ticket is closed.
func (t *Ticket) IsClosed() bool {
	return t.Status == StatusClosed
}

// IsAbandoned reports whether the ticket was closed before it got a channel.
func (t *Ticket) IsAbandoned() bool {
	return t.IsClosed() && t.ChannelID == ""
}

// IsClaimed reports whether the ticket is assigned to someone.
func (t *Ticket) IsClaimed() bool {
	return t.ClaimedBy != ""
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "ticket"
	}
	return out
}
