package entities

import "time"

// Action is a ticket action recorded in the action log.
type Action string

const (
	// ActionOpen is recorded when a ticket is created.
	ActionOpen Action = "OPEN"

	// ActionClaim is recorded when a staff member claims a ticket.
	ActionClaim Action = "CLAIM"

	// ActionTransfer is recorded when a claimed ticket is handed to another staff member.
	ActionTransfer Action = "TRANSFER"

	// ActionClose is recorded when a ticket is closed.
	ActionClose Action = "CLOSE"
)

// ActionLogEntry is an entry in the append only action log of a ticket.
type ActionLogEntry struct {
	// GuildID is the ID of the guild the ticket belongs to.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// TicketID is the number of the ticket.
	TicketID int `json:"ticket_id" bson:"ticket_id"`

	// Action is the action that was performed.
	Action Action `json:"action" bson:"action"`

	// ExecutorID is the ID of the user that performed the action.
	ExecutorID string `json:"executor_id" bson:"executor_id"`

	// TargetID is the ID of the user the action was aimed at, for example a transfer target.
	TargetID string `json:"target_id,omitempty" bson:"target_id,omitempty"`

	// Timestamp is the time the action was performed.
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
