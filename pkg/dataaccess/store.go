package dataaccess

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/warden/pkg/entities"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a category name is already used in a guild.
	ErrDuplicateName = errors.New("duplicate category name")

	// ErrCategoryMissing is returned when a ticket is created for a category that does not exist.
	ErrCategoryMissing = errors.New("category missing")

	// ErrChannelAlreadyBound is returned when a ticket already has a channel.
	ErrChannelAlreadyBound = errors.New("ticket already has a channel")

	// ErrRoleLimit is returned when a category already has the maximum number of roles.
	ErrRoleLimit = errors.New("category role limit reached")
)

// Assignment is a request to assign a ticket to a staff member.
type Assignment struct {
	// ChannelID is the channel of the ticket.
	ChannelID string

	// ExecutorID is the member performing the assignment.
	ExecutorID string

	// ClaimerID is the member the ticket is assigned to.
	ClaimerID string

	// Action is the action logged for the assignment, either CLAIM or TRANSFER.
	Action entities.Action

	// ExpectedClaimer is the claimer observed before the assignment, empty for an unclaimed ticket.
	// The assignment is only written if the ticket is still claimed by this member.
	ExpectedClaimer string
}

// Entry returns the action log entry recorded for the assignment.
func (a *Assignment) Entry(ticket *entities.Ticket) *entities.ActionLogEntry {
	e := &entities.ActionLogEntry{
		GuildID:    ticket.GuildID,
		TicketID:   ticket.ID,
		Action:     a.Action,
		ExecutorID: a.ExecutorID,
	}
	if a.Action == entities.ActionTransfer {
		e.TargetID = a.ClaimerID
	}
	return e
}

// CategoryStore stores ticket categories.
type CategoryStore interface {
	// CreateCategory creates a category. It returns ErrDuplicateName when the name is taken.
	CreateCategory(ctx context.Context, category *entities.Category) error

	// UpdateCategory applies a partial update to a category. It returns false when the category
	// does not exist.
	UpdateCategory(ctx context.Context, guildID, name string, upd *entities.CategoryUpdate) (bool, error)

	// RemoveCategory removes a category. It returns false when the category does not exist.
	// Tickets opened in the category are kept.
	RemoveCategory(ctx context.Context, guildID, name string) (bool, error)

	// AddRoleToCategory adds a staff role to a category. It returns false when the category does
	// not exist and ErrRoleLimit when the category is full.
	AddRoleToCategory(ctx context.Context, guildID, name, roleID string) (bool, error)

	// GetCategoryByName gets a category by name.
	GetCategoryByName(ctx context.Context, guildID, name string) (*entities.Category, error)

	// ListCategories lists the categories of a guild ordered by creation.
	ListCategories(ctx context.Context, guildID string) ([]*entities.Category, error)
}

// TicketStore stores tickets and their action log.
type TicketStore interface {
	// CreateTicket creates an open ticket with the next ticket number of the guild and logs OPEN.
	// It returns ErrCategoryMissing when the category does not exist.
	CreateTicket(ctx context.Context, guildID, ownerID, categoryName string) (*entities.Ticket, error)

	// AttachChannel binds the ticket to its channel. A ticket can only be bound once.
	AttachChannel(ctx context.Context, guildID string, ticketID int, channelID string) error

	// AbandonTicket closes a ticket that never got a channel and logs CLOSE. It returns false when
	// the ticket does not exist, is closed, or is bound to a channel.
	AbandonTicket(ctx context.Context, guildID string, ticketID int, executorID string) (bool, error)

	// SetWelcomeMessage records the message holding the ticket controls.
	SetWelcomeMessage(ctx context.Context, channelID, messageID string) error

	// AssignTicket assigns the ticket in the channel. It returns false when the ticket does not
	// exist, is closed, or is no longer claimed by the expected claimer.
	AssignTicket(ctx context.Context, a *Assignment) (bool, error)

	// CloseTicket closes the ticket in the channel and logs CLOSE. It returns false when the ticket
	// does not exist or is already closed.
	CloseTicket(ctx context.Context, channelID, executorID string) (bool, error)

	// GetByChannel gets the ticket bound to a channel.
	GetByChannel(ctx context.Context, channelID string) (*entities.Ticket, error)

	// GetOpenTicket gets a ticket of the owner in the category that is not closed. Tickets that
	// never got a channel are ignored.
	GetOpenTicket(ctx context.Context, guildID, ownerID, categoryName string) (*entities.Ticket, error)

	// ListTickets lists the tickets of a guild ordered by number.
	ListTickets(ctx context.Context, guildID string) ([]*entities.Ticket, error)

	// ListActions lists the action log of a guild ordered by time.
	ListActions(ctx context.Context, guildID string) ([]*entities.ActionLogEntry, error)

	// TicketActions lists the action log of a ticket ordered by time.
	TicketActions(ctx context.Context, guildID string, ticketID int) ([]*entities.ActionLogEntry, error)
}

// GuildStore stores guild configuration.
type GuildStore interface {
	// GetGuildSettings gets the guild configuration. A guild without configuration is returned
	// with empty settings.
	GetGuildSettings(ctx context.Context, guildID string) (*entities.Guild, error)

	// UpdateGuildSettings applies a partial update to the ticketing configuration.
	UpdateGuildSettings(ctx context.Context, guildID string, upd *entities.TicketingUpdate) error

	// SetPanelBinding records the location of the ticket panel, replacing the previous one.
	SetPanelBinding(ctx context.Context, binding *entities.PanelBinding) error

	// GetPanelBinding gets the location of the ticket panel.
	GetPanelBinding(ctx context.Context, guildID string) (*entities.PanelBinding, error)
}

// Store is the ticketing data store.
type Store interface {
	CategoryStore
	TicketStore
	GuildStore

	// Ping checks the connection to the database.
	Ping(ctx context.Context) error

	// Close closes the connection to the database.
	Close(ctx context.Context) error
}
