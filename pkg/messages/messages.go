package messages

// User facing messages. Format verbs are filled with mentions or names by the caller.
const (
	// ErrUserErrorProcessing is the generic message shown when a request could not be processed.
	ErrUserErrorProcessing = "There was an error processing your request. Please try again later."

	// ErrGuildOnly is shown when a command is used outside a guild.
	ErrGuildOnly = "This command can only be used in a server."

	// ErrNotAdministrator is shown when a non administrator uses an admin command.
	ErrNotAdministrator = "You must be an administrator to use this command."

	// ErrNotTicketChannel is shown when a ticket action is used outside a ticket channel.
	ErrNotTicketChannel = "This channel is not a ticket."

	// ErrTicketClosed is shown when acting on a closed ticket.
	ErrTicketClosed = "This ticket is already closed."

	// ErrAlreadyClaimed is shown when a ticket is claimed by someone else. Takes the claimer ID.
	ErrAlreadyClaimed = "This ticket is already claimed by <@%s>."

	// ErrAlreadyClaimedBySelf is shown when the claimer tries to claim again.
	ErrAlreadyClaimedBySelf = "You have already claimed this ticket."

	// ErrClaimRace is shown to the loser of a concurrent claim or transfer.
	ErrClaimRace = "This ticket was updated by someone else, please try again."

	// ErrNoClaimPermission is shown when the actor may not claim the ticket.
	ErrNoClaimPermission = "You do not have a staff role for this ticket category."

	// ErrNoTransferPermission is shown when the actor may not transfer the ticket.
	ErrNoTransferPermission = "You do not have permission to transfer this ticket."

	// ErrNoClosePermission is shown when the actor may not close the ticket.
	ErrNoClosePermission = "You do not have permission to close this ticket."

	// ErrCategoryMissing is shown when the selected category no longer exists.
	ErrCategoryMissing = "This ticket category no longer exists."

	// ErrCategoryNotFound is shown when an admin command names an unknown category. Takes the name.
	ErrCategoryNotFound = "No category named **%s** exists."

	// ErrDuplicateCategory is shown when a category name is taken. Takes the name.
	ErrDuplicateCategory = "A category named **%s** already exists."

	// ErrRoleLimit is shown when a category already has the maximum number of roles.
	ErrRoleLimit = "A category can have at most 3 staff roles."

	// ErrInvalidCategory is shown when category input fails validation. Takes the reason.
	ErrInvalidCategory = "Invalid category: %s"

	// ErrOpenTicketExists is shown when the user already has an open ticket. Takes the channel ID.
	ErrOpenTicketExists = "You already have an open ticket for this category: <#%s>"

	// ErrCooldown is shown when a user creates tickets too quickly.
	ErrCooldown = "You are creating tickets too quickly, please wait a moment."

	// ErrNoEligibleStaff is shown when nobody can receive a transfer.
	ErrNoEligibleStaff = "There are no other staff members who can receive this ticket."

	// ErrSelectionExpired is shown when a transfer selection has timed out.
	ErrSelectionExpired = "This selection has expired, please start again."

	// ErrInvalidTransferTarget is shown when the selected member can not receive the ticket.
	ErrInvalidTransferTarget = "The selected member can not receive this ticket."

	// ErrNoCategories is shown when a panel is requested but no categories exist.
	ErrNoCategories = "There are no ticket categories configured."

	// ErrTicketProvisioning is shown when the ticket channel could not be created.
	ErrTicketProvisioning = "Your ticket could not be created, please contact a staff member."
)

const (
	// TicketCreatedTitle is the title of the ticket created embed.
	TicketCreatedTitle = "Ticket Created"

	// TicketCreated is the description of the ticket created embed. Takes the user ID.
	TicketCreated = "<@%s>, your ticket has been created."

	// TicketClaimed is sent to the ticket channel when a ticket is claimed. Takes the claimer ID.
	TicketClaimed = "<@%s> has claimed this ticket."

	// TicketTransferred is sent when a ticket is transferred. Takes the target and actor IDs.
	TicketTransferred = "This ticket has been transferred to <@%s> by <@%s>."

	// TransferDone replaces the private transfer selection. Takes the target ID.
	TransferDone = "Ticket transferred to <@%s>."

	// TransferPrompt is the private prompt for choosing a transfer target.
	TransferPrompt = "Select the staff member who should take over this ticket."

	// ClosePrompt is the private close confirmation prompt.
	ClosePrompt = "Are you sure you want to close this ticket?"

	// CloseCancelled replaces the close confirmation when it is cancelled.
	CloseCancelled = "Closing the ticket has been cancelled."

	// TicketClosing is sent to the ticket channel when it is closed. Takes the actor ID and the delay.
	TicketClosing = "This ticket has been closed by <@%s>. The channel will be deleted in %s."

	// CloseDone replaces the private close confirmation once the ticket is closed.
	CloseDone = "The ticket has been closed."

	// TranscriptDirect is sent to the ticket owner along with the transcript. Takes the ticket name.
	TranscriptDirect = "Your ticket **%s** has been closed. A transcript is attached."

	// TranscriptLog is sent to the logs channel along with the transcript. Takes the ticket name, owner ID and closer ID.
	TranscriptLog = "Ticket **%s** opened by <@%s> was closed by <@%s>."

	// WelcomeContent is the content of the ticket welcome message. Takes the owner mention and staff mentions.
	WelcomeContent = "%s welcome! %s will be with you shortly."

	// WelcomeDescription is the description of the ticket welcome embed.
	WelcomeDescription = "Please describe your issue and provide any information that may help us answer faster."

	// Unclaimed is shown in the welcome embed while nobody has claimed the ticket.
	Unclaimed = "Unclaimed"

	// PanelTitle is the title of the ticket panel.
	PanelTitle = "How can we help?"

	// PanelDescription is the description of the ticket panel.
	PanelDescription = "Select the category that best matches your question to open a ticket with the staff."

	// PanelPrompt is the private confirmation prompt shown before publishing the panel. Takes the channel ID.
	PanelPrompt = "The ticket panel below will be sent to <#%s>. Do you want to publish it?"

	// PanelSent replaces the panel confirmation once it is published. Takes the channel ID.
	PanelSent = "The ticket panel has been sent to <#%s>."

	// PanelCancelled replaces the panel confirmation when it is cancelled.
	PanelCancelled = "Sending the ticket panel has been cancelled."

	// CategoryCreated is the reply to a successful category creation. Takes the name.
	CategoryCreated = "Category **%s** has been created."

	// CategoryRemoved is the reply to a successful category removal. Takes the name.
	CategoryRemoved = "Category **%s** has been removed."

	// CategoryUpdated is the reply to a successful category edit. Takes the name.
	CategoryUpdated = "Category **%s** has been updated."

	// CategoryRoleAdded is the reply to a role being added. Takes the role ID and category name.
	CategoryRoleAdded = "<@&%s> can now handle **%s** tickets."

	// LogsChannelSet is the reply to the logs channel being configured. Takes the channel ID.
	LogsChannelSet = "Ticket transcripts will be sent to <#%s>."
)
