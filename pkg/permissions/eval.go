package permissions

import "github.com/Jacobbrewer1/warden/pkg/entities"

// Decision is the outcome of a permission check.
type Decision int

const (
	// Deny means the action is not permitted.
	Deny Decision = iota

	// Allow means the action is permitted.
	Allow
)

// String returns "allow" or "deny".
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Action is a ticket action that requires a permission check.
type Action int

const (
	// ActionUnknown is never allowed.
	ActionUnknown Action = iota

	// ActionClaim is claiming a ticket.
	ActionClaim

	// ActionTransfer is handing a ticket to another staff member.
	ActionTransfer

	// ActionClose is closing a ticket.
	ActionClose
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionClaim:
		return "claim"
	case ActionTransfer:
		return "transfer"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// Reason explains a decision.
type Reason int

const (
	// ReasonNone is used for decisions that need no explanation.
	ReasonNone Reason = iota

	// ReasonAdministrator means the actor is a guild administrator.
	ReasonAdministrator

	// ReasonStaffRole means the actor holds one of the category staff roles.
	ReasonStaffRole

	// ReasonOwner means the actor opened the ticket.
	ReasonOwner

	// ReasonClaimer means the actor has claimed the ticket.
	ReasonClaimer

	// ReasonNoStaffRole means the actor holds none of the category staff roles.
	ReasonNoStaffRole

	// ReasonClaimedByOther means the ticket is claimed by someone else.
	ReasonClaimedByOther

	// ReasonUnknownAction means the action is not known.
	ReasonUnknownAction
)

// String returns a human-readable reason.
func (r Reason) String() string {
	switch r {
	case ReasonAdministrator:
		return "administrator"
	case ReasonStaffRole:
		return "staff role"
	case ReasonOwner:
		return "ticket owner"
	case ReasonClaimer:
		return "ticket claimer"
	case ReasonNoStaffRole:
		return "no staff role"
	case ReasonClaimedByOther:
		return "claimed by another member"
	case ReasonUnknownAction:
		return "unknown action"
	default:
		return "none"
	}
}

// Actor is the member performing an action.
type Actor struct {
	// ID is the user ID of the member.
	ID string

	// RoleIDs are the roles the member holds.
	RoleIDs []string

	// Administrator is true when the member has the administrator permission.
	Administrator bool
}

// Subject is the ticket an action is performed on.
type Subject struct {
	// OwnerID is the ID of the user that opened the ticket.
	OwnerID string

	// ClaimedBy is the ID of the current claimer, empty when unclaimed.
	ClaimedBy string

	// StaffRoles are the resolved staff roles of the ticket category.
	StaffRoles entities.RoleSet
}

// SubjectFor builds the subject for a ticket in the given category. The category may be nil when
// it has been removed, in which case only administrators and the owner keep their rights.
func SubjectFor(ticket *entities.Ticket, category *entities.Category) Subject {
	s := Subject{
		OwnerID:   ticket.OwnerID,
		ClaimedBy: ticket.ClaimedBy,
	}
	if category != nil {
		s.StaffRoles = category.RoleIDs
	}
	return s
}

// Result is the outcome of a permission check.
type Result struct {
	Decision Decision
	Reason   Reason
}

// Allowed reports whether the result allows the action.
func (r Result) Allowed() bool {
	return r.Decision == Allow
}

func allow(r Reason) Result { return Result{Decision: Allow, Reason: r} }

func deny(r Reason) Result { return Result{Decision: Deny, Reason: r} }

// Evaluate decides whether actor may perform action on subject.
//
// Unknown actions are denied to everyone. Administrators may perform any known action. Claiming and transferring require a staff role of the ticket
// category. Closing is allowed for the owner, the claimer, and staff while the ticket is
// unclaimed; once claimed, other staff can not close the ticket.
func Evaluate(actor Actor, action Action, subject Subject) Result {
	if action <= ActionUnknown || action > ActionClose {
		return deny(ReasonUnknownAction)
	}

	if actor.Administrator {
		return allow(ReasonAdministrator)
	}

	isStaff := subject.StaffRoles.Intersects(actor.RoleIDs)

	switch action {
	case ActionClaim, ActionTransfer:
		if isStaff {
			return allow(ReasonStaffRole)
		}
		return deny(ReasonNoStaffRole)
	default:
		switch {
		case actor.ID != "" && actor.ID == subject.OwnerID:
			return allow(ReasonOwner)
		case subject.ClaimedBy != "" && actor.ID == subject.ClaimedBy:
			return allow(ReasonClaimer)
		case subject.ClaimedBy != "":
			return deny(ReasonClaimedByOther)
		case isStaff:
			return allow(ReasonStaffRole)
		}
		return deny(ReasonNoStaffRole)
	}
}
