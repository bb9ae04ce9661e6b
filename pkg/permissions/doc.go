// Package permissions decides whether a guild member may perform a ticket action.
//
// Evaluation is a pure function of the actor (identity, roles and administrator capability), the
// action and the ticket being acted on (owner, claimer and the staff roles of its category). It
// has no side effects so it can be tested without a Discord session.
package permissions
