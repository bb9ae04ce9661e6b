// Package ticketing drives the ticket lifecycle.
//
// A ticket moves from open to claimed to closed. Open tickets may close directly and claimed
// tickets may be transferred to another staff member without leaving the claimed state. Every
// transition is checked with the permissions package before the store is changed, and the store
// applies each guarded change atomically so concurrent interactions have at most one winner.
//
// Interactions arrive on their own goroutines. Handlers reply privately on denial and never
// return storage errors to Discord; the caller only logs them and sends a generic reply.
package ticketing
