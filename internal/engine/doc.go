// Package engine keeps the in-memory year plan eventually consistent with
// its remote document, without ever letting an empty local state destroy
// non-empty remote data and without feeding its own writes back to itself.
//
// # Overview
//
// The engine owns no data. It observes a DocumentState supplied by the
// hosting layer, talks to a remote.Store keyed by (owner, year), and
// persists a single scalar through ClockStore: the updated_at instant this
// device last confirmed as synchronized.
//
// The hosting layer drives it through explicit lifecycle calls:
//
//   - OnIdentityChanged — login/logout; an empty owner disables all sync
//   - OnYearChanged     — switches the active partition
//   - OnDocumentChanged — a local edit happened; schedules a debounced push
//   - Pull, Push        — explicit one-shot synchronization
//
// # Arbitration
//
// A pull applies the remote document only when the local clock is unset,
// the remote updated_at is newer, or local state is empty; absent or empty
// remote documents never overwrite anything. A push never sends an empty
// document, stamps a fresh UTC wall-clock instant, and records it on
// success. Change notifications whose updated_at equals the stored clock,
// compared as instants rather than strings, are this device's own echo and
// are dropped.
//
// # Failure policy
//
// Store failures never reach the caller: they are logged and folded into
// the phase value, and the next trigger (edit, identity or year change,
// explicit call) is the only retry. Clock storage failures degrade the
// engine to treating remote data as always newer, nothing more.
//
// All methods are safe for concurrent use.
package engine
