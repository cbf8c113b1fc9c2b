// Package pipeline dispatches editing events through an ordered chain of
// behavior handlers.
//
// Handlers execute in registration order. Each receives the event and a
// next continuation: calling next delegates to the following handler (or
// to the engine default once the chain is exhausted); returning without
// calling next stops the chain and claims the event. The first handler to
// claim wins, so registration order encodes priority.
//
// Handlers are configuration closures built once per editing surface from
// static configuration plus surface-scoped callbacks; the chain itself
// holds no mutable state and dispatch is strictly sequential, so no
// locking is involved.
package pipeline
