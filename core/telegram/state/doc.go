// Package state keeps per-user conversation state and dispatches updates to the handler
// registered for that state. Users without a session are idle.
package state
