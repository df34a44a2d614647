// Package events carries notifications between components without coupling
// them.
//
// Services emit events (a badge earned, a level reached, reviews falling due)
// through an EventEmitter; handlers registered on the emitter decide what to
// do with them. The primary components are:
// - Event: a typed, session-scoped message with a JSON payload
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
// - Inbox: a handler that keeps the most recent events per session
package events
