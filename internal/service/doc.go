// Package service contains the application use cases. It orchestrates the
// content generator, the scheduler, the grader and the session state
// machine against the stores defined in internal/store.
//
// Every operation that changes a session runs inside one transaction: the
// session state, any review progress and any new deck are committed
// together. Notifications produced by session.Apply are published through
// an events.EventEmitter only after the commit succeeds.
//
// The service layer depends on store interfaces, never on a specific
// backend.
package service
