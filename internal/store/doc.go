// Package store defines interfaces for persisting decks, review progress and
// session state. These interfaces abstract the underlying storage mechanism
// from the services, so the in-memory, SQLite and PostgreSQL backends are
// interchangeable.
package store
