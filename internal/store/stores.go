package store

import "context"

// Stores bundles the stores of one backend. Inside Transactor.WithinTx the
// stores are bound to the running transaction.
type Stores struct {
	Decks    DeckStore
	Progress ProgressStore
	Sessions SessionStore
}

// Transactor runs a function against stores that commit or roll back
// together.
type Transactor interface {
	// WithinTx calls fn with transaction-bound stores. The changes are
	// committed when fn returns nil and discarded otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error
}
