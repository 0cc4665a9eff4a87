package domain

import "time"

// Store handles the local cache (BoltDB + memory).
// The cache is advisory: it mirrors the last successful sync or mutation.
type Store interface {
	// === Books ===
	GetBooks() ([]Book, bool)
	SaveBooks(books []Book) error

	// === Freshness ===
	LastSynced() (time.Time, bool)
	MarkSynced(at time.Time) error

	// === Invalidation ===
	InvalidateAll()

	Close() error
}
