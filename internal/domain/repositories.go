package domain

import (
	"context"
)

// BookRepository is the remote data gateway for books and notes
type BookRepository interface {
	// List returns every book summary
	List(ctx context.Context) ([]Book, error)

	// Get returns the full record for one book
	Get(ctx context.Context, id int) (*BookDetail, error)

	// Create stores a new book and returns it with its assigned ID
	Create(ctx context.Context, book BookDetail) (*BookDetail, error)

	// Update replaces the record for id and returns what the service stored
	Update(ctx context.Context, id int, book BookDetail) (*BookDetail, error)

	// Delete removes a book
	Delete(ctx context.Context, id int) error

	// ListNotes returns the notes attached to a book
	ListNotes(ctx context.Context, bookID int) ([]Note, error)

	// AddNote appends a note to a book
	AddNote(ctx context.Context, bookID int, content string) (*Note, error)

	// Stats returns the aggregate over the locally cached collection.
	// It does not reach the network.
	Stats(ctx context.Context) (Stats, error)
}

// EditionLookup reports how many editions of a title a catalogue knows about
type EditionLookup interface {
	EditionCount(ctx context.Context, title string) (int, error)
}
