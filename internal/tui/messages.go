package tui

import (
	"github.com/mmcdole/shelf/internal/domain"
)

// Message types for the TUI

// BooksRefreshedMsg carries the outcome of a refresh. Err is set when the
// service could not be reached and cached books are shown instead.
type BooksRefreshedMsg struct {
	Result domain.SyncResult
	Err    error
}

// BookLoadedMsg carries the full record and notes for the detail screen
type BookLoadedMsg struct {
	Book  *domain.BookDetail
	Notes []domain.Note
	Err   error
}

// EditionCountMsg carries the OpenLibrary count for a book
type EditionCountMsg struct {
	BookID int
	Count  int
}

// BookSavedMsg signals a create or update finished
type BookSavedMsg struct {
	Book    *domain.BookDetail
	Created bool
	Err     error
}

// BookDeletedMsg signals a delete finished
type BookDeletedMsg struct {
	ID    int
	Title string
	Err   error
}

// BookToggledMsg signals a read/favorite toggle finished
type BookToggledMsg struct {
	Book  domain.Book
	Field domain.Field
	Err   error
}

// RatingSetMsg signals a rating change finished
type RatingSetMsg struct {
	Book domain.Book
	Err  error
}

// NoteAddedMsg signals a note was added
type NoteAddedMsg struct {
	Note *domain.Note
	Err  error
}

// StatsLoadedMsg carries the aggregate for the stats screen
type StatsLoadedMsg struct {
	Stats domain.Stats
	Err   error
}

// ThemeSavedMsg signals the theme choice was written to config
type ThemeSavedMsg struct {
	Err error
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearNoticeMsg clears the notice line if it is still notice Seq
type ClearNoticeMsg struct {
	Seq int
}
