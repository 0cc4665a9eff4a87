package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
)

// Command factories for async operations. The gateway's HTTP client enforces
// its own timeout; these contexts bound the whole operation.

const opTimeout = 30 * time.Second

// RefreshCmd fetches the collection from the service
func RefreshCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		res, err := svc.Refresh(ctx)
		return BooksRefreshedMsg{Result: res, Err: err}
	}
}

// LoadBookCmd fetches one book and its notes
func LoadBookCmd(svc *library.Service, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		book, err := svc.Get(ctx, id)
		if err != nil {
			return BookLoadedMsg{Err: err}
		}
		notes, err := svc.Notes(ctx, id)
		if err != nil {
			// the record is still worth showing
			return BookLoadedMsg{Book: book, Err: err}
		}
		return BookLoadedMsg{Book: book, Notes: notes}
	}
}

// EditionCountCmd looks the title up on OpenLibrary. Failures produce no
// message; the count is simply not shown.
func EditionCountCmd(lookup domain.EditionLookup, id int, title string) tea.Cmd {
	if lookup == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		n, err := lookup.EditionCount(ctx, title)
		if err != nil {
			return nil
		}
		return EditionCountMsg{BookID: id, Count: n}
	}
}

// SaveBookCmd creates the book when id is 0, otherwise updates it
func SaveBookCmd(svc *library.Service, id int, book domain.BookDetail) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if id == 0 {
			saved, err := svc.Create(ctx, book)
			return BookSavedMsg{Book: saved, Created: true, Err: err}
		}
		saved, err := svc.Update(ctx, id, book)
		return BookSavedMsg{Book: saved, Err: err}
	}
}

// DeleteBookCmd removes a book
func DeleteBookCmd(svc *library.Service, id int, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		return BookDeletedMsg{ID: id, Title: title, Err: svc.Delete(ctx, id)}
	}
}

// ToggleFieldCmd flips read or favorite
func ToggleFieldCmd(svc *library.Service, id int, field domain.Field) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		book, err := svc.ToggleField(ctx, id, field)
		return BookToggledMsg{Book: book, Field: field, Err: err}
	}
}

// SetRatingCmd changes a book's rating
func SetRatingCmd(svc *library.Service, id, rating int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		book, err := svc.SetRating(ctx, id, rating)
		return RatingSetMsg{Book: book, Err: err}
	}
}

// AddNoteCmd appends a note
func AddNoteCmd(svc *library.Service, bookID int, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		note, err := svc.AddNote(ctx, bookID, content)
		return NoteAddedMsg{Note: note, Err: err}
	}
}

// LoadStatsCmd computes the stats screen aggregate
func LoadStatsCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		stats, err := svc.Stats(ctx)
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// SaveThemeCmd persists the theme choice
func SaveThemeCmd(save func(theme string) error, theme string) tea.Cmd {
	if save == nil {
		return nil
	}
	return func() tea.Msg {
		return ThemeSavedMsg{Err: save(theme)}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// describeError turns a service error into notice text
func describeError(action string, err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return action + ": " + verr.Error()
	case errors.Is(err, domain.ErrServerOffline):
		return action + ": book service is unreachable"
	case errors.Is(err, domain.ErrNotFound):
		return action + ": book not found"
	default:
		return action + ": " + err.Error()
	}
}
