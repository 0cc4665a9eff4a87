package library

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/validation"
)

// Service owns the authoritative book collection. It orchestrates the
// gateway and the local cache: reads fall back to the cache, writes apply
// only after the gateway confirms them.
type Service struct {
	repo     domain.BookRepository
	store    domain.Store
	validate *validation.Validator
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	books    []domain.Book
	gen      uint64 // generation of the newest started refresh
	inFlight int
}

// NewService creates the service and loads the cached collection, if any.
func NewService(repo domain.BookRepository, store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:     repo,
		store:    store,
		validate: validation.New(),
		logger:   logger,
		now:      time.Now,
		books:    []domain.Book{},
	}
	if books, ok := store.GetBooks(); ok {
		s.books = books
		s.logger.Debug("loaded cached books", "count", len(books))
	}
	return s
}

// Books returns a copy of the authoritative collection.
func (s *Service) Books() []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.books)
}

// View derives the displayed sequence for q.
func (s *Service) View(q domain.ViewQuery) []domain.Book {
	return Derive(s.Books(), q)
}

// State reports Syncing while any refresh is in flight.
func (s *Service) State() domain.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.inFlight > 0 {
		return domain.StateSyncing
	}
	return domain.StateCached
}

// LastSynced returns when the collection last came from the service.
func (s *Service) LastSynced() (time.Time, bool) {
	return s.store.LastSynced()
}

// Refresh fetches the collection. On success the collection and cache are
// replaced. On failure the collection is left as is, the result is marked
// FromCache and the gateway error is returned. A result that finishes after a
// newer refresh started is discarded and marked Stale.
func (s *Service) Refresh(ctx context.Context) (domain.SyncResult, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.inFlight++
	s.mu.Unlock()

	books, err := s.repo.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if gen != s.gen {
		s.logger.Debug("discarding stale refresh", "generation", gen, "newest", s.gen)
		return domain.SyncResult{Generation: gen, Count: len(s.books), Stale: true}, nil
	}

	if err != nil {
		s.logger.Warn("refresh failed, serving cached books", "error", err, "count", len(s.books))
		return domain.SyncResult{Generation: gen, Count: len(s.books), FromCache: true},
			fmt.Errorf("refresh books: %w", err)
	}

	s.books = books
	s.persistLocked()
	if err := s.store.MarkSynced(s.now()); err != nil {
		s.logger.Error("failed to save sync time", "error", err)
	}
	s.logger.Info("refreshed books", "count", len(books), "generation", gen)
	return domain.SyncResult{Generation: gen, Count: len(books)}, nil
}

// Get fetches the full record of one book.
func (s *Service) Get(ctx context.Context, id int) (*domain.BookDetail, error) {
	book, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Error("failed to get book", "error", err, "id", id)
		return nil, err
	}
	return book, nil
}

// Create adds a book after validating it.
func (s *Service) Create(ctx context.Context, book domain.BookDetail) (*domain.BookDetail, error) {
	if err := s.validate.Book(book); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, book)
	if err != nil {
		s.logger.Error("failed to create book", "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(created.Summary())
	s.logger.Info("created book", "id", created.ID)
	return created, nil
}

// Update replaces a book after validating it.
func (s *Service) Update(ctx context.Context, id int, book domain.BookDetail) (*domain.BookDetail, error) {
	if err := s.validate.Book(book); err != nil {
		return nil, err
	}
	return s.write(ctx, id, book)
}

// Delete removes a book from the service, the collection and the cache.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete book", "error", err, "id", id)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := domain.IndexOf(s.books, id); i >= 0 {
		s.books = slices.Delete(slices.Clone(s.books), i, i+1)
		s.persistLocked()
	}
	s.logger.Info("deleted book", "id", id)
	return nil
}

// ToggleField flips the read or favorite flag of a book. The full record is
// fetched first so fields the list does not carry survive the write.
func (s *Service) ToggleField(ctx context.Context, id int, field domain.Field) (domain.Book, error) {
	var probe domain.Book
	if !probe.Toggle(field) {
		return domain.Book{}, fmt.Errorf("toggle %q: %w", field, domain.ErrUnknownField)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	current.Toggle(field)

	updated, err := s.write(ctx, id, *current)
	if err != nil {
		return domain.Book{}, err
	}
	return updated.Summary(), nil
}

// SetRating changes the rating of a book.
func (s *Service) SetRating(ctx context.Context, id int, rating int) (domain.Book, error) {
	if rating < 0 || rating > 5 {
		return domain.Book{}, &domain.ValidationError{Fields: map[string]string{"rating": "must be between 0 and 5"}}
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	current.Rating = rating

	updated, err := s.write(ctx, id, *current)
	if err != nil {
		return domain.Book{}, err
	}
	return updated.Summary(), nil
}

// Notes returns the notes of a book.
func (s *Service) Notes(ctx context.Context, bookID int) ([]domain.Note, error) {
	notes, err := s.repo.ListNotes(ctx, bookID)
	if err != nil {
		s.logger.Error("failed to list notes", "error", err, "bookID", bookID)
		return nil, err
	}
	return notes, nil
}

// AddNote appends a note to a book.
func (s *Service) AddNote(ctx context.Context, bookID int, content string) (*domain.Note, error) {
	if err := s.validate.NoteContent(content); err != nil {
		return nil, err
	}
	note, err := s.repo.AddNote(ctx, bookID, content)
	if err != nil {
		s.logger.Error("failed to add note", "error", err, "bookID", bookID)
		return nil, err
	}
	return note, nil
}

// Stats returns the aggregate over the cached collection.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx)
}

// ThemeSuggestions ranks known theme tags against input.
func (s *Service) ThemeSuggestions(input string, limit int) []string {
	return SuggestThemes(input, Themes(s.Books()), limit)
}

// --- Private helpers ---

// write sends a full record and applies the stored result locally.
func (s *Service) write(ctx context.Context, id int, book domain.BookDetail) (*domain.BookDetail, error) {
	updated, err := s.repo.Update(ctx, id, book)
	if err != nil {
		s.logger.Error("failed to update book", "error", err, "id", id)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(updated.Summary())
	s.logger.Debug("updated book", "id", id)
	return updated, nil
}

func (s *Service) upsertLocked(book domain.Book) {
	books := slices.Clone(s.books)
	if i := domain.IndexOf(books, book.ID); i >= 0 {
		books[i] = book
	} else {
		books = append(books, book)
	}
	s.books = books
	s.persistLocked()
}

// persistLocked mirrors the collection into the cache. The cache is
// advisory, so failures are logged and not returned.
func (s *Service) persistLocked() {
	if err := s.store.SaveBooks(s.books); err != nil {
		s.logger.Error("failed to save books", "error", err)
	}
}
