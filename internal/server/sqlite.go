package server

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/shelf/internal/domain"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const bookColumns = `id, name, author, theme, rating, is_read, is_favorite, editor, year, cover_image`

// Store provides SQLite-backed persistence for the book service.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One writer at a time; the service is single-user.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.BookDetail, error) {
	var b domain.BookDetail
	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Theme,
		&b.Rating,
		&b.Read,
		&b.Favorite,
		&b.Editor,
		&b.Year,
		&b.CoverImage,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBooks returns every book ordered by ID.
func (s *Store) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b.Summary())
	}
	return books, rows.Err()
}

// GetBook returns one book or domain.ErrNotFound.
func (s *Store) GetBook(ctx context.Context, id int) (*domain.BookDetail, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

// CreateBook inserts a book and returns it with its new ID.
func (s *Store) CreateBook(ctx context.Context, b domain.BookDetail) (*domain.BookDetail, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (name, author, theme, rating, is_read, is_favorite, editor, year, cover_image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Author, b.Theme, b.Rating, b.Read, b.Favorite, b.Editor, b.Year, b.CoverImage,
	)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	b.ID = int(id)
	s.logger.Debug("book created", "id", b.ID)
	return &b, nil
}

// UpdateBook replaces every field of an existing book.
func (s *Store) UpdateBook(ctx context.Context, id int, b domain.BookDetail) (*domain.BookDetail, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET name = ?, author = ?, theme = ?, rating = ?, is_read = ?, is_favorite = ?,
		 editor = ?, year = ?, cover_image = ? WHERE id = ?`,
		b.Title, b.Author, b.Theme, b.Rating, b.Read, b.Favorite, b.Editor, b.Year, b.CoverImage, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update book %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound
	}
	b.ID = id
	return &b, nil
}

// DeleteBook removes a book and its notes.
func (s *Store) DeleteBook(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	s.logger.Debug("book deleted", "id", id)
	return nil
}

func (s *Store) bookExists(ctx context.Context, id int) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ListNotes returns a book's notes oldest first.
func (s *Store) ListNotes(ctx context.Context, bookID int) ([]domain.Note, error) {
	ok, err := s.bookExists(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, book_id, content, created_at FROM notes WHERE book_id = ? ORDER BY id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		var createdAt string
		if err := rows.Scan(&n.ID, &n.BookID, &n.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse note time: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// AddNote appends a note to an existing book.
func (s *Store) AddNote(ctx context.Context, bookID int, content string, at time.Time) (*domain.Note, error) {
	ok, err := s.bookExists(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	at = at.UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (book_id, content, created_at) VALUES (?, ?, ?)`,
		bookID, content, at.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return &domain.Note{ID: int(id), BookID: bookID, Content: content, CreatedAt: at}, nil
}
