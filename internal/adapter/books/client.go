package books

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/shelf/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "Shelf/1.0"
)

// CachedBooks is the local collection Stats is computed from
type CachedBooks interface {
	GetBooks() ([]domain.Book, bool)
}

// Client implements domain.BookRepository against the book service
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      CachedBooks
	logger     *slog.Logger
}

// NewClient creates a new book service client. cache backs Stats; it may be
// nil, in which case Stats reports an empty collection.
func NewClient(baseURL string, timeout time.Duration, cache CachedBooks, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:  cache,
		logger: logger,
	}
}

// doRequest performs one request and returns the body of a 2xx response.
// Every failure is a *domain.TransportError.
func (c *Client) doRequest(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	fail := func(status int, err error) error {
		return &domain.TransportError{Op: op, Method: method, Path: path, Status: status, Err: err}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("book service request", "method", method, "url", reqURL, "requestID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("book service request failed", "error", err, "requestID", requestID)
		return nil, fail(0, fmt.Errorf("%w: %v", domain.ErrServerOffline, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fail(resp.StatusCode, domain.ErrNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("book service request error", "status", resp.StatusCode, "body", string(respBody), "requestID", requestID)
		return nil, fail(resp.StatusCode, fmt.Errorf("unexpected status: %s", http.StatusText(resp.StatusCode)))
	}

	return respBody, nil
}

func decode[T any](op string, body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("%s: failed to parse response: %w", op, err)
	}
	return v, nil
}

// List returns every book summary
func (c *Client) List(ctx context.Context) ([]domain.Book, error) {
	body, err := c.doRequest(ctx, "list books", http.MethodGet, "/books", nil)
	if err != nil {
		return nil, err
	}
	books, err := decode[[]domain.Book]("list books", body)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// Get returns the full record for one book
func (c *Client) Get(ctx context.Context, id int) (*domain.BookDetail, error) {
	body, err := c.doRequest(ctx, "get book", http.MethodGet, bookPath(id), nil)
	if err != nil {
		return nil, err
	}
	book, err := decode[domain.BookDetail]("get book", body)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create stores a new book. Any ID on the input is ignored.
func (c *Client) Create(ctx context.Context, book domain.BookDetail) (*domain.BookDetail, error) {
	book.ID = 0
	body, err := c.doRequest(ctx, "create book", http.MethodPost, "/books", book)
	if err != nil {
		return nil, err
	}
	created, err := decode[domain.BookDetail]("create book", body)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the record for id
func (c *Client) Update(ctx context.Context, id int, book domain.BookDetail) (*domain.BookDetail, error) {
	book.ID = id
	body, err := c.doRequest(ctx, "update book", http.MethodPut, bookPath(id), book)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &book, nil
	}
	updated, err := decode[domain.BookDetail]("update book", body)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a book
func (c *Client) Delete(ctx context.Context, id int) error {
	_, err := c.doRequest(ctx, "delete book", http.MethodDelete, bookPath(id), nil)
	return err
}

// ListNotes returns the notes attached to a book
func (c *Client) ListNotes(ctx context.Context, bookID int) ([]domain.Note, error) {
	body, err := c.doRequest(ctx, "list notes", http.MethodGet, notesPath(bookID), nil)
	if err != nil {
		return nil, err
	}
	notes, err := decode[[]domain.Note]("list notes", body)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	return notes, nil
}

// AddNote appends a note to a book
func (c *Client) AddNote(ctx context.Context, bookID int, content string) (*domain.Note, error) {
	body, err := c.doRequest(ctx, "add note", http.MethodPost, notesPath(bookID), domain.NewNote{Content: content})
	if err != nil {
		return nil, err
	}
	note, err := decode[domain.Note]("add note", body)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Stats answers the /stats request locally from the cached collection.
// The book service has no aggregation endpoint; books not yet cached are not
// counted.
func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	if err := ctx.Err(); err != nil {
		return domain.Stats{}, err
	}
	var books []domain.Book
	if c.cache != nil {
		books, _ = c.cache.GetBooks()
	}
	stats := domain.ComputeStats(books)
	c.logger.Debug("stats computed from cache", "total", stats.Total)
	return stats, nil
}

func bookPath(id int) string {
	return fmt.Sprintf("/books/%d", id)
}

func notesPath(bookID int) string {
	return fmt.Sprintf("/books/%d/notes", bookID)
}
