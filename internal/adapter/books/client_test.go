package books

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	books []domain.Book
	ok    bool
}

func (f fakeCache) GetBooks() ([]domain.Book, bool) { return f.books, f.ok }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBackedClient returns a client talking to a real book service.
func newBackedClient(t *testing.T) *Client {
	t.Helper()
	store, err := server.Open(filepath.Join(t.TempDir(), "books.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ts := httptest.NewServer(server.New(store, quietLogger()))
	t.Cleanup(ts.Close)

	return NewClient(ts.URL, 0, nil, quietLogger())
}

func dune() domain.BookDetail {
	return domain.BookDetail{
		Book:   domain.Book{Title: "Dune", Author: "Frank Herbert", Theme: "sf", Rating: 5},
		Editor: "Chilton",
		Year:   1965,
	}
}

func TestClient_CRUD(t *testing.T) {
	c := newBackedClient(t)
	ctx := context.Background()

	books, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)

	created, err := c.Create(ctx, dune())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Read = true
	updated, err := c.Update(ctx, got.ID, *got)
	require.NoError(t, err)
	assert.True(t, updated.Read)
	assert.Equal(t, "Chilton", updated.Editor)

	books, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, updated.Summary(), books[0])

	require.NoError(t, c.Delete(ctx, created.ID))

	_, err = c.Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.Status)
	assert.Equal(t, "get book", te.Op)
}

func TestClient_Notes(t *testing.T) {
	c := newBackedClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, dune())
	require.NoError(t, err)

	notes, err := c.ListNotes(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)

	note, err := c.AddNote(ctx, created.ID, "fear is the mind-killer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, note.BookID)
	assert.False(t, note.CreatedAt.IsZero())

	notes, err = c.ListNotes(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "fear is the mind-killer", notes[0].Content)
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing listens here any more

	c := NewClient(url, 0, nil, quietLogger())
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
	assert.True(t, errors.Is(err, domain.ErrServerOffline))
}

func TestClient_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 0, nil, quietLogger())
	err := c.Delete(context.Background(), 3)

	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadGateway, te.Status)
	assert.Equal(t, http.MethodDelete, te.Method)
	assert.Equal(t, "/books/3", te.Path)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestClient_SendsHeaders(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":9,"bookId":1,"content":"x","createdAt":"2024-01-01T00:00:00Z"}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/", 0, nil, quietLogger())
	_, err := c.AddNote(context.Background(), 1, "x")
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, userAgent, got.Get("User-Agent"))
	assert.Len(t, got.Get("X-Request-ID"), 36)
}

func TestClient_StatsNeverHitsNetwork(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer ts.Close()

	cache := fakeCache{ok: true, books: []domain.Book{
		{ID: 1, Read: true, Rating: 4},
		{ID: 2, Read: false, Rating: 3},
		{ID: 3, Read: true, Rating: 5},
		{ID: 4, Read: true, Rating: 2},
	}}
	c := NewClient(ts.URL, 0, cache, quietLogger())

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Total: 4, Read: 3, Unread: 1, AverageRating: 3.5}, stats)
	assert.Zero(t, hits)
}

func TestClient_StatsEmptyCache(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 0, fakeCache{}, quietLogger())
	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)
}
