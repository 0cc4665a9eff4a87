package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := New(store, logger)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func dune() domain.BookDetail {
	return domain.BookDetail{
		Book:   domain.Book{Title: "Dune", Author: "Frank Herbert", Theme: "sf", Rating: 5, Read: true},
		Editor: "Chilton",
		Year:   1965,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestListBooks_EmptyIsArray(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBookLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/books", dune())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.BookDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Dune", created.Title)

	rec = do(t, s, http.MethodGet, "/books/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.BookDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created, got)

	got.Favorite = true
	got.Rating = 4
	rec = do(t, s, http.MethodPut, "/books/1", got)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.True(t, list[0].Favorite)
	assert.Equal(t, 4, list[0].Rating)

	rec = do(t, s, http.MethodDelete, "/books/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/books/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBook_Validation(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/books", domain.BookDetail{Book: domain.Book{Rating: 7}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "author")
	assert.Contains(t, body.Fields, "rating")
}

func TestCreateBook_BadJSON(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownBook(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/books/42", nil},
		{http.MethodGet, "/books/abc", nil},
		{http.MethodPut, "/books/42", dune()},
		{http.MethodDelete, "/books/42", nil},
		{http.MethodGet, "/books/42/notes", nil},
		{http.MethodPost, "/books/42/notes", domain.NewNote{Content: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestNotes(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/books", dune()).Code)

	rec := do(t, s, http.MethodGet, "/books/1/notes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/books/1/notes", domain.NewNote{Content: "spice must flow"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var note domain.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
	assert.Equal(t, 1, note.BookID)
	assert.Equal(t, "spice must flow", note.Content)
	assert.True(t, note.CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))

	rec = do(t, s, http.MethodPost, "/books/1/notes", domain.NewNote{Content: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/books/1/notes", nil)
	var notes []domain.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, note, notes[0])
}

func TestDeleteBook_RemovesNotes(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/books", dune()).Code)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/books/1/notes", domain.NewNote{Content: "x"}).Code)
	require.Equal(t, http.StatusNoContent, do(t, s, http.MethodDelete, "/books/1", nil).Code)

	var count int
	require.NoError(t, s.store.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&count))
	assert.Zero(t, count)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
