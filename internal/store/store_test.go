package store

import (
	"testing"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooks() []domain.Book {
	return []domain.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Theme: "sf", Rating: 5, Read: true},
		{ID: 2, Title: "Emma", Author: "Jane Austen", Theme: "classic", Rating: 3, Favorite: true},
	}
}

func TestBookStore_EmptyCache(t *testing.T) {
	s, err := NewBookStore(t.TempDir(), "http://localhost:3000")
	require.NoError(t, err)
	defer s.Close()

	books, ok := s.GetBooks()
	assert.False(t, ok)
	assert.Nil(t, books)

	_, ok = s.LastSynced()
	assert.False(t, ok)
}

func TestBookStore_SaveAndReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewBookStore(dir, "http://localhost:3000")
	require.NoError(t, err)
	require.NoError(t, s.SaveBooks(sampleBooks()))
	synced := time.Unix(1700000000, 0)
	require.NoError(t, s.MarkSynced(synced))
	require.NoError(t, s.Close())

	// A fresh handle has an empty memory cache and must read from disk
	s, err = NewBookStore(dir, "http://localhost:3000/")
	require.NoError(t, err)
	defer s.Close()

	books, ok := s.GetBooks()
	require.True(t, ok)
	assert.Equal(t, sampleBooks(), books)

	at, ok := s.LastSynced()
	require.True(t, ok)
	assert.True(t, at.Equal(synced))
}

func TestBookStore_ScopedPerServer(t *testing.T) {
	dir := t.TempDir()

	a, err := NewBookStore(dir, "http://a.example")
	require.NoError(t, err)
	require.NoError(t, a.SaveBooks(sampleBooks()))
	require.NoError(t, a.Close())

	b, err := NewBookStore(dir, "http://b.example")
	require.NoError(t, err)
	defer b.Close()

	_, ok := b.GetBooks()
	assert.False(t, ok)
}

func TestBookStore_SaveNilWritesEmptyArray(t *testing.T) {
	s, err := NewBookStore("", "")
	require.NoError(t, err)

	require.NoError(t, s.SaveBooks(nil))
	books, ok := s.GetBooks()
	assert.True(t, ok)
	assert.Empty(t, books)
	assert.NotNil(t, books)
}

func TestBookStore_InvalidateAll(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBookStore(dir, "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveBooks(sampleBooks()))
	require.NoError(t, s.MarkSynced(time.Now()))

	s.InvalidateAll()

	_, ok := s.GetBooks()
	assert.False(t, ok)
	_, ok = s.LastSynced()
	assert.False(t, ok)

	// Buckets are usable after invalidation
	require.NoError(t, s.SaveBooks(sampleBooks()[:1]))
	books, ok := s.GetBooks()
	require.True(t, ok)
	assert.Len(t, books, 1)
}

func TestHashServerURL_Normalizes(t *testing.T) {
	assert.Equal(t, hashServerURL("http://Host:3000/"), hashServerURL("http://host:3000"))
	assert.NotEqual(t, hashServerURL("http://a"), hashServerURL("http://b"))
	assert.Len(t, hashServerURL("x"), 12)
}
