package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name  string
		books []Book
		want  Stats
	}{
		{
			name:  "empty",
			books: nil,
			want:  Stats{},
		},
		{
			name: "mixed read flags",
			books: []Book{
				{Read: true, Rating: 4},
				{Read: false, Rating: 3},
				{Read: true, Rating: 5},
				{Read: true, Rating: 2},
			},
			want: Stats{Total: 4, Read: 3, Unread: 1, AverageRating: 3.5},
		},
		{
			name:  "rounds to two decimals",
			books: []Book{{Rating: 1}, {Rating: 1}, {Rating: 2}},
			want:  Stats{Total: 3, Unread: 3, AverageRating: 1.33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.books))
		})
	}
}

func TestStats_JSONShape(t *testing.T) {
	data, err := json.Marshal(Stats{Total: 4, Read: 3, Unread: 1, AverageRating: 3.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":4,"read":3,"unread":1,"averageRating":3.5}`, string(data))
}

func TestBook_WireNames(t *testing.T) {
	var d BookDetail
	err := json.Unmarshal([]byte(`{"id":3,"name":"Emma","author":"Jane Austen","theme":"classic",
		"rating":4,"read":true,"favorite":false,"editor":"Murray","year":1815,"coverImage":"data:x"}`), &d)
	require.NoError(t, err)

	assert.Equal(t, Book{ID: 3, Title: "Emma", Author: "Jane Austen", Theme: "classic", Rating: 4, Read: true}, d.Summary())
	assert.Equal(t, "Murray", d.Editor)
	assert.Equal(t, 1815, d.Year)
	assert.Equal(t, "data:x", d.CoverImage)
}

func TestBook_Toggle(t *testing.T) {
	b := Book{ID: 1}

	assert.True(t, b.Toggle(FieldRead))
	assert.True(t, b.Read)
	assert.True(t, b.Value(FieldRead))

	assert.True(t, b.Toggle(FieldFavorite))
	assert.True(t, b.Favorite)
	assert.True(t, b.Toggle(FieldFavorite))
	assert.False(t, b.Favorite)

	assert.False(t, b.Toggle(Field("rating")))
}

func TestIndexOf(t *testing.T) {
	books := []Book{{ID: 5}, {ID: 7}}
	assert.Equal(t, 1, IndexOf(books, 7))
	assert.Equal(t, -1, IndexOf(books, 9))
}

func TestTransportError(t *testing.T) {
	err := fmt.Errorf("refresh: %w", &TransportError{
		Op: "get book", Method: "GET", Path: "/books/9", Status: 404, Err: ErrNotFound,
	})

	assert.True(t, IsTransport(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "refresh: get book: GET /books/9: status 404: book not found", err.Error())

	offline := &TransportError{Op: "list books", Method: "GET", Path: "/books", Err: ErrServerOffline}
	assert.Equal(t, "list books: GET /books: book service is unreachable", offline.Error())
	assert.False(t, IsTransport(errors.New("plain")))
}

func TestParseFilters(t *testing.T) {
	r, err := ParseReadFilter("unread")
	require.NoError(t, err)
	assert.Equal(t, UnreadOnly, r)

	_, err = ParseReadFilter("maybe")
	assert.Error(t, err)

	f, err := ParseFavoriteFilter("")
	require.NoError(t, err)
	assert.Equal(t, FavoriteAll, f)

	s, err := ParseSortField("author")
	require.NoError(t, err)
	assert.Equal(t, SortAuthor, s)

	_, err = ParseSortField("year")
	assert.Error(t, err)
}

func TestFilterCycles(t *testing.T) {
	assert.Equal(t, ReadOnly, ReadAll.Next())
	assert.Equal(t, UnreadOnly, ReadOnly.Next())
	assert.Equal(t, ReadAll, UnreadOnly.Next())

	assert.Equal(t, FavoriteOnly, FavoriteAll.Next())
	assert.Equal(t, NotFavoriteOnly, FavoriteOnly.Next())
	assert.Equal(t, FavoriteAll, NotFavoriteOnly.Next())
}
