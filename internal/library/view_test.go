package library

import (
	"strings"
	"testing"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooks() []domain.Book {
	return []domain.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Theme: "sf", Rating: 5, Read: true},
		{ID: 2, Title: "Emma", Author: "Jane Austen", Theme: "classic", Rating: 3, Favorite: true},
		{ID: 3, Title: "Neuromancer", Author: "William Gibson", Theme: "sf", Rating: 4, Read: true, Favorite: true},
		{ID: 4, Title: "Persuasion", Author: "Jane Austen", Theme: "classic", Rating: 3},
	}
}

func ids(books []domain.Book) []int {
	out := make([]int, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	books := sampleBooks()

	tests := []struct {
		term string
		want []int
	}{
		{"", []int{1, 2, 3, 4}},
		{"austen", []int{2, 4}},
		{"DUNE", []int{1}},
		{"man", []int{3}},
		{"tolkien", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := Search(books, tt.term)
			assert.Equal(t, tt.want, ids(got))
			for _, b := range got {
				if tt.term != "" {
					assert.True(t,
						containsFold(b.Title, tt.term) || containsFold(b.Author, tt.term),
						"book %d does not match %q", b.ID, tt.term)
				}
			}
		})
	}
}

func TestFilterRead_PartitionsCollection(t *testing.T) {
	books := sampleBooks()

	read := FilterRead(books, domain.ReadOnly)
	unread := FilterRead(books, domain.UnreadOnly)

	assert.Equal(t, []int{1, 3}, ids(read))
	assert.Equal(t, []int{2, 4}, ids(unread))
	assert.Len(t, append(read, unread...), len(books))
	assert.Equal(t, ids(books), ids(FilterRead(books, domain.ReadAll)))
}

func TestFilterFavorite(t *testing.T) {
	books := sampleBooks()

	assert.Equal(t, []int{2, 3}, ids(FilterFavorite(books, domain.FavoriteOnly)))
	assert.Equal(t, []int{1, 4}, ids(FilterFavorite(books, domain.NotFavoriteOnly)))
	assert.Equal(t, ids(books), ids(FilterFavorite(books, domain.FavoriteAll)))
}

func TestSort_DefaultNewestFirst(t *testing.T) {
	assert.Equal(t, []int{4, 3, 2, 1}, ids(Sort(sampleBooks(), domain.SortID)))
	assert.Equal(t, []int{4, 3, 2, 1}, ids(Sort(sampleBooks(), domain.SortField("bogus"))))
}

func TestSort_TitleIsIdempotent(t *testing.T) {
	once := Sort(sampleBooks(), domain.SortTitle)
	twice := Sort(once, domain.SortTitle)

	assert.Equal(t, []int{1, 2, 3, 4}, ids(once))
	assert.Equal(t, once, twice)
}

func TestSort_CollatesAccents(t *testing.T) {
	books := []domain.Book{
		{ID: 1, Title: "fable"},
		{ID: 2, Title: "éclair"},
		{ID: 3, Title: "eagle"},
		{ID: 4, Title: "Zebra"},
		{ID: 5, Title: "apple"},
	}

	got := Sort(books, domain.SortTitle)
	assert.Equal(t, []int{5, 3, 2, 1, 4}, ids(got))
}

func TestSort_RatingAscendingIsStable(t *testing.T) {
	got := Sort(sampleBooks(), domain.SortRating)
	// Emma and Persuasion tie at 3 and keep their input order.
	assert.Equal(t, []int{2, 4, 3, 1}, ids(got))
}

func TestSort_AuthorAndTheme(t *testing.T) {
	assert.Equal(t, []int{1, 2, 4, 3}, ids(Sort(sampleBooks(), domain.SortAuthor)))
	assert.Equal(t, []int{2, 4, 1, 3}, ids(Sort(sampleBooks(), domain.SortTheme)))
}

func TestDerive(t *testing.T) {
	books := sampleBooks()
	before := append([]domain.Book(nil), books...)

	got := Derive(books, domain.ViewQuery{
		Search: "austen",
		Read:   domain.UnreadOnly,
		Sort:   domain.SortTitle,
	})
	assert.Equal(t, []int{2, 4}, ids(got))

	got = Derive(books, domain.ViewQuery{Favorite: domain.FavoriteOnly, Sort: domain.SortRating})
	assert.Equal(t, []int{2, 3}, ids(got))

	require.Equal(t, before, books, "input must not be modified")
}

func TestDerive_EmptyCollection(t *testing.T) {
	got := Derive(nil, domain.ViewQuery{Search: "x", Sort: domain.SortTitle})
	assert.Empty(t, got)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
