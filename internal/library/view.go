package library

import (
	"slices"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Derive produces the displayed sequence from the authoritative collection.
// Steps run in a fixed order: search, read filter, favorite filter, sort.
// The input slice is never modified.
func Derive(books []domain.Book, q domain.ViewQuery) []domain.Book {
	out := Search(books, q.Search)
	out = FilterRead(out, q.Read)
	out = FilterFavorite(out, q.Favorite)
	return Sort(out, q.Sort)
}

// Search keeps books whose title or author contains term, ignoring case.
// An empty term keeps everything.
func Search(books []domain.Book, term string) []domain.Book {
	if term == "" {
		return slices.Clone(books)
	}
	needle := strings.ToLower(term)
	return keep(books, func(b domain.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle)
	})
}

// FilterRead keeps books matching the read filter
func FilterRead(books []domain.Book, f domain.ReadFilter) []domain.Book {
	switch f {
	case domain.ReadOnly:
		return keep(books, func(b domain.Book) bool { return b.Read })
	case domain.UnreadOnly:
		return keep(books, func(b domain.Book) bool { return !b.Read })
	default:
		return slices.Clone(books)
	}
}

// FilterFavorite keeps books matching the favorite filter
func FilterFavorite(books []domain.Book, f domain.FavoriteFilter) []domain.Book {
	switch f {
	case domain.FavoriteOnly:
		return keep(books, func(b domain.Book) bool { return b.Favorite })
	case domain.NotFavoriteOnly:
		return keep(books, func(b domain.Book) bool { return !b.Favorite })
	default:
		return slices.Clone(books)
	}
}

// Sort orders a copy of books. Text fields compare with locale-aware
// collation; ties keep their input order.
func Sort(books []domain.Book, field domain.SortField) []domain.Book {
	out := slices.Clone(books)

	switch field {
	case domain.SortTitle, domain.SortAuthor, domain.SortTheme:
		// Collators are not safe for concurrent use; one per call.
		c := collate.New(language.Und)
		text := textKey(field)
		slices.SortStableFunc(out, func(a, b domain.Book) int {
			return c.CompareString(text(a), text(b))
		})
	case domain.SortRating:
		slices.SortStableFunc(out, func(a, b domain.Book) int {
			return a.Rating - b.Rating
		})
	default: // newest first
		slices.SortStableFunc(out, func(a, b domain.Book) int {
			return b.ID - a.ID
		})
	}
	return out
}

func textKey(field domain.SortField) func(domain.Book) string {
	switch field {
	case domain.SortAuthor:
		return func(b domain.Book) string { return b.Author }
	case domain.SortTheme:
		return func(b domain.Book) string { return b.Theme }
	default:
		return func(b domain.Book) string { return b.Title }
	}
}

func keep(books []domain.Book, pred func(domain.Book) bool) []domain.Book {
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if pred(b) {
			out = append(out, b)
		}
	}
	return out
}
