package domain

import (
	"math"
	"time"
)

// Book is the lightweight list record for one book (the BookSummary)
type Book struct {
	ID       int    `json:"id"`
	Title    string `json:"name" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Theme    string `json:"theme"`
	Rating   int    `json:"rating" validate:"gte=0,lte=5"`
	Read     bool   `json:"read"`
	Favorite bool   `json:"favorite"`
}

// BookDetail is the full record, fetched per book by the detail view
type BookDetail struct {
	Book
	Editor     string `json:"editor"`
	Year       int    `json:"year" validate:"gte=0,lte=9999"`
	CoverImage string `json:"coverImage,omitempty"`
}

// Summary returns the list record embedded in the detail
func (d *BookDetail) Summary() Book {
	return d.Book
}

// Note is free text attached to exactly one book
type Note struct {
	ID        int       `json:"id"`
	BookID    int       `json:"bookId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewNote is the body of an add-note request
type NewNote struct {
	Content string `json:"content" validate:"required"`
}

// Stats is the aggregate view over a book collection. It is never stored.
type Stats struct {
	Total         int     `json:"total"`
	Read          int     `json:"read"`
	Unread        int     `json:"unread"`
	AverageRating float64 `json:"averageRating"`
}

// ComputeStats aggregates a collection. AverageRating is rounded to 2 decimals
// and is 0 for an empty collection.
func ComputeStats(books []Book) Stats {
	stats := Stats{Total: len(books)}
	totalRating := 0
	for _, b := range books {
		if b.Read {
			stats.Read++
		}
		totalRating += b.Rating
	}
	stats.Unread = stats.Total - stats.Read
	if stats.Total > 0 {
		avg := float64(totalRating) / float64(stats.Total)
		stats.AverageRating = math.Round(avg*100) / 100
	}
	return stats
}

// Field names a boolean flag of a Book that can be toggled
type Field string

const (
	FieldRead     Field = "read"
	FieldFavorite Field = "favorite"
)

// Toggle flips the named flag on b. It reports false for an unknown field.
func (b *Book) Toggle(field Field) bool {
	switch field {
	case FieldRead:
		b.Read = !b.Read
	case FieldFavorite:
		b.Favorite = !b.Favorite
	default:
		return false
	}
	return true
}

// Value returns the current value of the named flag
func (b Book) Value(field Field) bool {
	switch field {
	case FieldRead:
		return b.Read
	case FieldFavorite:
		return b.Favorite
	}
	return false
}

// IndexOf returns the position of the book with the given ID, or -1
func IndexOf(books []Book, id int) int {
	for i, b := range books {
		if b.ID == id {
			return i
		}
	}
	return -1
}
