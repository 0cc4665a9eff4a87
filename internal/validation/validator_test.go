package validation

import (
	"errors"
	"testing"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook() domain.BookDetail {
	return domain.BookDetail{
		Book:   domain.Book{Title: "Dune", Author: "Frank Herbert", Rating: 4},
		Editor: "Chilton",
		Year:   1965,
	}
}

func TestBook_Valid(t *testing.T) {
	assert.NoError(t, New().Book(validBook()))
}

func TestBook_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.BookDetail)
		field  string
	}{
		{"missing title", func(b *domain.BookDetail) { b.Title = "" }, "name"},
		{"blank title", func(b *domain.BookDetail) { b.Title = "   " }, "name"},
		{"missing author", func(b *domain.BookDetail) { b.Author = "" }, "author"},
		{"rating too high", func(b *domain.BookDetail) { b.Rating = 6 }, "rating"},
		{"negative rating", func(b *domain.BookDetail) { b.Rating = -1 }, "rating"},
		{"year out of range", func(b *domain.BookDetail) { b.Year = 12000 }, "year"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := validBook()
			tt.mutate(&book)

			err := v.Book(book)
			require.Error(t, err)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestBook_ReportsAllFields(t *testing.T) {
	err := New().Book(domain.BookDetail{Book: domain.Book{Rating: 9}})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, "is required", verr.Fields["author"])
	assert.Equal(t, "must be less than or equal to 5", verr.Fields["rating"])
	assert.Equal(t, "validation failed: author is required, name is required, rating must be less than or equal to 5", err.Error())
}

func TestNoteContent(t *testing.T) {
	v := New()
	assert.NoError(t, v.NoteContent("loved the ending"))
	assert.Error(t, v.NoteContent(""))
	assert.Error(t, v.NoteContent(" \n\t "))
}
