package library

import (
	"testing"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestThemes(t *testing.T) {
	books := []domain.Book{
		{Theme: "sf"},
		{Theme: " classic "},
		{Theme: ""},
		{Theme: "SF"},
		{Theme: "poetry"},
	}

	assert.Equal(t, []string{"classic", "poetry", "sf"}, Themes(books))
	assert.Empty(t, Themes(nil))
}

func TestSuggestThemes(t *testing.T) {
	themes := []string{"classic", "sf", "science"}

	assert.Equal(t, []string{"sf", "classic", "science"}, SuggestThemes("s", themes, 0))
	assert.Equal(t, []string{"sf", "classic"}, SuggestThemes("s", themes, 2))
	assert.Equal(t, []string{"classic"}, SuggestThemes("CL", themes, 0))
	assert.Empty(t, SuggestThemes("SF", []string{"sf"}, 0))
	assert.Nil(t, SuggestThemes("  ", themes, 0))
	assert.Empty(t, SuggestThemes("xyz", themes, 0))
}
