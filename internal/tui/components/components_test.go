package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func sampleBooks() []domain.Book {
	return []domain.Book{
		{ID: 3, Title: "Neuromancer", Author: "William Gibson"},
		{ID: 2, Title: "Emma", Author: "Jane Austen"},
		{ID: 1, Title: "Dune", Author: "Frank Herbert"},
	}
}

func TestBookList_SetBooksKeepsSelection(t *testing.T) {
	l := NewBookList(styles.NewTheme(styles.Dark))
	l.SetSize(80, 20)
	l.SetBooks(sampleBooks())
	require.True(t, l.SelectID(2))

	// re-sorted
	l.SetBooks([]domain.Book{{ID: 1, Title: "Dune"}, {ID: 2, Title: "Emma"}, {ID: 3, Title: "Neuromancer"}})
	b, ok := l.SelectedBook()
	require.True(t, ok)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, 1, l.SelectedIndex())
}

func TestBookList_CursorClampsWhenSelectionRemoved(t *testing.T) {
	l := NewBookList(styles.NewTheme(styles.Dark))
	l.SetSize(80, 20)
	l.SetBooks(sampleBooks())
	l.SelectID(1)

	l.SetBooks(sampleBooks()[:2])
	b, ok := l.SelectedBook()
	require.True(t, ok)
	assert.Equal(t, 2, b.ID)

	l.SetBooks(nil)
	_, ok = l.SelectedBook()
	assert.False(t, ok)
}

func TestBookList_Navigation(t *testing.T) {
	l := NewBookList(styles.NewTheme(styles.Dark))
	l.SetSize(80, 20)
	l.SetBooks(sampleBooks())

	l.Update(runes("j"))
	assert.Equal(t, 1, l.SelectedIndex())
	l.Update(runes("G"))
	assert.Equal(t, 2, l.SelectedIndex())
	l.Update(runes("j"))
	assert.Equal(t, 2, l.SelectedIndex())
	l.Update(runes("g"))
	assert.Equal(t, 0, l.SelectedIndex())
}

func TestBookList_Search(t *testing.T) {
	l := NewBookList(styles.NewTheme(styles.Dark))
	l.SetSize(80, 20)
	l.SetBooks(sampleBooks())

	l.StartSearch("")
	require.True(t, l.IsSearchTyping())

	_, changed := l.Update(runes("d"))
	assert.True(t, changed)
	assert.Equal(t, "d", l.SearchTerm())

	// enter keeps the term and returns to navigation
	_, changed = l.Update(enter)
	assert.False(t, changed)
	assert.False(t, l.IsSearchTyping())
	assert.Equal(t, "d", l.SearchTerm())

	l.ClearSearch()
	assert.Empty(t, l.SearchTerm())
}

func TestBookList_ViewShowsEmptyText(t *testing.T) {
	l := NewBookList(styles.NewTheme(styles.Dark))
	l.SetSize(80, 10)
	l.SetEmptyText("No books match the filters")
	assert.Contains(t, l.View(), "No books match the filters")

	l.SetBooks(sampleBooks())
	assert.Contains(t, l.View(), "Neuromancer")
}

func TestBookForm_ValueParsesNumbers(t *testing.T) {
	f := NewBookForm(nil)
	f.Load(domain.BookDetail{
		Book:   domain.Book{ID: 7, Title: " Dune ", Author: "Frank Herbert", Rating: 4, Read: true},
		Editor: "Chilton",
		Year:   1965,
	})

	got, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, 7, f.ID())
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 1965, got.Year)
	assert.Equal(t, 4, got.Rating)
	assert.True(t, got.Read)
}

func TestBookForm_NonNumericYear(t *testing.T) {
	f := NewBookForm(nil)
	f.Load(domain.BookDetail{})

	for range fieldYear {
		f, _, _, _ = f.Update(tab)
	}
	f, _, _, _ = f.Update(runes("19x9"))

	_, err := f.Value()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a number", verr.Fields["year"])
}

func TestBookForm_ToggleCheckbox(t *testing.T) {
	f := NewBookForm(nil)
	f.Load(domain.BookDetail{})

	for range fieldFavorite {
		f, _, _, _ = f.Update(tab)
	}
	f, _, _, _ = f.Update(space)

	got, err := f.Value()
	require.NoError(t, err)
	assert.True(t, got.Favorite)
	assert.False(t, got.Read)
}

func TestBookForm_ThemeSuggestions(t *testing.T) {
	var asked []string
	f := NewBookForm(func(input string) []string {
		asked = append(asked, input)
		return []string{"classic", "cyberpunk"}
	})
	f.Load(domain.BookDetail{})

	for range fieldTheme {
		f, _, _, _ = f.Update(tab)
	}
	ctrlN := tea.KeyMsg{Type: tea.KeyCtrlN}
	f, _, _, _ = f.Update(ctrlN)
	got, _ := f.Value()
	assert.Equal(t, "classic", got.Theme)

	f, _, _, _ = f.Update(ctrlN)
	got, _ = f.Value()
	assert.Equal(t, "cyberpunk", got.Theme)
	assert.NotEmpty(t, asked)
}

func TestBookForm_SubmitAndCancel(t *testing.T) {
	f := NewBookForm(nil)
	f.Load(domain.BookDetail{})

	_, _, submitted, cancelled := f.Update(enter)
	assert.True(t, submitted)
	assert.False(t, cancelled)

	_, _, submitted, cancelled = f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, submitted)
	assert.True(t, cancelled)
}

func TestJump_FuzzyMatchesTitles(t *testing.T) {
	j := NewJump()
	j.Show(sampleBooks())
	assert.Len(t, j.Results(), 3)

	j, _, _, _ = j.Update(runes("nmc"))
	results := j.Results()
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].ID)

	j, _, id, chosen := j.Update(enter)
	assert.True(t, chosen)
	assert.Equal(t, 3, id)
	assert.False(t, j.IsVisible())
}

func TestJump_EnterWithoutMatches(t *testing.T) {
	j := NewJump()
	j.Show(sampleBooks())
	j, _, _, _ = j.Update(runes("zzz"))

	_, _, _, chosen := j.Update(enter)
	assert.False(t, chosen)
}

func TestConfirm(t *testing.T) {
	var c Confirm
	ok, _ := c.HandleKey("y")
	assert.False(t, ok)

	c.Show("Delete book?", "Dune", 9)
	ok, _ = c.HandleKey("j")
	assert.False(t, ok)
	assert.True(t, c.IsVisible())

	ok, id := c.HandleKey("y")
	assert.True(t, ok)
	assert.Equal(t, 9, id)
	assert.False(t, c.IsVisible())
}

func TestSortModal(t *testing.T) {
	m := NewSortModal()
	m.Show(domain.SortAuthor)

	handled, chosen := m.HandleKey("k")
	assert.True(t, handled)
	assert.Nil(t, chosen)

	_, chosen = m.HandleKey("enter")
	require.NotNil(t, chosen)
	assert.Equal(t, domain.SortTitle, *chosen)
	assert.False(t, m.IsVisible())

	handled, _ = m.HandleKey("enter")
	assert.False(t, handled)
}

func TestAgo(t *testing.T) {
	assert.Equal(t, "just now", Ago(20*time.Second))
	assert.Equal(t, "5m ago", Ago(5*time.Minute))
	assert.Equal(t, "3h ago", Ago(3*time.Hour+10*time.Minute))
	assert.Equal(t, "2d ago", Ago(50*time.Hour))
}

func TestRenderSyncStatus(t *testing.T) {
	theme := styles.NewTheme(styles.Dark)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Contains(t, RenderSyncStatus(theme, SyncStatus{}, 0, now), "not synced")
	assert.Contains(t, RenderSyncStatus(theme, SyncStatus{Offline: true, LastSynced: now.Add(-2 * time.Hour)}, 0, now), "offline")
	assert.Contains(t, RenderSyncStatus(theme, SyncStatus{Count: 4, LastSynced: now}, 0, now), "4 books")
}
