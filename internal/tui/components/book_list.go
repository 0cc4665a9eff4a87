package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Layout constants for the book list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// "↑ more" and "↓ more" each take 1 line
	ScrollIndicatorLines = 2
)

// BookList is a scrollable list of books with an inline search bar.
type BookList struct {
	books []domain.Book

	cursor     int
	offset     int
	maxVisible int

	width  int
	height int

	title   string
	empty   string
	keys    ListKeyMap
	theme   styles.Theme
	loading bool
	frame   int

	searchActive bool
	searchInput  textinput.Model
}

// NewBookList creates an empty list
func NewBookList(theme styles.Theme) *BookList {
	ti := textinput.New()
	ti.Placeholder = "title or author..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	l := &BookList{
		title:       "Books",
		empty:       "No books",
		keys:        DefaultListKeyMap(),
		searchInput: ti,
	}
	l.SetTheme(theme)
	return l
}

// SetTheme restyles the list
func (l *BookList) SetTheme(theme styles.Theme) {
	l.theme = theme
	l.searchInput.PromptStyle = theme.FilterPrompt
	l.searchInput.TextStyle = theme.Filter
	l.searchInput.PlaceholderStyle = theme.Dim
}

// SetBooks replaces the displayed books. The cursor stays on the same book
// when it is still present.
func (l *BookList) SetBooks(books []domain.Book) {
	selected, hadSelection := l.SelectedBook()
	l.books = books
	if hadSelection && l.SelectID(selected.ID) {
		return
	}
	if l.cursor >= len(books) {
		l.cursor = max(len(books)-1, 0)
	}
	l.ensureVisible()
}

// Books returns the displayed books
func (l *BookList) Books() []domain.Book {
	return l.books
}

// SelectID moves the cursor to the book with id
func (l *BookList) SelectID(id int) bool {
	i := domain.IndexOf(l.books, id)
	if i < 0 {
		return false
	}
	l.cursor = i
	l.ensureVisible()
	return true
}

// SelectedBook returns the book under the cursor
func (l *BookList) SelectedBook() (domain.Book, bool) {
	if l.cursor < 0 || l.cursor >= len(l.books) {
		return domain.Book{}, false
	}
	return l.books[l.cursor], true
}

// SelectedIndex returns the cursor position
func (l *BookList) SelectedIndex() int {
	return l.cursor
}

func (l *BookList) SetTitle(title string)   { l.title = title }
func (l *BookList) SetEmptyText(s string)   { l.empty = s }
func (l *BookList) SetLoading(loading bool) { l.loading = loading }
func (l *BookList) SetSpinnerFrame(f int)   { l.frame = f }

// SetSize sets the outer size including the border
func (l *BookList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// StartSearch opens the search bar
func (l *BookList) StartSearch(term string) tea.Cmd {
	l.searchActive = true
	l.searchInput.SetValue(term)
	l.searchInput.CursorEnd()
	l.recalcMaxVisible()
	return l.searchInput.Focus()
}

// IsSearchTyping reports whether keys go to the search bar
func (l *BookList) IsSearchTyping() bool {
	return l.searchActive && l.searchInput.Focused()
}

// SearchTerm returns the text in the search bar
func (l *BookList) SearchTerm() string {
	if !l.searchActive {
		return ""
	}
	return l.searchInput.Value()
}

// ClearSearch closes the search bar
func (l *BookList) ClearSearch() {
	l.searchActive = false
	l.searchInput.SetValue("")
	l.searchInput.Blur()
	l.recalcMaxVisible()
}

// Update handles navigation keys and search typing. searchChanged is true
// when the search term changed and the view must be derived again.
func (l *BookList) Update(msg tea.KeyMsg) (cmd tea.Cmd, searchChanged bool) {
	if l.IsSearchTyping() {
		before := l.searchInput.Value()
		switch msg.String() {
		case "esc":
			l.ClearSearch()
			return nil, before != ""
		case "enter":
			// keep the term, hand keys back to navigation
			l.searchInput.Blur()
			if before == "" {
				l.ClearSearch()
			}
			return nil, false
		}
		l.searchInput, cmd = l.searchInput.Update(msg)
		return cmd, l.searchInput.Value() != before
	}

	count := len(l.books)
	if count == 0 {
		return nil, false
	}

	switch {
	case key.Matches(msg, l.keys.Down):
		if l.cursor < count-1 {
			l.cursor++
		}
	case key.Matches(msg, l.keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(msg, l.keys.Home):
		l.cursor = 0
	case key.Matches(msg, l.keys.End):
		l.cursor = count - 1
	case key.Matches(msg, l.keys.HalfDown):
		l.cursor = min(l.cursor+max(l.maxVisible/2, 1), count-1)
	case key.Matches(msg, l.keys.HalfUp):
		l.cursor = max(l.cursor-max(l.maxVisible/2, 1), 0)
	case key.Matches(msg, l.keys.PageDown):
		l.cursor = min(l.cursor+max(l.maxVisible, 1), count-1)
	case key.Matches(msg, l.keys.PageUp):
		l.cursor = max(l.cursor-max(l.maxVisible, 1), 0)
	default:
		return nil, false
	}
	l.ensureVisible()
	return nil, false
}

// View renders the bordered list
func (l *BookList) View() string {
	style := l.theme.ActiveBorder
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l *BookList) recalcMaxVisible() {
	// interior minus title line and scroll indicators
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.searchActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *BookList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
	if l.offset > 0 && l.offset > len(l.books)-l.maxVisible {
		l.offset = max(len(l.books)-l.maxVisible, 0)
	}
}

func (l *BookList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)
	titleLine := l.theme.Accent.Render(styles.Truncate(l.title, itemWidth))

	var body string
	switch {
	case l.loading && len(l.books) == 0:
		body = " \n" + l.theme.Dim.Render(SpinnerFrame(l.frame)+" Loading...") + "\n "
	case len(l.books) == 0:
		msg := l.empty
		if l.SearchTerm() != "" {
			msg = "No matches"
		}
		body = " \n" + l.theme.Dim.Render(msg) + "\n "
	default:
		end := min(l.offset+l.maxVisible, len(l.books))
		lines := make([]string, 0, end-l.offset)
		for i := l.offset; i < end; i++ {
			lines = append(lines, l.renderBook(l.books[i], i == l.cursor, itemWidth))
		}

		// always reserve the indicator lines so the layout does not jump
		header, footer := " ", " "
		if l.offset > 0 {
			header = l.theme.Dim.Render("↑ more")
		}
		if end < len(l.books) {
			footer = l.theme.Dim.Render("↓ more")
		}
		body = header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	}

	content := titleLine + "\n" + body
	if l.searchActive {
		content += "\n" + l.searchInput.View()
	}
	return content
}

func (l *BookList) renderBook(b domain.Book, selected bool, width int) string {
	p := l.theme.Palette

	indicator, indicatorFg := styles.UnreadChar, p.Accent
	if b.Read {
		indicator, indicatorFg = styles.ReadChar, p.Green
	}
	fav, favFg := " ", p.Dim
	if b.Favorite {
		fav, favFg = styles.FavoriteChar, p.Red
	}

	stars := styles.Stars(b.Rating)
	starsFg := p.Accent

	// indicator, favorite, spaces, stars, margins
	avail := max(width-4-lipgloss.Width(stars)-2-2, 5)
	text := b.Title
	if b.Author != "" {
		text = fmt.Sprintf("%s · %s", b.Title, b.Author)
	}
	text = styles.Pad(styles.Truncate(text, avail), avail)

	parts := []styles.RowPart{
		{Text: indicator, Foreground: &indicatorFg},
		{Text: fav, Foreground: &favFg},
		{Text: " " + text + " "},
		{Text: stars, Foreground: &starsFg},
	}
	return l.theme.RenderListRow(parts, selected, width)
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerFrame returns the spinner glyph for a tick count
func SpinnerFrame(frame int) string {
	return spinnerFrames[frame%len(spinnerFrames)]
}
