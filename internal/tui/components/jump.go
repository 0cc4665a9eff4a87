package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

const maxJumpResults = 10

// Jump is the quick-jump palette: fuzzy title matching over the displayed
// books, moving the list cursor to the chosen one.
type Jump struct {
	input   textinput.Model
	keys    JumpKeyMap
	books   []domain.Book
	lower   []string
	matches fuzzy.Matches
	cursor  int
	visible bool
	width   int
}

// NewJump creates a hidden palette
func NewJump() Jump {
	ti := textinput.New()
	ti.Placeholder = "jump to title..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "› "

	return Jump{input: ti, keys: DefaultJumpKeyMap(), width: 50}
}

// Show opens the palette over books
func (j *Jump) Show(books []domain.Book) tea.Cmd {
	j.visible = true
	j.books = books
	j.lower = make([]string, len(books))
	for i, b := range books {
		j.lower[i] = strings.ToLower(b.Title)
	}
	j.input.SetValue("")
	j.cursor = 0
	j.filter()
	return j.input.Focus()
}

// Hide closes the palette
func (j *Jump) Hide() {
	j.visible = false
	j.input.Blur()
}

// IsVisible returns true if the palette is open
func (j Jump) IsVisible() bool {
	return j.visible
}

// SetWidth sets the palette width
func (j *Jump) SetWidth(width int) {
	j.width = width
	j.input.Width = max(width-10, 10)
}

// Results returns the books currently matched, best first
func (j Jump) Results() []domain.Book {
	out := make([]domain.Book, len(j.matches))
	for i, m := range j.matches {
		out[i] = j.books[m.Index]
	}
	return out
}

// Update handles a key. When the user picks a result, chosen is true and id
// names the book.
func (j Jump) Update(msg tea.KeyMsg) (Jump, tea.Cmd, int, bool) {
	if !j.visible {
		return j, nil, 0, false
	}

	switch {
	case key.Matches(msg, j.keys.Escape):
		j.Hide()
		return j, nil, 0, false
	case key.Matches(msg, j.keys.Enter):
		if j.cursor < len(j.matches) {
			id := j.books[j.matches[j.cursor].Index].ID
			j.Hide()
			return j, nil, id, true
		}
		return j, nil, 0, false
	case key.Matches(msg, j.keys.Up):
		if j.cursor > 0 {
			j.cursor--
		}
		return j, nil, 0, false
	case key.Matches(msg, j.keys.Down):
		if j.cursor < min(len(j.matches), maxJumpResults)-1 {
			j.cursor++
		}
		return j, nil, 0, false
	}

	prev := j.input.Value()
	var cmd tea.Cmd
	j.input, cmd = j.input.Update(msg)
	if j.input.Value() != prev {
		j.cursor = 0
		j.filter()
	}
	return j, cmd, 0, false
}

func (j *Jump) filter() {
	query := strings.ToLower(strings.TrimSpace(j.input.Value()))
	if query == "" {
		// show everything in list order
		j.matches = make(fuzzy.Matches, len(j.books))
		for i := range j.books {
			j.matches[i] = fuzzy.Match{Str: j.lower[i], Index: i}
		}
		return
	}
	j.matches = fuzzy.Find(query, j.lower)
}

// View renders the palette
func (j Jump) View(theme styles.Theme) string {
	if !j.visible {
		return ""
	}

	j.input.PromptStyle = theme.Accent
	j.input.TextStyle = lipgloss.NewStyle().Foreground(theme.Palette.Text)
	j.input.PlaceholderStyle = theme.Dim

	width := max(j.width-6, 20)
	lines := []string{j.input.View(), ""}

	if len(j.matches) == 0 {
		lines = append(lines, theme.Dim.Render("No matches"))
	}
	for i, m := range j.matches {
		if i == maxJumpResults {
			lines = append(lines, theme.Dim.Render("…"))
			break
		}
		lines = append(lines, j.renderMatch(theme, m, i == j.cursor, width))
	}

	return theme.Modal.Width(width + 4).Render(strings.Join(lines, "\n"))
}

func (j Jump) renderMatch(theme styles.Theme, m fuzzy.Match, selected bool, width int) string {
	title := j.books[m.Index].Title
	matched := make(map[int]bool, len(m.MatchedIndexes))
	for _, idx := range m.MatchedIndexes {
		matched[idx] = true
	}

	base := lipgloss.NewStyle().Foreground(theme.Palette.Muted)
	hl := theme.Match
	if selected {
		base = lipgloss.NewStyle().Foreground(theme.Palette.Text).Background(theme.Palette.Raised)
		hl = hl.Background(theme.Palette.Raised)
	}

	// Byte offsets of the lowercased title line up with the original for
	// the common case; fall back to plain text when lengths differ.
	if len(title) != len(j.lower[m.Index]) {
		return base.Render(styles.Pad(styles.Truncate(title, width), width))
	}

	var b strings.Builder
	used := 0
	for i, r := range title {
		if used >= width {
			break
		}
		if matched[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
		used += lipgloss.Width(string(r))
	}
	if used < width {
		b.WriteString(base.Render(strings.Repeat(" ", width-used)))
	}
	return b.String()
}
