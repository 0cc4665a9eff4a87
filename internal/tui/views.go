package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/components"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.Screen == ScreenHelp {
		return m.overlay(m.renderHelp())
	}

	var body string
	switch m.Screen {
	case ScreenDetail:
		body = m.renderDetail()
	case ScreenStats:
		body = m.renderStats()
	case ScreenForm:
		body = lipgloss.Place(m.Width, m.Height-ChromeHeight,
			lipgloss.Center, lipgloss.Center, m.form.View(m.theme))
	default:
		body = m.list.View()
	}
	body = lipgloss.NewStyle().Height(m.Height - ChromeHeight).MaxHeight(m.Height - ChromeHeight).Render(body)

	view := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())

	switch {
	case m.confirm.IsVisible():
		view = m.overlay(m.confirm.View(m.theme))
	case m.noteInput.IsVisible():
		view = m.overlay(m.noteInput.View(m.theme))
	case m.sortModal.IsVisible():
		view = m.overlay(m.sortModal.View(m.theme))
	case m.jump.IsVisible():
		view = m.overlay(m.jump.View(m.theme))
	}
	return view
}

func (m Model) overlay(content string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
}

// renderHeader shows the app name, active filters and sync status
func (m Model) renderHeader() string {
	t := m.theme
	left := t.Badge.Render("shelf")

	if m.Screen == ScreenList {
		badges := []string{t.DimBadge.Render("sort: " + m.query.Sort.String())}
		if m.query.Read != domain.ReadAll {
			badges = append(badges, t.DimBadge.Render(string(m.query.Read)))
		}
		if m.query.Favorite != domain.FavoriteAll {
			badges = append(badges, t.DimBadge.Render(string(m.query.Favorite)))
		}
		left += " " + strings.Join(badges, " ")
	}

	status := components.SyncStatus{
		State:   m.svc.State(),
		Offline: m.offline,
		Count:   len(m.svc.Books()),
	}
	if at, ok := m.svc.LastSynced(); ok {
		status.LastSynced = at
	}
	right := components.RenderSyncStatus(t, status, m.frame, m.now())

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter shows the notice on the left and key hints on the right
func (m Model) renderFooter() string {
	t := m.theme

	var left string
	if m.notice.Active() {
		switch m.notice.Kind {
		case NoticeError:
			left = t.Error.Render(m.notice.Text)
		case NoticeSuccess:
			left = t.Success.Render(m.notice.Text)
		default:
			left = t.Dim.Render(m.notice.Text)
		}
	}

	var hints []string
	switch m.Screen {
	case ScreenDetail:
		hints = []string{"space", "read", "*", "fav", "0-5", "rate", "a", "note", "e", "edit", "esc", "back"}
	case ScreenStats:
		hints = []string{"r", "reload", "esc", "back"}
	case ScreenForm:
		hints = nil
	default:
		hints = []string{"/", "search", "s", "sort", "n", "new", "?", "help"}
	}
	var right string
	for i := 0; i+1 < len(hints); i += 2 {
		if right != "" {
			right += "  "
		}
		right += t.HelpKey.Render(hints[i]) + t.HelpDesc.Render(" "+hints[i+1])
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderDetail() string {
	t := m.theme
	width := max(m.Width-4, 20)

	if m.detail == nil {
		return t.Dim.Render(components.SpinnerFrame(m.frame) + " Loading book...")
	}
	d := m.detail

	var b strings.Builder
	b.WriteString(t.Title.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(t.Subtitle.Render(d.Author))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(t.Dim.Render(styles.Pad(label, 10)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	field("Editor", d.Editor)
	if d.Year > 0 {
		field("Year", fmt.Sprintf("%d", d.Year))
	}
	field("Theme", d.Theme)
	field("Rating", t.Accent.Render(styles.Stars(d.Rating)))

	status := t.Dim.Render("unread")
	if d.Read {
		status = t.Success.Render(styles.ReadChar + " read")
	}
	if d.Favorite {
		status += "  " + lipgloss.NewStyle().Foreground(t.Palette.Red).Render(styles.FavoriteChar+" favorite")
	}
	field("Status", status)

	if m.editions >= 0 {
		field("Editions", fmt.Sprintf("%d on OpenLibrary", m.editions))
	}
	if d.CoverImage != "" && !strings.HasPrefix(d.CoverImage, "data:") {
		field("Cover", styles.Truncate(d.CoverImage, width-10))
	}

	b.WriteString("\n")
	b.WriteString(t.Accent.Render(fmt.Sprintf("Notes (%d)", len(m.notes))))
	b.WriteString("\n")
	if len(m.notes) == 0 {
		b.WriteString(t.Dim.Render("No notes yet, press a to add one"))
		b.WriteString("\n")
	}
	for _, n := range m.notes {
		stamp := ""
		if !n.CreatedAt.IsZero() {
			stamp = n.CreatedAt.Local().Format("2006-01-02 15:04") + "  "
		}
		b.WriteString(t.Dim.Render(stamp))
		b.WriteString(wordWrap(n.Content, width-len(stamp)))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.Width).Render(b.String())
}

func (m Model) renderStats() string {
	t := m.theme
	if m.stats == nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			t.Dim.Render(components.SpinnerFrame(m.frame) + " Computing stats..."))
	}
	s := m.stats

	row := func(label string, value string) string {
		return t.Dim.Render(styles.Pad(label, 16)) + t.Title.Render(value)
	}
	body := strings.Join([]string{
		t.ModalTitle.Render("Reading stats"),
		row("Books", fmt.Sprintf("%d", s.Total)),
		row("Read", fmt.Sprintf("%d", s.Read)),
		row("Unread", fmt.Sprintf("%d", s.Unread)),
		row("Average rating", fmt.Sprintf("%.2f", s.AverageRating)),
		"",
		t.Dim.Render("Computed from the local cache"),
	}, "\n")

	return lipgloss.Place(m.Width, m.Height-ChromeHeight,
		lipgloss.Center, lipgloss.Center, t.Modal.Render(body))
}

func (m Model) renderHelp() string {
	help := `
LIST                              BOOK
  j/k        Up/down                enter  Open details
  g/G        First/last             space  Toggle read
  Ctrl+u/d   Half page              *      Toggle favorite
  /          Search title/author    0-5    Rate (details)
  p          Jump to title          a      Add note (details)
  s          Sort                   e      Edit
  u          Cycle read filter      x      Delete
  f          Cycle favorite filter  n      New book

OTHER
  r          Refresh                T      Light/dark theme
  i          Stats                  q      Quit
  ?          This help              esc    Back / clear

Press any key to return...
`
	return m.theme.Modal.Render(help)
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
