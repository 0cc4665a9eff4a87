package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// SortModal is a small popup for choosing sort order
type SortModal struct {
	visible bool
	options []domain.SortField
	cursor  int
	active  domain.SortField
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{options: domain.SortFields()}
}

// Show displays the modal with the cursor on the current sort
func (m *SortModal) Show(active domain.SortField) {
	m.visible = true
	m.active = active
	m.cursor = 0
	for i, opt := range m.options {
		if opt == active {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *SortModal) HandleKey(key string) (handled bool, selection *domain.SortField) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		chosen := m.options[m.cursor]
		m.visible = false
		return true, &chosen
	case "esc", "s":
		m.visible = false
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View(theme styles.Theme) string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	p := theme.Palette
	lines := make([]string, 0, len(m.options))
	for i, opt := range m.options {
		prefix := "  "
		if opt == m.active {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+opt.String(), 20)

		style := lipgloss.NewStyle().Foreground(p.Muted)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(p.Text).Background(p.Raised)
		case opt == m.active:
			style = lipgloss.NewStyle().Foreground(p.Accent)
		}
		lines = append(lines, style.Render(text))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Background(p.Surface).
		Padding(0, 1).
		Render(theme.ModalTitle.Render("Sort by") + "\n" + strings.Join(lines, "\n"))
}
