package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// InputModal is a single-line text prompt, used for new notes
type InputModal struct {
	visible bool
	title   string
	input   textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 40
	ti.Prompt = ""

	return InputModal{input: ti}
}

// Show displays the modal with a title and placeholder
func (m *InputModal) Show(title, placeholder string) tea.Cmd {
	m.visible = true
	m.title = title
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	return m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View(theme styles.Theme) string {
	if !m.visible {
		return ""
	}

	const modalWidth = 44
	bg := theme.Palette.Surface

	m.input.TextStyle = lipgloss.NewStyle().Foreground(theme.Palette.Text)
	m.input.PlaceholderStyle = theme.Dim

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Width(modalWidth).Background(bg).Render(m.title),
		lipgloss.NewStyle().Width(modalWidth).Background(bg).Render(""),
		lipgloss.NewStyle().Width(modalWidth).Background(bg).Render(m.input.View()),
		lipgloss.NewStyle().Width(modalWidth).Background(bg).Render(""),
		theme.Dim.Width(modalWidth).Background(bg).Render("enter save · esc cancel"),
	)

	return theme.Modal.Render(content)
}
