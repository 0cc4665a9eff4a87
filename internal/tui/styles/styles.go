package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme names
const (
	Dark  = "dark"
	Light = "light"
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Accent  lipgloss.Color
	Surface lipgloss.Color // modal background
	Raised  lipgloss.Color // selected row background
	Dim     lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Green   lipgloss.Color
	Red     lipgloss.Color
	Blue    lipgloss.Color
}

var (
	darkPalette = Palette{
		Accent:  lipgloss.Color("#E5A00D"),
		Surface: lipgloss.Color("#1F2937"),
		Raised:  lipgloss.Color("#374151"),
		Dim:     lipgloss.Color("#6B7280"),
		Muted:   lipgloss.Color("#9CA3AF"),
		Text:    lipgloss.Color("#F9FAFB"),
		Green:   lipgloss.Color("#10B981"),
		Red:     lipgloss.Color("#EF4444"),
		Blue:    lipgloss.Color("#3B82F6"),
	}

	lightPalette = Palette{
		Accent:  lipgloss.Color("#B45309"),
		Surface: lipgloss.Color("#F3F4F6"),
		Raised:  lipgloss.Color("#E5E7EB"),
		Dim:     lipgloss.Color("#9CA3AF"),
		Muted:   lipgloss.Color("#4B5563"),
		Text:    lipgloss.Color("#111827"),
		Green:   lipgloss.Color("#047857"),
		Red:     lipgloss.Color("#B91C1C"),
		Blue:    lipgloss.Color("#1D4ED8"),
	}
)

// Theme holds every style the UI renders with. Screens receive the current
// theme explicitly; toggling produces a new Theme value.
type Theme struct {
	Name    string
	Palette Palette

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Dim       lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Highlight lipgloss.Style

	ActiveBorder lipgloss.Style
	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Badge    lipgloss.Style
	DimBadge lipgloss.Style

	Spinner      lipgloss.Style
	FilterPrompt lipgloss.Style
	Filter       lipgloss.Style
	Match        lipgloss.Style
}

// NewTheme returns the named theme. Unknown names fall back to dark.
func NewTheme(name string) Theme {
	p := darkPalette
	if strings.EqualFold(name, Light) {
		name, p = Light, lightPalette
	} else {
		name = Dark
	}

	return Theme{
		Name:    name,
		Palette: p,

		Title:    lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted),
		Dim:      lipgloss.NewStyle().Foreground(p.Dim),
		Accent:   lipgloss.NewStyle().Foreground(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Red),
		Success:  lipgloss.NewStyle().Foreground(p.Green),
		Highlight: lipgloss.NewStyle().
			Foreground(p.Surface).
			Background(p.Accent).
			Padding(0, 1),

		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(1, 2).
			Background(p.Surface),
		ModalTitle: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true).
			MarginBottom(1),

		HelpKey:  lipgloss.NewStyle().Foreground(p.Accent),
		HelpDesc: lipgloss.NewStyle().Foreground(p.Dim),

		Badge: lipgloss.NewStyle().
			Foreground(p.Surface).
			Background(p.Accent).
			Padding(0, 1),
		DimBadge: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Raised).
			Padding(0, 1),

		Spinner:      lipgloss.NewStyle().Foreground(p.Accent),
		FilterPrompt: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Filter:       lipgloss.NewStyle().Foreground(p.Accent),
		Match:        lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
	}
}

// Toggled returns the opposite theme
func (t Theme) Toggled() Theme {
	if t.Name == Light {
		return NewTheme(Dark)
	}
	return NewTheme(Light)
}

// Status characters
const (
	ReadChar     = "✓"
	UnreadChar   = "●"
	FavoriteChar = "♥"
	StarChar     = "★"
	NoStarChar   = "☆"
)

// Stars renders a 0-5 rating
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat(StarChar, rating) + strings.Repeat(NoStarChar, 5-rating)
}

// Truncate shortens s to width display cells with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad pads s with spaces to width display cells
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// RowPart is a piece of a list row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow renders a row with a uniform background when selected.
// Each part is styled on its own so ANSI resets do not break the highlight.
func (t Theme) RenderListRow(parts []RowPart, selected bool, width int) string {
	var b strings.Builder
	visible := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(t.Palette.Text)
		default:
			style = style.Foreground(t.Palette.Muted)
		}
		if selected {
			style = style.Background(t.Palette.Raised)
		}
		b.WriteString(style.Render(part.Text))
		visible += lipgloss.Width(part.Text)
	}

	fill := lipgloss.NewStyle()
	if selected {
		fill = fill.Background(t.Palette.Raised)
	}

	// 2 cells of margin, one each side
	if pad := width - visible - 2; pad > 0 {
		b.WriteString(fill.Render(strings.Repeat(" ", pad)))
	}
	margin := fill.Render(" ")
	return margin + b.String() + margin
}
