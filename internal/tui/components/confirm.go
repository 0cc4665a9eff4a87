package components

import (
	"fmt"

	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Confirm is a yes/no prompt guarding a destructive action
type Confirm struct {
	visible bool
	title   string
	body    string
	id      int
}

// Show asks about the item identified by id
func (c *Confirm) Show(title, body string, id int) {
	c.visible = true
	c.title = title
	c.body = body
	c.id = id
}

// IsVisible returns whether the prompt is shown
func (c Confirm) IsVisible() bool {
	return c.visible
}

// HandleKey returns confirmed=true with the target id when the user accepts.
// Any other key is swallowed while the prompt is open.
func (c *Confirm) HandleKey(key string) (confirmed bool, id int) {
	if !c.visible {
		return false, 0
	}
	switch key {
	case "y", "Y":
		c.visible = false
		return true, c.id
	case "n", "N", "esc", "q":
		c.visible = false
	}
	return false, 0
}

// View renders the prompt
func (c Confirm) View(theme styles.Theme) string {
	if !c.visible {
		return ""
	}
	body := fmt.Sprintf("%s\n\n%s\n\n%s   %s",
		theme.Title.Render(c.title),
		theme.Subtitle.Render(c.body),
		theme.HelpKey.Render("[Y]")+theme.HelpDesc.Render(" Yes"),
		theme.HelpKey.Render("[N]")+theme.HelpDesc.Render(" No"),
	)
	return theme.Modal.Render(body)
}
