package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// NoticeKind classifies a notice
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is the transient message line. Each Set bumps a sequence number so
// the clear timer of an older notice cannot wipe a newer one.
type Notice struct {
	Text     string
	Kind     NoticeKind
	seq      int
	duration time.Duration
}

// NewNotice creates an empty notice that clears after d
func NewNotice(d time.Duration) *Notice {
	if d <= 0 {
		d = 3 * time.Second
	}
	return &Notice{duration: d}
}

// Set shows text and returns the command that will clear it
func (n *Notice) Set(kind NoticeKind, text string) tea.Cmd {
	n.seq++
	n.Text = text
	n.Kind = kind
	return ClearNoticeCmd(n.seq, n.duration)
}

// Info shows an informational notice
func (n *Notice) Info(text string) tea.Cmd { return n.Set(NoticeInfo, text) }

// Success shows a success notice
func (n *Notice) Success(text string) tea.Cmd { return n.Set(NoticeSuccess, text) }

// Error shows an error notice
func (n *Notice) Error(text string) tea.Cmd { return n.Set(NoticeError, text) }

// Clear removes the notice if seq is still the current one
func (n *Notice) Clear(seq int) {
	if seq == n.seq {
		n.Text = ""
	}
}

// Active reports whether there is something to show
func (n *Notice) Active() bool {
	return n.Text != ""
}

// ClearNoticeCmd returns a command that clears notice seq after a delay
func ClearNoticeCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearNoticeMsg{Seq: seq}
	})
}
