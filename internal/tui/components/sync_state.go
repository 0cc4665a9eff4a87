package components

import (
	"fmt"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// SyncStatus is what the header shows about the collection's freshness
type SyncStatus struct {
	State      domain.SyncState
	Offline    bool      // last refresh failed
	LastSynced time.Time // zero if never synced
	Count      int
}

// RenderSyncStatus renders the header badge
func RenderSyncStatus(theme styles.Theme, s SyncStatus, frame int, now time.Time) string {
	switch {
	case s.State == domain.StateSyncing:
		return theme.Spinner.Render(SpinnerFrame(frame)) + theme.Dim.Render(" syncing")
	case s.Offline:
		text := "offline · cached"
		if !s.LastSynced.IsZero() {
			text += " " + Ago(now.Sub(s.LastSynced))
		}
		return theme.Error.Render("✗ ") + theme.Dim.Render(text)
	case s.LastSynced.IsZero():
		return theme.Dim.Render("not synced")
	default:
		return theme.Success.Render("✓ ") + theme.Dim.Render(fmt.Sprintf("%d books · synced %s", s.Count, Ago(now.Sub(s.LastSynced))))
	}
}

// Ago formats an elapsed duration coarsely
func Ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
