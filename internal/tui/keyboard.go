package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if handled, next, cmd := m.routeToModal(msg); handled {
		return next, cmd
	}

	switch m.Screen {
	case ScreenHelp:
		m.Screen = ScreenList
		return m, nil
	case ScreenForm:
		return m.handleFormKey(msg)
	case ScreenStats:
		return m.handleStatsKey(msg)
	case ScreenDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// routeToModal gives open modals the first look at a key
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case m.confirm.IsVisible():
		ok, id := m.confirm.HandleKey(msg.String())
		if !ok {
			return true, m, nil
		}
		title := ""
		if i := domain.IndexOf(m.svc.Books(), id); i >= 0 {
			title = m.svc.Books()[i].Title
		}
		return true, m, DeleteBookCmd(m.svc, id, title)

	case m.noteInput.IsVisible():
		var cmd tea.Cmd
		var submitted bool
		m.noteInput, cmd, submitted = m.noteInput.Update(msg)
		if !submitted {
			return true, m, cmd
		}
		content := strings.TrimSpace(m.noteInput.Value())
		if content == "" {
			return true, m, m.notice.Error("Note is empty")
		}
		m.noteInput.Hide()
		return true, m, AddNoteCmd(m.svc, m.detail.ID, content)

	case m.sortModal.IsVisible():
		_, chosen := m.sortModal.HandleKey(msg.String())
		if chosen != nil {
			m.query.Sort = *chosen
			m.applyView()
			return true, m, m.notice.Info("Sorted by " + chosen.String())
		}
		return true, m, nil

	case m.jump.IsVisible():
		var cmd tea.Cmd
		var id int
		var chosen bool
		m.jump, cmd, id, chosen = m.jump.Update(msg)
		if chosen {
			m.list.SelectID(id)
		}
		return true, m, cmd
	}
	return false, m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.IsSearchTyping() {
		cmd, changed := m.list.Update(msg)
		if changed {
			m.query.Search = m.list.SearchTerm()
			m.applyView()
		}
		return m, cmd
	}

	book, hasBook := m.list.SelectedBook()

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.Screen = ScreenHelp
		return m, nil
	case msg.String() == "esc":
		if m.query.Search != "" {
			m.list.ClearSearch()
			m.query.Search = ""
			m.applyView()
		}
		return m, nil
	case key.Matches(msg, Keys.Search):
		return m, m.list.StartSearch(m.query.Search)
	case key.Matches(msg, Keys.Jump):
		return m, m.jump.Show(m.list.Books())
	case key.Matches(msg, Keys.Sort):
		m.sortModal.Show(m.query.Sort)
		return m, nil
	case key.Matches(msg, Keys.ReadFilter):
		m.query.Read = m.query.Read.Next()
		m.applyView()
		return m, m.notice.Info("Showing " + readFilterLabel(m.query.Read))
	case key.Matches(msg, Keys.FavoriteFilter):
		m.query.Favorite = m.query.Favorite.Next()
		m.applyView()
		return m, m.notice.Info("Showing " + favoriteFilterLabel(m.query.Favorite))
	case key.Matches(msg, Keys.Refresh):
		m.list.SetLoading(true)
		return m, RefreshCmd(m.svc)
	case key.Matches(msg, Keys.New):
		return m, m.openForm(domain.BookDetail{})
	case key.Matches(msg, Keys.Stats):
		m.Screen = ScreenStats
		m.stats = nil
		return m, LoadStatsCmd(m.svc)
	case key.Matches(msg, Keys.ToggleTheme):
		return m, m.toggleTheme()
	}

	if hasBook {
		switch {
		case key.Matches(msg, Keys.Enter):
			return m, m.openDetail(book.ID)
		case key.Matches(msg, Keys.Edit):
			return m, m.editBook(book.ID)
		case key.Matches(msg, Keys.Delete):
			m.confirm.Show("Delete book?", book.Title+" and its notes will be removed.", book.ID)
			return m, nil
		case key.Matches(msg, Keys.ToggleRead):
			return m, ToggleFieldCmd(m.svc, book.ID, domain.FieldRead)
		case key.Matches(msg, Keys.ToggleFavorite):
			return m, ToggleFieldCmd(m.svc, book.ID, domain.FieldFavorite)
		}
	}

	cmd, _ := m.list.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Back):
		m.closeDetail()
		return m, nil
	case key.Matches(msg, Keys.Help):
		m.Screen = ScreenHelp
		return m, nil
	case key.Matches(msg, Keys.ToggleTheme):
		return m, m.toggleTheme()
	}

	if m.detail == nil {
		return m, nil // still loading
	}
	id := m.detail.ID

	switch {
	case key.Matches(msg, Keys.Refresh):
		return m, m.openDetail(id)
	case key.Matches(msg, Keys.ToggleRead):
		return m, ToggleFieldCmd(m.svc, id, domain.FieldRead)
	case key.Matches(msg, Keys.ToggleFavorite):
		return m, ToggleFieldCmd(m.svc, id, domain.FieldFavorite)
	case key.Matches(msg, Keys.Rating):
		rating, _ := strconv.Atoi(msg.String())
		return m, SetRatingCmd(m.svc, id, rating)
	case key.Matches(msg, Keys.AddNote):
		return m, m.noteInput.Show("Note for "+m.detail.Title, "what did you think?")
	case key.Matches(msg, Keys.Edit):
		return m, m.openForm(*m.detail)
	case key.Matches(msg, Keys.Delete):
		m.confirm.Show("Delete book?", m.detail.Title+" and its notes will be removed.", id)
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted, cancelled bool
	m.form, cmd, submitted, cancelled = m.form.Update(msg)

	switch {
	case cancelled:
		m.Screen = m.formReturn
		return m, nil
	case submitted:
		book, err := m.form.Value()
		if err != nil {
			if verr, ok := err.(*domain.ValidationError); ok {
				m.form.SetErrors(verr.Fields)
			}
			return m, m.notice.Error(describeError("Save failed", err))
		}
		return m, SaveBookCmd(m.svc, m.form.ID(), book)
	}
	return m, cmd
}

func (m Model) handleStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Stats):
		m.Screen = ScreenList
	case key.Matches(msg, Keys.Refresh):
		return m, LoadStatsCmd(m.svc)
	}
	return m, nil
}

func readFilterLabel(f domain.ReadFilter) string {
	switch f {
	case domain.ReadOnly:
		return "read books"
	case domain.UnreadOnly:
		return "unread books"
	default:
		return "all books"
	}
}

func favoriteFilterLabel(f domain.FavoriteFilter) string {
	switch f {
	case domain.FavoriteOnly:
		return "favorites only"
	case domain.NotFavoriteOnly:
		return "non-favorites"
	default:
		return "favorites and others"
	}
}
