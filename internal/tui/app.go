package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/tui/components"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Screen is the top-level view being shown
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
	ScreenForm
	ScreenStats
	ScreenHelp
)

// ChromeHeight is the header line plus the footer line
const ChromeHeight = 2

const themeSuggestions = 5

// Options configures the model
type Options struct {
	Editions       domain.EditionLookup // nil disables the OpenLibrary count
	NoticeDuration time.Duration
	Theme          string
	SaveTheme      func(theme string) error
	Logger         *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Screen Screen
	Ready  bool
	Width  int
	Height int

	svc  *library.Service
	opts Options
	log  *slog.Logger
	now  func() time.Time

	theme  styles.Theme
	notice *Notice

	// list screen
	query     domain.ViewQuery
	list      *components.BookList
	sortModal components.SortModal
	jump      components.Jump
	confirm   components.Confirm
	offline   bool
	frame     int

	// detail screen
	detail      *domain.BookDetail
	notes       []domain.Note
	editions    int // -1 while unknown
	loadingID   int
	pendingEdit int // book to open in the form once loaded
	noteInput   components.InputModal

	// form screen
	form       components.BookForm
	formReturn Screen

	// stats screen
	stats *domain.Stats
}

// NewModel creates the application model showing the cached collection
func NewModel(svc *library.Service, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	theme := styles.NewTheme(opts.Theme)

	m := Model{
		Screen:    ScreenList,
		query:     domain.ViewQuery{Read: domain.ReadAll, Favorite: domain.FavoriteAll, Sort: domain.SortID},
		svc:       svc,
		opts:      opts,
		log:       opts.Logger,
		now:       time.Now,
		theme:     theme,
		notice:    NewNotice(opts.NoticeDuration),
		list:      components.NewBookList(theme),
		sortModal: components.NewSortModal(),
		jump:      components.NewJump(),
		noteInput: components.NewInputModal(),
		editions:  -1,
	}
	m.form = components.NewBookForm(func(input string) []string {
		return svc.ThemeSuggestions(input, themeSuggestions)
	})
	m.list.SetLoading(true)
	m.applyView()
	return m
}

// Init starts the first refresh
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		RefreshCmd(m.svc),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.frame++
		m.list.SetSpinnerFrame(m.frame)
		return m, TickCmd(100 * time.Millisecond)

	case ClearNoticeMsg:
		m.notice.Clear(msg.Seq)
		return m, nil

	case BooksRefreshedMsg:
		if msg.Result.Stale {
			return m, nil
		}
		m.list.SetLoading(false)
		m.offline = msg.Err != nil
		m.applyView()
		if msg.Err != nil {
			return m, m.notice.Error("Offline, showing cached data")
		}
		return m, nil

	case BookLoadedMsg:
		return m.handleBookLoaded(msg)

	case EditionCountMsg:
		if m.detail != nil && m.detail.ID == msg.BookID {
			m.editions = msg.Count
		}
		return m, nil

	case BookSavedMsg:
		return m.handleBookSaved(msg)

	case BookDeletedMsg:
		if msg.Err != nil {
			return m, m.notice.Error(describeError("Delete failed", msg.Err))
		}
		m.applyView()
		if m.Screen == ScreenDetail && m.detail != nil && m.detail.ID == msg.ID {
			m.closeDetail()
		}
		return m, m.notice.Success("Deleted " + msg.Title)

	case BookToggledMsg:
		if msg.Err != nil {
			return m, m.notice.Error(describeError("Update failed", msg.Err))
		}
		m.applyView()
		m.patchDetail(msg.Book)
		return m, m.notice.Success(toggleText(msg.Book, msg.Field))

	case RatingSetMsg:
		if msg.Err != nil {
			return m, m.notice.Error(describeError("Rating failed", msg.Err))
		}
		m.applyView()
		m.patchDetail(msg.Book)
		return m, m.notice.Success(fmt.Sprintf("Rated %s %d/5", msg.Book.Title, msg.Book.Rating))

	case NoteAddedMsg:
		if msg.Err != nil {
			return m, m.notice.Error(describeError("Note failed", msg.Err))
		}
		if m.detail != nil && msg.Note.BookID == m.detail.ID {
			m.notes = append(m.notes, *msg.Note)
		}
		return m, m.notice.Success("Note added")

	case StatsLoadedMsg:
		if msg.Err != nil {
			return m, m.notice.Error(describeError("Stats failed", msg.Err))
		}
		m.stats = &msg.Stats
		return m, nil

	case ThemeSavedMsg:
		if msg.Err != nil {
			m.log.Error("failed to save theme", "error", msg.Err)
			return m, m.notice.Error("Could not save theme")
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleBookLoaded(msg BookLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Book == nil || msg.Book.ID != m.loadingID {
		if msg.Err != nil {
			m.loadingID, m.pendingEdit = 0, 0
			if m.Screen == ScreenDetail && m.detail == nil {
				m.Screen = ScreenList
			}
			return m, m.notice.Error(describeError("Could not load book", msg.Err))
		}
		return m, nil // superseded by a later load
	}
	m.loadingID = 0

	if m.pendingEdit == msg.Book.ID {
		m.pendingEdit = 0
		return m, m.openForm(*msg.Book)
	}

	m.detail = msg.Book
	m.notes = msg.Notes
	cmds := []tea.Cmd{EditionCountCmd(m.opts.Editions, msg.Book.ID, msg.Book.Title)}
	if msg.Err != nil {
		cmds = append(cmds, m.notice.Error(describeError("Could not load notes", msg.Err)))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleBookSaved(msg BookSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		var verr *domain.ValidationError
		if errors.As(msg.Err, &verr) {
			m.form.SetErrors(verr.Fields)
		}
		return m, m.notice.Error(describeError("Save failed", msg.Err))
	}

	m.applyView()
	m.list.SelectID(msg.Book.ID)
	if m.detail != nil && m.detail.ID == msg.Book.ID {
		m.detail = msg.Book
	}
	if m.Screen == ScreenForm {
		m.Screen = m.formReturn
	}
	if msg.Created {
		return m, m.notice.Success("Added " + msg.Book.Title)
	}
	return m, m.notice.Success("Saved " + msg.Book.Title)
}

// applyView derives the displayed list from the collection and query
func (m *Model) applyView() {
	m.list.SetBooks(m.svc.View(m.query))
	m.list.SetTitle(listTitle(m.query, len(m.list.Books())))
	switch {
	case m.offline && len(m.svc.Books()) == 0:
		m.list.SetEmptyText("Offline and nothing cached yet")
	case m.query.Read != domain.ReadAll || m.query.Favorite != domain.FavoriteAll:
		m.list.SetEmptyText("No books match the filters")
	default:
		m.list.SetEmptyText("No books yet, press n to add one")
	}
}

func (m *Model) openDetail(id int) tea.Cmd {
	m.Screen = ScreenDetail
	m.detail = nil
	m.notes = nil
	m.editions = -1
	m.loadingID = id
	return LoadBookCmd(m.svc, id)
}

func (m *Model) closeDetail() {
	m.detail = nil
	m.notes = nil
	m.Screen = ScreenList
}

// editBook loads the full record, then opens the form
func (m *Model) editBook(id int) tea.Cmd {
	if m.detail != nil && m.detail.ID == id {
		return m.openForm(*m.detail)
	}
	m.pendingEdit = id
	m.loadingID = id
	return LoadBookCmd(m.svc, id)
}

func (m *Model) openForm(book domain.BookDetail) tea.Cmd {
	m.formReturn = m.Screen
	if m.formReturn == ScreenForm {
		m.formReturn = ScreenList
	}
	m.Screen = ScreenForm
	return m.form.Load(book)
}

// patchDetail applies a list-level change to the open detail record
func (m *Model) patchDetail(b domain.Book) {
	if m.detail == nil || m.detail.ID != b.ID {
		return
	}
	m.detail.Book = b
}

func (m *Model) toggleTheme() tea.Cmd {
	m.theme = m.theme.Toggled()
	m.list.SetTheme(m.theme)
	return tea.Batch(
		SaveThemeCmd(m.opts.SaveTheme, m.theme.Name),
		m.notice.Info("Theme: "+m.theme.Name),
	)
}

func (m *Model) updateLayout() {
	m.list.SetSize(m.Width, m.Height-ChromeHeight)
	m.jump.SetWidth(min(m.Width-4, 60))
	m.form.SetWidth(min(m.Width-4, 72))
}

func listTitle(q domain.ViewQuery, n int) string {
	title := fmt.Sprintf("Books (%d)", n)
	if q.Search != "" {
		title += fmt.Sprintf(" matching %q", q.Search)
	}
	return title
}

func toggleText(b domain.Book, field domain.Field) string {
	switch {
	case field == domain.FieldRead && b.Read:
		return "Marked read: " + b.Title
	case field == domain.FieldRead:
		return "Marked unread: " + b.Title
	case b.Favorite:
		return "Added to favorites: " + b.Title
	default:
		return "Removed from favorites: " + b.Title
	}
}
