package components

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Form field indexes, in tab order
const (
	fieldName = iota
	fieldAuthor
	fieldEditor
	fieldYear
	fieldTheme
	fieldRating
	fieldCover
	fieldRead
	fieldFavorite
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title", "Author", "Editor", "Year", "Theme", "Rating (0-5)", "Cover URL", "Read", "Favorite",
}

// wire names used in validation errors
var fieldKeys = [fieldCount]string{
	"name", "author", "editor", "year", "theme", "rating", "coverImage", "read", "favorite",
}

// SuggestFunc returns theme tags matching what has been typed
type SuggestFunc func(input string) []string

// BookForm edits a book record
type BookForm struct {
	inputs   [fieldCoverEnd]textinput.Model
	read     bool
	favorite bool
	focus    int

	id      int // 0 while creating
	errors  map[string]string
	suggest SuggestFunc
	hints   []string
	hintIdx int
	keys    FormKeyMap
	width   int
}

// text inputs cover the fields before the checkboxes
const fieldCoverEnd = fieldRead

// NewBookForm creates a form. suggest may be nil.
func NewBookForm(suggest SuggestFunc) BookForm {
	f := BookForm{suggest: suggest, keys: DefaultFormKeyMap(), width: 60}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		f.inputs[i] = ti
	}
	f.inputs[fieldYear].CharLimit = 4
	f.inputs[fieldRating].CharLimit = 1
	f.inputs[fieldCover].CharLimit = 2048
	return f
}

// Load fills the form from book. A zero ID means a new book.
func (f *BookForm) Load(book domain.BookDetail) tea.Cmd {
	f.id = book.ID
	f.errors = nil
	f.hints = nil
	f.inputs[fieldName].SetValue(book.Title)
	f.inputs[fieldAuthor].SetValue(book.Author)
	f.inputs[fieldEditor].SetValue(book.Editor)
	f.inputs[fieldYear].SetValue(intOrEmpty(book.Year))
	f.inputs[fieldTheme].SetValue(book.Theme)
	f.inputs[fieldRating].SetValue(strconv.Itoa(book.Rating))
	f.inputs[fieldCover].SetValue(book.CoverImage)
	f.read = book.Read
	f.favorite = book.Favorite
	return f.setFocus(fieldName)
}

// ID returns the id of the book being edited, 0 for a new one
func (f BookForm) ID() int {
	return f.id
}

// SetWidth sets the rendered width
func (f *BookForm) SetWidth(width int) {
	f.width = width
	for i := range f.inputs {
		f.inputs[i].Width = max(width-22, 10)
	}
}

// SetErrors shows field messages from a failed save
func (f *BookForm) SetErrors(errs map[string]string) {
	f.errors = errs
}

// Value builds the record from the inputs. Non-numeric year or rating is
// reported as a validation error.
func (f BookForm) Value() (domain.BookDetail, error) {
	book := domain.BookDetail{
		Book: domain.Book{
			ID:       f.id,
			Title:    strings.TrimSpace(f.inputs[fieldName].Value()),
			Author:   strings.TrimSpace(f.inputs[fieldAuthor].Value()),
			Theme:    strings.TrimSpace(f.inputs[fieldTheme].Value()),
			Read:     f.read,
			Favorite: f.favorite,
		},
		Editor:     strings.TrimSpace(f.inputs[fieldEditor].Value()),
		CoverImage: strings.TrimSpace(f.inputs[fieldCover].Value()),
	}

	bad := make(map[string]string)
	if v := strings.TrimSpace(f.inputs[fieldYear].Value()); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			bad["year"] = "must be a number"
		}
		book.Year = year
	}
	if v := strings.TrimSpace(f.inputs[fieldRating].Value()); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil {
			bad["rating"] = "must be a number"
		}
		book.Rating = rating
	}
	if len(bad) > 0 {
		return book, &domain.ValidationError{Fields: bad}
	}
	return book, nil
}

// Update handles a key. submitted is true when the user asked to save;
// cancelled when they backed out.
func (f BookForm) Update(msg tea.KeyMsg) (form BookForm, cmd tea.Cmd, submitted, cancelled bool) {
	switch {
	case key.Matches(msg, f.keys.Cancel):
		return f, nil, false, true
	case key.Matches(msg, f.keys.Submit):
		return f, nil, true, false
	case key.Matches(msg, f.keys.Next):
		return f, f.setFocus((f.focus + 1) % fieldCount), false, false
	case key.Matches(msg, f.keys.Prev):
		return f, f.setFocus((f.focus + fieldCount - 1) % fieldCount), false, false
	case f.focus == fieldTheme && key.Matches(msg, f.keys.Suggest):
		f.acceptHint()
		return f, nil, false, false
	}

	switch f.focus {
	case fieldRead:
		if key.Matches(msg, f.keys.Toggle) {
			f.read = !f.read
		}
		return f, nil, false, false
	case fieldFavorite:
		if key.Matches(msg, f.keys.Toggle) {
			f.favorite = !f.favorite
		}
		return f, nil, false, false
	}

	before := f.inputs[f.focus].Value()
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if f.focus == fieldTheme && f.inputs[fieldTheme].Value() != before {
		f.refreshHints()
	}
	return f, cmd, false, false
}

func (f *BookForm) setFocus(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	if i == fieldTheme {
		f.refreshHints()
	}
	return cmd
}

func (f *BookForm) refreshHints() {
	f.hintIdx = 0
	if f.suggest == nil {
		f.hints = nil
		return
	}
	f.hints = f.suggest(f.inputs[fieldTheme].Value())
}

// acceptHint cycles the theme input through the suggestions
func (f *BookForm) acceptHint() {
	if len(f.hints) == 0 {
		return
	}
	f.inputs[fieldTheme].SetValue(f.hints[f.hintIdx%len(f.hints)])
	f.inputs[fieldTheme].CursorEnd()
	f.hintIdx++
}

// View renders the form
func (f BookForm) View(theme styles.Theme) string {
	title := "New book"
	if f.id != 0 {
		title = fmt.Sprintf("Edit book #%d", f.id)
	}

	var b strings.Builder
	b.WriteString(theme.ModalTitle.Render(title))
	b.WriteString("\n")

	for i := 0; i < fieldCount; i++ {
		label := styles.Pad(fieldLabels[i], 14)
		if i == f.focus {
			b.WriteString(theme.Accent.Render("› " + label))
		} else {
			b.WriteString(theme.Dim.Render("  " + label))
		}
		b.WriteString(" ")

		switch i {
		case fieldRead:
			b.WriteString(checkbox(theme, f.read))
		case fieldFavorite:
			b.WriteString(checkbox(theme, f.favorite))
		default:
			b.WriteString(f.inputs[i].View())
		}

		if msg, ok := f.errors[fieldKeys[i]]; ok {
			b.WriteString("  ")
			b.WriteString(theme.Error.Render(msg))
		}
		b.WriteString("\n")

		if i == fieldTheme && f.focus == fieldTheme && len(f.hints) > 0 {
			b.WriteString(theme.Dim.Render("                 " + strings.Join(f.hints, " · ")))
			b.WriteString("\n")
		}
	}

	// errors for fields without an input, e.g. from the service
	var other []string
	for k, msg := range f.errors {
		if !isFormField(k) {
			other = append(other, k+" "+msg)
		}
	}
	if len(other) > 0 {
		sort.Strings(other)
		b.WriteString(theme.Error.Render(strings.Join(other, "; ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpKey.Render("tab") + theme.HelpDesc.Render(" next  "))
	b.WriteString(theme.HelpKey.Render("space") + theme.HelpDesc.Render(" toggle  "))
	b.WriteString(theme.HelpKey.Render("C-n") + theme.HelpDesc.Render(" theme hint  "))
	b.WriteString(theme.HelpKey.Render("enter") + theme.HelpDesc.Render(" save  "))
	b.WriteString(theme.HelpKey.Render("esc") + theme.HelpDesc.Render(" cancel"))

	return theme.Modal.Width(f.width).Render(b.String())
}

func checkbox(theme styles.Theme, on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(theme.Palette.Green).Render("[x]")
	}
	return theme.Dim.Render("[ ]")
}

func isFormField(k string) bool {
	for _, f := range fieldKeys {
		if f == k {
			return true
		}
	}
	return false
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
