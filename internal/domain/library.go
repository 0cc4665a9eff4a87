package domain

import "fmt"

// ReadFilter selects books by read status
type ReadFilter string

const (
	ReadAll    ReadFilter = "all"
	ReadOnly   ReadFilter = "read"
	UnreadOnly ReadFilter = "unread"
)

// Next cycles all -> read -> unread -> all
func (f ReadFilter) Next() ReadFilter {
	switch f {
	case ReadAll, "":
		return ReadOnly
	case ReadOnly:
		return UnreadOnly
	default:
		return ReadAll
	}
}

// FavoriteFilter selects books by favorite status
type FavoriteFilter string

const (
	FavoriteAll     FavoriteFilter = "all"
	FavoriteOnly    FavoriteFilter = "favorite"
	NotFavoriteOnly FavoriteFilter = "not-favorite"
)

// Next cycles all -> favorite -> not-favorite -> all
func (f FavoriteFilter) Next() FavoriteFilter {
	switch f {
	case FavoriteAll, "":
		return FavoriteOnly
	case FavoriteOnly:
		return NotFavoriteOnly
	default:
		return FavoriteAll
	}
}

// SortField is the key the derived list is ordered by
type SortField string

const (
	SortID     SortField = "id" // descending, newest first
	SortTitle  SortField = "name"
	SortAuthor SortField = "author"
	SortTheme  SortField = "theme"
	SortRating SortField = "rating"
)

// SortFields returns the sort options in display order
func SortFields() []SortField {
	return []SortField{SortID, SortTitle, SortAuthor, SortTheme, SortRating}
}

// String returns the display name for the sort field
func (f SortField) String() string {
	switch f {
	case SortID, "":
		return "Newest"
	case SortTitle:
		return "Title"
	case SortAuthor:
		return "Author"
	case SortTheme:
		return "Theme"
	case SortRating:
		return "Rating"
	default:
		return "Unknown"
	}
}

// ViewQuery holds the search, filter and sort parameters of a list view
type ViewQuery struct {
	Search   string
	Read     ReadFilter
	Favorite FavoriteFilter
	Sort     SortField
}

// ParseReadFilter validates a read filter name
func ParseReadFilter(s string) (ReadFilter, error) {
	switch f := ReadFilter(s); f {
	case ReadAll, ReadOnly, UnreadOnly:
		return f, nil
	case "":
		return ReadAll, nil
	}
	return "", fmt.Errorf("invalid read filter %q", s)
}

// ParseFavoriteFilter validates a favorite filter name
func ParseFavoriteFilter(s string) (FavoriteFilter, error) {
	switch f := FavoriteFilter(s); f {
	case FavoriteAll, FavoriteOnly, NotFavoriteOnly:
		return f, nil
	case "":
		return FavoriteAll, nil
	}
	return "", fmt.Errorf("invalid favorite filter %q", s)
}

// ParseSortField validates a sort field name
func ParseSortField(s string) (SortField, error) {
	for _, f := range SortFields() {
		if string(f) == s {
			return f, nil
		}
	}
	if s == "" {
		return SortID, nil
	}
	return "", fmt.Errorf("invalid sort field %q", s)
}

// SyncState is the state of the list synchronization
type SyncState int

const (
	StateCached SyncState = iota
	StateSyncing
)

func (s SyncState) String() string {
	if s == StateSyncing {
		return "syncing"
	}
	return "cached"
}

// SyncResult describes the outcome of a refresh
type SyncResult struct {
	Generation uint64
	Count      int
	FromCache  bool // fetch failed, collection served from cache
	Stale      bool // a newer refresh started; result discarded
}
