package library

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/shelf/internal/domain"
)

// Themes returns the distinct theme tags of a collection, sorted, ignoring
// blanks. Tags that differ only by case are merged; the first spelling wins.
func Themes(books []domain.Book) []string {
	seen := make(map[string]bool)
	var themes []string
	for _, b := range books {
		theme := strings.TrimSpace(b.Theme)
		key := strings.ToLower(theme)
		if theme == "" || seen[key] {
			continue
		}
		seen[key] = true
		themes = append(themes, theme)
	}
	sort.Strings(themes)
	return themes
}

// SuggestThemes ranks existing theme tags against what the user has typed so
// far, closest match first. An empty input suggests nothing.
func SuggestThemes(input string, themes []string, limit int) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(input, themes)
	sort.Stable(ranks)

	var out []string
	for _, r := range ranks {
		if strings.EqualFold(r.Target, input) {
			continue // already typed in full
		}
		out = append(out, r.Target)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
