package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/adapter/books"
	"github.com/mmcdole/shelf/internal/adapter/openlibrary"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/tui"
	"github.com/mmcdole/shelf/internal/tui/styles"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	list       bool
	stats      bool
	clearCache bool
	search     string
	read       string
	favorite   string
	sort       string
}

func main() {
	var opts options
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&opts.list, "list", false, "print the book list and exit")
	flag.BoolVar(&opts.stats, "stats", false, "print reading stats and exit")
	flag.BoolVar(&opts.clearCache, "clear-cache", false, "remove the local cache and exit")
	flag.StringVar(&opts.search, "search", "", "with -list: only books whose title or author contains this")
	flag.StringVar(&opts.read, "read", "all", "with -list: all, read or unread")
	flag.StringVar(&opts.favorite, "favorite", "all", "with -list: all, favorite or not-favorite")
	flag.StringVar(&opts.sort, "sort", "id", "with -list: id, name, author, theme or rating")
	flag.Parse()

	if showVersion {
		fmt.Printf("shelf %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.clearCache {
		if err := clearCache(cfg); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	}

	// Validate list flags before touching the network
	query, err := parseQuery(opts)
	if err != nil {
		return err
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting shelf", "version", Version, "server", cfg.Server.URL)

	cache, err := store.NewBookStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		// Another shelf may hold the cache lock; run without persistence
		logger.Warn("cache unavailable, using memory only", "dir", cfg.Cache.Dir, "error", err)
		cache, _ = store.NewBookStore("", cfg.Server.URL)
	}
	defer cache.Close()

	client := books.NewClient(cfg.Server.URL, cfg.Server.Timeout, cache, logger)
	svc := library.NewService(client, cache, logger)

	switch {
	case opts.list:
		return printList(os.Stdout, svc, query)
	case opts.stats:
		return printStats(os.Stdout, svc)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("shelf needs a terminal; use -list or -stats for plain output")
	}

	var editions domain.EditionLookup
	if cfg.OpenLibrary.Enabled {
		editions = openlibrary.NewClient(cfg.OpenLibrary.URL, logger)
	}

	model := tui.NewModel(svc, tui.Options{
		Editions:       editions,
		NoticeDuration: cfg.UI.NoticeDuration(),
		Theme:          cfg.UI.Theme,
		SaveTheme: func(theme string) error {
			cfg.UI.Theme = theme
			return adapter.SaveConfig(cfg)
		},
		Logger: logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// clearCache empties the configured server's cache. A cache file that cannot
// be opened is removed along with the rest of the cache directory.
func clearCache(cfg *adapter.Config) error {
	cache, err := store.NewBookStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		return adapter.ClearCache(cfg.Cache.Dir)
	}
	defer cache.Close()
	cache.InvalidateAll()
	return nil
}

func parseQuery(opts options) (domain.ViewQuery, error) {
	read, err := domain.ParseReadFilter(opts.read)
	if err != nil {
		return domain.ViewQuery{}, err
	}
	fav, err := domain.ParseFavoriteFilter(opts.favorite)
	if err != nil {
		return domain.ViewQuery{}, err
	}
	sortBy, err := domain.ParseSortField(opts.sort)
	if err != nil {
		return domain.ViewQuery{}, err
	}
	return domain.ViewQuery{Search: opts.search, Read: read, Favorite: fav, Sort: sortBy}, nil
}

// printList refreshes, falling back to the cache, and prints the derived view
func printList(w io.Writer, svc *library.Service, q domain.ViewQuery) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := svc.Refresh(ctx); err != nil {
		if len(svc.Books()) == 0 {
			return err
		}
		fmt.Fprintln(os.Stderr, "offline, showing cached data")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tTHEME\tRATING\tREAD\tFAV")
	for _, b := range svc.View(q) {
		read, fav := "", ""
		if b.Read {
			read = styles.ReadChar
		}
		if b.Favorite {
			fav = styles.FavoriteChar
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Title, b.Author, b.Theme, styles.Stars(b.Rating), read, fav)
	}
	return tw.Flush()
}

// printStats refreshes the cache first so the numbers are current when the
// service is reachable
func printStats(w io.Writer, svc *library.Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := svc.Refresh(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "offline, stats are from cached data")
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Books:          %d\n", stats.Total)
	fmt.Fprintf(w, "Read:           %d\n", stats.Read)
	fmt.Fprintf(w, "Unread:         %d\n", stats.Unread)
	fmt.Fprintf(w, "Average rating: %.2f\n", stats.AverageRating)
	return nil
}
