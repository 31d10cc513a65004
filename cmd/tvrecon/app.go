package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
	_ "modernc.org/sqlite"

	"github.com/vmunix/tvrecon/internal/config"
	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/internal/library"
	"github.com/vmunix/tvrecon/internal/migrations"
	"github.com/vmunix/tvrecon/internal/provider"
	"github.com/vmunix/tvrecon/internal/tmdb"
	"github.com/vmunix/tvrecon/internal/watch"
	"github.com/vmunix/tvrecon/pkg/tvdb"
	"github.com/vmunix/tvrecon/pkg/tvmaze"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger writes to stderr and, when configured, a rotated log file.
func newLogger(cfg *config.Config, stderr io.Writer) *slog.Logger {
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	w := stderr
	if lf := cfg.LogFile; lf.Path != "" {
		w = io.MultiWriter(stderr, &lumberjack.Logger{
			Filename:   lf.Path,
			MaxSize:    lf.MaxSizeMB,
			MaxBackups: lf.MaxBackups,
			MaxAge:     lf.MaxAgeDays,
			Compress:   lf.Compress,
		})
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}

// app holds what every command that touches state needs.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	fs    afero.Fs
	db    *sql.DB
	store *library.Store
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path)
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg, os.Stderr)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &app{
		cfg:   cfg,
		log:   log,
		fs:    afero.NewOsFs(),
		db:    db,
		store: library.NewStore(db),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// providers builds the enabled providers, each behind the response cache.
func (a *app) providers() []provider.Ranked {
	p := a.cfg.Providers
	cache := provider.NewCache(a.db, clockwork.NewRealClock())
	httpLog := a.log.With("component", "provider")

	var out []provider.Ranked
	add := func(inner provider.Provider, priority int) {
		out = append(out, provider.Ranked{
			Provider: provider.NewCached(inner, cache, p.CacheTTL, httpLog),
			Priority: priority,
		})
	}

	if p.TVMaze != nil && p.TVMaze.Enabled {
		opts := []tvmaze.Option{tvmaze.WithLogger(httpLog)}
		if p.TVMaze.URL != "" {
			opts = append(opts, tvmaze.WithBaseURL(p.TVMaze.URL))
		}
		add(provider.NewTVMaze(tvmaze.New(opts...)), p.TVMaze.Priority)
	}
	if p.TMDB != nil && p.TMDB.Enabled {
		opts := []tmdb.Option{tmdb.WithCacheTTL(p.CacheTTL)}
		if p.TMDB.URL != "" {
			opts = append(opts, tmdb.WithBaseURL(p.TMDB.URL))
		}
		add(provider.NewTMDB(tmdb.NewClient(p.TMDB.APIKey, opts...)), p.TMDB.Priority)
	}
	if p.TVDB != nil && p.TVDB.Enabled {
		opts := []tvdb.Option{tvdb.WithLogger(httpLog)}
		if p.TVDB.URL != "" {
			opts = append(opts, tvdb.WithBaseURL(p.TVDB.URL))
		}
		if p.TVDB.SeasonType != "" {
			opts = append(opts, tvdb.WithSeasonType(tvdb.SeasonType(p.TVDB.SeasonType)))
		}
		add(provider.NewTVDB(tvdb.New(p.TVDB.APIKey, opts...)), p.TVDB.Priority)
	}
	if p.File != nil && p.File.Enabled {
		// Local reads are not cached.
		out = append(out, provider.Ranked{Provider: provider.NewFile(a.fs, p.File.Dir), Priority: p.File.Priority})
	}
	return out
}

// watchSet loads every configured watch-history source.
func (a *app) watchSet(ctx context.Context) *watch.Set {
	set := watch.NewSet()
	if path := a.cfg.Watch.KodiDB; path != "" {
		s, err := watch.LoadKodiDB(ctx, path)
		if err != nil {
			a.log.Warn("kodi database unavailable", "path", path, "error", err)
		} else {
			set.Merge(s)
		}
	}
	if path := a.cfg.Watch.Export; path != "" {
		s, err := watch.LoadExport(a.fs, path)
		if err != nil {
			a.log.Warn("watch export unavailable", "path", path, "error", err)
		} else {
			set.Merge(s)
		}
	}
	a.log.Debug("watch history loaded", "entries", set.Len())
	return set
}

// documentPath names the processed document of a series.
func documentPath(dir, series string) string {
	return filepath.Join(dir, strings.ReplaceAll(series, " ", "_")+"_Processed.json")
}

func writeDocument(fs afero.Fs, dir string, doc *episode.Document) (string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := documentPath(dir, doc.SeriesName)
	f, err := fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := doc.Encode(f); err != nil {
		return "", err
	}
	return path, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
