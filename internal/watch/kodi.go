package watch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
	_ "modernc.org/sqlite"
)

// ErrNoEpisodeTable indicates the database is not a Kodi video library.
var ErrNoEpisodeTable = errors.New("no episode table")

// Entry is one episode row of a Kodi video library, in the layout of the
// JSON export.
type Entry struct {
	ShowTitle    string `json:"show_title"`
	EpisodeTitle string `json:"episode_title"`
	Season       string `json:"season"`
	Episode      string `json:"episode"`
	Filename     string `json:"filename"`
	FullPath     string `json:"full_path"`
	Watched      bool   `json:"watched"`
}

// ReadKodiDB opens a Kodi MyVideos database read-only and returns its
// episode rows.
func ReadKodiDB(ctx context.Context, dbPath string) ([]Entry, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open kodi db: %w", err)
	}
	defer func() { _ = db.Close() }()

	return readEpisodes(ctx, db)
}

func readEpisodes(ctx context.Context, db *sql.DB) ([]Entry, error) {
	cols, err := columns(ctx, db, "episode")
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, ErrNoEpisodeTable
	}
	playCount := "0"
	if cols["playCount"] {
		playCount = "COALESCE(e.playCount, 0)"
	}

	query := `
		SELECT COALESCE(e.c00, ''), COALESCE(e.c12, ''), COALESCE(e.c13, ''),
		       p.strPath || f.strFilename, ` + playCount + `
		FROM episode e
		JOIN files f ON e.idFile = f.idFile
		JOIN path p ON f.idPath = p.idPath
		WHERE f.strFilename IS NOT NULL
		ORDER BY e.idEpisode`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var plays int
		if err := rows.Scan(&e.EpisodeTitle, &e.Season, &e.Episode, &e.FullPath, &plays); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		e.FullPath = strings.ReplaceAll(e.FullPath, `\`, "/")
		e.Filename = path.Base(e.FullPath)
		e.ShowTitle = showTitle(e.FullPath)
		e.Watched = plays > 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return entries, nil
}

func columns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// showTitle takes the show from the parent directory, except for flat
// "TV Series" folders where the file stem is used.
func showTitle(fullPath string) string {
	dir := path.Base(path.Dir(fullPath))
	switch strings.ToLower(dir) {
	case ".", "/", "":
		return "Unknown"
	case "tv-series", "tv series":
		base := path.Base(fullPath)
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return dir
}

// NewSetFromEntries builds a Set of the watched entries.
func NewSetFromEntries(entries []Entry) *Set {
	s := NewSet()
	for _, e := range entries {
		if e.Watched {
			s.Add(e.FullPath, e.Filename)
		}
	}
	return s
}

// LoadKodiDB reads a Kodi database into a Set.
func LoadKodiDB(ctx context.Context, dbPath string) (*Set, error) {
	entries, err := ReadKodiDB(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	return NewSetFromEntries(entries), nil
}

// LoadExport reads a JSON export written by WriteExport.
func LoadExport(fs afero.Fs, name string) (*Set, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("read watch export: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse watch export: %w", err)
	}
	return NewSetFromEntries(entries), nil
}

// WriteExport writes entries as a JSON export.
func WriteExport(fs afero.Fs, name string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode watch export: %w", err)
	}
	if err := afero.WriteFile(fs, name, data, 0o644); err != nil {
		return fmt.Errorf("write watch export: %w", err)
	}
	return nil
}
