// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/vmunix/tvrecon/pkg/match"
)

// AppName names the application's XDG directories.
const AppName = "tvrecon"

// Config is the root configuration structure.
type Config struct {
	LogLevel  string          `toml:"log_level"`
	LogFile   LogFileConfig   `toml:"log_file"`
	Database  DatabaseConfig  `toml:"database"`
	Output    OutputConfig    `toml:"output"`
	Library   LibraryConfig   `toml:"library"`
	Watch     WatchConfig     `toml:"watch"`
	Matching  MatchingConfig  `toml:"matching"`
	Providers ProvidersConfig `toml:"providers"`
	Series    []SeriesConfig  `toml:"series"`
}

// LogFileConfig enables a rotated log file next to stderr output.
type LogFileConfig struct {
	Path       string `toml:"path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// OutputConfig holds where processed documents and merged metadata go.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

type LibraryConfig struct {
	Root            string `toml:"root"`
	Naming          string `toml:"naming"`
	UnmatchedNaming string `toml:"unmatched_naming"`
	LockFile        string `toml:"lock_file"`
}

type WatchConfig struct {
	KodiDB string `toml:"kodi_db"`
	Export string `toml:"export"`
}

// MatchingConfig holds threshold overrides. Unset values inherit.
type MatchingConfig struct {
	Exact       *float64 `toml:"exact"`
	TokenSet    *float64 `toml:"token_set"`
	Subsequence *float64 `toml:"subsequence"`
	Weighted    *float64 `toml:"weighted"`
	Concurrency int      `toml:"concurrency"`
}

type ProvidersConfig struct {
	CacheTTL time.Duration `toml:"cache_ttl"`
	TVMaze   *TVMazeConfig `toml:"tvmaze"`
	TMDB     *TMDBConfig   `toml:"tmdb"`
	TVDB     *TVDBConfig   `toml:"tvdb"`
	File     *FileConfig   `toml:"file"`
}

type TVMazeConfig struct {
	Enabled  bool   `toml:"enabled"`
	Priority int    `toml:"priority"`
	URL      string `toml:"url"`
}

type TMDBConfig struct {
	Enabled  bool   `toml:"enabled"`
	Priority int    `toml:"priority"`
	APIKey   string `toml:"api_key"`
	URL      string `toml:"url"`
}

type TVDBConfig struct {
	Enabled    bool   `toml:"enabled"`
	Priority   int    `toml:"priority"`
	APIKey     string `toml:"api_key"`
	URL        string `toml:"url"`
	SeasonType string `toml:"season_type"`
}

type FileConfig struct {
	Enabled  bool   `toml:"enabled"`
	Priority int    `toml:"priority"`
	Dir      string `toml:"dir"`
}

// SeriesConfig is one recorded series.
type SeriesConfig struct {
	Name     string         `toml:"name"`
	Path     string         `toml:"path"`
	Matching SeriesMatching `toml:"matching,omitempty"`
}

// SeriesMatching holds a series' threshold overrides as written in the
// file. Values are type-checked by Thresholds, so a bad value fails only
// that series.
type SeriesMatching map[string]any

// overrides converts the written values. Integers are accepted for any
// threshold.
func (m SeriesMatching) overrides() (MatchingConfig, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out MatchingConfig
	var errs []error
	for _, k := range keys {
		var dst **float64
		switch k {
		case "exact":
			dst = &out.Exact
		case "token_set":
			dst = &out.TokenSet
		case "subsequence":
			dst = &out.Subsequence
		case "weighted":
			dst = &out.Weighted
		default:
			errs = append(errs, fmt.Errorf("matching.%s: unknown threshold", k))
			continue
		}
		v, ok := number(m[k])
		if !ok {
			errs = append(errs, fmt.Errorf("matching.%s: must be a number, got %T", k, m[k]))
			continue
		}
		*dst = &v
	}
	return out, errors.Join(errs...)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Thresholds resolves the series' thresholds: defaults, then the global
// overrides, then the series' own. An error means a series value is not a
// usable number; ranges are not checked here.
func (s SeriesConfig) Thresholds(global MatchingConfig) (match.Thresholds, error) {
	own, err := s.Matching.overrides()
	if err != nil {
		return match.Thresholds{}, fmt.Errorf("series %q: %w", s.Name, err)
	}
	t := match.DefaultThresholds()
	global.apply(&t)
	own.apply(&t)
	return t, nil
}

func (m MatchingConfig) apply(t *match.Thresholds) {
	if m.Exact != nil {
		t.Exact = match.Ratio(*m.Exact)
	}
	if m.TokenSet != nil {
		t.TokenSet = match.Ratio(*m.TokenSet)
	}
	if m.Subsequence != nil {
		t.Subsequence = match.Ratio(*m.Subsequence)
	}
	if m.Weighted != nil {
		t.Weighted = match.Points(*m.Weighted)
	}
}

// FindSeries returns the configured series with the given name.
func (c *Config) FindSeries(name string) (SeriesConfig, bool) {
	for _, s := range c.Series {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return SeriesConfig{}, false
}

// Load reads, parses, and validates the configuration file.
// Returns *ConfigError if env vars are missing or validation fails.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file without
// validating it. Missing env vars are still reported.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}
	return cfg, nil
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(xdg.DataHome, AppName, AppName+".db")
	}
	if c.Output.Dir == "" {
		c.Output.Dir = filepath.Join(xdg.DataHome, AppName, "json")
	}
	if c.Library.LockFile == "" {
		c.Library.LockFile = filepath.Join(xdg.RuntimeDir, AppName+"-organize.lock")
	}
	if c.LogFile.Path != "" {
		if c.LogFile.MaxSizeMB == 0 {
			c.LogFile.MaxSizeMB = 10
		}
		if c.LogFile.MaxBackups == 0 {
			c.LogFile.MaxBackups = 3
		}
	}
	if c.Matching.Concurrency == 0 {
		c.Matching.Concurrency = 4
	}
	if c.Providers.CacheTTL == 0 {
		c.Providers.CacheTTL = 24 * time.Hour
	}
	if c.Providers.File != nil && c.Providers.File.Dir == "" {
		c.Providers.File.Dir = c.Output.Dir
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces env var references and returns the names of
// unresolved variables. Unresolved references are left in place.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(ref string) string {
		parts := envVarPattern.FindStringSubmatch(ref)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if value == "" {
				return arg
			}
			return value
		case ":?":
			if value == "" {
				missing = append(missing, name+": "+arg)
				return ref
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return ref
		}
		return value
	})
	return out, missing
}
