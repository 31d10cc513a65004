package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/tvrecon/pkg/match"
)

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

[matching]
subsequence = 0.75

[providers.tvmaze]
enabled = true
priority = 1

[providers.file]
enabled = true
priority = 2
dir = "/data/json"

[[series]]
name = "Ax Men"
path = "/recordings/Ax Men"
[series.matching]
token_set = 0.8

[[series]]
name = "Swamp People"
path = "/recordings/Swamp People"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Series, 2)
	assert.Equal(t, "/data/json", cfg.Providers.File.Dir)

	ax, err := cfg.Series[0].Thresholds(cfg.Matching)
	require.NoError(t, err)
	assert.Equal(t, match.Ratio(0.8), ax.TokenSet)
	assert.Equal(t, match.Ratio(0.75), ax.Subsequence)
	assert.Equal(t, match.DefaultExact, ax.Exact)

	swamp, err := cfg.Series[1].Thresholds(cfg.Matching)
	require.NoError(t, err)
	assert.Equal(t, match.DefaultTokenSet, swamp.TokenSet)
	assert.Equal(t, match.Ratio(0.75), swamp.Subsequence)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(xdg.DataHome, AppName, "tvrecon.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(xdg.DataHome, AppName, "json"), cfg.Output.Dir)
	assert.Equal(t, 4, cfg.Matching.Concurrency)
	assert.Equal(t, 24*time.Hour, cfg.Providers.CacheTTL)
	th, err := cfg.Series[0].Thresholds(cfg.Matching)
	require.NoError(t, err)
	assert.Equal(t, match.DefaultThresholds(), th)
}

func TestLoad_CacheTTLDuration(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[providers]
cache_ttl = "90m"
`))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.Providers.CacheTTL)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, minimalConfig+`
[providers.tmdb]
enabled = true
priority = 2
api_key = "${TVRECON_TEST_MISSING_KEY}"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TVRECON_TEST_MISSING_KEY")

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"TVRECON_TEST_MISSING_KEY"}, cfgErr.Missing)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_EnvVarSubstituted(t *testing.T) {
	t.Setenv("TVRECON_TEST_TMDB_KEY", "secret")
	path := writeConfig(t, minimalConfig+`
[providers.tmdb]
enabled = true
priority = 2
api_key = "${TVRECON_TEST_TMDB_KEY}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Providers.TMDB.APIKey)
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `log_level = "verbose"`+minimalConfig)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestLoad_ParseError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing value at end of input", "log_level = "},
		{"unterminated string", "log_level = \"debug"},
		{"unterminated table header", "[series\n"},
		{"bad value", "log_level = debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			var err error
			require.NotPanics(t, func() { _, err = Load(path) })
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "parsing config"), err.Error())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestLoadWithoutValidation(t *testing.T) {
	cfg, err := LoadWithoutValidation(writeConfig(t, `log_level = "verbose"`))
	require.NoError(t, err)
	assert.Equal(t, "verbose", cfg.LogLevel)
}

func TestFindSeries(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	s, ok := cfg.FindSeries("ax men")
	require.True(t, ok)
	assert.Equal(t, "/recordings/Ax Men", s.Path)

	_, ok = cfg.FindSeries("Deadliest Catch")
	assert.False(t, ok)
}

func TestSeriesThresholds_ExplicitZeroDisables(t *testing.T) {
	global := MatchingConfig{TokenSet: ptr(0.9)}
	s := SeriesConfig{Matching: SeriesMatching{"token_set": 0.0}}
	th, err := s.Thresholds(global)
	require.NoError(t, err)
	assert.Equal(t, match.Ratio(0), th.TokenSet)
}

func TestSeriesThresholds_IntegerValues(t *testing.T) {
	s := SeriesConfig{Matching: SeriesMatching{"weighted": int64(20), "exact": int64(1)}}
	th, err := s.Thresholds(MatchingConfig{})
	require.NoError(t, err)
	assert.Equal(t, match.Points(20), th.Weighted)
	assert.Equal(t, match.Ratio(1), th.Exact)
}

func TestLoad_BadSeriesThresholdFailsOnlyThatSeries(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[providers.tvmaze]
enabled = true
priority = 1

[[series]]
name = "Ax Men"
path = "/recordings/Ax Men"
[series.matching]
token_set = 0.8

[[series]]
name = "Swamp People"
path = "/recordings/Swamp People"
[series.matching]
token_set = "high"
exactness = 0.5
`))
	require.NoError(t, err)
	require.Len(t, cfg.Series, 2)

	ax, err := cfg.Series[0].Thresholds(cfg.Matching)
	require.NoError(t, err)
	assert.Equal(t, match.Ratio(0.8), ax.TokenSet)

	_, err = cfg.Series[1].Thresholds(cfg.Matching)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `series "Swamp People"`)
	assert.Contains(t, err.Error(), "matching.token_set: must be a number, got string")
	assert.Contains(t, err.Error(), "matching.exactness: unknown threshold")
}
