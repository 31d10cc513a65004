// internal/config/write_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "tvrecon", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read written file")

	// Check for key sections
	assert.Contains(t, string(content), "[library]")
	assert.Contains(t, string(content), "[[series]]")
	assert.Contains(t, string(content), "${TMDB_API_KEY:-}")
}

func TestWriteDefault_CreatesDir(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "deep", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	_, err = os.Stat(path)
	assert.False(t, os.IsNotExist(err), "file was not created")
}

func TestConfig_Write(t *testing.T) {
	cfg := &Config{
		LogLevel: "warn",
		Library:  LibraryConfig{Root: "/srv/tv"},
		Matching: MatchingConfig{TokenSet: ptr(0.8)},
		Series:   []SeriesConfig{{Name: "Ax Men", Path: "/recordings/Ax Men"}},
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Write(path), "Write failed")

	got, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", got.LogLevel)
	assert.Equal(t, "/srv/tv", got.Library.Root)
	require.NotNil(t, got.Matching.TokenSet)
	assert.Equal(t, 0.8, *got.Matching.TokenSet)
	assert.Equal(t, "Ax Men", got.Series[0].Name)
}

func TestWriteDefault_Loads(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TVDB_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "Ax Men", cfg.Series[0].Name)
	assert.Empty(t, cfg.Providers.TMDB.APIKey)
	assert.Equal(t, "official", cfg.Providers.TVDB.SeasonType)
}
