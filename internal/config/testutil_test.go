package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
[providers.tvmaze]
enabled = true
priority = 1

[[series]]
name = "Ax Men"
path = "/recordings/Ax Men"
`

func ptr[T any](v T) *T { return &v }
