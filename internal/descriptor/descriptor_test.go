package descriptor

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="utf-8"?>
<recording>
  <title>Ax Men</title>
  <subtitle> One More Time... </subtitle>
  <description>The crews push on through the storm.</description>
  <channel>HISTORY</channel>
  <channel>ignored duplicate</channel>
  <start>2024-01-01T21:00:00</start>
</recording>`

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "One More Time...", m.Subtitle)
	assert.Equal(t, "Ax Men", m.SeriesTitle)
	assert.Equal(t, "The crews push on through the storm.", m.Description)
	assert.Equal(t, "HISTORY", m.Tags["channel"])
	assert.Equal(t, "2024-01-01T21:00:00", m.Tags["start"])
}

func TestParse_MissingFields(t *testing.T) {
	m, err := Parse(strings.NewReader(`<recording><start>x</start></recording>`))
	require.NoError(t, err)
	assert.Empty(t, m.Subtitle)
	assert.Empty(t, m.SeriesTitle)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse(strings.NewReader("<recording><subtitle>oops</recording>"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/rec/Ax Men.xml", []byte(sample), 0o644))

	m, err := ParseFile(fs, "/rec/Ax Men.xml")
	require.NoError(t, err)
	assert.Equal(t, "One More Time...", m.Subtitle)

	_, err = ParseFile(fs, "/rec/missing.xml")
	assert.Error(t, err)
}
