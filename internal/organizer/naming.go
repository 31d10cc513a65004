package organizer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/vmunix/tvrecon/internal/episode"
)

// Default naming templates, relative to the library root.
const (
	DefaultEpisodeTemplate   = "{series}/Season {season:02}/{series} - S{season:02}E{episode:02} - {title}.{ext}"
	DefaultUnmatchedTemplate = "{series}/Unmatched Episodes/{series} - {title}.{ext}"
)

// Renamer applies naming templates to records.
type Renamer struct {
	episodeTemplate   string
	unmatchedTemplate string
}

// NewRenamer creates a Renamer. Empty strings use the default templates.
func NewRenamer(episodeTemplate, unmatchedTemplate string) *Renamer {
	if episodeTemplate == "" {
		episodeTemplate = DefaultEpisodeTemplate
	}
	if unmatchedTemplate == "" {
		unmatchedTemplate = DefaultUnmatchedTemplate
	}
	return &Renamer{
		episodeTemplate:   episodeTemplate,
		unmatchedTemplate: unmatchedTemplate,
	}
}

// Path returns the library-relative path for a record's media file.
// ext is given without the leading dot.
func (r *Renamer) Path(series string, rec episode.Record, ext string) string {
	vars := map[string]any{
		"series":  SanitizeFilename(series),
		"season":  rec.Season,
		"episode": rec.Episode,
		"title":   SanitizeFilename(rec.Title()),
		"ext":     ext,
	}
	if !rec.Matched {
		return applyTemplate(r.unmatchedTemplate, vars)
	}
	return applyTemplate(r.episodeTemplate, vars)
}

// formatPattern matches {name} or {name:02} style placeholders.
var formatPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// applyTemplate substitutes variables into a template string.
// Supports {name} for simple substitution and {name:02} for zero-padded integers.
func applyTemplate(template string, vars map[string]any) string {
	return formatPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := formatPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		val, ok := vars[parts[1]]
		if !ok {
			return match
		}

		if len(parts) >= 3 && parts[2] != "" {
			if width, err := strconv.Atoi(parts[2]); err == nil {
				if v, ok := val.(int); ok {
					return fmt.Sprintf("%0*d", width, v)
				}
			}
		}
		return fmt.Sprintf("%v", val)
	})
}
