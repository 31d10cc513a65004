package organizer

import (
	"encoding/xml"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/vmunix/tvrecon/internal/episode"
)

type episodeDetails struct {
	XMLName   xml.Name `xml:"episodedetails"`
	Title     string   `xml:"title"`
	Season    int      `xml:"season"`
	Episode   int      `xml:"episode"`
	Plot      string   `xml:"plot"`
	Aired     string   `xml:"aired"`
	PlayCount int      `xml:"playcount"`
	ShowTitle string   `xml:"showtitle"`
}

func detailsFor(series string, r episode.Record) episodeDetails {
	d := episodeDetails{
		Title:     r.Title(),
		Season:    r.Season,
		Episode:   r.Episode,
		Plot:      r.Descriptor.Description,
		ShowTitle: series,
	}
	if len(r.Providers) > 0 {
		if r.Providers[0].Description != "" {
			d.Plot = r.Providers[0].Description
		}
		d.Aired = r.Providers[0].AirDate
	}
	if r.Watched {
		d.PlayCount = 1
	}
	return d
}

// WriteNFO writes a Kodi <episodedetails> file for r at path, replacing
// any existing file.
func WriteNFO(fs afero.Fs, path, series string, r episode.Record) error {
	out, err := xml.MarshalIndent(detailsFor(series, r), "", "  ")
	if err != nil {
		return fmt.Errorf("encode nfo: %w", err)
	}
	data := append([]byte(xml.Header), out...)
	data = append(data, '\n')

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create nfo directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write nfo %s: %w", path, err)
	}
	return nil
}
