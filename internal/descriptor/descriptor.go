// Package descriptor reads the XML sidecar a DVR writes next to each
// recording.
package descriptor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// Tag names with a fixed meaning. Every other child element is passed
// through in Metadata.Tags.
const (
	TagSubtitle    = "subtitle"
	TagTitle       = "title"
	TagDescription = "description"
)

var (
	// ErrEmpty indicates a zero-length descriptor file.
	ErrEmpty = errors.New("empty descriptor")

	// ErrMalformed indicates the file is not well-formed XML.
	ErrMalformed = errors.New("malformed descriptor")
)

// Metadata is the parsed content of one descriptor. Read-only after Parse.
type Metadata struct {
	Subtitle    string            `json:"subtitle"`
	SeriesTitle string            `json:"series_title"`
	Description string            `json:"description,omitempty"`
	Tags        map[string]string `json:"raw_tags"`
}

type element struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []element `xml:",any"`
}

// Parse decodes a descriptor. Child elements of the root become tags keyed
// by local name; the first occurrence of a repeated tag wins.
func Parse(r io.Reader) (Metadata, error) {
	var root element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return Metadata{}, ErrEmpty
		}
		return Metadata{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	m := Metadata{Tags: make(map[string]string, len(root.Children))}
	for _, c := range root.Children {
		name := c.XMLName.Local
		if _, seen := m.Tags[name]; seen {
			continue
		}
		m.Tags[name] = strings.TrimSpace(c.Text)
	}

	m.Subtitle = m.Tags[TagSubtitle]
	m.SeriesTitle = m.Tags[TagTitle]
	m.Description = m.Tags[TagDescription]
	return m, nil
}

// ParseFile reads and parses the descriptor at path.
func ParseFile(fs afero.Fs, path string) (Metadata, error) {
	f, err := fs.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open descriptor: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := Parse(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}
