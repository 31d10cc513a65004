package episode

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Document is the processed output for one series.
type Document struct {
	SeriesName string   `json:"series_name"`
	Seasons    []Season `json:"seasons"`
}

// Season groups records by season number. Season 0 holds specials and
// every unmatched record.
type Season struct {
	Number   int      `json:"season_number"`
	Episodes []Record `json:"episodes"`
}

// NewDocument files records into seasons. Unmatched records go to season 0
// and receive synthetic episode numbers after the highest season 0 number
// already taken, in input order.
func NewDocument(series string, records []Record) *Document {
	bySeason := make(map[int][]Record)
	var unmatched []Record
	for _, r := range records {
		if !r.Matched {
			unmatched = append(unmatched, r)
			continue
		}
		bySeason[r.Season] = append(bySeason[r.Season], r)
	}

	next := 0
	for _, r := range bySeason[0] {
		next = max(next, r.Episode)
	}
	for _, r := range unmatched {
		next++
		r.Season, r.Episode = 0, next
		bySeason[0] = append(bySeason[0], r)
	}

	doc := &Document{SeriesName: series, Seasons: []Season{}}
	for n, eps := range bySeason {
		sort.SliceStable(eps, func(i, j int) bool { return eps[i].Episode < eps[j].Episode })
		doc.Seasons = append(doc.Seasons, Season{Number: n, Episodes: eps})
	}
	sort.Slice(doc.Seasons, func(i, j int) bool { return doc.Seasons[i].Number < doc.Seasons[j].Number })
	return doc
}

// Records returns every record in season then episode order.
func (d *Document) Records() []Record {
	var out []Record
	for _, s := range d.Seasons {
		out = append(out, s.Episodes...)
	}
	return out
}

// Unmatched returns the records no pass accepted.
func (d *Document) Unmatched() []Record {
	var out []Record
	for _, r := range d.Records() {
		if !r.Matched {
			out = append(out, r)
		}
	}
	return out
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &d, nil
}
