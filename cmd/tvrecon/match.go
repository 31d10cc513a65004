package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hbollon/go-edlib"
	"github.com/spf13/cobra"

	"github.com/vmunix/tvrecon/pkg/match"
	"github.com/vmunix/tvrecon/pkg/title"
)

var matchSeries string

var matchCmd = &cobra.Command{
	Use:   "match <subtitle> <title>...",
	Short: "Score a subtitle against candidate episode titles",
	Long: `Scores a descriptor subtitle against each title under every matching
pass, using the thresholds configured for --series (or the defaults), and
marks which passes would accept. Titles are numbered as episodes of
season 1 in the order given.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchSeries, "series", "", "Use this series' thresholds")
	rootCmd.AddCommand(matchCmd)
}

func matchThresholds() (match.Thresholds, error) {
	if matchSeries == "" {
		return match.DefaultThresholds(), nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return match.Thresholds{}, err
	}
	s, ok := cfg.FindSeries(matchSeries)
	if !ok {
		return match.Thresholds{}, fmt.Errorf("series %q is not configured", matchSeries)
	}
	return s.Thresholds(cfg.Matching)
}

type explainRow struct {
	Title    string             `json:"title"`
	Scores   map[string]float64 `json:"scores"`
	Accepted []string           `json:"accepted"`
	// Similarity is the Jaro-Winkler similarity of the normalized titles.
	// It is informational and never drives a match.
	Similarity float32 `json:"similarity"`
}

func explain(m *match.Matcher, subtitle string, titles []string) ([]explainRow, *match.Result) {
	cands := make([]match.Candidate, 0, len(titles))
	for i, t := range titles {
		cands = append(cands, match.NewCandidate("cli", 1, match.EpisodeKey{Season: 1, Episode: i + 1}, t, ""))
	}

	rows := make([]explainRow, 0, len(cands))
	for _, b := range m.Explain(subtitle, cands) {
		row := explainRow{Title: b.Candidate.Title, Scores: make(map[string]float64)}
		for _, p := range match.Passes {
			row.Scores[p.String()] = b.Scores[p].Value()
			if b.Accepted[p] {
				row.Accepted = append(row.Accepted, p.String())
			}
		}
		row.Similarity = edlib.JaroWinklerSimilarity(title.Normalize(subtitle), b.Candidate.NormalizedTitle)
		rows = append(rows, row)
	}

	if res, ok := m.Match(subtitle, cands); ok {
		return rows, &res
	}
	return rows, nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	t, err := matchThresholds()
	if err != nil {
		return err
	}
	rows, res := explain(match.NewMatcher(t, nil), args[0], args[1:])
	if jsonOutput {
		return printJSON(os.Stdout, rows)
	}

	headers := []string{"Title"}
	for _, p := range match.Passes {
		headers = append(headers, p.String())
	}
	headers = append(headers, "JW")
	aligns := make([]columnAlignment, len(headers))
	for i := 1; i < len(aligns); i++ {
		aligns[i] = alignRight
	}

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		accepted := make(map[string]bool, len(r.Accepted))
		for _, a := range r.Accepted {
			accepted[a] = true
		}
		line := []string{r.Title}
		for _, p := range match.Passes {
			cell := strconv.FormatFloat(r.Scores[p.String()], 'f', 3, 64)
			if accepted[p.String()] {
				cell += " *"
			}
			line = append(line, cell)
		}
		line = append(line, strconv.FormatFloat(float64(r.Similarity), 'f', 3, 32))
		table = append(table, line)
	}
	fmt.Println(renderTable(headers, table, aligns))

	if res == nil {
		fmt.Println("No match")
		return nil
	}
	fmt.Printf("Match: %s via %s (%s)\n", res.Winner.Candidate.Title, res.Winner.Pass, res.Winner.Score)
	return nil
}
