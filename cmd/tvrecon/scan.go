package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vmunix/tvrecon/internal/config"
	"github.com/vmunix/tvrecon/internal/engine"
	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/internal/library"
	"github.com/vmunix/tvrecon/internal/provider"
)

var scanCmd = &cobra.Command{
	Use:   "scan [series...]",
	Short: "Group, match and record every configured series",
	Long: `Fetches provider metadata, groups the recordings of each series, matches
descriptor subtitles against episode titles, and writes the processed
document for each series. With no arguments every configured series runs.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// selectSeries returns the named series, or every series when names is empty.
func selectSeries(cfg *config.Config, names []string) ([]config.SeriesConfig, error) {
	if len(names) == 0 {
		return cfg.Series, nil
	}
	out := make([]config.SeriesConfig, 0, len(names))
	for _, n := range names {
		s, ok := cfg.FindSeries(n)
		if !ok {
			return nil, fmt.Errorf("series %q is not configured", n)
		}
		out = append(out, s)
	}
	return out, nil
}

type seriesSummary struct {
	Series    string `json:"series"`
	Episodes  int    `json:"episodes"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
	Watched   int    `json:"watched"`
	Manual    int    `json:"manual"`
	Warnings  int    `json:"warnings"`
	Document  string `json:"document,omitempty"`
	Error     string `json:"error,omitempty"`
}

func summarize(doc *episode.Document, manual, warnings int, path string) seriesSummary {
	s := seriesSummary{Series: doc.SeriesName, Manual: manual, Warnings: warnings, Document: path}
	for _, r := range doc.Records() {
		s.Episodes++
		if r.Matched {
			s.Matched++
		} else {
			s.Unmatched++
		}
		if r.Watched {
			s.Watched++
		}
	}
	return s
}

// resolveSeries builds the engine input of each selected series. A series
// whose thresholds cannot be read fails alone.
func resolveSeries(selected []config.SeriesConfig, global config.MatchingConfig) ([]engine.Series, []engine.Failure) {
	var series []engine.Series
	var failed []engine.Failure
	for _, s := range selected {
		t, err := s.Thresholds(global)
		if err != nil {
			failed = append(failed, engine.Failure{
				Series: s.Name,
				Err:    &engine.ConfigurationError{Series: s.Name, Err: err},
			})
			continue
		}
		series = append(series, engine.Series{Name: s.Name, Dir: s.Path, Thresholds: t})
	}
	return series, failed
}

// saveReports applies manual assignments to each report, then writes and
// stores its document. A series that cannot be saved fails alone.
func (a *app) saveReports(ctx context.Context, log *slog.Logger, reports []*engine.Report, runID string, watch episode.WatchLookup) ([]seriesSummary, []engine.Failure) {
	var summaries []seriesSummary
	var failed []engine.Failure
	for _, rep := range reports {
		for _, w := range rep.Warnings {
			log.Warn("series warning", "series", rep.Series, "detail", w)
		}
		summary, err := a.saveReport(ctx, rep, runID, watch)
		if err != nil {
			log.Error("series failed", "series", rep.Series, "error", err)
			failed = append(failed, engine.Failure{Series: rep.Series, Err: err})
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, failed
}

func (a *app) saveReport(ctx context.Context, rep *engine.Report, runID string, watch episode.WatchLookup) (seriesSummary, error) {
	doc, manual, err := a.store.ApplyAssignments(ctx, rep.Document, watch)
	if err != nil {
		return seriesSummary{}, fmt.Errorf("apply assignments: %w", err)
	}
	path, err := writeDocument(a.fs, a.cfg.Output.Dir, doc)
	if err != nil {
		return seriesSummary{}, err
	}
	if err := a.store.SaveSeries(ctx, doc, runID); err != nil {
		return seriesSummary{}, fmt.Errorf("save: %w", err)
	}
	return summarize(doc, manual, len(rep.Warnings), path), nil
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	ctx := cmd.Context()

	selected, err := selectSeries(a.cfg, args)
	if err != nil {
		return err
	}

	run := library.Run{ID: uuid.NewString(), StartedAt: time.Now()}
	log := a.log.With("run", run.ID)
	providers := a.providers()

	series, failed := resolveSeries(selected, a.cfg.Matching)
	for _, f := range failed {
		log.Error("series failed", "series", f.Series, "error", f.Err)
	}
	for i := range series {
		s := &series[i]
		cands, errs := provider.Collect(ctx, providers, s.Name, log)
		if len(cands) == 0 && len(errs) > 0 {
			log.Warn("no provider metadata, every recording will be unmatched", "series", s.Name)
		}
		if len(cands) > 0 {
			if err := provider.WriteMerged(a.fs, a.cfg.Output.Dir, provider.Merge(s.Name, cands)); err != nil {
				log.Warn("write merged metadata", "series", s.Name, "error", err)
			}
		}
		s.Candidates = cands
	}

	history := a.watchSet(ctx)
	eng := engine.New(a.fs, engine.WithWatch(history), engine.WithLogger(log))
	res := engine.NewRunner(eng, a.cfg.Matching.Concurrency, log).Run(ctx, series)
	failed = append(failed, res.Failed...)

	summaries, saveFailed := a.saveReports(ctx, log, res.Reports, run.ID, history)
	failed = append(failed, saveFailed...)
	for _, rep := range res.Reports {
		run.Warnings += len(rep.Warnings)
	}
	for _, f := range failed {
		summaries = append(summaries, seriesSummary{Series: f.Series, Error: f.Err.Error()})
	}

	run.FinishedAt = time.Now()
	run.Series = len(selected)
	run.Failed = len(failed)
	if err := a.store.AddRun(ctx, run); err != nil {
		log.Warn("record run", "error", err)
	}
	log.Info("scan finished", "series", run.Series, "failed", run.Failed, "warnings", run.Warnings, "elapsed", elapsed(run.StartedAt))

	if jsonOutput {
		if err := printJSON(os.Stdout, summaries); err != nil {
			return err
		}
	} else {
		fmt.Println(renderScanSummary(summaries))
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d series failed", len(failed), len(selected))
	}
	return nil
}

func renderScanSummary(summaries []seriesSummary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		if s.Error != "" {
			rows = append(rows, []string{s.Series, "-", "-", "-", "-", "-", "failed: " + s.Error})
			continue
		}
		rows = append(rows, []string{
			s.Series,
			strconv.Itoa(s.Episodes),
			strconv.Itoa(s.Matched),
			strconv.Itoa(s.Unmatched),
			strconv.Itoa(s.Watched),
			strconv.Itoa(s.Warnings),
			s.Document,
		})
	}
	return renderTable(
		[]string{"Series", "Episodes", "Matched", "Unmatched", "Watched", "Warnings", "Document"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
