package engine

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many series run at once.
const DefaultConcurrency = 4

// Failure is a series that did not produce a report.
type Failure struct {
	Series string
	Err    error
}

// RunResult collects the outcome of a multi-series run. Reports keep the
// input order; failed series are absent from Reports.
type RunResult struct {
	Reports []*Report
	Failed  []Failure
}

// Runner processes independent series concurrently. Each series still runs
// start to finish on one goroutine, grouping and matching its recordings in
// order; only separate series overlap, and results keep the input order.
type Runner struct {
	engine *Engine
	limit  int
	logger *slog.Logger
}

// NewRunner creates a runner. limit <= 0 uses DefaultConcurrency.
func NewRunner(e *Engine, limit int, logger *slog.Logger) *Runner {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{engine: e, limit: limit, logger: logger}
}

// Run processes every series. A failing series never stops the others.
func (r *Runner) Run(ctx context.Context, series []Series) RunResult {
	reports := make([]*Report, len(series))
	errs := make([]error, len(series))

	var g errgroup.Group
	g.SetLimit(r.limit)
	for i, s := range series {
		g.Go(func() error {
			reports[i], errs[i] = r.engine.RunSeries(ctx, s)
			return nil
		})
	}
	_ = g.Wait()

	var res RunResult
	for i, s := range series {
		if errs[i] != nil {
			r.logger.Error("series failed", "series", s.Name, "error", errs[i])
			res.Failed = append(res.Failed, Failure{Series: s.Name, Err: errs[i]})
			continue
		}
		res.Reports = append(res.Reports, reports[i])
	}
	return res
}
