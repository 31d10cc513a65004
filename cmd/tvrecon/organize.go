package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/internal/library"
	"github.com/vmunix/tvrecon/internal/organizer"
)

var (
	organizeApply         bool
	organizeIncludeReview bool
)

var organizeCmd = &cobra.Command{
	Use:   "organize <series>",
	Short: "Plan or apply library organization for a scanned series",
	Long: `Plans moving the canonical recording of every episode into the TV
library with its sidecars and an .nfo file, and deleting broken and
duplicate recordings. Nothing changes on disk without --apply.

Episodes whose every recording is broken are only deleted with
--include-review.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().BoolVar(&organizeApply, "apply", false, "Execute the plan")
	organizeCmd.Flags().BoolVar(&organizeIncludeReview, "include-review", false, "Also delete episodes with no playable recording")
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	ctx := cmd.Context()

	if a.cfg.Library.Root == "" {
		return errors.New("library.root is not configured")
	}
	s, ok := a.cfg.FindSeries(args[0])
	if !ok {
		return fmt.Errorf("series %q is not configured", args[0])
	}

	records, _, err := a.store.ListRecords(ctx, library.RecordFilter{Series: &s.Name})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records for %s; run 'tvrecon scan %q' first", s.Name, s.Name)
	}
	doc := episode.NewDocument(s.Name, records)

	renamer := organizer.NewRenamer(a.cfg.Library.Naming, a.cfg.Library.UnmatchedNaming)
	actions, err := organizer.NewPlanner(a.cfg.Library.Root, renamer).Plan(doc)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := printJSON(os.Stdout, planJSON(actions)); err != nil {
			return err
		}
	} else {
		fmt.Println(renderPlan(actions))
	}

	opts := []organizer.Option{organizer.WithLogger(a.log)}
	if organizeApply {
		lock := a.cfg.Library.LockFile
		if err := os.MkdirAll(filepath.Dir(lock), 0o755); err != nil {
			return fmt.Errorf("create lock dir: %w", err)
		}
		opts = append(opts, organizer.WithLockFile(lock))
	}
	sum, err := organizer.New(a.fs, opts...).Apply(ctx, actions, organizer.ApplyOptions{
		DryRun:        !organizeApply,
		IncludeReview: organizeIncludeReview,
	})

	verb := "Would move"
	if organizeApply {
		verb = "Moved"
	}
	fmt.Printf("\n%s %d files, delete %d (%s), write %d .nfo files; %d need review\n",
		verb, sum.Moved, sum.Deleted, humanize.Bytes(uint64(sum.Reclaimed)), sum.NFOs, sum.Skipped)
	if !organizeApply {
		fmt.Println("Dry run. Re-run with --apply to make these changes.")
	}
	return err
}

type actionJSON struct {
	Action string `json:"action"`
	Source string `json:"source,omitempty"`
	Dest   string `json:"dest,omitempty"`
	Size   int64  `json:"size,omitempty"`
	Reason string `json:"reason,omitempty"`
	Review bool   `json:"review,omitempty"`
}

func planJSON(actions []organizer.Action) []actionJSON {
	out := make([]actionJSON, 0, len(actions))
	for _, a := range actions {
		out = append(out, actionJSON{
			Action: a.Kind.String(),
			Source: a.Source,
			Dest:   a.Dest,
			Size:   a.Size,
			Reason: a.Reason,
			Review: a.Review,
		})
	}
	return out
}

func renderPlan(actions []organizer.Action) string {
	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		target := a.Dest
		if a.Kind == organizer.ActionDelete {
			target = a.Reason
			if a.Review {
				target += " (review)"
			}
		}
		size := ""
		if a.Size > 0 {
			size = humanize.Bytes(uint64(a.Size))
		}
		rows = append(rows, []string{a.Kind.String(), a.Source, target, size})
	}
	return renderTable(
		[]string{"Action", "Source", "Destination / Reason", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}
