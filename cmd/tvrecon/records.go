package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/internal/library"
)

var (
	recordsUnmatched bool
	recordsSeason    int
	recordsLimit     int
)

var recordsCmd = &cobra.Command{
	Use:   "records [series]",
	Short: "List stored episode records",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(&recordsUnmatched, "unmatched", false, "Only unmatched records")
	recordsCmd.Flags().IntVar(&recordsSeason, "season", -1, "Only this season")
	recordsCmd.Flags().IntVar(&recordsLimit, "limit", 0, "Maximum records to show")
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	f := library.RecordFilter{Limit: recordsLimit}
	if len(args) == 1 {
		f.Series = &args[0]
	}
	if recordsUnmatched {
		matched := false
		f.Matched = &matched
	}
	if recordsSeason >= 0 {
		f.Season = &recordsSeason
	}

	records, total, err := a.store.ListRecords(cmd.Context(), f)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(os.Stdout, records)
	}
	fmt.Println(renderRecords(records))
	fmt.Printf("%d of %d records\n", len(records), total)
	return nil
}

func renderRecords(records []episode.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		pass := "-"
		if r.Matched && r.Pass > 0 {
			pass = strconv.Itoa(r.Pass)
		} else if r.Matched {
			pass = "manual"
		}
		watched := ""
		if r.Watched {
			watched = "yes"
		}
		canonical := r.Canonical
		if r.FullyBroken {
			canonical = "(all broken)"
		}
		rows = append(rows, []string{r.SeriesName, r.Key().String(), r.StandardName, pass, watched, canonical})
	}
	return renderTable([]string{"Series", "Key", "Name", "Pass", "Watched", "Canonical"}, rows, nil)
}
