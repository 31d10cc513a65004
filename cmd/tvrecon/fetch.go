package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/tvrecon/internal/provider"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [series...]",
	Short: "Fetch provider metadata and write the merged metadata document",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

type fetchSummary struct {
	Series    string         `json:"series"`
	Episodes  int            `json:"episodes"`
	Providers map[string]int `json:"providers"`
	Errors    []string       `json:"errors,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
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
	providers := a.providers()

	var out []fetchSummary
	var rows [][]string
	for _, s := range selected {
		cands, errs := provider.Collect(ctx, providers, s.Name, a.log)
		merged := provider.Merge(s.Name, cands)
		if err := provider.WriteMerged(a.fs, a.cfg.Output.Dir, merged); err != nil {
			return fmt.Errorf("write metadata for %s: %w", s.Name, err)
		}

		sum := fetchSummary{Series: s.Name, Providers: make(map[string]int)}
		for _, season := range merged.Seasons {
			sum.Episodes += len(season.Episodes)
		}
		for _, c := range cands {
			sum.Providers[c.Provider]++
		}
		for _, e := range errs {
			sum.Errors = append(sum.Errors, e.Error())
		}
		out = append(out, sum)

		names := make([]string, 0, len(sum.Providers))
		for n := range sum.Providers {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			rows = append(rows, []string{s.Name, n, strconv.Itoa(sum.Providers[n])})
		}
		for _, e := range sum.Errors {
			rows = append(rows, []string{s.Name, "error", e})
		}
	}

	if jsonOutput {
		return printJSON(os.Stdout, out)
	}
	fmt.Println(renderTable([]string{"Series", "Provider", "Titles"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	return nil
}
