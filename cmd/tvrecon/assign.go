package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign <series> <subtitle> <season> <episode> [title]",
	Short: "Manually match an unmatched recording to an episode",
	Long: `Files the unmatched record whose subtitle matches under the given season
and episode. The assignment is remembered and reapplied by later scans.
The title defaults to the subtitle.`,
	Args: cobra.RangeArgs(4, 5),
	RunE: runAssign,
}

var unassignCmd = &cobra.Command{
	Use:   "unassign <series> <subtitle>",
	Short: "Forget a manual match; the next scan leaves the recording unmatched",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnassign,
}

func init() {
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(unassignCmd)
}

// parseEpisodeArgs parses season and episode numbers.
func parseEpisodeArgs(season, ep string) (int, int, error) {
	s, err := strconv.Atoi(season)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid season %q", season)
	}
	e, err := strconv.Atoi(ep)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid episode %q", ep)
	}
	return s, e, nil
}

func runAssign(cmd *cobra.Command, args []string) error {
	season, ep, err := parseEpisodeArgs(args[2], args[3])
	if err != nil {
		return err
	}
	title := args[1]
	if len(args) == 5 {
		title = args[4]
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	r, err := a.store.Assign(cmd.Context(), args[0], args[1], season, ep, title, a.watchSet(cmd.Context()))
	if err != nil {
		return fmt.Errorf("assign %q: %w", args[1], err)
	}
	fmt.Printf("Assigned: %s\n", r.StandardName)
	return nil
}

func runUnassign(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.store.DeleteAssignment(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Forgot assignment for %q\n", args[1])
	return nil
}
