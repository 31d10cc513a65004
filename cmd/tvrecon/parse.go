package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/tvrecon/pkg/recording"
	"github.com/vmunix/tvrecon/pkg/title"
)

var parseCmd = &cobra.Command{
	Use:   "parse <filename>...",
	Short: "Show how recording filenames are parsed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

type parsedName struct {
	Input         string `json:"input"`
	Stem          string `json:"stem"`
	Ext           string `json:"ext"`
	Kind          string `json:"kind"`
	Broken        bool   `json:"broken"`
	Interruptions int    `json:"interruptions"`
	Normalized    string `json:"normalized"`
}

func parseNames(inputs []string) []parsedName {
	out := make([]parsedName, 0, len(inputs))
	for _, in := range inputs {
		n := recording.ParseFilename(in)
		out = append(out, parsedName{
			Input:         in,
			Stem:          n.Stem,
			Ext:           n.Ext,
			Kind:          recording.KindOf(n.Ext).String(),
			Broken:        n.Status.Broken(),
			Interruptions: n.Status.Interruptions(),
			Normalized:    title.Normalize(n.Stem),
		})
	}
	return out
}

func runParse(cmd *cobra.Command, args []string) error {
	parsed := parseNames(args)
	if jsonOutput {
		return printJSON(os.Stdout, parsed)
	}

	rows := make([][]string, 0, len(parsed))
	for _, p := range parsed {
		status := "ok"
		if p.Broken {
			status = "broken (" + strconv.Itoa(p.Interruptions) + ")"
		}
		rows = append(rows, []string{p.Input, p.Stem, p.Ext, p.Kind, status})
	}
	fmt.Println(renderTable([]string{"File", "Stem", "Ext", "Kind", "Status"}, rows, nil))
	return nil
}
