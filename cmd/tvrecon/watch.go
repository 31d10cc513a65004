package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vmunix/tvrecon/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch-history sources",
}

var watchExportCmd = &cobra.Command{
	Use:   "export <out.json>",
	Short: "Export the Kodi watch history to JSON",
	Long: `Reads the configured Kodi video database and writes its episode rows as a
JSON export, for hosts that cannot reach the database directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchExport,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.AddCommand(watchExportCmd)
}

func runWatchExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Watch.KodiDB == "" {
		return errors.New("watch.kodi_db is not configured")
	}
	entries, err := watch.ReadKodiDB(cmd.Context(), cfg.Watch.KodiDB)
	if err != nil {
		return err
	}
	if err := watch.WriteExport(afero.NewOsFs(), args[0], entries); err != nil {
		return err
	}

	watched := 0
	for _, e := range entries {
		if e.Watched {
			watched++
		}
	}
	fmt.Printf("Exported %d episodes (%d watched) to %s\n", len(entries), watched, args[0])
	return nil
}
