package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/tvrecon/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without touching any recordings.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		p, err := config.Discover()
		if err != nil {
			return err
		}
		path = p
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(os.Stdout, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(os.Stdout, cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		_, _ = fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			_, _ = fmt.Fprintf(w, "  - %s\n", m)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		_, _ = fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			_, _ = fmt.Fprintf(w, "  - %s\n", err)
		}
		_, _ = fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	_, _ = fmt.Fprintln(w, "Configuration Summary:")
	_, _ = fmt.Fprintf(w, "  Database:   %s (log: %s)\n", cfg.Database.Path, cfg.LogLevel)
	_, _ = fmt.Fprintf(w, "  Output:     %s\n", cfg.Output.Dir)
	if cfg.Library.Root != "" {
		_, _ = fmt.Fprintf(w, "  Library:    %s\n", cfg.Library.Root)
	}

	names := make([]string, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		names = append(names, s.Name)
	}
	_, _ = fmt.Fprintf(w, "  Series:     %s\n", strings.Join(names, ", "))

	var providers []string
	p := cfg.Providers
	if p.TVMaze != nil && p.TVMaze.Enabled {
		providers = append(providers, fmt.Sprintf("tvmaze(%d)", p.TVMaze.Priority))
	}
	if p.TMDB != nil && p.TMDB.Enabled {
		providers = append(providers, fmt.Sprintf("tmdb(%d)", p.TMDB.Priority))
	}
	if p.TVDB != nil && p.TVDB.Enabled {
		providers = append(providers, fmt.Sprintf("tvdb(%d)", p.TVDB.Priority))
	}
	if p.File != nil && p.File.Enabled {
		providers = append(providers, fmt.Sprintf("file(%d)", p.File.Priority))
	}
	_, _ = fmt.Fprintf(w, "  Providers:  %s\n", strings.Join(providers, ", "))

	var watch []string
	if cfg.Watch.KodiDB != "" {
		watch = append(watch, "kodi")
	}
	if cfg.Watch.Export != "" {
		watch = append(watch, "export")
	}
	if len(watch) > 0 {
		_, _ = fmt.Fprintf(w, "  Watch:      %s\n", strings.Join(watch, ", "))
	}
}
