package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/vmunix/tvrecon/pkg/match"
	"github.com/vmunix/tvrecon/pkg/tvdb"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validSeasonTypes = map[string]bool{
	"": true,
	string(tvdb.SeasonDefault):   true,
	string(tvdb.SeasonOfficial):  true,
	string(tvdb.SeasonDVD):       true,
	string(tvdb.SeasonAbsolute):  true,
	string(tvdb.SeasonAlternate): true,
	string(tvdb.SeasonRegional):  true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid). Per-series threshold
// problems are not reported here; they fail only that series at run time.
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("log_level: must be one of debug, info, warn, error; got %q", c.LogLevel))
	}

	global := match.DefaultThresholds()
	c.Matching.apply(&global)
	if err := global.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			errs = append(errs, "matching: "+line)
		}
	}
	if c.Matching.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("matching.concurrency: must not be negative, got %d", c.Matching.Concurrency))
	}

	for _, tmpl := range []struct{ key, value string }{
		{"library.naming", c.Library.Naming},
		{"library.unmatched_naming", c.Library.UnmatchedNaming},
	} {
		if tmpl.value != "" && !strings.Contains(tmpl.value, "{ext}") {
			errs = append(errs, fmt.Sprintf("%s: template must contain {ext}", tmpl.key))
		}
	}

	errs = append(errs, c.validateSeries()...)
	errs = append(errs, c.validateProviders()...)

	if c.Library.Root != "" {
		if _, err := os.Stat(c.Library.Root); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("library.root: warning: directory %q does not exist", c.Library.Root))
		}
	}

	return errs
}

func (c *Config) validateSeries() []string {
	var errs []string
	if len(c.Series) == 0 {
		errs = append(errs, "series: at least one series must be configured")
	}
	seen := make(map[string]bool)
	for i, s := range c.Series {
		if s.Name == "" {
			errs = append(errs, fmt.Sprintf("series[%d].name: required", i))
			continue
		}
		key := strings.ToLower(s.Name)
		if seen[key] {
			errs = append(errs, fmt.Sprintf("series[%d].name: duplicate series %q", i, s.Name))
		}
		seen[key] = true
		if s.Path == "" {
			errs = append(errs, fmt.Sprintf("series[%d].path: required for %q", i, s.Name))
		}
	}
	return errs
}

func (c *Config) validateProviders() []string {
	var errs []string
	p := c.Providers
	priorities := make(map[string]int)

	if p.TVMaze != nil && p.TVMaze.Enabled {
		priorities["tvmaze"] = p.TVMaze.Priority
	}
	if p.TMDB != nil && p.TMDB.Enabled {
		priorities["tmdb"] = p.TMDB.Priority
		if p.TMDB.APIKey == "" {
			errs = append(errs, "providers.tmdb.api_key: required when tmdb is enabled")
		}
	}
	if p.TVDB != nil && p.TVDB.Enabled {
		priorities["tvdb"] = p.TVDB.Priority
		if p.TVDB.APIKey == "" {
			errs = append(errs, "providers.tvdb.api_key: required when tvdb is enabled")
		}
		if !validSeasonTypes[p.TVDB.SeasonType] {
			errs = append(errs, fmt.Sprintf("providers.tvdb.season_type: unknown season type %q", p.TVDB.SeasonType))
		}
	}
	if p.File != nil && p.File.Enabled {
		priorities["file"] = p.File.Priority
	}

	if len(priorities) == 0 {
		errs = append(errs, "providers: at least one provider must be enabled")
	}

	if err := match.ValidatePriorities(priorities); err != nil {
		errs = append(errs, "providers: "+err.Error())
	}
	if p.CacheTTL < 0 {
		errs = append(errs, "providers.cache_ttl: must not be negative")
	}
	return errs
}
