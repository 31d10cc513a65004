package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// EnvConfig names the environment variable that overrides discovery.
const EnvConfig = "TVRECON_CONFIG"

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. TVRECON_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/tvrecon/config.toml, then $XDG_CONFIG_DIRS
//  4. /etc/tvrecon/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, envPath, err)
		}
		return envPath, nil
	}

	if _, err := os.Stat("./config.toml"); err == nil {
		return "./config.toml", nil
	}
	if p, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.toml")); err == nil {
		return p, nil
	}
	system := filepath.Join("/etc", AppName, "config.toml")
	if _, err := os.Stat(system); err == nil {
		return system, nil
	}

	paths := []string{"./config.toml", DefaultPath(), system}
	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}
