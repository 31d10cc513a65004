package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	const path = "/etc/tvrecon/config.toml"

	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{"nothing recorded", &ConfigError{Path: path}, ""},
		{
			"missing vars",
			&ConfigError{Path: path, Missing: []string{"TMDB_API_KEY", "TVDB_API_KEY"}},
			"config /etc/tvrecon/config.toml:\nmissing environment variables: TMDB_API_KEY, TVDB_API_KEY",
		},
		{
			"validation",
			&ConfigError{Path: path, Errors: []string{"log_level: must be one of debug, info, warn, error"}},
			"config /etc/tvrecon/config.toml:\nvalidation failed:\n  - log_level: must be one of debug, info, warn, error",
		},
		{
			"both without path",
			&ConfigError{Missing: []string{"TMDB_API_KEY"}, Errors: []string{"series[0].path: required"}},
			"missing environment variables: TMDB_API_KEY\nvalidation failed:\n  - series[0].path: required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.want != "", tt.err.HasErrors())
		})
	}
}

func TestConfigError_MatchesErrInvalid(t *testing.T) {
	err := fmt.Errorf("load: %w", &ConfigError{Errors: []string{"log_level: bad"}})
	assert.ErrorIs(t, err, ErrInvalid)

	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"log_level: bad"}, cfgErr.Errors)
}
