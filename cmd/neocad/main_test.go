package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/neocad/am"
	"github.com/teranos/neocad/errors"
)

func defaultConfig(t *testing.T) *am.Config {
	t.Helper()
	v := viper.New()
	am.SetDefaults(v)
	cfg, err := am.LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func findCommand(t *testing.T, path ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := rootCmd.Find(path)
	require.NoError(t, err)
	return cmd
}

func TestPreflight(t *testing.T) {
	tests := []struct {
		name    string
		command []string
		mutate  func(*am.Config)
		wantErr bool
	}{
		{"defaults", []string{"query"}, func(*am.Config) {}, false},
		{"negative limit", []string{"query"}, func(c *am.Config) { c.Query.DefaultLimit = -1 }, true},
		{"unknown output format", []string{"inspect"}, func(c *am.Config) { c.Query.OutputFormat = "xml" }, true},
		{"bad requires", []string{"shell"}, func(c *am.Config) { c.Requires = "not a constraint !!" }, true},
		{"am skips validation", []string{"am", "show"}, func(c *am.Config) { c.Query.DefaultLimit = -1 }, false},
		{"version skips validation", []string{"version"}, func(c *am.Config) { c.Requires = "not a constraint !!" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)

			err := preflight(findCommand(t, tt.command...), cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsInvalidRequestError(err))
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}
