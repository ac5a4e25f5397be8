package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/neocad/am"
	"github.com/teranos/neocad/cmd/neocad/commands"
	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/logger"
)

var (
	neoFile   string
	cadFile   string
	verbosity int
	logJSON   bool
)

var session = &commands.Session{}

var rootCmd = &cobra.Command{
	Use:   "neocad",
	Short: "neocad - near-Earth object close approach explorer",
	Long: `neocad - explore close approaches of near-Earth objects to Earth.

neocad links the JPL small-body NEO catalogue (CSV) with the JPL close
approach data set (JSON) and answers questions about both.

Available commands:
  inspect - Show one NEO by designation or name
  query   - Find close approaches matching criteria
  list    - List NEOs in catalogue order
  shell   - Run inspect, query and list against one loaded database
  fetch   - Download the data files
  am      - Manage configuration ("I am")
  version - Show version information

Examples:
  neocad inspect --name Eros --verbose
  neocad query --start-date 2020-01-01 --max-distance 0.05 --hazardous
  neocad query --where "velocity ge 30" --outfile fast.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}

		if err := logger.Initialize(logJSON || cfg.Log.JSON, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}

		if err := preflight(cmd, cfg); err != nil {
			return err
		}

		session.Configure(cfg, neoFile, cadFile)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

// preflight rejects a configuration the data commands cannot run with,
// including an unmet requires constraint. am and version skip it so a bad
// configuration can still be inspected and repaired.
func preflight(cmd *cobra.Command, cfg *am.Config) error {
	if isMaintenanceCommand(cmd) {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return errors.WithHint(errors.Wrap(err, "invalid configuration"),
			"run 'neocad am validate' and fix the setting with 'neocad am set'")
	}
	return nil
}

func isMaintenanceCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == commands.AmCmd || c == commands.VersionCmd {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&neoFile, "neofile", "", "Path to the NEO CSV file (default data.neo_path)")
	rootCmd.PersistentFlags().StringVar(&cadFile, "cadfile", "", "Path to the close approach JSON file (default data.cad_path)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbosity", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON")

	rootCmd.AddCommand(commands.NewInspectCmd(session))
	rootCmd.AddCommand(commands.NewQueryCmd(session))
	rootCmd.AddCommand(commands.NewListCmd(session))
	rootCmd.AddCommand(commands.NewShellCmd(session))
	rootCmd.AddCommand(commands.NewFetchCmd(session))
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
