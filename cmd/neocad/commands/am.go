package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/neocad/am"
	"github.com/teranos/neocad/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage neocad configuration",
	Long: `am: manage neocad configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (NEOCAD_* prefix, e.g. NEOCAD_QUERY_DEFAULT_LIMIT)
3. Project config (neocad.toml, searched upward from the working directory)
4. User config (~/.neocad/am.toml)
5. System config (/etc/neocad/config.toml)
6. Default values

Examples:
  neocad am show                     # Show current configuration
  neocad am show --format json       # Show configuration as JSON
  neocad am get data.neo_path        # Get one value
  neocad am set query.default_limit 25
  neocad am validate                 # Validate configuration and files
  neocad am where                    # Show where each value came from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the user configuration file",
	Long:  "Write a value into ~/.neocad/am.toml (or --file). The previous file is kept as .back1.",
	Args:  cobra.ExactArgs(2),
	RunE:  runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate the merged configuration and report unknown keys in each configuration file.",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var (
	configFormat  string
	setConfigFile string
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amSetCmd.Flags().StringVar(&setConfigFile, "file", "", "Config file to modify (default ~/.neocad/am.toml)")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

// renderConfig marshals cfg as toml, json or yaml.
func renderConfig(cfg *am.Config, format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(cfg, "", "  ")
	case "yaml":
		return yaml.Marshal(cfg)
	case "toml":
		return toml.Marshal(cfg)
	}
	return nil, errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", format)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	data, err := renderConfig(cfg, configFormat)
	if err != nil {
		return err
	}
	if configFormat != "json" {
		fmt.Fprintln(cmd.OutOrStdout(), "# neocad configuration")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	if configFormat == "json" {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	v := am.GetViper()
	if !v.IsSet(key) {
		return errors.NewNotFoundError("configuration key %q", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	path := setConfigFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "could not determine home directory")
		}
		path = am.UserConfigPath(home)
	}

	value, err := am.ParseValue(key, raw)
	if err != nil {
		return err
	}
	if err := am.SetValue(path, key, value); err != nil {
		return err
	}

	am.Reset()
	pterm.Success.Printfln("%s = %v (%s)", key, value, path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	for _, candidate := range am.ConfigCandidates() {
		if !candidate.Exists() {
			continue
		}
		unknown, err := am.CheckFile(candidate.Path)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			pterm.Warning.Printfln("%s: unknown key %q", candidate.Path, key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration is invalid")
	}

	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration files (lowest precedence first):")
	for _, candidate := range am.ConfigCandidates() {
		status := pterm.Gray("missing")
		if candidate.Exists() {
			status = pterm.LightGreen("found")
		}
		fmt.Fprintf(out, "  %-8s %s (%s)\n", "["+string(candidate.Source)+"]", candidate.Path, status)
	}
	fmt.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, setting := range am.Introspect() {
		data = append(data, []string{
			setting.Key,
			fmt.Sprint(setting.Value),
			string(setting.Source),
			setting.SourcePath,
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(out, table)
	return nil
}
