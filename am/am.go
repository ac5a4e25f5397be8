// Package am loads neocad configuration ("I am").
//
// Settings merge from built-in defaults, then system, user and project TOML
// files, then NEOCAD_* environment variables. Each effective setting remembers
// which of those sources it came from so `neocad am where` can explain it.
package am

// Config is the neocad configuration
type Config struct {
	Data     DataConfig  `mapstructure:"data" toml:"data" json:"data" yaml:"data"`
	Query    QueryConfig `mapstructure:"query" toml:"query" json:"query" yaml:"query"`
	Log      LogConfig   `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Requires string      `mapstructure:"requires" toml:"requires,omitempty" json:"requires,omitempty" yaml:"requires,omitempty"`
}

// DataConfig locates the NEO and close approach data files
type DataConfig struct {
	NEOPath string `mapstructure:"neo_path" toml:"neo_path" json:"neo_path" yaml:"neo_path"`
	CADPath string `mapstructure:"cad_path" toml:"cad_path" json:"cad_path" yaml:"cad_path"`
	NEOURL  string `mapstructure:"neo_url" toml:"neo_url" json:"neo_url" yaml:"neo_url"` // source for `neocad fetch`, empty = skip
	CADURL  string `mapstructure:"cad_url" toml:"cad_url" json:"cad_url" yaml:"cad_url"`
}

// QueryConfig configures terminal query output
type QueryConfig struct {
	DefaultLimit int    `mapstructure:"default_limit" toml:"default_limit" json:"default_limit" yaml:"default_limit"` // 0 = unlimited
	OutputFormat string `mapstructure:"output_format" toml:"output_format" json:"output_format" yaml:"output_format"` // table, plain, json
}

// LogConfig configures the logger
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Configuration file names
const (
	ProjectConfigName = "neocad.toml"
	UserConfigName    = "am.toml"
	UserConfigDir     = ".neocad"
	SystemConfigPath  = "/etc/neocad/config.toml"
	EnvPrefix         = "NEOCAD"
)
