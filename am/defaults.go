package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Defaults for every setting
const (
	DefaultNEOPath      = "data/neos.csv"
	DefaultCADPath      = "data/cad.json"
	DefaultCADURL       = "https://ssd-api.jpl.nasa.gov/cad.api?date-min=1900-01-01&date-max=2200-01-01&dist-max=0.5"
	DefaultLimit        = 10
	DefaultOutputFormat = "table"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.neo_path", DefaultNEOPath)
	v.SetDefault("data.cad_path", DefaultCADPath)
	v.SetDefault("data.neo_url", "")
	v.SetDefault("data.cad_url", DefaultCADURL)

	v.SetDefault("query.default_limit", DefaultLimit)
	v.SetDefault("query.output_format", DefaultOutputFormat)

	v.SetDefault("log.json", false)
	v.SetDefault("requires", "")
}

// String returns a short representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Data: {NEO: %s, CAD: %s}, Query: {Limit: %d, Format: %s}}",
		c.Data.NEOPath, c.Data.CADPath, c.Query.DefaultLimit, c.Query.OutputFormat)
}
