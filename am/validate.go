package am

import (
	"github.com/BurntSushi/toml"

	"github.com/teranos/neocad/display"
	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/version"
)

// Validate checks that the configuration is usable by this binary.
func (c *Config) Validate() error {
	if c.Data.NEOPath == "" {
		return errors.NewInvalidRequestError("data.neo_path cannot be empty")
	}
	if c.Data.CADPath == "" {
		return errors.NewInvalidRequestError("data.cad_path cannot be empty")
	}

	// 0 = unlimited, negative = invalid
	if c.Query.DefaultLimit < 0 {
		return errors.NewInvalidRequestError("query.default_limit must be >= 0, got %d", c.Query.DefaultLimit)
	}

	if _, err := display.ParseStyle(c.Query.OutputFormat); err != nil {
		return errors.WithHint(errors.Wrap(err, "query.output_format"), "use table, plain or json")
	}

	if err := version.Get().Satisfies(c.Requires); err != nil {
		return errors.Wrap(err, "requires")
	}

	return nil
}

// CheckFile decodes a TOML config file strictly and returns the keys neocad
// does not recognize, which viper would silently ignore.
func CheckFile(path string) ([]string, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return unknown, nil
}
