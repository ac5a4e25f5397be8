package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/neocad/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the neocad configuration, caching the result.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for direct key access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads defaults plus one TOML file, ignoring the environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	configSources = nil
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	configSources = mergeConfigFiles(v, ConfigCandidates())

	viperInstance = v
	return v
}

// Candidate is a configuration file neocad looks for.
type Candidate struct {
	Source ConfigSource
	Path   string
}

// Exists reports whether the candidate file is present.
func (c Candidate) Exists() bool {
	_, err := os.Stat(c.Path)
	return err == nil
}

// ConfigCandidates lists the configuration files in precedence order,
// lowest first. The project file is found by searching upward from the
// working directory and is omitted when there is none.
func ConfigCandidates() []Candidate {
	candidates := []Candidate{{SourceSystem, SystemConfigPath}}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, Candidate{SourceUser, UserConfigPath(home)})
	}
	if project := findProjectConfig(); project != "" {
		candidates = append(candidates, Candidate{SourceProject, project})
	}
	return candidates
}

// UserConfigPath is ~/.neocad/am.toml under home.
func UserConfigPath(home string) string {
	return filepath.Join(home, UserConfigDir, UserConfigName)
}

// findProjectConfig walks up from the working directory looking for neocad.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges each readable candidate into v in order, so later
// files override earlier ones, and records which file set each key.
// Unreadable or malformed files are skipped; `neocad am validate` reports them.
func mergeConfigFiles(v *viper.Viper, candidates []Candidate) map[string]SourceInfo {
	sources := make(map[string]SourceInfo)

	for _, candidate := range candidates {
		if !candidate.Exists() {
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(candidate.Path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}

		// MergeConfigMap keeps environment variables above file values
		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range fileViper.AllKeys() {
			sources[key] = SourceInfo{Source: candidate.Source, Path: candidate.Path}
		}
	}

	return sources
}
