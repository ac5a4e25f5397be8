package am

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/neocad/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func envViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultNEOPath, cfg.Data.NEOPath)
	assert.Equal(t, DefaultCADPath, cfg.Data.CADPath)
	assert.Empty(t, cfg.Data.NEOURL)
	assert.Equal(t, DefaultCADURL, cfg.Data.CADURL)
	assert.Equal(t, 10, cfg.Query.DefaultLimit)
	assert.Equal(t, "table", cfg.Query.OutputFormat)
	assert.False(t, cfg.Log.JSON)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "neocad.toml", `
[data]
neo_path = "/srv/neos.csv"

[query]
default_limit = 25
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/neos.csv", cfg.Data.NEOPath)
	assert.Equal(t, DefaultCADPath, cfg.Data.CADPath)
	assert.Equal(t, 25, cfg.Query.DefaultLimit)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestMergeConfigFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	system := writeFile(t, dir, "system.toml", "[query]\ndefault_limit = 1\noutput_format = \"plain\"\n")
	user := writeFile(t, dir, "user.toml", "[query]\ndefault_limit = 2\n")
	project := writeFile(t, dir, "neocad.toml", "[data]\ncad_path = \"cad.json\"\n")

	v := envViper()
	sources := mergeConfigFiles(v, []Candidate{
		{SourceSystem, system},
		{SourceUser, user},
		{SourceUser, filepath.Join(dir, "absent.toml")},
		{SourceProject, project},
	})

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Query.DefaultLimit)
	assert.Equal(t, "plain", cfg.Query.OutputFormat)
	assert.Equal(t, "cad.json", cfg.Data.CADPath)

	assert.Equal(t, SourceInfo{SourceUser, user}, sources["query.default_limit"])
	assert.Equal(t, SourceInfo{SourceSystem, system}, sources["query.output_format"])
	assert.Equal(t, SourceInfo{SourceProject, project}, sources["data.cad_path"])
	assert.NotContains(t, sources, "data.neo_path")
}

func TestMergeConfigFiles_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.toml", "[query\n")

	v := envViper()
	sources := mergeConfigFiles(v, []Candidate{{SourceProject, bad}})
	assert.Empty(t, sources)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, cfg.Query.DefaultLimit)
}

func TestEnvironmentOverridesFiles(t *testing.T) {
	t.Setenv("NEOCAD_QUERY_DEFAULT_LIMIT", "5")
	project := writeFile(t, t.TempDir(), "neocad.toml", "[query]\ndefault_limit = 20\n")

	v := envViper()
	sources := mergeConfigFiles(v, []Candidate{{SourceProject, project}})

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Query.DefaultLimit)

	var found bool
	for _, setting := range introspect(v, sources) {
		if setting.Key == "query.default_limit" {
			found = true
			assert.Equal(t, SourceEnvironment, setting.Source)
			assert.Equal(t, "NEOCAD_QUERY_DEFAULT_LIMIT", setting.SourcePath)
		}
	}
	assert.True(t, found)
}

func TestIntrospect_Defaults(t *testing.T) {
	v := envViper()
	settings := introspect(v, nil)
	require.NotEmpty(t, settings)

	keys := make([]string, 0, len(settings))
	for _, s := range settings {
		keys = append(keys, s.Key)
		if s.Key == "data.neo_path" {
			assert.Equal(t, SourceDefault, s.Source)
			assert.Equal(t, DefaultNEOPath, s.Value)
		}
	}
	assert.IsNonDecreasing(t, keys)
	assert.Subset(t, keys, knownKeys)
}

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "NEOCAD_DATA_NEO_PATH", EnvVarName("data.neo_path"))
	assert.Equal(t, "NEOCAD_REQUIRES", EnvVarName("requires"))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Data:  DataConfig{NEOPath: "neos.csv", CADPath: "cad.json"},
			Query: QueryConfig{DefaultLimit: 10, OutputFormat: "table"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero limit is unlimited", func(c *Config) { c.Query.DefaultLimit = 0 }, false},
		{"negative limit", func(c *Config) { c.Query.DefaultLimit = -1 }, true},
		{"empty neo path", func(c *Config) { c.Data.NEOPath = "" }, true},
		{"empty cad path", func(c *Config) { c.Data.CADPath = "" }, true},
		{"plain output", func(c *Config) { c.Query.OutputFormat = "plain" }, false},
		{"unknown output", func(c *Config) { c.Query.OutputFormat = "xml" }, true},
		{"bad requires", func(c *Config) { c.Requires = "not a constraint !!" }, true},
		{"requires on dev build", func(c *Config) { c.Requires = ">= 1.0" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "neocad.toml", `
requires = ">= 0.1"

[data]
neo_path = "neos.csv"
neo_pth = "typo.csv"

[server]
port = 877
`)

	unknown, err := CheckFile(path)
	require.NoError(t, err)
	assert.Contains(t, unknown, "data.neo_pth")
	assert.Contains(t, unknown, "server.port")
	assert.NotContains(t, unknown, "data.neo_path")
	assert.NotContains(t, unknown, "requires")

	clean := writeFile(t, dir, "clean.toml", "[query]\ndefault_limit = 3\n")
	unknown, err = CheckFile(clean)
	require.NoError(t, err)
	assert.Empty(t, unknown)

	broken := writeFile(t, dir, "broken.toml", "[query\n")
	_, err = CheckFile(broken)
	assert.Error(t, err)
}

func TestSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".neocad", "am.toml")

	require.NoError(t, SetValue(path, "query.default_limit", 42))
	require.NoError(t, SetValue(path, "data.neo_path", "/data/neos.csv"))
	require.NoError(t, SetValue(path, "query.output_format", "plain"))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Query.DefaultLimit)
	assert.Equal(t, "plain", cfg.Query.OutputFormat)
	assert.Equal(t, "/data/neos.csv", cfg.Data.NEOPath)

	assert.FileExists(t, path+".back1")
	assert.FileExists(t, path+".back2")
	assert.NoFileExists(t, path+".back3")

	err = SetValue(path, "server.port", 1)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("query.default_limit", "7")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = ParseValue("query.default_limit", "seven")
	assert.True(t, errors.IsInvalidRequestError(err))

	v, err = ParseValue("log.json", "true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = ParseValue("log.json", "maybe")
	assert.Error(t, err)

	v, err = ParseValue("data.neo_path", "x.csv")
	require.NoError(t, err)
	assert.Equal(t, "x.csv", v)
}

func TestConfigCandidates(t *testing.T) {
	candidates := ConfigCandidates()
	require.NotEmpty(t, candidates)
	assert.Equal(t, SourceSystem, candidates[0].Source)
	assert.Equal(t, SystemConfigPath, candidates[0].Path)
}

func TestLoad_Cached(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
