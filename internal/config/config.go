// Package config loads gviz settings from a file and GVIZ_* environment
// variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	DataSource DataSourceConfig `mapstructure:"datasource"`
	Render     RenderConfig     `mapstructure:"render"`
	Log        LogConfig        `mapstructure:"log"`
	Language   string           `mapstructure:"language"`
}

// ServerConfig configures chart hosting.
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	SpecDir string `mapstructure:"spec_dir"`
	Watch   bool   `mapstructure:"watch"`
	// AllowedOrigins lists websocket origins; empty means same host only.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig holds sqlite settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// DataSourceConfig tunes remote queries.
type DataSourceConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// RenderConfig controls generated pages.
type RenderConfig struct {
	LoaderURL string   `mapstructure:"loader_url"`
	Packages  []string `mapstructure:"packages"`
	Language  string   `mapstructure:"language"`
	Bridge    bool     `mapstructure:"bridge"`
}

// LogConfig selects the logger output.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// EnvConfig names the variable that points at an explicit config file.
const EnvConfig = "GVIZ_CONFIG"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.spec_dir", "")
	v.SetDefault("server.watch", false)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("store.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "gviz", "charts.db"))
	v.SetDefault("datasource.timeout", 30*time.Second)
	v.SetDefault("datasource.min_interval", time.Second)
	v.SetDefault("datasource.user_agent", "gviz")
	v.SetDefault("render.loader_url", "https://www.gstatic.com/charts/loader.js")
	v.SetDefault("render.packages", []string{"corechart"})
	v.SetDefault("render.language", "en")
	v.SetDefault("render.bridge", true)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("language", "en")
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads configuration. path, or $GVIZ_CONFIG when path is empty, names an
// explicit file that must exist. Otherwise gviz.{toml,yaml,json} is looked up
// in the working directory and ~/.config/gviz, and a missing file is fine.
// Env var overrides use prefix GVIZ_, e.g. GVIZ_SERVER_ADDR.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gviz")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "gviz"))
	}

	v.SetEnvPrefix("GVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return c, nil
}
