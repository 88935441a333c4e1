package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Convert  ConvertConfig  `mapstructure:"convert" yaml:"convert"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`

	Port string `mapstructure:"port" yaml:"port"`
}

type DownloadConfig struct {
	BaseDir      string `mapstructure:"base_dir" yaml:"base_dir"`
	FolderPrefix string `mapstructure:"folder_prefix" yaml:"folder_prefix"`
	ToolName     string `mapstructure:"tool_name" yaml:"tool_name"`
	FallbackTool string `mapstructure:"fallback_tool" yaml:"fallback_tool"`
	DefaultExt   string `mapstructure:"default_ext" yaml:"default_ext"`
	Placeholder  string `mapstructure:"placeholder" yaml:"placeholder"`
}

type ConvertConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads path (config.yaml when empty) on top of the defaults.
// A missing default config file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	v := viper.New()

	// Set Defaults
	v.SetDefault("port", "8080")
	v.SetDefault("download.base_dir", ".")
	v.SetDefault("download.folder_prefix", "download_")
	v.SetDefault("download.tool_name", "wget")
	v.SetDefault("download.fallback_tool", "wget.exe")
	v.SetDefault("download.default_ext", ".html")
	v.SetDefault("download.placeholder", "index")
	v.SetDefault("convert.enabled", true)
	v.SetDefault("log.path", "pagefetch.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", "pagefetch.db")
	v.SetDefault("store.postgres_dsn", "")

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Support Environment Variables
	v.SetEnvPrefix("PAGEFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Download.BaseDir == "" {
		c.Download.BaseDir = "."
	}

	if c.Download.ToolName == "" {
		return errors.New("download.tool_name is required")
	}

	if c.Download.DefaultExt == "" {
		c.Download.DefaultExt = ".html"
	}
	if !strings.HasPrefix(c.Download.DefaultExt, ".") {
		c.Download.DefaultExt = "." + c.Download.DefaultExt
	}
	if c.Download.DefaultExt == "." {
		return errors.New("download.default_ext must not be empty")
	}

	if c.Download.Placeholder == "" {
		c.Download.Placeholder = "index"
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			c.Store.SQLitePath = "pagefetch.db"
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	return nil
}
