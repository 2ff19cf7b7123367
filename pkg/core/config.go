// pkg/core/config.go
package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the configuration and data directories
	AppName = "one-pkg"

	// DefaultCatalogURL is the authoritative package list
	DefaultCatalogURL = "https://raw.githubusercontent.com/blueOkiris/one-pkg/main/install/pkg-ls.json"

	// ConfigFileName is the config file inside the configuration directory
	ConfigFileName = "config.yaml"
)

// Config holds onepkg configuration
type Config struct {
	// ConfigDir holds the catalog, its backup and the ledger
	ConfigDir string `mapstructure:"config_dir" yaml:"config_dir"`

	// DataDir holds managed AppImages and source checkouts
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// CatalogURL is fetched on update
	CatalogURL string `mapstructure:"catalog_url" yaml:"catalog_url"`

	// Timeout for network operations
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// CloneTimeout bounds each repository clone or pull
	CloneTimeout time.Duration `mapstructure:"clone_timeout" yaml:"clone_timeout"`

	// BuildTimeout bounds every external command
	BuildTimeout time.Duration `mapstructure:"build_timeout" yaml:"build_timeout"`

	// Sudo prefixes system package manager calls with sudo when not root
	Sudo bool `mapstructure:"sudo" yaml:"sudo"`

	// AURHelper is the binary used for AUR packages (yay, paru)
	AURHelper string `mapstructure:"aur_helper" yaml:"aur_helper"`

	// FlatpakRemote is the remote Flathub packages are installed from
	FlatpakRemote string `mapstructure:"flatpak_remote" yaml:"flatpak_remote"`

	// PreferredMethods picks an install method without prompting, in order
	PreferredMethods []string `mapstructure:"preferred_methods" yaml:"preferred_methods,omitempty"`

	// Debug enables debug logging
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// Logger for custom logging
	Logger *log.Logger `mapstructure:"-" yaml:"-"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{
		CatalogURL:    DefaultCatalogURL,
		Timeout:       2 * time.Minute,
		CloneTimeout:  10 * time.Minute,
		BuildTimeout:  30 * time.Minute,
		Sudo:          true,
		AURHelper:     "yay",
		FlatpakRemote: "flathub",
	}
	if dir, err := DefaultConfigDir(); err == nil {
		cfg.ConfigDir = dir
	}
	cfg.DataDir = defaultDataDir()
	return cfg
}

// DefaultConfigDir returns <user config dir>/one-pkg
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", &Error{Kind: ErrConfigDirUnavailable, Op: "config", Err: err}
	}
	return filepath.Join(base, AppName), nil
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// LoadConfig loads configuration from file and ONEPKG_* environment variables.
// An empty path means <config dir>/config.yaml; a missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("config_dir", def.ConfigDir)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("catalog_url", def.CatalogURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("clone_timeout", def.CloneTimeout)
	v.SetDefault("build_timeout", def.BuildTimeout)
	v.SetDefault("sudo", def.Sudo)
	v.SetDefault("aur_helper", def.AURHelper)
	v.SetDefault("flatpak_remote", def.FlatpakRemote)
	v.SetDefault("preferred_methods", []string{})
	v.SetDefault("debug", false)

	v.SetEnvPrefix("ONEPKG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" && def.ConfigDir != "" {
		path = filepath.Join(def.ConfigDir, ConfigFileName)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.ConfigDir == "" {
		return nil, &Error{Kind: ErrConfigDirUnavailable, Op: "config", Err: errors.New("no config_dir set and no user config directory")}
	}

	return &cfg, nil
}

// EnsureConfigFile writes a config file with the defaults when none exists
// at path (empty means <config dir>/config.yaml). It reports whether a file
// was created.
func EnsureConfigFile(path string) (bool, error) {
	if path == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return false, err
		}
		path = filepath.Join(dir, ConfigFileName)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := SaveConfig(DefaultConfig(), path); err != nil {
		return false, err
	}
	return true, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(cfg.ConfigDir, ConfigFileName)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Log returns the configured logger, discarding output unless debugging
func (c *Config) Log() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.Debug {
		c.Logger = log.New(os.Stderr, "[onepkg] ", log.LstdFlags)
	} else {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c.Logger
}

// AppsDir is where AppImages are kept
func (c *Config) AppsDir() string {
	return filepath.Join(c.DataDir, "apps")
}

// SourceDir is where GitHub checkouts are built
func (c *Config) SourceDir() string {
	return filepath.Join(c.DataDir, "src")
}
