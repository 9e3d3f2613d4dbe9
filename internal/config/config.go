package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendHTTP   = "http"
)

type Config struct {
	DBPath     string `mapstructure:"db_path"`
	Namespace  string `mapstructure:"namespace"`
	Backend    string `mapstructure:"backend"`
	RemoteURL  string `mapstructure:"remote_url"`
	ListenAddr string `mapstructure:"listen_addr"`
	ViewsFile  string `mapstructure:"views_file"`
	LogLevel   string `mapstructure:"log_level"`
	ThemeName  string `mapstructure:"theme_name"`
}

var (
	configDir  string
	configFile string
)

func init() {
	// get home dir
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}

	configDir = filepath.Join(homeDir, ".viewsync")
	configFile = filepath.Join(configDir, "config.yaml")
}

func GetConfigDir() string {
	return configDir
}

func GetConfigFile() string {
	return configFile
}

// SetConfigFile points loading and saving at another file.
func SetConfigFile(path string) {
	configFile = path
	configDir = filepath.Dir(path)
}

func ConfigExists() bool {
	_, err := os.Stat(configFile)
	return err == nil
}

func EnsureConfigDir() error {
	return os.MkdirAll(configDir, 0755)
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := GetDefaultConfig()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("namespace", defaults.Namespace)
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("remote_url", defaults.RemoteURL)
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("views_file", defaults.ViewsFile)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("theme_name", defaults.ThemeName)

	// VIEWSYNC_BACKEND=memory etc.
	v.SetEnvPrefix("viewsync")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// loads config from file, env and defaults
func LoadConfig() (*Config, error) {
	if err := EnsureConfigDir(); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper()

	if ConfigExists() {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(configDir, "preferences.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendMemory:
	case BackendHTTP:
		if c.RemoteURL == "" {
			return fmt.Errorf("backend %q needs remote_url", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, memory or http)", c.Backend)
	}

	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("namespace cannot be empty")
	}

	return nil
}

// saves config to file
func SaveConfig(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("db_path", cfg.DBPath)
	v.Set("namespace", cfg.Namespace)
	v.Set("backend", cfg.Backend)
	v.Set("remote_url", cfg.RemoteURL)
	v.Set("listen_addr", cfg.ListenAddr)
	v.Set("views_file", cfg.ViewsFile)
	v.Set("log_level", cfg.LogLevel)
	v.Set("theme_name", cfg.ThemeName)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// returns default config
func GetDefaultConfig() *Config {
	return &Config{
		DBPath:     filepath.Join(configDir, "preferences.db"),
		Namespace:  "dashboard",
		Backend:    BackendSQLite,
		ListenAddr: "127.0.0.1:8484",
		LogLevel:   "info",
		ThemeName:  "default",
	}
}

// updates theme in config file
func UpdateTheme(themeName string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ThemeName = themeName
	return SaveConfig(cfg)
}
