package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Cache       CacheConfig       `mapstructure:"cache"`
	UI          UIConfig          `mapstructure:"ui"`
	OpenLibrary OpenLibraryConfig `mapstructure:"openlibrary"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Daemon      DaemonConfig      `mapstructure:"daemon"`
}

// ServerConfig points the client at the book service
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds the local cache location. An empty dir keeps the cache
// in memory only.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme         string `mapstructure:"theme"` // "light" or "dark"
	NoticeSeconds int    `mapstructure:"notice_seconds"`
}

// OpenLibraryConfig controls the edition count lookup on the detail screen
type OpenLibraryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DaemonConfig configures shelfd
type DaemonConfig struct {
	Addr string `mapstructure:"addr"`
	DB   string `mapstructure:"db"`
}

// NoticeDuration returns how long a notice stays on screen.
func (u UIConfig) NoticeDuration() time.Duration {
	if u.NoticeSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(u.NoticeSeconds) * time.Second
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:3000",
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		UI: UIConfig{
			Theme:         "dark",
			NoticeSeconds: 3,
		},
		OpenLibrary: OpenLibraryConfig{
			Enabled: true,
			URL:     "https://openlibrary.org",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Daemon: DaemonConfig{
			Addr: ":3000",
			DB:   defaultDataPath("books.db"),
		},
	}
}

func defaultDataPath(name string) string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf", name)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "shelf", name)
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	return defaultDataPath("shelf.log")
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "shelf")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "shelf", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "shelf", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath())
}

func loadConfig(v *viper.Viper, configDir string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides, e.g. SHELF_SERVER_URL
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv sees it during Unmarshal.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.timeout", cfg.Server.Timeout)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.notice_seconds", cfg.UI.NoticeSeconds)
	v.SetDefault("openlibrary.enabled", cfg.OpenLibrary.Enabled)
	v.SetDefault("openlibrary.url", cfg.OpenLibrary.URL)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("daemon.addr", cfg.Daemon.Addr)
	v.SetDefault("daemon.db", cfg.Daemon.DB)
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, defaultConfigPath())
}

func saveConfig(v *viper.Viper, cfg *Config, configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.timeout", cfg.Server.Timeout.String())
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.notice_seconds", cfg.UI.NoticeSeconds)
	v.Set("openlibrary.enabled", cfg.OpenLibrary.Enabled)
	v.Set("openlibrary.url", cfg.OpenLibrary.URL)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("daemon.addr", cfg.Daemon.Addr)
	v.Set("daemon.db", cfg.Daemon.DB)

	configFile := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
