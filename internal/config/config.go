package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	UI      UIConfig
	Log     LogConfig
}

// StorageConfig holds the local and synced store locations.
type StorageConfig struct {
	// LocalPath is the guest-mode key/value store file.
	LocalPath string
	// DatabasePath is the synced sqlite store.
	DatabasePath string
	// MigrationsPath points at the sql migration files.
	MigrationsPath string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string
	PageSize       int
	ExportDir      string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	Path  string
}

// Load reads configuration from file and env. Env var overrides use prefix
// POCKETLEDGER_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "pocketledger")

	// default values
	v.SetDefault("storage.local_path", filepath.Join(dataDir, "local.json"))
	v.SetDefault("storage.database_path", filepath.Join(dataDir, "pocketledger.db"))
	v.SetDefault("storage.migrations_path", "internal/database/migrations")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.export_dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(dataDir, "pocketledger.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("POCKETLEDGER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "pocketledger"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("POCKETLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
