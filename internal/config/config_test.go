package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.NotEmpty(t, cfg.Storage.LocalPath)
	require.NotEmpty(t, cfg.Storage.DatabasePath)
	require.Equal(t, "internal/database/migrations", cfg.Storage.MigrationsPath)
	require.Equal(t, "$", cfg.UI.CurrencySymbol)
	require.Equal(t, 10, cfg.UI.PageSize)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ui]
currency_symbol = "€"
page_size = 25

[storage]
database_path = "/tmp/custom.db"
`), 0o644))

	t.Setenv("POCKETLEDGER_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "€", cfg.UI.CurrencySymbol)
	require.Equal(t, 25, cfg.UI.PageSize)
	require.Equal(t, "/tmp/custom.db", cfg.Storage.DatabasePath)
	require.Equal(t, "info", cfg.Log.Level, "unset keys keep their defaults")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("POCKETLEDGER_UI_PAGE_SIZE", "15")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15, cfg.UI.PageSize)
}
