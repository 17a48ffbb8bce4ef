package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/storage"
)

// clearEnv unsets every variable Load reads so the host environment cannot
// leak into a test; t.Setenv restores the originals afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "DATA_SOURCE", "DATA_PATH", "DATA_SHEET",
		"SALES_TABLE", "COL_SALE_DATE", "COL_PROPERTY_ID", "COL_PRICE", "COL_SALE_TYPE",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD",
		"POSTGRES_DB", "POSTGRES_SSLMODE", "MAX_RETRIES", "RECENT_LIMIT", "HTTP_ADDR",
		"EXPORT_DIR", "CHROME_BIN", "SNAPSHOT_TIMEOUT_SEC", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./fairfax_real_estate_sales.db", cfg.DataPath)
	assert.Equal(t, storage.DefaultColumns(), cfg.Columns)
	assert.Equal(t, 100, cfg.RecentLimit)
	assert.Equal(t, storage.SourceSQLite, cfg.Source().ResolveKind())
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	env := writeFile(t, "test.env", "DATA_PATH=/data/sales.csv\nRECENT_LIMIT=25\nCOL_SALE_TYPE=validity\n")

	cfg, err := Load(env)
	require.NoError(t, err)

	assert.Equal(t, "/data/sales.csv", cfg.DataPath)
	assert.Equal(t, 25, cfg.RecentLimit)
	assert.Equal(t, "validity", cfg.Columns.SaleType)
	assert.Equal(t, storage.SourceCSV, cfg.Source().ResolveKind())
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestYAMLOverlayThenEnv(t *testing.T) {
	clearEnv(t)
	yamlPath := writeFile(t, "dashboard.yaml", `
data_source: xlsx
data_path: ./sales.xlsx
sheet: Sales
columns:
  table: ignored
  sale_date: Sale Date
  price: Sale Price
  sale_type: Validity
recent_limit: 50
`)
	t.Setenv("CONFIG_FILE", yamlPath)
	t.Setenv("RECENT_LIMIT", "10")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "xlsx", cfg.DataSource)
	assert.Equal(t, "Sales", cfg.Sheet)
	assert.Equal(t, "Sale Price", cfg.Columns.Price)
	assert.Equal(t, "property_id", cfg.Columns.PropertyID, "unset keys keep their defaults")
	assert.Equal(t, 10, cfg.RecentLimit, "env overrides YAML")
}

func TestYAMLParseError(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeFile(t, "bad.yaml", "recent_limit: [oops"))

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.DataSource = "parquet" }},
		{"missing path", func(c *Config) { c.DataPath = "" }},
		{"zero limit", func(c *Config) { c.RecentLimit = 0 }},
		{"zero timeout", func(c *Config) { c.SnapshotTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}

	cfg := Defaults()
	cfg.DataSource = "postgres"
	cfg.DataPath = ""
	assert.NoError(t, cfg.Validate(), "postgres needs no file path")
}

func TestDSN(t *testing.T) {
	cfg := Defaults()
	cfg.PostgresPassword = "secret"
	assert.Equal(t,
		"host=localhost port=5432 user=sales password=secret dbname=real_estate sslmode=disable",
		cfg.DSN())
}
