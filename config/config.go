package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"sales-dashboard/storage"
	"sales-dashboard/utils"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all application configuration. Values come from, in
// increasing precedence: built-in defaults, the optional YAML file named by
// CONFIG_FILE, and environment variables (a .env file is loaded into the
// environment first).
type Config struct {
	DataSource string          `yaml:"data_source"`
	DataPath   string          `yaml:"data_path"`
	Sheet      string          `yaml:"sheet"`
	Columns    storage.Columns `yaml:"columns"`

	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresDB       string `yaml:"postgres_db"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"`
	MaxRetries       int    `yaml:"max_retries"`

	RecentLimit     int    `yaml:"recent_limit"`
	HTTPAddr        string `yaml:"http_addr"`
	ExportDir       string `yaml:"export_dir"`
	ChromeBin       string `yaml:"chrome_bin"`
	SnapshotTimeout int    `yaml:"snapshot_timeout_sec"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		DataPath: "./fairfax_real_estate_sales.db",
		Columns:  storage.DefaultColumns(),

		PostgresHost:    "localhost",
		PostgresPort:    "5432",
		PostgresUser:    "sales",
		PostgresDB:      "real_estate",
		PostgresSSLMode: "disable",
		MaxRetries:      3,

		RecentLimit:     100,
		HTTPAddr:        ":8080",
		ExportDir:       "./output",
		SnapshotTimeout: 30,

		LogLevel: "info",
	}
}

// Load reads envFile (".env" when empty) into the environment, applies the
// YAML file named by CONFIG_FILE, then environment overrides. A missing
// default .env is not an error; a missing explicit one is.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyYAML(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DataSource = getEnv("DATA_SOURCE", c.DataSource)
	c.DataPath = getEnv("DATA_PATH", c.DataPath)
	c.Sheet = getEnv("DATA_SHEET", c.Sheet)

	c.Columns.Table = getEnv("SALES_TABLE", c.Columns.Table)
	c.Columns.SaleDate = getEnv("COL_SALE_DATE", c.Columns.SaleDate)
	c.Columns.PropertyID = getEnv("COL_PROPERTY_ID", c.Columns.PropertyID)
	c.Columns.Price = getEnv("COL_PRICE", c.Columns.Price)
	c.Columns.SaleType = getEnv("COL_SALE_TYPE", c.Columns.SaleType)

	c.PostgresHost = getEnv("POSTGRES_HOST", c.PostgresHost)
	c.PostgresPort = getEnv("POSTGRES_PORT", c.PostgresPort)
	c.PostgresUser = getEnv("POSTGRES_USER", c.PostgresUser)
	c.PostgresPassword = getEnv("POSTGRES_PASSWORD", c.PostgresPassword)
	c.PostgresDB = getEnv("POSTGRES_DB", c.PostgresDB)
	c.PostgresSSLMode = getEnv("POSTGRES_SSLMODE", c.PostgresSSLMode)
	c.MaxRetries = getEnvInt("MAX_RETRIES", c.MaxRetries)

	c.RecentLimit = getEnvInt("RECENT_LIMIT", c.RecentLimit)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.ExportDir = getEnv("EXPORT_DIR", c.ExportDir)
	c.ChromeBin = getEnv("CHROME_BIN", c.ChromeBin)
	c.SnapshotTimeout = getEnvInt("SNAPSHOT_TIMEOUT_SEC", c.SnapshotTimeout)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch kind := c.Source().ResolveKind(); kind {
	case storage.SourceSQLite, storage.SourceSQLite3, storage.SourceCSV, storage.SourceXLSX:
		if strings.TrimSpace(c.DataPath) == "" {
			return fmt.Errorf("%w: DATA_PATH is required for %s sources", ErrInvalid, kind)
		}
	case storage.SourcePostgres:
	default:
		return fmt.Errorf("%w: unknown DATA_SOURCE %q", ErrInvalid, c.DataSource)
	}
	if c.RecentLimit < 1 {
		return fmt.Errorf("%w: RECENT_LIMIT must be positive, got %d", ErrInvalid, c.RecentLimit)
	}
	if c.SnapshotTimeout < 1 {
		return fmt.Errorf("%w: SNAPSHOT_TIMEOUT_SEC must be positive, got %d", ErrInvalid, c.SnapshotTimeout)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Source describes the dataset location for storage.Open.
func (c *Config) Source() storage.SourceConfig {
	return storage.SourceConfig{
		Kind:    c.DataSource,
		Path:    c.DataPath,
		DSN:     c.DSN(),
		Sheet:   c.Sheet,
		Columns: c.Columns,
	}
}

// Retry returns the back-off policy for connecting to external services.
func (c *Config) Retry(logger *utils.Logger) *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: c.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
