package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	StockAPI  StockAPIConfig
	Auth      AuthConfig
	Table     TableConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StockAPIConfig locates the remote stock service.
type StockAPIConfig struct {
	BaseURL        string
	OrganizationID string
}

// AuthConfig locates the token provider used for mutating calls.
type AuthConfig struct {
	TokenURL string
	APIKey   string
}

// TableConfig holds table session defaults.
type TableConfig struct {
	DefaultPageSize int
	SessionTTL      time.Duration
}

// MongoDBConfig holds settings for the optional mutation audit sink.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether the audit sink should be wired.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

// SheetsConfig holds settings for the optional snapshot spreadsheet.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the snapshot job should be wired.
func (c SheetsConfig) Enabled() bool { return c.SpreadsheetID != "" }

// SchedulerConfig holds cron expressions for background jobs.
type SchedulerConfig struct {
	SweepSchedule    string
	SnapshotSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	pageSize, err := getenvInt("TABLE_PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}

	ttlMinutes, err := getenvInt("SESSION_TTL_MINUTES", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		StockAPI: StockAPIConfig{
			BaseURL:        os.Getenv("STOCK_API_BASE_URL"),
			OrganizationID: os.Getenv("STOCK_API_ORGANIZATION_ID"),
		},
		Auth: AuthConfig{
			TokenURL: os.Getenv("AUTH_TOKEN_URL"),
			APIKey:   os.Getenv("AUTH_API_KEY"),
		},
		Table: TableConfig{
			DefaultPageSize: pageSize,
			SessionTTL:      time.Duration(ttlMinutes) * time.Minute,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockboard"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_SNAPSHOT_ID"),
		},
		Scheduler: SchedulerConfig{
			SweepSchedule:    getenvWithDefault("SESSION_SWEEP_SCHEDULE", "*/5 * * * *"),
			SnapshotSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 20 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.StockAPI.BaseURL == "":
		return errors.New("STOCK_API_BASE_URL must be provided")
	case c.StockAPI.OrganizationID == "":
		return errors.New("STOCK_API_ORGANIZATION_ID must be provided")
	case c.Auth.TokenURL == "":
		return errors.New("AUTH_TOKEN_URL must be provided")
	case c.Auth.APIKey == "":
		return errors.New("AUTH_API_KEY must be provided")
	}

	if c.Table.DefaultPageSize <= 0 {
		return errors.New("TABLE_PAGE_SIZE must be positive")
	}
	if c.Table.SessionTTL <= 0 {
		return errors.New("SESSION_TTL_MINUTES must be positive")
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_SNAPSHOT_ID is set")
	}

	if c.Scheduler.SweepSchedule == "" {
		return errors.New("SESSION_SWEEP_SCHEDULE must be provided")
	}
	if c.Sheets.Enabled() && c.Scheduler.SnapshotSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
