// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SINK_WEBHOOK_TOKEN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills secrets directly from the environment when the
// yaml left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Sink.Webhook.URL == "" {
		if val := os.Getenv("SINK_WEBHOOK_URL"); val != "" {
			cfg.Sink.Webhook.URL = val
		}
	}
	if cfg.Sink.Webhook.Token == "" {
		if val := os.Getenv("SINK_WEBHOOK_TOKEN"); val != "" {
			cfg.Sink.Webhook.Token = val
		}
	}

	if cfg.Sink.Sheets.SpreadsheetID == "" {
		if val := os.Getenv("SHEETS_SPREADSHEET_ID"); val != "" {
			cfg.Sink.Sheets.SpreadsheetID = val
		}
	}
	if cfg.Sink.Sheets.CredentialsFile == "" {
		if val := os.Getenv("SHEETS_CREDENTIALS_FILE"); val != "" {
			cfg.Sink.Sheets.CredentialsFile = val
		}
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = 30
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = "wizard:session:"
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "fund-submissions"
	}

	if cfg.Sink.Backend == "" {
		cfg.Sink.Backend = "webhook"
	}
	if cfg.Sink.Webhook.Timeout == 0 {
		cfg.Sink.Webhook.Timeout = 15000
	}
	if cfg.Sink.Sheets.SheetRange == "" {
		cfg.Sink.Sheets.SheetRange = "A:M"
	}

	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "funds.json"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	switch cfg.Sink.Backend {
	case "webhook":
		if cfg.Sink.Webhook.URL == "" {
			return fmt.Errorf("sink.webhook.url is required for the webhook backend")
		}
		if cfg.Sink.Webhook.Token == "" {
			return fmt.Errorf("sink.webhook.token is required for the webhook backend")
		}
	case "sheets":
		if cfg.Sink.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("sink.sheets.spreadsheet_id is required for the sheets backend")
		}
		if cfg.Sink.Sheets.CredentialsFile == "" {
			return fmt.Errorf("sink.sheets.credentials_file is required for the sheets backend")
		}
	case "postgres":
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required for the postgres backend")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required for the postgres backend")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown sink backend: %s", cfg.Sink.Backend)
	}

	if cfg.Sink.IndexToSearch && len(cfg.Database.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses is required when sink.index_to_search is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// SessionTTL returns the configured wizard session lifetime.
func (s SessionConfig) SessionTTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}
