// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Session       SessionConfig      `mapstructure:"session"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Sink          SinkConfig         `mapstructure:"sink"`
	Catalog       CatalogConfig      `mapstructure:"catalog"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// SessionConfig controls the Redis-backed wizard session lifecycle.
type SessionConfig struct {
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	Index      string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SinkConfig selects and configures the submission persistence sink.
// Backend is one of "webhook", "sheets", "postgres".
type SinkConfig struct {
	Backend       string        `mapstructure:"backend"`
	Webhook       WebhookConfig `mapstructure:"webhook"`
	Sheets        SheetsConfig  `mapstructure:"sheets"`
	IndexToSearch bool          `mapstructure:"index_to_search"`
}

// WebhookConfig holds the spreadsheet web-hook endpoint settings.
type WebhookConfig struct {
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// SheetsConfig holds the managed spreadsheet API settings.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	SheetRange      string `mapstructure:"sheet_range"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// CatalogConfig locates the fund rule catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// NotificationConfig holds settings for post-submit notifications.
type NotificationConfig struct {
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		SenderID    string `mapstructure:"sender_id"`
		CountryCode string `mapstructure:"country_code"`
	} `mapstructure:"sms"`
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
