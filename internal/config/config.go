package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lib/pq"

	"timesheet/internal/logging"
	"timesheet/internal/repository/sqlstore"
)

// Config holds all configuration options for the timesheet backend
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Logging     LoggingConfig     `toml:"logging"`
	Application ApplicationConfig `toml:"application"`
	Display     DisplayConfig     `toml:"display"`
	Spotify     SpotifyConfig     `toml:"spotify"`
}

// DatabaseConfig selects the SQL engine and where its data lives.
// An empty DSN on sqlite means Dir/Filename.
type DatabaseConfig struct {
	Driver       string        `toml:"driver"`
	DSN          string        `toml:"dsn"`
	Dir          string        `toml:"dir"`
	Filename     string        `toml:"filename"`
	QueryTimeout time.Duration `toml:"query_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Name    string        `toml:"name"`
	Version string        `toml:"version"`
	Mode    string        `toml:"mode"`
	Timeout time.Duration `toml:"timeout"`
}

// DisplayConfig holds CLI output defaults
type DisplayConfig struct {
	OutputFormat string `toml:"output_format"`
}

// SpotifyConfig holds the OAuth client used by the token endpoints.
// ClientSecret may be left empty and stored in the OS keyring instead.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret,omitempty"`
	TokenURL     string `toml:"token_url"`
}

// Version is stamped at build time with -ldflags
var Version = "dev"

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Driver:       string(sqlstore.DialectSQLite),
			Dir:          filepath.Join(homeDir, ".timesheet"),
			Filename:     "timesheet.db",
			QueryTimeout: 10 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Application: ApplicationConfig{
			Name:    "timesheet",
			Version: Version,
			Mode:    "local",
			Timeout: 60 * time.Second,
		},
		Display: DisplayConfig{
			OutputFormat: "table",
		},
		Spotify: SpotifyConfig{
			TokenURL: "https://accounts.spotify.com/api/token",
		},
	}
}

// DefaultPath is ~/.config/timesheet/config.toml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "timesheet", "config.toml")
}

// Dialect returns the parsed database driver
func (c *Config) Dialect() (sqlstore.Dialect, error) {
	return sqlstore.ParseDialect(c.Database.Driver)
}

// GetDatabaseDSN returns the DSN handed to the driver
func (c *Config) GetDatabaseDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// LoggerConfig converts the logging section for logging.New
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File:   c.Logging.File,
	}
}

// LoadFromEnvironment loads configuration from TIMESHEET_* variables.
// Unparseable values keep the current setting.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if v := os.Getenv("TIMESHEET_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("TIMESHEET_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("TIMESHEET_DB_DIR"); v != "" {
		c.Database.Dir = v
	}
	if v := os.Getenv("TIMESHEET_DB_FILENAME"); v != "" {
		c.Database.Filename = v
	}
	if v := os.Getenv("TIMESHEET_DB_QUERY_TIMEOUT"); v != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(v, c.Database.QueryTimeout)
	}
	if v := os.Getenv("TIMESHEET_DB_WRITE_TIMEOUT"); v != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(v, c.Database.WriteTimeout)
	}

	// Server configuration
	if v := os.Getenv("TIMESHEET_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TIMESHEET_SERVER_READ_TIMEOUT"); v != "" {
		c.Server.ReadTimeout = ParseDurationWithFallback(v, c.Server.ReadTimeout)
	}
	if v := os.Getenv("TIMESHEET_SERVER_WRITE_TIMEOUT"); v != "" {
		c.Server.WriteTimeout = ParseDurationWithFallback(v, c.Server.WriteTimeout)
	}
	if v := os.Getenv("TIMESHEET_SERVER_SHUTDOWN_TIMEOUT"); v != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(v, c.Server.ShutdownTimeout)
	}

	// Logging configuration
	if v := os.Getenv("TIMESHEET_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TIMESHEET_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("TIMESHEET_LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	// Application configuration
	if v := os.Getenv("TIMESHEET_APP_MODE"); v != "" {
		c.Application.Mode = v
	}
	if v := os.Getenv("TIMESHEET_APP_TIMEOUT"); v != "" {
		c.Application.Timeout = ParseDurationWithFallback(v, c.Application.Timeout)
	}

	if v := os.Getenv("TIMESHEET_OUTPUT_FORMAT"); v != "" {
		c.Display.OutputFormat = v
	}

	// Spotify configuration
	if v := os.Getenv("TIMESHEET_SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("TIMESHEET_SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("TIMESHEET_SPOTIFY_TOKEN_URL"); v != "" {
		c.Spotify.TokenURL = v
	}

	return nil
}

// Validate validates the configuration and returns the first problem found
func (c *Config) Validate() error {
	dialect, err := c.Dialect()
	if err != nil {
		return &ConfigError{Field: "database.driver", Message: err.Error()}
	}
	switch dialect {
	case sqlstore.DialectPostgres:
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "postgres requires a dsn"}
		}
		if _, err := pq.NewConnector(c.Database.DSN); err != nil {
			return &ConfigError{Field: "database.dsn", Message: "invalid postgres dsn: " + err.Error()}
		}
	default:
		if c.Database.DSN == "" && c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.DSN == "" && c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return &ConfigError{Field: "logging.format", Message: err.Error()}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	switch strings.ToLower(c.Display.OutputFormat) {
	case "table", "json":
	default:
		return &ConfigError{Field: "display.output_format", Message: "output format must be table or json"}
	}

	return nil
}

// Save writes the configuration as TOML to path, creating parent directories.
// The client secret is never written; it belongs in the keyring.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	out := *c
	out.Spotify.ClientSecret = ""
	return toml.NewEncoder(f).Encode(out)
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
