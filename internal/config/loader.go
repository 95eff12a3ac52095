package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigEnv names an alternative config file
const ConfigEnv = "TIMESHEET_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
	path   string
}

// NewLoader creates a loader reading path. An empty path falls back to
// TIMESHEET_CONFIG and then DefaultPath.
func NewLoader(path string) *Loader {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		path = DefaultPath()
	}
	return &Loader{
		config: NewConfig(),
		path:   path,
	}
}

// Path returns the config file the loader reads
func (l *Loader) Path() string {
	return l.path
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML file, if present
// 3. Override with environment variables
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithOverrides(nil)
}

func (l *Loader) loadFile() error {
	md, err := toml.DecodeFile(l.path, l.config)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", l.path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return &ConfigError{Field: undecoded[0].String(), Message: "unknown configuration key"}
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	overrides.Apply(l.config)

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	DBDriver *string
	DBDSN    *string

	LogLevel  *string
	LogFormat *string

	ServerAddr *string

	OutputFormat *string
	Timeout      *time.Duration
}

// Apply copies the set overrides onto config. A nil receiver is a no-op.
func (o *ConfigOverrides) Apply(config *Config) {
	if o == nil {
		return
	}
	if o.DBDriver != nil {
		config.Database.Driver = *o.DBDriver
	}
	if o.DBDSN != nil {
		config.Database.DSN = *o.DBDSN
	}

	if o.LogLevel != nil {
		config.Logging.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		config.Logging.Format = *o.LogFormat
	}

	if o.ServerAddr != nil {
		config.Server.Addr = *o.ServerAddr
	}

	if o.OutputFormat != nil {
		config.Display.OutputFormat = *o.OutputFormat
	}
	if o.Timeout != nil {
		config.Application.Timeout = *o.Timeout
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}
