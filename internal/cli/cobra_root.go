package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"timesheet/internal/api"
	"timesheet/internal/config"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd *cobra.Command
	app *App

	configPath string
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(app *App) *RootCommand {
	root := &RootCommand{app: app}

	root.cmd = &cobra.Command{
		Use:   "timesheet",
		Short: "Personal time tracking backend",
		Long: `timesheet records blocks of work against tasks grouped in categories,
rejects overlapping or implausible entries, and reports on where the time went.

EXAMPLES:
  timesheet entry add --task 1 --date 2024-03-05 --start 09:00 --end 10:30
  timesheet report daily --date 2024-03-05
  timesheet report weekly --output-format json
  timesheet export entries --from 2024-03-01 --to 2024-03-31 -o march.csv
  timesheet serve --addr :8080

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults

    TIMESHEET_CONFIG                       Config file (default: <user config dir>/timesheet/config.toml)
    TIMESHEET_DB_DRIVER                    sqlite or postgres (default: sqlite)
    TIMESHEET_DB_DSN                       Database DSN; empty uses TIMESHEET_DB_DIR/TIMESHEET_DB_FILENAME
    TIMESHEET_DB_DIR                       Database directory (default: ~/.timesheet)
    TIMESHEET_LOG_LEVEL                    debug, info, warn or error (default: info)
    TIMESHEET_OUTPUT_FORMAT                table or json (default: table)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Apply configuration overrides from flags before any command runs
			return root.app.setup(root.configPath, root.overridesFromFlags(cmd))
		},
	}

	root.addGlobalFlags()
	for _, sub := range NewCommandRegistry(app).Commands() {
		root.cmd.AddCommand(sub)
	}

	return root
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configPath, "config", "", "config file (overrides TIMESHEET_CONFIG)")

	flags.String("db-driver", "", "database driver: sqlite or postgres (overrides TIMESHEET_DB_DRIVER)")
	flags.String("db-dsn", "", "database DSN (overrides TIMESHEET_DB_DSN)")

	flags.String("log-level", "", "log level (overrides TIMESHEET_LOG_LEVEL)")
	flags.String("log-format", "", "log format: text, json or logfmt (overrides TIMESHEET_LOG_FORMAT)")

	flags.String("output-format", "", "output format: table or json (overrides TIMESHEET_OUTPUT_FORMAT)")
	flags.Duration("timeout", 0, "timeout for a single command (overrides TIMESHEET_APP_TIMEOUT)")
}

// overridesFromFlags collects the flags the user actually set.
// Subcommand flags such as serve --addr are visible through cmd.Flags.
func (r *RootCommand) overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, err := flags.GetString(name)
		if err != nil {
			return nil
		}
		return &v
	}

	overrides.DBDriver = str("db-driver")
	overrides.DBDSN = str("db-dsn")
	overrides.LogLevel = str("log-level")
	overrides.LogFormat = str("log-format")
	overrides.OutputFormat = str("output-format")
	if flags.Lookup("addr") != nil {
		overrides.ServerAddr = str("addr")
	}
	if flags.Changed("timeout") {
		if d, err := flags.GetDuration("timeout"); err == nil {
			overrides.Timeout = &d
		}
	}
	return overrides
}

// commandContext bounds a single command by the configured application timeout
func (a *App) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := 60 * time.Second
	if a.config != nil && a.config.Application.Timeout > 0 {
		timeout = a.config.Application.Timeout
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

type runFunc func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error

// withAPI wraps a command body with a bounded context and the business API
func (a *App) withAPI(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		b, err := a.businessAPI(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, b, args)
	}
}
