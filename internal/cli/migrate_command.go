package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"timesheet/internal/config"
	"timesheet/internal/repository/sqlstore/migrations"
)

// MigrateCommand manages the database schema
type MigrateCommand struct {
	app *App
}

// NewMigrateCommand creates a new migrate command handler
func NewMigrateCommand(app *App) *MigrateCommand {
	return &MigrateCommand{app: app}
}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

// Cobra builds the migrate command tree
func (c *MigrateCommand) Cobra() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, inspect or revert schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: c.withMigrator(func(mg *migrations.Migrator) error {
				if err := mg.Up(); err != nil {
					return err
				}
				return c.printStatus(mg)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert the most recent migration",
			Args:  cobra.NoArgs,
			RunE: c.withMigrator(func(mg *migrations.Migrator) error {
				if err := mg.Down(); err != nil {
					return err
				}
				return c.printStatus(mg)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied and latest schema versions",
			Args:  cobra.NoArgs,
			RunE: c.withMigrator(func(mg *migrations.Migrator) error {
				return c.printStatus(mg)
			}),
		},
	)
	return cmd
}

// withMigrator opens the database without migrating it and hands over a migrator
func (c *MigrateCommand) withMigrator(fn func(*migrations.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := c.app.commandContext(cmd)
		defer cancel()

		store, err := config.OpenUnmigrated(ctx, c.app.config)
		if err != nil {
			return err
		}
		defer store.Close()

		mg, err := migrations.New(ctx, store.DB(), string(store.Dialect()))
		if err != nil {
			return err
		}
		defer mg.Release()

		return fn(mg)
	}
}

func (c *MigrateCommand) printStatus(mg *migrations.Migrator) error {
	status, err := mg.Status()
	if err != nil {
		return err
	}
	return c.app.render(status, func() *table.Table {
		t := newTable("Current", "Latest", "Pending", "Dirty")
		t.Row(
			strconv.FormatUint(uint64(status.CurrentVersion), 10),
			strconv.FormatUint(uint64(status.LatestVersion), 10),
			fmt.Sprint(status.Pending),
			fmt.Sprint(status.Dirty),
		)
		return t
	})
}
