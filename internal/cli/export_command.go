package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"timesheet/internal/api"
	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/services"
)

// ExportCommand handles the export command group
type ExportCommand struct {
	app    *App
	errors *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app, errors: NewErrorHandler()}
}

func (c *ExportCommand) Name() string {
	return "export"
}

type exportFunc func(ctx context.Context, w io.Writer, r domain.DateRange) error

// Cobra builds the export command tree
func (c *ExportCommand) Cobra() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export time data as CSV",
		Long: `Export time data as CSV to standard output or to a file.

With --output pointing at a directory the file is named after the export,
e.g. time_entries_2024-03-01_to_2024-03-31.csv.`,
	}
	cmd.AddCommand(
		c.rangeCommand("entries", "One row per time entry", services.ExportKindTimeEntries,
			func(b api.BusinessAPI) exportFunc { return b.ExportTimeEntries }),
		c.rangeCommand("daily", "One row per day, empty days included", services.ExportKindDailySummary,
			func(b api.BusinessAPI) exportFunc { return b.ExportDailySummary }),
		c.rangeCommand("tasks", "One row per task, largest total first", services.ExportKindTaskSummary,
			func(b api.BusinessAPI) exportFunc { return b.ExportTaskSummary }),
		c.monthCommand(),
	)
	return cmd
}

func (c *ExportCommand) rangeCommand(use, short, kind string, pick func(api.BusinessAPI) exportFunc) *cobra.Command {
	var (
		rf     rangeFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			return c.export(ctx, cmd, kind, rf.dateRange(), output, pick(b))
		}),
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file or directory to write (default stdout)")
	return cmd
}

func (c *ExportCommand) monthCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "month YEAR MONTH",
		Short: "Time entries of one calendar month",
		Args:  cobra.ExactArgs(2),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return c.errors.Handle("export month", err)
			}
			month, err := strconv.Atoi(args[1])
			if err != nil {
				return c.errors.Handle("export month", err)
			}
			r, err := services.MonthRange(year, month)
			if err != nil {
				return c.errors.Handle("export month", err)
			}
			return c.export(ctx, cmd, services.ExportKindTimeEntries, r, output, b.ExportTimeEntries)
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file or directory to write (default stdout)")
	return cmd
}

func (c *ExportCommand) export(ctx context.Context, cmd *cobra.Command, kind string, r domain.DateRange, output string, export exportFunc) error {
	if output == "" {
		if err := export(ctx, cmd.OutOrStdout(), r); err != nil {
			return c.errors.Handle("export "+kind, err)
		}
		return nil
	}

	if info, err := os.Stat(output); err == nil && info.IsDir() {
		output = filepath.Join(output, services.ExportFilename(kind, r))
	}
	f, err := os.Create(output)
	if errors.Is(err, fs.ErrPermission) {
		return c.errors.Handle("export "+kind, apperrors.NewPermissionError("write", output))
	}
	if err != nil {
		return err
	}
	if err := export(ctx, f, r); err != nil {
		f.Close()
		os.Remove(output)
		return c.errors.Handle("export "+kind, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.app.logger.Debug("Exported CSV", "kind", kind, "file", output, "from", r.Start, "to", r.End)
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Wrote "+output))
	return nil
}
