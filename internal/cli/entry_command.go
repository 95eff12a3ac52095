package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"timesheet/internal/api"
	"timesheet/internal/domain"
)

// EntryCommand handles the entry command group
type EntryCommand struct {
	app    *App
	errors *ErrorHandler
}

// NewEntryCommand creates a new entry command handler
func NewEntryCommand(app *App) *EntryCommand {
	return &EntryCommand{app: app, errors: NewErrorHandler()}
}

func (c *EntryCommand) Name() string {
	return "entry"
}

// entryFlags are the fields of a single time entry
type entryFlags struct {
	taskID      int64
	date        domain.Date
	start       domain.Clock
	end         domain.Clock
	description string
	billable    bool
}

func (f *entryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int64Var(&f.taskID, "task", 0, "task id")
	dateVar(flags, &f.date, "date", "day of the entry (default today)")
	clockVar(flags, &f.start, "start", "start time (HH:MM)")
	clockVar(flags, &f.end, "end", "end time (HH:MM)")
	flags.StringVar(&f.description, "description", "", "optional description")
	flags.BoolVar(&f.billable, "billable", false, "mark the entry billable")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func (f *entryFlags) input(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI) (domain.TimeEntryInput, error) {
	date, err := dateOrToday(ctx, cmd, b, "date", f.date)
	if err != nil {
		return domain.TimeEntryInput{}, err
	}
	return domain.TimeEntryInput{
		TaskID:      f.taskID,
		EntryDate:   date,
		StartTime:   f.start,
		EndTime:     f.end,
		Description: f.description,
		IsBillable:  f.billable,
	}, nil
}

// Cobra builds the entry command tree
func (c *EntryCommand) Cobra() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and inspect time entries",
	}
	cmd.AddCommand(
		c.addCommand(),
		c.updateCommand(),
		c.deleteCommand(),
		c.listCommand(),
		c.showCommand(),
		c.validateCommand(),
		c.bulkCommand(),
		c.overlapsCommand(),
		c.totalCommand(),
	)
	return cmd
}

func (c *EntryCommand) addCommand() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a time entry",
		Long: `Create a time entry. The entry must last at least 15 minutes, end after it
starts, stay within one day and not touch or overlap another entry.`,
		Args: cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			in, err := f.input(ctx, cmd, b)
			if err != nil {
				return err
			}
			entry, err := b.CreateTimeEntry(ctx, in)
			if err != nil {
				return c.errors.Handle("create time entry", err)
			}
			if err := c.app.render(entry, entriesTable([]domain.TimeEntry{*entry})); err != nil {
				return err
			}
			c.app.success("Time entry created successfully")
			return nil
		}),
	}
	f.register(cmd)
	return cmd
}

func (c *EntryCommand) updateCommand() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace every field of a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in, err := f.input(ctx, cmd, b)
			if err != nil {
				return err
			}
			entry, err := b.UpdateTimeEntry(ctx, id, in)
			if err != nil {
				return c.errors.Handle("update time entry", err)
			}
			if err := c.app.render(entry, entriesTable([]domain.TimeEntry{*entry})); err != nil {
				return err
			}
			c.app.success("Time entry updated successfully")
			return nil
		}),
	}
	f.register(cmd)
	return cmd
}

func (c *EntryCommand) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := b.DeleteTimeEntry(ctx, id); err != nil {
				return c.errors.Handle("delete time entry", err)
			}
			if c.app.jsonOutput() {
				return c.app.printJSON(map[string]interface{}{"id": id, "deleted": true})
			}
			c.app.success("Time entry deleted successfully")
			return nil
		}),
	}
}

func (c *EntryCommand) listCommand() *cobra.Command {
	var date domain.Date
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of a day or a date range",
		Long: `List time entries ordered by date and start time.

Without flags the entries of today are listed.

Examples:
  timesheet entry list --date 2024-03-05
  timesheet entry list --from 2024-03-01 --to 2024-03-31`,
		Args: cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			var entries []domain.TimeEntry
			var err error
			if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				entries, err = b.ListTimeEntriesByRange(ctx, rf.dateRange())
			} else {
				var day domain.Date
				day, err = dateOrToday(ctx, cmd, b, "date", date)
				if err != nil {
					return err
				}
				entries, err = b.ListTimeEntriesByDate(ctx, day)
			}
			if err != nil {
				return c.errors.Handle("list time entries", err)
			}

			if len(entries) == 0 && !c.app.jsonOutput() {
				c.app.println(mutedStyle.Render("No time entries found"))
				return nil
			}
			return c.app.render(entries, entriesTable(entries))
		}),
	}
	dateVar(cmd.Flags(), &date, "date", "day to list (default today)")
	dateVar(cmd.Flags(), &rf.from, "from", "first day of a range")
	dateVar(cmd.Flags(), &rf.to, "to", "last day of a range")
	cmd.MarkFlagsRequiredTogether("from", "to")
	cmd.MarkFlagsMutuallyExclusive("date", "from")
	return cmd
}

func (c *EntryCommand) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one time entry",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entry, err := b.GetTimeEntry(ctx, id)
			if err != nil {
				return c.errors.Handle("get time entry", err)
			}
			return c.app.render(entry, entriesTable([]domain.TimeEntry{*entry}))
		}),
	}
}

func (c *EntryCommand) validateCommand() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a time entry without saving it",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			in, err := f.input(ctx, cmd, b)
			if err != nil {
				return err
			}
			result, err := b.ValidateTimeEntry(ctx, in)
			if err != nil {
				return c.errors.Handle("validate time entry", err)
			}
			return c.app.renderValidation(result)
		}),
	}
	f.register(cmd)
	return cmd
}

func (c *EntryCommand) bulkCommand() *cobra.Command {
	var (
		date    domain.Date
		file    string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Create several entries for one day from JSON",
		Long: `Create several time entries for one day. The items are read as a JSON
array from --file, or from standard input when --file is "-".
Each item is created on its own; failures are reported without stopping the batch.

Example item:
  {"taskId": 1, "startTime": "09:00", "endTime": "10:30", "description": "review"}`,
		Args: cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			items, err := readBulkItems(cmd, file)
			if err != nil {
				return err
			}
			day, err := dateOrToday(ctx, cmd, b, "date", date)
			if err != nil {
				return err
			}

			result, err := b.BulkCreateTimeEntries(ctx, domain.BulkTimeEntryInput{
				EntryDate:       day,
				TimeEntries:     items,
				ReplaceExisting: replace,
			})
			if err != nil {
				return c.errors.Handle("create time entries", err)
			}

			err = c.app.render(result, func() *table.Table {
				t := newTable("Processed", "Created", "Failed")
				t.Row(strconv.Itoa(result.TotalProcessed), strconv.Itoa(result.SuccessCount), strconv.Itoa(result.FailureCount))
				return t
			})
			if err != nil {
				return err
			}
			c.app.printWarnings(result.Errors)
			c.app.printWarnings(result.Warnings)
			return nil
		}),
	}
	dateVar(cmd.Flags(), &date, "date", "day of every entry (default today)")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON file with the entries")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete the existing entries of the day first")
	return cmd
}

func readBulkItems(cmd *cobra.Command, file string) ([]domain.TimeEntryInput, error) {
	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var items []domain.TimeEntryInput
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return items, nil
}

func (c *EntryCommand) overlapsCommand() *cobra.Command {
	var (
		date       domain.Date
		start, end domain.Clock
		excludeID  int64
	)
	cmd := &cobra.Command{
		Use:   "overlaps",
		Short: "List the entries a time span would collide with",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			day, err := dateOrToday(ctx, cmd, b, "date", date)
			if err != nil {
				return err
			}
			entries, err := b.FindOverlappingEntries(ctx, day, start, end, excludeID)
			if err != nil {
				return c.errors.Handle("find overlapping entries", err)
			}
			if len(entries) == 0 && !c.app.jsonOutput() {
				c.app.println(successStyle.Render("No overlapping entries"))
				return nil
			}
			return c.app.render(entries, entriesTable(entries))
		}),
	}
	dateVar(cmd.Flags(), &date, "date", "day to check (default today)")
	clockVar(cmd.Flags(), &start, "start", "start time (HH:MM)")
	clockVar(cmd.Flags(), &end, "end", "end time (HH:MM)")
	cmd.Flags().Int64Var(&excludeID, "exclude", 0, "entry id to ignore, e.g. the one being edited")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (c *EntryCommand) totalCommand() *cobra.Command {
	var date domain.Date
	cmd := &cobra.Command{
		Use:   "total",
		Short: "Show the minutes recorded on a day",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			day, err := dateOrToday(ctx, cmd, b, "date", date)
			if err != nil {
				return err
			}
			minutes, err := b.DailyTotalMinutes(ctx, day)
			if err != nil {
				return c.errors.Handle("sum time entries", err)
			}
			if c.app.jsonOutput() {
				return c.app.printJSON(map[string]interface{}{"date": day, "totalMinutes": minutes})
			}
			c.app.println(fmt.Sprintf("%s  %s (%d minutes)", day, domain.FormatMinutes(minutes), minutes))
			return nil
		}),
	}
	dateVar(cmd.Flags(), &date, "date", "day to sum (default today)")
	return cmd
}

// renderValidation prints the outcome of validating an entry or a day
func (a *App) renderValidation(result *domain.ValidationResult) error {
	if a.jsonOutput() {
		return a.printJSON(result)
	}

	if result.Valid {
		a.println(successStyle.Render("Valid"))
	} else {
		a.println(warningStyle.Render("Invalid"))
	}
	for _, e := range result.Errors {
		a.println("  - " + e)
	}
	a.printWarnings(result.Warnings)

	if len(result.Conflicts) > 0 {
		t := newTable("ID", "Task", "Start", "End", "Conflict")
		for _, conflict := range result.Conflicts {
			t.Row(strconv.FormatInt(conflict.TimeEntryID, 10), conflict.TaskTitle, conflict.StartTime, conflict.EndTime, conflict.ConflictType)
		}
		a.println(t.Render())
	}
	return nil
}
