package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"timesheet/internal/api"
	"timesheet/internal/domain"
)

// ReportCommand handles the report command group
type ReportCommand struct {
	app    *App
	errors *ErrorHandler
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{app: app, errors: NewErrorHandler()}
}

func (c *ReportCommand) Name() string {
	return "report"
}

// Cobra builds the report command tree
func (c *ReportCommand) Cobra() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summaries and statistics over recorded time",
	}
	cmd.AddCommand(
		c.dailyCommand(),
		c.weeklyCommand(),
		c.rangeCommand("stats", "Statistics over a date range", c.statistics),
		c.rangeCommand("enhanced", "Statistics with category and task breakdowns", c.enhanced),
		c.rangeCommand("insights", "Most productive day and time distribution", c.insights),
		c.rangeCommand("range", "One daily summary per day of a range", c.dailyRange),
		c.currentWeekCommand(),
		c.lastDaysCommand(7),
		c.lastDaysCommand(30),
	)
	return cmd
}

func (c *ReportCommand) dailyCommand() *cobra.Command {
	var date domain.Date
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Summary of one day",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			day, err := dateOrToday(ctx, cmd, b, "date", date)
			if err != nil {
				return err
			}
			summary, err := b.DailySummary(ctx, day)
			if err != nil {
				return c.errors.Handle("build daily summary", err)
			}
			if c.app.jsonOutput() {
				return c.app.printJSON(summary)
			}
			c.printDaily(summary)
			return nil
		}),
	}
	dateVar(cmd.Flags(), &date, "date", "day to summarise (default today)")
	return cmd
}

func (c *ReportCommand) printDaily(s *domain.DailySummary) {
	c.app.println(titleStyle.Render(fmt.Sprintf("%s %s  %s in %d entries",
		s.Date.Weekday(), s.Date, s.TotalTimeFormatted, s.TotalEntries)))
	if len(s.TimeEntries) > 0 {
		c.app.println(entriesTable(s.TimeEntries)().Render())
	}
	if len(s.CategoryBreakdowns) > 0 {
		c.app.println(categoryBreakdownTable(s.CategoryBreakdowns).Render())
	}
	c.app.printWarnings(s.Warnings)
}

func (c *ReportCommand) weeklyCommand() *cobra.Command {
	var date domain.Date
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Summary of the Monday-Sunday week containing a day",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			day, err := dateOrToday(ctx, cmd, b, "date", date)
			if err != nil {
				return err
			}
			summary, err := b.WeeklySummary(ctx, day)
			if err != nil {
				return c.errors.Handle("build weekly summary", err)
			}
			return c.renderWeekly(summary)
		}),
	}
	dateVar(cmd.Flags(), &date, "date", "any day of the week (default today)")
	return cmd
}

func (c *ReportCommand) currentWeekCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current-week",
		Short: "Summary of the current week",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			summary, err := b.CurrentWeek(ctx)
			if err != nil {
				return c.errors.Handle("build weekly summary", err)
			}
			return c.renderWeekly(summary)
		}),
	}
}

func (c *ReportCommand) renderWeekly(s *domain.WeeklySummary) error {
	if c.app.jsonOutput() {
		return c.app.printJSON(s)
	}

	c.app.println(titleStyle.Render(fmt.Sprintf("Week %s to %s  %s in %d entries, %.2fh per day",
		s.WeekStartDate, s.WeekEndDate, s.TotalTimeFormatted, s.TotalEntries, s.AverageDailyHours)))

	days := newTable("Day", "Date", "Time", "Entries")
	for _, d := range s.DailySummaries {
		days.Row(d.Date.Weekday().String(), d.Date.String(), d.TotalTimeFormatted, strconv.Itoa(d.TotalEntries))
	}
	c.app.println(days.Render())
	if len(s.TaskBreakdowns) > 0 {
		c.app.println(taskBreakdownTable(s.TaskBreakdowns).Render())
	}
	return nil
}

func (c *ReportCommand) lastDaysCommand(days int) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("last-%d-days", days),
		Short: fmt.Sprintf("Statistics over the last %d days including today", days),
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			stats, err := b.LastDays(ctx, days)
			if err != nil {
				return c.errors.Handle("compute statistics", err)
			}
			return c.app.render(stats, statisticsTable(stats))
		}),
	}
}

type rangeReport func(ctx context.Context, b api.BusinessAPI, r domain.DateRange) error

func (c *ReportCommand) rangeCommand(use, short string, report rangeReport) *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			return report(ctx, b, rf.dateRange())
		}),
	}
	rf.register(cmd)
	return cmd
}

func (c *ReportCommand) statistics(ctx context.Context, b api.BusinessAPI, r domain.DateRange) error {
	stats, err := b.Statistics(ctx, r)
	if err != nil {
		return c.errors.Handle("compute statistics", err)
	}
	return c.app.render(stats, statisticsTable(stats))
}

func (c *ReportCommand) enhanced(ctx context.Context, b api.BusinessAPI, r domain.DateRange) error {
	stats, err := b.EnhancedStatistics(ctx, r)
	if err != nil {
		return c.errors.Handle("compute statistics", err)
	}
	if c.app.jsonOutput() {
		return c.app.printJSON(stats)
	}

	c.app.println(statisticsTable(&stats.Statistics)().Render())
	sessions := newTable("Weekday", "Weekend", "Average session", "Longest session")
	sessions.Row(
		domain.FormatMinutes(stats.WeekdayMinutes),
		domain.FormatMinutes(stats.WeekendMinutes),
		fmt.Sprintf("%.1fm", stats.AverageSession),
		domain.FormatMinutes(stats.LongestSession),
	)
	c.app.println(sessions.Render())
	if len(stats.CategoryBreakdown) > 0 {
		c.app.println(categoryBreakdownTable(stats.CategoryBreakdown).Render())
	}
	if len(stats.TaskBreakdown) > 0 {
		c.app.println(taskBreakdownTable(stats.TaskBreakdown).Render())
	}
	return nil
}

func (c *ReportCommand) insights(ctx context.Context, b api.BusinessAPI, r domain.DateRange) error {
	insights, err := b.ProductivityInsights(ctx, r)
	if err != nil {
		return c.errors.Handle("compute insights", err)
	}
	if c.app.jsonOutput() {
		return c.app.printJSON(insights)
	}

	if insights.MostProductiveDay == nil {
		c.app.println(mutedStyle.Render(insights.Message))
		return nil
	}
	best := insights.MostProductiveDay
	c.app.println(titleStyle.Render(fmt.Sprintf("Most productive day: %s (%s)", best.Date, best.TimeFormatted)))

	c.app.println(sortedMapTable("Category", "Share", insights.CategoryDistribution).Render())
	c.app.println(sortedMapTable("Task", "Average session", insights.AverageSessionByTask).Render())
	return nil
}

func (c *ReportCommand) dailyRange(ctx context.Context, b api.BusinessAPI, r domain.DateRange) error {
	summaries, err := b.DailySummariesForRange(ctx, r)
	if err != nil {
		return c.errors.Handle("build daily summaries", err)
	}
	if c.app.jsonOutput() {
		return c.app.printJSON(summaries)
	}

	t := newTable("Day", "Date", "Time", "Entries", "Warnings")
	for _, day := range domain.DatesBetween(r.Start, r.End) {
		s, ok := summaries[day]
		if !ok {
			continue
		}
		t.Row(day.Weekday().String(), day.String(), s.TotalTimeFormatted, strconv.Itoa(s.TotalEntries), strconv.Itoa(len(s.Warnings)))
	}
	c.app.println(t.Render())
	return nil
}

func statisticsTable(s *domain.Statistics) func() *table.Table {
	return func() *table.Table {
		t := newTable("From", "To", "Total", "Entries", "Days", "Avg entry", "Avg per day", "Most used task")
		mostUsed := ""
		if s.MostUsedTask != nil {
			mostUsed = fmt.Sprintf("%s (%s)", s.MostUsedTask.Title, s.MostUsedTask.TimeFormatted)
		}
		t.Row(
			s.StartDate.String(),
			s.EndDate.String(),
			s.TotalTimeFormatted,
			strconv.Itoa(s.TotalEntries),
			strconv.Itoa(s.DaysTracked),
			s.AverageEntryLengthFormatted,
			fmt.Sprintf("%.2fh", s.AverageDailyHours),
			mostUsed,
		)
		return t
	}
}

func sortedMapTable(keyHeader, valueHeader string, m map[string]string) *table.Table {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := newTable(keyHeader, valueHeader)
	for _, k := range keys {
		t.Row(k, m[k])
	}
	return t
}
