package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
)

func TestReportingService_DailySummary(t *testing.T) {
	// Arrange
	f := setupServices(t)
	ctx := context.Background()
	taskA := f.addTask(t, "CatX", "TaskA")
	taskB := f.addTask(t, "CatY", "TaskB")
	taskC := f.addTask(t, "CatX", "TaskC")
	f.logEntry(t, taskA.ID, "2024-03-04", "09:00", "09:30")
	f.logEntry(t, taskB.ID, "2024-03-04", "10:00", "11:30")
	f.logEntry(t, taskC.ID, "2024-03-04", "12:00", "12:20")

	// Act
	summary, err := f.services.ReportingService.DailySummary(ctx, f.user.ID, domain.MustParseDate("2024-03-04"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 140, summary.TotalMinutes)
	assert.Equal(t, "2h 20m", summary.TotalTimeFormatted)
	assert.Equal(t, 3, summary.TotalEntries)
	require.Len(t, summary.CategoryBreakdowns, 2)
	assert.Equal(t, "CatY", summary.CategoryBreakdowns[0].CategoryTitle)
	assert.Equal(t, 90, summary.CategoryBreakdowns[0].TotalMinutes)
	assert.Equal(t, "CatX", summary.CategoryBreakdowns[1].CategoryTitle)
	assert.Equal(t, 50, summary.CategoryBreakdowns[1].TotalMinutes)
	require.Len(t, summary.TaskBreakdowns, 3)
	assert.Equal(t, "TaskB", summary.TaskBreakdowns[0].TaskTitle)
	assert.Len(t, summary.TimeEntries, 3)
	assert.Empty(t, summary.Warnings)
}

func TestReportingService_WeeklySummary(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "13:00")
	f.logEntry(t, f.task.ID, "2024-03-10", "09:00", "14:00")
	f.logEntry(t, f.task.ID, "2024-03-11", "09:00", "10:00") // next week

	// any day of the week resolves to the same Monday
	week, err := f.services.ReportingService.WeeklySummary(ctx, f.user.ID, domain.MustParseDate("2024-03-07"))

	require.NoError(t, err)
	assert.Equal(t, domain.MustParseDate("2024-03-04"), week.WeekStartDate)
	assert.Equal(t, domain.MustParseDate("2024-03-10"), week.WeekEndDate)
	require.Len(t, week.DailySummaries, 7)
	assert.Equal(t, 540, week.TotalMinutes)
	assert.Equal(t, 2, week.TotalEntries)
	assert.Equal(t, 1.29, week.AverageDailyHours)
	assert.Equal(t, 300, week.DailySummaries[6].TotalMinutes)
}

func TestReportingService_CurrentWeek_Empty(t *testing.T) {
	f := setupServices(t)

	week, err := f.services.ReportingService.CurrentWeek(context.Background(), f.user.ID, domain.MustParseDate("2024-03-06"))

	require.NoError(t, err)
	assert.Len(t, week.DailySummaries, 7)
	assert.Equal(t, 0, week.TotalMinutes)
	for _, d := range week.DailySummaries {
		assert.Equal(t, "0m", d.TotalTimeFormatted)
		assert.NotNil(t, d.TimeEntries)
	}
}

func TestReportingService_Statistics(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	review := f.addTask(t, domain.DefaultCategoryTitle, "Review")
	f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")
	f.logEntry(t, review.ID, "2024-03-04", "10:30", "10:45")
	f.logEntry(t, f.task.ID, "2024-03-05", "09:00", "09:50")

	stats, err := f.services.ReportingService.Statistics(ctx, f.user.ID, dateRange("2024-03-01", "2024-03-31"))

	require.NoError(t, err)
	assert.Equal(t, 125, stats.TotalMinutes)
	assert.Equal(t, 42, stats.AverageEntryLength)
	assert.Equal(t, 2, stats.DaysTracked)
	require.NotNil(t, stats.MostUsedTask)
	assert.Equal(t, f.task.ID, stats.MostUsedTask.ID)
	assert.Equal(t, domain.DefaultCategoryTitle, stats.MostUsedTask.CategoryTitle)

	_, err = f.services.ReportingService.Statistics(ctx, f.user.ID, dateRange("2024-03-31", "2024-03-01"))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestReportingService_LastDays(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	today := domain.MustParseDate("2024-03-31")
	f.logEntry(t, f.task.ID, "2024-03-25", "09:00", "10:00") // first day of the last seven
	f.logEntry(t, f.task.ID, "2024-03-24", "09:00", "10:00") // outside the last seven
	f.logEntry(t, f.task.ID, "2024-03-02", "09:00", "10:00") // first day of the last thirty
	f.logEntry(t, f.task.ID, "2024-03-01", "09:00", "10:00") // outside the last thirty

	week, err := f.services.ReportingService.LastDays(ctx, f.user.ID, today, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.MustParseDate("2024-03-25"), week.StartDate)
	assert.Equal(t, 1, week.TotalEntries)

	month, err := f.services.ReportingService.LastDays(ctx, f.user.ID, today, 30)
	require.NoError(t, err)
	assert.Equal(t, domain.MustParseDate("2024-03-02"), month.StartDate)
	assert.Equal(t, 3, month.TotalEntries)

	_, err = f.services.ReportingService.LastDays(ctx, f.user.ID, today, 0)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestReportingService_Insights(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	insights, err := f.services.ReportingService.ProductivityInsights(ctx, f.user.ID, dateRange("2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, NoEntriesMessage, insights.Message)

	f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")
	insights, err = f.services.ReportingService.ProductivityInsights(ctx, f.user.ID, dateRange("2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	assert.Empty(t, insights.Message)
	assert.Equal(t, map[string]string{domain.DefaultCategoryTitle: "100.0%"}, insights.CategoryDistribution)

	enhanced, err := f.services.ReportingService.EnhancedStatistics(ctx, f.user.ID, dateRange("2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, 60, enhanced.WeekdayMinutes)
	assert.Equal(t, 60, enhanced.LongestSession)
}

func TestReportingService_DailySummariesForRange(t *testing.T) {
	f := setupServices(t)
	f.logEntry(t, f.task.ID, "2024-03-05", "09:00", "10:00")

	summaries, err := f.services.ReportingService.DailySummariesForRange(context.Background(), f.user.ID, dateRange("2024-03-04", "2024-03-10"))

	require.NoError(t, err)
	assert.Len(t, summaries, 7)
	assert.Equal(t, 60, summaries[domain.MustParseDate("2024-03-05")].TotalMinutes)
	assert.Equal(t, 0, summaries[domain.MustParseDate("2024-03-10")].TotalEntries)
}

func TestReportingService_ValidateDay(t *testing.T) {
	f := setupServices(t)
	f.logEntry(t, f.task.ID, "2024-03-04", "04:00", "05:00")
	f.logEntry(t, f.task.ID, "2024-03-04", "10:00", "10:15")

	result, err := f.services.ReportingService.ValidateDay(context.Background(), f.user.ID, domain.MustParseDate("2024-03-04"))

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Contains(t, result.Warnings, "Large gap detected between entries: 5h between General Task and General Task")
	assert.Contains(t, result.Warnings, "Very early start time: 04:00")
}
