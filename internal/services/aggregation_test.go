package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	"timesheet/internal/validation"
)

// worked builds an entry without touching storage
func worked(date string, taskID int64, task string, categoryID int64, category string, start, end string) domain.TimeEntry {
	s, e := domain.MustParseClock(start), domain.MustParseClock(end)
	return domain.TimeEntry{
		TaskID:          taskID,
		TaskTitle:       task,
		CategoryID:      categoryID,
		CategoryTitle:   category,
		EntryDate:       domain.MustParseDate(date),
		StartTime:       s,
		EndTime:         e,
		DurationMinutes: e.Sub(s),
	}
}

func TestCategoryBreakdowns_SortedByTotal(t *testing.T) {
	entries := []domain.TimeEntry{
		worked("2024-03-04", 1, "TaskA", 10, "CatX", "09:00", "09:30"),
		worked("2024-03-04", 2, "TaskB", 20, "CatY", "10:00", "11:30"),
		worked("2024-03-04", 3, "TaskC", 10, "CatX", "12:00", "12:20"),
	}

	got := categoryBreakdowns(entries)

	require.Len(t, got, 2)
	assert.Equal(t, "CatY", got[0].CategoryTitle)
	assert.Equal(t, 90, got[0].TotalMinutes)
	assert.Equal(t, "1h 30m", got[0].TimeFormatted)
	assert.Equal(t, "CatX", got[1].CategoryTitle)
	assert.Equal(t, 50, got[1].TotalMinutes)
	assert.Equal(t, 2, got[1].EntryCount)
}

func TestBreakdowns_TiesKeepEncounterOrder(t *testing.T) {
	entries := []domain.TimeEntry{
		worked("2024-03-04", 7, "Later", 2, "B", "09:00", "10:00"),
		worked("2024-03-04", 3, "Earlier", 1, "A", "10:00", "11:00"),
	}

	tasks := taskBreakdowns(entries)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Later", tasks[0].TaskTitle)
	assert.Equal(t, "Earlier", tasks[1].TaskTitle)

	categories := categoryBreakdowns(entries)
	assert.Equal(t, "B", categories[0].CategoryTitle)

	top := mostUsedTask(entries)
	require.NotNil(t, top)
	assert.Equal(t, int64(7), top.ID)
}

func TestBuildDailySummary_EmptyDay(t *testing.T) {
	day := domain.MustParseDate("2024-03-04")

	summary := buildDailySummary(validation.NewDayPatternAnalyzer(), day, nil)

	assert.Equal(t, day, summary.Date)
	assert.Equal(t, 0, summary.TotalMinutes)
	assert.Equal(t, "0m", summary.TotalTimeFormatted)
	assert.Equal(t, 0, summary.TotalEntries)
	assert.NotNil(t, summary.CategoryBreakdowns)
	assert.Empty(t, summary.CategoryBreakdowns)
	assert.NotNil(t, summary.TaskBreakdowns)
	assert.NotNil(t, summary.TimeEntries)
	assert.NotNil(t, summary.Warnings)
	assert.Empty(t, summary.Warnings)
}

func TestBuildDailySummary_CarriesAnalyzerWarnings(t *testing.T) {
	entries := []domain.TimeEntry{
		worked("2024-03-04", 1, "Coding", 1, "Work", "09:00", "09:10"),
	}

	summary := buildDailySummary(validation.NewDayPatternAnalyzer(), domain.MustParseDate("2024-03-04"), entries)

	assert.Equal(t, 10, summary.TotalMinutes)
	assert.NotEmpty(t, summary.Warnings)
}

func TestBuildWeeklySummary_SevenDays(t *testing.T) {
	monday := domain.MustParseDate("2024-03-04")
	entries := []domain.TimeEntry{
		worked("2024-03-04", 1, "Coding", 1, "Work", "09:00", "13:00"),
		worked("2024-03-06", 1, "Coding", 1, "Work", "09:00", "14:00"),
	}

	week := buildWeeklySummary(validation.NewDayPatternAnalyzer(), monday, entries)

	assert.Equal(t, monday, week.WeekStartDate)
	assert.Equal(t, domain.MustParseDate("2024-03-10"), week.WeekEndDate)
	require.Len(t, week.DailySummaries, 7)
	for i, d := range week.DailySummaries {
		assert.Equal(t, monday.AddDays(i), d.Date)
	}
	assert.Equal(t, 240, week.DailySummaries[0].TotalMinutes)
	assert.Equal(t, 0, week.DailySummaries[1].TotalMinutes)
	assert.Equal(t, 300, week.DailySummaries[2].TotalMinutes)
	assert.Equal(t, 540, week.TotalMinutes)
	assert.Equal(t, 1.29, week.AverageDailyHours)
	require.Len(t, week.TaskBreakdowns, 1)
	assert.Equal(t, 540, week.TaskBreakdowns[0].TotalMinutes)
}

func TestBuildWeeklySummary_EmptyWeek(t *testing.T) {
	week := buildWeeklySummary(validation.NewDayPatternAnalyzer(), domain.MustParseDate("2024-03-04"), nil)

	assert.Len(t, week.DailySummaries, 7)
	assert.Equal(t, 0, week.TotalMinutes)
	assert.Equal(t, "0m", week.TotalTimeFormatted)
	assert.Equal(t, 0.0, week.AverageDailyHours)
}

func TestBuildStatistics(t *testing.T) {
	r := dateRange("2024-03-01", "2024-03-31")

	t.Run("empty range", func(t *testing.T) {
		stats := buildStatistics(r, nil)

		assert.Equal(t, 0, stats.TotalMinutes)
		assert.Equal(t, "0m", stats.TotalTimeFormatted)
		assert.Equal(t, "0m", stats.AverageEntryLengthFormatted)
		assert.Nil(t, stats.MostUsedTask)
		assert.Equal(t, 0, stats.DaysTracked)
		assert.Equal(t, 0.0, stats.AverageDailyHours)
	})

	t.Run("populated range", func(t *testing.T) {
		entries := []domain.TimeEntry{
			worked("2024-03-04", 1, "Coding", 1, "Work", "09:00", "10:00"),
			worked("2024-03-04", 2, "Review", 1, "Work", "10:30", "10:45"),
			worked("2024-03-05", 1, "Coding", 1, "Work", "09:00", "09:50"),
		}

		stats := buildStatistics(r, entries)

		assert.Equal(t, 125, stats.TotalMinutes)
		assert.Equal(t, "2h 5m", stats.TotalTimeFormatted)
		assert.Equal(t, 3, stats.TotalEntries)
		// 125/3 = 41.67
		assert.Equal(t, 42, stats.AverageEntryLength)
		assert.Equal(t, "41m", stats.AverageEntryLengthFormatted)
		require.NotNil(t, stats.MostUsedTask)
		assert.Equal(t, "Coding", stats.MostUsedTask.Title)
		assert.Equal(t, 110, stats.MostUsedTask.Minutes)
		assert.Equal(t, "1h 50m", stats.MostUsedTask.TimeFormatted)
		assert.Equal(t, 2, stats.DaysTracked)
		assert.Equal(t, 1.04, stats.AverageDailyHours)
	})
}

func TestBuildEnhancedStatistics(t *testing.T) {
	entries := []domain.TimeEntry{
		worked("2024-03-08", 1, "Coding", 1, "Work", "09:00", "11:00"), // Friday
		worked("2024-03-09", 2, "Garden", 2, "Home", "10:00", "10:30"), // Saturday
		worked("2024-03-10", 2, "Garden", 2, "Home", "10:00", "11:00"), // Sunday
	}

	stats := buildEnhancedStatistics(dateRange("2024-03-04", "2024-03-10"), entries)

	assert.Equal(t, 210, stats.TotalMinutes)
	assert.Equal(t, 120, stats.WeekdayMinutes)
	assert.Equal(t, 90, stats.WeekendMinutes)
	assert.Equal(t, 120, stats.LongestSession)
	assert.Equal(t, 70.0, stats.AverageSession)
	require.Len(t, stats.CategoryBreakdown, 2)
	assert.Equal(t, "Work", stats.CategoryBreakdown[0].CategoryTitle)
	require.Len(t, stats.TaskBreakdown, 2)
	assert.Equal(t, "Coding", stats.TaskBreakdown[0].TaskTitle)
}

func TestBuildProductivityInsights(t *testing.T) {
	r := dateRange("2024-03-04", "2024-03-10")

	t.Run("empty range", func(t *testing.T) {
		insights := buildProductivityInsights(r, nil)

		assert.Equal(t, NoEntriesMessage, insights.Message)
		assert.Nil(t, insights.MostProductiveDay)
		assert.Nil(t, insights.CategoryDistribution)
	})

	t.Run("populated range", func(t *testing.T) {
		entries := []domain.TimeEntry{
			worked("2024-03-04", 1, "Coding", 1, "Work", "09:00", "11:00"),
			worked("2024-03-05", 1, "Coding", 1, "Work", "09:00", "10:00"),
			worked("2024-03-05", 2, "Garden", 2, "Home", "18:00", "19:00"),
		}

		insights := buildProductivityInsights(r, entries)

		assert.Empty(t, insights.Message)
		require.NotNil(t, insights.MostProductiveDay)
		// both days total two hours; the earlier one wins
		assert.Equal(t, domain.MustParseDate("2024-03-04"), insights.MostProductiveDay.Date)
		assert.Equal(t, "2h", insights.MostProductiveDay.TimeFormatted)
		assert.Equal(t, map[string]string{"Coding": "1h 30m", "Garden": "1h"}, insights.AverageSessionByTask)
		assert.Equal(t, map[string]string{"Work": "75.0%", "Home": "25.0%"}, insights.CategoryDistribution)
	})
}

func TestBuildDailySummaries_EveryDay(t *testing.T) {
	r := dateRange("2024-02-27", "2024-03-02")
	entries := []domain.TimeEntry{
		worked("2024-02-29", 1, "Coding", 1, "Work", "09:00", "10:00"),
	}

	summaries := buildDailySummaries(validation.NewDayPatternAnalyzer(), r, entries)

	require.Len(t, summaries, 5)
	assert.Equal(t, 60, summaries[domain.MustParseDate("2024-02-29")].TotalMinutes)
	assert.Equal(t, 0, summaries[domain.MustParseDate("2024-03-01")].TotalMinutes)
}
