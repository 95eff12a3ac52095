package services

import (
	"fmt"
	"math"
	"sort"

	"timesheet/internal/domain"
	"timesheet/internal/validation"
)

// NoEntriesMessage is reported by insights over an empty range
const NoEntriesMessage = "No time entries found for the specified period"

// sumMinutes totals the durations of entries
func sumMinutes(entries []domain.TimeEntry) int {
	total := 0
	for _, e := range entries {
		total += e.DurationMinutes
	}
	return total
}

// categoryBreakdowns groups entries by category in first-encounter order and
// sorts the groups by total minutes, largest first. Equal totals keep their
// encounter order.
func categoryBreakdowns(entries []domain.TimeEntry) []domain.CategoryBreakdown {
	index := make(map[int64]int)
	groups := make([]domain.CategoryBreakdown, 0)

	for _, e := range entries {
		i, ok := index[e.CategoryID]
		if !ok {
			i = len(groups)
			index[e.CategoryID] = i
			groups = append(groups, domain.CategoryBreakdown{
				CategoryID:    e.CategoryID,
				CategoryTitle: e.CategoryTitle,
			})
		}
		groups[i].TotalMinutes += e.DurationMinutes
		groups[i].EntryCount++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalMinutes > groups[j].TotalMinutes
	})
	for i := range groups {
		groups[i].TimeFormatted = domain.FormatMinutes(groups[i].TotalMinutes)
	}
	return groups
}

// taskBreakdowns is categoryBreakdowns keyed on the task
func taskBreakdowns(entries []domain.TimeEntry) []domain.TaskBreakdown {
	index := make(map[int64]int)
	groups := make([]domain.TaskBreakdown, 0)

	for _, e := range entries {
		i, ok := index[e.TaskID]
		if !ok {
			i = len(groups)
			index[e.TaskID] = i
			groups = append(groups, domain.TaskBreakdown{
				TaskID:        e.TaskID,
				TaskTitle:     e.TaskTitle,
				TaskColor:     e.TaskColor,
				TaskIcon:      e.TaskIcon,
				CategoryTitle: e.CategoryTitle,
			})
		}
		groups[i].TotalMinutes += e.DurationMinutes
		groups[i].EntryCount++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalMinutes > groups[j].TotalMinutes
	})
	for i := range groups {
		groups[i].TimeFormatted = domain.FormatMinutes(groups[i].TotalMinutes)
	}
	return groups
}

// buildDailySummary summarises the entries of one day. The analyzer supplies
// the advisory warnings.
func buildDailySummary(analyzer *validation.DayPatternAnalyzer, date domain.Date, entries []domain.TimeEntry) domain.DailySummary {
	if entries == nil {
		entries = []domain.TimeEntry{}
	}
	total := sumMinutes(entries)
	warnings := analyzer.Analyze(date, entries).Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return domain.DailySummary{
		Date:               date,
		TotalMinutes:       total,
		TotalTimeFormatted: domain.FormatMinutes(total),
		TotalEntries:       len(entries),
		CategoryBreakdowns: categoryBreakdowns(entries),
		TaskBreakdowns:     taskBreakdowns(entries),
		TimeEntries:        entries,
		Warnings:           warnings,
	}
}

// groupByDate buckets entries by their entry date, preserving order
func groupByDate(entries []domain.TimeEntry) map[domain.Date][]domain.TimeEntry {
	byDate := make(map[domain.Date][]domain.TimeEntry)
	for _, e := range entries {
		byDate[e.EntryDate] = append(byDate[e.EntryDate], e)
	}
	return byDate
}

// buildWeeklySummary summarises the Monday-to-Sunday week starting at
// weekStart. entries must all fall within that week.
func buildWeeklySummary(analyzer *validation.DayPatternAnalyzer, weekStart domain.Date, entries []domain.TimeEntry) *domain.WeeklySummary {
	byDate := groupByDate(entries)

	dailies := make([]domain.DailySummary, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDays(i)
		dailies = append(dailies, buildDailySummary(analyzer, day, byDate[day]))
	}

	total := sumMinutes(entries)
	return &domain.WeeklySummary{
		WeekStartDate:      weekStart,
		WeekEndDate:        weekStart.AddDays(6),
		TotalMinutes:       total,
		TotalTimeFormatted: domain.FormatMinutes(total),
		TotalEntries:       len(entries),
		AverageDailyHours:  domain.Round2(float64(total) / 60 / 7),
		DailySummaries:     dailies,
		CategoryBreakdowns: categoryBreakdowns(entries),
		TaskBreakdowns:     taskBreakdowns(entries),
	}
}

func buildStatistics(r domain.DateRange, entries []domain.TimeEntry) *domain.Statistics {
	stats := &domain.Statistics{
		StartDate:                   r.Start,
		EndDate:                     r.End,
		TotalTimeFormatted:          domain.FormatMinutes(0),
		AverageEntryLengthFormatted: domain.FormatMinutes(0),
	}
	if len(entries) == 0 {
		return stats
	}

	total := sumMinutes(entries)
	mean := float64(total) / float64(len(entries))
	days := len(groupByDate(entries))

	stats.TotalMinutes = total
	stats.TotalTimeFormatted = domain.FormatMinutes(total)
	stats.TotalEntries = len(entries)
	stats.AverageEntryLength = int(math.Round(mean))
	stats.AverageEntryLengthFormatted = domain.FormatMinutes(int(mean))
	stats.MostUsedTask = mostUsedTask(entries)
	stats.DaysTracked = days
	stats.AverageDailyHours = domain.Round2(float64(total) / 60 / float64(days))
	return stats
}

// mostUsedTask picks the task with the largest summed minutes. Ties go to
// the task encountered first.
func mostUsedTask(entries []domain.TimeEntry) *domain.MostUsedTask {
	tasks := taskBreakdowns(entries)
	if len(tasks) == 0 {
		return nil
	}
	// the stable sort leaves the first-encountered maximum in front
	top := tasks[0]
	return &domain.MostUsedTask{
		ID:            top.TaskID,
		Title:         top.TaskTitle,
		CategoryTitle: top.CategoryTitle,
		Minutes:       top.TotalMinutes,
		TimeFormatted: top.TimeFormatted,
	}
}

func buildEnhancedStatistics(r domain.DateRange, entries []domain.TimeEntry) *domain.EnhancedStatistics {
	enhanced := &domain.EnhancedStatistics{
		Statistics:        *buildStatistics(r, entries),
		CategoryBreakdown: categoryBreakdowns(entries),
		TaskBreakdown:     taskBreakdowns(entries),
	}

	for _, e := range entries {
		if e.EntryDate.IsWeekend() {
			enhanced.WeekendMinutes += e.DurationMinutes
		} else {
			enhanced.WeekdayMinutes += e.DurationMinutes
		}
		if e.DurationMinutes > enhanced.LongestSession {
			enhanced.LongestSession = e.DurationMinutes
		}
	}
	if len(entries) > 0 {
		enhanced.AverageSession = float64(sumMinutes(entries)) / float64(len(entries))
	}
	return enhanced
}

func buildProductivityInsights(r domain.DateRange, entries []domain.TimeEntry) *domain.ProductivityInsights {
	insights := &domain.ProductivityInsights{StartDate: r.Start, EndDate: r.End}
	if len(entries) == 0 {
		insights.Message = NoEntriesMessage
		return insights
	}

	insights.MostProductiveDay = mostProductiveDay(entries)

	type session struct {
		minutes int
		count   int
	}
	byTask := make(map[string]*session)
	for _, e := range entries {
		s, ok := byTask[e.TaskTitle]
		if !ok {
			s = &session{}
			byTask[e.TaskTitle] = s
		}
		s.minutes += e.DurationMinutes
		s.count++
	}
	insights.AverageSessionByTask = make(map[string]string, len(byTask))
	for title, s := range byTask {
		insights.AverageSessionByTask[title] = domain.FormatMinutes(s.minutes / s.count)
	}

	total := sumMinutes(entries)
	byCategory := make(map[string]int)
	for _, e := range entries {
		byCategory[e.CategoryTitle] += e.DurationMinutes
	}
	insights.CategoryDistribution = make(map[string]string, len(byCategory))
	for title, minutes := range byCategory {
		share := 0.0
		if total > 0 {
			share = float64(minutes) / float64(total) * 100
		}
		insights.CategoryDistribution[title] = fmt.Sprintf("%.1f%%", share)
	}
	return insights
}

// mostProductiveDay returns the date with the most minutes; ties go to the
// earliest date.
func mostProductiveDay(entries []domain.TimeEntry) *domain.ProductiveDay {
	byDate := make(map[domain.Date]int)
	for _, e := range entries {
		byDate[e.EntryDate] += e.DurationMinutes
	}

	var best *domain.ProductiveDay
	for date, minutes := range byDate {
		if best == nil || minutes > best.Minutes || (minutes == best.Minutes && date.Before(best.Date)) {
			best = &domain.ProductiveDay{Date: date, Minutes: minutes}
		}
	}
	best.TimeFormatted = domain.FormatMinutes(best.Minutes)
	return best
}

// buildDailySummaries produces a summary for every calendar day of r
func buildDailySummaries(analyzer *validation.DayPatternAnalyzer, r domain.DateRange, entries []domain.TimeEntry) map[domain.Date]*domain.DailySummary {
	byDate := groupByDate(entries)
	days := domain.DatesBetween(r.Start, r.End)

	summaries := make(map[domain.Date]*domain.DailySummary, len(days))
	for _, day := range days {
		summary := buildDailySummary(analyzer, day, byDate[day])
		summaries[day] = &summary
	}
	return summaries
}
