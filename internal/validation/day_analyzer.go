package validation

import (
	"fmt"

	"timesheet/internal/domain"
)

// Day pattern thresholds.
const (
	ShortEntryMinutes = 15
	LargeGapMinutes   = 4 * 60
)

var (
	earlyStart        = domain.NewClock(5, 0)
	lateEnd           = domain.NewClock(23, 0)
	midnightSpanUntil = domain.NewClock(6, 0)
)

// DayPatternAnalyzer inspects a persisted day for unusual patterns. It only
// reports; nothing it finds blocks a write.
type DayPatternAnalyzer struct{}

func NewDayPatternAnalyzer() *DayPatternAnalyzer {
	return &DayPatternAnalyzer{}
}

// Analyze expects entries of a single day ordered by start time.
func (a *DayPatternAnalyzer) Analyze(date domain.Date, entries []domain.TimeEntry) *domain.ValidationResult {
	result := domain.NewValidationResult(date)
	if len(entries) == 0 {
		return result
	}

	total := 0
	for _, e := range entries {
		total += e.DurationMinutes
	}
	if total > LongDayMinutes {
		result.AddWarning(fmt.Sprintf("Daily total exceeds 16 hours (%s)", domain.FormatMinutes(total)))
	}
	if total > MaxDailyMinutes {
		result.AddError(fmt.Sprintf("Daily total exceeds 24 hours (%s)", domain.FormatMinutes(total)))
	}

	a.checkOverlaps(entries, result)
	a.checkDurations(entries, result)
	a.checkGaps(entries, result)
	a.checkMidnight(entries, result)

	return result
}

func (a *DayPatternAnalyzer) checkOverlaps(entries []domain.TimeEntry, result *domain.ValidationResult) {
	for i := 0; i < len(entries)-1; i++ {
		cur, next := entries[i], entries[i+1]
		if cur.EndTime > next.StartTime {
			result.AddConflict(domain.ConflictFromEntry(cur))
			result.AddError(fmt.Sprintf("Time entries overlap: %s and %s", cur.TaskTitle, next.TaskTitle))
		}
	}
}

func (a *DayPatternAnalyzer) checkDurations(entries []domain.TimeEntry, result *domain.ValidationResult) {
	for _, e := range entries {
		if e.DurationMinutes > LongEntryMinutes {
			result.AddWarning(fmt.Sprintf("Long time entry detected: %s (%s)", e.TaskTitle, domain.FormatMinutes(e.DurationMinutes)))
		}
		if e.DurationMinutes < ShortEntryMinutes {
			result.AddWarning(fmt.Sprintf("Short time entry detected: %s (%s)", e.TaskTitle, domain.FormatMinutes(e.DurationMinutes)))
		}
	}
}

func (a *DayPatternAnalyzer) checkGaps(entries []domain.TimeEntry, result *domain.ValidationResult) {
	if len(entries) < 2 {
		return
	}

	for i := 0; i < len(entries)-1; i++ {
		cur, next := entries[i], entries[i+1]
		if gap := next.StartTime.Sub(cur.EndTime); gap > LargeGapMinutes {
			result.AddWarning(fmt.Sprintf("Large gap detected between entries: %s between %s and %s",
				domain.FormatMinutes(gap), cur.TaskTitle, next.TaskTitle))
		}
	}

	first, last := entries[0], entries[len(entries)-1]
	if first.StartTime < earlyStart {
		result.AddWarning(fmt.Sprintf("Very early start time: %s", first.StartTime))
	}
	if last.EndTime > lateEnd {
		result.AddWarning(fmt.Sprintf("Very late end time: %s", last.EndTime))
	}
}

// checkMidnight flags entries that look like they cross into the next day
// and should have been split.
func (a *DayPatternAnalyzer) checkMidnight(entries []domain.TimeEntry, result *domain.ValidationResult) {
	for _, e := range entries {
		if e.EndTime < e.StartTime {
			result.AddWarning(fmt.Sprintf("Time entry may span midnight: %s (%s to %s)", e.TaskTitle, e.StartTime, e.EndTime))
		}
		if e.StartTime > lateEnd && e.EndTime < midnightSpanUntil {
			result.AddWarning(fmt.Sprintf("Possible midnight-spanning entry: %s", e.TaskTitle))
		}
	}
}
