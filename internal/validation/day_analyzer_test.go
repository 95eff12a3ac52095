package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"timesheet/internal/domain"
)

func dayEntry(id int64, title, start, end string) domain.TimeEntry {
	s, e := domain.MustParseClock(start), domain.MustParseClock(end)
	return domain.TimeEntry{
		ID:              id,
		TaskTitle:       title,
		EntryDate:       domain.MustParseDate("2024-03-04"),
		StartTime:       s,
		EndTime:         e,
		DurationMinutes: e.Sub(s),
	}
}

func TestDayPatternAnalyzer_Analyze(t *testing.T) {
	date := domain.MustParseDate("2024-03-04")

	tests := []struct {
		name           string
		entries        []domain.TimeEntry
		expectedResult func(t *testing.T, r *domain.ValidationResult)
	}{
		{
			name:    "empty day",
			entries: nil,
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.Equal(t, domain.NewValidationResult(date), r)
			},
		},
		{
			name: "ordinary day",
			entries: []domain.TimeEntry{
				dayEntry(1, "Coding", "09:00", "12:00"),
				dayEntry(2, "Review", "13:00", "17:00"),
			},
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.True(t, r.Valid)
				assert.Empty(t, r.Warnings)
				assert.Empty(t, r.Errors)
			},
		},
		{
			name: "adjacent overlap",
			entries: []domain.TimeEntry{
				dayEntry(1, "Coding", "09:00", "10:30"),
				dayEntry(2, "Review", "10:00", "11:00"),
			},
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.False(t, r.Valid)
				assert.Equal(t, []string{"Time entries overlap: Coding and Review"}, r.Errors)
				if assert.Len(t, r.Conflicts, 1) {
					assert.Equal(t, int64(1), r.Conflicts[0].TimeEntryID)
					assert.Equal(t, domain.ConflictTypeOverlap, r.Conflicts[0].ConflictType)
				}
			},
		},
		{
			name: "touching entries are not a pattern problem",
			entries: []domain.TimeEntry{
				dayEntry(1, "Coding", "09:00", "10:00"),
				dayEntry(2, "Review", "10:00", "11:00"),
			},
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.True(t, r.Valid)
			},
		},
		{
			name: "long and short entries",
			entries: []domain.TimeEntry{
				dayEntry(1, "Marathon", "06:00", "19:30"),
				dayEntry(2, "Email", "19:30", "19:40"),
			},
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.True(t, r.Valid)
				assert.Equal(t, []string{
					"Long time entry detected: Marathon (13h 30m)",
					"Short time entry detected: Email (10m)",
				}, r.Warnings)
			},
		},
		{
			name: "large gap, early start and late end",
			entries: []domain.TimeEntry{
				dayEntry(1, "Gym", "04:30", "05:30"),
				dayEntry(2, "Coding", "10:00", "12:00"),
				dayEntry(3, "Deploy", "22:00", "23:30"),
			},
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.Equal(t, []string{
					"Large gap detected between entries: 4h 30m between Gym and Coding",
					"Large gap detected between entries: 10h between Coding and Deploy",
					"Very early start time: 04:30",
					"Very late end time: 23:30",
				}, r.Warnings)
			},
		},
		{
			name: "single entry skips gap and start checks",
			entries: []domain.TimeEntry{
				dayEntry(1, "Gym", "04:30", "05:30"),
			},
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.Empty(t, r.Warnings)
			},
		},
		{
			name: "midnight spanning entry",
			entries: []domain.TimeEntry{
				{ID: 1, TaskTitle: "Release", StartTime: domain.NewClock(23, 30), EndTime: domain.NewClock(1, 0), DurationMinutes: 90},
			},
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.Equal(t, []string{
					"Time entry may span midnight: Release (23:30 to 01:00)",
					"Possible midnight-spanning entry: Release",
				}, r.Warnings)
			},
		},
		{
			name: "sixteen and twenty four hour totals",
			entries: []domain.TimeEntry{
				{ID: 1, TaskTitle: "A", StartTime: domain.NewClock(0, 0), EndTime: domain.NewClock(12, 0), DurationMinutes: 720},
				{ID: 2, TaskTitle: "B", StartTime: domain.NewClock(12, 0), EndTime: domain.NewClock(23, 0), DurationMinutes: 750},
			},
			expectedResult: func(t *testing.T, r *domain.ValidationResult) {
				assert.False(t, r.Valid)
				assert.Contains(t, r.Warnings, "Daily total exceeds 16 hours (24h 30m)")
				assert.Contains(t, r.Warnings, "Long time entry detected: B (12h 30m)")
				assert.Equal(t, []string{"Daily total exceeds 24 hours (24h 30m)"}, r.Errors)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expectedResult(t, NewDayPatternAnalyzer().Analyze(date, tt.entries))
		})
	}
}
