package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlstore"
	"timesheet/internal/validation"
)

// rejection extracts the validation result attached to a write rejection
func rejection(t *testing.T, err error) *domain.ValidationResult {
	t.Helper()
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	result, ok := appErr.GetContext(errors.ContextKeyValidation)
	require.True(t, ok, "rejection carries no validation result")
	return result.(*domain.ValidationResult)
}

func TestTimeEntryService_CreateTimeEntry(t *testing.T) {
	tests := []struct {
		name           string
		existing       [][2]string
		start, end     string
		expectedEntry  func(t *testing.T, e *domain.TimeEntry)
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:  "should create entry on an empty day",
			start: "09:00",
			end:   "10:30",
			expectedEntry: func(t *testing.T, e *domain.TimeEntry) {
				assert.Greater(t, e.ID, int64(0))
				assert.Equal(t, 90, e.DurationMinutes)
				assert.Equal(t, domain.DefaultTaskTitle, e.TaskTitle)
				assert.Equal(t, domain.DefaultCategoryTitle, e.CategoryTitle)
			},
		},
		{
			name:  "should accept exactly the minimum duration",
			start: "09:00",
			end:   "09:15",
			expectedEntry: func(t *testing.T, e *domain.TimeEntry) {
				assert.Equal(t, 15, e.DurationMinutes)
			},
		},
		{
			name:  "should reject entries shorter than fifteen minutes",
			start: "09:00",
			end:   "09:10",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.HasCode(err, errors.CodeValidationFailed))
				result := rejection(t, err)
				assert.False(t, result.Valid)
				assert.Contains(t, result.Errors, validation.MsgMinimumDuration)
				assert.Contains(t, err.Error(), "Time entry validation failed: "+validation.MsgMinimumDuration)
			},
		},
		{
			name:  "should reject an inverted interval",
			start: "10:00",
			end:   "09:00",
			errorAssertion: func(t *testing.T, err error) {
				result := rejection(t, err)
				assert.Equal(t, []string{validation.MsgStartBeforeEnd, validation.MsgMinimumDuration}, result.Errors)
			},
		},
		{
			name:     "should treat touching entries as overlapping",
			existing: [][2]string{{"09:00", "10:00"}},
			start:    "10:00",
			end:      "11:00",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
				assert.True(t, errors.HasCode(err, errors.CodeTimeOverlap))
				result := rejection(t, err)
				require.Len(t, result.Conflicts, 1)
				assert.Equal(t, "09:00", result.Conflicts[0].StartTime)
				assert.Equal(t, domain.ConflictTypeOverlap, result.Conflicts[0].ConflictType)
			},
		},
		{
			name:     "should allow a gap of one minute",
			existing: [][2]string{{"09:00", "10:00"}},
			start:    "10:01",
			end:      "11:00",
			expectedEntry: func(t *testing.T, e *domain.TimeEntry) {
				assert.Equal(t, 59, e.DurationMinutes)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := setupServices(t)
			for _, iv := range tt.existing {
				f.logEntry(t, f.task.ID, "2024-03-04", iv[0], iv[1])
			}

			// Act
			entry, err := f.services.TimeEntryService.CreateTimeEntry(context.Background(), f.user.ID,
				entryInput(f.task.ID, "2024-03-04", tt.start, tt.end))

			// Assert
			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, entry)
				return
			}
			require.NoError(t, err)
			tt.expectedEntry(t, entry)
		})
	}
}

func TestTimeEntryService_CreateTimeEntry_RequestValidation(t *testing.T) {
	f := setupServices(t)

	_, err := f.services.TimeEntryService.CreateTimeEntry(context.Background(), f.user.ID, domain.TimeEntryInput{})

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "taskId is required")
}

func TestTimeEntryService_CreateTimeEntry_ForeignTask(t *testing.T) {
	// Arrange
	f := setupServices(t)
	ctx := context.Background()

	other := &sqlstore.User{Email: "other@localhost", Name: "Other", TimeZone: "UTC", IsActive: true}
	require.NoError(t, f.repo.CreateUser(ctx, other))

	// Act
	_, err := f.services.TimeEntryService.CreateTimeEntry(ctx, other.ID, entryInput(f.task.ID, "2024-03-04", "09:00", "10:00"))

	// Assert
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTimeEntryService_CreateTimeEntry_DailyCap(t *testing.T) {
	// Arrange: a row written around the validator claims almost a full day
	f := setupServices(t)
	ctx := context.Background()
	require.NoError(t, f.repo.CreateTimeEntry(ctx, &sqlstore.TimeEntry{
		UserID:          f.user.ID,
		TaskID:          f.task.ID,
		EntryDate:       "2024-03-04",
		StartTime:       "00:00",
		EndTime:         "00:30",
		DurationMinutes: 1430,
	}))

	// Act
	_, err := f.services.TimeEntryService.CreateTimeEntry(ctx, f.user.ID, entryInput(f.task.ID, "2024-03-04", "12:00", "13:00"))

	// Assert
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDailyLimitExceeded))
	appErr, _ := errors.AsAppError(err)
	maxHours, _ := appErr.GetContext("maxHours")
	actualHours, _ := appErr.GetContext("actualHours")
	assert.Equal(t, 24.0, maxHours)
	assert.Equal(t, 24.83, actualHours)
	assert.Contains(t, rejection(t, err).Errors, validation.MsgDailyLimitExceeded)
}

func TestTimeEntryService_ValidateTimeEntry(t *testing.T) {
	t.Run("long day warns but stays valid", func(t *testing.T) {
		// Arrange: eight two-hour entries separated by quarter-hour gaps
		f := setupServices(t)
		start := domain.NewClock(0, 0)
		for i := 0; i < 8; i++ {
			end := start + 120
			f.logEntry(t, f.task.ID, "2024-03-04", start.String(), end.String())
			start = end + 15
		}

		// Act
		result, err := f.services.TimeEntryService.ValidateTimeEntry(context.Background(), f.user.ID,
			entryInput(f.task.ID, "2024-03-04", "18:00", "20:00"))

		// Assert
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, []string{validation.MsgLongDay}, result.Warnings)
		assert.Empty(t, result.Errors)
	})

	t.Run("invalid candidate is a result not an error", func(t *testing.T) {
		f := setupServices(t)
		in := entryInput(f.task.ID, "2024-03-04", "09:00", "09:10")

		first, err := f.services.TimeEntryService.ValidateTimeEntry(context.Background(), f.user.ID, in)
		require.NoError(t, err)
		second, err := f.services.TimeEntryService.ValidateTimeEntry(context.Background(), f.user.ID, in)
		require.NoError(t, err)

		assert.False(t, first.Valid)
		assert.Equal(t, first, second)
	})

	t.Run("does not persist", func(t *testing.T) {
		f := setupServices(t)
		date := domain.MustParseDate("2024-03-04")

		_, err := f.services.TimeEntryService.ValidateTimeEntry(context.Background(), f.user.ID,
			entryInput(f.task.ID, "2024-03-04", "09:00", "10:00"))
		require.NoError(t, err)

		entries, err := f.services.TimeEntryService.ListTimeEntriesByDate(context.Background(), f.user.ID, date)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestTimeEntryService_UpdateTimeEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("overlapping only itself is allowed", func(t *testing.T) {
		f := setupServices(t)
		entry := f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")

		updated, err := f.services.TimeEntryService.UpdateTimeEntry(ctx, f.user.ID, entry.ID,
			entryInput(f.task.ID, "2024-03-04", "09:30", "10:30"))

		require.NoError(t, err)
		assert.Equal(t, domain.MustParseClock("09:30"), updated.StartTime)
		assert.Equal(t, 60, updated.DurationMinutes)
		assert.Equal(t, domain.DefaultTaskTitle, updated.TaskTitle)
	})

	t.Run("conflict with a sibling is rejected", func(t *testing.T) {
		f := setupServices(t)
		f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")
		entry := f.logEntry(t, f.task.ID, "2024-03-04", "11:00", "12:00")

		_, err := f.services.TimeEntryService.UpdateTimeEntry(ctx, f.user.ID, entry.ID,
			entryInput(f.task.ID, "2024-03-04", "09:30", "11:30"))

		assert.True(t, errors.HasCode(err, errors.CodeTimeOverlap))
		stored, err := f.services.TimeEntryService.GetTimeEntry(ctx, f.user.ID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MustParseClock("11:00"), stored.StartTime)
	})

	t.Run("moves to another day", func(t *testing.T) {
		f := setupServices(t)
		entry := f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")

		updated, err := f.services.TimeEntryService.UpdateTimeEntry(ctx, f.user.ID, entry.ID,
			entryInput(f.task.ID, "2024-03-05", "09:00", "10:00"))

		require.NoError(t, err)
		assert.Equal(t, domain.MustParseDate("2024-03-05"), updated.EntryDate)
		total, err := f.services.TimeEntryService.DailyTotalMinutes(ctx, f.user.ID, domain.MustParseDate("2024-03-04"))
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("missing entry", func(t *testing.T) {
		f := setupServices(t)

		_, err := f.services.TimeEntryService.UpdateTimeEntry(ctx, f.user.ID, 999,
			entryInput(f.task.ID, "2024-03-04", "09:00", "10:00"))

		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	})
}

func TestTimeEntryService_DeleteTimeEntry(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	entry := f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")

	require.NoError(t, f.services.TimeEntryService.DeleteTimeEntry(ctx, f.user.ID, entry.ID))

	_, err := f.services.TimeEntryService.GetTimeEntry(ctx, f.user.ID, entry.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	err = f.services.TimeEntryService.DeleteTimeEntry(ctx, f.user.ID, entry.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTimeEntryService_ListTimeEntriesByRange(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	f.logEntry(t, f.task.ID, "2024-03-05", "09:00", "10:00")
	f.logEntry(t, f.task.ID, "2024-03-04", "13:00", "14:00")
	f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")
	f.logEntry(t, f.task.ID, "2024-03-08", "09:00", "10:00")

	entries, err := f.services.TimeEntryService.ListTimeEntriesByRange(ctx, f.user.ID, dateRange("2024-03-04", "2024-03-05"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-03-04 09:00", fmt.Sprintf("%s %s", entries[0].EntryDate, entries[0].StartTime))
	assert.Equal(t, "2024-03-04 13:00", fmt.Sprintf("%s %s", entries[1].EntryDate, entries[1].StartTime))
	assert.Equal(t, "2024-03-05 09:00", fmt.Sprintf("%s %s", entries[2].EntryDate, entries[2].StartTime))

	_, err = f.services.TimeEntryService.ListTimeEntriesByRange(ctx, f.user.ID, dateRange("2024-03-05", "2024-03-04"))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestTimeEntryService_FindOverlappingEntries(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	date := domain.MustParseDate("2024-03-04")
	first := f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")
	f.logEntry(t, f.task.ID, "2024-03-04", "12:00", "13:00")

	found, err := f.services.TimeEntryService.FindOverlappingEntries(ctx, f.user.ID, date,
		domain.MustParseClock("10:00"), domain.MustParseClock("11:00"), 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.ID, found[0].ID)

	found, err = f.services.TimeEntryService.FindOverlappingEntries(ctx, f.user.ID, date,
		domain.MustParseClock("10:00"), domain.MustParseClock("11:00"), first.ID)
	require.NoError(t, err)
	assert.Empty(t, found)

	total, err := f.services.TimeEntryService.DailyTotalMinutes(ctx, f.user.ID, date)
	require.NoError(t, err)
	assert.Equal(t, 120, total)
}

func TestTimeEntryService_BulkCreateTimeEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("continues past failed items", func(t *testing.T) {
		// Arrange
		f := setupServices(t)
		in := domain.BulkTimeEntryInput{
			EntryDate: domain.MustParseDate("2024-03-04"),
			TimeEntries: []domain.TimeEntryInput{
				entryInput(f.task.ID, "2024-03-04", "09:00", "10:00"),
				entryInput(f.task.ID, "2024-03-04", "09:30", "10:30"),
				entryInput(f.task.ID, "2024-03-04", "11:00", "11:05"),
				entryInput(f.task.ID, "2024-03-04", "13:00", "14:00"),
			},
		}

		// Act
		result, err := f.services.TimeEntryService.BulkCreateTimeEntries(ctx, f.user.ID, in)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, result.SuccessCount)
		assert.Equal(t, 2, result.FailureCount)
		assert.Equal(t, 4, result.TotalProcessed)
		assert.Len(t, result.CreatedIDs, 2)
		require.Len(t, result.Errors, 2)
		for _, msg := range result.Errors {
			assert.Contains(t, msg, "Failed to create time entry: Time entry validation failed: ")
		}
		assert.Contains(t, result.Errors[0], validation.MsgOverlap)
		assert.Contains(t, result.Errors[1], validation.MsgMinimumDuration)
	})

	t.Run("items take the batch date", func(t *testing.T) {
		f := setupServices(t)
		in := domain.BulkTimeEntryInput{
			EntryDate:   domain.MustParseDate("2024-03-04"),
			TimeEntries: []domain.TimeEntryInput{entryInput(f.task.ID, "2030-01-01", "09:00", "10:00")},
		}

		result, err := f.services.TimeEntryService.BulkCreateTimeEntries(ctx, f.user.ID, in)
		require.NoError(t, err)
		require.Len(t, result.CreatedIDs, 1)

		entry, err := f.services.TimeEntryService.GetTimeEntry(ctx, f.user.ID, result.CreatedIDs[0])
		require.NoError(t, err)
		assert.Equal(t, domain.MustParseDate("2024-03-04"), entry.EntryDate)
	})

	t.Run("replace existing clears the day first", func(t *testing.T) {
		f := setupServices(t)
		f.logEntry(t, f.task.ID, "2024-03-04", "09:00", "10:00")
		f.logEntry(t, f.task.ID, "2024-03-05", "09:00", "10:00")

		result, err := f.services.TimeEntryService.BulkCreateTimeEntries(ctx, f.user.ID, domain.BulkTimeEntryInput{
			EntryDate:       domain.MustParseDate("2024-03-04"),
			ReplaceExisting: true,
			TimeEntries:     []domain.TimeEntryInput{entryInput(f.task.ID, "2024-03-04", "09:30", "10:30")},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessCount)

		day, err := f.services.TimeEntryService.ListTimeEntriesByDate(ctx, f.user.ID, domain.MustParseDate("2024-03-04"))
		require.NoError(t, err)
		require.Len(t, day, 1)
		assert.Equal(t, domain.MustParseClock("09:30"), day[0].StartTime)

		other, err := f.services.TimeEntryService.ListTimeEntriesByDate(ctx, f.user.ID, domain.MustParseDate("2024-03-05"))
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})

	t.Run("warnings of created items are collected", func(t *testing.T) {
		f := setupServices(t)

		result, err := f.services.TimeEntryService.BulkCreateTimeEntries(ctx, f.user.ID, domain.BulkTimeEntryInput{
			EntryDate:   domain.MustParseDate("2024-03-04"),
			TimeEntries: []domain.TimeEntryInput{entryInput(f.task.ID, "2024-03-04", "06:00", "19:00")},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{validation.MsgLongEntry}, result.Warnings)
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		f := setupServices(t)

		_, err := f.services.TimeEntryService.BulkCreateTimeEntries(ctx, f.user.ID, domain.BulkTimeEntryInput{
			EntryDate: domain.MustParseDate("2024-03-04"),
		})

		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
		assert.Contains(t, err.Error(), "At least one time entry is required")
	})
}

func TestTimeEntryService_ConcurrentOverlappingCreates(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.services.TimeEntryService.CreateTimeEntry(ctx, f.user.ID, entryInput(f.task.ID, "2024-03-04", "09:00", "10:00"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.HasCode(err, errors.CodeTimeOverlap), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
}
