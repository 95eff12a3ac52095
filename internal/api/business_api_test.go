package api

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/logging"
	"timesheet/internal/repository/sqlstore"
	"timesheet/internal/services"
)

// setupTestBusinessAPI returns an API over a fresh in-memory store whose
// clock reads now.
func setupTestBusinessAPI(t *testing.T, now time.Time) (BusinessAPI, *sqlstore.Store) {
	t.Helper()
	repo, err := sqlstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	container := services.NewServiceContainer(repo, logging.Discard())
	return NewBusinessAPI(container, WithClock(func() time.Time { return now })), repo
}

func TestCurrentUser_BootstrapsOnce(t *testing.T) {
	api, _ := setupTestBusinessAPI(t, time.Now())
	ctx := context.Background()

	first, err := api.CurrentUser(ctx)
	require.NoError(t, err)
	second, err := api.CurrentUser(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.LocalAdminEmail, first.Email)
	assert.Same(t, first, second)

	categories, err := api.ListActiveCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.True(t, categories[0].IsDefault)
}

func TestToday_UsesUserTimeZone(t *testing.T) {
	// 23:30 UTC on a Sunday is still Sunday for the UTC local admin
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	api, _ := setupTestBusinessAPI(t, now)

	today, err := api.Today(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.MustParseDate("2024-03-10"), today)
}

func TestShortcutRanges(t *testing.T) {
	api, _ := setupTestBusinessAPI(t, time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	week, err := api.CurrentWeekRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MustParseDate("2024-03-04"), week.Start)
	assert.Equal(t, domain.MustParseDate("2024-03-10"), week.End)

	last, err := api.LastDaysRange(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, domain.MustParseDate("2024-02-06"), last.Start)
	assert.Equal(t, domain.MustParseDate("2024-03-06"), last.End)
}

func TestTimeEntryWorkflow(t *testing.T) {
	// Arrange
	api, _ := setupTestBusinessAPI(t, time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	tasks, err := api.ListActiveTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	taskID := tasks[0].ID

	input := domain.TimeEntryInput{
		TaskID:    taskID,
		EntryDate: domain.MustParseDate("2024-03-05"),
		StartTime: domain.MustParseClock("09:00"),
		EndTime:   domain.MustParseClock("11:00"),
	}

	// Act
	entry, err := api.CreateTimeEntry(ctx, input)
	require.NoError(t, err)
	_, err = api.CreateTimeEntry(ctx, input)

	// Assert
	assert.True(t, errors.HasCode(err, errors.CodeTimeOverlap))

	week, err := api.CurrentWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, week.TotalMinutes)
	assert.Equal(t, 120, week.DailySummaries[1].TotalMinutes)

	stats, err := api.LastDays(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)

	var buf bytes.Buffer
	require.NoError(t, api.ExportTimeEntries(ctx, &buf, domain.DateRange{Start: input.EntryDate, End: input.EntryDate}))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	require.NoError(t, api.DeleteTimeEntry(ctx, entry.ID))
	total, err := api.DailyTotalMinutes(ctx, input.EntryDate)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestCategoryAndTaskWorkflow(t *testing.T) {
	api, _ := setupTestBusinessAPI(t, time.Now())
	ctx := context.Background()

	home, err := api.CreateCategory(ctx, domain.CategoryInput{Title: "Home"})
	require.NoError(t, err)
	garden, err := api.CreateTask(ctx, domain.TaskInput{CategoryID: home.ID, Title: "Garden", Color: "#00FF00"})
	require.NoError(t, err)

	tasks, err := api.ListTasksByCategory(ctx, home.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, garden.ID, tasks[0].ID)

	archived, err := api.DeleteCategory(ctx, home.ID)
	require.NoError(t, err)
	assert.False(t, archived)
	_, err = api.GetTask(ctx, garden.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}
