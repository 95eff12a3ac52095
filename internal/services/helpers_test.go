package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	"timesheet/internal/logging"
	"timesheet/internal/repository/sqlstore"
)

// fixture is a migrated in-memory store with the local admin bootstrapped
type fixture struct {
	repo     *sqlstore.Store
	services *ServiceContainer
	user     *domain.User
	category *domain.Category
	task     *domain.Task

	tasksAdded int
}

func setupServices(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repo, err := sqlstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	container := NewServiceContainer(repo, logging.Discard())
	user, err := container.UserService.EnsureLocalAdmin(ctx)
	require.NoError(t, err)

	category, err := container.CategoryService.EnsureDefaultCategory(ctx, user.ID)
	require.NoError(t, err)
	tasks, err := container.TaskService.ListTasksByCategory(ctx, user.ID, category.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	return &fixture{repo: repo, services: container, user: user, category: category, task: &tasks[0]}
}

// addTask creates a task in a new or existing category, by title. Colors
// are unique within a category so each added task gets the next one,
// starting at #112233.
func (f *fixture) addTask(t *testing.T, categoryTitle, taskTitle string) *domain.Task {
	t.Helper()
	ctx := context.Background()

	var categoryID int64
	categories, err := f.services.CategoryService.ListCategories(ctx, f.user.ID)
	require.NoError(t, err)
	for _, c := range categories {
		if c.Title == categoryTitle {
			categoryID = c.ID
		}
	}
	if categoryID == 0 {
		category, err := f.services.CategoryService.CreateCategory(ctx, f.user.ID, domain.CategoryInput{Title: categoryTitle})
		require.NoError(t, err)
		categoryID = category.ID
	}

	task, err := f.services.TaskService.CreateTask(ctx, f.user.ID, domain.TaskInput{
		CategoryID: categoryID,
		Title:      taskTitle,
		Color:      fmt.Sprintf("#%06X", 0x112233+f.tasksAdded),
	})
	require.NoError(t, err)
	f.tasksAdded++
	return task
}

// logEntry creates an entry through the service, failing the test on rejection
func (f *fixture) logEntry(t *testing.T, taskID int64, date, start, end string) *domain.TimeEntry {
	t.Helper()
	entry, err := f.services.TimeEntryService.CreateTimeEntry(context.Background(), f.user.ID, entryInput(taskID, date, start, end))
	require.NoError(t, err)
	return entry
}

func entryInput(taskID int64, date, start, end string) domain.TimeEntryInput {
	return domain.TimeEntryInput{
		TaskID:    taskID,
		EntryDate: domain.MustParseDate(date),
		StartTime: domain.MustParseClock(start),
		EndTime:   domain.MustParseClock(end),
	}
}

func dateRange(start, end string) domain.DateRange {
	return domain.DateRange{Start: domain.MustParseDate(start), End: domain.MustParseDate(end)}
}
