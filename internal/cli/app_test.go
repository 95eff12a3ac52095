package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/api"
	"timesheet/internal/config"
	"timesheet/internal/domain"
	"timesheet/internal/logging"
	"timesheet/internal/services"
)

var testNow = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

type cliFixture struct {
	api    api.BusinessAPI
	taskID int64
}

func setupCLI(t *testing.T) *cliFixture {
	t.Helper()
	repo, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	container := services.NewServiceContainer(repo, logging.Discard())
	businessAPI := api.NewBusinessAPI(container, api.WithClock(func() time.Time { return testNow }))

	tasks, err := businessAPI.ListActiveTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	return &cliFixture{api: businessAPI, taskID: tasks[0].ID}
}

// run executes one command line against a fresh App sharing the fixture's API
func (f *cliFixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.ConfigEnv, filepath.Join(t.TempDir(), "config.toml"))

	var out, errOut bytes.Buffer
	app := NewApp(
		WithBusinessAPI(f.api),
		WithConfig(config.NewConfig()),
		WithOutput(&out, &errOut),
		WithClock(func() time.Time { return testNow }),
	)
	err := app.Run(context.Background(), args)
	return out.String(), errOut.String(), err
}

func (f *cliFixture) task() string {
	return strconv.FormatInt(f.taskID, 10)
}

func TestEntryCommands(t *testing.T) {
	f := setupCLI(t)

	out, _, err := f.run(t, "entry", "add", "--task", f.task(), "--start", "09:00", "--end", "10:30", "--description", "standup")
	require.NoError(t, err)
	assert.Contains(t, out, "Time entry created successfully")
	assert.Contains(t, out, "1h 30m")
	assert.Contains(t, out, "2024-03-06")

	out, _, err = f.run(t, "entry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, domain.DefaultTaskTitle)
	assert.Contains(t, out, "standup")

	out, _, err = f.run(t, "entry", "list", "--date", "2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "No time entries found")

	out, _, err = f.run(t, "entry", "total")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06  1h 30m (90 minutes)\n", out)

	out, _, err = f.run(t, "entry", "overlaps", "--start", "10:00", "--end", "11:00")
	require.NoError(t, err)
	assert.Contains(t, out, "standup")

	out, _, err = f.run(t, "entry", "overlaps", "--start", "13:00", "--end", "14:00")
	require.NoError(t, err)
	assert.Contains(t, out, "No overlapping entries")
}

func TestEntryAdd_Overlap(t *testing.T) {
	f := setupCLI(t)

	_, _, err := f.run(t, "entry", "add", "--task", f.task(), "--start", "09:00", "--end", "10:00")
	require.NoError(t, err)

	// touching the previous entry counts as an overlap
	_, _, err = f.run(t, "entry", "add", "--task", f.task(), "--start", "10:00", "--end", "11:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create time entry: Time entry validation failed")
	assert.Contains(t, err.Error(), "conflicts with #")
	assert.Contains(t, err.Error(), "09:00-10:00")

	out, _, err := f.run(t, "entry", "validate", "--task", f.task(), "--start", "09:30", "--end", "10:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid")
	assert.Contains(t, out, domain.ConflictTypeOverlap)
}

func TestEntryBulk(t *testing.T) {
	f := setupCLI(t)

	file := filepath.Join(t.TempDir(), "entries.json")
	items := `[
		{"taskId": ` + f.task() + `, "startTime": "09:00", "endTime": "10:00"},
		{"taskId": ` + f.task() + `, "startTime": "10:30", "endTime": "12:00"},
		{"taskId": ` + f.task() + `, "startTime": "11:00", "endTime": "11:30"}
	]`
	require.NoError(t, os.WriteFile(file, []byte(items), 0o644))

	out, _, err := f.run(t, "--output-format", "json", "entry", "bulk", "--date", "2024-03-04", "--file", file)
	require.NoError(t, err)

	var result domain.BulkOperationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)

	total, err := f.api.DailyTotalMinutes(context.Background(), domain.MustParseDate("2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, 150, total)
}

func TestReportCommands(t *testing.T) {
	f := setupCLI(t)
	ctx := context.Background()

	_, err := f.api.CreateTimeEntry(ctx, domain.TimeEntryInput{
		TaskID:    f.taskID,
		EntryDate: domain.MustParseDate("2024-03-06"),
		StartTime: domain.MustParseClock("08:00"),
		EndTime:   domain.MustParseClock("10:00"),
	})
	require.NoError(t, err)

	out, _, err := f.run(t, "--output-format", "json", "report", "daily")
	require.NoError(t, err)
	var daily domain.DailySummary
	require.NoError(t, json.Unmarshal([]byte(out), &daily))
	assert.Equal(t, domain.MustParseDate("2024-03-06"), daily.Date)
	assert.Equal(t, 120, daily.TotalMinutes)
	assert.Equal(t, "2h", daily.TotalTimeFormatted)

	out, _, err = f.run(t, "--output-format", "json", "report", "weekly", "--date", "2024-03-08")
	require.NoError(t, err)
	var weekly domain.WeeklySummary
	require.NoError(t, json.Unmarshal([]byte(out), &weekly))
	assert.Equal(t, domain.MustParseDate("2024-03-04"), weekly.WeekStartDate)
	assert.Equal(t, 120, weekly.TotalMinutes)

	out, _, err = f.run(t, "report", "stats", "--from", "2024-03-01", "--to", "2024-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "2h")
	assert.Contains(t, out, domain.DefaultTaskTitle)

	_, _, err = f.run(t, "report", "stats", "--from", "2024-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"to"`)
}

func TestCategoryAndTaskCommands(t *testing.T) {
	f := setupCLI(t)
	ctx := context.Background()

	out, _, err := f.run(t, "category", "create", "--title", "Home", "--description", "chores")
	require.NoError(t, err)
	assert.Contains(t, out, "Category created successfully")

	out, _, err = f.run(t, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, domain.DefaultCategoryTitle)

	categories, err := f.api.ListActiveCategories(ctx)
	require.NoError(t, err)
	var homeID, generalID int64
	for _, c := range categories {
		switch c.Title {
		case "Home":
			homeID = c.ID
		case domain.DefaultCategoryTitle:
			generalID = c.ID
		}
	}
	require.NotZero(t, homeID)
	require.NotZero(t, generalID)

	out, _, err = f.run(t, "task", "create",
		"--category", strconv.FormatInt(homeID, 10), "--title", "Garden", "--color", "#00FF00")
	require.NoError(t, err)
	assert.Contains(t, out, "Task created successfully")
	assert.Contains(t, out, "Garden")

	tasks, err := f.api.ListTasksByCategory(ctx, homeID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	gardenID := strconv.FormatInt(tasks[0].ID, 10)

	out, _, err = f.run(t, "task", "move", gardenID, "--to", strconv.FormatInt(generalID, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "Task moved successfully")

	moved, err := f.api.GetTask(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, generalID, moved.CategoryID)

	_, _, err = f.run(t, "category", "create", "--title", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create category")
}

func TestExportCommands(t *testing.T) {
	f := setupCLI(t)
	ctx := context.Background()

	_, err := f.api.CreateTimeEntry(ctx, domain.TimeEntryInput{
		TaskID:    f.taskID,
		EntryDate: domain.MustParseDate("2024-03-05"),
		StartTime: domain.MustParseClock("09:00"),
		EndTime:   domain.MustParseClock("10:00"),
	})
	require.NoError(t, err)

	out, _, err := f.run(t, "export", "entries", "--from", "2024-03-01", "--to", "2024-03-31")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)

	dir := t.TempDir()
	_, errOut, err := f.run(t, "export", "month", "2024", "3", "-o", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, services.ExportFilename(services.ExportKindTimeEntries, domain.DateRange{
		Start: domain.MustParseDate("2024-03-01"),
		End:   domain.MustParseDate("2024-03-31"),
	}))
	assert.Contains(t, errOut, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), out)

	_, _, err = f.run(t, "export", "month", "2024", "13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to export month")
}

func TestFlagErrors(t *testing.T) {
	f := setupCLI(t)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{
			name:     "bad date",
			args:     []string{"entry", "list", "--date", "2024-13-01"},
			contains: `invalid argument "2024-13-01"`,
		},
		{
			name:     "bad clock",
			args:     []string{"entry", "add", "--task", "1", "--start", "9am", "--end", "10:00"},
			contains: `invalid argument "9am"`,
		},
		{
			name:     "bad id",
			args:     []string{"entry", "show", "abc"},
			contains: `invalid id "abc"`,
		},
		{
			name:     "unknown entry",
			args:     []string{"entry", "show", "999"},
			contains: "failed to get time entry",
		},
		{
			name:     "unknown command",
			args:     []string{"start"},
			contains: `unknown command "start"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestSetup_AppliesFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.NewConfig()

	var out bytes.Buffer
	app := NewApp(WithConfig(cfg), WithOutput(&out, &out))
	err := app.Run(context.Background(), []string{
		"--config", path, "--output-format", "json", "--timeout", "5s", "--log-level", "error", "config", "show",
	})
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Display.OutputFormat)
	assert.Equal(t, 5*time.Second, cfg.Application.Timeout)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Contains(t, out.String(), "# "+path)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	run := func(args ...string) error {
		var out bytes.Buffer
		app := NewApp(WithConfig(config.NewConfig()), WithOutput(&out, &out))
		return app.Run(context.Background(), append([]string{"--config", path}, args...))
	}

	require.NoError(t, run("config", "init"))
	_, err := os.Stat(path)
	require.NoError(t, err)

	err = run("config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, run("config", "init", "--force"))
}
