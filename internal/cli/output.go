package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"timesheet/internal/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func (a *App) jsonOutput() bool {
	return a.config != nil && a.config.Display.OutputFormat == "json"
}

func (a *App) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render prints v as JSON, or the table build returns
func (a *App) render(v interface{}, build func() *table.Table) error {
	if a.jsonOutput() {
		return a.printJSON(v)
	}
	fmt.Fprintln(a.out, build().Render())
	return nil
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

// success prints a confirmation; JSON output stays machine readable
func (a *App) success(msg string) {
	if a.jsonOutput() {
		return
	}
	a.println(successStyle.Render(msg))
}

func (a *App) printWarnings(warnings []string) {
	if a.jsonOutput() {
		return
	}
	for _, w := range warnings {
		a.println(warningStyle.Render("! " + w))
	}
}

func entriesTable(entries []domain.TimeEntry) func() *table.Table {
	return func() *table.Table {
		t := newTable("ID", "Date", "Start", "End", "Duration", "Task", "Category", "Description")
		for _, e := range entries {
			t.Row(
				strconv.FormatInt(e.ID, 10),
				e.EntryDate.String(),
				e.StartTime.String(),
				e.EndTime.String(),
				domain.FormatMinutes(e.DurationMinutes),
				e.TaskTitle,
				e.CategoryTitle,
				e.Description,
			)
		}
		return t
	}
}

func categoriesTable(categories []domain.Category) func() *table.Table {
	return func() *table.Table {
		t := newTable("ID", "Title", "Tasks", "Active", "Order", "Default", "Archived")
		for _, c := range categories {
			t.Row(
				strconv.FormatInt(c.ID, 10),
				c.Title,
				strconv.Itoa(c.TaskCount),
				strconv.Itoa(c.ActiveTaskCount),
				strconv.Itoa(c.SortOrder),
				yesNo(c.IsDefault),
				yesNo(c.IsArchived),
			)
		}
		return t
	}
}

func tasksTable(tasks []domain.Task) func() *table.Table {
	return func() *table.Table {
		t := newTable("ID", "Title", "Category", "Color", "Entries", "Tracked", "Order", "Archived")
		for _, task := range tasks {
			t.Row(
				strconv.FormatInt(task.ID, 10),
				task.Title,
				task.CategoryTitle,
				task.Color,
				strconv.Itoa(task.TotalTimeEntries),
				domain.FormatMinutes(task.TotalMinutesTracked),
				strconv.Itoa(task.SortOrder),
				yesNo(task.IsArchived),
			)
		}
		return t
	}
}

func categoryBreakdownTable(rows []domain.CategoryBreakdown) *table.Table {
	t := newTable("Category", "Time", "Entries")
	for _, c := range rows {
		t.Row(c.CategoryTitle, c.TimeFormatted, strconv.Itoa(c.EntryCount))
	}
	return t
}

func taskBreakdownTable(rows []domain.TaskBreakdown) *table.Table {
	t := newTable("Task", "Category", "Time", "Entries")
	for _, b := range rows {
		t.Row(b.TaskTitle, b.CategoryTitle, b.TimeFormatted, strconv.Itoa(b.EntryCount))
	}
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
