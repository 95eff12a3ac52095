package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlstore"
)

// Export kinds, used as the file name prefix.
const (
	ExportKindTimeEntries  = "time_entries"
	ExportKindDailySummary = "daily_summary"
	ExportKindTaskSummary  = "task_summary"
)

var (
	timeEntriesHeader  = []string{"Date", "Start Time", "End Time", "Duration (minutes)", "Duration (formatted)", "Task", "Category", "Description", "Billable"}
	dailySummaryHeader = []string{"Date", "Total Minutes", "Total Time (formatted)", "Number of Entries", "Categories Worked", "Most Used Task"}
	taskSummaryHeader  = []string{"Task", "Category", "Total Minutes", "Total Time (formatted)", "Entry Count", "Average Session Length", "Color", "Icon"}
)

// ExportFilename names the attachment of an export, e.g.
// time_entries_2024-03-01_to_2024-03-31.csv
func ExportFilename(kind string, r domain.DateRange) string {
	return fmt.Sprintf("%s_%s_to_%s.csv", kind, r.Start, r.End)
}

// MonthRange returns the first to last day of a month, rejecting months
// outside 1..12.
func MonthRange(year, month int) (domain.DateRange, error) {
	if month < 1 || month > 12 {
		return domain.DateRange{}, errors.NewInvalidInputError("month", month, "must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return domain.DateRange{}, errors.NewInvalidInputError("year", year, "must be between 1 and 9999")
	}
	start, end := domain.MonthRange(year, time.Month(month))
	return domain.DateRange{Start: start, End: end}, nil
}

// exportServiceImpl implements the ExportService interface
type exportServiceImpl struct {
	repo      sqlstore.Repository
	mapper    *domain.Mapper
	reporting ReportingService
}

// NewExportService creates a new ExportService instance
func NewExportService(repo sqlstore.Repository, reporting ReportingService) ExportService {
	return &exportServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		reporting: reporting,
	}
}

// ExportTimeEntries writes one row per entry, ordered by date and start time
func (s *exportServiceImpl) ExportTimeEntries(ctx context.Context, w io.Writer, userID int64, r domain.DateRange) error {
	entries, err := s.entries(ctx, userID, r)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(timeEntriesHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		billable := "No"
		if e.IsBillable {
			billable = "Yes"
		}
		record := []string{
			e.EntryDate.String(),
			e.StartTime.String(),
			e.EndTime.String(),
			strconv.Itoa(e.DurationMinutes),
			domain.FormatMinutes(e.DurationMinutes),
			e.TaskTitle,
			e.CategoryTitle,
			e.Description,
			billable,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportDailySummary writes one row per calendar day of r, empty days included
func (s *exportServiceImpl) ExportDailySummary(ctx context.Context, w io.Writer, userID int64, r domain.DateRange) error {
	summaries, err := s.reporting.DailySummariesForRange(ctx, userID, r)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(dailySummaryHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, day := range domain.DatesBetween(r.Start, r.End) {
		summary := summaries[day]
		mostUsed := ""
		if len(summary.TaskBreakdowns) > 0 {
			mostUsed = summary.TaskBreakdowns[0].TaskTitle
		}
		record := []string{
			day.String(),
			strconv.Itoa(summary.TotalMinutes),
			summary.TotalTimeFormatted,
			strconv.Itoa(summary.TotalEntries),
			strconv.Itoa(len(summary.CategoryBreakdowns)),
			mostUsed,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportTaskSummary writes one row per task worked on in r, largest total first
func (s *exportServiceImpl) ExportTaskSummary(ctx context.Context, w io.Writer, userID int64, r domain.DateRange) error {
	entries, err := s.entries(ctx, userID, r)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(taskSummaryHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range taskBreakdowns(entries) {
		record := []string{
			t.TaskTitle,
			t.CategoryTitle,
			strconv.Itoa(t.TotalMinutes),
			t.TimeFormatted,
			strconv.Itoa(t.EntryCount),
			domain.FormatMinutes(t.TotalMinutes / t.EntryCount),
			t.TaskColor,
			t.TaskIcon,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (s *exportServiceImpl) entries(ctx context.Context, userID int64, r domain.DateRange) ([]domain.TimeEntry, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListTimeEntriesByRange(ctx, userID, r.Start.String(), r.End.String())
	if err != nil {
		return nil, err
	}
	entries, err := s.mapper.TimeEntry.FromDatabaseSlice(rows)
	if err != nil {
		return nil, errors.NewDatabaseError("decode time entries", err)
	}
	return entries, nil
}
