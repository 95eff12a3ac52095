package services

import (
	"context"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlstore"
	"timesheet/internal/validation"
)

// reportingServiceImpl implements the ReportingService interface. It only
// reads, so it takes no locks.
type reportingServiceImpl struct {
	repo     sqlstore.Repository
	mapper   *domain.Mapper
	analyzer *validation.DayPatternAnalyzer
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(repo sqlstore.Repository) ReportingService {
	return &reportingServiceImpl{
		repo:     repo,
		mapper:   domain.NewMapper(),
		analyzer: validation.NewDayPatternAnalyzer(),
	}
}

func (r *reportingServiceImpl) DailySummary(ctx context.Context, userID int64, date domain.Date) (*domain.DailySummary, error) {
	entries, err := r.entriesForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	summary := buildDailySummary(r.analyzer, date, entries)
	return &summary, nil
}

// WeeklySummary covers the Monday-to-Sunday week containing date
func (r *reportingServiceImpl) WeeklySummary(ctx context.Context, userID int64, date domain.Date) (*domain.WeeklySummary, error) {
	start := date.WeekStart()
	entries, err := r.entriesForRange(ctx, userID, domain.DateRange{Start: start, End: start.AddDays(6)})
	if err != nil {
		return nil, err
	}
	return buildWeeklySummary(r.analyzer, start, entries), nil
}

func (r *reportingServiceImpl) Statistics(ctx context.Context, userID int64, dr domain.DateRange) (*domain.Statistics, error) {
	entries, err := r.entriesForRange(ctx, userID, dr)
	if err != nil {
		return nil, err
	}
	return buildStatistics(dr, entries), nil
}

func (r *reportingServiceImpl) EnhancedStatistics(ctx context.Context, userID int64, dr domain.DateRange) (*domain.EnhancedStatistics, error) {
	entries, err := r.entriesForRange(ctx, userID, dr)
	if err != nil {
		return nil, err
	}
	return buildEnhancedStatistics(dr, entries), nil
}

func (r *reportingServiceImpl) ProductivityInsights(ctx context.Context, userID int64, dr domain.DateRange) (*domain.ProductivityInsights, error) {
	entries, err := r.entriesForRange(ctx, userID, dr)
	if err != nil {
		return nil, err
	}
	return buildProductivityInsights(dr, entries), nil
}

// DailySummariesForRange returns a summary for every calendar day of dr,
// including days without entries.
func (r *reportingServiceImpl) DailySummariesForRange(ctx context.Context, userID int64, dr domain.DateRange) (map[domain.Date]*domain.DailySummary, error) {
	entries, err := r.entriesForRange(ctx, userID, dr)
	if err != nil {
		return nil, err
	}
	return buildDailySummaries(r.analyzer, dr, entries), nil
}

// ValidateDay runs the pattern analyzer over the stored entries of date
func (r *reportingServiceImpl) ValidateDay(ctx context.Context, userID int64, date domain.Date) (*domain.ValidationResult, error) {
	entries, err := r.entriesForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return r.analyzer.Analyze(date, entries), nil
}

func (r *reportingServiceImpl) CurrentWeek(ctx context.Context, userID int64, today domain.Date) (*domain.WeeklySummary, error) {
	return r.WeeklySummary(ctx, userID, today)
}

// LastDays reports statistics over the given number of days ending today
func (r *reportingServiceImpl) LastDays(ctx context.Context, userID int64, today domain.Date, days int) (*domain.Statistics, error) {
	if days < 1 {
		return nil, errors.NewInvalidInputError("days", days, "must be at least 1")
	}
	return r.Statistics(ctx, userID, domain.DateRange{Start: today.AddDays(-(days - 1)), End: today})
}

func (r *reportingServiceImpl) entriesForDate(ctx context.Context, userID int64, date domain.Date) ([]domain.TimeEntry, error) {
	rows, err := r.repo.ListTimeEntriesByDate(ctx, userID, date.String())
	if err != nil {
		return nil, err
	}
	return r.decode(rows)
}

func (r *reportingServiceImpl) entriesForRange(ctx context.Context, userID int64, dr domain.DateRange) ([]domain.TimeEntry, error) {
	if err := checkRange(dr); err != nil {
		return nil, err
	}
	rows, err := r.repo.ListTimeEntriesByRange(ctx, userID, dr.Start.String(), dr.End.String())
	if err != nil {
		return nil, err
	}
	return r.decode(rows)
}

func (r *reportingServiceImpl) decode(rows []*sqlstore.TimeEntry) ([]domain.TimeEntry, error) {
	entries, err := r.mapper.TimeEntry.FromDatabaseSlice(rows)
	if err != nil {
		return nil, errors.NewDatabaseError("decode time entries", err)
	}
	return entries, nil
}
