package services

import (
	"context"

	"timesheet/internal/domain"
	"timesheet/internal/repository/sqlstore"
)

// entryLookup adapts a repository, usually a transaction-bound one, to the
// read access the validators need.
type entryLookup struct {
	repo   sqlstore.Repository
	mapper *domain.Mapper
}

func newEntryLookup(repo sqlstore.Repository, mapper *domain.Mapper) *entryLookup {
	return &entryLookup{repo: repo, mapper: mapper}
}

func (l *entryLookup) FindOverlapping(ctx context.Context, userID int64, date domain.Date, start, end domain.Clock, excludeID int64) ([]domain.TimeEntry, error) {
	rows, err := l.repo.FindOverlappingEntries(ctx, userID, date.String(), start.String(), end.String(), excludeID)
	if err != nil {
		return nil, err
	}
	return l.mapper.TimeEntry.FromDatabaseSlice(rows)
}

func (l *entryLookup) SumDurationForDate(ctx context.Context, userID int64, date domain.Date, excludeID int64) (int, error) {
	return l.repo.SumDurationForDate(ctx, userID, date.String(), excludeID)
}
