package sqlstore

import (
	"context"
	"fmt"
)

const timeEntryFrom = `
	FROM time_entries e
	JOIN tasks t ON t.id = e.task_id
	JOIN categories c ON c.id = t.category_id`

// CreateTimeEntry inserts a time entry and sets its ID and timestamps
func (s *Store) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	ts := now()
	query := s.rebind(`
	INSERT INTO time_entries (user_id, task_id, entry_date, start_time, end_time, duration_minutes, description, is_billable, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`)

	id, err := InsertReturningID(ctx, s.q, query,
		entry.UserID,
		entry.TaskID,
		entry.EntryDate,
		entry.StartTime,
		entry.EndTime,
		entry.DurationMinutes,
		entry.Description,
		entry.IsBillable,
		FormatTimeForDB(ts),
		FormatTimeForDB(ts),
	)
	if err != nil {
		return err
	}

	entry.ID = id
	entry.CreatedAt, entry.UpdatedAt = ts, ts
	return nil
}

// GetTimeEntry retrieves a time entry owned by the user
func (s *Store) GetTimeEntry(ctx context.Context, userID, id int64) (*TimeEntry, error) {
	query := s.rebind(`SELECT ` + timeEntryColumns + timeEntryFrom + `
	WHERE e.id = ? AND e.user_id = ?`)

	return QuerySingle(ctx, s.q, query, ScanTimeEntry, "time entry", fmt.Sprintf("%d", id), id, userID)
}

// ListTimeEntriesByDate retrieves a day's entries ordered by start time
func (s *Store) ListTimeEntriesByDate(ctx context.Context, userID int64, date string) ([]*TimeEntry, error) {
	query := s.rebind(`SELECT ` + timeEntryColumns + timeEntryFrom + `
	WHERE e.user_id = ? AND e.entry_date = ?
	ORDER BY e.start_time ASC, e.id ASC`)

	return QueryMultiple(ctx, s.q, query, ScanTimeEntries, "time entries", userID, date)
}

// ListTimeEntriesByRange retrieves entries in [startDate, endDate] ordered by date then start time
func (s *Store) ListTimeEntriesByRange(ctx context.Context, userID int64, startDate, endDate string) ([]*TimeEntry, error) {
	query := s.rebind(`SELECT ` + timeEntryColumns + timeEntryFrom + `
	WHERE e.user_id = ? AND e.entry_date >= ? AND e.entry_date <= ?
	ORDER BY e.entry_date ASC, e.start_time ASC, e.id ASC`)

	return QueryMultiple(ctx, s.q, query, ScanTimeEntries, "time entries", userID, startDate, endDate)
}

// FindOverlappingEntries returns the day's entries whose closed interval intersects [startTime, endTime].
// excludeID of 0 excludes nothing.
func (s *Store) FindOverlappingEntries(ctx context.Context, userID int64, date, startTime, endTime string, excludeID int64) ([]*TimeEntry, error) {
	query := s.rebind(`SELECT ` + timeEntryColumns + timeEntryFrom + `
	WHERE e.user_id = ? AND e.entry_date = ? AND e.id <> ?
	AND NOT (e.end_time < ? OR e.start_time > ?)
	ORDER BY e.start_time ASC, e.id ASC`)

	return QueryMultiple(ctx, s.q, query, ScanTimeEntries, "time entries", userID, date, excludeID, startTime, endTime)
}

// SumDurationForDate totals the minutes logged on a day, leaving out excludeID
func (s *Store) SumDurationForDate(ctx context.Context, userID int64, date string, excludeID int64) (int, error) {
	query := s.rebind(`
	SELECT COALESCE(SUM(duration_minutes), 0)
	FROM time_entries
	WHERE user_id = ? AND entry_date = ? AND id <> ?`)
	return QueryInt(ctx, s.q, query, userID, date, excludeID)
}

// UpdateTimeEntry replaces every mutable column of a time entry
func (s *Store) UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	ts := now()
	query := s.rebind(`
	UPDATE time_entries
	SET task_id = ?, entry_date = ?, start_time = ?, end_time = ?, duration_minutes = ?, description = ?, is_billable = ?, updated_at = ?
	WHERE id = ? AND user_id = ?`)

	err := ExecuteWithRowsAffected(ctx, s.q, query, "time entry", fmt.Sprintf("%d", entry.ID),
		entry.TaskID,
		entry.EntryDate,
		entry.StartTime,
		entry.EndTime,
		entry.DurationMinutes,
		entry.Description,
		entry.IsBillable,
		FormatTimeForDB(ts),
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return err
	}
	entry.UpdatedAt = ts
	return nil
}

// DeleteTimeEntry deletes a time entry owned by the user
func (s *Store) DeleteTimeEntry(ctx context.Context, userID, id int64) error {
	query := s.rebind(`DELETE FROM time_entries WHERE id = ? AND user_id = ?`)
	return ExecuteWithRowsAffected(ctx, s.q, query, "time entry", fmt.Sprintf("%d", id), id, userID)
}

// DeleteTimeEntriesByDate removes all of a user's entries on a day and returns how many went
func (s *Store) DeleteTimeEntriesByDate(ctx context.Context, userID int64, date string) (int64, error) {
	query := s.rebind(`DELETE FROM time_entries WHERE user_id = ? AND entry_date = ?`)
	result, err := s.q.ExecContext(ctx, query, userID, date)
	if err != nil {
		return 0, HandleDatabaseError("delete time entries", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, HandleDatabaseError("get rows affected", err)
	}
	return n, nil
}
