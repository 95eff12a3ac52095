package domain

import (
	"fmt"

	"timesheet/internal/repository/sqlstore"
)

// UserMapper handles conversion between domain and database User models.
type UserMapper struct{}

// ToDatabase converts a domain User to a database User.
func (m *UserMapper) ToDatabase(u User) sqlstore.User {
	return sqlstore.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		TimeZone:  u.TimeZone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromDatabase converts a database User to a domain User.
func (m *UserMapper) FromDatabase(u sqlstore.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		TimeZone:  u.TimeZone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CategoryMapper handles conversion between domain and database Category models.
type CategoryMapper struct{}

// ToDatabase converts a domain Category to a database Category.
func (m *CategoryMapper) ToDatabase(c Category) sqlstore.Category {
	return sqlstore.Category{
		ID:          c.ID,
		UserID:      c.UserID,
		Title:       c.Title,
		Description: c.Description,
		IsArchived:  c.IsArchived,
		IsDefault:   c.IsDefault,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// FromDatabase converts a database Category to a domain Category.
func (m *CategoryMapper) FromDatabase(c sqlstore.Category) Category {
	return Category{
		ID:          c.ID,
		UserID:      c.UserID,
		Title:       c.Title,
		Description: c.Description,
		IsArchived:  c.IsArchived,
		IsDefault:   c.IsDefault,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// FromDatabaseSlice converts database Categories to domain Categories.
func (m *CategoryMapper) FromDatabaseSlice(rows []*sqlstore.Category) []Category {
	out := make([]Category, len(rows))
	for i, c := range rows {
		out[i] = m.FromDatabase(*c)
	}
	return out
}

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(t Task) sqlstore.Task {
	return sqlstore.Task{
		ID:            t.ID,
		CategoryID:    t.CategoryID,
		CategoryTitle: t.CategoryTitle,
		Title:         t.Title,
		Description:   t.Description,
		Color:         t.Color,
		Icon:          t.Icon,
		IsArchived:    t.IsArchived,
		SortOrder:     t.SortOrder,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(t sqlstore.Task) Task {
	return Task{
		ID:            t.ID,
		CategoryID:    t.CategoryID,
		CategoryTitle: t.CategoryTitle,
		Title:         t.Title,
		Description:   t.Description,
		Color:         t.Color,
		Icon:          t.Icon,
		IsArchived:    t.IsArchived,
		SortOrder:     t.SortOrder,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// FromDatabaseSlice converts database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(rows []*sqlstore.Task) []Task {
	out := make([]Task, len(rows))
	for i, t := range rows {
		out[i] = m.FromDatabase(*t)
	}
	return out
}

// WithUsage copies usage statistics onto a domain Task.
func (m *TaskMapper) WithUsage(t Task, usage *sqlstore.TaskUsage) Task {
	if usage == nil {
		return t
	}
	t.TotalTimeEntries = usage.EntryCount
	t.TotalMinutesTracked = usage.TotalMinutes
	t.LastUsed = usage.LastUsed
	return t
}

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
func (m *TimeEntryMapper) ToDatabase(e TimeEntry) sqlstore.TimeEntry {
	return sqlstore.TimeEntry{
		ID:              e.ID,
		UserID:          e.UserID,
		TaskID:          e.TaskID,
		EntryDate:       e.EntryDate.String(),
		StartTime:       e.StartTime.String(),
		EndTime:         e.EndTime.String(),
		DurationMinutes: e.DurationMinutes,
		Description:     e.Description,
		IsBillable:      e.IsBillable,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
// It fails only when a stored date or time is malformed.
func (m *TimeEntryMapper) FromDatabase(e sqlstore.TimeEntry) (TimeEntry, error) {
	date, err := ParseDate(e.EntryDate)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("time entry %d: %w", e.ID, err)
	}
	start, err := ParseClock(e.StartTime)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("time entry %d: %w", e.ID, err)
	}
	end, err := ParseClock(e.EndTime)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("time entry %d: %w", e.ID, err)
	}

	return TimeEntry{
		ID:              e.ID,
		UserID:          e.UserID,
		TaskID:          e.TaskID,
		TaskTitle:       e.TaskTitle,
		TaskColor:       e.TaskColor,
		TaskIcon:        e.TaskIcon,
		CategoryID:      e.CategoryID,
		CategoryTitle:   e.CategoryTitle,
		EntryDate:       date,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: e.DurationMinutes,
		Description:     e.Description,
		IsBillable:      e.IsBillable,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}, nil
}

// FromDatabaseSlice converts database TimeEntries to domain TimeEntries, stopping at the first malformed row.
func (m *TimeEntryMapper) FromDatabaseSlice(rows []*sqlstore.TimeEntry) ([]TimeEntry, error) {
	out := make([]TimeEntry, 0, len(rows))
	for _, row := range rows {
		e, err := m.FromDatabase(*row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	User      *UserMapper
	Category  *CategoryMapper
	Task      *TaskMapper
	TimeEntry *TimeEntryMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		User:      &UserMapper{},
		Category:  &CategoryMapper{},
		Task:      &TaskMapper{},
		TimeEntry: &TimeEntryMapper{},
	}
}
