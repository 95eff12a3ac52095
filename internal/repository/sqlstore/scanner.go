package sqlstore

import (
	"time"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanAll drains rows through a single-row scanner
func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// timestamps parses the created_at/updated_at text pair shared by every table
func timestamps(created, updated string) (time.Time, time.Time, error) {
	c, err := ParseTimeFromDB(created)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	u, err := ParseTimeFromDB(updated)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return c, u, nil
}

const userColumns = `id, email, name, time_zone, is_active, created_at, updated_at`

// ScanUser scans a single user from a database row
func ScanUser(scanner Scanner) (*User, error) {
	u := &User{}
	var created, updated string
	if err := scanner.Scan(&u.ID, &u.Email, &u.Name, &u.TimeZone, &u.IsActive, &created, &updated); err != nil {
		return nil, err
	}
	c, up, err := timestamps(created, updated)
	if err != nil {
		return nil, err
	}
	u.CreatedAt, u.UpdatedAt = c, up
	return u, nil
}

const categoryColumns = `c.id, c.user_id, c.title, c.description, c.is_archived, c.is_default, c.sort_order, c.created_at, c.updated_at`

// ScanCategory scans a single category from a database row
func ScanCategory(scanner Scanner) (*Category, error) {
	c := &Category{}
	var created, updated string
	err := scanner.Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.Description,
		&c.IsArchived,
		&c.IsDefault,
		&c.SortOrder,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	cr, up, err := timestamps(created, updated)
	if err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = cr, up
	return c, nil
}

// ScanCategories scans multiple categories from database rows
func ScanCategories(rows Rows) ([]*Category, error) {
	return scanAll(rows, ScanCategory)
}

const taskColumns = `t.id, t.category_id, c.title, t.title, t.description, t.color, t.icon, t.is_archived, t.sort_order, t.created_at, t.updated_at`

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*Task, error) {
	t := &Task{}
	var created, updated string
	err := scanner.Scan(
		&t.ID,
		&t.CategoryID,
		&t.CategoryTitle,
		&t.Title,
		&t.Description,
		&t.Color,
		&t.Icon,
		&t.IsArchived,
		&t.SortOrder,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	cr, up, err := timestamps(created, updated)
	if err != nil {
		return nil, err
	}
	t.CreatedAt, t.UpdatedAt = cr, up
	return t, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	return scanAll(rows, ScanTask)
}

const timeEntryColumns = `e.id, e.user_id, e.task_id, e.entry_date, e.start_time, e.end_time,
	e.duration_minutes, e.description, e.is_billable, e.created_at, e.updated_at,
	t.title, t.color, t.icon, c.id, c.title`

// ScanTimeEntry scans a single time entry, with its task and category, from a database row
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	e := &TimeEntry{}
	var created, updated string
	err := scanner.Scan(
		&e.ID,
		&e.UserID,
		&e.TaskID,
		&e.EntryDate,
		&e.StartTime,
		&e.EndTime,
		&e.DurationMinutes,
		&e.Description,
		&e.IsBillable,
		&created,
		&updated,
		&e.TaskTitle,
		&e.TaskColor,
		&e.TaskIcon,
		&e.CategoryID,
		&e.CategoryTitle,
	)
	if err != nil {
		return nil, err
	}
	cr, up, err := timestamps(created, updated)
	if err != nil {
		return nil, err
	}
	e.CreatedAt, e.UpdatedAt = cr, up
	return e, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	return scanAll(rows, ScanTimeEntry)
}
