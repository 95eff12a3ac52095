package sqlstore

import "time"

// User is a row of the users table
type User struct {
	ID        int64
	Email     string
	Name      string
	TimeZone  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is a row of the categories table
type Category struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	IsArchived  bool
	IsDefault   bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Task is a row of the tasks table joined with its category title
type Task struct {
	ID            int64
	CategoryID    int64
	CategoryTitle string
	Title         string
	Description   string
	Color         string
	Icon          string
	IsArchived    bool
	SortOrder     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TaskUsage aggregates the time entries logged against a task
type TaskUsage struct {
	TaskID       int64
	EntryCount   int
	TotalMinutes int
	LastUsed     *time.Time
}

// TaskCounts holds the number of tasks in a category
type TaskCounts struct {
	Total  int
	Active int
}

// TimeEntry is a row of the time_entries table.
// EntryDate is YYYY-MM-DD and StartTime/EndTime are HH:MM, so plain text
// comparison orders them correctly in every dialect.
type TimeEntry struct {
	ID              int64
	UserID          int64
	TaskID          int64
	EntryDate       string
	StartTime       string
	EndTime         string
	DurationMinutes int
	Description     string
	IsBillable      bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// populated by reads
	TaskTitle     string
	TaskColor     string
	TaskIcon      string
	CategoryID    int64
	CategoryTitle string
}
