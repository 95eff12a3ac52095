package domain

import "time"

// Defaults for the task created alongside the default category.
const (
	DefaultTaskTitle = "General Task"
	DefaultTaskColor = "#3498db"
	DefaultTaskIcon  = "clock"
)

// Task is a unit of work inside a category that time entries are logged against.
type Task struct {
	ID            int64     `json:"id"`
	CategoryID    int64     `json:"categoryId"`
	CategoryTitle string    `json:"categoryTitle,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon,omitempty"`
	IsArchived    bool      `json:"isArchived"`
	SortOrder     int       `json:"sortOrder"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Usage statistics, filled on read.
	TotalTimeEntries    int        `json:"totalTimeEntries"`
	TotalMinutesTracked int        `json:"totalMinutesTracked"`
	LastUsed            *time.Time `json:"lastUsed,omitempty"`
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// TaskInput carries the writable fields of a task.
type TaskInput struct {
	CategoryID  int64  `json:"categoryId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	Icon        string `json:"icon,omitempty"`
	IsArchived  *bool  `json:"isArchived,omitempty"`
	SortOrder   *int   `json:"sortOrder,omitempty"`
}
