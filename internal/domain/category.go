package domain

import "time"

// Defaults for the category created on first use.
const (
	DefaultCategoryTitle       = "General"
	DefaultCategoryDescription = "Default category for time tracking"
)

// Category groups tasks for a single user.
type Category struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsArchived  bool      `json:"isArchived"`
	IsDefault   bool      `json:"isDefault"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Read model fields, filled by the category service.
	Tasks           []Task `json:"tasks,omitempty"`
	TaskCount       int    `json:"taskCount"`
	ActiveTaskCount int    `json:"activeTaskCount"`
}

// CategoryInput carries the writable fields of a category.
// Nil pointers leave the stored value unchanged on update. On create a nil
// SortOrder appends the category.
type CategoryInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsDefault   *bool  `json:"isDefault,omitempty"`
	IsArchived  *bool  `json:"isArchived,omitempty"`
	SortOrder   *int   `json:"sortOrder,omitempty"`
}
