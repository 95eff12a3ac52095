package domain

import (
	"time"
)

// TimeEntry is a block of work on a task within a single calendar day.
// The denormalised task and category fields are populated on read.
type TimeEntry struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"-"`
	TaskID          int64     `json:"taskId"`
	TaskTitle       string    `json:"taskTitle"`
	TaskColor       string    `json:"taskColor"`
	TaskIcon        string    `json:"taskIcon"`
	CategoryID      int64     `json:"categoryId"`
	CategoryTitle   string    `json:"categoryTitle"`
	EntryDate       Date      `json:"entryDate"`
	StartTime       Clock     `json:"startTime"`
	EndTime         Clock     `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Description     string    `json:"description,omitempty"`
	IsBillable      bool      `json:"isBillable"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TimeEntryInput is the client-supplied shape for create, replace and bulk items.
type TimeEntryInput struct {
	TaskID      int64  `json:"taskId"`
	EntryDate   Date   `json:"entryDate"`
	StartTime   Clock  `json:"startTime"`
	EndTime     Clock  `json:"endTime"`
	Description string `json:"description,omitempty"`
	IsBillable  bool   `json:"isBillable"`
}

// Duration returns the span of the input in minutes.
func (in TimeEntryInput) Duration() int {
	return in.EndTime.Sub(in.StartTime)
}

// BulkTimeEntryInput creates several entries for one day.
type BulkTimeEntryInput struct {
	EntryDate       Date             `json:"entryDate"`
	TimeEntries     []TimeEntryInput `json:"timeEntries"`
	ReplaceExisting bool             `json:"replaceExisting"`
}

// DateRange is an inclusive span of days.
type DateRange struct {
	Start Date
	End   Date
}

// Contains reports whether d lies within the range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
