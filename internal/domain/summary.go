package domain

// CategoryBreakdown is the time spent in one category.
type CategoryBreakdown struct {
	CategoryID    int64  `json:"categoryId"`
	CategoryTitle string `json:"categoryTitle"`
	TotalMinutes  int    `json:"totalMinutes"`
	TimeFormatted string `json:"timeFormatted"`
	EntryCount    int    `json:"entryCount"`
}

// TaskBreakdown is the time spent on one task.
type TaskBreakdown struct {
	TaskID        int64  `json:"taskId"`
	TaskTitle     string `json:"taskTitle"`
	TaskColor     string `json:"taskColor"`
	TaskIcon      string `json:"taskIcon"`
	CategoryTitle string `json:"categoryTitle"`
	TotalMinutes  int    `json:"totalMinutes"`
	TimeFormatted string `json:"timeFormatted"`
	EntryCount    int    `json:"entryCount"`
}

type DailySummary struct {
	Date               Date                `json:"date"`
	TotalMinutes       int                 `json:"totalMinutes"`
	TotalTimeFormatted string              `json:"totalTimeFormatted"`
	TotalEntries       int                 `json:"totalEntries"`
	CategoryBreakdowns []CategoryBreakdown `json:"categoryBreakdowns"`
	TaskBreakdowns     []TaskBreakdown     `json:"taskBreakdowns"`
	TimeEntries        []TimeEntry         `json:"timeEntries"`
	Warnings           []string            `json:"warnings"`
}

type WeeklySummary struct {
	WeekStartDate      Date                `json:"weekStartDate"`
	WeekEndDate        Date                `json:"weekEndDate"`
	TotalMinutes       int                 `json:"totalMinutes"`
	TotalTimeFormatted string              `json:"totalTimeFormatted"`
	TotalEntries       int                 `json:"totalEntries"`
	AverageDailyHours  float64             `json:"averageDailyHours"`
	DailySummaries     []DailySummary      `json:"dailySummaries"`
	CategoryBreakdowns []CategoryBreakdown `json:"categoryBreakdowns"`
	TaskBreakdowns     []TaskBreakdown     `json:"taskBreakdowns"`
}

// MostUsedTask is the task with the largest summed minutes in a range.
type MostUsedTask struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	CategoryTitle string `json:"categoryTitle"`
	Minutes       int    `json:"minutes"`
	TimeFormatted string `json:"timeFormatted"`
}

type Statistics struct {
	StartDate                   Date          `json:"startDate"`
	EndDate                     Date          `json:"endDate"`
	TotalMinutes                int           `json:"totalMinutes"`
	TotalTimeFormatted          string        `json:"totalTimeFormatted"`
	TotalEntries                int           `json:"totalEntries"`
	AverageEntryLength          int           `json:"averageEntryLength"`
	AverageEntryLengthFormatted string        `json:"averageEntryLengthFormatted"`
	MostUsedTask                *MostUsedTask `json:"mostUsedTask"`
	DaysTracked                 int           `json:"daysTracked"`
	AverageDailyHours           float64       `json:"averageDailyHours"`
}

type EnhancedStatistics struct {
	Statistics
	CategoryBreakdown []CategoryBreakdown `json:"categoryBreakdown"`
	TaskBreakdown     []TaskBreakdown     `json:"taskBreakdown"`
	WeekdayMinutes    int                 `json:"weekdayMinutes"`
	WeekendMinutes    int                 `json:"weekendMinutes"`
	AverageSession    float64             `json:"averageSession"`
	LongestSession    int                 `json:"longestSession"`
}

// ProductiveDay is the date with the most tracked minutes.
type ProductiveDay struct {
	Date          Date   `json:"date"`
	Minutes       int    `json:"minutes"`
	TimeFormatted string `json:"timeFormatted"`
}

type ProductivityInsights struct {
	StartDate            Date              `json:"startDate"`
	EndDate              Date              `json:"endDate"`
	Message              string            `json:"message,omitempty"`
	MostProductiveDay    *ProductiveDay    `json:"mostProductiveDay,omitempty"`
	AverageSessionByTask map[string]string `json:"averageSessionByTask,omitempty"`
	CategoryDistribution map[string]string `json:"categoryDistribution,omitempty"`
}

// BulkOperationResult reports the outcome of a bulk create.
type BulkOperationResult struct {
	SuccessCount   int      `json:"successCount"`
	FailureCount   int      `json:"failureCount"`
	TotalProcessed int      `json:"totalProcessed"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	CreatedIDs     []int64  `json:"createdIds"`
	UpdatedIDs     []int64  `json:"updatedIds"`
	SkippedIDs     []int64  `json:"skippedIds"`
}

// NewBulkOperationResult returns a result with empty, non-nil lists.
func NewBulkOperationResult() *BulkOperationResult {
	return &BulkOperationResult{
		Errors:     []string{},
		Warnings:   []string{},
		CreatedIDs: []int64{},
		UpdatedIDs: []int64{},
		SkippedIDs: []int64{},
	}
}
