package services

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"timesheet/internal/domain"
	"timesheet/internal/logging"
	"timesheet/internal/repository/sqlstore"
)

// UserService resolves the acting user. Only the local admin exists.
type UserService interface {
	// EnsureLocalAdmin returns the local admin, creating it together with its
	// default category and task on first use.
	EnsureLocalAdmin(ctx context.Context) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CategoryService handles the category lifecycle of a user
type CategoryService interface {
	ListCategories(ctx context.Context, userID int64) ([]domain.Category, error)
	ListActiveCategories(ctx context.Context, userID int64) ([]domain.Category, error)
	GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, userID int64, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, id int64, in domain.CategoryInput) (*domain.Category, error)
	// DeleteCategory archives instead when any entry was logged in the category.
	// The returned flag reports which happened.
	DeleteCategory(ctx context.Context, userID, id int64) (archived bool, err error)
	ArchiveCategory(ctx context.Context, userID, id int64, archived bool) (*domain.Category, error)
	ReorderCategories(ctx context.Context, userID int64, ids []int64) ([]domain.Category, error)
	SetDefaultCategory(ctx context.Context, userID, id int64) (*domain.Category, error)
	EnsureDefaultCategory(ctx context.Context, userID int64) (*domain.Category, error)
}

// TaskService handles the task lifecycle inside a user's categories
type TaskService interface {
	ListTasksByCategory(ctx context.Context, userID, categoryID int64) ([]domain.Task, error)
	ListActiveTasksByCategory(ctx context.Context, userID, categoryID int64) ([]domain.Task, error)
	ListActiveTasks(ctx context.Context, userID int64) ([]domain.Task, error)
	GetTask(ctx context.Context, userID, id int64) (*domain.Task, error)
	CreateTask(ctx context.Context, userID int64, in domain.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, id int64, in domain.TaskInput) (*domain.Task, error)
	// DeleteTask archives instead when the task has entries.
	DeleteTask(ctx context.Context, userID, id int64) (archived bool, err error)
	ArchiveTask(ctx context.Context, userID, id int64, archived bool) (*domain.Task, error)
	ReorderTasks(ctx context.Context, userID, categoryID int64, ids []int64) ([]domain.Task, error)
	MoveTaskToCategory(ctx context.Context, userID, taskID, categoryID int64) (*domain.Task, error)
}

// TimeEntryService validates and persists time entries
type TimeEntryService interface {
	GetTimeEntry(ctx context.Context, userID, id int64) (*domain.TimeEntry, error)
	ListTimeEntriesByDate(ctx context.Context, userID int64, date domain.Date) ([]domain.TimeEntry, error)
	ListTimeEntriesByRange(ctx context.Context, userID int64, r domain.DateRange) ([]domain.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, userID int64, in domain.TimeEntryInput) (*domain.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, userID, id int64, in domain.TimeEntryInput) (*domain.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, userID, id int64) error
	BulkCreateTimeEntries(ctx context.Context, userID int64, in domain.BulkTimeEntryInput) (*domain.BulkOperationResult, error)
	// ValidateTimeEntry reports what a create would decide without writing.
	// An invalid candidate is not an error.
	ValidateTimeEntry(ctx context.Context, userID int64, in domain.TimeEntryInput) (*domain.ValidationResult, error)
	DailyTotalMinutes(ctx context.Context, userID int64, date domain.Date) (int, error)
	FindOverlappingEntries(ctx context.Context, userID int64, date domain.Date, start, end domain.Clock, excludeID int64) ([]domain.TimeEntry, error)
}

// ReportingService builds summaries and statistics from persisted entries
type ReportingService interface {
	DailySummary(ctx context.Context, userID int64, date domain.Date) (*domain.DailySummary, error)
	WeeklySummary(ctx context.Context, userID int64, date domain.Date) (*domain.WeeklySummary, error)
	Statistics(ctx context.Context, userID int64, r domain.DateRange) (*domain.Statistics, error)
	EnhancedStatistics(ctx context.Context, userID int64, r domain.DateRange) (*domain.EnhancedStatistics, error)
	ProductivityInsights(ctx context.Context, userID int64, r domain.DateRange) (*domain.ProductivityInsights, error)
	DailySummariesForRange(ctx context.Context, userID int64, r domain.DateRange) (map[domain.Date]*domain.DailySummary, error)
	ValidateDay(ctx context.Context, userID int64, date domain.Date) (*domain.ValidationResult, error)
	// CurrentWeek is the weekly summary of the week containing today.
	CurrentWeek(ctx context.Context, userID int64, today domain.Date) (*domain.WeeklySummary, error)
	// LastDays is the statistics of the days days ending with today.
	LastDays(ctx context.Context, userID int64, today domain.Date, days int) (*domain.Statistics, error)
}

// ExportService renders entries and summaries as CSV
type ExportService interface {
	ExportTimeEntries(ctx context.Context, w io.Writer, userID int64, r domain.DateRange) error
	ExportDailySummary(ctx context.Context, w io.Writer, userID int64, r domain.DateRange) error
	ExportTaskSummary(ctx context.Context, w io.Writer, userID int64, r domain.DateRange) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	UserService      UserService
	CategoryService  CategoryService
	TaskService      TaskService
	TimeEntryService TimeEntryService
	ReportingService ReportingService
	ExportService    ExportService
}

// NewServiceContainer wires every service onto one repository. A nil
// logger discards service logs.
func NewServiceContainer(repo sqlstore.Repository, logger *log.Logger) *ServiceContainer {
	logger = logging.OrDiscard(logger)
	taskService := NewTaskService(repo, logger)
	categoryService := NewCategoryService(repo, logger)
	timeEntryService := NewTimeEntryService(repo, logger)
	reportingService := NewReportingService(repo)

	return &ServiceContainer{
		UserService:      NewUserService(repo, logger),
		CategoryService:  categoryService,
		TaskService:      taskService,
		TimeEntryService: timeEntryService,
		ReportingService: reportingService,
		ExportService:    NewExportService(repo, reportingService),
	}
}
