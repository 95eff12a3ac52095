package api

import (
	"context"
	"io"
	"time"

	"timesheet/internal/domain"
	"timesheet/internal/services"
)

// BusinessAPI is the single entry point of the HTTP server and the CLI.
// Every call acts on behalf of the current user, resolved on first use.
type BusinessAPI interface {
	// ========== Identity ==========

	// CurrentUser returns the acting user, bootstrapping it on first access
	CurrentUser(ctx context.Context) (*domain.User, error)

	// Today is the current calendar day in the user's time zone
	Today(ctx context.Context) (domain.Date, error)

	// ========== Categories ==========

	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) (archived bool, err error)
	ArchiveCategory(ctx context.Context, id int64, archived bool) (*domain.Category, error)
	ReorderCategories(ctx context.Context, ids []int64) ([]domain.Category, error)
	SetDefaultCategory(ctx context.Context, id int64) (*domain.Category, error)

	// ========== Tasks ==========

	ListTasksByCategory(ctx context.Context, categoryID int64) ([]domain.Task, error)
	ListActiveTasksByCategory(ctx context.Context, categoryID int64) ([]domain.Task, error)
	ListActiveTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (archived bool, err error)
	ArchiveTask(ctx context.Context, id int64, archived bool) (*domain.Task, error)
	ReorderTasks(ctx context.Context, categoryID int64, ids []int64) ([]domain.Task, error)
	MoveTaskToCategory(ctx context.Context, taskID, categoryID int64) (*domain.Task, error)

	// ========== Time entries ==========

	GetTimeEntry(ctx context.Context, id int64) (*domain.TimeEntry, error)
	ListTimeEntriesByDate(ctx context.Context, date domain.Date) ([]domain.TimeEntry, error)
	ListTimeEntriesByRange(ctx context.Context, r domain.DateRange) ([]domain.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, in domain.TimeEntryInput) (*domain.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, id int64, in domain.TimeEntryInput) (*domain.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id int64) error
	BulkCreateTimeEntries(ctx context.Context, in domain.BulkTimeEntryInput) (*domain.BulkOperationResult, error)
	ValidateTimeEntry(ctx context.Context, in domain.TimeEntryInput) (*domain.ValidationResult, error)
	DailyTotalMinutes(ctx context.Context, date domain.Date) (int, error)
	FindOverlappingEntries(ctx context.Context, date domain.Date, start, end domain.Clock, excludeID int64) ([]domain.TimeEntry, error)

	// ========== Reports ==========

	DailySummary(ctx context.Context, date domain.Date) (*domain.DailySummary, error)
	WeeklySummary(ctx context.Context, date domain.Date) (*domain.WeeklySummary, error)
	Statistics(ctx context.Context, r domain.DateRange) (*domain.Statistics, error)
	EnhancedStatistics(ctx context.Context, r domain.DateRange) (*domain.EnhancedStatistics, error)
	ProductivityInsights(ctx context.Context, r domain.DateRange) (*domain.ProductivityInsights, error)
	DailySummariesForRange(ctx context.Context, r domain.DateRange) (map[domain.Date]*domain.DailySummary, error)
	ValidateDay(ctx context.Context, date domain.Date) (*domain.ValidationResult, error)
	CurrentWeek(ctx context.Context) (*domain.WeeklySummary, error)
	LastDays(ctx context.Context, days int) (*domain.Statistics, error)

	// ========== Export ==========

	ExportTimeEntries(ctx context.Context, w io.Writer, r domain.DateRange) error
	ExportDailySummary(ctx context.Context, w io.Writer, r domain.DateRange) error
	ExportTaskSummary(ctx context.Context, w io.Writer, r domain.DateRange) error

	// CurrentWeekRange is Monday to Sunday of the week containing today
	CurrentWeekRange(ctx context.Context) (domain.DateRange, error)

	// LastDaysRange covers the given number of days ending today
	LastDaysRange(ctx context.Context, days int) (domain.DateRange, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services *services.ServiceContainer
	users    *userResolver
	now      func() time.Time
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container *services.ServiceContainer, opts ...Option) BusinessAPI {
	b := &businessAPIImpl{
		services: container,
		users:    &userResolver{users: container.UserService, categories: container.CategoryService},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ========== Identity ==========

func (b *businessAPIImpl) CurrentUser(ctx context.Context) (*domain.User, error) {
	return b.users.resolve(ctx)
}

func (b *businessAPIImpl) userID(ctx context.Context) (int64, error) {
	user, err := b.users.resolve(ctx)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (b *businessAPIImpl) Today(ctx context.Context) (domain.Date, error) {
	user, err := b.users.resolve(ctx)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.DateOf(b.now().In(user.Location())), nil
}

// ========== Categories ==========

func (b *businessAPIImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.CategoryService.ListCategories(ctx, uid)
}

func (b *businessAPIImpl) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.CategoryService.ListActiveCategories(ctx, uid)
}

func (b *businessAPIImpl) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.CategoryService.GetCategory(ctx, uid, id)
}

func (b *businessAPIImpl) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.CategoryService.CreateCategory(ctx, uid, in)
}

func (b *businessAPIImpl) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.CategoryService.UpdateCategory(ctx, uid, id, in)
}

func (b *businessAPIImpl) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return false, err
	}
	return b.services.CategoryService.DeleteCategory(ctx, uid, id)
}

func (b *businessAPIImpl) ArchiveCategory(ctx context.Context, id int64, archived bool) (*domain.Category, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.CategoryService.ArchiveCategory(ctx, uid, id, archived)
}

func (b *businessAPIImpl) ReorderCategories(ctx context.Context, ids []int64) ([]domain.Category, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.CategoryService.ReorderCategories(ctx, uid, ids)
}

func (b *businessAPIImpl) SetDefaultCategory(ctx context.Context, id int64) (*domain.Category, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.CategoryService.SetDefaultCategory(ctx, uid, id)
}

// ========== Tasks ==========

func (b *businessAPIImpl) ListTasksByCategory(ctx context.Context, categoryID int64) ([]domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.ListTasksByCategory(ctx, uid, categoryID)
}

func (b *businessAPIImpl) ListActiveTasksByCategory(ctx context.Context, categoryID int64) ([]domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.ListActiveTasksByCategory(ctx, uid, categoryID)
}

func (b *businessAPIImpl) ListActiveTasks(ctx context.Context) ([]domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.ListActiveTasks(ctx, uid)
}

func (b *businessAPIImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.GetTask(ctx, uid, id)
}

func (b *businessAPIImpl) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.CreateTask(ctx, uid, in)
}

func (b *businessAPIImpl) UpdateTask(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.UpdateTask(ctx, uid, id, in)
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, id int64) (bool, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return false, err
	}
	return b.services.TaskService.DeleteTask(ctx, uid, id)
}

func (b *businessAPIImpl) ArchiveTask(ctx context.Context, id int64, archived bool) (*domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.ArchiveTask(ctx, uid, id, archived)
}

func (b *businessAPIImpl) ReorderTasks(ctx context.Context, categoryID int64, ids []int64) ([]domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.ReorderTasks(ctx, uid, categoryID, ids)
}

func (b *businessAPIImpl) MoveTaskToCategory(ctx context.Context, taskID, categoryID int64) (*domain.Task, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.MoveTaskToCategory(ctx, uid, taskID, categoryID)
}

// ========== Time entries ==========

func (b *businessAPIImpl) GetTimeEntry(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TimeEntryService.GetTimeEntry(ctx, uid, id)
}

func (b *businessAPIImpl) ListTimeEntriesByDate(ctx context.Context, date domain.Date) ([]domain.TimeEntry, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TimeEntryService.ListTimeEntriesByDate(ctx, uid, date)
}

func (b *businessAPIImpl) ListTimeEntriesByRange(ctx context.Context, r domain.DateRange) ([]domain.TimeEntry, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TimeEntryService.ListTimeEntriesByRange(ctx, uid, r)
}

func (b *businessAPIImpl) CreateTimeEntry(ctx context.Context, in domain.TimeEntryInput) (*domain.TimeEntry, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TimeEntryService.CreateTimeEntry(ctx, uid, in)
}

func (b *businessAPIImpl) UpdateTimeEntry(ctx context.Context, id int64, in domain.TimeEntryInput) (*domain.TimeEntry, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TimeEntryService.UpdateTimeEntry(ctx, uid, id, in)
}

func (b *businessAPIImpl) DeleteTimeEntry(ctx context.Context, id int64) error {
	uid, err := b.userID(ctx)
	if err != nil {
		return err
	}
	return b.services.TimeEntryService.DeleteTimeEntry(ctx, uid, id)
}

func (b *businessAPIImpl) BulkCreateTimeEntries(ctx context.Context, in domain.BulkTimeEntryInput) (*domain.BulkOperationResult, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TimeEntryService.BulkCreateTimeEntries(ctx, uid, in)
}

func (b *businessAPIImpl) ValidateTimeEntry(ctx context.Context, in domain.TimeEntryInput) (*domain.ValidationResult, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TimeEntryService.ValidateTimeEntry(ctx, uid, in)
}

func (b *businessAPIImpl) DailyTotalMinutes(ctx context.Context, date domain.Date) (int, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return 0, err
	}
	return b.services.TimeEntryService.DailyTotalMinutes(ctx, uid, date)
}

func (b *businessAPIImpl) FindOverlappingEntries(ctx context.Context, date domain.Date, start, end domain.Clock, excludeID int64) ([]domain.TimeEntry, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.TimeEntryService.FindOverlappingEntries(ctx, uid, date, start, end, excludeID)
}

// ========== Reports ==========

func (b *businessAPIImpl) DailySummary(ctx context.Context, date domain.Date) (*domain.DailySummary, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.DailySummary(ctx, uid, date)
}

func (b *businessAPIImpl) WeeklySummary(ctx context.Context, date domain.Date) (*domain.WeeklySummary, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.WeeklySummary(ctx, uid, date)
}

func (b *businessAPIImpl) Statistics(ctx context.Context, r domain.DateRange) (*domain.Statistics, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.Statistics(ctx, uid, r)
}

func (b *businessAPIImpl) EnhancedStatistics(ctx context.Context, r domain.DateRange) (*domain.EnhancedStatistics, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.EnhancedStatistics(ctx, uid, r)
}

func (b *businessAPIImpl) ProductivityInsights(ctx context.Context, r domain.DateRange) (*domain.ProductivityInsights, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.ProductivityInsights(ctx, uid, r)
}

func (b *businessAPIImpl) DailySummariesForRange(ctx context.Context, r domain.DateRange) (map[domain.Date]*domain.DailySummary, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.DailySummariesForRange(ctx, uid, r)
}

func (b *businessAPIImpl) ValidateDay(ctx context.Context, date domain.Date) (*domain.ValidationResult, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.ValidateDay(ctx, uid, date)
}

func (b *businessAPIImpl) CurrentWeek(ctx context.Context) (*domain.WeeklySummary, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	today, err := b.Today(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.CurrentWeek(ctx, uid, today)
}

func (b *businessAPIImpl) LastDays(ctx context.Context, days int) (*domain.Statistics, error) {
	uid, err := b.userID(ctx)
	if err != nil {
		return nil, err
	}
	today, err := b.Today(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.LastDays(ctx, uid, today, days)
}

// ========== Export ==========

func (b *businessAPIImpl) ExportTimeEntries(ctx context.Context, w io.Writer, r domain.DateRange) error {
	uid, err := b.userID(ctx)
	if err != nil {
		return err
	}
	return b.services.ExportService.ExportTimeEntries(ctx, w, uid, r)
}

func (b *businessAPIImpl) ExportDailySummary(ctx context.Context, w io.Writer, r domain.DateRange) error {
	uid, err := b.userID(ctx)
	if err != nil {
		return err
	}
	return b.services.ExportService.ExportDailySummary(ctx, w, uid, r)
}

func (b *businessAPIImpl) ExportTaskSummary(ctx context.Context, w io.Writer, r domain.DateRange) error {
	uid, err := b.userID(ctx)
	if err != nil {
		return err
	}
	return b.services.ExportService.ExportTaskSummary(ctx, w, uid, r)
}

func (b *businessAPIImpl) CurrentWeekRange(ctx context.Context) (domain.DateRange, error) {
	today, err := b.Today(ctx)
	if err != nil {
		return domain.DateRange{}, err
	}
	start := today.WeekStart()
	return domain.DateRange{Start: start, End: start.AddDays(6)}, nil
}

func (b *businessAPIImpl) LastDaysRange(ctx context.Context, days int) (domain.DateRange, error) {
	today, err := b.Today(ctx)
	if err != nil {
		return domain.DateRange{}, err
	}
	if days < 1 {
		days = 1
	}
	return domain.DateRange{Start: today.AddDays(-(days - 1)), End: today}, nil
}
