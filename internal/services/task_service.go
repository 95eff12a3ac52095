package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlstore"
	"timesheet/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo      sqlstore.Repository
	mapper    *domain.Mapper
	validator *validation.TaskValidator
	logger    *log.Logger
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo sqlstore.Repository, logger *log.Logger) TaskService {
	return &taskServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewTaskValidator(),
		logger:    logger,
	}
}

func (t *taskServiceImpl) ListTasksByCategory(ctx context.Context, userID, categoryID int64) ([]domain.Task, error) {
	return t.listByCategory(ctx, userID, categoryID, true)
}

func (t *taskServiceImpl) ListActiveTasksByCategory(ctx context.Context, userID, categoryID int64) ([]domain.Task, error) {
	return t.listByCategory(ctx, userID, categoryID, false)
}

func (t *taskServiceImpl) listByCategory(ctx context.Context, userID, categoryID int64, includeArchived bool) ([]domain.Task, error) {
	// the category lookup turns a foreign category into not found
	if _, err := t.repo.GetCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}

	rows, err := t.repo.ListTasksByCategory(ctx, userID, categoryID, includeArchived)
	if err != nil {
		return nil, err
	}
	return t.withUsage(ctx, t.mapper.Task.FromDatabaseSlice(rows))
}

// ListActiveTasks returns the active tasks of every category of the user,
// ordered by category title then position.
func (t *taskServiceImpl) ListActiveTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	rows, err := t.repo.ListActiveTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return t.withUsage(ctx, t.mapper.Task.FromDatabaseSlice(rows))
}

func (t *taskServiceImpl) GetTask(ctx context.Context, userID, id int64) (*domain.Task, error) {
	row, err := t.repo.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	usage, err := t.repo.GetTaskUsage(ctx, id)
	if err != nil {
		return nil, err
	}
	task := t.mapper.Task.WithUsage(t.mapper.Task.FromDatabase(*row), usage)
	return &task, nil
}

func (t *taskServiceImpl) CreateTask(ctx context.Context, userID int64, in domain.TaskInput) (*domain.Task, error) {
	if err := t.validator.ValidateTaskForCreation(&in); err != nil {
		return nil, err
	}

	row := &sqlstore.Task{
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
	}

	err := t.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		category, err := activeCategory(ctx, tx, userID, in.CategoryID)
		if err != nil {
			return err
		}
		row.CategoryTitle = category.Title

		if in.SortOrder != nil {
			row.SortOrder = *in.SortOrder
		} else {
			maxOrder, err := tx.MaxTaskSortOrder(ctx, category.ID)
			if err != nil {
				return err
			}
			row.SortOrder = maxOrder + 1
		}

		return tx.CreateTask(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("Created task", "title", row.Title, "category", row.CategoryTitle, "id", row.ID, "user", userID)
	task := t.mapper.Task.FromDatabase(*row)
	return &task, nil
}

// UpdateTask rewrites the editable fields; the category is left alone
func (t *taskServiceImpl) UpdateTask(ctx context.Context, userID, id int64, in domain.TaskInput) (*domain.Task, error) {
	if err := t.validator.ValidateTaskForUpdate(id, &in); err != nil {
		return nil, err
	}

	var row *sqlstore.Task
	err := t.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		row, err = tx.GetTask(ctx, userID, id)
		if err != nil {
			return err
		}

		row.Title = in.Title
		row.Description = in.Description
		row.Color = in.Color
		row.Icon = in.Icon
		if in.SortOrder != nil {
			row.SortOrder = *in.SortOrder
		}
		if in.IsArchived != nil {
			row.IsArchived = *in.IsArchived
		}
		return tx.UpdateTask(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("Updated task", "title", row.Title, "id", id, "user", userID)
	task := t.mapper.Task.FromDatabase(*row)
	return &task, nil
}

func (t *taskServiceImpl) DeleteTask(ctx context.Context, userID, id int64) (bool, error) {
	var archived bool
	err := t.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		row, err := tx.GetTask(ctx, userID, id)
		if err != nil {
			return err
		}

		entries, err := tx.CountEntriesForTask(ctx, id)
		if err != nil {
			return err
		}
		if entries == 0 {
			return tx.DeleteTask(ctx, userID, id)
		}

		archived = true
		row.IsArchived = true
		return tx.UpdateTask(ctx, row)
	})
	if err != nil {
		return false, err
	}

	if archived {
		t.logger.Info("Archived task instead of deleting (has time entries)", "id", id, "user", userID)
	} else {
		t.logger.Info("Deleted task", "id", id, "user", userID)
	}
	return archived, nil
}

func (t *taskServiceImpl) ArchiveTask(ctx context.Context, userID, id int64, archived bool) (*domain.Task, error) {
	var row *sqlstore.Task
	err := t.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		row, err = tx.GetTask(ctx, userID, id)
		if err != nil {
			return err
		}
		row.IsArchived = archived
		return tx.UpdateTask(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info(archiveAction(archived)+" task", "title", row.Title, "id", id, "user", userID)
	task := t.mapper.Task.FromDatabase(*row)
	return &task, nil
}

// ReorderTasks positions the listed tasks of one category and returns the
// category's active tasks in their new order.
func (t *taskServiceImpl) ReorderTasks(ctx context.Context, userID, categoryID int64, ids []int64) ([]domain.Task, error) {
	if err := t.validator.ValidateReorder(categoryID, ids); err != nil {
		return nil, err
	}

	err := t.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		if _, err := tx.GetCategory(ctx, userID, categoryID); err != nil {
			return err
		}

		for i, id := range ids {
			row, err := tx.GetTask(ctx, userID, id)
			if err != nil {
				return err
			}
			if row.CategoryID != categoryID {
				return errors.NewValidationError(fmt.Sprintf("Task %d does not belong to category %d", id, categoryID), nil)
			}
			row.SortOrder = i
			if err := tx.UpdateTask(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("Reordered tasks", "count", len(ids), "category", categoryID, "user", userID)
	return t.ListActiveTasksByCategory(ctx, userID, categoryID)
}

// MoveTaskToCategory appends the task to another category of the same user
func (t *taskServiceImpl) MoveTaskToCategory(ctx context.Context, userID, taskID, categoryID int64) (*domain.Task, error) {
	var row *sqlstore.Task
	err := t.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		row, err = tx.GetTask(ctx, userID, taskID)
		if err != nil {
			return err
		}
		category, err := activeCategory(ctx, tx, userID, categoryID)
		if err != nil {
			return err
		}
		if row.CategoryID == category.ID {
			return nil
		}

		maxOrder, err := tx.MaxTaskSortOrder(ctx, category.ID)
		if err != nil {
			return err
		}
		row.CategoryID = category.ID
		row.CategoryTitle = category.Title
		row.SortOrder = maxOrder + 1
		return tx.UpdateTask(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("Moved task", "title", row.Title, "category", row.CategoryTitle, "id", taskID, "user", userID)
	task := t.mapper.Task.FromDatabase(*row)
	return &task, nil
}

func (t *taskServiceImpl) withUsage(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	for i := range tasks {
		usage, err := t.repo.GetTaskUsage(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i] = t.mapper.Task.WithUsage(tasks[i], usage)
	}
	return tasks, nil
}

// activeCategory loads a category of the user that still accepts tasks
func activeCategory(ctx context.Context, repo sqlstore.Repository, userID, categoryID int64) (*sqlstore.Category, error) {
	category, err := repo.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsArchived {
		return nil, errors.NewArchivedError("category", fmt.Sprintf("%d", categoryID))
	}
	return category, nil
}

// ensureDefaultTask returns the first active task of the category, creating
// "General Task" when the category has none.
func ensureDefaultTask(ctx context.Context, repo sqlstore.Repository, userID, categoryID int64) (*sqlstore.Task, bool, error) {
	category, err := repo.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, false, err
	}

	tasks, err := repo.ListTasksByCategory(ctx, userID, categoryID, false)
	if err != nil {
		return nil, false, err
	}
	if len(tasks) > 0 {
		return tasks[0], false, nil
	}

	row := &sqlstore.Task{
		CategoryID:    categoryID,
		CategoryTitle: category.Title,
		Title:         domain.DefaultTaskTitle,
		Color:         domain.DefaultTaskColor,
		Icon:          domain.DefaultTaskIcon,
		SortOrder:     0,
	}
	if err := repo.CreateTask(ctx, row); err != nil {
		return nil, false, err
	}
	return row, true, nil
}
