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

// categoryServiceImpl implements the CategoryService interface
type categoryServiceImpl struct {
	repo      sqlstore.Repository
	mapper    *domain.Mapper
	validator *validation.CategoryValidator
	logger    *log.Logger
}

// NewCategoryService creates a new CategoryService instance
func NewCategoryService(repo sqlstore.Repository, logger *log.Logger) CategoryService {
	return &categoryServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewCategoryValidator(),
		logger:    logger,
	}
}

func (c *categoryServiceImpl) ListCategories(ctx context.Context, userID int64) ([]domain.Category, error) {
	return c.list(ctx, userID, true)
}

func (c *categoryServiceImpl) ListActiveCategories(ctx context.Context, userID int64) ([]domain.Category, error) {
	return c.list(ctx, userID, false)
}

func (c *categoryServiceImpl) list(ctx context.Context, userID int64, includeArchived bool) ([]domain.Category, error) {
	rows, err := c.repo.ListCategories(ctx, userID, includeArchived)
	if err != nil {
		return nil, err
	}

	categories := c.mapper.Category.FromDatabaseSlice(rows)
	for i := range categories {
		if err := c.withTaskCounts(ctx, c.repo, &categories[i]); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

// GetCategory returns the category with its tasks in display order
func (c *categoryServiceImpl) GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error) {
	row, err := c.repo.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	category := c.mapper.Category.FromDatabase(*row)
	if err := c.withTaskCounts(ctx, c.repo, &category); err != nil {
		return nil, err
	}

	tasks, err := c.repo.ListTasksByCategory(ctx, userID, id, true)
	if err != nil {
		return nil, err
	}
	category.Tasks = c.mapper.Task.FromDatabaseSlice(tasks)
	return &category, nil
}

func (c *categoryServiceImpl) CreateCategory(ctx context.Context, userID int64, in domain.CategoryInput) (*domain.Category, error) {
	if err := c.validator.ValidateCategoryInput(&in); err != nil {
		return nil, err
	}

	row := &sqlstore.Category{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		IsDefault:   in.IsDefault != nil && *in.IsDefault,
	}

	err := c.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		if row.IsDefault {
			if err := tx.ClearDefaultCategory(ctx, userID); err != nil {
				return err
			}
		}

		if in.SortOrder != nil {
			row.SortOrder = *in.SortOrder
		} else {
			maxOrder, err := tx.MaxCategorySortOrder(ctx, userID)
			if err != nil {
				return err
			}
			row.SortOrder = maxOrder + 1
		}

		return tx.CreateCategory(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Created category", "title", row.Title, "id", row.ID, "user", userID)
	category := c.mapper.Category.FromDatabase(*row)
	return &category, nil
}

// UpdateCategory applies the title and description and any flag that is set
func (c *categoryServiceImpl) UpdateCategory(ctx context.Context, userID, id int64, in domain.CategoryInput) (*domain.Category, error) {
	if err := c.validator.ValidateCategoryInput(&in); err != nil {
		return nil, err
	}

	var row *sqlstore.Category
	err := c.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		row, err = tx.GetCategory(ctx, userID, id)
		if err != nil {
			return err
		}

		row.Title = in.Title
		row.Description = in.Description
		if in.SortOrder != nil {
			row.SortOrder = *in.SortOrder
		}
		if in.IsArchived != nil {
			if *in.IsArchived && row.IsDefault {
				return errDefaultArchive()
			}
			row.IsArchived = *in.IsArchived
		}
		if in.IsDefault != nil {
			if *in.IsDefault && !row.IsDefault {
				if err := tx.ClearDefaultCategory(ctx, userID); err != nil {
					return err
				}
			}
			row.IsDefault = *in.IsDefault
		}

		return tx.UpdateCategory(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Updated category", "title", row.Title, "id", id, "user", userID)
	category := c.mapper.Category.FromDatabase(*row)
	return &category, nil
}

func (c *categoryServiceImpl) DeleteCategory(ctx context.Context, userID, id int64) (bool, error) {
	var archived bool
	err := c.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		row, err := tx.GetCategory(ctx, userID, id)
		if err != nil {
			return err
		}

		entries, err := tx.CountEntriesForCategory(ctx, id)
		if err != nil {
			return err
		}
		if entries == 0 {
			return tx.DeleteCategory(ctx, userID, id)
		}

		archived = true
		row.IsArchived = true
		return tx.UpdateCategory(ctx, row)
	})
	if err != nil {
		return false, err
	}

	if archived {
		c.logger.Info("Archived category instead of deleting (has time entries)", "id", id, "user", userID)
	} else {
		c.logger.Info("Deleted category", "id", id, "user", userID)
	}
	return archived, nil
}

func (c *categoryServiceImpl) ArchiveCategory(ctx context.Context, userID, id int64, archived bool) (*domain.Category, error) {
	var row *sqlstore.Category
	err := c.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		row, err = tx.GetCategory(ctx, userID, id)
		if err != nil {
			return err
		}
		if archived && row.IsDefault {
			return errDefaultArchive()
		}

		row.IsArchived = archived
		return tx.UpdateCategory(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(archiveAction(archived)+" category", "title", row.Title, "id", id, "user", userID)
	category := c.mapper.Category.FromDatabase(*row)
	return &category, nil
}

// ReorderCategories gives each listed category its position as sort order
// and returns the active categories in their new order.
func (c *categoryServiceImpl) ReorderCategories(ctx context.Context, userID int64, ids []int64) ([]domain.Category, error) {
	if err := c.validator.ValidateReorder(ids); err != nil {
		return nil, err
	}

	err := c.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		for i, id := range ids {
			row, err := tx.GetCategory(ctx, userID, id)
			if err != nil {
				return err
			}
			row.SortOrder = i
			if err := tx.UpdateCategory(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Reordered categories", "count", len(ids), "user", userID)
	return c.ListActiveCategories(ctx, userID)
}

func (c *categoryServiceImpl) SetDefaultCategory(ctx context.Context, userID, id int64) (*domain.Category, error) {
	var row *sqlstore.Category
	err := c.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		row, err = tx.GetCategory(ctx, userID, id)
		if err != nil {
			return err
		}
		if row.IsArchived {
			return errors.NewArchivedError("category", fmt.Sprintf("%d", id))
		}
		if err := tx.ClearDefaultCategory(ctx, userID); err != nil {
			return err
		}
		row.IsDefault = true
		return tx.UpdateCategory(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Set default category", "title", row.Title, "id", id, "user", userID)
	category := c.mapper.Category.FromDatabase(*row)
	return &category, nil
}

func (c *categoryServiceImpl) EnsureDefaultCategory(ctx context.Context, userID int64) (*domain.Category, error) {
	var row *sqlstore.Category
	var created bool
	err := c.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		row, created, err = ensureDefaultCategory(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created {
		c.logger.Info("Created default category", "id", row.ID, "user", userID)
	}
	category := c.mapper.Category.FromDatabase(*row)
	return &category, nil
}

func (c *categoryServiceImpl) withTaskCounts(ctx context.Context, repo sqlstore.Repository, category *domain.Category) error {
	counts, err := repo.CountTasksForCategory(ctx, category.ID)
	if err != nil {
		return err
	}
	category.TaskCount = counts.Total
	category.ActiveTaskCount = counts.Active
	return nil
}

// ensureDefaultCategory returns the user's default category, creating
// "General" when there is none.
func ensureDefaultCategory(ctx context.Context, repo sqlstore.Repository, userID int64) (*sqlstore.Category, bool, error) {
	row, err := repo.GetDefaultCategory(ctx, userID)
	if err == nil {
		return row, false, nil
	}
	if !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return nil, false, err
	}

	row = &sqlstore.Category{
		UserID:      userID,
		Title:       domain.DefaultCategoryTitle,
		Description: domain.DefaultCategoryDescription,
		IsDefault:   true,
		SortOrder:   0,
	}
	if err := repo.CreateCategory(ctx, row); err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func errDefaultArchive() error {
	return errors.NewValidationError("Cannot archive the default category", nil)
}

func archiveAction(archived bool) string {
	if archived {
		return "Archived"
	}
	return "Unarchived"
}
