package sqlstore

import (
	"context"
	"fmt"
)

// CreateCategory inserts a category and sets its ID and timestamps
func (s *Store) CreateCategory(ctx context.Context, category *Category) error {
	ts := now()
	query := s.rebind(`
	INSERT INTO categories (user_id, title, description, is_archived, is_default, sort_order, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`)

	id, err := InsertReturningID(ctx, s.q, query,
		category.UserID,
		category.Title,
		category.Description,
		category.IsArchived,
		category.IsDefault,
		category.SortOrder,
		FormatTimeForDB(ts),
		FormatTimeForDB(ts),
	)
	if err != nil {
		return err
	}

	category.ID = id
	category.CreatedAt, category.UpdatedAt = ts, ts
	return nil
}

// GetCategory retrieves a category owned by the user
func (s *Store) GetCategory(ctx context.Context, userID, id int64) (*Category, error) {
	query := s.rebind(`
	SELECT ` + categoryColumns + `
	FROM categories c
	WHERE c.id = ? AND c.user_id = ?`)

	return QuerySingle(ctx, s.q, query, ScanCategory, "category", fmt.Sprintf("%d", id), id, userID)
}

// GetDefaultCategory retrieves the user's default category
func (s *Store) GetDefaultCategory(ctx context.Context, userID int64) (*Category, error) {
	query := s.rebind(`
	SELECT ` + categoryColumns + `
	FROM categories c
	WHERE c.user_id = ? AND c.is_default = ?
	ORDER BY c.id ASC
	LIMIT 1`)

	return QuerySingle(ctx, s.q, query, ScanCategory, "default category", fmt.Sprintf("user %d", userID), userID, true)
}

// ListCategories retrieves the user's categories ordered by sort order then title
func (s *Store) ListCategories(ctx context.Context, userID int64, includeArchived bool) ([]*Category, error) {
	query := `
	SELECT ` + categoryColumns + `
	FROM categories c
	WHERE c.user_id = ?`
	args := []interface{}{userID}
	if !includeArchived {
		query += " AND c.is_archived = ?"
		args = append(args, false)
	}
	query += " ORDER BY c.sort_order ASC, c.title ASC"

	return QueryMultiple(ctx, s.q, s.rebind(query), ScanCategories, "categories", args...)
}

// UpdateCategory writes every mutable column of a category
func (s *Store) UpdateCategory(ctx context.Context, category *Category) error {
	ts := now()
	query := s.rebind(`
	UPDATE categories
	SET title = ?, description = ?, is_archived = ?, is_default = ?, sort_order = ?, updated_at = ?
	WHERE id = ? AND user_id = ?`)

	err := ExecuteWithRowsAffected(ctx, s.q, query, "category", fmt.Sprintf("%d", category.ID),
		category.Title,
		category.Description,
		category.IsArchived,
		category.IsDefault,
		category.SortOrder,
		FormatTimeForDB(ts),
		category.ID,
		category.UserID,
	)
	if err != nil {
		return err
	}
	category.UpdatedAt = ts
	return nil
}

// ClearDefaultCategory unsets the default flag on every category of the user
func (s *Store) ClearDefaultCategory(ctx context.Context, userID int64) error {
	query := s.rebind(`UPDATE categories SET is_default = ?, updated_at = ? WHERE user_id = ? AND is_default = ?`)
	if _, err := s.q.ExecContext(ctx, query, false, FormatTimeForDB(now()), userID, true); err != nil {
		return HandleDatabaseError("clear default category", err)
	}
	return nil
}

// DeleteCategory deletes a category and, by cascade, its tasks
func (s *Store) DeleteCategory(ctx context.Context, userID, id int64) error {
	query := s.rebind(`DELETE FROM categories WHERE id = ? AND user_id = ?`)
	return ExecuteWithRowsAffected(ctx, s.q, query, "category", fmt.Sprintf("%d", id), id, userID)
}

// MaxCategorySortOrder returns the highest sort order in use, or -1 when the user has no categories
func (s *Store) MaxCategorySortOrder(ctx context.Context, userID int64) (int, error) {
	query := s.rebind(`SELECT COALESCE(MAX(sort_order), -1) FROM categories WHERE user_id = ?`)
	return QueryInt(ctx, s.q, query, userID)
}

// CountEntriesForCategory counts time entries logged against any task of the category
func (s *Store) CountEntriesForCategory(ctx context.Context, categoryID int64) (int, error) {
	query := s.rebind(`
	SELECT COUNT(*)
	FROM time_entries e
	JOIN tasks t ON t.id = e.task_id
	WHERE t.category_id = ?`)
	return QueryInt(ctx, s.q, query, categoryID)
}

// CountTasksForCategory counts all and non-archived tasks of the category
func (s *Store) CountTasksForCategory(ctx context.Context, categoryID int64) (*TaskCounts, error) {
	query := s.rebind(`
	SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_archived = ? THEN 1 ELSE 0 END), 0)
	FROM tasks
	WHERE category_id = ?`)

	counts := &TaskCounts{}
	if err := s.q.QueryRowContext(ctx, query, false, categoryID).Scan(&counts.Total, &counts.Active); err != nil {
		return nil, HandleDatabaseError("count tasks", err)
	}
	return counts, nil
}
