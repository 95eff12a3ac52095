package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateTask inserts a task and sets its ID and timestamps
func (s *Store) CreateTask(ctx context.Context, task *Task) error {
	ts := now()
	query := s.rebind(`
	INSERT INTO tasks (category_id, title, description, color, icon, is_archived, sort_order, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`)

	id, err := InsertReturningID(ctx, s.q, query,
		task.CategoryID,
		task.Title,
		task.Description,
		task.Color,
		task.Icon,
		task.IsArchived,
		task.SortOrder,
		FormatTimeForDB(ts),
		FormatTimeForDB(ts),
	)
	if err != nil {
		return err
	}

	task.ID = id
	task.CreatedAt, task.UpdatedAt = ts, ts
	return nil
}

// GetTask retrieves a task whose category belongs to the user
func (s *Store) GetTask(ctx context.Context, userID, id int64) (*Task, error) {
	query := s.rebind(`
	SELECT ` + taskColumns + `
	FROM tasks t
	JOIN categories c ON c.id = t.category_id
	WHERE t.id = ? AND c.user_id = ?`)

	return QuerySingle(ctx, s.q, query, ScanTask, "task", fmt.Sprintf("%d", id), id, userID)
}

// ListTasksByCategory retrieves the tasks of one category ordered by sort order then title
func (s *Store) ListTasksByCategory(ctx context.Context, userID, categoryID int64, includeArchived bool) ([]*Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks t
	JOIN categories c ON c.id = t.category_id
	WHERE t.category_id = ? AND c.user_id = ?`
	args := []interface{}{categoryID, userID}
	if !includeArchived {
		query += " AND t.is_archived = ?"
		args = append(args, false)
	}
	query += " ORDER BY t.sort_order ASC, t.title ASC"

	return QueryMultiple(ctx, s.q, s.rebind(query), ScanTasks, "tasks", args...)
}

// ListActiveTasks retrieves every non-archived task of the user grouped by category title
func (s *Store) ListActiveTasks(ctx context.Context, userID int64) ([]*Task, error) {
	query := s.rebind(`
	SELECT ` + taskColumns + `
	FROM tasks t
	JOIN categories c ON c.id = t.category_id
	WHERE c.user_id = ? AND t.is_archived = ?
	ORDER BY c.title ASC, t.sort_order ASC, t.title ASC`)

	return QueryMultiple(ctx, s.q, query, ScanTasks, "tasks", userID, false)
}

// UpdateTask writes every mutable column of a task, including its category
func (s *Store) UpdateTask(ctx context.Context, task *Task) error {
	ts := now()
	query := s.rebind(`
	UPDATE tasks
	SET category_id = ?, title = ?, description = ?, color = ?, icon = ?, is_archived = ?, sort_order = ?, updated_at = ?
	WHERE id = ?`)

	err := ExecuteWithRowsAffected(ctx, s.q, query, "task", fmt.Sprintf("%d", task.ID),
		task.CategoryID,
		task.Title,
		task.Description,
		task.Color,
		task.Icon,
		task.IsArchived,
		task.SortOrder,
		FormatTimeForDB(ts),
		task.ID,
	)
	if err != nil {
		return err
	}
	task.UpdatedAt = ts
	return nil
}

// DeleteTask deletes a task owned by the user
func (s *Store) DeleteTask(ctx context.Context, userID, id int64) error {
	query := s.rebind(`
	DELETE FROM tasks
	WHERE id = ? AND category_id IN (SELECT id FROM categories WHERE user_id = ?)`)
	return ExecuteWithRowsAffected(ctx, s.q, query, "task", fmt.Sprintf("%d", id), id, userID)
}

// MaxTaskSortOrder returns the highest sort order in the category, or -1 when it is empty
func (s *Store) MaxTaskSortOrder(ctx context.Context, categoryID int64) (int, error) {
	query := s.rebind(`SELECT COALESCE(MAX(sort_order), -1) FROM tasks WHERE category_id = ?`)
	return QueryInt(ctx, s.q, query, categoryID)
}

// CountEntriesForTask counts the time entries logged against a task
func (s *Store) CountEntriesForTask(ctx context.Context, taskID int64) (int, error) {
	query := s.rebind(`SELECT COUNT(*) FROM time_entries WHERE task_id = ?`)
	return QueryInt(ctx, s.q, query, taskID)
}

// GetTaskUsage aggregates entry count, minutes and last use of a task
func (s *Store) GetTaskUsage(ctx context.Context, taskID int64) (*TaskUsage, error) {
	query := s.rebind(`
	SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0), MAX(created_at)
	FROM time_entries
	WHERE task_id = ?`)

	usage := &TaskUsage{TaskID: taskID}
	var lastUsed sql.NullString
	if err := s.q.QueryRowContext(ctx, query, taskID).Scan(&usage.EntryCount, &usage.TotalMinutes, &lastUsed); err != nil {
		return nil, HandleDatabaseError("task usage", err)
	}

	last, err := parseNullTime(lastUsed)
	if err != nil {
		return nil, HandleDatabaseError("task usage", err)
	}
	usage.LastUsed = last
	return usage, nil
}
