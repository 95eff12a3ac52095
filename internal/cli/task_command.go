package cli

import (
	"context"

	"github.com/spf13/cobra"

	"timesheet/internal/api"
	"timesheet/internal/domain"
)

// TaskCommand handles the task command group
type TaskCommand struct {
	app    *App
	errors *ErrorHandler
}

// NewTaskCommand creates a new task command handler
func NewTaskCommand(app *App) *TaskCommand {
	return &TaskCommand{app: app, errors: NewErrorHandler()}
}

func (c *TaskCommand) Name() string {
	return "task"
}

type taskFlags struct {
	categoryID  int64
	title       string
	description string
	color       string
	icon        string
	sortOrder   int
}

func (f *taskFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int64Var(&f.categoryID, "category", 0, "category id")
	flags.StringVar(&f.title, "title", "", "task title")
	flags.StringVar(&f.description, "description", "", "optional description")
	flags.StringVar(&f.color, "color", "", "hex color, e.g. #3498db")
	flags.StringVar(&f.icon, "icon", "", "optional icon name")
	flags.IntVar(&f.sortOrder, "sort-order", 0, "position within the category (default last)")
}

func (f *taskFlags) input(cmd *cobra.Command) domain.TaskInput {
	in := domain.TaskInput{
		CategoryID:  f.categoryID,
		Title:       f.title,
		Description: f.description,
		Color:       f.color,
		Icon:        f.icon,
	}
	if cmd.Flags().Changed("sort-order") {
		order := f.sortOrder
		in.SortOrder = &order
	}
	return in
}

// Cobra builds the task command tree
func (c *TaskCommand) Cobra() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(
		c.listCommand(),
		c.createCommand(),
		c.updateCommand(),
		c.deleteCommand(),
		c.archiveCommand(),
		c.reorderCommand(),
		c.moveCommand(),
	)
	return cmd
}

func (c *TaskCommand) listCommand() *cobra.Command {
	var (
		categoryID int64
		active     bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks. Without --category every active task is listed;
with --category the tasks of that category, archived ones included unless --active.`,
		Args: cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			var tasks []domain.Task
			var err error
			switch {
			case categoryID == 0:
				tasks, err = b.ListActiveTasks(ctx)
			case active:
				tasks, err = b.ListActiveTasksByCategory(ctx, categoryID)
			default:
				tasks, err = b.ListTasksByCategory(ctx, categoryID)
			}
			if err != nil {
				return c.errors.Handle("list tasks", err)
			}
			return c.app.render(tasks, tasksTable(tasks))
		}),
	}
	cmd.Flags().Int64Var(&categoryID, "category", 0, "only tasks of this category")
	cmd.Flags().BoolVar(&active, "active", false, "hide archived tasks")
	return cmd
}

func (c *TaskCommand) createCommand() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task in a category",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			task, err := b.CreateTask(ctx, f.input(cmd))
			if err != nil {
				return c.errors.Handle("create task", err)
			}
			return c.show(task, "Task created successfully")
		}),
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func (c *TaskCommand) updateCommand() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := b.UpdateTask(ctx, id, f.input(cmd))
			if err != nil {
				return c.errors.Handle("update task", err)
			}
			return c.show(task, "Task updated successfully")
		}),
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func (c *TaskCommand) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task, or archive it when it has time entries",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			archived, err := b.DeleteTask(ctx, id)
			if err != nil {
				return c.errors.Handle("delete task", err)
			}
			if c.app.jsonOutput() {
				return c.app.printJSON(map[string]interface{}{"id": id, "archived": archived, "deleted": !archived})
			}
			if archived {
				c.app.println(warningStyle.Render("Task archived because it has time entries"))
				return nil
			}
			c.app.success("Task deleted successfully")
			return nil
		}),
	}
}

func (c *TaskCommand) archiveCommand() *cobra.Command {
	var unarchive bool
	cmd := &cobra.Command{
		Use:   "archive ID",
		Short: "Archive or unarchive a task",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := b.ArchiveTask(ctx, id, !unarchive)
			if err != nil {
				return c.errors.Handle("archive task", err)
			}
			msg := "Task archived successfully"
			if unarchive {
				msg = "Task unarchived successfully"
			}
			return c.show(task, msg)
		}),
	}
	cmd.Flags().BoolVar(&unarchive, "unarchive", false, "restore an archived task")
	return cmd
}

func (c *TaskCommand) reorderCommand() *cobra.Command {
	var categoryID int64
	cmd := &cobra.Command{
		Use:   "reorder --category ID TASK_ID...",
		Short: "Set the task order within a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			tasks, err := b.ReorderTasks(ctx, categoryID, ids)
			if err != nil {
				return c.errors.Handle("reorder tasks", err)
			}
			return c.app.render(tasks, tasksTable(tasks))
		}),
	}
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category the tasks belong to")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (c *TaskCommand) moveCommand() *cobra.Command {
	var to int64
	cmd := &cobra.Command{
		Use:   "move ID --to CATEGORY_ID",
		Short: "Move a task to another category",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := b.MoveTaskToCategory(ctx, id, to)
			if err != nil {
				return c.errors.Handle("move task", err)
			}
			return c.show(task, "Task moved successfully")
		}),
	}
	cmd.Flags().Int64Var(&to, "to", 0, "target category id")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (c *TaskCommand) show(task *domain.Task, msg string) error {
	if err := c.app.render(task, tasksTable([]domain.Task{*task})); err != nil {
		return err
	}
	c.app.success(msg)
	return nil
}
