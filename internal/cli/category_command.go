package cli

import (
	"context"

	"github.com/spf13/cobra"

	"timesheet/internal/api"
	"timesheet/internal/domain"
)

// CategoryCommand handles the category command group
type CategoryCommand struct {
	app    *App
	errors *ErrorHandler
}

// NewCategoryCommand creates a new category command handler
func NewCategoryCommand(app *App) *CategoryCommand {
	return &CategoryCommand{app: app, errors: NewErrorHandler()}
}

func (c *CategoryCommand) Name() string {
	return "category"
}

type categoryFlags struct {
	title       string
	description string
	sortOrder   int
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "category title")
	cmd.Flags().StringVar(&f.description, "description", "", "optional description")
	cmd.Flags().IntVar(&f.sortOrder, "sort-order", 0, "position in listings (default last)")
}

func (f *categoryFlags) input(cmd *cobra.Command) domain.CategoryInput {
	in := domain.CategoryInput{Title: f.title, Description: f.description}
	if cmd.Flags().Changed("sort-order") {
		order := f.sortOrder
		in.SortOrder = &order
	}
	return in
}

// Cobra builds the category command tree
func (c *CategoryCommand) Cobra() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(
		c.listCommand(),
		c.createCommand(),
		c.updateCommand(),
		c.deleteCommand(),
		c.archiveCommand(),
		c.reorderCommand(),
		c.defaultCommand(),
	)
	return cmd
}

func (c *CategoryCommand) listCommand() *cobra.Command {
	var active bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories in sort order",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			list := b.ListCategories
			if active {
				list = b.ListActiveCategories
			}
			categories, err := list(ctx)
			if err != nil {
				return c.errors.Handle("list categories", err)
			}
			return c.app.render(categories, categoriesTable(categories))
		}),
	}
	cmd.Flags().BoolVar(&active, "active", false, "hide archived categories")
	return cmd
}

func (c *CategoryCommand) createCommand() *cobra.Command {
	var f categoryFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			category, err := b.CreateCategory(ctx, f.input(cmd))
			if err != nil {
				return c.errors.Handle("create category", err)
			}
			return c.show(category, "Category created successfully")
		}),
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (c *CategoryCommand) updateCommand() *cobra.Command {
	var f categoryFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			category, err := b.UpdateCategory(ctx, id, f.input(cmd))
			if err != nil {
				return c.errors.Handle("update category", err)
			}
			return c.show(category, "Category updated successfully")
		}),
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (c *CategoryCommand) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category, or archive it when it has time entries",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			archived, err := b.DeleteCategory(ctx, id)
			if err != nil {
				return c.errors.Handle("delete category", err)
			}
			if c.app.jsonOutput() {
				return c.app.printJSON(map[string]interface{}{"id": id, "archived": archived, "deleted": !archived})
			}
			if archived {
				c.app.println(warningStyle.Render("Category archived because it has time entries"))
				return nil
			}
			c.app.success("Category deleted successfully")
			return nil
		}),
	}
}

func (c *CategoryCommand) archiveCommand() *cobra.Command {
	var unarchive bool
	cmd := &cobra.Command{
		Use:   "archive ID",
		Short: "Archive or unarchive a category",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			category, err := b.ArchiveCategory(ctx, id, !unarchive)
			if err != nil {
				return c.errors.Handle("archive category", err)
			}
			msg := "Category archived successfully"
			if unarchive {
				msg = "Category unarchived successfully"
			}
			return c.show(category, msg)
		}),
	}
	cmd.Flags().BoolVar(&unarchive, "unarchive", false, "restore an archived category")
	return cmd
}

func (c *CategoryCommand) reorderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder ID...",
		Short: "Set the category order; the first id comes first",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			categories, err := b.ReorderCategories(ctx, ids)
			if err != nil {
				return c.errors.Handle("reorder categories", err)
			}
			return c.app.render(categories, categoriesTable(categories))
		}),
	}
}

func (c *CategoryCommand) defaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "default ID",
		Short: "Make a category the default",
		Args:  cobra.ExactArgs(1),
		RunE: c.app.withAPI(func(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			category, err := b.SetDefaultCategory(ctx, id)
			if err != nil {
				return c.errors.Handle("set default category", err)
			}
			return c.show(category, "Default category updated")
		}),
	}
}

func (c *CategoryCommand) show(category *domain.Category, msg string) error {
	if err := c.app.render(category, categoriesTable([]domain.Category{*category})); err != nil {
		return err
	}
	c.app.success(msg)
	return nil
}
