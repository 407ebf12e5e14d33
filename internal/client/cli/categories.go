package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
)

// AddCategory prompts for a name and color and creates the category.
// Leaving the color empty picks the default.
func (a *App) AddCategory(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	name, err := getSimpleText(a.reader, "Category name", a.out)
	if err != nil {
		return err
	}
	color, err := getSimpleText(a.reader, "Color #rrggbb (empty for default)", a.out)
	if err != nil {
		return err
	}

	if err := a.workspace.CreateCategory(ctx, name, color); err != nil {
		a.reportWriteError(ctx, "Creating the category", err)
		return nil
	}
	fmt.Fprintln(a.out, "Category created.")
	a.renderCategories()
	return nil
}

// EditCategory renames or recolors a category. Empty inputs keep the
// current values.
func (a *App) EditCategory(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}
	cat, ok := a.categoryFromArg(arg, "editcat")
	if !ok {
		return nil
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", cat.Name), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = cat.Name
	}
	color, err := getSimpleText(a.reader, fmt.Sprintf("Color [%s]", cat.Color), a.out)
	if err != nil {
		return err
	}
	if color == "" {
		color = cat.Color
	}

	if err := a.workspace.UpdateCategory(ctx, cat.ID, name, color); err != nil {
		a.reportWriteError(ctx, "Updating the category", err)
		return nil
	}
	fmt.Fprintln(a.out, "Category updated.")
	a.renderCategories()
	return nil
}

// DeleteCategory asks for confirmation and deletes the category. Tasks keep
// existing and fall back to uncategorized; if the deleted category was the
// active filter, the filter is cleared.
func (a *App) DeleteCategory(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}
	cat, ok := a.categoryFromArg(arg, "delcat")
	if !ok {
		return nil
	}

	if !Confirm(a.reader, fmt.Sprintf("Delete category %q? Its tasks become uncategorized.", cat.Name), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.workspace.DeleteCategory(ctx, cat.ID); err != nil {
		a.reportWriteError(ctx, "Deleting the category", err)
		return nil
	}
	fmt.Fprintln(a.out, "Category deleted.")
	a.renderTasks()
	return nil
}

func (a *App) renderCategories() {
	for _, c := range a.workspace.Categories() {
		fmt.Fprintf(a.out, "  %d: %s %s\n", c.ID, c.Name, c.Color)
	}
}

func (a *App) categoryFromArg(arg, usage string) (*models.Category, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Fprintf(a.out, "Usage: %s N\n", usage)
		return nil, false
	}
	cat, ok := a.workspace.CategoryByID(id)
	if !ok {
		fmt.Fprintf(a.out, "No category %d.\n", id)
		return nil, false
	}
	return cat, true
}
