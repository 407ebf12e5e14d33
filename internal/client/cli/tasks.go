package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/api"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/services"
	"github.com/taskmaster-app/taskmaster-cli/internal/common"
)

// renderTasks prints the current task page with the pagination footer.
func (a *App) renderTasks() {
	tasks := a.workspace.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks.")
	}
	for _, t := range tasks {
		fmt.Fprintln(a.out, formatTask(&t))
	}

	current, total := a.workspace.DisplayPage()
	fmt.Fprintf(a.out, "page %d of %d\n", current, total)
}

func formatTask(t *models.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-4d %s", mark, t.ID, t.Title)
	if t.CategoryName != "" {
		fmt.Fprintf(&b, " (%s)", t.CategoryName)
	}
	if t.DueDate != nil {
		fmt.Fprintf(&b, " due %s", t.DueDate.Format("2006-01-02"))
	}
	if t.OwnerUsername != "" {
		fmt.Fprintf(&b, " by %s", t.OwnerUsername)
	}
	if n := len(t.ShareSet()); n > 0 {
		fmt.Fprintf(&b, ", shared with %d", n)
	}
	return b.String()
}

// List refreshes the workspace and renders the current page.
func (a *App) List(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	a.refreshAndList(ctx)
	return nil
}

func (a *App) NextPage(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	if err := a.workspace.NextPage(ctx); err != nil {
		a.log.Error(ctx, "page change failed", "error", err)
		return nil
	}
	a.renderTasks()
	return nil
}

func (a *App) PrevPage(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	if err := a.workspace.PrevPage(ctx); err != nil {
		a.log.Error(ctx, "page change failed", "error", err)
		return nil
	}
	a.renderTasks()
	return nil
}

func (a *App) GoToPage(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}
	page, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Fprintln(a.out, "Usage: page N")
		return nil
	}
	if err := a.workspace.SetPage(ctx, page); err != nil {
		if errors.Is(err, common.ErrValidation) {
			fmt.Fprintf(a.out, "%s\n", err)
		} else {
			a.log.Error(ctx, "page change failed", "error", err)
		}
		return nil
	}
	a.renderTasks()
	return nil
}

// Find sets the text filter. An empty argument clears it.
func (a *App) Find(ctx context.Context, text string) error {
	if !a.requireLogin() {
		return nil
	}
	if err := a.workspace.SetSearch(ctx, text); err != nil {
		a.log.Error(ctx, "filter change failed", "error", err)
		return nil
	}
	a.renderTasks()
	return nil
}

// FilterStatus maps all|done|pending onto the completed filter.
func (a *App) FilterStatus(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}

	var value string
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "all":
		value = ""
	case "done":
		value = "true"
	case "pending":
		value = "false"
	default:
		fmt.Fprintln(a.out, "Usage: status all|done|pending")
		return nil
	}

	if err := a.workspace.SetCompletedFilter(ctx, value); err != nil {
		a.log.Error(ctx, "filter change failed", "error", err)
		return nil
	}
	a.renderTasks()
	return nil
}

// FilterCategory sets the category filter to the given id, or clears it
// when the argument is "-" or empty.
func (a *App) FilterCategory(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}

	arg = strings.TrimSpace(arg)
	var id *int
	if arg != "" && arg != "-" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(a.out, "Usage: cat N (or 'cat -' to clear)")
			return nil
		}
		id = &n
	}

	if err := a.workspace.SetCategoryFilter(ctx, id); err != nil {
		a.log.Error(ctx, "filter change failed", "error", err)
		return nil
	}
	a.renderTasks()
	return nil
}

// AddTask prompts for a title and an optional category and creates the
// task. The category selector shows the freshly cached category list.
func (a *App) AddTask(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	title, err := getSimpleText(a.reader, "Task title", a.out)
	if err != nil {
		return err
	}

	var categoryID *int
	if cats := a.workspace.Categories(); len(cats) > 0 {
		for _, c := range cats {
			fmt.Fprintf(a.out, "  %d: %s\n", c.ID, c.Name)
		}
		answer, err := getSimpleText(a.reader, "Category id (empty for none)", a.out)
		if err != nil {
			return err
		}
		if answer != "" {
			n, convErr := strconv.Atoi(answer)
			if convErr != nil {
				fmt.Fprintln(a.out, "Not a category id, leaving the task uncategorized.")
			} else {
				categoryID = &n
			}
		}
	}

	if err := a.workspace.CreateTask(ctx, title, categoryID); err != nil {
		a.reportWriteError(ctx, "Creating the task", err)
		return nil
	}
	fmt.Fprintln(a.out, "Task created.")
	a.renderTasks()
	return nil
}

// EditTask prompts per field; empty input keeps the current value.
func (a *App) EditTask(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}
	task, ok := a.taskFromArg(arg, "edit")
	if !ok {
		return nil
	}

	changes := services.TaskChanges{}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", task.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		changes.Title = &title
	}

	description, err := getSimpleText(a.reader, "Description (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if description != "" {
		changes.Description = &description
	}

	due, err := getSimpleText(a.reader, "Due date YYYY-MM-DD (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	// An empty due date is omitted from the payload entirely; the server
	// rejects an empty value.
	changes.DueDate = &due

	if err := a.workspace.UpdateTask(ctx, task.ID, changes); err != nil {
		a.reportWriteError(ctx, "Updating the task", err)
		return nil
	}
	fmt.Fprintln(a.out, "Task updated.")
	a.renderTasks()
	return nil
}

// ToggleDone flips a task's completion state.
func (a *App) ToggleDone(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}
	task, ok := a.taskFromArg(arg, "done")
	if !ok {
		return nil
	}

	if err := a.workspace.ToggleCompletion(ctx, task); err != nil {
		a.reportWriteError(ctx, "Updating the task", err)
		return nil
	}
	a.renderTasks()
	return nil
}

// DeleteTask asks for confirmation and deletes the task.
func (a *App) DeleteTask(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}
	task, ok := a.taskFromArg(arg, "del")
	if !ok {
		return nil
	}

	if !Confirm(a.reader, fmt.Sprintf("Delete task %q?", task.Title), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.workspace.DeleteTask(ctx, task.ID); err != nil {
		a.reportWriteError(ctx, "Deleting the task", err)
		return nil
	}
	fmt.Fprintln(a.out, "Task deleted.")
	a.renderTasks()
	return nil
}

// taskFromArg resolves a task id argument against the currently loaded
// page.
func (a *App) taskFromArg(arg, usage string) (*models.Task, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Fprintf(a.out, "Usage: %s N\n", usage)
		return nil, false
	}
	task, ok := a.workspace.TaskByID(id)
	if !ok {
		fmt.Fprintf(a.out, "No task %d on the current page.\n", id)
		return nil, false
	}
	return task, true
}

// reportWriteError surfaces a failed mutation with the action named, per
// the policy that write failures are always visible.
func (a *App) reportWriteError(ctx context.Context, action string, err error) {
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintf(a.out, "%s failed:\n", action)
		a.printValidationError(ve)
		return
	}
	fmt.Fprintf(a.out, "%s failed: %s\n", action, err)
	a.log.Warn(ctx, "write failed", "action", action, "error", err)
}
