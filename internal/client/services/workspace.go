package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/api"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/common"
	"github.com/taskmaster-app/taskmaster-cli/internal/logging"
)

// DefaultCategoryColor is applied when a new category is created without an
// explicit color.
const DefaultCategoryColor = "#6366f1"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TaskChanges is a partial task update. Nil pointer fields are left
// untouched on the server. A DueDate pointing at an empty string is dropped
// from the payload entirely instead of being sent as an empty value.
type TaskChanges struct {
	Title       *string
	Description *string
	DueDate     *string
	Completed   *bool
	Category    *int
	// ClearCategory sends an explicit null to detach the task from its
	// category.
	ClearCategory bool
	// SharedWith, when non-nil, overwrites the task's share set.
	SharedWith []int
}

// payload maps the populated fields to the wire names. Only present keys
// reach the server, which is what makes the update partial.
func (c *TaskChanges) payload() map[string]any {
	fields := map[string]any{}
	if c.Title != nil {
		fields["title"] = *c.Title
	}
	if c.Description != nil {
		fields["description"] = *c.Description
	}
	if c.DueDate != nil && strings.TrimSpace(*c.DueDate) != "" {
		fields["due_date"] = *c.DueDate
	}
	if c.Completed != nil {
		fields["completed"] = *c.Completed
	}
	switch {
	case c.ClearCategory:
		fields["category"] = nil
	case c.Category != nil:
		fields["category"] = *c.Category
	}
	if c.SharedWith != nil {
		fields["shared_with"] = c.SharedWith
	}
	return fields
}

// WorkspaceService is the task workspace controller. It owns the coupled
// view state (current page plus the three filters), mirrors the server's
// task and category collections, and mediates every mutation. Each
// successful write is followed by a full refetch; the server stays the
// single source of truth and no optimistic local patch is ever applied.
//
// The controller is driven from a single goroutine (the REPL loop) and is
// not safe for concurrent use.
type WorkspaceService interface {
	// Refresh fetches the current task page and the category list together.
	Refresh(ctx context.Context) error

	Tasks() []models.Task
	Categories() []models.Category
	TaskByID(id int) (*models.Task, bool)
	CategoryByID(id int) (*models.Category, bool)

	// Page returns the current 1-based page; TotalPages derives from the
	// last fetched count. DisplayPage never reports fewer than one total
	// page, even for an empty collection.
	Page() int
	TotalPages() int
	DisplayPage() (current, total int)
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	SetPage(ctx context.Context, page int) error

	Search() string
	SetSearch(ctx context.Context, text string) error
	CompletedFilter() string
	SetCompletedFilter(ctx context.Context, value string) error
	CategoryFilter() *int
	SetCategoryFilter(ctx context.Context, id *int) error

	CreateTask(ctx context.Context, title string, categoryID *int) error
	UpdateTask(ctx context.Context, id int, changes TaskChanges) error
	ToggleCompletion(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id int) error
	ShareTask(ctx context.Context, task *models.Task, targetUserID int) error

	CreateCategory(ctx context.Context, name, color string) error
	UpdateCategory(ctx context.Context, id int, name, color string) error
	DeleteCategory(ctx context.Context, id int) error
}

type workspaceService struct {
	client api.Client
	log    logging.Logger

	page           int
	search         string
	completed      string // "", "true", "false"
	categoryFilter *int

	tasks      []models.Task
	categories []models.Category
	count      int
}

// NewWorkspaceService constructs a workspace controller starting at page 1
// with no filters.
func NewWorkspaceService(client api.Client, log logging.Logger) WorkspaceService {
	return &workspaceService{client: client, log: log, page: 1}
}

func (w *workspaceService) query() api.TaskQuery {
	q := api.TaskQuery{Page: w.page, Search: w.search, Completed: w.completed}
	if w.categoryFilter != nil {
		q.Category = strconv.Itoa(*w.categoryFilter)
	}
	return q
}

func (w *workspaceService) Refresh(ctx context.Context) error {
	page, err := w.client.ListTasks(ctx, w.query())
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	categories, err := w.client.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	w.tasks = page.Results
	w.count = page.Count
	w.categories = categories
	return nil
}

// refreshAfterWrite resynchronizes after a confirmed mutation. A failed
// refetch leaves the previous state displayed and is logged, not surfaced:
// the write itself succeeded.
func (w *workspaceService) refreshAfterWrite(ctx context.Context) {
	if err := w.Refresh(ctx); err != nil {
		w.log.Error(ctx, "refetch after write failed", "error", err)
	}
}

func (w *workspaceService) Tasks() []models.Task {
	return w.tasks
}

func (w *workspaceService) Categories() []models.Category {
	return w.categories
}

func (w *workspaceService) TaskByID(id int) (*models.Task, bool) {
	for i := range w.tasks {
		if w.tasks[i].ID == id {
			return &w.tasks[i], true
		}
	}
	return nil, false
}

func (w *workspaceService) CategoryByID(id int) (*models.Category, bool) {
	for i := range w.categories {
		if w.categories[i].ID == id {
			return &w.categories[i], true
		}
	}
	return nil, false
}

func (w *workspaceService) Page() int {
	return w.page
}

func (w *workspaceService) TotalPages() int {
	p := models.TaskPage{Count: w.count}
	return p.TotalPages(common.PageSize)
}

func (w *workspaceService) DisplayPage() (int, int) {
	total := w.TotalPages()
	if total < 1 {
		total = 1
	}
	return w.page, total
}

func (w *workspaceService) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1", common.ErrValidation)
	}
	if total := w.TotalPages(); total > 0 && page > total {
		return fmt.Errorf("%w: page %d is beyond the last page %d", common.ErrValidation, page, total)
	}
	w.page = page
	return w.Refresh(ctx)
}

func (w *workspaceService) NextPage(ctx context.Context) error {
	if w.page >= w.TotalPages() {
		return nil
	}
	w.page++
	return w.Refresh(ctx)
}

func (w *workspaceService) PrevPage(ctx context.Context) error {
	if w.page <= 1 {
		return nil
	}
	w.page--
	return w.Refresh(ctx)
}

func (w *workspaceService) Search() string {
	return w.search
}

// SetSearch changes the text filter and resets to the first page: the old
// position is meaningless against a different result set.
func (w *workspaceService) SetSearch(ctx context.Context, text string) error {
	w.search = strings.TrimSpace(text)
	w.page = 1
	return w.Refresh(ctx)
}

func (w *workspaceService) CompletedFilter() string {
	return w.completed
}

func (w *workspaceService) SetCompletedFilter(ctx context.Context, value string) error {
	switch value {
	case "", "true", "false":
	default:
		return fmt.Errorf("%w: completed filter must be empty, true or false", common.ErrValidation)
	}
	w.completed = value
	w.page = 1
	return w.Refresh(ctx)
}

func (w *workspaceService) CategoryFilter() *int {
	return w.categoryFilter
}

func (w *workspaceService) SetCategoryFilter(ctx context.Context, id *int) error {
	w.categoryFilter = id
	w.page = 1
	return w.Refresh(ctx)
}

func (w *workspaceService) CreateTask(ctx context.Context, title string, categoryID *int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	fields := map[string]any{"title": title}
	if categoryID != nil {
		fields["category"] = *categoryID
	}
	if err := w.client.CreateTask(ctx, fields); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	w.refreshAfterWrite(ctx)
	return nil
}

func (w *workspaceService) UpdateTask(ctx context.Context, id int, changes TaskChanges) error {
	fields := changes.payload()
	if len(fields) == 0 {
		return nil
	}
	if _, err := w.client.UpdateTask(ctx, id, fields); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	w.refreshAfterWrite(ctx)
	return nil
}

// ToggleCompletion flips the completed flag via a partial update.
func (w *workspaceService) ToggleCompletion(ctx context.Context, task *models.Task) error {
	flipped := !task.Completed
	return w.UpdateTask(ctx, task.ID, TaskChanges{Completed: &flipped})
}

func (w *workspaceService) DeleteTask(ctx context.Context, id int) error {
	if err := w.client.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	w.refreshAfterWrite(ctx)
	return nil
}

// ShareTask grants targetUserID visibility into the task. The current share
// set comes from the already-loaded task detail; if the target is already in
// it, the call is a local no-op returning common.ErrAlreadyShared and no
// request is sent. Otherwise the union of the existing set and the new id is
// sent, since the endpoint treats shared_with as an authoritative overwrite.
func (w *workspaceService) ShareTask(ctx context.Context, task *models.Task, targetUserID int) error {
	if task.IsSharedWith(targetUserID) {
		return common.ErrAlreadyShared
	}

	shared := append(task.ShareSet(), targetUserID)
	if _, err := w.client.UpdateTask(ctx, task.ID, map[string]any{"shared_with": shared}); err != nil {
		return fmt.Errorf("share task: %w", err)
	}

	w.refreshAfterWrite(ctx)
	return nil
}

func (w *workspaceService) CreateCategory(ctx context.Context, name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	color, err := normalizeColor(color)
	if err != nil {
		return err
	}

	if err := w.client.CreateCategory(ctx, name, color); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	w.refreshAfterWrite(ctx)
	return nil
}

func (w *workspaceService) UpdateCategory(ctx context.Context, id int, name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	color, err := normalizeColor(color)
	if err != nil {
		return err
	}

	if err := w.client.UpdateCategory(ctx, id, name, color); err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	w.refreshAfterWrite(ctx)
	return nil
}

// DeleteCategory removes the category. When the deleted category is the
// active filter, the filter is cleared as well, so the view never points at
// a category that no longer exists. Tasks referencing it fall back to
// uncategorized on the server.
func (w *workspaceService) DeleteCategory(ctx context.Context, id int) error {
	if err := w.client.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if w.categoryFilter != nil && *w.categoryFilter == id {
		w.categoryFilter = nil
		w.page = 1
	}

	w.refreshAfterWrite(ctx)
	return nil
}

func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return DefaultCategoryColor, nil
	}
	if !colorPattern.MatchString(color) {
		return "", fmt.Errorf("%w: color must look like #rrggbb", common.ErrValidation)
	}
	return strings.ToLower(color), nil
}
