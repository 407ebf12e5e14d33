// Package api implements the TaskMaster backend's REST contract. It exposes
// a narrow Client interface so services can be tested against fakes, plus an
// HTTP implementation with uniform error mapping.
package api

import (
	"context"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
)

// Registration carries the fields accepted by the registration endpoint.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TaskQuery is a combined paging/filtering query for the task listing.
// Empty string filters mean "no constraint on that dimension"; Completed is
// "" | "true" | "false" and Category is "" or a category id.
type TaskQuery struct {
	Page      int
	Search    string
	Completed string
	Category  string
}

// Client is the remote API surface used by the session and workspace
// services. All methods honor context cancellation and return sentinel
// errors from internal/common (possibly wrapped) on failure.
type Client interface {
	// ObtainToken exchanges credentials for a token pair. Rejected
	// credentials yield common.ErrUnauthorized.
	ObtainToken(ctx context.Context, username, password string) (*models.TokenPair, error)

	// Register creates a new account. It does not establish a session.
	// Invalid input yields a *ValidationError.
	Register(ctx context.Context, reg Registration) error

	ListTasks(ctx context.Context, q TaskQuery) (*models.TaskPage, error)
	CreateTask(ctx context.Context, fields map[string]any) error
	// UpdateTask sends a partial update; only the keys present in fields
	// reach the wire.
	UpdateTask(ctx context.Context, id int, fields map[string]any) (*models.Task, error)
	DeleteTask(ctx context.Context, id int) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, color string) error
	UpdateCategory(ctx context.Context, id int, name, color string) error
	DeleteCategory(ctx context.Context, id int) error

	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}
