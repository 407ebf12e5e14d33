package services

import (
	"context"
	"sync"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/api"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
)

// fakeClient implements api.Client for service unit tests. It records the
// last arguments per method and returns configured results. Safe for
// concurrent use so the debounced searcher can hit it from timer goroutines.
type fakeClient struct {
	mu sync.Mutex

	ObtainTokenRet *models.TokenPair
	ObtainTokenErr error
	LastTokenUser  string
	LastTokenPass  string

	RegisterErr      error
	LastRegistration api.Registration

	ListTasksRet   *models.TaskPage
	ListTasksErr   error
	ListTasksCalls int
	LastTaskQuery  api.TaskQuery

	CreateTaskErr    error
	LastCreateFields map[string]any

	UpdateTaskRet    *models.Task
	UpdateTaskErr    error
	UpdateTaskCalls  int
	LastUpdateID     int
	LastUpdateFields map[string]any

	DeleteTaskErr error
	LastDeleteID  int

	ListCategoriesRet []models.Category
	ListCategoriesErr error

	CreateCategoryErr error
	LastCategoryName  string
	LastCategoryColor string

	UpdateCategoryErr  error
	LastUpdateCatID    int
	LastUpdateCatName  string
	LastUpdateCatColor string

	DeleteCategoryErr error
	LastDeleteCatID   int

	SearchUsersRet   []models.User
	SearchUsersErr   error
	SearchUsersCalls int
	LastSearchQuery  string
	// searchBlock, when non-nil, is received from before SearchUsers
	// returns, letting tests hold a request in flight.
	searchBlock chan struct{}
}

func (f *fakeClient) ObtainToken(ctx context.Context, username, password string) (*models.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastTokenUser = username
	f.LastTokenPass = password
	return f.ObtainTokenRet, f.ObtainTokenErr
}

func (f *fakeClient) Register(ctx context.Context, reg api.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRegistration = reg
	return f.RegisterErr
}

func (f *fakeClient) ListTasks(ctx context.Context, q api.TaskQuery) (*models.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListTasksCalls++
	f.LastTaskQuery = q
	return f.ListTasksRet, f.ListTasksErr
}

func (f *fakeClient) CreateTask(ctx context.Context, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastCreateFields = fields
	return f.CreateTaskErr
}

func (f *fakeClient) UpdateTask(ctx context.Context, id int, fields map[string]any) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateTaskCalls++
	f.LastUpdateID = id
	f.LastUpdateFields = fields
	return f.UpdateTaskRet, f.UpdateTaskErr
}

func (f *fakeClient) DeleteTask(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastDeleteID = id
	return f.DeleteTaskErr
}

func (f *fakeClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCategoriesRet, f.ListCategoriesErr
}

func (f *fakeClient) CreateCategory(ctx context.Context, name, color string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastCategoryName = name
	f.LastCategoryColor = color
	return f.CreateCategoryErr
}

func (f *fakeClient) UpdateCategory(ctx context.Context, id int, name, color string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUpdateCatID = id
	f.LastUpdateCatName = name
	f.LastUpdateCatColor = color
	return f.UpdateCategoryErr
}

func (f *fakeClient) DeleteCategory(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastDeleteCatID = id
	return f.DeleteCategoryErr
}

func (f *fakeClient) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	f.mu.Lock()
	f.SearchUsersCalls++
	f.LastSearchQuery = query
	ret, err := f.SearchUsersRet, f.SearchUsersErr
	block := f.searchBlock
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return ret, err
}

func (f *fakeClient) searchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SearchUsersCalls
}

func (f *fakeClient) lastSearch() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LastSearchQuery
}
